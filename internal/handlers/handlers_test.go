package handlers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestRegistry_DispatchesByExtension(t *testing.T) {
	r := NewRegistry()

	cases := map[string]string{
		"a.lsx":  "textual",
		"a.xml":  "textual",
		"a.lsj":  "json",
		"a.json": "json",
		"a.loca": "localization",
		"a.dds":  "texture",
		"a.gr2":  "model",
		"a.bshd": "shader",
		"a.shd":  "shader",
		"a.txt":  "plaintext",
	}
	for path, want := range cases {
		h, ok := r.HandlerFor(path)
		require.True(t, ok, path)
		assert.Equal(t, want, h.Name(), path)
	}
}

func TestRegistry_UnsupportedExtension(t *testing.T) {
	r := NewRegistry()
	_, ok := r.HandlerFor("a.weirdext")
	assert.False(t, ok)
	assert.False(t, r.IsSupported("a.weirdext"))
}

func TestRegistry_WithLocaHandlerReplacesInPlace(t *testing.T) {
	r := NewRegistry(WithLocaHandler(NewLocaHandler(&fakeLocaConverter{xml: "<root/>"})))

	h, ok := r.HandlerFor("a.loca")
	require.True(t, ok)
	rec, err := h.Preview(context.Background(), writeTemp(t, "a.loca", []byte("binary placeholder")))
	require.NoError(t, err)
	assert.Empty(t, rec.Err)

	// Dispatch order is unaffected: textual/json still claim their own
	// extensions ahead of loca.
	h, ok = r.HandlerFor("a.lsx")
	require.True(t, ok)
	assert.Equal(t, "textual", h.Name())
}

func TestRegistry_SupportedExtensionsNonEmpty(t *testing.T) {
	r := NewRegistry()
	exts := r.SupportedExtensions()
	assert.Contains(t, exts, ".lsx")
	assert.Contains(t, exts, ".txt")
}

func TestTextualHandler_PreviewAppendsFileInfo(t *testing.T) {
	content := []byte(`<?xml version="1.0"?><save><region id="config"><node id="Root">` +
		`<attribute id="Name" type="string" value="Test"/></node></region></save>`)
	path := writeTemp(t, "a.lsx", content)

	h := NewTextualHandler()
	rec, err := h.Preview(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, rec.Err)
	assert.Contains(t, rec.Content, "BG3 FILE INFO")
	assert.Contains(t, rec.Content, "Regions: 1")
	assert.Equal(t, "save", rec.Metadata["root_tag"])
}

func TestTextualHandler_InvalidContent(t *testing.T) {
	path := writeTemp(t, "a.lsx", []byte("not xml"))
	h := NewTextualHandler()
	rec, err := h.Preview(context.Background(), path)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.Err)
}

func TestJSONHandler_PreviewAppendsFileInfo(t *testing.T) {
	content := []byte(`{"save": {"header": {"version": "4"}, "regions": {
		"config": {"node": [{"id": "Root", "attribute": [{"id": "Name", "type": "string", "value": "Test"}]}]}
	}}}`)
	path := writeTemp(t, "a.lsj", content)

	h := NewJSONHandler()
	rec, err := h.Preview(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, rec.Err)
	assert.Contains(t, rec.Content, "BG3 FILE INFO")
	assert.Equal(t, "4", rec.Metadata["version"])
}

func TestModelHandler_CountsTokens(t *testing.T) {
	content := []byte("this file has a mesh and a bone and another bone reference")
	path := writeTemp(t, "a.gr2", content)

	h := NewModelHandler()
	rec, err := h.Preview(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "1", rec.Metadata["mesh_count"])
	assert.Equal(t, "2", rec.Metadata["bone_count"])
}

func TestShaderHandler_InfersFromFilename(t *testing.T) {
	path := writeTemp(t, "water_vs_dx11.bshd", []byte{0xDE, 0xAD, 0xBE, 0xEF})

	h := NewShaderHandler()
	rec, err := h.Preview(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "vertex", rec.Metadata["stage"])
	assert.Equal(t, "DirectX 11", rec.Metadata["api"])
	assert.Equal(t, "deadbeef", rec.Metadata["magic"])
}

func TestTextureHandler_PlaceholderOnShortHeader(t *testing.T) {
	path := writeTemp(t, "a.dds", []byte("DDS "))

	h := NewTextureHandler(nil)
	rec, err := h.Preview(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, rec.Content, "placeholder")
}

func TestTextureHandler_ParsesHeader(t *testing.T) {
	header := make([]byte, 128)
	copy(header[0:4], "DDS ")
	putUint32LE(header, 12, 256)  // width
	putUint32LE(header, 16, 128)  // height
	putUint32LE(header, 28, 4)    // mipmap count
	copy(header[84:88], "DXT1")
	path := writeTemp(t, "a.dds", header)

	h := NewTextureHandler(nil)
	rec, err := h.Preview(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "256", rec.Metadata["width"])
	assert.Equal(t, "128", rec.Metadata["height"])
	assert.Equal(t, "DXT1", rec.Metadata["pixel_format"])
}

func putUint32LE(b []byte, offset int, v uint32) {
	b[offset] = byte(v)
	b[offset+1] = byte(v >> 8)
	b[offset+2] = byte(v >> 16)
	b[offset+3] = byte(v >> 24)
}

type fakeLocaConverter struct{ xml string }

func (f *fakeLocaConverter) ConvertLocaToXML(ctx context.Context, path string) (string, error) {
	return f.xml, nil
}

func TestExtractEntries(t *testing.T) {
	xmlText := `<contentList>
		<content contentuid="h001" version="1">Hello</content>
		<content contentuid="h002" version="1">World</content>
	</contentList>`
	entries, err := ExtractEntries(context.Background(), "ignored", &fakeLocaConverter{xml: xmlText})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "h001", entries[0].ContentUID)
	assert.Equal(t, "Hello", entries[0].Text)
}

func TestLocaHandler_TruncatesAfterFive(t *testing.T) {
	var xmlText string
	for i := 0; i < 8; i++ {
		xmlText += `<content contentuid="h0` + string(rune('0'+i)) + `">text</content>`
	}
	path := writeTemp(t, "a.loca", []byte("binary loca placeholder"))

	h := NewLocaHandler(&fakeLocaConverter{xml: "<root>" + xmlText + "</root>"})
	rec, err := h.Preview(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, rec.Content, "more entries")
	assert.Equal(t, "8", rec.Metadata["entry_count"])
}

func TestPlainTextHandler_ReadsContent(t *testing.T) {
	path := writeTemp(t, "a.txt", []byte("hello world"))
	h := NewPlainTextHandler()
	rec, err := h.Preview(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", rec.Content)
}

func TestBinaryTreeHandler_NoConverterConfigured(t *testing.T) {
	path := writeTemp(t, "a.lsf", []byte("binary content"))
	h := NewBinaryTreeHandler(nil)
	rec, err := h.Preview(context.Background(), path)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.Err)
}
