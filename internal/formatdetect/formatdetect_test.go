package formatdetect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect_ByExtension(t *testing.T) {
	cases := map[string]Kind{
		"foo.lsx":  Textual,
		"foo.lsj":  JSON,
		"foo.lsf":  Binary,
		"foo.lsfx": Binary,
		"foo.lsbs": Binary,
		"foo.lsbc": Binary,
		"foo.loca": Localization,
		"foo.dds":  Texture,
		"foo.gr2":  Model,
		"foo.bshd": Shader,
		"foo.shd":  Shader,
		"foo.pak":  Package,
		"foo.xml":  Textual,
		"foo.json": JSON,
		"foo.txt":  PlainText,
	}
	for path, want := range cases {
		assert.Equal(t, want, Detect(path, nil), path)
	}
}

func TestDetect_ExtensionCaseInsensitive(t *testing.T) {
	assert.Equal(t, Binary, Detect("FOO.LSF", nil))
}

func TestDetect_MagicBytesNoExtension(t *testing.T) {
	assert.Equal(t, Binary, Detect("mystery", []byte("LSOF")))
	assert.Equal(t, Binary, Detect("mystery", []byte("LSFW")))
	assert.Equal(t, Binary, Detect("mystery", []byte("LSFM")))
	assert.Equal(t, Texture, Detect("mystery", []byte("DDS ")))
	assert.Equal(t, Localization, Detect("mystery", []byte("LOCA")))
}

func TestDetect_MagicWinsOverUnknownExtension(t *testing.T) {
	assert.Equal(t, Binary, Detect("mystery.bin", []byte("LSOF...rest of content")))
}

func TestDetect_ShortContentFallsThroughToUnknown(t *testing.T) {
	// S4: a 3-byte file whose first bytes are "LSO" is shorter than the
	// 4-byte magic and never a confident prefix match -- falls through.
	assert.Equal(t, Unknown, Detect("mystery", []byte("LSO")))
}

func TestDetect_JSONSample(t *testing.T) {
	assert.Equal(t, JSON, Detect("mystery", []byte(`{"save": {}}`)))
}

func TestDetect_XMLSample(t *testing.T) {
	assert.Equal(t, Textual, Detect("mystery", []byte(`<?xml version="1.0"?><save/>`)))
}

func TestDetect_TotallyUnknown(t *testing.T) {
	assert.Equal(t, Unknown, Detect("mystery", []byte{0x01, 0x02, 0x03}))
}

func TestDetect_NeverPanics(t *testing.T) {
	assert.NotPanics(t, func() {
		Detect("", nil)
		Detect("", []byte{})
		Detect("noext", []byte{0xff})
	})
}
