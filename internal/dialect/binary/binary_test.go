package binary

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberdeco/bg3kit/internal/pathtrans"
	"github.com/cyberdeco/bg3kit/internal/procmon"
	"github.com/cyberdeco/bg3kit/internal/treedoc"
)

var testTranslator = pathtrans.New('Z')

const sampleLSX = `<?xml version="1.0" encoding="UTF-8"?>
<save>
  <region id="config">
    <node id="Root">
      <attribute id="Name" type="string" value="Test"/>
    </node>
  </region>
</save>
`

// fakeConverter stands in for the real external converter: it copies the
// file named by --source to --destination, optionally failing or
// transforming content, so tests can exercise staging/cleanup without a
// real binary.
type fakeConverter struct {
	result    *procmon.Result
	transform func([]byte) []byte
}

func (f *fakeConverter) Run(ctx context.Context, args ...string) *procmon.Handle {
	progress := make(chan procmon.Progress)
	close(progress)
	done := make(chan procmon.Result, 1)

	var emulatedIn, emulatedOut string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--source":
			if i+1 < len(args) {
				emulatedIn = args[i+1]
			}
		case "--destination":
			if i+1 < len(args) {
				emulatedOut = args[i+1]
			}
		}
	}

	go func() {
		if f.result != nil {
			done <- *f.result
			return
		}
		in, err := testTranslator.FromEmulated(emulatedIn)
		if err != nil {
			done <- procmon.Result{Status: procmon.StatusFailed, Err: err}
			return
		}
		out, err := testTranslator.FromEmulated(emulatedOut)
		if err != nil {
			done <- procmon.Result{Status: procmon.StatusFailed, Err: err}
			return
		}
		content, err := os.ReadFile(in)
		if err != nil {
			done <- procmon.Result{Status: procmon.StatusFailed, Err: err}
			return
		}
		if f.transform != nil {
			content = f.transform(content)
		}
		if err := os.WriteFile(out, content, 0o644); err != nil {
			done <- procmon.Result{Status: procmon.StatusFailed, Err: err}
			return
		}
		done <- procmon.Result{Status: procmon.StatusSucceeded}
	}()

	return &procmon.Handle{Progress: progress, Done: done, Cancel: func() {}}
}

func TestParse_Success(t *testing.T) {
	lsfPath := filepath.Join(t.TempDir(), "fake.lsf")
	require.NoError(t, os.WriteFile(lsfPath, []byte(sampleLSX), 0o644))

	codec := New(&fakeConverter{}, testTranslator)
	doc, err := codec.Parse(context.Background(), lsfPath)
	require.NoError(t, err)

	assert.Equal(t, treedoc.FormatBinary, doc.FormatTag)
	require.Len(t, doc.Regions, 1)
	assert.Equal(t, "config", doc.Regions[0].ID)
}

func TestParse_ConverterFails(t *testing.T) {
	lsfPath := filepath.Join(t.TempDir(), "fake.lsf")
	require.NoError(t, os.WriteFile(lsfPath, []byte("anything"), 0o644))

	codec := New(&fakeConverter{result: &procmon.Result{
		Status: procmon.StatusFailed, ExitCode: 2, Stderr: "bad input",
	}}, testTranslator)
	_, err := codec.Parse(context.Background(), lsfPath)
	assert.Error(t, err)
}

func TestParse_ConverterCancelled(t *testing.T) {
	lsfPath := filepath.Join(t.TempDir(), "fake.lsf")
	require.NoError(t, os.WriteFile(lsfPath, []byte("anything"), 0o644))

	codec := New(&fakeConverter{result: &procmon.Result{Status: procmon.StatusCancelled}}, testTranslator)
	_, err := codec.Parse(context.Background(), lsfPath)
	assert.Error(t, err)
}

func TestWrite_Success(t *testing.T) {
	doc := treedoc.Document{
		RootTag: "save",
		Regions: []treedoc.Region{{
			ID: "config",
			Nodes: []treedoc.Node{{
				ID:         "Root",
				Attributes: []treedoc.Attribute{{ID: "Name", Type: "string", Value: "Test"}},
			}},
		}},
	}

	outPath := filepath.Join(t.TempDir(), "out.lsf")
	codec := New(&fakeConverter{}, testTranslator)
	err := codec.Write(context.Background(), doc, outPath)
	require.NoError(t, err)

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `id="Root"`)
}

func TestWrite_ConverterFails(t *testing.T) {
	doc := treedoc.Document{RootTag: "save"}
	outPath := filepath.Join(t.TempDir(), "out.lsf")
	codec := New(&fakeConverter{result: &procmon.Result{Status: procmon.StatusFailed, Stderr: "boom"}}, testTranslator)
	err := codec.Write(context.Background(), doc, outPath)
	assert.Error(t, err)
}

func TestParse_ScratchDirCleanedUp(t *testing.T) {
	lsfPath := filepath.Join(t.TempDir(), "fake.lsf")
	require.NoError(t, os.WriteFile(lsfPath, []byte(sampleLSX), 0o644))

	var capturedDir string
	codec := New(&fakeConverter{transform: func(b []byte) []byte {
		return b
	}}, testTranslator)
	_, err := codec.Parse(context.Background(), lsfPath)
	require.NoError(t, err)

	// The scratch dir is created under os.TempDir() with the bg3kit-lsf-
	// prefix and removed on return; assert no matching dir lingers.
	entries, err := os.ReadDir(os.TempDir())
	require.NoError(t, err)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "bg3kit-lsf-") {
			capturedDir = e.Name()
		}
	}
	assert.Empty(t, capturedDir, "scratch dir should be removed after Parse returns")
}
