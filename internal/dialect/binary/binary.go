// Package binary implements the binary-dialect ("LSF") codec. Unlike the
// textual and JSON dialects, the binary format is never parsed directly:
// every read or write round-trips through the external converter (spec
// §4.2, §4.5), which translates LSF to/from the textual dialect on a
// scratch temp file. This package owns only the staging and cleanup; the
// actual tree decode/encode is delegated to dialect/textual.
package binary

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cyberdeco/bg3kit/internal/bgerr"
	"github.com/cyberdeco/bg3kit/internal/dialect/textual"
	"github.com/cyberdeco/bg3kit/internal/pathtrans"
	"github.com/cyberdeco/bg3kit/internal/procmon"
	"github.com/cyberdeco/bg3kit/internal/treedoc"
)

// Converter is the minimal surface Codec needs from procmon.Monitor,
// narrowed so tests can supply a fake.
type Converter interface {
	Run(ctx context.Context, args ...string) *procmon.Handle
}

// Codec reads and writes the binary dialect via an external converter.
type Codec struct {
	converter  Converter
	translator pathtrans.Translator
}

// New builds a Codec that drives converter for every conversion, translating
// scratch paths through translator before they cross the converter's
// host-foreign ABI.
func New(converter Converter, translator pathtrans.Translator) *Codec {
	return &Codec{converter: converter, translator: translator}
}

// ParseToTextual converts the LSF file at path to the textual dialect and
// returns the raw textual-dialect XML text, without parsing it further.
// This is what the preview layer reuses so it can render the intermediate
// with the textual handler (spec §4.7's synthetic-header behavior).
func (c *Codec) ParseToTextual(ctx context.Context, path string) (string, error) {
	const op = "binary.ParseToTextual"

	tmpDir, err := os.MkdirTemp("", "bg3kit-lsf-*")
	if err != nil {
		return "", bgerr.New(op, bgerr.KindIO, err)
	}
	defer os.RemoveAll(tmpDir)

	outPath := filepath.Join(tmpDir, "converted.lsx")
	if err := c.convert(ctx, path, outPath, "lsf", "lsx"); err != nil {
		return "", bgerr.New(op, bgerr.KindConversionFailed, err)
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		return "", bgerr.New(op, bgerr.KindIO, err)
	}
	return string(content), nil
}

// Parse converts the LSF file at path to the textual dialect in a scratch
// directory, then parses that output with dialect/textual. The scratch
// file is always removed, even if the converter or parse step fails.
func (c *Codec) Parse(ctx context.Context, path string) (treedoc.Document, error) {
	const op = "binary.Parse"

	tmpDir, err := os.MkdirTemp("", "bg3kit-lsf-*")
	if err != nil {
		return treedoc.Document{}, bgerr.New(op, bgerr.KindIO, err)
	}
	defer os.RemoveAll(tmpDir)

	outPath := filepath.Join(tmpDir, "converted.lsx")
	if err := c.convert(ctx, path, outPath, "lsf", "lsx"); err != nil {
		return treedoc.Document{}, bgerr.New(op, bgerr.KindConversionFailed, err)
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		return treedoc.Document{}, bgerr.New(op, bgerr.KindIO, err)
	}

	doc, err := textual.ParseBytes(content)
	if err != nil {
		return treedoc.Document{}, bgerr.New(op, bgerr.KindInvalidFormat, err)
	}
	doc.FormatTag = treedoc.FormatBinary
	return doc, nil
}

// Write serializes doc through dialect/textual, then converts the result
// to LSF at outPath via the external converter.
func (c *Codec) Write(ctx context.Context, doc treedoc.Document, outPath string) error {
	const op = "binary.Write"

	tmpDir, err := os.MkdirTemp("", "bg3kit-lsf-*")
	if err != nil {
		return bgerr.New(op, bgerr.KindIO, err)
	}
	defer os.RemoveAll(tmpDir)

	scratchPath := filepath.Join(tmpDir, "scratch.lsx")
	f, err := os.Create(scratchPath)
	if err != nil {
		return bgerr.New(op, bgerr.KindIO, err)
	}
	writeErr := textual.Write(f, doc)
	closeErr := f.Close()
	if writeErr != nil {
		return bgerr.New(op, bgerr.KindIO, writeErr)
	}
	if closeErr != nil {
		return bgerr.New(op, bgerr.KindIO, closeErr)
	}

	if err := c.convert(ctx, scratchPath, outPath, "lsx", "lsf"); err != nil {
		return bgerr.New(op, bgerr.KindConversionFailed, err)
	}
	return nil
}

func (c *Codec) convert(ctx context.Context, inPath, outPath, inFormat, outFormat string) error {
	emulatedIn, err := c.translator.ToEmulated(inPath)
	if err != nil {
		return fmt.Errorf("translate input path: %w", err)
	}
	emulatedOut, err := c.translator.ToEmulated(outPath)
	if err != nil {
		return fmt.Errorf("translate output path: %w", err)
	}

	h := c.converter.Run(ctx,
		"--action", "convert-resource",
		"--game", "bg3",
		"--source", emulatedIn,
		"--destination", emulatedOut,
		"--input-format", inFormat,
		"--output-format", outFormat,
	)
	for range h.Progress {
		// Drained so the goroutine in procmon.Run never blocks on a full
		// buffer; callers that want progress use Monitor.Run directly.
	}
	res := <-h.Done

	switch res.Status {
	case procmon.StatusSucceeded:
		return nil
	case procmon.StatusCancelled:
		return fmt.Errorf("conversion cancelled: %w", res.Err)
	case procmon.StatusKilledAfterTimeout:
		return fmt.Errorf("conversion timed out: %w", res.Err)
	default:
		return fmt.Errorf("conversion failed (exit %d): %s", res.ExitCode, res.Stderr)
	}
}
