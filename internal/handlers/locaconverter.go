package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cyberdeco/bg3kit/internal/pathtrans"
	"github.com/cyberdeco/bg3kit/internal/procmon"
)

// converterRunner is the minimal surface ProcessLocaConverter needs from
// procmon.Monitor, narrowed so tests can supply a fake.
type converterRunner interface {
	Run(ctx context.Context, args ...string) *procmon.Handle
}

// ProcessLocaConverter implements LocaConverter against the external
// converter, the same "convert-resource" verb the binary dialect codec
// drives, targeting "xml" instead of "lsx".
type ProcessLocaConverter struct {
	converter  converterRunner
	translator pathtrans.Translator
}

// NewProcessLocaConverter builds a ProcessLocaConverter that drives
// converter for every .loca-to-XML conversion.
func NewProcessLocaConverter(converter converterRunner, translator pathtrans.Translator) *ProcessLocaConverter {
	return &ProcessLocaConverter{converter: converter, translator: translator}
}

// ConvertLocaToXML converts the .loca file at path to XML on a scratch temp
// file and returns its contents.
func (c *ProcessLocaConverter) ConvertLocaToXML(ctx context.Context, path string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "bg3kit-loca-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmpDir)

	outPath := filepath.Join(tmpDir, "converted.xml")

	emulatedIn, err := c.translator.ToEmulated(path)
	if err != nil {
		return "", fmt.Errorf("translate input path: %w", err)
	}
	emulatedOut, err := c.translator.ToEmulated(outPath)
	if err != nil {
		return "", fmt.Errorf("translate output path: %w", err)
	}

	h := c.converter.Run(ctx,
		"--action", "convert-resource",
		"--game", "bg3",
		"--source", emulatedIn,
		"--destination", emulatedOut,
		"--input-format", "loca",
		"--output-format", "xml",
	)
	for range h.Progress {
	}
	result := <-h.Done

	switch result.Status {
	case procmon.StatusSucceeded:
	case procmon.StatusCancelled:
		return "", fmt.Errorf("conversion cancelled: %w", result.Err)
	case procmon.StatusKilledAfterTimeout:
		return "", fmt.Errorf("conversion timed out: %w", result.Err)
	default:
		return "", fmt.Errorf("conversion failed (exit %d): %s", result.ExitCode, result.Stderr)
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
