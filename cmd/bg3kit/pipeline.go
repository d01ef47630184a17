package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyberdeco/bg3kit/internal/bgerr"
	"github.com/cyberdeco/bg3kit/internal/config"
	"github.com/cyberdeco/bg3kit/internal/dialect/binary"
	"github.com/cyberdeco/bg3kit/internal/handlers"
	"github.com/cyberdeco/bg3kit/internal/pathtrans"
	"github.com/cyberdeco/bg3kit/internal/preview"
	"github.com/cyberdeco/bg3kit/internal/procmon"
)

// buildMonitor loads the layered (user then project) config file, overlays
// any explicitly set --converter/--drive-letter flags as the final
// override, and constructs the process monitor and path translator shared
// by every subcommand that drives the external converter. It probes the
// converter's availability before returning, and returns the resolved
// config.Options so callers can pull further component settings (cache
// capacity, worker count, scan excludes) from the same merged source.
func buildMonitor(ctx context.Context, cmd *cobra.Command) (*procmon.Monitor, pathtrans.Translator, config.Options, error) {
	const op = "cmd.buildMonitor"

	opts, err := config.Load()
	if err != nil {
		return nil, pathtrans.Translator{}, config.Options{}, bgerr.New(op, bgerr.KindIO, err)
	}

	if path := converterPath(cmd); path != "" {
		opts.Monitor.ConverterPath = path
	}
	if letter, _ := cmd.Flags().GetString("drive-letter"); letter != "" {
		opts.Process.DriveLetter = letter
	}

	if opts.Monitor.ConverterPath == "" {
		return nil, pathtrans.Translator{}, config.Options{}, errInvalidArgs
	}

	mon := procmon.New(opts.Monitor.ConverterPath, opts.Monitor.ToMonitorOptions())
	if err := mon.Probe(ctx); err != nil {
		return nil, pathtrans.Translator{}, config.Options{}, err
	}
	return mon, opts.Process.ToTranslator(), opts, nil
}

// buildPreviewEngine wires a preview.Engine whose binary-dialect handler
// is backed by mon, with an LRU cache of the given capacity (0 disables
// caching).
func buildPreviewEngine(mon *procmon.Monitor, translator pathtrans.Translator, cacheCapacity int) *preview.Engine {
	codec := binary.New(mon, translator)
	locaConverter := handlers.NewProcessLocaConverter(mon, translator)
	registry := handlers.NewRegistry(
		handlers.WithBinaryHandler(handlers.NewBinaryTreeHandler(codec)),
		handlers.WithLocaHandler(handlers.NewLocaHandler(locaConverter)),
	)
	var cache *preview.Cache
	if cacheCapacity > 0 {
		cache = preview.NewCache(cacheCapacity)
	}
	return preview.New(registry, cache)
}

// runConverterVerb drives mon with args to completion, forwarding
// progress to onProgress and returning the terminal Result. Used by the
// subcommands that invoke an opaque archive verb (extract-package,
// extract-single-file, create-package) directly rather than through
// convert's higher-level orchestration.
func runConverterVerb(ctx context.Context, mon *procmon.Monitor, onProgress func(int, string), args ...string) (procmon.Result, error) {
	const op = "cmd.runConverterVerb"
	h := mon.Run(ctx, args...)
	for p := range h.Progress {
		if onProgress != nil {
			onProgress(p.Percent, p.Message)
		}
	}
	result := <-h.Done
	switch result.Status {
	case procmon.StatusSucceeded:
		return result, nil
	case procmon.StatusCancelled:
		return result, bgerr.New(op, bgerr.KindCancelled, result.Err)
	default:
		return result, bgerr.New(op, bgerr.KindConversionFailed, fmt.Errorf("%s: %s", result.Status, result.Stderr))
	}
}
