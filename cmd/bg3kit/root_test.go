package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/cyberdeco/bg3kit/internal/bgerr"
)

func TestExitCodeFor_Success(t *testing.T) {
	assert.Equal(t, 0, exitCodeFor(nil))
}

func TestExitCodeFor_InvalidArgs(t *testing.T) {
	err := fmt.Errorf("bad flag: %w", errInvalidArgs)
	assert.Equal(t, 2, exitCodeFor(err))
}

func TestExitCodeFor_MissingExternalTool(t *testing.T) {
	err := bgerr.New("procmon.Probe", bgerr.KindUnsupported, errors.New("not found"))
	assert.Equal(t, 3, exitCodeFor(err))
}

func TestExitCodeFor_Cancellation(t *testing.T) {
	assert.Equal(t, 4, exitCodeFor(bgerr.New("op", bgerr.KindCancelled, context.Canceled)))
	assert.Equal(t, 4, exitCodeFor(context.Canceled))
}

func TestExitCodeFor_GenericFailure(t *testing.T) {
	assert.Equal(t, 1, exitCodeFor(errors.New("boom")))
}

func TestConverterPath_ReadsFlag(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("converter", "/usr/bin/divine", "")
	assert.Equal(t, "/usr/bin/divine", converterPath(cmd))
}
