package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberdeco/bg3kit/internal/convert"
)

func TestParseBatchRequests_ParsesSourceEqualsTarget(t *testing.T) {
	reqs, err := parseBatchRequests([]string{"a.lsx=lsf", "b.lsx=lsb"})
	require.NoError(t, err)
	assert.Equal(t, []convert.BatchRequest{
		{Source: "a.lsx", TargetFormat: "lsf"},
		{Source: "b.lsx", TargetFormat: "lsb"},
	}, reqs)
}

func TestParseBatchRequests_RejectsMissingEquals(t *testing.T) {
	_, err := parseBatchRequests([]string{"a.lsx"})
	assert.True(t, errors.Is(err, errInvalidArgs))
}

func TestParseBatchRequests_RejectsEmptySourceOrTarget(t *testing.T) {
	_, err := parseBatchRequests([]string{"=lsf"})
	assert.True(t, errors.Is(err, errInvalidArgs))

	_, err = parseBatchRequests([]string{"a.lsx="})
	assert.True(t, errors.Is(err, errInvalidArgs))
}
