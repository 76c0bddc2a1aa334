package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunCmdReportsExactMatchOnRepeatedValue(t *testing.T) {
	logger := zap.NewNop()
	root := newRootCmd(logger)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"run", "11", "12", "11"})

	require.NoError(t, root.Execute())
	assert.True(t, strings.Contains(out.String(), "match=true"))
}

func TestRunCmdReportsNoMatchForDistinctValues(t *testing.T) {
	logger := zap.NewNop()
	root := newRootCmd(logger)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"run", "0", "18446744073709551615"})

	require.NoError(t, root.Execute())
	assert.True(t, strings.Contains(out.String(), "match=false"))
}

func TestRunCmdRejectsNonNumericValue(t *testing.T) {
	logger := zap.NewNop()
	root := newRootCmd(logger)

	root.SetArgs([]string{"run", "not-a-number"})
	err := root.Execute()
	require.Error(t, err)
}

func TestRunCmdRequiresAtLeastOneValue(t *testing.T) {
	logger := zap.NewNop()
	root := newRootCmd(logger)

	root.SetArgs([]string{"run"})
	err := root.Execute()
	require.Error(t, err)
}
