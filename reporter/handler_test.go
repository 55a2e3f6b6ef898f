package reporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svfront/svfront/ids"
)

func TestHandlerAccumulatesDiagnostics(t *testing.T) {
	h := NewHandler(nil)
	pos := Location{File: ids.PathId(1), StartLine: 3, StartColumn: 1}

	require.NoError(t, h.HandleWarningf(pos, UhdmUnsupportedStmt, "unsupported statement %q", "foo"))
	require.NoError(t, h.Error())

	require.NoError(t, h.HandleFatalf(pos, PPRecursiveMacro, "macro cycle: %s -> %s", "A", "B"))
	assert.Equal(t, 1, h.FatalCount())
	assert.ErrorIs(t, h.Error(), ErrInvalidSource)

	diags := h.Diagnostics()
	require.Len(t, diags, 2)
	assert.Equal(t, Warning, diags[0].Severity)
	assert.Equal(t, Fatal, diags[1].Severity)
}

func TestSubHandlerMerge(t *testing.T) {
	h := NewHandler(nil)
	sub := h.SubHandler()

	pos := Location{File: ids.PathId(2), StartLine: 1, StartColumn: 1}
	require.NoError(t, sub.HandleFatalf(pos, PASyntaxError, "bad token"))

	// not yet visible on the parent until merged
	assert.Equal(t, 0, h.FatalCount())

	h.Merge(sub)
	assert.Equal(t, 1, h.FatalCount())
	assert.Len(t, h.Diagnostics(), 1)
}

func TestMutedHandlerDropsDiagnostics(t *testing.T) {
	h := NewHandler(nil)
	h.Mute(true)
	require.NoError(t, h.HandleFatalf(Location{}, PPRecursiveMacro, "speculative cycle"))
	assert.Equal(t, 0, h.FatalCount())
	assert.Empty(t, h.Diagnostics())

	h.Mute(false)
	require.NoError(t, h.HandleFatalf(Location{}, PPRecursiveMacro, "real cycle"))
	assert.Equal(t, 1, h.FatalCount())
}
