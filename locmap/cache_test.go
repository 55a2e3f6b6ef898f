package locmap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svfront/svfront/ids"
	"github.com/svfront/svfront/preprocess"
)

func TestMapLocationWithinRootFile(t *testing.T) {
	c := Build(ids.PathId(1), 10, nil)
	file, line, col := c.MapLocation(5, 3)
	require.Equal(t, ids.PathId(1), file)
	require.Equal(t, uint32(5), line)
	require.Equal(t, uint32(3), col)
}

func TestMapLocationInsideInclude(t *testing.T) {
	trace := []preprocess.IncludeFileInfo{
		{Context: preprocess.ContextInclude, Action: preprocess.ActionPush,
			SectionFile: ids.PathId(2), ExpandedStartLine: 5, ExpandedEndLine: 8},
		{Context: preprocess.ContextInclude, Action: preprocess.ActionPop,
			SectionFile: ids.PathId(2), ExpandedStartLine: 8, ExpandedEndLine: 8},
	}
	c := Build(ids.PathId(1), 20, trace)

	file, line, _ := c.MapLocation(6, 1)
	require.Equal(t, ids.PathId(2), file)
	require.Equal(t, uint32(2), line) // second line of the included file

	file, line, _ = c.MapLocation(15, 1)
	require.Equal(t, ids.PathId(1), file)
	require.Equal(t, uint32(15), line)
}

func TestMapLocationInsideMacroPointsToCallSite(t *testing.T) {
	trace := []preprocess.IncludeFileInfo{
		{Context: preprocess.ContextMacro, Action: preprocess.ActionPush,
			OriginalFile: ids.PathId(1), OriginalStartLine: 7, ExpandedStartLine: 7, ExpandedEndLine: 7},
		{Context: preprocess.ContextMacro, Action: preprocess.ActionPop,
			OriginalFile: ids.PathId(1), ExpandedStartLine: 7, ExpandedEndLine: 7},
	}
	c := Build(ids.PathId(1), 10, trace)
	file, line, _ := c.MapLocation(7, 1)
	require.Equal(t, ids.PathId(1), file)
	require.Equal(t, uint32(7), line)
}
