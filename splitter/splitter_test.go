package splitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnalyzeFileBelowThresholdReturnsSingleChunk(t *testing.T) {
	content := "module m;\nendmodule\n"
	chunks := AnalyzeFile(content, 100)
	require.Len(t, chunks, 1)
	require.Equal(t, content, chunks[0].Text)
}

func TestAnalyzeFileSplitsAtTopLevelDecls(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 5; i++ {
		b.WriteString("module m")
		b.WriteByte(byte('0' + i))
		b.WriteString(";\n  logic a;\nendmodule\n")
	}
	chunks := AnalyzeFile(b.String(), 3)
	require.Len(t, chunks, 5)
	for i, c := range chunks {
		require.True(t, strings.HasPrefix(strings.TrimSpace(c.Text), "module m"+string(rune('0'+i))))
	}
}
