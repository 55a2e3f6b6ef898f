package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svfront/svfront/reporter"
)

func TestRunExecutesEveryItem(t *testing.T) {
	h := reporter.NewHandler(nil)
	e := New(h, 4)

	seen := make([]bool, 10)
	var seenMu sync.Mutex
	err := e.Run(context.Background(), len(seen), func(_ context.Context, _ *reporter.Handler, i int) error {
		seenMu.Lock()
		seen[i] = true
		seenMu.Unlock()
		return nil
	})
	require.NoError(t, err)
	for i, v := range seen {
		require.True(t, v, "item %d not processed", i)
	}
}

func TestRunMergesWorkerDiagnostics(t *testing.T) {
	h := reporter.NewHandler(nil)
	e := New(h, 2)

	err := e.Run(context.Background(), 3, func(_ context.Context, sub *reporter.Handler, i int) error {
		if i == 1 {
			sub.HandleErrorf(reporter.Location{}, reporter.PPSyntax, "boom")
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, h.Diagnostics(), 1)
}

func TestRunRecoversPanic(t *testing.T) {
	h := reporter.NewHandler(nil)
	e := New(h, 2)

	err := e.Run(context.Background(), 2, func(_ context.Context, _ *reporter.Handler, i int) error {
		if i == 0 {
			panic("boom")
		}
		return nil
	})
	require.Error(t, err)
	var pe PanicError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, 0, pe.Index)
}
