package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyIsStableAndOrderIndependent(t *testing.T) {
	k1 := Key("a.sv", []byte("module a; endmodule"), []string{"FOO", "BAR"})
	k2 := Key("a.sv", []byte("module a; endmodule"), []string{"BAR", "FOO"})
	require.Equal(t, k1, k2)
}

func TestKeyChangesWithContent(t *testing.T) {
	k1 := Key("a.sv", []byte("module a; endmodule"), nil)
	k2 := Key("a.sv", []byte("module b; endmodule"), nil)
	require.NotEqual(t, k1, k2)
}

func TestKeyChangesWithDefinedMacros(t *testing.T) {
	k1 := Key("a.sv", []byte("module a; endmodule"), []string{"FOO"})
	k2 := Key("a.sv", []byte("module a; endmodule"), []string{"FOO", "BAR"})
	require.NotEqual(t, k1, k2)
}

func TestPreprocessCacheGetPut(t *testing.T) {
	c := NewPreprocessCache(t.TempDir(), nil)
	key := Key("a.sv", []byte("x"), nil)

	_, ok := c.Get(key)
	require.False(t, ok)

	c.Put(key, nil)
	_, ok = c.Get(key)
	require.True(t, ok)
}
