package idgen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveIDStable(t *testing.T) {
	id1 := DeriveID("alpha")
	id2 := DeriveID("alpha")
	require.Equal(t, id1, id2)
	require.Len(t, id1, 26)
}

func TestDeriveIDDistinctForDistinctNames(t *testing.T) {
	names := []string{"alpha", "beta", "zebra", "alpha-service", "alpha_service", ""}
	seen := make(map[string]string, len(names))
	for _, n := range names {
		id := DeriveID(n)
		if existing, ok := seen[id]; ok {
			t.Fatalf("collision between %q and %q: both derive %q", n, existing, id)
		}
		seen[id] = n
	}
}

func TestDeriveIDRenameProducesNewSeries(t *testing.T) {
	require.NotEqual(t, DeriveID("service-a"), DeriveID("service-b"))
}
