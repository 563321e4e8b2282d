package statusmap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jroosing/forge/internal/probe"
)

func TestSetAndGet(t *testing.T) {
	m := New()
	m.Set("api", probe.Outcome{EndpointName: "api", IsUp: true})

	out, ok := m.Get("api")
	require.True(t, ok)
	require.True(t, out.IsUp)

	_, ok = m.Get("missing")
	require.False(t, ok)
}

func TestPurge(t *testing.T) {
	m := New()
	m.Set("api", probe.Outcome{EndpointName: "api"})
	m.Purge("api")

	_, ok := m.Get("api")
	require.False(t, ok)
}

func TestSnapshotSortedCaseInsensitive(t *testing.T) {
	m := New()
	m.Set("Zeta", probe.Outcome{EndpointName: "Zeta"})
	m.Set("alpha", probe.Outcome{EndpointName: "alpha"})
	m.Set("Beta", probe.Outcome{EndpointName: "Beta"})

	snap := m.Snapshot()
	require.Len(t, snap, 3)
	require.Equal(t, []string{"alpha", "Beta", "Zeta"}, []string{
		snap[0].EndpointName, snap[1].EndpointName, snap[2].EndpointName,
	})
}

func TestLen(t *testing.T) {
	m := New()
	require.Equal(t, 0, m.Len())
	m.Set("a", probe.Outcome{})
	m.Set("b", probe.Outcome{})
	require.Equal(t, 2, m.Len())
}
