package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManagerCreateAndGet(t *testing.T) {
	m := NewManager(testSeed(t), testOptions(nil), time.Hour)
	a := m.Create("id")
	b := m.Create("")
	require.NotEqual(t, a.ID(), b.ID())
	require.Equal(t, 2, m.Len())

	got, ok := m.Get(a.ID())
	require.True(t, ok)
	require.Same(t, a, got)
	require.Equal(t, "id", a.locale)
	require.Equal(t, "en", b.locale)

	_, ok = m.Get("missing")
	require.False(t, ok)
}

func TestManagerSessionsAreIsolated(t *testing.T) {
	m := NewManager(testSeed(t), testOptions(nil), time.Hour)
	a := m.Create("")
	b := m.Create("")

	a.Dispatch(context.Background(), Donate{ProjectID: "p1", Amount: 500})
	pa, _ := a.ledger.Project("p1")
	pb, _ := b.ledger.Project("p1")
	require.EqualValues(t, 45000500, pa.CurrentFunding)
	require.EqualValues(t, 45000000, pb.CurrentFunding)
}

func TestManagerSweepDropsIdleSessions(t *testing.T) {
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	opts := testOptions(nil)
	opts.Now = func() time.Time { return now }
	m := NewManager(testSeed(t), opts, 30*time.Minute)

	old := m.Create("")
	ch, _ := old.Subscribe()
	now = now.Add(20 * time.Minute)
	fresh := m.Create("")

	now = now.Add(15 * time.Minute)
	require.Equal(t, 1, m.Sweep())
	_, ok := m.Get(old.ID())
	require.False(t, ok)
	_, ok = m.Get(fresh.ID())
	require.True(t, ok)
	_, open := <-ch
	require.False(t, open, "swept sessions drop their subscribers")

	fresh.Screen()
	now = now.Add(29 * time.Minute)
	require.Zero(t, m.Sweep())
}

func TestManagerSweepDisabled(t *testing.T) {
	m := NewManager(testSeed(t), testOptions(nil), 0)
	m.Create("")
	require.Zero(t, m.Sweep())
	require.Equal(t, 1, m.Len())
}

func TestManagerStartStop(t *testing.T) {
	m := NewManager(testSeed(t), testOptions(nil), time.Hour)
	require.Error(t, m.Start("not a schedule"))
	require.NoError(t, m.Start(""))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	m.Stop(ctx)
	m.Stop(ctx)
}
