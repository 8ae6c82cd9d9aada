package cache_test

import (
	"slices"
	"testing"
	"time"

	"github.com/ParamD12/taskhub-app/internal/taskhub/cache"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   string
	Name string
}

func key(i item) string { return i.ID }

func newCollection(items ...item) *cache.Collection[item] {
	c := cache.New(key, time.Minute)
	c.Set(items, time.Now())
	return c
}

func TestCommitReconciles(t *testing.T) {
	c := newCollection(item{ID: "a"}, item{ID: "b"})

	m := c.Begin(func(items []item) []item {
		return cache.Prepend(items, item{ID: "temp-1", Name: "new"})
	})
	require.Equal(t, []item{{ID: "temp-1", Name: "new"}, {ID: "a"}, {ID: "b"}}, c.Items())

	require.True(t, m.Commit(func(items []item) []item {
		return cache.Replace(items, key, "temp-1", item{ID: "c", Name: "new"})
	}))
	require.Equal(t, []item{{ID: "c", Name: "new"}, {ID: "a"}, {ID: "b"}}, c.Items())

	require.False(t, m.Rollback(nil), "settled mutations cannot settle again")
	require.Len(t, c.Items(), 3)
}

func TestRollbackRestoresSnapshot(t *testing.T) {
	c := newCollection(item{ID: "a"}, item{ID: "b"}, item{ID: "c"})
	before := c.Items()

	m := c.Begin(func(items []item) []item { return cache.Remove(items, key, "b") })
	require.Equal(t, []item{{ID: "a"}, {ID: "c"}}, c.Items())

	require.True(t, m.Rollback(nil))
	require.Equal(t, before, c.Items(), "deleted item returns to its position")
}

func TestResetInvalidatesMutations(t *testing.T) {
	c := newCollection(item{ID: "a"})

	m := c.Begin(func(items []item) []item { return cache.Remove(items, key, "a") })
	c.Reset()
	c.Set([]item{{ID: "z"}}, time.Now())

	require.False(t, m.Valid())
	require.False(t, m.Rollback(nil))
	require.False(t, m.Commit(nil))
	require.Equal(t, []item{{ID: "z"}}, c.Items())
}

func TestItemsReturnsCopy(t *testing.T) {
	c := newCollection(item{ID: "a", Name: "x"})

	items := c.Items()
	items[0].Name = "changed"

	got, i, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 0, i)
	require.Equal(t, "x", got.Name)

	_, i, ok = c.Get("missing")
	require.False(t, ok)
	require.Equal(t, -1, i)
}

func TestStale(t *testing.T) {
	c := cache.New(key, time.Minute)
	now := time.Now()

	require.True(t, c.Stale(now), "never loaded")
	require.False(t, c.Loaded())

	c.Set(nil, now)
	require.True(t, c.Loaded())
	require.False(t, c.Stale(now.Add(30*time.Second)))
	require.True(t, c.Stale(now.Add(time.Minute)))

	require.Equal(t, cache.DefaultStaleAfter, cache.New(key, 0).StaleAfter)
}

func TestOverlappingMutationsLastSettleWins(t *testing.T) {
	c := newCollection(item{ID: "a", Name: "v0"})
	rename := func(name string) func([]item) []item {
		return func(items []item) []item { return cache.Replace(items, key, "a", item{ID: "a", Name: name}) }
	}

	first := c.Begin(rename("v1"))
	second := c.Begin(rename("v2"))

	require.True(t, second.Commit(rename("v2")))
	require.True(t, first.Commit(rename("v1")))

	got, _, _ := c.Get("a")
	require.Equal(t, "v1", got.Name)
}

func TestTargetedRollbackKeepsOtherSettlements(t *testing.T) {
	c := newCollection(item{ID: "a"})

	first := c.Begin(func(items []item) []item { return cache.Prepend(items, item{ID: "temp-1"}) })
	second := c.Begin(func(items []item) []item { return cache.Prepend(items, item{ID: "temp-2"}) })

	require.True(t, first.Commit(func(items []item) []item {
		return cache.Replace(items, key, "temp-1", item{ID: "b"})
	}))
	require.True(t, second.Rollback(func(items []item) []item {
		return cache.Remove(items, key, "temp-2")
	}))

	require.Equal(t, []item{{ID: "b"}, {ID: "a"}}, c.Items())
}

func TestInsertClamps(t *testing.T) {
	items := []item{{ID: "a"}, {ID: "b"}}

	require.Equal(t, []item{{ID: "a"}, {ID: "x"}, {ID: "b"}}, cache.Insert(slices.Clone(items), 1, item{ID: "x"}))
	require.Equal(t, []item{{ID: "a"}, {ID: "b"}, {ID: "x"}}, cache.Insert(slices.Clone(items), 9, item{ID: "x"}))
	require.Equal(t, []item{{ID: "x"}, {ID: "a"}, {ID: "b"}}, cache.Insert(slices.Clone(items), -1, item{ID: "x"}))
}
