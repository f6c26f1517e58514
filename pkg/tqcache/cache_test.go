package tqcache_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fj1981/tinqer/pkg/tqcache"
	"github.com/fj1981/tinqer/pkg/tqctx"
	"github.com/fj1981/tinqer/pkg/tqir"
)

func TestCache_PutGet(t *testing.T) {
	c := tqcache.New(4)
	entry := &tqcache.Entry{Op: &tqir.From{Table: "users"}, Ctx: tqctx.New()}
	c.Put("src-a", entry)

	got, ok := c.Get("src-a")
	require.True(t, ok)
	require.Same(t, entry, got)
	require.Equal(t, 1, c.Len())
}

func TestCache_Miss(t *testing.T) {
	c := tqcache.New(4)
	_, ok := c.Get("nope")
	require.False(t, ok)
}

func TestCache_DisabledSkipsPutAndGet(t *testing.T) {
	c := tqcache.New(4)
	c.SetEnabled(false)
	c.Put("src-a", &tqcache.Entry{Op: &tqir.From{Table: "users"}, Ctx: tqctx.New()})
	require.Equal(t, 0, c.Len())

	_, ok := c.Get("src-a")
	require.False(t, ok)
	require.False(t, c.Enabled())
}

func TestCache_ResizeDiscardsEntries(t *testing.T) {
	c := tqcache.New(4)
	c.Put("src-a", &tqcache.Entry{Op: &tqir.From{Table: "users"}, Ctx: tqctx.New()})
	require.Equal(t, 1, c.Len())

	c.Resize(8)
	require.Equal(t, 0, c.Len())
}

func TestCache_ClearEmptiesEntries(t *testing.T) {
	c := tqcache.New(4)
	c.Put("src-a", &tqcache.Entry{Op: &tqir.From{Table: "users"}, Ctx: tqctx.New()})
	c.Put("src-b", &tqcache.Entry{Op: &tqir.From{Table: "orders"}, Ctx: tqctx.New()})
	require.Equal(t, 2, c.Len())

	c.Clear()
	require.Equal(t, 0, c.Len())
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := tqcache.New(1)
	c.Put("src-a", &tqcache.Entry{Op: &tqir.From{Table: "users"}, Ctx: tqctx.New()})
	c.Put("src-b", &tqcache.Entry{Op: &tqir.From{Table: "orders"}, Ctx: tqctx.New()})

	_, ok := c.Get("src-a")
	require.False(t, ok, "capacity-1 cache should have evicted the first entry")
	_, ok = c.Get("src-b")
	require.True(t, ok)
}
