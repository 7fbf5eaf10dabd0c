package memo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDistributed struct {
	store map[string]Resolution
	sets  int
}

func newFakeDistributed() *fakeDistributed {
	return &fakeDistributed{store: make(map[string]Resolution)}
}

func (f *fakeDistributed) Get(key string) (Resolution, bool) {
	v, ok := f.store[key]
	return v, ok
}

func (f *fakeDistributed) Set(key string, value Resolution) {
	f.sets++
	f.store[key] = value
}

func TestCaches_Normalize_CachesResult(t *testing.T) {
	c, err := New(DefaultSizes())
	require.NoError(t, err)

	calls := 0
	fn := func(s string) string {
		calls++
		return s + "_norm"
	}

	assert.Equal(t, "abc_norm", c.Normalize("abc", fn))
	assert.Equal(t, "abc_norm", c.Normalize("abc", fn))
	assert.Equal(t, 1, calls, "second call should be served from cache")
}

func TestCaches_Distance_SymmetricKey(t *testing.T) {
	c, err := New(DefaultSizes())
	require.NoError(t, err)

	calls := 0
	fn := func(a, b string) int {
		calls++
		return len(a) + len(b)
	}

	got1 := c.Distance("an giang", "dong thap", fn)
	got2 := c.Distance("dong thap", "an giang", fn)

	assert.Equal(t, got1, got2)
	assert.Equal(t, 1, calls, "a,b and b,a must share one cache entry")
}

func TestCaches_Clean_CachesResult(t *testing.T) {
	c, err := New(DefaultSizes())
	require.NoError(t, err)

	calls := 0
	fn := func(s string) string {
		calls++
		return "cleaned:" + s
	}

	assert.Equal(t, "cleaned:raw", c.Clean("raw", fn))
	assert.Equal(t, "cleaned:raw", c.Clean("raw", fn))
	assert.Equal(t, 1, calls)
}

func TestCaches_Resolve_LocalHitSkipsCompute(t *testing.T) {
	c, err := New(DefaultSizes())
	require.NoError(t, err)

	calls := 0
	fn := func(string) Resolution {
		calls++
		return Resolution{Province: "An Giang"}
	}

	first := c.Resolve("an giang", fn)
	second := c.Resolve("an giang", fn)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestCaches_Resolve_FallsBackToDistributedBeforeComputing(t *testing.T) {
	c, err := New(DefaultSizes())
	require.NoError(t, err)

	dist := newFakeDistributed()
	dist.store["an giang"] = Resolution{Province: "An Giang", District: "An Phú"}
	c.Distributed = dist

	calls := 0
	fn := func(string) Resolution {
		calls++
		return Resolution{}
	}

	got := c.Resolve("an giang", fn)
	assert.Equal(t, "An Giang", got.Province)
	assert.Equal(t, 0, calls, "a distributed hit must not fall through to recomputation")
}

func TestCaches_Resolve_MissWritesThroughToDistributed(t *testing.T) {
	c, err := New(DefaultSizes())
	require.NoError(t, err)

	dist := newFakeDistributed()
	c.Distributed = dist

	got := c.Resolve("dong thap", func(string) Resolution {
		return Resolution{Province: "Đồng Tháp"}
	})

	assert.Equal(t, "Đồng Tháp", got.Province)
	assert.Equal(t, 1, dist.sets)
	stored, ok := dist.Get("dong thap")
	require.True(t, ok)
	assert.Equal(t, "Đồng Tháp", stored.Province)
}
