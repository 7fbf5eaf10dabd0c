package engine

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/address-parser/internal/memo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixtureFiles(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) string {
		path := dir + "/" + name
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	provinces := write("provinces", strings.Join([]string{
		"45;Đồng Tháp;45",
		"79;Hồ Chí Minh;79",
	}, "\n")+"\n")
	districts := write("districts", strings.Join([]string{
		"872;Cao Lãnh;872;45",
		"760;Bình Thạnh;760;79",
	}, "\n")+"\n")
	wards := write("wards", strings.Join([]string{
		"30460;An Bình;30460;872",
		"26850;13;26850;760",
	}, "\n")+"\n")

	cfg := DefaultConfig()
	cfg.ProvincesFile = provinces
	cfg.DistrictsFile = districts
	cfg.WardsFile = wards
	cfg.Deadline = 200 * time.Millisecond
	return cfg
}

func TestEngine_ResolveFullAddress(t *testing.T) {
	cfg := writeFixtureFiles(t)
	eng, err := New(cfg, nil)
	require.NoError(t, err)

	got := eng.Resolve(context.Background(), "Xã An Bình, Huyện Cao Lãnh, Tỉnh Đồng Tháp")
	assert.Equal(t, "Đồng Tháp", got.Province)
	assert.Equal(t, "Cao Lãnh", got.District)
	assert.Equal(t, "An Bình", got.Ward)
}

func TestEngine_ResolveIsCachedOnSecondCall(t *testing.T) {
	cfg := writeFixtureFiles(t)
	eng, err := New(cfg, nil)
	require.NoError(t, err)

	raw := "P.13, Q.Bình Thạnh, TP.Hồ Chí Minh"
	first := eng.Resolve(context.Background(), raw)
	second := eng.Resolve(context.Background(), raw)
	assert.Equal(t, first, second)

	calls := 0
	eng.caches.Resolve(raw, func(string) memo.Resolution {
		calls++
		return memo.Resolution{}
	})
	assert.Equal(t, 0, calls, "the first call must have stored its result in the full-resolution cache")
}

func TestEngine_ResolveReturnsOvertimeSentinelOnTightDeadline(t *testing.T) {
	cfg := writeFixtureFiles(t)
	cfg.Deadline = 1 * time.Nanosecond
	eng, err := New(cfg, nil)
	require.NoError(t, err)

	got := eng.Resolve(context.Background(), "Xã An Bình, Huyện Cao Lãnh, Tỉnh Đồng Tháp")
	assert.Equal(t, "overtime", got.Province)
	assert.Equal(t, "", got.District)
	assert.Equal(t, "", got.Ward)
}

func TestEngine_MalformedInputYieldsEmptyFields(t *testing.T) {
	cfg := writeFixtureFiles(t)
	eng, err := New(cfg, nil)
	require.NoError(t, err)

	got := eng.Resolve(context.Background(), "zzzzz qqqqq")
	assert.Equal(t, "", got.Province)
	assert.Equal(t, "", got.District)
	assert.Equal(t, "", got.Ward)
}
