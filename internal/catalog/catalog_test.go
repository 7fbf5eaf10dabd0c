package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_BuildsHierarchy(t *testing.T) {
	dir := t.TempDir()
	provinces := writeTemp(t, dir, "provinces", "79;Hồ Chí Minh;79\n45;Đồng Tháp;45\n")
	districts := writeTemp(t, dir, "districts", "760;Quận 1;760;79\n872;Cao Lãnh;872;45\n")
	wards := writeTemp(t, dir, "wards", "26734;Bến Nghé;26734;760\n30460;An Bình;30460;872\n")

	cat, err := Load(Files{Provinces: provinces, Districts: districts, Wards: wards}, nil)
	require.NoError(t, err)
	require.Len(t, cat.AllProvinces(), 2)

	hcm, ok := cat.ProvinceByName("Hồ Chí Minh")
	require.True(t, ok)
	require.Len(t, hcm.DistrictsOf(), 1)

	q1 := hcm.DistrictsOf()[0]
	require.Equal(t, "Quận 1", q1.Name)
	require.Len(t, q1.WardsOf(), 1)
	require.Equal(t, "Bến Nghé", q1.WardsOf()[0].Name)
}

func TestLoad_DropsOrphanRows(t *testing.T) {
	dir := t.TempDir()
	provinces := writeTemp(t, dir, "provinces", "79;Hồ Chí Minh;79\n")
	districts := writeTemp(t, dir, "districts", "760;Quận 1;760;79\n999;Orphan District;999;404\n")
	wards := writeTemp(t, dir, "wards", "26734;Bến Nghé;26734;760\n888;Orphan Ward;888;404\n")

	cat, err := Load(Files{Provinces: provinces, Districts: districts, Wards: wards}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, cat.OrphanDistricts)
	require.Equal(t, 1, cat.OrphanWards)
}

func TestLoad_DuplicateChildIDReplacesEarlier(t *testing.T) {
	dir := t.TempDir()
	provinces := writeTemp(t, dir, "provinces", "79;Hồ Chí Minh;79\n")
	districts := writeTemp(t, dir, "districts", "760;Quận 1 Old;760;79\n760;Quận 1;760;79\n")
	wards := writeTemp(t, dir, "wards", "")

	cat, err := Load(Files{Provinces: provinces, Districts: districts, Wards: wards}, nil)
	require.NoError(t, err)
	hcm, _ := cat.ProvinceByName("Hồ Chí Minh")
	require.Len(t, hcm.DistrictsOf(), 1)
	require.Equal(t, "Quận 1", hcm.DistrictsOf()[0].Name)
}

func TestLoad_MissingFileIsFatal(t *testing.T) {
	_, err := Load(Files{Provinces: "/nonexistent/provinces", Districts: "/nonexistent/districts", Wards: "/nonexistent/wards"}, nil)
	require.Error(t, err)
}
