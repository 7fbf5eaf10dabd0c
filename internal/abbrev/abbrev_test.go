package abbrev

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_ExactCaseSensitiveMatch(t *testing.T) {
	tbl := New()
	assert.Equal(t, "Hồ Chí Minh", tbl.Expand("HCM"))
	assert.Equal(t, "hcm", tbl.Expand("hcm"), "lookup is case-sensitive by design")
}

func TestExpand_LeavesLongSubstringsUnchanged(t *testing.T) {
	tbl := New()
	long := "ThisIsWayTooLong"
	assert.Equal(t, long, tbl.Expand(long))
}

func TestExpand_UnknownShortFormUnchanged(t *testing.T) {
	tbl := New()
	assert.Equal(t, "XYZ", tbl.Expand("XYZ"))
}

func TestLoadFile_OverridesBuiltins(t *testing.T) {
	tbl := New()
	dir := t.TempDir()
	path := filepath.Join(dir, "abbreviations")
	require.NoError(t, os.WriteFile(path, []byte("HCM,Thành phố Hồ Chí Minh\nVT,Vũng Tàu\n"), 0o644))

	require.NoError(t, LoadFile(tbl, path))
	assert.Equal(t, "Thành phố Hồ Chí Minh", tbl.Expand("HCM"))
	assert.Equal(t, "Vũng Tàu", tbl.Expand("VT"))
}
