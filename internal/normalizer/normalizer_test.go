package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_FoldsDiacriticsAndCase(t *testing.T) {
	assert.Equal(t, "dong thap", Normalize("Đồng Tháp"))
	assert.Equal(t, "ho chi minh", Normalize("Hồ Chí Minh"))
	assert.Equal(t, "an phu", Normalize("An Phú"))
}

func TestNormalize_StripsNonAlnum(t *testing.T) {
	assert.Equal(t, "phu hoa", Normalize("Phú Hòa!!"))
	assert.Equal(t, "13", Normalize("13"))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Đồng Tháp", "xa an phu, huyen an phu", "P.13 - Q.Bình Thạnh", ""}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		assert.Equal(t, once, twice, "normalize must be idempotent for %q", in)
	}
}

func TestClean_StripsAdminPrefixes(t *testing.T) {
	assert.Equal(t, "An Bình Cao Lãnh Đồng Tháp", Clean("Xã An Bình, Huyện Cao Lãnh, Tỉnh Đồng Tháp"))
}

func TestClean_CanonicalizesNumberedSubunit(t *testing.T) {
	assert.Equal(t, Clean("Phường 3"), Clean("P.3"))
	assert.Equal(t, "3", Clean("P.3"))
}

func TestClean_CollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "Phu Hoa Phu Yen", Clean("  Phu Hoa ,   Phu Yen  "))
}

func TestClean_Deterministic(t *testing.T) {
	in := "TT. Phú Hòa, H. Phú Hòa, Phú Yên"
	assert.Equal(t, Clean(in), Clean(in))
}
