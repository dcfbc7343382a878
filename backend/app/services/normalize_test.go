package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "duong nguyen dinh chieu", Fold("  Đường   Nguyễn Đình Chiểu "))
	assert.Equal(t, "ben nghe", Fold("BẾN NGHÉ"))
}

func TestNormalizeUnit(t *testing.T) {
	cases := map[string]string{
		"Phường Bến Nghé":       "ben nghe",
		"P. Bến Nghé":           "ben nghe",
		"p.ben nghe":            "ben nghe",
		"ben nghe":              "ben nghe",
		"Quận 1":                "1",
		"Q.1":                   "1",
		"Thành phố Hồ Chí Minh": "ho chi minh",
		"TP. Hồ Chí Minh":       "ho chi minh",
		"Tỉnh Bình Dương":       "binh duong",
		"Thị trấn Củ Chi":       "cu chi",
		"Huyện Củ Chi":          "cu chi",
		"Xã":                    "xa",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeUnit(in), in)
	}
}

func TestNormalizeDetail(t *testing.T) {
	assert.Equal(t, "12 le loi", NormalizeDetail(" 12 Lê Lợi, "))
	assert.Equal(t, "", NormalizeDetail(""))
}
