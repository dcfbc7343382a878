package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertLines(t *testing.T) {
	e := newEnv(t)
	lines := []string{
		"12 Lê Lợi, Phường Bến Nghé, Quận 1, TP. Hồ Chí Minh",
		"5 Đinh Tiên Hoàng, P. Đa Kao, Q.1, Hồ Chí Minh",
		"Hẻm 3, Đa Kao, Quận 1, Thành phố Hồ Chí Minh",
		"Số 9, Phường Tân Định, Quận 1, TP HCM",
		"Phường Tân Định, Quận 1, Thành phố Hồ Chí Minh",
		"Bến Nghé, Hồ Chí Minh",
		"   ",
		"Phúc Xá, Ba Đình, Hà Nội, Việt Nam",
	}
	out, err := e.conv.ConvertLines(context.Background(), lines)
	require.NoError(t, err)
	require.Len(t, out, len(lines))
	for i, r := range out {
		assert.Equal(t, lines[i], r.OldAddress, "order kept")
	}

	assert.Equal(t, []string{"12 Lê Lợi, Phường Sài Gòn, Thành phố Hồ Chí Minh"}, out[0].NewAddresses)
	assert.False(t, out[0].IsError || out[0].IsWarning)

	assert.Equal(t, []string{"5 Đinh Tiên Hoàng, Phường Tân Định, Thành phố Hồ Chí Minh"}, out[1].NewAddresses, "detail match wins")
	assert.False(t, out[1].IsWarning)

	assert.True(t, out[2].IsWarning, "unknown detail with only specific mappings")
	assert.Len(t, out[2].NewAddresses, 2)
	assert.Contains(t, out[2].Message, "2")

	assert.True(t, out[3].IsError)
	assert.Contains(t, out[3].Message, "TP HCM")

	assert.True(t, out[4].IsError, "ward without mappings")
	assert.Equal(t, msgNoMapping, out[4].Message)

	assert.True(t, out[5].IsError)
	assert.Equal(t, msgTooShort, out[5].Message)

	assert.True(t, out[6].IsError)
	assert.Equal(t, msgEmpty, out[6].Message)

	assert.Equal(t, []string{"Phường Ba Đình, Thành phố Hà Nội"}, out[7].NewAddresses, "country dropped, generic mapping used")
}

func TestConvertLines_DetailContained(t *testing.T) {
	e := newEnv(t)
	out, err := e.conv.ConvertLines(context.Background(), []string{"Số 2 Ngõ 5, Phúc Xá, Ba Đình, Hà Nội"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Số 2 Ngõ 5, Phường Hồng Hà, Thành phố Hà Nội"}, out[0].NewAddresses)
}

func TestConvertLines_UnknownDistrictAndWard(t *testing.T) {
	e := newEnv(t)
	out, err := e.conv.ConvertLines(context.Background(), []string{
		"A, Bến Nghé, Quận 99, Hồ Chí Minh",
		"A, Không Có, Quận 1, Hồ Chí Minh",
	})
	require.NoError(t, err)
	assert.True(t, out[0].IsError)
	assert.Contains(t, out[0].Message, "Quận 99")
	assert.True(t, out[1].IsError)
	assert.Contains(t, out[1].Message, "Không Có")
}

func TestConvertLines_Cancelled(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.conv.ConvertLines(ctx, []string{"x"})
	assert.ErrorIs(t, err, context.Canceled)
}
