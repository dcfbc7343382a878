package services

import (
	"context"
	"testing"

	"banglaixanh/backend/app/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingUpsert_ReplacesSameKey(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	req := dto.WardMappingRequest{
		OldProvinceID: "79", OldDistrictID: "760", OldWardID: "26743",
		OldAddressDetail: " Hai Bà Trưng ", NewProvinceID: "79", NewWardID: "26740",
	}
	first, err := e.mapSvc.Upsert(ctx, req, "alice")
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	req.OldAddressDetail = "hai ba trung"
	req.NewWardID = "26734"
	second, err := e.mapSvc.Upsert(ctx, req, "bob")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same ward and normalised detail")
	assert.Equal(t, "26734", second.NewWardID)
	assert.Equal(t, "bob", second.CreatedBy)

	all, err := e.mappings.ByOldWard(ctx, "26743")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMappingUpsert_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	valid := dto.WardMappingRequest{OldProvinceID: "79", OldDistrictID: "760", OldWardID: "26743", NewProvinceID: "79", NewWardID: "26740"}

	incomplete := valid
	incomplete.NewWardID = " "
	_, err := e.mapSvc.Upsert(ctx, incomplete, "u")
	assert.ErrorIs(t, err, ErrMappingIncomplete)

	cases := map[string]func(r *dto.WardMappingRequest){
		"ward outside district":        func(r *dto.WardMappingRequest) { r.OldWardID = "00001" },
		"district outside province":    func(r *dto.WardMappingRequest) { r.OldProvinceID = "01" },
		"new ward outside province":    func(r *dto.WardMappingRequest) { r.NewProvinceID = "01" },
		"unknown new ward":             func(r *dto.WardMappingRequest) { r.NewWardID = "99999" },
		"district given as a province": func(r *dto.WardMappingRequest) { r.OldProvinceID = "760" },
	}
	for name, mutate := range cases {
		r := valid
		mutate(&r)
		_, err := e.mapSvc.Upsert(ctx, r, "u")
		assert.ErrorIs(t, err, ErrMappingInvalid, name)
	}
}
