package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"banglaixanh/backend/app/dto"
	"banglaixanh/backend/app/models"
	"banglaixanh/backend/app/repo"
)

var (
	ErrMappingIncomplete = errors.New("old province, district, ward and new province, ward are required")
	// ErrMappingInvalid wraps every nesting violation; the message names the offending unit.
	ErrMappingInvalid = errors.New("invalid ward mapping")
)

type MappingService struct {
	units    *repo.AdminUnitRepository
	mappings *repo.WardMappingRepository
}

func NewMappingService(units *repo.AdminUnitRepository, mappings *repo.WardMappingRepository) *MappingService {
	return &MappingService{units: units, mappings: mappings}
}

// Upsert validates req and stores it, replacing any mapping with the same old ward and detail.
func (s *MappingService) Upsert(ctx context.Context, req dto.WardMappingRequest, by string) (*models.WardMapping, error) {
	req = trimMapping(req)
	if req.OldProvinceID == "" || req.OldDistrictID == "" || req.OldWardID == "" || req.NewProvinceID == "" || req.NewWardID == "" {
		return nil, ErrMappingIncomplete
	}
	if err := s.checkNesting(ctx, req); err != nil {
		return nil, err
	}
	m := &models.WardMapping{
		OldProvinceID:    req.OldProvinceID,
		OldDistrictID:    req.OldDistrictID,
		OldWardID:        req.OldWardID,
		OldAddressDetail: req.OldAddressDetail,
		NormDetail:       NormalizeDetail(req.OldAddressDetail),
		NewProvinceID:    req.NewProvinceID,
		NewWardID:        req.NewWardID,
		CreatedBy:        by,
	}
	if err := s.mappings.Upsert(ctx, m); err != nil {
		return nil, err
	}
	// The upsert does not report the id of an updated row.
	return s.mappings.Find(ctx, m.OldWardID, m.NormDetail)
}

func (s *MappingService) checkNesting(ctx context.Context, req dto.WardMappingRequest) error {
	checks := []struct {
		era, id, level, parent, what string
	}{
		{models.EraOld, req.OldProvinceID, models.LevelProvince, "", "old province"},
		{models.EraOld, req.OldDistrictID, models.LevelDistrict, req.OldProvinceID, "old district"},
		{models.EraOld, req.OldWardID, models.LevelWard, req.OldDistrictID, "old ward"},
		{models.EraNew, req.NewProvinceID, models.LevelProvince, "", "new province"},
		{models.EraNew, req.NewWardID, models.LevelWard, req.NewProvinceID, "new ward"},
	}
	for _, c := range checks {
		u, err := s.units.Get(ctx, c.era, c.id)
		if err != nil || u.Level != c.level {
			return fmt.Errorf("%w: %s %q does not exist", ErrMappingInvalid, c.what, c.id)
		}
		if c.parent != "" && u.ParentID != c.parent {
			return fmt.Errorf("%w: %s %q does not belong to %q", ErrMappingInvalid, c.what, c.id, c.parent)
		}
	}
	return nil
}

func trimMapping(r dto.WardMappingRequest) dto.WardMappingRequest {
	r.OldProvinceID = strings.TrimSpace(r.OldProvinceID)
	r.OldDistrictID = strings.TrimSpace(r.OldDistrictID)
	r.OldWardID = strings.TrimSpace(r.OldWardID)
	r.OldAddressDetail = strings.TrimSpace(r.OldAddressDetail)
	r.NewProvinceID = strings.TrimSpace(r.NewProvinceID)
	r.NewWardID = strings.TrimSpace(r.NewWardID)
	return r
}
