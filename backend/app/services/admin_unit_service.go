package services

import (
	"context"
	"errors"

	"banglaixanh/backend/app/dto"
	"banglaixanh/backend/app/models"
	"banglaixanh/backend/app/repo"
	"banglaixanh/backend/global"
)

var ErrUnitNotFound = errors.New("administrative unit not found")

// AdminUnitService answers the unit pickers, reading through an optional cache.
type AdminUnitService struct {
	units *repo.AdminUnitRepository
	cache UnitCache
}

func NewAdminUnitService(units *repo.AdminUnitRepository, cache UnitCache) *AdminUnitService {
	return &AdminUnitService{units: units, cache: cache}
}

func (s *AdminUnitService) OldProvinces(ctx context.Context) ([]dto.UnitResponse, error) {
	return s.list(ctx, models.EraOld, models.LevelProvince, "")
}

func (s *AdminUnitService) OldDistricts(ctx context.Context, provinceID string) ([]dto.UnitResponse, error) {
	return s.children(ctx, models.EraOld, models.LevelProvince, provinceID, models.LevelDistrict)
}

func (s *AdminUnitService) OldWards(ctx context.Context, districtID string) ([]dto.UnitResponse, error) {
	return s.children(ctx, models.EraOld, models.LevelDistrict, districtID, models.LevelWard)
}

func (s *AdminUnitService) Provinces(ctx context.Context) ([]dto.UnitResponse, error) {
	return s.list(ctx, models.EraNew, models.LevelProvince, "")
}

func (s *AdminUnitService) Wards(ctx context.Context, provinceID string) ([]dto.UnitResponse, error) {
	return s.children(ctx, models.EraNew, models.LevelProvince, provinceID, models.LevelWard)
}

// children lists the units under parentID after checking the parent exists at parentLevel.
func (s *AdminUnitService) children(ctx context.Context, era, parentLevel, parentID, level string) ([]dto.UnitResponse, error) {
	parent, err := s.units.Get(ctx, era, parentID)
	if err != nil || parent.Level != parentLevel {
		return nil, ErrUnitNotFound
	}
	return s.list(ctx, era, level, parentID)
}

func (s *AdminUnitService) list(ctx context.Context, era, level, parentID string) ([]dto.UnitResponse, error) {
	key := era + ":" + level + ":" + parentID
	if s.cache != nil {
		if hit, ok, err := s.cache.Get(ctx, key); err != nil {
			global.Logger.Warn().Err(err).Str("key", key).Msg("unit cache read failed")
		} else if ok {
			return hit, nil
		}
	}
	rows, err := s.units.List(ctx, era, level, parentID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, len(rows))
	for i, u := range rows {
		out[i] = dto.UnitResponse{ID: u.ID, Name: u.Name}
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out); err != nil {
			global.Logger.Warn().Err(err).Str("key", key).Msg("unit cache write failed")
		}
	}
	return out, nil
}
