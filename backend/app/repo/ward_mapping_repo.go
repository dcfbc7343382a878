package repo

import (
	"context"
	"time"

	"banglaixanh/backend/app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WardMappingRepository struct{ db *gorm.DB }

func NewWardMappingRepository(db *gorm.DB) *WardMappingRepository {
	return &WardMappingRepository{db: db}
}

// Upsert inserts m or, when (old ward, detail) is already mapped, moves it to the new target.
func (r *WardMappingRepository) Upsert(ctx context.Context, m *models.WardMapping) error {
	now := time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "old_ward_id"}, {Name: "norm_detail"}},
		DoUpdates: clause.Assignments(map[string]any{
			"old_province_id":    m.OldProvinceID,
			"old_district_id":    m.OldDistrictID,
			"old_address_detail": m.OldAddressDetail,
			"new_province_id":    m.NewProvinceID,
			"new_ward_id":        m.NewWardID,
			"created_by":         m.CreatedBy,
			"updated_at":         now,
		}),
	}).Create(m).Error
}

func (r *WardMappingRepository) ByOldWard(ctx context.Context, oldWardID string) ([]models.WardMapping, error) {
	var out []models.WardMapping
	err := r.db.WithContext(ctx).Where("old_ward_id = ?", oldWardID).Order("id").Find(&out).Error
	return out, err
}

func (r *WardMappingRepository) Find(ctx context.Context, oldWardID, normDetail string) (*models.WardMapping, error) {
	var m models.WardMapping
	err := r.db.WithContext(ctx).Where("old_ward_id = ? AND norm_detail = ?", oldWardID, normDetail).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}
