package repo

import (
	"context"

	"banglaixanh/backend/app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdminUnitRepository struct{ db *gorm.DB }

func NewAdminUnitRepository(db *gorm.DB) *AdminUnitRepository { return &AdminUnitRepository{db: db} }

// List returns the units of era and level under parentID ("" for provinces), ordered by name.
func (r *AdminUnitRepository) List(ctx context.Context, era, level, parentID string) ([]models.AdminUnit, error) {
	var out []models.AdminUnit
	err := r.db.WithContext(ctx).
		Where("era = ? AND level = ? AND parent_id = ?", era, level, parentID).
		Order("name").
		Find(&out).Error
	return out, err
}

func (r *AdminUnitRepository) Get(ctx context.Context, era, id string) (*models.AdminUnit, error) {
	var u models.AdminUnit
	if err := r.db.WithContext(ctx).Where("era = ? AND id = ?", era, id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetMany loads units of one era by id.
func (r *AdminUnitRepository) GetMany(ctx context.Context, era string, ids []string) (map[string]models.AdminUnit, error) {
	out := make(map[string]models.AdminUnit, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var units []models.AdminUnit
	if err := r.db.WithContext(ctx).Where("era = ? AND id IN ?", era, ids).Find(&units).Error; err != nil {
		return nil, err
	}
	for _, u := range units {
		out[u.ID] = u
	}
	return out, nil
}

// FindByNormName matches a normalised name among the children of parentID.
func (r *AdminUnitRepository) FindByNormName(ctx context.Context, era, level, parentID, norm string) ([]models.AdminUnit, error) {
	q := r.db.WithContext(ctx).Where("era = ? AND level = ? AND norm_name = ?", era, level, norm)
	if parentID != "" {
		q = q.Where("parent_id = ?", parentID)
	}
	var out []models.AdminUnit
	return out, q.Find(&out).Error
}

func (r *AdminUnitRepository) Upsert(ctx context.Context, units []models.AdminUnit) error {
	if len(units) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "era"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "level", "parent_id", "norm_name"}),
	}).CreateInBatches(units, 200).Error
}
