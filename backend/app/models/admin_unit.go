package models

// Unit levels and eras. The "old" era is the three-level system (province,
// district, ward); the "new" era has no district level.
const (
	LevelProvince = "province"
	LevelDistrict = "district"
	LevelWard     = "ward"

	EraOld = "old"
	EraNew = "new"
)

// AdminUnit is one administrative unit. IDs are only unique within an era.
type AdminUnit struct {
	Era      string `gorm:"primaryKey;size:8;index:idx_unit_parent,priority:1" json:"-"`
	ID       string `gorm:"primaryKey;size:32" json:"id"`
	Name     string `gorm:"size:191;not null" json:"name"`
	Level    string `gorm:"size:16;not null;index:idx_unit_parent,priority:2" json:"-"`
	ParentID string `gorm:"size:32;index:idx_unit_parent,priority:3" json:"-"`
	// NormName is Name lowercased, without diacritics or the level prefix.
	NormName string `gorm:"size:191;index" json:"-"`
}
