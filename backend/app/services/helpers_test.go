package services

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"banglaixanh/backend/app/db"
	"banglaixanh/backend/app/models"
	"banglaixanh/backend/app/repo"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const fixture = `
old:
  - {id: "79", name: "Thành phố Hồ Chí Minh", level: province}
  - {id: "760", name: "Quận 1", level: district, parent: "79"}
  - {id: "26734", name: "Phường Bến Nghé", level: ward, parent: "760"}
  - {id: "26740", name: "Phường Đa Kao", level: ward, parent: "760"}
  - {id: "26743", name: "Phường Tân Định", level: ward, parent: "760"}
  - {id: "01", name: "Thành phố Hà Nội", level: province}
  - {id: "001", name: "Quận Ba Đình", level: district, parent: "01"}
  - {id: "00001", name: "Phường Phúc Xá", level: ward, parent: "001"}
new:
  - {id: "79", name: "Thành phố Hồ Chí Minh", level: province}
  - {id: "26734", name: "Phường Sài Gòn", level: ward, parent: "79"}
  - {id: "26740", name: "Phường Tân Định", level: ward, parent: "79"}
  - {id: "01", name: "Thành phố Hà Nội", level: province}
  - {id: "00004", name: "Phường Ba Đình", level: ward, parent: "01"}
  - {id: "00008", name: "Phường Hồng Hà", level: ward, parent: "01"}
mappings:
  - {oldProvinceId: "79", oldDistrictId: "760", oldWardId: "26734", newProvinceId: "79", newWardId: "26734"}
  - {oldProvinceId: "79", oldDistrictId: "760", oldWardId: "26740", oldAddressDetail: "Đinh Tiên Hoàng", newProvinceId: "79", newWardId: "26740"}
  - {oldProvinceId: "79", oldDistrictId: "760", oldWardId: "26740", oldAddressDetail: "Nguyễn Đình Chiểu", newProvinceId: "79", newWardId: "26734"}
  - {oldProvinceId: "01", oldDistrictId: "001", oldWardId: "00001", newProvinceId: "01", newWardId: "00004"}
  - {oldProvinceId: "01", oldDistrictId: "001", oldWardId: "00001", oldAddressDetail: "Ngõ 5", newProvinceId: "01", newWardId: "00008"}
`

type fixtureEnv struct {
	db       *gorm.DB
	units    *repo.AdminUnitRepository
	mappings *repo.WardMappingRepository
	mapSvc   *MappingService
	conv     *ConversionService
}

func newEnv(t *testing.T) *fixtureEnv {
	t.Helper()
	gdb, err := db.Connect(db.Config{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.User{}, &models.AdminUnit{}, &models.WardMapping{}))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	e := &fixtureEnv{db: gdb, units: repo.NewAdminUnitRepository(gdb), mappings: repo.NewWardMappingRepository(gdb)}
	e.mapSvc = NewMappingService(e.units, e.mappings)
	e.conv = NewConversionService(e.units, e.mappings)
	_, err = NewSeedService(e.units, e.mapSvc).Load(context.Background(), strings.NewReader(fixture))
	require.NoError(t, err)
	return e
}
