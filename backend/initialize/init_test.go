package initialize

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"banglaixanh/backend/app/dto"
	"banglaixanh/backend/config"
	"banglaixanh/network"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const seed = `
old:
  - {id: "79", name: "Thành phố Hồ Chí Minh", level: province}
  - {id: "760", name: "Quận 1", level: district, parent: "79"}
  - {id: "26734", name: "Phường Bến Nghé", level: ward, parent: "760"}
new:
  - {id: "79", name: "Thành phố Hồ Chí Minh", level: province}
  - {id: "26734", name: "Phường Sài Gòn", level: ward, parent: "79"}
  - {id: "01", name: "Thành phố Hà Nội", level: province}
mappings:
  - {oldProvinceId: "79", oldDistrictId: "760", oldWardId: "26734", newProvinceId: "79", newWardId: "26734"}
`

func newServer(t *testing.T) (*App, *httptest.Server) {
	t.Helper()
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(seed), 0o644))

	cfg := &config.Config{
		DB:       config.DB{Driver: "sqlite", Path: filepath.Join(dir, "app.db")},
		Storage:  config.Storage{Path: filepath.Join(dir, "converted"), LinkTTL: 10 * time.Minute},
		Admin:    config.Admin{Username: "admin", Password: "admin123"},
		SeedFile: seedPath,
	}
	cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpMin = "test", "banglaixanh", 5

	app, err := BuildWith(cfg)
	require.NoError(t, err)
	srv := httptest.NewServer(app.Router)
	t.Cleanup(func() {
		srv.Close()
		app.Close()
	})
	return app, srv
}

func newClient(t *testing.T, srv *httptest.Server) *network.Client {
	c, err := network.NewClient(srv.URL, 5*time.Second)
	require.NoError(t, err)
	return c
}

func login(t *testing.T, c *network.Client) {
	var tok dto.TokenResponse
	require.NoError(t, c.PostJSON(context.Background(), "/login", dto.LoginRequest{Username: "admin", Password: "admin123"}, &tok))
	require.NotEmpty(t, tok.AccessToken)
	c.SetToken(tok.AccessToken)
}

func TestAuthRequired(t *testing.T) {
	_, srv := newServer(t)
	c := newClient(t, srv)
	ctx := context.Background()

	resp, err := http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var units []dto.UnitResponse
	err = c.GetJSON(ctx, "/administrative/provinces", &units)
	assert.True(t, network.IsUnauthorized(err))

	err = c.PostJSON(ctx, "/login", dto.LoginRequest{Username: "admin", Password: "wrong"}, nil)
	assert.True(t, network.IsUnauthorized(err))
	assert.Equal(t, "invalid credentials", network.ServerMessage(err))

	login(t, c)
	require.NoError(t, c.GetJSON(ctx, "/administrative/provinces", &units))
	assert.Len(t, units, 2)
}

func TestAdministrativeEndpoints(t *testing.T) {
	_, srv := newServer(t)
	c := newClient(t, srv)
	login(t, c)
	ctx := context.Background()

	var units []dto.UnitResponse
	require.NoError(t, c.GetJSON(ctx, "/administrative/old/provinces/79/districts", &units))
	assert.Equal(t, []dto.UnitResponse{{ID: "760", Name: "Quận 1"}}, units)
	require.NoError(t, c.GetJSON(ctx, "/administrative/old/districts/760/wards", &units))
	assert.Equal(t, []dto.UnitResponse{{ID: "26734", Name: "Phường Bến Nghé"}}, units)
	require.NoError(t, c.GetJSON(ctx, "/administrative/provinces/79/wards", &units))
	assert.Equal(t, []dto.UnitResponse{{ID: "26734", Name: "Phường Sài Gòn"}}, units)

	err := c.GetJSON(ctx, "/administrative/old/provinces/nope/districts", &units)
	var apiErr *network.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	bad := dto.WardMappingRequest{OldProvinceID: "79", OldDistrictID: "760", OldWardID: "26734", NewProvinceID: "01", NewWardID: "26734"}
	err = c.PostJSON(ctx, "/administrative/ward-mappings", bad, nil)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Contains(t, apiErr.Message, "does not belong")

	err = c.PostJSON(ctx, "/administrative/ward-mappings", dto.WardMappingRequest{OldWardID: "26734"}, nil)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	var saved dto.WardMappingResponse
	good := bad
	good.NewProvinceID = "79"
	good.OldAddressDetail = "Lê Lợi"
	require.NoError(t, c.PostJSON(ctx, "/administrative/ward-mappings", good, &saved))
	assert.NotZero(t, saved.ID)
}

func TestTextConversion(t *testing.T) {
	_, srv := newServer(t)
	c := newClient(t, srv)
	login(t, c)

	var out []dto.TextConvertResult
	lines := []string{"1 Lê Lợi, Bến Nghé, Quận 1, Hồ Chí Minh", "???"}
	require.NoError(t, c.PostJSON(context.Background(), "/address-conversion/text", dto.TextConvertRequest{Addresses: lines}, &out))
	require.Len(t, out, 2)
	assert.Equal(t, []string{"1 Lê Lợi, Phường Sài Gòn, Thành phố Hồ Chí Minh"}, out[0].NewAddresses)
	assert.True(t, out[1].IsError)
	assert.Equal(t, "???", out[1].OldAddress)
}

func TestExcelDownloadAndZip(t *testing.T) {
	_, srv := newServer(t)
	c := newClient(t, srv)
	login(t, c)
	ctx := context.Background()
	dir := t.TempDir()

	src := filepath.Join(dir, "khach.xlsx")
	book := excelize.NewFile()
	require.NoError(t, book.SetCellValue("Sheet1", "A1", "Địa chỉ"))
	require.NoError(t, book.SetCellValue("Sheet1", "A2", "Bến Nghé, Quận 1, Hồ Chí Minh"))
	require.NoError(t, book.SaveAs(src))
	require.NoError(t, book.Close())

	out := map[string]dto.ExcelConvertResult{}
	require.NoError(t, c.PostMultipart(ctx, "/address-conversion/excel", []network.FilePart{{Field: "files", Path: src}}, &out))
	require.Contains(t, out, "0")
	res := out["0"]
	assert.Equal(t, "khach_converted.xlsx", res.ConvertedFileName)

	// Download links work without a bearer token.
	anon := newClient(t, srv)
	n, err := anon.Download(ctx, http.MethodGet, res.ConvertedFileURL, nil, filepath.Join(dir, "dl.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, res.FileSize, n)

	_, err = anon.Download(ctx, http.MethodGet, "/address-conversion/download/missing", nil, filepath.Join(dir, "x.xlsx"))
	assert.ErrorIs(t, err, network.ErrLinkExpired)

	zipPath := filepath.Join(dir, "all.zip")
	_, err = c.Download(ctx, http.MethodPost, "/address-conversion/download-zip", dto.ZipRequest{URLs: []string{res.ConvertedFileURL}}, zipPath)
	require.NoError(t, err)
	zr, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 1)
	assert.Equal(t, "khach_converted.xlsx", zr.File[0].Name)
	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.EqualValues(t, res.FileSize, len(body))

	_, err = c.Download(ctx, http.MethodPost, "/address-conversion/download-zip",
		dto.ZipRequest{URLs: []string{res.ConvertedFileURL, srv.URL + "/address-conversion/download/gone"}}, zipPath)
	assert.ErrorIs(t, err, network.ErrLinkExpired)
}

func TestSweepRemovesOldFiles(t *testing.T) {
	app, _ := newServer(t)
	f, name, err := app.Files.Create(".xlsx")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(app.Files.Dir, name), old, old))

	app.Sweep()
	_, err = os.Stat(filepath.Join(app.Files.Dir, name))
	assert.True(t, os.IsNotExist(err))
}

func TestAdminCreatesUser(t *testing.T) {
	_, srv := newServer(t)
	admin := newClient(t, srv)
	login(t, admin)
	ctx := context.Background()

	req := map[string]string{"username": "nv01", "password": "pw"}
	require.NoError(t, admin.PostJSON(ctx, "/admin/users", req, nil))
	var apiErr *network.APIError
	err := admin.PostJSON(ctx, "/admin/users", req, nil)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	user := newClient(t, srv)
	var tok dto.TokenResponse
	require.NoError(t, user.PostJSON(ctx, "/login", dto.LoginRequest{Username: "nv01", Password: "pw"}, &tok))
	user.SetToken(tok.AccessToken)
	err = user.PostJSON(ctx, "/admin/users", map[string]string{"username": "x", "password": "y"}, nil)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}
