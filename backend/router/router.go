package router

import (
	"net/http"

	"banglaixanh/backend/app/controllers"
	"banglaixanh/backend/app/middleware"
)

type Controllers struct {
	Health  *controllers.HealthController
	Auth    *controllers.AuthController
	Admin   *controllers.AdminController
	Address *controllers.AddressController
	Convert *controllers.ConvertController
}

func NewRouter(c Controllers, mw *middleware.Auth) http.Handler {
	mux := http.NewServeMux()
	public := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.WithRoute(pattern, h))
	}
	authed := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.WithRoute(pattern, mw.RequireAuth(h)))
	}

	public("GET /ping", c.Health.Health)
	public("POST /login", c.Auth.Login)
	// The token in the path is the capability; the console fetches it without a header.
	public("GET /address-conversion/download/{token}", c.Convert.Download)

	mux.Handle("POST /admin/users", middleware.WithRoute("POST /admin/users", mw.RequireAdmin(http.HandlerFunc(c.Admin.CreateUser))))

	authed("GET /administrative/old/provinces", c.Address.OldProvinces)
	authed("GET /administrative/old/provinces/{id}/districts", c.Address.OldDistricts)
	authed("GET /administrative/old/districts/{id}/wards", c.Address.OldWards)
	authed("GET /administrative/provinces", c.Address.Provinces)
	authed("GET /administrative/provinces/{id}/wards", c.Address.Wards)
	authed("POST /administrative/ward-mappings", c.Address.UpsertMapping)

	authed("POST /address-conversion/text", c.Convert.Text)
	authed("POST /address-conversion/excel", c.Convert.ConvertExcel)
	authed("POST /address-conversion/download-zip", c.Convert.DownloadZip)

	return mux
}
