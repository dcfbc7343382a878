package controllers

import (
	"context"
	"errors"
	"net/http"

	"banglaixanh/backend/app/dto"
	"banglaixanh/backend/app/middleware"
	"banglaixanh/backend/app/services"
	"banglaixanh/backend/global"
)

type AddressController struct {
	Units    *services.AdminUnitService
	Mappings *services.MappingService
}

func NewAddressController(units *services.AdminUnitService, mappings *services.MappingService) *AddressController {
	return &AddressController{Units: units, Mappings: mappings}
}

func (c *AddressController) OldProvinces(w http.ResponseWriter, r *http.Request) {
	c.answer(w, r, func(ctx context.Context) ([]dto.UnitResponse, error) { return c.Units.OldProvinces(ctx) })
}

func (c *AddressController) OldDistricts(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c.answer(w, r, func(ctx context.Context) ([]dto.UnitResponse, error) { return c.Units.OldDistricts(ctx, id) })
}

func (c *AddressController) OldWards(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c.answer(w, r, func(ctx context.Context) ([]dto.UnitResponse, error) { return c.Units.OldWards(ctx, id) })
}

func (c *AddressController) Provinces(w http.ResponseWriter, r *http.Request) {
	c.answer(w, r, func(ctx context.Context) ([]dto.UnitResponse, error) { return c.Units.Provinces(ctx) })
}

func (c *AddressController) Wards(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c.answer(w, r, func(ctx context.Context) ([]dto.UnitResponse, error) { return c.Units.Wards(ctx, id) })
}

func (c *AddressController) answer(w http.ResponseWriter, r *http.Request, load func(context.Context) ([]dto.UnitResponse, error)) {
	units, err := load(r.Context())
	switch {
	case errors.Is(err, services.ErrUnitNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case err != nil:
		global.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("list units")
		writeJSONError(w, http.StatusInternalServerError, "cannot load administrative units")
	default:
		writeJSON(w, http.StatusOK, units)
	}
}

func (c *AddressController) UpsertMapping(w http.ResponseWriter, r *http.Request) {
	var req dto.WardMappingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	m, err := c.Mappings.Upsert(r.Context(), req, middleware.Username(r.Context()))
	switch {
	case errors.Is(err, services.ErrMappingIncomplete):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrMappingInvalid):
		writeJSONError(w, http.StatusConflict, err.Error())
	case err != nil:
		global.Logger.Error().Err(err).Msg("upsert ward mapping")
		writeJSONError(w, http.StatusInternalServerError, "cannot save ward mapping")
	default:
		writeJSON(w, http.StatusOK, dto.WardMappingResponse{ID: m.ID, OldWardID: m.OldWardID, NewProvinceID: m.NewProvinceID, NewWardID: m.NewWardID})
	}
}
