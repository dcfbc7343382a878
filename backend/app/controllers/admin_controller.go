package controllers

import (
	"net/http"

	"banglaixanh/backend/app/models"
	"banglaixanh/backend/app/services"
)

type AdminController struct{ Users *services.UserService }

func NewAdminController(users *services.UserService) *AdminController {
	return &AdminController{Users: users}
}

type createUserReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (c *AdminController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserReq
	_ = decodeJSON(r, &req)
	if req.Username == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	if req.Role != "" && req.Role != models.RoleUser && req.Role != models.RoleAdmin {
		writeJSONError(w, http.StatusBadRequest, "role must be user or admin")
		return
	}
	if err := c.Users.CreateUser(req.Username, req.Password, req.Role); err != nil {
		writeJSONError(w, http.StatusConflict, "user already exists")
		return
	}
	w.WriteHeader(http.StatusCreated)
}
