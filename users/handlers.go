package users

import (
	"net/http"

	"bhraman/apperr"
	"bhraman/globals"
	"bhraman/models"
	"bhraman/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	dir *Directory
}

func NewHandler(dir *Directory) *Handler {
	return &Handler{dir: dir}
}

// GET /api/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	u := globals.UserFrom(r.Context())
	if u == nil {
		utils.RespondError(w, r, apperr.Unauthorized(""))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"data": u})
}

// PATCH /api/me
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	u := globals.UserFrom(r.Context())
	if u == nil {
		utils.RespondError(w, r, apperr.Unauthorized(""))
		return
	}
	var in ProfileInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	updated, err := h.dir.UpdateProfile(r.Context(), u.ID, in)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Profile updated", "data": updated})
}

// GET /api/admin/users
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := utils.ParseQueryOptions(r)
	f := Filter{Role: models.Role(r.URL.Query().Get("role")), QueryOptions: opts}
	items, total, err := h.dir.List(r.Context(), f)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.NewPage(items, total, opts.Page, opts.Limit))
}

// GET /api/admin/users/:id
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	u, err := h.dir.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"data": u})
}

// PATCH /api/admin/users/:id/role
func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Role string `json:"role"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	u, err := h.dir.SetRole(r.Context(), ps.ByName("id"), body.Role)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Role updated", "data": u})
}
