package catalog

import (
	"net/http"

	"bhraman/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GET /api/packages and GET /api/admin/packages
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := utils.ParseQueryOptions(r)
	items, total, err := h.svc.List(r.Context(), Filter{
		Featured:     utils.ParseBool(r, "featured"),
		QueryOptions: opts,
	})
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.NewPage(items, total, opts.Page, opts.Limit))
}

// GET /api/packages/:slug
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, err := h.svc.GetBySlug(r.Context(), ps.ByName("slug"))
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"data": p})
}

// GET /api/admin/packages/:id
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, err := h.svc.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"data": p})
}

// POST /api/admin/packages
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in Input
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	p, err := h.svc.Create(r.Context(), in)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"message": "Package created", "data": p})
}

// PATCH /api/admin/packages/:id
func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in Input
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	p, err := h.svc.Update(r.Context(), ps.ByName("id"), in)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Package updated", "data": p})
}

// PATCH /api/admin/packages/:id/featured
func (h *Handler) SetFeatured(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Featured bool `json:"featured"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	p, err := h.svc.SetFeatured(r.Context(), ps.ByName("id"), body.Featured)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Package updated", "data": p})
}

// DELETE /api/admin/packages/:id
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.svc.Delete(r.Context(), ps.ByName("id")); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Package deleted"})
}
