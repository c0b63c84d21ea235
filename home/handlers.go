package home

import (
	"encoding/json"
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

// GET /api/home-config
func (h *Handler) Public(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cfg, err := h.svc.Public(r.Context())
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"data": cfg})
}

// GET /api/admin/home-config
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cfg, err := h.svc.Get(r.Context())
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"data": cfg})
}

// PATCH /api/admin/home-config
func (h *Handler) Patch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body map[string]json.RawMessage
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	cfg, err := h.svc.Patch(r.Context(), body)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Home config updated", "data": cfg})
}
