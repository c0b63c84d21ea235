package filemgr

import (
	"net/http"

	"bhraman/apperr"
	"bhraman/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// POST /api/admin/uploads?entity=package|site with a multipart "file" field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	entity := EntityType(r.URL.Query().Get("entity"))
	if entity == "" {
		entity = EntityPackage
	}
	if !entity.Valid() {
		utils.RespondError(w, r, apperr.Invalid("entity", "must be package or site"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		utils.RespondError(w, r, apperr.Invalid("file", "unable to parse upload (max 10MB)"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondError(w, r, apperr.Invalid("file", "is required"))
		return
	}
	defer file.Close()

	up, err := h.store.Save(entity, header.Filename, file)
	if err != nil {
		if IsClientError(err) {
			utils.RespondError(w, r, apperr.Invalid("file", err.Error()))
			return
		}
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"message": "File uploaded", "data": up})
}
