package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"spatialboard/internal/repository"
)

// FileHandler serves attachments kept in the local blob store. It only
// exists when Mongo is configured; with the Drive sink the links point at
// Drive directly.
type FileHandler struct {
	attachments repository.AttachmentRepo
}

func NewFileHandler(attachments repository.AttachmentRepo) *FileHandler {
	return &FileHandler{attachments: attachments}
}

// Get handles GET /v1/files/{id}
func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.attachments == nil {
		writeError(w, http.StatusNotFound, "file store not configured")
		return
	}
	att, err := h.attachments.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if att == nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	w.Header().Set("Content-Type", att.MIME)
	w.WriteHeader(http.StatusOK)
	w.Write(att.Data)
}
