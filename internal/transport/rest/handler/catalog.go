package handler

import (
	"net/http"

	"spatialboard/internal/catalog"
	"spatialboard/internal/model"
)

// CatalogHandler serves the injected enumerations the page renders from.
type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

// Get handles GET /v1/catalog
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"roster":       h.catalog.Roster(),
		"tags":         h.catalog.Tags(),
		"work_methods": model.WorkMethods,
	})
}
