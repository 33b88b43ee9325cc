package handler

import (
	"encoding/json"
	"net/http"

	"github.com/storefront-api/internal/application/homepage"
	"github.com/storefront-api/internal/domain"
	"github.com/storefront-api/internal/pkg/validate"
)

// HomepageHandler handles the homepage settings singleton.
type HomepageHandler struct {
	svc homepage.Service
}

func NewHomepageHandler(svc homepage.Service) *HomepageHandler {
	return &HomepageHandler{svc: svc}
}

func (h *HomepageHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.Get(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *HomepageHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var in domain.HomepageSettingsInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&in); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	settings, err := h.svc.Upsert(r.Context(), in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
