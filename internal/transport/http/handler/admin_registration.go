package handler

import (
	"encoding/json"
	"net/http"

	"github.com/storefront-api/internal/application/registration"
	"github.com/storefront-api/internal/pkg/validate"
)

// AdminRegistrationHandler handles the OTP-gated admin signup endpoints.
type AdminRegistrationHandler struct {
	svc registration.Service
}

func NewAdminRegistrationHandler(svc registration.Service) *AdminRegistrationHandler {
	return &AdminRegistrationHandler{svc: svc}
}

func (h *AdminRegistrationHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req registration.InitiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	requestID, err := h.svc.Initiate(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RegistrationRequestEnvelope{
		RequestID: requestID,
		Message:   "verification code sent to the approver",
	})
}

func (h *AdminRegistrationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req registration.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.svc.Verify(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSafeUser(u))
}

// RegistrationRequestEnvelope acknowledges a signup request without ever
// carrying the verification code.
type RegistrationRequestEnvelope struct {
	RequestID string `json:"request_id"`
	Message   string `json:"message"`
}
