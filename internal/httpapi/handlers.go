package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fintrack-app/backend/internal/auth"
	"github.com/fintrack-app/backend/internal/service"
)

// Handler exposes the automatic tax operations over JSON/HTTP.
type Handler struct {
	svc *service.TaxService
}

// NewHandler creates the HTTP handler for the tax service.
func NewHandler(svc *service.TaxService) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/tax/summary", h.getSummary)
	mux.HandleFunc("PATCH /api/v1/tax/reminders/{id}/mark-paid", h.markReminderPaid)
	mux.HandleFunc("POST /api/v1/tax/estimate", h.estimateTax)
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	summary, err := h.svc.GetSummary(r.Context(), claims.UID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidUserID) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[httpapi] tax summary error: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to compute automatic tax summary")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) markReminderPaid(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := h.svc.MarkReminderPaid(r.Context(), claims.UID, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUserID), errors.Is(err, service.ErrInvalidReminderID):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrReminderNotFound):
			writeError(w, http.StatusNotFound, "Reminder not found")
		default:
			log.Printf("[httpapi] mark paid error: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to mark reminder as paid")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type estimateRequest struct {
	TotalIncome   int64 `json:"totalIncome"`
	TotalExpenses int64 `json:"totalExpenses"`
}

func (h *Handler) estimateTax(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.RequireAuth(r.Context()); err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TotalIncome < 0 || req.TotalExpenses < 0 {
		writeError(w, http.StatusBadRequest, "Amounts must be non-negative")
		return
	}

	writeJSON(w, http.StatusOK, h.svc.EstimateTax(req.TotalIncome, req.TotalExpenses))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[httpapi] failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
