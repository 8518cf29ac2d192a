package quotation

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/contractor-management/internal/auth"
	"github.com/frahmantamala/contractor-management/internal/transport"
	"github.com/frahmantamala/contractor-management/internal/workflow"
	"github.com/frahmantamala/contractor-management/pkg/logger"
)

type ServiceAPI interface {
	CreateQuotation(ctx context.Context, user *auth.User, dto CreateQuotationDTO) (*Quotation, error)
	GetQuotation(ctx context.Context, user *auth.User, id int64) (*Quotation, error)
	ListQuotations(ctx context.Context, user *auth.User, limit, offset int) ([]*Quotation, error)
	Transition(ctx context.Context, user *auth.User, id int64, target workflow.Status, reason string) (*Quotation, error)
	Reject(ctx context.Context, user *auth.User, id int64, reason string) (*Quotation, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreateQuotation(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateQuotationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateQuotation: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := h.Service.CreateQuotation(r.Context(), user, dto)
	if err != nil {
		h.Logger.Error("CreateQuotation: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateQuotation: quotation created",
		"quotation_id", q.ID,
		"sequence_number", q.SequenceNumber,
		"user_id", user.ID)

	h.WriteJSON(w, http.StatusCreated, q)
}

func (h *Handler) GetQuotation(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.quotationID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid quotation ID")
		return
	}

	q, err := h.Service.GetQuotation(r.Context(), user, id)
	if err != nil {
		h.handleQuotationError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, q)
}

func (h *Handler) ListQuotations(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 20
	offset := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	quotations, err := h.Service.ListQuotations(r.Context(), user, limit, offset)
	if err != nil {
		h.Logger.Error("ListQuotations: service error", "error", err, "user_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to list quotations")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"quotations": quotations,
		"limit":      limit,
		"offset":     offset,
	})
}

// TransitionQuotation handles PATCH /quotations/{id}/status.
func (h *Handler) TransitionQuotation(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.quotationID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid quotation ID")
		return
	}

	var dto TransitionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	q, err := h.Service.Transition(r.Context(), user, id, workflow.Status(dto.Status), dto.Reason)
	if err != nil {
		h.handleQuotationError(w, err)
		return
	}

	h.Logger.Info("TransitionQuotation: status changed",
		"quotation_id", id,
		"status", q.Status,
		"user_id", user.ID)

	h.WriteJSON(w, http.StatusOK, q)
}

// RejectQuotation handles PATCH /quotations/{id}/reject.
func (h *Handler) RejectQuotation(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.quotationID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid quotation ID")
		return
	}

	var dto RejectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	q, err := h.Service.Reject(r.Context(), user, id, dto.Reason)
	if err != nil {
		h.handleQuotationError(w, err)
		return
	}

	h.Logger.Info("RejectQuotation: quotation rejected",
		"quotation_id", id,
		"reason", dto.Reason,
		"user_id", user.ID)

	h.WriteJSON(w, http.StatusOK, q)
}

func (h *Handler) quotationID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) handleQuotationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrQuotationNotFound):
		h.WriteError(w, http.StatusNotFound, "quotation not found")
	case errors.Is(err, ErrUnauthorizedAccess):
		h.WriteError(w, http.StatusForbidden, "access to this quotation is not allowed")
	case errors.Is(err, workflow.ErrInvalidTransition):
		h.WriteError(w, http.StatusBadRequest, "this status change is not allowed for your role")
	case errors.Is(err, workflow.ErrMissingRejectionReason):
		h.WriteError(w, http.StatusBadRequest, "rejection reason is required")
	case errors.Is(err, workflow.ErrStatusConflict):
		h.WriteError(w, http.StatusConflict, "quotation was modified by another reviewer, reload and retry")
	default:
		h.HandleServiceError(w, err)
	}
}
