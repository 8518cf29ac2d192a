package rfq

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
	CreateRFQ(ctx context.Context, user *auth.User, dto CreateRFQDTO) (*RFQ, error)
	GetRFQ(ctx context.Context, id int64) (*RFQ, error)
	ListRFQs(ctx context.Context, limit, offset int) ([]*RFQ, error)
	Transition(ctx context.Context, user *auth.User, id int64, target workflow.Status, reason string) (*RFQ, error)
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

func (h *Handler) CreateRFQ(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateRFQDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.CreateRFQ(r.Context(), user, dto)
	if err != nil {
		h.Logger.Error("CreateRFQ: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateRFQ: rfq created",
		"rfq_id", created.ID,
		"sequence_number", created.SequenceNumber,
		"user_id", user.ID)

	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetRFQ(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserFromContext(r.Context()); !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.rfqID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid RFQ ID")
		return
	}

	found, err := h.Service.GetRFQ(r.Context(), id)
	if err != nil {
		h.handleRFQError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, found)
}

func (h *Handler) ListRFQs(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserFromContext(r.Context()); !ok {
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

	rfqs, err := h.Service.ListRFQs(r.Context(), limit, offset)
	if err != nil {
		h.Logger.Error("ListRFQs: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list RFQs")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"rfqs":   rfqs,
		"limit":  limit,
		"offset": offset,
	})
}

// TransitionRFQ handles PATCH /rfqs/{id}/status.
func (h *Handler) TransitionRFQ(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.rfqID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid RFQ ID")
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

	updated, err := h.Service.Transition(r.Context(), user, id, workflow.Status(dto.Status), dto.Reason)
	if err != nil {
		h.handleRFQError(w, err)
		return
	}

	h.Logger.Info("TransitionRFQ: status changed",
		"rfq_id", id,
		"status", updated.Status,
		"user_id", user.ID)

	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) rfqID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) handleRFQError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRFQNotFound):
		h.WriteError(w, http.StatusNotFound, "RFQ not found")
	case errors.Is(err, workflow.ErrInvalidTransition):
		h.WriteError(w, http.StatusBadRequest, "this status change is not allowed for your role")
	case errors.Is(err, workflow.ErrMissingRejectionReason):
		h.WriteError(w, http.StatusBadRequest, "rejection reason is required")
	case errors.Is(err, workflow.ErrStatusConflict):
		h.WriteError(w, http.StatusConflict, "RFQ was modified by another reviewer, reload and retry")
	default:
		h.HandleServiceError(w, err)
	}
}
