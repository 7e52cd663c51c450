package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/parkhurst/casetrack-api/internal/domain"
	"github.com/parkhurst/casetrack-api/internal/service"
	"github.com/parkhurst/casetrack-api/internal/store"
)

// NotificationResponse represents one durable notification record.
type NotificationResponse struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Message        string    `json:"message"`
	TaskID         *string   `json:"task_id,omitempty"`
	CaseID         *string   `json:"case_id,omitempty"`
	AnnouncementID *string   `json:"announcement_id,omitempty"`
	Recipient      string    `json:"recipient"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

// NotificationHandler handles per-recipient notification HTTP requests.
type NotificationHandler struct {
	notifications *service.NotificationService
	logger        *slog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(
	notifications *service.NotificationService,
	logger *slog.Logger,
) *NotificationHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &NotificationHandler{
		notifications: notifications,
		logger:        logger.With(slog.String("component", "notification_handler")),
	}
}

// ListForRecipient handles GET /api/notifications?recipient={id} requests.
func (h *NotificationHandler) ListForRecipient(w http.ResponseWriter, r *http.Request) {
	recipient, ok := recipientFromQuery(w, r)
	if !ok {
		return
	}

	notifications, err := h.notifications.ListForRecipient(r.Context(), recipient)
	if err != nil {
		h.logger.Error("failed to list notifications",
			"error", err,
			"recipient", recipient)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to list notifications")
		return
	}

	responses := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, notificationToResponse(n))
	}
	RespondWithJSON(w, r, http.StatusOK, responses)
}

// MarkRead handles PUT /api/notifications/{id}/read requests.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.notifications.MarkRead(r.Context(), id); err != nil {
		if store.IsNotFoundError(err) {
			RespondWithError(w, r, http.StatusNotFound, "Notification not found")
			return
		}
		h.logger.Error("failed to mark notification read", "error", err, "id", id)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to update notification")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/notifications/{id} requests.
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.notifications.Delete(r.Context(), id); err != nil {
		if store.IsNotFoundError(err) {
			RespondWithError(w, r, http.StatusNotFound, "Notification not found")
			return
		}
		h.logger.Error("failed to delete notification", "error", err, "id", id)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to delete notification")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteAllForRecipient handles DELETE /api/notifications?recipient={id} requests.
func (h *NotificationHandler) DeleteAllForRecipient(w http.ResponseWriter, r *http.Request) {
	recipient, ok := recipientFromQuery(w, r)
	if !ok {
		return
	}

	deleted, err := h.notifications.DeleteAllForRecipient(r.Context(), recipient)
	if err != nil {
		h.logger.Error("failed to delete notifications",
			"error", err,
			"recipient", recipient)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to delete notifications")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, map[string]int64{"deleted": deleted})
}

func recipientFromQuery(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.URL.Query().Get("recipient")
	if raw == "" {
		RespondWithError(w, r, http.StatusBadRequest, "Missing recipient query parameter")
		return uuid.Nil, false
	}

	recipient, err := uuid.Parse(raw)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid recipient ID")
		return uuid.Nil, false
	}

	return recipient, true
}

func notificationToResponse(n *domain.Notification) NotificationResponse {
	response := NotificationResponse{
		ID:        n.ID.String(),
		Type:      string(n.Type),
		Message:   n.Message,
		Recipient: n.Recipient.String(),
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.TaskID != nil {
		s := n.TaskID.String()
		response.TaskID = &s
	}
	if n.CaseID != nil {
		s := n.CaseID.String()
		response.CaseID = &s
	}
	if n.AnnouncementID != nil {
		s := n.AnnouncementID.String()
		response.AnnouncementID = &s
	}
	return response
}
