package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/parkhurst/casetrack-api/internal/domain"
	"github.com/parkhurst/casetrack-api/internal/service"
	"github.com/parkhurst/casetrack-api/internal/store"
)

// SettingResponse represents one notification setting row.
type SettingResponse struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	IsEnabled bool   `json:"is_enabled"`
	SendEmail bool   `json:"send_email"`
}

// UpdateSettingRequest is the body for PUT /api/settings/{type}.
// Omitted fields are left unchanged.
type UpdateSettingRequest struct {
	IsEnabled *bool `json:"is_enabled"`
	SendEmail *bool `json:"send_email"`
}

// InitializeSettingsRequest is the body for POST /api/settings/initialize.
// Overrides replace the default flags for the named categories.
type InitializeSettingsRequest struct {
	Overrides []SettingResponse `json:"overrides"`
}

// SettingsHandler handles notification setting HTTP requests.
type SettingsHandler struct {
	settings *service.SettingsService
	logger   *slog.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings *service.SettingsService, logger *slog.Logger) *SettingsHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &SettingsHandler{
		settings: settings,
		logger:   logger.With(slog.String("component", "settings_handler")),
	}
}

// List handles GET /api/settings requests.
func (h *SettingsHandler) List(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list settings", "error", err)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to list settings")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, settingsToResponses(settings))
}

// Initialize handles POST /api/settings/initialize requests, the one-time
// settings bootstrap.
func (h *SettingsHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	var req InitializeSettingsRequest
	if r.ContentLength > 0 {
		if err := DecodeJSON(r, &req); err != nil {
			RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
	}

	overrides := make([]domain.NotificationSetting, 0, len(req.Overrides))
	for _, o := range req.Overrides {
		overrides = append(overrides, domain.NotificationSetting{
			Type:      domain.NotificationType(o.Type),
			Name:      o.Name,
			IsEnabled: o.IsEnabled,
			SendEmail: o.SendEmail,
		})
	}

	seeded, err := h.settings.Initialize(r.Context(), overrides)
	if err != nil {
		if errors.Is(err, service.ErrSettingsAlreadyInitialized) {
			RespondWithError(w, r, http.StatusConflict, "Settings already initialized")
			return
		}
		h.logger.Error("failed to initialize settings", "error", err)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to initialize settings")
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, settingsToResponses(seeded))
}

// Update handles PUT /api/settings/{type} requests.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	settingType := domain.NotificationType(chi.URLParam(r, "type"))
	if !domain.ValidNotificationType(settingType) {
		RespondWithError(w, r, http.StatusBadRequest, "Unknown notification type")
		return
	}

	var req UpdateSettingRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.IsEnabled == nil && req.SendEmail == nil {
		RespondWithError(w, r, http.StatusBadRequest, "No fields to update")
		return
	}

	setting, err := h.settings.Update(r.Context(), settingType, service.UpdateSettingParams{
		IsEnabled: req.IsEnabled,
		SendEmail: req.SendEmail,
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			RespondWithError(w, r, http.StatusNotFound, "Setting not found")
			return
		}
		h.logger.Error("failed to update setting",
			"error", err,
			"type", string(settingType))
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to update setting")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, settingToResponse(*setting))
}

func settingToResponse(s domain.NotificationSetting) SettingResponse {
	return SettingResponse{
		Type:      string(s.Type),
		Name:      s.Name,
		IsEnabled: s.IsEnabled,
		SendEmail: s.SendEmail,
	}
}

func settingsToResponses(settings []domain.NotificationSetting) []SettingResponse {
	responses := make([]SettingResponse, 0, len(settings))
	for _, s := range settings {
		responses = append(responses, settingToResponse(s))
	}
	return responses
}
