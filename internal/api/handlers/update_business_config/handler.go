package update_business_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/rezervo/booking-service/internal/api/handlers"
	"github.com/rezervo/booking-service/internal/api/middleware"
	"github.com/rezervo/booking-service/internal/service/config"
	"github.com/rezervo/booking-service/internal/service/config/models"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidConfigID    = "некорректный ID конфигурации"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "пользователь не аутентифицирован"
	msgBusinessNotFound   = "бизнес не найден"
	msgConfigNotFound     = "конфигурация не найдена"
	msgForbidden          = "доступ запрещен"
	msgInvalidConfig      = "некорректная конфигурация"
)

// UpsertConfigRequest HTTP request model
type UpsertConfigRequest struct {
	ServiceID           *int64 `json:"serviceId,omitempty"`
	SlotIntervalMinutes int    `json:"slotIntervalMinutes"`
	MinNoticeMinutes    int    `json:"minNoticeMinutes"`
	AdvanceBookingDays  int    `json:"advanceBookingDays"`
}

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/businesses/{businessId}/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/config - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req UpsertConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Upsert(r.Context(), businessID, &models.UpsertConfigRequest{
		UserID:              userID,
		ServiceID:           req.ServiceID,
		SlotIntervalMinutes: req.SlotIntervalMinutes,
		MinNoticeMinutes:    req.MinNoticeMinutes,
		AdvanceBookingDays:  req.AdvanceBookingDays,
	})
	if err != nil {
		h.respondConfigError(w, "PUT", businessID, userID, err)
		return
	}

	h.logger.Info("PUT /businesses/{id}/config - Config upserted: config_id=%d, business_id=%d", result.ID, businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDelete DELETE /api/v1/businesses/{businessId}/config/{configId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/config/{configId} - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	configID, err := strconv.ParseInt(vars["configId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/config/{configId} - Invalid config ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidConfigID)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	err = h.service.Delete(r.Context(), businessID, configID, &models.DeleteConfigRequest{UserID: userID})
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			h.logger.Warn("DELETE /businesses/{id}/config/{configId} - Config not found: config_id=%d", configID)
			handlers.RespondNotFound(w, msgConfigNotFound)
			return
		}
		h.respondConfigError(w, "DELETE", businessID, userID, err)
		return
	}

	h.logger.Info("DELETE /businesses/{id}/config/{configId} - Config deleted: config_id=%d, business_id=%d", configID, businessID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}

func (h *Handler) respondConfigError(w http.ResponseWriter, method string, businessID, userID int64, err error) {
	switch {
	case errors.Is(err, config.ErrBusinessNotFound):
		h.logger.Warn("%s config - Business not found: business_id=%d", method, businessID)
		handlers.RespondNotFound(w, msgBusinessNotFound)

	case errors.Is(err, config.ErrAccessDenied):
		h.logger.Warn("%s config - Access denied: business_id=%d, user_id=%d", method, businessID, userID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, config.ErrInvalidInput):
		h.logger.Warn("%s config - Invalid input: business_id=%d: %v", method, businessID, err)
		handlers.RespondBadRequest(w, msgInvalidConfig)

	default:
		h.logger.Error("%s config - Failed: business_id=%d, error=%v", method, businessID, err)
		handlers.RespondInternalError(w)
	}
}
