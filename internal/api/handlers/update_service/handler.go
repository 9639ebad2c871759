package update_service

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/rezervo/booking-service/internal/api/handlers"
	"github.com/rezervo/booking-service/internal/api/middleware"
	"github.com/rezervo/booking-service/internal/service/catalog"
	"github.com/rezervo/booking-service/internal/service/catalog/models"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidServiceID   = "некорректный ID услуги"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "пользователь не аутентифицирован"
	msgBusinessNotFound   = "бизнес не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgForbidden          = "доступ запрещен"
	msgInvalidService     = "некорректные данные услуги"
)

// UpdateServiceRequest HTTP request model
type UpdateServiceRequest struct {
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	IsActive        bool    `json:"isActive"`
}

// SetActiveRequest HTTP request model
type SetActiveRequest struct {
	IsActive bool `json:"isActive"`
}

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/businesses/{businessId}/services/{serviceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, serviceID, userID, ok := h.parseIDs(w, r, "PUT")
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/services/{serviceId} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), businessID, serviceID, &models.UpdateServiceRequest{
		UserID:          userID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		IsActive:        req.IsActive,
	})
	if err != nil {
		h.respondServiceError(w, "PUT", businessID, serviceID, userID, err)
		return
	}

	h.logger.Info("PUT /businesses/{id}/services/{serviceId} - Service updated: service_id=%d, business_id=%d", serviceID, businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleSetActive PATCH /api/v1/businesses/{businessId}/services/{serviceId}/active
func (h *Handler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	businessID, serviceID, userID, ok := h.parseIDs(w, r, "PATCH")
	if !ok {
		return
	}

	var req SetActiveRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /businesses/{id}/services/{serviceId}/active - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err := h.service.SetActive(r.Context(), businessID, serviceID, &models.SetActiveRequest{
		UserID:   userID,
		IsActive: req.IsActive,
	})
	if err != nil {
		h.respondServiceError(w, "PATCH", businessID, serviceID, userID, err)
		return
	}

	h.logger.Info("PATCH /businesses/{id}/services/{serviceId}/active - Service active=%v: service_id=%d, business_id=%d",
		req.IsActive, serviceID, businessID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}

func (h *Handler) parseIDs(w http.ResponseWriter, r *http.Request, method string) (businessID, serviceID, userID int64, ok bool) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s /businesses/{id}/services/{serviceId} - Invalid business ID: %v", method, err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return 0, 0, 0, false
	}

	serviceID, err = strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s /businesses/{id}/services/{serviceId} - Invalid service ID: %v", method, err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return 0, 0, 0, false
	}

	userID, authed := middleware.UserIDFromContext(r.Context())
	if !authed {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return 0, 0, 0, false
	}

	return businessID, serviceID, userID, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, method string, businessID, serviceID, userID int64, err error) {
	switch {
	case errors.Is(err, catalog.ErrBusinessNotFound):
		h.logger.Warn("%s services - Business not found: business_id=%d", method, businessID)
		handlers.RespondNotFound(w, msgBusinessNotFound)

	case errors.Is(err, catalog.ErrServiceNotFound):
		h.logger.Warn("%s services - Service not found: service_id=%d, business_id=%d", method, serviceID, businessID)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, catalog.ErrAccessDenied):
		h.logger.Warn("%s services - Access denied: business_id=%d, user_id=%d", method, businessID, userID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, catalog.ErrInvalidInput):
		h.logger.Warn("%s services - Invalid input: business_id=%d: %v", method, businessID, err)
		handlers.RespondBadRequest(w, msgInvalidService)

	default:
		h.logger.Error("%s services - Failed: business_id=%d, service_id=%d, error=%v", method, businessID, serviceID, err)
		handlers.RespondInternalError(w)
	}
}
