package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rezervo/booking-service/internal/domain"
	businessRepo "github.com/rezervo/booking-service/internal/infra/storage/business"
	catalogRepo "github.com/rezervo/booking-service/internal/infra/storage/catalog"
	"github.com/rezervo/booking-service/internal/service/catalog/models"
)

// Service сервис для работы с каталогом услуг бизнеса
type Service struct {
	catalogRepo  CatalogRepository
	businessRepo BusinessRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	catalogRepo CatalogRepository,
	businessRepo BusinessRepository,
	logger Logger,
) *Service {
	return &Service{
		catalogRepo:  catalogRepo,
		businessRepo: businessRepo,
		logger:       logger,
	}
}

// Create создает новую услугу. Доступно только владельцу бизнеса.
func (s *Service) Create(ctx context.Context, businessID int64, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Create: creating service %q for business=%d by user=%d", req.Name, businessID, req.UserID)

	if _, err := s.checkOwnerAccess(ctx, businessID, req.UserID); err != nil {
		return nil, err
	}

	if err := validateServiceInput(req.Name, req.DurationMinutes, req.Price); err != nil {
		s.logger.Warn("Create: invalid input for business=%d: %v", businessID, err)
		return nil, err
	}

	service := &domain.Service{
		BusinessID:      businessID,
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		IsActive:        true,
	}

	created, err := s.catalogRepo.Create(ctx, service)
	if err != nil {
		s.logger.Error("Create: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: service id=%d created for business=%d", created.ID, businessID)
	return models.FromDomainService(created), nil
}

// GetByID получает услугу по ID. Чтение публичное.
func (s *Service) GetByID(ctx context.Context, businessID, serviceID int64) (*models.ServiceResponse, error) {
	service, err := s.catalogRepo.GetByID(ctx, businessID, serviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("GetByID: service id=%d not found for business=%d", serviceID, businessID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetByID: repository error for service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainService(service), nil
}

// List получает услуги бизнеса.
// Клиенты видят только активные услуги; владелец может запросить все.
func (s *Service) List(ctx context.Context, req *models.ListServicesRequest) (*models.ServiceListResponse, error) {
	s.logger.Info("List: fetching services for business=%d, includeInactive=%v", req.BusinessID, req.IncludeInactive)

	onlyActive := true
	if req.IncludeInactive {
		if req.UserID == nil {
			s.logger.Warn("List: includeInactive requires userID for business=%d", req.BusinessID)
			return nil, ErrAccessDenied
		}
		if _, err := s.checkOwnerAccess(ctx, req.BusinessID, *req.UserID); err != nil {
			return nil, err
		}
		onlyActive = false
	}

	services, err := s.catalogRepo.GetByBusiness(ctx, req.BusinessID, onlyActive)
	if err != nil {
		s.logger.Error("List: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServiceList(services), nil
}

// Update обновляет услугу. Доступно только владельцу бизнеса.
func (s *Service) Update(ctx context.Context, businessID, serviceID int64, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Update: updating service id=%d for business=%d by user=%d", serviceID, businessID, req.UserID)

	if _, err := s.checkOwnerAccess(ctx, businessID, req.UserID); err != nil {
		return nil, err
	}

	if err := validateServiceInput(req.Name, req.DurationMinutes, req.Price); err != nil {
		s.logger.Warn("Update: invalid input for service id=%d: %v", serviceID, err)
		return nil, err
	}

	service := &domain.Service{
		ID:              serviceID,
		BusinessID:      businessID,
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		IsActive:        req.IsActive,
	}

	updated, err := s.catalogRepo.Update(ctx, service)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("Update: service id=%d not found for business=%d", serviceID, businessID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: service id=%d updated", serviceID)
	return models.FromDomainService(updated), nil
}

// SetActive мягко включает/отключает услугу. Доступно только владельцу бизнеса.
// Отключённая услуга исчезает из выбора клиентов, но история броней остаётся.
func (s *Service) SetActive(ctx context.Context, businessID, serviceID int64, req *models.SetActiveRequest) error {
	s.logger.Info("SetActive: setting service id=%d active=%v by user=%d", serviceID, req.IsActive, req.UserID)

	if _, err := s.checkOwnerAccess(ctx, businessID, req.UserID); err != nil {
		return err
	}

	if err := s.catalogRepo.SetActive(ctx, businessID, serviceID, req.IsActive); err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("SetActive: service id=%d not found for business=%d", serviceID, businessID)
			return ErrServiceNotFound
		}
		s.logger.Error("SetActive: repository error for service id=%d: %v", serviceID, err)
		return fmt.Errorf("%w: SetActive - repository error: %v", ErrInternal, err)
	}

	return nil
}

// Вспомогательные методы

func (s *Service) checkOwnerAccess(ctx context.Context, businessID int64, userID int64) (*domain.Business, error) {
	biz, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("checkOwnerAccess: business id=%d not found", businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("checkOwnerAccess: failed to get business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: checkOwnerAccess - failed to get business: %v", ErrInternal, err)
	}

	if biz.OwnerID != userID {
		s.logger.Warn("checkOwnerAccess: user=%d is not the owner of business=%d", userID, businessID)
		return nil, ErrAccessDenied
	}

	return biz, nil
}

func validateServiceInput(name string, durationMinutes int, price float64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if durationMinutes < domain.MinServiceDuration || durationMinutes > domain.MaxServiceDuration {
		return fmt.Errorf("%w: duration must be in range %d-%d minutes",
			ErrInvalidInput, domain.MinServiceDuration, domain.MaxServiceDuration)
	}

	if price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	return nil
}
