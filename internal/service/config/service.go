package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/rezervo/booking-service/internal/domain"
	bookingconfigRepo "github.com/rezervo/booking-service/internal/infra/storage/bookingconfig"
	businessRepo "github.com/rezervo/booking-service/internal/infra/storage/business"
	"github.com/rezervo/booking-service/internal/service/config/models"
)

// Service сервис для работы с конфигурацией слотов бизнеса
type Service struct {
	configRepo   ConfigRepository
	businessRepo BusinessRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(
	configRepo ConfigRepository,
	businessRepo BusinessRepository,
	logger Logger,
) *Service {
	return &Service{
		configRepo:   configRepo,
		businessRepo: businessRepo,
		logger:       logger,
	}
}

// GetEffective получает действующую конфигурацию для пары (business, service)
// с учетом иерархии: услуга -> бизнес -> дефолты. Чтение публичное - страница
// бронирования показывает клиенту шаг сетки слотов.
func (s *Service) GetEffective(ctx context.Context, businessID int64, serviceID *int64) (*models.ConfigResponse, error) {
	s.logger.Info("GetEffective: fetching config for business=%d, service=%v", businessID, serviceID)

	if _, err := s.getBusiness(ctx, businessID); err != nil {
		return nil, err
	}

	config, err := s.configRepo.GetConfigWithHierarchy(ctx, businessID, serviceID)
	if err != nil {
		if errors.Is(err, bookingconfigRepo.ErrConfigNotFound) {
			// Ненастроенный бизнес живет на дефолтах
			config = domain.DefaultBookingConfig()
			config.BusinessID = businessID
			return models.FromDomainConfig(config), nil
		}
		s.logger.Error("GetEffective: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetEffective - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConfig(config), nil
}

// GetAll получает все конфигурации бизнеса. Доступно только владельцу.
func (s *Service) GetAll(ctx context.Context, businessID int64, userID int64) (*models.ConfigListResponse, error) {
	s.logger.Info("GetAll: fetching configs for business=%d by user=%d", businessID, userID)

	if err := s.checkOwnerAccess(ctx, businessID, userID); err != nil {
		return nil, err
	}

	configs, err := s.configRepo.GetAllByBusiness(ctx, businessID)
	if err != nil {
		s.logger.Error("GetAll: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetAll - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConfigList(configs), nil
}

// Upsert создает или обновляет конфигурацию. Доступно только владельцу.
func (s *Service) Upsert(ctx context.Context, businessID int64, req *models.UpsertConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Upsert: upserting config for business=%d, service=%v by user=%d", businessID, req.ServiceID, req.UserID)

	if err := s.checkOwnerAccess(ctx, businessID, req.UserID); err != nil {
		return nil, err
	}

	if err := validateConfigInput(req); err != nil {
		s.logger.Warn("Upsert: invalid input for business=%d: %v", businessID, err)
		return nil, err
	}

	config := &domain.BookingConfig{
		BusinessID:          businessID,
		ServiceID:           req.ServiceID,
		SlotIntervalMinutes: req.SlotIntervalMinutes,
		MinNoticeMinutes:    req.MinNoticeMinutes,
		AdvanceBookingDays:  req.AdvanceBookingDays,
	}

	upserted, err := s.configRepo.Upsert(ctx, config)
	if err != nil {
		s.logger.Error("Upsert: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: config id=%d upserted for business=%d", upserted.ID, businessID)
	return models.FromDomainConfig(upserted), nil
}

// Delete удаляет конфигурацию. Доступно только владельцу.
// После удаления пара (business, service) возвращается на уровень выше иерархии.
func (s *Service) Delete(ctx context.Context, businessID, configID int64, req *models.DeleteConfigRequest) error {
	s.logger.Info("Delete: deleting config id=%d for business=%d by user=%d", configID, businessID, req.UserID)

	if err := s.checkOwnerAccess(ctx, businessID, req.UserID); err != nil {
		return err
	}

	if err := s.configRepo.Delete(ctx, configID); err != nil {
		if errors.Is(err, bookingconfigRepo.ErrConfigNotFound) {
			s.logger.Warn("Delete: config id=%d not found", configID)
			return ErrConfigNotFound
		}
		s.logger.Error("Delete: repository error for config id=%d: %v", configID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	return nil
}

// Вспомогательные методы

func (s *Service) getBusiness(ctx context.Context, businessID int64) (*domain.Business, error) {
	biz, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("getBusiness: business id=%d not found", businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("getBusiness: failed to get business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	return biz, nil
}

func (s *Service) checkOwnerAccess(ctx context.Context, businessID int64, userID int64) error {
	biz, err := s.getBusiness(ctx, businessID)
	if err != nil {
		return err
	}

	if biz.OwnerID != userID {
		s.logger.Warn("checkOwnerAccess: user=%d is not the owner of business=%d", userID, businessID)
		return ErrAccessDenied
	}

	return nil
}

func validateConfigInput(req *models.UpsertConfigRequest) error {
	if req.SlotIntervalMinutes < domain.MinSlotIntervalMinutes || req.SlotIntervalMinutes > domain.MaxSlotIntervalMinutes {
		return fmt.Errorf("%w: slot interval must be in range %d-%d minutes",
			ErrInvalidInput, domain.MinSlotIntervalMinutes, domain.MaxSlotIntervalMinutes)
	}

	if req.MinNoticeMinutes < domain.MinNoticeMinutes || req.MinNoticeMinutes > domain.MaxNoticeMinutes {
		return fmt.Errorf("%w: min notice must be in range %d-%d minutes",
			ErrInvalidInput, domain.MinNoticeMinutes, domain.MaxNoticeMinutes)
	}

	if req.AdvanceBookingDays < domain.MinAdvanceBookingDays || req.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advance booking days must be in range %d-%d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	return nil
}
