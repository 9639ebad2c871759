package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/rezervo/booking-service/internal/domain"
	businessRepo "github.com/rezervo/booking-service/internal/infra/storage/business"
	"github.com/rezervo/booking-service/internal/service/schedule/models"
)

// Service сервис для работы с недельным расписанием бизнеса
type Service struct {
	scheduleRepo ScheduleRepository
	businessRepo BusinessRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	businessRepo BusinessRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		businessRepo: businessRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Get получает недельное расписание бизнеса.
// Чтение публичное - расписание видно клиентам на странице бронирования.
func (s *Service) Get(ctx context.Context, businessID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("Get: fetching schedule for business=%d", businessID)

	if _, err := s.getBusiness(ctx, businessID); err != nil {
		return nil, err
	}

	entries, err := s.scheduleRepo.GetByBusiness(ctx, businessID)
	if err != nil {
		s.logger.Error("Get: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainEntries(businessID, entries), nil
}

// Replace заменяет недельное расписание бизнеса целиком.
// Владелец сохраняет всю неделю одним запросом; частичных обновлений нет.
// Замена выполняется в транзакции - читатели не увидят полупустое расписание.
func (s *Service) Replace(ctx context.Context, businessID int64, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Replace: replacing schedule for business=%d by user=%d, days=%d", businessID, req.UserID, len(req.Days))

	biz, err := s.getBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if biz.OwnerID != req.UserID {
		s.logger.Warn("Replace: user=%d is not the owner of business=%d", req.UserID, businessID)
		return nil, ErrAccessDenied
	}

	entries, err := req.ToDomainEntries(businessID)
	if err != nil {
		s.logger.Warn("Replace: invalid schedule input for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			s.logger.Warn("Replace: invalid schedule entry for business=%d: %v", businessID, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	// Дубликаты дней отсекаются той же проверкой, что и на чтении
	if _, err := domain.NewWeeklySchedule(entries); err != nil {
		s.logger.Warn("Replace: invalid schedule for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.scheduleRepo.ReplaceAll(txCtx, businessID, entries)
	})
	if err != nil {
		s.logger.Error("Replace: failed to replace schedule for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Replace - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Replace: schedule replaced for business=%d", businessID)
	return models.FromDomainEntries(businessID, entries), nil
}

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
