package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/rezervo/booking-service/internal/domain"
	businessRepo "github.com/rezervo/booking-service/internal/infra/storage/business"
	reservationRepo "github.com/rezervo/booking-service/internal/infra/storage/reservation"
	"github.com/rezervo/booking-service/internal/service/reservations/models"
)

// allowedTransitions допустимые переходы статусов через UpdateStatus.
// Отмена идет отдельным путем (Cancel) - с причиной и снятием уведомлений.
var allowedTransitions = map[domain.ReservationStatus][]domain.ReservationStatus{
	domain.StatusPending:   {domain.StatusConfirmed, domain.StatusCompleted},
	domain.StatusConfirmed: {domain.StatusCompleted},
}

// Service сервис для работы с бронями от лица владельца бизнеса
type Service struct {
	reservationRepo       ReservationRepository
	businessRepo          BusinessRepository
	notificationScheduler NotificationScheduler
	logger                Logger
}

// NewService создает новый экземпляр сервиса броней
func NewService(
	reservationRepo ReservationRepository,
	businessRepo BusinessRepository,
	notificationScheduler NotificationScheduler,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo:       reservationRepo,
		businessRepo:          businessRepo,
		notificationScheduler: notificationScheduler,
		logger:                logger,
	}
}

// GetByID получает бронь по ID.
// Доступно только владельцу бизнеса, которому принадлежит бронь.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	res, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.checkOwnerAccess(ctx, res.BusinessID, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", userID, id)
		return nil, err
	}

	return models.FromDomainReservation(res), nil
}

// GetBusinessReservations получает брони бизнеса с гибкой фильтрацией.
// Поддерживает фильтрацию по периоду, статусу и включение отменённых броней.
// Доступно только владельцу бизнеса.
func (s *Service) GetBusinessReservations(ctx context.Context, req *models.GetBusinessReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetBusinessReservations: fetching reservations for business=%d, user=%d", req.BusinessID, req.UserID)

	if _, err := s.checkOwnerAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBusinessReservations: invalid status=%v for business=%d", req.Status, req.BusinessID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	reservations, err := s.reservationRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBusinessReservations: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessReservations: fetched %d reservations for business=%d", len(reservations), req.BusinessID)
	return models.FromDomainReservationList(reservations), nil
}

// UpdateStatus обновляет статус брони (подтверждение, завершение).
// Переход в cancelled через этот метод запрещён - для отмены есть Cancel.
func (s *Service) UpdateStatus(ctx context.Context, reservationID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating reservation id=%d to status=%s by user=%d", reservationID, req.Status, req.UserID)

	res, err := s.getReservation(ctx, reservationID)
	if err != nil {
		return err
	}

	if _, err := s.checkOwnerAccess(ctx, res.BusinessID, req.UserID); err != nil {
		return err
	}

	newStatus, err := models.ToDomainReservationStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for reservation id=%d", req.Status, reservationID)
		return fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	if !transitionAllowed(res.Status, newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for reservation id=%d", res.Status, newStatus, reservationID)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, res.Status, newStatus)
	}

	if err := s.reservationRepo.UpdateStatus(ctx, reservationID, newStatus); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		s.logger.Error("UpdateStatus: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: reservation id=%d updated to status=%s", reservationID, newStatus)
	return nil
}

// Cancel отменяет бронь с указанием причины.
// Слот немедленно освобождается для новых броней; запланированные
// напоминания снимаются, клиенту планируется уведомление об отмене.
func (s *Service) Cancel(ctx context.Context, reservationID int64, req *models.CancelReservationRequest) error {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", reservationID, req.UserID)

	res, err := s.getReservation(ctx, reservationID)
	if err != nil {
		return err
	}

	biz, err := s.checkOwnerAccess(ctx, res.BusinessID, req.UserID)
	if err != nil {
		return err
	}

	if !res.CanBeCancelled() {
		s.logger.Warn("Cancel: reservation id=%d in status=%s cannot be cancelled", reservationID, res.Status)
		return fmt.Errorf("%w: status=%s", ErrCannotCancel, res.Status)
	}

	if err := s.reservationRepo.Cancel(ctx, reservationID, req.CancellationReason); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Уведомления вторичны: бронь уже отменена, ошибку только логируем
	if s.notificationScheduler != nil {
		res.Status = domain.StatusCancelled
		if err := s.notificationScheduler.ScheduleReservationCancelled(ctx, res, biz); err != nil {
			s.logger.Error("Cancel: failed to schedule cancellation notice for reservation id=%d: %v", reservationID, err)
		}
	}

	s.logger.Info("Cancel: reservation id=%d cancelled", reservationID)
	return nil
}

// Вспомогательные методы

func (s *Service) getReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("getReservation: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("getReservation: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: getReservation - repository error: %v", ErrInternal, err)
	}
	return res, nil
}

// checkOwnerAccess проверяет, что пользователь - владелец бизнеса
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

func transitionAllowed(from, to domain.ReservationStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
