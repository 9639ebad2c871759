package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rezervo/booking-service/internal/domain"
	bookingconfigRepo "github.com/rezervo/booking-service/internal/infra/storage/bookingconfig"
	businessRepo "github.com/rezervo/booking-service/internal/infra/storage/business"
	catalogRepo "github.com/rezervo/booking-service/internal/infra/storage/catalog"
	reservationRepo "github.com/rezervo/booking-service/internal/infra/storage/reservation"
	"github.com/rezervo/booking-service/pkg/ptr"
)

// UseCase use case для создания брони.
// Доступность, показанная клиенту при выборе слота, к моменту отправки формы
// могла устареть, поэтому решающая проверка выполняется здесь: повторное чтение
// броней дня с блокировкой строк и проверка пересечений происходят в одной
// сериализуемой транзакции со вставкой. Из двух конкурентных коммитов на один
// слот ровно один получает бронь, второй - ErrSlotTaken.
type UseCase struct {
	reservationRepo       ReservationRepository
	scheduleRepo          ScheduleRepository
	businessRepo          BusinessRepository
	catalogRepo           CatalogRepository
	configRepo            ConfigRepository
	txManager             TransactionManager
	notificationScheduler NotificationScheduler
	timeProvider          TimeProvider
	logger                Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	scheduleRepo ScheduleRepository,
	businessRepo BusinessRepository,
	catalogRepo CatalogRepository,
	configRepo ConfigRepository,
	txManager TransactionManager,
	notificationScheduler NotificationScheduler,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo:       reservationRepo,
		scheduleRepo:          scheduleRepo,
		businessRepo:          businessRepo,
		catalogRepo:           catalogRepo,
		configRepo:            configRepo,
		txManager:             txManager,
		notificationScheduler: notificationScheduler,
		timeProvider:          &RealTimeProvider{},
		logger:                logger,
	}
}

// Execute выполняет use case создания брони
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: business=%d, service=%v, date=%s, time=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Проверяем, что бизнес существует и активен
	biz, err := uc.businessRepo.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("CreateReservation: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateReservation: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	if !biz.IsActive {
		uc.logger.Warn("CreateReservation: business id=%d is not active", req.BusinessID)
		return nil, ErrBusinessNotFound
	}

	// 3. Определяем услугу и длительность занятости
	var service *domain.Service
	if req.ServiceID != nil {
		service, err = uc.catalogRepo.GetByID(ctx, req.BusinessID, *req.ServiceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				uc.logger.Warn("CreateReservation: service id=%d not found", *req.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("CreateReservation: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		if !service.IsActive {
			uc.logger.Warn("CreateReservation: service id=%d is inactive", *req.ServiceID)
			return nil, ErrServiceInactive
		}
	}
	durationMinutes := domain.OccupancyMinutes(service)

	// 4. Собираем бронь: имя и цена услуги снимаются на момент создания,
	// чтобы переименование или изменение цены не переписало историю
	res := &domain.Reservation{
		BusinessID:      req.BusinessID,
		ServiceID:       req.ServiceID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: durationMinutes,
		Status:          domain.StatusPending,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		Notes:           req.Notes,
	}
	if service != nil {
		res.ServiceName = ptr.Ptr(service.Name)
		res.ServicePrice = ptr.Ptr(service.Price)
	}

	// 5. Все решающие проверки и вставка - в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		return uc.commitReservation(txCtx, req, res, now, durationMinutes)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateReservation: reservation id=%d created for business=%d, date=%s, time=%s",
		res.ID, res.BusinessID, res.Date.Format(domain.DateFormat), res.StartTime)

	// 6. Планируем уведомления после коммита. Ошибка планирования не отменяет
	// бронь - она уже зафиксирована, уведомления вторичны.
	if uc.notificationScheduler != nil {
		if err := uc.notificationScheduler.ScheduleReservationCreated(ctx, res, biz); err != nil {
			uc.logger.Error("CreateReservation: failed to schedule notifications for reservation id=%d: %v", res.ID, err)
		}
	}

	return &Response{Reservation: res}, nil
}

// commitReservation выполняет проверки и вставку внутри транзакции
func (uc *UseCase) commitReservation(
	ctx context.Context,
	req *Request,
	res *domain.Reservation,
	now time.Time,
	durationMinutes int,
) error {
	// Конфигурация и расписание читаются внутри транзакции: правила,
	// действовавшие на момент коммита, а не на момент показа слотов
	config, err := uc.configRepo.GetConfigWithHierarchy(ctx, req.BusinessID, req.ServiceID)
	if err != nil && !errors.Is(err, bookingconfigRepo.ErrConfigNotFound) {
		uc.logger.Error("CreateReservation: failed to get config: %v", err)
		return fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}
	if config == nil {
		config = domain.DefaultBookingConfig()
	}

	if err := validateDate(req.Date, now, config.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateReservation: date validation failed: %v", err)
		return err
	}

	entries, err := uc.scheduleRepo.GetByBusiness(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to get schedule: %v", err)
		return fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	weeklySchedule, err := domain.NewWeeklySchedule(entries)
	if err != nil {
		uc.logger.Error("CreateReservation: corrupt schedule for business=%d: %v", req.BusinessID, err)
		return fmt.Errorf("%w: corrupt schedule: %v", ErrInternal, err)
	}

	entry, ok := weeklySchedule.LookupDate(req.Date)
	if !ok {
		uc.logger.Warn("CreateReservation: business=%d has no schedule for %s",
			req.BusinessID, req.Date.Format(domain.DateFormat))
		return ErrBusinessClosed
	}

	if err := validateWindow(entry, req.StartTime, durationMinutes); err != nil {
		uc.logger.Warn("CreateReservation: window validation failed: %v", err)
		return err
	}

	if err := validateNotice(req.Date, req.StartTime, now, config.MinNoticeMinutes); err != nil {
		uc.logger.Warn("CreateReservation: notice validation failed: %v", err)
		return err
	}

	// Повторная проверка пересечений: чтение блокирует строки дня (FOR UPDATE),
	// конкурентный коммит на пересекающийся интервал будет ждать или упадет
	// с ошибкой сериализации и уйдет на retry
	end, err := req.StartTime.AddMinutes(durationMinutes)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	filter := domain.ReservationsFilter{
		BusinessID:       req.BusinessID,
		StartDate:        &req.Date,
		EndDate:          &req.Date,
		IncludeCancelled: false,
	}

	existing, err := uc.reservationRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to get reservations: %v", err)
		return fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	for _, other := range existing {
		if !other.BlocksSlot() {
			continue
		}

		overlaps, err := other.OverlapsInterval(req.StartTime, end)
		if err != nil {
			uc.logger.Error("CreateReservation: reservation id=%d has invalid time: %v", other.ID, err)
			continue
		}

		if overlaps {
			uc.logger.Warn("CreateReservation: slot %s conflicts with reservation id=%d", req.StartTime, other.ID)
			return ErrSlotTaken
		}
	}

	if _, err := uc.reservationRepo.Create(ctx, res); err != nil {
		// Частичный уникальный индекс - последний рубеж против гонки
		if errors.Is(err, reservationRepo.ErrSlotConflict) {
			uc.logger.Warn("CreateReservation: unique index rejected slot %s for business=%d", req.StartTime, req.BusinessID)
			return ErrSlotTaken
		}
		uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
		return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
	}

	return nil
}
