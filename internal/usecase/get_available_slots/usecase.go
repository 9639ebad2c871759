package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/rezervo/booking-service/internal/domain"
	bookingconfigRepo "github.com/rezervo/booking-service/internal/infra/storage/bookingconfig"
	businessRepo "github.com/rezervo/booking-service/internal/infra/storage/business"
	catalogRepo "github.com/rezervo/booking-service/internal/infra/storage/catalog"
)

// UseCase use case для получения доступных слотов.
// Композиция: расписание -> генерация кандидатов -> фильтрация по существующим броням.
// Результат считается по свежему снимку данных; единственное неустранимое окно
// между чтением и решением клиента закрывается повторной проверкой при коммите.
type UseCase struct {
	reservationRepo ReservationRepository
	scheduleRepo    ScheduleRepository
	businessRepo    BusinessRepository
	catalogRepo     CatalogRepository
	configRepo      ConfigRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	scheduleRepo ScheduleRepository,
	businessRepo BusinessRepository,
	catalogRepo CatalogRepository,
	configRepo ConfigRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		scheduleRepo:    scheduleRepo,
		businessRepo:    businessRepo,
		catalogRepo:     catalogRepo,
		configRepo:      configRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, service=%v, date=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// Прошедшая дата - не ошибка: свободных слотов на нее просто нет
	if isDateInPast(req.Date, now) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past for business=%d, no slots",
			req.Date.Format(domain.DateFormat), req.BusinessID)
		return uc.emptyResponse(req), nil
	}

	// 3. Проверяем, что бизнес существует и активен
	biz, err := uc.businessRepo.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	if !biz.IsActive {
		uc.logger.Warn("GetAvailableSlots: business id=%d is not active", req.BusinessID)
		return nil, ErrBusinessNotFound
	}

	// 4. Определяем длительность занятости: из услуги или дефолтные 60 минут
	var service *domain.Service
	if req.ServiceID != nil {
		service, err = uc.catalogRepo.GetByID(ctx, req.BusinessID, *req.ServiceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				uc.logger.Warn("GetAvailableSlots: service id=%d not found", *req.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		if !service.IsActive {
			uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", *req.ServiceID)
			return nil, ErrServiceInactive
		}
	}
	durationMinutes := domain.OccupancyMinutes(service)

	// 5. Получаем конфигурацию слотов с учетом иерархии
	config, err := uc.configRepo.GetConfigWithHierarchy(ctx, req.BusinessID, req.ServiceID)
	if err != nil && !errors.Is(err, bookingconfigRepo.ErrConfigNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get config: %v", err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}
	if config == nil {
		config = domain.DefaultBookingConfig()
	}

	// 6. Валидация даты с учетом конфигурации
	if err := validateDate(req.Date, now, config.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 7. Получаем недельное расписание и окно работы на этот день недели
	entries, err := uc.scheduleRepo.GetByBusiness(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	weeklySchedule, err := domain.NewWeeklySchedule(entries)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: corrupt schedule for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: corrupt schedule: %v", ErrInternal, err)
	}

	// Нет записи на день недели или is_open=false - день закрыт, слотов нет
	entry, ok := weeklySchedule.LookupDate(req.Date)
	if !ok || !entry.IsOpen {
		uc.logger.Info("GetAvailableSlots: business=%d is closed on %s",
			req.BusinessID, req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req), nil
	}

	// 8. Генерируем кандидатов
	candidates, err := generateTimeSlots(entry, durationMinutes, config.SlotIntervalMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate time slots: %v", err)
		return nil, err
	}

	// 9. Для сегодняшней даты скрываем слоты, нарушающие минимальное время до брони
	candidates, err = filterByNotice(candidates, req.Date, now, config.MinNoticeMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to apply notice filter: %v", err)
		return nil, fmt.Errorf("%w: notice filter: %v", ErrInternal, err)
	}

	// 10. Получаем блокирующие брони на эту дату
	filter := domain.ReservationsFilter{
		BusinessID:       req.BusinessID,
		StartDate:        &req.Date,
		EndDate:          &req.Date,
		IncludeCancelled: false,
	}

	reservations, err := uc.reservationRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	// 11. Убираем занятые кандидаты
	available, err := filterAvailableSlots(candidates, durationMinutes, reservations, uc.logger)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to filter slots: %v", err)
		return nil, err
	}

	slots := make([]Slot, len(available))
	for i, start := range available {
		slots[i] = Slot{StartTime: start, DurationMinutes: durationMinutes}
	}

	uc.logger.Info("GetAvailableSlots: %d of %d candidates available for business=%d, date=%s",
		len(slots), len(candidates), req.BusinessID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:       req.Date,
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		Slots:      slots,
	}, nil
}

func (uc *UseCase) emptyResponse(req *Request) *Response {
	return &Response{
		Date:       req.Date,
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		Slots:      []Slot{},
	}
}
