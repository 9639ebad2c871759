package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezervo/booking-service/internal/domain"
	catalogRepo "github.com/rezervo/booking-service/internal/infra/storage/catalog"
	"github.com/rezervo/booking-service/internal/service/catalog/models"
	"github.com/rezervo/booking-service/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeCatalogRepo struct {
	nextID   int64
	services []*domain.Service

	lastOnlyActive *bool
	setActiveCall  *bool
}

func (f *fakeCatalogRepo) Create(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	f.nextID++
	service.ID = f.nextID
	f.services = append(f.services, service)
	return service, nil
}

func (f *fakeCatalogRepo) GetByID(ctx context.Context, businessID, serviceID int64) (*domain.Service, error) {
	for _, s := range f.services {
		if s.ID == serviceID && s.BusinessID == businessID {
			return s, nil
		}
	}
	return nil, catalogRepo.ErrServiceNotFound
}

func (f *fakeCatalogRepo) GetByBusiness(ctx context.Context, businessID int64, onlyActive bool) ([]*domain.Service, error) {
	f.lastOnlyActive = &onlyActive

	out := make([]*domain.Service, 0, len(f.services))
	for _, s := range f.services {
		if s.BusinessID != businessID {
			continue
		}
		if onlyActive && !s.IsActive {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeCatalogRepo) Update(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	for i, s := range f.services {
		if s.ID == service.ID && s.BusinessID == service.BusinessID {
			f.services[i] = service
			return service, nil
		}
	}
	return nil, catalogRepo.ErrServiceNotFound
}

func (f *fakeCatalogRepo) SetActive(ctx context.Context, businessID, serviceID int64, active bool) error {
	for _, s := range f.services {
		if s.ID == serviceID && s.BusinessID == businessID {
			s.IsActive = active
			f.setActiveCall = &active
			return nil
		}
	}
	return catalogRepo.ErrServiceNotFound
}

type fakeBusinessRepo struct {
	business *domain.Business
	err      error
}

func (f *fakeBusinessRepo) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.business, nil
}

const ownerID = int64(10)

func newTestService(repo *fakeCatalogRepo) *Service {
	bizRepo := &fakeBusinessRepo{
		business: &domain.Business{ID: 1, OwnerID: ownerID, Name: "Салон Виктория", IsActive: true},
	}
	return NewService(repo, bizRepo, nopLogger{})
}

func TestCreate_NewServiceIsActive(t *testing.T) {
	repo := &fakeCatalogRepo{}
	svc := newTestService(repo)

	resp, err := svc.Create(context.Background(), 1, &models.CreateServiceRequest{
		UserID:          ownerID,
		Name:            "  Мъжко подстригване  ",
		DurationMinutes: 30,
		Price:           25.0,
	})
	require.NoError(t, err)

	assert.True(t, resp.IsActive)
	// имя обрезается
	assert.Equal(t, "Мъжко подстригване", resp.Name)
	assert.NotZero(t, resp.ID)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateServiceRequest
	}{
		{name: "blank name", req: models.CreateServiceRequest{UserID: ownerID, Name: "  ", DurationMinutes: 30}},
		{name: "zero duration", req: models.CreateServiceRequest{UserID: ownerID, Name: "Услуга", DurationMinutes: 0}},
		{name: "duration too long", req: models.CreateServiceRequest{UserID: ownerID, Name: "Услуга", DurationMinutes: 481}},
		{name: "negative price", req: models.CreateServiceRequest{UserID: ownerID, Name: "Услуга", DurationMinutes: 30, Price: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&fakeCatalogRepo{})

			_, err := svc.Create(context.Background(), 1, &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreate_AccessDenied(t *testing.T) {
	svc := newTestService(&fakeCatalogRepo{})

	_, err := svc.Create(context.Background(), 1, &models.CreateServiceRequest{
		UserID:          99,
		Name:            "Услуга",
		DurationMinutes: 30,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestList_PublicSeesOnlyActive(t *testing.T) {
	repo := &fakeCatalogRepo{
		services: []*domain.Service{
			{ID: 1, BusinessID: 1, Name: "Активна", DurationMinutes: 30, IsActive: true},
			{ID: 2, BusinessID: 1, Name: "Скрита", DurationMinutes: 30, IsActive: false},
		},
	}
	svc := newTestService(repo)

	resp, err := svc.List(context.Background(), &models.ListServicesRequest{BusinessID: 1})
	require.NoError(t, err)

	require.Len(t, resp.Services, 1)
	assert.Equal(t, "Активна", resp.Services[0].Name)
}

func TestList_OwnerSeesInactive(t *testing.T) {
	repo := &fakeCatalogRepo{
		services: []*domain.Service{
			{ID: 1, BusinessID: 1, Name: "Активна", DurationMinutes: 30, IsActive: true},
			{ID: 2, BusinessID: 1, Name: "Скрита", DurationMinutes: 30, IsActive: false},
		},
	}
	svc := newTestService(repo)

	resp, err := svc.List(context.Background(), &models.ListServicesRequest{
		BusinessID:      1,
		UserID:          ptr.Ptr(ownerID),
		IncludeInactive: true,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Services, 2)
}

func TestList_IncludeInactiveRequiresOwner(t *testing.T) {
	svc := newTestService(&fakeCatalogRepo{})

	// без userID
	_, err := svc.List(context.Background(), &models.ListServicesRequest{
		BusinessID:      1,
		IncludeInactive: true,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// чужой userID
	_, err = svc.List(context.Background(), &models.ListServicesRequest{
		BusinessID:      1,
		UserID:          ptr.Ptr(int64(99)),
		IncludeInactive: true,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestSetActive_SoftDisable(t *testing.T) {
	repo := &fakeCatalogRepo{
		services: []*domain.Service{
			{ID: 1, BusinessID: 1, Name: "Услуга", DurationMinutes: 30, IsActive: true},
		},
	}
	svc := newTestService(repo)

	err := svc.SetActive(context.Background(), 1, 1, &models.SetActiveRequest{
		UserID:   ownerID,
		IsActive: false,
	})
	require.NoError(t, err)
	assert.False(t, repo.services[0].IsActive)
}

func TestSetActive_NotFound(t *testing.T) {
	svc := newTestService(&fakeCatalogRepo{})

	err := svc.SetActive(context.Background(), 1, 42, &models.SetActiveRequest{
		UserID:   ownerID,
		IsActive: false,
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newTestService(&fakeCatalogRepo{})

	_, err := svc.Update(context.Background(), 1, 42, &models.UpdateServiceRequest{
		UserID:          ownerID,
		Name:            "Услуга",
		DurationMinutes: 30,
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}
