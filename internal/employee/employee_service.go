package employee

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	employeeerrors "go-payday/internal/employee/errors"
	"go-payday/internal/payment/methods"
	"go-payday/internal/shared/cache"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const listCacheTTL = 60 * time.Second

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context, organizationID string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, organizationID string, id string) (EmployeeResponse, error)
	UpdateIBAN(ctx context.Context, organizationID string, id string, req UpdateIBANRequest) (EmployeeResponse, error)
}

type service struct {
	repo   Repository
	cache  cache.Cache
	logger *zap.Logger
}

func NewService(repo Repository, c cache.Cache, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.L()
	}
	return &service{
		repo:   repo,
		cache:  c,
		logger: logger.Named("employee.service"),
	}
}

func listCacheKey(organizationID string) string {
	return "employees:list:" + organizationID
}

func (s *service) GetAll(ctx context.Context, organizationID string) ([]EmployeeResponse, error) {
	if s.cache == nil {
		employees, err := s.repo.FindAllByOrganization(ctx, organizationID)
		if err != nil {
			return nil, err
		}
		return mapToListResponse(employees), nil
	}

	raw, err := s.cache.GetOrFill(ctx, listCacheKey(organizationID), listCacheTTL, func(ctx context.Context) ([]byte, error) {
		employees, err := s.repo.FindAllByOrganization(ctx, organizationID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(mapToListResponse(employees))
	})
	if err != nil {
		return nil, err
	}

	var resp []EmployeeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, organizationID string, id string) (EmployeeResponse, error) {
	empl, err := s.repo.FindByIDAndOrganization(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*empl), nil
}

// UpdateIBAN menormalisasi input (strip spasi, uppercase) dan memvalidasi
// format sebelum disimpan. Validasi penuh terjadi lagi saat pembayaran.
func (s *service) UpdateIBAN(
	ctx context.Context,
	organizationID string,
	id string,
	req UpdateIBANRequest,
) (EmployeeResponse, error) {
	normalized, ok := methods.NormalizeIBAN(req.IBAN)
	if !ok {
		return EmployeeResponse{}, employeeerrors.ErrInvalidIBANFormat
	}

	if _, err := s.repo.FindByIDAndOrganization(ctx, organizationID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	if err := s.repo.UpdateIBAN(ctx, organizationID, id, normalized); err != nil {
		return EmployeeResponse{}, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, listCacheKey(organizationID)); err != nil {
			s.logger.Warn("failed to invalidate employee list cache",
				zap.String("organization_id", organizationID),
				zap.Error(err),
			)
		}
	}

	return s.GetByID(ctx, organizationID, id)
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:       empl.ID.String(),
		FullName: empl.FullName,
		Email:    empl.Email,
		IBAN:     empl.IBAN,
	}
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(employees))
	for i, empl := range employees {
		resp[i] = mapToResponse(empl)
	}
	return resp
}
