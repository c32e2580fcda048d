package organization

import (
	"context"
	"errors"

	organizationerrors "go-payday/internal/organization/errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=organization_service.go -destination=mock/organization_service_mock.go -package=mock
type Service interface {
	GetSettings(ctx context.Context, organizationID string) (OrganizationResponse, error)
	UpdateSettings(ctx context.Context, organizationID string, req UpdateSettingsRequest) (OrganizationResponse, error)
	StripeEnabled(ctx context.Context, organizationID string) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetSettings(ctx context.Context, organizationID string) (OrganizationResponse, error) {
	org, err := s.repo.FindByID(ctx, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrganizationResponse{}, organizationerrors.ErrOrganizationNotFound
		}
		return OrganizationResponse{}, err
	}

	return mapToResponse(*org), nil
}

func (s *service) UpdateSettings(ctx context.Context, organizationID string, req UpdateSettingsRequest) (OrganizationResponse, error) {
	if _, err := s.GetSettings(ctx, organizationID); err != nil {
		return OrganizationResponse{}, err
	}

	if err := s.repo.UpdateStripeEnabled(ctx, organizationID, *req.StripeEnabled); err != nil {
		return OrganizationResponse{}, err
	}

	return s.GetSettings(ctx, organizationID)
}

func (s *service) StripeEnabled(ctx context.Context, organizationID string) (bool, error) {
	org, err := s.repo.FindByID(ctx, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, organizationerrors.ErrOrganizationNotFound
		}
		return false, err
	}
	return org.StripeEnabled, nil
}

func mapToResponse(org Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:            org.ID.String(),
		Name:          org.Name,
		StripeEnabled: org.StripeEnabled,
	}
}
