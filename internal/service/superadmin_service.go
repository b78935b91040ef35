package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
	"github.com/spec-kit/fieldforce-crm/internal/repository"
	"github.com/spec-kit/fieldforce-crm/pkg/util"
)

// SuperAdminService exposes the platform-wide views only the superadmin can see.
type SuperAdminService struct {
	admins repository.AdminRepository
	orgs   repository.OrganizationRepository
}

// NewSuperAdminService builds the service.
func NewSuperAdminService(admins repository.AdminRepository, orgs repository.OrganizationRepository) *SuperAdminService {
	return &SuperAdminService{admins: admins, orgs: orgs}
}

// ListPendingAdmins returns admins awaiting verification, newest first.
func (s *SuperAdminService) ListPendingAdmins(ctx context.Context, limit, offset int) ([]domain.Admin, int, error) {
	return s.admins.ListPending(ctx, limit, offset)
}

// AdminStats summarizes registration activity across all organizations.
func (s *SuperAdminService) AdminStats(ctx context.Context) (*repository.AdminStats, error) {
	return s.admins.Stats(ctx)
}

// GetAdmin returns a single admin by ID regardless of organization.
func (s *SuperAdminService) GetAdmin(ctx context.Context, adminID string) (*domain.Admin, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("admin", nil)
		}
		return nil, err
	}
	return admin, nil
}

// GetOrganization returns an organization by ID.
func (s *SuperAdminService) GetOrganization(ctx context.Context, orgID string) (*domain.Organization, error) {
	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("organization", nil)
		}
		return nil, err
	}
	return org, nil
}

// DeleteAdmin removes a rejected admin registration.
func (s *SuperAdminService) DeleteAdmin(ctx context.Context, adminID string) error {
	if err := s.admins.Delete(ctx, adminID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("admin", nil)
		}
		return err
	}
	return nil
}
