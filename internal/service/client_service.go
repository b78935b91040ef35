package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
	"github.com/spec-kit/fieldforce-crm/internal/repository"
	"github.com/spec-kit/fieldforce-crm/pkg/util"
)

// ClientInput carries the fields captured when adding a contact.
type ClientInput struct {
	FacilityID  string
	Name        string
	Designation string
	Department  string
	Mobile      string
	Email       string
	Capacity    domain.ClientCapacity
}

// ClientService manages the contact people at facilities.
type ClientService struct {
	clients    repository.ClientRepository
	facilities repository.FacilityRepository
}

// NewClientService builds the service.
func NewClientService(clients repository.ClientRepository, facilities repository.FacilityRepository) *ClientService {
	return &ClientService{clients: clients, facilities: facilities}
}

// Create adds a contact at a facility. Mobile numbers are unique per
// organization.
func (s *ClientService) Create(ctx context.Context, orgID, createdBy string, createdByRole domain.Role, in ClientInput) (*domain.Client, error) {
	facility, err := s.facilities.GetByID(ctx, orgID, in.FacilityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("facility", nil)
		}
		return nil, err
	}

	if _, err := s.clients.GetByMobile(ctx, orgID, in.Mobile); err == nil {
		return nil, util.NewValidationError("client with this mobile number already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	client := &domain.Client{
		ID:             util.NewClientID(),
		OrganizationID: orgID,
		FacilityID:     facility.ID,
		FacilityName:   facility.Name,
		Name:           in.Name,
		Designation:    in.Designation,
		Department:     in.Department,
		Mobile:         in.Mobile,
		Email:          in.Email,
		Capacity:       in.Capacity,
		CreatedBy:      createdBy,
		CreatedByRole:  createdByRole,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Get returns one contact scoped to the organization.
func (s *ClientService) Get(ctx context.Context, orgID, id string) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("client", nil)
		}
		return nil, err
	}
	return client, nil
}

// List returns contacts matching the filter plus the unpaginated total.
func (s *ClientService) List(ctx context.Context, filter repository.ClientFilter) ([]domain.Client, int, error) {
	return s.clients.List(ctx, filter)
}

// ListByCreator returns the contacts an employee added, newest first.
func (s *ClientService) ListByCreator(ctx context.Context, orgID, createdBy string) ([]domain.Client, error) {
	return s.clients.ListByCreator(ctx, orgID, createdBy)
}

// Update applies partial changes to a contact.
func (s *ClientService) Update(ctx context.Context, orgID, id string, in ClientInput) (*domain.Client, error) {
	client, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if in.FacilityID != "" && in.FacilityID != client.FacilityID {
		facility, err := s.facilities.GetByID(ctx, orgID, in.FacilityID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, util.NewNotFound("facility", nil)
			}
			return nil, err
		}
		client.FacilityID = facility.ID
		client.FacilityName = facility.Name
	}
	if in.Mobile != "" && in.Mobile != client.Mobile {
		if _, err := s.clients.GetByMobile(ctx, orgID, in.Mobile); err == nil {
			return nil, util.NewValidationError("client with this mobile number already exists", nil)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		client.Mobile = in.Mobile
	}
	if in.Name != "" {
		client.Name = in.Name
	}
	if in.Designation != "" {
		client.Designation = in.Designation
	}
	if in.Department != "" {
		client.Department = in.Department
	}
	if in.Email != "" {
		client.Email = in.Email
	}
	if in.Capacity != "" {
		client.Capacity = in.Capacity
	}

	if err := s.clients.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}
