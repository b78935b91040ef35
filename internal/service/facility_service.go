package service

import (
	"context"
	"errors"
	"sort"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
	"github.com/spec-kit/fieldforce-crm/internal/geocode"
	"github.com/spec-kit/fieldforce-crm/internal/repository"
	"github.com/spec-kit/fieldforce-crm/pkg/util"
)

// FacilityInput carries the fields captured when registering a facility.
type FacilityInput struct {
	Name        string
	Address     string
	City        string
	State       string
	Country     string
	Pincode     string
	Phone       *string
	Email       *string
	Type        domain.FacilityType
	Latitude    *float64
	Longitude   *float64
	Specialties []string
}

// NearbyFacility pairs a facility with its distance from the caller.
type NearbyFacility struct {
	Facility   domain.Facility
	DistanceKm float64
}

// FacilityService manages the clinics and hospitals of one organization.
type FacilityService struct {
	facilities repository.FacilityRepository
	meetings   repository.MeetingRepository
	geocoder   *geocode.Client
	logger     *zap.Logger
}

// NewFacilityService builds the service. geocoder may be nil.
func NewFacilityService(facilities repository.FacilityRepository, meetings repository.MeetingRepository, geocoder *geocode.Client, logger *zap.Logger) *FacilityService {
	return &FacilityService{
		facilities: facilities,
		meetings:   meetings,
		geocoder:   geocoder,
		logger:     logger,
	}
}

// Create registers a facility. Names are unique per organization. When no
// coordinates are supplied the places provider is consulted, best effort.
func (s *FacilityService) Create(ctx context.Context, orgID, addedBy string, addedByRole domain.Role, in FacilityInput) (*domain.Facility, error) {
	if _, err := s.facilities.GetByName(ctx, orgID, in.Name); err == nil {
		return nil, util.NewValidationError("facility with this name already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	f := &domain.Facility{
		ID:             util.NewFacilityID(),
		OrganizationID: orgID,
		Name:           in.Name,
		Address:        in.Address,
		City:           in.City,
		State:          in.State,
		Country:        in.Country,
		Pincode:        in.Pincode,
		Phone:          in.Phone,
		Email:          in.Email,
		Type:           in.Type,
		Status:         domain.FacilityStatusActive,
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		Specialties:    in.Specialties,
		AddedBy:        addedBy,
		AddedByRole:    addedByRole,
	}

	if f.Latitude == nil || f.Longitude == nil {
		s.enrichCoordinates(ctx, f)
	}

	if err := s.facilities.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// enrichCoordinates looks up the facility with the places provider. Lookup
// failures are logged and ignored, the facility is saved without coordinates.
func (s *FacilityService) enrichCoordinates(ctx context.Context, f *domain.Facility) {
	if s.geocoder == nil {
		return
	}
	place, err := s.geocoder.Search(ctx, f.Name, f.City)
	if err != nil {
		s.logger.Warn("facility geocoding failed", zap.String("facility", f.Name), zap.Error(err))
		return
	}
	if place == nil {
		return
	}
	f.Latitude = &place.Latitude
	f.Longitude = &place.Longitude
	f.PlaceID = &place.PlaceID
}

// Get returns one facility scoped to the organization.
func (s *FacilityService) Get(ctx context.Context, orgID, id string) (*domain.Facility, error) {
	f, err := s.facilities.GetByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("facility", nil)
		}
		return nil, err
	}
	return f, nil
}

// List returns facilities matching the filter plus the unpaginated total.
func (s *FacilityService) List(ctx context.Context, filter repository.FacilityFilter) ([]domain.Facility, int, error) {
	return s.facilities.List(ctx, filter)
}

// Update applies partial changes to a facility.
func (s *FacilityService) Update(ctx context.Context, orgID, id string, in FacilityInput) (*domain.Facility, error) {
	f, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" && in.Name != f.Name {
		if _, err := s.facilities.GetByName(ctx, orgID, in.Name); err == nil {
			return nil, util.NewValidationError("facility with this name already exists", nil)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		f.Name = in.Name
	}
	addressChanged := false
	if in.Address != "" && in.Address != f.Address {
		f.Address = in.Address
		addressChanged = true
	}
	if in.City != "" && in.City != f.City {
		f.City = in.City
		addressChanged = true
	}
	if in.State != "" && in.State != f.State {
		f.State = in.State
		addressChanged = true
	}
	if in.Country != "" {
		f.Country = in.Country
	}
	if in.Pincode != "" {
		f.Pincode = in.Pincode
	}
	if in.Phone != nil {
		f.Phone = in.Phone
	}
	if in.Email != nil {
		f.Email = in.Email
	}
	if in.Type != "" {
		f.Type = in.Type
	}
	if in.Latitude != nil && in.Longitude != nil {
		f.Latitude = in.Latitude
		f.Longitude = in.Longitude
	} else if addressChanged {
		// A relocated facility must not keep coordinates of the old address,
		// the check-in proximity rule would enforce the wrong location.
		s.enrichCoordinates(ctx, f)
	}
	if in.Specialties != nil {
		f.Specialties = in.Specialties
	}

	if err := s.facilities.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Delete deactivates a facility. Facilities with a visit in progress cannot
// be deactivated.
func (s *FacilityService) Delete(ctx context.Context, orgID, id string) error {
	if _, err := s.Get(ctx, orgID, id); err != nil {
		return err
	}

	active, err := s.meetings.CountActiveByFacility(ctx, orgID, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return util.NewConflict("facility has a visit in progress", nil)
	}

	if err := s.facilities.SoftDelete(ctx, orgID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("facility", nil)
		}
		return err
	}
	return nil
}

// Rate records an employee's 1-5 rating and returns the updated average.
func (s *FacilityService) Rate(ctx context.Context, orgID, id, employeeID string, rating int) (*domain.Facility, error) {
	if rating < 1 || rating > 5 {
		return nil, util.NewValidationError("rating must be between 1 and 5", nil)
	}
	f, err := s.facilities.AddRating(ctx, orgID, id, employeeID, rating)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("facility", nil)
		}
		return nil, err
	}
	return f, nil
}

// Nearby returns active facilities within radiusKm of the given point,
// closest first. Facilities without coordinates are skipped.
func (s *FacilityService) Nearby(ctx context.Context, orgID string, lat, lng, radiusKm float64, limit int) ([]NearbyFacility, error) {
	if radiusKm <= 0 {
		radiusKm = 10
	}
	if limit <= 0 {
		limit = 20
	}

	status := domain.FacilityStatusActive
	facilities, _, err := s.facilities.List(ctx, repository.FacilityFilter{
		OrganizationID: orgID,
		Status:         &status,
		Limit:          1000,
	})
	if err != nil {
		return nil, err
	}

	var nearby []NearbyFacility
	for _, f := range facilities {
		if f.Latitude == nil || f.Longitude == nil {
			continue
		}
		dist := util.HaversineKm(lat, lng, *f.Latitude, *f.Longitude)
		if dist <= radiusKm {
			nearby = append(nearby, NearbyFacility{Facility: f, DistanceKm: dist})
		}
	}
	sort.Slice(nearby, func(i, j int) bool { return nearby[i].DistanceKm < nearby[j].DistanceKm })
	if len(nearby) > limit {
		nearby = nearby[:limit]
	}
	return nearby, nil
}

// VisitStats returns visit history for one facility.
func (s *FacilityService) VisitStats(ctx context.Context, orgID, id string) (*domain.FacilityVisitStats, error) {
	if _, err := s.Get(ctx, orgID, id); err != nil {
		return nil, err
	}
	return s.meetings.FacilityStats(ctx, orgID, id)
}

// StatsByType summarizes the facility directory grouped by type.
func (s *FacilityService) StatsByType(ctx context.Context, orgID string) ([]repository.FacilityTypeStats, error) {
	return s.facilities.StatsByType(ctx, orgID)
}
