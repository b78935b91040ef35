package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/fieldforce-crm/internal/auth"
	"github.com/spec-kit/fieldforce-crm/internal/config"
	"github.com/spec-kit/fieldforce-crm/internal/domain"
	"github.com/spec-kit/fieldforce-crm/internal/events"
	"github.com/spec-kit/fieldforce-crm/internal/repository"
	"github.com/spec-kit/fieldforce-crm/pkg/util"
)

// AdminRegistration carries the organization and admin details captured at sign-up.
type AdminRegistration struct {
	OrganizationName    string
	OrganizationAddress string
	ContactNumber       string
	AdminName           string
	AdminEmail          string
	AdminPhone          string
	EmployeeQuota       int
}

// AuthService coordinates registration, verification and login flows for all
// three principal kinds.
type AuthService struct {
	superadmins repository.SuperAdminRepository
	admins      repository.AdminRepository
	employees   repository.EmployeeRepository
	orgs        repository.OrganizationRepository
	tokenMgr    *auth.TokenManager
	otpStore    *auth.OTPStore
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	bcryptCost  int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	SuperAdminRepo   repository.SuperAdminRepository
	AdminRepo        repository.AdminRepository
	EmployeeRepo     repository.EmployeeRepository
	OrganizationRepo repository.OrganizationRepository
	OTPStore         *auth.OTPStore
	Dispatcher       events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg *config.Config, deps AuthDependencies, logger *zap.Logger) *AuthService {
	return &AuthService{
		superadmins: deps.SuperAdminRepo,
		admins:      deps.AdminRepo,
		employees:   deps.EmployeeRepo,
		orgs:        deps.OrganizationRepo,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		otpStore:    deps.OTPStore,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// CurrentAdmin resolves a token's admin ID to the full account record.
func (s *AuthService) CurrentAdmin(ctx context.Context, adminID string) (*domain.Admin, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewUnauthorized("account no longer exists")
		}
		return nil, err
	}
	return admin, nil
}

// CurrentEmployee resolves a token's employee ID to the full account record.
func (s *AuthService) CurrentEmployee(ctx context.Context, orgID, employeeID string) (*domain.Employee, error) {
	emp, err := s.employees.GetByID(ctx, orgID, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewUnauthorized("account no longer exists")
		}
		return nil, err
	}
	if !emp.Active {
		return nil, util.NewForbidden("account deactivated")
	}
	return emp, nil
}

// EnsureSuperAdmin creates the bootstrap superadmin account on first start.
// Subsequent starts are a no-op.
func (s *AuthService) EnsureSuperAdmin(ctx context.Context, email, password string) error {
	exists, err := s.superadmins.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	sa := &domain.SuperAdmin{
		ID:           auth.SuperAdminSubjectID,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.superadmins.Create(ctx, sa); err != nil {
		return err
	}
	s.logger.Info("superadmin account created", zap.String("email", email))
	return nil
}

// LoginSuperAdmin authenticates the superadmin.
func (s *AuthService) LoginSuperAdmin(ctx context.Context, email, password string) (string, time.Time, error) {
	sa, err := s.superadmins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, util.NewInvalidCredentials()
		}
		return "", time.Time{}, err
	}
	if err := auth.ComparePassword(sa.PasswordHash, password); err != nil {
		return "", time.Time{}, util.NewInvalidCredentials()
	}
	return s.tokenMgr.IssueSuperAdmin(sa.Email)
}

// RegisterAdmin creates the organization and its unverified admin in one step.
// The admin cannot log in until the superadmin verifies the account.
func (s *AuthService) RegisterAdmin(ctx context.Context, reg AdminRegistration) (*domain.Admin, error) {
	if _, err := s.admins.GetByEmail(ctx, reg.AdminEmail); err == nil {
		return nil, util.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	quota := reg.EmployeeQuota
	if quota <= 0 {
		quota = 10
	}
	org := &domain.Organization{
		ID:            util.NewOrganizationID(),
		Name:          reg.OrganizationName,
		Address:       reg.OrganizationAddress,
		ContactPerson: reg.AdminName,
		ContactEmail:  reg.AdminEmail,
		ContactNumber: reg.ContactNumber,
		EmployeeQuota: quota,
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, err
	}

	admin := &domain.Admin{
		ID:               util.NewAdminID(),
		Email:            reg.AdminEmail,
		Name:             reg.AdminName,
		Phone:            reg.AdminPhone,
		OrganizationID:   org.ID,
		OrganizationName: org.Name,
		Verified:         false,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.dispatcher.Publish(ctx, events.Event{
		ID:             uuid.NewString(),
		Type:           events.EventAdminRegistered,
		OrganizationID: org.ID,
		Timestamp:      time.Now().UTC(),
		Payload: events.AdminRegisteredPayload{
			AdminID:          admin.ID,
			Email:            admin.Email,
			OrganizationName: org.Name,
		},
	})
	return admin, nil
}

// VerifyAdmin marks a pending admin as approved. Only the superadmin calls this.
func (s *AuthService) VerifyAdmin(ctx context.Context, adminID, verifiedBy string) (*domain.Admin, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("admin", nil)
		}
		return nil, err
	}
	if admin.Verified {
		return nil, util.NewAlreadyVerified()
	}

	now := time.Now().UTC()
	if err := s.admins.MarkVerified(ctx, admin.ID, verifiedBy, now); err != nil {
		return nil, err
	}
	admin.Verified = true
	admin.VerifiedAt = &now
	admin.VerifiedBy = &verifiedBy

	s.dispatcher.Publish(ctx, events.Event{
		ID:             uuid.NewString(),
		Type:           events.EventAdminVerified,
		OrganizationID: admin.OrganizationID,
		Timestamp:      now,
		Payload: events.AdminVerifiedPayload{
			AdminID:    admin.ID,
			Email:      admin.Email,
			VerifiedBy: verifiedBy,
		},
	})
	return admin, nil
}

// SetAdminPassword lets a verified admin choose their first password.
func (s *AuthService) SetAdminPassword(ctx context.Context, email, password string) error {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("admin", nil)
		}
		return err
	}
	if !admin.Verified {
		return util.NewNotVerified()
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.admins.SetPassword(ctx, admin.ID, hash)
}

// LoginAdmin authenticates a verified admin with a password set.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*domain.Admin, string, time.Time, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, util.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, err
	}
	if !admin.Verified {
		return nil, "", time.Time{}, util.NewNotVerified()
	}
	if admin.PasswordHash == nil {
		return nil, "", time.Time{}, util.NewInvalidCredentials()
	}
	if err := auth.ComparePassword(*admin.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, util.NewInvalidCredentials()
	}

	token, exp, err := s.tokenMgr.IssueAdmin(admin)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return admin, token, exp, nil
}

// RequestAdminPasswordReset generates a short-lived OTP for a verified admin.
// The OTP is delivered out of band; it is never part of the API response.
func (s *AuthService) RequestAdminPasswordReset(ctx context.Context, email string) error {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("admin", nil)
		}
		return err
	}
	if !admin.Verified {
		return util.NewNotVerified()
	}

	otp, err := s.otpStore.Generate(ctx, admin.Email)
	if err != nil {
		return err
	}

	s.dispatcher.Publish(ctx, events.Event{
		ID:             uuid.NewString(),
		Type:           events.EventOTPRequested,
		OrganizationID: admin.OrganizationID,
		Timestamp:      time.Now().UTC(),
		Payload: events.OTPRequestedPayload{
			Email: admin.Email,
			OTP:   otp,
		},
	})
	return nil
}

// ConfirmAdminPasswordReset validates the OTP and updates the password.
func (s *AuthService) ConfirmAdminPasswordReset(ctx context.Context, email, otp, newPassword string) error {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("admin", nil)
		}
		return err
	}

	ok, err := s.otpStore.Consume(ctx, admin.Email, otp)
	if err != nil {
		return err
	}
	if !ok {
		return util.NewValidationError("invalid or expired OTP", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.admins.SetPassword(ctx, admin.ID, hash)
}

// SetEmployeePassword lets a newly created employee choose their password.
func (s *AuthService) SetEmployeePassword(ctx context.Context, email, password string) error {
	emp, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("employee", nil)
		}
		return err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.employees.SetPassword(ctx, emp.ID, hash)
}

// LoginEmployee authenticates an active employee.
func (s *AuthService) LoginEmployee(ctx context.Context, email, password string) (*domain.Employee, string, time.Time, error) {
	emp, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, util.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, err
	}
	if !emp.Active {
		return nil, "", time.Time{}, util.NewForbidden("account deactivated")
	}
	if emp.PasswordHash == nil {
		return nil, "", time.Time{}, util.NewInvalidCredentials()
	}
	if err := auth.ComparePassword(*emp.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, util.NewInvalidCredentials()
	}

	token, exp, err := s.tokenMgr.IssueEmployee(emp)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return emp, token, exp, nil
}
