package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/fieldforce-crm/internal/auth"
	"github.com/spec-kit/fieldforce-crm/internal/config"
	"github.com/spec-kit/fieldforce-crm/internal/domain"
	"github.com/spec-kit/fieldforce-crm/internal/events"
	util "github.com/spec-kit/fieldforce-crm/pkg/util"
)

type authFixture struct {
	svc         *AuthService
	admins      *fakeAdminRepo
	employees   *fakeEmployeeRepo
	orgs        *fakeOrgRepo
	superadmins *fakeSuperAdminRepo
	dispatcher  events.Dispatcher
	redis       *miniredis.Miniredis
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 30,
			OTPTTLMinutes:         10,
			BcryptCost:            4,
		},
	}

	orgs := newFakeOrgRepo()
	fx := &authFixture{
		admins:      newFakeAdminRepo(),
		employees:   newFakeEmployeeRepo(orgs),
		orgs:        orgs,
		superadmins: newFakeSuperAdminRepo(),
		dispatcher:  events.NewMemoryDispatcher(),
		redis:       mr,
	}
	fx.svc = NewAuthService(cfg, AuthDependencies{
		SuperAdminRepo:   fx.superadmins,
		AdminRepo:        fx.admins,
		EmployeeRepo:     fx.employees,
		OrganizationRepo: fx.orgs,
		OTPStore:         auth.NewOTPStore(client, 10),
		Dispatcher:       fx.dispatcher,
	}, zap.NewNop())
	return fx
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	var de *util.DomainError
	require.ErrorAs(t, err, &de)
	return de.Code
}

func testRegistration() AdminRegistration {
	return AdminRegistration{
		OrganizationName:    "Acme Pharma",
		OrganizationAddress: "12 Industrial Road",
		ContactNumber:       "9876543210",
		AdminName:           "Priya Nair",
		AdminEmail:          "priya@acme.test",
		AdminPhone:          "9876543210",
		EmployeeQuota:       5,
	}
}

func TestEnsureSuperAdminIdempotent(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.svc.EnsureSuperAdmin(ctx, "root@example.com", "bootstrap-pass"))
	sa, err := fx.superadmins.GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, auth.SuperAdminSubjectID, sa.ID)

	// Second start must not create another account or rewrite the password.
	require.NoError(t, fx.svc.EnsureSuperAdmin(ctx, "other@example.com", "different"))
	_, err = fx.superadmins.GetByEmail(ctx, "other@example.com")
	assert.Error(t, err)
}

func TestLoginSuperAdmin(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()
	require.NoError(t, fx.svc.EnsureSuperAdmin(ctx, "root@example.com", "bootstrap-pass"))

	token, _, err := fx.svc.LoginSuperAdmin(ctx, "root@example.com", "bootstrap-pass")
	require.NoError(t, err)

	claims, err := fx.svc.TokenManager().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSuperAdmin, claims.Role)

	_, _, err = fx.svc.LoginSuperAdmin(ctx, "root@example.com", "wrong")
	assert.Equal(t, "INVALID_CREDENTIALS", errCode(t, err))

	_, _, err = fx.svc.LoginSuperAdmin(ctx, "nobody@example.com", "bootstrap-pass")
	assert.Equal(t, "INVALID_CREDENTIALS", errCode(t, err))
}

func TestRegisterAdminCreatesOrganization(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	admin, err := fx.svc.RegisterAdmin(ctx, testRegistration())
	require.NoError(t, err)
	assert.False(t, admin.Verified)
	assert.NotEmpty(t, admin.OrganizationID)
	assert.Equal(t, "Acme Pharma", admin.OrganizationName)

	org, err := fx.orgs.GetByID(ctx, admin.OrganizationID)
	require.NoError(t, err)
	assert.Equal(t, 5, org.EmployeeQuota)
}

func TestRegisterAdminDuplicateEmail(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, err := fx.svc.RegisterAdmin(ctx, testRegistration())
	require.NoError(t, err)

	_, err = fx.svc.RegisterAdmin(ctx, testRegistration())
	assert.Equal(t, "CONFLICT", errCode(t, err))
}

func TestRegisterAdminDefaultQuota(t *testing.T) {
	fx := newAuthFixture(t)
	reg := testRegistration()
	reg.EmployeeQuota = 0

	admin, err := fx.svc.RegisterAdmin(context.Background(), reg)
	require.NoError(t, err)

	org, err := fx.orgs.GetByID(context.Background(), admin.OrganizationID)
	require.NoError(t, err)
	assert.Equal(t, 10, org.EmployeeQuota)
}

func TestAdminLoginRequiresVerification(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	admin, err := fx.svc.RegisterAdmin(ctx, testRegistration())
	require.NoError(t, err)

	// Cannot set a password or log in before the superadmin approves.
	err = fx.svc.SetAdminPassword(ctx, admin.Email, "s3cret-pass")
	assert.Equal(t, "NOT_VERIFIED", errCode(t, err))

	_, _, _, err = fx.svc.LoginAdmin(ctx, admin.Email, "s3cret-pass")
	assert.Equal(t, "NOT_VERIFIED", errCode(t, err))

	_, err = fx.svc.VerifyAdmin(ctx, admin.ID, auth.SuperAdminSubjectID)
	require.NoError(t, err)

	require.NoError(t, fx.svc.SetAdminPassword(ctx, admin.Email, "s3cret-pass"))

	got, token, _, err := fx.svc.LoginAdmin(ctx, admin.Email, "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)

	claims, err := fx.svc.TokenManager().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, admin.OrganizationID, claims.OrganizationID)
}

func TestVerifyAdminTwice(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	admin, err := fx.svc.RegisterAdmin(ctx, testRegistration())
	require.NoError(t, err)

	_, err = fx.svc.VerifyAdmin(ctx, admin.ID, auth.SuperAdminSubjectID)
	require.NoError(t, err)

	_, err = fx.svc.VerifyAdmin(ctx, admin.ID, auth.SuperAdminSubjectID)
	assert.Equal(t, "ALREADY_VERIFIED", errCode(t, err))
}

func TestVerifyAdminUnknown(t *testing.T) {
	fx := newAuthFixture(t)
	_, err := fx.svc.VerifyAdmin(context.Background(), "ADM-MISSING", auth.SuperAdminSubjectID)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestLoginAdminWithoutPassword(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	admin, err := fx.svc.RegisterAdmin(ctx, testRegistration())
	require.NoError(t, err)
	_, err = fx.svc.VerifyAdmin(ctx, admin.ID, auth.SuperAdminSubjectID)
	require.NoError(t, err)

	// Verified but no password chosen yet.
	_, _, _, err = fx.svc.LoginAdmin(ctx, admin.Email, "anything")
	assert.Equal(t, "INVALID_CREDENTIALS", errCode(t, err))
}

func TestAdminPasswordResetFlow(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	admin, err := fx.svc.RegisterAdmin(ctx, testRegistration())
	require.NoError(t, err)
	_, err = fx.svc.VerifyAdmin(ctx, admin.ID, auth.SuperAdminSubjectID)
	require.NoError(t, err)
	require.NoError(t, fx.svc.SetAdminPassword(ctx, admin.Email, "old-pass"))

	// The OTP is only delivered through the event stream.
	var otp string
	fx.dispatcher.Subscribe(events.EventOTPRequested, func(ctx context.Context, e events.Event) error {
		otp = e.Payload.(events.OTPRequestedPayload).OTP
		return nil
	})

	require.NoError(t, fx.svc.RequestAdminPasswordReset(ctx, admin.Email))
	require.NotEmpty(t, otp)

	err = fx.svc.ConfirmAdminPasswordReset(ctx, admin.Email, "000000", "new-pass")
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	require.NoError(t, fx.svc.ConfirmAdminPasswordReset(ctx, admin.Email, otp, "new-pass"))

	_, _, _, err = fx.svc.LoginAdmin(ctx, admin.Email, "old-pass")
	assert.Equal(t, "INVALID_CREDENTIALS", errCode(t, err))
	_, _, _, err = fx.svc.LoginAdmin(ctx, admin.Email, "new-pass")
	assert.NoError(t, err)
}

func TestPasswordResetUnverifiedAdmin(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	admin, err := fx.svc.RegisterAdmin(ctx, testRegistration())
	require.NoError(t, err)

	err = fx.svc.RequestAdminPasswordReset(ctx, admin.Email)
	assert.Equal(t, "NOT_VERIFIED", errCode(t, err))
}

func TestEmployeeLoginLifecycle(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	admin := seedVerifiedAdmin(t, fx)
	empSvc := NewEmployeeService(EmployeeDependencies{Employees: fx.employees, Orgs: fx.orgs, Dispatcher: fx.dispatcher})
	emp, err := empSvc.Create(ctx, admin, EmployeeInput{
		Name:  "Arjun Mehta",
		Email: "arjun@acme.test",
	})
	require.NoError(t, err)

	require.NoError(t, fx.svc.SetEmployeePassword(ctx, emp.Email, "field-pass"))

	got, token, _, err := fx.svc.LoginEmployee(ctx, emp.Email, "field-pass")
	require.NoError(t, err)
	assert.Equal(t, emp.ID, got.ID)

	claims, err := fx.svc.TokenManager().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, claims.Role)
	assert.Equal(t, admin.ID, claims.AdminID)

	// Deactivation locks the account out even with the right password.
	_, err = empSvc.SetActive(ctx, admin.OrganizationID, emp.ID, false)
	require.NoError(t, err)
	_, _, _, err = fx.svc.LoginEmployee(ctx, emp.Email, "field-pass")
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestCurrentEmployeeDeactivated(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	admin := seedVerifiedAdmin(t, fx)
	empSvc := NewEmployeeService(EmployeeDependencies{Employees: fx.employees, Orgs: fx.orgs, Dispatcher: fx.dispatcher})
	emp, err := empSvc.Create(ctx, admin, EmployeeInput{Name: "Arjun Mehta", Email: "arjun@acme.test"})
	require.NoError(t, err)

	_, err = fx.svc.CurrentEmployee(ctx, admin.OrganizationID, emp.ID)
	require.NoError(t, err)

	_, err = empSvc.SetActive(ctx, admin.OrganizationID, emp.ID, false)
	require.NoError(t, err)

	_, err = fx.svc.CurrentEmployee(ctx, admin.OrganizationID, emp.ID)
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestCurrentAdminDeleted(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	admin := seedVerifiedAdmin(t, fx)
	_, err := fx.svc.CurrentAdmin(ctx, admin.ID)
	require.NoError(t, err)

	require.NoError(t, fx.admins.Delete(ctx, admin.ID))
	_, err = fx.svc.CurrentAdmin(ctx, admin.ID)
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))
}

// seedVerifiedAdmin registers, verifies and returns a ready admin account.
func seedVerifiedAdmin(t *testing.T, fx *authFixture) *domain.Admin {
	t.Helper()
	ctx := context.Background()

	admin, err := fx.svc.RegisterAdmin(ctx, testRegistration())
	require.NoError(t, err)
	verified, err := fx.svc.VerifyAdmin(ctx, admin.ID, auth.SuperAdminSubjectID)
	require.NoError(t, err)
	return verified
}
