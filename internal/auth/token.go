package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
)

// Verification failure taxonomy. Expired credentials are distinguished from
// malformed ones so guards can report the right reason.
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// SuperAdminSubjectID is the fixed subject for the singleton superadmin.
const SuperAdminSubjectID = "SUPER-ADMIN"

// TokenManager issues and validates the signed bearer tokens carrying role
// and tenant claims. It is a pure function of its secret and the clock.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 30
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Claims describes the JWT payload. The subject id field is named after the
// role; fields for other roles stay empty and are omitted from the payload.
type Claims struct {
	Role             domain.Role `json:"role"`
	SuperAdminID     string      `json:"superadmin_id,omitempty"`
	AdminID          string      `json:"admin_id,omitempty"`
	EmployeeID       string      `json:"employee_id,omitempty"`
	OrganizationID   string      `json:"organization_id,omitempty"`
	OrganizationName string      `json:"organization_name,omitempty"`
	Email            string      `json:"email"`
	jwt.RegisteredClaims
}

// IssueSuperAdmin signs a token for the singleton superadmin.
func (tm *TokenManager) IssueSuperAdmin(email string) (string, time.Time, error) {
	return tm.sign(&Claims{
		Role:         domain.RoleSuperAdmin,
		SuperAdminID: SuperAdminSubjectID,
		Email:        email,
	})
}

// IssueAdmin signs a token carrying the admin's identity and tenant.
func (tm *TokenManager) IssueAdmin(admin *domain.Admin) (string, time.Time, error) {
	return tm.sign(&Claims{
		Role:             domain.RoleAdmin,
		AdminID:          admin.ID,
		OrganizationID:   admin.OrganizationID,
		OrganizationName: admin.OrganizationName,
		Email:            admin.Email,
	})
}

// IssueEmployee signs a token carrying the employee's identity, tenant and
// the admin that created them.
func (tm *TokenManager) IssueEmployee(emp *domain.Employee) (string, time.Time, error) {
	return tm.sign(&Claims{
		Role:             domain.RoleEmployee,
		EmployeeID:       emp.ID,
		AdminID:          emp.AdminID,
		OrganizationID:   emp.OrganizationID,
		OrganizationName: emp.OrganizationName,
		Email:            emp.Email,
	})
}

func (tm *TokenManager) sign(claims *Claims) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify checks signature and expiry and returns the decoded claims.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenInvalid
		}
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// TTL reports the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}
