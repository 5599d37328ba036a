package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"bmc-rentportal/internal/adapters/identity"
	"bmc-rentportal/internal/adapters/persistence/memory"
	"bmc-rentportal/internal/adapters/storage"
	"bmc-rentportal/internal/core/domain"
	"bmc-rentportal/internal/pkg/password"
)

// emailPattern is the standard address check applied before any network call
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// session is the process-lifetime authentication state. It is owned
// exclusively by the SessionService and never handed out as mutable memory.
type session struct {
	isAuthenticated bool
	role            domain.Role
	accessToken     string
	refreshToken    string
	currentUser     *domain.AuthUser
	currentTenant   *domain.TenantProfile
}

// SessionService owns the authenticated session: it performs login against
// the external identity provider, keeps the session durable across restarts,
// and exposes logout/verify/restore operations. It is the single writer of
// the durable session storage.
type SessionService struct {
	client     *identity.Client
	store      storage.Store
	tenantRepo *memory.TenantStore

	mu         sync.Mutex
	processing bool
	sess       session
}

// NewSessionService creates a new session service. The tenant store is
// consulted on tenant login to attach the fixture contractual record
// matching the login email; absent a match, placeholder defaults are used.
func NewSessionService(client *identity.Client, store storage.Store, tenantRepo *memory.TenantStore) *SessionService {
	s := &SessionService{
		client:     client,
		store:      store,
		tenantRepo: tenantRepo,
	}
	// Refresh failure anywhere in the client escalates to a forced logout
	client.SetSessionExpiredHandler(func(ctx context.Context) {
		s.Logout(ctx)
	})
	return s
}

// Login authenticates against the identity provider. Returns true when a
// token was extracted and the session is now authenticated; false when the
// response matched no known shape. Validation and transport errors are
// returned to the caller for classification.
func (s *SessionService) Login(ctx context.Context, email, pwd string, role domain.Role) (bool, error) {
	// 1. Local validation - never reaches the network layer
	email = strings.TrimSpace(email)
	if email == "" || !emailPattern.MatchString(email) {
		return false, domain.ErrInvalidEmail
	}
	if !password.ValidatePassword(pwd) {
		return false, domain.ErrPasswordTooShort
	}

	// 2. Re-entrancy guard - one login attempt at a time
	s.mu.Lock()
	if s.processing {
		s.mu.Unlock()
		return false, domain.ErrProcessing
	}
	s.processing = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.processing = false
		s.mu.Unlock()
	}()

	// 3. Single sign-in request
	body, err := s.client.SignIn(ctx, email, pwd)
	if err != nil {
		var statusErr *identity.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == 401 {
			return false, domain.ErrInvalidCredentials
		}
		return false, err
	}

	// 4. Response-shape negotiation
	auth := ExtractAuthData(body)
	if auth == nil || auth.AccessToken == "" {
		log.Printf("⚠️ Could not extract auth data from sign-in response, keys: %v", topLevelKeys(body))
		return false, nil
	}

	// 5. Transition to authenticated and make the session durable
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess = session{
		isAuthenticated: true,
		role:            role,
		accessToken:     auth.AccessToken,
		refreshToken:    auth.RefreshToken,
		currentUser:     auth.User,
	}

	_ = s.store.Set(ctx, storage.KeyToken, auth.AccessToken)
	if auth.RefreshToken != "" {
		_ = s.store.Set(ctx, storage.KeyRefreshToken, auth.RefreshToken)
	}

	if auth.User != nil {
		_ = s.store.Set(ctx, storage.KeyUserID, auth.User.ID)
		_ = s.store.Set(ctx, storage.KeyUserEmail, auth.User.Email)
		_ = s.store.Set(ctx, storage.KeyUserName, auth.User.Name)
		_ = s.store.Set(ctx, storage.KeyUserRole, string(auth.User.Role))

		if role == domain.RoleTenant || auth.User.Role == domain.RoleTenant {
			tenant := s.buildTenantProfile(auth.User)
			s.sess.currentTenant = tenant
			if blob, err := json.Marshal(tenant); err == nil {
				_ = s.store.Set(ctx, storage.KeyTenantData, string(blob))
			}
		}
	} else {
		// Provider returned no user object: fall back to the login identity
		_ = s.store.Set(ctx, storage.KeyUserEmail, email)
		if role == domain.RoleNone {
			role = domain.RoleTenant
		}
		_ = s.store.Set(ctx, storage.KeyUserRole, string(role))
	}

	log.Printf("✅ User logged in: %s [role: %s]", email, role)
	return true, nil
}

// VerifyToken reports whether the provider accepts the token. Any failure,
// network or HTTP, yields false.
func (s *SessionService) VerifyToken(ctx context.Context, token string) bool {
	if err := s.client.VerifyToken(ctx, token); err != nil {
		log.Printf("⚠️ Token verification failed: %v", err)
		return false
	}
	return true
}

// Logout clears all in-memory session state and removes every session key
// from durable storage. Idempotent.
func (s *SessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	s.sess = session{}
	s.mu.Unlock()

	_ = s.store.Remove(ctx, storage.SessionKeys...)
	log.Printf("✅ User logged out")
}

// RestoreSession reconstructs the session from durable storage at startup.
// A token that fails verification leaves both the session unauthenticated
// and the stored keys untouched.
func (s *SessionService) RestoreSession(ctx context.Context) bool {
	token, _ := s.store.Get(ctx, storage.KeyToken)
	if token == "" {
		return false
	}

	if !s.VerifyToken(ctx, token) {
		return false
	}

	refreshToken, _ := s.store.Get(ctx, storage.KeyRefreshToken)
	userID, _ := s.store.Get(ctx, storage.KeyUserID)
	userEmail, _ := s.store.Get(ctx, storage.KeyUserEmail)
	userName, _ := s.store.Get(ctx, storage.KeyUserName)
	roleStr, _ := s.store.Get(ctx, storage.KeyUserRole)

	role := domain.Role(roleStr)
	if role == domain.RoleNone {
		role = domain.RoleTenant
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess = session{
		isAuthenticated: true,
		role:            role,
		accessToken:     token,
		refreshToken:    refreshToken,
		currentUser: &domain.AuthUser{
			ID:    userID,
			Email: userEmail,
			Name:  userName,
			Role:  role,
		},
	}

	if blob, _ := s.store.Get(ctx, storage.KeyTenantData); blob != "" {
		var tenant domain.TenantProfile
		if err := json.Unmarshal([]byte(blob), &tenant); err == nil {
			s.sess.currentTenant = &tenant
		}
	}

	log.Printf("✅ Session restored for %s [role: %s]", userEmail, role)
	return true
}

// UpdateTenantStatus mutates the attached tenant profile's e-NACH status in
// place. No-op when no tenant is attached.
func (s *SessionService) UpdateTenantStatus(status domain.ENachStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess.currentTenant == nil {
		return
	}
	s.sess.currentTenant.ENachStatus = status
}

// IsAuthenticated reports whether a session is active
func (s *SessionService) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.isAuthenticated
}

// Role returns the session role
func (s *SessionService) Role() domain.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.role
}

// CurrentUser returns the authenticated identity, or nil
func (s *SessionService) CurrentUser() *domain.AuthUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.currentUser
}

// CurrentTenant returns the attached tenant profile, or nil. The profile is
// mutated only through UpdateTenantStatus.
func (s *SessionService) CurrentTenant() *domain.TenantProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.currentTenant
}

// buildTenantProfile constructs the tenant profile attached on login. The
// identity provider returns no contractual data, so the fixture tenant
// matching the login email is used when present, else placeholder defaults.
func (s *SessionService) buildTenantProfile(user *domain.AuthUser) *domain.TenantProfile {
	if s.tenantRepo != nil {
		for _, t := range s.tenantRepo.List() {
			if strings.EqualFold(t.Email, user.Email) {
				return &domain.TenantProfile{
					ID:                user.ID,
					Name:              t.Name,
					Email:             t.Email,
					Phone:             "+91 9999999999",
					PropertyID:        t.PropertyNo,
					PropertyNo:        t.PropertyNo,
					PropertyLocation:  t.PropertyLocation,
					RentAmount:        t.RentAmount,
					OutstandingAmount: t.OutstandingAmount,
					ContractStartDate: time.Now().Format(time.RFC3339),
					ContractEndDate:   time.Now().AddDate(1, 0, 0).Format(time.RFC3339),
					ENachStatus:       t.ENachStatus,
					ContractStatus:    t.ContractStatus,
				}
			}
		}
	}

	return &domain.TenantProfile{
		ID:                user.ID,
		Name:              user.Name,
		Email:             user.Email,
		Phone:             "+91 9999999999",
		PropertyID:        "PROP-001",
		PropertyNo:        "Property from API",
		PropertyLocation:  "Location from API",
		RentAmount:        15000,
		OutstandingAmount: 0,
		ContractStartDate: time.Now().Format(time.RFC3339),
		ContractEndDate:   time.Now().AddDate(1, 0, 0).Format(time.RFC3339),
		ENachStatus:       domain.ENachPending,
		ContractStatus:    domain.ContractActive,
	}
}
