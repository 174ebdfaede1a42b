package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/smt-intra/asset-tag-services-backend/internal/services"
	"github.com/smt-intra/asset-tag-services-backend/internal/services/directory"
	"github.com/smt-intra/asset-tag-services-backend/internal/services/enrichment"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// SessionCookieName is the HttpOnly cookie carrying the session token
const SessionCookieName = "asset_session"

// ErrInvalidCredentials is returned for every authentication failure,
// including directory connectivity problems: callers cannot distinguish
// a wrong password from an unreachable directory.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrSessionExpired is returned when a session token no longer resolves
// to a live server-side entry.
var ErrSessionExpired = errors.New("session expired or revoked")

type AuthService struct {
	directory      *directory.Service
	enrichment     *enrichment.Client
	profileService *services.UserProfileService
	roleService    *services.RoleService
	accessService  *services.DepartmentAccessService
	store          *SessionStore
	audit          *services.AuditService
	jwtSecret      []byte
	sessionTTL     time.Duration
}

func NewAuthService(
	directoryService *directory.Service,
	enrichmentClient *enrichment.Client,
	profileService *services.UserProfileService,
	roleService *services.RoleService,
	accessService *services.DepartmentAccessService,
	audit *services.AuditService) *AuthService {
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		jwtSecret = []byte("default-secret-key-change-in-production")
	}

	sessionTTL := 12 * time.Hour
	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		if parsed, err := time.ParseDuration(ttl); err == nil {
			sessionTTL = parsed
		}
	}

	logrus.Infof("Session TTL: %.1f hours (sliding)", sessionTTL.Hours())

	return &AuthService{
		directory:      directoryService,
		enrichment:     enrichmentClient,
		profileService: profileService,
		roleService:    roleService,
		accessService:  accessService,
		store:          NewSessionStore(sessionTTL),
		audit:          audit,
		jwtSecret:      jwtSecret,
		sessionTTL:     sessionTTL,
	}
}

// Store exposes the session cache for lifecycle wiring (janitor
// start/stop)
func (s *AuthService) Store() *SessionStore {
	return s.store
}

// SessionTTL returns the configured sliding session lifetime
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Login authenticates against the corporate directory, reconciles the
// local profile from the directory and HR enrichment sources, and mints
// a session token. Enrichment failures never fail the login; a profile
// write failure does.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	ok, attrs := s.directory.ValidateCredentials(req.Username, req.Password)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	candidate := models.ProfileCandidate{
		DetailENFirstName: attrs.FirstName,
		DetailENLastName:  attrs.LastName,
		UserEmail:         attrs.Email,
		DepartmentName:    attrs.Department,
		PlantName:         attrs.Plant,
		UserCode:          attrs.UserCode,
	}

	// Best-effort HR enrichment folded into the login candidate; the HR
	// record outranks directory attributes
	fields := s.enrichment.FetchEnrichment(ctx, attrs.UserCode)
	if fields != nil {
		applyEnrichment(&candidate, fields)
	}

	profile, err := s.profileService.UpsertOnLogin(attrs.Username, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile user profile: %w", err)
	}

	// Second pass over the raw payload fills fields still blank after
	// the merge
	if fields != nil && len(fields.Raw) > 0 {
		if err := s.profileService.ApplyEnrichmentIfBlank(profile, enrichment.ParseRaw(fields.Raw)); err != nil {
			logrus.Warnf("Enrichment fill for '%s' failed: %v", profile.Username, err)
		}
	}

	// Every authenticated user holds at least the base role
	if _, err := s.roleService.AssignRoleToUserByName(profile.ID, "User", "system"); err != nil {
		logrus.Warnf("Failed to ensure base role for '%s': %v", profile.Username, err)
	}

	roleNames, err := s.roleService.GetUserRoleNames(profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user roles: %w", err)
	}

	departments, err := s.accessService.GetAccessibleDepartments(profile.ID)
	if err != nil {
		logrus.Warnf("Failed to load accessible departments for '%s': %v", profile.Username, err)
		departments = []string{profile.DepartmentName}
	}

	identity := models.SessionIdentity{
		Username:          profile.Username,
		UserID:            profile.ID,
		UserCode:          profile.UserCode,
		UserEmail:         profile.UserEmail,
		DepartmentName:    profile.DepartmentName,
		PlantName:         profile.PlantName,
		DetailTHFirstName: profile.DetailTHFirstName,
		DetailTHLastName:  profile.DetailTHLastName,
		DetailENFirstName: profile.DetailENFirstName,
		DetailENLastName:  profile.DetailENLastName,
		LoginAt:           time.Now(),
		Roles:             roleNames,
	}

	sid, err := s.store.Create(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.mintSessionToken(sid, profile)
	if err != nil {
		s.store.Delete(sid)
		return nil, fmt.Errorf("failed to mint session token: %w", err)
	}

	logrus.Infof("User '%s' logged in", profile.Username)
	s.audit.Publish("auth.login", profile.Username, map[string]interface{}{
		"user_id": profile.ID, "department": profile.DepartmentName,
	})

	return &models.LoginResponse{
		Token:       token,
		ExpiresIn:   int64(s.sessionTTL.Seconds()),
		User:        *profile,
		Roles:       roleNames,
		Departments: departments,
	}, nil
}

// ResolveToken validates a session token and resolves the live identity
// behind it, sliding the session expiry forward.
func (s *AuthService) ResolveToken(tokenString string) (*models.SessionIdentity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid session token claims")
	}

	identity, found := s.store.Get(claims.SessionID)
	if !found {
		return nil, ErrSessionExpired
	}
	return identity, nil
}

// Logout revokes the session behind a token. A token that no longer
// resolves is not an error.
func (s *AuthService) Logout(tokenString string) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return
	}
	if claims, ok := token.Claims.(*models.SessionClaims); ok {
		s.store.Delete(claims.SessionID)
		logrus.Infof("Session revoked for '%s'", claims.Username)
	}
}

// GetDirectoryAttributes returns the raw directory attribute set for a
// credentialed user (diagnostic display).
func (s *AuthService) GetDirectoryAttributes(req *models.DirectoryAttributesRequest) (map[string][]string, error) {
	ok, _ := s.directory.ValidateCredentials(req.Username, req.Password)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return s.directory.FetchAllAttributes(req.Username, req.Password)
}

// mintSessionToken signs a token referencing the server-side session.
// The token itself carries no expiry: lifetime is governed entirely by
// the sliding server-side entry.
func (s *AuthService) mintSessionToken(sid string, profile *models.UserProfile) (string, error) {
	claims := &models.SessionClaims{
		SessionID: sid,
		Username:  profile.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "asset-tag-services-backend",
			Subject:   profile.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// applyEnrichment folds HR enrichment values into the login candidate.
// The HR record is the authoritative identity source: a non-blank
// enrichment value replaces the directory-derived one; blank values
// leave the directory value in place.
func applyEnrichment(candidate *models.ProfileCandidate, fields *enrichment.ProfileFields) {
	if fields.THFirstName != "" {
		candidate.DetailTHFirstName = fields.THFirstName
	}
	if fields.THLastName != "" {
		candidate.DetailTHLastName = fields.THLastName
	}
	if fields.ENFirstName != "" {
		candidate.DetailENFirstName = fields.ENFirstName
	}
	if fields.ENLastName != "" {
		candidate.DetailENLastName = fields.ENLastName
	}
	if fields.Email != "" {
		candidate.UserEmail = fields.Email
	}
	if fields.Department != "" {
		candidate.DepartmentName = fields.Department
	}
	if fields.Plant != "" {
		candidate.PlantName = fields.Plant
	}
}
