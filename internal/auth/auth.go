package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"amply-reservation-client/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrNotLoggedIn        = errors.New("no logged-in user")
)

// ProfileGateway is the slice of the remote API the auth service consumes.
type ProfileGateway interface {
	ListUserProfiles(ctx context.Context) ([]model.UserProfile, error)
	UpdateUserProfile(ctx context.Context, nic string, p model.UserProfile) error
}

// ProfileStore is the slice of the local cache the auth service consumes.
type ProfileStore interface {
	GetLoggedInUser(ctx context.Context) (*model.UserProfile, error)
	SaveProfile(ctx context.Context, p model.UserProfile) error
	ClearProfile(ctx context.Context) error
	ClearReservations(ctx context.Context) error
}

// Service owns all credential handling: remote authentication, the single
// cached profile, account status changes, and session tokens for the local
// API. Credentials are cleartext end to end to match the remote service's
// contract; keeping them confined here is what allows hardening later.
type Service struct {
	gw       ProfileGateway
	store    ProfileStore
	secret   []byte
	tokenTTL time.Duration
}

// NewService creates an auth service.
func NewService(gw ProfileGateway, s ProfileStore, jwtSecret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{gw: gw, store: s, secret: []byte(jwtSecret), tokenTTL: tokenTTL}
}

// Login authenticates against the remote profile list, caches the matched
// profile as the logged-in user, and issues a session token. Emails compare
// case-insensitively; passwords compare exactly.
func (s *Service) Login(ctx context.Context, email, password string) (*model.UserProfile, string, error) {
	profiles, err := s.gw.ListUserProfiles(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("profile lookup failed: %w", err)
	}

	var matched *model.UserProfile
	for i := range profiles {
		if strings.EqualFold(profiles[i].Email, email) && profiles[i].Password == password {
			matched = &profiles[i]
			break
		}
	}
	if matched == nil {
		return nil, "", ErrInvalidCredentials
	}
	if strings.EqualFold(matched.Status, model.AccountDeactive) {
		return nil, "", ErrAccountDeactivated
	}

	// A different user must never inherit the previous user's cached rows.
	prev, err := s.store.GetLoggedInUser(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read previous login: %w", err)
	}
	if prev != nil && !strings.EqualFold(prev.NIC, matched.NIC) {
		if err := s.store.ClearReservations(ctx); err != nil {
			return nil, "", fmt.Errorf("failed to clear previous user's reservations: %w", err)
		}
	}

	if err := s.store.SaveProfile(ctx, *matched); err != nil {
		return nil, "", fmt.Errorf("failed to cache profile: %w", err)
	}

	token, err := s.IssueToken(matched.Email)
	if err != nil {
		return nil, "", err
	}
	return matched, token, nil
}

// Logout drops the cached profile and the cached reservation set.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.ClearReservations(ctx); err != nil {
		return err
	}
	return s.store.ClearProfile(ctx)
}

// CurrentUser returns the cached logged-in profile.
func (s *Service) CurrentUser(ctx context.Context) (*model.UserProfile, error) {
	p, err := s.store.GetLoggedInUser(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotLoggedIn
	}
	return p, nil
}

// UpdateAccount pushes the profile to the server and refreshes the cached
// copy on success.
func (s *Service) UpdateAccount(ctx context.Context, p model.UserProfile) error {
	if err := s.gw.UpdateUserProfile(ctx, p.NIC, p); err != nil {
		return err
	}
	return s.store.SaveProfile(ctx, p)
}

// Deactivate sets the account status to deactive.
func (s *Service) Deactivate(ctx context.Context) error {
	return s.setStatus(ctx, model.AccountDeactive)
}

// RequestReactivation asks the operator to reactivate a deactivated account.
func (s *Service) RequestReactivation(ctx context.Context) error {
	return s.setStatus(ctx, model.AccountRequestedToReactivate)
}

func (s *Service) setStatus(ctx context.Context, status string) error {
	p, err := s.CurrentUser(ctx)
	if err != nil {
		return err
	}
	p.Status = status
	return s.UpdateAccount(ctx, *p)
}

// IssueToken creates a signed session token for the local API.
func (s *Service) IssueToken(email string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a session token and returns the subject email.
func (s *Service) ParseToken(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
