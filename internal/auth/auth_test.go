package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amply-reservation-client/internal/model"
)

type mockProfileGateway struct {
	profiles []model.UserProfile
	listErr  error

	updatedNIC     string
	updatedProfile model.UserProfile
	updateErr      error
}

func (m *mockProfileGateway) ListUserProfiles(ctx context.Context) ([]model.UserProfile, error) {
	return m.profiles, m.listErr
}

func (m *mockProfileGateway) UpdateUserProfile(ctx context.Context, nic string, p model.UserProfile) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updatedNIC = nic
	m.updatedProfile = p
	return nil
}

type mockProfileStore struct {
	profile *model.UserProfile

	clearedProfile      bool
	clearedReservations bool
	saveErr             error
}

func (m *mockProfileStore) GetLoggedInUser(ctx context.Context) (*model.UserProfile, error) {
	return m.profile, nil
}

func (m *mockProfileStore) SaveProfile(ctx context.Context, p model.UserProfile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.profile = &p
	return nil
}

func (m *mockProfileStore) ClearProfile(ctx context.Context) error {
	m.profile = nil
	m.clearedProfile = true
	return nil
}

func (m *mockProfileStore) ClearReservations(ctx context.Context) error {
	m.clearedReservations = true
	return nil
}

func newTestService(gw *mockProfileGateway, store *mockProfileStore) *Service {
	return NewService(gw, store, "test-secret", time.Hour)
}

func TestLogin_Success(t *testing.T) {
	gw := &mockProfileGateway{profiles: []model.UserProfile{
		{Email: "owner@example.com", Password: "pw123", NIC: "991234567V", Status: model.AccountActive},
	}}
	store := &mockProfileStore{}
	svc := newTestService(gw, store)

	p, token, err := svc.Login(context.Background(), "Owner@Example.COM", "pw123")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "991234567V", p.NIC)
	assert.NotEmpty(t, token)

	require.NotNil(t, store.profile, "matched profile is cached")
	assert.Equal(t, "owner@example.com", store.profile.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	gw := &mockProfileGateway{profiles: []model.UserProfile{
		{Email: "owner@example.com", Password: "pw123", Status: model.AccountActive},
	}}
	store := &mockProfileStore{}
	svc := newTestService(gw, store)

	_, _, err := svc.Login(context.Background(), "owner@example.com", "PW123")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "passwords compare exactly")
	assert.Nil(t, store.profile)
}

func TestLogin_UnknownEmail(t *testing.T) {
	gw := &mockProfileGateway{profiles: []model.UserProfile{
		{Email: "owner@example.com", Password: "pw123", Status: model.AccountActive},
	}}
	svc := newTestService(gw, &mockProfileStore{})

	_, _, err := svc.Login(context.Background(), "stranger@example.com", "pw123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	gw := &mockProfileGateway{profiles: []model.UserProfile{
		{Email: "owner@example.com", Password: "pw123", Status: model.AccountDeactive},
	}}
	store := &mockProfileStore{}
	svc := newTestService(gw, store)

	_, _, err := svc.Login(context.Background(), "owner@example.com", "pw123")
	assert.ErrorIs(t, err, ErrAccountDeactivated)
	assert.Nil(t, store.profile)
}

func TestLogin_DifferentUserClearsCachedReservations(t *testing.T) {
	gw := &mockProfileGateway{profiles: []model.UserProfile{
		{Email: "second@example.com", Password: "pw456", NIC: "887654321V", Status: model.AccountActive},
	}}
	store := &mockProfileStore{profile: &model.UserProfile{
		Email: "owner@example.com", NIC: "991234567V", Status: model.AccountActive,
	}}
	svc := newTestService(gw, store)

	_, _, err := svc.Login(context.Background(), "second@example.com", "pw456")
	require.NoError(t, err)
	assert.True(t, store.clearedReservations, "the previous user's rows must not survive")
	assert.Equal(t, "second@example.com", store.profile.Email)
}

func TestLogin_SameUserKeepsCachedReservations(t *testing.T) {
	gw := &mockProfileGateway{profiles: []model.UserProfile{
		{Email: "owner@example.com", Password: "pw123", NIC: "991234567V", Status: model.AccountActive},
	}}
	store := &mockProfileStore{profile: &model.UserProfile{
		Email: "owner@example.com", NIC: "991234567v", Status: model.AccountActive,
	}}
	svc := newTestService(gw, store)

	_, _, err := svc.Login(context.Background(), "owner@example.com", "pw123")
	require.NoError(t, err)
	assert.False(t, store.clearedReservations, "re-login as the same user keeps the cache warm")
}

func TestLogin_GatewayFailure(t *testing.T) {
	gw := &mockProfileGateway{listErr: errors.New("connection refused")}
	svc := newTestService(gw, &mockProfileStore{})

	_, _, err := svc.Login(context.Background(), "owner@example.com", "pw123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout_ClearsReservationsAndProfile(t *testing.T) {
	store := &mockProfileStore{profile: &model.UserProfile{Email: "owner@example.com"}}
	svc := newTestService(&mockProfileGateway{}, store)

	require.NoError(t, svc.Logout(context.Background()))
	assert.True(t, store.clearedReservations)
	assert.True(t, store.clearedProfile)

	_, err := svc.CurrentUser(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestUpdateAccount_RemoteFirstThenCache(t *testing.T) {
	gw := &mockProfileGateway{}
	store := &mockProfileStore{}
	svc := newTestService(gw, store)

	p := model.UserProfile{Email: "owner@example.com", NIC: "991234567V", Phone: "0771234567"}
	require.NoError(t, svc.UpdateAccount(context.Background(), p))
	assert.Equal(t, "991234567V", gw.updatedNIC)
	require.NotNil(t, store.profile)
	assert.Equal(t, "0771234567", store.profile.Phone)
}

func TestUpdateAccount_RemoteFailureLeavesCacheUntouched(t *testing.T) {
	gw := &mockProfileGateway{updateErr: errors.New("503")}
	store := &mockProfileStore{}
	svc := newTestService(gw, store)

	err := svc.UpdateAccount(context.Background(), model.UserProfile{NIC: "991234567V"})
	require.Error(t, err)
	assert.Nil(t, store.profile)
}

func TestDeactivateAndRequestReactivation(t *testing.T) {
	gw := &mockProfileGateway{}
	store := &mockProfileStore{profile: &model.UserProfile{
		Email: "owner@example.com", NIC: "991234567V", Status: model.AccountActive,
	}}
	svc := newTestService(gw, store)

	require.NoError(t, svc.Deactivate(context.Background()))
	assert.Equal(t, model.AccountDeactive, gw.updatedProfile.Status)
	assert.Equal(t, model.AccountDeactive, store.profile.Status)

	require.NoError(t, svc.RequestReactivation(context.Background()))
	assert.Equal(t, model.AccountRequestedToReactivate, gw.updatedProfile.Status)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService(&mockProfileGateway{}, &mockProfileStore{})

	token, err := svc.IssueToken("owner@example.com")
	require.NoError(t, err)

	email, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", email)
}

func TestParseToken_WrongSecret(t *testing.T) {
	issuer := NewService(&mockProfileGateway{}, &mockProfileStore{}, "secret-a", time.Hour)
	verifier := NewService(&mockProfileGateway{}, &mockProfileStore{}, "secret-b", time.Hour)

	token, err := issuer.IssueToken("owner@example.com")
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	svc := newTestService(&mockProfileGateway{}, &mockProfileStore{})
	_, err := svc.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	// Built directly so the token is already expired when parsed.
	svc := &Service{secret: []byte("test-secret"), tokenTTL: -time.Minute}

	token, err := svc.IssueToken("owner@example.com")
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
