package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noteforge/noteforge/pkg/models"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
	nextID  int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]*models.User{}}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *models.User) error {
	if _, taken := f.byEmail[user.Email]; taken {
		return models.ErrConflict
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now().UTC()
	clone := *user
	f.byEmail[user.Email] = &clone
	return nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func testConfig() Config {
	return Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func newTestService(t *testing.T) (*Service, *fakeUserStore) {
	t.Helper()
	store := newFakeUserStore()
	svc, err := NewService(store, testConfig())
	require.NoError(t, err)
	return svc, store
}

func TestNewService_RequiresSecrets(t *testing.T) {
	_, err := NewService(newFakeUserStore(), Config{AccessSecret: "a"})
	assert.Error(t, err)
}

func TestSignup_LowercasesEmailAndHashesPassword(t *testing.T) {
	svc, store := newTestService(t)

	user, err := svc.Signup(context.Background(), SignupRequest{
		Email:    "  Dev@Example.COM ",
		Name:     "Dev",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", user.Email)
	assert.NotEqual(t, "correct horse", user.PasswordHash)
	assert.NotEmpty(t, store.byEmail["dev@example.com"])
}

func TestSignup_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "", Password: "longenough"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.Signup(ctx, SignupRequest{Email: "no-at-sign", Password: "longenough"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.Signup(ctx, SignupRequest{Email: "a@b.com", Password: "short"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupRequest{Email: "A@B.com", Password: "longenough"})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestLogin_IssuesUsableTokenPair(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupRequest{Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "a@b.com", "longenough")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	require.NotNil(t, pair.User)
	assert.Equal(t, user.ID, pair.User.ID)

	userID, err := svc.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@b.com", "wrong password")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = svc.Login(ctx, "nobody@b.com", "longenough")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestParseAccess_RejectsRefreshToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "a@b.com", "longenough")
	require.NoError(t, err)

	_, err = svc.ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestParseAccess_RejectsExpiredToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "a@b.com", "longenough")
	require.NoError(t, err)

	// Jump past the access TTL.
	svc.now = func() time.Time { return time.Now().Add(16 * time.Minute) }
	_, err = svc.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestRefresh_IssuesNewPair(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupRequest{Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "a@b.com", "longenough")
	require.NoError(t, err)

	// Refresh still works after the access token expired.
	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	fresh, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	userID, err := svc.ParseAccess(fresh.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestRefresh_RejectsAccessTokenAndGarbage(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "a@b.com", "longenough")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = svc.Refresh(ctx, "not.a.jwt")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestRefresh_DeletedAccount(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "a@b.com", "longenough")
	require.NoError(t, err)

	delete(store.byEmail, "a@b.com")
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}
