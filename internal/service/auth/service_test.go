package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchroom/server/internal/domain"
)

type fakeUserRepo struct {
	users map[string]domain.User // by id
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *domain.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	f.users[user.Id] = *user
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserById(ctx context.Context, userId string) (domain.User, error) {
	u, ok := f.users[userId]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func newTestService(ttl time.Duration) (*service, *fakeUserRepo) {
	repo := &fakeUserRepo{users: make(map[string]domain.User)}
	svc := NewService(repo, &Config{Secret: "test-secret", TokenTTL: ttl}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterParams{
		Name:     "alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.Id)
	assert.Equal(t, "alice", user.Name)

	_, err = svc.Register(ctx, &RegisterParams{
		Name:     "someone else",
		Email:    "alice@example.com",
		Password: "other",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	resp, err := svc.Login(ctx, &LoginParams{Email: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, user.Id, resp.User.Id)

	_, err = svc.Login(ctx, &LoginParams{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// an unknown email reports the same error as a wrong password
	_, err = svc.Login(ctx, &LoginParams{Email: "nobody@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUserFromToken(t *testing.T) {
	svc, repo := newTestService(time.Hour)
	ctx := context.Background()

	registered, err := svc.Register(ctx, &RegisterParams{
		Name:     "alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &LoginParams{Email: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)

	user, err := svc.UserFromToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.Id, user.Id)

	_, err = svc.UserFromToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	// a valid token for a user that no longer exists is rejected
	delete(repo.users, registered.Id)
	_, err = svc.UserFromToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestExpiredToken(t *testing.T) {
	svc, _ := newTestService(-time.Minute)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterParams{
		Name:     "alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &LoginParams{Email: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.UserFromToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	salt, err := generateSalt()
	require.NoError(t, err)

	hash := hashPassword("secret", salt)
	assert.True(t, verifyPassword("secret", salt, hash))
	assert.False(t, verifyPassword("Secret", salt, hash))

	otherSalt, err := generateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, hash, hashPassword("secret", otherSalt), "salt must change the derived key")
}
