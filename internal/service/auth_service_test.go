package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/showcase_go_server/config"
	"github.com/qs3c/showcase_go_server/internal/model"
	"github.com/qs3c/showcase_go_server/internal/model/dto"
	"github.com/qs3c/showcase_go_server/internal/pkg/blacklist"
	"github.com/qs3c/showcase_go_server/internal/repository"
	"github.com/qs3c/showcase_go_server/internal/testutil"
)

// fakeEmailSender 记录发送的邮件，可按需失败
type fakeEmailSender struct {
	sent    []string
	failErr error
}

func (f *fakeEmailSender) SendVerificationLink(to, link string, expireHours int) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.sent = append(f.sent, to)
	return nil
}

func setupAuthService(t *testing.T) (*AuthService, *gorm.DB, *fakeEmailSender) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireHours = 24
	cfg.Email.VerifyBase = "https://example.com/verify"

	sender := &fakeEmailSender{}
	service := NewAuthService(repository.NewUserRepository(db), cfg, sender, blacklist.NewStore(rdb))
	return service, db, sender
}

func TestAuthService_Register_Success(t *testing.T) {
	service, db, sender := setupAuthService(t)
	userRepo := repository.NewUserRepository(db)

	resp, err := service.Register(&dto.RegisterRequest{
		Username: "newuser",
		Email:    "new@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.UserID)
	assert.Equal(t, []string{"new@example.com"}, sender.sent)

	user, err := userRepo.GetByID(resp.UserID)
	require.NoError(t, err)
	assert.False(t, user.EmailVerified)
	assert.Equal(t, model.RoleUser, user.Role)
	require.NotNil(t, user.VerificationCode)
	require.NotNil(t, user.VerificationExpiresAt)
	assert.True(t, user.VerificationExpiresAt.After(time.Now()))
}

func TestAuthService_Register_Duplicates(t *testing.T) {
	service, db, _ := setupAuthService(t)

	testutil.TestUser(t, db, testutil.WithUsername("taken"), testutil.WithEmail("taken@example.com"))

	_, err := service.Register(&dto.RegisterRequest{
		Username: "someoneelse",
		Email:    "taken@example.com",
		Password: "password123",
	})
	assert.Equal(t, ErrEmailExists, err)

	_, err = service.Register(&dto.RegisterRequest{
		Username: "taken",
		Email:    "free@example.com",
		Password: "password123",
	})
	assert.Equal(t, ErrUsernameExists, err)
}

func TestAuthService_Register_EmailFailureRollsBack(t *testing.T) {
	service, db, sender := setupAuthService(t)
	userRepo := repository.NewUserRepository(db)

	sender.failErr = errors.New("smtp down")

	_, err := service.Register(&dto.RegisterRequest{
		Username: "ghost",
		Email:    "ghost@example.com",
		Password: "password123",
	})
	assert.Equal(t, ErrEmailSendFailed, err)

	// No half-registered row left behind
	exists, err := userRepo.ExistsByUsername("ghost")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAuthService_Login_Success(t *testing.T) {
	service, db, _ := setupAuthService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.DefaultCost)
	require.NoError(t, err)
	hashStr := string(hash)

	testutil.TestUser(t, db, testutil.WithUsername("alice"), func(u *model.User) {
		u.PasswordHash = &hashStr
	})

	resp, err := service.Login(&dto.LoginRequest{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	service, db, _ := setupAuthService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.DefaultCost)
	require.NoError(t, err)
	hashStr := string(hash)

	testutil.TestUser(t, db, testutil.WithUsername("bob"), func(u *model.User) {
		u.PasswordHash = &hashStr
	})

	_, err = service.Login(&dto.LoginRequest{Username: "bob", Password: "wrong"})
	assert.Equal(t, ErrInvalidCredentials, err)

	_, err = service.Login(&dto.LoginRequest{Username: "nobody", Password: "whatever"})
	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestAuthService_Login_UnverifiedBlocked(t *testing.T) {
	service, db, _ := setupAuthService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	hashStr := string(hash)

	testutil.TestUser(t, db, testutil.WithUsername("carol"), testutil.WithVerified(false), func(u *model.User) {
		u.PasswordHash = &hashStr
	})

	_, err = service.Login(&dto.LoginRequest{Username: "carol", Password: "secret123"})
	assert.Equal(t, ErrEmailNotVerified, err)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	service, db, _ := setupAuthService(t)
	userRepo := repository.NewUserRepository(db)

	user := testutil.TestUser(t, db, testutil.WithVerification("good-code", time.Now().Add(time.Hour)))

	resp, err := service.VerifyEmail("good-code")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	got, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.True(t, got.EmailVerified)
	assert.Nil(t, got.VerificationCode)
}

func TestAuthService_VerifyEmail_Invalid(t *testing.T) {
	service, db, _ := setupAuthService(t)

	testutil.TestUser(t, db, testutil.WithVerification("stale-code", time.Now().Add(-time.Minute)))

	_, err := service.VerifyEmail("stale-code")
	assert.Equal(t, ErrInvalidVerifyCode, err)

	_, err = service.VerifyEmail("never-issued")
	assert.Equal(t, ErrInvalidVerifyCode, err)
}

func TestAuthService_Logout(t *testing.T) {
	service, db, _ := setupAuthService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("pass12345"), bcrypt.DefaultCost)
	require.NoError(t, err)
	hashStr := string(hash)

	testutil.TestUser(t, db, testutil.WithUsername("dave"), func(u *model.User) {
		u.PasswordHash = &hashStr
	})

	resp, err := service.Login(&dto.LoginRequest{Username: "dave", Password: "pass12345"})
	require.NoError(t, err)

	ctx := context.Background()
	err = service.Logout(ctx, resp.Token)
	require.NoError(t, err)

	revoked, err := service.tokens.IsRevoked(ctx, resp.Token)
	require.NoError(t, err)
	assert.True(t, revoked)

	// Garbage token is ignored
	err = service.Logout(ctx, "not-a-jwt")
	require.NoError(t, err)
}
