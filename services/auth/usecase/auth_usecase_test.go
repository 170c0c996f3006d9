package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"linkup/pkg/jwt"
	"linkup/pkg/logger"
	"linkup/pkg/models"
	"linkup/services/auth/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeMailer struct {
	verificationLinks map[string]string
	resetLinks        map[string]string
	err               error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{
		verificationLinks: make(map[string]string),
		resetLinks:        make(map[string]string),
	}
}

func (m *fakeMailer) SendVerificationEmail(to, link string) error {
	if m.err != nil {
		return m.err
	}
	m.verificationLinks[to] = link
	return nil
}

func (m *fakeMailer) SendResetPasswordEmail(to, link string) error {
	if m.err != nil {
		return m.err
	}
	m.resetLinks[to] = link
	return nil
}

type fakeCaptcha struct {
	ok bool
}

func (c *fakeCaptcha) Verify(token string) (bool, error) {
	return c.ok, nil
}

type fakeGoogle struct {
	email string
	name  string
	err   error
}

func (g *fakeGoogle) Verify(ctx context.Context, token string) (string, string, error) {
	if g.err != nil {
		return "", "", g.err
	}
	return g.email, g.name, nil
}

type authFixture struct {
	db      *gorm.DB
	uc      AuthUseCase
	repo    repository.UserRepository
	mailer  *fakeMailer
	captcha *fakeCaptcha
	google  *fakeGoogle
	jwt     *jwt.Service
}

func newAuthFixture(t *testing.T) *authFixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Profile{}))

	repo := repository.NewUserRepository(db)
	mailer := newFakeMailer()
	captcha := &fakeCaptcha{ok: true}
	google := &fakeGoogle{email: "g@test.com", name: "Google User"}
	jwtService := jwt.NewService("test-secret")

	uc := NewAuthUseCase(repo, jwtService, mailer, captcha, google, "http://localhost:3000", logger.New())

	return &authFixture{db: db, uc: uc, repo: repo, mailer: mailer, captcha: captcha, google: google, jwt: jwtService}
}

func (f *authFixture) verificationToken(t *testing.T, email string) string {
	user, err := f.repo.GetByEmail(email)
	require.NoError(t, err)
	require.NotNil(t, user.VerificationToken)
	return *user.VerificationToken
}

func TestSignupAndVerify(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.uc.Signup("Alice", "alice@test.com", "password123"))

	user, err := f.repo.GetByEmail("alice@test.com")
	require.NoError(t, err)
	assert.False(t, user.IsVerified)
	require.NotNil(t, user.Password)
	assert.NotEqual(t, "password123", *user.Password)
	assert.Contains(t, f.mailer.verificationLinks["alice@test.com"], "/verify/")

	profile, err := f.repo.GetProfileByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.Name)

	userID, err := f.uc.VerifyEmail(f.verificationToken(t, "alice@test.com"))
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	verified, err := f.repo.GetByID(userID)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Nil(t, verified.VerificationToken)
}

func TestSignupDuplicateVerified(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.uc.Signup("Alice", "alice@test.com", "password123"))
	_, err := f.uc.VerifyEmail(f.verificationToken(t, "alice@test.com"))
	require.NoError(t, err)

	err = f.uc.Signup("Alice Again", "alice@test.com", "password456")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestSignupPendingVerification(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.uc.Signup("Alice", "alice@test.com", "password123"))

	err := f.uc.Signup("Alice", "alice@test.com", "password123")
	assert.ErrorIs(t, err, ErrVerificationPending)
}

func TestSignupReplacesExpiredSignup(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.uc.Signup("Alice", "alice@test.com", "password123"))

	// Age the pending signup past its token window.
	expired := time.Now().Add(-time.Hour)
	user, err := f.repo.GetByEmail("alice@test.com")
	require.NoError(t, err)
	user.TokenExpiry = &expired
	require.NoError(t, f.repo.Update(user))

	require.NoError(t, f.uc.Signup("Alice", "alice@test.com", "newpassword"))

	fresh, err := f.repo.GetByEmail("alice@test.com")
	require.NoError(t, err)
	assert.NotEqual(t, user.ID, fresh.ID)
}

func TestVerifyEmailInvalidToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.uc.VerifyEmail("nope")
	assert.ErrorIs(t, err, ErrInvalidVerification)
}

func TestVerifyEmailExpiredTokenDeletesUser(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.uc.Signup("Alice", "alice@test.com", "password123"))
	token := f.verificationToken(t, "alice@test.com")

	expired := time.Now().Add(-time.Minute)
	user, err := f.repo.GetByEmail("alice@test.com")
	require.NoError(t, err)
	user.TokenExpiry = &expired
	require.NoError(t, f.repo.Update(user))

	_, err = f.uc.VerifyEmail(token)
	assert.ErrorIs(t, err, ErrInvalidVerification)

	_, err = f.repo.GetByEmail("alice@test.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.uc.Signup("Alice", "alice@test.com", "password123"))
	_, err := f.uc.VerifyEmail(f.verificationToken(t, "alice@test.com"))
	require.NoError(t, err)

	user, token, err := f.uc.Login("alice@test.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice@test.com", user.Email)

	claims, err := f.jwt.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.uc.Signup("Alice", "alice@test.com", "password123"))
	_, err := f.uc.VerifyEmail(f.verificationToken(t, "alice@test.com"))
	require.NoError(t, err)

	_, _, err = f.uc.Login("alice@test.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnverified(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.uc.Signup("Alice", "alice@test.com", "password123"))

	_, _, err := f.uc.Login("alice@test.com", "password123")
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestLoginUnknownUser(t *testing.T) {
	f := newAuthFixture(t)

	_, _, err := f.uc.Login("ghost@test.com", "password123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLoginGoogleOnlyAccount(t *testing.T) {
	f := newAuthFixture(t)

	_, _, err := f.uc.GoogleLogin(context.Background(), "token")
	require.NoError(t, err)

	_, _, err = f.uc.Login("g@test.com", "whatever")
	assert.ErrorIs(t, err, ErrGoogleAccount)
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.uc.Signup("Alice", "alice@test.com", "password123"))
	_, err := f.uc.VerifyEmail(f.verificationToken(t, "alice@test.com"))
	require.NoError(t, err)

	require.NoError(t, f.uc.ForgotPassword("alice@test.com", "captcha-token"))
	assert.Contains(t, f.mailer.resetLinks["alice@test.com"], "/reset-password/")

	user, err := f.repo.GetByEmail("alice@test.com")
	require.NoError(t, err)
	require.NotNil(t, user.ResetPasswordToken)

	require.NoError(t, f.uc.ResetPassword(*user.ResetPasswordToken, "newpassword"))

	_, _, err = f.uc.Login("alice@test.com", "newpassword")
	require.NoError(t, err)
	_, _, err = f.uc.Login("alice@test.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Token is single-use.
	err = f.uc.ResetPassword(*user.ResetPasswordToken, "another")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestForgotPasswordCaptchaFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.captcha.ok = false

	err := f.uc.ForgotPassword("alice@test.com", "bad-token")
	assert.ErrorIs(t, err, ErrCaptchaFailed)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.uc.Signup("Alice", "alice@test.com", "password123"))
	_, err := f.uc.VerifyEmail(f.verificationToken(t, "alice@test.com"))
	require.NoError(t, err)
	require.NoError(t, f.uc.ForgotPassword("alice@test.com", "captcha-token"))

	user, err := f.repo.GetByEmail("alice@test.com")
	require.NoError(t, err)
	token := *user.ResetPasswordToken
	expired := time.Now().Add(-time.Minute)
	user.ResetPasswordExpiry = &expired
	require.NoError(t, f.repo.Update(user))

	err = f.uc.ResetPassword(token, "newpassword")
	assert.ErrorIs(t, err, ErrResetTokenExpired)

	// The stale token was cleared along the way.
	cleared, err := f.repo.GetByEmail("alice@test.com")
	require.NoError(t, err)
	assert.Nil(t, cleared.ResetPasswordToken)
}

func TestGoogleLoginCreatesVerifiedUser(t *testing.T) {
	f := newAuthFixture(t)

	user, token, err := f.uc.GoogleLogin(context.Background(), "token")
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
	assert.True(t, user.IsGoogleLogin)
	assert.Nil(t, user.Password)
	assert.NotEmpty(t, token)

	profile, err := f.repo.GetProfileByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Google User", profile.Name)
}

func TestGoogleLoginUpgradesExistingAccount(t *testing.T) {
	f := newAuthFixture(t)
	f.google.email = "alice@test.com"

	require.NoError(t, f.uc.Signup("Alice", "alice@test.com", "password123"))

	user, _, err := f.uc.GoogleLogin(context.Background(), "token")
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
	assert.True(t, user.IsGoogleLogin)
	// Password login keeps working after linking.
	require.NotNil(t, user.Password)

	_, _, err = f.uc.Login("alice@test.com", "password123")
	require.NoError(t, err)
}

func TestGoogleLoginInvalidToken(t *testing.T) {
	f := newAuthFixture(t)
	f.google.err = errors.New("bad signature")

	_, _, err := f.uc.GoogleLogin(context.Background(), "token")
	assert.ErrorIs(t, err, ErrInvalidGoogleToken)
}

func TestGetUser(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.uc.Signup("Alice", "alice@test.com", "password123"))
	user, err := f.repo.GetByEmail("alice@test.com")
	require.NoError(t, err)

	loaded, err := f.uc.GetUser(user.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Profile)
	assert.Equal(t, "Alice", loaded.Profile.Name)

	_, err = f.uc.GetUser(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
