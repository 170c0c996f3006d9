package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"linkup/pkg/jwt"
	"linkup/pkg/logger"
	"linkup/pkg/models"
	"linkup/services/auth/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 15 * time.Minute

// Mailer sends the verification and password-reset emails. pkg/email.Sender
// satisfies it.
type Mailer interface {
	SendVerificationEmail(to, link string) error
	SendResetPasswordEmail(to, link string) error
}

// CaptchaVerifier checks a captcha response token. pkg/captcha.Client
// satisfies it.
type CaptchaVerifier interface {
	Verify(token string) (bool, error)
}

type AuthUseCase interface {
	Signup(name, email, password string) error
	VerifyEmail(token string) (uint, error)
	Login(email, password string) (*models.User, string, error)
	ForgotPassword(email, captchaToken string) error
	ResetPassword(token, password string) error
	GoogleLogin(ctx context.Context, idToken string) (*models.User, string, error)
	GetUser(id uint) (*models.User, error)
}

type authUseCase struct {
	userRepo    repository.UserRepository
	jwtService  *jwt.Service
	mailer      Mailer
	captcha     CaptchaVerifier
	google      GoogleVerifier
	frontendURL string
	logger      *logger.Logger
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	jwtService *jwt.Service,
	mailer Mailer,
	captcha CaptchaVerifier,
	google GoogleVerifier,
	frontendURL string,
	log *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:    userRepo,
		jwtService:  jwtService,
		mailer:      mailer,
		captcha:     captcha,
		google:      google,
		frontendURL: frontendURL,
		logger:      log,
	}
}

func (uc *authUseCase) Signup(name, email, password string) error {
	existing, err := uc.userRepo.GetByEmail(email)
	if err == nil {
		if existing.IsVerified {
			return ErrEmailExists
		}
		// Unverified signup with a live token keeps its claim on the email;
		// an expired one is swept so the address can be reused.
		if existing.TokenExpiry != nil && existing.TokenExpiry.Before(time.Now()) {
			if err := uc.userRepo.Delete(existing.ID); err != nil {
				return fmt.Errorf("failed to delete stale signup: %w", err)
			}
		} else {
			return ErrVerificationPending
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	token, err := randomToken()
	if err != nil {
		return err
	}
	expiry := time.Now().Add(tokenTTL)

	hashedStr := string(hashed)
	user := &models.User{
		Email:             email,
		Password:          &hashedStr,
		IsVerified:        false,
		VerificationToken: &token,
		TokenExpiry:       &expiry,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := uc.userRepo.CreateProfile(&models.Profile{UserID: user.ID, Name: name}); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	link := fmt.Sprintf("%s/verify/%s", uc.frontendURL, token)
	if err := uc.mailer.SendVerificationEmail(email, link); err != nil {
		uc.logger.Error("Failed to send verification email to %s: %v", email, err)
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	return nil
}

func (uc *authUseCase) VerifyEmail(token string) (uint, error) {
	if token == "" {
		return 0, ErrInvalidVerification
	}

	user, err := uc.userRepo.GetByVerificationToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrInvalidVerification
		}
		return 0, fmt.Errorf("failed to look up token: %w", err)
	}

	if user.TokenExpiry == nil || user.TokenExpiry.Before(time.Now()) {
		if err := uc.userRepo.Delete(user.ID); err != nil {
			uc.logger.Error("Failed to delete expired signup %d: %v", user.ID, err)
		}
		return 0, ErrInvalidVerification
	}

	user.IsVerified = true
	user.VerificationToken = nil
	user.TokenExpiry = nil
	if err := uc.userRepo.Update(user); err != nil {
		return 0, fmt.Errorf("failed to mark user verified: %w", err)
	}

	return user.ID, nil
}

func (uc *authUseCase) Login(email, password string) (*models.User, string, error) {
	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsVerified {
		return nil, "", ErrNotVerified
	}
	if user.IsGoogleLogin && user.Password == nil {
		return nil, "", ErrGoogleAccount
	}
	if user.Password == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := uc.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

func (uc *authUseCase) ForgotPassword(email, captchaToken string) error {
	ok, err := uc.captcha.Verify(captchaToken)
	if err != nil {
		return fmt.Errorf("failed to verify captcha: %w", err)
	}
	if !ok {
		return ErrCaptchaFailed
	}

	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if user.IsGoogleLogin && user.Password == nil {
		return ErrGoogleAccount
	}

	token, err := randomToken()
	if err != nil {
		return err
	}
	expiry := time.Now().Add(tokenTTL)
	user.ResetPasswordToken = &token
	user.ResetPasswordExpiry = &expiry
	if err := uc.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password/%s", uc.frontendURL, token)
	if err := uc.mailer.SendResetPasswordEmail(email, link); err != nil {
		uc.logger.Error("Failed to send reset email to %s: %v", email, err)
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	return nil
}

func (uc *authUseCase) ResetPassword(token, password string) error {
	user, err := uc.userRepo.GetByResetToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to look up token: %w", err)
	}

	if user.ResetPasswordExpiry == nil || user.ResetPasswordExpiry.Before(time.Now()) {
		user.ResetPasswordToken = nil
		user.ResetPasswordExpiry = nil
		if err := uc.userRepo.Update(user); err != nil {
			uc.logger.Error("Failed to clear expired reset token for user %d: %v", user.ID, err)
		}
		return ErrResetTokenExpired
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	hashedStr := string(hashed)
	user.Password = &hashedStr
	user.ResetPasswordToken = nil
	user.ResetPasswordExpiry = nil
	if err := uc.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func (uc *authUseCase) GoogleLogin(ctx context.Context, idToken string) (*models.User, string, error) {
	email, name, err := uc.google.Verify(ctx, idToken)
	if err != nil {
		return nil, "", ErrInvalidGoogleToken
	}

	user, err := uc.userRepo.GetByEmail(email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &models.User{
			Email:         email,
			Password:      nil,
			IsVerified:    true,
			IsGoogleLogin: true,
		}
		if err := uc.userRepo.Create(user); err != nil {
			return nil, "", fmt.Errorf("failed to create user: %w", err)
		}
		if err := uc.userRepo.CreateProfile(&models.Profile{UserID: user.ID, Name: name}); err != nil {
			return nil, "", fmt.Errorf("failed to create profile: %w", err)
		}
	case err != nil:
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	default:
		changed := false
		if !user.IsVerified {
			user.IsVerified = true
			user.VerificationToken = nil
			user.TokenExpiry = nil
			changed = true
		}
		if !user.IsGoogleLogin {
			user.IsGoogleLogin = true
			changed = true
		}
		if changed {
			if err := uc.userRepo.Update(user); err != nil {
				return nil, "", fmt.Errorf("failed to update user: %w", err)
			}
		}

		profile, err := uc.userRepo.GetProfileByUserID(user.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := uc.userRepo.CreateProfile(&models.Profile{UserID: user.ID, Name: name}); err != nil {
				return nil, "", fmt.Errorf("failed to create profile: %w", err)
			}
		} else if err == nil && strings.TrimSpace(profile.Name) == "" && name != "" {
			profile.Name = name
			if err := uc.userRepo.UpdateProfile(profile); err != nil {
				return nil, "", fmt.Errorf("failed to update profile: %w", err)
			}
		}
	}

	token, err := uc.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

func (uc *authUseCase) GetUser(id uint) (*models.User, error) {
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
