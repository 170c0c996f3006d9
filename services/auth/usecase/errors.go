package usecase

import "errors"

var (
	ErrEmailExists         = errors.New("email already exists, please login")
	ErrVerificationPending = errors.New("please verify your email, verification link already sent")
	ErrInvalidVerification = errors.New("token expired or invalid, please signup again")
	ErrUserNotFound        = errors.New("user not found")
	ErrNotVerified         = errors.New("please verify your email first")
	ErrGoogleAccount       = errors.New("this account is linked with Google, please login using Google")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidResetToken   = errors.New("invalid or expired token")
	ErrResetTokenExpired   = errors.New("token expired, request a new reset link")
	ErrCaptchaFailed       = errors.New("captcha verification failed")
	ErrInvalidGoogleToken  = errors.New("invalid Google token")
)
