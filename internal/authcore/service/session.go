package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopvn/authcore/internal/authcore/domain"
	"github.com/shopvn/authcore/internal/authcore/email"
	"github.com/shopvn/authcore/internal/authcore/store"
	"github.com/shopvn/authcore/pkg/idx"
	"github.com/shopvn/authcore/pkg/slogx"
	"golang.org/x/sync/errgroup"
)

// Hasher abstracts password hashing so the session core never touches the
// primitive directly.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext, hash string) error
}

// SessionManager orchestrates registration, login, token rotation, logout,
// two-factor management and password recovery by composing the credential
// store, the token service, the TOTP service and the code manager.
type SessionManager struct {
	Store     store.Store
	Tokens    *TokenService
	TwoFactor *TwoFactorService
	Codes     *VerificationCodeManager
	Email     email.Sender
	Hasher    Hasher
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
	Phone    string
	Code     string
}

type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IP        string
	TOTPCode  string
	Code      string
}

type OTPResult struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type MessageResult struct {
	Message string `json:"message"`
}

// Register creates an account from a previously emailed REGISTER code. The
// user row insert and the consumed-code delete are independent and run
// concurrently.
func (s *SessionManager) Register(ctx context.Context, in RegisterInput) (domain.PublicUser, error) {
	if _, err := s.Codes.Validate(ctx, in.Email, in.Code, domain.CodePurposeRegister); err != nil {
		return domain.PublicUser{}, err
	}

	clientRole, err := s.Store.Roles().GetRoleByName(ctx, domain.RoleClient)
	if err != nil {
		return domain.PublicUser{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.PublicUser{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		Phone:        in.Phone,
		Status:       domain.UserStatusActive,
		RoleID:       clientRole.ID,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Store.Users().CreateUser(gctx, user)
	})
	g.Go(func() error {
		return s.Codes.Consume(gctx, in.Email, in.Code, domain.CodePurposeRegister)
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.PublicUser{}, ErrEmailAlreadyExists
		}
		return domain.PublicUser{}, err
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", user.ID)
	return user.Public(), nil
}

// SendOTP emails a fresh verification code for the given purpose. The code
// is persisted only after the email dispatch succeeds, so an undelivered OTP
// never leaves an orphaned row.
func (s *SessionManager) SendOTP(ctx context.Context, emailAddr string, purpose domain.CodePurpose) (OTPResult, error) {
	_, err := s.Store.Users().GetUserByEmail(ctx, emailAddr)
	exists := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return OTPResult{}, err
	}

	if purpose == domain.CodePurposeRegister && exists {
		return OTPResult{}, ErrEmailAlreadyExists
	}
	if purpose == domain.CodePurposeForgotPassword && !exists {
		return OTPResult{}, ErrEmailNotFound
	}

	code, err := s.Codes.NewCode()
	if err != nil {
		return OTPResult{}, err
	}

	if err := s.Email.Send(ctx, emailAddr, code); err != nil {
		slogx.FromContext(ctx).Error("otp dispatch failed", "err", err)
		return OTPResult{}, ErrOTPSendFailed
	}

	if _, err := s.Codes.Issue(ctx, emailAddr, code, purpose); err != nil {
		return OTPResult{}, err
	}

	return OTPResult{Message: "OTP sent successfully", Code: code}, nil
}

// Login authenticates credentials and, when two-factor is enabled, exactly
// one of a TOTP code or a LOGIN-purpose email code. Every successful login
// creates a fresh device row; there is no device-matching logic.
func (s *SessionManager) Login(ctx context.Context, in LoginInput) (domain.TokenPair, error) {
	user, role, err := s.Store.Users().GetUserByEmailWithRole(ctx, in.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrEmailNotFound
		}
		return domain.TokenPair{}, err
	}

	if err := s.Hasher.Compare(in.Password, user.PasswordHash); err != nil {
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	if user.TwoFactorEnabled() {
		switch {
		case in.TOTPCode != "":
			if !s.TwoFactor.VerifyTOTP(*user.TOTPSecret, in.TOTPCode) {
				return domain.TokenPair{}, ErrInvalidTOTP
			}
		case in.Code != "":
			// Transactional redeem: two logins presenting the same code
			// cannot both pass.
			if _, err := s.Codes.Redeem(ctx, user.Email, in.Code, domain.CodePurposeLogin); err != nil {
				return domain.TokenPair{}, err
			}
		default:
			return domain.TokenPair{}, ErrInvalidTOTPAndCode
		}
	}

	device := domain.Device{
		ID:        idx.New().String(),
		UserID:    user.ID,
		UserAgent: in.UserAgent,
		IP:        in.IP,
		IsActive:  true,
	}
	if err := s.Store.Devices().CreateDevice(ctx, device); err != nil {
		return domain.TokenPair{}, err
	}

	return s.GenerateTokens(ctx, user.ID, device.ID, role.ID, role.Name)
}

// GenerateTokens signs the access and refresh tokens concurrently, decodes
// the refresh token's own expiry claim and persists the refresh token row.
// This is the single place a refresh token is minted and stored, for both
// fresh logins and rotations.
func (s *SessionManager) GenerateTokens(ctx context.Context, userID, deviceID, roleID, roleName string) (domain.TokenPair, error) {
	var accessToken, refreshToken string

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accessToken, err = s.Tokens.SignAccessToken(userID, deviceID, roleID, roleName)
		return err
	})
	g.Go(func() error {
		var err error
		refreshToken, err = s.Tokens.SignRefreshToken(userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.TokenPair{}, err
	}

	decoded, err := s.Tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return domain.TokenPair{}, err
	}

	err = s.Store.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		Token:     refreshToken,
		UserID:    userID,
		DeviceID:  deviceID,
		ExpiresAt: decoded.ExpiresAt.Time,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RefreshToken rotates a refresh token. Fail-closed: domain errors pass
// through verbatim, everything else collapses to UnauthorizedAccess so this
// most sensitive path never leaks failure detail.
func (s *SessionManager) RefreshToken(ctx context.Context, refreshToken, userAgent, ip string) (domain.TokenPair, error) {
	pair, err := s.rotateRefreshToken(ctx, refreshToken, userAgent, ip)
	if err != nil {
		if _, ok := AsDomainError(err); ok {
			return domain.TokenPair{}, err
		}
		slogx.FromContext(ctx).Warn("refresh rotation failed", "err", err)
		return domain.TokenPair{}, ErrUnauthorizedAccess
	}
	return pair, nil
}

func (s *SessionManager) rotateRefreshToken(ctx context.Context, refreshToken, userAgent, ip string) (domain.TokenPair, error) {
	claims, err := s.Tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return domain.TokenPair{}, err
	}

	// Absence of the row is the reuse-detection signal: this exact token
	// string was already rotated away or logged out.
	rec, err := s.Store.RefreshTokens().GetRefreshTokenWithUser(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Warn("refresh token reuse detected", "user_id", claims.UserID)
			return domain.TokenPair{}, ErrRefreshTokenAlreadyUsed
		}
		return domain.TokenPair{}, err
	}

	// Device update, old-token delete and new-pair mint are independent.
	var pair domain.TokenPair
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Store.Devices().TouchDevice(gctx, rec.Token.DeviceID, userAgent, ip)
	})
	g.Go(func() error {
		_, err := s.Store.RefreshTokens().DeleteRefreshToken(gctx, refreshToken)
		return err
	})
	g.Go(func() error {
		var err error
		pair, err = s.GenerateTokens(gctx, claims.UserID, rec.Token.DeviceID, rec.User.RoleID, rec.Role.Name)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.TokenPair{}, err
	}

	return pair, nil
}

// Logout invalidates a refresh token and deactivates its device. A token
// already absent from the store reports RefreshTokenAlreadyUsed, preserving
// the same reuse signal as rotation.
func (s *SessionManager) Logout(ctx context.Context, refreshToken string) (MessageResult, error) {
	if _, err := s.Tokens.VerifyRefreshToken(refreshToken); err != nil {
		return MessageResult{}, ErrUnauthorizedAccess
	}

	deleted, err := s.Store.RefreshTokens().DeleteRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return MessageResult{}, ErrRefreshTokenAlreadyUsed
		}
		return MessageResult{}, ErrUnauthorizedAccess
	}

	if err := s.Store.Devices().DeactivateDevice(ctx, deleted.DeviceID); err != nil {
		return MessageResult{}, ErrUnauthorizedAccess
	}

	return MessageResult{Message: "logged out successfully"}, nil
}

// ForgotPassword resets a password from a FORGOT_PASSWORD code. The hash
// update and the consumed-code delete run concurrently.
func (s *SessionManager) ForgotPassword(ctx context.Context, emailAddr, code, newPassword string) (MessageResult, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return MessageResult{}, ErrEmailNotFound
		}
		return MessageResult{}, err
	}

	if _, err := s.Codes.Validate(ctx, emailAddr, code, domain.CodePurposeForgotPassword); err != nil {
		return MessageResult{}, err
	}

	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return MessageResult{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Store.Users().UpdatePasswordHash(gctx, user.ID, hash, user.ID)
	})
	g.Go(func() error {
		return s.Codes.Consume(gctx, emailAddr, code, domain.CodePurposeForgotPassword)
	})
	if err := g.Wait(); err != nil {
		return MessageResult{}, err
	}

	return MessageResult{Message: "password updated successfully"}, nil
}

// SetupTwoFactorAuth generates and persists a TOTP secret for the user. The
// secret is stored immediately; the account counts as two-factor enabled
// from this point on.
func (s *SessionManager) SetupTwoFactorAuth(ctx context.Context, userID string) (TOTPSecret, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return TOTPSecret{}, ErrEmailNotFound
		}
		return TOTPSecret{}, err
	}
	if user.TwoFactorEnabled() {
		return TOTPSecret{}, ErrTOTPAlreadyEnabled
	}

	secret, err := s.TwoFactor.GenerateTOTPSecret(user.Email)
	if err != nil {
		return TOTPSecret{}, err
	}

	if err := s.Store.Users().UpdateTOTPSecret(ctx, userID, &secret.Secret, userID); err != nil {
		return TOTPSecret{}, err
	}

	return secret, nil
}

// DisableTwoFactorAuth clears the TOTP secret after validating exactly one
// of a TOTP code or a DISABLE_2FA email code.
func (s *SessionManager) DisableTwoFactorAuth(ctx context.Context, userID, totpCode, code string) (MessageResult, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return MessageResult{}, ErrEmailNotFound
		}
		return MessageResult{}, err
	}
	if !user.TwoFactorEnabled() {
		return MessageResult{}, ErrTOTPNotEnabled
	}

	switch {
	case totpCode != "":
		if !s.TwoFactor.VerifyTOTP(*user.TOTPSecret, totpCode) {
			return MessageResult{}, ErrInvalidTOTP
		}
	case code != "":
		if _, err := s.Codes.Redeem(ctx, user.Email, code, domain.CodePurposeDisable2FA); err != nil {
			return MessageResult{}, err
		}
	default:
		return MessageResult{}, ErrInvalidTOTPAndCode
	}

	if err := s.Store.Users().UpdateTOTPSecret(ctx, userID, nil, userID); err != nil {
		return MessageResult{}, err
	}

	return MessageResult{Message: "two-factor authentication disabled"}, nil
}
