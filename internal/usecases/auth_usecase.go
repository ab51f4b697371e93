package usecases

import (
	"context"
	"errors"
	"time"

	"crew-directory.backend/internal/domain/entities"
	domainerrors "crew-directory.backend/internal/domain/errors"
	"crew-directory.backend/internal/domain/repositories"
	"crew-directory.backend/pkg/crypto"
	"crew-directory.backend/pkg/jwt"
	"crew-directory.backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenRevoker remembers revoked refresh token ids
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	jwtService *jwt.JWTService
	revoker    TokenRevoker
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	jwtService *jwt.JWTService,
	revoker TokenRevoker,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		jwtService: jwtService,
		revoker:    revoker,
	}
}

// Login authenticates a user and returns tokens
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	if crypto.NeedsRehash(user.PasswordHash) {
		if hash, err := crypto.HashPassword(input.Password); err == nil {
			if err := u.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
				logger.Warn(ctx, "Password rehash failed", zap.String("user_id", user.ID.String()), zap.Error(err))
			}
		}
	}
	if err := u.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		logger.Warn(ctx, "Failed to record last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	return u.issue(user)
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// revoked so it cannot be replayed.
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (*entities.AuthResponse, error) {
	claims, err := u.jwtService.ValidateTyped(refreshToken, jwt.TokenTypeRefresh)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, domainerrors.ErrTokenExpired
		}
		return nil, domainerrors.ErrUnauthorized
	}

	if u.revoker != nil {
		revoked, err := u.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, domainerrors.ErrTokenRevoked
		}
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}

	u.revoke(ctx, claims)
	return u.issue(user)
}

// Logout revokes the refresh token. Invalid or expired tokens are ignored.
func (u *AuthUsecase) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := u.jwtService.ValidateTyped(refreshToken, jwt.TokenTypeRefresh)
	if err != nil {
		return nil
	}
	u.revoke(ctx, claims)
	return nil
}

// Me returns the signed in user
func (u *AuthUsecase) Me(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, userID)
}

// ChangePassword replaces the password after checking the current one
func (u *AuthUsecase) ChangePassword(ctx context.Context, userID uuid.UUID, input *entities.ChangePasswordInput) error {
	if err := crypto.ValidatePasswordStrength(input.NewPassword); err != nil {
		return domainerrors.BadRequest(err.Error())
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !crypto.CheckPassword(input.CurrentPassword, user.PasswordHash) {
		return domainerrors.ErrInvalidCredentials
	}

	hash, err := crypto.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	return u.userRepo.UpdatePassword(ctx, userID, hash)
}

func (u *AuthUsecase) issue(user *entities.User) (*entities.AuthResponse, error) {
	pair, err := u.jwtService.GenerateTokenPair(jwt.Subject{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         string(user.Role),
		FreelancerID: user.FreelancerID.Ptr(),
	})
	if err != nil {
		return nil, err
	}
	return &entities.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
		User:         user,
	}, nil
}

func (u *AuthUsecase) revoke(ctx context.Context, claims *jwt.Claims) {
	if u.revoker == nil || claims.ExpiresAt == nil {
		return
	}
	if err := u.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		logger.Warn(ctx, "Failed to revoke refresh token", zap.Error(err))
	}
}
