package services

import (
	"ClinicRecords/cache"
	"ClinicRecords/dtos"
	"ClinicRecords/logger"
	"ClinicRecords/models"
	"ClinicRecords/repositories"
	"ClinicRecords/utils"
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type AuthService interface {
	// Register provisions an account with its role.
	Register(ctx context.Context, req dtos.RegisterRequest) (*models.User, error)
	// Login checks the credentials and issues an access and refresh token.
	Login(ctx context.Context, req dtos.LoginRequest) (*dtos.TokenPairResponse, error)
	// Refresh issues a new access token for a valid, unrevoked refresh token.
	Refresh(ctx context.Context, req dtos.RefreshRequest) (*dtos.AccessTokenResponse, error)
	// Logout revokes the caller's refresh token until it would have expired.
	Logout(ctx context.Context, userID uint, req dtos.RefreshRequest) error
	// ResolveIdentity maps an access token onto the stored identity and its
	// profile.
	ResolveIdentity(ctx context.Context, accessToken string) (*models.User, error)
}

type authService struct {
	users  repositories.UserRepository
	tokens *utils.TokenMaker
	cache  *cache.Cache
}

func NewAuthService(users repositories.UserRepository, tokens *utils.TokenMaker, cache *cache.Cache) AuthService {
	return &authService{users: users, tokens: tokens, cache: cache}
}

func revokedTokenKey(jti string) string {
	return fmt.Sprintf("revoked_token:%s", jti)
}

func (s *authService) Register(ctx context.Context, req dtos.RegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.users.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, duplicateUsername()
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &models.User{
		Username: req.Username,
		Password: hashedPassword,
		IsActive: true,
		Profile:  &models.Profile{Role: req.Role},
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateUsername) {
			return nil, duplicateUsername()
		}
		return nil, err
	}
	logger.LogInfo("user registered", zap.Stringer("user", user))
	return user, nil
}

func (s *authService) Login(ctx context.Context, req dtos.LoginRequest) (*dtos.TokenPairResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !utils.CheckPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	access, refresh, err := s.tokens.GenerateTokens(user.ID)
	if err != nil {
		return nil, err
	}
	return &dtos.TokenPairResponse{Access: access, Refresh: refresh}, nil
}

func (s *authService) Refresh(ctx context.Context, req dtos.RefreshRequest) (*dtos.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	claims, err := s.openRefreshToken(ctx, req.Refresh)
	if err != nil {
		return nil, err
	}
	if _, err := s.activeIdentity(ctx, claims.UserID); err != nil {
		return nil, err
	}

	access, err := s.tokens.GenerateAccessToken(claims.UserID)
	if err != nil {
		return nil, err
	}
	return &dtos.AccessTokenResponse{Access: access}, nil
}

func (s *authService) Logout(ctx context.Context, userID uint, req dtos.RefreshRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	claims, err := s.openRefreshToken(ctx, req.Refresh)
	if err != nil {
		return err
	}
	if claims.UserID != userID {
		return ErrTokenNotOwned
	}

	ttl := time.Until(claims.Expiry)
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.Set(ctx, revokedTokenKey(claims.ID), claims.UserID, ttl); err != nil {
		return errors.Wrap(err, "failed to revoke token")
	}
	return nil
}

func (s *authService) ResolveIdentity(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.ValidateToken(accessToken, utils.AccessToken)
	if err != nil {
		return nil, err
	}
	return s.activeIdentity(ctx, claims.UserID)
}

func (s *authService) openRefreshToken(ctx context.Context, token string) (*utils.TokenClaims, error) {
	claims, err := s.tokens.ValidateToken(token, utils.RefreshToken)
	if err != nil {
		return nil, err
	}
	revoked, err := s.cache.Exists(ctx, revokedTokenKey(claims.ID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to check token revocation")
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func (s *authService) activeIdentity(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetIdentity(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func duplicateUsername() error {
	return validation.Errors{"username": errors.New("A user with that username already exists.")}
}
