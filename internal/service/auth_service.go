package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rt-roster/backend/internal/dto"
	"rt-roster/backend/internal/repository"
	"rt-roster/backend/pkg/jwt"
	"rt-roster/backend/pkg/redis"
)

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrInvalidToken       = errors.New("token 无效或已失效")
)

// AuthService 账号认证服务
type AuthService struct {
	repo        *repository.Repository
	redisClient *redis.Client
	jwtManager  *jwt.Manager
	logger      *zap.Logger
}

// NewAuthService 创建认证服务
// redisClient 为 nil 时黑名单功能降级：登出不再即时失效 Token
func NewAuthService(repo *repository.Repository, redisClient *redis.Client, jwtManager *jwt.Manager, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:        repo,
		redisClient: redisClient,
		jwtManager:  jwtManager,
		logger:      logger,
	}
}

// Login 邮箱密码登录，签发 access / refresh 双 Token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	account, err := s.repo.Account.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 不区分账号不存在和密码错误
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(account.AccountID, account.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(account.AccountID, account.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("登录成功", zap.String("account_id", account.AccountID))

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessTokenTTL().Seconds()),
		Account: &dto.AccountInfo{
			AccountID: account.AccountID,
			Email:     account.Email,
			FullName:  account.Name,
			Role:      account.Role,
		},
	}, nil
}

// Refresh 用 refresh Token 换取新的 access Token
func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.RefreshResponse, error) {
	claims, err := s.jwtManager.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != "refresh" {
		return nil, ErrInvalidToken
	}

	if s.redisClient != nil {
		blacklisted, err := s.redisClient.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("黑名单查询失败，放行刷新", zap.Error(err))
		} else if blacklisted {
			return nil, ErrInvalidToken
		}
	}

	// 确认账号仍然存在
	account, err := s.repo.Account.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(account.AccountID, account.Role)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.jwtManager.AccessTokenTTL().Seconds()),
	}, nil
}

// Logout 将 Token 的 JWT ID 加入黑名单直至其自然过期
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.jwtManager.ParseToken(tokenString)
	if err != nil {
		// 已失效的 Token 视为登出成功
		return nil
	}

	if s.redisClient == nil {
		s.logger.Warn("Redis 未启用，登出不会即时失效 Token")
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	return s.redisClient.BlacklistToken(ctx, claims.ID, ttl)
}

// Me 返回当前登录账号信息
func (s *AuthService) Me(ctx context.Context, accountID string) (*dto.AccountInfo, error) {
	account, err := s.repo.Account.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return &dto.AccountInfo{
		AccountID: account.AccountID,
		Email:     account.Email,
		FullName:  account.Name,
		Role:      account.Role,
	}, nil
}
