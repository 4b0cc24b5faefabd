package jwt

import (
	"errors"
	"testing"
	"time"

	"rt-roster/backend/config"
)

func testManager(accessTTL time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: time.Hour,
	})
}

func TestGenerateAndParse(t *testing.T) {
	m := testManager(15 * time.Minute)

	token, err := m.GenerateAccessToken("acc-1", "admin")
	if err != nil {
		t.Fatalf("生成 token 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 token 失败: %v", err)
	}
	if claims.AccountID != "acc-1" || claims.Role != "admin" {
		t.Errorf("声明不匹配: %+v", claims)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望 token_type=access，实际=%s", claims.TokenType)
	}
	if claims.ID == "" {
		t.Error("jti 不应为空")
	}
}

func TestRefreshTokenType(t *testing.T) {
	m := testManager(15 * time.Minute)

	token, err := m.GenerateRefreshToken("acc-1", "viewer")
	if err != nil {
		t.Fatalf("生成 refresh token 失败: %v", err)
	}
	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("期望 token_type=refresh，实际=%s", claims.TokenType)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := testManager(15 * time.Minute).GenerateAccessToken("acc-1", "admin")
	if err != nil {
		t.Fatalf("生成 token 失败: %v", err)
	}

	other := NewManager(&config.AuthConfig{JWTSecret: "another-secret", AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour})
	if _, err := other.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("错误密钥应返回 ErrTokenInvalid，实际=%v", err)
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := testManager(-time.Minute)
	token, err := m.GenerateAccessToken("acc-1", "admin")
	if err != nil {
		t.Fatalf("生成 token 失败: %v", err)
	}
	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("过期 token 应返回 ErrTokenExpired，实际=%v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	m := testManager(time.Minute)
	if _, err := m.ParseToken("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("非法字符串应返回 ErrTokenInvalid，实际=%v", err)
	}
}
