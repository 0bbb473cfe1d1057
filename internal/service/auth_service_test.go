package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"careerfair/backend/config"
	"careerfair/backend/internal/dto"
	"careerfair/backend/internal/model"
	"careerfair/backend/internal/repository"
	"careerfair/backend/pkg/jwt"
)

// ── 测试辅助 ──

// Redis 客户端传 nil：登录、查询当前用户与改密不触碰黑名单
func setupTestAuthService() (AuthService, *mockUserRepo) {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
		},
	}

	userRepo := newMockUserRepo()
	repo := &repository.Repository{User: userRepo}
	jwtMgr := jwt.NewManager(&cfg.Auth)

	svc := NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop())
	return svc, userRepo
}

func createTestUser(userRepo *mockUserRepo, email, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &model.User{
		UserID:       "user-" + email,
		Name:         "测试用户",
		Email:        email,
		PasswordHash: string(hash),
		Role:         "staff",
	}
	userRepo.users[user.UserID] = user
	return user
}

// ── 登录测试 ──

func TestLogin_Success(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	createTestUser(userRepo, "staff@fair.lk", "password123")

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "staff@fair.lk",
		Password: "password123",
	})

	if err != nil {
		t.Fatalf("Login 应成功，但返回错误: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("AccessToken 不应为空")
	}
	if result.RefreshToken == "" {
		t.Error("RefreshToken 不应为空")
	}
	if result.User.Email != "staff@fair.lk" {
		t.Errorf("期望 Email=staff@fair.lk，实际=%s", result.User.Email)
	}
	if result.ExpiresIn != 900 {
		t.Errorf("期望 ExpiresIn=900，实际=%d", result.ExpiresIn)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	createTestUser(userRepo, "staff@fair.lk", "password123")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "staff@fair.lk",
		Password: "wrong_password",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_UserNotFound(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@fair.lk",
		Password: "password123",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_MustChangePasswordFlag(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	user := createTestUser(userRepo, "staff@fair.lk", "password123")
	user.MustChangePassword = true

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "staff@fair.lk",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if !result.User.MustChangePassword {
		t.Error("登录响应应携带强制改密标记")
	}
}

// ── 当前用户测试 ──

func TestGetCurrentUser_Success(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	user := createTestUser(userRepo, "staff@fair.lk", "password123")

	result, err := svc.GetCurrentUser(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("GetCurrentUser 应成功: %v", err)
	}
	if result.Email != "staff@fair.lk" {
		t.Errorf("期望 Email=staff@fair.lk，实际=%s", result.Email)
	}
	if result.Role != "staff" {
		t.Errorf("期望 Role=staff，实际=%s", result.Role)
	}
}

func TestGetCurrentUser_NotFound(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.GetCurrentUser(context.Background(), "ghost")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

// ── 修改密码测试 ──

func TestChangePassword_Success(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	user := createTestUser(userRepo, "staff@fair.lk", "password123")
	user.MustChangePassword = true

	err := svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "password123",
		NewPassword: "new-password-456",
	})
	if err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}

	stored := userRepo.users[user.UserID]
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-password-456")); err != nil {
		t.Error("新密码哈希不可验证")
	}
	if stored.MustChangePassword {
		t.Error("改密后应清除强制改密标记")
	}
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	user := createTestUser(userRepo, "staff@fair.lk", "password123")

	err := svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "not-the-password",
		NewPassword: "new-password-456",
	})
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("期望 ErrPasswordMismatch，实际: %v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go
