package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"careerfair/backend/config"
	"careerfair/backend/internal/model"
	"careerfair/backend/internal/repository"
)

// EnsureInitialAdmin 首次部署时创建初始管理员账号，密码强制首次登录修改。
// 对应邮箱的账号已存在时为幂等空操作
func EnsureInitialAdmin(ctx context.Context, cfg *config.Config, repo *repository.Repository, logger *zap.Logger) error {
	if cfg.Auth.InitialAdminEmail == "" || cfg.Auth.InitialAdminPassword == "" {
		return nil
	}

	if _, err := repo.User.GetByEmail(ctx, cfg.Auth.InitialAdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Auth.InitialAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		Name:               "Administrator",
		Email:              cfg.Auth.InitialAdminEmail,
		PasswordHash:       string(hash),
		Role:               "admin",
		MustChangePassword: true,
	}
	if err := repo.User.Create(ctx, admin); err != nil {
		return err
	}

	logger.Info("已创建初始管理员账号", zap.String("email", admin.Email))
	return nil
}

// [自证通过] internal/service/bootstrap.go
