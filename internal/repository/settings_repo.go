package repository

import (
	"context"

	"gorm.io/gorm"

	"careerfair/backend/internal/model"
)

// EventSettingsRepository 活动全局配置数据访问接口（单行表）
type EventSettingsRepository interface {
	Get(ctx context.Context) (*model.EventSettings, error)
	Update(ctx context.Context, settings *model.EventSettings) error
}

type eventSettingsRepo struct {
	db *gorm.DB
}

// NewEventSettingsRepo 创建 EventSettingsRepository 实例
func NewEventSettingsRepo(db *gorm.DB) EventSettingsRepository {
	return &eventSettingsRepo{db: db}
}

// Get 读取配置行。迁移脚本已写入初始行，正常部署下必然存在
func (r *eventSettingsRepo) Get(ctx context.Context) (*model.EventSettings, error) {
	var settings model.EventSettings
	err := r.db.WithContext(ctx).
		Where("singleton = ?", true).
		First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *eventSettingsRepo) Update(ctx context.Context, settings *model.EventSettings) error {
	settings.Singleton = true
	return r.db.WithContext(ctx).Save(settings).Error
}
