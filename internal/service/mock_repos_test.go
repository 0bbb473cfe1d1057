package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"careerfair/backend/internal/model"
	"careerfair/backend/internal/repository"
	pkgerrors "careerfair/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users     map[string]*model.User
	idCounter int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.idCounter++
		user.UserID = fmt.Sprintf("user-%d", m.idCounter)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	total := int64(len(all))
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

// ── Mock PanelRepository ──

type mockPanelRepo struct {
	panels map[string][]model.Panel // key: company_id
}

func newMockPanelRepo() *mockPanelRepo {
	return &mockPanelRepo{panels: make(map[string][]model.Panel)}
}

func (m *mockPanelRepo) GetByID(_ context.Context, companyID, panelID string) (*model.Panel, error) {
	for i, p := range m.panels[companyID] {
		if p.PanelID == panelID {
			return &m.panels[companyID][i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPanelRepo) Update(_ context.Context, panel *model.Panel) error {
	for i, p := range m.panels[panel.CompanyID] {
		if p.PanelID == panel.PanelID {
			m.panels[panel.CompanyID][i] = *panel
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockPanelRepo) ReplaceForCompany(_ context.Context, companyID string, panels []model.Panel) error {
	m.panels[companyID] = panels
	return nil
}

// ── Mock CompanyRepository ──

// mockCompanyRepo 内联保存岗位并持有面板 mock 的引用：
// Create 连同内联关联一并写入，读取时再拼装回来，与导入事务写入后 Preload 的读取行为一致。
// Create 不在 CompanyRepository 接口上，仅测试造数用
type mockCompanyRepo struct {
	companies map[string]*model.Company
	roles     map[string][]model.JobRole // key: company_id
	panels    *mockPanelRepo
}

func newMockCompanyRepo(panels *mockPanelRepo) *mockCompanyRepo {
	return &mockCompanyRepo{
		companies: make(map[string]*model.Company),
		roles:     make(map[string][]model.JobRole),
		panels:    panels,
	}
}

func (m *mockCompanyRepo) Create(_ context.Context, company *model.Company) error {
	m.companies[company.CompanyID] = company
	if len(company.JobRoles) > 0 {
		m.roles[company.CompanyID] = append(m.roles[company.CompanyID], company.JobRoles...)
	}
	if len(company.Panels) > 0 {
		m.panels.panels[company.CompanyID] = append(m.panels.panels[company.CompanyID], company.Panels...)
	}
	return nil
}

func (m *mockCompanyRepo) GetByID(_ context.Context, id string) (*model.Company, error) {
	c, ok := m.companies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c.JobRoles = append([]model.JobRole(nil), m.roles[id]...)
	c.Panels = append([]model.Panel(nil), m.panels.panels[id]...)
	return c, nil
}

func (m *mockCompanyRepo) List(ctx context.Context, offset, limit int) ([]model.Company, int64, error) {
	all, err := m.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(all))
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockCompanyRepo) ListAll(_ context.Context) ([]model.Company, error) {
	var all []model.Company
	for id, c := range m.companies {
		co := *c
		co.JobRoles = append([]model.JobRole(nil), m.roles[id]...)
		co.Panels = append([]model.Panel(nil), m.panels.panels[id]...)
		all = append(all, co)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CompanyID < all[j].CompanyID })
	return all, nil
}

func (m *mockCompanyRepo) Update(_ context.Context, company *model.Company) error {
	cur, ok := m.companies[company.CompanyID]
	if !ok || cur.Version != company.Version {
		return pkgerrors.ErrOptimisticLock
	}
	company.Version++
	m.companies[company.CompanyID] = company
	return nil
}

func (m *mockCompanyRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.companies, id)
	return nil
}

// ── Mock CompanyDefaultsRepository ──

type mockCompanyDefaultsRepo struct {
	defaults *model.CompanyDefaults
}

func newMockCompanyDefaultsRepo() *mockCompanyDefaultsRepo {
	return &mockCompanyDefaultsRepo{}
}

func (m *mockCompanyDefaultsRepo) Get(_ context.Context) (*model.CompanyDefaults, error) {
	if m.defaults == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.defaults, nil
}

func (m *mockCompanyDefaultsRepo) Save(_ context.Context, defaults *model.CompanyDefaults) error {
	defaults.Singleton = true
	m.defaults = defaults
	return nil
}

// ── Mock StudentRepository ──

// mockStudentRepo 内联保存申请，读取时拼装 Applications，等价于仓库层的 Preload。
// Create 不在 StudentRepository 接口上，仅测试造数用
type mockStudentRepo struct {
	students map[string]*model.Student
	apps     []model.Application
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) appsOf(studentID string) []model.Application {
	var result []model.Application
	for _, a := range m.apps {
		if a.StudentID == studentID {
			result = append(result, a)
		}
	}
	return result
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	m.students[student.StudentID] = student
	if len(student.Applications) > 0 {
		m.apps = append(m.apps, student.Applications...)
	}
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	s.Applications = m.appsOf(id)
	return s, nil
}

func (m *mockStudentRepo) List(_ context.Context, search string, offset, limit int) ([]model.Student, int64, error) {
	var all []model.Student
	kw := strings.ToLower(search)
	for id, s := range m.students {
		if kw != "" &&
			!strings.Contains(strings.ToLower(s.StudentID), kw) &&
			!strings.Contains(strings.ToLower(s.Name), kw) {
			continue
		}
		st := *s
		st.Applications = m.appsOf(id)
		all = append(all, st)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StudentID < all[j].StudentID })
	total := int64(len(all))
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockStudentRepo) ListAll(_ context.Context) ([]model.Student, error) {
	var all []model.Student
	for id, s := range m.students {
		st := *s
		st.Applications = m.appsOf(id)
		all = append(all, st)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StudentID < all[j].StudentID })
	return all, nil
}

// ── Mock ScheduleRunRepository ──

// mockScheduleRunRepo 持有 interview mock 的引用，
// CreateWithInterviews 事务写入的面试记录落到同一份数据上
type mockScheduleRunRepo struct {
	runs       map[string]*model.ScheduleRun
	interviews *mockInterviewRepo
	idCounter  int
}

func newMockScheduleRunRepo(interviews *mockInterviewRepo) *mockScheduleRunRepo {
	return &mockScheduleRunRepo{
		runs:       make(map[string]*model.ScheduleRun),
		interviews: interviews,
	}
}

func (m *mockScheduleRunRepo) Create(_ context.Context, run *model.ScheduleRun) error {
	if run.RunID == "" {
		m.idCounter++
		run.RunID = fmt.Sprintf("run-%d", m.idCounter)
	}
	m.runs[run.RunID] = run
	return nil
}

func (m *mockScheduleRunRepo) CreateWithInterviews(ctx context.Context, run *model.ScheduleRun, interviews []model.Interview) error {
	for _, r := range m.runs {
		if r.Status == "active" {
			r.Status = "archived"
			r.UpdatedBy = run.CreatedBy
		}
	}
	if err := m.Create(ctx, run); err != nil {
		return err
	}
	for i := range interviews {
		interviews[i].RunID = run.RunID
	}
	m.interviews.interviews = append(m.interviews.interviews, interviews...)
	return nil
}

func (m *mockScheduleRunRepo) GetByID(_ context.Context, id string) (*model.ScheduleRun, error) {
	if r, ok := m.runs[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRunRepo) GetActive(_ context.Context) (*model.ScheduleRun, error) {
	for _, r := range m.runs {
		if r.Status == "active" {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRunRepo) List(_ context.Context, offset, limit int) ([]model.ScheduleRun, int64, error) {
	var all []model.ScheduleRun
	for _, r := range m.runs {
		all = append(all, *r)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].RunID > all[j].RunID
	})
	total := int64(len(all))
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockScheduleRunRepo) Update(_ context.Context, run *model.ScheduleRun) error {
	cur, ok := m.runs[run.RunID]
	if !ok || cur.Version != run.Version {
		return pkgerrors.ErrOptimisticLock
	}
	run.Version++
	m.runs[run.RunID] = run
	return nil
}

func (m *mockScheduleRunRepo) ArchiveActive(_ context.Context, archivedBy string) error {
	for _, r := range m.runs {
		if r.Status == "active" {
			r.Status = "archived"
			r.UpdatedBy = &archivedBy
		}
	}
	return nil
}

// ── Mock InterviewRepository ──

type mockInterviewRepo struct {
	interviews []model.Interview
}

func newMockInterviewRepo() *mockInterviewRepo {
	return &mockInterviewRepo{}
}

func (m *mockInterviewRepo) Get(_ context.Context, runID, interviewID string) (*model.Interview, error) {
	for i, iv := range m.interviews {
		if iv.RunID == runID && iv.InterviewID == interviewID {
			return &m.interviews[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func sortInterviewRows(result []model.Interview) {
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartTime.Equal(result[j].StartTime) {
			return result[i].StartTime.Before(result[j].StartTime)
		}
		if result[i].CompanyID != result[j].CompanyID {
			return result[i].CompanyID < result[j].CompanyID
		}
		return result[i].PanelID < result[j].PanelID
	})
}

func (m *mockInterviewRepo) ListByRun(_ context.Context, runID string) ([]model.Interview, error) {
	var result []model.Interview
	for _, iv := range m.interviews {
		if iv.RunID == runID {
			result = append(result, iv)
		}
	}
	sortInterviewRows(result)
	return result, nil
}

func (m *mockInterviewRepo) ListFiltered(_ context.Context, runID, companyID, panelID, studentID, status string, offset, limit int) ([]model.Interview, int64, error) {
	var all []model.Interview
	for _, iv := range m.interviews {
		if iv.RunID != runID {
			continue
		}
		if companyID != "" && iv.CompanyID != companyID {
			continue
		}
		if panelID != "" && iv.PanelID != panelID {
			continue
		}
		if studentID != "" && iv.StudentID != studentID {
			continue
		}
		if status != "" && iv.Status != status {
			continue
		}
		all = append(all, iv)
	}
	sortInterviewRows(all)
	total := int64(len(all))
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockInterviewRepo) Update(_ context.Context, interview *model.Interview) error {
	for i, iv := range m.interviews {
		if iv.RunID != interview.RunID || iv.InterviewID != interview.InterviewID {
			continue
		}
		if iv.Version != interview.Version {
			return pkgerrors.ErrOptimisticLock
		}
		interview.Version++
		m.interviews[i] = *interview
		return nil
	}
	return pkgerrors.ErrOptimisticLock
}

func (m *mockInterviewRepo) ReplaceForRun(_ context.Context, runID string, removeIDs []string, created []model.Interview) error {
	remove := make(map[string]bool, len(removeIDs))
	for _, id := range removeIDs {
		remove[id] = true
	}
	var kept []model.Interview
	for _, iv := range m.interviews {
		if iv.RunID == runID && remove[iv.InterviewID] {
			continue
		}
		kept = append(kept, iv)
	}
	m.interviews = append(kept, created...)
	return nil
}

// ── Mock EventSettingsRepository ──

type mockEventSettingsRepo struct {
	settings *model.EventSettings
}

func newMockEventSettingsRepo() *mockEventSettingsRepo {
	return &mockEventSettingsRepo{}
}

func (m *mockEventSettingsRepo) Get(_ context.Context) (*model.EventSettings, error) {
	if m.settings == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.settings, nil
}

func (m *mockEventSettingsRepo) Update(_ context.Context, settings *model.EventSettings) error {
	settings.Singleton = true
	m.settings = settings
	return nil
}

// ── Mock ImportRepository ──

// mockImportRepo 记录提交的导入批次，测试据此断言事务内容
type mockImportRepo struct {
	applied []*repository.ImportBatch
}

func newMockImportRepo() *mockImportRepo {
	return &mockImportRepo{}
}

func (m *mockImportRepo) Apply(_ context.Context, batch *repository.ImportBatch) error {
	m.applied = append(m.applied, batch)
	return nil
}

// [自证通过] internal/service/mock_repos_test.go
