package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"careerfair/backend/config"
	"careerfair/backend/internal/dto"
	"careerfair/backend/internal/model"
	"careerfair/backend/internal/repository"
	"careerfair/backend/internal/scheduler"
)

// ── 测试辅助 ──

type testScheduleRepos struct {
	company   *mockCompanyRepo
	student   *mockStudentRepo
	run       *mockScheduleRunRepo
	interview *mockInterviewRepo
	settings  *mockEventSettingsRepo
}

func setupTestScheduleService() (ScheduleService, *testScheduleRepos) {
	panelRepo := newMockPanelRepo()
	companyRepo := newMockCompanyRepo(panelRepo)
	studentRepo := newMockStudentRepo()
	interviewRepo := newMockInterviewRepo()
	runRepo := newMockScheduleRunRepo(interviewRepo)
	settingsRepo := newMockEventSettingsRepo()

	repos := &testScheduleRepos{
		company:   companyRepo,
		student:   studentRepo,
		run:       runRepo,
		interview: interviewRepo,
		settings:  settingsRepo,
	}
	repo := &repository.Repository{
		Company:       companyRepo,
		Panel:         panelRepo,
		Student:       studentRepo,
		ScheduleRun:   runRepo,
		Interview:     interviewRepo,
		EventSettings: settingsRepo,
	}
	cfg := &config.Config{Scheduler: config.SchedulerConfig{SolverMaxNodes: 200000}}
	svc := NewScheduleService(cfg, repo, zap.NewNop())
	return svc, repos
}

// seedScheduleFixture 种入一套可解的排程输入：
// 活动日取一周后（保证滚动重排时所有时段都在触发时刻之后），
// 一家公司两个岗位，两名学生各一条软件工程师申请
func seedScheduleFixture(repos *testScheduleRepos) time.Time {
	day := time.Now().AddDate(0, 0, 7)
	eventDate := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
	repos.settings.settings = &model.EventSettings{
		Singleton:           true,
		EventDate:           &eventDate,
		DayStart:            "09:00",
		DayEnd:              "17:00",
		BaseDurationMinutes: 30,
	}

	seedCompany(repos.company, "acme", "Acme Corp")

	_ = repos.student.Create(context.Background(), &model.Student{
		StudentID: "E20121", Name: "Kasun Perera",
		Applications: []model.Application{
			{StudentID: "E20121", CompanyID: "acme", JobRoleID: "acme_software_engineer", Status: "shortlisted", Priority: intPtr(1)},
		},
	})
	_ = repos.student.Create(context.Background(), &model.Student{
		StudentID: "E20250", Name: "Nimali Silva",
		Applications: []model.Application{
			{StudentID: "E20250", CompanyID: "acme", JobRoleID: "acme_software_engineer", Status: "applied"},
		},
	})
	return eventDate
}

// ── RunSchedule 测试 ──

func TestScheduleService_RunSchedule_Success(t *testing.T) {
	svc, repos := setupTestScheduleService()
	eventDate := seedScheduleFixture(repos)

	resp, err := svc.RunSchedule(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("RunSchedule 应成功: %v", err)
	}

	if resp.Run.Status != "active" {
		t.Errorf("期望批次状态 active，实际=%s", resp.Run.Status)
	}
	if resp.Run.EventDate != eventDate.Format("2006-01-02") {
		t.Errorf("期望活动日期 %s，实际=%s", eventDate.Format("2006-01-02"), resp.Run.EventDate)
	}
	if resp.Run.ScheduledCount != 2 || resp.Run.UnassignedCount != 0 {
		t.Errorf("期望安排 2 未安排 0，实际=%d/%d", resp.Run.ScheduledCount, resp.Run.UnassignedCount)
	}
	if !resp.Run.Optimal {
		t.Error("小规模输入应求得最优解")
	}
	if len(resp.Interviews) != 2 {
		t.Fatalf("期望 2 条面试，实际=%d", len(resp.Interviews))
	}
	if resp.Interviews[0].InterviewID != "INT-001" || resp.Interviews[1].InterviewID != "INT-002" {
		t.Errorf("期望编号 INT-001/INT-002，实际=%s/%s",
			resp.Interviews[0].InterviewID, resp.Interviews[1].InterviewID)
	}
	if resp.Interviews[0].StudentName == "" {
		t.Error("响应应补全学生姓名")
	}
	if resp.Stats.Applications != 2 {
		t.Errorf("期望申请统计 2，实际=%d", resp.Stats.Applications)
	}

	// 落库校验：批次活动中，面试回填批次号并记录操作者
	stored, err := repos.run.GetActive(context.Background())
	if err != nil {
		t.Fatalf("落库后应有活动批次: %v", err)
	}
	if stored.RunID != resp.Run.RunID || stored.ScheduledCount != 2 {
		t.Errorf("落库批次不符: %+v", stored)
	}
	if len(repos.interview.interviews) != 2 {
		t.Fatalf("期望落库 2 条面试，实际=%d", len(repos.interview.interviews))
	}
	row := &repos.interview.interviews[0]
	if row.RunID != resp.Run.RunID {
		t.Errorf("面试应回填批次号，实际=%s", row.RunID)
	}
	if row.CreatedBy == nil || *row.CreatedBy != "admin-1" {
		t.Error("面试应记录创建者")
	}
}

func TestScheduleService_RunSchedule_ArchivesPrevious(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedScheduleFixture(repos)

	first, err := svc.RunSchedule(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("首次排程应成功: %v", err)
	}
	second, err := svc.RunSchedule(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("再次排程应成功: %v", err)
	}

	if repos.run.runs[first.Run.RunID].Status != "archived" {
		t.Errorf("旧批次应被归档，实际=%s", repos.run.runs[first.Run.RunID].Status)
	}
	active, err := repos.run.GetActive(context.Background())
	if err != nil || active.RunID != second.Run.RunID {
		t.Errorf("新批次应为活动批次: %v", err)
	}
}

func TestScheduleService_RunSchedule_SettingsMissing(t *testing.T) {
	svc, _ := setupTestScheduleService()

	_, err := svc.RunSchedule(context.Background(), "admin-1")
	if !errors.Is(err, ErrSettingsNotFound) {
		t.Errorf("期望 ErrSettingsNotFound，实际: %v", err)
	}
}

func TestScheduleService_RunSchedule_EventDateUnset(t *testing.T) {
	svc, repos := setupTestScheduleService()
	repos.settings.settings = &model.EventSettings{
		Singleton: true, DayStart: "09:00", DayEnd: "17:00", BaseDurationMinutes: 30,
	}

	_, err := svc.RunSchedule(context.Background(), "admin-1")
	if !errors.Is(err, ErrEventDateUnset) {
		t.Errorf("期望 ErrEventDateUnset，实际: %v", err)
	}
}

// ── Reschedule 测试 ──

func TestScheduleService_Reschedule_NoActiveRun(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedScheduleFixture(repos)

	_, err := svc.Reschedule(context.Background(), &dto.RescheduleRequest{}, "admin-1")
	if !errors.Is(err, ErrNoActiveRun) {
		t.Errorf("期望 ErrNoActiveRun，实际: %v", err)
	}
}

func TestScheduleService_Reschedule_Success(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedScheduleFixture(repos)

	_, err := svc.RunSchedule(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("排程应成功: %v", err)
	}

	// INT-001 标记完成（冻结），再新增一名学生后重排
	repos.interview.interviews[0].Status = "completed"
	_ = repos.student.Create(context.Background(), &model.Student{
		StudentID: "E21007", Name: "Amara Perera",
		Applications: []model.Application{
			{StudentID: "E21007", CompanyID: "acme", JobRoleID: "acme_qa_engineer", Status: "applied"},
		},
	})

	resp, err := svc.Reschedule(context.Background(), &dto.RescheduleRequest{}, "admin-1")
	if err != nil {
		t.Fatalf("Reschedule 应成功: %v", err)
	}

	if resp.Stats.FrozenKept != 1 {
		t.Errorf("期望冻结保留 1，实际=%d", resp.Stats.FrozenKept)
	}
	if resp.Run.ScheduledCount != 3 || resp.Run.UnassignedCount != 0 {
		t.Errorf("期望安排 3 未安排 0，实际=%d/%d", resp.Run.ScheduledCount, resp.Run.UnassignedCount)
	}
	if resp.Run.ResolvedAt == nil {
		t.Error("重排后应记录重算时刻")
	}

	// 编号续接：INT-002 被重排掉，新记录从 INT-003 开始，冻结的 INT-001 原样保留
	ids := make(map[string]string, len(repos.interview.interviews))
	for i := range repos.interview.interviews {
		iv := &repos.interview.interviews[i]
		ids[iv.InterviewID] = iv.Status
	}
	if len(ids) != 3 {
		t.Fatalf("期望落库 3 条面试，实际=%d", len(ids))
	}
	if ids["INT-001"] != "completed" {
		t.Errorf("冻结面试应原样保留，实际=%s", ids["INT-001"])
	}
	if _, ok := ids["INT-002"]; ok {
		t.Error("被重排的 INT-002 应被移除")
	}
	if _, ok := ids["INT-003"]; !ok {
		t.Error("新面试应续接编号 INT-003")
	}
	if _, ok := ids["INT-004"]; !ok {
		t.Error("新面试应续接编号 INT-004")
	}
}

func TestScheduleService_Reschedule_ReleaseFrozenRejected(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedScheduleFixture(repos)

	if _, err := svc.RunSchedule(context.Background(), "admin-1"); err != nil {
		t.Fatalf("排程应成功: %v", err)
	}
	repos.interview.interviews[0].Status = "completed"
	frozenID := repos.interview.interviews[0].InterviewID

	_, err := svc.Reschedule(context.Background(), &dto.RescheduleRequest{ReleaseIDs: []string{frozenID}}, "admin-1")
	var fc *scheduler.FrozenConflictError
	if !errors.As(err, &fc) {
		t.Fatalf("期望 FrozenConflictError，实际: %v", err)
	}
	if fc.InterviewID != frozenID {
		t.Errorf("期望冲突编号 %s，实际=%s", frozenID, fc.InterviewID)
	}
}

// ── 批次查询测试 ──

func TestScheduleService_GetActiveRun_None(t *testing.T) {
	svc, _ := setupTestScheduleService()

	_, err := svc.GetActiveRun(context.Background())
	if !errors.Is(err, ErrNoActiveRun) {
		t.Errorf("期望 ErrNoActiveRun，实际: %v", err)
	}
}

func TestScheduleService_GetRun_NotFound(t *testing.T) {
	svc, _ := setupTestScheduleService()

	_, err := svc.GetRun(context.Background(), "run-404")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("期望 ErrRunNotFound，实际: %v", err)
	}
}

func TestScheduleService_GetRun_Success(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedScheduleFixture(repos)

	created, err := svc.RunSchedule(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("排程应成功: %v", err)
	}

	detail, err := svc.GetRun(context.Background(), created.Run.RunID)
	if err != nil {
		t.Fatalf("GetRun 应成功: %v", err)
	}
	if detail.Run.RunID != created.Run.RunID {
		t.Errorf("期望批次 %s，实际=%s", created.Run.RunID, detail.Run.RunID)
	}
	if len(detail.Interviews) != 2 {
		t.Errorf("期望 2 条面试，实际=%d", len(detail.Interviews))
	}
	if detail.Interviews[0].StudentName == "" {
		t.Error("批次详情应补全学生姓名")
	}
}

func TestScheduleService_ListRuns(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedScheduleFixture(repos)

	if _, err := svc.RunSchedule(context.Background(), "admin-1"); err != nil {
		t.Fatalf("首次排程应成功: %v", err)
	}
	second, err := svc.RunSchedule(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("再次排程应成功: %v", err)
	}

	runs, total, err := svc.ListRuns(context.Background(), &dto.RunListRequest{})
	if err != nil {
		t.Fatalf("ListRuns 应成功: %v", err)
	}
	if total != 2 || len(runs) != 2 {
		t.Fatalf("期望 2 个批次，实际 total=%d len=%d", total, len(runs))
	}
	if runs[0].RunID != second.Run.RunID {
		t.Errorf("期望最新批次在前，实际=%s", runs[0].RunID)
	}
}

// ── ClearSchedule 测试 ──

func TestScheduleService_ClearSchedule(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedScheduleFixture(repos)

	created, err := svc.RunSchedule(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("排程应成功: %v", err)
	}

	if err := svc.ClearSchedule(context.Background(), "admin-2"); err != nil {
		t.Fatalf("ClearSchedule 应成功: %v", err)
	}
	stored := repos.run.runs[created.Run.RunID]
	if stored.Status != "archived" {
		t.Errorf("期望批次归档，实际=%s", stored.Status)
	}
	if stored.UpdatedBy == nil || *stored.UpdatedBy != "admin-2" {
		t.Error("归档应记录操作者")
	}

	if err := svc.ClearSchedule(context.Background(), "admin-2"); !errors.Is(err, ErrNoActiveRun) {
		t.Errorf("再次归档期望 ErrNoActiveRun，实际: %v", err)
	}
}

// [自证通过] internal/service/schedule_service_test.go
