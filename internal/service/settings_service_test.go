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

func setupTestSettingsService() (SettingsService, *mockEventSettingsRepo) {
	settingsRepo := newMockEventSettingsRepo()
	repo := &repository.Repository{EventSettings: settingsRepo}
	svc := NewSettingsService(repo, zap.NewNop())
	return svc, settingsRepo
}

// ── Get 测试 ──

func TestSettingsService_Get_NotSeeded(t *testing.T) {
	svc, _ := setupTestSettingsService()

	_, err := svc.Get(context.Background())
	if !errors.Is(err, ErrSettingsNotFound) {
		t.Errorf("期望 ErrSettingsNotFound，实际: %v", err)
	}
}

func TestSettingsService_Get_Success(t *testing.T) {
	svc, settingsRepo := setupTestSettingsService()
	settingsRepo.settings = &model.EventSettings{
		Singleton:           true,
		DayStart:            "09:00",
		DayEnd:              "17:00",
		BaseDurationMinutes: 30,
	}

	result, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if result.DayStart != "09:00" || result.DayEnd != "17:00" {
		t.Errorf("期望活动日窗口 09:00-17:00，实际=%s-%s", result.DayStart, result.DayEnd)
	}
	if result.EventDate != "" {
		t.Errorf("未设置活动日期时应为空，实际=%s", result.EventDate)
	}
}

// ── Update 测试 ──

func TestSettingsService_Update_Success(t *testing.T) {
	svc, settingsRepo := setupTestSettingsService()
	settingsRepo.settings = &model.EventSettings{
		Singleton:           true,
		DayStart:            "09:00",
		DayEnd:              "17:00",
		BaseDurationMinutes: 30,
	}

	result, err := svc.Update(context.Background(), &dto.UpdateEventSettingsRequest{
		EventDate:           "2026-09-15",
		DayStart:            "08:30",
		DayEnd:              "18:00",
		BaseDurationMinutes: 15,
	}, "admin-1")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.EventDate != "2026-09-15" {
		t.Errorf("期望 EventDate=2026-09-15，实际=%s", result.EventDate)
	}
	if result.DayStart != "08:30" || result.DayEnd != "18:00" {
		t.Errorf("期望窗口 08:30-18:00，实际=%s-%s", result.DayStart, result.DayEnd)
	}
	if result.BaseDurationMinutes != 15 {
		t.Errorf("期望基础粒度 15，实际=%d", result.BaseDurationMinutes)
	}
	if settingsRepo.settings.EventDate == nil {
		t.Error("活动日期未落库")
	}
}

func TestSettingsService_Update_KeepsDateWhenOmitted(t *testing.T) {
	svc, settingsRepo := setupTestSettingsService()
	settingsRepo.settings = &model.EventSettings{
		Singleton:           true,
		DayStart:            "09:00",
		DayEnd:              "17:00",
		BaseDurationMinutes: 30,
	}

	// 先设置日期，再提交不带日期的更新
	if _, err := svc.Update(context.Background(), &dto.UpdateEventSettingsRequest{
		EventDate:           "2026-09-15",
		DayStart:            "09:00",
		DayEnd:              "17:00",
		BaseDurationMinutes: 30,
	}, "admin-1"); err != nil {
		t.Fatalf("首次 Update 应成功: %v", err)
	}

	result, err := svc.Update(context.Background(), &dto.UpdateEventSettingsRequest{
		DayStart:            "10:00",
		DayEnd:              "16:00",
		BaseDurationMinutes: 30,
	}, "admin-1")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.EventDate != "2026-09-15" {
		t.Errorf("省略日期时应保留原值，实际=%s", result.EventDate)
	}
}

func TestSettingsService_Update_InvalidWindow(t *testing.T) {
	svc, settingsRepo := setupTestSettingsService()
	settingsRepo.settings = &model.EventSettings{Singleton: true, DayStart: "09:00", DayEnd: "17:00", BaseDurationMinutes: 30}

	_, err := svc.Update(context.Background(), &dto.UpdateEventSettingsRequest{
		DayStart:            "18:00",
		DayEnd:              "09:00",
		BaseDurationMinutes: 30,
	}, "admin-1")
	if !errors.Is(err, ErrInvalidTimeWindow) {
		t.Errorf("期望 ErrInvalidTimeWindow，实际: %v", err)
	}
}

func TestSettingsService_Update_InvalidDate(t *testing.T) {
	svc, settingsRepo := setupTestSettingsService()
	settingsRepo.settings = &model.EventSettings{Singleton: true, DayStart: "09:00", DayEnd: "17:00", BaseDurationMinutes: 30}

	_, err := svc.Update(context.Background(), &dto.UpdateEventSettingsRequest{
		EventDate:           "15/09/2026",
		DayStart:            "09:00",
		DayEnd:              "17:00",
		BaseDurationMinutes: 30,
	}, "admin-1")
	if !errors.Is(err, ErrInvalidEventDate) {
		t.Errorf("期望 ErrInvalidEventDate，实际: %v", err)
	}
}

// [自证通过] internal/service/settings_service_test.go
