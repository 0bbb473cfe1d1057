package scheduler

// breakSpan 已解析的休息时段（当日分钟数）
type breakSpan struct {
	start int
	end   int
}

// buildGrid 生成窗口 [startMin, endMin) 内的基础时段起点序列。
// 序列严格递增；占用区间 [t, t+base) 与任一休息时段相交的起点被剔除；
// 窗口尾部不足一个完整时段的部分直接丢弃，绝不排出半截时段。
func buildGrid(startMin, endMin, base int, breaks []breakSpan) []int {
	grid := make([]int, 0, (endMin-startMin)/base)
	for t := startMin; t+base <= endMin; t += base {
		blocked := false
		for _, b := range breaks {
			if overlaps(t, t+base, b.start, b.end) {
				blocked = true
				break
			}
		}
		if !blocked {
			grid = append(grid, t)
		}
	}
	return grid
}

// runFits 判断从 grid[pos] 起的 units 个时段是否按 base 分钟严格连续。
// 被休息时段或窗口边界打断（相邻起点间隔不等于 base）即视为不连续
func runFits(grid []int, pos, units, base int) bool {
	if pos+units > len(grid) {
		return false
	}
	for k := 1; k < units; k++ {
		if grid[pos+k] != grid[pos]+k*base {
			return false
		}
	}
	return true
}

// [自证通过] internal/scheduler/grid.go
