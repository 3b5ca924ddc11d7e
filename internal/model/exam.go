package model

import (
	"encoding/json"
	"time"
)

type ExamStatus string

const (
	ExamDraft     ExamStatus = "draft"
	ExamPublished ExamStatus = "published"
)

type Exam struct {
	BaseModel
	Title        string         `gorm:"size:255;not null" json:"title"`
	Subject      string         `gorm:"size:100;index" json:"subject"`
	GradeLevel   int            `gorm:"default:0" json:"gradeLevel"`
	Duration     int            `gorm:"default:0" json:"duration"` // minutes, 0 = untimed
	TotalPoints  int            `gorm:"default:0" json:"totalPoints"`
	PassingScore int            `gorm:"default:60" json:"passingScore"`
	Status       ExamStatus     `gorm:"type:enum('draft','published');default:'draft';index" json:"status"`
	CreatedByID  uint           `gorm:"index" json:"createdBy"`
	Questions    []ExamQuestion `gorm:"foreignKey:ExamID" json:"questions,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}

type ExamQuestion struct {
	BaseModel
	ExamID        uint            `gorm:"index;not null" json:"examId"`
	Order         int             `gorm:"not null" json:"order"`
	Type          string          `gorm:"size:32;not null" json:"type"`
	Question      string          `gorm:"type:text;not null" json:"question"`
	Options       json.RawMessage `gorm:"type:json" json:"options,omitempty"`
	CorrectAnswer string          `gorm:"type:text" json:"-"`
	Points        int             `gorm:"default:1" json:"points"`
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}

type ExamAssignment struct {
	BaseModel
	ExamID       uint             `gorm:"index:idx_exam_student,unique;not null" json:"examId"`
	StudentID    uint             `gorm:"index:idx_exam_student,unique;not null" json:"studentId"`
	AssignedByID uint             `gorm:"index" json:"assignedBy"`
	DueDate      *time.Time       `json:"dueDate,omitempty"`
	Status       AssignmentStatus `gorm:"type:enum('active','completed');default:'active'" json:"status"`
}

func (ExamAssignment) TableName() string {
	return "exam_assignments"
}

type ExamAttempt struct {
	BaseModel
	ExamID     uint            `gorm:"index;not null" json:"examId"`
	StudentID  uint            `gorm:"index;not null" json:"studentId"`
	Answers    json.RawMessage `gorm:"type:json" json:"answers"`
	Score      int             `gorm:"default:0" json:"score"`
	Percentage float64         `gorm:"default:0" json:"percentage"`
	Passed     bool            `gorm:"default:false" json:"passed"`
	GradedAt   *time.Time      `json:"gradedAt,omitempty"`
}

func (ExamAttempt) TableName() string {
	return "exam_attempts"
}
