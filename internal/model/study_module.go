package model

import (
	"encoding/json"
	"time"
)

type ModuleStatus string

const (
	ModuleDraft     ModuleStatus = "draft"
	ModuleScheduled ModuleStatus = "scheduled"
	ModulePublished ModuleStatus = "published"
)

// StudyModule is a gamified lesson sequence. Published modules are immutable;
// student interaction only ever touches StudyProgress.
type StudyModule struct {
	BaseModel
	Title        string       `gorm:"size:255;not null" json:"title"`
	Subject      string       `gorm:"size:100;index" json:"subject"`
	Topic        string       `gorm:"size:255" json:"topic"`
	GradeLevel   int          `gorm:"default:0" json:"gradeLevel"`
	Description  string       `gorm:"type:text" json:"description"`
	PassingScore int          `gorm:"default:70" json:"passingScore"`
	LivesEnabled bool         `gorm:"default:true" json:"livesEnabled"`
	MaxLives     int          `gorm:"default:3" json:"maxLives"`
	XPReward     int          `gorm:"default:0" json:"xpReward"`
	Status       ModuleStatus `gorm:"type:enum('draft','scheduled','published');default:'draft';index" json:"status"`
	PublishAt    *time.Time   `json:"publishAt,omitempty"`
	CreatedByID  uint         `gorm:"index" json:"createdBy"`
	Lessons      []Lesson     `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
}

func (StudyModule) TableName() string {
	return "study_modules"
}

type Lesson struct {
	BaseModel
	ModuleID     uint   `gorm:"index;not null" json:"moduleId"`
	LessonNumber int    `gorm:"not null" json:"lessonNumber"`
	Title        string `gorm:"size:255;not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	MinScore     int    `gorm:"default:60" json:"minScore"`
	MaxAttempts  int    `gorm:"default:0" json:"maxAttempts"`
	XPReward     int    `gorm:"default:50" json:"xpReward"`
	Steps        []Step `gorm:"foreignKey:LessonID" json:"steps,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// Step content is an opaque JSON blob tagged by a question-type
// discriminator; internal/progression owns its decoding.
type Step struct {
	BaseModel
	LessonID     uint            `gorm:"index;not null" json:"lessonId"`
	StepNumber   int             `gorm:"not null" json:"stepNumber"`
	Type         string          `gorm:"size:32;not null" json:"type"`
	Title        string          `gorm:"size:255" json:"title"`
	PassingScore int             `gorm:"default:70" json:"passingScore"`
	Content      json.RawMessage `gorm:"type:json" json:"content"`
}

func (Step) TableName() string {
	return "steps"
}

type AssignmentStatus string

const (
	AssignmentActive    AssignmentStatus = "active"
	AssignmentCompleted AssignmentStatus = "completed"
)

type ModuleAssignment struct {
	BaseModel
	ModuleID     uint             `gorm:"index:idx_module_student,unique;not null" json:"moduleId"`
	StudentID    uint             `gorm:"index:idx_module_student,unique;not null" json:"studentId"`
	AssignedByID uint             `gorm:"index" json:"assignedBy"`
	DueDate      *time.Time       `json:"dueDate,omitempty"`
	Status       AssignmentStatus `gorm:"type:enum('active','completed');default:'active'" json:"status"`
}

func (ModuleAssignment) TableName() string {
	return "module_assignments"
}
