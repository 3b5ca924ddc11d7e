package model

import (
	"encoding/json"
	"time"

	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/progression"
)

// StudyProgress is the durable per-student-per-module snapshot. Rows are
// never deleted; a lesson restart only rewinds the position fields.
type StudyProgress struct {
	BaseModel
	StudentID         uint            `gorm:"index:idx_student_module,unique;not null" json:"studentId"`
	ModuleID          uint            `gorm:"index:idx_student_module,unique;not null" json:"moduleId"`
	CurrentLesson     int             `gorm:"default:1" json:"currentLesson"`
	CurrentStep       int             `gorm:"default:1" json:"currentStep"`
	TotalXP           int             `gorm:"default:0" json:"totalXP"`
	LivesRemaining    int             `gorm:"default:0" json:"livesRemaining"`
	Streak            int             `gorm:"default:0" json:"streak"`
	CompletedLessons  json.RawMessage `gorm:"type:json" json:"completedLessons"`
	Badges            json.RawMessage `gorm:"type:json" json:"badges"`
	QuestionIndex     int             `gorm:"default:0" json:"questionIndex"`
	QuestionCorrect   int             `gorm:"default:0" json:"questionCorrect"`
	QuestionsAnswered int             `gorm:"default:0" json:"questionsAnswered"`
	CompletedAt       *time.Time      `json:"completedAt,omitempty"`
}

func (StudyProgress) TableName() string {
	return "study_progress"
}

// Snapshot maps the row into the engine's plain value.
func (p *StudyProgress) Snapshot() progression.Progress {
	snap := progression.Progress{
		CurrentLesson:     p.CurrentLesson,
		CurrentStep:       p.CurrentStep,
		TotalXP:           p.TotalXP,
		LivesRemaining:    p.LivesRemaining,
		Streak:            p.Streak,
		QuestionIndex:     p.QuestionIndex,
		QuestionCorrect:   p.QuestionCorrect,
		QuestionsAnswered: p.QuestionsAnswered,
	}
	if len(p.CompletedLessons) > 0 {
		json.Unmarshal(p.CompletedLessons, &snap.CompletedLessons)
	}
	if len(p.Badges) > 0 {
		json.Unmarshal(p.Badges, &snap.Badges)
	}
	return snap
}

// ApplySnapshot writes the engine's value back onto the row.
func (p *StudyProgress) ApplySnapshot(snap progression.Progress) {
	p.CurrentLesson = snap.CurrentLesson
	p.CurrentStep = snap.CurrentStep
	p.TotalXP = snap.TotalXP
	p.LivesRemaining = snap.LivesRemaining
	p.Streak = snap.Streak
	p.QuestionIndex = snap.QuestionIndex
	p.QuestionCorrect = snap.QuestionCorrect
	p.QuestionsAnswered = snap.QuestionsAnswered
	completed, _ := json.Marshal(snap.CompletedLessons)
	p.CompletedLessons = completed
	badges, _ := json.Marshal(snap.Badges)
	p.Badges = badges
}
