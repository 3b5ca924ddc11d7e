package progression

// XP and badge constants. Values mirror the published content contract; do
// not change without a coordinated content update.
const (
	StepXP             = 10
	DefaultLessonXP    = 50
	FirstFiveMilestone = 5

	BadgeFirstFive = "FIRST_FIVE"
	BadgeFlowers   = "FLOWERS"
)

// Progress is the per-student-per-module snapshot the engine consumes and
// returns. It is plain data; persistence belongs to the caller. The question
// cursor fields track position inside a multi-question step so a reload
// resumes mid-step.
type Progress struct {
	CurrentLesson     int      `json:"currentLesson"`
	CurrentStep       int      `json:"currentStep"`
	TotalXP           int      `json:"totalXP"`
	LivesRemaining    int      `json:"livesRemaining"`
	Streak            int      `json:"streak"`
	CompletedLessons  []uint   `json:"completedLessons"`
	Badges            []string `json:"badges"`
	QuestionIndex     int      `json:"questionIndex"`
	QuestionCorrect   int      `json:"questionCorrect"`
	QuestionsAnswered int      `json:"questionsAnswered"`
}

// NewProgress returns the snapshot for a student who just started a module.
func NewProgress(m *ModuleDef) Progress {
	return Progress{
		CurrentLesson:  1,
		CurrentStep:    1,
		LivesRemaining: m.MaxLives,
	}
}

func (p *Progress) resetQuestionCursor() {
	p.QuestionIndex = 0
	p.QuestionCorrect = 0
	p.QuestionsAnswered = 0
}

func (p *Progress) hasBadge(badge string) bool {
	for _, b := range p.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

func (p *Progress) awardBadge(badge string) {
	if !p.hasBadge(badge) {
		p.Badges = append(p.Badges, badge)
	}
}

func (p *Progress) hasCompleted(lessonID uint) bool {
	for _, id := range p.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

// Clamp pulls a stale persisted position back inside the module's bounds.
// Persisted state can point past the end after a module is republished with
// fewer lessons; never throw, never walk past the end.
func Clamp(m *ModuleDef, p Progress) Progress {
	if len(m.Lessons) == 0 {
		p.CurrentLesson, p.CurrentStep = 1, 1
		p.resetQuestionCursor()
		return p
	}
	if p.CurrentLesson < 1 {
		p.CurrentLesson = 1
	}
	if p.CurrentLesson > len(m.Lessons) {
		p.CurrentLesson = len(m.Lessons)
	}
	steps := m.Lessons[p.CurrentLesson-1].Steps
	if p.CurrentStep < 1 {
		p.CurrentStep = 1
	}
	if p.CurrentStep > len(steps) {
		if len(steps) == 0 {
			p.CurrentStep = 1
		} else {
			p.CurrentStep = len(steps)
		}
	}
	if p.LivesRemaining < 0 {
		p.LivesRemaining = 0
	}
	if p.LivesRemaining > m.MaxLives {
		p.LivesRemaining = m.MaxLives
	}
	// A question cursor is only valid strictly inside the active step. A
	// cursor at or past the question count is stale state from a
	// republished module; scoring against it would replay counts the
	// student never earned, so the step restarts instead.
	if len(steps) == 0 {
		p.resetQuestionCursor()
	} else {
		total := steps[p.CurrentStep-1].Content.QuestionCount()
		if p.QuestionIndex < 0 || p.QuestionCorrect < 0 || p.QuestionsAnswered < 0 ||
			p.QuestionIndex >= total || p.QuestionsAnswered >= total ||
			p.QuestionCorrect > p.QuestionsAnswered {
			p.resetQuestionCursor()
		}
	}
	return p
}

// ActiveStep returns the lesson and step the snapshot points at, after
// clamping. ok is false only for a module with no lessons or an active
// lesson with no steps.
func ActiveStep(m *ModuleDef, p Progress) (LessonDef, StepDef, bool) {
	p = Clamp(m, p)
	if len(m.Lessons) == 0 {
		return LessonDef{}, StepDef{}, false
	}
	lesson := m.Lessons[p.CurrentLesson-1]
	if len(lesson.Steps) == 0 {
		return lesson, StepDef{}, false
	}
	return lesson, lesson.Steps[p.CurrentStep-1], true
}
