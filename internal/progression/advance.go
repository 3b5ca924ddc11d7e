package progression

// Action tells the caller what happened to the snapshot and what to render
// or fetch next.
type Action string

const (
	ActionRetryQuestion     Action = "RETRY_QUESTION"
	ActionNextQuestion      Action = "NEXT_QUESTION"
	ActionStepPassed        Action = "STEP_PASSED_ADVANCE"
	ActionStepFailedRestart Action = "STEP_FAILED_RESTART"
	ActionLessonComplete    Action = "LESSON_COMPLETE"
	ActionModuleComplete    Action = "MODULE_COMPLETE"
	ActionLivesExhausted    Action = "LIVES_EXHAUSTED_RESTART_LESSON"
)

// Advance applies one evaluated answer to a snapshot and returns the next
// snapshot plus the transition taken. Pure: the input snapshot is not
// mutated. Evaluation order matters and follows the lesson flow the clients
// render:
//
//  1. lives are spent on any wrong answer (when enabled), and exhausting
//     them restarts the lesson immediately, even mid-step;
//  2. inside a multi-question step every question is answered before the
//     step is scored against its passing score;
//  3. a passed step pays fixed step XP and moves the cursor; finishing the
//     last step completes the lesson, and the last lesson completes the
//     module.
func Advance(m *ModuleDef, p Progress, correct bool) (Progress, Action) {
	p = Clamp(m, p)
	lesson, step, ok := ActiveStep(m, p)
	if !ok {
		// Nothing gradable; treat as an auto-passed step.
		return passStep(m, p, lesson, StepDef{})
	}

	total := step.Content.QuestionCount()
	if total == 0 || step.Type == StepTheory {
		return passStep(m, p, lesson, step)
	}
	multi := len(step.Content.Questions) > 0

	if multi {
		p.QuestionsAnswered++
		if correct {
			p.QuestionCorrect++
		}
	}

	if !correct && m.LivesEnabled {
		if p.LivesRemaining > 0 {
			p.LivesRemaining--
		}
		if p.LivesRemaining == 0 {
			p.CurrentStep = 1
			p.LivesRemaining = m.MaxLives
			p.resetQuestionCursor()
			return p, ActionLivesExhausted
		}
	}

	if multi {
		if p.QuestionsAnswered < total {
			p.QuestionIndex++
			return p, ActionNextQuestion
		}
		if PassPercentage(p.QuestionCorrect, total) < float64(step.PassingScore) {
			// Retry the whole step from its first question. Lives and XP are
			// untouched on this path.
			p.resetQuestionCursor()
			return p, ActionStepFailedRestart
		}
		return passStep(m, p, lesson, step)
	}

	if !correct {
		return p, ActionRetryQuestion
	}
	return passStep(m, p, lesson, step)
}

func passStep(m *ModuleDef, p Progress, lesson LessonDef, _ StepDef) (Progress, Action) {
	p.TotalXP += StepXP
	p.resetQuestionCursor()

	if p.CurrentStep < len(lesson.Steps) {
		p.CurrentStep++
		return p, ActionStepPassed
	}
	return completeLesson(m, p, lesson)
}

func completeLesson(m *ModuleDef, p Progress, lesson LessonDef) (Progress, Action) {
	xp := lesson.XPReward
	if xp == 0 {
		xp = DefaultLessonXP
	}
	p.TotalXP += xp
	if !p.hasCompleted(lesson.ID) {
		p.CompletedLessons = append(p.CompletedLessons, lesson.ID)
	}
	p.Streak++

	if len(p.CompletedLessons) == FirstFiveMilestone {
		p.awardBadge(BadgeFirstFive)
	}

	if p.CurrentLesson < len(m.Lessons) {
		p.CurrentLesson++
		p.CurrentStep = 1
		p.LivesRemaining = m.MaxLives
		return p, ActionLessonComplete
	}

	// Module done: snapshot stays on the final lesson and step.
	p.TotalXP += m.XPReward
	p.awardBadge(BadgeFlowers)
	return p, ActionModuleComplete
}

// RestartLesson puts the student back at the first step of the current
// lesson with a fresh lives budget. XP, completed lessons and badges hold.
func RestartLesson(m *ModuleDef, p Progress) Progress {
	p = Clamp(m, p)
	p.CurrentStep = 1
	p.LivesRemaining = m.MaxLives
	p.resetQuestionCursor()
	return p
}
