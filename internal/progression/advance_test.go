package progression

import "testing"

func singleStepModule() *ModuleDef {
	return &ModuleDef{
		ID:       1,
		MaxLives: 3,
		Lessons: []LessonDef{
			{
				ID:     11,
				Number: 1,
				Steps: []StepDef{
					{Number: 1, Type: StepQuiz, Content: &StepContent{Type: TypeMultipleChoice, CorrectAnswer: "4"}},
				},
			},
		},
	}
}

func twoLessonModule() *ModuleDef {
	step := func(n int) StepDef {
		return StepDef{Number: n, Type: StepPracticeEasy, Content: &StepContent{Type: TypeTrueFalse, CorrectAnswer: "true"}}
	}
	return &ModuleDef{
		ID:           2,
		LivesEnabled: true,
		MaxLives:     3,
		Lessons: []LessonDef{
			{ID: 21, Number: 1, XPReward: 30, Steps: []StepDef{step(1), step(2)}},
			{ID: 22, Number: 2, Steps: []StepDef{step(1)}},
		},
	}
}

func TestAdvance_SingleLessonModuleComplete(t *testing.T) {
	// One lesson, one multiple-choice step; the correct answer
	// completes the module in one transition and pays 10 + default 50 XP.
	m := singleStepModule()
	p := NewProgress(m)

	res := Evaluate(m.Lessons[0].Steps[0].Content, Submission{Text: "4"})
	if !res.Correct {
		t.Fatalf("submission should be correct")
	}
	next, action := Advance(m, p, res.Correct)
	if action != ActionModuleComplete {
		t.Fatalf("action = %s, want %s", action, ActionModuleComplete)
	}
	if next.TotalXP != StepXP+DefaultLessonXP {
		t.Fatalf("TotalXP = %d, want %d", next.TotalXP, StepXP+DefaultLessonXP)
	}
	if !next.hasBadge(BadgeFlowers) {
		t.Fatalf("module completion must award %s", BadgeFlowers)
	}
	if len(next.CompletedLessons) != 1 || next.CompletedLessons[0] != 11 {
		t.Fatalf("CompletedLessons = %v", next.CompletedLessons)
	}
	if next.CurrentLesson != 1 || next.CurrentStep != 1 {
		t.Fatalf("completed module must stay on the final position, got %d/%d", next.CurrentLesson, next.CurrentStep)
	}
}

func TestAdvance_LivesExhaustionRestartsLesson(t *testing.T) {
	// Three straight wrong answers burn all lives; the third
	// resets the lesson with a fresh lives budget and touches nothing else.
	m := twoLessonModule()
	p := NewProgress(m)
	p.TotalXP = 120
	p.CompletedLessons = []uint{99}
	p.Badges = []string{BadgeFirstFive}
	p.CurrentStep = 2

	var action Action
	for i := 0; i < 2; i++ {
		p, action = Advance(m, p, false)
		if action != ActionRetryQuestion {
			t.Fatalf("attempt %d: action = %s, want %s", i+1, action, ActionRetryQuestion)
		}
	}
	if p.LivesRemaining != 1 {
		t.Fatalf("LivesRemaining = %d, want 1", p.LivesRemaining)
	}

	p, action = Advance(m, p, false)
	if action != ActionLivesExhausted {
		t.Fatalf("action = %s, want %s", action, ActionLivesExhausted)
	}
	if p.CurrentStep != 1 {
		t.Fatalf("CurrentStep = %d, want 1", p.CurrentStep)
	}
	if p.LivesRemaining != m.MaxLives {
		t.Fatalf("LivesRemaining = %d, want %d", p.LivesRemaining, m.MaxLives)
	}
	if p.TotalXP != 120 || len(p.CompletedLessons) != 1 || len(p.Badges) != 1 {
		t.Fatalf("lives exhaustion must not touch XP, completed lessons or badges: %+v", p)
	}
}

func TestAdvance_StepAndLessonFlow(t *testing.T) {
	m := twoLessonModule()
	p := NewProgress(m)

	p, action := Advance(m, p, true)
	if action != ActionStepPassed {
		t.Fatalf("action = %s, want %s", action, ActionStepPassed)
	}
	if p.CurrentStep != 2 || p.TotalXP != StepXP {
		t.Fatalf("after step pass: step=%d xp=%d", p.CurrentStep, p.TotalXP)
	}

	p, action = Advance(m, p, true)
	if action != ActionLessonComplete {
		t.Fatalf("action = %s, want %s", action, ActionLessonComplete)
	}
	if p.CurrentLesson != 2 || p.CurrentStep != 1 {
		t.Fatalf("after lesson: lesson=%d step=%d", p.CurrentLesson, p.CurrentStep)
	}
	if p.LivesRemaining != m.MaxLives {
		t.Fatalf("lesson completion must refill lives")
	}
	if p.Streak != 1 {
		t.Fatalf("Streak = %d, want 1", p.Streak)
	}
	// 10 (step) + 10 (step) + 30 (lesson xpReward)
	if p.TotalXP != 2*StepXP+30 {
		t.Fatalf("TotalXP = %d, want %d", p.TotalXP, 2*StepXP+30)
	}

	p, action = Advance(m, p, true)
	if action != ActionModuleComplete {
		t.Fatalf("action = %s, want %s", action, ActionModuleComplete)
	}
}

func TestAdvance_MultiQuestionStep(t *testing.T) {
	// Three questions, passing score 70, two correct (66.7%)
	// fails the step and resets the question cursor.
	m := &ModuleDef{
		ID:       3,
		MaxLives: 3,
		Lessons: []LessonDef{{
			ID:     31,
			Number: 1,
			Steps: []StepDef{{
				Number:       1,
				Type:         StepPracticeMedium,
				PassingScore: 70,
				Content: &StepContent{
					Type: TypeMixed,
					Questions: []Question{
						{Type: TypeTrueFalse, CorrectAnswer: "true"},
						{Type: TypeTrueFalse, CorrectAnswer: "true"},
						{Type: TypeTrueFalse, CorrectAnswer: "true"},
					},
				},
			}},
		}},
	}
	p := NewProgress(m)

	p, action := Advance(m, p, true)
	if action != ActionNextQuestion || p.QuestionIndex != 1 {
		t.Fatalf("q1: action=%s idx=%d", action, p.QuestionIndex)
	}
	// Wrong answer mid-step still advances to the next question.
	p, action = Advance(m, p, false)
	if action != ActionNextQuestion || p.QuestionIndex != 2 {
		t.Fatalf("q2: action=%s idx=%d", action, p.QuestionIndex)
	}
	startXP := p.TotalXP
	p, action = Advance(m, p, true)
	if action != ActionStepFailedRestart {
		t.Fatalf("q3: action = %s, want %s", action, ActionStepFailedRestart)
	}
	if p.QuestionIndex != 0 || p.QuestionCorrect != 0 || p.QuestionsAnswered != 0 {
		t.Fatalf("failed step must reset the question cursor: %+v", p)
	}
	if p.TotalXP != startXP {
		t.Fatalf("step failure must not change XP")
	}

	// 3/3 passes the step and, as the only step of the only lesson,
	// completes the module.
	for i := 0; i < 2; i++ {
		p, action = Advance(m, p, true)
		if action != ActionNextQuestion {
			t.Fatalf("retry q%d: action=%s", i+1, action)
		}
	}
	p, action = Advance(m, p, true)
	if action != ActionModuleComplete {
		t.Fatalf("retry q3: action = %s, want %s", action, ActionModuleComplete)
	}
}

func TestAdvance_StaleQuestionCursorRestartsStep(t *testing.T) {
	// A persisted cursor at or past the step's question count (the module
	// was republished with fewer questions) must never reach scoring; the
	// step restarts from its first question on the next submission.
	m := &ModuleDef{
		ID:       7,
		MaxLives: 3,
		Lessons: []LessonDef{{
			ID:     71,
			Number: 1,
			Steps: []StepDef{{
				Number:       1,
				Type:         StepQuiz,
				PassingScore: 70,
				Content: &StepContent{Type: TypeMixed, Questions: []Question{
					{Type: TypeTrueFalse, CorrectAnswer: "true"},
					{Type: TypeTrueFalse, CorrectAnswer: "true"},
					{Type: TypeTrueFalse, CorrectAnswer: "true"},
				}},
			}},
		}},
	}
	p := NewProgress(m)
	p.QuestionIndex = 5
	p.QuestionCorrect = 5
	p.QuestionsAnswered = 5

	c := Clamp(m, p)
	if c.QuestionIndex != 0 || c.QuestionCorrect != 0 || c.QuestionsAnswered != 0 {
		t.Fatalf("stale cursor survived clamping: %+v", c)
	}

	next, action := Advance(m, p, false)
	if action != ActionNextQuestion {
		t.Fatalf("action = %s, want %s", action, ActionNextQuestion)
	}
	if next.QuestionsAnswered != 1 || next.QuestionCorrect != 0 {
		t.Fatalf("cursor after one wrong answer: %+v", next)
	}
	if next.TotalXP != 0 || next.hasBadge(BadgeFlowers) {
		t.Fatalf("stale cursor must not pay out: %+v", next)
	}

	// An inconsistent cursor (more correct than answered) is equally
	// untrustworthy.
	p = NewProgress(m)
	p.QuestionsAnswered = 1
	p.QuestionCorrect = 2
	if c := Clamp(m, p); c.QuestionCorrect != 0 || c.QuestionsAnswered != 0 {
		t.Fatalf("inconsistent cursor survived clamping: %+v", c)
	}
}

func TestAdvance_MultiQuestionLivesExhaustionMidStep(t *testing.T) {
	m := &ModuleDef{
		ID:           4,
		LivesEnabled: true,
		MaxLives:     1,
		Lessons: []LessonDef{{
			ID:     41,
			Number: 1,
			Steps: []StepDef{{
				Number:       1,
				Type:         StepQuiz,
				PassingScore: 50,
				Content: &StepContent{Type: TypeMixed, Questions: []Question{
					{Type: TypeTrueFalse, CorrectAnswer: "true"},
					{Type: TypeTrueFalse, CorrectAnswer: "true"},
				}},
			}},
		}},
	}
	p := NewProgress(m)
	p, action := Advance(m, p, false)
	if action != ActionLivesExhausted {
		t.Fatalf("final life lost mid-step must restart the lesson, got %s", action)
	}
	if p.LivesRemaining != 1 || p.QuestionIndex != 0 {
		t.Fatalf("unexpected snapshot after exhaustion: %+v", p)
	}
}

func TestAdvance_XPMonotonic(t *testing.T) {
	m := twoLessonModule()
	p := NewProgress(m)
	answers := []bool{true, false, false, true, true, false, true}
	last := p.TotalXP
	for i, correct := range answers {
		p, _ = Advance(m, p, correct)
		if p.TotalXP < last {
			t.Fatalf("transition %d: TotalXP regressed %d -> %d", i, last, p.TotalXP)
		}
		last = p.TotalXP
	}
}

func TestAdvance_FirstFiveBadge(t *testing.T) {
	step := StepDef{Number: 1, Type: StepReview, Content: &StepContent{Type: TypeTrueFalse, CorrectAnswer: "true"}}
	m := &ModuleDef{ID: 5, MaxLives: 3}
	for i := 0; i < 6; i++ {
		m.Lessons = append(m.Lessons, LessonDef{ID: uint(100 + i), Number: i + 1, Steps: []StepDef{step}})
	}
	p := NewProgress(m)
	for i := 0; i < 4; i++ {
		p, _ = Advance(m, p, true)
	}
	if p.hasBadge(BadgeFirstFive) {
		t.Fatalf("badge awarded too early")
	}
	p, _ = Advance(m, p, true)
	if !p.hasBadge(BadgeFirstFive) {
		t.Fatalf("fifth completed lesson must award %s", BadgeFirstFive)
	}
}

func TestAdvance_ZeroStepLessonAutoPasses(t *testing.T) {
	m := &ModuleDef{ID: 6, MaxLives: 3, Lessons: []LessonDef{{ID: 61, Number: 1}}}
	p := NewProgress(m)
	p, action := Advance(m, p, true)
	if action != ActionModuleComplete {
		t.Fatalf("empty lesson should complete, got %s", action)
	}
	if !p.hasCompleted(61) {
		t.Fatalf("lesson 61 not recorded complete")
	}
}

func TestClamp_OutOfRangePositions(t *testing.T) {
	m := twoLessonModule()
	p := Progress{CurrentLesson: 9, CurrentStep: 9, LivesRemaining: 99}
	c := Clamp(m, p)
	if c.CurrentLesson != 2 {
		t.Fatalf("CurrentLesson = %d, want 2", c.CurrentLesson)
	}
	if c.CurrentStep != 1 {
		t.Fatalf("CurrentStep = %d, want 1 (lesson 2 has one step)", c.CurrentStep)
	}
	if c.LivesRemaining != m.MaxLives {
		t.Fatalf("LivesRemaining = %d, want %d", c.LivesRemaining, m.MaxLives)
	}

	p = Progress{CurrentLesson: 0, CurrentStep: -1, LivesRemaining: -2}
	c = Clamp(m, p)
	if c.CurrentLesson != 1 || c.CurrentStep != 1 || c.LivesRemaining != 0 {
		t.Fatalf("low clamp wrong: %+v", c)
	}
}

func TestRestartLesson(t *testing.T) {
	m := twoLessonModule()
	p := NewProgress(m)
	p.CurrentStep = 2
	p.LivesRemaining = 1
	p.TotalXP = 40
	p.QuestionIndex = 1

	p = RestartLesson(m, p)
	if p.CurrentStep != 1 || p.LivesRemaining != m.MaxLives || p.QuestionIndex != 0 {
		t.Fatalf("restart wrong: %+v", p)
	}
	if p.TotalXP != 40 {
		t.Fatalf("restart must not touch XP")
	}
}
