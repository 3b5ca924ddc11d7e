package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/model"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/progression"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/repository"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/util"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/pkg/logger"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const leaderboardKey = "leaderboard:xp"

// StudySessionService drives a student through an assigned module. All
// progress mutations go through the progression engine; this service owns
// loading, authorization, persistence and ordering.
type StudySessionService struct {
	ModuleSvc      *StudyModuleService
	ProgressRepo   *repository.ProgressRepository
	AssignmentRepo *repository.AssignmentRepository
	Redis          *redis.Client

	// locks serializes submissions per (student, module): progress is not
	// re-entrant, and writes must reach storage in transition order. Idle
	// entries are evicted by a background ticker.
	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

// sessionLock wraps a mutex with its last activity time for periodic
// cleanup.
type sessionLock struct {
	mu       sync.Mutex
	lastSeen time.Time
}

func NewStudySessionService(
	moduleSvc *StudyModuleService,
	progressRepo *repository.ProgressRepository,
	assignmentRepo *repository.AssignmentRepository,
	rdb *redis.Client,
) *StudySessionService {
	s := &StudySessionService{
		ModuleSvc:      moduleSvc,
		ProgressRepo:   progressRepo,
		AssignmentRepo: assignmentRepo,
		Redis:          rdb,
		locks:          make(map[string]*sessionLock),
	}

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			s.evictIdleLocks(30 * time.Minute)
		}
	}()

	return s
}

func (s *StudySessionService) lockFor(studentID, moduleID uint) *sync.Mutex {
	key := fmt.Sprintf("%d:%d", studentID, moduleID)

	s.locksMu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &sessionLock{}
		s.locks[key] = l
	}
	l.lastSeen = time.Now()
	s.locksMu.Unlock()

	return &l.mu
}

// evictIdleLocks drops lock entries untouched for longer than maxIdle. A
// held lock stays: evicting it would let a concurrent submission for the
// same student and module slip past serialization.
func (s *StudySessionService) evictIdleLocks(maxIdle time.Duration) {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	for key, l := range s.locks {
		if time.Since(l.lastSeen) > maxIdle && l.mu.TryLock() {
			l.mu.Unlock()
			delete(s.locks, key)
		}
	}
}

// StudentQuestionView is a question with its answer key stripped.
type StudentQuestionView struct {
	Type    string   `json:"type"`
	Prompt  string   `json:"question,omitempty"`
	Options []string `json:"options,omitempty"`
	Lefts   []string `json:"lefts,omitempty"`
	Rights  []string `json:"rights,omitempty"`
	Items   []string `json:"items,omitempty"`
}

type StudentStepView struct {
	StepNumber    int                 `json:"stepNumber"`
	Type          string              `json:"type"`
	Title         string              `json:"title"`
	PassingScore  int                 `json:"passingScore"`
	Text          string              `json:"text,omitempty"`
	Question      StudentQuestionView `json:"question"`
	QuestionIndex int                 `json:"questionIndex"`
	QuestionTotal int                 `json:"questionTotal"`
}

type SessionView struct {
	Module       *model.StudyModule        `json:"module"`
	Progress     progression.Progress      `json:"progress"`
	LessonStates []progression.LessonState `json:"lessonStates"`
	CurrentStep  *StudentStepView          `json:"currentStep,omitempty"`
}

type SubmitResult struct {
	Action       progression.Action        `json:"action"`
	Correct      bool                      `json:"correct"`
	Graded       bool                      `json:"graded"`
	PairResults  map[string]bool           `json:"pairResults,omitempty"`
	Progress     progression.Progress      `json:"progress"`
	LessonStates []progression.LessonState `json:"lessonStates"`
	NextStep     *StudentStepView          `json:"nextStep,omitempty"`
}

// load authorizes the student and returns the module definition.
func (s *StudySessionService) load(studentID, moduleID uint) (*model.StudyModule, *progression.ModuleDef, error) {
	if _, err := s.AssignmentRepo.Find(moduleID, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrNotAssigned
		}
		return nil, nil, err
	}
	m, err := s.ModuleSvc.GetDefinition(moduleID)
	if err != nil {
		return nil, nil, err
	}
	if m.Status != model.ModulePublished {
		return nil, nil, util.ErrModuleNotPublished
	}
	return m, ToDef(m), nil
}

// Start creates or resumes the student's progress and returns the playable
// view. Stale persisted positions are clamped, never rejected.
func (s *StudySessionService) Start(studentID, moduleID uint) (*SessionView, error) {
	m, def, err := s.load(studentID, moduleID)
	if err != nil {
		return nil, err
	}

	row, err := s.ProgressRepo.FindOrCreate(studentID, moduleID, func(p *model.StudyProgress) {
		p.ApplySnapshot(progression.NewProgress(def))
	})
	if err != nil {
		return nil, err
	}

	snap := progression.Clamp(def, row.Snapshot())
	return &SessionView{
		Module:       stripModule(m),
		Progress:     snap,
		LessonStates: progression.ResolveLocks(def, snap),
		CurrentStep:  stepView(def, snap),
	}, nil
}

// SubmitAnswer evaluates one submission and applies the resulting
// transition. Calls for the same student and module are serialized; the new
// snapshot is committed before the method returns, so the store's view of
// the position and XP can never regress.
func (s *StudySessionService) SubmitAnswer(studentID, moduleID uint, sub progression.Submission) (*SubmitResult, error) {
	mu := s.lockFor(studentID, moduleID)
	mu.Lock()
	defer mu.Unlock()

	_, def, err := s.load(studentID, moduleID)
	if err != nil {
		return nil, err
	}
	row, err := s.ProgressRepo.Find(studentID, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotAssigned
		}
		return nil, err
	}

	snap := progression.Clamp(def, row.Snapshot())
	_, step, ok := progression.ActiveStep(def, snap)

	var res progression.Result
	switch {
	case !ok || step.Type == progression.StepTheory:
		res = progression.Result{Correct: true}
	default:
		res = progression.EvaluateQuestion(step.Content.QuestionAt(snap.QuestionIndex), sub)
	}
	if res.Correct && !res.Graded && step.Type != progression.StepTheory && ok {
		// Graded step type with nothing gradable: content bug, not a student
		// pass worth celebrating.
		logger.Log.Warn("step content not gradable, auto-passing",
			zap.Uint("moduleID", moduleID),
			zap.Int("lesson", snap.CurrentLesson),
			zap.Int("step", snap.CurrentStep))
	}

	next, action := progression.Advance(def, snap, res.Correct)
	monitoring.StepEvaluations.WithLabelValues(string(action)).Inc()

	xpDelta := next.TotalXP - snap.TotalXP
	row.ApplySnapshot(next)
	if action == progression.ActionModuleComplete && row.CompletedAt == nil {
		now := time.Now()
		row.CompletedAt = &now
	}
	if err := s.ProgressRepo.Save(row); err != nil {
		return nil, err
	}

	if action == progression.ActionModuleComplete {
		if err := s.AssignmentRepo.MarkCompleted(moduleID, studentID); err != nil {
			logger.Log.Error("failed to mark assignment completed", zap.Error(err))
		}
	}
	if xpDelta > 0 && s.Redis != nil {
		s.Redis.ZIncrBy(context.Background(), leaderboardKey, float64(xpDelta), fmt.Sprint(studentID))
	}

	return &SubmitResult{
		Action:       action,
		Correct:      res.Correct,
		Graded:       res.Graded,
		PairResults:  res.PairResults,
		Progress:     next,
		LessonStates: progression.ResolveLocks(def, next),
		NextStep:     stepView(def, next),
	}, nil
}

// RestartLesson rewinds the student to the first step of the active lesson
// with a full lives budget.
func (s *StudySessionService) RestartLesson(studentID, moduleID uint) (*SessionView, error) {
	mu := s.lockFor(studentID, moduleID)
	mu.Lock()
	defer mu.Unlock()

	m, def, err := s.load(studentID, moduleID)
	if err != nil {
		return nil, err
	}
	row, err := s.ProgressRepo.Find(studentID, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotAssigned
		}
		return nil, err
	}

	snap := progression.RestartLesson(def, row.Snapshot())
	row.ApplySnapshot(snap)
	if err := s.ProgressRepo.Save(row); err != nil {
		return nil, err
	}

	return &SessionView{
		Module:       stripModule(m),
		Progress:     snap,
		LessonStates: progression.ResolveLocks(def, snap),
		CurrentStep:  stepView(def, snap),
	}, nil
}

// LessonStates returns the navigation view only.
func (s *StudySessionService) LessonStates(studentID, moduleID uint) ([]progression.LessonState, error) {
	_, def, err := s.load(studentID, moduleID)
	if err != nil {
		return nil, err
	}
	row, err := s.ProgressRepo.Find(studentID, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return progression.ResolveLocks(def, progression.NewProgress(def)), nil
		}
		return nil, err
	}
	return progression.ResolveLocks(def, row.Snapshot()), nil
}

type AssignedModule struct {
	Assignment model.ModuleAssignment `json:"assignment"`
	Module     model.StudyModule      `json:"module"`
	Progress   *progression.Progress  `json:"progress,omitempty"`
}

// AssignedModules lists the student's modules with their progress snapshots.
func (s *StudySessionService) AssignedModules(studentID uint) ([]AssignedModule, error) {
	assignments, err := s.AssignmentRepo.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}
	out := make([]AssignedModule, 0, len(assignments))
	for _, a := range assignments {
		m, err := s.ModuleSvc.ModuleRepo.FindHeaderByID(a.ModuleID)
		if err != nil {
			continue
		}
		item := AssignedModule{Assignment: a, Module: *m}
		if row, err := s.ProgressRepo.Find(studentID, a.ModuleID); err == nil {
			snap := row.Snapshot()
			item.Progress = &snap
		}
		out = append(out, item)
	}
	return out, nil
}

// stripModule removes answer keys from the payload a student receives.
func stripModule(m *model.StudyModule) *model.StudyModule {
	clone := *m
	clone.Lessons = make([]model.Lesson, len(m.Lessons))
	for i, l := range m.Lessons {
		lc := l
		lc.Steps = make([]model.Step, len(l.Steps))
		for j, st := range l.Steps {
			sc := st
			sc.Content = nil
			lc.Steps[j] = sc
		}
		clone.Lessons[i] = lc
	}
	return &clone
}

func stepView(def *progression.ModuleDef, snap progression.Progress) *StudentStepView {
	_, step, ok := progression.ActiveStep(def, snap)
	if !ok {
		return nil
	}
	q := step.Content.QuestionAt(snap.QuestionIndex)
	view := &StudentStepView{
		StepNumber:    step.Number,
		Type:          step.Type,
		Title:         step.Title,
		PassingScore:  step.PassingScore,
		Text:          step.Content.Text,
		QuestionIndex: snap.QuestionIndex,
		QuestionTotal: step.Content.QuestionCount(),
		Question:      stripQuestion(q),
	}
	return view
}

// stripQuestion keeps what the UI needs to render the prompt and drops the
// answer key. Matching rights are sorted and ordering items shuffled so
// their position leaks nothing.
func stripQuestion(q progression.Question) StudentQuestionView {
	view := StudentQuestionView{
		Type:    q.Type,
		Prompt:  q.Prompt,
		Options: q.Options,
	}
	if len(q.Pairs) > 0 {
		for _, p := range q.Pairs {
			view.Lefts = append(view.Lefts, p.Left)
			view.Rights = append(view.Rights, p.Right)
		}
		sort.Strings(view.Rights)
	}
	if len(q.CorrectOrder) > 0 {
		view.Items = shuffledItems(q.CorrectOrder)
	}
	return view
}

// shuffledItems arranges ordering items in a pseudo-random order seeded from
// the content itself, so every reload shows the same arrangement but never
// the answer order. A plain sort would hand content whose correct order is
// alphabetical to the student pre-solved.
func shuffledItems(items []string) []string {
	out := append([]string(nil), items...)
	var seed int64
	for _, it := range items {
		for _, r := range it {
			seed = seed*31 + int64(r)
		}
	}
	rnd := rand.New(rand.NewSource(seed))
	rnd.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })

	same := len(out) > 1
	for i := range out {
		if out[i] != items[i] {
			same = false
			break
		}
	}
	if same {
		out = append(out[1:], out[0])
	}
	return out
}
