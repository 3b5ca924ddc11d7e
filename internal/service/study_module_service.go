package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/model"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/progression"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/repository"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/util"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const moduleDefCacheTTL = 10 * time.Minute

type StudyModuleService struct {
	ModuleRepo     *repository.StudyModuleRepository
	AssignmentRepo *repository.AssignmentRepository
	UserRepo       *repository.UserRepository
	Redis          *redis.Client
}

func NewStudyModuleService(
	moduleRepo *repository.StudyModuleRepository,
	assignmentRepo *repository.AssignmentRepository,
	userRepo *repository.UserRepository,
	rdb *redis.Client,
) *StudyModuleService {
	return &StudyModuleService{
		ModuleRepo:     moduleRepo,
		AssignmentRepo: assignmentRepo,
		UserRepo:       userRepo,
		Redis:          rdb,
	}
}

type StepRequest struct {
	StepNumber   int             `json:"stepNumber" binding:"required"`
	Type         string          `json:"type" binding:"required"`
	Title        string          `json:"title"`
	PassingScore int             `json:"passingScore"`
	Content      json.RawMessage `json:"content"`
}

type LessonRequest struct {
	LessonNumber int           `json:"lessonNumber" binding:"required"`
	Title        string        `json:"title" binding:"required"`
	Description  string        `json:"description"`
	MinScore     int           `json:"minScore"`
	MaxAttempts  int           `json:"maxAttempts"`
	XPReward     int           `json:"xpReward"`
	Steps        []StepRequest `json:"steps" binding:"required"`
}

type CreateModuleRequest struct {
	Title        string          `json:"title" binding:"required"`
	Subject      string          `json:"subject"`
	Topic        string          `json:"topic"`
	GradeLevel   int             `json:"gradeLevel"`
	Description  string          `json:"description"`
	PassingScore int             `json:"passingScore"`
	LivesEnabled *bool           `json:"livesEnabled"`
	MaxLives     int             `json:"maxLives"`
	XPReward     int             `json:"xpReward"`
	Lessons      []LessonRequest `json:"lessons" binding:"required"`
}

// validateShape enforces contiguous 1-based lesson and step numbering.
func validateShape(lessons []LessonRequest) error {
	for i, l := range lessons {
		if l.LessonNumber != i+1 {
			return util.ErrInvalidModuleShape
		}
		for j, st := range l.Steps {
			if st.StepNumber != j+1 {
				return util.ErrInvalidModuleShape
			}
		}
	}
	return nil
}

func (s *StudyModuleService) Create(creatorID uint, req CreateModuleRequest) (*model.StudyModule, error) {
	if err := validateShape(req.Lessons); err != nil {
		return nil, err
	}

	livesEnabled := true
	if req.LivesEnabled != nil {
		livesEnabled = *req.LivesEnabled
	}
	maxLives := req.MaxLives
	if maxLives <= 0 {
		maxLives = 3
	}
	passing := req.PassingScore
	if passing <= 0 {
		passing = 70
	}

	m := &model.StudyModule{
		Title:        req.Title,
		Subject:      req.Subject,
		Topic:        req.Topic,
		GradeLevel:   req.GradeLevel,
		Description:  req.Description,
		PassingScore: passing,
		LivesEnabled: livesEnabled,
		MaxLives:     maxLives,
		XPReward:     req.XPReward,
		Status:       model.ModuleDraft,
		CreatedByID:  creatorID,
	}
	m.Lessons = buildLessons(req.Lessons)

	if err := s.ModuleRepo.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *StudyModuleService) Update(userID, moduleID uint, req CreateModuleRequest) (*model.StudyModule, error) {
	m, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		return nil, moduleErr(err)
	}
	if m.CreatedByID != userID {
		return nil, util.ErrPermissionDenied
	}
	if m.Status == model.ModulePublished {
		return nil, util.ErrModulePublished
	}
	if err := validateShape(req.Lessons); err != nil {
		return nil, err
	}

	m.Title = req.Title
	m.Subject = req.Subject
	m.Topic = req.Topic
	m.GradeLevel = req.GradeLevel
	m.Description = req.Description
	if req.PassingScore > 0 {
		m.PassingScore = req.PassingScore
	}
	if req.LivesEnabled != nil {
		m.LivesEnabled = *req.LivesEnabled
	}
	if req.MaxLives > 0 {
		m.MaxLives = req.MaxLives
	}
	m.XPReward = req.XPReward

	lessons := buildLessons(req.Lessons)
	if err := s.ModuleRepo.ReplaceLessons(m, lessons); err != nil {
		return nil, err
	}
	s.invalidateDefCache(moduleID)
	return m, nil
}

func buildLessons(reqs []LessonRequest) []model.Lesson {
	var lessons []model.Lesson
	for _, l := range reqs {
		lesson := model.Lesson{
			LessonNumber: l.LessonNumber,
			Title:        l.Title,
			Description:  l.Description,
			MinScore:     l.MinScore,
			MaxAttempts:  l.MaxAttempts,
			XPReward:     l.XPReward,
		}
		for _, st := range l.Steps {
			lesson.Steps = append(lesson.Steps, model.Step{
				StepNumber:   st.StepNumber,
				Type:         st.Type,
				Title:        st.Title,
				PassingScore: st.PassingScore,
				Content:      st.Content,
			})
		}
		lessons = append(lessons, lesson)
	}
	return lessons
}

// Publish makes a draft live immediately, or schedules it when publishAt is
// in the future. Published modules are immutable from then on.
func (s *StudyModuleService) Publish(userID, moduleID uint, publishAt *time.Time) (*model.StudyModule, error) {
	m, err := s.ModuleRepo.FindHeaderByID(moduleID)
	if err != nil {
		return nil, moduleErr(err)
	}
	if m.CreatedByID != userID {
		return nil, util.ErrPermissionDenied
	}

	if publishAt != nil && publishAt.After(time.Now()) {
		m.Status = model.ModuleScheduled
		m.PublishAt = publishAt
	} else {
		now := time.Now()
		m.Status = model.ModulePublished
		m.PublishAt = &now
	}
	if err := s.ModuleRepo.DB.Save(m).Error; err != nil {
		return nil, err
	}
	s.invalidateDefCache(moduleID)
	return m, nil
}

// ProcessScheduledPublishes flips scheduled modules whose time has come.
// Runs from the app's background ticker.
func (s *StudyModuleService) ProcessScheduledPublishes() error {
	due, err := s.ModuleRepo.ListScheduledDue(time.Now())
	if err != nil {
		return err
	}
	for _, m := range due {
		if err := s.ModuleRepo.UpdateStatus(m.ID, model.ModulePublished); err != nil {
			return err
		}
		s.invalidateDefCache(m.ID)
		logger.Log.Info("study module published on schedule", zap.Uint("moduleID", m.ID))
	}
	return nil
}

func (s *StudyModuleService) ListMine(creatorID uint, page, limit int) ([]model.StudyModule, int64, error) {
	return s.ModuleRepo.ListByCreator(creatorID, page, limit)
}

func (s *StudyModuleService) ListPublished(subject string, page, limit int) ([]model.StudyModule, int64, error) {
	return s.ModuleRepo.ListPublished(subject, page, limit)
}

// GetDefinition returns the full module, answer keys included. Teacher-side
// only; students get the definition through the session service which strips
// answers.
func (s *StudyModuleService) GetDefinition(moduleID uint) (*model.StudyModule, error) {
	if s.Redis != nil {
		if cached, err := s.Redis.Get(context.Background(), defCacheKey(moduleID)).Bytes(); err == nil {
			var m model.StudyModule
			if json.Unmarshal(cached, &m) == nil {
				return &m, nil
			}
		}
	}

	m, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		return nil, moduleErr(err)
	}

	if s.Redis != nil && m.Status == model.ModulePublished {
		if raw, err := json.Marshal(m); err == nil {
			s.Redis.Set(context.Background(), defCacheKey(moduleID), raw, moduleDefCacheTTL)
		}
	}
	return m, nil
}

// Assign hands a published module to a set of students.
func (s *StudyModuleService) Assign(teacherID, moduleID uint, studentIDs []uint, due *time.Time) error {
	m, err := s.ModuleRepo.FindHeaderByID(moduleID)
	if err != nil {
		return moduleErr(err)
	}
	if m.CreatedByID != teacherID {
		return util.ErrPermissionDenied
	}
	if m.Status != model.ModulePublished {
		return util.ErrModuleNotPublished
	}

	students, err := s.UserRepo.FindByIDs(studentIDs)
	if err != nil {
		return err
	}
	for _, st := range students {
		if st.Role != model.Student {
			continue
		}
		a := &model.ModuleAssignment{
			ModuleID:     moduleID,
			StudentID:    st.ID,
			AssignedByID: teacherID,
			DueDate:      due,
		}
		if err := s.AssignmentRepo.Assign(a); err != nil {
			return err
		}
	}
	return nil
}

// ToDef maps a stored module onto the engine's pure view.
func ToDef(m *model.StudyModule) *progression.ModuleDef {
	def := &progression.ModuleDef{
		ID:           m.ID,
		PassingScore: m.PassingScore,
		LivesEnabled: m.LivesEnabled,
		MaxLives:     m.MaxLives,
		XPReward:     m.XPReward,
	}
	for _, l := range m.Lessons {
		lesson := progression.LessonDef{
			ID:       l.ID,
			Number:   l.LessonNumber,
			Title:    l.Title,
			XPReward: l.XPReward,
		}
		for _, st := range l.Steps {
			lesson.Steps = append(lesson.Steps, progression.StepDef{
				Number:       st.StepNumber,
				Type:         st.Type,
				Title:        st.Title,
				PassingScore: st.PassingScore,
				Content:      progression.ParseContent(st.Content),
			})
		}
		def.Lessons = append(def.Lessons, lesson)
	}
	return def
}

func defCacheKey(moduleID uint) string {
	return fmt.Sprintf("module:def:%d", moduleID)
}

func (s *StudyModuleService) invalidateDefCache(moduleID uint) {
	if s.Redis != nil {
		s.Redis.Del(context.Background(), defCacheKey(moduleID))
	}
}

func moduleErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrModuleNotFound
	}
	return err
}
