package service

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/model"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/progression"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/repository"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/util"

	"gorm.io/gorm"
)

type ExamService struct {
	ExamRepo *repository.ExamRepository
	UserRepo *repository.UserRepository
}

func NewExamService(examRepo *repository.ExamRepository, userRepo *repository.UserRepository) *ExamService {
	return &ExamService{ExamRepo: examRepo, UserRepo: userRepo}
}

type ExamQuestionRequest struct {
	Order         int      `json:"order" binding:"required"`
	Type          string   `json:"type" binding:"required"`
	Question      string   `json:"question" binding:"required"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer" binding:"required"`
	Points        int      `json:"points"`
}

type CreateExamRequest struct {
	Title        string                `json:"title" binding:"required"`
	Subject      string                `json:"subject"`
	GradeLevel   int                   `json:"gradeLevel"`
	Duration     int                   `json:"duration"`
	PassingScore int                   `json:"passingScore"`
	Questions    []ExamQuestionRequest `json:"questions" binding:"required"`
}

func (s *ExamService) Create(creatorID uint, req CreateExamRequest) (*model.Exam, error) {
	exam := &model.Exam{
		Title:        req.Title,
		Subject:      req.Subject,
		GradeLevel:   req.GradeLevel,
		Duration:     req.Duration,
		PassingScore: req.PassingScore,
		Status:       model.ExamDraft,
		CreatedByID:  creatorID,
	}
	if exam.PassingScore <= 0 {
		exam.PassingScore = 60
	}

	total := 0
	for _, q := range req.Questions {
		points := q.Points
		if points <= 0 {
			points = 1
		}
		total += points
		options, _ := json.Marshal(q.Options)
		exam.Questions = append(exam.Questions, model.ExamQuestion{
			Order:         q.Order,
			Type:          q.Type,
			Question:      q.Question,
			Options:       options,
			CorrectAnswer: q.CorrectAnswer,
			Points:        points,
		})
	}
	exam.TotalPoints = total

	if err := s.ExamRepo.Create(exam); err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) Publish(userID, examID uint) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		return nil, examErr(err)
	}
	if exam.CreatedByID != userID {
		return nil, util.ErrPermissionDenied
	}
	if err := s.ExamRepo.UpdateStatus(examID, model.ExamPublished); err != nil {
		return nil, err
	}
	exam.Status = model.ExamPublished
	return exam, nil
}

func (s *ExamService) Assign(teacherID, examID uint, studentIDs []uint, due *time.Time) error {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		return examErr(err)
	}
	if exam.CreatedByID != teacherID {
		return util.ErrPermissionDenied
	}
	if exam.Status != model.ExamPublished {
		return util.ErrExamNotPublished
	}

	students, err := s.UserRepo.FindByIDs(studentIDs)
	if err != nil {
		return err
	}
	for _, st := range students {
		if st.Role != model.Student {
			continue
		}
		if err := s.ExamRepo.Assign(&model.ExamAssignment{
			ExamID:       examID,
			StudentID:    st.ID,
			AssignedByID: teacherID,
			DueDate:      due,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExamService) ListMine(creatorID uint, page, limit int) ([]model.Exam, int64, error) {
	return s.ExamRepo.ListByCreator(creatorID, page, limit)
}

// GetForStudent returns an assigned exam with answer keys stripped by the
// ExamQuestion JSON tags.
func (s *ExamService) GetForStudent(studentID, examID uint) (*model.Exam, error) {
	if _, err := s.ExamRepo.FindAssignment(examID, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotAssigned
		}
		return nil, err
	}
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		return nil, examErr(err)
	}
	if exam.Status != model.ExamPublished {
		return nil, util.ErrExamNotPublished
	}
	return exam, nil
}

type ExamSubmission struct {
	// Answers maps question ID to the submitted answer text.
	Answers map[uint]string `json:"answers" binding:"required"`
}

// Submit grades the submission with the same comparison rules the study
// engine uses for single-answer questions. One attempt per exam.
func (s *ExamService) Submit(studentID, examID uint, sub ExamSubmission) (*model.ExamAttempt, error) {
	exam, err := s.GetForStudent(studentID, examID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ExamRepo.FindAttempt(examID, studentID); err == nil {
		return nil, util.ErrExamAlreadyTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	score := 0
	for _, q := range exam.Questions {
		answer, answered := sub.Answers[q.ID]
		if !answered {
			continue
		}
		res := progression.EvaluateQuestion(progression.Question{
			Type:          q.Type,
			CorrectAnswer: q.CorrectAnswer,
		}, progression.Submission{Text: answer})
		if res.Graded && res.Correct {
			score += q.Points
		}
	}

	percentage := 0.0
	if exam.TotalPoints > 0 {
		percentage = float64(score) / float64(exam.TotalPoints) * 100
	}

	answersJSON, _ := json.Marshal(sub.Answers)
	now := time.Now()
	attempt := &model.ExamAttempt{
		ExamID:     examID,
		StudentID:  studentID,
		Answers:    answersJSON,
		Score:      score,
		Percentage: percentage,
		Passed:     percentage >= float64(exam.PassingScore),
		GradedAt:   &now,
	}
	if err := s.ExamRepo.CreateAttempt(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

func (s *ExamService) AssignedExams(studentID uint) ([]model.ExamAssignment, error) {
	return s.ExamRepo.ListAssignmentsByStudent(studentID)
}

func (s *ExamService) Results(userID, examID uint) ([]model.ExamAttempt, error) {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		return nil, examErr(err)
	}
	if exam.CreatedByID != userID {
		return nil, util.ErrPermissionDenied
	}
	return s.ExamRepo.ListAttemptsByExam(examID)
}

func (s *ExamService) MyResults(studentID uint) ([]model.ExamAttempt, error) {
	return s.ExamRepo.ListAttemptsByStudent(studentID)
}

func examErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrExamNotFound
	}
	return err
}
