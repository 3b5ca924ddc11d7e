package repository

import (
	"errors"

	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/model"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) Create(e *model.Exam) error {
	return r.DB.Create(e).Error
}

func (r *ExamRepository) FindByID(id uint) (*model.Exam, error) {
	var e model.Exam
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order`")
		}).
		First(&e, id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ExamRepository) Save(e *model.Exam) error {
	return r.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(e).Error
}

func (r *ExamRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Exam{}, id).Error
}

func (r *ExamRepository) ListByCreator(creatorID uint, page, limit int) ([]model.Exam, int64, error) {
	var exams []model.Exam
	var total int64

	q := r.DB.Model(&model.Exam{}).Where("created_by_id = ?", creatorID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&exams).Error
	return exams, total, err
}

func (r *ExamRepository) UpdateStatus(id uint, status model.ExamStatus) error {
	return r.DB.Model(&model.Exam{}).Where("id = ?", id).Update("status", status).Error
}

func (r *ExamRepository) Assign(a *model.ExamAssignment) error {
	var existing model.ExamAssignment
	err := r.DB.
		Where("exam_id = ? AND student_id = ?", a.ExamID, a.StudentID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.DB.Create(a).Error
}

func (r *ExamRepository) FindAssignment(examID, studentID uint) (*model.ExamAssignment, error) {
	var a model.ExamAssignment
	err := r.DB.Where("exam_id = ? AND student_id = ?", examID, studentID).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ExamRepository) ListAssignmentsByStudent(studentID uint) ([]model.ExamAssignment, error) {
	var assignments []model.ExamAssignment
	err := r.DB.Where("student_id = ?", studentID).Order("created_at DESC").Find(&assignments).Error
	return assignments, err
}

func (r *ExamRepository) CreateAttempt(a *model.ExamAttempt) error {
	return r.DB.Create(a).Error
}

func (r *ExamRepository) FindAttempt(examID, studentID uint) (*model.ExamAttempt, error) {
	var a model.ExamAttempt
	err := r.DB.Where("exam_id = ? AND student_id = ?", examID, studentID).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ExamRepository) ListAttemptsByExam(examID uint) ([]model.ExamAttempt, error) {
	var attempts []model.ExamAttempt
	err := r.DB.Where("exam_id = ?", examID).Order("created_at DESC").Find(&attempts).Error
	return attempts, err
}

func (r *ExamRepository) ListAttemptsByStudent(studentID uint) ([]model.ExamAttempt, error) {
	var attempts []model.ExamAttempt
	err := r.DB.Where("student_id = ?", studentID).Order("created_at DESC").Find(&attempts).Error
	return attempts, err
}
