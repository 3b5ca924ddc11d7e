package repository

import (
	"errors"

	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

// Assign is idempotent per (module, student).
func (r *AssignmentRepository) Assign(a *model.ModuleAssignment) error {
	var existing model.ModuleAssignment
	err := r.DB.
		Where("module_id = ? AND student_id = ?", a.ModuleID, a.StudentID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.DB.Create(a).Error
}

func (r *AssignmentRepository) Find(moduleID, studentID uint) (*model.ModuleAssignment, error) {
	var a model.ModuleAssignment
	err := r.DB.Where("module_id = ? AND student_id = ?", moduleID, studentID).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssignmentRepository) ListByStudent(studentID uint) ([]model.ModuleAssignment, error) {
	var assignments []model.ModuleAssignment
	err := r.DB.Where("student_id = ?", studentID).Order("created_at DESC").Find(&assignments).Error
	return assignments, err
}

func (r *AssignmentRepository) ListByModule(moduleID uint) ([]model.ModuleAssignment, error) {
	var assignments []model.ModuleAssignment
	err := r.DB.Where("module_id = ?", moduleID).Find(&assignments).Error
	return assignments, err
}

func (r *AssignmentRepository) MarkCompleted(moduleID, studentID uint) error {
	return r.DB.Model(&model.ModuleAssignment{}).
		Where("module_id = ? AND student_id = ?", moduleID, studentID).
		Update("status", model.AssignmentCompleted).Error
}
