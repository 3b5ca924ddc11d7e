package repository

import (
	"errors"

	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) Find(studentID, moduleID uint) (*model.StudyProgress, error) {
	var p model.StudyProgress
	err := r.DB.Where("student_id = ? AND module_id = ?", studentID, moduleID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindOrCreate returns the existing row or a fresh one initialized by the
// caller-provided defaults.
func (r *ProgressRepository) FindOrCreate(studentID, moduleID uint, init func(*model.StudyProgress)) (*model.StudyProgress, error) {
	p, err := r.Find(studentID, moduleID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	p = &model.StudyProgress{StudentID: studentID, ModuleID: moduleID}
	if init != nil {
		init(p)
	}
	if err := r.DB.Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProgressRepository) Save(p *model.StudyProgress) error {
	return r.DB.Save(p).Error
}

func (r *ProgressRepository) ListByStudent(studentID uint) ([]model.StudyProgress, error) {
	var rows []model.StudyProgress
	err := r.DB.Where("student_id = ?", studentID).Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) ListByModule(moduleID uint) ([]model.StudyProgress, error) {
	var rows []model.StudyProgress
	err := r.DB.Where("module_id = ?", moduleID).Find(&rows).Error
	return rows, err
}

// TotalXPByStudent sums XP across all of a student's modules.
func (r *ProgressRepository) TotalXPByStudent(studentID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&model.StudyProgress{}).
		Where("student_id = ?", studentID).
		Select("COALESCE(SUM(total_xp), 0)").
		Scan(&total).Error
	return total, err
}
