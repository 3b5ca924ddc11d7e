package repository

import (
	"time"

	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/model"

	"gorm.io/gorm"
)

type StudyModuleRepository struct {
	DB *gorm.DB
}

func NewStudyModuleRepository(db *gorm.DB) *StudyModuleRepository {
	return &StudyModuleRepository{DB: db}
}

func (r *StudyModuleRepository) Create(m *model.StudyModule) error {
	return r.DB.Create(m).Error
}

// FindByID loads the full definition with lessons and steps in play order.
func (r *StudyModuleRepository) FindByID(id uint) (*model.StudyModule, error) {
	var m model.StudyModule
	err := r.DB.
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lesson_number")
		}).
		Preload("Lessons.Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_number")
		}).
		First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *StudyModuleRepository) FindHeaderByID(id uint) (*model.StudyModule, error) {
	var m model.StudyModule
	if err := r.DB.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *StudyModuleRepository) Save(m *model.StudyModule) error {
	return r.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(m).Error
}

func (r *StudyModuleRepository) Delete(id uint) error {
	return r.DB.Delete(&model.StudyModule{}, id).Error
}

func (r *StudyModuleRepository) ListByCreator(creatorID uint, page, limit int) ([]model.StudyModule, int64, error) {
	var modules []model.StudyModule
	var total int64

	q := r.DB.Model(&model.StudyModule{}).Where("created_by_id = ?", creatorID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&modules).Error
	return modules, total, err
}

func (r *StudyModuleRepository) ListPublished(subject string, page, limit int) ([]model.StudyModule, int64, error) {
	var modules []model.StudyModule
	var total int64

	q := r.DB.Model(&model.StudyModule{}).Where("status = ?", model.ModulePublished)
	if subject != "" {
		q = q.Where("subject = ?", subject)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&modules).Error
	return modules, total, err
}

func (r *StudyModuleRepository) UpdateStatus(id uint, status model.ModuleStatus) error {
	return r.DB.Model(&model.StudyModule{}).Where("id = ?", id).Update("status", status).Error
}

// ReplaceLessons swaps a draft's lesson tree in one transaction.
func (r *StudyModuleRepository) ReplaceLessons(m *model.StudyModule, lessons []model.Lesson) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var lessonIDs []uint
		if err := tx.Model(&model.Lesson{}).Where("module_id = ?", m.ID).Pluck("id", &lessonIDs).Error; err != nil {
			return err
		}
		if len(lessonIDs) > 0 {
			if err := tx.Unscoped().Where("lesson_id IN ?", lessonIDs).Delete(&model.Step{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("module_id = ?", m.ID).Delete(&model.Lesson{}).Error; err != nil {
				return err
			}
		}
		for i := range lessons {
			lessons[i].ModuleID = m.ID
		}
		m.Lessons = lessons
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(m).Error
	})
}

// ListScheduledDue returns scheduled modules whose publish time has passed.
func (r *StudyModuleRepository) ListScheduledDue(now time.Time) ([]model.StudyModule, error) {
	var modules []model.StudyModule
	err := r.DB.
		Where("status = ? AND publish_at IS NOT NULL AND publish_at <= ?", model.ModuleScheduled, now).
		Find(&modules).Error
	return modules, err
}
