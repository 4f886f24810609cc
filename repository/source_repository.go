package repository

import (
	"github.com/dfi-sistemas/legajosbackend/models"
	"gorm.io/gorm"
)

type GormSourceRepository struct {
	db *gorm.DB
}

func NewGormSourceRepository(db *gorm.DB) SourceRepository {
	return &GormSourceRepository{db: db}
}

func (r *GormSourceRepository) Create(source *models.Source) error {
	return r.db.Create(source).Error
}

func (r *GormSourceRepository) GetByID(id uint) (*models.Source, error) {
	var source models.Source
	if err := r.db.First(&source, id).Error; err != nil {
		return nil, err
	}
	return &source, nil
}

func (r *GormSourceRepository) ListAll() ([]models.Source, error) {
	var sources []models.Source
	err := r.db.Order("name ASC").Find(&sources).Error
	return sources, err
}

func (r *GormSourceRepository) Update(source *models.Source) error {
	return r.db.Save(source).Error
}

func (r *GormSourceRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source_id = ?", id).Delete(&models.SourceRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Source{}, id).Error
	})
}

func (r *GormSourceRepository) CreateRecord(record *models.SourceRecord) error {
	return r.db.Create(record).Error
}

func (r *GormSourceRepository) GetRecordByID(id uint) (*models.SourceRecord, error) {
	var record models.SourceRecord
	if err := r.db.Preload("Source").First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *GormSourceRepository) ListRecordsByPerson(personID uint) ([]models.SourceRecord, error) {
	var records []models.SourceRecord
	err := r.db.Preload("Source").
		Where("person_id = ?", personID).
		Order("created_at DESC, id DESC").
		Find(&records).Error
	return records, err
}

func (r *GormSourceRepository) DeleteRecord(id uint) error {
	result := r.db.Delete(&models.SourceRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
