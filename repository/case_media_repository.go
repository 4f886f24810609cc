package repository

import (
	"errors"

	"github.com/dfi-sistemas/legajosbackend/models"
	"gorm.io/gorm"
)

type GormCaseMediaRepository struct {
	db *gorm.DB
}

func NewGormCaseMediaRepository(db *gorm.DB) CaseMediaRepository {
	return &GormCaseMediaRepository{db: db}
}

// Create inserts a media row. The first photo uploaded to a case becomes its
// primary photo automatically.
func (r *GormCaseMediaRepository) Create(media *models.CaseMedia) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if media.Kind == models.MediaKindPhoto {
			var count int64
			err := tx.Model(&models.CaseMedia{}).
				Where("case_id = ? AND kind = ?", media.CaseID, models.MediaKindPhoto).
				Count(&count).Error
			if err != nil {
				return err
			}
			media.IsPrimary = count == 0
		} else {
			media.IsPrimary = false
		}
		return tx.Create(media).Error
	})
}

func (r *GormCaseMediaRepository) GetByID(id uint) (*models.CaseMedia, error) {
	var media models.CaseMedia
	if err := r.db.First(&media, id).Error; err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *GormCaseMediaRepository) ListByCase(caseID uint) ([]models.CaseMedia, error) {
	var media []models.CaseMedia
	err := r.db.Where("case_id = ?", caseID).Order("uploaded_at ASC, id ASC").Find(&media).Error
	return media, err
}

func (r *GormCaseMediaRepository) UpdateDescription(id uint, description string) error {
	result := r.db.Model(&models.CaseMedia{}).Where("id = ?", id).Update("description", description)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ErrNotAPhoto is returned when a primary-photo operation targets a document row.
var ErrNotAPhoto = errors.New("media row is not a photo")

// SetPrimaryPhoto designates mediaID as the case's primary photo, clearing
// the flag on every other photo of the case inside the same transaction so
// at most one row ever carries it.
func (r *GormCaseMediaRepository) SetPrimaryPhoto(caseID, mediaID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var media models.CaseMedia
		if err := tx.Where("id = ? AND case_id = ?", mediaID, caseID).First(&media).Error; err != nil {
			return err
		}
		if media.Kind != models.MediaKindPhoto {
			return ErrNotAPhoto
		}
		err := tx.Model(&models.CaseMedia{}).
			Where("case_id = ? AND kind = ? AND id <> ?", caseID, models.MediaKindPhoto, mediaID).
			Update("is_primary", false).Error
		if err != nil {
			return err
		}
		return tx.Model(&models.CaseMedia{}).Where("id = ?", mediaID).Update("is_primary", true).Error
	})
}

// Delete removes the row and returns it so the caller can unlink the stored
// file. When the deleted row was the primary photo, the oldest remaining
// photo of the case inherits the flag.
func (r *GormCaseMediaRepository) Delete(id uint) (*models.CaseMedia, error) {
	var media models.CaseMedia
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&media, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.CaseMedia{}, id).Error; err != nil {
			return err
		}
		if media.Kind == models.MediaKindPhoto && media.IsPrimary {
			var next models.CaseMedia
			err := tx.Where("case_id = ? AND kind = ?", media.CaseID, models.MediaKindPhoto).
				Order("uploaded_at ASC, id ASC").First(&next).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil
				}
				return err
			}
			return tx.Model(&models.CaseMedia{}).Where("id = ?", next.ID).Update("is_primary", true).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &media, nil
}
