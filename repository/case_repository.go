package repository

import (
	"errors"

	"github.com/dfi-sistemas/legajosbackend/models"
	"gorm.io/gorm"
)

type GormCaseRepository struct {
	db *gorm.DB
}

func NewGormCaseRepository(db *gorm.DB) CaseRepository {
	return &GormCaseRepository{db: db}
}

func casePreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Persons", func(db *gorm.DB) *gorm.DB { return personPreloads(db) }).
		Preload("Media", func(db *gorm.DB) *gorm.DB { return db.Order("uploaded_at ASC, id ASC") })
}

// SaveWithPerson reconciles a case with its associated person record inside a
// single transaction: the person is matched by explicit ID, else by unique
// document number, else created new; its contact/address sub-documents are
// replaced wholesale; the person_cases join is replaced; and the case fields
// are written. Any error rolls the whole thing back.
func (r *GormCaseRepository) SaveWithPerson(kase *models.Case, person *models.Person) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if person != nil {
			if person.ID == 0 && person.DocumentNumber != "" {
				var existing models.Person
				err := tx.Where("document_number = ?", person.DocumentNumber).First(&existing).Error
				switch {
				case err == nil:
					person.ID = existing.ID
					person.CreatedAt = existing.CreatedAt
				case errors.Is(err, gorm.ErrRecordNotFound):
					// fall through to create
				default:
					return err
				}
			} else if person.ID != 0 {
				var existing models.Person
				if err := tx.First(&existing, person.ID).Error; err != nil {
					return err
				}
				person.CreatedAt = existing.CreatedAt
			}
			if err := upsertPerson(tx, person); err != nil {
				return err
			}
		}

		if kase.ID == 0 {
			if err := tx.Omit("Persons", "Media").Create(kase).Error; err != nil {
				return err
			}
		} else {
			var existing models.Case
			if err := tx.First(&existing, kase.ID).Error; err != nil {
				return err
			}
			kase.CreatedAt = existing.CreatedAt
			if err := tx.Omit("Persons", "Media").Save(kase).Error; err != nil {
				return err
			}
		}

		// replace the person-case join wholesale; the schema permits
		// many-to-many but the application keeps one person per case
		if err := tx.Where("case_id = ?", kase.ID).Delete(&models.PersonCase{}).Error; err != nil {
			return err
		}
		if person != nil {
			join := models.PersonCase{PersonID: person.ID, CaseID: kase.ID}
			if err := tx.Create(&join).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormCaseRepository) GetByID(id uint) (*models.Case, error) {
	var kase models.Case
	if err := casePreloads(r.db).First(&kase, id).Error; err != nil {
		return nil, err
	}
	return &kase, nil
}

// DeleteWithMedia removes the case, its join rows and its media rows inside a
// transaction, returning the deleted media so the caller can unlink the files
// from disk after the transaction commits.
func (r *GormCaseRepository) DeleteWithMedia(id uint) ([]models.CaseMedia, error) {
	var media []models.CaseMedia
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var kase models.Case
		if err := tx.First(&kase, id).Error; err != nil {
			return err
		}
		if err := tx.Where("case_id = ?", id).Find(&media).Error; err != nil {
			return err
		}
		if err := tx.Where("case_id = ?", id).Delete(&models.CaseMedia{}).Error; err != nil {
			return err
		}
		if err := tx.Where("case_id = ?", id).Delete(&models.PersonCase{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Case{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return media, nil
}
