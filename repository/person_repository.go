package repository

import (
	"github.com/dfi-sistemas/legajosbackend/models"
	"gorm.io/gorm"
)

type GormPersonRepository struct {
	db *gorm.DB
}

func NewGormPersonRepository(db *gorm.DB) PersonRepository {
	return &GormPersonRepository{db: db}
}

func personPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Emails", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Phones", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Socials", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Addresses", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

func (r *GormPersonRepository) Create(person *models.Person) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return upsertPerson(tx, person)
	})
}

func (r *GormPersonRepository) GetByID(id uint) (*models.Person, error) {
	var person models.Person
	if err := personPreloads(r.db).First(&person, id).Error; err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *GormPersonRepository) GetByDocumentNumber(documentNumber string) (*models.Person, error) {
	var person models.Person
	err := personPreloads(r.db).Where("document_number = ?", documentNumber).First(&person).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *GormPersonRepository) ListAll() ([]models.Person, error) {
	var persons []models.Person
	err := personPreloads(r.db).Order("last_name ASC, first_name ASC").Find(&persons).Error
	return persons, err
}

func (r *GormPersonRepository) Update(person *models.Person) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Person
		if err := tx.First(&existing, person.ID).Error; err != nil {
			return err
		}
		person.CreatedAt = existing.CreatedAt
		return upsertPerson(tx, person)
	})
}

func (r *GormPersonRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := deletePersonSubDocuments(tx, id); err != nil {
			return err
		}
		if err := tx.Where("person_id = ?", id).Delete(&models.PersonCase{}).Error; err != nil {
			return err
		}
		if err := tx.Where("person_id = ?", id).Delete(&models.SourceRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Person{}, id).Error
	})
}

// upsertPerson writes a person and replaces its contact/address sub-documents
// wholesale. person.ID == 0 means create; the caller is responsible for
// matching an existing person first. Must run inside a transaction.
func upsertPerson(tx *gorm.DB, person *models.Person) error {
	normalizePersonSubDocuments(person)
	person.SyncLegacyContactFields()

	if person.ID == 0 {
		if err := tx.Omit("Emails", "Phones", "Socials", "Addresses").Create(person).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Omit("Emails", "Phones", "Socials", "Addresses").Save(person).Error; err != nil {
			return err
		}
		if err := deletePersonSubDocuments(tx, person.ID); err != nil {
			return err
		}
	}

	for i := range person.Emails {
		person.Emails[i].ID = 0
		person.Emails[i].PersonID = person.ID
	}
	for i := range person.Phones {
		person.Phones[i].ID = 0
		person.Phones[i].PersonID = person.ID
	}
	for i := range person.Socials {
		person.Socials[i].ID = 0
		person.Socials[i].PersonID = person.ID
	}
	for i := range person.Addresses {
		person.Addresses[i].ID = 0
		person.Addresses[i].PersonID = person.ID
	}

	if len(person.Emails) > 0 {
		if err := tx.Create(&person.Emails).Error; err != nil {
			return err
		}
	}
	if len(person.Phones) > 0 {
		if err := tx.Create(&person.Phones).Error; err != nil {
			return err
		}
	}
	if len(person.Socials) > 0 {
		if err := tx.Create(&person.Socials).Error; err != nil {
			return err
		}
	}
	if len(person.Addresses) > 0 {
		if err := tx.Create(&person.Addresses).Error; err != nil {
			return err
		}
	}
	return nil
}

func deletePersonSubDocuments(tx *gorm.DB, personID uint) error {
	if err := tx.Where("person_id = ?", personID).Delete(&models.PersonEmail{}).Error; err != nil {
		return err
	}
	if err := tx.Where("person_id = ?", personID).Delete(&models.PersonPhone{}).Error; err != nil {
		return err
	}
	if err := tx.Where("person_id = ?", personID).Delete(&models.PersonSocial{}).Error; err != nil {
		return err
	}
	return tx.Where("person_id = ?", personID).Delete(&models.PersonAddress{}).Error
}

// normalizePersonSubDocuments assigns list positions in submitted order and
// keeps at most one principal address (the first flagged one wins; when none
// is flagged the first address becomes principal).
func normalizePersonSubDocuments(person *models.Person) {
	for i := range person.Emails {
		person.Emails[i].Position = i
	}
	for i := range person.Phones {
		person.Phones[i].Position = i
	}
	for i := range person.Socials {
		person.Socials[i].Position = i
	}

	principalSeen := false
	for i := range person.Addresses {
		person.Addresses[i].Position = i
		if person.Addresses[i].Principal {
			if principalSeen {
				person.Addresses[i].Principal = false
			}
			principalSeen = true
		}
	}
	if !principalSeen && len(person.Addresses) > 0 {
		person.Addresses[0].Principal = true
	}
}
