package repository

import (
	"github.com/dfi-sistemas/legajosbackend/models"
)

// UserRepository defines the methods for user data operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	ListAll() ([]models.User, error)
	TouchLastLogin(id uint) error
}

// PersonRepository defines the methods for person data operations
type PersonRepository interface {
	Create(person *models.Person) error
	GetByID(id uint) (*models.Person, error)
	GetByDocumentNumber(documentNumber string) (*models.Person, error)
	ListAll() ([]models.Person, error)
	Update(person *models.Person) error
	Delete(id uint) error
}

// CaseRepository defines the methods for case (legajo) data operations.
// SaveWithPerson runs the case+person upsert inside one transaction.
type CaseRepository interface {
	SaveWithPerson(kase *models.Case, person *models.Person) error
	GetByID(id uint) (*models.Case, error)
	List(filter CaseFilter) ([]models.Case, error)
	DeleteWithMedia(id uint) ([]models.CaseMedia, error)
}

// CaseMediaRepository defines the methods for evidence media rows
type CaseMediaRepository interface {
	Create(media *models.CaseMedia) error
	GetByID(id uint) (*models.CaseMedia, error)
	ListByCase(caseID uint) ([]models.CaseMedia, error)
	UpdateDescription(id uint, description string) error
	SetPrimaryPhoto(caseID, mediaID uint) error
	Delete(id uint) (*models.CaseMedia, error)
}

// SourceRepository defines the methods for the source catalog and its records
type SourceRepository interface {
	Create(source *models.Source) error
	GetByID(id uint) (*models.Source, error)
	ListAll() ([]models.Source, error)
	Update(source *models.Source) error
	Delete(id uint) error

	CreateRecord(record *models.SourceRecord) error
	GetRecordByID(id uint) (*models.SourceRecord, error)
	ListRecordsByPerson(personID uint) ([]models.SourceRecord, error)
	DeleteRecord(id uint) error
}
