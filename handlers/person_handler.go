package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dfi-sistemas/legajosbackend/models"
	"github.com/dfi-sistemas/legajosbackend/repository"
)

type PersonHandler struct {
	PersonRepo repository.PersonRepository
	Logger     *zap.SugaredLogger
}

func NewPersonHandler(personRepo repository.PersonRepository, logger *zap.SugaredLogger) *PersonHandler {
	return &PersonHandler{PersonRepo: personRepo, Logger: logger}
}

// PersonPayload is the request shape for creating/updating a person, also
// embedded in case payloads for the case+person upsert.
type PersonPayload struct {
	ID               uint    `json:"id,omitempty"`
	FirstName        string  `json:"first_name" validate:"required"`
	LastName         string  `json:"last_name" validate:"required"`
	DocumentType     string  `json:"document_type"`
	DocumentNumber   string  `json:"document_number" validate:"required"`
	Sex              string  `json:"sex" validate:"omitempty,oneof=M F X"`
	BirthDate        *string `json:"birth_date,omitempty"` // YYYY-MM-DD
	Nationality      string  `json:"nationality"`
	OtherNationality *string `json:"other_nationality,omitempty"`
	Notes            *string `json:"notes,omitempty"`

	Emails    []EmailPayload   `json:"emails" validate:"dive"`
	Phones    []PhonePayload   `json:"phones" validate:"dive"`
	Socials   []SocialPayload  `json:"social_networks" validate:"dive"`
	Addresses []AddressPayload `json:"addresses" validate:"dive"`
}

type EmailPayload struct {
	Address string `json:"address" validate:"required,email"`
	Label   string `json:"label"`
}

type PhonePayload struct {
	Number string `json:"number" validate:"required"`
	Label  string `json:"label"`
}

type SocialPayload struct {
	Network string `json:"network" validate:"required"`
	Handle  string `json:"handle" validate:"required"`
	URL     string `json:"url"`
}

type AddressPayload struct {
	Street    string `json:"street" validate:"required"`
	Number    string `json:"number"`
	Province  string `json:"province"`
	Locality  string `json:"locality"`
	Reference string `json:"reference"`
	Principal bool   `json:"principal"`
}

// toModel converts the payload into a person model. Returns a user-facing
// message when a business rule fails.
func (p *PersonPayload) toModel() (*models.Person, string) {
	nationality := p.Nationality
	if nationality == "" {
		nationality = models.NationalityArgentina
	}
	if nationality == models.NationalityOther && (p.OtherNationality == nil || *p.OtherNationality == "") {
		return nil, "other_nationality is required when nationality is OTRA"
	}

	documentType := p.DocumentType
	if documentType == "" {
		documentType = "DNI"
	}

	person := &models.Person{
		ID:               p.ID,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		DocumentType:     documentType,
		DocumentNumber:   p.DocumentNumber,
		Sex:              p.Sex,
		Nationality:      nationality,
		OtherNationality: p.OtherNationality,
		Notes:            p.Notes,
	}

	if p.BirthDate != nil && *p.BirthDate != "" {
		birthDate, err := time.Parse("2006-01-02", *p.BirthDate)
		if err != nil {
			return nil, "birth_date must use the YYYY-MM-DD format"
		}
		person.BirthDate = &birthDate
	}

	for _, e := range p.Emails {
		person.Emails = append(person.Emails, models.PersonEmail{Address: e.Address, Label: e.Label})
	}
	for _, ph := range p.Phones {
		person.Phones = append(person.Phones, models.PersonPhone{Number: ph.Number, Label: ph.Label})
	}
	for _, s := range p.Socials {
		person.Socials = append(person.Socials, models.PersonSocial{Network: s.Network, Handle: s.Handle, URL: s.URL})
	}
	for _, a := range p.Addresses {
		person.Addresses = append(person.Addresses, models.PersonAddress{
			Street:    a.Street,
			Number:    a.Number,
			Province:  a.Province,
			Locality:  a.Locality,
			Reference: a.Reference,
			Principal: a.Principal,
		})
	}

	return person, ""
}

func (h *PersonHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var payload PersonPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	person, msg := payload.toModel()
	if msg != "" {
		WriteAPIError(w, http.StatusBadRequest, CodeValidation, msg)
		return
	}
	person.ID = 0

	if err := h.PersonRepo.Create(person); err != nil {
		if isUniqueViolation(err) {
			WriteAPIError(w, http.StatusConflict, CodeConflict, "A person with that document number already exists")
			return
		}
		h.Logger.Errorw("failed to create person", "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to create person")
		return
	}

	created, err := h.PersonRepo.GetByID(person.ID)
	if err != nil {
		h.Logger.Errorw("failed to reload created person", "person_id", person.ID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve created person")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *PersonHandler) ListPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := h.PersonRepo.ListAll()
	if err != nil {
		h.Logger.Errorw("failed to list persons", "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve persons")
		return
	}
	if persons == nil {
		persons = []models.Person{}
	}
	writeJSON(w, http.StatusOK, persons)
}

func (h *PersonHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	personID, ok := parseIDParam(w, r, "person_id")
	if !ok {
		return
	}

	person, err := h.PersonRepo.GetByID(personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, CodeNotFound, "Person not found")
		} else {
			h.Logger.Errorw("failed to get person", "person_id", personID, "error", err)
			WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve person")
		}
		return
	}
	writeJSON(w, http.StatusOK, person)
}

func (h *PersonHandler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	personID, ok := parseIDParam(w, r, "person_id")
	if !ok {
		return
	}

	var payload PersonPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	person, msg := payload.toModel()
	if msg != "" {
		WriteAPIError(w, http.StatusBadRequest, CodeValidation, msg)
		return
	}
	person.ID = personID

	if err := h.PersonRepo.Update(person); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, CodeNotFound, "Person not found")
			return
		}
		if isUniqueViolation(err) {
			WriteAPIError(w, http.StatusConflict, CodeConflict, "A person with that document number already exists")
			return
		}
		h.Logger.Errorw("failed to update person", "person_id", personID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to update person")
		return
	}

	updated, err := h.PersonRepo.GetByID(personID)
	if err != nil {
		h.Logger.Errorw("failed to reload updated person", "person_id", personID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve updated person")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *PersonHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	personID, ok := parseIDParam(w, r, "person_id")
	if !ok {
		return
	}

	if _, err := h.PersonRepo.GetByID(personID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, CodeNotFound, "Person not found")
			return
		}
		h.Logger.Errorw("failed to check person before delete", "person_id", personID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to verify person")
		return
	}

	if err := h.PersonRepo.Delete(personID); err != nil {
		h.Logger.Errorw("failed to delete person", "person_id", personID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to delete person")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
