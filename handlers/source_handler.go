package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dfi-sistemas/legajosbackend/models"
	"github.com/dfi-sistemas/legajosbackend/repository"
)

type SourceHandler struct {
	SourceRepo repository.SourceRepository
	PersonRepo repository.PersonRepository
	Logger     *zap.SugaredLogger
}

func NewSourceHandler(sourceRepo repository.SourceRepository, personRepo repository.PersonRepository, logger *zap.SugaredLogger) *SourceHandler {
	return &SourceHandler{SourceRepo: sourceRepo, PersonRepo: personRepo, Logger: logger}
}

type SourcePayload struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (h *SourceHandler) ListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.SourceRepo.ListAll()
	if err != nil {
		h.Logger.Errorw("failed to list sources", "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve sources")
		return
	}
	if sources == nil {
		sources = []models.Source{}
	}
	writeJSON(w, http.StatusOK, sources)
}

func (h *SourceHandler) GetSource(w http.ResponseWriter, r *http.Request) {
	sourceID, ok := parseIDParam(w, r, "source_id")
	if !ok {
		return
	}

	source, err := h.SourceRepo.GetByID(sourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, CodeNotFound, "Source not found")
		} else {
			h.Logger.Errorw("failed to get source", "source_id", sourceID, "error", err)
			WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve source")
		}
		return
	}
	writeJSON(w, http.StatusOK, source)
}

func (h *SourceHandler) CreateSource(w http.ResponseWriter, r *http.Request) {
	var payload SourcePayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	source := &models.Source{Name: payload.Name, Description: payload.Description}
	if err := h.SourceRepo.Create(source); err != nil {
		if isUniqueViolation(err) {
			WriteAPIError(w, http.StatusConflict, CodeConflict, "A source with that name already exists")
			return
		}
		h.Logger.Errorw("failed to create source", "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to create source")
		return
	}
	writeJSON(w, http.StatusCreated, source)
}

func (h *SourceHandler) UpdateSource(w http.ResponseWriter, r *http.Request) {
	sourceID, ok := parseIDParam(w, r, "source_id")
	if !ok {
		return
	}

	var payload SourcePayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	source, err := h.SourceRepo.GetByID(sourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, CodeNotFound, "Source not found")
		} else {
			h.Logger.Errorw("failed to load source for update", "source_id", sourceID, "error", err)
			WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve source")
		}
		return
	}

	source.Name = payload.Name
	source.Description = payload.Description
	if err := h.SourceRepo.Update(source); err != nil {
		if isUniqueViolation(err) {
			WriteAPIError(w, http.StatusConflict, CodeConflict, "A source with that name already exists")
			return
		}
		h.Logger.Errorw("failed to update source", "source_id", sourceID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to update source")
		return
	}
	writeJSON(w, http.StatusOK, source)
}

func (h *SourceHandler) DeleteSource(w http.ResponseWriter, r *http.Request) {
	sourceID, ok := parseIDParam(w, r, "source_id")
	if !ok {
		return
	}

	if _, err := h.SourceRepo.GetByID(sourceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, CodeNotFound, "Source not found")
			return
		}
		h.Logger.Errorw("failed to check source before delete", "source_id", sourceID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to verify source")
		return
	}

	if err := h.SourceRepo.Delete(sourceID); err != nil {
		h.Logger.Errorw("failed to delete source", "source_id", sourceID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to delete source")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type SourceRecordPayload struct {
	SourceID uint   `json:"source_id" validate:"required"`
	Payload  string `json:"payload" validate:"required"`
}

// ListPersonRecords returns a person's source records, newest first.
func (h *SourceHandler) ListPersonRecords(w http.ResponseWriter, r *http.Request) {
	personID, ok := parseIDParam(w, r, "person_id")
	if !ok {
		return
	}

	if _, err := h.PersonRepo.GetByID(personID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, CodeNotFound, "Person not found")
			return
		}
		h.Logger.Errorw("failed to verify person for records", "person_id", personID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to verify person")
		return
	}

	records, err := h.SourceRepo.ListRecordsByPerson(personID)
	if err != nil {
		h.Logger.Errorw("failed to list source records", "person_id", personID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve source records")
		return
	}
	if records == nil {
		records = []models.SourceRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *SourceHandler) CreatePersonRecord(w http.ResponseWriter, r *http.Request) {
	personID, ok := parseIDParam(w, r, "person_id")
	if !ok {
		return
	}

	var payload SourceRecordPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	if _, err := h.PersonRepo.GetByID(personID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, CodeNotFound, "Person not found")
			return
		}
		h.Logger.Errorw("failed to verify person for record", "person_id", personID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to verify person")
		return
	}
	if _, err := h.SourceRepo.GetByID(payload.SourceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, "Unknown source_id")
			return
		}
		h.Logger.Errorw("failed to verify source for record", "source_id", payload.SourceID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to verify source")
		return
	}

	record := &models.SourceRecord{
		PersonID: personID,
		SourceID: payload.SourceID,
		Payload:  payload.Payload,
	}
	if err := h.SourceRepo.CreateRecord(record); err != nil {
		h.Logger.Errorw("failed to create source record", "person_id", personID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to create source record")
		return
	}

	created, err := h.SourceRepo.GetRecordByID(record.ID)
	if err != nil {
		h.Logger.Errorw("failed to reload created record", "record_id", record.ID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve created record")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *SourceHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	recordID, ok := parseIDParam(w, r, "record_id")
	if !ok {
		return
	}

	if err := h.SourceRepo.DeleteRecord(recordID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, CodeNotFound, "Source record not found")
			return
		}
		h.Logger.Errorw("failed to delete source record", "record_id", recordID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to delete source record")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
