package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dfi-sistemas/legajosbackend/media"
	"github.com/dfi-sistemas/legajosbackend/models"
	"github.com/dfi-sistemas/legajosbackend/repository"
)

type CaseHandler struct {
	CaseRepo repository.CaseRepository
	Store    media.Store
	Logger   *zap.SugaredLogger
}

func NewCaseHandler(caseRepo repository.CaseRepository, store media.Store, logger *zap.SugaredLogger) *CaseHandler {
	return &CaseHandler{CaseRepo: caseRepo, Store: store, Logger: logger}
}

// CasePayload is the request shape for creating/updating a legajo, carrying
// the nested person payload for the upsert transaction.
type CasePayload struct {
	ExpedienteNumber string              `json:"expediente_number" validate:"required"`
	Caratula         string              `json:"caratula" validate:"required"`
	Court            string              `json:"court"`
	ProsecutorOffice string              `json:"prosecutor_office"`
	Jurisdiction     string              `json:"jurisdiction" validate:"omitempty,oneof=FEDERAL NACIONAL PROVINCIAL"`
	Offense          string              `json:"offense"`
	Status           string              `json:"status" validate:"required,oneof=CAPTURA_VIGENTE CAPTURA_SIN_EFECTO DETENIDO"`
	AssignedForce    string              `json:"assigned_force" validate:"omitempty,oneof=PFA GNA PNA PSA SPF"`
	Reward           string              `json:"reward" validate:"required,oneof=SI NO"`
	RewardAmountStat string              `json:"reward_amount_status" validate:"omitempty,oneof=CONFIRMADO DESCONOCIDO"`
	RewardAmount     *float64            `json:"reward_amount,omitempty" validate:"omitempty,gt=0"`
	ExtraFields      []models.ExtraField `json:"extra_fields"`
	Priority         int                 `json:"priority"`
	Person           *PersonPayload      `json:"person,omitempty"`
}

// toModel converts the payload into a case model plus the nested person.
// Returns a user-facing message when a business rule fails.
func (p *CasePayload) toModel() (*models.Case, *models.Person, string) {
	jurisdiction := p.Jurisdiction
	if jurisdiction == "" {
		jurisdiction = "FEDERAL"
	}

	amountStatus := models.RewardAmountStatus(p.RewardAmountStat)
	if amountStatus == "" {
		amountStatus = models.RewardAmountUnknown
	}
	amount := p.RewardAmount

	switch models.Reward(p.Reward) {
	case models.RewardNo:
		// no bounty; amount fields are meaningless
		amountStatus = models.RewardAmountUnknown
		amount = nil
	case models.RewardYes:
		if amountStatus == models.RewardAmountConfirmed && amount == nil {
			return nil, nil, "reward_amount is required when the reward amount is confirmed"
		}
		if amountStatus == models.RewardAmountUnknown {
			amount = nil
		}
	}

	kase := &models.Case{
		ExpedienteNumber: p.ExpedienteNumber,
		Caratula:         p.Caratula,
		Court:            p.Court,
		ProsecutorOffice: p.ProsecutorOffice,
		Jurisdiction:     jurisdiction,
		Offense:          p.Offense,
		Status:           models.CaseStatus(p.Status),
		AssignedForce:    models.Force(p.AssignedForce),
		Reward:           models.Reward(p.Reward),
		RewardAmountStat: amountStatus,
		RewardAmount:     amount,
		ExtraFields:      p.ExtraFields,
		Priority:         p.Priority,
	}

	var person *models.Person
	if p.Person != nil {
		var msg string
		person, msg = p.Person.toModel()
		if msg != "" {
			return nil, nil, msg
		}
	}
	return kase, person, ""
}

func (h *CaseHandler) CreateCase(w http.ResponseWriter, r *http.Request) {
	var payload CasePayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	kase, person, msg := payload.toModel()
	if msg != "" {
		WriteAPIError(w, http.StatusBadRequest, CodeValidation, msg)
		return
	}

	if err := h.CaseRepo.SaveWithPerson(kase, person); err != nil {
		h.Logger.Errorw("failed to create case", "error", err)
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, "Failed to create case")
		return
	}

	created, err := h.CaseRepo.GetByID(kase.ID)
	if err != nil {
		h.Logger.Errorw("failed to reload created case", "case_id", kase.ID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve created case")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *CaseHandler) UpdateCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := parseIDParam(w, r, "case_id")
	if !ok {
		return
	}

	var payload CasePayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	kase, person, msg := payload.toModel()
	if msg != "" {
		WriteAPIError(w, http.StatusBadRequest, CodeValidation, msg)
		return
	}
	kase.ID = caseID

	if err := h.CaseRepo.SaveWithPerson(kase, person); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, CodeNotFound, "Case not found")
			return
		}
		h.Logger.Errorw("failed to update case", "case_id", caseID, "error", err)
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, "Failed to update case")
		return
	}

	updated, err := h.CaseRepo.GetByID(caseID)
	if err != nil {
		h.Logger.Errorw("failed to reload updated case", "case_id", caseID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve updated case")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *CaseHandler) GetCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := parseIDParam(w, r, "case_id")
	if !ok {
		return
	}

	kase, err := h.CaseRepo.GetByID(caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, CodeNotFound, "Case not found")
		} else {
			h.Logger.Errorw("failed to get case", "case_id", caseID, "error", err)
			WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve case")
		}
		return
	}
	writeJSON(w, http.StatusOK, kase)
}

func (h *CaseHandler) ListCases(w http.ResponseWriter, r *http.Request) {
	filter := caseFilterFromQuery(r)

	cases, err := h.CaseRepo.List(filter)
	if err != nil {
		h.Logger.Errorw("failed to list cases", "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve cases")
		return
	}
	writeJSON(w, http.StatusOK, cases)
}

// DeleteCase removes the case with its media rows, then unlinks the stored
// files. Files already missing from disk are ignored, so a repeated delete
// of the same artifacts never errors.
func (h *CaseHandler) DeleteCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := parseIDParam(w, r, "case_id")
	if !ok {
		return
	}

	deletedMedia, err := h.CaseRepo.DeleteWithMedia(caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, CodeNotFound, "Case not found")
			return
		}
		h.Logger.Errorw("failed to delete case", "case_id", caseID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to delete case")
		return
	}

	for _, m := range deletedMedia {
		if err := h.Store.Delete(m.FilePath); err != nil {
			h.Logger.Warnw("failed to unlink media file", "path", m.FilePath, "error", err)
		}
		if m.ThumbnailPath != nil {
			if err := h.Store.Delete(*m.ThumbnailPath); err != nil {
				h.Logger.Warnw("failed to unlink thumbnail", "path", *m.ThumbnailPath, "error", err)
			}
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func caseFilterFromQuery(r *http.Request) repository.CaseFilter {
	q := r.URL.Query()
	filter := repository.CaseFilter{
		Status:       q.Get("status"),
		Force:        q.Get("force"),
		Jurisdiction: q.Get("jurisdiction"),
		Query:        q.Get("q"),
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}
	return filter
}
