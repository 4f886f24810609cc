package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dfi-sistemas/legajosbackend/export"
	"github.com/dfi-sistemas/legajosbackend/media"
	"github.com/dfi-sistemas/legajosbackend/repository"
)

// ExportHandler serves the PDF dossier, ZIP bundle and Excel listing exports.
type ExportHandler struct {
	CaseRepo repository.CaseRepository
	Store    media.Store
	Logger   *zap.SugaredLogger
}

func NewExportHandler(caseRepo repository.CaseRepository, store media.Store, logger *zap.SugaredLogger) *ExportHandler {
	return &ExportHandler{CaseRepo: caseRepo, Store: store, Logger: logger}
}

// ExportPDF renders the one-case dossier, embedding the primary photo when
// the case has one.
func (h *ExportHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	caseID, ok := parseIDParam(w, r, "case_id")
	if !ok {
		return
	}

	kase, err := h.CaseRepo.GetByID(caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, CodeNotFound, "Case not found")
		} else {
			h.Logger.Errorw("failed to load case for pdf export", "case_id", caseID, "error", err)
			WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve case")
		}
		return
	}

	primaryPhotoPath := ""
	if photo := kase.PrimaryPhoto(); photo != nil {
		if fullPath, err := h.Store.GetFullPath(photo.FilePath); err == nil {
			primaryPhotoPath = fullPath
		} else {
			h.Logger.Warnw("failed to resolve primary photo", "case_id", caseID, "error", err)
		}
	}

	pdfBytes, err := export.BuildDossierPDF(kase, primaryPhotoPath)
	if err != nil {
		h.Logger.Errorw("failed to build pdf dossier", "case_id", caseID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="legajo_%d.pdf"`, caseID))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdfBytes); err != nil {
		h.Logger.Warnw("failed to write pdf response", "case_id", caseID, "error", err)
	}
}

// ExportZip streams the full case bundle: dossier, spreadsheet and every
// media file, laid out under fotos/ and documentos/.
func (h *ExportHandler) ExportZip(w http.ResponseWriter, r *http.Request) {
	caseID, ok := parseIDParam(w, r, "case_id")
	if !ok {
		return
	}

	kase, err := h.CaseRepo.GetByID(caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, CodeNotFound, "Case not found")
		} else {
			h.Logger.Errorw("failed to load case for zip export", "case_id", caseID, "error", err)
			WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve case")
		}
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="legajo_%d.zip"`, caseID))
	w.WriteHeader(http.StatusOK)

	if err := export.BuildCaseBundle(kase, h.Store, w); err != nil {
		// headers are already out; all we can do is log and cut the stream
		h.Logger.Errorw("failed to stream case bundle", "case_id", caseID, "error", err)
	}
}

// ExportExcel builds the spreadsheet listing, honoring the same query-string
// filters as the case list endpoint.
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	filter := caseFilterFromQuery(r)

	cases, err := h.CaseRepo.List(filter)
	if err != nil {
		h.Logger.Errorw("failed to list cases for excel export", "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve cases")
		return
	}

	xlsxBytes, err := export.BuildCasesExcel(cases)
	if err != nil {
		h.Logger.Errorw("failed to build excel export", "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to generate spreadsheet")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="legajos.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(xlsxBytes); err != nil {
		h.Logger.Warnw("failed to write excel response", "error", err)
	}
}
