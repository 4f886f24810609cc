package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dfi-sistemas/legajosbackend/config"
	"github.com/dfi-sistemas/legajosbackend/media"
	"github.com/dfi-sistemas/legajosbackend/models"
	"github.com/dfi-sistemas/legajosbackend/repository"
)

// CaseMediaHandler serves photo and document uploads for a case, plus the
// primary-photo flag and media deletion.
type CaseMediaHandler struct {
	CaseRepo  repository.CaseRepository
	MediaRepo repository.CaseMediaRepository
	Store     media.Store
	Cfg       config.Config
	Logger    *zap.SugaredLogger
}

func NewCaseMediaHandler(caseRepo repository.CaseRepository, mediaRepo repository.CaseMediaRepository, store media.Store, cfg config.Config, logger *zap.SugaredLogger) *CaseMediaHandler {
	return &CaseMediaHandler{CaseRepo: caseRepo, MediaRepo: mediaRepo, Store: store, Cfg: cfg, Logger: logger}
}

func (h *CaseMediaHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.requireCase(w, r)
	if !ok {
		return
	}

	items, err := h.MediaRepo.ListByCase(caseID)
	if err != nil {
		h.Logger.Errorw("failed to list case media", "case_id", caseID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve media")
		return
	}
	if items == nil {
		items = []models.CaseMedia{}
	}
	writeJSON(w, http.StatusOK, items)
}

// UploadPhoto accepts a multipart "file" part, sniffs its real content type,
// stores it under the case's photo directory and generates a thumbnail. The
// first photo of a case becomes its primary photo automatically.
func (h *CaseMediaHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.requireCase(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxPhotoBytes+1024*1024)
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, "Missing or invalid 'file' upload field")
		return
	}
	defer file.Close()

	contentType, err := media.SniffContentType(file)
	if err != nil {
		h.Logger.Errorw("failed to sniff upload", "case_id", caseID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to inspect uploaded file")
		return
	}
	if err := media.ValidatePhotoUpload(header.Size, contentType, h.Cfg.MaxPhotoBytes); err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	upload, storedType, storedSize, err := media.NormalizePhoto(file, contentType, header.Size)
	if err != nil {
		var vErr *media.ValidationError
		if errors.As(err, &vErr) {
			WriteAPIError(w, http.StatusBadRequest, CodeValidation, vErr.Error())
			return
		}
		h.Logger.Errorw("failed to normalize photo", "case_id", caseID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to process uploaded photo")
		return
	}

	dirHint := fmt.Sprintf("%d", caseID)
	relPath, err := h.Store.Save(media.AssetTypePhoto, dirHint, "", media.ExtensionForMime(storedType), upload)
	if err != nil {
		h.Logger.Errorw("failed to store photo", "case_id", caseID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to store photo")
		return
	}

	item := &models.CaseMedia{
		CaseID:           caseID,
		Kind:             models.MediaKindPhoto,
		FilePath:         relPath,
		OriginalFilename: header.Filename,
		MimeType:         storedType,
		SizeBytes:        storedSize,
		Description:      r.FormValue("description"),
		UploadedAt:       time.Now(),
	}

	if fullPath, err := h.Store.GetFullPath(relPath); err == nil {
		if meta, err := media.GetPhotoMetadata(fullPath); err == nil {
			item.Width = meta.Width
			item.Height = meta.Height
			item.TakenAt = meta.TakenAt
		} else {
			h.Logger.Warnw("failed to read photo metadata", "path", relPath, "error", err)
		}
	}

	if thumbPath, err := media.GenerateThumbnail(h.Store, relPath, dirHint, h.Cfg.ThumbnailMaxSize); err == nil {
		item.ThumbnailPath = &thumbPath
	} else {
		h.Logger.Warnw("failed to generate thumbnail", "path", relPath, "error", err)
	}

	if err := h.MediaRepo.Create(item); err != nil {
		h.Logger.Errorw("failed to record photo", "case_id", caseID, "error", err)
		if delErr := h.Store.Delete(relPath); delErr != nil {
			h.Logger.Warnw("failed to clean up stored photo", "path", relPath, "error", delErr)
		}
		if item.ThumbnailPath != nil {
			if delErr := h.Store.Delete(*item.ThumbnailPath); delErr != nil {
				h.Logger.Warnw("failed to clean up thumbnail", "path", *item.ThumbnailPath, "error", delErr)
			}
		}
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to record photo")
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// UploadDocument accepts a multipart "file" part and stores it under the
// case's document directory.
func (h *CaseMediaHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.requireCase(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxDocumentBytes+1024*1024)
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, "Missing or invalid 'file' upload field")
		return
	}
	defer file.Close()

	contentType, err := media.SniffContentType(file)
	if err != nil {
		h.Logger.Errorw("failed to sniff upload", "case_id", caseID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to inspect uploaded file")
		return
	}
	if err := media.ValidateDocumentUpload(header.Size, contentType, h.Cfg.MaxDocumentBytes); err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	dirHint := fmt.Sprintf("%d", caseID)
	relPath, err := h.Store.Save(media.AssetTypeDocument, dirHint, "", media.ExtensionForMime(contentType), file)
	if err != nil {
		h.Logger.Errorw("failed to store document", "case_id", caseID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to store document")
		return
	}

	item := &models.CaseMedia{
		CaseID:           caseID,
		Kind:             models.MediaKindDocument,
		FilePath:         relPath,
		OriginalFilename: header.Filename,
		MimeType:         contentType,
		SizeBytes:        header.Size,
		Description:      r.FormValue("description"),
		UploadedAt:       time.Now(),
	}

	if err := h.MediaRepo.Create(item); err != nil {
		h.Logger.Errorw("failed to record document", "case_id", caseID, "error", err)
		if delErr := h.Store.Delete(relPath); delErr != nil {
			h.Logger.Warnw("failed to clean up stored document", "path", relPath, "error", delErr)
		}
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to record document")
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// SetPrimaryPhoto flags a photo as the case's primary one, clearing the flag
// from every other photo of the case.
func (h *CaseMediaHandler) SetPrimaryPhoto(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.requireCase(w, r)
	if !ok {
		return
	}
	mediaID, ok := parseIDParam(w, r, "media_id")
	if !ok {
		return
	}

	if err := h.MediaRepo.SetPrimaryPhoto(caseID, mediaID); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			WriteAPIError(w, http.StatusNotFound, CodeNotFound, "Media not found for this case")
		case errors.Is(err, repository.ErrNotAPhoto):
			WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, "Only photos can be set as primary")
		default:
			h.Logger.Errorw("failed to set primary photo", "case_id", caseID, "media_id", mediaID, "error", err)
			WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to set primary photo")
		}
		return
	}

	updated, err := h.MediaRepo.GetByID(mediaID)
	if err != nil {
		h.Logger.Errorw("failed to reload primary photo", "media_id", mediaID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve updated media")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type MediaDescriptionPayload struct {
	Description string `json:"description"`
}

func (h *CaseMediaHandler) UpdateDescription(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.requireCase(w, r)
	if !ok {
		return
	}
	mediaID, ok := parseIDParam(w, r, "media_id")
	if !ok {
		return
	}

	var payload MediaDescriptionPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	item, err := h.MediaRepo.GetByID(mediaID)
	if err != nil || item.CaseID != caseID {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			h.Logger.Errorw("failed to load media", "media_id", mediaID, "error", err)
			WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve media")
			return
		}
		WriteAPIError(w, http.StatusNotFound, CodeNotFound, "Media not found for this case")
		return
	}

	if err := h.MediaRepo.UpdateDescription(mediaID, payload.Description); err != nil {
		h.Logger.Errorw("failed to update media description", "media_id", mediaID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to update description")
		return
	}

	item.Description = payload.Description
	writeJSON(w, http.StatusOK, item)
}

// DeleteMedia removes the database row first, then unlinks the stored file
// and thumbnail. When the deleted item was the primary photo, the repository
// promotes the oldest remaining photo.
func (h *CaseMediaHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.requireCase(w, r)
	if !ok {
		return
	}
	mediaID, ok := parseIDParam(w, r, "media_id")
	if !ok {
		return
	}

	item, err := h.MediaRepo.GetByID(mediaID)
	if err != nil || item.CaseID != caseID {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			h.Logger.Errorw("failed to load media", "media_id", mediaID, "error", err)
			WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to retrieve media")
			return
		}
		WriteAPIError(w, http.StatusNotFound, CodeNotFound, "Media not found for this case")
		return
	}

	deleted, err := h.MediaRepo.Delete(mediaID)
	if err != nil {
		h.Logger.Errorw("failed to delete media", "media_id", mediaID, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to delete media")
		return
	}

	if err := h.Store.Delete(deleted.FilePath); err != nil {
		h.Logger.Warnw("failed to unlink media file", "path", deleted.FilePath, "error", err)
	}
	if deleted.ThumbnailPath != nil {
		if err := h.Store.Delete(*deleted.ThumbnailPath); err != nil {
			h.Logger.Warnw("failed to unlink thumbnail", "path", *deleted.ThumbnailPath, "error", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// requireCase parses the case_id parameter and verifies the case exists.
func (h *CaseMediaHandler) requireCase(w http.ResponseWriter, r *http.Request) (uint, bool) {
	caseID, ok := parseIDParam(w, r, "case_id")
	if !ok {
		return 0, false
	}
	if _, err := h.CaseRepo.GetByID(caseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, CodeNotFound, "Case not found")
		} else {
			h.Logger.Errorw("failed to verify case", "case_id", caseID, "error", err)
			WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Failed to verify case")
		}
		return 0, false
	}
	return caseID, true
}
