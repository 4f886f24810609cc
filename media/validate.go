package media

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// Fixed allow-lists for uploads. Photos are images only; documents accept
// office formats plus images (scanned paperwork arrives as JPEG often enough).
var (
	photoMimeTypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
	}

	documentMimeTypes = map[string]bool{
		"application/pdf":    true,
		"application/msword": true,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
		"application/vnd.ms-excel": true,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
		"text/plain": true,
		"image/jpeg": true,
		"image/png":  true,
	}
)

// ValidationError describes a rejected upload; handlers surface it as a 400.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// SniffContentType reads the leading bytes of the file and detects its MIME
// type, then rewinds. Client-supplied Content-Type headers are not trusted.
func SniffContentType(file multipart.File) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read upload for content sniffing: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload after content sniffing: %w", err)
	}
	contentType := http.DetectContentType(buf[:n])
	// DetectContentType appends charset parameters for text types
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	return contentType, nil
}

// ValidatePhotoUpload checks size and sniffed MIME type against the photo rules.
func ValidatePhotoUpload(size int64, contentType string, maxBytes int64) error {
	if size <= 0 {
		return &ValidationError{Reason: "uploaded photo is empty"}
	}
	if size > maxBytes {
		return &ValidationError{Reason: fmt.Sprintf("photo exceeds the %d MB limit", maxBytes/(1024*1024))}
	}
	if !photoMimeTypes[contentType] {
		return &ValidationError{Reason: fmt.Sprintf("unsupported photo type '%s'", contentType)}
	}
	return nil
}

// ValidateDocumentUpload checks size and sniffed MIME type against the document rules.
func ValidateDocumentUpload(size int64, contentType string, maxBytes int64) error {
	if size <= 0 {
		return &ValidationError{Reason: "uploaded document is empty"}
	}
	if size > maxBytes {
		return &ValidationError{Reason: fmt.Sprintf("document exceeds the %d MB limit", maxBytes/(1024*1024))}
	}
	if !documentMimeTypes[contentType] {
		return &ValidationError{Reason: fmt.Sprintf("unsupported document type '%s'", contentType)}
	}
	return nil
}

// ExtensionForMime maps an accepted MIME type to the extension used for the
// stored UUID filename.
func ExtensionForMime(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	case "application/msword":
		return ".doc"
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return ".docx"
	case "application/vnd.ms-excel":
		return ".xls"
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return ".xlsx"
	case "text/plain":
		return ".txt"
	}
	return ""
}
