package handlers

import (
	"archive/zip"
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportPDFEndpoint(t *testing.T) {
	app := newTestApp(t)
	token := operatorToken(t, app)
	caseID := createTestCase(t, app, token)

	rec := app.request(http.MethodGet, fmt.Sprintf("/api/cases/%d/export/pdf", caseID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), fmt.Sprintf("legajo_%d.pdf", caseID))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestExportPDFWithWebPSourcedPhoto(t *testing.T) {
	app := newTestApp(t)
	token := operatorToken(t, app)
	caseID := createTestCase(t, app, token)

	rec := app.multipartRequest(http.MethodPost, fmt.Sprintf("/api/cases/%d/photos", caseID), token, "rostro.webp", webpBytes())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.request(http.MethodGet, fmt.Sprintf("/api/cases/%d/export/pdf", caseID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestExportPDFMissingCase(t *testing.T) {
	app := newTestApp(t)
	token := operatorToken(t, app)

	rec := app.request(http.MethodGet, "/api/cases/9999/export/pdf", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportZipEndpoint(t *testing.T) {
	app := newTestApp(t)
	token := operatorToken(t, app)
	caseID := createTestCase(t, app, token)

	rec := app.multipartRequest(http.MethodPost, fmt.Sprintf("/api/cases/%d/photos", caseID), token, "rostro.png", pngBytes(t, 10, 10))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = app.request(http.MethodGet, fmt.Sprintf("/api/cases/%d/export/zip", caseID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))

	reader, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)

	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, fmt.Sprintf("legajo_%d.pdf", caseID))
	assert.Contains(t, names, fmt.Sprintf("legajo_%d.xlsx", caseID))
	assert.Contains(t, names, "fotos/rostro.png")
}

func TestExportExcelEndpoint(t *testing.T) {
	app := newTestApp(t)
	token := operatorToken(t, app)
	createTestCase(t, app, token)

	detained := baseCasePayload()
	detained["expediente_number"] = "CFP 99/2023"
	detained["status"] = "DETENIDO"
	rec := app.request(http.MethodPost, "/api/cases/", token, detained)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = app.request(http.MethodGet, "/api/cases/export/excel?status=DETENIDO", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "legajos.xlsx")
	// xlsx files are zip containers
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))
}
