package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfi-sistemas/legajosbackend/models"
)

func basePersonPayload() map[string]interface{} {
	return map[string]interface{}{
		"first_name":      "Juan",
		"last_name":       "Pérez",
		"document_number": "30123456",
	}
}

func TestCreatePersonDefaults(t *testing.T) {
	app := newTestApp(t)
	token := operatorToken(t, app)

	rec := app.request(http.MethodPost, "/api/persons/", token, basePersonPayload())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Person
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "DNI", created.DocumentType)
	assert.Equal(t, models.NationalityArgentina, created.Nationality)
}

func TestCreatePersonDuplicateDocument(t *testing.T) {
	app := newTestApp(t)
	token := operatorToken(t, app)

	rec := app.request(http.MethodPost, "/api/persons/", token, basePersonPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = app.request(http.MethodPost, "/api/persons/", token, basePersonPayload())
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreatePersonBirthDateFormat(t *testing.T) {
	app := newTestApp(t)
	token := operatorToken(t, app)

	payload := basePersonPayload()
	payload["birth_date"] = "15/03/1985"
	rec := app.request(http.MethodPost, "/api/persons/", token, payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	payload["birth_date"] = "1985-03-15"
	rec = app.request(http.MethodPost, "/api/persons/", token, payload)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestUpdatePersonReplacesContactLists(t *testing.T) {
	app := newTestApp(t)
	token := operatorToken(t, app)

	payload := basePersonPayload()
	payload["phones"] = []map[string]string{
		{"number": "+54 11 4444-1111", "label": "celular"},
		{"number": "+54 11 4444-2222", "label": "laboral"},
	}
	rec := app.request(http.MethodPost, "/api/persons/", token, payload)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Person
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	payload["phones"] = []map[string]string{{"number": "+54 11 9999-0000"}}
	rec = app.request(http.MethodPut, fmt.Sprintf("/api/persons/%d/", created.ID), token, payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.Person
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Len(t, updated.Phones, 1)
	assert.Equal(t, "+54 11 9999-0000", updated.Phones[0].Number)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "+54 11 9999-0000", *updated.Phone)
}

func TestPersonEmailValidation(t *testing.T) {
	app := newTestApp(t)
	token := operatorToken(t, app)

	payload := basePersonPayload()
	payload["emails"] = []map[string]string{{"address": "no-es-un-mail"}}
	rec := app.request(http.MethodPost, "/api/persons/", token, payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeletePerson(t *testing.T) {
	app := newTestApp(t)
	token := operatorToken(t, app)

	rec := app.request(http.MethodPost, "/api/persons/", token, basePersonPayload())
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Person
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = app.request(http.MethodDelete, fmt.Sprintf("/api/persons/%d/", created.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.request(http.MethodGet, fmt.Sprintf("/api/persons/%d/", created.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
