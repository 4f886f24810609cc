package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfi-sistemas/legajosbackend/models"
)

func TestCreatePersonOrdersSubDocuments(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPersonRepository(db)

	person := testPerson("18777666")
	person.Emails = []models.PersonEmail{
		{Address: "primero@example.com"},
		{Address: "segundo@example.com"},
		{Address: "tercero@example.com"},
	}
	require.NoError(t, repo.Create(person))

	loaded, err := repo.GetByID(person.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Emails, 3)
	assert.Equal(t, "primero@example.com", loaded.Emails[0].Address)
	assert.Equal(t, "segundo@example.com", loaded.Emails[1].Address)
	assert.Equal(t, "tercero@example.com", loaded.Emails[2].Address)

	require.NotNil(t, loaded.Email)
	assert.Equal(t, "primero@example.com", *loaded.Email, "legacy field mirrors the first email")
}

func TestCreatePersonSinglePrincipalAddress(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPersonRepository(db)

	person := testPerson("25888999")
	person.Addresses = []models.PersonAddress{
		{Street: "Av. Rivadavia", Number: "1000", Principal: true},
		{Street: "Calle Falsa", Number: "123", Principal: true},
	}
	require.NoError(t, repo.Create(person))

	loaded, err := repo.GetByID(person.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Addresses, 2)
	assert.True(t, loaded.Addresses[0].Principal, "first flagged address wins")
	assert.False(t, loaded.Addresses[1].Principal)
}

func TestCreatePersonDefaultsPrincipalAddress(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPersonRepository(db)

	person := testPerson("31222111")
	person.Addresses = []models.PersonAddress{
		{Street: "San Martín", Number: "50"},
		{Street: "Belgrano", Number: "200"},
	}
	require.NoError(t, repo.Create(person))

	loaded, err := repo.GetByID(person.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Addresses[0].Principal)
}

func TestUpdatePersonClearsLegacyFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPersonRepository(db)

	person := testPerson("29000111")
	person.Phones = []models.PersonPhone{{Number: "+54 11 5555-0001"}}
	require.NoError(t, repo.Create(person))

	update := testPerson("29000111")
	update.ID = person.ID
	require.NoError(t, repo.Update(update))

	loaded, err := repo.GetByID(person.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Phones)
	assert.Nil(t, loaded.Phone, "legacy field clears when the list empties")
}

func TestDeletePersonRemovesDependents(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPersonRepository(db)
	sourceRepo := NewGormSourceRepository(db)

	person := testPerson("17555333")
	person.Emails = []models.PersonEmail{{Address: "borrar@example.com"}}
	require.NoError(t, repo.Create(person))

	source := &models.Source{Name: "Denuncia anónima"}
	require.NoError(t, sourceRepo.Create(source))
	record := &models.SourceRecord{PersonID: person.ID, SourceID: source.ID, Payload: "visto en Retiro"}
	require.NoError(t, sourceRepo.CreateRecord(record))

	require.NoError(t, repo.Delete(person.ID))

	_, err := repo.GetByID(person.ID)
	assert.Error(t, err)

	var emails int64
	require.NoError(t, db.Model(&models.PersonEmail{}).Where("person_id = ?", person.ID).Count(&emails).Error)
	assert.Zero(t, emails)

	records, err := sourceRepo.ListRecordsByPerson(person.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}
