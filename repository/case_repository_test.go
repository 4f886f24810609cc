package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfi-sistemas/legajosbackend/models"
)

func testPerson(documentNumber string) *models.Person {
	return &models.Person{
		FirstName:      "Juan",
		LastName:       "Pérez",
		DocumentType:   "DNI",
		DocumentNumber: documentNumber,
		Nationality:    models.NationalityArgentina,
	}
}

func testCase() *models.Case {
	return &models.Case{
		ExpedienteNumber: "FLP 1234/2024",
		Caratula:         "PÉREZ, JUAN S/ ROBO AGRAVADO",
		Jurisdiction:     "FEDERAL",
		Status:           models.CaseStatusActiveWarrant,
		Reward:           models.RewardNo,
		RewardAmountStat: models.RewardAmountUnknown,
	}
}

func TestSaveWithPersonCreatesBoth(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCaseRepository(db)

	kase := testCase()
	person := testPerson("30123456")
	person.Emails = []models.PersonEmail{{Address: "juan@example.com", Label: "personal"}}

	require.NoError(t, repo.SaveWithPerson(kase, person))
	require.NotZero(t, kase.ID)
	require.NotZero(t, person.ID)

	loaded, err := repo.GetByID(kase.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Persons, 1)
	assert.Equal(t, "30123456", loaded.Persons[0].DocumentNumber)
	require.Len(t, loaded.Persons[0].Emails, 1)
	assert.Equal(t, "juan@example.com", loaded.Persons[0].Emails[0].Address)
}

func TestSaveWithPersonMatchesByDocumentNumber(t *testing.T) {
	db := newTestDB(t)
	caseRepo := NewGormCaseRepository(db)
	personRepo := NewGormPersonRepository(db)

	existing := testPerson("27999888")
	require.NoError(t, personRepo.Create(existing))

	kase := testCase()
	incoming := testPerson("27999888")
	incoming.FirstName = "Juan Carlos"

	require.NoError(t, caseRepo.SaveWithPerson(kase, incoming))
	assert.Equal(t, existing.ID, incoming.ID)

	var count int64
	require.NoError(t, db.Model(&models.Person{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "the incoming person should reuse the existing row")

	updated, err := personRepo.GetByID(existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Juan Carlos", updated.FirstName)
}

func TestSaveWithPersonReplacesSubDocuments(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCaseRepository(db)
	personRepo := NewGormPersonRepository(db)

	kase := testCase()
	person := testPerson("20555444")
	person.Phones = []models.PersonPhone{
		{Number: "+54 11 4444-1111", Label: "celular"},
		{Number: "+54 11 4444-2222", Label: "laboral"},
	}
	require.NoError(t, repo.SaveWithPerson(kase, person))

	replacement := testPerson("20555444")
	replacement.Phones = []models.PersonPhone{{Number: "+54 11 9999-0000", Label: "celular"}}
	kase.Caratula = "PÉREZ, JUAN S/ HOMICIDIO"
	require.NoError(t, repo.SaveWithPerson(kase, replacement))

	loaded, err := personRepo.GetByID(person.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Phones, 1)
	assert.Equal(t, "+54 11 9999-0000", loaded.Phones[0].Number)
	require.NotNil(t, loaded.Phone)
	assert.Equal(t, "+54 11 9999-0000", *loaded.Phone)
}

func TestSaveWithPersonReplacesJoin(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCaseRepository(db)

	kase := testCase()
	first := testPerson("11222333")
	require.NoError(t, repo.SaveWithPerson(kase, first))

	second := testPerson("44555666")
	require.NoError(t, repo.SaveWithPerson(kase, second))

	loaded, err := repo.GetByID(kase.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Persons, 1)
	assert.Equal(t, "44555666", loaded.Persons[0].DocumentNumber)
}

func TestSaveWithPersonUpdatePreservesCreatedAt(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCaseRepository(db)

	kase := testCase()
	require.NoError(t, repo.SaveWithPerson(kase, nil))
	created := kase.CreatedAt

	update := testCase()
	update.ID = kase.ID
	update.Status = models.CaseStatusDetained
	require.NoError(t, repo.SaveWithPerson(update, nil))

	loaded, err := repo.GetByID(kase.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusDetained, loaded.Status)
	assert.WithinDuration(t, created, loaded.CreatedAt, 0)
}

func TestDeleteWithMediaReturnsRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCaseRepository(db)
	mediaRepo := NewGormCaseMediaRepository(db)

	kase := testCase()
	require.NoError(t, repo.SaveWithPerson(kase, testPerson("33444555")))

	photo := &models.CaseMedia{CaseID: kase.ID, Kind: models.MediaKindPhoto, FilePath: "photos/1/a.jpg"}
	doc := &models.CaseMedia{CaseID: kase.ID, Kind: models.MediaKindDocument, FilePath: "documents/1/b.pdf"}
	require.NoError(t, mediaRepo.Create(photo))
	require.NoError(t, mediaRepo.Create(doc))

	deleted, err := repo.DeleteWithMedia(kase.ID)
	require.NoError(t, err)
	assert.Len(t, deleted, 2)

	_, err = repo.GetByID(kase.ID)
	assert.Error(t, err)

	var joins int64
	require.NoError(t, db.Model(&models.PersonCase{}).Where("case_id = ?", kase.ID).Count(&joins).Error)
	assert.Zero(t, joins)
}

func TestListFiltersByStatusAndQuery(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCaseRepository(db)

	active := testCase()
	active.Priority = 5
	require.NoError(t, repo.SaveWithPerson(active, testPerson("10111222")))

	detained := testCase()
	detained.ExpedienteNumber = "CFP 99/2023"
	detained.Caratula = "GÓMEZ, ANA S/ ESTAFA"
	detained.Status = models.CaseStatusDetained
	person := testPerson("20333444")
	person.FirstName = "Ana"
	person.LastName = "Gómez"
	require.NoError(t, repo.SaveWithPerson(detained, person))

	byStatus, err := repo.List(CaseFilter{Status: string(models.CaseStatusDetained)})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, detained.ID, byStatus[0].ID)

	byName, err := repo.List(CaseFilter{Query: "Gómez"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, detained.ID, byName[0].ID)

	byDocument, err := repo.List(CaseFilter{Query: "10111222"})
	require.NoError(t, err)
	require.Len(t, byDocument, 1)
	assert.Equal(t, active.ID, byDocument[0].ID)

	all, err := repo.List(CaseFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, active.ID, all[0].ID, "higher priority case lists first")
}
