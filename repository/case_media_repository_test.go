package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfi-sistemas/legajosbackend/models"
)

func seedCase(t *testing.T, repo CaseRepository) *models.Case {
	t.Helper()
	kase := testCase()
	require.NoError(t, repo.SaveWithPerson(kase, nil))
	return kase
}

func TestFirstPhotoBecomesPrimary(t *testing.T) {
	db := newTestDB(t)
	caseRepo := NewGormCaseRepository(db)
	repo := NewGormCaseMediaRepository(db)
	kase := seedCase(t, caseRepo)

	first := &models.CaseMedia{CaseID: kase.ID, Kind: models.MediaKindPhoto, FilePath: "photos/1/a.jpg", UploadedAt: time.Now()}
	require.NoError(t, repo.Create(first))
	assert.True(t, first.IsPrimary)

	second := &models.CaseMedia{CaseID: kase.ID, Kind: models.MediaKindPhoto, FilePath: "photos/1/b.jpg", UploadedAt: time.Now()}
	require.NoError(t, repo.Create(second))
	assert.False(t, second.IsPrimary)
}

func TestDocumentNeverPrimary(t *testing.T) {
	db := newTestDB(t)
	caseRepo := NewGormCaseRepository(db)
	repo := NewGormCaseMediaRepository(db)
	kase := seedCase(t, caseRepo)

	doc := &models.CaseMedia{CaseID: kase.ID, Kind: models.MediaKindDocument, FilePath: "documents/1/a.pdf", IsPrimary: true}
	require.NoError(t, repo.Create(doc))
	assert.False(t, doc.IsPrimary)

	err := repo.SetPrimaryPhoto(kase.ID, doc.ID)
	assert.ErrorIs(t, err, ErrNotAPhoto)
}

func TestSetPrimaryPhotoFlipsExactlyOne(t *testing.T) {
	db := newTestDB(t)
	caseRepo := NewGormCaseRepository(db)
	repo := NewGormCaseMediaRepository(db)
	kase := seedCase(t, caseRepo)

	photos := make([]*models.CaseMedia, 3)
	for i := range photos {
		photos[i] = &models.CaseMedia{CaseID: kase.ID, Kind: models.MediaKindPhoto, FilePath: "photos/1/x.jpg", UploadedAt: time.Now()}
		require.NoError(t, repo.Create(photos[i]))
	}

	require.NoError(t, repo.SetPrimaryPhoto(kase.ID, photos[2].ID))

	items, err := repo.ListByCase(kase.ID)
	require.NoError(t, err)
	primaries := 0
	for _, m := range items {
		if m.IsPrimary {
			primaries++
			assert.Equal(t, photos[2].ID, m.ID)
		}
	}
	assert.Equal(t, 1, primaries)
}

func TestSetPrimaryPhotoWrongCase(t *testing.T) {
	db := newTestDB(t)
	caseRepo := NewGormCaseRepository(db)
	repo := NewGormCaseMediaRepository(db)
	kase := seedCase(t, caseRepo)
	other := seedCase(t, caseRepo)

	photo := &models.CaseMedia{CaseID: kase.ID, Kind: models.MediaKindPhoto, FilePath: "photos/1/a.jpg"}
	require.NoError(t, repo.Create(photo))

	err := repo.SetPrimaryPhoto(other.ID, photo.ID)
	assert.Error(t, err)
}

func TestDeletePrimaryPromotesOldestPhoto(t *testing.T) {
	db := newTestDB(t)
	caseRepo := NewGormCaseRepository(db)
	repo := NewGormCaseMediaRepository(db)
	kase := seedCase(t, caseRepo)

	base := time.Now()
	first := &models.CaseMedia{CaseID: kase.ID, Kind: models.MediaKindPhoto, FilePath: "photos/1/a.jpg", UploadedAt: base}
	second := &models.CaseMedia{CaseID: kase.ID, Kind: models.MediaKindPhoto, FilePath: "photos/1/b.jpg", UploadedAt: base.Add(time.Minute)}
	third := &models.CaseMedia{CaseID: kase.ID, Kind: models.MediaKindPhoto, FilePath: "photos/1/c.jpg", UploadedAt: base.Add(2 * time.Minute)}
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))
	require.NoError(t, repo.Create(third))

	deleted, err := repo.Delete(first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.FilePath, deleted.FilePath)

	promoted, err := repo.GetByID(second.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsPrimary, "oldest remaining photo inherits the primary flag")

	last, err := repo.GetByID(third.ID)
	require.NoError(t, err)
	assert.False(t, last.IsPrimary)
}

func TestDeleteNonPrimaryLeavesFlagAlone(t *testing.T) {
	db := newTestDB(t)
	caseRepo := NewGormCaseRepository(db)
	repo := NewGormCaseMediaRepository(db)
	kase := seedCase(t, caseRepo)

	first := &models.CaseMedia{CaseID: kase.ID, Kind: models.MediaKindPhoto, FilePath: "photos/1/a.jpg", UploadedAt: time.Now()}
	second := &models.CaseMedia{CaseID: kase.ID, Kind: models.MediaKindPhoto, FilePath: "photos/1/b.jpg", UploadedAt: time.Now().Add(time.Minute)}
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))

	_, err := repo.Delete(second.ID)
	require.NoError(t, err)

	still, err := repo.GetByID(first.ID)
	require.NoError(t, err)
	assert.True(t, still.IsPrimary)
}
