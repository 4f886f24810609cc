package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dfi-sistemas/legajosbackend/config"
	"github.com/dfi-sistemas/legajosbackend/database"
	"github.com/dfi-sistemas/legajosbackend/media"
	"github.com/dfi-sistemas/legajosbackend/models"
	"github.com/dfi-sistemas/legajosbackend/repository"
)

// testApp wires the full API router against a throwaway database and media
// store, the same way main does.
type testApp struct {
	t        *testing.T
	db       *gorm.DB
	cfg      config.Config
	store    media.Store
	router   http.Handler
	userRepo repository.UserRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))

	cfg := config.Config{
		JWTSecret:        "test-secret",
		TokenExpiryHrs:   1,
		BcryptCost:       bcrypt.MinCost,
		MaxPhotoBytes:    5 * 1024 * 1024,
		MaxDocumentBytes: 15 * 1024 * 1024,
		ThumbnailMaxSize: 100,
	}

	store, err := media.NewLocalStorage(t.TempDir(), map[media.AssetType]string{
		media.AssetTypePhoto:     "photos",
		media.AssetTypeDocument:  "documents",
		media.AssetTypeThumbnail: "thumbnails",
	})
	require.NoError(t, err)

	log := zap.NewNop().Sugar()

	userRepo := repository.NewGormUserRepository(db)
	personRepo := repository.NewGormPersonRepository(db)
	caseRepo := repository.NewGormCaseRepository(db)
	mediaRepo := repository.NewGormCaseMediaRepository(db)
	sourceRepo := repository.NewGormSourceRepository(db)

	authHandler := NewAuthHandler(userRepo, cfg, log)
	userHandler := NewUserHandler(userRepo, cfg, log)
	personHandler := NewPersonHandler(personRepo, log)
	caseHandler := NewCaseHandler(caseRepo, store, log)
	caseMediaHandler := NewCaseMediaHandler(caseRepo, mediaRepo, store, cfg, log)
	sourceHandler := NewSourceHandler(sourceRepo, personRepo, log)
	exportHandler := NewExportHandler(caseRepo, store, log)

	authMW := AuthMiddleware([]byte(cfg.JWTSecret), userRepo)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMW)

			r.Get("/auth/me", authHandler.CurrentUser)
			r.Post("/auth/change-password", authHandler.ChangePassword)

			r.Route("/users", func(r chi.Router) {
				r.Use(RequireAdmin)
				r.Get("/", userHandler.ListUsers)
				r.Post("/", userHandler.CreateUser)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", userHandler.GetUser)
					r.Put("/", userHandler.UpdateUser)
					r.Delete("/", userHandler.DeleteUser)
				})
			})

			r.Route("/persons", func(r chi.Router) {
				r.Get("/", personHandler.ListPersons)
				r.With(RequireWriter).Post("/", personHandler.CreatePerson)
				r.Route("/{person_id}", func(r chi.Router) {
					r.Get("/", personHandler.GetPerson)
					r.With(RequireWriter).Put("/", personHandler.UpdatePerson)
					r.With(RequireWriter).Delete("/", personHandler.DeletePerson)
					r.Route("/source-records", func(r chi.Router) {
						r.Get("/", sourceHandler.ListPersonRecords)
						r.With(RequireWriter).Post("/", sourceHandler.CreatePersonRecord)
					})
				})
			})

			r.Route("/cases", func(r chi.Router) {
				r.Get("/", caseHandler.ListCases)
				r.With(RequireWriter).Post("/", caseHandler.CreateCase)
				r.Get("/export/excel", exportHandler.ExportExcel)
				r.Route("/{case_id}", func(r chi.Router) {
					r.Get("/", caseHandler.GetCase)
					r.With(RequireWriter).Put("/", caseHandler.UpdateCase)
					r.With(RequireWriter).Delete("/", caseHandler.DeleteCase)
					r.Get("/export/pdf", exportHandler.ExportPDF)
					r.Get("/export/zip", exportHandler.ExportZip)
					r.With(RequireWriter).Post("/photos", caseMediaHandler.UploadPhoto)
					r.With(RequireWriter).Put("/photos/{media_id}/primary", caseMediaHandler.SetPrimaryPhoto)
					r.With(RequireWriter).Post("/documents", caseMediaHandler.UploadDocument)
					r.Route("/media", func(r chi.Router) {
						r.Get("/", caseMediaHandler.ListMedia)
						r.Route("/{media_id}", func(r chi.Router) {
							r.With(RequireWriter).Put("/description", caseMediaHandler.UpdateDescription)
							r.With(RequireWriter).Delete("/", caseMediaHandler.DeleteMedia)
						})
					})
				})
			})

			r.Route("/sources", func(r chi.Router) {
				r.Get("/", sourceHandler.ListSources)
				r.With(RequireWriter).Post("/", sourceHandler.CreateSource)
				r.Route("/{source_id}", func(r chi.Router) {
					r.Get("/", sourceHandler.GetSource)
					r.With(RequireWriter).Put("/", sourceHandler.UpdateSource)
					r.With(RequireWriter).Delete("/", sourceHandler.DeleteSource)
				})
			})

			r.With(RequireWriter).Delete("/source-records/{record_id}", sourceHandler.DeleteRecord)

			r.Get("/uploads/*", UploadsServer(store, log))
		})
	})

	return &testApp{t: t, db: db, cfg: cfg, store: store, router: r, userRepo: userRepo}
}

func (a *testApp) createUser(email, password string, role models.Role, active bool) *models.User {
	a.t.Helper()
	user := &models.User{Name: "Test User", Email: email, Role: role, Active: active}
	require.NoError(a.t, user.SetPassword(password, a.cfg.BcryptCost))
	require.NoError(a.t, a.userRepo.Create(user))
	return user
}

// login authenticates through the real endpoint and returns the token.
func (a *testApp) login(email, password string) string {
	a.t.Helper()
	rec := a.request(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(a.t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())

	var resp LoginResponse
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func (a *testApp) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// multipartRequest uploads a single file part named "file".
func (a *testApp) multipartRequest(method, path, token, filename string, content []byte) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(a.t, err)
	_, err = part.Write(content)
	require.NoError(a.t, err)
	require.NoError(a.t, writer.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}
