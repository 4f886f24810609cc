package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/dfi-sistemas/legajosbackend/config"
	"github.com/dfi-sistemas/legajosbackend/database"
	"github.com/dfi-sistemas/legajosbackend/handlers"
	"github.com/dfi-sistemas/legajosbackend/media"
	"github.com/dfi-sistemas/legajosbackend/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	storagePaths := []string{cfg.PhotosPath, cfg.DocumentsPath, cfg.ThumbsPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		if err := os.MkdirAll(p, 0755); err != nil {
			logger.Fatalw("failed to create storage directory", "path", p, "error", err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		logger.Fatalw("failed to initialize database", "error", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		logger.Fatalw("failed to run migrations", "error", err)
	}
	if cfg.SeedAdminEmail != "" && cfg.SeedAdminPass != "" {
		if err := database.EnsureAdminUser(db, cfg.SeedAdminName, cfg.SeedAdminEmail, cfg.SeedAdminPass, cfg.BcryptCost); err != nil {
			logger.Fatalw("failed to seed admin user", "error", err)
		}
	}

	mediaSubDirs := map[media.AssetType]string{
		media.AssetTypePhoto:     filepath.Base(cfg.PhotosPath),
		media.AssetTypeDocument:  filepath.Base(cfg.DocumentsPath),
		media.AssetTypeThumbnail: filepath.Base(cfg.ThumbsPath),
	}
	mediaStore, err := media.NewLocalStorage(cfg.UploadsPath, mediaSubDirs)
	if err != nil {
		logger.Fatalw("failed to initialize media store", "error", err)
	}

	userRepo := repository.NewGormUserRepository(db)
	personRepo := repository.NewGormPersonRepository(db)
	caseRepo := repository.NewGormCaseRepository(db)
	mediaRepo := repository.NewGormCaseMediaRepository(db)
	sourceRepo := repository.NewGormSourceRepository(db)

	authHandler := handlers.NewAuthHandler(userRepo, cfg, logger)
	userHandler := handlers.NewUserHandler(userRepo, cfg, logger)
	personHandler := handlers.NewPersonHandler(personRepo, logger)
	caseHandler := handlers.NewCaseHandler(caseRepo, mediaStore, logger)
	caseMediaHandler := handlers.NewCaseMediaHandler(caseRepo, mediaRepo, mediaStore, cfg, logger)
	sourceHandler := handlers.NewSourceHandler(sourceRepo, personRepo, logger)
	exportHandler := handlers.NewExportHandler(caseRepo, mediaStore, logger)

	corsOptions := cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handlers.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(corsHandler.Handler)

	authMW := handlers.AuthMiddleware([]byte(cfg.JWTSecret), userRepo)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMW)

			r.Get("/auth/me", authHandler.CurrentUser)
			r.Post("/auth/change-password", authHandler.ChangePassword)

			r.Route("/users", func(r chi.Router) {
				r.Use(handlers.RequireAdmin)
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
				r.With(handlers.RequireWriter).Post("/", personHandler.CreatePerson)
				r.Route("/{person_id}", func(r chi.Router) {
					r.Get("/", personHandler.GetPerson)
					r.With(handlers.RequireWriter).Put("/", personHandler.UpdatePerson)
					r.With(handlers.RequireWriter).Delete("/", personHandler.DeletePerson)
					r.Route("/source-records", func(r chi.Router) {
						r.Get("/", sourceHandler.ListPersonRecords)
						r.With(handlers.RequireWriter).Post("/", sourceHandler.CreatePersonRecord)
					})
				})
			})

			r.Route("/cases", func(r chi.Router) {
				r.Get("/", caseHandler.ListCases)
				r.With(handlers.RequireWriter).Post("/", caseHandler.CreateCase)
				r.Get("/export/excel", exportHandler.ExportExcel)
				r.Route("/{case_id}", func(r chi.Router) {
					r.Get("/", caseHandler.GetCase)
					r.With(handlers.RequireWriter).Put("/", caseHandler.UpdateCase)
					r.With(handlers.RequireWriter).Delete("/", caseHandler.DeleteCase)
					r.Get("/export/pdf", exportHandler.ExportPDF)
					r.Get("/export/zip", exportHandler.ExportZip)
					r.With(handlers.RequireWriter).Post("/photos", caseMediaHandler.UploadPhoto)
					r.With(handlers.RequireWriter).Put("/photos/{media_id}/primary", caseMediaHandler.SetPrimaryPhoto)
					r.With(handlers.RequireWriter).Post("/documents", caseMediaHandler.UploadDocument)
					r.Route("/media", func(r chi.Router) {
						r.Get("/", caseMediaHandler.ListMedia)
						r.Route("/{media_id}", func(r chi.Router) {
							r.With(handlers.RequireWriter).Put("/description", caseMediaHandler.UpdateDescription)
							r.With(handlers.RequireWriter).Delete("/", caseMediaHandler.DeleteMedia)
						})
					})
				})
			})

			r.Route("/sources", func(r chi.Router) {
				r.Get("/", sourceHandler.ListSources)
				r.With(handlers.RequireWriter).Post("/", sourceHandler.CreateSource)
				r.Route("/{source_id}", func(r chi.Router) {
					r.Get("/", sourceHandler.GetSource)
					r.With(handlers.RequireWriter).Put("/", sourceHandler.UpdateSource)
					r.With(handlers.RequireWriter).Delete("/", sourceHandler.DeleteSource)
				})
			})

			r.With(handlers.RequireWriter).Delete("/source-records/{record_id}", sourceHandler.DeleteRecord)

			r.Get("/uploads/*", handlers.UploadsServer(mediaStore, logger))
		})
	})

	if cfg.WebDistPath != "" {
		serveSPA(r, cfg.WebDistPath)
	}

	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Infow("starting server", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalw("server stopped", "error", err)
	}
}

// serveSPA serves the built frontend, falling back to index.html for any
// path the router does not know so client-side routing keeps working.
func serveSPA(r chi.Router, distPath string) {
	fileServer := http.FileServer(http.Dir(distPath))
	indexPath := filepath.Join(distPath, "index.html")

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		requested := filepath.Join(distPath, filepath.Clean("/"+req.URL.Path))
		if info, err := os.Stat(requested); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, req)
			return
		}
		http.ServeFile(w, req, indexPath)
	})
}
