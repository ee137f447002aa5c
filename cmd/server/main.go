package main

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"jyotikabilling/config"
	"jyotikabilling/db"
	"jyotikabilling/db/mongo"
	"jyotikabilling/db/postgres"
	"jyotikabilling/handlers"
	"jyotikabilling/repository"
	"jyotikabilling/routes"
	"jyotikabilling/utils"
)

func main() {
	logger := config.GetLogger()

	// Load config from .env or the environment
	cfg := config.LoadConfig()
	config.SetLogLevel(cfg.LogLevel)

	var billRepo repository.BillRepository
	var userRepo repository.UserRepository
	var clinicRepo repository.ClinicRepository

	switch db.DBType(cfg.DBType) {
	case db.Postgres:
		if err := db.RunMigrations(cfg.PostgresURL, cfg.MigrationsPath); err != nil {
			logger.WithError(err).Fatal("migrations failed")
		}

		pg := postgres.NewPostgresDB(cfg.PostgresURL)
		if err := pg.Connect(); err != nil {
			logger.WithError(err).Fatal("postgres connect failed")
		}
		defer pg.Disconnect()

		billRepo = repository.NewPostgresBillRepo(pg.Conn)
		userRepo = repository.NewPostgresUserRepo(pg.Conn)
		clinicRepo = repository.NewPostgresClinicRepo(pg.Conn)

	case db.Mongo:
		mg := mongo.NewMongoDB(cfg.MongoURL, cfg.MongoDatabase)
		if err := mg.Connect(); err != nil {
			logger.WithError(err).Fatal("mongo connect failed")
		}
		defer mg.Disconnect()

		billRepo = repository.NewMongoBillRepo(mg.Database)
		userRepo = repository.NewMongoUserRepo(mg.Database)
		clinicRepo = repository.NewMongoClinicRepo(mg.Database)

	case db.File:
		store, err := repository.OpenFileStore(cfg.DataFile)
		if err != nil {
			logger.WithError(err).Fatal("open data file failed")
		}

		billRepo = repository.NewFileBillRepo(store)
		userRepo = repository.NewFileUserRepo(store)
		clinicRepo = repository.NewFileClinicRepo(store)

	default:
		logger.WithField("db_type", cfg.DBType).Fatal("DB_TYPE not supported")
	}

	// printed header when no profile has been saved yet
	fallback, err := config.LoadClinicProfile(cfg.ClinicConfig)
	if err != nil {
		config.LogError(logger, "main", "main", "load clinic profile", cfg.ClinicConfig, err)
	}

	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenHours)
	invoices := repository.NewInvoiceRepository(billRepo, clinicRepo, fallback)

	// Handlers
	h := routes.Handlers{
		User:    &handlers.UserHandler{Repo: userRepo, Tokens: tokens},
		Bill:    &handlers.BillHandler{Repo: billRepo, Invoices: invoices},
		Invoice: &handlers.InvoiceHandler{Repo: invoices, SavePath: cfg.PDFSavePath},
		Clinic:  &handlers.ClinicHandler{Repo: clinicRepo, Invoices: invoices},
		Tokens:  tokens,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.WithFields(logrus.Fields{
		"port":    cfg.Port,
		"db_type": cfg.DBType,
		"r2":      utils.R2Configured(),
	}).Info("Server running")
	if err := srv.ListenAndServe(); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
