package main

import (
	"context"
	"fmt"
	"log"

	"rcmbooks/internal/config"
	"rcmbooks/internal/detection"
	"rcmbooks/internal/email/noop"
	"rcmbooks/internal/email/ses"
	"rcmbooks/internal/handler"
	"rcmbooks/internal/lock"
	"rcmbooks/internal/port"
	"rcmbooks/internal/repository/postgres"
	"rcmbooks/internal/router"
	"rcmbooks/internal/rules"
	"rcmbooks/internal/service"
	s3storage "rcmbooks/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	regRepo := postgres.NewRegistrationRepo(db)
	userRepo := postgres.NewUserRepo(db)
	txRepo := postgres.NewTransactionRepo(db)
	eligRepo := postgres.NewEligibilityRepo(db)
	ruleRepo := postgres.NewRuleRepo(db)
	ledgerRepo := postgres.NewLedgerRepo(db)
	gstr2bRepo := postgres.NewGSTR2BRepo(db)
	reconRepo := postgres.NewReconciliationRepo(db)
	compRepo := postgres.NewComplianceRepo(db)
	periodRepo := postgres.NewPeriodRepo(db)

	// Notified-rule registry; fall back to the built-in schedule when the
	// rules table has not been seeded yet.
	notified, err := ruleRepo.LoadAll(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load notified rules: %w", err)
	}
	if len(notified) == 0 {
		log.Println("no notified rules in database, using built-in schedule")
		notified = rules.SeedRules()
	}
	registry := rules.NewRegistry(notified)
	foreign := detection.NewStaticForeignLookup(detection.KnownForeignSuppliers())
	detector := detection.NewDetector(registry, foreign)

	// Initialize infrastructure
	locker, err := lock.NewRedisLocker(&cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	var mailer port.EmailSender
	if cfg.Email.Provider == "ses" {
		mailer, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	} else {
		mailer = noop.NewNoopSender()
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, regRepo, cfg.JWT)
	ledgerSvc := service.NewLedgerService(ledgerRepo, locker, cfg.Redis.LockTTL)
	rcmSvc := service.NewRCMService(txRepo, eligRepo, regRepo, periodRepo, detector, ledgerSvc)
	reconSvc := service.NewReconciliationService(gstr2bRepo, reconRepo, txRepo, eligRepo, periodRepo, s3Client, cfg.S3.Bucket, cfg.S3.PresignExpiry)
	compSvc := service.NewComplianceService(compRepo, txRepo, regRepo, userRepo, mailer, cfg.Tax.InterestRatePercent)
	reportSvc := service.NewReportService(txRepo, eligRepo, regRepo, userRepo, periodRepo, s3Client, mailer, cfg.S3.Bucket, cfg.S3.PresignExpiry)
	registrationSvc := service.NewRegistrationService(regRepo, userRepo)
	userSvc := service.NewUserService(userRepo)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	registrationH := handler.NewRegistrationHandler(registrationSvc)
	userH := handler.NewUserHandler(userSvc)
	transactionH := handler.NewTransactionHandler(rcmSvc)
	ledgerH := handler.NewLedgerHandler(ledgerSvc, regRepo)
	reconciliationH := handler.NewReconciliationHandler(reconSvc)
	complianceH := handler.NewComplianceHandler(compSvc)
	reportH := handler.NewReportHandler(reportSvc, periodRepo)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(
		authSvc,
		cfg.CORS.AllowedOrigins,
		authH,
		registrationH,
		userH,
		transactionH,
		ledgerH,
		reconciliationH,
		complianceH,
		reportH,
		healthH,
	)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
