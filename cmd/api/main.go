package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ERPlora/commissions-backend-go/internal/config"
	appHTTP "github.com/ERPlora/commissions-backend-go/internal/handler/http"
	"github.com/ERPlora/commissions-backend-go/internal/pkg/database"
	"github.com/ERPlora/commissions-backend-go/internal/pkg/jwt"
	"github.com/ERPlora/commissions-backend-go/internal/repository/postgresql"
	adjustmentService "github.com/ERPlora/commissions-backend-go/internal/service/adjustment"
	payoutService "github.com/ERPlora/commissions-backend-go/internal/service/payout"
	reportService "github.com/ERPlora/commissions-backend-go/internal/service/report"
	ruleService "github.com/ERPlora/commissions-backend-go/internal/service/rule"
	settingsService "github.com/ERPlora/commissions-backend-go/internal/service/settings"
	transactionService "github.com/ERPlora/commissions-backend-go/internal/service/transaction"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(context.Background(), dsn, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	settingsRepo := postgresql.NewSettingsRepository(db)
	ruleRepo := postgresql.NewRuleRepository(db)
	transactionRepo := postgresql.NewTransactionRepository(db)
	payoutRepo := postgresql.NewPayoutRepository(db)
	adjustmentRepo := postgresql.NewAdjustmentRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	staffRepo := postgresql.NewStaffRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)

	settingsSvc := settingsService.NewSettingsService(settingsRepo)
	ruleSvc := ruleService.NewRuleService(ruleRepo, settingsRepo)
	transactionSvc := transactionService.NewTransactionService(transactionRepo, staffRepo, settingsRepo)
	payoutSvc := payoutService.NewPayoutService(postgresql.NewTxRunner(db), payoutRepo, staffRepo, settingsRepo)
	adjustmentSvc := adjustmentService.NewAdjustmentService(adjustmentRepo, staffRepo)
	reportSvc := reportService.NewReportService(reportRepo, staffRepo)

	settingsHandler := appHTTP.NewSettingsHandler(settingsSvc)
	ruleHandler := appHTTP.NewRuleHandler(ruleSvc)
	transactionHandler := appHTTP.NewTransactionHandler(transactionSvc)
	payoutHandler := appHTTP.NewPayoutHandler(payoutSvc)
	adjustmentHandler := appHTTP.NewAdjustmentHandler(adjustmentSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		JWTService,
		settingsHandler,
		ruleHandler,
		transactionHandler,
		payoutHandler,
		adjustmentHandler,
		reportHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
