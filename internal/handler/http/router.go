package http

import (
	"log/slog"
	"os"

	"github.com/ERPlora/commissions-backend-go/internal/handler/http/middleware"
	"github.com/ERPlora/commissions-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	JWTService jwt.Service,
	settingsHandler SettingsHandler,
	ruleHandler RuleHandler,
	transactionHandler TransactionHandler,
	payoutHandler PayoutHandler,
	adjustmentHandler AdjustmentHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "erplora-commissions"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/commissions", func(r chi.Router) {

				r.Route("/settings", func(r chi.Router) {
					r.Get("/", settingsHandler.GetSettings)

					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Put("/", settingsHandler.UpdateSettings)
					})
				})

				r.Route("/rules", func(r chi.Router) {
					r.Get("/", ruleHandler.ListRules)
					r.Get("/applicable", ruleHandler.ApplicableRules)
					r.Get("/{id}", ruleHandler.GetRule)

					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/", ruleHandler.CreateRule)
						r.Put("/{id}", ruleHandler.UpdateRule)
						r.Delete("/{id}", ruleHandler.DeleteRule)
						r.Post("/{id}/toggle", ruleHandler.ToggleRule)
					})
				})

				r.Post("/calculate", ruleHandler.Calculate)

				r.Route("/transactions", func(r chi.Router) {
					r.Get("/", transactionHandler.ListTransactions)
					r.Get("/{id}", transactionHandler.GetTransaction)

					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/", transactionHandler.CreateTransaction)
						r.Post("/{id}/approve", transactionHandler.ApproveTransaction)
						r.Post("/{id}/reject", transactionHandler.RejectTransaction)
						r.Post("/{id}/void", transactionHandler.VoidTransaction)
					})
				})

				r.Route("/payouts", func(r chi.Router) {
					r.Get("/", payoutHandler.ListPayouts)
					r.Get("/{id}", payoutHandler.GetPayout)

					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/", payoutHandler.CreatePayout)
						r.Post("/{id}/approve", payoutHandler.ApprovePayout)
						r.Post("/{id}/process", payoutHandler.ProcessPayout)
						r.Post("/{id}/cancel", payoutHandler.CancelPayout)
						r.Post("/{id}/recalculate", payoutHandler.RecalculatePayout)
					})
				})

				r.Route("/adjustments", func(r chi.Router) {
					r.Get("/", adjustmentHandler.ListAdjustments)
					r.Get("/{id}", adjustmentHandler.GetAdjustment)

					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/", adjustmentHandler.CreateAdjustment)
						r.Delete("/{id}", adjustmentHandler.DeleteAdjustment)
					})
				})

				r.Route("/reports", func(r chi.Router) {
					r.Get("/dashboard", reportHandler.GetDashboardStats)
					r.Get("/staff/{staffId}", reportHandler.GetStaffSummary)
					r.Get("/staff/{staffId}/unpaid-balance", reportHandler.GetUnpaidBalance)
				})
			})
		})
	})

	return r
}
