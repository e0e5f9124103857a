package http

import "github.com/labstack/echo/v4"

type Handlers struct {
	Health    *Handler
	Loans     *LoanHandler
	Decisions *DecisionHandler
	Ledger    *LedgerHandler
}

// Register mounts every route on e. mutating wraps the POST routes that change
// state (idempotency, rate limiting); quotes are read-only and skip it.
func Register(e *echo.Echo, h Handlers, mutating ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	loans := e.Group("/loans")
	loans.POST("/quote", h.Loans.Quote)
	loans.POST("", h.Loans.CreateLoan, mutating...)
	loans.GET("", h.Loans.ListLoans)
	loans.GET("/:loan_id", h.Loans.GetLoan)
	loans.GET("/:loan_id/schedule", h.Loans.Schedule)
	loans.GET("/:loan_id/report", h.Loans.Report)

	loans.POST("/:loan_id/approve", h.Decisions.Approve, mutating...)
	loans.POST("/:loan_id/reject", h.Decisions.Reject, mutating...)

	loans.POST("/:loan_id/payments", h.Ledger.RecordPayment, mutating...)
	loans.POST("/:loan_id/penalties", h.Ledger.AddPenalty, mutating...)
	loans.POST("/:loan_id/refunds", h.Ledger.AddRefund, mutating...)
	loans.GET("/:loan_id/ledger", h.Ledger.Ledger)

	e.GET("/borrowers/:borrower_id/summary", h.Loans.BorrowerSummary)
	e.GET("/portfolio/summary", h.Loans.PortfolioSummary)
}
