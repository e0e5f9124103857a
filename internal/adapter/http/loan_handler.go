package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	domainLoan "loan-ledger-service/internal/domain/loan"
	"loan-ledger-service/internal/usecase/loan"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type quoteReq struct {
	Principal    decimal.Decimal `json:"principal"     validate:"required,gt=0,dec2"`
	TermMonths   int             `json:"term_months"   validate:"required,gt=0,lte=600"`
	BaseRate     decimal.Decimal `json:"base_rate"     validate:"required,gt=0,lte=100,dec2"`
	CreditScore  int             `json:"credit_score"  validate:"required,gte=300,lte=850"`
	AnnualIncome decimal.Decimal `json:"annual_income" validate:"required,gt=0,dec2"`
}

func (r quoteReq) input() loan.QuoteInput {
	return loan.QuoteInput{
		Principal:    r.Principal,
		TermMonths:   r.TermMonths,
		BaseRate:     r.BaseRate,
		CreditScore:  r.CreditScore,
		AnnualIncome: r.AnnualIncome,
	}
}

type createLoanReq struct {
	BorrowerID string `json:"borrower_id" validate:"required,hex32"`
	quoteReq
}

// Quote prices a prospective loan without storing it.
func (h *LoanHandler) Quote(c echo.Context) error {
	var req quoteReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Quote(c.Request().Context(), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), loan.CreateLoanInput{
		BorrowerID: req.BorrowerID,
		QuoteInput: req.quoteReq.input(),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// ListLoans accepts optional borrower_id and status query filters.
func (h *LoanHandler) ListLoans(c echo.Context) error {
	f := domainLoan.Filter{
		BorrowerID: c.QueryParam("borrower_id"),
		Status:     domainLoan.Status(c.QueryParam("status")),
	}
	items, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *LoanHandler) Schedule(c echo.Context) error {
	dto, err := h.uc.Schedule(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Report(c echo.Context) error {
	dto, err := h.uc.Report(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
