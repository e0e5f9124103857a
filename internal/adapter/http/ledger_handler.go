package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"loan-ledger-service/internal/usecase/ledger"
)

type LedgerHandler struct{ uc *ledger.Usecase }

func NewLedgerHandler(uc *ledger.Usecase) *LedgerHandler { return &LedgerHandler{uc: uc} }

type paymentReq struct {
	Amount   decimal.Decimal `json:"amount"   validate:"required,gt=0,dec2"`
	Category string          `json:"category" validate:"omitempty,oneof=EMI Prepayment"`
}

func (h *LedgerHandler) RecordPayment(c echo.Context) error {
	var req paymentReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.RecordPayment(c.Request().Context(), ledger.PaymentInput{
		LoanID:   c.Param("loan_id"),
		Amount:   req.Amount,
		Category: req.Category,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// AddPenalty and AddRefund take no body; the amounts come from configuration.
func (h *LedgerHandler) AddPenalty(c echo.Context) error {
	dto, err := h.uc.AddPenalty(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LedgerHandler) AddRefund(c echo.Context) error {
	dto, err := h.uc.AddRefund(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LedgerHandler) Ledger(c echo.Context) error {
	dto, err := h.uc.Ledger(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
