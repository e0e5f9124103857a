package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"loan-ledger-service/internal/usecase/decision"
)

type DecisionHandler struct{ uc *decision.Usecase }

func NewDecisionHandler(uc *decision.Usecase) *DecisionHandler { return &DecisionHandler{uc: uc} }

type decideReq struct {
	DecidedBy string `json:"decided_by" validate:"required,hex32"`
	Note      string `json:"note"       validate:"max=500"`
	// Accept canonical date `YYYY-MM-DD`; empty means today.
	DecidedAt string `json:"decided_at" validate:"omitempty,datetime=2006-01-02"`
}

func (h *DecisionHandler) Approve(c echo.Context) error {
	return h.decide(c, h.uc.Approve)
}

func (h *DecisionHandler) Reject(c echo.Context) error {
	return h.decide(c, h.uc.Reject)
}

func (h *DecisionHandler) decide(c echo.Context, fn func(context.Context, decision.DecideInput) (*decision.DecisionDTO, error)) error {
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	var req decideReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	in := decision.DecideInput{LoanID: loanID, DecidedBy: req.DecidedBy, Note: req.Note}
	if req.DecidedAt != "" {
		// already checked by the datetime tag
		in.DecidedAt, _ = time.Parse(time.DateOnly, req.DecidedAt)
	}
	dto, err := fn(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
