package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *LoanHandler) BorrowerSummary(c echo.Context) error {
	dto, err := h.uc.BorrowerSummary(c.Request().Context(), c.Param("borrower_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) PortfolioSummary(c echo.Context) error {
	dto, err := h.uc.PortfolioSummary(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
