package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/library-system/internal/core/ports"
)

// LoanHandler handles HTTP requests for the loan lifecycle.
type LoanHandler struct {
	service ports.LoanService
}

func NewLoanHandler(service ports.LoanService) *LoanHandler {
	return &LoanHandler{service: service}
}

// Create handles POST /loans.
//
// @Summary      Borrow a book
// @Tags         loans
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string             false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createLoanRequest  true   "Loan details"
// @Success      201              {object}  createLoanResponse
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /loans [post]
func (h *LoanHandler) Create(c echo.Context) error {
	var req createLoanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.CreateLoan(c.Request().Context(), ports.CreateLoanInput{
		UserID:         req.UserID,
		BookID:         req.BookID,
		ActorID:        req.UserID,
		IPAddress:      c.RealIP(),
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, createLoanResponse{
		Loan:           result.Loan,
		AlreadyExisted: result.AlreadyExisted,
	})
}

// List handles GET /loans.
//
// @Summary      List all loans
// @Tags         loans
// @Produce      json
// @Success      200  {array}  domain.Loan
// @Router       /loans [get]
func (h *LoanHandler) List(c echo.Context) error {
	loans, err := h.service.ListLoans(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loans)
}

// Get handles GET /loans/:id.
//
// @Summary      Get a loan
// @Tags         loans
// @Produce      json
// @Param        id   path      string  true  "Loan id"
// @Success      200  {object}  domain.Loan
// @Failure      404  {object}  errorResponse
// @Router       /loans/{id} [get]
func (h *LoanHandler) Get(c echo.Context) error {
	loan, err := h.service.GetLoan(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loan)
}

// Return handles PATCH /loans/:id/return.
//
// @Summary      Return a borrowed book
// @Tags         loans
// @Produce      json
// @Param        id   path      string  true  "Loan id"
// @Success      200  {object}  returnLoanResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /loans/{id}/return [patch]
func (h *LoanHandler) Return(c echo.Context) error {
	result, err := h.service.ReturnLoan(c.Request().Context(), ports.ReturnLoanInput{
		LoanID:    c.Param("id"),
		IPAddress: c.RealIP(),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, returnLoanResponse{
		LoanID:      result.Loan.ID,
		ReturnDate:  *result.Loan.ReturnDate,
		Fine:        result.Fine,
		IsOverdue:   result.IsOverdue,
		DaysOverdue: result.DaysOverdue,
	})
}

// ListOverdue handles GET /loans/overdue.
//
// @Summary      List currently overdue loans
// @Tags         loans
// @Produce      json
// @Success      200  {object}  listOverdueResponse
// @Router       /loans/overdue [get]
func (h *LoanHandler) ListOverdue(c echo.Context) error {
	entries, err := h.service.ListOverdue(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return err
	}

	overdue := make([]overdueLoanResponse, 0, len(entries))
	for _, e := range entries {
		overdue = append(overdue, overdueLoanResponse{
			ID:            e.Loan.ID,
			UserID:        e.Loan.UserID,
			BookID:        e.Loan.BookID,
			LoanDate:      e.Loan.LoanDate,
			DueDate:       e.Loan.DueDate,
			DaysOverdue:   e.DaysOverdue,
			PotentialFine: e.PotentialFine,
		})
	}

	return c.JSON(http.StatusOK, listOverdueResponse{
		Count:        len(overdue),
		OverdueLoans: overdue,
	})
}
