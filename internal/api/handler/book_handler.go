package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/library-system/internal/core/ports"
)

// BookHandler handles HTTP requests for catalog management.
type BookHandler struct {
	service ports.BookService
}

func NewBookHandler(service ports.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// Create handles POST /books.
//
// @Summary      Add a book to the catalog
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        body  body      createBookRequest  true  "Book details"
// @Success      201   {object}  domain.Book
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /books [post]
func (h *BookHandler) Create(c echo.Context) error {
	var req createBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.service.CreateBook(c.Request().Context(), ports.CreateBookInput{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		TotalCopies: req.TotalCopies,
		IPAddress:   c.RealIP(),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, book)
}

// List handles GET /books.
//
// @Summary      List the catalog
// @Tags         books
// @Produce      json
// @Success      200  {array}  domain.Book
// @Router       /books [get]
func (h *BookHandler) List(c echo.Context) error {
	books, err := h.service.ListBooks(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

// Get handles GET /books/:id.
//
// @Summary      Get a book
// @Tags         books
// @Produce      json
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  domain.Book
// @Failure      404  {object}  errorResponse
// @Router       /books/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	book, err := h.service.GetBook(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, book)
}

// Update handles PATCH /books/:id.
//
// @Summary      Update a book (title, author, copy count delta)
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Book id"
// @Param        body  body      updateBookRequest  true  "Fields to change"
// @Success      200   {object}  domain.Book
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /books/{id} [patch]
func (h *BookHandler) Update(c echo.Context) error {
	var req updateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.service.UpdateBook(c.Request().Context(), ports.UpdateBookInput{
		BookID:    c.Param("id"),
		Title:     req.Title,
		Author:    req.Author,
		AddCopies: req.AddCopies,
		IPAddress: c.RealIP(),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, book)
}
