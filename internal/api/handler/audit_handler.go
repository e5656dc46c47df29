package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/library-system/internal/core/ports"
)

// AuditHandler exposes the read-only audit trail query surface.
type AuditHandler struct {
	service ports.AuditService
}

func NewAuditHandler(service ports.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List handles GET /audit-logs.
//
// @Summary      List audit entries
// @Tags         audit
// @Produce      json
// @Param        entity_type  query     string  false  "Filter by entity type (e.g. Loan)"
// @Param        entity_id    query     string  false  "Filter by entity id"
// @Param        user_id      query     string  false  "Filter by actor id"
// @Success      200          {array}   domain.AuditLog
// @Router       /audit-logs [get]
func (h *AuditHandler) List(c echo.Context) error {
	entries, err := h.service.List(c.Request().Context(), ports.AuditFilter{
		EntityType: c.QueryParam("entity_type"),
		EntityID:   c.QueryParam("entity_id"),
		UserID:     c.QueryParam("user_id"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// Get handles GET /audit-logs/:id.
//
// @Summary      Get a single audit entry
// @Tags         audit
// @Produce      json
// @Param        id   path      string  true  "Audit entry id"
// @Success      200  {object}  domain.AuditLog
// @Failure      404  {object}  errorResponse
// @Router       /audit-logs/{id} [get]
func (h *AuditHandler) Get(c echo.Context) error {
	entry, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entry)
}
