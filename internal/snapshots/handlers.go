package snapshots

import (
	"folio-backend/internal/models"
	"folio-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles snapshot handlers.
type Handlers struct {
	Service *Service
}

// List GET /api/v1/snapshots?limit=12
func (h *Handlers) List(c *fiber.Ctx) error {
	data, err := h.Service.List(c.Context(), c.QueryInt("limit", 12))
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Snapshots fetched", data, nil)
}

// Trends GET /api/v1/snapshots/trends?limit=12
func (h *Handlers) Trends(c *fiber.Ctx) error {
	data, err := h.Service.Trends(c.Context(), c.QueryInt("limit", 12))
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Trends computed", data, nil)
}

// Delete DELETE /api/v1/snapshots/:date
func (h *Handlers) Delete(c *fiber.Ctx) error {
	date, err := models.ParseDate(c.Params("date"))
	if err != nil {
		return response.Error(c, "date must be YYYY-MM-DD", 400, nil)
	}
	if err := h.Service.Delete(c.Context(), date); err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Snapshot deleted", nil, nil)
}

// ClearAll DELETE /api/v1/snapshots
func (h *Handlers) ClearAll(c *fiber.Ctx) error {
	if c.Query("confirm") != "true" {
		return response.Error(c, "confirm=true is required to clear all data", 400, nil)
	}
	if err := h.Service.ClearAll(c.Context()); err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "All data cleared", nil, nil)
}
