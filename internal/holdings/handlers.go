package holdings

import (
	"folio-backend/internal/models"
	"folio-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles holdings read handlers.
type Handlers struct {
	Service *Service
}

// Latest GET /api/v1/holdings/latest
func (h *Handlers) Latest(c *fiber.Ctx) error {
	data, err := h.Service.Latest(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Latest holdings fetched", data, nil)
}

// At GET /api/v1/holdings?date=YYYY-MM-DD
func (h *Handlers) At(c *fiber.Ctx) error {
	raw := c.Query("date")
	if raw == "" {
		return h.Latest(c)
	}
	date, err := models.ParseDate(raw)
	if err != nil {
		return response.Error(c, "date must be YYYY-MM-DD", 400, nil)
	}
	data, err := h.Service.At(c.Context(), date)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Holdings fetched", data, nil)
}

// Performers GET /api/v1/holdings/performers?n=5&order=top|bottom
func (h *Handlers) Performers(c *fiber.Ctx) error {
	n := c.QueryInt("n", 5)
	order := c.Query("order", "top")
	if order != "top" && order != "bottom" {
		return response.Error(c, "order must be top or bottom", 400, nil)
	}
	data, err := h.Service.Performers(c.Context(), n, order == "bottom")
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Performers fetched", data, nil)
}

// Allocation GET /api/v1/holdings/allocation
func (h *Handlers) Allocation(c *fiber.Ctx) error {
	data, err := h.Service.Allocation(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Asset allocation fetched", data, nil)
}
