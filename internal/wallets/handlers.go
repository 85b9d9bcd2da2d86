package wallets

import (
	"errors"

	"folio-backend/internal/pkg/response"
	"folio-backend/internal/snapshot"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles wallet handlers.
type Handlers struct {
	Service *Service
}

type addWalletRequest struct {
	Address string   `json:"address"`
	Label   string   `json:"label"`
	Chains  []string `json:"chains"`
}

// Add POST /api/v1/wallets
func (h *Handlers) Add(c *fiber.Ctx) error {
	var req addWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	wallet, err := h.Service.Add(c.Context(), req.Address, req.Label, req.Chains)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAddress):
			return response.Error(c, err.Error(), 400, nil)
		case errors.Is(err, ErrWalletExists):
			return response.Error(c, err.Error(), 409, nil)
		case err.Error() == "label is required":
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.SuccessCreated(c, "Wallet added", wallet, nil)
}

// List GET /api/v1/wallets
func (h *Handlers) List(c *fiber.Ctx) error {
	wallets, err := h.Service.List(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Wallets fetched", wallets, nil)
}

// Delete DELETE /api/v1/wallets/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.Error(c, "Invalid wallet id", 400, nil)
	}
	if err := h.Service.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, ErrWalletNotFound) {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Wallet removed", nil, nil)
}

// Scan POST /api/v1/wallets/:id/scan
func (h *Handlers) Scan(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.Error(c, "Invalid wallet id", 400, nil)
	}
	res, err := h.Service.Scan(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, ErrWalletNotFound):
			return response.Error(c, err.Error(), 404, nil)
		case errors.Is(err, ErrSourceUnconfigured):
			return response.Error(c, err.Error(), 503, nil)
		case errors.Is(err, snapshot.ErrInconsistentValues),
			errors.Is(err, snapshot.ErrTypeNotCovered),
			errors.Is(err, snapshot.ErrUnknownType):
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Wallet scanned", res, nil)
}
