package uploads

import (
	"errors"

	"folio-backend/internal/models"
	"folio-backend/internal/pkg/response"
	"folio-backend/internal/snapshot"
	"folio-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles upload handlers with the service.
type Handlers struct {
	Service *Service
}

type uploadRequest struct {
	AsOfDate     string           `json:"as_of_date"`
	CoveredTypes []string         `json:"covered_types"`
	Filename     string           `json:"filename"`
	FileType     string           `json:"file_type"`
	Holdings     []models.Holding `json:"holdings"`
}

// CommitBatch POST /api/v1/uploads/holdings
func (h *Handlers) CommitBatch(c *fiber.Ctx) error {
	var req uploadRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if req.AsOfDate == "" {
		return response.Error(c, "as_of_date is required", 400, nil)
	}
	date, err := models.ParseDate(req.AsOfDate)
	if err != nil {
		return response.Error(c, "as_of_date must be YYYY-MM-DD", 400, nil)
	}

	covered := make([]models.HoldingType, len(req.CoveredTypes))
	for i, t := range req.CoveredTypes {
		covered[i] = models.HoldingType(t)
	}

	res, err := h.Service.Commit(c.Context(), CommitInput{
		Date:         date,
		CoveredTypes: covered,
		Filename:     req.Filename,
		FileType:     req.FileType,
		Holdings:     req.Holdings,
	})
	if err != nil {
		switch {
		case isValidationErr(err):
			return response.Error(c, err.Error(), 400, nil)
		case errors.Is(err, store.ErrSnapshotExists):
			return response.Error(c, err.Error(), 409, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Holdings batch committed", res, nil)
}

// History GET /api/v1/uploads/history
func (h *Handlers) History(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	logs, err := h.Service.History(c.Context(), limit)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Upload history fetched", logs, nil)
}

func isValidationErr(err error) bool {
	return errors.Is(err, snapshot.ErrMissingDate) ||
		errors.Is(err, snapshot.ErrNoCoveredTypes) ||
		errors.Is(err, snapshot.ErrUnknownType) ||
		errors.Is(err, snapshot.ErrTypeNotCovered) ||
		errors.Is(err, snapshot.ErrInconsistentValues)
}
