package snapshot

import (
	"errors"
	"fmt"

	"folio-backend/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Validation failures. Handlers map these to 400 via errors.Is.
var (
	ErrMissingDate        = errors.New("snapshot date is required")
	ErrNoCoveredTypes     = errors.New("covered types are required for a non-empty batch")
	ErrUnknownType        = errors.New("unknown holding type")
	ErrTypeNotCovered     = errors.New("holding type is not in covered types")
	ErrInconsistentValues = errors.New("holding values are inconsistent")
)

// valueTolerance absorbs upstream rounding in broker exports.
var valueTolerance = decimal.NewFromFloat(0.05)

// validateBatch rejects batches that could corrupt the holdings/snapshot
// invariant: a holding typed outside the covered set has ambiguous ownership,
// and a current_value that disagrees with units*current_price beyond
// tolerance means the parser produced garbage. Disagreements in the stored
// P&L are logged as warnings only; the stored P&L stays authoritative.
func validateBatch(batch []models.Holding, covered []models.HoldingType) error {
	if len(batch) > 0 && len(covered) == 0 {
		return ErrNoCoveredTypes
	}
	coveredSet := make(map[models.HoldingType]bool, len(covered))
	for _, t := range covered {
		if !t.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownType, t)
		}
		coveredSet[t] = true
	}
	for i, h := range batch {
		if !h.Type.Valid() {
			return fmt.Errorf("holding %d (%s): %w: %q", i, h.Name, ErrUnknownType, h.Type)
		}
		if !coveredSet[h.Type] {
			return fmt.Errorf("holding %d (%s): %w: %q", i, h.Name, ErrTypeNotCovered, h.Type)
		}
		if h.Name == "" {
			return fmt.Errorf("holding %d: %w: name is required", i, ErrInconsistentValues)
		}
		if err := checkValues(i, h); err != nil {
			return err
		}
	}
	return nil
}

func checkValues(i int, h models.Holding) error {
	units := decimal.NewFromFloat(h.Units)
	price := decimal.NewFromFloat(h.CurrentPrice)
	current := decimal.NewFromFloat(h.CurrentValue)
	invested := decimal.NewFromFloat(h.InvestedValue)
	pl := decimal.NewFromFloat(h.UnrealizedPL)

	if diff := units.Mul(price).Sub(current).Abs(); diff.GreaterThan(valueTolerance) {
		return fmt.Errorf("holding %d (%s): %w: current_value %s != units*current_price %s",
			i, h.Name, ErrInconsistentValues, current, units.Mul(price))
	}

	// Stored P&L is authoritative; recomputation mismatches are surfaced but
	// never block a merge (upstream rounding, externally-priced free positions).
	if invested.IsZero() {
		if !pl.IsZero() {
			log.Warn().Str("holding", h.Name).Float64("unrealized_pl", h.UnrealizedPL).
				Msg("nonzero P&L on holding with zero invested value")
		}
		return nil
	}
	if diff := current.Sub(invested).Sub(pl).Abs(); diff.GreaterThan(valueTolerance) {
		log.Warn().Str("holding", h.Name).
			Float64("stored_pl", h.UnrealizedPL).
			Float64("recomputed_pl", h.CurrentValue-h.InvestedValue).
			Msg("stored P&L disagrees with current_value - invested_value")
	}
	return nil
}
