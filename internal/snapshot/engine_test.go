package snapshot

import (
	"context"
	"testing"
	"time"

	"folio-backend/internal/models"
	"folio-backend/internal/store"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupEngineTest(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Holding{}, &models.Snapshot{}))
	return &Engine{DB: db}, store.New(db)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func holding(typ models.HoldingType, name string, units, avgPrice, price float64) models.Holding {
	invested := units * avgPrice
	current := units * price
	h := models.Holding{
		Type:          typ,
		Name:          name,
		Units:         units,
		AvgPrice:      avgPrice,
		CurrentPrice:  price,
		InvestedValue: invested,
		CurrentValue:  current,
		UnrealizedPL:  current - invested,
	}
	if invested != 0 {
		h.UnrealizedPLPct = h.UnrealizedPL / invested * 100
	}
	return h
}

// saveSummary simulates the caller-side summarize-and-save handoff so the
// cross-table invariant can be checked after a merge.
func saveSummary(t *testing.T, st *store.Store, date time.Time) {
	t.Helper()
	ctx := context.Background()
	all, err := st.HoldingsAt(ctx, date)
	require.NoError(t, err)
	var total, invested, pl float64
	for _, h := range all {
		total += h.CurrentValue
		invested += h.InvestedValue
		pl += h.UnrealizedPL
	}
	require.NoError(t, st.WriteSnapshot(ctx, &models.Snapshot{
		SnapshotDate:  date,
		TotalValue:    total,
		TotalInvested: invested,
		TotalPL:       pl,
	}))
}

// Fresh store: a merge creates holdings at the upload date with no migration.
func TestMerge_EmptyStore(t *testing.T) {
	e, st := setupEngineTest(t)
	ctx := context.Background()

	res, err := e.Merge(ctx, day(2025, time.January, 15),
		[]models.Holding{holding(models.TypeStock, "Reliance", 10, 90, 100)},
		[]models.HoldingType{models.TypeStock})
	require.NoError(t, err)

	assert.Equal(t, 0, res.Migrated)
	assert.Equal(t, 1, res.New)
	assert.Equal(t, day(2025, time.January, 15), res.FinalDate)

	got, err := st.HoldingsAt(ctx, res.FinalDate)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1000.0, got[0].CurrentValue)
	assert.Equal(t, 900.0, got[0].InvestedValue)
	assert.Equal(t, 100.0, got[0].UnrealizedPL)
	assert.InDelta(t, 11.11, got[0].UnrealizedPLPct, 0.01)
}

// Uploading type A for a date that already has A and B replaces A and leaves
// B untouched.
func TestMerge_TypeIsolation(t *testing.T) {
	e, st := setupEngineTest(t)
	ctx := context.Background()
	date := day(2025, time.March, 10)

	_, err := e.Merge(ctx, date,
		[]models.Holding{
			holding(models.TypeStock, "Reliance", 10, 90, 100),
			holding(models.TypeMutualFund, "Index Fund", 50.5, 20, 22),
		},
		[]models.HoldingType{models.TypeStock, models.TypeMutualFund})
	require.NoError(t, err)
	saveSummary(t, st, date)

	res, err := e.Merge(ctx, date,
		[]models.Holding{
			holding(models.TypeStock, "TCS", 5, 300, 310),
			holding(models.TypeStock, "Infosys", 8, 140, 150),
		},
		[]models.HoldingType{models.TypeStock})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Migrated)
	assert.Equal(t, 2, res.New)
	assert.Equal(t, date, res.FinalDate)

	stocks, err := st.HoldingsAt(ctx, date, models.TypeStock)
	require.NoError(t, err)
	require.Len(t, stocks, 2)
	assert.Equal(t, "TCS", stocks[0].Name)
	assert.Equal(t, "Infosys", stocks[1].Name)

	funds, err := st.HoldingsAt(ctx, date, models.TypeMutualFund)
	require.NoError(t, err)
	require.Len(t, funds, 1)
	assert.Equal(t, "Index Fund", funds[0].Name)
	assert.Equal(t, 50.5*22, funds[0].CurrentValue)

	// Stale snapshot is gone; caller writes the fresh one.
	snap, err := st.SnapshotAt(ctx, date)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

// Existing snapshot at day 5 with types A and B, new upload at day 20
// covering A only: A replaced at day 20, B re-dated to day 20, nothing
// remains at day 5.
func TestMerge_SameMonthRedating(t *testing.T) {
	e, st := setupEngineTest(t)
	ctx := context.Background()
	old := day(2025, time.May, 5)
	newer := day(2025, time.May, 20)

	_, err := e.Merge(ctx, old,
		[]models.Holding{
			holding(models.TypeStock, "Reliance", 10, 90, 100),
			holding(models.TypeMutualFund, "Index Fund", 40, 25, 26),
			holding(models.TypeMutualFund, "Debt Fund", 30, 10, 10.5),
		},
		[]models.HoldingType{models.TypeStock, models.TypeMutualFund})
	require.NoError(t, err)
	saveSummary(t, st, old)

	res, err := e.Merge(ctx, newer,
		[]models.Holding{holding(models.TypeStock, "TCS", 5, 300, 310)},
		[]models.HoldingType{models.TypeStock})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Migrated)
	assert.Equal(t, 1, res.New)
	assert.Equal(t, newer, res.FinalDate)

	atOld, err := st.HoldingsAt(ctx, old)
	require.NoError(t, err)
	assert.Empty(t, atOld)

	oldSnap, err := st.SnapshotAt(ctx, old)
	require.NoError(t, err)
	assert.Nil(t, oldSnap)

	stocks, err := st.HoldingsAt(ctx, newer, models.TypeStock)
	require.NoError(t, err)
	require.Len(t, stocks, 1)
	assert.Equal(t, "TCS", stocks[0].Name)

	funds, err := st.HoldingsAt(ctx, newer, models.TypeMutualFund)
	require.NoError(t, err)
	assert.Len(t, funds, 2)
}

// An upload older than the existing snapshot in the month folds into the
// existing (later) date: the later date always wins.
func TestMerge_OlderUploadFoldsForward(t *testing.T) {
	e, st := setupEngineTest(t)
	ctx := context.Background()
	existing := day(2025, time.June, 25)

	_, err := e.Merge(ctx, existing,
		[]models.Holding{holding(models.TypeStock, "Reliance", 10, 90, 100)},
		[]models.HoldingType{models.TypeStock})
	require.NoError(t, err)
	saveSummary(t, st, existing)

	res, err := e.Merge(ctx, day(2025, time.June, 3),
		[]models.Holding{holding(models.TypeMutualFund, "Index Fund", 40, 25, 26)},
		[]models.HoldingType{models.TypeMutualFund})
	require.NoError(t, err)

	assert.Equal(t, existing, res.FinalDate)
	assert.Equal(t, 0, res.Migrated)

	all, err := st.HoldingsAt(ctx, existing)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// Re-uploading the identical batch leaves exactly one copy.
func TestMerge_IdempotentReupload(t *testing.T) {
	e, st := setupEngineTest(t)
	ctx := context.Background()
	date := day(2025, time.July, 31)
	batch := []models.Holding{
		holding(models.TypeStock, "Reliance", 10, 90, 100),
		holding(models.TypeStock, "TCS", 5, 300, 310),
	}
	covered := []models.HoldingType{models.TypeStock}

	_, err := e.Merge(ctx, date, batch, covered)
	require.NoError(t, err)
	saveSummary(t, st, date)

	res, err := e.Merge(ctx, date, batch, covered)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Migrated)
	assert.Equal(t, 2, res.New)

	all, err := st.HoldingsAt(ctx, date)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// A batch typed outside the covered set is rejected before any write.
func TestMerge_UncoveredTypeRejected(t *testing.T) {
	e, st := setupEngineTest(t)
	ctx := context.Background()

	_, err := e.Merge(ctx, day(2025, time.August, 1),
		[]models.Holding{
			holding(models.TypeStock, "Reliance", 10, 90, 100),
			holding(models.TypeCrypto, "stETH", 1.5, 0, 2000),
		},
		[]models.HoldingType{models.TypeStock})
	require.ErrorIs(t, err, ErrTypeNotCovered)

	all, err := st.HoldingsAt(ctx, day(2025, time.August, 1))
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMerge_EmptyCoveredTypesRejected(t *testing.T) {
	e, _ := setupEngineTest(t)

	_, err := e.Merge(context.Background(), day(2025, time.August, 1),
		[]models.Holding{holding(models.TypeStock, "Reliance", 10, 90, 100)},
		nil)
	require.ErrorIs(t, err, ErrNoCoveredTypes)
}

func TestMerge_InconsistentValuesRejected(t *testing.T) {
	e, _ := setupEngineTest(t)

	bad := holding(models.TypeStock, "Reliance", 10, 90, 100)
	bad.CurrentValue = 999 // disagrees with units*current_price beyond tolerance

	_, err := e.Merge(context.Background(), day(2025, time.August, 1),
		[]models.Holding{bad}, []models.HoldingType{models.TypeStock})
	require.ErrorIs(t, err, ErrInconsistentValues)
}

func TestMerge_MissingDateRejected(t *testing.T) {
	e, _ := setupEngineTest(t)

	_, err := e.Merge(context.Background(), time.Time{},
		[]models.Holding{holding(models.TypeStock, "Reliance", 10, 90, 100)},
		[]models.HoldingType{models.TypeStock})
	require.ErrorIs(t, err, ErrMissingDate)
}

// A merge authoritative for no types must leave every existing holding at
// the date untouched.
func TestMerge_EmptyCoveredLeavesHoldings(t *testing.T) {
	e, st := setupEngineTest(t)
	ctx := context.Background()
	date := day(2025, time.October, 8)

	_, err := e.Merge(ctx, date,
		[]models.Holding{
			holding(models.TypeStock, "Reliance", 10, 90, 100),
			holding(models.TypeMutualFund, "Index Fund", 40, 25, 26),
		},
		[]models.HoldingType{models.TypeStock, models.TypeMutualFund})
	require.NoError(t, err)
	saveSummary(t, st, date)

	res, err := e.Merge(ctx, date, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.New)
	assert.Equal(t, date, res.FinalDate)

	all, err := st.HoldingsAt(ctx, date)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// An empty batch with covered types wipes those types for the period.
func TestMerge_EmptyBatchClearsCoveredTypes(t *testing.T) {
	e, st := setupEngineTest(t)
	ctx := context.Background()
	date := day(2025, time.September, 12)

	_, err := e.Merge(ctx, date,
		[]models.Holding{
			holding(models.TypeStock, "Reliance", 10, 90, 100),
			holding(models.TypeMutualFund, "Index Fund", 40, 25, 26),
		},
		[]models.HoldingType{models.TypeStock, models.TypeMutualFund})
	require.NoError(t, err)
	saveSummary(t, st, date)

	res, err := e.Merge(ctx, date, nil, []models.HoldingType{models.TypeStock})
	require.NoError(t, err)
	assert.Equal(t, 0, res.New)

	all, err := st.HoldingsAt(ctx, date)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.TypeMutualFund, all[0].Type)
}
