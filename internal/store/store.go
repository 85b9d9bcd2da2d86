package store

import (
	"context"
	"errors"
	"time"

	"folio-backend/internal/models"

	"gorm.io/gorm"
)

// ErrSnapshotExists is returned by WriteSnapshot when a snapshot row already
// exists for the date. The merge engine always deletes the stale snapshot
// before its caller writes a fresh one, so hitting this is a caller bug.
var ErrSnapshotExists = errors.New("snapshot already exists for date")

// Store is the data-access layer for holdings, snapshots, and the upload
// audit log. It holds no business rules; the merge engine composes these
// operations inside a transaction by wrapping the tx handle in a new Store.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// HoldingsAt returns holdings at the given date, optionally filtered by type.
func (s *Store) HoldingsAt(ctx context.Context, date time.Time, types ...models.HoldingType) ([]models.Holding, error) {
	q := s.db.WithContext(ctx).Where("snapshot_date = ?", models.Day(date))
	if len(types) > 0 {
		q = q.Where("type IN ?", types)
	}
	var holdings []models.Holding
	if err := q.Order("id").Find(&holdings).Error; err != nil {
		return nil, err
	}
	return holdings, nil
}

// LatestHoldings returns, per asset type, the holdings from that type's
// most-recently-dated snapshot. Types uploaded asynchronously can be
// "latest" at different dates.
//
// The latest date is resolved with an ordered row query rather than a
// max() aggregate: the sqlite driver loses the column's time type on
// aggregates and hands back a string.
func (s *Store) LatestHoldings(ctx context.Context) ([]models.Holding, error) {
	var out []models.Holding
	for _, t := range models.AllHoldingTypes() {
		var newest models.Holding
		err := s.db.WithContext(ctx).
			Where("type = ?", t).
			Order("snapshot_date desc").
			First(&newest).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		batch, err := s.HoldingsAt(ctx, newest.SnapshotDate, t)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

// WriteHoldings inserts a batch stamped with the given date. Any date already
// present on the records is overwritten; IDs are reset so records parsed from
// an earlier read cannot collide.
func (s *Store) WriteHoldings(ctx context.Context, date time.Time, batch []models.Holding) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}
	day := models.Day(date)
	rows := make([]models.Holding, len(batch))
	for i, h := range batch {
		h.ID = 0
		h.SnapshotDate = day
		rows[i] = h
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return 0, err
	}
	return len(rows), nil
}

// DeleteHoldings removes holdings at the date, scoped to the given types.
// An empty type list deletes every holding at the date.
func (s *Store) DeleteHoldings(ctx context.Context, date time.Time, types ...models.HoldingType) (int64, error) {
	q := s.db.WithContext(ctx).Where("snapshot_date = ?", models.Day(date))
	if len(types) > 0 {
		q = q.Where("type IN ?", types)
	}
	res := q.Delete(&models.Holding{})
	return res.RowsAffected, res.Error
}

// RedateHoldings moves every holding at from whose type is not in
// excludeTypes to the date to, and deletes the rest. Returns the number of
// holdings moved.
func (s *Store) RedateHoldings(ctx context.Context, from, to time.Time, excludeTypes []models.HoldingType) (int64, error) {
	fromDay, toDay := models.Day(from), models.Day(to)
	if len(excludeTypes) > 0 {
		if _, err := s.DeleteHoldings(ctx, fromDay, excludeTypes...); err != nil {
			return 0, err
		}
	}
	res := s.db.WithContext(ctx).Model(&models.Holding{}).
		Where("snapshot_date = ?", fromDay).
		Update("snapshot_date", toDay)
	return res.RowsAffected, res.Error
}

// SnapshotAt returns the snapshot for the date, or nil if none exists.
func (s *Store) SnapshotAt(ctx context.Context, date time.Time) (*models.Snapshot, error) {
	var snap models.Snapshot
	err := s.db.WithContext(ctx).Where("snapshot_date = ?", models.Day(date)).First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// LatestSnapshotDateIn returns the most recent snapshot date within
// [from, to), or ok=false when the window holds none. Resolved as an
// ordered row query; see LatestHoldings for why no max() aggregate.
func (s *Store) LatestSnapshotDateIn(ctx context.Context, from, to time.Time) (time.Time, bool, error) {
	var snap models.Snapshot
	err := s.db.WithContext(ctx).
		Where("snapshot_date >= ? AND snapshot_date < ?", models.Day(from), models.Day(to)).
		Order("snapshot_date desc").
		First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return models.Day(snap.SnapshotDate), true, nil
}

// WriteSnapshot inserts a snapshot row, failing with ErrSnapshotExists when
// one is already present for the date.
func (s *Store) WriteSnapshot(ctx context.Context, snap *models.Snapshot) error {
	snap.SnapshotDate = models.Day(snap.SnapshotDate)
	existing, err := s.SnapshotAt(ctx, snap.SnapshotDate)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrSnapshotExists
	}
	return s.db.WithContext(ctx).Create(snap).Error
}

// DeleteSnapshot removes the snapshot row for the date, if any.
func (s *Store) DeleteSnapshot(ctx context.Context, date time.Time) error {
	return s.db.WithContext(ctx).
		Where("snapshot_date = ?", models.Day(date)).
		Delete(&models.Snapshot{}).Error
}

// Snapshots returns up to limit snapshots, most recent first.
func (s *Store) Snapshots(ctx context.Context, limit int) ([]models.Snapshot, error) {
	var snaps []models.Snapshot
	err := s.db.WithContext(ctx).
		Order("snapshot_date desc").
		Limit(limit).
		Find(&snaps).Error
	return snaps, err
}

// DeleteSnapshotData removes a snapshot together with all holdings at its
// date, as one transaction.
func (s *Store) DeleteSnapshotData(ctx context.Context, date time.Time) error {
	day := models.Day(date)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("snapshot_date = ?", day).Delete(&models.Holding{}).Error; err != nil {
			return err
		}
		return tx.Where("snapshot_date = ?", day).Delete(&models.Snapshot{}).Error
	})
}

// ClearAll deletes all holdings, snapshots, and upload logs.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Holding{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&models.Snapshot{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.UploadLog{}).Error
	})
}

// LogUpload appends one audit entry for an ingestion event.
func (s *Store) LogUpload(ctx context.Context, entry *models.UploadLog) error {
	if entry.UploadDate.IsZero() {
		entry.UploadDate = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(entry).Error
}

// UploadLogs returns up to limit audit entries, most recent first.
func (s *Store) UploadLogs(ctx context.Context, limit int) ([]models.UploadLog, error) {
	var logs []models.UploadLog
	err := s.db.WithContext(ctx).
		Order("upload_date desc").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
