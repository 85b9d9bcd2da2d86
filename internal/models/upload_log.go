package models

import (
	"time"
)

// Upload statuses recorded in the audit log.
const (
	UploadStatusSuccess = "success"
	UploadStatusError   = "error"
)

// UploadLog is an append-only audit record of one ingestion event.
// It is never read back by the merge engine.
type UploadLog struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UploadDate   time.Time `gorm:"column:upload_date;not null" json:"upload_date"`
	SnapshotDate time.Time `gorm:"column:snapshot_date;not null" json:"snapshot_date"`
	Filename     string    `gorm:"column:filename;type:varchar(255);not null" json:"filename"`
	FileType     string    `gorm:"column:file_type;type:varchar(50);not null" json:"file_type"`
	RecordsCount int       `gorm:"column:records_count;default:0" json:"records_count"`
	Status       string    `gorm:"column:status;type:varchar(20);not null" json:"status"`
	ErrorMessage *string   `gorm:"column:error_message;type:varchar(500)" json:"error_message"`
}

func (UploadLog) TableName() string {
	return "upload_logs"
}
