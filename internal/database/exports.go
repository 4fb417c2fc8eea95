package database

import (
	"fmt"

	"github.com/jinzhu/gorm"
)

// ExportRecord logs one generated weekly plan document
type ExportRecord struct {
	gorm.Model
	ExportID   string `gorm:"size:36;unique_index" json:"export_id"`
	Restaurant string `gorm:"size:32" json:"restaurant"`
	StartDate  string `gorm:"size:10" json:"start_date"`
	Weeks      int    `json:"weeks"`
	Days       int    `json:"days"`
	SizeBytes  int    `json:"size_bytes"`
	ArchiveKey string `json:"archive_key,omitempty"`
	ArchiveURL string `json:"archive_url,omitempty"`
}

// ExportRepository stores export records
type ExportRepository struct {
	db *gorm.DB
}

// NewExportRepository creates a repository on db
func NewExportRepository(db *gorm.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

// Create saves a new export record
func (r *ExportRepository) Create(rec *ExportRecord) error {
	if err := r.db.Create(rec).Error; err != nil {
		return fmt.Errorf("failed to save export record: %w", err)
	}
	return nil
}

// Recent returns the newest records first
func (r *ExportRepository) Recent(limit int) ([]ExportRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var recs []ExportRecord
	if err := r.db.Order("id desc").Limit(limit).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list export records: %w", err)
	}
	return recs, nil
}
