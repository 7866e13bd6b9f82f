// Package datastore saves analysis outcomes to a relational store through
// GORM, with SQLite and MySQL backends selected by configuration.
package datastore

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/solarscan/solarscan-go/internal/conf"
	"github.com/solarscan/solarscan-go/internal/errors"
)

// Interface is the persistence boundary used by the analysis pipelines.
type Interface interface {
	Open() error
	Close() error
	SavePanelImageReport(report *PanelImageReport) error
	SavePerformanceRecord(record *PerformanceRecord) error
	GetPanelImageReports(panelID, limit int) ([]PanelImageReport, error)
	GetPerformanceRecords(panelID, limit int) ([]PerformanceRecord, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB
}

// New creates a store for whichever backend is enabled in settings, or nil
// when persistence is disabled.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{Settings: settings}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{Settings: settings}
	default:
		return nil
	}
}

// SavePanelImageReport inserts a damage analysis record.
func (ds *DataStore) SavePanelImageReport(report *PanelImageReport) error {
	if ds.DB == nil {
		return errors.Newf("database connection is not initialized").
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	if err := ds.DB.Create(report).Error; err != nil {
		return errors.New(fmt.Errorf("saving panel image report: %w", err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("panel_id", report.PanelID).
			Build()
	}
	return nil
}

// SavePerformanceRecord inserts a performance analysis record.
func (ds *DataStore) SavePerformanceRecord(record *PerformanceRecord) error {
	if ds.DB == nil {
		return errors.Newf("database connection is not initialized").
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	if err := ds.DB.Create(record).Error; err != nil {
		return errors.New(fmt.Errorf("saving performance record: %w", err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("panel_id", record.PanelID).
			Build()
	}
	return nil
}

// GetPanelImageReports returns the most recent damage records for a panel,
// newest first.
func (ds *DataStore) GetPanelImageReports(panelID, limit int) ([]PanelImageReport, error) {
	var reports []PanelImageReport
	err := ds.DB.Where("panel_id = ?", panelID).
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, errors.New(fmt.Errorf("querying panel image reports: %w", err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("panel_id", panelID).
			Build()
	}
	return reports, nil
}

// GetPerformanceRecords returns the most recent performance records for a
// panel, newest first.
func (ds *DataStore) GetPerformanceRecords(panelID, limit int) ([]PerformanceRecord, error) {
	var records []PerformanceRecord
	err := ds.DB.Where("panel_id = ?", panelID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, errors.New(fmt.Errorf("querying performance records: %w", err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("panel_id", panelID).
			Build()
	}
	return records, nil
}
