package database

import (
	"time"

	"gorm.io/gorm"
)

// CallRepository handles call record database operations.
type CallRepository struct {
	db *gorm.DB
}

// NewCallRepository creates a new call repository.
func NewCallRepository(db *gorm.DB) *CallRepository {
	return &CallRepository{db: db}
}

// Create adds a new call record.
func (r *CallRepository) Create(c *CallRecord) error {
	return r.db.Create(c).Error
}

// GetRecent retrieves the most recent N call records.
func (r *CallRepository) GetRecent(limit int) ([]CallRecord, error) {
	var calls []CallRecord
	err := r.db.Order("start_time DESC").Limit(limit).Find(&calls).Error
	return calls, err
}

// GetRecentPaginated retrieves call records with pagination.
func (r *CallRepository) GetRecentPaginated(page, perPage int) ([]CallRecord, int64, error) {
	var calls []CallRecord
	var total int64

	if err := r.db.Model(&CallRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	err := r.db.Order("start_time DESC").
		Offset(offset).
		Limit(perPage).
		Find(&calls).Error

	return calls, total, err
}

// GetBySrcCallsign retrieves call records transmitted by a specific
// station.
func (r *CallRepository) GetBySrcCallsign(callsign string, limit int) ([]CallRecord, error) {
	var calls []CallRecord
	err := r.db.Where("src_callsign = ?", callsign).
		Order("start_time DESC").
		Limit(limit).
		Find(&calls).Error
	return calls, err
}

// GetByTimeRange retrieves call records within a time range.
func (r *CallRepository) GetByTimeRange(start, end time.Time, limit int) ([]CallRecord, error) {
	var calls []CallRecord
	err := r.db.Where("start_time BETWEEN ? AND ?", start, end).
		Order("start_time DESC").
		Limit(limit).
		Find(&calls).Error
	return calls, err
}

// DeleteOlderThan deletes call records older than the specified time.
func (r *CallRepository) DeleteOlderThan(before time.Time) (int64, error) {
	result := r.db.Where("start_time < ?", before).Delete(&CallRecord{})
	return result.RowsAffected, result.Error
}

// StationRepository handles heard-station database operations.
type StationRepository struct {
	db *gorm.DB
}

// NewStationRepository creates a new station repository.
func NewStationRepository(db *gorm.DB) *StationRepository {
	return &StationRepository{db: db}
}

// Heard upserts a station record, bumping its call count and last-heard
// timestamp.
func (r *StationRepository) Heard(callsign string, when time.Time) error {
	var st Station
	err := r.db.Where("callsign = ?", callsign).First(&st).Error
	if err == gorm.ErrRecordNotFound {
		st = Station{Callsign: callsign, LastHeard: when, CallCount: 1}
		return r.db.Create(&st).Error
	}
	if err != nil {
		return err
	}
	st.LastHeard = when
	st.CallCount++
	return r.db.Save(&st).Error
}

// GetByCallsign retrieves a station by its callsign.
func (r *StationRepository) GetByCallsign(callsign string) (*Station, error) {
	var st Station
	if err := r.db.Where("callsign = ?", callsign).First(&st).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

// Count returns the total number of distinct stations heard.
func (r *StationRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&Station{}).Count(&count).Error
	return count, err
}

// List retrieves all known stations ordered by most recently heard.
func (r *StationRepository) List() ([]Station, error) {
	var stations []Station
	err := r.db.Order("last_heard DESC").Find(&stations).Error
	return stations, err
}
