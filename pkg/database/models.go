package database

import (
	"time"

	"gorm.io/gorm"
)

// CallRecord represents one recovered M17 transmission: an LSF lock
// through to its final stream frame.
type CallRecord struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	SrcCallsign       string    `gorm:"index;size:9" json:"src_callsign"`
	DstCallsign       string    `gorm:"index;size:9" json:"dst_callsign"`
	StartTime         time.Time `gorm:"index;not null" json:"start_time"`
	EndTime           time.Time `gorm:"not null" json:"end_time"`
	Duration          float64   `gorm:"not null" json:"duration"` // seconds
	FrameCount        int       `gorm:"default:0" json:"frame_count"`
	GolayCorrections  int       `gorm:"default:0" json:"golay_corrections"`
	CRCFailures       int       `gorm:"default:0" json:"crc_failures"`
	CTCSSToneHz       float64   `gorm:"default:0" json:"ctcss_tone_hz"`
	CreatedAt         time.Time `json:"created_at"`
}

// TableName specifies the table name for CallRecord.
func (CallRecord) TableName() string {
	return "call_records"
}

// BeforeCreate hook ensures timestamps are set.
func (c *CallRecord) BeforeCreate(tx *gorm.DB) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	if c.StartTime.IsZero() {
		c.StartTime = time.Now()
	}
	if c.EndTime.IsZero() {
		c.EndTime = time.Now()
	}
	return nil
}

// Station represents a remote station this modem has heard, keyed by its
// base-40 decoded callsign.
type Station struct {
	Callsign  string    `gorm:"primarykey;size:9" json:"callsign"`
	LastHeard time.Time `gorm:"index" json:"last_heard"`
	CallCount int       `gorm:"default:0" json:"call_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Station.
func (Station) TableName() string {
	return "stations"
}
