package models

import (
	"time"
)

// Known measurement series names. The legacy routes expose two independently
// named series over the same entry type.
const (
	SeriesLymph = "lymph"
	SeriesP2    = "p2"
)

// MeasurementEntry is a dated numeric observation appended to a case by a
// doctor, grouped into named series for charting. Entries are never edited
// or deleted.
type MeasurementEntry struct {
	BaseModel
	CaseID     string    `gorm:"size:36;index;not null" json:"caseId"`
	Series     string    `gorm:"size:50;index;not null" json:"series"`
	RecordedAt time.Time `gorm:"not null" json:"date"`
	Size       float64   `gorm:"not null" json:"size"`
	DoctorID   string    `gorm:"size:36;index" json:"doctorId"`

	Doctor User `gorm:"foreignKey:DoctorID" json:"-"`
}
