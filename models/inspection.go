package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Meter condition found during an inspection.
const (
	MeterNormal   = "normal"
	MeterFaulty   = "faulty"
	MeterTampered = "tampered"
	MeterNotFound = "not_found"
)

// Inspection represents one meter inspection form submission.
type Inspection struct {
	ReportBase
	MeterNumber     string   `gorm:"column:meter_number;size:30;not null;index" json:"meterNumber"`
	Reading         float64  `gorm:"column:reading;not null"                    json:"reading"`
	Status          string   `gorm:"column:status;size:20;not null;default:normal" json:"status"`
	Notes           string   `gorm:"column:notes"                               json:"notes,omitempty"`
	Photo           string   `gorm:"column:photo"                               json:"photo,omitempty"` // base64 data URL or /uploads path
	Latitude        *float64 `gorm:"column:latitude"                            json:"latitude,omitempty"`
	Longitude       *float64 `gorm:"column:longitude"                           json:"longitude,omitempty"`
	InspectorName   string   `gorm:"column:inspector_name;size:100"             json:"inspectorName"`
	InspectorRole   string   `gorm:"column:inspector_role;size:40"              json:"inspectorRole"`
	InspectorZone   string   `gorm:"column:inspector_zone;size:60"              json:"inspectorZone"`
	InspectorSector string   `gorm:"column:inspector_sector;size:60"            json:"inspectorSector"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index"          json:"-"`
}

func ValidMeterStatus(s string) bool {
	switch s {
	case MeterNormal, MeterFaulty, MeterTampered, MeterNotFound:
		return true
	}
	return false
}

// Validate checks the required form fields before the record is stored.
func (i *Inspection) Validate() error {
	if i.MeterNumber == "" {
		return errors.New("meter number is required")
	}
	if i.Reading < 0 {
		return errors.New("reading cannot be negative")
	}
	if i.Status == "" {
		i.Status = MeterNormal
	}
	if !ValidMeterStatus(i.Status) {
		return errors.New("invalid meter status")
	}
	return nil
}
