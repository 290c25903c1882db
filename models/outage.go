package models

import (
	"errors"
	"slices"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Feeders in the Kakamega region; "Others" covers anything unlisted.
var FeederOptions = []string{
	"Kakamega Town", "Matende", "Eregi", "Malaha", "Malava", "Mumias",
	"Shinyalu", "Ex-Chavakali", "Bukhungu", "Lubao", "Others",
}

var CauseOptions = []string{
	"Equipment Failure", "Tree Contact", "Vehicle Accident", "Weather",
	"Animal Contact", "Construction Damage", "Unknown",
}

// Outage represents one power outage report.
type Outage struct {
	ReportBase
	Area              string         `gorm:"column:area;size:100;not null"        json:"area"`
	Feeder            string         `gorm:"column:feeder;size:60;not null"       json:"feeder"`
	Cause             string         `gorm:"column:cause;size:60;not null"        json:"cause"`
	Priority          string         `gorm:"column:priority;size:20;not null;default:medium" json:"priority"`
	CustomersAffected int            `gorm:"column:customers_affected"            json:"customersAffected"`
	Description       string         `gorm:"column:description"                   json:"description,omitempty"`
	Photos            datatypes.JSON `gorm:"column:photos"                        json:"photos,omitempty"` // JSON array of data URLs or /uploads paths
	Latitude          *float64       `gorm:"column:latitude"                      json:"latitude,omitempty"`
	Longitude         *float64       `gorm:"column:longitude"                     json:"longitude,omitempty"`
	Status            string         `gorm:"column:status;size:20;not null;default:reported" json:"status"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index"          json:"-"`
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Validate checks the required form fields before the record is stored.
func (o *Outage) Validate() error {
	if o.Area == "" || o.Feeder == "" || o.Cause == "" {
		return errors.New("area, feeder and cause are required")
	}
	if !slices.Contains(FeederOptions, o.Feeder) {
		return errors.New("unknown feeder")
	}
	if !slices.Contains(CauseOptions, o.Cause) {
		return errors.New("unknown cause")
	}
	if o.Priority == "" {
		o.Priority = PriorityMedium
	}
	if !ValidPriority(o.Priority) {
		return errors.New("invalid priority")
	}
	if o.CustomersAffected < 0 {
		return errors.New("customers affected cannot be negative")
	}
	if o.Status == "" {
		o.Status = "reported"
	}
	return nil
}
