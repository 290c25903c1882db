// models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Workflow roles. Role gates rebilling transitions; Position records what the
// staff member does in the field (Meter Reader, Revenue Collector, ...).
const (
	RoleOfficer    = "officer"
	RoleSupervisor = "supervisor"
	RoleFinal      = "final"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"          json:"id"`
	StaffNo   string    `gorm:"size:20;uniqueIndex;not null"  json:"staffNo"`
	Name      string    `gorm:"size:100;not null"             json:"name"`
	Email     string    `gorm:"size:100"                      json:"email,omitempty"`
	Phone     string    `gorm:"size:15"                       json:"phone,omitempty"`
	PinHash   string    `gorm:"size:255;not null"             json:"-"`
	Role      string    `gorm:"size:20;not null;default:officer" json:"role"`
	Position  string    `gorm:"size:40"                       json:"position"`
	Zone      string    `gorm:"size:60"                       json:"zone"`
	Sector    string    `gorm:"size:60"                       json:"sector"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}
