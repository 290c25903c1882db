package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ComplianceThreshold is the balance (KES) at or below which an account is
// considered compliant and must not be disconnected.
const ComplianceThreshold = 51

const (
	DisconnectionPending   = "pending"
	DisconnectionCompleted = "completed"

	ActionDisconnected = "disconnected"
	ActionReconnected  = "reconnected"

	ClassCompliant          = "compliant"
	ClassDisconnectRequired = "disconnect_required"
	ClassReconnectable      = "reconnectable"
)

// DisconnectionAccount is one row of the daily debt list, tracked through
// disconnect/reconnect field actions.
type DisconnectionAccount struct {
	ReportBase
	AccountNo         string   `gorm:"column:account_no;size:30;not null;index" json:"accountNo"`
	Name              string   `gorm:"column:name;size:100"                     json:"name"`
	MeterNo           string   `gorm:"column:meter_no;size:30;index"            json:"meterNo"`
	Region            string   `gorm:"column:region;size:100"                   json:"region"`
	Balance           float64  `gorm:"column:balance;not null"                  json:"balance"`
	PriorMonthBalance *float64 `gorm:"column:prior_month_balance"               json:"priorMonthBalance,omitempty"`
	Status            string   `gorm:"column:status;size:20;not null;default:pending" json:"status"`
	Action            string   `gorm:"column:action;size:20"                    json:"action,omitempty"`
	Remarks           string   `gorm:"column:remarks"                           json:"remarks"`
	Latitude          *float64 `gorm:"column:latitude"                          json:"latitude,omitempty"`
	Longitude         *float64 `gorm:"column:longitude"                         json:"longitude,omitempty"`
	Bearing           *float64 `gorm:"column:bearing"                           json:"bearing,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index"          json:"-"`
}

// Classification is a pure function of balance and status: accounts at or
// under the threshold are compliant whatever their status, over-threshold
// pending accounts are due for disconnection, the rest have been actioned
// and may be reconnected once the debt is settled.
func (a *DisconnectionAccount) Classification() string {
	if a.Balance <= ComplianceThreshold {
		return ClassCompliant
	}
	if a.Status == DisconnectionPending {
		return ClassDisconnectRequired
	}
	return ClassReconnectable
}

var (
	ErrNotDisconnectable = errors.New("account is not due for disconnection")
	ErrNotReconnectable  = errors.New("account has no completed disconnection to reverse")
)

// Disconnect marks the account actioned. Only accounts classified as
// disconnect_required can be disconnected.
func (a *DisconnectionAccount) Disconnect() error {
	if a.Classification() != ClassDisconnectRequired {
		return ErrNotDisconnectable
	}
	a.Status = DisconnectionCompleted
	a.Action = ActionDisconnected
	return nil
}

// Reconnect reverses a completed disconnection, returning the account to the
// pending queue.
func (a *DisconnectionAccount) Reconnect() error {
	if a.Status != DisconnectionCompleted {
		return ErrNotReconnectable
	}
	a.Status = DisconnectionPending
	a.Action = ActionReconnected
	return nil
}
