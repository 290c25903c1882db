package models

import (
	"errors"
	"math"
	"slices"
	"time"

	"gorm.io/gorm"
)

const (
	RebillingPending   = "pending"
	RebillingApproved  = "approved"
	RebillingRejected  = "rejected"
	RebillingProcessed = "processed"

	// AutoApproveLimit is the largest absolute adjustment (KES) an officer
	// can clear at level 1 without supervisor review.
	AutoApproveLimit = 1000.0
)

var RebillingReasons = []string{
	"wrong reading", "estimated bill", "faulty meter", "tariff error", "other",
}

var (
	ErrNotAuthorized     = errors.New("not authorized")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrAboveAutoLimit    = errors.New("adjustment exceeds the level 1 auto-approval limit")
)

// RebillingRequest is a billing correction moving through a three-level
// approval chain. AdjustmentAmount is always NewBill - OldBill; it is
// recomputed on every write and never accepted from the client.
type RebillingRequest struct {
	ReportBase
	AccountNo        string   `gorm:"column:account_no;size:30;not null;index" json:"accountNo"`
	OldBill          float64  `gorm:"column:old_bill;not null"                 json:"oldBill"`
	NewBill          float64  `gorm:"column:new_bill;not null"                 json:"newBill"`
	AdjustmentAmount float64  `gorm:"column:adjustment_amount;not null"        json:"adjustmentAmount"`
	Reason           string   `gorm:"column:reason;size:40;not null"           json:"reason"`
	EvidencePhoto    string   `gorm:"column:evidence_photo"                    json:"evidencePhoto,omitempty"`
	Status           string   `gorm:"column:status;size:20;not null;default:pending" json:"status"`
	ApproverLevel    int      `gorm:"column:approver_level;not null;default:1" json:"approverLevel"`
	LastActionBy     string   `gorm:"column:last_action_by;size:100"           json:"lastActionBy,omitempty"`
	LastActionAt     JSONTime `gorm:"column:last_action_at"                    json:"lastActionAt,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index"          json:"-"`
}

// Recompute derives the adjustment from the two bills.
func (r *RebillingRequest) Recompute() {
	r.AdjustmentAmount = r.NewBill - r.OldBill
}

// Validate checks the form fields of a newly submitted request.
func (r *RebillingRequest) Validate() error {
	if r.AccountNo == "" {
		return errors.New("account number is required")
	}
	if r.Reason == "" {
		r.Reason = "wrong reading"
	}
	if !slices.Contains(RebillingReasons, r.Reason) {
		return errors.New("unknown rebilling reason")
	}
	return nil
}

// Approve advances the request one level on behalf of actor.
//
// Level 1 clears automatically for any authenticated actor, but only for
// adjustments under the auto-approval limit; level 2 needs a supervisor;
// level 3 needs the final billing approver and ends in processed. No
// transition is reversible.
func (r *RebillingRequest) Approve(actor *User) error {
	switch r.ApproverLevel {
	case 1:
		if r.Status != RebillingPending {
			return ErrInvalidTransition
		}
		if math.Abs(r.AdjustmentAmount) >= AutoApproveLimit {
			return ErrAboveAutoLimit
		}
		r.Status = RebillingApproved
		r.ApproverLevel = 2
	case 2:
		if actor == nil || actor.Role != RoleSupervisor {
			return ErrNotAuthorized
		}
		if r.Status != RebillingPending && r.Status != RebillingApproved {
			return ErrInvalidTransition
		}
		r.Status = RebillingApproved
		r.ApproverLevel = 3
	case 3:
		if actor == nil || actor.Role != RoleFinal {
			return ErrNotAuthorized
		}
		if r.Status != RebillingApproved {
			return ErrInvalidTransition
		}
		r.Status = RebillingProcessed
	default:
		return ErrInvalidTransition
	}
	r.recordAction(actor)
	return nil
}

// Reject moves a pending request to the terminal rejected state. The billing
// process sheet does not reserve rejection for a role, so any authenticated
// actor may reject.
func (r *RebillingRequest) Reject(actor *User) error {
	if r.Status != RebillingPending {
		return ErrInvalidTransition
	}
	r.Status = RebillingRejected
	r.recordAction(actor)
	return nil
}

func (r *RebillingRequest) recordAction(actor *User) {
	if actor != nil {
		r.LastActionBy = actor.Name
	}
	r.LastActionAt = JSONTime(time.Now().UTC())
}
