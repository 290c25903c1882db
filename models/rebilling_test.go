package models

import (
	"errors"
	"testing"
)

func newRequest(oldBill, newBill float64) RebillingRequest {
	r := RebillingRequest{
		AccountNo: "1001",
		OldBill:   oldBill,
		NewBill:   newBill,
		Reason:    "wrong reading",
		Status:    RebillingPending,
	}
	r.ApproverLevel = 1
	r.Recompute()
	return r
}

func TestRecompute(t *testing.T) {
	r := newRequest(1000, 1200)
	if r.AdjustmentAmount != 200 {
		t.Errorf("AdjustmentAmount = %v, want 200", r.AdjustmentAmount)
	}

	// client-supplied value is overwritten
	r.AdjustmentAmount = 999999
	r.Recompute()
	if r.AdjustmentAmount != 200 {
		t.Errorf("Recompute kept stale value: %v", r.AdjustmentAmount)
	}
}

func TestApproveLevel1(t *testing.T) {
	officer := &User{Name: "Martin Mackenzie", Role: RoleOfficer}

	r := newRequest(1000, 1900) // adjustment 900, under the limit
	if err := r.Approve(officer); err != nil {
		t.Fatalf("Approve() = %v, want nil", err)
	}
	if r.Status != RebillingApproved || r.ApproverLevel != 2 {
		t.Errorf("after level 1: status=%q level=%d", r.Status, r.ApproverLevel)
	}
	if r.LastActionBy != officer.Name {
		t.Errorf("LastActionBy = %q, want %q", r.LastActionBy, officer.Name)
	}

	big := newRequest(1000, 6000) // adjustment 5000
	if err := big.Approve(officer); !errors.Is(err, ErrAboveAutoLimit) {
		t.Fatalf("Approve() large adjustment = %v, want ErrAboveAutoLimit", err)
	}
	if big.Status != RebillingPending || big.ApproverLevel != 1 {
		t.Errorf("failed approval mutated request: status=%q level=%d", big.Status, big.ApproverLevel)
	}

	// negative adjustments count by magnitude
	refund := newRequest(6000, 1000)
	if err := refund.Approve(officer); !errors.Is(err, ErrAboveAutoLimit) {
		t.Errorf("Approve() large refund = %v, want ErrAboveAutoLimit", err)
	}
}

func TestApproveChain(t *testing.T) {
	officer := &User{Name: "Officer", Role: RoleOfficer}
	supervisor := &User{Name: "Paul Odhiambo", Role: RoleSupervisor}
	final := &User{Name: "Billing Manager", Role: RoleFinal}

	r := newRequest(1000, 1500)
	if err := r.Approve(officer); err != nil {
		t.Fatalf("level 1: %v", err)
	}

	// an officer cannot take the supervisor step
	if err := r.Approve(officer); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("level 2 as officer = %v, want ErrNotAuthorized", err)
	}
	if err := r.Approve(supervisor); err != nil {
		t.Fatalf("level 2: %v", err)
	}
	if r.ApproverLevel != 3 || r.Status != RebillingApproved {
		t.Errorf("after level 2: status=%q level=%d", r.Status, r.ApproverLevel)
	}

	// a supervisor cannot take the final step
	if err := r.Approve(supervisor); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("level 3 as supervisor = %v, want ErrNotAuthorized", err)
	}
	if err := r.Approve(final); err != nil {
		t.Fatalf("level 3: %v", err)
	}
	if r.Status != RebillingProcessed {
		t.Errorf("final status = %q, want processed", r.Status)
	}

	// processed is terminal
	if err := r.Approve(final); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Approve() processed request = %v, want ErrInvalidTransition", err)
	}
}

func TestReject(t *testing.T) {
	officer := &User{Name: "Officer", Role: RoleOfficer}

	r := newRequest(1000, 1200)
	if err := r.Reject(officer); err != nil {
		t.Fatalf("Reject() = %v, want nil", err)
	}
	if r.Status != RebillingRejected {
		t.Errorf("status = %q, want rejected", r.Status)
	}

	// only pending requests can be rejected
	approved := newRequest(1000, 1200)
	if err := approved.Approve(officer); err != nil {
		t.Fatal(err)
	}
	if err := approved.Reject(officer); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Reject() approved request = %v, want ErrInvalidTransition", err)
	}
}

func TestRebillingValidate(t *testing.T) {
	r := newRequest(100, 200)
	if err := r.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	r.Reason = "felt like it"
	if err := r.Validate(); err == nil {
		t.Error("Validate() accepted unknown reason")
	}

	r.Reason = ""
	if err := r.Validate(); err != nil {
		t.Errorf("Validate() empty reason = %v, want default applied", err)
	}
	if r.Reason != "wrong reading" {
		t.Errorf("default reason = %q", r.Reason)
	}

	r = RebillingRequest{}
	if err := r.Validate(); err == nil {
		t.Error("Validate() accepted missing account number")
	}
}
