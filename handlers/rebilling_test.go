package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/martindev-ke/fieldops/config"
	"github.com/martindev-ke/fieldops/middleware"
	"github.com/martindev-ke/fieldops/models"
	"github.com/martindev-ke/fieldops/pkg/store"
)

func seedUser(t *testing.T, name, role string) models.User {
	t.Helper()
	u := models.User{StaffNo: "85" + name[:3], Name: name, Role: role, IsActive: true}
	if err := config.DB.Create(&u).Error; err != nil {
		t.Fatal(err)
	}
	return u
}

func asUser(req *http.Request, u models.User) *http.Request {
	claims := &middleware.Claims{
		UserID: u.ID.String(), StaffNo: u.StaffNo, Name: u.Name, Role: u.Role,
	}
	return req.WithContext(middleware.ContextWithClaims(req.Context(), claims))
}

func rebillingRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/rebilling", CreateRebillingRequest).Methods("POST")
	r.HandleFunc("/rebilling/{id}/approve", ApproveRebillingRequest).Methods("POST")
	r.HandleFunc("/rebilling/{id}/reject", RejectRebillingRequest).Methods("POST")
	return r
}

func TestCreateRebillingRequestForcesInitialState(t *testing.T) {
	setupTestDB(t)
	officer := seedUser(t, "Officer One", models.RoleOfficer)
	router := rebillingRouter()

	// the client tries to smuggle in an approved state and a fake adjustment
	payload := `{"accountNo":"1001","oldBill":1000,"newBill":1200,"reason":"wrong reading",
		"status":"approved","approverLevel":3,"adjustmentAmount":-500}`
	req := asUser(httptest.NewRequest("POST", "/rebilling", strings.NewReader(payload)), officer)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 201 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got models.RebillingRequest
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Status != models.RebillingPending || got.ApproverLevel != 1 {
		t.Errorf("created with status=%q level=%d", got.Status, got.ApproverLevel)
	}
	if got.AdjustmentAmount != 200 {
		t.Errorf("adjustment = %v, want 200", got.AdjustmentAmount)
	}
}

func TestApproveRebillingEndToEnd(t *testing.T) {
	setupTestDB(t)
	officer := seedUser(t, "Officer One", models.RoleOfficer)
	supervisor := seedUser(t, "Super Visor", models.RoleSupervisor)
	final := seedUser(t, "Final Appr", models.RoleFinal)
	router := rebillingRouter()

	req := models.RebillingRequest{AccountNo: "1001", OldBill: 1000, NewBill: 1500, Reason: "wrong reading", Status: models.RebillingPending}
	req.ApproverLevel = 1
	req.Recompute()
	if err := store.New(config.DB).Append(&req); err != nil {
		t.Fatal(err)
	}

	approve := func(u models.User) *httptest.ResponseRecorder {
		r := asUser(httptest.NewRequest("POST", "/rebilling/"+req.ID.String()+"/approve", nil), u)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, r)
		return rec
	}

	if rec := approve(officer); rec.Code != 200 {
		t.Fatalf("level 1: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	// officer cannot take the supervisor step
	if rec := approve(officer); rec.Code != 403 {
		t.Fatalf("level 2 as officer: status = %d, want 403", rec.Code)
	}
	if rec := approve(supervisor); rec.Code != 200 {
		t.Fatalf("level 2: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec := approve(final)
	if rec.Code != 200 {
		t.Fatalf("level 3: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got models.RebillingRequest
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Status != models.RebillingProcessed {
		t.Errorf("final status = %q, want processed", got.Status)
	}
	if got.LastActionBy != final.Name {
		t.Errorf("LastActionBy = %q, want %q", got.LastActionBy, final.Name)
	}

	// the new state survived the write
	var stored models.RebillingRequest
	if err := store.New(config.DB).Get(&stored, req.ID); err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.RebillingProcessed {
		t.Errorf("stored status = %q, want processed", stored.Status)
	}
}

func TestApproveRebillingAboveLimit(t *testing.T) {
	setupTestDB(t)
	officer := seedUser(t, "Officer One", models.RoleOfficer)
	router := rebillingRouter()

	req := models.RebillingRequest{AccountNo: "1001", OldBill: 1000, NewBill: 9000, Reason: "faulty meter", Status: models.RebillingPending}
	req.ApproverLevel = 1
	req.Recompute()
	if err := store.New(config.DB).Append(&req); err != nil {
		t.Fatal(err)
	}

	r := asUser(httptest.NewRequest("POST", "/rebilling/"+req.ID.String()+"/approve", nil), officer)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	if rec.Code != 409 {
		t.Fatalf("status = %d, want 409, body = %s", rec.Code, rec.Body.String())
	}

	var stored models.RebillingRequest
	if err := store.New(config.DB).Get(&stored, req.ID); err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.RebillingPending || stored.ApproverLevel != 1 {
		t.Errorf("failed approval persisted a change: status=%q level=%d", stored.Status, stored.ApproverLevel)
	}
}

func TestRejectRebilling(t *testing.T) {
	setupTestDB(t)
	officer := seedUser(t, "Officer One", models.RoleOfficer)
	router := rebillingRouter()

	req := models.RebillingRequest{AccountNo: "1001", OldBill: 100, NewBill: 150, Reason: "other", Status: models.RebillingPending}
	req.ApproverLevel = 1
	req.Recompute()
	if err := store.New(config.DB).Append(&req); err != nil {
		t.Fatal(err)
	}

	r := asUser(httptest.NewRequest("POST", "/rebilling/"+req.ID.String()+"/reject", nil), officer)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	if rec.Code != 200 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// rejection is terminal
	r = asUser(httptest.NewRequest("POST", "/rebilling/"+req.ID.String()+"/approve", nil), officer)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	if rec.Code != 409 {
		t.Errorf("approve after reject: status = %d, want 409", rec.Code)
	}
}
