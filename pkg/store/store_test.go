package store

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/martindev-ke/fieldops/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.DisconnectionAccount{}, &models.SupervisorRemark{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestAppendAndList(t *testing.T) {
	s := New(newTestDB(t))

	for i := 0; i < 3; i++ {
		rec := models.DisconnectionAccount{
			AccountNo: fmt.Sprintf("100%d", i),
			Name:      fmt.Sprintf("Customer %d", i),
			Balance:   float64(i * 100),
		}
		if err := s.Append(&rec); err != nil {
			t.Fatalf("Append: %v", err)
		}
		if rec.ID == uuid.Nil {
			t.Error("Append left ID unset")
		}
		if rec.Synced {
			t.Error("new record marked synced")
		}
	}

	var got []models.DisconnectionAccount
	s.List(&got)
	if len(got) != 3 {
		t.Fatalf("List returned %d records, want 3", len(got))
	}
}

func TestGetAndUpdate(t *testing.T) {
	s := New(newTestDB(t))

	rec := models.DisconnectionAccount{AccountNo: "1001", Name: "John", Balance: 500}
	if err := s.Append(&rec); err != nil {
		t.Fatal(err)
	}

	err := s.Update(&models.DisconnectionAccount{}, rec.ID, map[string]interface{}{
		"remarks": "meter inaccessible",
		"id":      uuid.New(), // base fields must not be patchable
		"synced":  true,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	var got models.DisconnectionAccount
	if err := s.Get(&got, rec.ID); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Remarks != "meter inaccessible" {
		t.Errorf("remarks = %q", got.Remarks)
	}
	if got.ID != rec.ID {
		t.Error("Update changed the record id")
	}
	if got.Synced {
		t.Error("Update changed the sync flag")
	}

	if err := s.Update(&models.DisconnectionAccount{}, uuid.New(), map[string]interface{}{"remarks": "x"}); err != gorm.ErrRecordNotFound {
		t.Errorf("Update unknown id = %v, want ErrRecordNotFound", err)
	}
}

func TestRemove(t *testing.T) {
	s := New(newTestDB(t))

	rec := models.SupervisorRemark{Text: "check transformer T4"}
	if err := s.Append(&rec); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(&models.SupervisorRemark{}, rec.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(&models.SupervisorRemark{}, rec.ID); err != gorm.ErrRecordNotFound {
		t.Errorf("Remove twice = %v, want ErrRecordNotFound", err)
	}
}

func TestReplace(t *testing.T) {
	s := New(newTestDB(t))

	for i := 0; i < 5; i++ {
		rec := models.DisconnectionAccount{AccountNo: fmt.Sprintf("old-%d", i)}
		if err := s.Append(&rec); err != nil {
			t.Fatal(err)
		}
	}

	fresh := []models.DisconnectionAccount{
		{AccountNo: "2001", Name: "New A", Balance: 100, Status: models.DisconnectionPending},
		{AccountNo: "2002", Name: "New B", Balance: 200, Status: models.DisconnectionPending},
	}
	if err := s.Replace(&models.DisconnectionAccount{}, &fresh); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	var got []models.DisconnectionAccount
	s.List(&got)
	if len(got) != 2 {
		t.Fatalf("after Replace: %d records, want exactly 2", len(got))
	}
	for _, a := range got {
		if a.AccountNo != "2001" && a.AccountNo != "2002" {
			t.Errorf("stale record survived Replace: %q", a.AccountNo)
		}
	}
}

func TestMarkSyncedAndPendingCount(t *testing.T) {
	s := New(newTestDB(t))

	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		rec := models.SupervisorRemark{Text: fmt.Sprintf("note %d", i)}
		if err := s.Append(&rec); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, rec.ID)
	}

	if n := s.PendingSyncCount(&models.SupervisorRemark{}); n != 4 {
		t.Fatalf("PendingSyncCount = %d, want 4", n)
	}
	if err := s.MarkSynced(&models.SupervisorRemark{}, ids[:3]); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}
	if n := s.PendingSyncCount(&models.SupervisorRemark{}); n != 1 {
		t.Errorf("PendingSyncCount after sync = %d, want 1", n)
	}

	if err := s.MarkSynced(&models.SupervisorRemark{}, nil); err != nil {
		t.Errorf("MarkSynced(nil) = %v, want nil", err)
	}
}
