package attendance

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/imcbsglobal/task-webapp-backend/internal/apperrors"
	"github.com/imcbsglobal/task-webapp-backend/internal/auth"
	"github.com/imcbsglobal/task-webapp-backend/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.AccMaster{}, &models.PunchRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedFirm(t *testing.T, db *gorm.DB, code, clientID, name string) {
	t.Helper()
	firm := models.AccMaster{Code: code, ClientID: clientID, Name: name, Place: "Kochi"}
	if err := db.Create(&firm).Error; err != nil {
		t.Fatalf("seed firm: %v", err)
	}
}

func userTenant(username, clientID string) auth.TenantContext {
	return auth.TenantContext{ClientID: clientID, Username: username, UserID: username, Role: auth.RoleUser}
}

func validInput() PunchInInput {
	return PunchInInput{
		FirmCode:  "F1",
		Latitude:  "9.9312",
		Longitude: "76.2673",
		PhotoURL:  "https://cdn.example.com/p.jpg",
		Notes:     "morning round",
		Address:   "MG Road",
	}
}

func TestPunchInCreatesPendingRecord(t *testing.T) {
	db := openTestDB(t)
	seedFirm(t, db, "F1", "T1", "Acme Stores")
	ledger := NewLedger(db, true, time.UTC)

	detail, err := ledger.PunchIn(context.Background(), userTenant("alice", "T1"), validInput())
	if err != nil {
		t.Fatalf("PunchIn: %v", err)
	}
	if detail.FirmName != "Acme Stores" {
		t.Errorf("firm name = %q", detail.FirmName)
	}
	if detail.Record.Status != models.PunchStatusPending {
		t.Errorf("status = %q, want pending", detail.Record.Status)
	}
	if !detail.Record.Open() {
		t.Error("fresh record is not open")
	}
	if detail.Record.ID == uuid.Nil {
		t.Error("record id was not assigned")
	}

	var stored models.PunchRecord
	if err := db.Take(&stored, "id = ?", detail.Record.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.ClientID != "T1" || stored.CreatedBy != "alice" {
		t.Errorf("stored scope = %s/%s", stored.ClientID, stored.CreatedBy)
	}
	if stored.Latitude != 9.9312 || stored.Longitude != 76.2673 {
		t.Errorf("stored coords = %v,%v", stored.Latitude, stored.Longitude)
	}
}

func TestPunchInValidation(t *testing.T) {
	db := openTestDB(t)
	seedFirm(t, db, "F1", "T1", "Acme Stores")
	ledger := NewLedger(db, true, time.UTC)

	cases := []struct {
		name   string
		mutate func(*PunchInInput)
	}{
		{"missing firm code", func(in *PunchInInput) { in.FirmCode = "  " }},
		{"missing latitude", func(in *PunchInInput) { in.Latitude = "" }},
		{"missing longitude", func(in *PunchInInput) { in.Longitude = "" }},
		{"missing photo", func(in *PunchInInput) { in.PhotoURL = "" }},
		{"latitude out of range", func(in *PunchInInput) { in.Latitude = "91" }},
		{"longitude out of range", func(in *PunchInInput) { in.Longitude = "200" }},
		{"latitude not a number", func(in *PunchInInput) { in.Latitude = "north" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)
			_, err := ledger.PunchIn(context.Background(), userTenant("alice", "T1"), input)
			if !apperrors.IsValidation(err) {
				t.Fatalf("err = %v, want validation error", err)
			}
		})
	}

	var count int64
	db.Model(&models.PunchRecord{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected inputs left %d records behind", count)
	}
}

func TestPunchInFirmScopedToTenant(t *testing.T) {
	db := openTestDB(t)
	seedFirm(t, db, "F1", "T2", "Other Tenant Stores")
	ledger := NewLedger(db, true, time.UTC)

	_, err := ledger.PunchIn(context.Background(), userTenant("alice", "T1"), validInput())
	if !apperrors.IsNotFound(err) {
		t.Fatalf("err = %v, want not-found", err)
	}
}

func TestPunchInOpenRecordPolicy(t *testing.T) {
	db := openTestDB(t)
	seedFirm(t, db, "F1", "T1", "Acme Stores")
	tc := userTenant("alice", "T1")

	strict := NewLedger(db, false, time.UTC)
	if _, err := strict.PunchIn(context.Background(), tc, validInput()); err != nil {
		t.Fatalf("first PunchIn: %v", err)
	}
	_, err := strict.PunchIn(context.Background(), tc, validInput())
	if !apperrors.IsConflict(err) {
		t.Fatalf("second PunchIn err = %v, want conflict", err)
	}

	// Another user in the same tenant is not blocked.
	if _, err := strict.PunchIn(context.Background(), userTenant("bob", "T1"), validInput()); err != nil {
		t.Fatalf("PunchIn for bob: %v", err)
	}

	relaxed := NewLedger(db, true, time.UTC)
	if _, err := relaxed.PunchIn(context.Background(), tc, validInput()); err != nil {
		t.Fatalf("relaxed PunchIn: %v", err)
	}
}

func TestPunchOutClosesRecord(t *testing.T) {
	db := openTestDB(t)
	seedFirm(t, db, "F1", "T1", "Acme Stores")
	ledger := NewLedger(db, true, time.UTC)
	tc := userTenant("alice", "T1")

	detail, err := ledger.PunchIn(context.Background(), tc, validInput())
	if err != nil {
		t.Fatalf("PunchIn: %v", err)
	}

	out, err := ledger.PunchOut(context.Background(), tc, detail.Record.ID, "done for the day")
	if err != nil {
		t.Fatalf("PunchOut: %v", err)
	}
	if out.Record.Status != models.PunchStatusCompleted {
		t.Errorf("status = %q, want completed", out.Record.Status)
	}
	if out.Record.PunchoutTime == nil {
		t.Fatal("punchout time not set")
	}
	if out.Record.PunchoutTime.Before(out.Record.PunchinTime) {
		t.Error("punch-out precedes punch-in")
	}
	if out.Duration < 0 || out.Duration > 0.01 {
		t.Errorf("duration = %v, want ~0 for an immediate punch-out", out.Duration)
	}
	if !strings.Contains(out.Record.Notes, "Punch-out notes: done for the day") {
		t.Errorf("notes = %q", out.Record.Notes)
	}
	if out.FirmName != "Acme Stores" {
		t.Errorf("firm name = %q", out.FirmName)
	}

	var stored models.PunchRecord
	if err := db.Take(&stored, "id = ?", detail.Record.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Open() {
		t.Error("record still open after punch-out")
	}
}

func TestPunchOutOnlyOnce(t *testing.T) {
	db := openTestDB(t)
	seedFirm(t, db, "F1", "T1", "Acme Stores")
	ledger := NewLedger(db, true, time.UTC)
	tc := userTenant("alice", "T1")

	detail, err := ledger.PunchIn(context.Background(), tc, validInput())
	if err != nil {
		t.Fatalf("PunchIn: %v", err)
	}
	if _, err := ledger.PunchOut(context.Background(), tc, detail.Record.ID, ""); err != nil {
		t.Fatalf("PunchOut: %v", err)
	}

	_, err = ledger.PunchOut(context.Background(), tc, detail.Record.ID, "")
	if !apperrors.IsNotFound(err) {
		t.Fatalf("second PunchOut err = %v, want not-found", err)
	}
}

func TestPunchOutSingleWinner(t *testing.T) {
	db := openTestDB(t)
	seedFirm(t, db, "F1", "T1", "Acme Stores")
	ledger := NewLedger(db, true, time.UTC)
	tc := userTenant("alice", "T1")

	detail, err := ledger.PunchIn(context.Background(), tc, validInput())
	if err != nil {
		t.Fatalf("PunchIn: %v", err)
	}

	// One connection keeps sqlite from returning busy errors under the race;
	// the calls still interleave between the read and the conditional update.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	start := make(chan struct{})
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			<-start
			_, err := ledger.PunchOut(context.Background(), tc, detail.Record.ID, "")
			results <- err
		}()
	}
	close(start)

	var wins, misses int
	for i := 0; i < 2; i++ {
		switch err := <-results; {
		case err == nil:
			wins++
		case apperrors.IsNotFound(err):
			misses++
		default:
			t.Fatalf("PunchOut returned %v", err)
		}
	}
	if wins != 1 || misses != 1 {
		t.Fatalf("wins=%d misses=%d, want exactly one winner", wins, misses)
	}

	var stored models.PunchRecord
	if err := db.Take(&stored, "id = ?", detail.Record.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Open() || stored.Status != models.PunchStatusCompleted {
		t.Errorf("record after race: open=%v status=%q", stored.Open(), stored.Status)
	}
}

func TestPunchOutScoping(t *testing.T) {
	db := openTestDB(t)
	seedFirm(t, db, "F1", "T1", "Acme Stores")
	ledger := NewLedger(db, true, time.UTC)
	alice := userTenant("alice", "T1")

	detail, err := ledger.PunchIn(context.Background(), alice, validInput())
	if err != nil {
		t.Fatalf("PunchIn: %v", err)
	}

	cases := []struct {
		name string
		tc   auth.TenantContext
		id   uuid.UUID
	}{
		{"different user", userTenant("bob", "T1"), detail.Record.ID},
		{"different tenant", userTenant("alice", "T2"), detail.Record.ID},
		{"unknown id", alice, uuid.New()},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := ledger.PunchOut(context.Background(), c.tc, c.id, ""); !apperrors.IsNotFound(err) {
				t.Fatalf("err = %v, want not-found", err)
			}
		})
	}

	// The record is untouched by the rejected attempts.
	var stored models.PunchRecord
	if err := db.Take(&stored, "id = ?", detail.Record.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !stored.Open() {
		t.Error("record closed by an unauthorized punch-out")
	}
}

func TestActiveStatus(t *testing.T) {
	db := openTestDB(t)
	seedFirm(t, db, "F1", "T1", "Acme Stores")
	ledger := NewLedger(db, true, time.UTC)
	tc := userTenant("alice", "T1")

	status, err := ledger.ActiveStatus(context.Background(), tc)
	if err != nil {
		t.Fatalf("ActiveStatus: %v", err)
	}
	if status.IsPunchedIn || status.CompletedToday || status.Record != nil {
		t.Errorf("empty ledger status = %+v", status)
	}

	detail, err := ledger.PunchIn(context.Background(), tc, validInput())
	if err != nil {
		t.Fatalf("PunchIn: %v", err)
	}

	status, err = ledger.ActiveStatus(context.Background(), tc)
	if err != nil {
		t.Fatalf("ActiveStatus: %v", err)
	}
	if !status.IsPunchedIn || status.CompletedToday {
		t.Fatalf("status after punch-in = %+v", status)
	}
	if status.Record == nil || status.Record.ID != detail.Record.ID {
		t.Error("status does not carry the open record")
	}
	if status.FirmName != "Acme Stores" || status.FirmCode != "F1" {
		t.Errorf("firm = %q/%q", status.FirmName, status.FirmCode)
	}

	if _, err := ledger.PunchOut(context.Background(), tc, detail.Record.ID, ""); err != nil {
		t.Fatalf("PunchOut: %v", err)
	}

	status, err = ledger.ActiveStatus(context.Background(), tc)
	if err != nil {
		t.Fatalf("ActiveStatus: %v", err)
	}
	if status.IsPunchedIn || !status.CompletedToday {
		t.Fatalf("status after punch-out = %+v", status)
	}

	// Another user's status is independent.
	other, err := ledger.ActiveStatus(context.Background(), userTenant("bob", "T1"))
	if err != nil {
		t.Fatalf("ActiveStatus for bob: %v", err)
	}
	if other.IsPunchedIn || other.CompletedToday {
		t.Errorf("bob inherited alice's status: %+v", other)
	}
}

func seedRecord(t *testing.T, db *gorm.DB, clientID, user, firmCode string, punchedIn time.Time) models.PunchRecord {
	t.Helper()
	record := models.PunchRecord{
		ClientID:    clientID,
		FirmCode:    firmCode,
		CreatedBy:   user,
		PunchinTime: punchedIn,
		Latitude:    10,
		Longitude:   76,
		PhotoURL:    "https://cdn.example.com/p.jpg",
		Status:      models.PunchStatusPending,
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("seed record: %v", err)
	}
	return record
}

func TestListRoleScopingAndOrder(t *testing.T) {
	db := openTestDB(t)
	seedFirm(t, db, "F1", "T1", "Acme Stores")
	ledger := NewLedger(db, true, time.UTC)

	now := time.Now().UTC()
	seedRecord(t, db, "T1", "alice", "F1", now.Add(-2*time.Hour))
	seedRecord(t, db, "T1", "alice", "GHOST", now.Add(-1*time.Hour))
	seedRecord(t, db, "T1", "bob", "F1", now)
	seedRecord(t, db, "T2", "alice", "F1", now)

	admin := auth.TenantContext{ClientID: "T1", Username: "boss", Role: auth.RoleAdmin}
	rows, err := ledger.List(context.Background(), admin, DateRange{})
	if err != nil {
		t.Fatalf("List as admin: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("admin row count = %d, want 3", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].PunchinTime.After(rows[i-1].PunchinTime) {
			t.Fatal("rows not ordered newest first")
		}
	}
	if rows[0].CreatedBy != "bob" {
		t.Errorf("newest row created by %q, want bob", rows[0].CreatedBy)
	}

	rows, err = ledger.List(context.Background(), userTenant("alice", "T1"), DateRange{})
	if err != nil {
		t.Fatalf("List as alice: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("alice row count = %d, want 2", len(rows))
	}
	for _, row := range rows {
		if row.CreatedBy != "alice" || row.ClientID != "T1" {
			t.Errorf("leaked row %s/%s", row.ClientID, row.CreatedBy)
		}
	}

	// A record against an unknown firm gets display placeholders.
	var ghost *PunchRow
	for i := range rows {
		if rows[i].FirmCode == "GHOST" {
			ghost = &rows[i]
		}
	}
	if ghost == nil {
		t.Fatal("record with unknown firm missing from listing")
	}
	if ghost.FirmName != "Unknown Store" || ghost.FirmPlace != "No address" {
		t.Errorf("placeholders = %q/%q", ghost.FirmName, ghost.FirmPlace)
	}
}

func TestListDateRange(t *testing.T) {
	db := openTestDB(t)
	seedFirm(t, db, "F1", "T1", "Acme Stores")
	ledger := NewLedger(db, true, time.UTC)

	today := time.Now().UTC().Truncate(24 * time.Hour)
	old := seedRecord(t, db, "T1", "alice", "F1", today.AddDate(0, 0, -7).Add(9*time.Hour))
	recent := seedRecord(t, db, "T1", "alice", "F1", today.Add(9*time.Hour))

	tc := userTenant("alice", "T1")

	rows, err := ledger.List(context.Background(), tc, DateRange{Start: today})
	if err != nil {
		t.Fatalf("List from today: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != recent.ID {
		t.Fatalf("rows from today = %+v", rows)
	}

	// End is inclusive of the named day.
	rows, err = ledger.List(context.Background(), tc, DateRange{End: today.AddDate(0, 0, -7)})
	if err != nil {
		t.Fatalf("List until cutoff: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != old.ID {
		t.Fatalf("rows until cutoff = %+v", rows)
	}

	rows, err = ledger.List(context.Background(), tc, DateRange{Start: today, End: today})
	if err != nil {
		t.Fatalf("List single day: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != recent.ID {
		t.Fatalf("single-day rows = %+v", rows)
	}
}
