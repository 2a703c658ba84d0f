// Package attendance implements the punch-in/out ledger: creation of open
// punch records, the single open->closed transition, active-status reads and
// the role-scoped listing. Every query carries the tenant predicate.
package attendance

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/imcbsglobal/task-webapp-backend/internal/apperrors"
	"github.com/imcbsglobal/task-webapp-backend/internal/auth"
	"github.com/imcbsglobal/task-webapp-backend/internal/geo"
	"github.com/imcbsglobal/task-webapp-backend/internal/models"
)

type Ledger struct {
	db                *gorm.DB
	allowMultipleOpen bool
	loc               *time.Location
}

// NewLedger wires the ledger. allowMultipleOpen controls whether a second
// punch-in on the same calendar day is accepted while another record is
// still open; loc fixes the day boundary for every "today" check.
func NewLedger(db *gorm.DB, allowMultipleOpen bool, loc *time.Location) *Ledger {
	if loc == nil {
		loc = time.UTC
	}
	return &Ledger{db: db, allowMultipleOpen: allowMultipleOpen, loc: loc}
}

type PunchInInput struct {
	FirmCode  string
	Latitude  string
	Longitude string
	PhotoURL  string
	Notes     string
	Address   string
}

// PunchDetail is the created record plus the resolved firm display name.
type PunchDetail struct {
	Record   models.PunchRecord
	FirmName string
}

// PunchOutResult carries the closed record and the shift duration in hours,
// rounded to two decimals.
type PunchOutResult struct {
	Record   models.PunchRecord
	FirmName string
	Duration float64
}

type StatusResult struct {
	IsPunchedIn    bool
	CompletedToday bool
	Record         *models.PunchRecord
	FirmName       string
	FirmCode       string
	// WorkHours is live elapsed time for an open record, total shift time
	// for a completed one.
	WorkHours float64
}

// DateRange bounds a listing by punch-in day. Zero values leave the side
// open; End is the start of the last included day in the ledger's zone.
type DateRange struct {
	Start time.Time
	End   time.Time
}

type PunchRow struct {
	ID           uuid.UUID  `json:"id"`
	FirmCode     string     `json:"firm_code"`
	FirmName     string     `json:"firm_name"`
	FirmPlace    string     `json:"firm_place"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	PhotoURL     string     `json:"photo_url"`
	Address      string     `json:"address"`
	Notes        string     `json:"notes"`
	Status       string     `json:"status"`
	CreatedBy    string     `json:"created_by"`
	ClientID     string     `json:"client_id"`
	PunchinTime  time.Time  `json:"punchin_time"`
	PunchoutTime *time.Time `json:"punchout_time,omitempty"`
}

func (l *Ledger) dayBounds(at time.Time) (time.Time, time.Time) {
	local := at.In(l.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, l.loc)
	return start, start.Add(24 * time.Hour)
}

func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}

// PunchIn validates the input, resolves the firm within the tenant and
// creates an open record with status pending.
func (l *Ledger) PunchIn(ctx context.Context, tc auth.TenantContext, input PunchInInput) (*PunchDetail, error) {
	if strings.TrimSpace(input.FirmCode) == "" {
		return nil, apperrors.Validation("customerCode", "is required")
	}
	if strings.TrimSpace(input.Latitude) == "" || strings.TrimSpace(input.Longitude) == "" {
		return nil, apperrors.Validation("location", "coordinates are required")
	}
	if strings.TrimSpace(input.PhotoURL) == "" {
		return nil, apperrors.Validation("photo_url", "is required for punch-in")
	}

	lat, lng, err := geo.ParseCoordinates(input.Latitude, input.Longitude)
	if err != nil {
		return nil, err
	}

	var firm models.AccMaster
	if err := l.db.WithContext(ctx).
		Where("code = ? AND client_id = ?", input.FirmCode, tc.ClientID).
		Take(&firm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("firm code for this client")
		}
		return nil, apperrors.Store("resolve firm", err)
	}

	now := time.Now().UTC()
	if !l.allowMultipleOpen {
		dayStart, dayEnd := l.dayBounds(now)
		var open int64
		if err := l.db.WithContext(ctx).Model(&models.PunchRecord{}).
			Where("client_id = ? AND created_by = ? AND punchout_time IS NULL AND punchin_time >= ? AND punchin_time < ?",
				tc.ClientID, tc.Username, dayStart, dayEnd).
			Count(&open).Error; err != nil {
			return nil, apperrors.Store("check open punch-in", err)
		}
		if open > 0 {
			return nil, apperrors.Conflict("already punched in today, punch out first")
		}
	}

	record := models.PunchRecord{
		ClientID:    tc.ClientID,
		FirmCode:    firm.Code,
		CreatedBy:   tc.Username,
		PunchinTime: now,
		Latitude:    lat,
		Longitude:   lng,
		PhotoURL:    input.PhotoURL,
		Address:     input.Address,
		Notes:       input.Notes,
		Status:      models.PunchStatusPending,
	}
	if err := l.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, apperrors.Store("create punch-in", err)
	}

	return &PunchDetail{Record: record, FirmName: firm.Name}, nil
}

// PunchOut closes the caller's open record for today. The close itself is a
// conditional update on punchout_time IS NULL, so two concurrent calls
// resolve to exactly one winner; the loser sees not-found.
func (l *Ledger) PunchOut(ctx context.Context, tc auth.TenantContext, id uuid.UUID, notes string) (*PunchOutResult, error) {
	dayStart, dayEnd := l.dayBounds(time.Now())

	var record models.PunchRecord
	err := l.db.WithContext(ctx).
		Where("id = ? AND client_id = ? AND created_by = ? AND punchout_time IS NULL AND punchin_time >= ? AND punchin_time < ?",
			id, tc.ClientID, tc.Username, dayStart, dayEnd).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("active punch-in for today")
		}
		return nil, apperrors.Store("find active punch-in", err)
	}

	now := time.Now().UTC()
	updatedNotes := record.Notes
	if strings.TrimSpace(notes) != "" {
		updatedNotes = strings.TrimSpace(record.Notes + "\nPunch-out notes: " + notes)
	}

	result := l.db.WithContext(ctx).Model(&models.PunchRecord{}).
		Where("id = ? AND client_id = ? AND punchout_time IS NULL", record.ID, tc.ClientID).
		Updates(map[string]interface{}{
			"punchout_time": now,
			"status":        models.PunchStatusCompleted,
			"notes":         updatedNotes,
		})
	if result.Error != nil {
		return nil, apperrors.Store("close punch-in", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NotFound("active punch-in for today")
	}

	record.PunchoutTime = &now
	record.Status = models.PunchStatusCompleted
	record.Notes = updatedNotes

	var firm models.AccMaster
	firmName := "Unknown Store"
	if err := l.db.WithContext(ctx).
		Where("code = ? AND client_id = ?", record.FirmCode, tc.ClientID).
		Take(&firm).Error; err == nil {
		firmName = firm.Name
	}

	return &PunchOutResult{
		Record:   record,
		FirmName: firmName,
		Duration: roundHours(now.Sub(record.PunchinTime)),
	}, nil
}

// ActiveStatus reports whether the caller has an open record today; when
// not, it falls back to today's latest completed record.
func (l *Ledger) ActiveStatus(ctx context.Context, tc auth.TenantContext) (*StatusResult, error) {
	dayStart, dayEnd := l.dayBounds(time.Now())

	var record models.PunchRecord
	err := l.db.WithContext(ctx).
		Where("client_id = ? AND created_by = ? AND punchout_time IS NULL AND punchin_time >= ? AND punchin_time < ?",
			tc.ClientID, tc.Username, dayStart, dayEnd).
		Order("punchin_time desc").
		Take(&record).Error
	if err == nil {
		status := &StatusResult{
			IsPunchedIn: true,
			Record:      &record,
			WorkHours:   roundHours(time.Since(record.PunchinTime)),
		}
		l.fillFirm(ctx, tc.ClientID, record.FirmCode, status)
		return status, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Store("find active punch-in", err)
	}

	err = l.db.WithContext(ctx).
		Where("client_id = ? AND created_by = ? AND punchout_time IS NOT NULL AND punchin_time >= ? AND punchin_time < ?",
			tc.ClientID, tc.Username, dayStart, dayEnd).
		Order("punchout_time desc").
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &StatusResult{}, nil
		}
		return nil, apperrors.Store("find completed punch-in", err)
	}

	status := &StatusResult{
		CompletedToday: true,
		Record:         &record,
		WorkHours:      roundHours(record.PunchoutTime.Sub(record.PunchinTime)),
	}
	l.fillFirm(ctx, tc.ClientID, record.FirmCode, status)
	return status, nil
}

func (l *Ledger) fillFirm(ctx context.Context, clientID, firmCode string, status *StatusResult) {
	status.FirmCode = firmCode
	status.FirmName = "Unknown Store"
	var firm models.AccMaster
	if err := l.db.WithContext(ctx).
		Where("code = ? AND client_id = ?", firmCode, clientID).
		Take(&firm).Error; err == nil {
		status.FirmName = firm.Name
	}
}

// List returns the tenant's records joined with firm display fields, newest
// punch-in first. Admins see the whole tenant, everyone else only their own
// rows; the role just toggles one predicate in a single parameterized query.
func (l *Ledger) List(ctx context.Context, tc auth.TenantContext, dateRange DateRange) ([]PunchRow, error) {
	query := `
		SELECT p.id, p.firm_code,
		       COALESCE(a.name, 'Unknown Store') AS firm_name,
		       COALESCE(a.place, 'No address') AS firm_place,
		       p.latitude, p.longitude, p.photo_url, p.address, p.notes,
		       p.status, p.created_by, p.client_id, p.punchin_time, p.punchout_time
		FROM punch_records p
		LEFT JOIN acc_master a ON p.firm_code = a.code AND p.client_id = a.client_id
		WHERE p.client_id = ?`
	args := []interface{}{tc.ClientID}

	if !tc.IsAdmin() {
		query += " AND p.created_by = ?"
		args = append(args, tc.Username)
	}
	if !dateRange.Start.IsZero() {
		query += " AND p.punchin_time >= ?"
		args = append(args, dateRange.Start)
	}
	if !dateRange.End.IsZero() {
		query += " AND p.punchin_time < ?"
		args = append(args, dateRange.End.Add(24*time.Hour))
	}
	query += " ORDER BY p.punchin_time DESC"

	rows := []PunchRow{}
	if err := l.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, apperrors.Store("list punch records", err)
	}
	return rows, nil
}
