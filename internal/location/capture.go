// Package location implements shop-location capture: an idempotent
// register-or-update keyed by (firm, tenant), a moderation status update and
// the role-scoped listing with firm display fields.
package location

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/imcbsglobal/task-webapp-backend/internal/apperrors"
	"github.com/imcbsglobal/task-webapp-backend/internal/auth"
	"github.com/imcbsglobal/task-webapp-backend/internal/geo"
	"github.com/imcbsglobal/task-webapp-backend/internal/models"
)

type Capture struct {
	db *gorm.DB
}

func NewCapture(db *gorm.DB) *Capture {
	return &Capture{db: db}
}

type RegisterInput struct {
	FirmName  string
	Latitude  string
	Longitude string
}

type LocationRow struct {
	ID           uuid.UUID `json:"id"`
	FirmCode     string    `json:"firm_code"`
	StoreName    string    `json:"storeName"`
	StorePlace   string    `json:"storeLocation"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Status       string    `json:"status"`
	TaskDoneBy   string    `json:"taskDoneBy"`
	ClientID     string    `json:"client_id"`
	LastCaptured time.Time `json:"lastCapturedTime"`
}

// FirmPin is a firm with its latest captured coordinates, for the picker.
type FirmPin struct {
	Code      string   `json:"id"`
	FirmName  string   `json:"firm_name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Register creates or refreshes the pin for (firm, tenant). At most one row
// exists per natural key: the unique index turns a concurrent double-create
// into a duplicate-key error, which lands on the update path.
func (c *Capture) Register(ctx context.Context, tc auth.TenantContext, input RegisterInput) (*models.ShopLocation, bool, error) {
	if strings.TrimSpace(input.FirmName) == "" {
		return nil, false, apperrors.Validation("firm_name", "is required")
	}
	if strings.TrimSpace(input.Latitude) == "" || strings.TrimSpace(input.Longitude) == "" {
		return nil, false, apperrors.Validation("location", "coordinates are required")
	}
	lat, lng, err := geo.ParseCoordinates(input.Latitude, input.Longitude)
	if err != nil {
		return nil, false, err
	}

	var firm models.AccMaster
	if err := c.db.WithContext(ctx).
		Where("name = ? AND client_id = ?", input.FirmName, tc.ClientID).
		Take(&firm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperrors.NotFound("firm for this client")
		}
		return nil, false, apperrors.Store("resolve firm", err)
	}

	shop := models.ShopLocation{
		FirmCode:  firm.Code,
		ClientID:  tc.ClientID,
		Latitude:  lat,
		Longitude: lng,
		Status:    models.LocationStatusPending,
		CreatedBy: tc.Username,
	}
	err = c.db.WithContext(ctx).Create(&shop).Error
	if err == nil {
		return &shop, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, apperrors.Store("create shop location", err)
	}

	// Lost the create race or the pin already existed: last writer wins on
	// coordinates and owner, status stays whatever moderation set.
	result := c.db.WithContext(ctx).Model(&models.ShopLocation{}).
		Where("firm_code = ? AND client_id = ?", firm.Code, tc.ClientID).
		Updates(map[string]interface{}{
			"latitude":   lat,
			"longitude":  lng,
			"created_by": tc.Username,
		})
	if result.Error != nil {
		return nil, false, apperrors.Store("update shop location", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, false, apperrors.NotFound("shop location")
	}

	var existing models.ShopLocation
	if err := c.db.WithContext(ctx).
		Where("firm_code = ? AND client_id = ?", firm.Code, tc.ClientID).
		Take(&existing).Error; err != nil {
		return nil, false, apperrors.Store("reload shop location", err)
	}
	return &existing, false, nil
}

// UpdateStatus moves the pin for firmCode into newStatus. Non-admins can
// only touch their own pins; zero matches reads as not-found so existence
// never leaks across tenants or owners.
func (c *Capture) UpdateStatus(ctx context.Context, tc auth.TenantContext, firmCode, newStatus string) (int64, error) {
	if strings.TrimSpace(newStatus) == "" {
		return 0, apperrors.Validation("status", "is required")
	}
	if strings.TrimSpace(firmCode) == "" {
		return 0, apperrors.Validation("shop_id", "is required")
	}
	if !models.ValidLocationStatus(newStatus) {
		return 0, apperrors.Validation("status", "must be one of pending, verified, rejected")
	}

	query := c.db.WithContext(ctx).Model(&models.ShopLocation{}).
		Where("client_id = ? AND firm_code = ?", tc.ClientID, firmCode)
	if !tc.IsAdmin() {
		query = query.Where("created_by = ?", tc.Username)
	}

	result := query.Update("status", newStatus)
	if result.Error != nil {
		return 0, apperrors.Store("update shop status", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, fmt.Errorf("%w or unauthorized", apperrors.NotFound("shop"))
	}
	if result.RowsAffected > 1 {
		// The natural key should make this impossible; treat it as a
		// data-integrity alarm rather than a silent success.
		return result.RowsAffected, apperrors.Conflict("multiple shops matched the same firm code")
	}
	return result.RowsAffected, nil
}

// ListForTenant returns the tenant's pins joined with firm display fields,
// newest first. Role scoping and date filtering mirror the punch ledger.
func (c *Capture) ListForTenant(ctx context.Context, tc auth.TenantContext, start, end time.Time) ([]LocationRow, error) {
	query := `
		SELECT s.id, s.firm_code,
		       COALESCE(a.name, 'Unknown Store') AS store_name,
		       COALESCE(a.place, 'No address') AS store_place,
		       s.latitude, s.longitude, s.status, s.created_by AS task_done_by,
		       s.client_id, s.created_at AS last_captured
		FROM shop_location s
		LEFT JOIN acc_master a ON s.firm_code = a.code AND s.client_id = a.client_id
		WHERE s.client_id = ?`
	args := []interface{}{tc.ClientID}

	if !tc.IsAdmin() {
		query += " AND s.created_by = ?"
		args = append(args, tc.Username)
	}
	if !start.IsZero() {
		query += " AND s.created_at >= ?"
		args = append(args, start)
	}
	if !end.IsZero() {
		query += " AND s.created_at < ?"
		args = append(args, end.Add(24*time.Hour))
	}
	query += " ORDER BY s.created_at DESC"

	rows := []LocationRow{}
	if err := c.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, apperrors.Store("list shop locations", err)
	}
	return rows, nil
}

// Firms lists every firm of the tenant with the latest captured pin, if any.
func (c *Capture) Firms(ctx context.Context, tc auth.TenantContext) ([]FirmPin, error) {
	query := `
		SELECT a.code, a.name AS firm_name, s.latitude, s.longitude
		FROM acc_master a
		LEFT JOIN shop_location s ON s.firm_code = a.code AND s.client_id = a.client_id
		WHERE a.client_id = ?
		ORDER BY a.name`

	pins := []FirmPin{}
	if err := c.db.WithContext(ctx).Raw(query, tc.ClientID).Scan(&pins).Error; err != nil {
		return nil, apperrors.Store("list firms", err)
	}
	return pins, nil
}
