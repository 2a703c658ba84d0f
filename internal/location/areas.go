package location

import (
	"context"
	"strings"

	"github.com/imcbsglobal/task-webapp-backend/internal/apperrors"
	"github.com/imcbsglobal/task-webapp-backend/internal/auth"
	"github.com/imcbsglobal/task-webapp-backend/internal/models"
)

// Areas returns the distinct non-empty area names the tenant's firms are
// grouped under.
func (c *Capture) Areas(ctx context.Context, tc auth.TenantContext) ([]string, error) {
	areas := []string{}
	err := c.db.WithContext(ctx).Model(&models.AccMaster{}).
		Distinct("area").
		Where("client_id = ? AND area IS NOT NULL AND area <> ''", tc.ClientID).
		Order("area").
		Pluck("area", &areas).Error
	if err != nil {
		return nil, apperrors.Store("list areas", err)
	}
	return areas, nil
}

// UpdateArea reassigns a firm to an area within the tenant.
func (c *Capture) UpdateArea(ctx context.Context, tc auth.TenantContext, firmCode, area string) (int64, error) {
	if strings.TrimSpace(firmCode) == "" {
		return 0, apperrors.Validation("code", "is required")
	}
	if strings.TrimSpace(area) == "" {
		return 0, apperrors.Validation("area", "is required")
	}

	result := c.db.WithContext(ctx).Model(&models.AccMaster{}).
		Where("code = ? AND client_id = ?", firmCode, tc.ClientID).
		Update("area", area)
	if result.Error != nil {
		return 0, apperrors.Store("update area", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, apperrors.NotFound("firm")
	}
	return result.RowsAffected, nil
}
