// Package reports is the read-only reporting gateway over the legacy
// accounting tables. Every query is tenant-scoped and parameterized; a store
// failure propagates instead of degrading into an empty result.
package reports

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/imcbsglobal/task-webapp-backend/internal/apperrors"
	"github.com/imcbsglobal/task-webapp-backend/internal/models"
)

// Gateway is the query surface the handlers consume. Kept as an interface so
// the HTTP layer treats reporting as a collaborator, not a co-owner of the
// store.
type Gateway interface {
	Debtors(ctx context.Context, clientID string) ([]Debtor, error)
	Suppliers(ctx context.Context, clientID string) ([]models.AccMaster, error)
	SalesToday(ctx context.Context, clientID string) ([]models.SalesToday, error)
	TypeWiseSalesToday(ctx context.Context, clientID string) ([]TypeWiseSales, error)
	SalesTypes(ctx context.Context, clientID string) ([]models.AccSalesType, error)
	PurchaseToday(ctx context.Context, clientID string) ([]models.PurchaseToday, error)
	TenderCash(ctx context.Context, clientID string) ([]models.TenderCash, error)
	TenderCashByType(ctx context.Context, clientID string) (map[string]TenderGroup, error)
	TenderCashByUser(ctx context.Context, clientID string) (TenderUserSummary, error)
	Stock(ctx context.Context, clientID string) ([]models.StockItem, error)
}

type Debtor struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Place   string  `json:"place"`
	Phone   string  `json:"phone"`
	Balance float64 `json:"balance"`
}

type TenderGroup struct {
	Total float64             `json:"total"`
	Items []models.TenderCash `json:"items"`
}

// TenderUserSummary is the tenant-wide tender total. The upstream data
// carries no per-user attribution, so User stays null on the wire.
type TenderUserSummary struct {
	User  *string      `json:"user"`
	Total float64      `json:"total"`
	Items []TenderItem `json:"items"`
}

type TenderItem struct {
	Code   string  `json:"code"`
	Amount float64 `json:"amount"`
}

// TypeWiseSales is one payment mode's sales aggregate for today.
type TypeWiseSales struct {
	Type      string  `json:"type"`
	NetTotal  float64 `json:"nettotal"`
	BillCount int64   `json:"billcount"`
	Name      string  `json:"name"`
}

type gormGateway struct {
	db  *gorm.DB
	loc *time.Location
}

func NewGateway(db *gorm.DB, loc *time.Location) Gateway {
	if loc == nil {
		loc = time.UTC
	}
	return &gormGateway{db: db, loc: loc}
}

func (g *gormGateway) today() (time.Time, time.Time) {
	now := time.Now().In(g.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, g.loc)
	return start, start.Add(24 * time.Hour)
}

// Debtors returns accounts with a positive balance (debit - credit).
func (g *gormGateway) Debtors(ctx context.Context, clientID string) ([]Debtor, error) {
	var accounts []models.AccMaster
	if err := g.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Find(&accounts).Error; err != nil {
		return nil, apperrors.Store("list debtors", err)
	}

	debtors := []Debtor{}
	for _, account := range accounts {
		balance := account.Debit - account.Credit
		if balance <= 0 {
			continue
		}
		debtors = append(debtors, Debtor{
			Code:    account.Code,
			Name:    account.Name,
			Place:   account.Place,
			Phone:   account.Phone2,
			Balance: math.Round(balance*100) / 100,
		})
	}
	return debtors, nil
}

// Suppliers returns the tenant's supplier accounts, the acc_master rows
// filed under super code SUNCR.
func (g *gormGateway) Suppliers(ctx context.Context, clientID string) ([]models.AccMaster, error) {
	rows := []models.AccMaster{}
	if err := g.db.WithContext(ctx).
		Where("client_id = ? AND super_code = ?", clientID, "SUNCR").
		Order("code").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Store("list suppliers", err)
	}
	return rows, nil
}

func (g *gormGateway) SalesToday(ctx context.Context, clientID string) ([]models.SalesToday, error) {
	start, end := g.today()
	rows := []models.SalesToday{}
	if err := g.db.WithContext(ctx).
		Where("client_id = ? AND invdate >= ? AND invdate < ?", clientID, start, end).
		Order("invdate desc, id desc").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Store("list sales today", err)
	}
	return rows, nil
}

// TypeWiseSalesToday aggregates today's sales per payment mode, resolving
// the display name from acc_sales_types on modeofpayment = cd.
func (g *gormGateway) TypeWiseSalesToday(ctx context.Context, clientID string) ([]TypeWiseSales, error) {
	start, end := g.today()
	query := `
		SELECT s.modeofpayment AS type,
		       SUM(s.nettotal) AS net_total,
		       COUNT(*) AS bill_count,
		       COALESCE(MIN(t.name), '') AS name
		FROM sales_today s
		LEFT JOIN acc_sales_types t ON t.cd = s.modeofpayment AND t.client_id = s.client_id
		WHERE s.client_id = ? AND s.invdate >= ? AND s.invdate < ?
		GROUP BY s.modeofpayment
		ORDER BY s.modeofpayment`

	rows := []TypeWiseSales{}
	if err := g.db.WithContext(ctx).Raw(query, clientID, start, end).Scan(&rows).Error; err != nil {
		return nil, apperrors.Store("list type-wise sales", err)
	}
	return rows, nil
}

func (g *gormGateway) SalesTypes(ctx context.Context, clientID string) ([]models.AccSalesType, error) {
	rows := []models.AccSalesType{}
	if err := g.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("cd").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Store("list sales types", err)
	}
	return rows, nil
}

func (g *gormGateway) PurchaseToday(ctx context.Context, clientID string) ([]models.PurchaseToday, error) {
	start, end := g.today()
	rows := []models.PurchaseToday{}
	if err := g.db.WithContext(ctx).
		Where("client_id = ? AND date >= ? AND date < ?", clientID, start, end).
		Order("date desc, id desc").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Store("list purchases today", err)
	}
	return rows, nil
}

func (g *gormGateway) TenderCash(ctx context.Context, clientID string) ([]models.TenderCash, error) {
	rows := []models.TenderCash{}
	if err := g.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("id desc").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Store("list tender cash", err)
	}
	return rows, nil
}

// TenderCashByType groups tender rows by tender code with per-group totals.
func (g *gormGateway) TenderCashByType(ctx context.Context, clientID string) (map[string]TenderGroup, error) {
	rows, err := g.TenderCash(ctx, clientID)
	if err != nil {
		return nil, err
	}

	grouped := map[string]TenderGroup{}
	for _, row := range rows {
		key := row.TenderCode
		if key == "" {
			key = "UNKNOWN"
		}
		group := grouped[key]
		group.Total += row.Amount
		group.Items = append(group.Items, row)
		grouped[key] = group
	}
	return grouped, nil
}

// TenderCashByUser totals the tenant's tender rows in tender-code order.
func (g *gormGateway) TenderCashByUser(ctx context.Context, clientID string) (TenderUserSummary, error) {
	rows := []models.TenderCash{}
	if err := g.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("tender_code").
		Find(&rows).Error; err != nil {
		return TenderUserSummary{}, apperrors.Store("list tender cash by user", err)
	}

	summary := TenderUserSummary{Items: []TenderItem{}}
	for _, row := range rows {
		summary.Items = append(summary.Items, TenderItem{Code: row.TenderCode, Amount: row.Amount})
		summary.Total += row.Amount
	}
	return summary, nil
}

func (g *gormGateway) Stock(ctx context.Context, clientID string) ([]models.StockItem, error) {
	rows := []models.StockItem{}
	if err := g.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("name").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Store("list stock", err)
	}
	return rows, nil
}
