package models

import "time"

// Read-only rows backing the reporting gateway. The tables are populated by
// the upstream sync jobs; this service only ever selects from them.

type SalesToday struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ClientID      string    `gorm:"column:client_id;size:100;index" json:"client_id"`
	InvDate       time.Time `gorm:"column:invdate" json:"invdate"`
	BillNo        string    `gorm:"column:bill_no;size:100" json:"bill_no"`
	Customer      string    `gorm:"size:200" json:"customer"`
	ModeOfPayment string    `gorm:"column:modeofpayment;size:30" json:"modeofpayment"`
	NetTotal      float64   `gorm:"column:nettotal" json:"nettotal"`
	Paid          float64   `json:"paid"`
}

func (SalesToday) TableName() string { return "sales_today" }

// AccSalesType maps payment-mode codes to display names; sales rows refer
// to it through modeofpayment = cd.
type AccSalesType struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	Cd       string `gorm:"column:cd;size:30" json:"cd"`
	Name     string `gorm:"size:100" json:"name"`
	ClientID string `gorm:"column:client_id;size:50;index" json:"client_id"`
}

func (AccSalesType) TableName() string { return "acc_sales_types" }

type PurchaseToday struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	ClientID string    `gorm:"column:client_id;size:100;index" json:"client_id"`
	Date     time.Time `json:"date"`
	BillNo   string    `gorm:"column:bill_no;size:100" json:"bill_no"`
	Supplier string    `gorm:"size:200" json:"supplier"`
	Amount   float64   `json:"amount"`
}

func (PurchaseToday) TableName() string { return "purchase_today" }

type TenderCash struct {
	ID           uint    `gorm:"primaryKey" json:"-"`
	ClientID     string  `gorm:"column:client_id;size:100;index" json:"client_id"`
	Mslno        int     `gorm:"column:mslno" json:"mslno"`
	TenderCode   string  `gorm:"column:tender_code;size:30" json:"tender_code"`
	Amount       float64 `json:"amount"`
	CurrencyCode string  `gorm:"column:currency_code;size:10" json:"currency_code"`
	CurrencyName string  `gorm:"column:currency_name;size:50" json:"currency_name"`
}

func (TenderCash) TableName() string { return "tendercash" }

type StockItem struct {
	ID          uint    `gorm:"primaryKey" json:"-"`
	ClientID    string  `gorm:"column:client_id;size:50;index" json:"client_id"`
	Code        string  `gorm:"size:30" json:"code"`
	Name        string  `gorm:"size:200" json:"name"`
	ProductCode string  `gorm:"column:productcode;size:30" json:"productcode"`
	Barcode     string  `gorm:"size:35" json:"barcode"`
	BMrp        float64 `gorm:"column:bmrp" json:"bmrp"`
	SalesPrice  float64 `gorm:"column:salesprice" json:"salesprice"`
	Quantity    float64 `json:"quantity"`
}

func (StockItem) TableName() string { return "stock_report" }
