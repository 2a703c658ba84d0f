package models

// AccMaster maps the legacy account-master table. A row is a billing firm
// ("site") punch-ins and shop locations refer to; (code, client_id) is the
// natural key.
type AccMaster struct {
	Code           string  `gorm:"column:code;primaryKey;size:30" json:"code"`
	ClientID       string  `gorm:"column:client_id;primaryKey;size:100" json:"client_id"`
	Name           string  `gorm:"size:200" json:"name"`
	SuperCode      string  `gorm:"column:super_code;size:5" json:"super_code"`
	OpeningBalance float64 `gorm:"column:opening_balance" json:"opening_balance"`
	Debit          float64 `json:"debit"`
	Credit         float64 `json:"credit"`
	Place          string  `gorm:"size:100" json:"place"`
	Phone2         string  `gorm:"column:phone2;size:60" json:"phone2"`
	OpeningDept    string  `gorm:"column:openingdepartment;size:100" json:"openingdepartment"`
	Area           string  `gorm:"size:200" json:"area"`
}

func (AccMaster) TableName() string { return "acc_master" }
