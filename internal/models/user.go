package models

// AccUser maps the legacy acc_users table. The table pre-exists and is never
// migrated by this service; the password column holds whatever the desktop
// application wrote there.
type AccUser struct {
	ID          string `gorm:"column:id;primaryKey;size:64" json:"id"`
	Password    string `gorm:"column:pass;size:128" json:"-"`
	Role        string `gorm:"size:32" json:"role"`
	AccountCode string `gorm:"column:accountcode;size:64" json:"accountcode"`
	ClientID    string `gorm:"column:client_id;size:64;index" json:"client_id"`
}

func (AccUser) TableName() string { return "acc_users" }
