package models

// Account is one row of the funds ledger. Balances are integer currency
// units; settlement never deals in fractions.
type Account struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Address    string    `gorm:"uniqueIndex" json:"address"`
	Balance    int64     `json:"balance"`
	UpdateDate LocalTime `json:"update_date"`
	CreateDate LocalTime `json:"create_date"`
}

func (Account) TableName() string {
	return "account"
}
