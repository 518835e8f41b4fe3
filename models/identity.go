package models

type Identity struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Account      string    `gorm:"uniqueIndex" json:"account"`
	IdentityHash string    `json:"identity_hash"`
	MaxTickets   uint      `json:"max_tickets"`
	Blocked      bool      `json:"blocked"`
	Expiry       int64     `json:"expiry"`
	UpdateDate   LocalTime `json:"update_date"`
	CreateDate   LocalTime `json:"create_date"`
}

func (Identity) TableName() string {
	return "identity"
}

const (
	RoleAdmin          = "admin"
	RoleIdentityWriter = "identity_writer"
	RoleCheckIn        = "check_in"
)

type RoleGrant struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Account    string    `gorm:"uniqueIndex:idx_role_grant" json:"account"`
	Role       string    `gorm:"uniqueIndex:idx_role_grant" json:"role"`
	CreateDate LocalTime `json:"create_date"`
}

func (RoleGrant) TableName() string {
	return "role_grant"
}
