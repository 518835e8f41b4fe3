package models

const (
	TicketStatusValid     = "VALID"
	TicketStatusUsed      = "USED"
	TicketStatusCancelled = "CANCELLED"
	TicketStatusRefunded  = "REFUNDED"
)

// TicketStatusTerminal reports whether a status admits no further
// transitions. VALID is the only non-terminal state.
func TicketStatusTerminal(status string) bool {
	return status == TicketStatusUsed || status == TicketStatusCancelled || status == TicketStatusRefunded
}

type Ticket struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	EventId     uint      `gorm:"index" json:"event_id"`
	Owner       string    `gorm:"index" json:"owner"`
	Status      string    `json:"status"`
	Approved    string    `json:"approved"`
	ResaleCount uint      `json:"resale_count"`
	UpdateDate  LocalTime `json:"update_date"`
	CreateDate  LocalTime `json:"create_date"`
}

func (Ticket) TableName() string {
	return "ticket"
}

// PurchaseCount tracks primary-sale purchases per (event, identity hash).
// Rows are never deleted and the count never decreases.
type PurchaseCount struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	EventId      uint      `gorm:"uniqueIndex:idx_purchase_count" json:"event_id"`
	IdentityHash string    `gorm:"uniqueIndex:idx_purchase_count" json:"identity_hash"`
	Count        uint      `json:"count"`
	UpdateDate   LocalTime `json:"update_date"`
	CreateDate   LocalTime `json:"create_date"`
}

func (PurchaseCount) TableName() string {
	return "purchase_count"
}
