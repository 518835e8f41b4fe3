package models

type Event struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	Organizer       string    `json:"organizer"`
	TicketLedgerRef string    `json:"ticket_ledger_ref"`
	SaleStart       int64     `json:"sale_start"`
	SaleEnd         int64     `json:"sale_end"`
	EventStart      int64     `json:"event_start"`
	BasePrice       int64     `json:"base_price"`
	Cancelled       bool      `json:"cancelled"`
	UpdateDate      LocalTime `json:"update_date"`
	CreateDate      LocalTime `json:"create_date"`
}

func (Event) TableName() string {
	return "event"
}

// EventPolicy is the resale policy for one event. Ratios are stored as
// basis points (10000 = 1.0) so settlement stays in integer arithmetic.
type EventPolicy struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	EventId       uint      `gorm:"uniqueIndex" json:"event_id"`
	ResaleEnabled bool      `json:"resale_enabled"`
	ResaleCapBps  int64     `json:"resale_cap_bps"`
	MaxResales    uint      `json:"max_resales"`
	RoyaltyBps    int64     `json:"royalty_bps"`
	UpdateDate    LocalTime `json:"update_date"`
	CreateDate    LocalTime `json:"create_date"`
}

func (EventPolicy) TableName() string {
	return "event_policy"
}
