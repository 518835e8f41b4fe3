package models

type Listing struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	TicketId   uint      `gorm:"index" json:"ticket_id"`
	EventId    uint      `gorm:"index" json:"event_id"`
	Seller     string    `gorm:"index" json:"seller"`
	Price      int64     `json:"price"`
	Active     bool      `json:"active"`
	UpdateDate LocalTime `json:"update_date"`
	CreateDate LocalTime `json:"create_date"`
}

func (Listing) TableName() string {
	return "listing"
}
