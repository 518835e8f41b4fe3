package models

// AuditRecord is one entry of the append-only audit feed, written after a
// mutation commits. Stored as JSON in LevelDB keyed by Seq; not a gorm table.
type AuditRecord struct {
	Id           string `json:"id"`
	Seq          uint64 `json:"seq"`
	Op           string `json:"op"`
	Actor        string `json:"actor"`
	EventId      uint   `json:"event_id,omitempty"`
	TicketId     uint   `json:"ticket_id,omitempty"`
	Counterparty string `json:"counterparty,omitempty"`
	Amount       int64  `json:"amount,omitempty"`
	PrevStatus   string `json:"prev_status,omitempty"`
	NewStatus    string `json:"new_status,omitempty"`
	At           int64  `json:"at"`
}

const (
	AuditOpIdentitySet      = "identity.set"
	AuditOpWriterRotated    = "identity.writer_rotated"
	AuditOpEventCreated     = "event.created"
	AuditOpEventCancelled   = "event.cancelled"
	AuditOpPolicySet        = "event.policy_set"
	AuditOpTicketMinted     = "ticket.minted"
	AuditOpTicketApproved   = "ticket.approved"
	AuditOpTicketUsed       = "ticket.used"
	AuditOpTicketOverride   = "ticket.status_override"
	AuditOpPrimarySale      = "market.primary_sale"
	AuditOpListed           = "market.listed"
	AuditOpListingCancelled = "market.listing_cancelled"
	AuditOpResale           = "market.resale"
	AuditOpDeposit          = "funds.deposited"
)
