package engine

import (
	"fairtix-engine/metrics"
	"fairtix-engine/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TicketLedger owns the ticket records. Minting and ownership transfer
// between accounts are the marketplace's capability: they exist only as
// unexported methods, so nothing outside this package can move a ticket.
type TicketLedger struct {
	e *Engine
}

// mint is the marketplace mint capability.
func (l *TicketLedger) mint(tx *gorm.DB, eventId uint, to string) (*models.Ticket, error) {
	return l.e.dbc.MintTicket(tx, eventId, to)
}

// transfer is the marketplace transfer capability: VALID tickets only,
// both accounts non-empty.
func (l *TicketLedger) transfer(tx *gorm.DB, ticketId uint, from, to string) error {
	return l.e.dbc.TransferTicket(tx, ticketId, from, to)
}

// Approve grants the marketplace a standing permission to take custody of
// one ticket. Callers must own the ticket; listing checks the grant later.
func (l *TicketLedger) Approve(caller string, ticketId uint) error {
	e := l.e
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	tx := e.dbc.DB.Begin()

	ticket, err := e.dbc.GetTicket(tx, ticketId)
	if err != nil {
		tx.Rollback()
		return err
	}
	if ticket == nil {
		tx.Rollback()
		return Errorf(KindInvalidState, "ticket %d does not exist", ticketId)
	}
	if ticket.Owner != caller {
		tx.Rollback()
		return Errorf(KindAuthorization, "caller %s does not own ticket %d", caller, ticketId)
	}
	if ticket.Status != models.TicketStatusValid {
		tx.Rollback()
		return Errorf(KindInvalidState, "ticket %d is %s", ticketId, ticket.Status)
	}

	if err := e.dbc.SetTicketApproval(tx, ticketId, e.operator); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	e.appendAudit(&models.AuditRecord{
		Op:       models.AuditOpTicketApproved,
		Actor:    caller,
		TicketId: ticketId,
	})

	return nil
}

// UseTicket checks a ticket in: VALID to USED, check-in role required. A
// listed ticket sits in escrow and cannot be used until the listing is
// cancelled or settled.
func (l *TicketLedger) UseTicket(caller string, ticketId uint) error {
	e := l.e
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	tx := e.dbc.DB.Begin()

	if err := e.verify.VerifyRole(tx, caller, models.RoleCheckIn); err != nil {
		tx.Rollback()
		return err
	}

	ticket, err := e.dbc.GetTicket(tx, ticketId)
	if err != nil {
		tx.Rollback()
		return err
	}
	if ticket == nil {
		tx.Rollback()
		return Errorf(KindInvalidState, "ticket %d does not exist", ticketId)
	}
	if ticket.Status != models.TicketStatusValid {
		tx.Rollback()
		return Errorf(KindInvalidState, "ticket %d is %s", ticketId, ticket.Status)
	}

	listing, err := e.dbc.GetActiveListing(tx, ticketId)
	if err != nil {
		tx.Rollback()
		return err
	}
	if listing != nil {
		tx.Rollback()
		return Errorf(KindInvalidState, "ticket %d has an active listing", ticketId)
	}

	if err := e.dbc.UpdateTicketStatus(tx, ticketId, models.TicketStatusValid, models.TicketStatusUsed); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	metrics.IncCheckIn()
	e.appendAudit(&models.AuditRecord{
		Op:         models.AuditOpTicketUsed,
		Actor:      caller,
		TicketId:   ticketId,
		EventId:    ticket.EventId,
		PrevStatus: models.TicketStatusValid,
		NewStatus:  models.TicketStatusUsed,
	})
	e.logger.WithFields(logrus.Fields{
		"op":        "ticket.used",
		"ticket_id": ticketId,
		"event_id":  ticket.EventId,
	}).Info("ticket checked in")

	return nil
}

// SetStatus is the admin emergency override to CANCELLED or REFUNDED.
// Terminal states never revert, so the current status must be VALID. An
// active listing is deactivated and custody returned to the seller in the
// same transaction, so a listing never outlives its ticket's validity.
// The prior and new status are logged and audited.
func (l *TicketLedger) SetStatus(caller string, ticketId uint, newStatus string) error {
	e := l.e
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	if !models.TicketStatusTerminal(newStatus) {
		return Errorf(KindInvalidState, "status %s is not a valid override target", newStatus)
	}

	tx := e.dbc.DB.Begin()

	if err := e.verify.VerifyRole(tx, caller, models.RoleAdmin); err != nil {
		tx.Rollback()
		return err
	}

	ticket, err := e.dbc.GetTicket(tx, ticketId)
	if err != nil {
		tx.Rollback()
		return err
	}
	if ticket == nil {
		tx.Rollback()
		return Errorf(KindInvalidState, "ticket %d does not exist", ticketId)
	}
	if models.TicketStatusTerminal(ticket.Status) {
		tx.Rollback()
		return Errorf(KindInvalidState, "ticket %d is already terminal: %s", ticketId, ticket.Status)
	}

	listing, err := e.dbc.GetActiveListing(tx, ticketId)
	if err != nil {
		tx.Rollback()
		return err
	}
	if listing != nil {
		if err := e.dbc.DeactivateListing(tx, listing.ID); err != nil {
			tx.Rollback()
			return err
		}
		// the transfer runs while the ticket is still VALID
		if err := l.transfer(tx, ticketId, e.operator, listing.Seller); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := e.dbc.UpdateTicketStatus(tx, ticketId, ticket.Status, newStatus); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	if listing != nil {
		metrics.IncListingCancelled()
		e.Market.refreshListingGauge()
		e.appendAudit(&models.AuditRecord{
			Op:       models.AuditOpListingCancelled,
			Actor:    caller,
			EventId:  listing.EventId,
			TicketId: ticketId,
		})
	}
	e.appendAudit(&models.AuditRecord{
		Op:         models.AuditOpTicketOverride,
		Actor:      caller,
		TicketId:   ticketId,
		EventId:    ticket.EventId,
		PrevStatus: ticket.Status,
		NewStatus:  newStatus,
	})
	e.logger.WithFields(logrus.Fields{
		"op":          "ticket.status_override",
		"ticket_id":   ticketId,
		"prev_status": ticket.Status,
		"new_status":  newStatus,
	}).Warn("ticket status overridden")

	return nil
}

func (l *TicketLedger) GetTicket(ticketId uint) (*models.Ticket, error) {
	return l.e.dbc.GetTicket(l.e.read(), ticketId)
}
