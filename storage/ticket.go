package storage

import (
	"errors"
	"fmt"

	"fairtix-engine/models"

	"gorm.io/gorm"
)

// MintTicket creates a VALID ticket owned by `to`. Ticket ids come from the
// table's autoincrement key, which keeps them globally unique and strictly
// increasing across all events.
func (db *DBClient) MintTicket(tx *gorm.DB, eventId uint, to string) (*models.Ticket, error) {
	if to == "" {
		return nil, fmt.Errorf("MintTicket err: empty owner event_id: %d", eventId)
	}

	ticket := &models.Ticket{
		EventId:    eventId,
		Owner:      to,
		Status:     models.TicketStatusValid,
		UpdateDate: models.NowLocal(),
		CreateDate: models.NowLocal(),
	}
	if err := tx.Create(ticket).Error; err != nil {
		return nil, fmt.Errorf("MintTicket err: %s event_id: %d to: %s", err.Error(), eventId, to)
	}

	return ticket, nil
}

func (db *DBClient) GetTicket(tx *gorm.DB, ticketId uint) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	err := tx.Where("id = ?", ticketId).First(ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("GetTicket err: %s ticket_id: %d", err.Error(), ticketId)
	}
	return ticket, nil
}

// TransferTicket moves ownership between two non-empty accounts. The ticket
// must be VALID and currently owned by `from`. Approval does not survive a
// custody change.
func (db *DBClient) TransferTicket(tx *gorm.DB, ticketId uint, from, to string) error {
	if from == "" || to == "" {
		return fmt.Errorf("TransferTicket err: empty address ticket_id: %d", ticketId)
	}
	if from == to {
		return fmt.Errorf("TransferTicket err: from and to are the same ticket_id: %d", ticketId)
	}

	ticket := &models.Ticket{}
	err := tx.Where("id = ?", ticketId).First(ticket).Error
	if err != nil {
		return fmt.Errorf("TransferTicket err: %s ticket_id: %d", err.Error(), ticketId)
	}

	if ticket.Owner != from {
		return fmt.Errorf("TransferTicket err: owner mismatch ticket_id: %d owner: %s from: %s", ticketId, ticket.Owner, from)
	}
	if ticket.Status != models.TicketStatusValid {
		return fmt.Errorf("TransferTicket err: ticket not VALID ticket_id: %d status: %s", ticketId, ticket.Status)
	}

	err = tx.Model(ticket).Where("id = ?", ticketId).Updates(map[string]interface{}{
		"owner":       to,
		"approved":    "",
		"update_date": models.NowLocal(),
	}).Error
	if err != nil {
		return fmt.Errorf("TransferTicket Update err: %s ticket_id: %d", err.Error(), ticketId)
	}

	return nil
}

func (db *DBClient) SetTicketApproval(tx *gorm.DB, ticketId uint, approved string) error {
	err := tx.Model(&models.Ticket{}).Where("id = ?", ticketId).Updates(map[string]interface{}{
		"approved":    approved,
		"update_date": models.NowLocal(),
	}).Error
	if err != nil {
		return fmt.Errorf("SetTicketApproval err: %s ticket_id: %d", err.Error(), ticketId)
	}
	return nil
}

// UpdateTicketStatus applies a status transition. The caller has already
// verified the transition is legal; this re-checks the prior status under
// the open tx so a stale read cannot resurrect a terminal ticket.
func (db *DBClient) UpdateTicketStatus(tx *gorm.DB, ticketId uint, prev, next string) error {
	res := tx.Model(&models.Ticket{}).Where("id = ? and status = ?", ticketId, prev).Updates(map[string]interface{}{
		"status":      next,
		"update_date": models.NowLocal(),
	})
	if res.Error != nil {
		return fmt.Errorf("UpdateTicketStatus err: %s ticket_id: %d", res.Error.Error(), ticketId)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("UpdateTicketStatus err: status changed underneath ticket_id: %d expected: %s", ticketId, prev)
	}
	return nil
}

func (db *DBClient) IncResaleCount(tx *gorm.DB, ticketId uint) error {
	err := tx.Model(&models.Ticket{}).Where("id = ?", ticketId).
		Updates(map[string]interface{}{
			"resale_count": gorm.Expr("resale_count + 1"),
			"update_date":  models.NowLocal(),
		}).Error
	if err != nil {
		return fmt.Errorf("IncResaleCount err: %s ticket_id: %d", err.Error(), ticketId)
	}
	return nil
}

func (db *DBClient) GetPurchaseCount(tx *gorm.DB, eventId uint, identityHash string) (uint, error) {
	rec := &models.PurchaseCount{}
	err := tx.Where("event_id = ? and identity_hash = ?", eventId, identityHash).First(rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("GetPurchaseCount err: %s event_id: %d", err.Error(), eventId)
	}
	return rec.Count, nil
}

func (db *DBClient) IncPurchaseCount(tx *gorm.DB, eventId uint, identityHash string, qty uint) error {
	rec := &models.PurchaseCount{}
	err := tx.Where("event_id = ? and identity_hash = ?", eventId, identityHash).First(rec).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("IncPurchaseCount err: %s event_id: %d", err.Error(), eventId)
		}

		rec = &models.PurchaseCount{
			EventId:      eventId,
			IdentityHash: identityHash,
			Count:        qty,
			UpdateDate:   models.NowLocal(),
			CreateDate:   models.NowLocal(),
		}
		if err := tx.Create(rec).Error; err != nil {
			return fmt.Errorf("IncPurchaseCount Create err: %s event_id: %d", err.Error(), eventId)
		}
		return nil
	}

	err = tx.Model(rec).Where("event_id = ? and identity_hash = ?", eventId, identityHash).Updates(map[string]interface{}{
		"count":       rec.Count + qty,
		"update_date": models.NowLocal(),
	}).Error
	if err != nil {
		return fmt.Errorf("IncPurchaseCount Update err: %s event_id: %d", err.Error(), eventId)
	}

	return nil
}
