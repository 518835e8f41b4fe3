package engine

import (
	"fairtix-engine/models"

	"github.com/sirupsen/logrus"
)

// EventCatalog holds event configuration. Creation is open to any
// organizer account; the cancelled flag is the only post-creation mutation.
type EventCatalog struct {
	e *Engine
}

// CreateEvent stores a new event and returns its id. Ids are assigned by a
// monotonic counter starting at 1.
func (c *EventCatalog) CreateEvent(organizer, ledgerRef string, saleStart, saleEnd, eventStart, basePrice int64) (uint, error) {
	e := c.e
	if err := e.enter(); err != nil {
		return 0, err
	}
	defer e.exit()

	if err := e.verify.VerifyCreateEvent(organizer, ledgerRef, saleStart, saleEnd, eventStart, basePrice); err != nil {
		return 0, err
	}

	ev := &models.Event{
		Organizer:       organizer,
		TicketLedgerRef: ledgerRef,
		SaleStart:       saleStart,
		SaleEnd:         saleEnd,
		EventStart:      eventStart,
		BasePrice:       basePrice,
	}

	tx := e.dbc.DB.Begin()
	if err := e.dbc.CreateEvent(tx, ev); err != nil {
		tx.Rollback()
		return 0, err
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	e.appendAudit(&models.AuditRecord{
		Op:      models.AuditOpEventCreated,
		Actor:   organizer,
		EventId: ev.ID,
		Amount:  basePrice,
	})
	e.logger.WithFields(logrus.Fields{
		"op":         "event.created",
		"event_id":   ev.ID,
		"organizer":  organizer,
		"base_price": basePrice,
	}).Info("event created")

	return ev.ID, nil
}

// SetCancelled sets the cancelled flag. Organizer of the event or admin;
// idempotent.
func (c *EventCatalog) SetCancelled(caller string, eventId uint, flag bool) error {
	e := c.e
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	tx := e.dbc.DB.Begin()

	ev, err := e.dbc.GetEvent(tx, eventId)
	if err != nil {
		tx.Rollback()
		return err
	}
	if ev == nil {
		tx.Rollback()
		return Errorf(KindInvalidState, "event %d does not exist", eventId)
	}

	if err := e.verify.VerifyEventManager(tx, ev, caller); err != nil {
		tx.Rollback()
		return err
	}

	if err := e.dbc.SetEventCancelled(tx, eventId, flag); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	e.appendAudit(&models.AuditRecord{
		Op:      models.AuditOpEventCancelled,
		Actor:   caller,
		EventId: eventId,
	})
	e.logger.WithFields(logrus.Fields{
		"op":        "event.cancelled",
		"event_id":  eventId,
		"cancelled": flag,
	}).Info("event cancelled flag set")

	return nil
}

func (c *EventCatalog) GetEvent(eventId uint) (*models.Event, error) {
	return c.e.dbc.GetEvent(c.e.read(), eventId)
}

func (c *EventCatalog) GetPolicy(eventId uint) (*models.EventPolicy, error) {
	return c.e.dbc.GetEventPolicy(c.e.read(), eventId)
}

// IsSaleOpen reports whether the primary sale window is currently open.
func (c *EventCatalog) IsSaleOpen(eventId uint) (bool, error) {
	ev, err := c.GetEvent(eventId)
	if err != nil {
		return false, err
	}
	if ev == nil || ev.Cancelled {
		return false, nil
	}
	now := c.e.now()
	return now >= ev.SaleStart && now <= ev.SaleEnd, nil
}
