package engine

import (
	"time"

	"fairtix-engine/metrics"
	"fairtix-engine/models"

	"github.com/sirupsen/logrus"
)

// Marketplace orchestrates primary sale, escrowed resale and settlement.
// Payment is an integer amount attached to each call and settled against
// the funds ledger inside the same transaction as the ticket mutations, so
// a failed transfer aborts everything.
type Marketplace struct {
	e *Engine
}

// BuyPrimary sells qty tickets of an event to caller at base price. All
// checks run before any write; minting, counter increment, organizer
// payment and change refund commit as one unit. Returns the minted ids.
func (m *Marketplace) BuyPrimary(caller string, eventId uint, qty uint, payment int64) ([]uint, error) {
	e := m.e
	if err := e.enter(); err != nil {
		return nil, err
	}
	defer e.exit()
	start := time.Now()

	tx := e.dbc.DB.Begin()

	ev, identity, err := e.verify.VerifyBuyPrimary(tx, caller, eventId, qty, payment, e.ticketLedgerRef, e.now())
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	cost := ev.BasePrice * int64(qty)

	// the attached payment is pulled from the buyer up front; the unspent
	// remainder goes back at the end of the same tx
	if err := e.dbc.Debit(tx, caller, payment); err != nil {
		tx.Rollback()
		return nil, wrapTransfer(err)
	}

	ids := make([]uint, 0, qty)
	for i := uint(0); i < qty; i++ {
		ticket, err := e.Ledger.mint(tx, eventId, caller)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		ids = append(ids, ticket.ID)
	}

	if err := e.dbc.IncPurchaseCount(tx, eventId, identity.IdentityHash, qty); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := e.dbc.Credit(tx, ev.Organizer, cost); err != nil {
		tx.Rollback()
		return nil, wrapTransfer(err)
	}
	if change := payment - cost; change > 0 {
		if err := e.dbc.Credit(tx, caller, change); err != nil {
			tx.Rollback()
			return nil, wrapTransfer(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	metrics.IncPrimarySale()
	metrics.AddTicketsMinted(len(ids))
	metrics.ObserveSettle("primary", time.Since(start).Seconds())

	for _, id := range ids {
		e.appendAudit(&models.AuditRecord{
			Op:       models.AuditOpTicketMinted,
			Actor:    caller,
			EventId:  eventId,
			TicketId: id,
		})
	}
	e.appendAudit(&models.AuditRecord{
		Op:           models.AuditOpPrimarySale,
		Actor:        caller,
		EventId:      eventId,
		Counterparty: ev.Organizer,
		Amount:       cost,
	})
	e.logger.WithFields(logrus.Fields{
		"op":       "market.primary_sale",
		"buyer":    caller,
		"event_id": eventId,
		"qty":      qty,
		"amount":   cost,
	}).Info("primary sale settled")

	return ids, nil
}

// SetEventPolicy configures the resale policy for an event. Organizer or
// admin; ratios are validated against the configured guardrails.
func (m *Marketplace) SetEventPolicy(caller string, eventId uint, resaleEnabled bool, resaleCapBps int64, maxResales uint, royaltyBps int64) error {
	e := m.e
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
	if err := e.verify.VerifyEventPolicy(resaleCapBps, royaltyBps, e.maxResaleCapBps, e.maxRoyaltyBps); err != nil {
		tx.Rollback()
		return err
	}
	if err := e.verify.VerifyPolicyListings(tx, ev, resaleCapBps); err != nil {
		tx.Rollback()
		return err
	}

	pol := &models.EventPolicy{
		EventId:       eventId,
		ResaleEnabled: resaleEnabled,
		ResaleCapBps:  resaleCapBps,
		MaxResales:    maxResales,
		RoyaltyBps:    royaltyBps,
	}
	if err := e.dbc.SetEventPolicy(tx, pol); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	e.appendAudit(&models.AuditRecord{
		Op:      models.AuditOpPolicySet,
		Actor:   caller,
		EventId: eventId,
	})
	e.logger.WithFields(logrus.Fields{
		"op":             "event.policy_set",
		"event_id":       eventId,
		"resale_enabled": resaleEnabled,
		"resale_cap_bps": resaleCapBps,
		"royalty_bps":    royaltyBps,
	}).Info("event policy set")

	return nil
}

// ListTicket moves the ticket into escrow and records an active listing.
// The seller must have approved the marketplace beforehand.
func (m *Marketplace) ListTicket(caller string, ticketId uint, price int64) error {
	e := m.e
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	tx := e.dbc.DB.Begin()

	ticket, ev, _, err := e.verify.VerifyListTicket(tx, caller, ticketId, price, e.operator, e.now())
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := e.Ledger.transfer(tx, ticketId, caller, e.operator); err != nil {
		tx.Rollback()
		return err
	}

	listing := &models.Listing{
		TicketId: ticketId,
		EventId:  ticket.EventId,
		Seller:   caller,
		Price:    price,
	}
	if err := e.dbc.CreateListing(tx, listing); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	metrics.IncListing()
	m.refreshListingGauge()
	e.appendAudit(&models.AuditRecord{
		Op:       models.AuditOpListed,
		Actor:    caller,
		EventId:  ev.ID,
		TicketId: ticketId,
		Amount:   price,
	})
	e.logger.WithFields(logrus.Fields{
		"op":        "market.listed",
		"seller":    caller,
		"ticket_id": ticketId,
		"price":     price,
	}).Info("ticket listed for resale")

	return nil
}

// CancelListing deactivates the listing and returns the ticket from escrow
// to the seller.
func (m *Marketplace) CancelListing(caller string, ticketId uint) error {
	e := m.e
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	tx := e.dbc.DB.Begin()

	listing, err := e.verify.VerifyCancelListing(tx, caller, ticketId)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := e.dbc.DeactivateListing(tx, listing.ID); err != nil {
		tx.Rollback()
		return err
	}

	if err := e.Ledger.transfer(tx, ticketId, e.operator, listing.Seller); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	metrics.IncListingCancelled()
	m.refreshListingGauge()
	e.appendAudit(&models.AuditRecord{
		Op:       models.AuditOpListingCancelled,
		Actor:    caller,
		EventId:  listing.EventId,
		TicketId: ticketId,
	})
	e.logger.WithFields(logrus.Fields{
		"op":        "market.listing_cancelled",
		"seller":    caller,
		"ticket_id": ticketId,
	}).Info("listing cancelled")

	return nil
}

// BuyResale settles an escrowed listing. The listing is deactivated before
// any funds move, the royalty split is pure integer arithmetic, and custody
// passes to the buyer last. Any transfer failure aborts the whole call.
func (m *Marketplace) BuyResale(caller string, ticketId uint, payment int64) error {
	e := m.e
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()
	start := time.Now()

	tx := e.dbc.DB.Begin()

	listing, ticket, ev, pol, err := e.verify.VerifyBuyResale(tx, caller, ticketId, payment, e.now())
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := e.dbc.DeactivateListing(tx, listing.ID); err != nil {
		tx.Rollback()
		return err
	}

	royalty := listing.Price * pol.RoyaltyBps / 10000
	sellerAmount := listing.Price - royalty

	if err := e.dbc.Debit(tx, caller, payment); err != nil {
		tx.Rollback()
		return wrapTransfer(err)
	}
	if err := e.dbc.Credit(tx, listing.Seller, sellerAmount); err != nil {
		tx.Rollback()
		return wrapTransfer(err)
	}
	if royalty > 0 {
		if err := e.dbc.Credit(tx, ev.Organizer, royalty); err != nil {
			tx.Rollback()
			return wrapTransfer(err)
		}
	}
	if change := payment - listing.Price; change > 0 {
		if err := e.dbc.Credit(tx, caller, change); err != nil {
			tx.Rollback()
			return wrapTransfer(err)
		}
	}

	if err := e.dbc.IncResaleCount(tx, ticketId); err != nil {
		tx.Rollback()
		return err
	}

	if err := e.Ledger.transfer(tx, ticketId, e.operator, caller); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	metrics.IncResale()
	metrics.ObserveSettle("resale", time.Since(start).Seconds())
	m.refreshListingGauge()
	e.appendAudit(&models.AuditRecord{
		Op:           models.AuditOpResale,
		Actor:        caller,
		Counterparty: listing.Seller,
		EventId:      ticket.EventId,
		TicketId:     ticketId,
		Amount:       listing.Price,
	})
	e.logger.WithFields(logrus.Fields{
		"op":        "market.resale",
		"buyer":     caller,
		"seller":    listing.Seller,
		"ticket_id": ticketId,
		"price":     listing.Price,
		"royalty":   royalty,
	}).Info("resale settled")

	return nil
}

// Deposit credits the funds ledger so buyers can attach payments to
// later calls.
func (m *Marketplace) Deposit(account string, amount int64) error {
	e := m.e
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	if account == "" {
		return Errorf(KindInvalidState, "account required")
	}
	if amount <= 0 {
		return Errorf(KindInvalidState, "deposit amount must be positive")
	}

	tx := e.dbc.DB.Begin()
	if err := e.dbc.Credit(tx, account, amount); err != nil {
		tx.Rollback()
		return wrapTransfer(err)
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	e.appendAudit(&models.AuditRecord{
		Op:     models.AuditOpDeposit,
		Actor:  account,
		Amount: amount,
	})

	return nil
}

func (m *Marketplace) BalanceOf(account string) (int64, error) {
	return m.e.dbc.GetBalance(m.e.read(), account)
}

func (m *Marketplace) GetActiveListing(ticketId uint) (*models.Listing, error) {
	return m.e.dbc.GetActiveListing(m.e.read(), ticketId)
}

func (m *Marketplace) refreshListingGauge() {
	var n int64
	if err := m.e.read().Model(&models.Listing{}).Where("active = ?", true).Count(&n).Error; err == nil {
		metrics.SetActiveListings(n)
	}
}
