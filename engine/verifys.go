package engine

import (
	"fairtix-engine/models"
	"fairtix-engine/storage"

	"gorm.io/gorm"
)

// maxPurchaseQty bounds a single primary-sale request. Keeping the bound
// small makes the counter and payment arithmetic overflow-free.
const maxPurchaseQty = 100

// Verifys evaluates every precondition of an operation against the open
// transaction before the first write happens. Each method either returns
// the rows the caller will mutate or a kinded error naming the first
// violated check.
type Verifys struct {
	dbc *storage.DBClient
}

func NewVerifys(dbc *storage.DBClient) *Verifys {
	return &Verifys{
		dbc: dbc,
	}
}

func (v *Verifys) VerifyRole(tx *gorm.DB, caller, role string) error {
	has, err := v.dbc.HasRole(tx, caller, role)
	if err != nil {
		return err
	}
	if !has {
		return Errorf(KindAuthorization, "caller %s lacks role %s", caller, role)
	}
	return nil
}

// VerifyEventManager allows the event's organizer or any admin.
func (v *Verifys) VerifyEventManager(tx *gorm.DB, ev *models.Event, caller string) error {
	if caller == ev.Organizer {
		return nil
	}
	has, err := v.dbc.HasRole(tx, caller, models.RoleAdmin)
	if err != nil {
		return err
	}
	if !has {
		return Errorf(KindAuthorization, "caller %s is neither organizer nor admin for event %d", caller, ev.ID)
	}
	return nil
}

// VerifyEligible enforces the attestation gate: hash present, not blocked,
// not expired. Returns the identity so callers can reach the hash.
func (v *Verifys) VerifyEligible(tx *gorm.DB, wallet string, now int64) (*models.Identity, error) {
	identity, err := v.dbc.GetIdentity(tx, wallet)
	if err != nil {
		return nil, err
	}
	if identity == nil || identity.IdentityHash == "" {
		return nil, Errorf(KindNotEligible, "no identity attestation for %s", wallet)
	}
	if identity.Blocked {
		return nil, Errorf(KindNotEligible, "identity for %s is blocked", wallet)
	}
	if identity.Expiry != 0 && now > identity.Expiry {
		return nil, Errorf(KindNotEligible, "identity attestation for %s expired", wallet)
	}
	return identity, nil
}

func (v *Verifys) VerifyCreateEvent(organizer, ledgerRef string, saleStart, saleEnd, eventStart, basePrice int64) error {
	if organizer == "" {
		return Errorf(KindAuthorization, "organizer account required")
	}
	if ledgerRef == "" {
		return Errorf(KindInvalidState, "ticket ledger reference required")
	}
	if saleStart >= saleEnd {
		return Errorf(KindInvalidState, "sale window is empty: start %d end %d", saleStart, saleEnd)
	}
	if eventStart < saleEnd {
		return Errorf(KindInvalidState, "event start %d precedes sale end %d", eventStart, saleEnd)
	}
	if basePrice <= 0 {
		return Errorf(KindInvalidState, "base price must be positive")
	}
	return nil
}

// VerifyEventPolicy checks the policy values against the configured
// guardrails. The bounds are policy knobs, never hard-coded here.
func (v *Verifys) VerifyEventPolicy(resaleCapBps, royaltyBps, maxCapBps, maxRoyaltyBps int64) error {
	if resaleCapBps < 10000 {
		return Errorf(KindPriceViolation, "resale cap %d bps below 1.0", resaleCapBps)
	}
	if resaleCapBps > maxCapBps {
		return Errorf(KindPriceViolation, "resale cap %d bps exceeds guardrail %d", resaleCapBps, maxCapBps)
	}
	if royaltyBps < 0 {
		return Errorf(KindPriceViolation, "royalty must not be negative")
	}
	if royaltyBps > maxRoyaltyBps {
		return Errorf(KindPriceViolation, "royalty %d bps exceeds guardrail %d", royaltyBps, maxRoyaltyBps)
	}
	return nil
}

// VerifyPolicyListings rejects a cap change that would leave an already
// active listing above the new price cap.
func (v *Verifys) VerifyPolicyListings(tx *gorm.DB, ev *models.Event, resaleCapBps int64) error {
	highest, err := v.dbc.MaxActiveListingPrice(tx, ev.ID)
	if err != nil {
		return err
	}
	priceCap := ev.BasePrice * resaleCapBps / 10000
	if highest > priceCap {
		return Errorf(KindPriceViolation, "active listing at %d exceeds new cap %d for event %d", highest, priceCap, ev.ID)
	}
	return nil
}

// VerifyBuyPrimary runs the primary-sale checks in their required order and
// returns the event and buyer identity on success.
func (v *Verifys) VerifyBuyPrimary(tx *gorm.DB, caller string, eventId uint, qty uint, payment int64, ledgerRef string, now int64) (*models.Event, *models.Identity, error) {
	if qty == 0 {
		return nil, nil, Errorf(KindInvalidState, "quantity must be positive")
	}
	if qty > maxPurchaseQty {
		return nil, nil, Errorf(KindInvalidState, "quantity %d exceeds the per-call limit of %d", qty, maxPurchaseQty)
	}

	ev, err := v.dbc.GetEvent(tx, eventId)
	if err != nil {
		return nil, nil, err
	}
	if ev == nil {
		return nil, nil, Errorf(KindInvalidState, "event %d does not exist", eventId)
	}
	if ev.Cancelled {
		return nil, nil, Errorf(KindInvalidState, "event %d is cancelled", eventId)
	}
	if ev.TicketLedgerRef != ledgerRef {
		return nil, nil, Errorf(KindInvalidState, "event %d references ledger %s, not %s", eventId, ev.TicketLedgerRef, ledgerRef)
	}
	if now < ev.SaleStart || now > ev.SaleEnd {
		return nil, nil, Errorf(KindInvalidState, "sale window for event %d is closed", eventId)
	}

	identity, err := v.VerifyEligible(tx, caller, now)
	if err != nil {
		return nil, nil, err
	}

	count, err := v.dbc.GetPurchaseCount(tx, eventId, identity.IdentityHash)
	if err != nil {
		return nil, nil, err
	}
	if count+qty > identity.MaxTickets {
		return nil, nil, Errorf(KindLimitExceeded, "identity holds %d of %d tickets for event %d, requested %d", count, identity.MaxTickets, eventId, qty)
	}

	if payment < ev.BasePrice*int64(qty) {
		return nil, nil, Errorf(KindPriceViolation, "payment %d below required %d", payment, ev.BasePrice*int64(qty))
	}

	return ev, identity, nil
}

// VerifyListTicket checks every listing precondition, including the
// standing transfer approval the seller must have granted beforehand.
func (v *Verifys) VerifyListTicket(tx *gorm.DB, caller string, ticketId uint, price int64, operator string, now int64) (*models.Ticket, *models.Event, *models.EventPolicy, error) {
	if price <= 0 {
		return nil, nil, nil, Errorf(KindPriceViolation, "listing price must be positive")
	}

	existing, err := v.dbc.GetActiveListing(tx, ticketId)
	if err != nil {
		return nil, nil, nil, err
	}
	if existing != nil {
		return nil, nil, nil, Errorf(KindInvalidState, "ticket %d already has an active listing", ticketId)
	}

	ticket, err := v.dbc.GetTicket(tx, ticketId)
	if err != nil {
		return nil, nil, nil, err
	}
	if ticket == nil {
		return nil, nil, nil, Errorf(KindInvalidState, "ticket %d does not exist", ticketId)
	}
	if ticket.Owner != caller {
		return nil, nil, nil, Errorf(KindAuthorization, "caller %s does not own ticket %d", caller, ticketId)
	}
	if ticket.Status != models.TicketStatusValid {
		return nil, nil, nil, Errorf(KindInvalidState, "ticket %d is %s", ticketId, ticket.Status)
	}

	ev, err := v.dbc.GetEvent(tx, ticket.EventId)
	if err != nil {
		return nil, nil, nil, err
	}
	if ev == nil {
		return nil, nil, nil, Errorf(KindInvalidState, "event %d does not exist", ticket.EventId)
	}
	if ev.Cancelled {
		return nil, nil, nil, Errorf(KindInvalidState, "event %d is cancelled", ev.ID)
	}
	if now >= ev.EventStart {
		return nil, nil, nil, Errorf(KindInvalidState, "event %d has started", ev.ID)
	}

	pol, err := v.dbc.GetEventPolicy(tx, ticket.EventId)
	if err != nil {
		return nil, nil, nil, err
	}
	if pol == nil || !pol.ResaleEnabled {
		return nil, nil, nil, Errorf(KindInvalidState, "resale is not enabled for event %d", ev.ID)
	}
	if pol.MaxResales != 0 && ticket.ResaleCount >= pol.MaxResales {
		return nil, nil, nil, Errorf(KindLimitExceeded, "ticket %d reached its resale limit of %d", ticketId, pol.MaxResales)
	}

	priceCap := ev.BasePrice * pol.ResaleCapBps / 10000
	if price > priceCap {
		return nil, nil, nil, Errorf(KindPriceViolation, "price %d exceeds cap %d for event %d", price, priceCap, ev.ID)
	}

	if ticket.Approved != operator {
		return nil, nil, nil, Errorf(KindAuthorization, "marketplace is not approved to move ticket %d", ticketId)
	}

	return ticket, ev, pol, nil
}

func (v *Verifys) VerifyCancelListing(tx *gorm.DB, caller string, ticketId uint) (*models.Listing, error) {
	listing, err := v.dbc.GetActiveListing(tx, ticketId)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, Errorf(KindInvalidState, "no active listing for ticket %d", ticketId)
	}
	if listing.Seller != caller {
		return nil, Errorf(KindAuthorization, "caller %s is not the seller of ticket %d", caller, ticketId)
	}
	return listing, nil
}

// VerifyBuyResale checks the resale purchase preconditions and returns the
// rows settlement will touch.
func (v *Verifys) VerifyBuyResale(tx *gorm.DB, caller string, ticketId uint, payment int64, now int64) (*models.Listing, *models.Ticket, *models.Event, *models.EventPolicy, error) {
	listing, err := v.dbc.GetActiveListing(tx, ticketId)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if listing == nil {
		return nil, nil, nil, nil, Errorf(KindInvalidState, "no active listing for ticket %d", ticketId)
	}

	ticket, err := v.dbc.GetTicket(tx, ticketId)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if ticket == nil {
		return nil, nil, nil, nil, Errorf(KindInvalidState, "ticket %d does not exist", ticketId)
	}

	ev, err := v.dbc.GetEvent(tx, ticket.EventId)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if ev == nil {
		return nil, nil, nil, nil, Errorf(KindInvalidState, "event %d does not exist", ticket.EventId)
	}
	if ev.Cancelled {
		return nil, nil, nil, nil, Errorf(KindInvalidState, "event %d is cancelled", ev.ID)
	}
	if now >= ev.EventStart {
		return nil, nil, nil, nil, Errorf(KindInvalidState, "event %d has started", ev.ID)
	}

	if _, err := v.VerifyEligible(tx, caller, now); err != nil {
		return nil, nil, nil, nil, err
	}

	if payment < listing.Price {
		return nil, nil, nil, nil, Errorf(KindPriceViolation, "payment %d below listing price %d", payment, listing.Price)
	}

	pol, err := v.dbc.GetEventPolicy(tx, ticket.EventId)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if pol == nil {
		return nil, nil, nil, nil, Errorf(KindInvalidState, "resale is not enabled for event %d", ev.ID)
	}

	return listing, ticket, ev, pol, nil
}
