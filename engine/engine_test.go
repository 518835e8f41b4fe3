package engine

import (
	"io"
	"path/filepath"
	"testing"

	"fairtix-engine/config"
	"fairtix-engine/models"
	"fairtix-engine/storage"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNow = int64(1700000000)

const (
	accAdmin     = "admin"
	accWriter    = "kyc"
	accGate      = "gate"
	accEscrow    = "escrow"
	accOrganizer = "organizer"
	accAlice     = "alice"
	accBob       = "bob"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	dbc := storage.NewSqliteClient(config.SqliteConfig{Dsn: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, dbc.AutoMigrate())

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	e := NewEngine(EngineProperty{
		Logger:          logger,
		DB:              dbc,
		OperatorAccount: accEscrow,
		TicketLedgerRef: "ledger-1",
		MaxResaleCapBps: 20000,
		MaxRoyaltyBps:   2000,
		AdminAccounts:   []string{accAdmin},
		IdentityWriter:  accWriter,
		CheckInAccounts: []string{accGate},
	})
	require.NoError(t, e.Bootstrap())
	e.SetClock(func() int64 { return testNow })

	return e
}

func attest(t *testing.T, e *Engine, wallet string, maxTickets uint) {
	t.Helper()
	require.NoError(t, e.Registry.SetIdentity(accWriter, wallet, "hash-"+wallet, maxTickets, false, 0))
}

func fund(t *testing.T, e *Engine, account string, amount int64) {
	t.Helper()
	require.NoError(t, e.Market.Deposit(account, amount))
}

func newEvent(t *testing.T, e *Engine, basePrice int64) uint {
	t.Helper()
	id, err := e.Catalog.CreateEvent(accOrganizer, "ledger-1", testNow-100, testNow+1000, testNow+2000, basePrice)
	require.NoError(t, err)
	return id
}

func enableResale(t *testing.T, e *Engine, eventId uint, capBps int64, maxResales uint, royaltyBps int64) {
	t.Helper()
	require.NoError(t, e.Market.SetEventPolicy(accOrganizer, eventId, true, capBps, maxResales, royaltyBps))
}

// listTicket buys, approves and lists one ticket, returning its id.
func listTicket(t *testing.T, e *Engine, eventId uint, seller string, price int64) uint {
	t.Helper()
	ids, err := e.Market.BuyPrimary(seller, eventId, 1, 100)
	require.NoError(t, err)
	require.NoError(t, e.Ledger.Approve(seller, ids[0]))
	require.NoError(t, e.Market.ListTicket(seller, ids[0], price))
	return ids[0]
}

func TestBuyPrimaryRespectsTicketCap(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	attest(t, e, accAlice, 2)
	fund(t, e, accAlice, 1000)

	ids, err := e.Market.BuyPrimary(accAlice, eventId, 2, 200)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	count, err := e.dbc.GetPurchaseCount(e.read(), eventId, "hash-"+accAlice)
	require.NoError(t, err)
	assert.Equal(t, uint(2), count)

	_, err = e.Market.BuyPrimary(accAlice, eventId, 1, 100)
	require.Error(t, err)
	assert.Equal(t, KindLimitExceeded, KindOf(err))

	// nothing was minted by the rejected call
	var total int64
	require.NoError(t, e.read().Model(&models.Ticket{}).Count(&total).Error)
	assert.Equal(t, int64(2), total)
}

func TestBuyPrimarySettlement(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	attest(t, e, accAlice, 4)
	fund(t, e, accAlice, 1000)

	_, err := e.Market.BuyPrimary(accAlice, eventId, 2, 250)
	require.NoError(t, err)

	organizerBalance, err := e.Market.BalanceOf(accOrganizer)
	require.NoError(t, err)
	assert.Equal(t, int64(200), organizerBalance)

	// overpayment refunded within the same transaction
	aliceBalance, err := e.Market.BalanceOf(accAlice)
	require.NoError(t, err)
	assert.Equal(t, int64(800), aliceBalance)
}

func TestBuyPrimaryValidationOrder(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)

	_, err := e.Market.BuyPrimary(accAlice, eventId, 0, 0)
	assert.Equal(t, KindInvalidState, KindOf(err))

	_, err = e.Market.BuyPrimary(accAlice, eventId+99, 1, 100)
	assert.Equal(t, KindInvalidState, KindOf(err))

	// no attestation yet
	_, err = e.Market.BuyPrimary(accAlice, eventId, 1, 100)
	assert.Equal(t, KindNotEligible, KindOf(err))

	attest(t, e, accAlice, 2)
	_, err = e.Market.BuyPrimary(accAlice, eventId, 1, 50)
	assert.Equal(t, KindPriceViolation, KindOf(err))
}

func TestBuyPrimarySaleWindow(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	attest(t, e, accAlice, 2)
	fund(t, e, accAlice, 200)

	e.SetClock(func() int64 { return testNow + 5000 })
	_, err := e.Market.BuyPrimary(accAlice, eventId, 1, 100)
	assert.Equal(t, KindInvalidState, KindOf(err))

	e.SetClock(func() int64 { return testNow - 500 })
	_, err = e.Market.BuyPrimary(accAlice, eventId, 1, 100)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestBuyPrimaryInsufficientFundsAborts(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	attest(t, e, accAlice, 2)
	fund(t, e, accAlice, 50)

	_, err := e.Market.BuyPrimary(accAlice, eventId, 1, 100)
	require.Error(t, err)
	assert.Equal(t, KindTransferFailure, KindOf(err))

	// all-or-nothing: no mint, no counter, no balance movement
	var tickets int64
	require.NoError(t, e.read().Model(&models.Ticket{}).Count(&tickets).Error)
	assert.Zero(t, tickets)

	count, err := e.dbc.GetPurchaseCount(e.read(), eventId, "hash-"+accAlice)
	require.NoError(t, err)
	assert.Zero(t, count)

	balance, err := e.Market.BalanceOf(accAlice)
	require.NoError(t, err)
	assert.Equal(t, int64(50), balance)
}

func TestBuyPrimaryCancelledEvent(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	attest(t, e, accAlice, 2)
	fund(t, e, accAlice, 200)

	require.NoError(t, e.Catalog.SetCancelled(accOrganizer, eventId, true))

	_, err := e.Market.BuyPrimary(accAlice, eventId, 1, 100)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestTicketIdsStrictlyIncreasing(t *testing.T) {
	e := newTestEngine(t)
	first := newEvent(t, e, 100)
	second := newEvent(t, e, 100)
	attest(t, e, accAlice, 10)
	fund(t, e, accAlice, 2000)

	var last uint
	for _, eventId := range []uint{first, second, first} {
		ids, err := e.Market.BuyPrimary(accAlice, eventId, 2, 200)
		require.NoError(t, err)
		for _, id := range ids {
			assert.Greater(t, id, last)
			last = id
		}
	}
}

func TestListTicketPriceCap(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	enableResale(t, e, eventId, 11000, 0, 0)
	attest(t, e, accAlice, 2)
	fund(t, e, accAlice, 200)

	ids, err := e.Market.BuyPrimary(accAlice, eventId, 1, 100)
	require.NoError(t, err)
	require.NoError(t, e.Ledger.Approve(accAlice, ids[0]))

	// cap is 110
	err = e.Market.ListTicket(accAlice, ids[0], 150)
	require.Error(t, err)
	assert.Equal(t, KindPriceViolation, KindOf(err))

	// ticket stayed with the owner, not in escrow
	ticket, err := e.Ledger.GetTicket(ids[0])
	require.NoError(t, err)
	assert.Equal(t, accAlice, ticket.Owner)

	require.NoError(t, e.Market.ListTicket(accAlice, ids[0], 110))
	ticket, err = e.Ledger.GetTicket(ids[0])
	require.NoError(t, err)
	assert.Equal(t, accEscrow, ticket.Owner)
}

func TestListTicketRequiresApproval(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	enableResale(t, e, eventId, 11000, 0, 0)
	attest(t, e, accAlice, 2)
	fund(t, e, accAlice, 200)

	ids, err := e.Market.BuyPrimary(accAlice, eventId, 1, 100)
	require.NoError(t, err)

	err = e.Market.ListTicket(accAlice, ids[0], 100)
	require.Error(t, err)
	assert.Equal(t, KindAuthorization, KindOf(err))
}

func TestListTicketResaleDisabled(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	attest(t, e, accAlice, 2)
	fund(t, e, accAlice, 200)

	ids, err := e.Market.BuyPrimary(accAlice, eventId, 1, 100)
	require.NoError(t, err)
	require.NoError(t, e.Ledger.Approve(accAlice, ids[0]))

	err = e.Market.ListTicket(accAlice, ids[0], 100)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestDuplicateListingRejected(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	enableResale(t, e, eventId, 11000, 0, 0)
	attest(t, e, accAlice, 2)
	fund(t, e, accAlice, 200)

	ticketId := listTicket(t, e, eventId, accAlice, 100)

	err := e.Market.ListTicket(accAlice, ticketId, 100)
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestCancelListingOnlySeller(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	enableResale(t, e, eventId, 11000, 0, 0)
	attest(t, e, accAlice, 2)
	attest(t, e, accBob, 2)
	fund(t, e, accAlice, 200)

	ticketId := listTicket(t, e, eventId, accAlice, 100)

	err := e.Market.CancelListing(accBob, ticketId)
	require.Error(t, err)
	assert.Equal(t, KindAuthorization, KindOf(err))

	// listing still active, ticket still in escrow
	listing, err := e.Market.GetActiveListing(ticketId)
	require.NoError(t, err)
	require.NotNil(t, listing)

	ticket, err := e.Ledger.GetTicket(ticketId)
	require.NoError(t, err)
	assert.Equal(t, accEscrow, ticket.Owner)

	require.NoError(t, e.Market.CancelListing(accAlice, ticketId))

	listing, err = e.Market.GetActiveListing(ticketId)
	require.NoError(t, err)
	assert.Nil(t, listing)

	ticket, err = e.Ledger.GetTicket(ticketId)
	require.NoError(t, err)
	assert.Equal(t, accAlice, ticket.Owner)
}

func TestBuyResaleUnderpayment(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	enableResale(t, e, eventId, 15000, 0, 0)
	attest(t, e, accAlice, 2)
	attest(t, e, accBob, 2)
	fund(t, e, accAlice, 200)
	fund(t, e, accBob, 500)

	ticketId := listTicket(t, e, eventId, accAlice, 150)

	err := e.Market.BuyResale(accBob, ticketId, 100)
	require.Error(t, err)
	assert.Equal(t, KindPriceViolation, KindOf(err))

	// listing survives, ticket stays escrowed
	listing, err := e.Market.GetActiveListing(ticketId)
	require.NoError(t, err)
	require.NotNil(t, listing)

	ticket, err := e.Ledger.GetTicket(ticketId)
	require.NoError(t, err)
	assert.Equal(t, accEscrow, ticket.Owner)
}

func TestBuyResaleRoyaltySplit(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	// 10% royalty
	enableResale(t, e, eventId, 15000, 0, 1000)
	attest(t, e, accAlice, 2)
	attest(t, e, accBob, 2)
	fund(t, e, accAlice, 200)
	fund(t, e, accBob, 500)

	ticketId := listTicket(t, e, eventId, accAlice, 101)

	require.NoError(t, e.Market.BuyResale(accBob, ticketId, 120))

	// integer split: royalty = floor(101*0.10) = 10, seller keeps 91
	aliceBalance, err := e.Market.BalanceOf(accAlice)
	require.NoError(t, err)
	assert.Equal(t, int64(100+91), aliceBalance)

	organizerBalance, err := e.Market.BalanceOf(accOrganizer)
	require.NoError(t, err)
	assert.Equal(t, int64(100+10), organizerBalance)

	bobBalance, err := e.Market.BalanceOf(accBob)
	require.NoError(t, err)
	assert.Equal(t, int64(500-101), bobBalance)

	ticket, err := e.Ledger.GetTicket(ticketId)
	require.NoError(t, err)
	assert.Equal(t, accBob, ticket.Owner)
	assert.Equal(t, uint(1), ticket.ResaleCount)

	listing, err := e.Market.GetActiveListing(ticketId)
	require.NoError(t, err)
	assert.Nil(t, listing)
}

func TestResaleCountLimit(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	enableResale(t, e, eventId, 15000, 1, 0)
	attest(t, e, accAlice, 2)
	attest(t, e, accBob, 2)
	fund(t, e, accAlice, 200)
	fund(t, e, accBob, 500)

	ticketId := listTicket(t, e, eventId, accAlice, 100)
	require.NoError(t, e.Market.BuyResale(accBob, ticketId, 100))

	require.NoError(t, e.Ledger.Approve(accBob, ticketId))
	err := e.Market.ListTicket(accBob, ticketId, 100)
	require.Error(t, err)
	assert.Equal(t, KindLimitExceeded, KindOf(err))
}

func TestBlockedIdentityKeepsTickets(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	enableResale(t, e, eventId, 15000, 0, 0)
	attest(t, e, accAlice, 4)
	attest(t, e, accBob, 2)
	fund(t, e, accAlice, 400)
	fund(t, e, accBob, 200)

	ids, err := e.Market.BuyPrimary(accAlice, eventId, 1, 100)
	require.NoError(t, err)

	ticketId := listTicket(t, e, eventId, accBob, 100)

	// block alice after a successful purchase
	require.NoError(t, e.Registry.SetIdentity(accWriter, accAlice, "hash-"+accAlice, 4, true, 0))

	_, err = e.Market.BuyPrimary(accAlice, eventId, 1, 100)
	assert.Equal(t, KindNotEligible, KindOf(err))

	err = e.Market.BuyResale(accAlice, ticketId, 100)
	assert.Equal(t, KindNotEligible, KindOf(err))

	// previously minted tickets stay VALID
	ticket, err := e.Ledger.GetTicket(ids[0])
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusValid, ticket.Status)
}

func TestIdentityExpiry(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	fund(t, e, accAlice, 200)
	require.NoError(t, e.Registry.SetIdentity(accWriter, accAlice, "hash-alice", 2, false, testNow-1))

	_, err := e.Market.BuyPrimary(accAlice, eventId, 1, 100)
	assert.Equal(t, KindNotEligible, KindOf(err))

	eligible, err := e.Registry.IsEligible(accAlice)
	require.NoError(t, err)
	assert.False(t, eligible)
}

func TestSetIdentityRequiresWriter(t *testing.T) {
	e := newTestEngine(t)

	err := e.Registry.SetIdentity(accAlice, accBob, "hash", 2, false, 0)
	require.Error(t, err)
	assert.Equal(t, KindAuthorization, KindOf(err))
}

func TestRotateWriter(t *testing.T) {
	e := newTestEngine(t)

	err := e.Registry.RotateWriter(accAlice, "kyc-2")
	assert.Equal(t, KindAuthorization, KindOf(err))

	require.NoError(t, e.Registry.RotateWriter(accAdmin, "kyc-2"))

	// old writer lost its authority, new one has it
	err = e.Registry.SetIdentity(accWriter, accAlice, "hash", 2, false, 0)
	assert.Equal(t, KindAuthorization, KindOf(err))
	require.NoError(t, e.Registry.SetIdentity("kyc-2", accAlice, "hash", 2, false, 0))
}

func TestUseTicket(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	attest(t, e, accAlice, 2)
	fund(t, e, accAlice, 200)

	ids, err := e.Market.BuyPrimary(accAlice, eventId, 1, 100)
	require.NoError(t, err)

	err = e.Ledger.UseTicket(accAlice, ids[0])
	assert.Equal(t, KindAuthorization, KindOf(err))

	require.NoError(t, e.Ledger.UseTicket(accGate, ids[0]))

	err = e.Ledger.UseTicket(accGate, ids[0])
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestTerminalStatusNeverReverts(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	attest(t, e, accAlice, 4)
	fund(t, e, accAlice, 400)

	ids, err := e.Market.BuyPrimary(accAlice, eventId, 2, 200)
	require.NoError(t, err)

	require.NoError(t, e.Ledger.SetStatus(accAdmin, ids[0], models.TicketStatusRefunded))

	for _, next := range []string{models.TicketStatusCancelled, models.TicketStatusUsed, models.TicketStatusRefunded} {
		err := e.Ledger.SetStatus(accAdmin, ids[0], next)
		assert.Equal(t, KindInvalidState, KindOf(err))
	}

	err = e.Ledger.SetStatus(accAdmin, ids[1], models.TicketStatusValid)
	assert.Equal(t, KindInvalidState, KindOf(err))

	err = e.Ledger.SetStatus(accAlice, ids[1], models.TicketStatusCancelled)
	assert.Equal(t, KindAuthorization, KindOf(err))
}

func TestUseTicketListedRejected(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	enableResale(t, e, eventId, 11000, 0, 0)
	attest(t, e, accAlice, 2)
	fund(t, e, accAlice, 200)

	ticketId := listTicket(t, e, eventId, accAlice, 100)

	err := e.Ledger.UseTicket(accGate, ticketId)
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))

	// the listing stays intact and can still be cancelled by the seller
	require.NoError(t, e.Market.CancelListing(accAlice, ticketId))

	ticket, err := e.Ledger.GetTicket(ticketId)
	require.NoError(t, err)
	assert.Equal(t, accAlice, ticket.Owner)
	assert.Equal(t, models.TicketStatusValid, ticket.Status)
}

func TestSetStatusClearsActiveListing(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	enableResale(t, e, eventId, 11000, 0, 0)
	attest(t, e, accAlice, 2)
	fund(t, e, accAlice, 200)

	ticketId := listTicket(t, e, eventId, accAlice, 100)

	require.NoError(t, e.Ledger.SetStatus(accAdmin, ticketId, models.TicketStatusRefunded))

	// listing deactivated and escrow custody returned to the seller
	listing, err := e.Market.GetActiveListing(ticketId)
	require.NoError(t, err)
	assert.Nil(t, listing)

	ticket, err := e.Ledger.GetTicket(ticketId)
	require.NoError(t, err)
	assert.Equal(t, accAlice, ticket.Owner)
	assert.Equal(t, models.TicketStatusRefunded, ticket.Status)
}

func TestBuyPrimaryQtyBound(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	attest(t, e, accAlice, 2)
	fund(t, e, accAlice, 200)

	ids, err := e.Market.BuyPrimary(accAlice, eventId, 2, 200)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	// a wrapping quantity must not slip past the cap or the payment check
	_, err = e.Market.BuyPrimary(accAlice, eventId, ^uint(0)-1, 0)
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))

	var total int64
	require.NoError(t, e.read().Model(&models.Ticket{}).Count(&total).Error)
	assert.Equal(t, int64(2), total)
}

func TestPolicyCapReductionWithActiveListing(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	enableResale(t, e, eventId, 15000, 0, 0)
	attest(t, e, accAlice, 2)
	fund(t, e, accAlice, 200)

	ticketId := listTicket(t, e, eventId, accAlice, 150)

	// lowering the cap below a live listing price would break that listing
	err := e.Market.SetEventPolicy(accOrganizer, eventId, true, 11000, 0, 0)
	require.Error(t, err)
	assert.Equal(t, KindPriceViolation, KindOf(err))

	// the listing is untouched and a cap at or above it still passes
	listing, err := e.Market.GetActiveListing(ticketId)
	require.NoError(t, err)
	require.NotNil(t, listing)
	require.NoError(t, e.Market.SetEventPolicy(accOrganizer, eventId, true, 15000, 0, 0))
}

func TestBootstrapKeepsRotatedWriter(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Registry.RotateWriter(accAdmin, "kyc-2"))
	require.NoError(t, e.Bootstrap())

	// the configured writer does not reassert itself over a rotation
	err := e.Registry.SetIdentity(accWriter, accAlice, "hash", 2, false, 0)
	assert.Equal(t, KindAuthorization, KindOf(err))
	require.NoError(t, e.Registry.SetIdentity("kyc-2", accAlice, "hash", 2, false, 0))
}

func TestListTicketNotValidStatus(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	enableResale(t, e, eventId, 11000, 0, 0)
	attest(t, e, accAlice, 2)
	fund(t, e, accAlice, 200)

	ids, err := e.Market.BuyPrimary(accAlice, eventId, 1, 100)
	require.NoError(t, err)
	require.NoError(t, e.Ledger.Approve(accAlice, ids[0]))
	require.NoError(t, e.Ledger.UseTicket(accGate, ids[0]))

	err = e.Market.ListTicket(accAlice, ids[0], 100)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestEventPolicyGuardrails(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)

	// below 1.0
	err := e.Market.SetEventPolicy(accOrganizer, eventId, true, 9000, 0, 0)
	assert.Equal(t, KindPriceViolation, KindOf(err))

	// above configured cap guardrail (2.0)
	err = e.Market.SetEventPolicy(accOrganizer, eventId, true, 25000, 0, 0)
	assert.Equal(t, KindPriceViolation, KindOf(err))

	// above configured royalty guardrail (0.20)
	err = e.Market.SetEventPolicy(accOrganizer, eventId, true, 15000, 0, 2500)
	assert.Equal(t, KindPriceViolation, KindOf(err))

	// neither organizer nor admin
	err = e.Market.SetEventPolicy(accAlice, eventId, true, 15000, 0, 0)
	assert.Equal(t, KindAuthorization, KindOf(err))

	require.NoError(t, e.Market.SetEventPolicy(accAdmin, eventId, true, 15000, 0, 2000))
}

func TestCreateEventValidation(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Catalog.CreateEvent(accOrganizer, "ledger-1", testNow+100, testNow+100, testNow+200, 100)
	assert.Equal(t, KindInvalidState, KindOf(err))

	_, err = e.Catalog.CreateEvent(accOrganizer, "ledger-1", testNow, testNow+100, testNow+50, 100)
	assert.Equal(t, KindInvalidState, KindOf(err))

	_, err = e.Catalog.CreateEvent(accOrganizer, "ledger-1", testNow, testNow+100, testNow+200, 0)
	assert.Equal(t, KindInvalidState, KindOf(err))

	_, err = e.Catalog.CreateEvent(accOrganizer, "", testNow, testNow+100, testNow+200, 100)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestEventIdsMonotonicFromOne(t *testing.T) {
	e := newTestEngine(t)

	first := newEvent(t, e, 100)
	second := newEvent(t, e, 100)
	assert.Equal(t, uint(1), first)
	assert.Equal(t, uint(2), second)
}

func TestEventCancelAuthority(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)

	err := e.Catalog.SetCancelled(accAlice, eventId, true)
	assert.Equal(t, KindAuthorization, KindOf(err))

	// admin may cancel too; setting twice is idempotent
	require.NoError(t, e.Catalog.SetCancelled(accAdmin, eventId, true))
	require.NoError(t, e.Catalog.SetCancelled(accOrganizer, eventId, true))

	open, err := e.Catalog.IsSaleOpen(eventId)
	require.NoError(t, err)
	assert.False(t, open)
}

func TestReentrantCallRejected(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.enter())
	err := e.Market.Deposit(accAlice, 100)
	e.exit()

	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))
	assert.Contains(t, err.Error(), "reentrant")

	require.NoError(t, e.Market.Deposit(accAlice, 100))
}

func TestLedgerRefMismatch(t *testing.T) {
	e := newTestEngine(t)
	attest(t, e, accAlice, 2)
	fund(t, e, accAlice, 200)

	id, err := e.Catalog.CreateEvent(accOrganizer, "some-other-ledger", testNow-100, testNow+1000, testNow+2000, 100)
	require.NoError(t, err)

	_, err = e.Market.BuyPrimary(accAlice, id, 1, 100)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestListTicketAfterEventStart(t *testing.T) {
	e := newTestEngine(t)
	eventId := newEvent(t, e, 100)
	enableResale(t, e, eventId, 11000, 0, 0)
	attest(t, e, accAlice, 2)
	fund(t, e, accAlice, 200)

	ids, err := e.Market.BuyPrimary(accAlice, eventId, 1, 100)
	require.NoError(t, err)
	require.NoError(t, e.Ledger.Approve(accAlice, ids[0]))

	e.SetClock(func() int64 { return testNow + 3000 })
	err = e.Market.ListTicket(accAlice, ids[0], 100)
	assert.Equal(t, KindInvalidState, KindOf(err))
}
