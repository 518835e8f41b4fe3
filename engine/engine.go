package engine

import (
	"sync"
	"time"

	"fairtix-engine/metrics"
	"fairtix-engine/models"
	"fairtix-engine/storage"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Engine wires the four marketplace components over one shared ledger.
// Every mutating operation runs as a single transaction: all preconditions
// are checked before any write, and the first failure rolls everything
// back. The guard rejects any attempt to re-enter while a mutation is in
// flight instead of queuing it.
type Engine struct {
	Registry *IdentityRegistry
	Catalog  *EventCatalog
	Ledger   *TicketLedger
	Market   *Marketplace

	dbc    *storage.DBClient
	audit  *storage.AuditStore
	logger *logrus.Logger
	verify *Verifys

	operator        string
	ticketLedgerRef string
	maxResaleCapBps int64
	maxRoyaltyBps   int64

	adminAccounts   []string
	identityWriter  string
	checkInAccounts []string

	guard sync.Mutex
	now   func() int64
}

type EngineProperty struct {
	Logger          *logrus.Logger
	DB              *storage.DBClient
	Audit           *storage.AuditStore
	OperatorAccount string
	TicketLedgerRef string
	MaxResaleCapBps int64
	MaxRoyaltyBps   int64
	AdminAccounts   []string
	IdentityWriter  string
	CheckInAccounts []string
}

func NewEngine(prop EngineProperty) *Engine {
	if prop.Logger == nil {
		prop.Logger = logrus.New()
	}

	e := &Engine{
		dbc:             prop.DB,
		audit:           prop.Audit,
		logger:          prop.Logger,
		operator:        prop.OperatorAccount,
		ticketLedgerRef: prop.TicketLedgerRef,
		maxResaleCapBps: prop.MaxResaleCapBps,
		maxRoyaltyBps:   prop.MaxRoyaltyBps,
		adminAccounts:   prop.AdminAccounts,
		identityWriter:  prop.IdentityWriter,
		checkInAccounts: prop.CheckInAccounts,
		now:             func() int64 { return time.Now().Unix() },
	}
	e.verify = NewVerifys(prop.DB)
	e.Registry = &IdentityRegistry{e: e}
	e.Catalog = &EventCatalog{e: e}
	e.Ledger = &TicketLedger{e: e}
	e.Market = &Marketplace{e: e}

	return e
}

// Bootstrap grants the configured roles. Safe to run on every start: grants
// are idempotent, and the identity writer is seeded only when no writer
// grant exists so a runtime rotation survives a restart.
func (e *Engine) Bootstrap() error {
	tx := e.dbc.DB.Begin()

	for _, admin := range e.adminAccounts {
		if err := e.dbc.GrantRole(tx, admin, models.RoleAdmin); err != nil {
			tx.Rollback()
			return err
		}
	}
	for _, checkIn := range e.checkInAccounts {
		if err := e.dbc.GrantRole(tx, checkIn, models.RoleCheckIn); err != nil {
			tx.Rollback()
			return err
		}
	}
	if e.identityWriter != "" {
		has, err := e.dbc.HasIdentityWriter(tx)
		if err != nil {
			tx.Rollback()
			return err
		}
		if !has {
			if err := e.dbc.RotateIdentityWriter(tx, e.identityWriter); err != nil {
				tx.Rollback()
				return err
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	return nil
}

// enter acquires the reentrancy guard. A nested or concurrent mutation is
// rejected immediately rather than queued; the caller must resubmit.
func (e *Engine) enter() error {
	if !e.guard.TryLock() {
		return Errorf(KindInvalidState, "reentrant call rejected")
	}
	return nil
}

func (e *Engine) exit() {
	e.guard.Unlock()
}

func (e *Engine) appendAudit(rec *models.AuditRecord) {
	if e.audit == nil {
		return
	}
	rec.At = e.now()
	if err := e.audit.Append(rec); err != nil {
		e.logger.WithFields(logrus.Fields{"op": rec.Op}).Warnf("audit append failed: %s", err.Error())
		return
	}
	metrics.SetAuditSeq(e.audit.LastSeq())
}

// read returns a handle for pure reads outside any transaction.
func (e *Engine) read() *gorm.DB {
	return e.dbc.DB
}

// Now reports the engine clock in unix seconds.
func (e *Engine) Now() int64 {
	return e.now()
}

// SetClock overrides the engine clock. Test hook.
func (e *Engine) SetClock(now func() int64) {
	e.now = now
}
