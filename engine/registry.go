package engine

import (
	"fairtix-engine/models"

	"github.com/sirupsen/logrus"
)

// IdentityRegistry holds one attestation per account. Writes are restricted
// to the single authoritative identity writer; reads are open.
type IdentityRegistry struct {
	e *Engine
}

// SetIdentity replaces the attestation for wallet. Only the identity writer
// may call it; the write is a full replace, not a merge.
func (r *IdentityRegistry) SetIdentity(caller, wallet, identityHash string, maxTickets uint, blocked bool, expiry int64) error {
	e := r.e
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	if wallet == "" {
		return Errorf(KindInvalidState, "wallet account required")
	}
	if identityHash == "" {
		return Errorf(KindInvalidState, "identity hash required")
	}
	if expiry < 0 {
		return Errorf(KindInvalidState, "expiry must be 0 or a unix timestamp")
	}

	tx := e.dbc.DB.Begin()

	if err := e.verify.VerifyRole(tx, caller, models.RoleIdentityWriter); err != nil {
		tx.Rollback()
		return err
	}

	if err := e.dbc.SetIdentity(tx, wallet, identityHash, maxTickets, blocked, expiry); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	e.appendAudit(&models.AuditRecord{
		Op:           models.AuditOpIdentitySet,
		Actor:        caller,
		Counterparty: wallet,
	})
	e.logger.WithFields(logrus.Fields{
		"op":          "identity.set",
		"wallet":      wallet,
		"max_tickets": maxTickets,
		"blocked":     blocked,
	}).Info("identity attestation written")

	return nil
}

// GetIdentity returns the attestation for wallet, or nil when none exists.
func (r *IdentityRegistry) GetIdentity(wallet string) (*models.Identity, error) {
	return r.e.dbc.GetIdentity(r.e.read(), wallet)
}

// IsEligible reports whether wallet may buy: attested, not blocked, not
// expired.
func (r *IdentityRegistry) IsEligible(wallet string) (bool, error) {
	_, err := r.e.verify.VerifyEligible(r.e.read(), wallet, r.e.now())
	if err != nil {
		if KindOf(err) == KindNotEligible {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RotateWriter swaps the authoritative identity writer. Admin only.
func (r *IdentityRegistry) RotateWriter(caller, newWriter string) error {
	e := r.e
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	if newWriter == "" {
		return Errorf(KindInvalidState, "new writer account required")
	}

	tx := e.dbc.DB.Begin()

	if err := e.verify.VerifyRole(tx, caller, models.RoleAdmin); err != nil {
		tx.Rollback()
		return err
	}

	if err := e.dbc.RotateIdentityWriter(tx, newWriter); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	e.appendAudit(&models.AuditRecord{
		Op:           models.AuditOpWriterRotated,
		Actor:        caller,
		Counterparty: newWriter,
	})
	e.logger.WithFields(logrus.Fields{
		"op":     "identity.writer_rotated",
		"writer": newWriter,
	}).Info("identity writer rotated")

	return nil
}
