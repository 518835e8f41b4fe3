package storage

import (
	"errors"
	"fmt"

	"fairtix-engine/models"

	"gorm.io/gorm"
)

// SetIdentity replaces the attestation for an account wholesale. A prior
// record is overwritten field by field, never merged.
func (db *DBClient) SetIdentity(tx *gorm.DB, account, identityHash string, maxTickets uint, blocked bool, expiry int64) error {
	existing := &models.Identity{}
	err := tx.Where("account = ?", account).First(existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("SetIdentity err: %s account: %s", err.Error(), account)
		}

		rec := &models.Identity{
			Account:      account,
			IdentityHash: identityHash,
			MaxTickets:   maxTickets,
			Blocked:      blocked,
			Expiry:       expiry,
			UpdateDate:   models.NowLocal(),
			CreateDate:   models.NowLocal(),
		}
		if err := tx.Create(rec).Error; err != nil {
			return fmt.Errorf("SetIdentity Create err: %s account: %s", err.Error(), account)
		}
		return nil
	}

	err = tx.Model(existing).Where("account = ?", account).Updates(map[string]interface{}{
		"identity_hash": identityHash,
		"max_tickets":   maxTickets,
		"blocked":       blocked,
		"expiry":        expiry,
		"update_date":   models.NowLocal(),
	}).Error
	if err != nil {
		return fmt.Errorf("SetIdentity Update err: %s account: %s", err.Error(), account)
	}

	return nil
}

func (db *DBClient) GetIdentity(tx *gorm.DB, account string) (*models.Identity, error) {
	rec := &models.Identity{}
	err := tx.Where("account = ?", account).First(rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("GetIdentity err: %s account: %s", err.Error(), account)
	}
	return rec, nil
}

func (db *DBClient) HasRole(tx *gorm.DB, account, role string) (bool, error) {
	err := tx.Where("account = ? and role = ?", account, role).First(&models.RoleGrant{}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("HasRole err: %s account: %s role: %s", err.Error(), account, role)
	}
	return true, nil
}

func (db *DBClient) GrantRole(tx *gorm.DB, account, role string) error {
	has, err := db.HasRole(tx, account, role)
	if err != nil {
		return err
	}
	if has {
		return nil
	}

	grant := &models.RoleGrant{
		Account:    account,
		Role:       role,
		CreateDate: models.NowLocal(),
	}
	if err := tx.Create(grant).Error; err != nil {
		return fmt.Errorf("GrantRole err: %s account: %s role: %s", err.Error(), account, role)
	}
	return nil
}

// HasIdentityWriter reports whether any identity writer grant exists.
func (db *DBClient) HasIdentityWriter(tx *gorm.DB) (bool, error) {
	err := tx.Where("role = ?", models.RoleIdentityWriter).First(&models.RoleGrant{}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("HasIdentityWriter err: %s", err.Error())
	}
	return true, nil
}

// RotateIdentityWriter swaps the single authoritative identity writer:
// every existing writer grant is removed before the new one is inserted.
func (db *DBClient) RotateIdentityWriter(tx *gorm.DB, newWriter string) error {
	err := tx.Where("role = ?", models.RoleIdentityWriter).Delete(&models.RoleGrant{}).Error
	if err != nil {
		return fmt.Errorf("RotateIdentityWriter Delete err: %s", err.Error())
	}

	grant := &models.RoleGrant{
		Account:    newWriter,
		Role:       models.RoleIdentityWriter,
		CreateDate: models.NowLocal(),
	}
	if err := tx.Create(grant).Error; err != nil {
		return fmt.Errorf("RotateIdentityWriter Create err: %s account: %s", err.Error(), newWriter)
	}
	return nil
}
