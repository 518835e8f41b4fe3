package storage

import (
	"errors"
	"fmt"

	"fairtix-engine/models"

	"gorm.io/gorm"
)

func (db *DBClient) GetBalance(tx *gorm.DB, address string) (int64, error) {
	acct := &models.Account{}
	err := tx.Where("address = ?", address).First(acct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("GetBalance err: %s address: %s", err.Error(), address)
	}
	return acct.Balance, nil
}

// Credit adds funds to an account, creating the row on first touch.
func (db *DBClient) Credit(tx *gorm.DB, address string, amt int64) error {
	if address == "" {
		return fmt.Errorf("credit err: empty address")
	}
	if amt < 0 {
		return fmt.Errorf("credit err: negative amount %d address: %s", amt, address)
	}
	if amt == 0 {
		return nil
	}

	acct := &models.Account{}
	err := tx.Where("address = ?", address).First(acct).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("credit err: %s address: %s", err.Error(), address)
		}

		acct = &models.Account{
			Address:    address,
			Balance:    amt,
			UpdateDate: models.NowLocal(),
			CreateDate: models.NowLocal(),
		}
		if err := tx.Create(acct).Error; err != nil {
			return fmt.Errorf("credit Create err: %s address: %s", err.Error(), address)
		}
		return nil
	}

	err = tx.Model(acct).Where("address = ?", address).Updates(map[string]interface{}{
		"balance":     acct.Balance + amt,
		"update_date": models.NowLocal(),
	}).Error
	if err != nil {
		return fmt.Errorf("credit Update err: %s address: %s", err.Error(), address)
	}

	return nil
}

// Debit removes funds from an account and fails on insufficient balance.
func (db *DBClient) Debit(tx *gorm.DB, address string, amt int64) error {
	if address == "" {
		return fmt.Errorf("debit err: empty address")
	}
	if amt < 0 {
		return fmt.Errorf("debit err: negative amount %d address: %s", amt, address)
	}
	if amt == 0 {
		return nil
	}

	acct := &models.Account{}
	err := tx.Where("address = ?", address).First(acct).Error
	if err != nil {
		return fmt.Errorf("debit err: %s address: %s", err.Error(), address)
	}

	if acct.Balance < amt {
		return fmt.Errorf("insufficient balance: %d address: %s debit: %d", acct.Balance, address, amt)
	}

	err = tx.Model(acct).Where("address = ?", address).Updates(map[string]interface{}{
		"balance":     acct.Balance - amt,
		"update_date": models.NowLocal(),
	}).Error
	if err != nil {
		return fmt.Errorf("debit Update err: %s address: %s", err.Error(), address)
	}

	return nil
}

// TransferFunds moves an amount between two accounts inside the caller's tx.
func (db *DBClient) TransferFunds(tx *gorm.DB, from, to string, amt int64) error {
	if from == to {
		return fmt.Errorf("transfer err: from and to addresses are the same")
	}
	if err := db.Debit(tx, from, amt); err != nil {
		return err
	}
	if err := db.Credit(tx, to, amt); err != nil {
		return err
	}
	return nil
}
