package storage

import (
	"errors"
	"fmt"

	"fairtix-engine/models"

	"gorm.io/gorm"
)

func (db *DBClient) CreateEvent(tx *gorm.DB, ev *models.Event) error {
	ev.UpdateDate = models.NowLocal()
	ev.CreateDate = models.NowLocal()
	if err := tx.Create(ev).Error; err != nil {
		return fmt.Errorf("CreateEvent err: %s organizer: %s", err.Error(), ev.Organizer)
	}
	return nil
}

func (db *DBClient) GetEvent(tx *gorm.DB, eventId uint) (*models.Event, error) {
	ev := &models.Event{}
	err := tx.Where("id = ?", eventId).First(ev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("GetEvent err: %s event_id: %d", err.Error(), eventId)
	}
	return ev, nil
}

func (db *DBClient) SetEventCancelled(tx *gorm.DB, eventId uint, flag bool) error {
	err := tx.Model(&models.Event{}).Where("id = ?", eventId).Updates(map[string]interface{}{
		"cancelled":   flag,
		"update_date": models.NowLocal(),
	}).Error
	if err != nil {
		return fmt.Errorf("SetEventCancelled err: %s event_id: %d", err.Error(), eventId)
	}
	return nil
}

// SetEventPolicy upserts the resale policy row for an event.
func (db *DBClient) SetEventPolicy(tx *gorm.DB, pol *models.EventPolicy) error {
	existing := &models.EventPolicy{}
	err := tx.Where("event_id = ?", pol.EventId).First(existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("SetEventPolicy err: %s event_id: %d", err.Error(), pol.EventId)
		}

		pol.UpdateDate = models.NowLocal()
		pol.CreateDate = models.NowLocal()
		if err := tx.Create(pol).Error; err != nil {
			return fmt.Errorf("SetEventPolicy Create err: %s event_id: %d", err.Error(), pol.EventId)
		}
		return nil
	}

	err = tx.Model(existing).Where("event_id = ?", pol.EventId).Updates(map[string]interface{}{
		"resale_enabled": pol.ResaleEnabled,
		"resale_cap_bps": pol.ResaleCapBps,
		"max_resales":    pol.MaxResales,
		"royalty_bps":    pol.RoyaltyBps,
		"update_date":    models.NowLocal(),
	}).Error
	if err != nil {
		return fmt.Errorf("SetEventPolicy Update err: %s event_id: %d", err.Error(), pol.EventId)
	}

	return nil
}

func (db *DBClient) GetEventPolicy(tx *gorm.DB, eventId uint) (*models.EventPolicy, error) {
	pol := &models.EventPolicy{}
	err := tx.Where("event_id = ?", eventId).First(pol).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("GetEventPolicy err: %s event_id: %d", err.Error(), eventId)
	}
	return pol, nil
}
