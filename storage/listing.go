package storage

import (
	"errors"
	"fmt"

	"fairtix-engine/models"

	"gorm.io/gorm"
)

func (db *DBClient) GetActiveListing(tx *gorm.DB, ticketId uint) (*models.Listing, error) {
	listing := &models.Listing{}
	err := tx.Where("ticket_id = ? and active = ?", ticketId, true).First(listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("GetActiveListing err: %s ticket_id: %d", err.Error(), ticketId)
	}
	return listing, nil
}

func (db *DBClient) CreateListing(tx *gorm.DB, listing *models.Listing) error {
	existing, err := db.GetActiveListing(tx, listing.TicketId)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("CreateListing err: active listing exists ticket_id: %d", listing.TicketId)
	}

	listing.Active = true
	listing.UpdateDate = models.NowLocal()
	listing.CreateDate = models.NowLocal()
	if err := tx.Create(listing).Error; err != nil {
		return fmt.Errorf("CreateListing err: %s ticket_id: %d", err.Error(), listing.TicketId)
	}

	return nil
}

// MaxActiveListingPrice returns the highest active listing price for an
// event, or 0 when none are active.
func (db *DBClient) MaxActiveListingPrice(tx *gorm.DB, eventId uint) (int64, error) {
	var highest int64
	err := tx.Model(&models.Listing{}).Where("event_id = ? and active = ?", eventId, true).
		Select("coalesce(max(price), 0)").Scan(&highest).Error
	if err != nil {
		return 0, fmt.Errorf("MaxActiveListingPrice err: %s event_id: %d", err.Error(), eventId)
	}
	return highest, nil
}

// DeactivateListing flips the active flag off. The guarded update refuses
// to deactivate twice so a racing call cannot settle one listing twice.
func (db *DBClient) DeactivateListing(tx *gorm.DB, listingId uint) error {
	res := tx.Model(&models.Listing{}).Where("id = ? and active = ?", listingId, true).Updates(map[string]interface{}{
		"active":      false,
		"update_date": models.NowLocal(),
	})
	if res.Error != nil {
		return fmt.Errorf("DeactivateListing err: %s listing_id: %d", res.Error.Error(), listingId)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("DeactivateListing err: listing not active listing_id: %d", listingId)
	}
	return nil
}
