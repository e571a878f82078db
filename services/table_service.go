package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/restopos/backend/events"
	"github.com/restopos/backend/models"
	"github.com/restopos/backend/poserr"
	"github.com/restopos/backend/utils"
)

// TableService is the table assignment registry. Status transitions tied
// to the order lifecycle live in OrderService; this service handles the
// registry itself.
type TableService struct {
	DB *gorm.DB
}

func NewTableService(db *gorm.DB) *TableService {
	return &TableService{DB: db}
}

func (s *TableService) List() ([]models.Table, error) {
	var tables []models.Table
	if err := s.DB.Order("id asc").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

func (s *TableService) Get(id uint) (*models.Table, error) {
	var table models.Table
	if err := s.DB.First(&table, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, poserr.NotFound("table", id)
		}
		return nil, err
	}
	return &table, nil
}

// Add registers a new table. Both locale numbers and a positive capacity
// are required.
func (s *TableService) Add(numberAr, numberEn string, capacity int) (*models.Table, error) {
	if numberAr == "" || numberEn == "" {
		return nil, poserr.Validationf("numberAr and numberEn are required")
	}
	if capacity <= 0 {
		return nil, poserr.Validationf("capacity must be positive")
	}

	table := models.Table{
		NumberAr:  numberAr,
		NumberEn:  numberEn,
		Capacity:  capacity,
		Status:    models.TableEmpty,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.DB.Create(&table).Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Table %d created (%s / %s, seats %d)", table.ID, table.NumberAr, table.NumberEn, table.Capacity)
	events.Broadcast(events.EventTableCreated, table)
	return &table, nil
}

// Remove deletes a table. Refused while the table still has an open
// order.
func (s *TableService) Remove(id uint) (*models.Table, error) {
	var table models.Table
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&table, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return poserr.NotFound("table", id)
			}
			return err
		}

		var openOrders int64
		if err := tx.Model(&models.Order{}).
			Where("table_id = ? AND status = ?", id, models.OrderOpen).
			Count(&openOrders).Error; err != nil {
			return err
		}
		if openOrders > 0 {
			return poserr.Conflictf("table %d has an open order", id)
		}

		return tx.Delete(&table).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	events.Broadcast(events.EventTableDeleted, map[string]interface{}{"table_id": table.ID})
	return &table, nil
}

// Merge moves every order of the source table onto the target and marks
// the source merged. Open orders keep running on the target; the target
// becomes occupied when it ends up holding one.
func (s *TableService) Merge(sourceID, targetID uint) (*models.Table, *models.Table, error) {
	if sourceID == targetID {
		return nil, nil, poserr.Validationf("cannot merge a table into itself")
	}

	var source, target models.Table
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&source, sourceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return poserr.NotFound("table", sourceID)
			}
			return err
		}
		if err := tx.First(&target, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return poserr.NotFound("table", targetID)
			}
			return err
		}
		if source.Status == models.TableMerged {
			return poserr.Conflictf("table %d is already merged", sourceID)
		}
		if target.Status == models.TableMerged {
			return poserr.Conflictf("cannot merge into merged table %d", targetID)
		}

		if err := tx.Model(&models.Order{}).
			Where("table_id = ?", sourceID).
			Update("table_id", targetID).Error; err != nil {
			return err
		}

		now := time.Now()

		var openOrder models.Order
		err := tx.Where("table_id = ? AND status = ?", targetID, models.OrderOpen).
			Order("created_at desc").
			First(&openOrder).Error
		switch {
		case err == nil:
			target.Status = models.TableOccupied
			target.CurrentOrderID = &openOrder.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Nothing open moved over; the target keeps its status.
		default:
			return err
		}
		target.UpdatedAt = now
		if err := tx.Save(&target).Error; err != nil {
			return err
		}

		source.Status = models.TableMerged
		source.MergedWithID = &target.ID
		source.CurrentOrderID = nil
		source.NumberOfGuests = nil
		source.UpdatedAt = now
		return tx.Save(&source).Error
	})
	if err != nil {
		return nil, nil, err
	}

	utils.InfoLogger.Printf("Table %d merged into table %d", source.ID, target.ID)
	events.Broadcast(events.EventTableUpdated, source)
	events.Broadcast(events.EventTableUpdated, target)
	return &source, &target, nil
}

// SetGuests records the guest count of an occupied table.
func (s *TableService) SetGuests(id uint, guests int) (*models.Table, error) {
	if guests <= 0 {
		return nil, poserr.Validationf("number of guests must be positive")
	}

	table, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	table.NumberOfGuests = &guests
	table.UpdatedAt = time.Now()
	if err := s.DB.Save(table).Error; err != nil {
		return nil, err
	}

	events.Broadcast(events.EventTableUpdated, table)
	return table, nil
}
