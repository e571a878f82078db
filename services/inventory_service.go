package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/restopos/backend/events"
	"github.com/restopos/backend/models"
	"github.com/restopos/backend/poserr"
	"github.com/restopos/backend/utils"
)

// InventoryService tracks stock levels through append-only movements.
type InventoryService struct {
	DB *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{DB: db}
}

func (s *InventoryService) List() ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := s.DB.Preload("Supplier").Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *InventoryService) Get(id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := s.DB.Preload("Supplier").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, poserr.NotFound("inventory item", id)
		}
		return nil, err
	}
	return &item, nil
}

func (s *InventoryService) Create(item *models.InventoryItem) error {
	if item.Name == "" || item.Unit == "" {
		return poserr.Validationf("name and unit are required")
	}
	if item.Quantity.IsNegative() || item.ReorderLevel.IsNegative() {
		return poserr.Validationf("quantity and reorder level must not be negative")
	}

	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	return s.DB.Create(item).Error
}

// RecordMovement applies one stock movement to an item inside a
// transaction. Outbound movements may not take the quantity negative.
func (s *InventoryService) RecordMovement(itemID uint, movementType models.MovementType, quantity decimal.Decimal, reason, refType string, refID, userID *uint) (*models.InventoryItem, error) {
	if quantity.LessThanOrEqual(decimal.Zero) && movementType != models.MovementAdjust {
		return nil, poserr.Validationf("movement quantity must be positive")
	}

	var item models.InventoryItem
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return poserr.NotFound("inventory item", itemID)
			}
			return err
		}

		switch movementType {
		case models.MovementIn:
			item.Quantity = item.Quantity.Add(quantity)
		case models.MovementOut:
			next := item.Quantity.Sub(quantity)
			if next.IsNegative() {
				return poserr.Validationf("movement would take item %d below zero", itemID)
			}
			item.Quantity = next
		case models.MovementAdjust:
			if quantity.IsNegative() {
				return poserr.Validationf("adjusted quantity must not be negative")
			}
			item.Quantity = quantity
		default:
			return poserr.Validationf("unknown movement type %q", movementType)
		}

		item.UpdatedAt = time.Now()
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		movement := models.StockMovement{
			InventoryItemID: item.ID,
			Type:            movementType,
			Quantity:        quantity,
			Reason:          reason,
			RefType:         refType,
			RefID:           refID,
			CreatedBy:       userID,
			CreatedAt:       time.Now(),
		}
		return tx.Create(&movement).Error
	})
	if err != nil {
		return nil, err
	}

	if item.LowStock() {
		utils.InfoLogger.Printf("Inventory item %d (%s) low: %s %s left", item.ID, item.Name, item.Quantity, item.Unit)
		events.Broadcast(events.EventStockLow, item)
	}
	return &item, nil
}

// LowStock lists items at or below their reorder level.
func (s *InventoryService) LowStock() ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := s.DB.Where("quantity <= reorder_level").Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Movements lists an item's movement history, newest first.
func (s *InventoryService) Movements(itemID uint) ([]models.StockMovement, error) {
	var movements []models.StockMovement
	if err := s.DB.Where("inventory_item_id = ?", itemID).
		Order("created_at desc").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
