package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/restopos/backend/billing"
	"github.com/restopos/backend/models"
	"github.com/restopos/backend/poserr"
	"github.com/restopos/backend/utils"
)

// PurchaseOrderService manages supplier purchase orders. Receiving a PO
// books the matching inventory movements in the same transaction.
type PurchaseOrderService struct {
	DB        *gorm.DB
	Inventory *InventoryService
}

func NewPurchaseOrderService(db *gorm.DB) *PurchaseOrderService {
	return &PurchaseOrderService{DB: db, Inventory: NewInventoryService(db)}
}

// NewPOLine is one requested line of a purchase order.
type NewPOLine struct {
	InventoryItemID uint            `json:"inventory_item_id" binding:"required"`
	SupplierSKU     string          `json:"supplier_sku"`
	Quantity        int             `json:"quantity" binding:"required"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
}

// Create drafts a purchase order. Line totals and the PO totals are
// computed with the billing calculator so the same rounding rules apply
// everywhere money is summed.
func (s *PurchaseOrderService) Create(supplierID, createdBy uint, lines []NewPOLine, taxRate, shipping decimal.Decimal, expectedDelivery *time.Time, notes string) (*models.PurchaseOrder, error) {
	if len(lines) == 0 {
		return nil, poserr.Validationf("purchase order must contain at least one line")
	}

	var po models.PurchaseOrder
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var supplier models.Supplier
		if err := tx.First(&supplier, supplierID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return poserr.NotFound("supplier", supplierID)
			}
			return err
		}

		billingLines := make([]billing.LineItem, 0, len(lines))
		poLines := make([]models.POLineItem, 0, len(lines))
		for _, line := range lines {
			var item models.InventoryItem
			if err := tx.First(&item, line.InventoryItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return poserr.NotFound("inventory item", line.InventoryItemID)
				}
				return err
			}

			bl := billing.LineItem{
				ID:       item.ID,
				Quantity: line.Quantity,
				Price:    line.UnitPrice,
			}
			billingLines = append(billingLines, bl)
			poLines = append(poLines, models.POLineItem{
				InventoryItemID: item.ID,
				SupplierSKU:     line.SupplierSKU,
				Quantity:        line.Quantity,
				UnitPrice:       line.UnitPrice,
				LineTotal:       bl.Subtotal(),
			})
		}

		totals, err := billing.Calculate(billingLines, taxRate)
		if err != nil {
			return err
		}
		if shipping.IsNegative() {
			return poserr.Validationf("shipping cost must not be negative")
		}

		now := time.Now()
		po = models.PurchaseOrder{
			PONumber:             generatePONumber(),
			SupplierID:           supplier.ID,
			Items:                poLines,
			OrderDate:            now,
			ExpectedDeliveryDate: expectedDelivery,
			Status:               models.PODraft,
			Subtotal:             totals.Subtotal,
			Tax:                  totals.TaxAmount,
			ShippingCost:         shipping,
			Total:                totals.Total.Add(shipping),
			Notes:                notes,
			CreatedBy:            createdBy,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		return tx.Create(&po).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Purchase order %s drafted for supplier %d, total %s", po.PONumber, po.SupplierID, utils.FormatAmount(po.Total))
	return &po, nil
}

func (s *PurchaseOrderService) Get(id uint) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	if err := s.DB.Preload("Items").Preload("Supplier").First(&po, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, poserr.NotFound("purchase order", id)
		}
		return nil, err
	}
	return &po, nil
}

func (s *PurchaseOrderService) List(status models.POStatus) ([]models.PurchaseOrder, error) {
	query := s.DB.Preload("Items").Preload("Supplier").Order("created_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var pos []models.PurchaseOrder
	if err := query.Find(&pos).Error; err != nil {
		return nil, err
	}
	return pos, nil
}

// poTransitions lists the allowed status moves.
var poTransitions = map[models.POStatus][]models.POStatus{
	models.PODraft:     {models.POPending, models.POCancelled},
	models.POPending:   {models.POConfirmed, models.POCancelled},
	models.POConfirmed: {models.POReceived, models.POCancelled},
}

// Transition moves a purchase order along its lifecycle. Receiving books
// an inbound stock movement per line in the same transaction.
func (s *PurchaseOrderService) Transition(id uint, target models.POStatus, userID *uint) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&po, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return poserr.NotFound("purchase order", id)
			}
			return err
		}

		if !poTransitionAllowed(po.Status, target) {
			return &poserr.InvalidTransitionError{Action: string(target), Status: string(po.Status)}
		}

		now := time.Now()
		po.Status = target
		po.UpdatedAt = now

		if target == models.POReceived {
			po.ActualDeliveryDate = &now
			inv := &InventoryService{DB: tx}
			for i := range po.Items {
				line := &po.Items[i]
				if _, err := inv.RecordMovement(
					line.InventoryItemID,
					models.MovementIn,
					decimal.NewFromInt(int64(line.Quantity)),
					fmt.Sprintf("PO %s received", po.PONumber),
					"purchase_order", &po.ID, userID,
				); err != nil {
					return err
				}
				line.ReceivedQuantity = line.Quantity
				if err := tx.Save(line).Error; err != nil {
					return err
				}
			}
		}

		return tx.Save(&po).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Purchase order %s -> %s", po.PONumber, po.Status)
	return &po, nil
}

func poTransitionAllowed(from, to models.POStatus) bool {
	for _, allowed := range poTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// generatePONumber produces "PO-<year>-<shortid>".
func generatePONumber() string {
	short := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("PO-%d-%s", time.Now().Year(), short)
}
