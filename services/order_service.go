package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/restopos/backend/billing"
	"github.com/restopos/backend/events"
	"github.com/restopos/backend/models"
	"github.com/restopos/backend/poserr"
	"github.com/restopos/backend/utils"
)

// OrderService owns the order lifecycle: open -> completed | cancelled.
// Every mutation runs in one transaction and performs a compare-and-swap
// on the order version, so concurrent PATCHes cannot lose updates. Table
// status is synchronized inside the same transaction.
type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

// Lifecycle actions accepted by Apply.
const (
	ActionSplit    = "split"
	ActionSettle   = "settle"
	ActionTransfer = "transfer"
	ActionCancel   = "cancel"
)

// NewOrderItem is one requested line at order creation.
type NewOrderItem struct {
	MenuItemID uint   `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required"`
	Notes      string `json:"notes"`
}

// ActionParams carries the per-action payload of a PATCH.
type ActionParams struct {
	SplitDetails billing.Assignment
	AllowPartial bool
	NewTableID   uint
}

// Create opens a new order for a table. Prices come from the menu, totals
// from the billing calculator; the table flips to occupied in the same
// transaction.
func (s *OrderService) Create(tableID uint, items []NewOrderItem, taxRate *decimal.Decimal) (*models.Order, error) {
	if tableID == 0 {
		return nil, poserr.Validationf("tableId is required")
	}
	if len(items) == 0 {
		return nil, poserr.Validationf("order must contain at least one item")
	}

	rate := billing.DefaultTaxRate
	if taxRate != nil {
		rate = *taxRate
	}

	var order models.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, tableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return poserr.NotFound("table", tableID)
			}
			return err
		}

		now := time.Now()
		orderItems := make([]models.OrderItem, 0, len(items))
		lines := make([]billing.LineItem, 0, len(items))
		for _, req := range items {
			var menuItem models.MenuItem
			if err := tx.First(&menuItem, req.MenuItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return poserr.NotFound("menu item", req.MenuItemID)
				}
				return err
			}
			line := billing.LineItem{
				NameAr:   menuItem.NameAr,
				NameEn:   menuItem.NameEn,
				Quantity: req.Quantity,
				Price:    menuItem.Price,
				Notes:    req.Notes,
			}
			lines = append(lines, line)
			orderItems = append(orderItems, models.OrderItem{
				MenuItemID: menuItem.ID,
				NameAr:     menuItem.NameAr,
				NameEn:     menuItem.NameEn,
				Quantity:   req.Quantity,
				Price:      menuItem.Price,
				Subtotal:   line.Subtotal(),
				Notes:      req.Notes,
				CreatedAt:  now,
				UpdatedAt:  now,
			})
		}

		totals, err := billing.Calculate(lines, rate)
		if err != nil {
			return err
		}

		order = models.Order{
			TableID:   table.ID,
			Items:     orderItems,
			Subtotal:  totals.Subtotal,
			TaxRate:   rate,
			TaxAmount: totals.TaxAmount,
			Total:     totals.Total,
			Status:    models.OrderOpen,
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return s.setTableStatus(tx, table.ID, models.TableOccupied, &order.ID)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %d opened on table %d, total %s", order.ID, order.TableID, utils.FormatAmount(order.Total))
	events.Broadcast(events.EventOrderOpened, order)
	return &order, nil
}

// Get returns one order with its items and split details.
func (s *OrderService) Get(id uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.Preload("Items").Preload("SplitDetails.Items").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, poserr.NotFound("order", id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns all orders, or only the open orders of one table when
// tableID is given. statusFilter narrows further when non-empty.
func (s *OrderService) List(tableID *uint, statusFilter models.OrderStatus) ([]models.Order, error) {
	query := s.DB.Preload("Items").Preload("SplitDetails.Items").Order("created_at asc")
	if tableID != nil {
		status := statusFilter
		if status == "" {
			status = models.OrderOpen
		}
		query = query.Where("table_id = ? AND status = ?", *tableID, status)
	} else if statusFilter != "" {
		query = query.Where("status = ?", statusFilter)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Apply dispatches a lifecycle action by name. Unrecognized actions fail
// with UnknownAction and leave the order untouched.
func (s *OrderService) Apply(orderID uint, action string, params ActionParams) (*models.Order, error) {
	switch action {
	case ActionSplit:
		return s.Split(orderID, params.SplitDetails, billing.SplitOptions{AllowPartial: params.AllowPartial})
	case ActionSettle:
		return s.Settle(orderID)
	case ActionTransfer:
		return s.Transfer(orderID, params.NewTableID)
	case ActionCancel:
		return s.Cancel(orderID)
	default:
		return nil, &poserr.UnknownActionError{Action: action}
	}
}

// Split partitions the open order across named participants and stores
// the breakdown. Re-splitting replaces the previous breakdown. The order
// stays open; its table moves to pending_payment until settle or cancel.
func (s *OrderService) Split(orderID uint, assignment billing.Assignment, opts billing.SplitOptions) (*models.Order, error) {
	order, err := s.mutate(orderID, ActionSplit, func(tx *gorm.DB, order *models.Order) error {
		bills, err := billing.Split(order.BillingLines(), order.TaxRate, assignment, opts)
		if err != nil {
			return err
		}

		if err := tx.Where("person_id IN (?)",
			tx.Model(&models.BillSplitPerson{}).Select("id").Where("order_id = ?", order.ID),
		).Delete(&models.BillSplitItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.BillSplitPerson{}).Error; err != nil {
			return err
		}

		now := time.Now()
		people := make([]models.BillSplitPerson, 0, len(bills))
		for _, bill := range bills {
			person := models.BillSplitPerson{
				ID:         bill.ID,
				OrderID:    order.ID,
				PersonName: bill.PersonName,
				Subtotal:   bill.Totals.Subtotal,
				TaxAmount:  bill.Totals.TaxAmount,
				Total:      bill.Totals.Total,
				CreatedAt:  now,
			}
			for _, item := range bill.Items {
				person.Items = append(person.Items, models.BillSplitItem{
					OrderItemID: item.ID,
					NameAr:      item.NameAr,
					NameEn:      item.NameEn,
					Quantity:    item.Quantity,
					Price:       item.Price,
					Subtotal:    item.Subtotal(),
				})
			}
			people = append(people, person)
		}
		if err := tx.Create(&people).Error; err != nil {
			return err
		}
		order.SplitDetails = people
		return s.setTableStatus(tx, order.TableID, models.TablePendingPayment, &order.ID)
	})
	if err != nil {
		return nil, err
	}

	events.Broadcast(events.EventOrderSplit, order)
	return order, nil
}

// Settle completes the open order and frees its table.
func (s *OrderService) Settle(orderID uint) (*models.Order, error) {
	order, err := s.mutate(orderID, ActionSettle, func(tx *gorm.DB, order *models.Order) error {
		now := time.Now()
		order.Status = models.OrderCompleted
		order.CompletedAt = &now
		return s.setTableStatus(tx, order.TableID, models.TableEmpty, nil)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %d settled, total %s", order.ID, utils.FormatAmount(order.Total))
	events.Broadcast(events.EventOrderSettled, order)
	return order, nil
}

// Transfer moves the open order to another existing table.
func (s *OrderService) Transfer(orderID, newTableID uint) (*models.Order, error) {
	var fromTableID uint
	order, err := s.mutate(orderID, ActionTransfer, func(tx *gorm.DB, order *models.Order) error {
		var newTable models.Table
		if err := tx.First(&newTable, newTableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return poserr.NotFound("table", newTableID)
			}
			return err
		}

		fromTableID = order.TableID
		order.TableID = newTable.ID
		if err := s.setTableStatus(tx, fromTableID, models.TableEmpty, nil); err != nil {
			return err
		}
		return s.setTableStatus(tx, newTable.ID, models.TableOccupied, &order.ID)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %d transferred from table %d to table %d", order.ID, fromTableID, order.TableID)
	events.Broadcast(events.EventOrderTransferred, order)
	return order, nil
}

// Cancel voids the open order and frees its table.
func (s *OrderService) Cancel(orderID uint) (*models.Order, error) {
	order, err := s.mutate(orderID, ActionCancel, func(tx *gorm.DB, order *models.Order) error {
		order.Status = models.OrderCancelled
		return s.setTableStatus(tx, order.TableID, models.TableEmpty, nil)
	})
	if err != nil {
		return nil, err
	}

	events.Broadcast(events.EventOrderCancelled, order)
	return order, nil
}

// mutate loads the order, requires it to be open, applies fn and writes
// back with a version compare-and-swap. RowsAffected == 0 means another
// writer got there first.
func (s *OrderService) mutate(orderID uint, action string, fn func(tx *gorm.DB, order *models.Order) error) (*models.Order, error) {
	var out models.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return poserr.NotFound("order", orderID)
			}
			return err
		}

		if !order.IsOpen() {
			return &poserr.InvalidTransitionError{Action: action, Status: string(order.Status)}
		}

		prevVersion := order.Version
		if err := fn(tx, &order); err != nil {
			return err
		}

		order.Version = prevVersion + 1
		order.UpdatedAt = time.Now()

		res := tx.Model(&models.Order{}).
			Where("id = ? AND version = ?", order.ID, prevVersion).
			Updates(map[string]interface{}{
				"status":       order.Status,
				"table_id":     order.TableID,
				"completed_at": order.CompletedAt,
				"version":      order.Version,
				"updated_at":   order.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return poserr.Conflictf("order %d was modified concurrently", order.ID)
		}

		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *OrderService) setTableStatus(tx *gorm.DB, tableID uint, status models.TableStatus, currentOrderID *uint) error {
	updates := map[string]interface{}{
		"status":           status,
		"current_order_id": currentOrderID,
		"updated_at":       time.Now(),
	}
	if status == models.TableEmpty {
		updates["number_of_guests"] = nil
	}
	return tx.Model(&models.Table{}).Where("id = ?", tableID).Updates(updates).Error
}
