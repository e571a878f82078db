package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/restopos/backend/models"
	"github.com/restopos/backend/poserr"
	"github.com/restopos/backend/services"
	"github.com/restopos/backend/utils"
)

type InventoryController struct {
	Inventory *services.InventoryService
}

func NewInventoryController(db *gorm.DB) *InventoryController {
	return &InventoryController{Inventory: services.NewInventoryService(db)}
}

// GetInventory -> GET /inventory
func (ic *InventoryController) GetInventory(c *gin.Context) {
	items, err := ic.Inventory.List()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of inventory items", items)
}

// CreateInventoryItem -> POST /inventory
func (ic *InventoryController) CreateInventoryItem(c *gin.Context) {
	var body struct {
		Name         string          `json:"name" binding:"required"`
		SKU          string          `json:"sku"`
		Unit         string          `json:"unit" binding:"required"`
		Quantity     decimal.Decimal `json:"quantity"`
		ReorderLevel decimal.Decimal `json:"reorder_level"`
		CostPrice    decimal.Decimal `json:"cost_price"`
		SupplierID   *uint           `json:"supplier_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	item := models.InventoryItem{
		Name:         body.Name,
		SKU:          body.SKU,
		Unit:         body.Unit,
		Quantity:     body.Quantity,
		ReorderLevel: body.ReorderLevel,
		CostPrice:    body.CostPrice,
		SupplierID:   body.SupplierID,
	}
	if err := ic.Inventory.Create(&item); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Inventory item created", item)
}

// RecordMovement -> POST /inventory/:item_id/movements
func (ic *InventoryController) RecordMovement(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, poserr.Validationf("item id must be numeric"))
		return
	}

	var body struct {
		Type     models.MovementType `json:"type" binding:"required"`
		Quantity decimal.Decimal     `json:"quantity"`
		Reason   string              `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	var userID *uint
	if v, ok := c.Get("userID"); ok {
		if uid, ok := v.(uint); ok {
			userID = &uid
		}
	}

	item, err := ic.Inventory.RecordMovement(uint(id), body.Type, body.Quantity, body.Reason, "", nil, userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Stock movement recorded", item)
}

// GetMovements -> GET /inventory/:item_id/movements
func (ic *InventoryController) GetMovements(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, poserr.Validationf("item id must be numeric"))
		return
	}

	movements, err := ic.Inventory.Movements(uint(id))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Stock movements", movements)
}

// GetLowStock -> GET /inventory/low-stock
func (ic *InventoryController) GetLowStock(c *gin.Context) {
	items, err := ic.Inventory.LowStock()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Low stock items", items)
}
