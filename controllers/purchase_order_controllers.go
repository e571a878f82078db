package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/restopos/backend/billing"
	"github.com/restopos/backend/models"
	"github.com/restopos/backend/poserr"
	"github.com/restopos/backend/services"
	"github.com/restopos/backend/utils"
)

type PurchaseOrderController struct {
	POs *services.PurchaseOrderService
}

func NewPurchaseOrderController(db *gorm.DB) *PurchaseOrderController {
	return &PurchaseOrderController{POs: services.NewPurchaseOrderService(db)}
}

// GetPurchaseOrders -> GET /purchase-orders?status=
func (pc *PurchaseOrderController) GetPurchaseOrders(c *gin.Context) {
	pos, err := pc.POs.List(models.POStatus(c.Query("status")))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of purchase orders", pos)
}

// GetPurchaseOrderByID -> GET /purchase-orders/:po_id
func (pc *PurchaseOrderController) GetPurchaseOrderByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("po_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, poserr.Validationf("purchase order id must be numeric"))
		return
	}

	po, err := pc.POs.Get(uint(id))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Purchase order detail", po)
}

// CreatePurchaseOrder -> POST /purchase-orders
func (pc *PurchaseOrderController) CreatePurchaseOrder(c *gin.Context) {
	var body struct {
		SupplierID       uint                 `json:"supplier_id" binding:"required"`
		Items            []services.NewPOLine `json:"items" binding:"required"`
		TaxRate          *decimal.Decimal     `json:"tax_rate"`
		ShippingCost     decimal.Decimal      `json:"shipping_cost"`
		ExpectedDelivery *time.Time           `json:"expected_delivery_date"`
		Notes            string               `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	rate := billing.DefaultTaxRate
	if body.TaxRate != nil {
		rate = *body.TaxRate
	}

	userID, _ := c.Get("userID")
	createdBy, _ := userID.(uint)

	po, err := pc.POs.Create(body.SupplierID, createdBy, body.Items, rate, body.ShippingCost, body.ExpectedDelivery, body.Notes)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Purchase order created", po)
}

// PatchPurchaseOrder -> PATCH /purchase-orders/:po_id {status}
func (pc *PurchaseOrderController) PatchPurchaseOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("po_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, poserr.Validationf("purchase order id must be numeric"))
		return
	}

	var body struct {
		Status models.POStatus `json:"status" binding:"required"`
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

	po, err := pc.POs.Transition(uint(id), body.Status, userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Purchase order updated", po)
}
