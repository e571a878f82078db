package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/restopos/backend/billing"
	"github.com/restopos/backend/models"
	"github.com/restopos/backend/poserr"
	"github.com/restopos/backend/services"
	"github.com/restopos/backend/utils"
)

type OrderController struct {
	Orders   *services.OrderService
	Activity *services.ActivityService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{
		Orders:   services.NewOrderService(db),
		Activity: services.NewActivityService(db),
	}
}

// CreateOrder -> POST /orders {tableId, items[], taxRate?}
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var body struct {
		TableID uint                    `json:"tableId"`
		Items   []services.NewOrderItem `json:"items"`
		TaxRate *decimal.Decimal        `json:"taxRate"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.Create(body.TableID, body.Items, body.TaxRate)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	oc.audit(c, "order.create", strconv.Itoa(int(order.ID)), "total "+utils.FormatAmount(order.Total))
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrders -> GET /orders?tableId= ; with tableId only that table's open
// orders come back.
func (oc *OrderController) GetOrders(c *gin.Context) {
	var tableID *uint
	if raw := c.Query("tableId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.RespondError(c, poserr.Validationf("tableId must be numeric"))
			return
		}
		id := uint(parsed)
		tableID = &id
	}

	orders, err := oc.Orders.List(tableID, models.OrderStatus(c.Query("status")))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID -> GET /orders/:order_id
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, poserr.Validationf("order id must be numeric"))
		return
	}

	order, err := oc.Orders.Get(uint(id))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// PatchOrder -> PATCH /orders {orderId, action, splitDetails?, newTableId?}
func (oc *OrderController) PatchOrder(c *gin.Context) {
	var body struct {
		OrderID      uint               `json:"orderId"`
		Action       string             `json:"action"`
		SplitDetails billing.Assignment `json:"splitDetails,omitempty"`
		AllowPartial bool               `json:"allowPartial,omitempty"`
		NewTableID   uint               `json:"newTableId,omitempty"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}
	if body.OrderID == 0 || body.Action == "" {
		utils.RespondError(c, poserr.Validationf("orderId and action are required"))
		return
	}

	order, err := oc.Orders.Apply(body.OrderID, body.Action, services.ActionParams{
		SplitDetails: body.SplitDetails,
		AllowPartial: body.AllowPartial,
		NewTableID:   body.NewTableID,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	oc.audit(c, "order."+body.Action, strconv.Itoa(int(order.ID)), "")
	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// audit records the action without ever failing the request.
func (oc *OrderController) audit(c *gin.Context, action, entityID, details string) {
	var userID *uint
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uint); ok {
			userID = &id
		}
	}
	if err := oc.Activity.Record(userID, action, "order", entityID, details); err != nil {
		utils.ErrorLogger.Printf("activity record failed: %v", err)
	}
}
