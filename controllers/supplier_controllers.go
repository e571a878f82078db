package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/restopos/backend/models"
	"github.com/restopos/backend/poserr"
	"github.com/restopos/backend/utils"
)

type SupplierController struct {
	DB *gorm.DB
}

func NewSupplierController(db *gorm.DB) *SupplierController {
	return &SupplierController{DB: db}
}

// GetAllSuppliers -> GET /suppliers
func (sc *SupplierController) GetAllSuppliers(c *gin.Context) {
	var suppliers []models.Supplier
	if err := sc.DB.Order("name asc").Find(&suppliers).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of suppliers", suppliers)
}

// GetSupplierByID -> GET /suppliers/:supplier_id
func (sc *SupplierController) GetSupplierByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("supplier_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, poserr.Validationf("supplier id must be numeric"))
		return
	}

	var supplier models.Supplier
	if err := sc.DB.First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, poserr.NotFound("supplier", id))
			return
		}
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Supplier detail", supplier)
}

// CreateSupplier -> POST /suppliers
func (sc *SupplierController) CreateSupplier(c *gin.Context) {
	var body struct {
		Name        string `json:"name" binding:"required"`
		ContactName string `json:"contact_name"`
		Phone       string `json:"phone"`
		Email       string `json:"email"`
		Address     string `json:"address"`
		Notes       string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	supplier := models.Supplier{
		Name:        body.Name,
		ContactName: body.ContactName,
		Phone:       body.Phone,
		Email:       body.Email,
		Address:     body.Address,
		Notes:       body.Notes,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := sc.DB.Create(&supplier).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Supplier created", supplier)
}

// UpdateSupplier -> PATCH /suppliers/:supplier_id
func (sc *SupplierController) UpdateSupplier(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("supplier_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, poserr.Validationf("supplier id must be numeric"))
		return
	}

	var supplier models.Supplier
	if err := sc.DB.First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, poserr.NotFound("supplier", id))
			return
		}
		utils.RespondError(c, err)
		return
	}

	var body struct {
		Name        *string `json:"name"`
		ContactName *string `json:"contact_name"`
		Phone       *string `json:"phone"`
		Email       *string `json:"email"`
		Address     *string `json:"address"`
		Notes       *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil {
		supplier.Name = *body.Name
	}
	if body.ContactName != nil {
		supplier.ContactName = *body.ContactName
	}
	if body.Phone != nil {
		supplier.Phone = *body.Phone
	}
	if body.Email != nil {
		supplier.Email = *body.Email
	}
	if body.Address != nil {
		supplier.Address = *body.Address
	}
	if body.Notes != nil {
		supplier.Notes = *body.Notes
	}
	supplier.UpdatedAt = time.Now()

	if err := sc.DB.Save(&supplier).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Supplier updated", supplier)
}

// DeleteSupplier -> DELETE /suppliers/:supplier_id ; refused while the
// supplier has non-cancelled purchase orders.
func (sc *SupplierController) DeleteSupplier(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("supplier_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, poserr.Validationf("supplier id must be numeric"))
		return
	}

	var supplier models.Supplier
	if err := sc.DB.First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, poserr.NotFound("supplier", id))
			return
		}
		utils.RespondError(c, err)
		return
	}

	var activePOs int64
	if err := sc.DB.Model(&models.PurchaseOrder{}).
		Where("supplier_id = ? AND status NOT IN ?", id, []models.POStatus{models.POReceived, models.POCancelled}).
		Count(&activePOs).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	if activePOs > 0 {
		utils.RespondError(c, poserr.Conflictf("supplier %d has active purchase orders", id))
		return
	}

	if err := sc.DB.Delete(&supplier).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Supplier deleted", gin.H{"id": supplier.ID})
}
