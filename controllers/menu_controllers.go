package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/restopos/backend/models"
	"github.com/restopos/backend/poserr"
	"github.com/restopos/backend/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetAllMenuItems -> GET /menus, optionally ?category=
func (mc *MenuController) GetAllMenuItems(c *gin.Context) {
	query := mc.DB.Order("category asc, name_en asc")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var items []models.MenuItem
	if err := query.Find(&items).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

// CreateMenuItem -> POST /menus
func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var body struct {
		NameAr      string          `json:"name_ar" binding:"required"`
		NameEn      string          `json:"name_en" binding:"required"`
		Category    string          `json:"category" binding:"required"`
		Price       decimal.Decimal `json:"price"`
		Description string          `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}
	if body.Price.IsNegative() {
		utils.RespondError(c, poserr.Validationf("price must not be negative"))
		return
	}

	item := models.MenuItem{
		NameAr:      body.NameAr,
		NameEn:      body.NameEn,
		Category:    body.Category,
		Price:       body.Price,
		Description: body.Description,
		Available:   true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// UpdateMenuItem -> PATCH /menus/:menu_id
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("menu_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, poserr.Validationf("menu id must be numeric"))
		return
	}

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, poserr.NotFound("menu item", id))
			return
		}
		utils.RespondError(c, err)
		return
	}

	var body struct {
		NameAr      *string          `json:"name_ar"`
		NameEn      *string          `json:"name_en"`
		Category    *string          `json:"category"`
		Price       *decimal.Decimal `json:"price"`
		Description *string          `json:"description"`
		Available   *bool            `json:"available"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	if body.NameAr != nil {
		item.NameAr = *body.NameAr
	}
	if body.NameEn != nil {
		item.NameEn = *body.NameEn
	}
	if body.Category != nil {
		item.Category = *body.Category
	}
	if body.Price != nil {
		if body.Price.IsNegative() {
			utils.RespondError(c, poserr.Validationf("price must not be negative"))
			return
		}
		item.Price = *body.Price
	}
	if body.Description != nil {
		item.Description = *body.Description
	}
	if body.Available != nil {
		item.Available = *body.Available
	}
	item.UpdatedAt = time.Now()

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem -> DELETE /menus/:menu_id
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("menu_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, poserr.Validationf("menu id must be numeric"))
		return
	}

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, poserr.NotFound("menu item", id))
			return
		}
		utils.RespondError(c, err)
		return
	}

	if err := mc.DB.Delete(&item).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"id": item.ID})
}
