package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/restopos/backend/poserr"
	"github.com/restopos/backend/services"
	"github.com/restopos/backend/utils"
)

type TableController struct {
	Tables   *services.TableService
	Activity *services.ActivityService
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{
		Tables:   services.NewTableService(db),
		Activity: services.NewActivityService(db),
	}
}

// GetAllTables -> GET /tables
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Tables.List()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// CreateTable -> POST /tables {numberAr, numberEn, capacity}
func (tc *TableController) CreateTable(c *gin.Context) {
	var body struct {
		NumberAr string `json:"numberAr"`
		NumberEn string `json:"numberEn"`
		Capacity int    `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.Add(body.NumberAr, body.NumberEn, body.Capacity)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// DeleteTable -> DELETE /tables?id= ; refused while the table has an open
// order.
func (tc *TableController) DeleteTable(c *gin.Context) {
	raw := c.Query("id")
	if raw == "" {
		utils.RespondError(c, poserr.Validationf("table id is required"))
		return
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		utils.RespondError(c, poserr.Validationf("table id must be numeric"))
		return
	}

	table, err := tc.Tables.Remove(uint(id))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table deleted", table)
}

// MergeTables -> POST /tables/merge {sourceTableId, targetTableId}; all
// orders of the source move to the target and the source is marked
// merged.
func (tc *TableController) MergeTables(c *gin.Context) {
	var body struct {
		SourceTableID uint `json:"sourceTableId"`
		TargetTableID uint `json:"targetTableId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}
	if body.SourceTableID == 0 || body.TargetTableID == 0 {
		utils.RespondError(c, poserr.Validationf("sourceTableId and targetTableId are required"))
		return
	}

	source, target, err := tc.Tables.Merge(body.SourceTableID, body.TargetTableID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var userID *uint
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uint); ok {
			userID = &id
		}
	}
	details := fmt.Sprintf("merged table %d into %d", source.ID, target.ID)
	if err := tc.Activity.Record(userID, "table.merge", "table", strconv.Itoa(int(target.ID)), details); err != nil {
		utils.ErrorLogger.Printf("activity record failed: %v", err)
	}

	utils.RespondJSON(c, http.StatusOK, "Tables merged", gin.H{
		"merged_table": source,
		"target_table": target,
	})
}

// SetTableGuests -> PATCH /tables/:table_id/guests {numberOfGuests}
func (tc *TableController) SetTableGuests(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("table_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, poserr.Validationf("table id must be numeric"))
		return
	}

	var body struct {
		NumberOfGuests int `json:"numberOfGuests"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.SetGuests(uint(id), body.NumberOfGuests)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}
