package Controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restopos/backend/controllers"
	"github.com/restopos/backend/models"
	"github.com/restopos/backend/utils"
	"gorm.io/gorm"
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	out, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return out
}

func setupTableRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	tableCtrl := controllers.NewTableController(db)
	router.GET("/tables", tableCtrl.GetAllTables)
	router.POST("/tables", tableCtrl.CreateTable)
	router.DELETE("/tables", tableCtrl.DeleteTable)
	router.POST("/tables/merge", tableCtrl.MergeTables)
	return router
}

func TestGetAllTables(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)

	table1 := models.Table{NumberAr: "الأولى", NumberEn: "Table 1", Capacity: 4, Status: models.TableEmpty}
	table2 := models.Table{NumberAr: "الثانية", NumberEn: "Table 2", Capacity: 6, Status: models.TableOccupied}
	require.NoError(t, db.Create(&table1).Error)
	require.NoError(t, db.Create(&table2).Error)

	router := setupTableRouter(db)
	w := doJSON(t, router, "GET", "/tables", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Success bool `json:"success"`
		Data    []struct {
			NumberEn string `json:"number_en"`
			Status   string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	require.Len(t, response.Data, 2)
	assert.Equal(t, "Table 1", response.Data[0].NumberEn)
}

func TestCreateTableEndpoint(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupTableRouter(db)

	w := doJSON(t, router, "POST", "/tables", gin.H{
		"numberAr": "الثالثة",
		"numberEn": "Table 3",
		"capacity": 4,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Missing numberEn
	w = doJSON(t, router, "POST", "/tables", gin.H{
		"numberAr": "الرابعة",
		"capacity": 4,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Non-positive capacity
	w = doJSON(t, router, "POST", "/tables", gin.H{
		"numberAr": "الرابعة",
		"numberEn": "Table 4",
		"capacity": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteTableEndpoint(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupTableRouter(db)

	table := models.Table{NumberAr: "الأولى", NumberEn: "Table 1", Capacity: 4, Status: models.TableEmpty}
	require.NoError(t, db.Create(&table).Error)

	// Missing id
	w := doJSON(t, router, "DELETE", "/tables", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown id
	w = doJSON(t, router, "DELETE", "/tables?id=99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, "DELETE", fmt.Sprintf("/tables?id=%d", table.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMergeTablesEndpoint(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)

	source := models.Table{NumberAr: "الأولى", NumberEn: "Table 1", Capacity: 4, Status: models.TableEmpty}
	target := models.Table{NumberAr: "الثانية", NumberEn: "Table 2", Capacity: 6, Status: models.TableEmpty}
	require.NoError(t, db.Create(&source).Error)
	require.NoError(t, db.Create(&target).Error)
	item := models.MenuItem{NameAr: "فلافل", NameEn: "Falafel Plate", Category: "mains", Price: dec(t, "18"), Available: true}
	require.NoError(t, db.Create(&item).Error)

	orderRouter := setupOrderRouter(db)
	w := doJSON(t, orderRouter, "POST", "/orders", gin.H{
		"tableId": source.ID,
		"items":   []gin.H{{"menu_item_id": item.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	tableRouter := setupTableRouter(db)

	// Missing ids
	w = doJSON(t, tableRouter, "POST", "/tables/merge", gin.H{"sourceTableId": source.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Self-merge
	w = doJSON(t, tableRouter, "POST", "/tables/merge", gin.H{
		"sourceTableId": source.ID,
		"targetTableId": source.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, tableRouter, "POST", "/tables/merge", gin.H{
		"sourceTableId": source.ID,
		"targetTableId": target.ID,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			MergedTable struct {
				Status       string `json:"status"`
				MergedWithID *uint  `json:"merged_with_id"`
			} `json:"merged_table"`
			TargetTable struct {
				Status string `json:"status"`
			} `json:"target_table"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "merged", response.Data.MergedTable.Status)
	require.NotNil(t, response.Data.MergedTable.MergedWithID)
	assert.Equal(t, target.ID, *response.Data.MergedTable.MergedWithID)
	assert.Equal(t, "occupied", response.Data.TargetTable.Status)

	// The open order followed the merge
	w = doJSON(t, orderRouter, "GET", fmt.Sprintf("/orders?tableId=%d", target.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders struct {
		Data []struct {
			TableID uint `json:"table_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders.Data, 1)
	assert.Equal(t, target.ID, orders.Data[0].TableID)
}

func TestDeleteTableRefusedWithOpenOrder(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)

	table := models.Table{NumberAr: "الأولى", NumberEn: "Table 1", Capacity: 4, Status: models.TableEmpty}
	require.NoError(t, db.Create(&table).Error)
	item := models.MenuItem{NameAr: "فلافل", NameEn: "Falafel Plate", Category: "mains", Price: dec(t, "18"), Available: true}
	require.NoError(t, db.Create(&item).Error)

	orderRouter := setupOrderRouter(db)
	w := doJSON(t, orderRouter, "POST", "/orders", gin.H{
		"tableId": table.ID,
		"items":   []gin.H{{"menu_item_id": item.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	tableRouter := setupTableRouter(db)
	w = doJSON(t, tableRouter, "DELETE", fmt.Sprintf("/tables?id=%d", table.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
