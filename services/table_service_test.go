package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restopos/backend/models"
	"github.com/restopos/backend/poserr"
)

func TestAddTableValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTableService(db)

	var validation *poserr.ValidationError

	_, err := svc.Add("", "Table 1", 4)
	assert.ErrorAs(t, err, &validation)

	_, err = svc.Add("الأولى", "", 4)
	assert.ErrorAs(t, err, &validation)

	_, err = svc.Add("الأولى", "Table 1", 0)
	assert.ErrorAs(t, err, &validation)

	table, err := svc.Add("الأولى", "Table 1", 4)
	require.NoError(t, err)
	assert.Equal(t, models.TableEmpty, table.Status)
	assert.Equal(t, 4, table.Capacity)
}

func TestRemoveTableRefusedWithOpenOrder(t *testing.T) {
	db := setupTestDB(t)
	tables := NewTableService(db)
	orders := NewOrderService(db)

	table := seedTable(t, db, "Table 1")
	menuItem := seedMenuItem(t, db, "Falafel Plate", "18")

	order, err := orders.Create(table.ID, []NewOrderItem{{MenuItemID: menuItem.ID, Quantity: 1}}, nil)
	require.NoError(t, err)

	_, err = tables.Remove(table.ID)
	var conflict *poserr.ConflictError
	require.ErrorAs(t, err, &conflict)

	// Settling the order unblocks the removal
	_, err = orders.Settle(order.ID)
	require.NoError(t, err)

	removed, err := tables.Remove(table.ID)
	require.NoError(t, err)
	assert.Equal(t, table.ID, removed.ID)
}

func TestMergeTablesMovesOrders(t *testing.T) {
	db := setupTestDB(t)
	tables := NewTableService(db)
	orders := NewOrderService(db)

	source := seedTable(t, db, "Table 1")
	target := seedTable(t, db, "Table 2")
	menuItem := seedMenuItem(t, db, "Falafel Plate", "18")

	order, err := orders.Create(source.ID, []NewOrderItem{{MenuItemID: menuItem.ID, Quantity: 1}}, nil)
	require.NoError(t, err)

	merged, after, err := tables.Merge(source.ID, target.ID)
	require.NoError(t, err)

	assert.Equal(t, models.TableMerged, merged.Status)
	require.NotNil(t, merged.MergedWithID)
	assert.Equal(t, target.ID, *merged.MergedWithID)
	assert.Nil(t, merged.CurrentOrderID)

	assert.Equal(t, models.TableOccupied, after.Status)
	require.NotNil(t, after.CurrentOrderID)
	assert.Equal(t, order.ID, *after.CurrentOrderID)

	// The order now belongs to the target table
	reloaded, err := orders.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, target.ID, reloaded.TableID)

	// Settling it frees the target
	_, err = orders.Settle(order.ID)
	require.NoError(t, err)
	var freed models.Table
	require.NoError(t, db.First(&freed, target.ID).Error)
	assert.Equal(t, models.TableEmpty, freed.Status)
}

func TestMergeTablesRejectsBadPairs(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTableService(db)

	source := seedTable(t, db, "Table 1")
	target := seedTable(t, db, "Table 2")

	var validation *poserr.ValidationError
	_, _, err := svc.Merge(source.ID, source.ID)
	assert.ErrorAs(t, err, &validation)

	var notFound *poserr.NotFoundError
	_, _, err = svc.Merge(source.ID, 99)
	assert.ErrorAs(t, err, &notFound)
	_, _, err = svc.Merge(99, target.ID)
	assert.ErrorAs(t, err, &notFound)

	_, _, err = svc.Merge(source.ID, target.ID)
	require.NoError(t, err)

	// A merged table can be neither source nor target
	var conflict *poserr.ConflictError
	_, _, err = svc.Merge(source.ID, target.ID)
	assert.ErrorAs(t, err, &conflict)
	_, _, err = svc.Merge(target.ID, source.ID)
	assert.ErrorAs(t, err, &conflict)
}

func TestRemoveMissingTable(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTableService(db)

	_, err := svc.Remove(42)
	var notFound *poserr.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestSetGuests(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTableService(db)

	table := seedTable(t, db, "Table 1")

	updated, err := svc.SetGuests(table.ID, 3)
	require.NoError(t, err)
	require.NotNil(t, updated.NumberOfGuests)
	assert.Equal(t, 3, *updated.NumberOfGuests)

	var validation *poserr.ValidationError
	_, err = svc.SetGuests(table.ID, 0)
	assert.ErrorAs(t, err, &validation)
}
