package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/restopos/backend/billing"
	"github.com/restopos/backend/models"
	"github.com/restopos/backend/poserr"
	"github.com/restopos/backend/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Table{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.BillSplitPerson{},
		&models.BillSplitItem{},
	))
	return db
}

func dec(value string) decimal.Decimal {
	out, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return out
}

func seedTable(t *testing.T, db *gorm.DB, numberEn string) models.Table {
	t.Helper()
	table := models.Table{NumberAr: "طاولة " + numberEn, NumberEn: numberEn, Capacity: 4, Status: models.TableEmpty}
	require.NoError(t, db.Create(&table).Error)
	return table
}

func seedMenuItem(t *testing.T, db *gorm.DB, nameEn, price string) models.MenuItem {
	t.Helper()
	item := models.MenuItem{NameAr: nameEn, NameEn: nameEn, Category: "mains", Price: dec(price), Available: true}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func TestCreateOrderComputesTotalsAndOccupiesTable(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	table := seedTable(t, db, "Table 1")
	shawarma := seedMenuItem(t, db, "Chicken Shawarma", "45")

	rate := dec("0.15")
	order, err := svc.Create(table.ID, []NewOrderItem{{MenuItemID: shawarma.ID, Quantity: 2}}, &rate)
	require.NoError(t, err)

	assert.Equal(t, models.OrderOpen, order.Status)
	assert.True(t, order.Subtotal.Equal(dec("90")), "subtotal = %s", order.Subtotal)
	assert.True(t, order.TaxAmount.Equal(dec("13.5")), "tax = %s", order.TaxAmount)
	assert.True(t, order.Total.Equal(dec("103.5")), "total = %s", order.Total)
	assert.Equal(t, uint(1), order.Version)

	var reloaded models.Table
	require.NoError(t, db.First(&reloaded, table.ID).Error)
	assert.Equal(t, models.TableOccupied, reloaded.Status)
	require.NotNil(t, reloaded.CurrentOrderID)
	assert.Equal(t, order.ID, *reloaded.CurrentOrderID)
}

func TestCreateOrderValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, "Table 1")

	var validation *poserr.ValidationError
	_, err := svc.Create(0, []NewOrderItem{{MenuItemID: 1, Quantity: 1}}, nil)
	assert.ErrorAs(t, err, &validation)

	_, err = svc.Create(table.ID, nil, nil)
	assert.ErrorAs(t, err, &validation)

	var notFound *poserr.NotFoundError
	_, err = svc.Create(99, []NewOrderItem{{MenuItemID: 1, Quantity: 1}}, nil)
	assert.ErrorAs(t, err, &notFound)

	_, err = svc.Create(table.ID, []NewOrderItem{{MenuItemID: 42, Quantity: 1}}, nil)
	assert.ErrorAs(t, err, &notFound)
}

func TestSettleTwiceFails(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	table := seedTable(t, db, "Table 1")
	menuItem := seedMenuItem(t, db, "Falafel Plate", "18")

	order, err := svc.Create(table.ID, []NewOrderItem{{MenuItemID: menuItem.ID, Quantity: 1}}, nil)
	require.NoError(t, err)

	settled, err := svc.Settle(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, settled.Status)
	require.NotNil(t, settled.CompletedAt)
	assert.Equal(t, uint(2), settled.Version)

	// The table frees up with the settle
	var reloaded models.Table
	require.NoError(t, db.First(&reloaded, table.ID).Error)
	assert.Equal(t, models.TableEmpty, reloaded.Status)
	assert.Nil(t, reloaded.CurrentOrderID)

	// Second settle must fail and leave the order untouched
	_, err = svc.Settle(order.ID)
	var transition *poserr.InvalidTransitionError
	require.ErrorAs(t, err, &transition)

	after, err := svc.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, after.Status)
	assert.Equal(t, uint(2), after.Version)
}

func TestSplitAfterSettleFails(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	table := seedTable(t, db, "Table 1")
	menuItem := seedMenuItem(t, db, "Falafel Plate", "18")

	order, err := svc.Create(table.ID, []NewOrderItem{{MenuItemID: menuItem.ID, Quantity: 1}}, nil)
	require.NoError(t, err)
	_, err = svc.Settle(order.ID)
	require.NoError(t, err)

	_, err = svc.Split(order.ID, billing.Assignment{
		"X": {{ItemID: order.Items[0].ID, Quantity: 1}},
	}, billing.SplitOptions{})
	var transition *poserr.InvalidTransitionError
	assert.ErrorAs(t, err, &transition)
}

func TestSplitStoresBreakdown(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	table := seedTable(t, db, "Table 1")
	grill := seedMenuItem(t, db, "Mixed Grill", "10")
	juice := seedMenuItem(t, db, "Lemon Mint", "5")

	rate := dec("0.15")
	order, err := svc.Create(table.ID, []NewOrderItem{
		{MenuItemID: grill.ID, Quantity: 2},
		{MenuItemID: juice.ID, Quantity: 1},
	}, &rate)
	require.NoError(t, err)

	grillLine := order.Items[0].ID
	juiceLine := order.Items[1].ID

	updated, err := svc.Split(order.ID, billing.Assignment{
		"X": {{ItemID: grillLine, Quantity: 1}},
		"Y": {{ItemID: grillLine, Quantity: 1}, {ItemID: juiceLine, Quantity: 1}},
	}, billing.SplitOptions{})
	require.NoError(t, err)

	// Split does not change the order status, but the table is now
	// waiting on payment
	assert.Equal(t, models.OrderOpen, updated.Status)
	var splitTable models.Table
	require.NoError(t, db.First(&splitTable, table.ID).Error)
	assert.Equal(t, models.TablePendingPayment, splitTable.Status)

	reloaded, err := svc.Get(order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.SplitDetails, 2)

	byName := map[string]models.BillSplitPerson{}
	for _, person := range reloaded.SplitDetails {
		byName[person.PersonName] = person
	}
	assert.True(t, byName["X"].Subtotal.Equal(dec("10")))
	assert.True(t, byName["Y"].Subtotal.Equal(dec("15")))
	assert.Len(t, byName["Y"].Items, 2)

	// Re-splitting replaces the previous breakdown
	_, err = svc.Split(order.ID, billing.Assignment{
		"Z": {{ItemID: grillLine, Quantity: 2}, {ItemID: juiceLine, Quantity: 1}},
	}, billing.SplitOptions{})
	require.NoError(t, err)

	reloaded, err = svc.Get(order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.SplitDetails, 1)
	assert.Equal(t, "Z", reloaded.SplitDetails[0].PersonName)
}

func TestSplitOverAllocationLeavesOrderUntouched(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	table := seedTable(t, db, "Table 1")
	grill := seedMenuItem(t, db, "Mixed Grill", "10")

	order, err := svc.Create(table.ID, []NewOrderItem{{MenuItemID: grill.ID, Quantity: 2}}, nil)
	require.NoError(t, err)

	_, err = svc.Split(order.ID, billing.Assignment{
		"X": {{ItemID: order.Items[0].ID, Quantity: 3}},
	}, billing.SplitOptions{})
	var overAlloc *poserr.OverAllocationError
	require.ErrorAs(t, err, &overAlloc)

	reloaded, err := svc.Get(order.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.SplitDetails)
	assert.Equal(t, uint(1), reloaded.Version)
}

func TestTransferToMissingTableFails(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	table := seedTable(t, db, "Table 1")
	menuItem := seedMenuItem(t, db, "Falafel Plate", "18")

	order, err := svc.Create(table.ID, []NewOrderItem{{MenuItemID: menuItem.ID, Quantity: 1}}, nil)
	require.NoError(t, err)

	_, err = svc.Transfer(order.ID, 99)
	var notFound *poserr.NotFoundError
	require.ErrorAs(t, err, &notFound)

	reloaded, err := svc.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, table.ID, reloaded.TableID)
}

func TestTransferMovesTableOccupancy(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	from := seedTable(t, db, "Table 1")
	to := seedTable(t, db, "Table 2")
	menuItem := seedMenuItem(t, db, "Falafel Plate", "18")

	order, err := svc.Create(from.ID, []NewOrderItem{{MenuItemID: menuItem.ID, Quantity: 1}}, nil)
	require.NoError(t, err)

	moved, err := svc.Transfer(order.ID, to.ID)
	require.NoError(t, err)
	assert.Equal(t, to.ID, moved.TableID)
	assert.Equal(t, uint(2), moved.Version)

	var oldTable, newTable models.Table
	require.NoError(t, db.First(&oldTable, from.ID).Error)
	require.NoError(t, db.First(&newTable, to.ID).Error)
	assert.Equal(t, models.TableEmpty, oldTable.Status)
	assert.Nil(t, oldTable.CurrentOrderID)
	assert.Equal(t, models.TableOccupied, newTable.Status)
	require.NotNil(t, newTable.CurrentOrderID)
	assert.Equal(t, order.ID, *newTable.CurrentOrderID)
}

func TestCancelFreesTable(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	table := seedTable(t, db, "Table 1")
	menuItem := seedMenuItem(t, db, "Falafel Plate", "18")

	order, err := svc.Create(table.ID, []NewOrderItem{{MenuItemID: menuItem.ID, Quantity: 1}}, nil)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)
	assert.Nil(t, cancelled.CompletedAt)

	var reloaded models.Table
	require.NoError(t, db.First(&reloaded, table.ID).Error)
	assert.Equal(t, models.TableEmpty, reloaded.Status)
}

func TestApplyUnknownAction(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	table := seedTable(t, db, "Table 1")
	menuItem := seedMenuItem(t, db, "Falafel Plate", "18")

	order, err := svc.Create(table.ID, []NewOrderItem{{MenuItemID: menuItem.ID, Quantity: 1}}, nil)
	require.NoError(t, err)

	_, err = svc.Apply(order.ID, "refund", ActionParams{})
	var unknown *poserr.UnknownActionError
	require.ErrorAs(t, err, &unknown)

	reloaded, err := svc.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderOpen, reloaded.Status)
	assert.Equal(t, uint(1), reloaded.Version)
}

func TestListReturnsOpenOrdersForTable(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	table1 := seedTable(t, db, "Table 1")
	table2 := seedTable(t, db, "Table 2")
	menuItem := seedMenuItem(t, db, "Falafel Plate", "18")

	first, err := svc.Create(table1.ID, []NewOrderItem{{MenuItemID: menuItem.ID, Quantity: 1}}, nil)
	require.NoError(t, err)
	_, err = svc.Settle(first.ID)
	require.NoError(t, err)

	second, err := svc.Create(table1.ID, []NewOrderItem{{MenuItemID: menuItem.ID, Quantity: 2}}, nil)
	require.NoError(t, err)
	_, err = svc.Create(table2.ID, []NewOrderItem{{MenuItemID: menuItem.ID, Quantity: 1}}, nil)
	require.NoError(t, err)

	open, err := svc.List(&table1.ID, "")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, second.ID, open[0].ID)

	all, err := svc.List(nil, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
