package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"food-ordering-api/config"
	"food-ordering-api/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	clientID uint = iota + 1
	ownerID
	driverID
	otherDriverID
	otherOwnerID
)

type fixture struct {
	db         *gorm.DB
	store      *OrderStore
	restaurant models.Restaurant
	dish       models.Dish
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := config.OpenDatabase(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)

	users := []models.User{
		{ID: clientID, Name: "Carla", Email: "carla@example.com", PasswordHash: "x", Role: models.RoleClient},
		{ID: ownerID, Name: "Olga", Email: "olga@example.com", PasswordHash: "x", Role: models.RoleOwner},
		{ID: driverID, Name: "Dima", Email: "dima@example.com", PasswordHash: "x", Role: models.RoleDelivery},
		{ID: otherDriverID, Name: "Dana", Email: "dana@example.com", PasswordHash: "x", Role: models.RoleDelivery},
		{ID: otherOwnerID, Name: "Oleg", Email: "oleg@example.com", PasswordHash: "x", Role: models.RoleOwner},
	}
	require.NoError(t, db.Create(&users).Error)

	f := &fixture{db: db, store: NewOrderStore(db)}
	f.restaurant = models.Restaurant{OwnerID: ownerID, Name: "Trattoria"}
	require.NoError(t, db.Create(&f.restaurant).Error)
	f.dish = models.Dish{RestaurantID: f.restaurant.ID, Name: "Margherita", Price: decimal.NewFromInt(10)}
	require.NoError(t, db.Create(&f.dish).Error)
	return f
}

func (f *fixture) items() []models.OrderItem {
	return []models.OrderItem{{DishID: &f.dish.ID, Name: f.dish.Name, Price: decimal.NewFromInt(13)}}
}

func (f *fixture) createOrder(t *testing.T) *models.Order {
	t.Helper()
	order, err := f.store.Create(context.Background(), clientID, f.restaurant.ID, f.items(), decimal.NewFromInt(13))
	require.NoError(t, err)
	return order
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	assert.NotZero(t, order.ID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(13)))
	assert.True(t, order.IsCustomer(clientID))
	assert.Nil(t, order.DriverID)
	require.NotNil(t, order.Restaurant)
	assert.Equal(t, ownerID, order.OwnerID())
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Margherita", order.Items[0].Name)
	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, models.StatusPending, order.StatusHistory[0].ToStatus)
}

func TestCreate_IsAtomic(t *testing.T) {
	f := newFixture(t)
	missing := uint(999)
	items := append(f.items(), models.OrderItem{DishID: &missing, Name: "ghost", Price: decimal.NewFromInt(1)})

	_, err := f.store.Create(context.Background(), clientID, f.restaurant.ID, items, decimal.NewFromInt(14))
	require.Error(t, err)

	assert.Zero(t, countRows(t, f.db, &models.Order{}))
	assert.Zero(t, countRows(t, f.db, &models.OrderItem{}))
	assert.Zero(t, countRows(t, f.db, &models.OrderStatusHistory{}))
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.Get(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestGet_SoftDeletedIsHidden(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)
	require.NoError(t, f.db.Delete(&models.Order{}, order.ID).Error)

	_, err := f.store.Get(context.Background(), order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateStatus_KeepsTotal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.createOrder(t)

	// A later menu price change must not leak into the order.
	require.NoError(t, f.db.Model(&f.dish).Update("price", decimal.NewFromInt(99)).Error)

	updated, err := f.store.UpdateStatus(ctx, order.ID, models.StatusCooking, ownerID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCooking, updated.Status)
	assert.True(t, updated.Total.Equal(decimal.NewFromInt(13)))
	require.Len(t, updated.StatusHistory, 2)
	assert.Equal(t, models.StatusPending, updated.StatusHistory[1].FromStatus)
	assert.Equal(t, models.StatusCooking, updated.StatusHistory[1].ToStatus)
	assert.Equal(t, ownerID, updated.StatusHistory[1].ChangedBy)

	updated, err = f.store.UpdateStatus(ctx, order.ID, models.StatusPickedUp, driverID)
	require.NoError(t, err)
	require.Len(t, updated.StatusHistory, 3)
	assert.Equal(t, models.StatusCooking, updated.StatusHistory[2].FromStatus)
	assert.Equal(t, models.StatusPickedUp, updated.StatusHistory[2].ToStatus)

	_, err = f.store.UpdateStatus(ctx, 4242, models.StatusCooking, ownerID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestAssignDriver(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.createOrder(t)

	updated, err := f.store.AssignDriver(ctx, order.ID, driverID)
	require.NoError(t, err)
	assert.True(t, updated.IsDriver(driverID))
	require.NotNil(t, updated.Driver)
	assert.Equal(t, "Dima", updated.Driver.Name)

	_, err = f.store.AssignDriver(ctx, order.ID, otherDriverID)
	assert.ErrorIs(t, err, ErrAlreadyAssigned)

	again, err := f.store.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, again.IsDriver(driverID))

	_, err = f.store.AssignDriver(ctx, 4242, driverID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestAssignDriver_ConcurrentExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.createOrder(t)

	var won, lost atomic.Int32
	var g errgroup.Group
	for _, d := range []uint{driverID, otherDriverID, driverID, otherDriverID} {
		g.Go(func() error {
			_, err := f.store.AssignDriver(ctx, order.ID, d)
			switch {
			case err == nil:
				won.Add(1)
			case errors.Is(err, ErrAlreadyAssigned):
				lost.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), won.Load())
	assert.Equal(t, int32(3), lost.Load())
}

func TestListings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := f.createOrder(t)
	second := f.createOrder(t)

	other := models.Restaurant{OwnerID: otherOwnerID, Name: "Sushi"}
	require.NoError(t, f.db.Create(&other).Error)
	_, err := f.store.Create(ctx, clientID, other.ID, nil, decimal.Zero)
	require.NoError(t, err)

	_, err = f.store.UpdateStatus(ctx, first.ID, models.StatusCooking, ownerID)
	require.NoError(t, err)
	_, err = f.store.AssignDriver(ctx, second.ID, driverID)
	require.NoError(t, err)

	byCustomer, err := f.store.ListByCustomer(ctx, clientID, nil)
	require.NoError(t, err)
	assert.Len(t, byCustomer, 3)

	byOwner, err := f.store.ListByRestaurantOwner(ctx, ownerID, nil)
	require.NoError(t, err)
	assert.Len(t, byOwner, 2)

	cooking := models.StatusCooking
	cookingByOwner, err := f.store.ListByRestaurantOwner(ctx, ownerID, &cooking)
	require.NoError(t, err)
	require.Len(t, cookingByOwner, 1)
	assert.Equal(t, first.ID, cookingByOwner[0].ID)

	byDriver, err := f.store.ListByDriver(ctx, driverID, nil)
	require.NoError(t, err)
	require.Len(t, byDriver, 1)
	assert.Equal(t, second.ID, byDriver[0].ID)

	none, err := f.store.ListByDriver(ctx, otherDriverID, nil)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = f.store.ListByRestaurantOwner(cancelled, ownerID, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRestaurantDeletionOrphansOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.createOrder(t)

	require.NoError(t, f.db.Delete(&models.Dish{}, f.dish.ID).Error)
	require.NoError(t, f.db.Delete(&models.Restaurant{}, f.restaurant.ID).Error)

	kept, err := f.store.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.RestaurantID)
	assert.Nil(t, kept.Restaurant)
	require.Len(t, kept.Items, 1)
	assert.Nil(t, kept.Items[0].DishID)
	assert.Equal(t, "Margherita", kept.Items[0].Name)
}
