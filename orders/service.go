// Package orders implements order creation, queries, status edits and
// driver assignment, and the live order streams built on top of them.
package orders

import (
	"context"
	"errors"
	"log/slog"

	"food-ordering-api/catalog"
	"food-ordering-api/logger"
	"food-ordering-api/models"
	"food-ordering-api/pricing"
	"food-ordering-api/pubsub"
	"food-ordering-api/statemachine"
	"food-ordering-api/store"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -destination=mock_broker_test.go -package=orders food-ordering-api/pubsub Broker

// OrderStore is the persistence the service needs; *store.OrderStore
// implements it.
type OrderStore interface {
	Create(ctx context.Context, customerID, restaurantID uint, items []models.OrderItem, total decimal.Decimal) (*models.Order, error)
	Get(ctx context.Context, id uint) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uint, status *models.OrderStatus) ([]models.Order, error)
	ListByDriver(ctx context.Context, driverID uint, status *models.OrderStatus) ([]models.Order, error)
	ListByRestaurantOwner(ctx context.Context, ownerID uint, status *models.OrderStatus) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status models.OrderStatus, actorID uint) (*models.Order, error)
	AssignDriver(ctx context.Context, id, driverID uint) (*models.Order, error)
}

type Service struct {
	catalog catalog.Reader
	orders  OrderStore
	broker  pubsub.Broker
	log     *slog.Logger
}

func NewService(c catalog.Reader, o OrderStore, b pubsub.Broker, log *slog.Logger) *Service {
	return &Service{catalog: c, orders: o, broker: b, log: log}
}

type LineItemInput struct {
	DishID  uint                     `json:"dish_id" binding:"required"`
	Options []models.OrderItemOption `json:"options" binding:"dive"`
}

type CreateOrderInput struct {
	RestaurantID uint            `json:"restaurant_id" binding:"required"`
	Items        []LineItemInput `json:"items" binding:"required,min=1,dive"`
}

type CreateOrderOutput struct {
	Result
	OrderID uint `json:"order_id,omitempty"`
}

type GetOrdersOutput struct {
	Result
	Orders []models.Order `json:"orders,omitempty"`
}

type GetOrderOutput struct {
	Result
	Order *models.Order `json:"order,omitempty"`
}

// CreateOrder prices every requested dish, then commits the order in one
// step. Any missing dish aborts the whole order before anything is written.
func (s *Service) CreateOrder(ctx context.Context, customer models.AuthUser, in CreateOrderInput) CreateOrderOutput {
	restaurant, err := s.catalog.GetRestaurant(ctx, in.RestaurantID)
	if err != nil {
		if errors.Is(err, catalog.ErrRestaurantNotFound) {
			return CreateOrderOutput{Result: fail(CodeRestaurantNotFound, "Restaurant not found")}
		}
		return CreateOrderOutput{Result: s.internal(ctx, "create order", err)}
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	prices := make([]decimal.Decimal, 0, len(in.Items))
	for _, req := range in.Items {
		dish, err := s.catalog.GetDish(ctx, req.DishID)
		if err != nil {
			if errors.Is(err, catalog.ErrDishNotFound) {
				return CreateOrderOutput{Result: fail(CodeDishNotFound, "Dish not found")}
			}
			return CreateOrderOutput{Result: s.internal(ctx, "create order", err)}
		}
		if dish.RestaurantID != restaurant.ID {
			return CreateOrderOutput{Result: fail(CodeDishNotFound, "Dish not found on this restaurant's menu")}
		}

		price := pricing.LineItemPrice(dish, req.Options)
		prices = append(prices, price)
		items = append(items, models.OrderItem{
			DishID:  &dish.ID,
			Name:    dish.Name,
			Price:   price,
			Options: req.Options,
		})
	}

	order, err := s.orders.Create(ctx, customer.ID, restaurant.ID, items, pricing.OrderTotal(prices))
	if err != nil {
		return CreateOrderOutput{Result: s.internal(ctx, "create order", err)}
	}

	s.publish(ctx, pubsub.TopicNewPendingOrder, newEvent(*order))
	s.log.InfoContext(ctx, "order created",
		slog.Uint64("order_id", uint64(order.ID)),
		slog.String("total", order.Total.String()))

	return CreateOrderOutput{Result: ok(), OrderID: order.ID}
}

// GetOrders lists the orders related to user: placed by a client, assigned
// to a driver, or received by an owner's restaurants.
func (s *Service) GetOrders(ctx context.Context, user models.AuthUser, status *models.OrderStatus) GetOrdersOutput {
	var (
		list []models.Order
		err  error
	)
	switch user.Role {
	case models.RoleClient:
		list, err = s.orders.ListByCustomer(ctx, user.ID, status)
	case models.RoleDelivery:
		list, err = s.orders.ListByDriver(ctx, user.ID, status)
	case models.RoleOwner:
		list, err = s.orders.ListByRestaurantOwner(ctx, user.ID, status)
	default:
		list = []models.Order{}
	}
	if err != nil {
		return GetOrdersOutput{Result: s.internal(ctx, "get orders", err)}
	}
	return GetOrdersOutput{Result: ok(), Orders: list}
}

func (s *Service) GetOrder(ctx context.Context, user models.AuthUser, id uint) GetOrderOutput {
	order, res := s.visibleOrder(ctx, user, id, "get order")
	if !res.OK {
		return GetOrderOutput{Result: res}
	}
	return GetOrderOutput{Result: ok(), Order: order}
}

// EditOrder changes the status of an order the user can see, if the user's
// role may set target. Cooked is stored as Cooking and announced to drivers.
func (s *Service) EditOrder(ctx context.Context, user models.AuthUser, id uint, target models.OrderStatus) Result {
	if !target.Valid() {
		return fail(CodeInvalidStatus, "Unknown order status")
	}

	_, res := s.visibleOrder(ctx, user, id, "edit order")
	if !res.OK {
		return res
	}
	if !statemachine.CanEditStatus(user.Role, target) {
		return fail(CodeForbidden, "You can not do that")
	}

	updated, err := s.orders.UpdateStatus(ctx, id, target.Stored(), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			return fail(CodeOrderNotFound, "Order not found")
		}
		return s.internal(ctx, "edit order", err)
	}

	broadcast := *updated
	broadcast.Status = target
	ev := newEvent(broadcast)
	if user.Role == models.RoleOwner && target == models.StatusCooked {
		s.publish(ctx, pubsub.TopicNewCookedOrder, ev)
	}
	s.publish(ctx, pubsub.TopicOrderStatusChanged, ev)

	return ok()
}

// TakeOrder assigns driver to an order that has none yet.
func (s *Service) TakeOrder(ctx context.Context, driver models.AuthUser, id uint) Result {
	if driver.Role != models.RoleDelivery {
		return fail(CodeForbidden, "Only drivers can take orders")
	}
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			return fail(CodeOrderNotFound, "Order not found")
		}
		return s.internal(ctx, "take order", err)
	}
	if order.DriverID != nil {
		return fail(CodeAlreadyAssigned, "This order already has a driver")
	}

	updated, err := s.orders.AssignDriver(ctx, id, driver.ID)
	switch {
	case errors.Is(err, store.ErrAlreadyAssigned):
		return fail(CodeAlreadyAssigned, "This order already has a driver")
	case errors.Is(err, store.ErrOrderNotFound):
		return fail(CodeOrderNotFound, "Order not found")
	case err != nil:
		return s.internal(ctx, "take order", err)
	}

	s.publish(ctx, pubsub.TopicOrderStatusChanged, newEvent(*updated))
	return ok()
}

func (s *Service) visibleOrder(ctx context.Context, user models.AuthUser, id uint, op string) (*models.Order, Result) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			return nil, fail(CodeOrderNotFound, "Order not found")
		}
		return nil, s.internal(ctx, op, err)
	}
	if !statemachine.CanView(user, order) {
		return nil, fail(CodeForbidden, "You can not see this order")
	}
	return order, ok()
}

func (s *Service) internal(ctx context.Context, op string, err error) Result {
	s.log.ErrorContext(ctx, op+" failed", logger.Err(err))
	return fail(CodeInternal, "Could not "+op)
}

// publish failures are logged and never fail the operation that triggered
// them. The request context may be cancelled right after the response, so
// publishing is detached from it.
func (s *Service) publish(ctx context.Context, topic pubsub.Topic, ev OrderEvent) {
	payload, err := encodeEvent(ev)
	if err == nil {
		err = s.broker.Publish(context.WithoutCancel(ctx), topic, payload)
	}
	if err != nil {
		s.log.ErrorContext(ctx, "publish failed",
			slog.String("topic", string(topic)),
			slog.Uint64("order_id", uint64(ev.Order.ID)),
			logger.Err(err))
	}
}
