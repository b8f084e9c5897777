package orders

import (
	"context"
	"log/slog"

	"food-ordering-api/logger"
	"food-ordering-api/models"
	"food-ordering-api/pubsub"
)

// PendingOrders streams new orders placed at restaurants owned by user.
func (s *Service) PendingOrders(ctx context.Context, user models.AuthUser) (<-chan models.Order, error) {
	if user.Role != models.RoleOwner {
		return nil, ErrForbidden
	}
	return s.stream(ctx, pubsub.TopicNewPendingOrder, func(ev OrderEvent) bool {
		return ev.OwnerID == user.ID
	})
}

// CookedOrders streams every order a restaurant has marked cooked. No driver
// has claimed them yet, so any driver may see all of them.
func (s *Service) CookedOrders(ctx context.Context, user models.AuthUser) (<-chan models.Order, error) {
	if user.Role != models.RoleDelivery {
		return nil, ErrForbidden
	}
	return s.stream(ctx, pubsub.TopicNewCookedOrder, func(OrderEvent) bool {
		return true
	})
}

// OrderUpdates streams changes to order orderID, for its customer, its
// driver or its restaurant owner only.
func (s *Service) OrderUpdates(ctx context.Context, user models.AuthUser, orderID uint) (<-chan models.Order, error) {
	return s.stream(ctx, pubsub.TopicOrderStatusChanged, func(ev OrderEvent) bool {
		if ev.Order.ID != orderID {
			return false
		}
		return ev.Order.IsDriver(user.ID) || ev.Order.IsCustomer(user.ID) || ev.OwnerID == user.ID
	})
}

// stream runs until ctx is done. The output channel is closed when the
// underlying subscription ends.
func (s *Service) stream(ctx context.Context, topic pubsub.Topic, keep func(OrderEvent) bool) (<-chan models.Order, error) {
	in, err := s.broker.Subscribe(ctx, topic)
	if err != nil {
		return nil, err
	}

	out := make(chan models.Order)
	go func() {
		defer close(out)
		for payload := range in {
			ev, err := decodeEvent(payload)
			if err != nil {
				s.log.WarnContext(ctx, "dropping undecodable event",
					slog.String("topic", string(topic)), logger.Err(err))
				continue
			}
			if !keep(ev) {
				continue
			}
			select {
			case out <- ev.Order:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
