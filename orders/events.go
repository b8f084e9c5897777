package orders

import (
	"food-ordering-api/models"

	"github.com/goccy/go-json"
)

// OrderEvent is the payload of every order topic. It is serialized at publish
// time, so subscribers see a snapshot that later writes cannot change.
type OrderEvent struct {
	Order   models.Order `json:"order"`
	OwnerID uint         `json:"owner_id"`
}

func newEvent(order models.Order) OrderEvent {
	order.StatusHistory = nil
	return OrderEvent{Order: order, OwnerID: order.OwnerID()}
}

func encodeEvent(ev OrderEvent) ([]byte, error) {
	return json.Marshal(ev)
}

func decodeEvent(payload []byte) (OrderEvent, error) {
	var ev OrderEvent
	err := json.Unmarshal(payload, &ev)
	return ev, err
}
