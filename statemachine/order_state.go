package statemachine

import (
	"food-ordering-api/models"
)

// Transition names a status an actor role may set on an order it can see
type Transition struct {
	Actor models.UserRole    `json:"actor"`
	To    models.OrderStatus `json:"to"`
}

// validTransitions is the authoritative edit table. Clients never edit.
// Sequencing is not enforced: only the (role, target) pair is checked.
var validTransitions = []Transition{
	// Restaurant starts cooking, then confirms the food is ready
	{Actor: models.RoleOwner, To: models.StatusCooking},
	{Actor: models.RoleOwner, To: models.StatusCooked},
	// Driver picks the order up and delivers it
	{Actor: models.RoleDelivery, To: models.StatusPickedUp},
	{Actor: models.RoleDelivery, To: models.StatusDelivered},
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[Transition]bool {
	m := make(map[Transition]bool, len(validTransitions))
	for _, t := range validTransitions {
		m[t] = true
	}
	return m
}()

// CanView reports whether user may see order: clients their own orders,
// drivers the orders assigned to them, owners the orders of their
// restaurants. The restaurant must be loaded on order for owners to match.
func CanView(user models.AuthUser, order *models.Order) bool {
	switch user.Role {
	case models.RoleClient:
		return order.IsCustomer(user.ID)
	case models.RoleDelivery:
		return order.IsDriver(user.ID)
	case models.RoleOwner:
		return order.Restaurant != nil && order.Restaurant.OwnerID == user.ID
	}
	return false
}

// CanEditStatus reports whether a user of the given role may set target.
// Visibility is checked separately by CanView.
func CanEditStatus(role models.UserRole, target models.OrderStatus) bool {
	return transitionMap[Transition{Actor: role, To: target}]
}

// ValidTargetsFor returns the statuses role may set, in table order
func ValidTargetsFor(role models.UserRole) []models.OrderStatus {
	var targets []models.OrderStatus
	for _, t := range validTransitions {
		if t.Actor == role {
			targets = append(targets, t.To)
		}
	}
	return targets
}

// GetAllTransitions returns the full edit table for documentation
func GetAllTransitions() []Transition {
	out := make([]Transition, len(validTransitions))
	copy(out, validTransitions)
	return out
}
