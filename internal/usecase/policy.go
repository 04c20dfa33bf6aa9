package usecase

import "github.com/quickbite/kiosk-api/internal/entity"

// TransitionPolicy is a workflow rule consulted before a status
// transition, separate from the aggregate's own legality table so the
// policy can evolve without touching the state machine.
type TransitionPolicy interface {
	Allow(o *entity.Order, target entity.OrderStatus) error
}

// RequireApprovedPayment forbids entering preparation until the
// payment is approved.
type RequireApprovedPayment struct{}

func (RequireApprovedPayment) Allow(o *entity.Order, target entity.OrderStatus) error {
	if target == entity.OrderStatusInPreparation && !o.IsPaymentApproved() {
		return ErrPaymentNotApproved
	}
	return nil
}
