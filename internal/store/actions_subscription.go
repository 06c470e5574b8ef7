package store

import "github.com/magabrotheeeer/billing-console/internal/models"

const (
	LoadSubscriptionsType        ActionType = "[Subscription] Load Subscriptions"
	LoadSubscriptionsSuccessType ActionType = "[Subscription] Load Subscriptions Success"
	LoadSubscriptionsFailureType ActionType = "[Subscription] Load Subscriptions Failure"

	SubscribeType        ActionType = "[Subscription] Subscribe"
	SubscribeSuccessType ActionType = "[Subscription] Subscribe Success"
	SubscribeFailureType ActionType = "[Subscription] Subscribe Failure"

	CancelSubscriptionType        ActionType = "[Subscription] Cancel Subscription"
	CancelSubscriptionSuccessType ActionType = "[Subscription] Cancel Subscription Success"
	CancelSubscriptionFailureType ActionType = "[Subscription] Cancel Subscription Failure"

	LoadSubscriptionStatusType        ActionType = "[Subscription] Load Subscription Status"
	LoadSubscriptionStatusSuccessType ActionType = "[Subscription] Load Subscription Status Success"
	LoadSubscriptionStatusFailureType ActionType = "[Subscription] Load Subscription Status Failure"

	LoadSubscriptionPlansType        ActionType = "[Subscription] Load Subscription Plans"
	LoadSubscriptionPlansSuccessType ActionType = "[Subscription] Load Subscription Plans Success"
	LoadSubscriptionPlansFailureType ActionType = "[Subscription] Load Subscription Plans Failure"
)

// SubscriptionAction закрытое множество действий среза подписок.
type SubscriptionAction interface {
	Action
	subscriptionAction()
}

type subscriptionMarker struct{}

func (subscriptionMarker) subscriptionAction() {}

// LoadSubscriptions запрашивает список подписок.
type LoadSubscriptions struct {
	subscriptionMarker
	requestMarker
}

type LoadSubscriptionsSuccess struct {
	subscriptionMarker
	Payload []models.Subscription
}

type LoadSubscriptionsFailure struct {
	subscriptionMarker
	Payload string
}

func (LoadSubscriptions) Type() ActionType        { return LoadSubscriptionsType }
func (LoadSubscriptionsSuccess) Type() ActionType { return LoadSubscriptionsSuccessType }
func (LoadSubscriptionsFailure) Type() ActionType { return LoadSubscriptionsFailureType }

// Subscribe оформляет подписку пользователя на план.
type Subscribe struct {
	subscriptionMarker
	requestMarker
	PlanID string
	UserID string
}

type SubscribeSuccess struct {
	subscriptionMarker
	Payload models.Subscription
}

type SubscribeFailure struct {
	subscriptionMarker
	Payload string
}

func (Subscribe) Type() ActionType        { return SubscribeType }
func (SubscribeSuccess) Type() ActionType { return SubscribeSuccessType }
func (SubscribeFailure) Type() ActionType { return SubscribeFailureType }

// CancelSubscription отменяет подписку по ID.
type CancelSubscription struct {
	subscriptionMarker
	requestMarker
	ID string
}

type CancelSubscriptionSuccess struct {
	subscriptionMarker
	Payload models.Subscription
}

type CancelSubscriptionFailure struct {
	subscriptionMarker
	Payload string
}

func (CancelSubscription) Type() ActionType        { return CancelSubscriptionType }
func (CancelSubscriptionSuccess) Type() ActionType { return CancelSubscriptionSuccessType }
func (CancelSubscriptionFailure) Type() ActionType { return CancelSubscriptionFailureType }

// LoadSubscriptionStatus запрашивает активную подписку пользователя.
type LoadSubscriptionStatus struct {
	subscriptionMarker
	requestMarker
	UserID string
}

type LoadSubscriptionStatusSuccess struct {
	subscriptionMarker
	Payload models.Subscription
}

type LoadSubscriptionStatusFailure struct {
	subscriptionMarker
	Payload string
}

func (LoadSubscriptionStatus) Type() ActionType        { return LoadSubscriptionStatusType }
func (LoadSubscriptionStatusSuccess) Type() ActionType { return LoadSubscriptionStatusSuccessType }
func (LoadSubscriptionStatusFailure) Type() ActionType { return LoadSubscriptionStatusFailureType }

// LoadSubscriptionPlans запрашивает тарифные планы.
type LoadSubscriptionPlans struct {
	subscriptionMarker
	requestMarker
}

type LoadSubscriptionPlansSuccess struct {
	subscriptionMarker
	Payload []models.Plan
}

type LoadSubscriptionPlansFailure struct {
	subscriptionMarker
	Payload string
}

func (LoadSubscriptionPlans) Type() ActionType        { return LoadSubscriptionPlansType }
func (LoadSubscriptionPlansSuccess) Type() ActionType { return LoadSubscriptionPlansSuccessType }
func (LoadSubscriptionPlansFailure) Type() ActionType { return LoadSubscriptionPlansFailureType }
