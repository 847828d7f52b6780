package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/socialhub/socialhub/models"
)

// SubscriptionGraph manages directed follow edges between accounts.
type SubscriptionGraph struct {
	db *gorm.DB
}

// NewSubscriptionGraph creates a new SubscriptionGraph instance.
func NewSubscriptionGraph(db *gorm.DB) *SubscriptionGraph {
	return &SubscriptionGraph{db: db}
}

// Subscribe makes the actor follow targetID.
func (g *SubscriptionGraph) Subscribe(ctx context.Context, actor Actor, targetID uint) (*models.Subscription, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	if actor.UserID == targetID {
		return nil, ErrSelfSubscription
	}

	var target models.User
	if err := g.db.WithContext(ctx).Select("id").First(&target, targetID).Error; err != nil {
		return nil, mapNotFound(err, "user")
	}

	edge := models.Subscription{SubscriberID: actor.UserID, SubscribedID: targetID}
	err := g.db.WithContext(ctx).Create(&edge).Error
	recordInteraction("subscription", "add", err)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateSubscription
		}
		return nil, err
	}
	return &edge, nil
}

// Unsubscribe removes the actor's edge to targetID.
func (g *SubscriptionGraph) Unsubscribe(ctx context.Context, actor Actor, targetID uint) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	res := g.db.WithContext(ctx).
		Where("subscriber_id = ? AND subscribed_id = ?", actor.UserID, targetID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("subscription")
	}
	return nil
}

// ListSubscribers returns the edges pointing at accountID with the subscriber loaded, newest first.
func (g *SubscriptionGraph) ListSubscribers(ctx context.Context, accountID uint) ([]models.Subscription, error) {
	edges := []models.Subscription{}
	err := g.db.WithContext(ctx).Preload("Subscriber").
		Where("subscribed_id = ?", accountID).
		Scopes(newestFirst("subscriptions")).
		Find(&edges).Error
	return edges, err
}

// ListSubscriptions returns the edges leaving accountID with the subscribed account loaded, newest first.
func (g *SubscriptionGraph) ListSubscriptions(ctx context.Context, accountID uint) ([]models.Subscription, error) {
	edges := []models.Subscription{}
	err := g.db.WithContext(ctx).Preload("Subscribed").
		Where("subscriber_id = ?", accountID).
		Scopes(newestFirst("subscriptions")).
		Find(&edges).Error
	return edges, err
}

// GetSubscriber loads one edge pointing at the actor.
func (g *SubscriptionGraph) GetSubscriber(ctx context.Context, actor Actor, edgeID uint) (*models.Subscription, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	var edge models.Subscription
	err := g.db.WithContext(ctx).Preload("Subscriber").
		Where("subscribed_id = ?", actor.UserID).
		First(&edge, edgeID).Error
	if err != nil {
		return nil, mapNotFound(err, "subscriber")
	}
	return &edge, nil
}

// GetSubscription loads one edge leaving the actor.
func (g *SubscriptionGraph) GetSubscription(ctx context.Context, actor Actor, edgeID uint) (*models.Subscription, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	var edge models.Subscription
	err := g.db.WithContext(ctx).Preload("Subscribed").
		Where("subscriber_id = ?", actor.UserID).
		First(&edge, edgeID).Error
	if err != nil {
		return nil, mapNotFound(err, "subscription")
	}
	return &edge, nil
}

// subscribedIDs resolves the accounts followed by accountID.
func (g *SubscriptionGraph) subscribedIDs(ctx context.Context, accountID uint) ([]uint, error) {
	var ids []uint
	err := g.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ?", accountID).
		Pluck("subscribed_id", &ids).Error
	return ids, err
}
