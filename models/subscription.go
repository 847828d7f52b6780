package models

import "time"

// Subscription is a directed follow edge: Subscriber follows Subscribed.
type Subscription struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubscriberID uint      `gorm:"not null;uniqueIndex:idx_subscriptions_pair" json:"subscriber_id"`
	SubscribedID uint      `gorm:"not null;index;uniqueIndex:idx_subscriptions_pair" json:"subscribed_id"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	Subscriber   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Subscribed   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
