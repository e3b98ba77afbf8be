package entity

import "time"

// SubscriberStatus enumerates the states a newsletter subscriber can be in.
type SubscriberStatus string

const (
	SubscriberActive       SubscriberStatus = "active"
	SubscriberUnsubscribed SubscriberStatus = "unsubscribed"
)

// NewsletterSubscriber is an email newsletter opt-in. Email is stored lowercased.
type NewsletterSubscriber struct {
	ID           string           `json:"id"`
	Email        string           `json:"email"`
	SubscribedAt time.Time        `json:"subscribedAt"`
	Status       SubscriberStatus `json:"status"`
	Source       string           `json:"source"`
}
