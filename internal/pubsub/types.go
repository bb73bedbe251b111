package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	// EventStatsRecalculated fires when a calculation job reaches a
	// terminal state; downstream notifiers consume it.
	EventStatsRecalculated EventType = "stats-recalculated"
)
