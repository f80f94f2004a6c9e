package store

import (
	"github.com/keikchoco/alternative-learning-system/pkg/client"
)

// The gateway client provides every store's API slice.
var (
	_ StudentAPI   = (*client.Client)(nil)
	_ ProgressAPI  = (*client.Client)(nil)
	_ EventAPI     = (*client.Client)(nil)
	_ ReferenceAPI = (*client.Client)(nil)
)

// Stores bundles one store per entity slice, all backed by the same
// gateway client. Programmatic consumers construct one of these instead
// of wiring the stores individually.
type Stores struct {
	Students  *StudentStore
	Progress  *ProgressStore
	Events    *EventStore
	Reference *ReferenceStore
}

// New builds the full store set over the gateway client.
func New(c *client.Client) *Stores {
	return &Stores{
		Students:  NewStudentStore(c),
		Progress:  NewProgressStore(c),
		Events:    NewEventStore(c),
		Reference: NewReferenceStore(c),
	}
}
