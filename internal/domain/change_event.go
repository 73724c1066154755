package domain

import (
	"time"

	"github.com/google/uuid"
)

type ChangeTopic string

const (
	ChangeTopicCatalog ChangeTopic = "catalog"
	ChangeTopicOrders  ChangeTopic = "orders"
)

type ChangeAction string

const (
	ChangeActionSaved   ChangeAction = "saved"
	ChangeActionCreated ChangeAction = "created"
	ChangeActionUpdated ChangeAction = "updated"
	ChangeActionDeleted ChangeAction = "deleted"
)

// ChangeEvent tells listeners that the catalog or the order list changed.
// Listeners are expected to re-read; the event carries no payload.
type ChangeEvent struct {
	Topic      ChangeTopic
	Action     ChangeAction
	EntityID   uuid.UUID
	OccurredAt time.Time
}
