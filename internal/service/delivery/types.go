package delivery

import "github.com/KasumiMercury/primind-motivation-delivery/internal/domain"

const (
	TagScheduled = "scheduled"
	TagManual    = "manual"

	OutcomeDelivered    = "delivered"
	OutcomeExhausted    = "exhausted"
	OutcomeStorageError = "storage_error"
)

// Result is the outcome of SelectAndDeliver. Exhausted is a normal result,
// not an error: Item and Record are nil when it is set.
type Result struct {
	Item      *domain.ContentItem
	Record    *domain.DeliveryRecord
	Exhausted bool
}
