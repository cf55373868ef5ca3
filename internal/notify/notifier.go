package notify

// Record types carried by change events.
const (
	RecordTypeEmployee = "employee"
	RecordTypeAccount  = "account"
)

// Notifier emits "record changed" events consumed by the search-index
// subsystem after a successful create or update. Implementations must never
// propagate publish failures; a broken index feed must not fail a sync run.
type Notifier interface {
	RecordChanged(recordType, recordID string)
	Close() error
}

type Settings struct {
	URI   string `json:"uri,omitempty"`
	Queue string `json:"queue,omitempty"`
}

type noopNotifier struct{}

func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func (noopNotifier) RecordChanged(recordType, recordID string) {}

func (noopNotifier) Close() error { return nil }
