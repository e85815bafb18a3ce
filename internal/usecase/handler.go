package usecase

import (
	"github.com/nguyentranbao-ct/community-worker/internal/trigger"
)

// Handler is a component that reacts to one class of store mutations. Each
// handler owns its trigger binding; registration happens in the app wiring.
type Handler interface {
	Trigger() trigger.Trigger
}
