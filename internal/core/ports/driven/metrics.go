package driven

import (
	"time"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

// ConversionMetrics records queue activity for monitoring.
type ConversionMetrics interface {
	// ConversionFinished records one conversion ending in status
	// (done or error) after elapsed.
	ConversionFinished(status domain.ItemStatus, elapsed time.Duration)

	// QueueDepth records the number of pending items.
	QueueDepth(pending int)
}
