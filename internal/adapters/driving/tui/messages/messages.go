// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

// ItemsLoaded carries a fresh queue snapshot.
type ItemsLoaded struct {
	Items []domain.ConversionItem
}

// ItemUpdated carries one replaced item record from the queue.
type ItemUpdated struct {
	Item domain.ConversionItem
}

// ProcessStarted signals that a drain was started from the TUI.
type ProcessStarted struct{}

// ProcessFinished signals that a drain ended.
type ProcessFinished struct {
	Err error
}

// ConnectivityChecked carries a probe result.
type ConnectivityChecked struct {
	State domain.ConnectivityState
}

// ItemRemoved signals an item was removed.
type ItemRemoved struct {
	ID  string
	Err error
}

// ItemsCleared signals finished items were cleared.
type ItemsCleared struct {
	Count int
	Err   error
}

// ItemExported signals a result was written to disk.
type ItemExported struct {
	Path string
	Err  error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
