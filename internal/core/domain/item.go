package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ItemStatus is the conversion state of a submitted asset.
type ItemStatus string

// Item statuses. Transitions only move forward:
// pending -> converting -> {done | error}.
const (
	// StatusPending means the item is queued but not started.
	StatusPending ItemStatus = "pending"

	// StatusConverting means the conversion request is in flight.
	StatusConverting ItemStatus = "converting"

	// StatusDone means the converted asset is available.
	StatusDone ItemStatus = "done"

	// StatusError means the conversion failed.
	StatusError ItemStatus = "error"
)

// IsValid returns true if the status is recognised.
func (s ItemStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConverting, StatusDone, StatusError:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for done and error.
func (s ItemStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusError
}

// CanTransitionTo reports whether the state machine allows s -> next.
func (s ItemStatus) CanTransitionTo(next ItemStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConverting
	case StatusConverting:
		return next == StatusDone || next == StatusError
	default:
		return false
	}
}

// String returns the string representation.
func (s ItemStatus) String() string {
	return string(s)
}

// SourceFile is a file submitted for conversion.
type SourceFile struct {
	// Name is the original file name, e.g. "chair.glb".
	Name string

	// Data is the raw file content.
	Data []byte
}

// SourceRef describes the immutable original content of an item.
// The bytes themselves live behind the item's source preview handle.
type SourceRef struct {
	Name string
	Size int64
}

// IsGLB reports whether name carries a .glb extension (case-insensitive).
func IsGLB(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".glb")
}

// ResultName derives the converted file name from a source name.
func ResultName(source string) string {
	ext := filepath.Ext(source)
	if strings.EqualFold(ext, ".glb") {
		return strings.TrimSuffix(source, ext) + ".fbx"
	}
	return source + ".fbx"
}

// ConversionItem is a single submitted asset tracked by the queue.
// Items are values: every status change produces a new record that
// replaces the old one by ID.
type ConversionItem struct {
	// ID is assigned at submission and never changes.
	ID string

	// Source references the original content.
	Source SourceRef

	// Status is the current conversion state.
	Status ItemStatus

	// SourcePreview is created at submission and released on disposal.
	SourcePreview PreviewHandle

	// ResultPreview is present if and only if Status is done.
	ResultPreview *PreviewHandle

	// Error is set only when Status is error.
	Error string

	CreatedAt  time.Time
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewConversionItem creates an item in the pending state.
func NewConversionItem(id string, source SourceRef, preview PreviewHandle, now time.Time) ConversionItem {
	return ConversionItem{
		ID:            id,
		Source:        source,
		Status:        StatusPending,
		SourcePreview: preview,
		CreatedAt:     now,
	}
}

// ResultName returns the file name the converted asset should be saved as.
func (i ConversionItem) ResultName() string {
	return ResultName(i.Source.Name)
}

// Start moves a pending item to converting.
func (i ConversionItem) Start(now time.Time) (ConversionItem, error) {
	if !i.Status.CanTransitionTo(StatusConverting) {
		return i, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, i.Status, StatusConverting)
	}
	i.Status = StatusConverting
	i.StartedAt = now
	return i, nil
}

// Complete moves a converting item to done with its result handle.
func (i ConversionItem) Complete(result PreviewHandle, now time.Time) (ConversionItem, error) {
	if !i.Status.CanTransitionTo(StatusDone) {
		return i, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, i.Status, StatusDone)
	}
	i.Status = StatusDone
	i.ResultPreview = &result
	i.Error = ""
	i.FinishedAt = now
	return i, nil
}

// Fail moves a converting item to error with a message.
func (i ConversionItem) Fail(message string, now time.Time) (ConversionItem, error) {
	if !i.Status.CanTransitionTo(StatusError) {
		return i, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, i.Status, StatusError)
	}
	if message == "" {
		message = "Failed to convert"
	}
	i.Status = StatusError
	i.ResultPreview = nil
	i.Error = message
	i.FinishedAt = now
	return i, nil
}

// Validate checks the record invariants.
func (i ConversionItem) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("%w: item id is required", ErrInvalidInput)
	}
	if !i.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, i.Status)
	}
	if (i.ResultPreview != nil) != (i.Status == StatusDone) {
		return fmt.Errorf("%w: result preview must exist only when done", ErrInvalidInput)
	}
	if i.Error != "" && i.Status != StatusError {
		return fmt.Errorf("%w: error detail set on %s item", ErrInvalidInput, i.Status)
	}
	return nil
}
