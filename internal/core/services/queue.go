package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driving"
	"github.com/custodia-labs/pipe3d/internal/logger"
)

// Ensure ConversionQueue implements the interface.
var _ driving.ConversionQueue = (*ConversionQueue)(nil)

// MessageInterrupted is recorded on items a previous process left converting.
const MessageInterrupted = "interrupted"

// ConversionQueue tracks submitted items and drains them one at a time.
//
// Every status change replaces the whole item record under mu and is
// persisted before subscribers hear about it. Subscribers are called in
// update order and must not submit or remove items themselves.
type ConversionQueue struct {
	mu         sync.Mutex
	items      map[string]domain.ConversionItem
	order      []string
	processing bool

	notifyMu sync.Mutex
	subs     map[int]func(domain.ConversionItem)
	nextSub  int

	client   driving.ConversionClient
	settings driving.BackendSettingsService
	previews driven.PreviewStore
	store    driven.ItemStore
	metrics  driven.ConversionMetrics
	now      func() time.Time
	newID    func() string
}

// QueueOption configures a ConversionQueue.
type QueueOption func(*ConversionQueue)

// WithMetrics records conversions and queue depth.
func WithMetrics(m driven.ConversionMetrics) QueueOption {
	return func(q *ConversionQueue) { q.metrics = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) QueueOption {
	return func(q *ConversionQueue) { q.now = now }
}

// WithIDGenerator overrides the UUID item IDs.
func WithIDGenerator(newID func() string) QueueOption {
	return func(q *ConversionQueue) { q.newID = newID }
}

// NewConversionQueue creates a queue and restores the items held by store.
// Items a previous process left converting are marked as errored.
func NewConversionQueue(
	ctx context.Context,
	client driving.ConversionClient,
	settings driving.BackendSettingsService,
	previews driven.PreviewStore,
	store driven.ItemStore,
	opts ...QueueOption,
) (*ConversionQueue, error) {
	q := &ConversionQueue{
		items:    make(map[string]domain.ConversionItem),
		subs:     make(map[int]func(domain.ConversionItem)),
		client:   client,
		settings: settings,
		previews: previews,
		store:    store,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(q)
	}

	stored, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore queue: %w", err)
	}
	for _, item := range stored {
		if item.Status == domain.StatusConverting {
			failed, err := item.Fail(MessageInterrupted, q.now())
			if err != nil {
				return nil, err
			}
			if err := store.Save(ctx, failed); err != nil {
				return nil, fmt.Errorf("restore queue: %w", err)
			}
			item = failed
		}
		q.items[item.ID] = item
		q.order = append(q.order, item.ID)
	}
	q.reportDepth()
	return q, nil
}

// Enqueue submits one .glb file in the pending state.
func (q *ConversionQueue) Enqueue(ctx context.Context, file domain.SourceFile) (domain.ConversionItem, error) {
	if err := ctx.Err(); err != nil {
		return domain.ConversionItem{}, err
	}
	if !domain.IsGLB(file.Name) {
		return domain.ConversionItem{}, fmt.Errorf("%w: %s is not a .glb file", domain.ErrUnsupportedFormat, file.Name)
	}

	handle, err := q.previews.Create(ctx, file.Name, domain.FormatGLB, file.Data)
	if err != nil {
		return domain.ConversionItem{}, fmt.Errorf("create source preview: %w", err)
	}

	item := domain.NewConversionItem(
		q.newID(),
		domain.SourceRef{Name: file.Name, Size: int64(len(file.Data))},
		handle,
		q.now(),
	)

	q.mu.Lock()
	if err := q.store.Save(ctx, item); err != nil {
		q.mu.Unlock()
		_ = q.previews.Release(handle)
		return domain.ConversionItem{}, fmt.Errorf("save item: %w", err)
	}
	q.items[item.ID] = item
	q.order = append(q.order, item.ID)
	q.publishLocked(item)

	logger.Info("Queued %s (%s)", file.Name, item.ID)
	return item, nil
}

// EnqueueAll submits files in order. Non-.glb names are skipped and
// returned; any other failure stops the batch.
func (q *ConversionQueue) EnqueueAll(ctx context.Context, files []domain.SourceFile) ([]domain.ConversionItem, []string, error) {
	var (
		added   []domain.ConversionItem
		skipped []string
	)
	for _, f := range files {
		if !domain.IsGLB(f.Name) {
			skipped = append(skipped, f.Name)
			continue
		}
		item, err := q.Enqueue(ctx, f)
		if err != nil {
			return added, skipped, err
		}
		added = append(added, item)
	}
	return added, skipped, nil
}

// ProcessAll converts pending items in insertion order until none remain,
// including items submitted while the drain runs. Conversion failures are
// recorded on the item. A cancelled ctx stops the drain after marking the
// in-flight item as errored.
func (q *ConversionQueue) ProcessAll(ctx context.Context) error {
	q.mu.Lock()
	if q.processing {
		q.mu.Unlock()
		return domain.ErrQueueBusy
	}
	q.processing = true
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.processing = false
		q.mu.Unlock()
	}()

	logger.Section("Processing queue")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		id, ok := q.nextPending()
		if !ok {
			return nil
		}
		q.convert(ctx, id)
	}
}

// IsProcessing reports whether a drain is running.
func (q *ConversionQueue) IsProcessing() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.processing
}

// Items returns a snapshot of all items in insertion order.
func (q *ConversionQueue) Items() []domain.ConversionItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]domain.ConversionItem, 0, len(q.order))
	for _, id := range q.order {
		out = append(out, q.items[id])
	}
	return out
}

// Get returns a single item.
func (q *ConversionQueue) Get(id string) (domain.ConversionItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	item, ok := q.items[id]
	if !ok {
		return domain.ConversionItem{}, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	return item, nil
}

// Remove disposes of an item and releases its preview handles. Because the
// item leaves the queue first, its handles are released exactly once.
func (q *ConversionQueue) Remove(ctx context.Context, id string) error {
	q.mu.Lock()
	item, ok := q.items[id]
	if !ok {
		q.mu.Unlock()
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	if item.Status == domain.StatusConverting {
		q.mu.Unlock()
		return fmt.Errorf("item %s: %w", id, domain.ErrItemBusy)
	}
	if err := q.store.Delete(ctx, id); err != nil {
		q.mu.Unlock()
		return fmt.Errorf("delete item: %w", err)
	}
	delete(q.items, id)
	for i, v := range q.order {
		if v == id {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
	q.mu.Unlock()
	q.reportDepth()

	q.release(item.SourcePreview)
	if item.ResultPreview != nil {
		q.release(*item.ResultPreview)
	}
	return nil
}

// Clear removes every done or errored item.
func (q *ConversionQueue) Clear(ctx context.Context) (int, error) {
	removed := 0
	for _, item := range q.Items() {
		if !item.Status.IsTerminal() {
			continue
		}
		if err := q.Remove(ctx, item.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Subscribe registers fn to receive every replaced item record.
func (q *ConversionQueue) Subscribe(fn func(domain.ConversionItem)) func() {
	q.notifyMu.Lock()
	defer q.notifyMu.Unlock()
	id := q.nextSub
	q.nextSub++
	q.subs[id] = fn
	return func() {
		q.notifyMu.Lock()
		defer q.notifyMu.Unlock()
		delete(q.subs, id)
	}
}

func (q *ConversionQueue) nextPending() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, id := range q.order {
		if q.items[id].Status == domain.StatusPending {
			return id, true
		}
	}
	return "", false
}

// convert runs one item through pending -> converting -> done|error.
func (q *ConversionQueue) convert(ctx context.Context, id string) {
	cfg := q.settings.Get()

	item, err := q.replace(ctx, id, func(it domain.ConversionItem) (domain.ConversionItem, error) {
		return it.Start(q.now())
	})
	if err != nil {
		logger.Warn("Skipping %s: %v", id, err)
		return
	}
	logger.Info("Converting %s", item.Source.Name)
	start := time.Now()

	result, err := q.run(ctx, item, cfg)
	if err != nil {
		logger.L().Warn("conversion failed", zap.String("item", id), zap.String("file", item.Source.Name), zap.Error(err))
		_, _ = q.replace(ctx, id, func(it domain.ConversionItem) (domain.ConversionItem, error) {
			return it.Fail(err.Error(), q.now())
		})
		q.observe(domain.StatusError, time.Since(start))
		return
	}

	if _, err := q.replace(ctx, id, func(it domain.ConversionItem) (domain.ConversionItem, error) {
		return it.Complete(result, q.now())
	}); err != nil {
		q.release(result)
		return
	}
	logger.Info("Converted %s", item.Source.Name)
	q.observe(domain.StatusDone, time.Since(start))
}

// run converts the item's source bytes and stores the result preview.
func (q *ConversionQueue) run(ctx context.Context, item domain.ConversionItem, cfg domain.BackendConfig) (domain.PreviewHandle, error) {
	rc, err := q.previews.Open(item.SourcePreview)
	if err != nil {
		return domain.PreviewHandle{}, fmt.Errorf("open source: %w", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return domain.PreviewHandle{}, fmt.Errorf("read source: %w", err)
	}

	out, err := q.client.Convert(ctx, domain.SourceFile{Name: item.Source.Name, Data: data}, cfg)
	if err != nil {
		return domain.PreviewHandle{}, err
	}

	handle, err := q.previews.Create(ctx, item.ResultName(), domain.FormatFBX, out)
	if err != nil {
		return domain.PreviewHandle{}, fmt.Errorf("create result preview: %w", err)
	}
	return handle, nil
}

// replace applies a transition to the current record of id, stores the new
// record and publishes it. Store failures are logged; the in-memory queue
// stays authoritative for this process.
func (q *ConversionQueue) replace(
	ctx context.Context,
	id string,
	transition func(domain.ConversionItem) (domain.ConversionItem, error),
) (domain.ConversionItem, error) {
	q.mu.Lock()
	current, ok := q.items[id]
	if !ok {
		q.mu.Unlock()
		return domain.ConversionItem{}, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	next, err := transition(current)
	if err != nil {
		q.mu.Unlock()
		return domain.ConversionItem{}, err
	}
	// Persist the terminal record even when ctx was cancelled mid-flight.
	if err := q.store.Save(context.WithoutCancel(ctx), next); err != nil {
		logger.Warn("Failed to persist item %s: %v", id, err)
	}
	q.items[id] = next
	q.publishLocked(next)
	return next, nil
}

// publishLocked hands item to subscribers in update order. It must be
// called with mu held and releases it.
func (q *ConversionQueue) publishLocked(item domain.ConversionItem) {
	pending := 0
	for _, it := range q.items {
		if it.Status == domain.StatusPending {
			pending++
		}
	}
	q.notifyMu.Lock()
	q.mu.Unlock()
	defer q.notifyMu.Unlock()

	if q.metrics != nil {
		q.metrics.QueueDepth(pending)
	}
	for _, fn := range q.subs {
		fn(item)
	}
}

func (q *ConversionQueue) reportDepth() {
	if q.metrics == nil {
		return
	}
	q.mu.Lock()
	pending := 0
	for _, it := range q.items {
		if it.Status == domain.StatusPending {
			pending++
		}
	}
	q.mu.Unlock()
	q.metrics.QueueDepth(pending)
}

func (q *ConversionQueue) observe(status domain.ItemStatus, elapsed time.Duration) {
	if q.metrics != nil {
		q.metrics.ConversionFinished(status, elapsed)
	}
}

func (q *ConversionQueue) release(h domain.PreviewHandle) {
	if h.IsZero() {
		return
	}
	if err := q.previews.Release(h); err != nil {
		logger.Warn("Failed to release preview %s: %v", h.ID, err)
	}
}
