package registry

import (
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fatflowers/paytrack/pkg/metrics"
	"github.com/fatflowers/paytrack/pkg/types"
)

type entry struct {
	record PaymentRecord
	// done is created by the first waiter and closed on resolution. It is
	// dropped again when the last waiter leaves a still pending payment.
	done    chan struct{}
	waiters int
	// abandoned counts waiters that timed out before resolution.
	abandoned int
}

// Registry maps correlation ids to payment records. All writes go through
// Register and Resolve; records handed out are copies.
type Registry struct {
	mu        sync.RWMutex
	entries   map[string]*entry
	listeners []Listener

	log     *zap.SugaredLogger
	metrics *metrics.Business
	now     func() time.Time
}

func New(log *zap.SugaredLogger, m *metrics.Business) *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		log:     log,
		metrics: m,
		now:     time.Now,
	}
}

// Subscribe adds a listener for resolution events. Call before traffic starts.
func (r *Registry) Subscribe(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// Register inserts a PENDING record. The id is stored verbatim.
func (r *Registry) Register(correlationID string, md Metadata) (PaymentRecord, error) {
	if correlationID == "" {
		return PaymentRecord{}, ErrInvalidCorrelationID
	}

	r.mu.Lock()
	if _, ok := r.entries[correlationID]; ok {
		r.mu.Unlock()
		return PaymentRecord{}, fmt.Errorf("%w: %s", ErrDuplicateCorrelationID, correlationID)
	}
	e := &entry{record: PaymentRecord{
		CorrelationID: correlationID,
		Metadata:      md,
		Status:        types.PaymentStatusPending,
		RegisteredAt:  r.now(),
	}}
	r.entries[correlationID] = e
	rec := e.record.clone()
	r.mu.Unlock()

	r.metrics.ObserveRegistered()
	r.log.Infow("payment_registered",
		"checkout_request_id", correlationID,
		"phone_number", md.PhoneNumber,
		"amount", md.Amount.String(),
	)
	return rec, nil
}

// Resolve moves a PENDING record to the outcome's terminal status and
// releases every waiter on it. A second resolution returns ErrAlreadyResolved
// together with the stored record.
func (r *Registry) Resolve(correlationID string, o Outcome) (PaymentRecord, error) {
	if !o.Status.IsTerminal() {
		return PaymentRecord{}, fmt.Errorf("%w: got %q", ErrInvalidOutcome, o.Status)
	}

	r.mu.Lock()
	e, ok := r.entries[correlationID]
	if !ok {
		r.mu.Unlock()
		return PaymentRecord{}, fmt.Errorf("%w: %s", ErrUnknownCorrelationID, correlationID)
	}
	if e.record.Status.IsTerminal() {
		rec := e.record.clone()
		r.mu.Unlock()
		return rec, fmt.Errorf("%w: %s is %s", ErrAlreadyResolved, correlationID, rec.Status)
	}

	resolvedAt := r.now()
	code := o.ResultCode
	e.record.Status = o.Status
	e.record.ResultCode = &code
	e.record.ResultDesc = o.ResultDesc
	e.record.Cause = o.Cause
	e.record.ResultDetails = maps.Clone(o.Details)
	e.record.ResolvedAt = &resolvedAt
	if e.done != nil {
		close(e.done)
		e.done = nil
	}
	rec := e.record.clone()
	late := e.abandoned > 0
	listeners := r.listeners
	r.mu.Unlock()

	r.metrics.ObserveResolved(string(rec.Status), string(rec.Cause))
	for _, l := range listeners {
		l.PaymentResolved(ResolvedEvent{Record: rec, Late: late})
	}
	return rec, nil
}

// Get returns a copy of the record or ErrNotFound.
func (r *Registry) Get(correlationID string) (PaymentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[correlationID]
	if !ok {
		return PaymentRecord{}, fmt.Errorf("%w: %s", ErrNotFound, correlationID)
	}
	return e.record.clone(), nil
}

// Prune removes terminal records resolved before olderThan that have no
// waiters left. PENDING records are never removed.
func (r *Registry) Prune(olderThan time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, e := range r.entries {
		if !e.record.Status.IsTerminal() || e.waiters > 0 {
			continue
		}
		if e.record.ResolvedAt != nil && e.record.ResolvedAt.Before(olderThan) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// Stuck lists PENDING records registered before olderThan, oldest first.
func (r *Registry) Stuck(olderThan time.Time) []PaymentRecord {
	r.mu.RLock()
	var out []PaymentRecord
	for _, e := range r.entries {
		if e.record.Status == types.PaymentStatusPending && e.record.RegisteredAt.Before(olderThan) {
			out = append(out, e.record.clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredAt.Before(out[j].RegisteredAt) })
	return out
}

// Counts returns the number of records per status.
func (r *Registry) Counts() map[types.PaymentStatus]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[types.PaymentStatus]int, 3)
	for _, e := range r.entries {
		out[e.record.Status]++
	}
	return out
}
