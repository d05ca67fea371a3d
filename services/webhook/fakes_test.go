package webhook

import (
	"context"
	"fmt"
	"sync"
	"time"

	draftRepo "coachbook/database/repository/draft"
	ledgerRepo "coachbook/database/repository/ledger"
	webhookRepo "coachbook/database/repository/webhook"
	"coachbook/models"

	"github.com/stripe/stripe-go/v76"
)

// fakeVerifier returns a canned event, or a SignatureError when the header
// does not match.
type fakeVerifier struct {
	event stripe.Event
}

func (v *fakeVerifier) Verify(payload []byte, sigHeader string) (stripe.Event, error) {
	if sigHeader != "valid" {
		return stripe.Event{}, &SignatureError{Cause: fmt.Errorf("bad signature")}
	}
	return v.event, nil
}

// fakeEventRepo is an in-memory processed-event log with the unique-id
// semantics of the mongo implementation. WithTransaction runs fn directly;
// rollback composition is the mongo driver's job, not the reconciler's.
type fakeEventRepo struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{seen: map[string]bool{}}
}

func (r *fakeEventRepo) Record(ctx context.Context, event *models.WebhookEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen[event.ProviderEventID] {
		return webhookRepo.ErrDuplicateEvent
	}
	r.seen[event.ProviderEventID] = true
	return nil
}

func (r *fakeEventRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeIntents implements the orchestrator surface the reconciler touches.
type fakeIntents struct {
	mu      sync.Mutex
	intents map[string]*models.PaymentIntent // by provider intent id
}

func newFakeIntents() *fakeIntents {
	return &fakeIntents{intents: map[string]*models.PaymentIntent{}}
}

func (f *fakeIntents) add(intent *models.PaymentIntent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.intents[intent.ProviderIntentID] = intent
}

func (f *fakeIntents) CreateIntent(ctx context.Context, draft *models.BookingDraft) (*models.PaymentIntent, error) {
	return nil, fmt.Errorf("not used in reconciliation")
}

func (f *fakeIntents) GetByDraftID(ctx context.Context, draftID string) (*models.PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, intent := range f.intents {
		if intent.DraftID == draftID {
			return intent, nil
		}
	}
	return nil, fmt.Errorf("intent for draft %s not found", draftID)
}

func (f *fakeIntents) GetByProviderIntentID(ctx context.Context, providerIntentID string) (*models.PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	intent, ok := f.intents[providerIntentID]
	if !ok {
		return nil, fmt.Errorf("intent %s not found", providerIntentID)
	}
	return intent, nil
}

func (f *fakeIntents) transition(intentID, toState string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, intent := range f.intents {
		if intent.ID == intentID {
			if intent.State != models.IntentStateCreated {
				return false, nil
			}
			intent.State = toState
			return true, nil
		}
	}
	return false, fmt.Errorf("intent %s not found", intentID)
}

func (f *fakeIntents) MarkSucceeded(ctx context.Context, intentID string) (bool, error) {
	return f.transition(intentID, models.IntentStateSucceeded)
}

func (f *fakeIntents) MarkFailed(ctx context.Context, intentID string) (bool, error) {
	return f.transition(intentID, models.IntentStateFailed)
}

func (f *fakeIntents) MarkCanceled(ctx context.Context, intentID string) (bool, error) {
	return f.transition(intentID, models.IntentStateCanceled)
}

func (f *fakeIntents) CancelIntent(ctx context.Context, intent *models.PaymentIntent) error {
	return nil
}

// fakeDrafts mirrors the conditional transition semantics of the mongo repo.
type fakeDrafts struct {
	mu     sync.Mutex
	drafts map[string]*models.BookingDraft
}

func newFakeDrafts() *fakeDrafts {
	return &fakeDrafts{drafts: map[string]*models.BookingDraft{}}
}

func (r *fakeDrafts) Create(ctx context.Context, draft *models.BookingDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *draft
	r.drafts[draft.ID] = &cp
	return nil
}

func (r *fakeDrafts) GetByID(ctx context.Context, draftID string) (*models.BookingDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[draftID]
	if !ok || d.DeletedAt != nil {
		return nil, draftRepo.ErrDraftNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDrafts) Update(ctx context.Context, draft *models.BookingDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *draft
	r.drafts[draft.ID] = &cp
	return nil
}

func (r *fakeDrafts) TransitionState(ctx context.Context, draftID string, fromStates []string, toState string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[draftID]
	if !ok {
		return false, draftRepo.ErrDraftNotFound
	}
	for _, from := range fromStates {
		if d.State == from {
			d.State = toState
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDrafts) SoftDelete(ctx context.Context, draftID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.drafts[draftID]; ok {
		now := time.Now()
		d.DeletedAt = &now
	}
	return nil
}

func (r *fakeDrafts) FindStale(ctx context.Context, cutoff time.Time) ([]models.BookingDraft, error) {
	return nil, nil
}

func (r *fakeDrafts) stateOf(draftID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.drafts[draftID]; ok {
		return d.State
	}
	return ""
}

// fakeHoldLedger tracks hold-set states only; capacity math is covered by
// the booking package tests.
type fakeHoldLedger struct {
	mu     sync.Mutex
	states map[string]string // holdSetID -> state
}

func newFakeHoldLedger() *fakeHoldLedger {
	return &fakeHoldLedger{states: map[string]string{}}
}

func (l *fakeHoldLedger) Hold(ctx context.Context, draftID string, slots []models.TimeSlot, ttl time.Duration) (string, error) {
	return "", fmt.Errorf("not used in reconciliation")
}

func (l *fakeHoldLedger) Confirm(ctx context.Context, holdSetID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.states[holdSetID] != models.HoldStateHeld {
		return 0, nil
	}
	l.states[holdSetID] = models.HoldStateConfirmed
	return 1, nil
}

func (l *fakeHoldLedger) Release(ctx context.Context, holdSetID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states[holdSetID] = models.HoldStateReleased
	return nil
}

func (l *fakeHoldLedger) CountActive(ctx context.Context, slotIDs []string) (map[string]int, error) {
	return map[string]int{}, nil
}

func (l *fakeHoldLedger) HoldsBySet(ctx context.Context, holdSetID string) ([]models.SlotHold, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return []models.SlotHold{{HoldSetID: holdSetID, SlotID: "2026-09-07T10:00", State: l.states[holdSetID]}}, nil
}

func (l *fakeHoldLedger) ExpiredHoldSets(ctx context.Context, now time.Time) ([]ledgerRepo.ExpiredHoldSet, error) {
	return nil, nil
}

func (l *fakeHoldLedger) stateOf(holdSetID string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.states[holdSetID]
}

// fakeAlerts collects operator alerts.
type fakeAlerts struct {
	mu     sync.Mutex
	alerts []models.OperatorAlert
}

func (a *fakeAlerts) Create(ctx context.Context, alert *models.OperatorAlert) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, *alert)
	return nil
}

// fakeCalendar counts dispatches.
type fakeCalendar struct {
	mu        sync.Mutex
	scheduled int
}

func (c *fakeCalendar) ScheduleEvents(ctx context.Context, draft *models.BookingDraft, holds []models.SlotHold) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scheduled++
	return nil
}

// fakeNotifier collects notification payloads.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []models.NotificationPayload
}

func (n *fakeNotifier) Notify(ctx context.Context, payload models.NotificationPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, payload)
	return nil
}
