package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	draftRepo "coachbook/database/repository/draft"
	ledgerRepo "coachbook/database/repository/ledger"
	"coachbook/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fakeLedger is an in-memory ReservationLedger with the same all-or-nothing
// hold semantics as the mongo implementation, guarded by a mutex so the
// concurrency tests exercise real contention.
type fakeLedger struct {
	mu    sync.Mutex
	holds map[string][]models.SlotHold // holdSetID -> holds
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{holds: map[string][]models.SlotHold{}}
}

func (l *fakeLedger) activeCountLocked(slotID string) int {
	n := 0
	for _, set := range l.holds {
		for _, h := range set {
			if h.SlotID == slotID && h.State != models.HoldStateReleased {
				n++
			}
		}
	}
	return n
}

func (l *fakeLedger) Hold(ctx context.Context, draftID string, slots []models.TimeSlot, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var conflicts []string
	for _, s := range slots {
		if l.activeCountLocked(s.SlotID()) >= s.Capacity {
			conflicts = append(conflicts, s.SlotID())
		}
	}
	if len(conflicts) > 0 {
		return "", &ledgerRepo.CapacityError{Slots: conflicts}
	}

	setID := uuid.New().String()
	now := time.Now()
	var set []models.SlotHold
	for _, s := range slots {
		set = append(set, models.SlotHold{
			ID:        uuid.New().String(),
			SlotID:    s.SlotID(),
			Date:      s.Date,
			Start:     s.Start,
			HoldSetID: setID,
			DraftID:   draftID,
			State:     models.HoldStateHeld,
			HeldAt:    now,
			ExpiresAt: now.Add(ttl),
		})
	}
	l.holds[setID] = set
	return setID, nil
}

func (l *fakeLedger) Confirm(ctx context.Context, holdSetID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	upgraded := 0
	for i := range l.holds[holdSetID] {
		if l.holds[holdSetID][i].State == models.HoldStateHeld {
			l.holds[holdSetID][i].State = models.HoldStateConfirmed
			upgraded++
		}
	}
	return upgraded, nil
}

func (l *fakeLedger) Release(ctx context.Context, holdSetID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.holds[holdSetID] {
		l.holds[holdSetID][i].State = models.HoldStateReleased
	}
	return nil
}

func (l *fakeLedger) CountActive(ctx context.Context, slotIDs []string) (map[string]int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := map[string]int{}
	for _, id := range slotIDs {
		out[id] = l.activeCountLocked(id)
	}
	return out, nil
}

func (l *fakeLedger) HoldsBySet(ctx context.Context, holdSetID string) ([]models.SlotHold, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.SlotHold(nil), l.holds[holdSetID]...), nil
}

func (l *fakeLedger) ExpiredHoldSets(ctx context.Context, now time.Time) ([]ledgerRepo.ExpiredHoldSet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []ledgerRepo.ExpiredHoldSet
	for setID, set := range l.holds {
		for _, h := range set {
			if h.State == models.HoldStateHeld && h.ExpiresAt.Before(now) {
				out = append(out, ledgerRepo.ExpiredHoldSet{HoldSetID: setID, DraftID: h.DraftID})
				break
			}
		}
	}
	return out, nil
}

// expireSet backdates a set's expiry so sweep tests see it as overdue.
func (l *fakeLedger) expireSet(holdSetID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	past := time.Now().Add(-time.Hour)
	for i := range l.holds[holdSetID] {
		l.holds[holdSetID][i].ExpiresAt = past
	}
}

func (l *fakeLedger) states(holdSetID string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, h := range l.holds[holdSetID] {
		out = append(out, h.State)
	}
	return out
}

// fakeDraftRepo is an in-memory DraftRepository with the same conditional
// transition semantics as the mongo implementation. beforeTransition, when
// set, runs before TransitionState checks the current state, letting tests
// interleave a rival state change at the narrowest point of the race.
type fakeDraftRepo struct {
	mu               sync.Mutex
	drafts           map[string]*models.BookingDraft
	failUpdate       bool
	beforeTransition func(draftID string)
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{drafts: map[string]*models.BookingDraft{}}
}

func (r *fakeDraftRepo) Create(ctx context.Context, draft *models.BookingDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *draft
	r.drafts[draft.ID] = &cp
	return nil
}

func (r *fakeDraftRepo) GetByID(ctx context.Context, draftID string) (*models.BookingDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[draftID]
	if !ok || d.DeletedAt != nil {
		return nil, draftRepo.ErrDraftNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDraftRepo) Update(ctx context.Context, draft *models.BookingDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdate {
		return fmt.Errorf("datastore unavailable")
	}
	stored, ok := r.drafts[draft.ID]
	if !ok {
		return draftRepo.ErrDraftNotFound
	}
	state := stored.State
	cp := *draft
	cp.State = state
	cp.UpdatedAt = time.Now()
	r.drafts[draft.ID] = &cp
	return nil
}

func (r *fakeDraftRepo) TransitionState(ctx context.Context, draftID string, fromStates []string, toState string) (bool, error) {
	if hook := r.beforeTransition; hook != nil {
		r.beforeTransition = nil
		hook(draftID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[draftID]
	if !ok {
		return false, draftRepo.ErrDraftNotFound
	}
	for _, from := range fromStates {
		if d.State == from {
			d.State = toState
			d.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDraftRepo) SoftDelete(ctx context.Context, draftID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.drafts[draftID]; ok {
		now := time.Now()
		d.DeletedAt = &now
	}
	return nil
}

func (r *fakeDraftRepo) FindStale(ctx context.Context, cutoff time.Time) ([]models.BookingDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.BookingDraft
	for _, d := range r.drafts {
		if d.DeletedAt != nil || d.Terminal() {
			continue
		}
		if d.UpdatedAt.Before(cutoff) {
			out = append(out, *d)
		}
	}
	return out, nil
}

// forceState overwrites the stored state, standing in for a rival request
// whose transition committed first.
func (r *fakeDraftRepo) forceState(draftID, state string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.drafts[draftID]; ok {
		d.State = state
	}
}

// stateOf reads the stored state directly, bypassing soft-delete filtering.
func (r *fakeDraftRepo) stateOf(draftID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.drafts[draftID]; ok {
		return d.State
	}
	return ""
}

// fakeOrchestrator records intents in memory and lets tests force gateway
// failures.
type fakeOrchestrator struct {
	mu         sync.Mutex
	intents    map[string]*models.PaymentIntent // by draft id
	failCreate bool
	canceled   []string
}

func newFakeOrchestrator() *fakeOrchestrator {
	return &fakeOrchestrator{intents: map[string]*models.PaymentIntent{}}
}

func (o *fakeOrchestrator) CreateIntent(ctx context.Context, draft *models.BookingDraft) (*models.PaymentIntent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.failCreate {
		return nil, fmt.Errorf("gateway unavailable")
	}
	if existing, ok := o.intents[draft.ID]; ok && !existing.Terminal() {
		return existing, nil
	}
	intent := &models.PaymentIntent{
		ID:               uuid.New().String(),
		ProviderIntentID: "pi_" + draft.ID,
		DraftID:          draft.ID,
		Amount:           draft.ComputedTotal,
		Currency:         draft.Currency,
		State:            models.IntentStateCreated,
		ClientSecret:     "secret_" + draft.ID,
	}
	o.intents[draft.ID] = intent
	return intent, nil
}

func (o *fakeOrchestrator) GetByDraftID(ctx context.Context, draftID string) (*models.PaymentIntent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	intent, ok := o.intents[draftID]
	if !ok {
		return nil, fmt.Errorf("intent for draft %s not found", draftID)
	}
	return intent, nil
}

func (o *fakeOrchestrator) GetByProviderIntentID(ctx context.Context, providerIntentID string) (*models.PaymentIntent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, intent := range o.intents {
		if intent.ProviderIntentID == providerIntentID {
			return intent, nil
		}
	}
	return nil, fmt.Errorf("intent %s not found", providerIntentID)
}

func (o *fakeOrchestrator) transition(intentID, toState string) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, intent := range o.intents {
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

func (o *fakeOrchestrator) MarkSucceeded(ctx context.Context, intentID string) (bool, error) {
	return o.transition(intentID, models.IntentStateSucceeded)
}

func (o *fakeOrchestrator) MarkFailed(ctx context.Context, intentID string) (bool, error) {
	return o.transition(intentID, models.IntentStateFailed)
}

func (o *fakeOrchestrator) MarkCanceled(ctx context.Context, intentID string) (bool, error) {
	return o.transition(intentID, models.IntentStateCanceled)
}

func (o *fakeOrchestrator) CancelIntent(ctx context.Context, intent *models.PaymentIntent) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.canceled = append(o.canceled, intent.ID)
	return nil
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

// newTestService wires a DefaultBookingService over the in-memory fakes.
func newTestService() (*DefaultBookingService, *fakeDraftRepo, *fakeLedger, *fakeOrchestrator, *fakeAlerts, *fakeNotifier) {
	drafts := newFakeDraftRepo()
	ledger := newFakeLedger()
	orch := newFakeOrchestrator()
	alerts := &fakeAlerts{}
	notifier := &fakeNotifier{}

	svc := &DefaultBookingService{
		DraftRepo:    drafts,
		Ledger:       ledger,
		Catalog:      &SlotCatalog{Ledger: ledger},
		Orchestrator: orch,
		Alerts:       alerts,
		Notifier:     notifier,
		HoldTTL:      30 * time.Minute,
		Logger:       zap.NewNop(),
	}
	return svc, drafts, ledger, orch, alerts, notifier
}
