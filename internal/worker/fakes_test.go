package worker

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"flightwatch/internal/logging"
	"flightwatch/internal/models"
	"flightwatch/internal/provider"
)

func quietLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// --- fakes ---

type fakePrices struct {
	offers []models.Offer
	err    error
	panics bool
	calls  int
}

func (f *fakePrices) Search(ctx context.Context, q provider.Query) ([]models.Offer, error) {
	f.calls++
	if f.panics {
		panic("provider exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.offers, nil
}

type fakeNotifier struct {
	err  error
	sent []string
	to   []int64
}

func (f *fakeNotifier) Send(ctx context.Context, chatID int64, text string) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, chatID)
	f.sent = append(f.sent, text)
	return nil
}

type fakeSnapshotsRepo struct {
	mu        sync.Mutex
	insertErr error
	inserted  []*models.Snapshot
}

func (f *fakeSnapshotsRepo) Insert(ctx context.Context, s *models.Snapshot) (*models.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	s.ID = int64(len(f.inserted) + 1)
	f.inserted = append(f.inserted, s)
	return s, nil
}

func (f *fakeSnapshotsRepo) ListByAlert(ctx context.Context, alertID int64) ([]*models.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inserted, nil
}

type fakeNotificationsRepo struct {
	countOut  int64
	countErr  error
	insertErr error
	inserted  []*models.NotificationRecord
}

func (f *fakeNotificationsRepo) Insert(ctx context.Context, r *models.NotificationRecord) (*models.NotificationRecord, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	r.ID = int64(len(f.inserted) + 1)
	f.inserted = append(f.inserted, r)
	return r, nil
}

func (f *fakeNotificationsRepo) CountSince(ctx context.Context, alertID int64, since time.Time) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.countOut, nil
}

type fakeAlertsRepo struct {
	active  []*models.Alert
	listErr error
	panics  bool
	calls   int
}

func (f *fakeAlertsRepo) ListActive(ctx context.Context, today time.Time) ([]*models.Alert, error) {
	f.calls++
	if f.panics {
		panic("repo exploded")
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.active, nil
}

func (f *fakeAlertsRepo) Create(ctx context.Context, a *models.Alert) (*models.Alert, error) {
	return a, nil
}
func (f *fakeAlertsRepo) GetByID(ctx context.Context, id int64) (*models.Alert, error) {
	return nil, nil
}
func (f *fakeAlertsRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Alert, error) {
	return nil, nil
}
func (f *fakeAlertsRepo) Update(ctx context.Context, a *models.Alert) error { return nil }
func (f *fakeAlertsRepo) Delete(ctx context.Context, id int64) error        { return nil }

// --- fixtures ---

func madBcnAlert(targetCents int64) *models.Alert {
	a := &models.Alert{
		ID:          7,
		UserID:      1,
		Origin:      "MAD",
		Destination: "BCN",
		DateFrom:    time.Now().AddDate(0, 1, 0),
		Active:      true,
		ChatID:      555000111,
	}
	if targetCents > 0 {
		a.PriceTargetCents = &targetCents
	}
	return a
}

func offerAt(euros float64) models.Offer {
	return models.Offer{
		PriceEuros:  euros,
		Origin:      "MAD",
		Destination: "BCN",
		Airlines:    []string{"Vueling"},
		Duration:    "PT1H20M",
		BookingLink: "https://kiwi.com",
	}
}

func newTestEvaluator(prices *fakePrices, notifier *fakeNotifier, snaps *fakeSnapshotsRepo, notifs *fakeNotificationsRepo) *Evaluator {
	log := quietLogger()
	return NewEvaluator(
		prices,
		notifier,
		NewSnapshotRecorder(snaps, log),
		NewGate(notifs, 24*time.Hour, log),
		notifs,
		log,
		5,
		time.Second,
	)
}
