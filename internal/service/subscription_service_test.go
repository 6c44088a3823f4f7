package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"subtrack/internal/domain"
)

type mockSubscriptionRepo struct {
	subs   map[int64]domain.Subscription
	nextID int64
	err    error
}

func newMockSubscriptionRepo() *mockSubscriptionRepo {
	return &mockSubscriptionRepo{subs: make(map[int64]domain.Subscription), nextID: 1}
}

func (m *mockSubscriptionRepo) Create(_ context.Context, sub domain.Subscription) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	sub.ID = m.nextID
	m.nextID++
	m.subs[sub.ID] = sub
	return sub.ID, nil
}

func (m *mockSubscriptionRepo) CreateBatch(ctx context.Context, subs []domain.Subscription) error {
	for _, sub := range subs {
		if _, err := m.Create(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockSubscriptionRepo) ListByUser(_ context.Context, userID string) ([]domain.Subscription, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Subscription, 0)
	for _, sub := range m.subs {
		if sub.UserID == userID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (m *mockSubscriptionRepo) GetByID(_ context.Context, id int64) (domain.Subscription, error) {
	if m.err != nil {
		return domain.Subscription{}, m.err
	}
	sub, ok := m.subs[id]
	if !ok {
		return domain.Subscription{}, pgx.ErrNoRows
	}
	return sub, nil
}

func (m *mockSubscriptionRepo) Update(_ context.Context, sub domain.Subscription) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.subs[sub.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.subs[sub.ID] = sub
	return nil
}

func (m *mockSubscriptionRepo) DeleteByID(_ context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.subs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.subs, id)
	return nil
}

var ownerA = Principal{ID: "user-a"}
var ownerB = Principal{ID: "user-b"}

func TestSubscriptionServiceAdd_BindsOwnershipToPrincipal(t *testing.T) {
	repo := newMockSubscriptionRepo()
	svc := NewSubscriptionService(repo)

	err := svc.Add(context.Background(), ownerA, SubscriptionInput{
		Name:           "Netflix",
		DateStarted:    "2024-01-01",
		PriceInDollars: 15.99,
		Recurs:         true,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	stored := repo.subs[1]
	if stored.UserID != "user-a" {
		t.Fatalf("expected owner user-a, got %q", stored.UserID)
	}
	if stored.DateStarted != time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected date %v", stored.DateStarted)
	}
}

func TestSubscriptionServiceAdd_Validation(t *testing.T) {
	svc := NewSubscriptionService(newMockSubscriptionRepo())
	base := SubscriptionInput{Name: "Netflix", DateStarted: "2024-01-01", PriceInDollars: 0, Recurs: true}

	if err := svc.Add(context.Background(), ownerA, base); err != nil {
		t.Fatalf("expected zero price to succeed, got %v", err)
	}

	negative := base
	negative.PriceInDollars = -1
	if err := svc.Add(context.Background(), ownerA, negative); !errors.Is(err, ErrInvalidSubscription) {
		t.Fatalf("expected ErrInvalidSubscription for negative price, got %v", err)
	}

	badDate := base
	badDate.DateStarted = "01/01/2024"
	if err := svc.Add(context.Background(), ownerA, badDate); !errors.Is(err, ErrInvalidSubscription) {
		t.Fatalf("expected ErrInvalidSubscription for bad date, got %v", err)
	}

	noName := base
	noName.Name = "  "
	if err := svc.Add(context.Background(), ownerA, noName); !errors.Is(err, ErrInvalidSubscription) {
		t.Fatalf("expected ErrInvalidSubscription for empty name, got %v", err)
	}
}

func TestSubscriptionServiceList_RoundTripAndLossyProjection(t *testing.T) {
	repo := newMockSubscriptionRepo()
	svc := NewSubscriptionService(repo)

	input := SubscriptionInput{Name: "Netflix", DateStarted: "2024-01-01", PriceInDollars: 15.99, Recurs: true}
	if err := svc.Add(context.Background(), ownerA, input); err != nil {
		t.Fatalf("add: %v", err)
	}

	views, err := svc.List(context.Background(), ownerA)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected one view, got %d", len(views))
	}
	got := views[0]
	if got.Name != "Netflix" || got.DateStarted != "2024-01-01" || got.PriceInDollars != 15.99 || !got.Recurs {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestSubscriptionServiceList_IsOwnerScoped(t *testing.T) {
	repo := newMockSubscriptionRepo()
	svc := NewSubscriptionService(repo)

	if err := svc.Add(context.Background(), ownerA, SubscriptionInput{Name: "Netflix", DateStarted: "2024-01-01"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	views, err := svc.List(context.Background(), ownerB)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("expected user-b to see no subscriptions, got %d", len(views))
	}
}

func TestSubscriptionServiceList_EmptyIsNotNil(t *testing.T) {
	svc := NewSubscriptionService(newMockSubscriptionRepo())
	views, err := svc.List(context.Background(), ownerA)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if views == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestSubscriptionServiceEdit_EnforcesOwnership(t *testing.T) {
	repo := newMockSubscriptionRepo()
	svc := NewSubscriptionService(repo)

	if err := svc.Add(context.Background(), ownerA, SubscriptionInput{Name: "Netflix", DateStarted: "2024-01-01"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	update := SubscriptionInput{Name: "Netflix 4K", DateStarted: "2024-02-01", PriceInDollars: 19.99, Recurs: true}
	if err := svc.Edit(context.Background(), ownerB, 1, update); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := svc.Edit(context.Background(), ownerA, 99, update); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Fatalf("expected ErrSubscriptionNotFound, got %v", err)
	}
	if err := svc.Edit(context.Background(), ownerA, 1, update); err != nil {
		t.Fatalf("owner edit: %v", err)
	}
	if got := repo.subs[1]; got.Name != "Netflix 4K" || got.UserID != "user-a" {
		t.Fatalf("unexpected record after edit: %+v", got)
	}
}

func TestSubscriptionServiceDelete_EnforcesOwnership(t *testing.T) {
	repo := newMockSubscriptionRepo()
	svc := NewSubscriptionService(repo)

	if err := svc.Add(context.Background(), ownerA, SubscriptionInput{Name: "Netflix", DateStarted: "2024-01-01"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := svc.Delete(context.Background(), ownerB, 1); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := svc.Delete(context.Background(), ownerA, 99); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Fatalf("expected ErrSubscriptionNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), ownerA, 1); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if len(repo.subs) != 0 {
		t.Fatalf("expected record removed, got %d", len(repo.subs))
	}
}

func TestSubscriptionService_PropagatesStoreErrors(t *testing.T) {
	storeErr := errors.New("store down")
	repo := newMockSubscriptionRepo()
	repo.err = storeErr
	svc := NewSubscriptionService(repo)

	input := SubscriptionInput{Name: "Netflix", DateStarted: "2024-01-01"}
	if err := svc.Add(context.Background(), ownerA, input); !errors.Is(err, storeErr) {
		t.Fatalf("expected add to propagate store error, got %v", err)
	}
	if _, err := svc.List(context.Background(), ownerA); !errors.Is(err, storeErr) {
		t.Fatalf("expected list to propagate store error, got %v", err)
	}
}
