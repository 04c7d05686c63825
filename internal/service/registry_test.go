package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pulsegram/internal/model"
)

// =============================================================================
// MOCK REPOSITORY
// =============================================================================
//
// The services depend on the SubscriptionRepository INTERFACE, so tests swap
// in a mock instead of a database. Func fields let each test define custom
// behavior; the call slices let tests assert what was persisted. The mutex
// matters for dispatcher tests, where outcome writes arrive concurrently.

type mockSubscriptionRepository struct {
	mu sync.Mutex

	saveFn              func(ctx context.Context, sub *model.PushSubscription) error
	deleteByEndpointFn  func(ctx context.Context, userID, endpoint string) (int64, error)
	deleteAllForUserFn  func(ctx context.Context, userID string) (int64, error)
	listActiveByUserFn  func(ctx context.Context, userID string) ([]model.PushSubscription, error)
	listActiveByUsersFn func(ctx context.Context, userIDs []string) ([]model.PushSubscription, error)
	listAllActiveFn     func(ctx context.Context) ([]model.PushSubscription, error)
	countActiveFn       func(ctx context.Context) (int, error)
	countForUserFn      func(ctx context.Context, userID string) (int, error)

	saveCalls        []model.PushSubscription
	deactivateCalls  []int64
	touchCalls       []int64
	cleanupCutoffs   []time.Time
	deleteByEndpoint []string
	deleteAllUsers   []string
}

func (m *mockSubscriptionRepository) Save(ctx context.Context, sub *model.PushSubscription) error {
	m.mu.Lock()
	m.saveCalls = append(m.saveCalls, *sub)
	m.mu.Unlock()
	if m.saveFn != nil {
		return m.saveFn(ctx, sub)
	}
	sub.ID = int64(len(m.saveCalls))
	sub.IsActive = true
	return nil
}

func (m *mockSubscriptionRepository) DeleteByEndpoint(ctx context.Context, userID, endpoint string) (int64, error) {
	m.mu.Lock()
	m.deleteByEndpoint = append(m.deleteByEndpoint, endpoint)
	m.mu.Unlock()
	if m.deleteByEndpointFn != nil {
		return m.deleteByEndpointFn(ctx, userID, endpoint)
	}
	return 1, nil
}

func (m *mockSubscriptionRepository) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	m.deleteAllUsers = append(m.deleteAllUsers, userID)
	m.mu.Unlock()
	if m.deleteAllForUserFn != nil {
		return m.deleteAllForUserFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockSubscriptionRepository) ListActiveByUser(ctx context.Context, userID string) ([]model.PushSubscription, error) {
	if m.listActiveByUserFn != nil {
		return m.listActiveByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) ListActiveByUsers(ctx context.Context, userIDs []string) ([]model.PushSubscription, error) {
	if m.listActiveByUsersFn != nil {
		return m.listActiveByUsersFn(ctx, userIDs)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) ListAllActive(ctx context.Context) ([]model.PushSubscription, error) {
	if m.listAllActiveFn != nil {
		return m.listAllActiveFn(ctx)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) CountActive(ctx context.Context) (int, error) {
	if m.countActiveFn != nil {
		return m.countActiveFn(ctx)
	}
	return 0, nil
}

func (m *mockSubscriptionRepository) CountActiveForUser(ctx context.Context, userID string) (int, error) {
	if m.countForUserFn != nil {
		return m.countForUserFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockSubscriptionRepository) Deactivate(ctx context.Context, id int64) error {
	m.mu.Lock()
	m.deactivateCalls = append(m.deactivateCalls, id)
	m.mu.Unlock()
	return nil
}

func (m *mockSubscriptionRepository) TouchLastUsed(ctx context.Context, id int64) error {
	m.mu.Lock()
	m.touchCalls = append(m.touchCalls, id)
	m.mu.Unlock()
	return nil
}

func (m *mockSubscriptionRepository) DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	m.cleanupCutoffs = append(m.cleanupCutoffs, cutoff)
	m.mu.Unlock()
	return 0, nil
}

// =============================================================================
// SUBSCRIBE TESTS
// =============================================================================

func TestSubscriptionService_Subscribe_Success(t *testing.T) {
	mockRepo := &mockSubscriptionRepository{}
	svc := NewSubscriptionService(mockRepo)

	req := &model.SubscribeRequest{
		Endpoint:          "https://push.example/abc",
		Keys:              model.SubscriptionKeys{P256dh: "k1", Auth: "k2"},
		DeviceFingerprint: "Mozilla/5.0 test agent",
	}

	sub, err := svc.Subscribe(context.Background(), "user-1", req)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if sub == nil {
		t.Fatal("expected subscription, got nil")
	}

	if len(mockRepo.saveCalls) != 1 {
		t.Fatalf("save calls = %d, want 1", len(mockRepo.saveCalls))
	}
	saved := mockRepo.saveCalls[0]
	if saved.UserID != "user-1" {
		t.Errorf("user_id = %q, want %q", saved.UserID, "user-1")
	}
	if saved.Endpoint != req.Endpoint {
		t.Errorf("endpoint = %q, want %q", saved.Endpoint, req.Endpoint)
	}
	if saved.P256dh != "k1" || saved.Auth != "k2" {
		t.Errorf("keys = (%q, %q), want (k1, k2)", saved.P256dh, saved.Auth)
	}
	if saved.DeviceFingerprint == nil || *saved.DeviceFingerprint != req.DeviceFingerprint {
		t.Errorf("fingerprint = %v, want %q", saved.DeviceFingerprint, req.DeviceFingerprint)
	}
	if !sub.IsActive {
		t.Error("expected new subscription to be active")
	}
}

func TestSubscriptionService_Subscribe_NoFingerprint(t *testing.T) {
	mockRepo := &mockSubscriptionRepository{}
	svc := NewSubscriptionService(mockRepo)

	_, err := svc.Subscribe(context.Background(), "user-1", &model.SubscribeRequest{
		Endpoint: "https://push.example/abc",
		Keys:     model.SubscriptionKeys{P256dh: "k1", Auth: "k2"},
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if mockRepo.saveCalls[0].DeviceFingerprint != nil {
		t.Error("expected nil fingerprint when none supplied")
	}
}

func TestSubscriptionService_Subscribe_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     *model.SubscribeRequest
		wantErr error
	}{
		{
			name:    "missing endpoint",
			req:     &model.SubscribeRequest{Keys: model.SubscriptionKeys{P256dh: "k1", Auth: "k2"}},
			wantErr: model.ErrEndpointRequired,
		},
		{
			name:    "missing both keys",
			req:     &model.SubscribeRequest{Endpoint: "https://push.example/abc"},
			wantErr: model.ErrKeysRequired,
		},
		{
			name: "missing auth key",
			req: &model.SubscribeRequest{
				Endpoint: "https://push.example/abc",
				Keys:     model.SubscriptionKeys{P256dh: "k1"},
			},
			wantErr: model.ErrKeysRequired,
		},
		{
			name: "missing p256dh key",
			req: &model.SubscribeRequest{
				Endpoint: "https://push.example/abc",
				Keys:     model.SubscriptionKeys{Auth: "k2"},
			},
			wantErr: model.ErrKeysRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockSubscriptionRepository{}
			svc := NewSubscriptionService(mockRepo)

			_, err := svc.Subscribe(context.Background(), "user-1", tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if len(mockRepo.saveCalls) != 0 {
				t.Error("nothing should be persisted on validation failure")
			}
		})
	}
}

// =============================================================================
// UNSUBSCRIBE TESTS
// =============================================================================

func TestSubscriptionService_Unsubscribe_ByEndpoint(t *testing.T) {
	mockRepo := &mockSubscriptionRepository{}
	svc := NewSubscriptionService(mockRepo)

	deleted, err := svc.Unsubscribe(context.Background(), "user-1", "https://push.example/abc")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if len(mockRepo.deleteByEndpoint) != 1 || len(mockRepo.deleteAllUsers) != 0 {
		t.Error("expected endpoint-scoped delete only")
	}
}

func TestSubscriptionService_Unsubscribe_AllForUser(t *testing.T) {
	mockRepo := &mockSubscriptionRepository{
		deleteAllForUserFn: func(ctx context.Context, userID string) (int64, error) {
			return 3, nil
		},
	}
	svc := NewSubscriptionService(mockRepo)

	deleted, err := svc.Unsubscribe(context.Background(), "user-1", "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}
	if len(mockRepo.deleteAllUsers) != 1 {
		t.Error("expected full opt-out delete")
	}
}

func TestSubscriptionService_Unsubscribe_Idempotent(t *testing.T) {
	calls := 0
	mockRepo := &mockSubscriptionRepository{
		deleteByEndpointFn: func(ctx context.Context, userID, endpoint string) (int64, error) {
			calls++
			if calls == 1 {
				return 1, nil
			}
			return 0, nil // second call matches nothing
		},
	}
	svc := NewSubscriptionService(mockRepo)

	for i, want := range []int64{1, 0} {
		deleted, err := svc.Unsubscribe(context.Background(), "user-1", "https://push.example/abc")
		if err != nil {
			t.Fatalf("call %d: expected no error, got: %v", i+1, err)
		}
		if deleted != want {
			t.Errorf("call %d: deleted = %d, want %d", i+1, deleted, want)
		}
	}
}

// =============================================================================
// COUNT / CLEANUP TESTS
// =============================================================================

func TestSubscriptionService_CountActive_Scoping(t *testing.T) {
	mockRepo := &mockSubscriptionRepository{
		countActiveFn: func(ctx context.Context) (int, error) { return 7, nil },
		countForUserFn: func(ctx context.Context, userID string) (int, error) {
			if userID != "user-1" {
				t.Errorf("userID = %q, want user-1", userID)
			}
			return 2, nil
		},
	}
	svc := NewSubscriptionService(mockRepo)

	if count, _ := svc.CountActive(context.Background(), ""); count != 7 {
		t.Errorf("global count = %d, want 7", count)
	}
	if count, _ := svc.CountActive(context.Background(), "user-1"); count != 2 {
		t.Errorf("user count = %d, want 2", count)
	}
}

func TestSubscriptionService_Cleanup_UsesRetentionWindow(t *testing.T) {
	mockRepo := &mockSubscriptionRepository{}
	svc := NewSubscriptionService(mockRepo)

	if _, err := svc.Cleanup(context.Background(), 30); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(mockRepo.cleanupCutoffs) != 1 {
		t.Fatalf("cleanup calls = %d, want 1", len(mockRepo.cleanupCutoffs))
	}
	want := time.Now().AddDate(0, 0, -30)
	got := mockRepo.cleanupCutoffs[0]
	if got.Before(want.Add(-time.Minute)) || got.After(want.Add(time.Minute)) {
		t.Errorf("cutoff = %v, want about %v", got, want)
	}
}
