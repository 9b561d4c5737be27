package outbox

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sina38030/final-bahamm-sub002/internal/models"
	"github.com/sina38030/final-bahamm-sub002/internal/storage/sqlite"
)

type fakeGateway struct {
	mu   sync.Mutex
	fail map[string]bool
	got  []models.PaymentTask
}

func (g *fakeGateway) Dispatch(_ context.Context, task models.PaymentTask) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail[task.GroupID] {
		return errors.New("gateway unavailable")
	}
	g.got = append(g.got, task)
	return nil
}

func (g *fakeGateway) dispatched() []models.PaymentTask {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]models.PaymentTask(nil), g.got...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// settledGroup stores a closed group and its settlement, queuing one task.
func settledGroup(t *testing.T, store *sqlite.SQLiteStore, id string, instruction models.PaymentInstruction) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	group := &models.Group{
		ID:        id,
		Kind:      models.GroupKindRegular,
		LeaderID:  "leader",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
		Status:    models.GroupStatusFailed,
		Basket: models.Basket{Items: []models.BasketItem{
			{ProductID: "p1", Quantity: 1, SoloPrice: 1000},
		}},
		MinJoinersForSuccess: 1,
		InitialLeaderPayment: 500,
		ExpectedFriends:      1,
	}
	require.NoError(t, store.CreateGroup(ctx, group))

	_, err := store.RecordSettlement(ctx, &models.Settlement{
		GroupID:              id,
		Status:               models.GroupStatusFailed,
		InitialLeaderPayment: 500,
		Outcome:              models.OutcomeGroupFailed,
	}, instruction)
	require.NoError(t, err)
}

func newStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "outbox.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDispatchPending(t *testing.T) {
	store := newStore(t)
	refund := models.PaymentInstruction{Required: true, Amount: 500, Direction: models.DirectionRefund}
	settledGroup(t, store, "11111111-1111-1111-1111-111111111111", refund)
	settledGroup(t, store, "22222222-2222-2222-2222-222222222222", refund)

	gateway := &fakeGateway{}
	relay := NewRelay(discardLogger(), store, gateway, time.Second)

	sent, err := relay.DispatchPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	got := gateway.dispatched()
	require.Len(t, got, 2)
	assert.Equal(t, int64(500), got[0].Instruction.Amount)
	assert.Equal(t, models.DirectionRefund, got[0].Instruction.Direction)

	sent, err = relay.DispatchPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent, "sent tasks are not dispatched again")
}

func TestDispatchPending_FailureStaysPending(t *testing.T) {
	store := newStore(t)
	id := "33333333-3333-3333-3333-333333333333"
	settledGroup(t, store, id, models.PaymentInstruction{Required: true, Amount: 500, Direction: models.DirectionRefund})

	gateway := &fakeGateway{fail: map[string]bool{id: true}}
	relay := NewRelay(discardLogger(), store, gateway, time.Second)

	sent, err := relay.DispatchPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)

	pending, err := store.PendingPayments(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].Attempts)
	assert.Equal(t, "gateway unavailable", pending[0].LastError)

	gateway.mu.Lock()
	gateway.fail = nil
	gateway.mu.Unlock()

	sent, err = relay.DispatchPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestDispatchPending_NoInstructionNoTask(t *testing.T) {
	store := newStore(t)
	settledGroup(t, store, "44444444-4444-4444-4444-444444444444", models.PaymentInstruction{})

	gateway := &fakeGateway{}
	sent, err := NewRelay(discardLogger(), store, gateway, time.Second).DispatchPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, gateway.dispatched())
}

func TestRun_StopsOnCancel(t *testing.T) {
	store := newStore(t)
	settledGroup(t, store, "55555555-5555-5555-5555-555555555555",
		models.PaymentInstruction{Required: true, Amount: 200, Direction: models.DirectionCollect})

	gateway := &fakeGateway{}
	relay := NewRelay(discardLogger(), store, gateway, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	require.Eventually(t, func() bool { return len(gateway.dispatched()) == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop")
	}
}
