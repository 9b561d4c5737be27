package lifecycle

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sina38030/final-bahamm-sub002/internal/calculator"
	"github.com/sina38030/final-bahamm-sub002/internal/models"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func scenarioParams(kind models.GroupKind, expected int) NewGroupParams {
	return NewGroupParams{
		Kind:     kind,
		LeaderID: "leader",
		Basket: models.Basket{Items: []models.BasketItem{
			{ProductID: "p", Name: "Basket", Quantity: 1, SoloPrice: 400000, Friend1Price: models.Price(200000)},
		}},
		ExpectedFriends:  expected,
		PaymentAuthority: "A00000000000000000000000000123456789",
	}
}

func joinAndPay(t *testing.T, g *models.Group, userID string, now time.Time) {
	t.Helper()
	p, err := Join(g, userID, now)
	require.NoError(t, err)
	changed, err := MarkPaid(g, p.ID, 1000, now)
	require.NoError(t, err)
	require.True(t, changed)
}

func TestNewGroup(t *testing.T) {
	g, err := NewGroup(scenarioParams(models.GroupKindRegular, 1), t0)
	require.NoError(t, err)

	assert.NotEmpty(t, g.ID)
	assert.Equal(t, models.GroupStatusForming, g.Status)
	assert.Equal(t, t0.Add(24*time.Hour), g.ExpiresAt)
	assert.Equal(t, int64(200000), g.InitialLeaderPayment)
	assert.Equal(t, 1, g.ExpectedFriends)
	assert.Equal(t, 1, g.MinJoinersForSuccess)
	require.Len(t, g.Participants, 1)
	assert.Equal(t, models.RoleLeader, g.Participants[0].Role)
	assert.True(t, g.Participants[0].Paid)
	assert.Equal(t, 0, g.PaidFriendCount())
}

func TestNewGroup_AloneIsChargedAtOneFriend(t *testing.T) {
	g, err := NewGroup(scenarioParams(models.GroupKindRegular, 0), t0)
	require.NoError(t, err)
	assert.Equal(t, int64(200000), g.InitialLeaderPayment)
	assert.Equal(t, 1, g.ExpectedFriends)
}

func TestNewGroup_SecondaryChargesExpectedTier(t *testing.T) {
	params := scenarioParams(models.GroupKindSecondary, 0)
	params.Basket.Items[0].SoloPrice = 100000
	g, err := NewGroup(params, t0)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), g.InitialLeaderPayment)
	assert.Equal(t, 0, g.ExpectedFriends)
}

func TestNewGroup_FreezesBasket(t *testing.T) {
	params := scenarioParams(models.GroupKindRegular, 1)
	g, err := NewGroup(params, t0)
	require.NoError(t, err)

	*params.Basket.Items[0].Friend1Price = 1
	params.Basket.Items[0].SoloPrice = 1

	assert.Equal(t, int64(200000), *g.Basket.Items[0].Friend1Price)
	assert.Equal(t, int64(400000), g.Basket.Items[0].SoloPrice)
}

func TestNewGroup_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*NewGroupParams)
	}{
		{"unknown kind", func(p *NewGroupParams) { p.Kind = "vip" }},
		{"no leader", func(p *NewGroupParams) { p.LeaderID = "" }},
		{"empty basket", func(p *NewGroupParams) { p.Basket = models.Basket{} }},
		{"zero quantity", func(p *NewGroupParams) { p.Basket.Items[0].Quantity = 0 }},
		{"quantity above cap", func(p *NewGroupParams) { p.Basket.Items[0].Quantity = calculator.MaxMoney + 1 }},
		{"price above cap", func(p *NewGroupParams) { p.Basket.Items[0].SoloPrice = math.MaxInt64 / 2 }},
		{"total above cap", func(p *NewGroupParams) { p.Basket.Items[0].Quantity = 1 << 40 }},
		{"expected above max tier", func(p *NewGroupParams) { p.ExpectedFriends = 4 }},
		{"negative expected", func(p *NewGroupParams) { p.ExpectedFriends = -1 }},
		{"min joiners above max tier", func(p *NewGroupParams) { p.MinJoinersForSuccess = 5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := scenarioParams(models.GroupKindRegular, 1)
			tt.mutate(&params)
			_, err := NewGroup(params, t0)
			assert.ErrorIs(t, err, ErrInvalidGroup)
		})
	}
}

func TestJoin(t *testing.T) {
	g, err := NewGroup(scenarioParams(models.GroupKindRegular, 1), t0)
	require.NoError(t, err)

	p, err := Join(g, "friend-1", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, p.Role)
	assert.False(t, p.Paid)

	again, err := Join(g, "friend-1", t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
	assert.Len(t, g.Participants, 2)

	_, err = Join(g, "leader", t0.Add(time.Hour))
	assert.ErrorIs(t, err, ErrLeaderCannotJoin)
}

func TestJoin_Closed(t *testing.T) {
	g, err := NewGroup(scenarioParams(models.GroupKindRegular, 1), t0)
	require.NoError(t, err)

	_, err = Join(g, "late", g.ExpiresAt)
	assert.ErrorIs(t, err, ErrGroupClosed)

	g.Status = models.GroupStatusSucceeded
	_, err = Join(g, "late", t0.Add(time.Minute))
	assert.ErrorIs(t, err, ErrGroupClosed)
}

func TestMarkPaid_Idempotent(t *testing.T) {
	g, err := NewGroup(scenarioParams(models.GroupKindRegular, 1), t0)
	require.NoError(t, err)
	p, err := Join(g, "friend-1", t0)
	require.NoError(t, err)
	id := p.ID

	changed, err := MarkPaid(g, id, 5000, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = MarkPaid(g, id, 5000, t0.Add(2*time.Minute))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, g.PaidFriendCount())

	_, err = MarkPaid(g, "nobody", 1, t0)
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestMarkPaid_AfterDeadline(t *testing.T) {
	g, err := NewGroup(scenarioParams(models.GroupKindRegular, 1), t0)
	require.NoError(t, err)
	p, err := Join(g, "friend-1", t0)
	require.NoError(t, err)

	_, err = MarkPaid(g, p.ID, 1, g.ExpiresAt.Add(time.Second))
	assert.ErrorIs(t, err, ErrGroupClosed)
}

func TestFinalize_ScenarioA_NoFriendsFails(t *testing.T) {
	g, err := NewGroup(scenarioParams(models.GroupKindRegular, 1), t0)
	require.NoError(t, err)

	changed, err := Finalize(g, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.GroupStatusForming, g.Status)

	changed, err = Finalize(g, g.ExpiresAt)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.GroupStatusFailed, g.Status)
	require.NotNil(t, g.FinalizedAt)
}

func TestFinalize_ScenarioB_OneFriendSucceeds(t *testing.T) {
	g, err := NewGroup(scenarioParams(models.GroupKindRegular, 1), t0)
	require.NoError(t, err)
	joinAndPay(t, g, "friend-1", t0.Add(time.Hour))

	changed, err := Finalize(g, g.ExpiresAt.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.GroupStatusSucceeded, g.Status)

	s, err := calculator.Settle(g, calculator.Regular{})
	require.NoError(t, err)
	assert.Equal(t, int64(200000), s.FinalPrice)
	assert.Equal(t, int64(0), s.Delta)
	assert.Equal(t, models.OutcomeSettled, s.Outcome)
}

func TestFinalize_ScenarioC_TwoFriendsRefund(t *testing.T) {
	g, err := NewGroup(scenarioParams(models.GroupKindRegular, 1), t0)
	require.NoError(t, err)
	joinAndPay(t, g, "friend-1", t0.Add(time.Hour))
	joinAndPay(t, g, "friend-2", t0.Add(2*time.Hour))

	_, err = Finalize(g, g.ExpiresAt)
	require.NoError(t, err)
	assert.Equal(t, models.GroupStatusSucceeded, g.Status)

	s, err := calculator.Settle(g, calculator.Regular{})
	require.NoError(t, err)
	assert.Equal(t, int64(133333), s.FinalPrice)
	assert.Equal(t, int64(-66667), s.Delta)
	assert.Equal(t, models.OutcomeRefundDue, s.Outcome)
	assert.Equal(t, models.PaymentInstruction{Required: true, Amount: 66667, Direction: models.DirectionRefund}, calculator.Instruction(s))
}

func TestFinalize_ScenarioD_Secondary(t *testing.T) {
	params := scenarioParams(models.GroupKindSecondary, 0)
	params.Basket.Items[0].SoloPrice = 100000
	g, err := NewGroup(params, t0)
	require.NoError(t, err)
	for _, friend := range []string{"f1", "f2", "f3"} {
		joinAndPay(t, g, friend, t0.Add(time.Hour))
	}

	_, err = Finalize(g, g.ExpiresAt)
	require.NoError(t, err)

	s, err := calculator.Settle(g, calculator.Secondary{})
	require.NoError(t, err)
	assert.Equal(t, int64(25000), s.FinalPrice)
	assert.Equal(t, int64(-75000), s.Delta)
	assert.Equal(t, models.OutcomeRefundDue, s.Outcome)
}

func TestFinalize_EagerAtMaxTier(t *testing.T) {
	g, err := NewGroup(scenarioParams(models.GroupKindRegular, 1), t0)
	require.NoError(t, err)
	joinAndPay(t, g, "f1", t0)
	joinAndPay(t, g, "f2", t0)

	changed, err := Finalize(g, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, changed)

	joinAndPay(t, g, "f3", t0)
	changed, err = Finalize(g, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.GroupStatusSucceeded, g.Status)

	_, err = Join(g, "f4", t0.Add(2*time.Minute))
	assert.ErrorIs(t, err, ErrGroupClosed)
}

func TestFinalize_SecondaryNeedsFourForEagerSuccess(t *testing.T) {
	g, err := NewGroup(scenarioParams(models.GroupKindSecondary, 0), t0)
	require.NoError(t, err)
	for _, friend := range []string{"f1", "f2", "f3"} {
		joinAndPay(t, g, friend, t0)
	}
	changed, err := Finalize(g, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, changed)

	joinAndPay(t, g, "f4", t0)
	changed, err = Finalize(g, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, changed)

	s, err := calculator.Settle(g, calculator.Secondary{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.FinalPrice)
}

func TestFinalize_Idempotent(t *testing.T) {
	g, err := NewGroup(scenarioParams(models.GroupKindRegular, 1), t0)
	require.NoError(t, err)
	joinAndPay(t, g, "f1", t0)

	changed, err := Finalize(g, g.ExpiresAt)
	require.NoError(t, err)
	require.True(t, changed)
	first, err := calculator.Settle(g, calculator.Regular{})
	require.NoError(t, err)
	finalizedAt := *g.FinalizedAt

	changed, err = Finalize(g, g.ExpiresAt.Add(48*time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.GroupStatusSucceeded, g.Status)
	assert.Equal(t, finalizedAt, *g.FinalizedAt)

	second, err := calculator.Settle(g, calculator.Regular{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFinalize_MinJoiners(t *testing.T) {
	params := scenarioParams(models.GroupKindRegular, 1)
	params.MinJoinersForSuccess = 2
	g, err := NewGroup(params, t0)
	require.NoError(t, err)
	joinAndPay(t, g, "f1", t0)
	p, err := Join(g, "f2", t0)
	require.NoError(t, err)
	require.False(t, p.Paid)

	_, err = Finalize(g, g.ExpiresAt)
	require.NoError(t, err)
	assert.Equal(t, models.GroupStatusFailed, g.Status)
}

func TestRemaining(t *testing.T) {
	g, err := NewGroup(scenarioParams(models.GroupKindRegular, 1), t0)
	require.NoError(t, err)

	assert.Equal(t, 23*time.Hour, Remaining(g, t0.Add(time.Hour)))
	assert.Equal(t, time.Duration(0), Remaining(g, g.ExpiresAt.Add(time.Hour)))

	g.Status = models.GroupStatusFailed
	assert.Equal(t, time.Duration(0), Remaining(g, t0))
}
