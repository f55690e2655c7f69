package auction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobID(t *testing.T) {
	t.Parallel()

	id := JobID("01fq7")
	assert.Equal(t, "auc-01fq7", id)
	assert.NotEqual(t, id, JobID("01fq8"))
}

func TestParseRule(t *testing.T) {
	t.Parallel()

	r, err := ParseRule(KindHighestBidWins, nil)
	require.NoError(t, err)
	assert.Equal(t, HighestBidWins{}, r)

	target := int64(50)
	r, err = ParseRule(KindClosestBidWins, &target)
	require.NoError(t, err)
	assert.Equal(t, ClosestBidWins{Target: 50}, r)
	assert.Equal(t, int64(50), *RuleTarget(r))

	_, err = ParseRule(KindClosestBidWins, nil)
	require.Error(t, err)
	_, err = ParseRule("LOWEST_BID_WINS", nil)
	require.Error(t, err)
}

func TestAuctionValidate(t *testing.T) {
	t.Parallel()

	valid := Auction{
		ID:          "a1",
		Rule:        HighestBidWins{},
		WinnerCount: 1,
		EndsAt:      time.Now(),
		CreatorID:   "u1",
	}
	require.NoError(t, valid.Validate())

	t.Run("empty id", func(t *testing.T) {
		a := valid
		a.ID = ""
		require.Error(t, a.Validate())
	})
	t.Run("empty creator", func(t *testing.T) {
		a := valid
		a.CreatorID = ""
		require.Error(t, a.Validate())
	})
	t.Run("winner count 0", func(t *testing.T) {
		a := valid
		a.WinnerCount = 0
		require.Error(t, a.Validate())
	})
	t.Run("winner count 11", func(t *testing.T) {
		a := valid
		a.WinnerCount = 11
		require.Error(t, a.Validate())
	})
	t.Run("zero ends at", func(t *testing.T) {
		a := valid
		a.EndsAt = time.Time{}
		require.Error(t, a.Validate())
	})
	t.Run("no rule", func(t *testing.T) {
		a := valid
		a.Rule = nil
		require.Error(t, a.Validate())
	})
	t.Run("negative target", func(t *testing.T) {
		a := valid
		a.Rule = ClosestBidWins{Target: -1}
		require.Error(t, a.Validate())
	})
}

func TestExtendedEndsAt(t *testing.T) {
	t.Parallel()

	end := time.Date(2021, 10, 1, 12, 0, 0, 0, time.UTC)
	highest := Auction{Rule: HighestBidWins{}, EndsAt: end}
	closest := Auction{Rule: ClosestBidWins{Target: 10}, EndsAt: end}

	// Early bids don't move the end.
	assert.Equal(t, end, ExtendedEndsAt(highest, end.Add(-time.Minute*10)))

	// Bids in the last two minutes push the end.
	bidAt := end.Add(-time.Second * 30)
	assert.Equal(t, bidAt.Add(ExtensionWindow), ExtendedEndsAt(highest, bidAt))

	// Closest bid auctions are never extended.
	assert.Equal(t, end, ExtendedEndsAt(closest, bidAt))
}

func TestBidState(t *testing.T) {
	t.Parallel()

	b := Bid{IsWinner: true}
	assert.True(t, b.InDoubt())
	assert.False(t, b.Failed())
	assert.False(t, b.Charged())

	b.ChargeError = "card declined"
	assert.True(t, b.Failed())
	assert.False(t, b.InDoubt())

	b = Bid{IsWinner: true, ChargeID: "ch_1"}
	assert.True(t, b.Charged())
	assert.False(t, b.Failed())
	assert.False(t, b.InDoubt())
}
