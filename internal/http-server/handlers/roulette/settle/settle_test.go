package settle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fentashot/casino/internal/config"
	"github.com/fentashot/casino/internal/http-server/handlers/provably_fair"
	"github.com/fentashot/casino/internal/http-server/model"
)

func resultFor(number int) *provably_fair.Result {
	return &provably_fair.Result{
		Number: number,
		Color:  config.ColorOf(number),
	}
}

func TestWinnings(t *testing.T) {
	cases := []struct {
		name   string
		bet    model.Bet
		number int
		want   int64
	}{
		{
			name:   "StraightHit",
			bet:    model.Bet{Type: config.Straight, Numbers: []int{17}, Amount: 10},
			number: 17,
			want:   360,
		},
		{
			name:   "StraightMiss",
			bet:    model.Bet{Type: config.Straight, Numbers: []int{17}, Amount: 10},
			number: 5,
			want:   0,
		},
		{
			name:   "StraightZeroHit",
			bet:    model.Bet{Type: config.Straight, Numbers: []int{0}, Amount: 10},
			number: 0,
			want:   360,
		},
		{
			name:   "SplitHit",
			bet:    model.Bet{Type: config.Split, Numbers: []int{17, 18}, Amount: 10},
			number: 18,
			want:   180,
		},
		{
			name:   "StreetHit",
			bet:    model.Bet{Type: config.Street, Numbers: []int{4, 5, 6}, Amount: 10},
			number: 5,
			want:   120,
		},
		{
			name:   "CornerHit",
			bet:    model.Bet{Type: config.Corner, Numbers: []int{1, 2, 4, 5}, Amount: 10},
			number: 4,
			want:   90,
		},
		{
			name:   "LineHit",
			bet:    model.Bet{Type: config.Line, Numbers: []int{1, 2, 3, 4, 5, 6}, Amount: 10},
			number: 6,
			want:   60,
		},
		{
			name:   "ColumnHit",
			bet:    model.Bet{Type: config.Column, Choice: "col2", Amount: 10},
			number: 5,
			want:   30,
		},
		{
			name:   "ColumnMissOnZero",
			bet:    model.Bet{Type: config.Column, Choice: "col1", Amount: 10},
			number: 0,
			want:   0,
		},
		{
			name:   "DozenHit",
			bet:    model.Bet{Type: config.Dozen, Choice: "2nd12", Amount: 10},
			number: 13,
			want:   30,
		},
		{
			name:   "DozenMissOnZero",
			bet:    model.Bet{Type: config.Dozen, Choice: "1st12", Amount: 10},
			number: 0,
			want:   0,
		},
		{
			name:   "EvenHit",
			bet:    model.Bet{Type: config.EvenOdd, Choice: "even", Amount: 10},
			number: 26,
			want:   20,
		},
		{
			name:   "EvenMissOnZero",
			bet:    model.Bet{Type: config.EvenOdd, Choice: "even", Amount: 10},
			number: 0,
			want:   0,
		},
		{
			name:   "OddHit",
			bet:    model.Bet{Type: config.EvenOdd, Choice: "odd", Amount: 10},
			number: 19,
			want:   20,
		},
		{
			name:   "RedHit",
			bet:    model.Bet{Type: config.RedBlack, Color: "red", Amount: 10},
			number: 32,
			want:   20,
		},
		{
			name:   "RedMissOnBlack",
			bet:    model.Bet{Type: config.RedBlack, Color: "red", Amount: 10},
			number: 26,
			want:   0,
		},
		{
			name:   "BlackMissOnZero",
			bet:    model.Bet{Type: config.RedBlack, Color: "black", Amount: 10},
			number: 0,
			want:   0,
		},
		{
			name:   "LowHit",
			bet:    model.Bet{Type: config.HighLow, Choice: "low", Amount: 10},
			number: 18,
			want:   20,
		},
		{
			name:   "HighHit",
			bet:    model.Bet{Type: config.HighLow, Choice: "high", Amount: 10},
			number: 19,
			want:   20,
		},
		{
			name:   "HighMissOnZero",
			bet:    model.Bet{Type: config.HighLow, Choice: "high", Amount: 10},
			number: 0,
			want:   0,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Winnings(tc.bet, resultFor(tc.number))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSettleTotals(t *testing.T) {
	bets := []model.Bet{
		{Type: config.Straight, Numbers: []int{17}, Amount: 10},
		{Type: config.RedBlack, Color: "black", Amount: 25},
		{Type: config.Dozen, Choice: "1st12", Amount: 50},
	}

	settlement := Settle(bets, resultFor(17))

	assert.Len(t, settlement.Results, 3)
	assert.Equal(t, int64(85), settlement.TotalStake)

	// 17 is black: straight pays 360, red_black pays 50, dozen misses.
	assert.Equal(t, int64(410), settlement.TotalWin)

	assert.True(t, settlement.Results[0].IsWinner)
	assert.Equal(t, int64(360), settlement.Results[0].Winnings)
	assert.True(t, settlement.Results[1].IsWinner)
	assert.Equal(t, int64(50), settlement.Results[1].Winnings)
	assert.False(t, settlement.Results[2].IsWinner)
	assert.Equal(t, int64(0), settlement.Results[2].Winnings)
}

func TestSettleEmpty(t *testing.T) {
	settlement := Settle(nil, resultFor(0))

	assert.Empty(t, settlement.Results)
	assert.Zero(t, settlement.TotalStake)
	assert.Zero(t, settlement.TotalWin)
}
