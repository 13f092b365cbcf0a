package bet

import (
	"errors"
	"testing"

	"github.com/fentashot/casino/internal/config"
	"github.com/fentashot/casino/internal/http-server/model"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		bet     model.Bet
		wantErr error
	}{
		{
			name: "StraightOK",
			bet:  model.Bet{Type: config.Straight, Numbers: []int{17}, Amount: 10},
		},
		{
			name: "SplitOK",
			bet:  model.Bet{Type: config.Split, Numbers: []int{17, 18}, Amount: 10},
		},
		{
			name: "StreetOK",
			bet:  model.Bet{Type: config.Street, Numbers: []int{1, 2, 3}, Amount: 5},
		},
		{
			name: "CornerOK",
			bet:  model.Bet{Type: config.Corner, Numbers: []int{1, 2, 4, 5}, Amount: 5},
		},
		{
			name: "LineOK",
			bet:  model.Bet{Type: config.Line, Numbers: []int{1, 2, 3, 4, 5, 6}, Amount: 5},
		},
		{
			name: "ColumnOK",
			bet:  model.Bet{Type: config.Column, Choice: "col2", Amount: 5},
		},
		{
			name: "DozenOK",
			bet:  model.Bet{Type: config.Dozen, Choice: "3rd12", Amount: 5},
		},
		{
			name: "EvenOddOK",
			bet:  model.Bet{Type: config.EvenOdd, Choice: "odd", Amount: 5},
		},
		{
			name: "RedBlackOK",
			bet:  model.Bet{Type: config.RedBlack, Color: "red", Amount: 5},
		},
		{
			name: "HighLowOK",
			bet:  model.Bet{Type: config.HighLow, Choice: "high", Amount: 5},
		},
		{
			name:    "ZeroAmount",
			bet:     model.Bet{Type: config.Straight, Numbers: []int{17}, Amount: 0},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "NegativeAmount",
			bet:     model.Bet{Type: config.RedBlack, Color: "red", Amount: -5},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "StraightTooManyNumbers",
			bet:     model.Bet{Type: config.Straight, Numbers: []int{17, 18}, Amount: 10},
			wantErr: ErrInvalidNumberCount,
		},
		{
			name:    "SplitTooFewNumbers",
			bet:     model.Bet{Type: config.Split, Numbers: []int{17}, Amount: 10},
			wantErr: ErrInvalidNumberCount,
		},
		{
			name:    "LineMissingNumbers",
			bet:     model.Bet{Type: config.Line, Amount: 10},
			wantErr: ErrInvalidNumberCount,
		},
		{
			name:    "NumberAboveRange",
			bet:     model.Bet{Type: config.Straight, Numbers: []int{37}, Amount: 10},
			wantErr: ErrInvalidNumberRange,
		},
		{
			name:    "NumberBelowRange",
			bet:     model.Bet{Type: config.Split, Numbers: []int{-1, 0}, Amount: 10},
			wantErr: ErrInvalidNumberRange,
		},
		{
			name:    "ColumnBadChoice",
			bet:     model.Bet{Type: config.Column, Choice: "col4", Amount: 10},
			wantErr: ErrInvalidChoice,
		},
		{
			name:    "DozenMissingChoice",
			bet:     model.Bet{Type: config.Dozen, Amount: 10},
			wantErr: ErrInvalidChoice,
		},
		{
			name:    "EvenOddBadChoice",
			bet:     model.Bet{Type: config.EvenOdd, Choice: "both", Amount: 10},
			wantErr: ErrInvalidChoice,
		},
		{
			name:    "RedBlackGreenNotBettable",
			bet:     model.Bet{Type: config.RedBlack, Color: "green", Amount: 10},
			wantErr: ErrInvalidChoice,
		},
		{
			name:    "RedBlackChoiceInsteadOfColor",
			bet:     model.Bet{Type: config.RedBlack, Choice: "red", Amount: 10},
			wantErr: ErrInvalidChoice,
		},
		{
			name:    "ChoiceOnNumbersKind",
			bet:     model.Bet{Type: config.Straight, Numbers: []int{17}, Choice: "col1", Amount: 10},
			wantErr: ErrInvalidChoice,
		},
		{
			name:    "NumbersOnChoiceKind",
			bet:     model.Bet{Type: config.HighLow, Choice: "low", Numbers: []int{1}, Amount: 10},
			wantErr: ErrInvalidNumberCount,
		},
		{
			name:    "UnknownKind",
			bet:     model.Bet{Type: "trifecta", Amount: 10},
			wantErr: ErrInvalidChoice,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := Validate(tc.bet)

			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}

				return
			}

			if !errors.Is(err, tc.wantErr) {
				t.Errorf("want %v, got %v", tc.wantErr, err)
			}
		})
	}
}
