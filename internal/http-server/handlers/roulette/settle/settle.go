package settle

import (
	"github.com/fentashot/casino/internal/config"
	"github.com/fentashot/casino/internal/http-server/handlers/provably_fair"
	"github.com/fentashot/casino/internal/http-server/model"
)

type BetResult struct {
	Bet      model.Bet `json:"bet"`
	Winnings int64     `json:"winnings"`
	IsWinner bool      `json:"is_winner"`
}

type Settlement struct {
	Results    []BetResult `json:"results"`
	TotalStake int64       `json:"total_stake"`
	TotalWin   int64       `json:"total_win"`
}

// Settle evaluates every bet against the spin result. Pure, so it can
// be re-run by a client auditing a revealed seed.
func Settle(bets []model.Bet, result *provably_fair.Result) Settlement {
	settlement := Settlement{
		Results: make([]BetResult, 0, len(bets)),
	}

	for _, b := range bets {
		winnings := Winnings(b, result)

		settlement.Results = append(settlement.Results, BetResult{
			Bet:      b,
			Winnings: winnings,
			IsWinner: winnings > 0,
		})

		settlement.TotalStake += b.Amount
		settlement.TotalWin += winnings
	}

	return settlement
}

// Winnings is the total return of one bet: amount times the payout
// multiplier when winning, zero otherwise.
func Winnings(b model.Bet, result *provably_fair.Result) int64 {
	if !IsWinner(b, result) {
		return 0
	}

	return b.Amount * config.PayoutMultipliers[b.Type]
}

// IsWinner applies the winner-determination rule of the bet's kind.
// Zero never wins any outside bet.
func IsWinner(b model.Bet, result *provably_fair.Result) bool {
	switch b.Type {
	case config.Straight, config.Split, config.Street, config.Corner, config.Line:
		for _, n := range b.Numbers {
			if n == result.Number {
				return true
			}
		}

		return false
	case config.Column:
		for _, n := range config.ColumnNumbers[b.Choice] {
			if n == result.Number {
				return true
			}
		}

		return false
	case config.Dozen:
		r, ok := config.DozenRanges[b.Choice]

		return ok && result.Number >= r.Min && result.Number <= r.Max
	case config.EvenOdd:
		if result.Number == 0 {
			return false
		}

		if b.Choice == "even" {
			return result.Number%2 == 0
		}

		return result.Number%2 == 1
	case config.RedBlack:
		return config.Color(b.Color) == result.Color
	case config.HighLow:
		if b.Choice == "low" {
			return result.Number >= 1 && result.Number <= 18
		}

		return result.Number >= 19 && result.Number <= 36
	default:
		return false
	}
}
