package bet

import (
	"errors"
	"fmt"

	"github.com/fentashot/casino/internal/config"
	"github.com/fentashot/casino/internal/http-server/model"
)

var (
	ErrInvalidAmount      = errors.New("bet amount must be a positive integer")
	ErrInvalidNumberCount = errors.New("wrong number count for bet type")
	ErrInvalidNumberRange = errors.New("bet number out of range")
	ErrInvalidChoice      = errors.New("invalid choice for bet type")
)

// Validate checks one bet against the shape rules of its kind. Pure,
// no side effects.
func Validate(b model.Bet) error {
	if b.Amount <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidAmount, b.Amount)
	}

	switch b.Type {
	case config.Straight, config.Split, config.Street, config.Corner, config.Line:
		return validateNumbers(b)
	case config.Column:
		return validateChoice(b, keys(config.ColumnNumbers))
	case config.Dozen:
		return validateChoice(b, keys(config.DozenRanges))
	case config.EvenOdd:
		return validateChoice(b, config.ParityChoices)
	case config.RedBlack:
		return validateColor(b)
	case config.HighLow:
		return validateChoice(b, config.RangeChoices)
	default:
		return fmt.Errorf("%w: unknown bet type %q", ErrInvalidChoice, b.Type)
	}
}

func validateNumbers(b model.Bet) error {
	if b.Choice != "" || b.Color != "" {
		return fmt.Errorf("%w: %s bets carry numbers, not a choice", ErrInvalidChoice, b.Type)
	}

	want := config.RequiredNumbers[b.Type]
	if len(b.Numbers) != want {
		return fmt.Errorf("%w: %s requires exactly %d numbers, got %d",
			ErrInvalidNumberCount, b.Type, want, len(b.Numbers))
	}

	for _, n := range b.Numbers {
		if n < 0 || n >= config.PocketCount {
			return fmt.Errorf("%w: %d", ErrInvalidNumberRange, n)
		}
	}

	return nil
}

func validateChoice(b model.Bet, valid []string) error {
	if len(b.Numbers) != 0 {
		return fmt.Errorf("%w: %s bets carry a choice, not numbers", ErrInvalidNumberCount, b.Type)
	}

	if b.Color != "" {
		return fmt.Errorf("%w: %s bets carry a choice, not a color", ErrInvalidChoice, b.Type)
	}

	for _, c := range valid {
		if b.Choice == c {
			return nil
		}
	}

	return fmt.Errorf("%w: %q is not valid for %s", ErrInvalidChoice, b.Choice, b.Type)
}

func validateColor(b model.Bet) error {
	if len(b.Numbers) != 0 {
		return fmt.Errorf("%w: red_black bets carry a color, not numbers", ErrInvalidNumberCount)
	}

	if b.Choice != "" {
		return fmt.Errorf("%w: red_black bets carry a color, not a choice", ErrInvalidChoice)
	}

	for _, c := range config.ColorChoices {
		if b.Color == c {
			return nil
		}
	}

	return fmt.Errorf("%w: %q is not a bettable color", ErrInvalidChoice, b.Color)
}

func keys[K comparable, V any](m map[K]V) []K {
	out := make([]K, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	return out
}
