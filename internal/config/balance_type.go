package config

type BalanceType string

const (
	Income     BalanceType = "income"
	Outcome    BalanceType = "outcome"
	Adjustment BalanceType = "adjustment"
)

type Game string

const (
	Roulette Game = "roulette"
)
