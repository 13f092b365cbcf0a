package config

type Color string

const (
	Red   Color = "red"
	Black Color = "black"
	Green Color = "green"
)

type BetType string

const (
	Straight BetType = "straight"
	Split    BetType = "split"
	Street   BetType = "street"
	Corner   BetType = "corner"
	Line     BetType = "line"
	Column   BetType = "column"
	Dozen    BetType = "dozen"
	EvenOdd  BetType = "even_odd"
	RedBlack BetType = "red_black"
	HighLow  BetType = "high_low"
)

// PocketCount is the number of pockets on a European wheel.
const PocketCount = 37

// PayoutMultipliers are total returns including the stake: a winning
// straight bet pays 36x the stake, i.e. 35x profit.
var PayoutMultipliers = map[BetType]int64{
	Straight: 36,
	Split:    18,
	Street:   12,
	Corner:   9,
	Line:     6,
	Column:   3,
	Dozen:    3,
	EvenOdd:  2,
	RedBlack: 2,
	HighLow:  2,
}

// RequiredNumbers is how many pocket numbers each numbers-based kind
// must carry. Kinds absent from the map carry a choice instead.
var RequiredNumbers = map[BetType]int{
	Straight: 1,
	Split:    2,
	Street:   3,
	Corner:   4,
	Line:     6,
}

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

func ColorOf(number int) Color {
	if number == 0 {
		return Green
	}

	if redNumbers[number] {
		return Red
	}

	return Black
}

// ColumnNumbers maps each column choice to its 12 pockets. Zero belongs
// to no column.
var ColumnNumbers = map[string][]int{
	"col1": {1, 4, 7, 10, 13, 16, 19, 22, 25, 28, 31, 34},
	"col2": {2, 5, 8, 11, 14, 17, 20, 23, 26, 29, 32, 35},
	"col3": {3, 6, 9, 12, 15, 18, 21, 24, 27, 30, 33, 36},
}

type NumberRange struct {
	Min int
	Max int
}

var DozenRanges = map[string]NumberRange{
	"1st12": {Min: 1, Max: 12},
	"2nd12": {Min: 13, Max: 24},
	"3rd12": {Min: 25, Max: 36},
}

var ParityChoices = []string{"even", "odd"}

var RangeChoices = []string{"low", "high"}

var ColorChoices = []string{"red", "black"}
