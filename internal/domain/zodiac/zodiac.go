// Package zodiac models the twelve-sign partition of the Mark Six ball
// numbers and the fixed relations between signs used by the scoring
// dimensions.
package zodiac

import (
	"fmt"
	"strings"
)

// Ball number domain. The drawing machine carries balls 1..50, but ball 50
// belongs to no sign: it is drawn so rarely that it is excluded from the
// sign tables and from scoring. Signs partition exactly 1..49.
const (
	MinNumber = 1
	MaxNumber = 50

	// UnassignedNumber is the one ball no sign owns.
	UnassignedNumber = 50
)

// SignCount is the number of signs in the cycle.
const SignCount = 12

// Sign is one of the twelve zodiac signs, valued as its canonical
// simplified-Chinese name. The zero value is not a valid sign.
type Sign string

// The twelve signs in cycle order.
const (
	Rat     Sign = "鼠"
	Ox      Sign = "牛"
	Tiger   Sign = "虎"
	Rabbit  Sign = "兔"
	Dragon  Sign = "龙"
	Snake   Sign = "蛇"
	Horse   Sign = "马"
	Goat    Sign = "羊"
	Monkey  Sign = "猴"
	Rooster Sign = "鸡"
	Dog     Sign = "狗"
	Pig     Sign = "猪"
)

// signs holds the cycle order; a sign's index here is its ordinal.
var signs = [SignCount]Sign{
	Rat, Ox, Tiger, Rabbit, Dragon, Snake,
	Horse, Goat, Monkey, Rooster, Dog, Pig,
}

// members maps each sign to the ball numbers it owns.
var members = map[Sign][]int{
	Rat:     {6, 18, 30, 42},
	Ox:      {5, 17, 29, 41},
	Tiger:   {4, 16, 28, 40},
	Rabbit:  {3, 15, 27, 39},
	Dragon:  {2, 14, 26, 38},
	Snake:   {1, 13, 25, 37, 49},
	Horse:   {12, 24, 36, 48},
	Goat:    {11, 23, 35, 47},
	Monkey:  {10, 22, 34, 46},
	Rooster: {9, 21, 33, 45},
	Dog:     {8, 20, 32, 44},
	Pig:     {7, 19, 31, 43},
}

// numberToSign is the reverse of members, built at init.
var numberToSign = func() map[int]Sign {
	m := make(map[int]Sign, MaxNumber-1)
	for _, s := range signs {
		for _, n := range members[s] {
			m[n] = s
		}
	}
	return m
}()

// ordinals maps each sign to its position in the cycle.
var ordinals = func() map[Sign]int {
	m := make(map[Sign]int, SignCount)
	for i, s := range signs {
		m[s] = i
	}
	return m
}()

// traditional maps the label variants some upstream feeds use onto the
// canonical simplified names.
var traditional = map[string]Sign{
	"龍": Dragon,
	"馬": Horse,
	"雞": Rooster,
	"豬": Pig,
}

// emoji used when formatting signs for chat messages.
var emoji = map[Sign]string{
	Rat: "🐭", Ox: "🐮", Tiger: "🐯", Rabbit: "🐰",
	Dragon: "🐉", Snake: "🐍", Horse: "🐴", Goat: "🐑",
	Monkey: "🐵", Rooster: "🐔", Dog: "🐶", Pig: "🐖",
}

// Signs returns the twelve signs in cycle order.
func Signs() []Sign {
	out := make([]Sign, SignCount)
	copy(out, signs[:])
	return out
}

// Valid reports whether s is one of the twelve signs.
func Valid(s Sign) bool {
	_, ok := ordinals[s]
	return ok
}

// Ordinal returns the sign's position in the cycle, 0 for 鼠 through 11
// for 猪. It is the deterministic tie-break key for rankings.
func Ordinal(s Sign) (int, error) {
	ord, ok := ordinals[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSign, string(s))
	}
	return ord, nil
}

// SignOf maps a ball number to the sign owning it. The boolean is false
// only for UnassignedNumber. Numbers outside the ball domain fail with
// ErrOutOfDomain.
func SignOf(n int) (Sign, bool, error) {
	if n < MinNumber || n > MaxNumber {
		return "", false, fmt.Errorf("%w: %d", ErrOutOfDomain, n)
	}
	s, ok := numberToSign[n]
	return s, ok, nil
}

// Members returns the ball numbers the sign owns, ascending.
func Members(s Sign) ([]int, error) {
	nums, ok := members[s]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSign, string(s))
	}
	out := make([]int, len(nums))
	copy(out, nums)
	return out, nil
}

// Parse normalizes a sign label to its canonical Sign. It accepts the
// simplified names and the traditional variants upstream feeds emit.
func Parse(label string) (Sign, error) {
	label = strings.TrimSpace(label)
	if s, ok := traditional[label]; ok {
		return s, nil
	}
	s := Sign(label)
	if !Valid(s) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSign, label)
	}
	return s, nil
}

// Emoji returns the display emoji for the sign, or a fallback marker for
// anything unrecognized.
func Emoji(s Sign) string {
	if e, ok := emoji[s]; ok {
		return e
	}
	return "❓"
}
