package zodiac

// Fixed relation tables between signs, used by the metaphysical scoring
// dimensions. All three relations are keyed by the most recent outcome's
// sign and queried for a candidate sign.

// clash holds the six opposition pairs (六冲).
var clash = map[Sign]Sign{
	Rat: Horse, Ox: Goat, Tiger: Monkey, Rabbit: Rooster, Dragon: Dog, Snake: Pig,
	Horse: Rat, Goat: Ox, Monkey: Tiger, Rooster: Rabbit, Dog: Dragon, Pig: Snake,
}

// trine holds the triadic harmony groups (三合): each sign's two partners.
var trine = map[Sign][2]Sign{
	Rat:     {Dragon, Monkey},
	Ox:      {Snake, Rooster},
	Tiger:   {Horse, Dog},
	Rabbit:  {Goat, Pig},
	Dragon:  {Rat, Monkey},
	Snake:   {Ox, Rooster},
	Horse:   {Tiger, Dog},
	Goat:    {Rabbit, Pig},
	Monkey:  {Rat, Dragon},
	Rooster: {Ox, Snake},
	Dog:     {Tiger, Horse},
	Pig:     {Rabbit, Goat},
}

// pair holds the dyadic harmony pairs (六合).
var pair = map[Sign]Sign{
	Rat: Ox, Ox: Rat, Tiger: Pig, Rabbit: Dog, Dragon: Rooster, Snake: Monkey,
	Horse: Goat, Goat: Horse, Monkey: Snake, Rooster: Dragon, Dog: Rabbit, Pig: Tiger,
}

// Clashes reports whether a and b form an opposition pair.
func Clashes(a, b Sign) bool {
	return clash[a] == b
}

// InTrine reports whether b is one of a's triadic harmony partners.
func InTrine(a, b Sign) bool {
	t, ok := trine[a]
	if !ok {
		return false
	}
	return t[0] == b || t[1] == b
}

// Paired reports whether a and b form a dyadic harmony pair.
func Paired(a, b Sign) bool {
	return pair[a] == b
}

// Element is one of the five elemental groupings.
type Element string

// The five elements.
const (
	Wood  Element = "木"
	Fire  Element = "火"
	Earth Element = "土"
	Metal Element = "金"
	Water Element = "水"
)

// elementOf maps each sign to its element.
var elementOf = map[Sign]Element{
	Rat: Water, Ox: Earth, Tiger: Wood, Rabbit: Wood,
	Dragon: Earth, Snake: Fire, Horse: Fire, Goat: Earth,
	Monkey: Metal, Rooster: Metal, Dog: Earth, Pig: Water,
}

// generates holds the productive cycle 木→火→土→金→水→木.
var generates = map[Element]Element{
	Wood: Fire, Fire: Earth, Earth: Metal, Metal: Water, Water: Wood,
}

// restricts holds the controlling cycle 木→土 土→水 水→火 火→金 金→木.
var restricts = map[Element]Element{
	Wood: Earth, Earth: Water, Water: Fire, Fire: Metal, Metal: Wood,
}

// ElementOf returns the sign's element. Unknown signs map to Earth, the
// most populous grouping, so relation queries stay total.
func ElementOf(s Sign) Element {
	if e, ok := elementOf[s]; ok {
		return e
	}
	return Earth
}

// Generates reports whether element a produces element b.
func Generates(a, b Element) bool {
	return generates[a] == b
}

// Restricts reports whether element a controls element b.
func Restricts(a, b Element) bool {
	return restricts[a] == b
}

// Wave is one of the three color-wave groupings of ball numbers.
type Wave string

// The three waves.
const (
	RedWave   Wave = "红"
	BlueWave  Wave = "蓝"
	GreenWave Wave = "绿"
)

// redWave lists the red-wave numbers; blue is the rest divisible by
// three, green everything left over.
var redWave = map[int]bool{
	1: true, 2: true, 7: true, 8: true, 12: true, 13: true,
	18: true, 19: true, 23: true, 24: true, 29: true, 30: true,
	34: true, 35: true, 40: true, 45: true, 46: true,
}

// WaveOf returns the color wave a ball number belongs to.
func WaveOf(n int) Wave {
	switch {
	case redWave[n]:
		return RedWave
	case n%3 == 0:
		return BlueWave
	default:
		return GreenWave
	}
}

// Waves returns the three waves in canonical order.
func Waves() []Wave {
	return []Wave{RedWave, BlueWave, GreenWave}
}
