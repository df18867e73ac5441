package ladder

// Side is one of the two opposing factions. Every player carries one
// rating per side.
type Side int

const (
	Shadow Side = iota
	Free
)

func (s Side) String() string {
	if s == Shadow {
		return "Shadow"
	}
	return "Free"
}

// DefaultRating is the rating both sides start at for a new player.
const DefaultRating = 500

// Player is the rated ledger entry shared by both game variants: two side
// ratings and a monotonically increasing games counter.
type Player struct {
	name    string
	ratings [2]int
	games   int
}

// NewPlayer returns an entry with default ratings and no games played.
func NewPlayer(name string) *Player {
	return &Player{
		name:    name,
		ratings: [2]int{DefaultRating, DefaultRating},
	}
}

// LoadPlayer rebuilds an entry from stored ladder state.
func LoadPlayer(name string, shadow, free, games int) *Player {
	return &Player{
		name:    name,
		ratings: [2]int{shadow, free},
		games:   games,
	}
}

// Name returns the display name as read from the store or report.
func (p *Player) Name() string { return p.name }

// Average is the rank-relevant rating: the mean of the two sides.
func (p *Player) Average() float64 {
	return float64(p.ratings[Shadow]+p.ratings[Free]) / 2
}

// Rating returns the rating for one side.
func (p *Player) Rating(s Side) int { return p.ratings[s] }

// SetRating overwrites the rating for one side.
func (p *Player) SetRating(s Side, value int) { p.ratings[s] = value }

// GamesPlayed returns the games counter.
func (p *Player) GamesPlayed() int { return p.games }

// AddGame increments the games counter.
func (p *Player) AddGame() { p.games++ }
