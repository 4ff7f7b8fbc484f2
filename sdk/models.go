package sdk

import (
	"github.com/go-kit/log"
)

type GameState struct {
	Game  Game        `json:"game"`
	Turn  int         `json:"turn"`
	Board Board       `json:"board"`
	You   Battlesnake `json:"you"`
}

func (state GameState) Logger(logger log.Logger) log.Logger {
	return log.With(logger, "game_id", state.Game.ID, "snake_id", state.You.ID, "alive_snakes", len(state.Board.Snakes), "turn", state.Turn)
}

type Game struct {
	ID      string  `json:"id"`
	Ruleset Ruleset `json:"ruleset"`
	Map     string  `json:"map"`
	Timeout int32   `json:"timeout"`
	Source  string  `json:"source"`
}

type Ruleset struct {
	Name     string          `json:"name"`
	Version  string          `json:"version"`
	Settings RulesetSettings `json:"settings"`
}

type RulesetSettings struct {
	FoodSpawnChance     int            `json:"foodSpawnChance"`
	MinimumFood         int            `json:"minimumFood"`
	HazardDamagePerTurn int            `json:"hazardDamagePerTurn"`
	Royale              RoyaleSettings `json:"royale"`
	Squad               SquadSettings  `json:"squad"`
}

type RoyaleSettings struct {
	ShrinkEveryNTurns int `json:"shrinkEveryNTurns"`
}

type SquadSettings struct {
	AllowBodyCollisions bool `json:"allowBodyCollisions"`
	SharedElimination   bool `json:"sharedElimination"`
	SharedHealth        bool `json:"sharedHealth"`
	SharedLength        bool `json:"sharedLength"`
}

type Board struct {
	Height int           `json:"height"`
	Width  int           `json:"width"`
	Food   []Coord       `json:"food"`
	Snakes []Battlesnake `json:"snakes"`

	// Used in non-standard game modes
	Hazards []Coord `json:"hazards"`
}

// OtherSnakes returns the surviving snakes on the board whose ID is not myID
func (b Board) OtherSnakes(myID string) []Battlesnake {
	others := make([]Battlesnake, 0, len(b.Snakes))
	for _, snake := range b.Snakes {
		if snake.ID == myID || !snake.Alive() {
			continue
		}
		others = append(others, snake)
	}
	return others
}

func (b Board) OutOfBounds(c Coord) bool {
	return c.X >= b.Width ||
		c.X < 0 ||
		c.Y >= b.Height ||
		c.Y < 0
}

// Occupied returns back true if the coordinate is currently covered by any segment of a
// surviving snake. The tail is not treated as vacated.
func (b Board) Occupied(c Coord) bool {
	for _, snake := range b.Snakes {
		if !snake.Alive() {
			continue
		}
		if CoordSliceContains(c, snake.Body) {
			return true
		}
	}
	return false
}

type Customizations struct {
	Color string `json:"color"`
	Head  string `json:"head"`
	Tail  string `json:"tail"`
}

type Battlesnake struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Health         int32          `json:"health"`
	Body           []Coord        `json:"body"`
	Head           Coord          `json:"head"`
	Length         int32          `json:"length"`
	Latency        string         `json:"latency"`
	Customizations Customizations `json:"customizations"`

	// Used in non-standard game modes
	Shout string `json:"shout"`
	Squad string `json:"squad"`
}

// Alive reports whether the snake is still in the game. Eliminated snakes have no health left.
func (snake Battlesnake) Alive() bool {
	return snake.Health > 0
}

// Next returns the snake after moving one step in dir. The body grows by one segment
// and health resets when the new head lands on food, otherwise the tail is dropped
// and one point of health is lost.
func (snake Battlesnake) Next(dir Direction, board Board) Battlesnake {
	nextBody := make([]Coord, 1, len(snake.Body)+1)
	nextBody[0] = Coord(dir).Add(snake.Body[0])
	nextBody = append(nextBody, snake.Body...)
	snake.Health--
	if !CoordSliceContains(nextBody[0], board.Food) {
		nextBody = nextBody[:len(nextBody)-1]
	} else {
		snake.Health = MaxHealth
	}
	snake.Body = nextBody
	snake.Head = nextBody[0]
	snake.Length = int32(len(nextBody))

	return snake
}

// Direction returns the direction the snake last moved in, defaulting to Up for
// snakes whose neck overlaps the head (e.g. on the first turn).
func (snake Battlesnake) Direction() Direction {
	if len(snake.Body) < 2 {
		return Direction_Up
	}
	head, neck := snake.Body[0], snake.Body[1]
	dir := Direction(head.Add(neck.Reverse()))
	if _, ok := DirectionToMove[dir]; !ok {
		return Direction_Up
	}
	return dir
}

const MaxHealth int32 = 100

type Direction Coord

var (
	Direction_Up    = Direction{0, 1}
	Direction_Down  = Direction{0, -1}
	Direction_Left  = Direction{-1, 0}
	Direction_Right = Direction{1, 0}
)

// Directions lists every move in priority order. Ties between equally scored moves are
// broken by position in this array.
var Directions = [4]Direction{Direction_Up, Direction_Down, Direction_Left, Direction_Right}

var MoveToDirection = map[BattlesnakeMove]Direction{
	BattlesnakeMove_Down:  Direction_Down,
	BattlesnakeMove_Up:    Direction_Up,
	BattlesnakeMove_Left:  Direction_Left,
	BattlesnakeMove_Right: Direction_Right,
}

var DirectionToMove = map[Direction]BattlesnakeMove{
	Direction_Down:  BattlesnakeMove_Down,
	Direction_Up:    BattlesnakeMove_Up,
	Direction_Left:  BattlesnakeMove_Left,
	Direction_Right: BattlesnakeMove_Right,
}

func (dir Direction) Move() BattlesnakeMove {
	return DirectionToMove[dir]
}

func (dir Direction) String() string {
	return string(dir.Move())
}

type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add gets the sum of the individual axis of this coordinate and another: {x1 + x2, y1 + y2}
func (c Coord) Add(other Coord) Coord {
	return Coord{c.X + other.X, c.Y + other.Y}
}

// Reverse reverses the coordinate: {-1 * x, -1 * y}
func (c Coord) Reverse() Coord {
	return Coord{-c.X, -c.Y}
}

// Manhattan calculates the manhattan distance: |x2 - x1| + |y2 - y1|
func (c Coord) Manhattan(other Coord) int {
	diff := c.Add(other.Reverse())
	return abs(diff.X) + abs(diff.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// CoordSliceContains returns back whether elem is contained in slice
func CoordSliceContains(elem Coord, slice []Coord) bool {
	for _, coord := range slice {
		if elem == coord {
			return true
		}
	}
	return false
}

// Response Structs

type BattlesnakeInfoResponse struct {
	APIVersion string `json:"apiversion"`
	Author     string `json:"author"`
	Color      string `json:"color"`
	Head       string `json:"head"`
	Tail       string `json:"tail"`
	Version    string `json:"version,omitempty"`
}

type BattlesnakeMove string

const (
	BattlesnakeMove_Up    BattlesnakeMove = "up"
	BattlesnakeMove_Down  BattlesnakeMove = "down"
	BattlesnakeMove_Left  BattlesnakeMove = "left"
	BattlesnakeMove_Right BattlesnakeMove = "right"
)

type BattlesnakeMoveResponse struct {
	Move  BattlesnakeMove `json:"move"`
	Shout string          `json:"shout,omitempty"`
}
