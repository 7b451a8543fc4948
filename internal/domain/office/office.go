// Package office models the building: floors of room tiles and the buffs they grant.
// This package is PURE and must NOT import any infrastructure packages.
package office

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrFloorLocked is returned when touching a floor that has not been unlocked.
	ErrFloorLocked = errors.New("floor is locked")
	// ErrFloorOutOfOrder is returned when floors are not unlocked bottom-up.
	ErrFloorOutOfOrder = errors.New("floors must be unlocked in order")
	// ErrOutOfBounds is returned for coordinates outside the floor grid.
	ErrOutOfBounds = errors.New("coordinates out of bounds")
	// ErrUnknownRoomType is returned for room types missing from the buff table.
	ErrUnknownRoomType = errors.New("unknown room type")
)

const (
	DefaultWidth        = 10
	DefaultHeight       = 5
	DefaultRentPerFloor = 1000
)

// RoomType is what occupies a tile.
type RoomType string

const (
	RoomEmpty          RoomType = "Empty"
	RoomDesk           RoomType = "Desk"
	RoomMeeting        RoomType = "MeetingRoom"
	RoomBreak          RoomType = "BreakRoom"
	RoomServer         RoomType = "ServerRoom"
	RoomTraining       RoomType = "TrainingRoom"
	RoomHROffice       RoomType = "HROffice"
	RoomExecutiveSuite RoomType = "ExecutiveSuite"
)

// Buffs are the stat bonuses a room grants.
type Buffs struct {
	Productivity int `json:"productivity"`
	Morale       int `json:"morale"`
	Skill        int `json:"skill"`
}

var buffTable = map[RoomType]Buffs{
	RoomEmpty:          {},
	RoomDesk:           {Productivity: 5},
	RoomMeeting:        {Productivity: 8, Morale: 3},
	RoomBreak:          {Morale: 15},
	RoomServer:         {Productivity: 12},
	RoomTraining:       {Skill: 10},
	RoomHROffice:       {Morale: 8},
	RoomExecutiveSuite: {Productivity: 5, Morale: 5},
}

// BuffsFor looks up the buff table.
func BuffsFor(t RoomType) (Buffs, bool) {
	b, ok := buffTable[t]
	return b, ok
}

// RoomTile is one cell of a floor grid. Tiles are replaced, never mutated.
type RoomTile struct {
	Floor int      `json:"floor"`
	X     int      `json:"x"`
	Y     int      `json:"y"`
	Type  RoomType `json:"type"`
	Buffs
}

// NewRoomTile builds a tile with the buffs of its room type.
func NewRoomTile(floor, x, y int, t RoomType) RoomTile {
	return RoomTile{Floor: floor, X: x, Y: y, Type: t, Buffs: buffTable[t]}
}

// Office holds every unlocked floor.
type Office struct {
	width        int
	height       int
	rentPerFloor int
	floors       [][][]RoomTile // floor -> x -> y
}

// New creates an office with no floors unlocked yet.
func New(width, height, rentPerFloor int) *Office {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Office{width: width, height: height, rentPerFloor: rentPerFloor}
}

// Width returns the grid width of every floor.
func (o *Office) Width() int { return o.width }

// Height returns the grid height of every floor.
func (o *Office) Height() int { return o.height }

// UnlockedFloors is the number of floors in use.
func (o *Office) UnlockedFloors() int { return len(o.floors) }

// UnlockFloor fills the next floor with empty tiles and a few starter desks.
// Unlocking an already unlocked floor is a no-op.
func (o *Office) UnlockFloor(index int) error {
	if index >= 0 && index < len(o.floors) {
		return nil
	}
	if index != len(o.floors) {
		return fmt.Errorf("%w: next floor is %d, got %d", ErrFloorOutOfOrder, len(o.floors), index)
	}

	o.floors = append(o.floors, o.emptyFloor(index))
	for x := 0; x < 3 && x < o.width; x++ {
		o.floors[index][x][0] = NewRoomTile(index, x, 0, RoomDesk)
	}
	return nil
}

func (o *Office) emptyFloor(index int) [][]RoomTile {
	grid := make([][]RoomTile, o.width)
	for x := range grid {
		grid[x] = make([]RoomTile, o.height)
		for y := range grid[x] {
			grid[x][y] = NewRoomTile(index, x, y, RoomEmpty)
		}
	}
	return grid
}

// PlaceRoom replaces the tile at (x, y) on floor.
func (o *Office) PlaceRoom(floor, x, y int, t RoomType) error {
	if floor < 0 || floor >= len(o.floors) {
		return ErrFloorLocked
	}
	if x < 0 || x >= o.width || y < 0 || y >= o.height {
		return ErrOutOfBounds
	}
	if _, ok := buffTable[t]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRoomType, t)
	}
	o.floors[floor][x][y] = NewRoomTile(floor, x, y, t)
	return nil
}

// Tile returns the tile at (x, y) on floor.
func (o *Office) Tile(floor, x, y int) (RoomTile, bool) {
	if floor < 0 || floor >= len(o.floors) || x < 0 || x >= o.width || y < 0 || y >= o.height {
		return RoomTile{}, false
	}
	return o.floors[floor][x][y], true
}

// TotalBuffs sums every tile on every unlocked floor.
func (o *Office) TotalBuffs() Buffs {
	var total Buffs
	for _, floor := range o.floors {
		for _, column := range floor {
			for _, tile := range column {
				total.Productivity += tile.Productivity
				total.Morale += tile.Morale
				total.Skill += tile.Skill
			}
		}
	}
	return total
}

// MonthlyRent is unlocked floors times the per-floor rent.
func (o *Office) MonthlyRent() int {
	return len(o.floors) * o.rentPerFloor
}

// Layout returns every non-empty tile, ordered by floor, then x, then y.
func (o *Office) Layout() []RoomTile {
	var tiles []RoomTile
	for _, floor := range o.floors {
		for _, column := range floor {
			for _, tile := range column {
				if tile.Type != RoomEmpty {
					tiles = append(tiles, tile)
				}
			}
		}
	}
	sort.SliceStable(tiles, func(i, j int) bool {
		a, b := tiles[i], tiles[j]
		if a.Floor != b.Floor {
			return a.Floor < b.Floor
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	return tiles
}

// Restore rebuilds an office from a saved floor count and layout.
// Floors are recreated empty; only the tiles in layout are placed.
func Restore(width, height, rentPerFloor, floors int, layout []RoomTile) (*Office, error) {
	o := New(width, height, rentPerFloor)
	for i := 0; i < floors; i++ {
		o.floors = append(o.floors, o.emptyFloor(i))
	}
	for _, tile := range layout {
		if err := o.PlaceRoom(tile.Floor, tile.X, tile.Y, tile.Type); err != nil {
			return nil, fmt.Errorf("restore tile (%d,%d,%d): %w", tile.Floor, tile.X, tile.Y, err)
		}
	}
	return o, nil
}
