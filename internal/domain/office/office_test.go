package office

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnlockFloorDefaultLayout(t *testing.T) {
	o := New(DefaultWidth, DefaultHeight, DefaultRentPerFloor)
	require.NoError(t, o.UnlockFloor(0))

	assert.Equal(t, 1, o.UnlockedFloors())
	assert.Equal(t, Buffs{Productivity: 15}, o.TotalBuffs())
	assert.Equal(t, 1000, o.MonthlyRent())

	tile, ok := o.Tile(0, 1, 0)
	require.True(t, ok)
	assert.Equal(t, RoomDesk, tile.Type)

	// idempotent
	require.NoError(t, o.UnlockFloor(0))
	assert.Equal(t, 1, o.UnlockedFloors())
}

func TestUnlockFloorOutOfOrder(t *testing.T) {
	o := New(DefaultWidth, DefaultHeight, DefaultRentPerFloor)
	require.NoError(t, o.UnlockFloor(0))
	assert.ErrorIs(t, o.UnlockFloor(2), ErrFloorOutOfOrder)
	require.NoError(t, o.UnlockFloor(1))
	assert.Equal(t, 2000, o.MonthlyRent())
}

func TestPlaceRoomReplacesTile(t *testing.T) {
	o := New(DefaultWidth, DefaultHeight, DefaultRentPerFloor)
	require.NoError(t, o.UnlockFloor(0))

	require.NoError(t, o.PlaceRoom(0, 0, 0, RoomBreak))
	require.NoError(t, o.PlaceRoom(0, 4, 4, RoomMeeting))
	require.NoError(t, o.PlaceRoom(0, 5, 2, RoomTraining))

	// desks at (1,0),(2,0) remain
	assert.Equal(t, Buffs{Productivity: 10 + 8, Morale: 15 + 3, Skill: 10}, o.TotalBuffs())
}

func TestPlaceRoomFailures(t *testing.T) {
	o := New(DefaultWidth, DefaultHeight, DefaultRentPerFloor)
	require.NoError(t, o.UnlockFloor(0))
	before := o.TotalBuffs()

	assert.ErrorIs(t, o.PlaceRoom(1, 0, 0, RoomDesk), ErrFloorLocked)
	assert.ErrorIs(t, o.PlaceRoom(0, DefaultWidth, 0, RoomDesk), ErrOutOfBounds)
	assert.ErrorIs(t, o.PlaceRoom(0, 0, -1, RoomDesk), ErrOutOfBounds)
	assert.ErrorIs(t, o.PlaceRoom(0, 3, 3, RoomType("Gym")), ErrUnknownRoomType)

	assert.Equal(t, before, o.TotalBuffs())
}

func TestLayoutRestore(t *testing.T) {
	o := New(6, 4, 500)
	require.NoError(t, o.UnlockFloor(0))
	require.NoError(t, o.UnlockFloor(1))
	require.NoError(t, o.PlaceRoom(1, 5, 3, RoomServer))
	require.NoError(t, o.PlaceRoom(0, 0, 0, RoomEmpty))

	layout := o.Layout()
	restored, err := Restore(6, 4, 500, o.UnlockedFloors(), layout)
	require.NoError(t, err)

	assert.Equal(t, o.TotalBuffs(), restored.TotalBuffs())
	assert.Equal(t, o.MonthlyRent(), restored.MonthlyRent())
	assert.Equal(t, layout, restored.Layout())

	_, err = Restore(6, 4, 500, 1, []RoomTile{{Floor: 3, Type: RoomDesk}})
	assert.ErrorIs(t, err, ErrFloorLocked)
}
