package view

import (
	"errors"
	"fmt"

	"github.com/DoyleJ11/zombie-dashboard/pkg/types"
)

var ErrInvalidSetup = errors.New("invalid building setup")

const (
	MinFloors        = 1
	MaxFloors        = 10
	MinRoomsPerFloor = 1
	MaxRoomsPerFloor = 10
	MaxZombies       = 20
)

// DefaultSetup is what the setup form starts with.
func DefaultSetup() types.SetupRequest {
	return types.SetupRequest{Floors: 3, RoomsPerFloor: 5, InitialZombies: 1}
}

// MaxInitialZombies caps initial zombies at one per room and at most 20.
func MaxInitialZombies(floors, rooms int) int {
	return min(floors*rooms, MaxZombies)
}

// Clamp pulls every field into range, floors and rooms first since they bound
// the zombie count.
func Clamp(req types.SetupRequest) types.SetupRequest {
	req.Floors = clamp(req.Floors, MinFloors, MaxFloors)
	req.RoomsPerFloor = clamp(req.RoomsPerFloor, MinRoomsPerFloor, MaxRoomsPerFloor)
	req.InitialZombies = clamp(req.InitialZombies, 0, MaxInitialZombies(req.Floors, req.RoomsPerFloor))
	return req
}

func Validate(req types.SetupRequest) error {
	switch {
	case req.Floors < MinFloors || req.Floors > MaxFloors:
		return fmt.Errorf("%w: floors must be between %d and %d", ErrInvalidSetup, MinFloors, MaxFloors)
	case req.RoomsPerFloor < MinRoomsPerFloor || req.RoomsPerFloor > MaxRoomsPerFloor:
		return fmt.Errorf("%w: rooms per floor must be between %d and %d", ErrInvalidSetup, MinRoomsPerFloor, MaxRoomsPerFloor)
	}
	if hi := MaxInitialZombies(req.Floors, req.RoomsPerFloor); req.InitialZombies < 0 || req.InitialZombies > hi {
		return fmt.Errorf("%w: initial zombies must be between 0 and %d", ErrInvalidSetup, hi)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
