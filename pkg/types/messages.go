package types

// Request and response bodies of the simulation API (/simulation/...).
// Only the fields the dashboard reads are declared; unknown keys are ignored.

// SetupRequest is the body of POST /setup. Keys are camelCase on the wire.
type SetupRequest struct {
	Floors         int `json:"floors" yaml:"floors"`
	RoomsPerFloor  int `json:"roomsPerFloor" yaml:"roomsPerFloor"`
	InitialZombies int `json:"initialZombies" yaml:"initialZombies"`
}

type SetupResult struct {
	Success      bool `json:"success"`
	ZombiesAdded any  `json:"zombies_added,omitempty"`
}

// AdvanceResult is the body of POST /advance. NewZombieLocation is a
// [floor, room] pair. Error is set when the server refuses the turn.
type AdvanceResult struct {
	Turn               int    `json:"turn"`
	NewZombieGenerated bool   `json:"new_zombie_generated"`
	NewZombieLocation  []int  `json:"new_zombie_location"`
	GameOver           bool   `json:"game_over"`
	GameOverReason     string `json:"game_over_reason"`
	Error              string `json:"error,omitempty"`
}

// NewZombieAt returns the generated zombie's position, if any.
func (r AdvanceResult) NewZombieAt() (Position, bool) {
	if !r.NewZombieGenerated || len(r.NewZombieLocation) < 2 {
		return Position{}, false
	}
	return Position{Floor: r.NewZombieLocation[0], Room: r.NewZombieLocation[1]}, true
}

type AddZombieResult struct {
	Added bool `json:"added"`
	Floor int  `json:"floor"`
	Room  int  `json:"room"`
}

// AddPracticanteResult carries either a position or a soft error.
type AddPracticanteResult struct {
	Floor int    `json:"floor"`
	Room  int    `json:"room"`
	Error string `json:"error,omitempty"`
}

// RoomRequest is the body of POST /clean-room and POST /reset-sensor.
type RoomRequest = Position

type CleanRoomResult struct {
	Cleaned bool   `json:"cleaned"`
	Message string `json:"message,omitempty"`
}

type ResetSensorResult struct {
	Reset   bool   `json:"reset"`
	Message string `json:"message,omitempty"`
}

type ZombieGenerationResult struct {
	ZombieGenerationEnabled bool `json:"zombie_generation_enabled"`
}

type SecretWeaponResult struct {
	CleanedCount int `json:"cleaned_count"`
}

type AutoRunRequest struct {
	Run bool `json:"run"`
}

type AutoRunResult struct {
	AutoRunning bool `json:"auto_running"`
}

// Ack is the generic acknowledgement body.
type Ack struct {
	Success bool `json:"success"`
}
