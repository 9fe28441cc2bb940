package types

import "fmt"

// Snapshot is the full simulation state returned by GET /simulation/state.
// It is owned by the simulation service and replaced wholesale on every fetch.
//
//	building:                  Floor[] (index = floor)
//	practicante:               {floor, room} | null
//	turn:                      number
//	game_over:                 boolean
//	game_over_reason:          "practicante_capturado" | other | null
//	zombie_generation_enabled: boolean
//	total_rooms:               number
//	infested_rooms:            number
type Snapshot struct {
	Building                []Floor   `json:"building"`
	Practicante             *Position `json:"practicante"`
	Turn                    int       `json:"turn"`
	GameOver                bool      `json:"game_over"`
	GameOverReason          *string   `json:"game_over_reason"`
	ZombieGenerationEnabled bool      `json:"zombie_generation_enabled"`
	TotalRooms              int       `json:"total_rooms"`
	InfestedRooms           int       `json:"infested_rooms"`
}

// Floor is the ordered list of rooms on one floor.
type Floor []Room

type Room struct {
	Floor       int  `json:"floor"`
	Room        int  `json:"room"`
	IsStaircase bool `json:"is_staircase"`
	HasZombies  bool `json:"has_zombies"`
	SensorAlert bool `json:"sensor_alert"`
}

// Position addresses a room by floor index and room number.
type Position struct {
	Floor int `json:"floor"`
	Room  int `json:"room"`
}

// ReasonPracticanteCaptured is the game_over_reason sent when the practicante
// shares a room with zombies.
const ReasonPracticanteCaptured = "practicante_capturado"

// Reason returns the game over reason or "" when the server sent null.
func (s *Snapshot) Reason() string {
	if s == nil || s.GameOverReason == nil {
		return ""
	}
	return *s.GameOverReason
}

// Has reports whether the snapshot contains a room at p.
func (s *Snapshot) Has(p Position) bool {
	if s == nil || p.Floor < 0 || p.Floor >= len(s.Building) {
		return false
	}
	for _, r := range s.Building[p.Floor] {
		if r.Room == p.Room {
			return true
		}
	}
	return false
}

// Label is the display name of the room: floor index + 1 followed by the room
// number padded to two digits ("103"), or "E<floor>" for the staircase (room 0).
func (p Position) Label() string {
	if p.Room == 0 {
		return fmt.Sprintf("E%d", p.Floor+1)
	}
	return fmt.Sprintf("%d%02d", p.Floor+1, p.Room)
}

func (r Room) Position() Position { return Position{Floor: r.Floor, Room: r.Room} }
