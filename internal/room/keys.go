package room

import "github.com/google/uuid"

// Store key layout. The code mapping is keyed by the normalized code so
// reservation and lookup agree on case.

const roomsIndexKey = "rooms:index"

func roomKey(id uuid.UUID) string { return "room:" + id.String() + ":meta" }

func stateKey(id uuid.UUID) string { return "room:" + id.String() + ":state" }

func statsKey(id uuid.UUID) string { return "room:" + id.String() + ":stats" }

func leaderboardKey(id uuid.UUID) string { return "room:" + id.String() + ":leaderboard" }

func codeKey(code string) string { return "roomcode:" + code }
