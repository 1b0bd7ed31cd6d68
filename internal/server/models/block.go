package models

import "time"

// Block is a directed claim that the vehicle with BlockerPlate is parked
// in the way of BlockedPlate. BlockerPlate is a snapshot of the creator's
// primary plate at creation time; plates are stored normalized. The
// (blocker_plate, blocked_plate) pair is unique and direction-sensitive.
type Block struct {
	ID           string
	BlockerID    string
	BlockerPlate string
	BlockedPlate string
	CreatedAt    time.Time
}

// BlockWithBlocker is a block enriched with the blocker's public profile
// and declared departure time, as listed by the blocked side.
type BlockWithBlocker struct {
	Block
	Blocker              PublicProfile
	BlockerOwnerType     string
	BlockerOwnerInfo     []byte
	BlockerDepartureTime string
}
