package model

// PriorityLevel is the severity of a notification. Levels are only ever compared by rank.
type PriorityLevel string

// Priority levels, lowest first.
const (
	PriorityLow    PriorityLevel = "low"
	PriorityMedium PriorityLevel = "medium"
	PriorityHigh   PriorityLevel = "high"
	PriorityUrgent PriorityLevel = "urgent"
)

var priorityRanks = map[PriorityLevel]int{
	PriorityLow:    0,
	PriorityMedium: 1,
	PriorityHigh:   2,
	PriorityUrgent: 3,
}

// Rank returns the ordinal position of the priority level, or -1 if the level is unknown.
func (p PriorityLevel) Rank() int {
	rank, ok := priorityRanks[p]
	if !ok {
		return -1
	}
	return rank
}

// Valid returns true if the priority level is part of the schema.
func (p PriorityLevel) Valid() bool {
	_, ok := priorityRanks[p]
	return ok
}

// AtLeast returns true if p ranks at or above other.
func (p PriorityLevel) AtLeast(other PriorityLevel) bool {
	return p.Rank() >= other.Rank()
}

// MaxPriority returns the higher ranked of two priority levels.
func MaxPriority(a, b PriorityLevel) PriorityLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}
