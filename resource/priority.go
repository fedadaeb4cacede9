package resource

import "strings"

// Priority is the urgency hint a caller attaches to a remote read.
// It influences how fetch slots and IO bandwidth are granted relative to
// other loads in the process; it never changes result ordering or content.
type Priority int

const (
	// PriorityLow yields fetch slots and bandwidth to every other lane.
	PriorityLow Priority = iota
	// PriorityMedium is the default lane for background index builds.
	PriorityMedium
	// PriorityHigh bypasses IO throttling entirely. Used for loads that
	// block a serving path.
	PriorityHigh
)

// ParsePriority maps a configuration string to a Priority.
// Unknown or empty values map to PriorityHigh so that a missing hint can
// never slow a load down.
func ParsePriority(s string) Priority {
	switch strings.ToUpper(s) {
	case "LOW":
		return PriorityLow
	case "MEDIUM":
		return PriorityMedium
	case "HIGH":
		return PriorityHigh
	default:
		return PriorityHigh
	}
}

// String returns the configuration form of p.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "LOW"
	case PriorityMedium:
		return "MEDIUM"
	default:
		return "HIGH"
	}
}
