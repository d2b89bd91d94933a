package core

// TimeRange selects the window for top artists and tracks.
type TimeRange string

const (
	ShortTerm  TimeRange = "short_term"
	MediumTerm TimeRange = "medium_term"
	LongTerm   TimeRange = "long_term"
)

// TimeRanges lists the ranges from shortest to longest.
var TimeRanges = []TimeRange{ShortTerm, MediumTerm, LongTerm}

// ParseTimeRange accepts the API names and the short forms short, medium, long.
func ParseTimeRange(s string) (TimeRange, bool) {
	switch s {
	case "short", string(ShortTerm):
		return ShortTerm, true
	case "medium", "", string(MediumTerm):
		return MediumTerm, true
	case "long", string(LongTerm):
		return LongTerm, true
	}
	return "", false
}

// Label is a human readable name for the range.
func (r TimeRange) Label() string {
	switch r {
	case ShortTerm:
		return "Last 4 weeks"
	case LongTerm:
		return "All time"
	default:
		return "Last 6 months"
	}
}
