package domain

// Status is the two-value task completion state. The zero value is
// StatusIncomplete.
type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusComplete   Status = "complete"
)

func (s Status) String() string { return string(s) }

// ParseStatus maps a stored or wire token to a Status. Unknown tokens fall
// back to StatusIncomplete rather than failing; rows written by a newer
// schema must still load.
func ParseStatus(raw string) Status {
	if raw == string(StatusComplete) {
		return StatusComplete
	}
	return StatusIncomplete
}
