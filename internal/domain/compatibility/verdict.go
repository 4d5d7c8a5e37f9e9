package compatibility

type OverallStatus string

const (
	StatusGood         OverallStatus = "good"
	StatusWarning      OverallStatus = "warning"
	StatusIncompatible OverallStatus = "incompatible"
)

type BadgeType string

const (
	BadgePositive BadgeType = "positive"
	BadgeNegative BadgeType = "negative"
	BadgeWarning  BadgeType = "warning"
	BadgeInfo     BadgeType = "info"
)

// Issue keys. Venue and category issues are hard; the rest are advisory.
const (
	IssueVenue    = "venue"
	IssueCategory = "category"
	IssueLocation = "location"
)

var hardIssues = map[string]struct{}{
	IssueVenue:    {},
	IssueCategory: {},
}

// IsHard reports whether an issue key blocks the booking.
func IsHard(key string) bool {
	_, ok := hardIssues[key]
	return ok
}

type Badge struct {
	Type BadgeType `json:"type"`
	Icon string    `json:"icon"`
	Text string    `json:"text"`
}

type Issue struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

type Overall struct {
	Compatible bool          `json:"compatible"`
	Status     OverallStatus `json:"status"`
}

type Verdict struct {
	Overall Overall `json:"overall"`
	Badges  []Badge `json:"badges"`
	Issues  []Issue `json:"issues"`
}

// AddBadge appends a badge and refreshes the overall status.
func (v *Verdict) AddBadge(b Badge) {
	v.Badges = append(v.Badges, b)
	v.settle()
}

// AddIssue appends an issue and refreshes the overall status.
func (v *Verdict) AddIssue(key, message string) {
	v.Issues = append(v.Issues, Issue{Key: key, Message: message})
	v.settle()
}

// HasIssue reports whether an issue with key was raised.
func (v Verdict) HasIssue(key string) bool {
	for _, is := range v.Issues {
		if is.Key == key {
			return true
		}
	}
	return false
}

func (v *Verdict) settle() {
	compatible := true
	for _, is := range v.Issues {
		if IsHard(is.Key) {
			compatible = false
			break
		}
	}
	status := StatusGood
	switch {
	case !compatible:
		status = StatusIncompatible
	case len(v.Issues) > 0:
		status = StatusWarning
	default:
		for _, b := range v.Badges {
			if b.Type == BadgeWarning || b.Type == BadgeNegative {
				status = StatusWarning
				break
			}
		}
	}
	v.Overall = Overall{Compatible: compatible, Status: status}
}
