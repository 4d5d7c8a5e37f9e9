// Package compatibility decides whether an enabler fits an event's
// requirements. Only a venue conflict or an unplanned category blocks a
// booking; every other mismatch is advisory so the host can override it.
package compatibility

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"enablers/internal/domain/enabler"
	"enablers/internal/domain/planning"
)

// Requirements is the subset of an event the evaluator looks at.
type Requirements struct {
	Location           string
	EventDate          time.Time
	GuestMin           int
	GuestMax           int
	BudgetMax          float64
	VenueStatus        planning.VenueStatus
	VenueConfirmed     bool
	VenueEnablerID     string
	SelectedCategories []string
}

// RequirementsFor projects a host event. A bare guest count stands in for
// both guest bounds.
func RequirementsFor(ev *planning.Event) Requirements {
	req := Requirements{
		Location:           ev.Location,
		EventDate:          ev.Date,
		GuestMin:           ev.GuestMin,
		GuestMax:           ev.GuestMax,
		BudgetMax:          ev.Budget,
		VenueStatus:        ev.Status(),
		VenueConfirmed:     ev.VenueConfirmed,
		VenueEnablerID:     ev.VenueEnablerID,
		SelectedCategories: slices.Clone(ev.SelectedCategories),
	}
	if req.GuestMax == 0 && ev.GuestCount > 0 {
		req.GuestMax = ev.GuestCount
	}
	if req.GuestMin == 0 && ev.GuestCount > 0 {
		req.GuestMin = ev.GuestCount
	}
	return req
}

// Evaluate runs every rule independently and folds the results into a verdict.
func Evaluate(e enabler.Enabler, req Requirements) Verdict {
	v := Verdict{Badges: []Badge{}, Issues: []Issue{}}
	v.settle()

	checkVenue(&v, e, req)
	checkCategory(&v, e, req)
	checkServiceArea(&v, e, req)
	checkGuests(&v, e, req)
	checkBudget(&v, e, req)
	if e.AverageRating > 0 {
		v.AddBadge(Badge{Type: BadgeInfo, Icon: "star", Text: fmt.Sprintf("Rated %.1f", e.AverageRating)})
	}
	return v
}

func checkVenue(v *Verdict, e enabler.Enabler, req Requirements) {
	if e.IsVenue() {
		switch {
		case req.VenueEnablerID == e.ID && e.ID != "":
			v.AddBadge(Badge{Type: BadgePositive, Icon: "building", Text: "Your selected venue"})
		case req.VenueConfirmed || req.VenueEnablerID != "":
			v.AddIssue(IssueVenue, "This event already has a venue")
			v.AddBadge(Badge{Type: BadgeNegative, Icon: "x-circle", Text: "Venue already selected"})
		default:
			v.AddBadge(Badge{Type: BadgePositive, Icon: "building", Text: "Can host your event"})
		}
		return
	}
	if req.VenueStatus == planning.PendingVenue && enabler.IsLocationDependent(e.Category) {
		v.AddBadge(Badge{Type: BadgeWarning, Icon: "alert-triangle", Text: "Venue not confirmed yet"})
	}
}

func checkCategory(v *Verdict, e enabler.Enabler, req Requirements) {
	if len(req.SelectedCategories) == 0 {
		return
	}
	want := enabler.NormalizeCategory(e.Category)
	for _, c := range req.SelectedCategories {
		if enabler.NormalizeCategory(c) == want {
			v.AddBadge(Badge{Type: BadgePositive, Icon: "check-circle", Text: "Part of your plan"})
			return
		}
	}
	v.AddIssue(IssueCategory, fmt.Sprintf("%s is not among the services planned for this event", e.Category))
	v.AddBadge(Badge{Type: BadgeNegative, Icon: "x-circle", Text: "Not in your plan"})
}

func checkServiceArea(v *Verdict, e enabler.Enabler, req Requirements) {
	if strings.TrimSpace(req.Location) == "" || strings.TrimSpace(e.ServiceArea) == "" {
		return
	}
	if e.ServesLocation(req.Location) {
		v.AddBadge(Badge{Type: BadgePositive, Icon: "map-pin", Text: "Serves " + strings.TrimSpace(e.ServiceArea)})
		return
	}
	v.AddIssue(IssueLocation, fmt.Sprintf("Serves %s, event is in %s", e.ServiceArea, req.Location))
	v.AddBadge(Badge{Type: BadgeWarning, Icon: "map-pin", Text: "Outside service area"})
}

func checkGuests(v *Verdict, e enabler.Enabler, req Requirements) {
	if req.GuestMax <= 0 && req.GuestMin <= 0 {
		return
	}
	minGuests, maxGuests := e.GuestBounds()
	switch {
	case maxGuests > 0 && req.GuestMax > maxGuests:
		v.AddBadge(Badge{Type: BadgeWarning, Icon: "users", Text: fmt.Sprintf("Up to %d guests", maxGuests)})
	case minGuests > 0 && req.GuestMax > 0 && req.GuestMax < minGuests:
		v.AddBadge(Badge{Type: BadgeWarning, Icon: "users", Text: fmt.Sprintf("Minimum %d guests", minGuests)})
	case maxGuests > 0 || minGuests > 0:
		v.AddBadge(Badge{Type: BadgePositive, Icon: "users", Text: "Fits your guest count"})
	}
}

func checkBudget(v *Verdict, e enabler.Enabler, req Requirements) {
	if req.BudgetMax <= 0 {
		return
	}
	lowest, _ := e.PriceBounds()
	if lowest <= 0 {
		return
	}
	if lowest <= req.BudgetMax {
		v.AddBadge(Badge{Type: BadgePositive, Icon: "dollar-sign", Text: "Within budget"})
		return
	}
	v.AddBadge(Badge{Type: BadgeWarning, Icon: "dollar-sign", Text: "Above budget"})
}
