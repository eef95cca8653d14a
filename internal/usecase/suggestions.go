package usecase

import (
	"sort"
	"time"

	"stablebook-service/internal/domain/entity"
)

// Suggestion search bounds. Offsets are multiples of the step: up to 8 hours
// forward and 4 hours back from the requested start, never suggesting starts
// at or after 22:00 or before 06:00 local time.
const (
	suggestionStep        = 30 * time.Minute
	suggestionMaxForward  = 16
	suggestionMaxBackward = 8
	suggestionEarliestHr  = 6
	suggestionLatestHr    = 22

	// DefaultMaxSuggestions bounds how many alternatives are proposed.
	DefaultMaxSuggestions = 3
)

// SlotSuggestion is one proposed alternative window that currently passes the
// capacity check.
type SlotSuggestion struct {
	StartTime         time.Time `json:"startTime"`
	EndTime           time.Time `json:"endTime"`
	RemainingCapacity int       `json:"remainingCapacity"`
}

// FindSuggestedSlots proposes up to maxSuggestions alternative windows of the
// same duration as the rejected request, nearest-first by distance from the
// requested start. It works purely on the slot snapshot handed to it — the
// same one the rejected check used — and performs no I/O; a booking attempt
// against a suggestion still goes through the full transactional check.
// Results are deterministic for identical inputs.
func FindSuggestedSlots(slot *entity.FacilityDaySlot, requestedStart, requestedEnd time.Time, horseCount, maxCapacity, maxSuggestions int, loc *time.Location) []SlotSuggestion {
	if maxSuggestions <= 0 {
		maxSuggestions = DefaultMaxSuggestions
	}
	duration := requestedEnd.Sub(requestedStart)

	candidates := make([]SlotSuggestion, 0, suggestionMaxForward+suggestionMaxBackward)

	for offset := 1; offset <= suggestionMaxForward; offset++ {
		start := requestedStart.Add(time.Duration(offset) * suggestionStep)
		if start.In(loc).Hour() >= suggestionLatestHr {
			break
		}
		res := ValidateCapacity(slot, start, start.Add(duration), horseCount, maxCapacity, "")
		if res.Valid {
			candidates = append(candidates, SlotSuggestion{
				StartTime:         start,
				EndTime:           start.Add(duration),
				RemainingCapacity: res.RemainingCapacity,
			})
		}
	}

	for offset := 1; offset <= suggestionMaxBackward; offset++ {
		start := requestedStart.Add(-time.Duration(offset) * suggestionStep)
		if start.In(loc).Hour() < suggestionEarliestHr {
			break
		}
		res := ValidateCapacity(slot, start, start.Add(duration), horseCount, maxCapacity, "")
		if res.Valid {
			candidates = append(candidates, SlotSuggestion{
				StartTime:         start,
				EndTime:           start.Add(duration),
				RemainingCapacity: res.RemainingCapacity,
			})
		}
	}

	// Nearest to the requested start wins; the stable sort keeps the
	// forward candidate first when a forward and a backward offset tie.
	sort.SliceStable(candidates, func(i, j int) bool {
		di := absDuration(candidates[i].StartTime.Sub(requestedStart))
		dj := absDuration(candidates[j].StartTime.Sub(requestedStart))
		return di < dj
	})

	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	return candidates
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
