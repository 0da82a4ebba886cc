package host

import (
	"regexp"
	"sort"
)

var slotTimePattern = regexp.MustCompile(`\b([01]\d|2[0-3]):[0-5]\d\b`)

// CommonSlots returns the HH:MM times mentioned in every reply, sorted
// ascending. Replies are free-form friend answers; any time-of-day token
// counts as an offered slot. An empty reply set has no common slots.
func CommonSlots(replies []string) []string {
	if len(replies) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, reply := range replies {
		seen := make(map[string]bool)
		for _, slot := range slotTimePattern.FindAllString(reply, -1) {
			if !seen[slot] {
				seen[slot] = true
				counts[slot]++
			}
		}
	}

	var common []string
	for slot, n := range counts {
		if n == len(replies) {
			common = append(common, slot)
		}
	}
	sort.Strings(common)
	return common
}
