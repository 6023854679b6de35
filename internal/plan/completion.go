package plan

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeDayLabel trims surrounding whitespace and applies Unicode NFC
// normalization to a day label.
//
// All set-membership comparisons on day labels (completion ledger, free-day
// dedupe) go through this function so that visually identical labels with
// different code point sequences compare equal.
func NormalizeDayLabel(label string) string {
	return norm.NFC.String(strings.TrimSpace(label))
}

// NormalizeFreeDays returns the distinct day labels in first-seen order.
// Empty labels are dropped. Always returns a non-nil slice.
func NormalizeFreeDays(days []string) []string {
	out := make([]string, 0, len(days))
	seen := make(map[string]bool, len(days))
	for _, d := range days {
		label := NormalizeDayLabel(d)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}

// DayCompleted reports whether the given day label is in the completion
// ledger, under normalized comparison.
func (w *WeekPlan) DayCompleted(label string) bool {
	if w == nil {
		return false
	}
	label = NormalizeDayLabel(label)
	for _, d := range w.CompletedDays {
		if NormalizeDayLabel(d) == label {
			return true
		}
	}
	return false
}

// MarkDayCompleted adds a day label to the completion ledger.
// Set semantics: marking an already-completed day is a no-op.
// Returns true when the ledger actually changed.
func (w *WeekPlan) MarkDayCompleted(label string) bool {
	if w == nil {
		return false
	}
	label = NormalizeDayLabel(label)
	if label == "" || w.DayCompleted(label) {
		return false
	}
	w.CompletedDays = append(w.CompletedDays, label)
	return true
}

// IsWeekComplete reports whether every training day has been completed.
// An empty plan is never complete.
func (w *WeekPlan) IsWeekComplete() bool {
	if w == nil || len(w.Days) == 0 {
		return false
	}
	return len(dedupe(w.CompletedDays)) == len(w.Days)
}

// ClampCompletedDays drops ledger entries that no longer correspond to a
// day present in the plan, and removes duplicates.
//
// Called after an edit replaces the committed plan: the ledger must stay a
// subset of the labels in Days.
func (w *WeekPlan) ClampCompletedDays() {
	if w == nil {
		return
	}
	present := make(map[string]bool, len(w.Days))
	for _, d := range w.Days {
		present[NormalizeDayLabel(d.Day)] = true
	}
	kept := make([]string, 0, len(w.CompletedDays))
	seen := make(map[string]bool, len(w.CompletedDays))
	for _, label := range w.CompletedDays {
		label = NormalizeDayLabel(label)
		if !present[label] || seen[label] {
			continue
		}
		seen[label] = true
		kept = append(kept, label)
	}
	w.CompletedDays = kept
}

func dedupe(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		l = NormalizeDayLabel(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
