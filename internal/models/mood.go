package models

import (
	"fmt"
	"strings"
)

// MoodType is one of the five mood categories a user can log.
type MoodType string

const (
	MoodGreat    MoodType = "great"
	MoodGood     MoodType = "good"
	MoodOkay     MoodType = "okay"
	MoodBad      MoodType = "bad"
	MoodTerrible MoodType = "terrible"
)

// MoodOption holds the display and charting attributes of a mood category.
type MoodOption struct {
	Type  MoodType `json:"type"`
	Emoji string   `json:"emoji"`
	Label string   `json:"label"`
	Color string   `json:"color"`
	Value int      `json:"value"` // for charting (1-5)
}

// MoodOptions lists every mood category from best to worst.
var MoodOptions = []MoodOption{
	{Type: MoodGreat, Emoji: "😄", Label: "Great", Color: "#4CAF50", Value: 5},
	{Type: MoodGood, Emoji: "🙂", Label: "Good", Color: "#8BC34A", Value: 4},
	{Type: MoodOkay, Emoji: "😐", Label: "Okay", Color: "#FFC107", Value: 3},
	{Type: MoodBad, Emoji: "😔", Label: "Bad", Color: "#FF9800", Value: 2},
	{Type: MoodTerrible, Emoji: "😢", Label: "Terrible", Color: "#F44336", Value: 1},
}

// ParseMood converts a user or storage supplied tag into a MoodType.
// Matching is case-insensitive; unknown tags are rejected.
func ParseMood(s string) (MoodType, error) {
	m := MoodType(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown mood %q (expected one of %s)", s, strings.Join(MoodNames(), ", "))
	}
	return m, nil
}

// MoodNames returns the tags of every mood category, best first.
func MoodNames() []string {
	names := make([]string, len(MoodOptions))
	for i, opt := range MoodOptions {
		names[i] = string(opt.Type)
	}
	return names
}

// Valid reports whether m is one of the known categories.
func (m MoodType) Valid() bool {
	for _, opt := range MoodOptions {
		if opt.Type == m {
			return true
		}
	}
	return false
}

// Option returns the attributes of m. MoodType values only enter the
// program through ParseMood or validated JSON, so an unknown value here is
// a programming error.
func (m MoodType) Option() MoodOption {
	for _, opt := range MoodOptions {
		if opt.Type == m {
			return opt
		}
	}
	panic(fmt.Sprintf("models: unknown mood type %q", string(m)))
}

// Value returns the 1..5 weight of m.
func (m MoodType) Value() int {
	return m.Option().Value
}

func (m MoodType) String() string {
	return string(m)
}

// UnmarshalText validates mood tags read from JSON.
func (m *MoodType) UnmarshalText(text []byte) error {
	parsed, err := ParseMood(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MoodByValue returns the category whose weight is closest to value.
func MoodByValue(value float64) MoodOption {
	best := MoodOptions[0]
	bestDiff := -1.0
	for _, opt := range MoodOptions {
		diff := float64(opt.Value) - value
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best = opt
			bestDiff = diff
		}
	}
	return best
}
