// Package tabs holds the request/response types exchanged between the
// planner and the browser extension, and the closed value sets they use.
package tabs

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Style reweights candidate scores toward a kind of content.
type Style string

const (
	StyleQuick    Style = "quick"
	StyleResearch Style = "research"
	StyleVideos   Style = "videos"
	StyleMix      Style = "mix"
)

var styles = []Style{StyleQuick, StyleResearch, StyleVideos, StyleMix}

// ParseStyle maps a raw value onto a Style. Unknown and empty values are mix.
func ParseStyle(raw string) Style {
	s := Style(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range styles {
		if s == known {
			return s
		}
	}
	return StyleMix
}

// Color is a tab group color understood by the browser.
type Color string

const (
	ColorGrey   Color = "grey"
	ColorBlue   Color = "blue"
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorPink   Color = "pink"
	ColorPurple Color = "purple"
	ColorCyan   Color = "cyan"
	ColorOrange Color = "orange"
)

// DefaultColor is used whenever a color is missing or not recognised.
const DefaultColor = ColorBlue

// Colors lists every valid group color in prompt order.
var Colors = []Color{ColorGrey, ColorBlue, ColorRed, ColorYellow, ColorGreen, ColorPink, ColorPurple, ColorCyan, ColorOrange}

// ParseColor returns the matching Color, or DefaultColor.
func ParseColor(raw string) Color {
	c := Color(raw)
	for _, known := range Colors {
		if c == known {
			return c
		}
	}
	return DefaultColor
}

const (
	MinTabs = 3
	MaxTabs = 30
)

// Instruction is a user request. MaxTabs is nil when the caller did not ask
// for a specific count, which is different from asking for zero.
type Instruction struct {
	Goal    string `json:"goal"`
	Style   Style  `json:"style,omitempty"`
	MaxTabs *int   `json:"maxTabs,omitempty"`
}

// Query is the trimmed goal sent to providers.
func (in Instruction) Query() string { return strings.TrimSpace(in.Goal) }

// EffectiveStyle resolves an empty or unknown style to mix.
func (in Instruction) EffectiveStyle() Style { return ParseStyle(string(in.Style)) }

// Limit returns the clamped tab count, using def when MaxTabs is unset.
func (in Instruction) Limit(def int) int {
	n := def
	if in.MaxTabs != nil {
		n = *in.MaxTabs
	}
	return Clamp(n)
}

// WithMaxTabs returns a copy with MaxTabs set to def if it was unset.
func (in Instruction) WithMaxTabs(def int) Instruction {
	if in.MaxTabs == nil {
		in.MaxTabs = &def
	}
	return in
}

// Clamp bounds n to [MinTabs, MaxTabs].
func Clamp(n int) int {
	return max(MinTabs, min(n, MaxTabs))
}

// GeneratedTab is one tab the extension opens.
type GeneratedTab struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// GenerateResponse is everything the extension needs to materialise a group.
type GenerateResponse struct {
	Plan       string         `json:"plan"`
	Tabs       []GeneratedTab `json:"tabs"`
	GroupTitle string         `json:"groupTitle"`
	Color      Color          `json:"color,omitempty"`
}

const groupTitleGoalLen = 40

// GroupTitle builds "<Style>: <goal>" with the goal whitespace-collapsed and
// cut to 40 characters.
func GroupTitle(in Instruction) string {
	goal := strings.Join(strings.Fields(in.Goal), " ")
	if utf8.RuneCountInString(goal) > groupTitleGoalLen {
		goal = string([]rune(goal)[:groupTitleGoalLen])
	}
	return capitalize(string(in.EffectiveStyle())) + ": " + goal
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
