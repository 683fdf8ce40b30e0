package tabs

import (
	"encoding/json"
	"testing"
)

func intPtr(n int) *int { return &n }

func TestClamp(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   int
		want int
	}{
		{name: "zero raises to minimum", in: 0, want: 3},
		{name: "negative raises to minimum", in: -4, want: 3},
		{name: "within range", in: 12, want: 12},
		{name: "huge lowers to maximum", in: 1000, want: 30},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Clamp(tt.in); got != tt.want {
				t.Fatalf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestInstructionLimitDistinguishesUnsetFromZero(t *testing.T) {
	t.Parallel()
	if got := (Instruction{Goal: "go"}).Limit(10); got != 10 {
		t.Fatalf("unset limit = %d, want 10", got)
	}
	if got := (Instruction{Goal: "go", MaxTabs: intPtr(0)}).Limit(10); got != 3 {
		t.Fatalf("zero limit = %d, want 3", got)
	}
	if got := (Instruction{Goal: "go", MaxTabs: intPtr(1000)}).Limit(10); got != 30 {
		t.Fatalf("huge limit = %d, want 30", got)
	}
}

func TestWithMaxTabsKeepsExplicitValue(t *testing.T) {
	t.Parallel()
	in := Instruction{Goal: "go", MaxTabs: intPtr(4)}.WithMaxTabs(12)
	if *in.MaxTabs != 4 {
		t.Fatalf("explicit max overwritten: %d", *in.MaxTabs)
	}
	in = Instruction{Goal: "go"}.WithMaxTabs(12)
	if in.MaxTabs == nil || *in.MaxTabs != 12 {
		t.Fatalf("default not applied: %v", in.MaxTabs)
	}
}

func TestParseStyleAndColor(t *testing.T) {
	t.Parallel()
	if got := ParseStyle(" Research "); got != StyleResearch {
		t.Fatalf("ParseStyle = %q", got)
	}
	if got := ParseStyle("podcasts"); got != StyleMix {
		t.Fatalf("unknown style = %q, want mix", got)
	}
	if got := ParseColor("purple"); got != ColorPurple {
		t.Fatalf("ParseColor = %q", got)
	}
	if got := ParseColor("magenta"); got != DefaultColor {
		t.Fatalf("unknown color = %q, want %q", got, DefaultColor)
	}
}

func TestGroupTitle(t *testing.T) {
	t.Parallel()
	got := GroupTitle(Instruction{Goal: "  learn\n  rust   ownership ", Style: StyleQuick})
	if got != "Quick: learn rust ownership" {
		t.Fatalf("GroupTitle = %q", got)
	}
	long := GroupTitle(Instruction{Goal: "an extremely long learning goal that keeps going and going"})
	if long != "Mix: an extremely long learning goal that kee" {
		t.Fatalf("GroupTitle long = %q", long)
	}
}

func TestInstructionJSONMaxTabsOptional(t *testing.T) {
	t.Parallel()
	var in Instruction
	if err := json.Unmarshal([]byte(`{"goal":"k8s","style":"videos"}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.MaxTabs != nil {
		t.Fatalf("expected nil MaxTabs, got %d", *in.MaxTabs)
	}
	if err := json.Unmarshal([]byte(`{"goal":"k8s","maxTabs":0}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.MaxTabs == nil || *in.MaxTabs != 0 {
		t.Fatalf("expected explicit zero MaxTabs")
	}
}
