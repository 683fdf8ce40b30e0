package planner

import (
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/learntabs/internal/tabs"
)

// PromptMaxTabs is the tab count suggested to the model when none is given.
const PromptMaxTabs = 6

// BuildPrompt asks the model for a compact JSON tab plan.
func BuildPrompt(in tabs.Instruction) string {
	maxTabs := in.Limit(PromptMaxTabs)
	colors := make([]string, len(tabs.Colors))
	for i, c := range tabs.Colors {
		colors[i] = fmt.Sprintf("%q", c)
	}

	var b strings.Builder
	b.WriteString("You are a helpful assistant that plans browser tabs as JSON for a learning session.\n")
	fmt.Fprintf(&b, "User goal: %s\n", in.Query())
	fmt.Fprintf(&b, "Style: %s\n", in.EffectiveStyle())
	fmt.Fprintf(&b, "Max tabs: %d\n", maxTabs)
	b.WriteString("Return ONLY a compact JSON matching this TypeScript type:\n")
	b.WriteString("{\n")
	b.WriteString(`  "groupTitle": string,` + "\n")
	b.WriteString(`  "plan": string,` + "\n")
	fmt.Fprintf(&b, "  \"color\": %s,\n", strings.Join(colors, "|"))
	b.WriteString(`  "tabs": Array<{"title": string, "url": string}>` + "\n")
	b.WriteString("}\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Ensure all URLs are valid and directly useful. If unsure, use Google search URLs.\n")
	b.WriteString("- Prefer diverse sources: docs, articles, videos depending on style.\n")
	b.WriteString("- Keep tabs under the Max tabs limit.\n")
	b.WriteString("- No extra commentary; respond with JSON only.")
	return b.String()
}
