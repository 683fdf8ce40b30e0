package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	_ "embed"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mohammad-safakhou/learntabs/internal/tabs"
)

//go:embed completion_schema.json
var completionSchemaJSON string

var (
	ErrNoJSON        = errors.New("completion has no JSON object")
	ErrInvalidSchema = errors.New("completion does not match schema")
	ErrNoUsableTabs  = errors.New("completion has no usable tabs")
)

var (
	compileOnce      sync.Once
	completionSchema *gojsonschema.Schema
	compileErr       error
)

// CompletionSchema returns the compiled schema for model completions.
func CompletionSchema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(completionSchemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("compile completion schema: %w", err)
			return
		}
		completionSchema = schema
	})
	return completionSchema, compileErr
}

// ExtractJSON returns the text between the first '{' and the last '}'.
func ExtractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return "", ErrNoJSON
	}
	return text[start : end+1], nil
}

// ParseCompletion turns raw model output into a response for in. Tabs
// without a URL are dropped and the rest are cut to in.Limit(DefaultMaxTabs).
func ParseCompletion(text string, in tabs.Instruction) (tabs.GenerateResponse, error) {
	block, err := ExtractJSON(text)
	if err != nil {
		return tabs.GenerateResponse{}, err
	}
	var doc any
	if err := json.Unmarshal([]byte(block), &doc); err != nil {
		return tabs.GenerateResponse{}, fmt.Errorf("%w: %v", ErrNoJSON, err)
	}

	schema, err := CompletionSchema()
	if err != nil {
		return tabs.GenerateResponse{}, err
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return tabs.GenerateResponse{}, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return tabs.GenerateResponse{}, fmt.Errorf("%w: %s", ErrInvalidSchema, strings.Join(msgs, "; "))
	}

	obj := doc.(map[string]any)
	var out []tabs.GeneratedTab
	for _, item := range obj["tabs"].([]any) {
		t, ok := item.(map[string]any)
		if !ok {
			continue
		}
		link := str(t["url"])
		if link == "" {
			continue
		}
		title := str(t["title"])
		if title == "" {
			title = hostOf(link)
		}
		out = append(out, tabs.GeneratedTab{Title: title, URL: link})
	}
	if len(out) == 0 {
		return tabs.GenerateResponse{}, ErrNoUsableTabs
	}
	if limit := in.Limit(DefaultMaxTabs); len(out) > limit {
		out = out[:limit]
	}

	groupTitle := str(obj["groupTitle"])
	if groupTitle == "" {
		groupTitle = tabs.GroupTitle(in)
	}
	plan := str(obj["plan"])
	if plan == "" {
		plan = fmt.Sprintf("Work through these %d tabs on: %s", len(out), in.Query())
	}
	return tabs.GenerateResponse{
		Plan:       plan,
		Tabs:       out,
		GroupTitle: groupTitle,
		Color:      tabs.ParseColor(str(obj["color"])),
	}, nil
}

// str renders scalar JSON values as text. Objects, arrays and null are "".
func str(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "true"
		}
		return ""
	default:
		return ""
	}
}

func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Hostname() == "" {
		return link
	}
	return u.Hostname()
}
