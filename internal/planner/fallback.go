package planner

import (
	"net/url"

	"github.com/mohammad-safakhou/learntabs/internal/tabs"
)

const fallbackPlan = "Start with a broad overview, then dive deeper:\n" +
	"1) Google results for quick breadth\n" +
	"2) Wikipedia for foundational background\n" +
	"3) Videos for intuition\n" +
	"4) Q&A problem-solving (StackOverflow)\n" +
	"5) Explore code/resources on GitHub"

const retrievalPlan = "Curated results from Wikipedia, HN, StackOverflow, Reddit, arXiv, GitHub, PubMed and the Internet Archive based on: "

// Fallback builds search links for the goal without any network access.
func Fallback(in tabs.Instruction) tabs.GenerateResponse {
	topic := in.Query()
	q := url.QueryEscape(topic)
	list := []tabs.GeneratedTab{
		{Title: "Google: " + topic, URL: "https://www.google.com/search?q=" + q},
		{Title: "Wikipedia: " + topic, URL: "https://en.wikipedia.org/wiki/Special:Search?search=" + q},
		{Title: "YouTube: " + topic, URL: "https://www.youtube.com/results?search_query=" + q},
		{Title: "StackOverflow: " + topic, URL: "https://stackoverflow.com/search?q=" + q},
		{Title: "GitHub: awesome " + topic, URL: "https://github.com/search?q=awesome+" + q},
	}
	if limit := in.Limit(DefaultMaxTabs); len(list) > limit {
		list = list[:limit]
	}
	return tabs.GenerateResponse{
		Plan:       fallbackPlan,
		Tabs:       list,
		GroupTitle: tabs.GroupTitle(in),
		Color:      tabs.DefaultColor,
	}
}

// FromRetrieval wraps retrieved tabs in a response.
func FromRetrieval(in tabs.Instruction, list []tabs.GeneratedTab) tabs.GenerateResponse {
	if limit := in.Limit(DefaultMaxTabs); len(list) > limit {
		list = list[:limit]
	}
	return tabs.GenerateResponse{
		Plan:       retrievalPlan + in.Query(),
		Tabs:       list,
		GroupTitle: tabs.GroupTitle(in),
		Color:      tabs.DefaultColor,
	}
}
