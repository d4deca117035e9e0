package main

import (
	"strings"
	"testing"

	"ReviewFeeds/internal/domain"
)

func TestRenderReport(t *testing.T) {
	t.Parallel()

	out := renderReport(domain.RunReport{
		Fetched:    3,
		Reviews:    2,
		Pending:    2,
		NewlyAdded: 2,
		StateSize:  5,
		Platforms: []domain.PlatformReport{
			{Tag: "twitter", Published: []string{"a"}, Rejected: []string{"b"}, Summaries: map[string]int{"truncated": 1}},
			{Tag: "threads", Published: []string{"a"}, Rejected: []string{"b"}, Summaries: map[string]int{"passthrough": 1}},
		},
	})

	for _, want := range []string{"twitter", "threads", "marked 2", "not published", "Truncated"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}
