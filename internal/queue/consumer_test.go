package queue

import (
	"strings"
	"testing"
)

func TestFormatLine(t *testing.T) {
	ev := ActivityEvent{
		Kind:        KindRatingSubmitted,
		MovieID:     7,
		MovieTitle:  "Heat",
		UserID:      3,
		Username:    "val",
		RatingValue: 5,
		OccurredAt:  "2024-01-01 12:00:00",
	}
	line := formatLine(ev)
	if !strings.HasPrefix(line, "[2024-01-01 12:00:00] Rating submitted") {
		t.Fatalf("unexpected prefix: %q", line)
	}
	if !strings.Contains(line, "value=5") || !strings.Contains(line, `movie="Heat"`) {
		t.Fatalf("missing fields: %q", line)
	}
	if !strings.HasSuffix(line, "\n") {
		t.Fatalf("line not newline terminated: %q", line)
	}

	ev.Kind = KindReviewPosted
	ev.ReviewID = 11
	line = formatLine(ev)
	if !strings.Contains(line, "Review posted") || !strings.Contains(line, "review_id=11") {
		t.Fatalf("review line wrong: %q", line)
	}

	ev.Kind = "something.else"
	if line = formatLine(ev); !strings.Contains(line, "something.else") {
		t.Fatalf("unknown kind should still log: %q", line)
	}
}
