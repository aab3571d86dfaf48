package timeago

import (
	"testing"
	"time"
)

func TestFormatBuckets(t *testing.T) {
	cases := []struct {
		elapsed time.Duration
		want    string
	}{
		{0, "0s ago"},
		{59 * time.Second, "59s ago"},
		{60 * time.Second, "1m ago"},
		{3599 * time.Second, "59m ago"},
		{3600 * time.Second, "1h ago"},
		{23 * time.Hour, "23h ago"},
		{24 * time.Hour, "1d ago"},
		{6 * 24 * time.Hour, "6d ago"},
		{7 * 24 * time.Hour, "1w ago"},
		{29 * 24 * time.Hour, "4w ago"},
		{30 * 24 * time.Hour, "1mo ago"},
		{365 * 24 * time.Hour, "12mo ago"},
	}

	for _, tc := range cases {
		// Shift slightly into the bucket so the truncated elapsed time
		// does not land one second short of the boundary.
		got := Format(time.Now().Add(-tc.elapsed - 100*time.Millisecond))
		if got != tc.want {
			t.Errorf("Format(now-%v) = %q, want %q", tc.elapsed, got, tc.want)
		}
	}
}

func TestFormatFutureInstant(t *testing.T) {
	if got := Format(time.Now().Add(time.Minute)); got != "0s ago" {
		t.Errorf("future instant = %q, want %q", got, "0s ago")
	}
}

func TestFormatPtr(t *testing.T) {
	if got := FormatPtr(nil); got != nil {
		t.Fatalf("FormatPtr(nil) = %v, want nil", *got)
	}

	ts := time.Now().Add(-2 * time.Minute)
	got := FormatPtr(&ts)
	if got == nil || *got != "2m ago" {
		t.Fatalf("FormatPtr = %v, want 2m ago", got)
	}
}
