package showtime

import (
	"testing"
	"time"
)

func TestResolveMonth(t *testing.T) {
	tests := []struct {
		text   string
		want   time.Month
		wantOK bool
	}{
		{"January", time.January, true},
		{"May", time.May, true},
		{"September", time.September, true},
		{"Oct", time.October, true},
		{"Oct.", time.October, true},
		{"Sept.", time.September, true},
		{"Sept", time.September, true},
		{"Dec.", time.December, true},
		{"october", 0, false},
		{"OCT", 0, false},
		{"Octo", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ResolveMonth(tt.text)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ResolveMonth(%q) = %v, %v, want %v, %v", tt.text, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLookupMonth_Fallback(t *testing.T) {
	if got, ok := LookupMonth("October"); !ok || got != time.October {
		t.Errorf("LookupMonth(October) = %v, %v, want October", got, ok)
	}
	if got, ok := LookupMonth("oct"); !ok || got != time.October {
		t.Errorf("LookupMonth(oct) = %v, %v, want October via fallback", got, ok)
	}
	if _, ok := LookupMonth(""); ok {
		t.Error("LookupMonth(\"\") should not resolve")
	}
}
