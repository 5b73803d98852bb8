package release

import (
	"context"
	"testing"
)

func TestIsNewer(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"1.2.3", "1.2.2", true},
		{"1.2.2", "1.2.3", false},
		{"1.2.3", "1.2.3", false},
		{"1.0.0", "dev", true},
		{"1.0.0", "", true},
	}
	for _, tt := range tests {
		if got := isNewer(tt.a, tt.b); got != tt.want {
			t.Errorf("isNewer(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCheckLatest_RespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Request goes to the real GitHub host, but a cancelled context must
	// abort before any network round trip.
	if _, err := CheckLatest(ctx, "someone", "portwatch", "1.0.0"); err == nil {
		t.Error("expected error for cancelled context")
	}
}
