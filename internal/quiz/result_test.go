package quiz

import "testing"

func TestNewResult(t *testing.T) {
	tests := []struct {
		score, total int
		percent      int
		tier         Tier
		message      string
	}{
		{9, 10, 90, TierTop, "Excellent work!"},
		{6, 10, 60, TierMid, "Not bad at all!"},
		{5, 10, 50, TierBaseline, "Good effort!"},
		{8, 10, 80, TierMid, "Not bad at all!"},
		{10, 10, 100, TierTop, "Excellent work!"},
		{0, 10, 0, TierBaseline, "Good effort!"},
		{1, 8, 13, TierBaseline, "Good effort!"}, // 12.5 rounds up
		{2, 3, 67, TierMid, "Not bad at all!"},
		{1, 3, 33, TierBaseline, "Good effort!"},
		{5, 6, 83, TierTop, "Excellent work!"},
	}

	for _, tt := range tests {
		r := NewResult(tt.score, tt.total)
		if r.Percent != tt.percent {
			t.Errorf("NewResult(%d, %d).Percent = %d, want %d", tt.score, tt.total, r.Percent, tt.percent)
		}
		if r.Tier != tt.tier || r.Message() != tt.message {
			t.Errorf("NewResult(%d, %d) tier = %v %q, want %v %q", tt.score, tt.total, r.Tier, r.Message(), tt.tier, tt.message)
		}
	}
}

func TestNewResult_ZeroTotal(t *testing.T) {
	if r := NewResult(0, 0); r.Percent != 0 || r.Tier != TierBaseline {
		t.Fatalf("unexpected result: %+v", r)
	}
}
