package quiz

// Tier is the qualitative band for a final percentage.
type Tier int

const (
	TierBaseline Tier = iota
	TierMid
	TierTop
)

// Message is the headline shown for the tier.
func (t Tier) Message() string {
	switch t {
	case TierTop:
		return "Excellent work!"
	case TierMid:
		return "Not bad at all!"
	}
	return "Good effort!"
}

// Result summarizes a finished session.
type Result struct {
	Score   int
	Total   int
	Percent int
	Tier    Tier
}

// Message is shorthand for r.Tier.Message().
func (r Result) Message() string {
	return r.Tier.Message()
}

// NewResult scores a session. Percent is score/total*100 rounded half-up;
// the tier thresholds are strict, so exactly 80 and 50 fall to the band below.
func NewResult(score, total int) Result {
	r := Result{Score: score, Total: total}
	if total > 0 {
		r.Percent = (score*200 + total) / (2 * total)
	}
	switch {
	case r.Percent > 80:
		r.Tier = TierTop
	case r.Percent > 50:
		r.Tier = TierMid
	default:
		r.Tier = TierBaseline
	}
	return r
}
