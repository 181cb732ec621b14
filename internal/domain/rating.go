package domain

// Rating is a quality band over the 0-30 aggregate.
type Rating struct {
	Name       string
	Stars      int
	Suggestion string
}

// Thresholds of the quality bands, highest first.
const (
	PerfectScore   = 27
	ExcellentScore = 23
	FairScore      = 18
	MarginalScore  = 12
)

var ratings = []struct {
	min    int
	rating Rating
}{
	{PerfectScore, Rating{Name: "perfect", Stars: 5, Suggestion: "use immediately"}},
	{ExcellentScore, Rating{Name: "excellent", Stars: 4, Suggestion: "recommended"}},
	{FairScore, Rating{Name: "fair", Stars: 3, Suggestion: "use with care"}},
	{MarginalScore, Rating{Name: "marginal", Stars: 2, Suggestion: "needs rewriting"}},
}

// RatingFor maps a total onto its band.
func RatingFor(total int) Rating {
	for _, r := range ratings {
		if total >= r.min {
			return r.rating
		}
	}
	return Rating{Name: "reject", Stars: 1, Suggestion: "drop"}
}

// Summary counts kept results per quality tier.
type Summary struct {
	Perfect   int `json:"perfect"`
	Excellent int `json:"excellent"`
	Fair      int `json:"fair"`
	Kept      int `json:"kept"`
}

// Summarize tallies results into perfect (27-30), excellent (23-26) and fair (18-22).
func Summarize(results []ScoreResult) Summary {
	s := Summary{Kept: len(results)}
	for _, r := range results {
		switch {
		case r.Total >= PerfectScore:
			s.Perfect++
		case r.Total >= ExcellentScore:
			s.Excellent++
		case r.Total >= FairScore:
			s.Fair++
		}
	}
	return s
}
