package lexical

import (
	"strings"

	"HeadlineScorer/internal/domain"
	"HeadlineScorer/internal/ports"
)

// Scorer applies a RuleSet. It holds no mutable state and is safe to share.
type Scorer struct {
	rules RuleSet
}

var _ ports.LexicalScorer = (*Scorer)(nil)

// NewScorer validates the table once; scoring never fails afterwards.
func NewScorer(rules RuleSet) (*Scorer, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{rules: rules}, nil
}

// Rules exposes the table the scorer was built with.
func (s *Scorer) Rules() RuleSet {
	return s.rules
}

// Score evaluates blacklist, audience, interest and comprehension in that order.
func (s *Scorer) Score(headline string) domain.LexicalScore {
	lowered := strings.ToLower(headline)

	for _, rule := range s.rules.Blacklist {
		if rule.Matches(lowered) {
			return domain.LexicalScore{RejectReason: rule.Label()}
		}
	}

	dims := domain.DimensionScore{
		Audience:   s.rules.Audience.score(lowered),
		Interest:   s.rules.Interest.score(lowered),
		Simplicity: s.rules.Comprehension.score(lowered),
	}
	return domain.LexicalScore{Total: dims.Total(), Dimensions: dims}
}

// score returns the first band awarded by the highest-priority tier.
func (d Dimension) score(lowered string) int {
	for _, tier := range d.Tiers {
		if v, ok := tier.award(lowered); ok {
			return v
		}
	}
	return d.Default
}

func (t Tier) award(lowered string) (int, bool) {
	hits := t.Hits(lowered)
	if hits == 0 {
		return 0, false
	}
	for _, band := range t.Bands {
		if hits >= band.MinHits {
			return band.Score, true
		}
	}
	return 0, false
}

// Hits counts distinct matching rules in the tier.
func (t Tier) Hits(lowered string) int {
	hits := 0
	for _, rule := range t.Rules {
		if rule.Matches(lowered) {
			hits++
		}
	}
	return hits
}
