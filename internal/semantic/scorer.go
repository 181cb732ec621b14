package semantic

import (
	"context"

	"HeadlineScorer/internal/domain"
	"HeadlineScorer/internal/ports"
)

// Scorer asks the model for one verdict per headline. It never retries; retry
// policy belongs to the caller.
type Scorer struct {
	client   ports.ChatClient
	template string
}

var _ ports.SemanticScorer = (*Scorer)(nil)

// NewScorer wires a chat client with a prompt template (empty means default).
func NewScorer(client ports.ChatClient, template string) (*Scorer, error) {
	if client == nil {
		return nil, &domain.ConfigError{Field: "llm", Reason: "semantic scoring requires a chat client"}
	}
	return &Scorer{client: client, template: template}, nil
}

// Score returns a semantic ScoreResult or a transport, network or parse error.
func (s *Scorer) Score(ctx context.Context, headline string) (domain.ScoreResult, error) {
	content, err := s.client.Complete(ctx, BuildPrompt(s.template, headline))
	if err != nil {
		return domain.ScoreResult{}, err
	}

	assessment, err := Parse(content)
	if err != nil {
		return domain.ScoreResult{}, err
	}

	return domain.ScoreResult{
		Headline:       headline,
		Source:         domain.SourceSemantic,
		Dimensions:     assessment.Dimensions,
		Total:          assessment.Total,
		Rationale:      assessment.Reason,
		SuggestedAngle: assessment.AdDirection,
		AudienceHint:   assessment.TargetAudience,
		Sentiment:      assessment.Sentiment,
		SemanticTotal:  assessment.Total,
	}, nil
}
