package ports

import (
	"context"
	"time"

	"HeadlineScorer/internal/domain"
)

// TitleSource yields raw candidate headlines from some report format.
// Name identifies the report last read and is stable after Titles returns.
type TitleSource interface {
	Name() string
	Titles(ctx context.Context) ([]string, error)
}

// LexicalScorer is the cheap deterministic stage.
type LexicalScorer interface {
	Score(headline string) domain.LexicalScore
}

// SemanticScorer delegates judgment of one headline to a language model.
type SemanticScorer interface {
	Score(ctx context.Context, headline string) (domain.ScoreResult, error)
}

// ChatClient sends a single user prompt to a chat-completion endpoint and
// returns the assistant message content.
type ChatClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Pacer throttles consecutive calls to an external endpoint.
type Pacer interface {
	Wait(ctx context.Context) error
	Done()
}

// ResultRepository persists scored runs and remembers delivered headlines.
type ResultRepository interface {
	SeenHeadlines(ctx context.Context, headlines []string) (map[string]bool, error)
	SaveRun(ctx context.Context, run domain.Run) error
}

// ResultWriter exports a run to a file or stream.
type ResultWriter interface {
	Write(ctx context.Context, run domain.Run) error
}

// Notifier streams selected digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
