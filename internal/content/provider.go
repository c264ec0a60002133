// Package content supplies fully graded boards to the game engine. How a
// board gets authored (hand-written files, imports, a generation pipeline)
// is this package's concern; the engine only consumes resolved data.
package content

import (
	"context"

	"github.com/cruz-andr/JeoparodyMk2-sub000/internal"
)

// Category is one board column: a label plus its graded questions ordered
// cheapest first. For multiple-choice boards, Options[0] of each question
// must be the correct answer.
type Category struct {
	Name      string              `json:"name"`
	Questions []internal.Question `json:"questions"`
}

// Round is a full board for one round: categories, plus the point values
// shared by every column.
type Round struct {
	Categories []Category `json:"categories"`
	Values     []int      `json:"values"`
}

// Provider yields graded content for a game. Implementations must not be
// called while a room lock is held; the engine resolves content first and
// injects the result.
type Provider interface {
	// Board returns the grid for the given round number (1 or 2).
	Board(ctx context.Context, round int) (*Round, error)
	// Final returns the single final-round question.
	Final(ctx context.Context) (*internal.Question, error)
}
