package content

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cruz-andr/JeoparodyMk2-sub000/internal"
)

// gameFile is the on-disk import format: one file per game, both rounds and
// the final question together.
type gameFile struct {
	RoundOne Round              `json:"round_one"`
	RoundTwo *Round             `json:"round_two,omitempty"`
	Final    *internal.Question `json:"final,omitempty"`
}

// FileProvider serves boards imported from a JSON file. When the file has no
// second round, round one is reused with doubled point values. The file is
// read once at construction; games never block on disk I/O.
type FileProvider struct {
	game gameFile
}

func NewFileProvider(path string) (*FileProvider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading game file: %w", err)
	}

	var game gameFile
	if err := json.Unmarshal(raw, &game); err != nil {
		return nil, fmt.Errorf("parsing game file %s: %w", path, err)
	}
	if err := validateRound(&game.RoundOne); err != nil {
		return nil, fmt.Errorf("game file %s: round one: %w", path, err)
	}
	if game.RoundTwo != nil {
		if err := validateRound(game.RoundTwo); err != nil {
			return nil, fmt.Errorf("game file %s: round two: %w", path, err)
		}
	}
	return &FileProvider{game: game}, nil
}

func validateRound(r *Round) error {
	if len(r.Categories) == 0 {
		return fmt.Errorf("no categories")
	}
	if len(r.Values) == 0 {
		return fmt.Errorf("no point values")
	}
	for _, cat := range r.Categories {
		if cat.Name == "" {
			return fmt.Errorf("category with empty name")
		}
		if len(cat.Questions) != len(r.Values) {
			return fmt.Errorf("category %q has %d questions, want %d",
				cat.Name, len(cat.Questions), len(r.Values))
		}
		for i, q := range cat.Questions {
			if q.Clue == "" || q.Answer == "" {
				return fmt.Errorf("category %q row %d is missing clue or answer", cat.Name, i)
			}
		}
	}
	return nil
}

func (f *FileProvider) Board(ctx context.Context, round int) (*Round, error) {
	switch round {
	case 1:
		r := f.game.RoundOne
		return &r, nil
	case 2:
		if f.game.RoundTwo != nil {
			r := *f.game.RoundTwo
			return &r, nil
		}
		return doubleValues(f.game.RoundOne), nil
	default:
		return nil, fmt.Errorf("no board for round %d", round)
	}
}

func (f *FileProvider) Final(ctx context.Context) (*internal.Question, error) {
	if f.game.Final == nil {
		return nil, fmt.Errorf("game file has no final question")
	}
	q := *f.game.Final
	return &q, nil
}

// doubleValues clones a round with every point value doubled.
func doubleValues(r Round) *Round {
	out := Round{
		Categories: make([]Category, len(r.Categories)),
		Values:     make([]int, len(r.Values)),
	}
	for i, v := range r.Values {
		out.Values[i] = v * 2
	}
	for i, cat := range r.Categories {
		qs := make([]internal.Question, len(cat.Questions))
		for j, q := range cat.Questions {
			q.Value = q.Value * 2
			q.Revealed = false
			qs[j] = q
		}
		out.Categories[i] = Category{Name: cat.Name, Questions: qs}
	}
	return &out
}
