package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cruz-andr/JeoparodyMk2-sub000/internal"
)

func TestStaticProviderShape(t *testing.T) {
	p := NewStaticProvider()

	round, err := p.Board(context.Background(), 1)
	if err != nil {
		t.Fatalf("Board(1): %v", err)
	}
	if len(round.Categories) != internal.BoardCategories {
		t.Errorf("categories = %d, want %d", len(round.Categories), internal.BoardCategories)
	}
	if len(round.Values) != internal.BoardRows {
		t.Errorf("values = %d, want %d", len(round.Values), internal.BoardRows)
	}
	for _, cat := range round.Categories {
		if len(cat.Questions) != internal.BoardRows {
			t.Fatalf("category %q has %d questions, want %d", cat.Name, len(cat.Questions), internal.BoardRows)
		}
		for i, q := range cat.Questions {
			if q.Clue == "" || q.Answer == "" {
				t.Errorf("category %q row %d missing clue or answer", cat.Name, i)
			}
			if q.Value != round.Values[i] {
				t.Errorf("category %q row %d value = %d, want %d", cat.Name, i, q.Value, round.Values[i])
			}
		}
	}

	final, err := p.Final(context.Background())
	if err != nil {
		t.Fatalf("Final: %v", err)
	}
	if final.Clue == "" || final.Answer == "" {
		t.Error("final question must carry a clue and answer")
	}
}

func TestStaticProviderDoublesRoundTwo(t *testing.T) {
	p := NewStaticProvider()

	one, _ := p.Board(context.Background(), 1)
	two, err := p.Board(context.Background(), 2)
	if err != nil {
		t.Fatalf("Board(2): %v", err)
	}
	for i := range one.Values {
		if two.Values[i] != 2*one.Values[i] {
			t.Errorf("round two value[%d] = %d, want %d", i, two.Values[i], 2*one.Values[i])
		}
	}

	if _, err := p.Board(context.Background(), 3); err == nil {
		t.Error("round 3 should not exist")
	}
}

func TestFileProviderRejectsRaggedBoard(t *testing.T) {
	path := writeGameFile(t, `{
		"round_one": {
			"values": [100, 200],
			"categories": [
				{"name": "History", "questions": [
					{"clue": "c1", "answer": "a1"}
				]}
			]
		}
	}`)

	if _, err := NewFileProvider(path); err == nil {
		t.Fatal("a category short of questions must be rejected")
	}
}

func TestFileProviderRoundTwoFallback(t *testing.T) {
	path := writeGameFile(t, `{
		"round_one": {
			"values": [100, 200],
			"categories": [
				{"name": "History", "questions": [
					{"clue": "c1", "answer": "a1"},
					{"clue": "c2", "answer": "a2"}
				]}
			]
		},
		"final": {"category": "Cap", "clue": "fc", "answer": "fa"}
	}`)

	p, err := NewFileProvider(path)
	if err != nil {
		t.Fatalf("NewFileProvider: %v", err)
	}

	two, err := p.Board(context.Background(), 2)
	if err != nil {
		t.Fatalf("Board(2): %v", err)
	}
	if two.Values[0] != 200 || two.Values[1] != 400 {
		t.Errorf("fallback round two values = %v, want doubled", two.Values)
	}

	final, err := p.Final(context.Background())
	if err != nil {
		t.Fatalf("Final: %v", err)
	}
	if final.Answer != "fa" {
		t.Errorf("final answer = %q, want fa", final.Answer)
	}
}

func TestFileProviderMissingFinal(t *testing.T) {
	path := writeGameFile(t, `{
		"round_one": {
			"values": [100],
			"categories": [
				{"name": "History", "questions": [{"clue": "c", "answer": "a"}]}
			]
		}
	}`)

	p, err := NewFileProvider(path)
	if err != nil {
		t.Fatalf("NewFileProvider: %v", err)
	}
	if _, err := p.Final(context.Background()); err == nil {
		t.Error("a file without a final question should say so")
	}
}

func writeGameFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing game file: %v", err)
	}
	return path
}
