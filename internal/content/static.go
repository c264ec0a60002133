package content

import (
	"context"
	"fmt"

	"github.com/cruz-andr/JeoparodyMk2-sub000/internal"
)

// StaticProvider serves a built-in general-knowledge board so a server can
// run end to end without an import file.
type StaticProvider struct{}

func NewStaticProvider() *StaticProvider { return &StaticProvider{} }

var staticValues = []int{200, 400, 600, 800, 1000}

var staticCategories = []Category{
	cat("Science",
		qa("This planet is known as the Red Planet", "Mars"),
		qa("The chemical symbol Au stands for this metal", "Gold"),
		qa("This force keeps planets in orbit around the sun", "Gravity"),
		qa("The powerhouse of the cell", "Mitochondria"),
		qa("This particle carries a negative charge", "Electron")),
	cat("World Capitals",
		qa("Capital of France", "Paris"),
		qa("Capital of Japan", "Tokyo"),
		qa("Capital of Canada", "Ottawa"),
		qa("Capital of Australia", "Canberra"),
		qa("Capital of Brazil", "Brasilia")),
	cat("U.S. Presidents",
		qa("He was the first U.S. president", "George Washington"),
		qa("President during the Civil War", "Abraham Lincoln"),
		qa("He wrote the Declaration of Independence", "Thomas Jefferson"),
		qa("President during the Louisiana Purchase", "Thomas Jefferson"),
		qa("The only president to resign", "Richard Nixon")),
	cat("Literature",
		qa("Author of Romeo and Juliet", "William Shakespeare"),
		qa("This whale is pursued by Captain Ahab", "Moby Dick"),
		qa("Author of 1984", "George Orwell"),
		qa("The boy wizard of Hogwarts", "Harry Potter"),
		qa("Author of Pride and Prejudice", "Jane Austen")),
	cat("Mathematics",
		qa("The ratio of a circle's circumference to its diameter", "Pi"),
		qa("A triangle with all sides equal", "Equilateral"),
		qa("The only even prime number", "Two"),
		qa("Angles adding to 90 degrees are called this", "Complementary"),
		qa("The square root of 144", "Twelve")),
	cat("Geography",
		qa("The longest river in South America", "Amazon"),
		qa("The largest desert on Earth", "Antarctica"),
		qa("This mountain range separates Europe and Asia", "Urals"),
		qa("The deepest ocean trench", "Mariana Trench"),
		qa("The smallest country in the world", "Vatican City")),
}

var staticFinal = internal.Question{
	Category: "Space Exploration",
	Clue:     "This was the first crewed mission to land on the Moon",
	Answer:   "Apollo 11",
}

func cat(name string, qs ...internal.Question) Category {
	for i := range qs {
		qs[i].Category = name
		qs[i].Value = staticValues[i]
	}
	return Category{Name: name, Questions: qs}
}

func qa(clue, ans string) internal.Question {
	return internal.Question{Clue: clue, Answer: ans}
}

func (s *StaticProvider) Board(ctx context.Context, round int) (*Round, error) {
	base := Round{Categories: staticCategories, Values: staticValues}
	switch round {
	case 1:
		return &base, nil
	case 2:
		return doubleValues(base), nil
	default:
		return nil, fmt.Errorf("no board for round %d", round)
	}
}

func (s *StaticProvider) Final(ctx context.Context) (*internal.Question, error) {
	q := staticFinal
	return &q, nil
}
