package answer

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"What is Mars", "mars"},
		{"who was the first president?", "first president"},
		{"  The   Red Planet  ", "red planet"},
		{"O'Brien!", "obrien"},
		{"how are THE Beatles", "beatles"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCheckExact(t *testing.T) {
	res := Check("what is mars", "Mars")
	if !res.Correct {
		t.Fatal("expected correct")
	}
	if res.Confidence != 1.0 {
		t.Fatalf("confidence = %v, want 1.0", res.Confidence)
	}
}

func TestCheckNoOverlap(t *testing.T) {
	res := Check("the red planet", "Mars")
	if res.Correct {
		t.Fatalf("expected incorrect, got confidence %v", res.Confidence)
	}
}

func TestCheckKeyword(t *testing.T) {
	res := Check("who is abe lincoln", "Abraham Lincoln")
	if !res.Correct {
		t.Fatal("expected correct via key-word match")
	}
	if res.Confidence <= 0 || res.Confidence > 1 {
		t.Fatalf("confidence out of range: %v", res.Confidence)
	}
}

func TestCheckSubstring(t *testing.T) {
	res := Check("george washington", "President George Washington")
	if !res.Correct {
		t.Fatal("expected correct via containment")
	}
	if res.Confidence != SubstringConfidence {
		t.Fatalf("confidence = %v, want %v", res.Confidence, SubstringConfidence)
	}

	// A trivially short containment must not match.
	res = Check("a", "Antarctica")
	if res.Correct {
		t.Fatal("short containment should be gated by length ratio")
	}
}

func TestCheckEditDistance(t *testing.T) {
	res := Check("missisippi", "Mississippi")
	if !res.Correct {
		t.Fatalf("expected typo to pass edit-distance check, confidence %v", res.Confidence)
	}
	if res.Confidence < SimilarityThreshold {
		t.Fatalf("confidence = %v, want >= %v", res.Confidence, SimilarityThreshold)
	}
}

func TestCheckReportsNearMissConfidence(t *testing.T) {
	res := Check("jupiter", "Saturn")
	if res.Correct {
		t.Fatal("expected incorrect")
	}
	if res.Confidence < 0 || res.Confidence >= SimilarityThreshold {
		t.Fatalf("diagnostic confidence out of range: %v", res.Confidence)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"same", "same", 0},
	}
	for _, c := range cases {
		if got := levenshtein([]rune(c.a), []rune(c.b)); got != c.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
