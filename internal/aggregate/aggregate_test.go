package aggregate

import (
	"math/rand"
	"testing"
)

func TestMean(t *testing.T) {
	t.Parallel()

	v, ok := Mean{}.Reduce([]float64{1, 0, 1, 1})
	if !ok {
		t.Fatalf("Reduce ok=false")
	}
	if v != 0.75 {
		t.Fatalf("got %v want 0.75", v)
	}

	if _, ok := (Mean{}).Reduce(nil); ok {
		t.Fatalf("empty mean should be undefined")
	}
}

func TestMean_OrderIndependent(t *testing.T) {
	t.Parallel()

	scores := make([]float64, 100)
	for i := range scores {
		scores[i] = float64(i%2) * 0.5
	}

	want, _ := Mean{}.Reduce(scores)

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 10; trial++ {
		shuffled := append([]float64(nil), scores...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		got, _ := Mean{}.Reduce(shuffled)
		if got != want {
			t.Fatalf("trial %d: got %v want %v", trial, got, want)
		}
	}
}

func TestMinMaxCount(t *testing.T) {
	t.Parallel()

	scores := []float64{0.5, 0.2, 0.9}

	if v, ok := (Min{}).Reduce(scores); !ok || v != 0.2 {
		t.Fatalf("min: got %v ok=%v", v, ok)
	}
	if v, ok := (Max{}).Reduce(scores); !ok || v != 0.9 {
		t.Fatalf("max: got %v ok=%v", v, ok)
	}
	if v, ok := (Count{}).Reduce(scores); !ok || v != 3 {
		t.Fatalf("count: got %v ok=%v", v, ok)
	}
	if v, ok := (Count{}).Reduce(nil); !ok || v != 0 {
		t.Fatalf("empty count: got %v ok=%v", v, ok)
	}
}

func TestBuiltinRegistry(t *testing.T) {
	t.Parallel()

	r := Builtin()
	for _, typ := range []string{"mean", "min", "max", "count"} {
		if !r.Known(typ) {
			t.Fatalf("Known(%q) = false", typ)
		}
	}
	if r.Known("median") {
		t.Fatalf("Known(median) = true")
	}
}
