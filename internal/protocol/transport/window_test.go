package transport

import "testing"

// accept mimics the real call pattern: check first, mark only when fresh.
func (w *window) accept(t *testing.T, counter uint64, want bool) {
	t.Helper()
	fresh := !w.seen(counter)
	if fresh {
		w.mark(counter)
	}
	if fresh != want {
		t.Fatalf("counter %d: fresh=%v, want %v", counter, fresh, want)
	}
}

func TestWindow_Sequence(t *testing.T) {
	w := &window{}
	w.accept(t, 0, true)
	w.accept(t, 0, false)
	w.accept(t, 1, true)
	w.accept(t, 1, false)
	w.accept(t, 0, false)
	w.accept(t, 3, true)
	w.accept(t, 2, true)
	w.accept(t, 2, false)
	w.accept(t, 3, false)
	w.accept(t, 30, true)
	w.accept(t, 29, true)
	w.accept(t, 28, true)
	w.accept(t, 30, false)
	w.accept(t, 28, false)
	w.accept(t, windowSize, true)
	w.accept(t, windowSize, false)
	w.accept(t, windowSize+1, true)
}

func TestWindow_FarJumps(t *testing.T) {
	w := &window{}
	w.accept(t, windowSize+1, true)
	w.accept(t, 0, false)
	w.accept(t, 2, true)
	w.accept(t, windowSize+3, true)
	w.accept(t, 2, false)
	w.accept(t, 3, true)
	w.accept(t, windowSize*3, true)
	w.accept(t, windowSize*2-1, false)
	w.accept(t, windowSize*2+1, true)
	w.accept(t, windowSize*3, false)
}

func TestWindow_SeenDoesNotMutate(t *testing.T) {
	w := &window{}
	w.mark(5)
	if w.seen(6) {
		t.Fatal("unseen counter reported as seen")
	}
	// Checking 6 must not consume it.
	if w.seen(6) {
		t.Fatal("seen check consumed the counter")
	}
	w.mark(6)
	if !w.seen(6) {
		t.Fatal("marked counter not reported as seen")
	}
}
