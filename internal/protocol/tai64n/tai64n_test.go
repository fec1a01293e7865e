package tai64n_test

import (
	"testing"
	"time"

	"wirechat/internal/domain"
	"wirechat/internal/protocol/tai64n"
)

func TestAt_RoundTrip(t *testing.T) {
	want := time.Date(2024, 3, 9, 12, 34, 56, 789000000, time.UTC)
	got := tai64n.Time(tai64n.At(want))
	if !got.Equal(want) {
		t.Fatalf("round trip: want %v, got %v", want, got)
	}
}

func TestAfter_AgreesWithTimeOrder(t *testing.T) {
	base := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		a, b time.Time
		want bool
	}{
		{base.Add(time.Second), base, true},
		{base, base.Add(time.Second), false},
		{base.Add(time.Nanosecond), base, true},
		{base, base, false},
	}
	for _, c := range cases {
		if got := tai64n.After(tai64n.At(c.a), tai64n.At(c.b)); got != c.want {
			t.Fatalf("After(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestAfter_ZeroValueIsOldest(t *testing.T) {
	var zero domain.Timestamp
	if !tai64n.After(tai64n.Now(), zero) {
		t.Fatal("current time should be after the zero timestamp")
	}
}
