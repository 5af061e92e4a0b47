package problemgen

import "testing"

func TestDigitsForLevel(t *testing.T) {
	tests := []struct {
		step, level, min, max int
		want                  int
	}{
		{2, 1, 1, 6, 1},
		{3, 5, 1, 4, 2},
		{2, 0, 1, 6, 1},
		{2, -3, 1, 6, 1},
		{2, 10, 1, 6, 5},
		{2, 10, 1, 5, 5},
		{3, 10, 1, 4, 4},
		{2, 99, 1, 4, 4},
	}

	for _, tc := range tests {
		got := DigitsForLevel(tc.step, tc.level, tc.min, tc.max)
		if got != tc.want {
			t.Errorf("DigitsForLevel(%d, %d, %d, %d) = %d, want %d",
				tc.step, tc.level, tc.min, tc.max, got, tc.want)
		}
	}
}

func TestSpecFor_Table(t *testing.T) {
	addSub := []int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5}
	mul := []int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5}
	divisor := []int{1, 1, 1, 2, 2, 2, 3, 3, 3, 4}
	quotient := []int{1, 1, 2, 2, 3, 3, 4, 4, 4, 4}

	for i := range 10 {
		level := i + 1
		if got := SpecFor(OpAdd, level); got.A != addSub[i] || got.B != addSub[i] {
			t.Errorf("SpecFor(add, %d) = %+v, want %d digits", level, got, addSub[i])
		}
		if got := SpecFor(OpSub, level); got.A != addSub[i] {
			t.Errorf("SpecFor(sub, %d) = %+v, want %d digits", level, got, addSub[i])
		}
		if got := SpecFor(OpMul, level); got.A != mul[i] {
			t.Errorf("SpecFor(mul, %d) = %+v, want %d digits", level, got, mul[i])
		}
		got := SpecFor(OpDiv, level)
		if got.Divisor != divisor[i] || got.Quotient != quotient[i] {
			t.Errorf("SpecFor(div, %d) = %+v, want divisor %d quotient %d",
				level, got, divisor[i], quotient[i])
		}
	}
}

func TestSpecFor_WithinBoundsAndMonotonic(t *testing.T) {
	bounds := map[Operation][2]int{
		OpAdd: {1, 6},
		OpSub: {1, 6},
		OpMul: {1, 5},
	}

	for _, op := range Operations {
		prev := SpecFor(op, MinLevel)
		for level := MinLevel; level <= MaxLevel; level++ {
			spec := SpecFor(op, level)
			if op == OpDiv {
				if spec.Divisor < 1 || spec.Divisor > 4 || spec.Quotient < 1 || spec.Quotient > 4 {
					t.Errorf("SpecFor(div, %d) = %+v out of [1,4]", level, spec)
				}
				if spec.Divisor < prev.Divisor || spec.Quotient < prev.Quotient {
					t.Errorf("SpecFor(div, %d) = %+v decreased from %+v", level, spec, prev)
				}
			} else {
				b := bounds[op]
				if spec.A < b[0] || spec.A > b[1] {
					t.Errorf("SpecFor(%s, %d).A = %d out of [%d,%d]", op, level, spec.A, b[0], b[1])
				}
				if spec.A < prev.A {
					t.Errorf("SpecFor(%s, %d).A = %d decreased from %d", op, level, spec.A, prev.A)
				}
			}
			prev = spec
		}
	}
}
