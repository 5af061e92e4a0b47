package problemgen

import "testing"

func TestStructuralValidator(t *testing.T) {
	v := &StructuralValidator{}

	tests := []struct {
		name string
		p    Problem
		msg  string
	}{
		{"valid", Problem{Op: OpMul, A: 3, B: 4}, ""},
		{"bad op", Problem{Op: "pow", A: 3, B: 4}, "operation must be add, sub, mul or div"},
		{"negative", Problem{Op: OpAdd, A: -1, B: 4}, "operands must be non-negative"},
		{"too large", Problem{Op: OpAdd, A: MaxOperand + 1, B: 4}, "operands must be at most 999999999"},
		{"largest", Problem{Op: OpMul, A: MaxOperand, B: MaxOperand}, ""},
		{"sub order", Problem{Op: OpSub, A: 3, B: 4}, "subtraction needs a >= b"},
		{"div zero", Problem{Op: OpDiv, A: 3, B: 0}, "divisor must be at least 1"},
	}

	for _, tc := range tests {
		err := v.Validate(&tc.p)
		switch {
		case tc.msg == "" && err != nil:
			t.Errorf("%s: unexpected failure: %v", tc.name, err)
		case tc.msg != "" && err == nil:
			t.Errorf("%s: expected %q", tc.name, tc.msg)
		case tc.msg != "" && err.Message != tc.msg:
			t.Errorf("%s: message = %q, want %q", tc.name, err.Message, tc.msg)
		}
	}
}
