package cmd

import (
	"fmt"
	"strconv"

	"github.com/egelkids/egel/internal/problemgen"
)

// parseOperands reads "OP A B" positional arguments.
func parseOperands(args []string) (problemgen.Operation, int, int, error) {
	op, err := problemgen.ParseOperation(args[0])
	if err != nil {
		return "", 0, 0, err
	}
	a, err := strconv.Atoi(args[1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid operand a %q: %w", args[1], err)
	}
	b, err := strconv.Atoi(args[2])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid operand b %q: %w", args[2], err)
	}
	return op, a, b, nil
}
