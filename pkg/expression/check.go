package expression

import (
	"fmt"

	"github.com/expr-lang/expr"
)

func CheckSingleMatch(c *Candidate, expressions []CompiledExpression) (bool, error) {
	match, _, err := CheckSingleMatchWithReason(c, expressions)
	return match, err
}

// CheckSingleMatchWithReason reports whether any expression matches and, if
// so, the text of the first one that did.
func CheckSingleMatchWithReason(c *Candidate, expressions []CompiledExpression) (bool, string, error) {
	for _, expression := range expressions {
		result, err := expr.Run(expression.Program, c)
		if err != nil {
			return false, "", fmt.Errorf("check expression: %w", err)
		}

		expResult, ok := result.(bool)
		if !ok {
			return false, "", fmt.Errorf("expression result is not a bool: %T", result)
		}

		if expResult {
			return true, expression.Text, nil
		}
	}

	return false, "", nil
}
