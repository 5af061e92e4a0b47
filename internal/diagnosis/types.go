// Package diagnosis classifies wrong answers so the learner gets a tip
// aimed at the slip they most likely made.
package diagnosis

import (
	"strings"
	"time"

	"github.com/egelkids/egel/internal/problemgen"
)

// ErrorCategory classifies a wrong answer.
type ErrorCategory string

const (
	CategoryRemainder      ErrorCategory = "remainder"
	CategoryWrongOperation ErrorCategory = "wrong-operation"
	CategoryMissedCarry    ErrorCategory = "missed-carry"
	CategoryBorrowSlip     ErrorCategory = "borrow-slip"
	CategoryOffByOne       ErrorCategory = "off-by-one"
	CategorySpeedRush      ErrorCategory = "speed-rush"
	CategoryCareless       ErrorCategory = "careless"
	CategoryUnclassified   ErrorCategory = "unclassified"
)

// Categories lists the named categories in classifier priority order.
var Categories = []ErrorCategory{
	CategoryRemainder, CategoryWrongOperation, CategoryMissedCarry,
	CategoryBorrowSlip, CategoryOffByOne, CategorySpeedRush, CategoryCareless,
}

// Label is the category as shown to the learner, e.g. "missed carry".
func (c ErrorCategory) Label() string {
	return strings.ReplaceAll(string(c), "-", " ")
}

// ClassifyInput holds the context for classification.
type ClassifyInput struct {
	Problem      problemgen.Problem
	Answer       problemgen.Answer
	ResponseTime time.Duration

	// OpAttempts and OpAccuracy describe this session's earlier answers
	// for the same operation.
	OpAttempts int
	OpAccuracy float64
}

// DiagnosisResult is the output of classifying a wrong answer.
type DiagnosisResult struct {
	Category       ErrorCategory
	Confidence     float64 // 0.0–1.0
	ClassifierName string
	Tip            string
}
