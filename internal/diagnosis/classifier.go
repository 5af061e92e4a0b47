package diagnosis

// Classifier is a rule-based error classifier.
// Returns a category and confidence (0.0–1.0), or ("", 0) if the rule doesn't apply.
type Classifier interface {
	Name() string
	Classify(input *ClassifyInput) (ErrorCategory, float64)
}

// DefaultClassifiers returns classifiers in priority order. Rules that
// recognize the shape of the wrong number come first; timing and history
// only explain answers no pattern matches.
func DefaultClassifiers() []Classifier {
	return []Classifier{
		&RemainderClassifier{},
		&WrongOperationClassifier{},
		&MissedCarryClassifier{},
		&BorrowSlipClassifier{},
		&OffByOneClassifier{},
		&SpeedRushClassifier{},
		&CarelessClassifier{},
	}
}

// RunClassifiers executes rule-based classifiers in order.
// Returns the first match, or ("", 0, "") if no rules apply.
func RunClassifiers(classifiers []Classifier, input *ClassifyInput) (ErrorCategory, float64, string) {
	for _, c := range classifiers {
		cat, conf := c.Classify(input)
		if cat != "" {
			return cat, conf, c.Name()
		}
	}
	return "", 0, ""
}

// Diagnose classifies a wrong answer with the default classifiers.
// Unmatched answers are CategoryUnclassified with a generic tip.
func Diagnose(input *ClassifyInput) DiagnosisResult {
	cat, conf, name := RunClassifiers(DefaultClassifiers(), input)
	if cat == "" {
		cat = CategoryUnclassified
	}
	return DiagnosisResult{
		Category:       cat,
		Confidence:     conf,
		ClassifierName: name,
		Tip:            TipFor(cat, input.Problem),
	}
}
