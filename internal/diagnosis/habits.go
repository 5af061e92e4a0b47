package diagnosis

import "time"

// The classifiers here look at how an answer was given rather than at its
// digits, so they run after every pattern classifier.

// Defaults for the habit classifiers.
const (
	SpeedRushThreshold        = 2 * time.Second
	CarelessAccuracyThreshold = 0.80
	CarelessMinAttempts       = 5
)

// SpeedRushClassifier flags wrong answers given faster than Threshold
// (SpeedRushThreshold when zero). An unknown response time never matches.
type SpeedRushClassifier struct {
	Threshold time.Duration
}

func (c *SpeedRushClassifier) Name() string { return "speed-rush" }

func (c *SpeedRushClassifier) Classify(input *ClassifyInput) (ErrorCategory, float64) {
	limit := c.Threshold
	if limit <= 0 {
		limit = SpeedRushThreshold
	}
	if rt := input.ResponseTime; rt <= 0 || rt >= limit {
		return "", 0
	}
	return CategorySpeedRush, 0.9
}

// CarelessClassifier treats a miss by a learner who has been getting this
// operation right as a slip, not a gap. It needs CarelessMinAttempts
// earlier answers and accuracy above CarelessAccuracyThreshold.
type CarelessClassifier struct{}

func (c *CarelessClassifier) Name() string { return "careless" }

func (c *CarelessClassifier) Classify(input *ClassifyInput) (ErrorCategory, float64) {
	if input.OpAttempts < CarelessMinAttempts || input.OpAccuracy <= CarelessAccuracyThreshold {
		return "", 0
	}
	return CategoryCareless, 0.8
}
