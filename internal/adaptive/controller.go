package adaptive

import "examprep-service/internal/models"

// Rule gates promotion out of a tier. All three conditions must hold over
// the recency window before a session moves up.
type Rule struct {
	MinAccuracy       float64 `yaml:"min_accuracy"`
	MaxAvgTimeSeconds float64 `yaml:"max_avg_time_seconds"`
	MinAnswers        int     `yaml:"min_answers"`
}

// Policy configures the level controller. Promotion is keyed by the tier a
// session is currently at; a tier without a rule never promotes.
type Policy struct {
	WindowSize int           `yaml:"window_size"`
	MinHistory int           `yaml:"min_history"`
	Promotion  map[Tier]Rule `yaml:"promotion"`
}

// DefaultPolicy gates promotion on both correctness and speed so that a
// slow-but-accurate or fast-but-guessing learner stays put, and discounts
// stale early performance via the 5-answer window.
func DefaultPolicy() *Policy {
	return &Policy{
		WindowSize: 5,
		MinHistory: 3,
		Promotion: map[Tier]Rule{
			TierEasy: {
				MinAccuracy:       0.70,
				MaxAvgTimeSeconds: 45,
				MinAnswers:        5,
			},
			TierMedium: {
				MinAccuracy:       0.60,
				MaxAvgTimeSeconds: 50,
				MinAnswers:        8,
			},
		},
	}
}

// Decision is the controller's verdict for a session: stay at the current
// tier or promote to NextTier. Termination is never decided here; the engine
// infers it when no question is left and no promotion applies.
type Decision struct {
	Promote  bool `json:"promote"`
	NextTier Tier `json:"next_tier,omitempty"`
}

// Controller decides tier progression from answer history alone. It holds
// no I/O and no mutable state.
type Controller struct {
	policy *Policy
}

// NewController builds a controller; a nil policy selects DefaultPolicy.
func NewController(policy *Policy) *Controller {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Controller{policy: policy}
}

// Decide evaluates the promotion rule for tier against the session history.
func (c *Controller) Decide(tier Tier, history []models.AnswerRecord) Decision {
	stay := Decision{}
	if len(history) < c.policy.MinHistory {
		return stay
	}

	rule, ok := c.policy.Promotion[tier]
	if !ok {
		return stay
	}
	if len(history) < rule.MinAnswers {
		return stay
	}

	window := history
	if len(window) > c.policy.WindowSize {
		window = window[len(window)-c.policy.WindowSize:]
	}

	correct := 0
	totalTime := 0
	for _, rec := range window {
		if rec.IsCorrect {
			correct++
		}
		totalTime += rec.TimeSpentSeconds
	}
	accuracy := float64(correct) / float64(len(window))
	avgTime := float64(totalTime) / float64(len(window))

	if accuracy < rule.MinAccuracy || avgTime > rule.MaxAvgTimeSeconds {
		return stay
	}

	next, ok := tier.Next()
	if !ok {
		return stay
	}
	return Decision{Promote: true, NextTier: next}
}
