package validation

import (
	"github.com/go-playground/validator/v10"
)

const LocationBody = "body"

// Rule binds a request field to a validator tag and the message reported when
// the tag fails.
type Rule struct {
	Field   string
	Tag     string
	Message string
}

// Violation mirrors the error entries the frontend already renders.
type Violation struct {
	Value    string `json:"value"`
	Msg      string `json:"msg"`
	Param    string `json:"param"`
	Location string `json:"location"`
}

// Checker evaluates rule lists eagerly: every rule runs, violations keep rule order.
type Checker struct {
	validate *validator.Validate
}

func NewChecker(v *validator.Validate) *Checker {
	if v == nil {
		v = New()
	}
	return &Checker{validate: v}
}

// Check returns nil when every rule passes.
func (c *Checker) Check(rules []Rule, payload map[string]string) []Violation {
	var violations []Violation
	for _, rule := range rules {
		value := payload[rule.Field]
		if err := c.validate.Var(value, rule.Tag); err != nil {
			violations = append(violations, Violation{
				Value:    value,
				Msg:      rule.Message,
				Param:    rule.Field,
				Location: LocationBody,
			})
		}
	}
	return violations
}
