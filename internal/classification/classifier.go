// Package classification assigns categories from a fixed table of keyword rules.
package classification

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Veraticus/the-spice-must-learn/internal/model"
)

// ErrInvalidRule is returned for rules that cannot be compiled.
var ErrInvalidRule = errors.New("invalid rule")

// Rule maps a family of keywords to a category.
type Rule struct {
	Name     string
	Category string
	Keywords []string
}

// compiledRule holds a rule's keywords compiled into one expression.
type compiledRule struct {
	regex *regexp.Regexp
	Rule
}

// RuleClassifier categorizes transactions by the first rule whose keywords
// appear in the beneficiary name or remark. It is safe for concurrent use.
type RuleClassifier struct {
	rules []compiledRule
}

// NewRuleClassifier compiles rules, preserving their order.
func NewRuleClassifier(rules []Rule) (*RuleClassifier, error) {
	compiled := make([]compiledRule, 0, len(rules))

	for _, r := range rules {
		if strings.TrimSpace(r.Category) == "" {
			return nil, fmt.Errorf("%w: %s has no category", ErrInvalidRule, r.Name)
		}
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("%w: %s has no keywords", ErrInvalidRule, r.Name)
		}
		for _, kw := range r.Keywords {
			if strings.TrimSpace(kw) == "" {
				return nil, fmt.Errorf("%w: %s has an empty keyword", ErrInvalidRule, r.Name)
			}
			// Each keyword must stand alone, or a stray bracket could swallow
			// the boundary group around the alternation.
			if _, err := regexp.Compile(kw); err != nil {
				return nil, fmt.Errorf("failed to compile rule %s: %w", r.Name, err)
			}
		}

		regex, err := regexp.Compile(keywordExpr(r.Keywords))
		if err != nil {
			return nil, fmt.Errorf("failed to compile rule %s: %w", r.Name, err)
		}

		compiled = append(compiled, compiledRule{Rule: r, regex: regex})
	}

	return &RuleClassifier{rules: compiled}, nil
}

// NewDefaultRuleClassifier returns a classifier over DefaultRules.
func NewDefaultRuleClassifier() *RuleClassifier {
	rc, err := NewRuleClassifier(DefaultRules())
	if err != nil {
		panic(fmt.Sprintf("default rules do not compile: %v", err))
	}
	return rc
}

// keywordExpr joins keywords into a case-insensitive alternation that only
// matches at letter/digit boundaries. Go's \b is ASCII-only, which would
// split Vietnamese words at every accented letter.
func keywordExpr(keywords []string) string {
	groups := make([]string, len(keywords))
	for i, kw := range keywords {
		groups[i] = "(?:" + kw + ")"
	}
	return `(?i)(?:^|[^\p{L}\p{N}])(?:` + strings.Join(groups, "|") + `)(?:$|[^\p{L}\p{N}])`
}

// Classify returns the category of the first matching rule, or Other.
func (rc *RuleClassifier) Classify(beneficiaryName, remark string) string {
	if r := rc.Match(beneficiaryName, remark); r != nil {
		return r.Category
	}
	return model.CategoryOther
}

// Match returns the first rule matching the transaction text, or nil.
func (rc *RuleClassifier) Match(beneficiaryName, remark string) *Rule {
	text := strings.TrimSpace(beneficiaryName + " " + remark)
	if text == "" {
		return nil
	}

	for i := range rc.rules {
		if rc.rules[i].regex.MatchString(text) {
			return &rc.rules[i].Rule
		}
	}
	return nil
}

// Rules returns the classifier's rules in evaluation order.
func (rc *RuleClassifier) Rules() []Rule {
	rules := make([]Rule, len(rc.rules))
	for i, r := range rc.rules {
		rules[i] = r.Rule
	}
	return rules
}
