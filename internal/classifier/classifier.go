// Package classifier derives leader roles from free-text position titles.
package classifier

import (
	"fmt"
	"strings"

	"github.com/locvowork/orgmaker/internal/domain"
)

// Rule maps a keyword found in a position string to a role tag.
type Rule struct {
	Keyword string      `yaml:"keyword" json:"keyword"`
	Role    domain.Role `yaml:"role" json:"role"`
}

// DefaultRules is the built-in rule order. A position containing several
// keywords gets the role of the first rule listed here, so "부사장" is
// classified as PRESIDENT.
func DefaultRules() []Rule {
	return []Rule{
		{Keyword: "사장", Role: domain.RolePresident},
		{Keyword: "대표이사", Role: domain.RoleCEO},
		{Keyword: "부문리더", Role: domain.RoleDivision},
		{Keyword: "그룹리더", Role: domain.RoleGroup},
		{Keyword: "팀리더", Role: domain.RoleTeam},
	}
}

// Classifier evaluates its rules in order; first match wins.
type Classifier struct {
	rules []Rule
}

// New builds a classifier over rules. Empty keywords would match every
// position and are rejected.
func New(rules []Rule) (*Classifier, error) {
	out := make([]Rule, 0, len(rules))
	for i, r := range rules {
		if r.Keyword == "" {
			return nil, fmt.Errorf("rule %d: empty keyword", i)
		}
		if r.Role == "" {
			return nil, fmt.Errorf("rule %d (%s): empty role", i, r.Keyword)
		}
		out = append(out, r)
	}
	return &Classifier{rules: out}, nil
}

// Default returns a classifier over DefaultRules.
func Default() *Classifier {
	return &Classifier{rules: DefaultRules()}
}

// Classify returns the role of the first rule whose keyword occurs in
// position, or nil.
func (c *Classifier) Classify(position string) *domain.Role {
	for _, r := range c.rules {
		if strings.Contains(position, r.Keyword) {
			role := r.Role
			return &role
		}
	}
	return nil
}

// Rules returns a copy of the rule list.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}
