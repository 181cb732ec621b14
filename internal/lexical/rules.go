// Package lexical scores headlines with deterministic keyword rules.
package lexical

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"HeadlineScorer/internal/domain"
)

// ScoringRule matches when every required term and at least one normal term
// occur in the headline. Empty term sets are vacuously satisfied.
type ScoringRule struct {
	Name     string   `yaml:"name,omitempty"`
	Required []string `yaml:"required,omitempty"`
	Normal   []string `yaml:"normal,omitempty"`
}

// Term builds the common single-keyword rule.
func Term(keyword string) ScoringRule {
	return ScoringRule{Name: keyword, Normal: []string{keyword}}
}

// Terms builds one single-keyword rule per keyword.
func Terms(keywords ...string) []ScoringRule {
	rules := make([]ScoringRule, 0, len(keywords))
	for _, kw := range keywords {
		rules = append(rules, Term(kw))
	}
	return rules
}

// Label names the rule in reject reasons and logs.
func (r ScoringRule) Label() string {
	if r.Name != "" {
		return r.Name
	}
	parts := append(append([]string{}, r.Required...), r.Normal...)
	return strings.Join(parts, "+")
}

// Matches expects a lowercased headline.
func (r ScoringRule) Matches(lowered string) bool {
	for _, term := range r.Required {
		if !strings.Contains(lowered, strings.ToLower(term)) {
			return false
		}
	}
	if len(r.Normal) == 0 {
		return true
	}
	for _, term := range r.Normal {
		if strings.Contains(lowered, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// UnmarshalYAML accepts either a bare keyword or a full rule mapping.
func (r *ScoringRule) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*r = Term(node.Value)
		return nil
	}
	type plain ScoringRule
	var decoded plain
	if err := node.Decode(&decoded); err != nil {
		return err
	}
	*r = ScoringRule(decoded)
	return nil
}

func (r ScoringRule) validate() error {
	if len(r.Required) == 0 && len(r.Normal) == 0 {
		return fmt.Errorf("rule %q has no terms", r.Label())
	}
	for _, term := range append(append([]string{}, r.Required...), r.Normal...) {
		if strings.TrimSpace(term) == "" {
			return fmt.Errorf("rule %q has an empty term", r.Label())
		}
	}
	return nil
}

// Band awards Score once a tier reaches MinHits matching rules.
type Band struct {
	MinHits int `yaml:"minHits"`
	Score   int `yaml:"score"`
}

// Tier is a priority-ordered keyword bucket within one dimension.
// Bands are tried top to bottom; the first satisfied band decides the score.
type Tier struct {
	Name  string        `yaml:"name"`
	Rules []ScoringRule `yaml:"rules"`
	Bands []Band        `yaml:"bands"`
}

// Dimension cascades through its tiers and falls back to Default.
type Dimension struct {
	Name    string `yaml:"name"`
	Tiers   []Tier `yaml:"tiers"`
	Default int    `yaml:"default"`
}

// RuleSet is the complete read-only rule table.
type RuleSet struct {
	Blacklist     []ScoringRule `yaml:"blacklist"`
	Audience      Dimension     `yaml:"audience"`
	Interest      Dimension     `yaml:"interest"`
	Comprehension Dimension     `yaml:"comprehension"`
}

// Validate checks every rule and band so a loaded table cannot match vacuously
// or award out-of-range scores.
func (rs RuleSet) Validate() error {
	for _, rule := range rs.Blacklist {
		if err := rule.validate(); err != nil {
			return &domain.ConfigError{Field: "rules.blacklist", Reason: err.Error()}
		}
	}
	for _, dim := range []Dimension{rs.Audience, rs.Interest, rs.Comprehension} {
		if err := dim.validate(); err != nil {
			return &domain.ConfigError{Field: "rules." + dim.Name, Reason: err.Error()}
		}
	}
	return nil
}

func (d Dimension) validate() error {
	if d.Default < domain.MinDimensionScore || d.Default > domain.MaxDimensionScore {
		return fmt.Errorf("default %d outside [0,10]", d.Default)
	}
	for _, tier := range d.Tiers {
		if len(tier.Bands) == 0 {
			return fmt.Errorf("tier %q has no bands", tier.Name)
		}
		for i, band := range tier.Bands {
			if band.MinHits < 1 {
				return fmt.Errorf("tier %q band %d needs minHits >= 1", tier.Name, i)
			}
			if band.Score < domain.MinDimensionScore || band.Score > domain.MaxDimensionScore {
				return fmt.Errorf("tier %q band %d score %d outside [0,10]", tier.Name, i, band.Score)
			}
			if i > 0 && band.MinHits >= tier.Bands[i-1].MinHits {
				return fmt.Errorf("tier %q bands must be ordered by decreasing minHits", tier.Name)
			}
		}
		for _, rule := range tier.Rules {
			if err := rule.validate(); err != nil {
				return fmt.Errorf("tier %q: %w", tier.Name, err)
			}
		}
	}
	return nil
}

// LoadRuleSet reads a YAML rule table from disk.
func LoadRuleSet(path string) (RuleSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("read rules %s: %w", path, err)
	}
	return ParseRuleSet(raw)
}

// ParseRuleSet decodes and validates a YAML rule table.
func ParseRuleSet(raw []byte) (RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(raw, &rs); err != nil {
		return RuleSet{}, fmt.Errorf("parse rules: %w", err)
	}
	if err := rs.Validate(); err != nil {
		return RuleSet{}, err
	}
	return rs, nil
}

// YAML encodes the table in the same shape LoadRuleSet reads.
func (rs RuleSet) YAML() ([]byte, error) {
	return yaml.Marshal(rs)
}
