package quality

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ruleSpec is the YAML shape of one rule declaration.
type ruleSpec struct {
	Name       string   `yaml:"name"`
	Column     string   `yaml:"column"`
	Kind       string   `yaml:"kind"`
	Min        *float64 `yaml:"min"`
	Max        *float64 `yaml:"max"`
	Threshold  float64  `yaml:"threshold"`
	Pattern    string   `yaml:"pattern"`
	AllowBlank bool     `yaml:"allow_blank"`
}

type rulesFile struct {
	Rules []ruleSpec `yaml:"rules"`
}

// LoadRules reads a YAML ruleset declaration and validates it against the
// source schema. Omitted min/max bounds on range and mean rules default to
// unbounded on that side.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ruleset %s: %w", path, err)
	}

	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse ruleset %s: %w", path, err)
	}
	if len(rf.Rules) == 0 {
		return nil, fmt.Errorf("ruleset %s declares no rules", path)
	}

	rules := make([]Rule, 0, len(rf.Rules))
	for _, rs := range rf.Rules {
		r := Rule{
			Name:       rs.Name,
			Column:     rs.Column,
			Kind:       Kind(rs.Kind),
			Threshold:  rs.Threshold,
			Pattern:    rs.Pattern,
			AllowBlank: rs.AllowBlank,
		}
		if r.Kind == KindRange || r.Kind == KindMean {
			r.Min = math.Inf(-1)
			r.Max = math.Inf(1)
		}
		if rs.Min != nil {
			r.Min = *rs.Min
		}
		if rs.Max != nil {
			r.Max = *rs.Max
		}
		rules = append(rules, r)
	}
	if err := ValidateRules(rules); err != nil {
		return nil, fmt.Errorf("ruleset %s: %w", path, err)
	}
	return rules, nil
}
