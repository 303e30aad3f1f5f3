// ABOUTME: Optional YAML policy file for scoring thresholds and point values
// ABOUTME: Unset keys keep their defaults; category weights are not configurable
package config

import (
	"fmt"
	"os"

	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/scoring"
	"github.com/harperreed/sherpa/urgency"
	"github.com/harperreed/sherpa/warmintro"
	"gopkg.in/yaml.v3"
)

type Policy struct {
	Relationship scoring.Policy     `yaml:"relationship"`
	Urgency      urgency.Policy     `yaml:"urgency"`
	WarmIntro    warmintro.Policy   `yaml:"warm_intro"`
	ICP          *models.ICPProfile `yaml:"icp,omitempty"`
}

func DefaultPolicy() *Policy {
	return &Policy{
		Relationship: scoring.DefaultPolicy(),
		Urgency:      urgency.DefaultPolicy(),
		WarmIntro:    warmintro.DefaultPolicy(),
	}
}

// LoadPolicy decodes path over the default policy. An empty path or a
// missing file yields the defaults.
func LoadPolicy(path string) (*Policy, error) {
	policy := DefaultPolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return policy, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read policy: %w", err)
	}

	if err := yaml.Unmarshal(data, policy); err != nil {
		return nil, fmt.Errorf("failed to parse policy %s: %w", path, err)
	}
	if len(policy.Urgency.Relationship.DegreePoints) == 0 {
		policy.Urgency.Relationship.DegreePoints = urgency.DefaultPolicy().Relationship.DegreePoints
	}
	return policy, nil
}

// Scorer builds a relationship scorer from the policy.
func (p *Policy) Scorer() *scoring.Scorer {
	return scoring.NewWithPolicy(p.Relationship)
}

func (p *Policy) UrgencyEngine() *urgency.Engine {
	return urgency.NewWithPolicy(p.Urgency)
}

func (p *Policy) Matcher(opts ...warmintro.Option) *warmintro.Matcher {
	return warmintro.New(append([]warmintro.Option{warmintro.WithPolicy(p.WarmIntro)}, opts...)...)
}
