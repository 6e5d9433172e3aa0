package types

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Plan is an externally-authored blueprint of the completion tree. Waymark
// never invents paths, milestones, or tasks on its own; they arrive as a plan
// (or later as individual task definitions for a newly-activated milestone).
type Plan struct {
	Paths []PlanPath `yaml:"paths"`
}

// PlanPath declares one completion path and its milestones, in order.
type PlanPath struct {
	Name       string          `yaml:"name"`
	Milestones []PlanMilestone `yaml:"milestones"`
}

// PlanMilestone declares one milestone and, optionally, its initial tasks.
type PlanMilestone struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Tasks       []PlanTask `yaml:"tasks"`
}

// PlanTask declares one task and its checklist items.
type PlanTask struct {
	Name  string   `yaml:"name"`
	Items []string `yaml:"items"`
}

// Plan validation errors.
var (
	ErrPlanEmpty         = errors.New("plan has no completion paths")
	ErrPlanPathEmpty     = errors.New("completion path has no milestones")
	ErrPlanNameEmpty     = errors.New("plan entry name must not be empty")
	ErrPlanItemEmpty     = errors.New("checklist item must not be empty")
	ErrPlanDuplicateName = errors.New("duplicate name in plan")
)

// ParsePlan decodes a YAML plan document and validates it.
func ParsePlan(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks structural soundness: at least one path, every path has at
// least one milestone, all names non-empty, path names unique.
func (p *Plan) Validate() error {
	if len(p.Paths) == 0 {
		return ErrPlanEmpty
	}
	seen := make(map[string]bool, len(p.Paths))
	for _, path := range p.Paths {
		if path.Name == "" {
			return ErrPlanNameEmpty
		}
		if seen[path.Name] {
			return fmt.Errorf("%w: %q", ErrPlanDuplicateName, path.Name)
		}
		seen[path.Name] = true
		if len(path.Milestones) == 0 {
			return fmt.Errorf("%w: %q", ErrPlanPathEmpty, path.Name)
		}
		for _, ms := range path.Milestones {
			if ms.Name == "" {
				return ErrPlanNameEmpty
			}
			for _, task := range ms.Tasks {
				if task.Name == "" {
					return ErrPlanNameEmpty
				}
				for _, item := range task.Items {
					if item == "" {
						return ErrPlanItemEmpty
					}
				}
			}
		}
	}
	return nil
}
