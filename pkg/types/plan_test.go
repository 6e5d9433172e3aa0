package types

import (
	"errors"
	"testing"
)

const samplePlanYAML = `
paths:
  - name: Foundation
    milestones:
      - name: Scaffolding
        description: Repository layout and build tooling
        tasks:
          - name: Create module layout
            items:
              - add go.mod
              - add package directories
          - name: Wire build targets
      - name: Core store
        tasks:
          - name: Schema
            items:
              - write DDL
  - name: Release
    milestones:
      - name: Packaging
`

func TestParsePlan(t *testing.T) {
	plan, err := ParsePlan([]byte(samplePlanYAML))
	if err != nil {
		t.Fatalf("ParsePlan failed: %v", err)
	}

	if len(plan.Paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(plan.Paths))
	}
	if plan.Paths[0].Name != "Foundation" {
		t.Errorf("unexpected path name %q", plan.Paths[0].Name)
	}
	if len(plan.Paths[0].Milestones) != 2 {
		t.Errorf("expected 2 milestones, got %d", len(plan.Paths[0].Milestones))
	}
	first := plan.Paths[0].Milestones[0]
	if len(first.Tasks) != 2 || len(first.Tasks[0].Items) != 2 {
		t.Errorf("tasks/items not decoded: %+v", first)
	}
}

func TestParsePlan_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{"no paths", `paths: []`, ErrPlanEmpty},
		{"path without milestones", "paths:\n  - name: P\n    milestones: []", ErrPlanPathEmpty},
		{"empty path name", "paths:\n  - name: \"\"\n    milestones:\n      - name: M", ErrPlanNameEmpty},
		{"duplicate path name", "paths:\n  - name: P\n    milestones:\n      - name: M\n  - name: P\n    milestones:\n      - name: M2", ErrPlanDuplicateName},
		{"empty item", "paths:\n  - name: P\n    milestones:\n      - name: M\n        tasks:\n          - name: T\n            items:\n              - \"\"", ErrPlanItemEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlan([]byte(tt.yaml))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParsePlan() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParsePlan_Malformed(t *testing.T) {
	_, err := ParsePlan([]byte("paths: [unclosed"))
	if err == nil {
		t.Error("expected decode error for malformed YAML")
	}
}
