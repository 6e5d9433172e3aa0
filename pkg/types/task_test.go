package types

import (
	"testing"
)

func TestTask_ItemsDone(t *testing.T) {
	task := &Task{
		Name:   "wire parser",
		Status: StatusInProgress,
		Items: []Item{
			{Description: "tokenize", Done: true},
			{Description: "build tree", Done: false},
		},
	}

	if task.ItemsDone() {
		t.Error("ItemsDone should be false with an undone item")
	}

	task.Items[1].Done = true
	if !task.ItemsDone() {
		t.Error("ItemsDone should be true when every item is done")
	}
}

func TestTask_ItemsDone_NoItems(t *testing.T) {
	task := &Task{Name: "empty task", Status: StatusPending}
	if !task.ItemsDone() {
		t.Error("ItemsDone should be vacuously true for a task with no items")
	}
}

func TestTask_Start(t *testing.T) {
	task := &Task{Name: "t", Status: StatusPending}

	if err := task.Start(); err != nil {
		t.Fatalf("Start from pending failed: %v", err)
	}
	if task.Status != StatusInProgress {
		t.Errorf("expected in_progress, got %s", task.Status)
	}

	// Idempotent from in_progress.
	if err := task.Start(); err != nil {
		t.Errorf("Start from in_progress should be a no-op, got %v", err)
	}

	task.Status = StatusCompleted
	if err := task.Start(); err != ErrInvalidTransition {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestTask_Complete_AllItemsDone(t *testing.T) {
	task := &Task{
		Name:   "t",
		Status: StatusInProgress,
		Items:  []Item{{Description: "a", Done: true}},
	}

	if err := task.Complete(false); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if task.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", task.Status)
	}
	if task.CompletedAt == nil {
		t.Error("CompletedAt must be set on completion")
	}
}

func TestTask_Complete_UndoneItemsRejected(t *testing.T) {
	task := &Task{
		Name:   "t",
		Status: StatusInProgress,
		Items:  []Item{{Description: "a", Done: false}},
	}

	if err := task.Complete(false); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if task.Status != StatusInProgress {
		t.Errorf("status must be unchanged after rejected completion, got %s", task.Status)
	}
	if task.Items[0].Done {
		t.Error("item must not be mutated by a rejected completion")
	}
}

func TestTask_Complete_Override(t *testing.T) {
	task := &Task{
		Name:   "t",
		Status: StatusInProgress,
		Items: []Item{
			{Description: "a", Done: true},
			{Description: "b", Done: false},
		},
	}

	if err := task.Complete(true); err != nil {
		t.Fatalf("Complete with override failed: %v", err)
	}
	if task.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", task.Status)
	}
	// Override marks remaining items done so the invariant holds.
	for i, it := range task.Items {
		if !it.Done {
			t.Errorf("item %d must be done after override completion", i)
		}
	}
}

func TestTask_Complete_AlreadyCompleted(t *testing.T) {
	task := &Task{Name: "t", Status: StatusCompleted}
	if err := task.Complete(false); err != ErrInvalidTransition {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}
