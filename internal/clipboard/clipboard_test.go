package clipboard

import "testing"

func TestMemory(t *testing.T) {
	var m Memory
	if m.Text() != "" || m.Writes() != 0 {
		t.Fatalf("zero Memory not empty: %q, %d", m.Text(), m.Writes())
	}
	if err := m.SetText("first"); err != nil {
		t.Fatalf("SetText error = %v", err)
	}
	_ = m.SetText("second")
	if m.Text() != "second" {
		t.Errorf("Text() = %q, want second", m.Text())
	}
	if m.Writes() != 2 {
		t.Errorf("Writes() = %d, want 2", m.Writes())
	}
}

func TestDefault(t *testing.T) {
	cb := Default()
	if cb == nil {
		t.Fatal("Default() returned nil")
	}
	if _, isSystem := cb.(System); isSystem != Available() {
		t.Errorf("Default() = %T with Available() = %v", cb, Available())
	}
}
