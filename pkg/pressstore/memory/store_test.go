package memory

import "testing"

func TestPressStore(t *testing.T) {
	s := NewPressStore()

	for _, label := range []string{"A", "Shift", "A"} {
		if err := s.RecordPress(label); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	counts, err := s.Counts()
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts["A"] != 2 || counts["Shift"] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}

	counts["A"] = 100
	again, _ := s.Counts()
	if again["A"] != 2 {
		t.Error("Counts must return a copy")
	}
}
