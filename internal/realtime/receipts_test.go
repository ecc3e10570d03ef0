package realtime

import (
	"fmt"
	"sync"
	"testing"
)

func TestReceiptTrackerDrainClears(t *testing.T) {
	tr := NewReceiptTracker()
	tr.Record(1, 10, 20, []uint{5, 6})

	if got := tr.Drain(1, 10, 21); len(got) != 0 {
		t.Fatalf("other author = %v", got)
	}
	if got := tr.Drain(1, 10, 20); len(got) != 2 || got[0] != 5 || got[1] != 6 {
		t.Fatalf("drain = %v", got)
	}
	if got := tr.Drain(1, 10, 20); got == nil || len(got) != 0 {
		t.Fatalf("second drain = %#v, want empty non-nil", got)
	}
}

func TestReceiptTrackerRecordAppends(t *testing.T) {
	tr := NewReceiptTracker()
	tr.Record(1, 10, 20, []uint{1, 2, 3})
	tr.Record(1, 10, 20, nil)
	tr.Record(1, 10, 20, []uint{3, 4})
	if got := tr.Drain(1, 10, 20); fmt.Sprint(got) != "[1 2 3 4]" {
		t.Fatalf("drain = %v, want [1 2 3 4]", got)
	}

	tr.Record(2, 10, 20, []uint{9})
	if got := tr.Drain(1, 10, 20); len(got) != 0 {
		t.Fatalf("rooms must not mix, got %v", got)
	}
	if got := tr.Drain(2, 10, 20); len(got) != 1 || got[0] != 9 {
		t.Fatalf("room 2 = %v", got)
	}
}

func TestReceiptTrackerConcurrentRecordKeepsEveryID(t *testing.T) {
	tr := NewReceiptTracker()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			tr.Record(1, 10, 20, []uint{id})
			tr.Record(1, 10, 20, nil)
		}(uint(i + 1))
	}
	wg.Wait()
	if got := tr.Drain(1, 10, 20); len(got) != 8 {
		t.Fatalf("drain = %v, want 8 ids", got)
	}
}
