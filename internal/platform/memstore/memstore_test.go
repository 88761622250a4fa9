package memstore

import (
	"sync"
	"testing"
)

func TestTable_GetSetDelete(t *testing.T) {
	tab := NewTable[string]()

	if _, ok := tab.Get("a"); ok {
		t.Error("expected absent before set")
	}

	tab.Set("a", "one")
	v, ok := tab.Get("a")
	if !ok || v != "one" {
		t.Errorf("expected one, got %q ok=%v", v, ok)
	}

	tab.Set("a", "two")
	if v, _ := tab.Get("a"); v != "two" {
		t.Errorf("expected upsert to overwrite, got %q", v)
	}

	if !tab.Delete("a") {
		t.Error("expected delete of existing to report true")
	}
	if tab.Delete("a") {
		t.Error("expected delete of missing to report false")
	}
}

func TestTable_ValuesAndReset(t *testing.T) {
	tab := NewTable[int]()
	tab.Set("a", 1)
	tab.Set("b", 2)

	if got := len(tab.Values()); got != 2 {
		t.Errorf("expected 2 values, got %d", got)
	}
	if tab.Len() != 2 {
		t.Errorf("expected len 2, got %d", tab.Len())
	}

	tab.Reset()
	if tab.Len() != 0 {
		t.Errorf("expected empty after reset, got %d", tab.Len())
	}
}

func TestTable_ConcurrentWriters(t *testing.T) {
	tab := NewTable[int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			tab.Set(string(rune('a'+n%26)), n)
			tab.Values()
			tab.Get("a")
		}(i)
	}
	wg.Wait()
	if tab.Len() == 0 {
		t.Error("expected records after concurrent writes")
	}
}
