package metrics

import "testing"

func TestMemorySnapshot(t *testing.T) {
	mc := NewMemoryCollector()
	snap := mc.Snapshot()
	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be nonzero in a running process")
	}
	if snap.Sys < snap.HeapSys {
		t.Errorf("Sys (%d) should include HeapSys (%d)", snap.Sys, snap.HeapSys)
	}
}

func TestCollectorsRegister(t *testing.T) {
	c := New()
	if c.Registry() == nil {
		t.Fatal("Registry should not be nil")
	}
	// registering twice on the same registry would panic; a fresh New
	// must not share state with a previous instance
	c2 := New()
	if c.Registry() == c2.Registry() {
		t.Error("each Collectors should own its registry")
	}
}
