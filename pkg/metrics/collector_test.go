package metrics

import (
	"testing"
)

func TestNewCollector(t *testing.T) {
	collector := NewCollector()
	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
}

func TestCollector_FrameMetrics(t *testing.T) {
	collector := NewCollector()

	collector.FrameDecoded(true)
	collector.FrameDecoded(false)
	collector.FrameDecoded(false)

	if got := collector.GetFramesDecoded(); got != 3 {
		t.Errorf("GetFramesDecoded() = %d, want 3", got)
	}
	if got := collector.GetLSFFramesDecoded(); got != 1 {
		t.Errorf("GetLSFFramesDecoded() = %d, want 1", got)
	}
	if got := collector.GetStreamFramesDecoded(); got != 2 {
		t.Errorf("GetStreamFramesDecoded() = %d, want 2", got)
	}
}

func TestCollector_CRCAndGolayMetrics(t *testing.T) {
	collector := NewCollector()

	collector.CRCFailed()
	collector.GolayCorrected()
	collector.GolayCorrected()
	collector.GolayFailed()

	if got := collector.GetCRCFailures(); got != 1 {
		t.Errorf("GetCRCFailures() = %d, want 1", got)
	}
	if got := collector.GetGolayCorrections(); got != 2 {
		t.Errorf("GetGolayCorrections() = %d, want 2", got)
	}
	if got := collector.GetGolayUncorrectable(); got != 1 {
		t.Errorf("GetGolayUncorrectable() = %d, want 1", got)
	}
}

func TestCollector_LockState(t *testing.T) {
	collector := NewCollector()
	if collector.GetLocked() {
		t.Fatal("expected unlocked by default")
	}
	collector.SetLocked(true)
	if !collector.GetLocked() {
		t.Fatal("expected locked after SetLocked(true)")
	}
}

func TestCollector_CallMetrics(t *testing.T) {
	collector := NewCollector()

	collector.CallStarted("N0CALL")
	if got := collector.GetActiveCalls(); got != 1 {
		t.Errorf("GetActiveCalls() = %d, want 1", got)
	}
	if got := collector.GetTotalCalls(); got != 1 {
		t.Errorf("GetTotalCalls() = %d, want 1", got)
	}

	collector.CallEnded("N0CALL")
	if got := collector.GetActiveCalls(); got != 0 {
		t.Errorf("GetActiveCalls() after end = %d, want 0", got)
	}
	if got := collector.GetTotalCalls(); got != 1 {
		t.Errorf("GetTotalCalls() after end = %d, want 1 (cumulative)", got)
	}
}

func TestCollector_Reset(t *testing.T) {
	collector := NewCollector()

	collector.CallStarted("N0CALL")
	collector.Reset()

	if collector.GetActiveCalls() != 0 {
		t.Error("expected active calls to be 0 after reset")
	}
	if collector.GetTotalCalls() != 1 {
		t.Error("expected cumulative total calls to survive reset")
	}
}

func TestCollector_Concurrent(t *testing.T) {
	collector := NewCollector()

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func(id int) {
			collector.FrameDecoded(false)
			collector.GolayCorrected()
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	if collector.GetFramesDecoded() < 10 {
		t.Error("expected at least 10 frames decoded")
	}
}
