package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// A bytes.Buffer is not a TTY, so the bar stays quiet until completion.
func TestProgressBar_NonTTYQuietUntilDone(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(10, "Removing files")
	p.SetWriter(buf)

	for i := 0; i < 9; i++ {
		p.Increment()
	}
	if buf.Len() != 0 {
		t.Errorf("non-TTY bar should stay quiet before completion, got: %q", buf.String())
	}

	p.Increment()
	output := buf.String()

	if !strings.Contains(output, "100%") {
		t.Errorf("completed bar should show 100%%, got: %q", output)
	}
	if !strings.Contains(output, "Removing files") {
		t.Errorf("bar should contain description, got: %q", output)
	}
}

func TestProgressBar_Finish(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(4, "Complete")
	p.SetWriter(buf)

	p.Increment()
	p.Increment()
	p.Finish()
	output := buf.String()

	if !strings.Contains(output, "100%") {
		t.Errorf("Finish() should show 100%%, got: %q", output)
	}
	if !strings.HasSuffix(strings.TrimSpace(output), "Complete") {
		t.Errorf("Finish() should end with description, got: %q", output)
	}
}

func TestProgressBar_FinishAfterDoneDoesNotRepeat(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(2, "Done")
	p.SetWriter(buf)

	p.Increment()
	p.Increment()
	p.Finish()

	if got := strings.Count(buf.String(), "100%"); got != 1 {
		t.Errorf("expected exactly one completion line, got %d: %q", got, buf.String())
	}
}

func TestProgressBar_OverLimit(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(3, "Test")
	p.SetWriter(buf)

	for i := 0; i < 5; i++ {
		p.Increment()
	}

	if !strings.Contains(buf.String(), "100%") {
		t.Errorf("progress should cap at 100%%, got: %q", buf.String())
	}
	if strings.Contains(buf.String(), "166%") {
		t.Errorf("progress must never exceed 100%%, got: %q", buf.String())
	}
}

func TestProgressBar_ZeroTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(0, "Empty")
	p.SetWriter(buf)

	// Should not panic with zero total
	p.Increment()
	output := buf.String()

	if !strings.Contains(output, "[") || !strings.Contains(output, "]") {
		t.Errorf("progress bar with zero total should still render, got: %q", output)
	}
}

func TestProgressBar_Width(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(1, "Test")
	p.SetWriter(buf)

	p.Increment()
	output := buf.String()

	start := strings.Index(output, "[")
	end := strings.Index(output, "]")
	if start == -1 || end == -1 {
		t.Fatalf("could not find brackets in output: %q", output)
	}

	barContent := output[start+1 : end]
	if len(barContent) != 40 {
		t.Errorf("progress bar width should be 40, got %d: %q", len(barContent), barContent)
	}
}

func TestSpinner_NonTTYPrintsOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Scanning categories")
	s.SetWriter(buf)

	s.Start()
	s.Stop()

	output := buf.String()
	if !strings.Contains(output, "Scanning categories...") {
		t.Errorf("non-TTY spinner should print its message once, got: %q", output)
	}
	if got := strings.Count(output, "Scanning"); got != 1 {
		t.Errorf("message should appear exactly once, got %d: %q", got, output)
	}
}

func TestSpinner_StartStop(t *testing.T) {
	buf := &bytes.Buffer{}
	s := &Spinner{
		message: "Test",
		chars:   []string{"|", "/", "-", "\\"},
		writer:  buf,
		done:    make(chan struct{}),
	}

	s.Start()
	if !s.running {
		t.Error("spinner should be running after Start()")
	}

	s.Stop()
	if s.running {
		t.Error("spinner should not be running after Stop()")
	}
}

func TestSpinner_MultipleStops(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Test")
	s.SetWriter(buf)

	s.Start()

	// Multiple stops should not panic
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinner_StopBeforeStart(t *testing.T) {
	s := NewSpinner("Never started")
	s.SetWriter(&bytes.Buffer{})

	// Stopping a spinner that never ran should be a no-op
	s.Stop()
}

func TestSpinner_UpdateMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Initial")
	s.SetWriter(buf)

	s.Start()
	s.UpdateMessage("Updated")
	s.Stop()

	if s.message != "Updated" {
		t.Errorf("message = %q, want %q", s.message, "Updated")
	}
}

func TestSpinner_StopWithMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Working")
	s.SetWriter(buf)

	s.Start()
	s.StopWithMessage("Done!")

	if !strings.Contains(buf.String(), "Done!") {
		t.Errorf("spinner should contain final message, got: %q", buf.String())
	}
}

// TestProgressBar_Concurrent tests thread safety
func TestProgressBar_Concurrent(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(1000, "Concurrent test")
	p.SetWriter(buf)

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				p.Increment()
			}
			done <- struct{}{}
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	if p.current != 1000 {
		t.Errorf("after concurrent increments current = %d, want 1000", p.current)
	}
	if !strings.Contains(buf.String(), "100%") {
		t.Errorf("after concurrent increments, should have completed, got: %q", buf.String())
	}
}

// TestSpinner_Concurrent tests spinner thread safety
func TestSpinner_Concurrent(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Concurrent spinner")
	s.SetWriter(buf)

	s.Start()

	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		go func() {
			for j := 0; j < 10; j++ {
				s.UpdateMessage("Message from goroutine")
				time.Sleep(time.Millisecond)
			}
			done <- struct{}{}
		}()
	}

	for i := 0; i < 5; i++ {
		<-done
	}

	s.Stop()
	// Should not panic or race
}

// Benchmark tests
func BenchmarkProgressBar_Increment(b *testing.B) {
	buf := &bytes.Buffer{}
	p := NewProgress(b.N, "Benchmark")
	p.SetWriter(buf)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Increment()
	}
}

func BenchmarkFormatSize(b *testing.B) {
	sizes := []int64{
		512,
		1024 * 1024,
		1024 * 1024 * 1024,
		10 * 1024 * 1024 * 1024,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		formatSize(sizes[i%len(sizes)])
	}
}

func BenchmarkFormatRelativeTime(b *testing.B) {
	times := []time.Time{
		time.Now().Add(-30 * time.Second),
		time.Now().Add(-5 * time.Minute),
		time.Now().Add(-2 * time.Hour),
		time.Now().Add(-3 * 24 * time.Hour),
		time.Now().Add(-30 * 24 * time.Hour),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		formatRelativeTime(times[i%len(times)])
	}
}
