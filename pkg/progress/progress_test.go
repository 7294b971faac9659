package progress

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBar(t *testing.T) {
	assert.Equal(t, "[>         ]", Bar(0, 10))
	assert.Equal(t, "[=====>    ]", Bar(50, 10))
	assert.Equal(t, "[==========]", Bar(100, 10))
	assert.Equal(t, "[==========]", Bar(250, 10))
	assert.Equal(t, "[>         ]", Bar(-5, 10))
}

func TestPlainOutput(t *testing.T) {
	var out bytes.Buffer
	tr := NewTrackerTo(&out, 2, false)

	tr.Start("a.png")
	tr.Complete("a.png", "clean")
	tr.Complete("b.png", "anomalous")
	tr.Finish()

	assert.Equal(t, "[1/2] a.png: clean\n[2/2] b.png: anomalous\n", out.String())
	assert.Equal(t, 2, tr.done)
	assert.InDelta(t, 100.0, tr.percent(), 1e-9)
}

func TestInteractiveOutput(t *testing.T) {
	var out bytes.Buffer
	tr := NewTrackerTo(&out, 4, true)

	tr.Complete("a.png", "clean")
	assert.Contains(t, out.String(), "25.0% (1/4) a.png")
	assert.NotContains(t, out.String(), "\n")

	tr.Finish()
	assert.True(t, strings.HasSuffix(out.String(), "\n"))
}

func TestCompleteDoesNotOvershoot(t *testing.T) {
	tr := NewTrackerTo(&bytes.Buffer{}, 1, false)
	tr.Complete("a", "")
	tr.Complete("b", "")
	assert.Equal(t, 1, tr.done)
}

func TestEmptyBatch(t *testing.T) {
	tr := NewTrackerTo(&bytes.Buffer{}, 0, false)
	assert.InDelta(t, 100.0, tr.percent(), 1e-9)
}

func TestConcurrentWorkers(t *testing.T) {
	var out bytes.Buffer
	tr := NewTrackerTo(&out, 3, false)

	var wg sync.WaitGroup
	for _, name := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			tr.Start(name)
			tr.Complete(name, "ok")
		}(name)
	}
	wg.Wait()

	assert.Equal(t, 3, tr.done)
	assert.Equal(t, 3, strings.Count(out.String(), "\n"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

func TestStartRendersCurrentItem(t *testing.T) {
	var out bytes.Buffer
	tr := NewTrackerTo(&out, 2, true)
	tr.Start("a.png")
	assert.Contains(t, out.String(), "0.0% (0/2) a.png")

	var plain bytes.Buffer
	NewTrackerTo(&plain, 2, false).Start("a.png")
	assert.Empty(t, plain.String())
}
