package textutil

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"length mismatch", []float32{1, 0}, []float32{1}, 0},
		{"empty", nil, nil, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestHashString(t *testing.T) {
	h1 := HashString("hello")
	h2 := HashString("hello")
	h3 := HashString("world")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 32)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "hello", TruncateString("hello", 10))
	assert.Equal(t, "hel", TruncateString("hello", 3))
	// Multi-byte characters count as single characters
	assert.Equal(t, "日本", TruncateString("日本語", 2))
}

func TestSplitIntoChunks(t *testing.T) {
	t.Run("short text returns single chunk", func(t *testing.T) {
		chunks := SplitIntoChunks("short", 100, 10)
		assert.Equal(t, []string{"short"}, chunks)
	})

	t.Run("chunks overlap", func(t *testing.T) {
		text := strings.Repeat("a", 50) + strings.Repeat("b", 50)
		chunks := SplitIntoChunks(text, 60, 20)
		assert.True(t, len(chunks) >= 2)

		// Tail of chunk N equals head of chunk N+1
		first := []rune(chunks[0])
		second := []rune(chunks[1])
		assert.Equal(t, string(first[len(first)-20:]), string(second[:20]))
	})

	t.Run("covers full text", func(t *testing.T) {
		text := strings.Repeat("x", 345)
		chunks := SplitIntoChunks(text, 100, 10)
		last := chunks[len(chunks)-1]
		assert.True(t, strings.HasSuffix(text, last))

		total := 0
		for _, c := range chunks {
			total += len(c)
		}
		assert.GreaterOrEqual(t, total, len(text))
	})

	t.Run("invalid sizes", func(t *testing.T) {
		assert.Nil(t, SplitIntoChunks("text", 0, 0))
		// Overlap clamped below chunk size
		chunks := SplitIntoChunks(strings.Repeat("y", 30), 10, 50)
		assert.NotEmpty(t, chunks)
	})

	t.Run("exact chunk count", func(t *testing.T) {
		text := strings.Repeat("z", 250)
		chunks := SplitIntoChunks(text, 100, 0)
		expected := int(math.Ceil(250.0 / 100.0))
		assert.Len(t, chunks, expected)
	})
}

func TestNormalizeWhitespace(t *testing.T) {
	in := "line one   \n\n\n\nline two\t\n"
	out := NormalizeWhitespace(in)
	assert.Equal(t, "line one\n\nline two", out)
}
