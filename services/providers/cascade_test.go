package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name   string
	answer string
	err    error
	calls  int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) TryAnswer(ctx context.Context, question string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

type recordingCache struct {
	puts   map[string]string
	putErr error
}

func (r *recordingCache) Put(ctx context.Context, question, answer string) error {
	if r.putErr != nil {
		return r.putErr
	}
	if r.puts == nil {
		r.puts = map[string]string{}
	}
	r.puts[question] = answer
	return nil
}

func TestCascadeFirstProviderWins(t *testing.T) {
	first := &stubProvider{name: "groq", answer: "from groq"}
	second := &stubProvider{name: "openai", answer: "from openai"}
	cache := &recordingCache{}

	c := NewCascade([]Provider{first, second}, cache, nil)
	answer, name, ok := c.Resolve(context.Background(), "q")

	require.True(t, ok)
	assert.Equal(t, "from groq", answer)
	assert.Equal(t, "groq", name)
	assert.Equal(t, 0, second.calls, "later providers must not be consulted")
	assert.Equal(t, "from groq", cache.puts["q"])
}

func TestCascadeFallsThroughOnFailure(t *testing.T) {
	first := &stubProvider{name: "groq", err: errors.New("quota exceeded")}
	second := &stubProvider{name: "openai", err: errors.New("timeout")}
	third := &stubProvider{name: "anthropic", answer: "from anthropic"}

	c := NewCascade([]Provider{first, second, third}, &recordingCache{}, nil)
	answer, name, ok := c.Resolve(context.Background(), "q")

	require.True(t, ok)
	assert.Equal(t, "from anthropic", answer)
	assert.Equal(t, "anthropic", name)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestCascadeAllFail(t *testing.T) {
	c := NewCascade([]Provider{
		&stubProvider{name: "groq", err: errors.New("down")},
		&stubProvider{name: "openai", err: errors.New("down")},
	}, &recordingCache{}, nil)

	answer, name, ok := c.Resolve(context.Background(), "q")
	assert.False(t, ok)
	assert.Empty(t, answer)
	assert.Empty(t, name)
}

func TestCascadeEmpty(t *testing.T) {
	c := NewCascade(nil, nil, nil)
	_, _, ok := c.Resolve(context.Background(), "q")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCascadeWriteBackFailureIsNotFatal(t *testing.T) {
	p := &stubProvider{name: "groq", answer: "answer"}
	cache := &recordingCache{putErr: errors.New("disk full")}

	c := NewCascade([]Provider{p}, cache, nil)
	answer, _, ok := c.Resolve(context.Background(), "q")

	require.True(t, ok)
	assert.Equal(t, "answer", answer)
}

func TestCascadeNilCache(t *testing.T) {
	p := &stubProvider{name: "groq", answer: "answer"}
	c := NewCascade([]Provider{p}, nil, nil)

	answer, _, ok := c.Resolve(context.Background(), "q")
	require.True(t, ok)
	assert.Equal(t, "answer", answer)
}

func TestCascadeNames(t *testing.T) {
	c := NewCascade([]Provider{
		&stubProvider{name: "groq"},
		&stubProvider{name: "openai"},
		&stubProvider{name: "anthropic"},
	}, nil, nil)
	assert.Equal(t, []string{"groq", "openai", "anthropic"}, c.Names())
}
