package feedback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jsphweid/midicritic/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exampleSummary = model.Summary{
	TotalNotes:         3,
	UniquePitchClasses: 2,
	TopPitchClasses:    []string{"C", "E"},
	NoteRange:          model.NoteRange{Lowest: "C4", Highest: "C5"},
	ChannelCount:       1,
	EstimatedBars:      1,
	AverageVelocity:    100,
}

func TestBuildPromptWithoutInstruments(t *testing.T) {
	prompt, err := BuildPrompt(Request{FileName: "song.mid", FileSize: 2048}, exampleSummary)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Contains(prompt, "File: song.mid (2.0 KB)")
	assert.Contains(prompt, `"totalNotes": 3`)
	assert.Contains(prompt, `"topPitchClasses": [`)
	assert.Contains(prompt, "## Top 3 Fixes")
	assert.NotContains(prompt, "instruments:")
}

func TestBuildPromptWithInstruments(t *testing.T) {
	req := Request{FileName: "duet.mid", FileSize: 1536, Instruments: []string{"Violin", "Cello"}}
	prompt, err := BuildPrompt(req, exampleSummary)
	require.NoError(t, err)

	assert.Contains(t, prompt, "File: duet.mid (1.5 KB)")
	assert.Contains(t, prompt, "these instruments: Violin, Cello.")
}

func TestGenerate(t *testing.T) {
	var got completionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Nice melody."}}]}`))
	}))
	defer server.Close()

	c := &Client{URL: server.URL, APIKey: "secret", Model: "m"}
	text, err := c.Generate(context.Background(), "hello")
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("Nice melody.", text)
	assert.Equal("m", got.Model)
	assert.Equal(2048, got.MaxTokens)
	assert.Equal(0.5, got.Temperature)
	require.Len(t, got.Messages, 2)
	assert.Equal("system", got.Messages[0].Role)
	assert.Equal("hello", got.Messages[1].Content)
}

func TestGenerateWithoutChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	c := &Client{URL: server.URL, APIKey: "k"}
	text, err := c.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, NoAnalysis, text)
}

func TestGenerateMapsUpstreamErrors(t *testing.T) {
	cases := map[int]error{
		http.StatusTooManyRequests:     ErrRateLimited,
		http.StatusInternalServerError: ErrUpstream,
		http.StatusPaymentRequired:     ErrUpstream,
	}
	for status, want := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", status)
		}))
		c := &Client{URL: server.URL, APIKey: "k"}
		_, err := c.Generate(context.Background(), "hello")
		assert.True(t, errors.Is(err, want), "status %d gave %v", status, err)
		server.Close()
	}
}

func TestNewClientFromEnv(t *testing.T) {
	t.Setenv("FEEDBACK_API_KEY", "")
	_, err := NewClientFromEnv()
	assert.Equal(t, ErrNotConfigured, err)

	t.Setenv("FEEDBACK_API_KEY", "abc")
	t.Setenv("FEEDBACK_API_URL", "http://example.invalid/v1/chat/completions")
	c, err := NewClientFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "abc", c.APIKey)
	assert.Equal(t, "http://example.invalid/v1/chat/completions", c.URL)
}
