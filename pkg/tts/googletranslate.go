package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"flash-actu/pkg/httpclient"
)

// Synthesizer converts a text into an audio byte stream.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) ([]byte, error)
}

// maxChunkRunes is the longest text fragment the translate_tts endpoint
// accepts per request.
const maxChunkRunes = 200

// GoogleTranslateClient renders speech through the public Google Translate
// text-to-speech endpoint. Long scripts are split into chunks at word
// boundaries and the returned MP3 frames are concatenated.
type GoogleTranslateClient struct {
	baseURL string
	client  *httpclient.HTTPClient
}

// NewGoogleTranslateClient creates a synthesis client with a fixed
// per-request timeout.
func NewGoogleTranslateClient(timeout time.Duration) *GoogleTranslateClient {
	return &GoogleTranslateClient{
		baseURL: "https://translate.google.com/translate_tts",
		client:  httpclient.NewClient(httpclient.BrowserClient, timeout),
	}
}

// SetBaseURL overrides the endpoint. Used by tests.
func (c *GoogleTranslateClient) SetBaseURL(u string) {
	c.baseURL = u
}

// Synthesize renders the text in the given language and returns MP3 bytes.
func (c *GoogleTranslateClient) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text is empty")
	}
	if lang == "" {
		lang = "fr"
	}

	chunks := splitChunks(text, maxChunkRunes)

	var audio bytes.Buffer
	for i, chunk := range chunks {
		data, err := c.fetchChunk(ctx, chunk, lang, i, len(chunks))
		if err != nil {
			return nil, fmt.Errorf("failed to synthesize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		audio.Write(data)
	}

	return audio.Bytes(), nil
}

// fetchChunk requests the audio for a single text fragment.
func (c *GoogleTranslateClient) fetchChunk(ctx context.Context, chunk, lang string, idx, total int) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", lang)
	params.Set("q", chunk)
	params.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))
	params.Set("idx", strconv.Itoa(idx))
	params.Set("total", strconv.Itoa(total))

	resp, err := c.client.GetContext(ctx, c.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty audio response")
	}

	return data, nil
}

// splitChunks splits text into fragments of at most max runes, breaking on
// word boundaries. A single word longer than max is hard-split.
func splitChunks(text string, max int) []string {
	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		wordLen := utf8.RuneCountInString(word)

		// Hard-split words that cannot fit in any chunk
		for wordLen > max {
			flush()
			runes := []rune(word)
			chunks = append(chunks, string(runes[:max]))
			word = string(runes[max:])
			wordLen = utf8.RuneCountInString(word)
		}
		if wordLen == 0 {
			continue
		}

		needed := wordLen
		if currentLen > 0 {
			needed++ // separating space
		}
		if currentLen+needed > max {
			flush()
			needed = wordLen
		}

		if currentLen > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
		currentLen += needed
	}
	flush()

	return chunks
}
