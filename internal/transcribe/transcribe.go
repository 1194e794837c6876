// Package transcribe converts voice recordings into text via a
// Whisper-compatible transcription endpoint. Both the hosted OpenAI API and
// self-hosted servers (whisper.cpp server, faster-whisper) speak the same
// multipart protocol, so one client covers both backends.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/vitalog/vitalog/internal/entry"
)

// Transcriber converts an audio payload into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, contentType string) (string, error)
}

// Whisper is a Transcriber over an OpenAI-compatible audio transcription
// endpoint.
type Whisper struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// NewWhisper creates a Whisper transcriber. apiKey may be empty for
// self-hosted endpoints that do not authenticate.
func NewWhisper(endpoint, apiKey, model string, timeout time.Duration) *Whisper {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Whisper{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

// Transcribe posts the audio as multipart/form-data and returns the
// transcript text. Any failure, including an empty transcript, is reported
// as a transcription_unavailable error.
func (w *Whisper) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	if len(audio) == 0 {
		return "", entry.NewError(entry.ErrTranscriptionUnavailable, "empty audio payload")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "audio"+extFromContentType(contentType))
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(audio)); err != nil {
		return "", fmt.Errorf("writing audio: %w", err)
	}
	if w.model != "" {
		_ = writer.WriteField("model", w.model)
	}
	_ = writer.WriteField("response_format", "json")
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if w.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+w.apiKey)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return "", entry.WrapError(entry.ErrTranscriptionUnavailable, err, "transcription request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", entry.NewError(entry.ErrTranscriptionUnavailable,
			"transcription failed (status %d): %s", resp.StatusCode, respBody)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", entry.WrapError(entry.ErrTranscriptionUnavailable, err, "decoding transcription")
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return "", entry.NewError(entry.ErrTranscriptionUnavailable, "transcription produced no text")
	}

	slog.Debug("transcription complete", "text_length", len(text))
	return text, nil
}

func extFromContentType(ct string) string {
	switch {
	case strings.Contains(ct, "ogg"):
		return ".ogg"
	case strings.Contains(ct, "mp3"), strings.Contains(ct, "mpeg"):
		return ".mp3"
	case strings.Contains(ct, "flac"):
		return ".flac"
	case strings.Contains(ct, "webm"):
		return ".webm"
	case strings.Contains(ct, "m4a"):
		return ".m4a"
	default:
		return ".wav"
	}
}
