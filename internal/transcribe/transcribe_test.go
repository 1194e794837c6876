package transcribe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalog/vitalog/internal/entry"
)

func TestWhisperTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "audio.ogg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "  had two eggs for breakfast  "}`))
	}))
	defer srv.Close()

	tr := NewWhisper(srv.URL, "test-key", "whisper-1", time.Second)
	text, err := tr.Transcribe(context.Background(), []byte("fake-ogg-bytes"), "audio/ogg")
	require.NoError(t, err)
	assert.Equal(t, "had two eggs for breakfast", text)
}

func TestWhisperTranscribeFailures(t *testing.T) {
	kind := func(t *testing.T, err error) entry.ErrorKind {
		t.Helper()
		var ierr *entry.Error
		require.ErrorAs(t, err, &ierr)
		return ierr.Kind
	}

	t.Run("empty audio", func(t *testing.T) {
		tr := NewWhisper("http://unused", "", "", time.Second)
		_, err := tr.Transcribe(context.Background(), nil, "audio/wav")
		assert.Equal(t, entry.ErrTranscriptionUnavailable, kind(t, err))
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model loading", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		tr := NewWhisper(srv.URL, "", "", time.Second)
		_, err := tr.Transcribe(context.Background(), []byte("audio"), "audio/wav")
		assert.Equal(t, entry.ErrTranscriptionUnavailable, kind(t, err))
	})

	t.Run("empty transcript", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"text": "   "}`))
		}))
		defer srv.Close()

		tr := NewWhisper(srv.URL, "", "", time.Second)
		_, err := tr.Transcribe(context.Background(), []byte("audio"), "audio/wav")
		assert.Equal(t, entry.ErrTranscriptionUnavailable, kind(t, err))
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		tr := NewWhisper("http://127.0.0.1:1", "", "", 200*time.Millisecond)
		_, err := tr.Transcribe(context.Background(), []byte("audio"), "audio/wav")
		assert.Equal(t, entry.ErrTranscriptionUnavailable, kind(t, err))
	})
}
