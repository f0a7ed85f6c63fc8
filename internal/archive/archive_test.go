package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mgpai22/trexport/internal/document"
	"github.com/mgpai22/trexport/internal/media"
	"github.com/mgpai22/trexport/internal/timecode"
)

func sampleDoc() *document.Document {
	return &document.Document{
		SpeakerNames: map[string]string{"A": "Alice"},
		Children: []document.Paragraph{
			{Speaker: "A", Children: []document.Word{
				{Text: "Hi ", Start: document.Seconds(0), End: document.Seconds(0.5)},
				{Text: " "},
				{Text: "there", Start: document.Seconds(0.5), End: document.Seconds(1)},
			}},
		},
	}
}

func readZip(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := make(map[string][]byte)
	for _, f := range zr.File {
		assert.Equal(t, zip.Store, f.Method, "entry %s should be stored", f.Name)
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		entries[f.Name] = content
	}
	return entries
}

func newTestBuilder() *Builder {
	b := NewBuilder(5*time.Second, zap.NewNop())
	b.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return b
}

func TestBuild_RemoteMedia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OggS-audio"))
	}))
	defer srv.Close()

	doc := sampleDoc()
	doc.TimecodeOffset = "00:00:10:15"
	var buf bytes.Buffer
	manifest, err := newTestBuilder().Build(context.Background(), &buf, doc, Options{
		Media:     media.File{URL: srv.URL + "/a.ogg", ContentType: "audio/ogg"},
		Framerate: 30,
		Offset:    timecode.ResolveOffset("00:00:10:15", 30),
	})
	require.NoError(t, err)

	entries := readZip(t, buf.Bytes())
	require.Contains(t, entries, DocumentEntry)
	require.Contains(t, entries, MediaEntry)
	require.Contains(t, entries, ManifestEntry)
	assert.Equal(t, "OggS-audio", string(entries[MediaEntry]))

	stored, err := document.Decode(bytes.NewReader(entries[DocumentEntry]))
	require.NoError(t, err)
	assert.InDelta(t, 10.5, *stored.Children[0].Children[0].Start, 1e-9)
	assert.InDelta(t, 11.5, *stored.Children[0].Children[2].End, 1e-9)
	assert.Nil(t, stored.Children[0].Children[1].Start)
	assert.Empty(t, stored.TimecodeOffset)

	// source document untouched
	assert.Equal(t, 0.0, *doc.Children[0].Children[0].Start)
	assert.Equal(t, "00:00:10:15", doc.TimecodeOffset)

	var onDisk Manifest
	require.NoError(t, json.Unmarshal(entries[ManifestEntry], &onDisk))
	assert.Equal(t, manifest.ID, onDisk.ID)
	assert.NotEmpty(t, onDisk.ID)
	assert.Equal(t, "2024-05-01T12:00:00Z", onDisk.Created)
	assert.Equal(t, 30, onDisk.Framerate)
	assert.Equal(t, "applied", onDisk.OffsetStatus)
	assert.InDelta(t, 11.5, onDisk.TranscriptEnd, 1e-9)
	assert.Nil(t, onDisk.MediaDuration)
}

func TestBuild_LocalMediaProbe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episode.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3-audio"), 0644))
	file, err := media.LocalFile(path)
	require.NoError(t, err)

	t.Run("should record the probed duration", func(t *testing.T) {
		b := newTestBuilder()
		b.probe = func(string) (time.Duration, error) { return 90 * time.Second, nil }

		var buf bytes.Buffer
		manifest, err := b.Build(context.Background(), &buf, sampleDoc(), Options{
			Media:     file,
			Framerate: 25,
		})

		require.NoError(t, err)
		require.NotNil(t, manifest.MediaDuration)
		assert.Equal(t, 90.0, *manifest.MediaDuration)
		assert.Equal(t, "none", manifest.OffsetStatus)
		assert.Equal(t, "ID3-audio", string(readZip(t, buf.Bytes())[MediaEntry]))
	})

	t.Run("should still build when probing fails", func(t *testing.T) {
		b := newTestBuilder()
		b.probe = func(string) (time.Duration, error) { return 0, errors.New("no ffprobe") }

		var buf bytes.Buffer
		manifest, err := b.Build(context.Background(), &buf, sampleDoc(), Options{
			Media:     file,
			Framerate: 25,
		})

		require.NoError(t, err)
		assert.Nil(t, manifest.MediaDuration)
	})
}

func TestBuild_Failures(t *testing.T) {
	t.Run("should fail without media", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := newTestBuilder().Build(context.Background(), &buf, sampleDoc(), Options{Framerate: 25})
		assert.ErrorIs(t, err, media.ErrNoMedia)
	})

	t.Run("should fail for an invalid framerate", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := newTestBuilder().Build(context.Background(), &buf, sampleDoc(), Options{
			Media: media.File{URL: "http://unused"},
		})
		assert.ErrorIs(t, err, timecode.ErrInvalidFramerate)
	})
}
