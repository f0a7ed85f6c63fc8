// Package archive bundles a document and its media into a single zip file
// that can be re-imported later.
//
// Entries are stored uncompressed: media is already compressed and the
// document is small. The document entry carries the export's offset baked
// into every timestamp, so an importer sees the same times the other export
// formats print.
package archive

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mgpai22/trexport/internal/document"
	"github.com/mgpai22/trexport/internal/media"
	"github.com/mgpai22/trexport/internal/timecode"
)

const (
	DocumentEntry = "document.json"
	MediaEntry    = "media"
	ManifestEntry = "manifest.json"

	Extension = ".transcribee"
	MimeType  = "application/octet-stream"
)

// Manifest describes an archive's contents.
type Manifest struct {
	ID              string   `json:"id"`
	Created         string   `json:"created"`
	Framerate       int      `json:"framerate"`
	Offset          string   `json:"offset,omitempty"`
	OffsetStatus    string   `json:"offset_status"`
	MediaSource     string   `json:"media_source"`
	MediaType       string   `json:"media_content_type"`
	MediaDuration   *float64 `json:"media_duration_seconds,omitempty"`
	TranscriptStart float64  `json:"transcript_start_seconds"`
	TranscriptEnd   float64  `json:"transcript_end_seconds"`
}

type Options struct {
	Media     media.File
	Framerate int
	Offset    timecode.Offset
}

type Builder struct {
	httpClient *http.Client
	logger     *zap.Logger
	// probes local media duration; replaced in tests
	probe func(path string) (time.Duration, error)
	now   func() time.Time
}

func NewBuilder(fetchTimeout time.Duration, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		httpClient: &http.Client{Timeout: fetchTimeout},
		logger:     logger,
		probe:      media.GetDuration,
		now:        time.Now,
	}
}

// Build writes the archive to w. doc is not modified.
func (b *Builder) Build(ctx context.Context, w io.Writer, doc *document.Document, opts Options) (*Manifest, error) {
	if err := timecode.ValidateFramerate(opts.Framerate); err != nil {
		return nil, err
	}

	shifted := doc.WithOffset(opts.Offset.Func())
	// times already include the offset
	shifted.TimecodeOffset = ""
	stats := shifted.Stats()

	manifest := &Manifest{
		ID:              uuid.NewString(),
		Created:         b.now().UTC().Format(time.RFC3339),
		Framerate:       opts.Framerate,
		Offset:          opts.Offset.Raw,
		OffsetStatus:    opts.Offset.Status.String(),
		MediaSource:     opts.Media.Source(),
		MediaType:       opts.Media.ContentType,
		TranscriptStart: stats.Start,
		TranscriptEnd:   stats.End,
	}

	if opts.Media.Path != "" {
		if d, err := b.probe(opts.Media.Path); err != nil {
			b.logger.Warn("could not probe media duration",
				zap.String("path", opts.Media.Path),
				zap.Error(err))
		} else {
			seconds := d.Seconds()
			manifest.MediaDuration = &seconds
			if stats.TimedWords > 0 && stats.End > seconds {
				b.logger.Warn("transcript extends past the end of the media",
					zap.Float64("transcript_end", stats.End),
					zap.Float64("media_duration", seconds))
			}
		}
	}

	zw := zip.NewWriter(w)

	if err := writeEntry(zw, DocumentEntry, func(ew io.Writer) error {
		return shifted.Encode(ew)
	}); err != nil {
		return nil, err
	}

	if err := b.writeMedia(ctx, zw, opts.Media); err != nil {
		return nil, err
	}

	if err := writeEntry(zw, ManifestEntry, func(ew io.Writer) error {
		enc := json.NewEncoder(ew)
		enc.SetIndent("", "  ")
		return enc.Encode(manifest)
	}); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	b.logger.Info("built archive",
		zap.String("id", manifest.ID),
		zap.String("media", manifest.MediaSource),
		zap.String("offset_status", manifest.OffsetStatus))
	return manifest, nil
}

func (b *Builder) writeMedia(ctx context.Context, zw *zip.Writer, f media.File) error {
	rc, err := media.Open(ctx, b.httpClient, f)
	if err != nil {
		return err
	}
	defer rc.Close()

	return writeEntry(zw, MediaEntry, func(ew io.Writer) error {
		n, err := io.Copy(ew, rc)
		if err != nil {
			return fmt.Errorf("failed to copy media: %w", err)
		}
		b.logger.Debug("stored media", zap.Int64("bytes", n))
		return nil
	})
}

func writeEntry(zw *zip.Writer, name string, fill func(io.Writer) error) error {
	ew, err := zw.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: zip.Store,
	})
	if err != nil {
		return fmt.Errorf("failed to create %s entry: %w", name, err)
	}
	if err := fill(ew); err != nil {
		return fmt.Errorf("failed to write %s entry: %w", name, err)
	}
	return nil
}
