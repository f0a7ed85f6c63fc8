// Package export turns a document snapshot into one of the supported export
// formats. It resolves the timecode offset once per export and threads the
// request's framerate through every renderer.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/mgpai22/trexport/internal/archive"
	"github.com/mgpai22/trexport/internal/document"
	"github.com/mgpai22/trexport/internal/marker"
	"github.com/mgpai22/trexport/internal/media"
	"github.com/mgpai22/trexport/internal/plaintext"
	"github.com/mgpai22/trexport/internal/podlove"
	"github.com/mgpai22/trexport/internal/subtitle"
	"github.com/mgpai22/trexport/internal/timecode"
)

var (
	ErrInvalidOffset   = errors.New("invalid timecode offset")
	ErrEpisodeNotFound = errors.New("podlove episode not reachable")
	ErrNoPublisher     = errors.New("no podlove publisher configured")
	ErrNoArchiver      = errors.New("no archive builder configured")
)

// Format is one of Plaintext, VTT, SRT, Podlove, Marker or Archive.
type Format interface {
	Name() string
	isFormat()
}

type Plaintext struct{}

type VTT struct{}

type SRT struct{}

// Podlove renders WebVTT and pushes it to the episode in Credentials.
type Podlove struct {
	Credentials podlove.Credentials
	// only verify that the episode is reachable
	CheckOnly bool
}

type Marker struct{}

// Archive bundles the document with one of Media.
type Archive struct {
	Media          []media.File
	PreferOriginal bool
}

func (Plaintext) Name() string { return "plaintext" }
func (VTT) Name() string       { return "vtt" }
func (SRT) Name() string       { return "srt" }
func (Podlove) Name() string   { return "podlove" }
func (Marker) Name() string    { return "marker" }
func (Archive) Name() string   { return "archive" }

func (Plaintext) isFormat() {}
func (VTT) isFormat()       {}
func (SRT) isFormat()       {}
func (Podlove) isFormat()   {}
func (Marker) isFormat()    {}
func (Archive) isFormat()   {}

type Request struct {
	Format    Format
	Framerate int

	IncludeSpeakerNames bool
	IncludeTimestamps   bool
	IncludeWordTimings  bool
	MaxLineLength       int

	// overrides the document's timecode offset when non-nil
	Offset *string
	// fail instead of falling back to zero on an unparsable offset
	StrictOffset bool
}

// Result is a rendered export. Suffix is appended to the output base name.
type Result struct {
	Suffix   string
	MimeType string
	Data     []byte
	Offset   timecode.Offset

	// set for VTT and SRT
	Track *subtitle.Track
	// set for Archive
	Manifest *archive.Manifest
	// set for Podlove; false when CheckOnly
	Pushed bool
}

// Publisher is the Podlove collaborator; *podlove.Client implements it.
type Publisher interface {
	Check(ctx context.Context, creds podlove.Credentials) (bool, error)
	Push(ctx context.Context, creds podlove.Credentials, vtt string) error
}

// Archiver is the archive collaborator; *archive.Builder implements it.
type Archiver interface {
	Build(ctx context.Context, w io.Writer, doc *document.Document, opts archive.Options) (*archive.Manifest, error)
}

type Exporter struct {
	logger    *zap.Logger
	publisher Publisher
	archiver  Archiver
}

// NewExporter builds an exporter. publisher and archiver may be nil when
// the corresponding formats are not used.
func NewExporter(logger *zap.Logger, publisher Publisher, archiver Archiver) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{
		logger:    logger,
		publisher: publisher,
		archiver:  archiver,
	}
}

// Run renders doc as req.Format.
func (e *Exporter) Run(ctx context.Context, doc *document.Document, req Request) (*Result, error) {
	if req.Format == nil {
		return nil, errors.New("no export format given")
	}
	if err := timecode.ValidateFramerate(req.Framerate); err != nil {
		return nil, err
	}

	offset, err := e.resolveOffset(doc, req)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("exporting document",
		zap.String("format", req.Format.Name()),
		zap.Int("framerate", req.Framerate),
		zap.String("offset_status", offset.Status.String()))

	var res *Result
	switch f := req.Format.(type) {
	case Plaintext:
		res = e.plaintext(doc, req, offset)
	case VTT:
		res, err = e.subtitles(doc, req, offset, subtitle.FormatVTT)
	case SRT:
		res, err = e.subtitles(doc, req, offset, subtitle.FormatSRT)
	case Marker:
		res, err = e.marker(doc, req, offset)
	case Podlove:
		res, err = e.podlove(ctx, doc, req, offset, f)
	case Archive:
		res, err = e.archive(ctx, doc, req, offset, f)
	default:
		return nil, fmt.Errorf("unsupported export format %q", req.Format.Name())
	}
	if err != nil {
		return nil, err
	}

	res.Offset = offset
	return res, nil
}

func (e *Exporter) resolveOffset(doc *document.Document, req Request) (timecode.Offset, error) {
	raw := doc.TimecodeOffset
	if req.Offset != nil {
		raw = *req.Offset
	}

	offset := timecode.ResolveOffset(raw, req.Framerate)
	if offset.Status != timecode.OffsetInvalid {
		return offset, nil
	}

	if req.StrictOffset {
		return offset, fmt.Errorf("%w %q: %v", ErrInvalidOffset, raw, offset.Err)
	}
	e.logger.Warn("ignoring invalid timecode offset",
		zap.String("offset", raw),
		zap.Int("framerate", req.Framerate),
		zap.Error(offset.Err))
	return offset, nil
}

func (e *Exporter) plaintext(doc *document.Document, req Request, offset timecode.Offset) *Result {
	text := plaintext.Render(doc, plaintext.Options{
		IncludeSpeakerNames: req.IncludeSpeakerNames,
		IncludeTimestamps:   req.IncludeTimestamps,
		Offset:              offset.Func(),
	})
	return &Result{
		Suffix:   ".txt",
		MimeType: "text/plain",
		Data:     []byte(text),
	}
}

// renderTrack fails with subtitle.ErrNoTimedContent when the document has
// no timed words.
func (e *Exporter) renderTrack(doc *document.Document, req Request, offset timecode.Offset, format subtitle.Format) (*subtitle.Track, string, error) {
	gen := &subtitle.Generator{
		IncludeSpeakerNames: req.IncludeSpeakerNames,
		IncludeWordTimings:  req.IncludeWordTimings,
		MaxLineLength:       req.MaxLineLength,
		Offset:              offset.Func(),
	}
	track, err := gen.Generate(doc)
	if err != nil {
		return nil, "", err
	}
	out, err := track.String(format)
	if err != nil {
		return nil, "", err
	}
	return track, out, nil
}

func (e *Exporter) subtitles(doc *document.Document, req Request, offset timecode.Offset, format subtitle.Format) (*Result, error) {
	track, out, err := e.renderTrack(doc, req, offset, format)
	if err != nil {
		return nil, err
	}
	return &Result{
		Suffix:   subtitle.GetExtensionForFormat(format),
		MimeType: subtitle.MimeType(format),
		Data:     []byte(out),
		Track:    track,
	}, nil
}

func (e *Exporter) marker(doc *document.Document, req Request, offset timecode.Offset) (*Result, error) {
	// invalid offsets were already reported; render with the usable value
	raw := offset.Raw
	if offset.Status == timecode.OffsetInvalid {
		raw = ""
	}
	out, err := marker.Render(doc, req.Framerate, raw)
	if err != nil {
		return nil, err
	}
	return &Result{
		Suffix:   "_markers.txt",
		MimeType: "text/plain",
		Data:     []byte(out),
	}, nil
}

func (e *Exporter) podlove(ctx context.Context, doc *document.Document, req Request, offset timecode.Offset, f Podlove) (*Result, error) {
	if e.publisher == nil {
		return nil, ErrNoPublisher
	}
	if err := f.Credentials.Validate(); err != nil {
		return nil, err
	}

	_, vtt, err := e.renderTrack(doc, req, offset, subtitle.FormatVTT)
	if err != nil {
		return nil, err
	}

	ok, err := e.publisher.Check(ctx, f.Credentials)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: episode %d", ErrEpisodeNotFound, f.Credentials.EpisodeID)
	}

	res := &Result{
		Suffix:   subtitle.GetExtensionForFormat(subtitle.FormatVTT),
		MimeType: subtitle.MimeType(subtitle.FormatVTT),
		Data:     []byte(vtt),
	}
	if f.CheckOnly {
		return res, nil
	}

	if err := e.publisher.Push(ctx, f.Credentials, vtt); err != nil {
		return nil, err
	}
	res.Pushed = true
	return res, nil
}

func (e *Exporter) archive(ctx context.Context, doc *document.Document, req Request, offset timecode.Offset, f Archive) (*Result, error) {
	if e.archiver == nil {
		return nil, ErrNoArchiver
	}

	file, err := media.Select(f.Media, f.PreferOriginal)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	manifest, err := e.archiver.Build(ctx, &buf, doc, archive.Options{
		Media:     file,
		Framerate: req.Framerate,
		Offset:    offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build archive: %w", err)
	}

	return &Result{
		Suffix:   archive.Extension,
		MimeType: archive.MimeType,
		Data:     buf.Bytes(),
		Manifest: manifest,
	}, nil
}
