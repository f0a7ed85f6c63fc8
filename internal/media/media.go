package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// tag marking the file that was originally uploaded
const TagOriginal = "original"

var ErrNoMedia = errors.New("no media file available")

// media file attached to a document, either remote or local
type File struct {
	URL         string   `json:"url,omitempty"`
	Path        string   `json:"path,omitempty"`
	ContentType string   `json:"content_type"`
	Tags        []string `json:"tags,omitempty"`
}

func (f File) HasTag(tag string) bool {
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Source is the path or URL the file is read from.
func (f File) Source() string {
	if f.Path != "" {
		return f.Path
	}
	return f.URL
}

// smaller is better; unknown types sort last
var contentTypeRank = map[string]int{
	"audio/ogg":  0,
	"audio/mpeg": 1,
	"audio/mp4":  2,
	"video/mp4":  3,
}

func rank(contentType string) int {
	base, _, _ := strings.Cut(contentType, ";")
	if r, ok := contentTypeRank[strings.TrimSpace(strings.ToLower(base))]; ok {
		return r
	}
	return len(contentTypeRank)
}

// Sort orders files by playback preference, keeping input order on ties.
func Sort(files []File) []File {
	out := append([]File(nil), files...)
	sort.SliceStable(out, func(i, j int) bool {
		return rank(out[i].ContentType) < rank(out[j].ContentType)
	})
	return out
}

// Select picks the file tagged original when preferOriginal is set and such
// a file exists, otherwise the best file by Sort.
func Select(files []File, preferOriginal bool) (File, error) {
	if len(files) == 0 {
		return File{}, ErrNoMedia
	}
	if preferOriginal {
		for _, f := range files {
			if f.HasTag(TagOriginal) {
				return f, nil
			}
		}
	}
	return Sort(files)[0], nil
}

// LocalFile describes a file on disk, guessing its content type from the
// extension.
func LocalFile(path string) (File, error) {
	if _, err := os.Stat(path); err != nil {
		return File{}, fmt.Errorf("media file not found: %s", path)
	}
	if !IsMediaFile(path) {
		return File{}, fmt.Errorf("unsupported media type: %s", filepath.Ext(path))
	}
	return File{
		Path:        path,
		ContentType: ContentTypeForPath(path),
		Tags:        []string{TagOriginal},
	}, nil
}

// Open returns a reader for the file's bytes. Remote files are fetched with
// client and ctx.
func Open(ctx context.Context, client *http.Client, f File) (io.ReadCloser, error) {
	if f.Path != "" {
		file, err := os.Open(f.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open media file: %w", err)
		}
		return file, nil
	}
	if f.URL == "" {
		return nil, ErrNoMedia
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build media request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch media: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch media: %s", resp.Status)
	}
	return resp.Body, nil
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// duration of a local audio/video file
func GetDuration(filePath string) (time.Duration, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return 0, fmt.Errorf("file not found: %s", filePath)
	}

	out, err := ffmpeg.Probe(filePath)
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbeDuration(out)
}

func parseProbeDuration(out string) (time.Duration, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal([]byte(out), &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	seconds, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// checks if file is a video based on extension
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	videoExts := map[string]bool{
		".mp4":  true,
		".mkv":  true,
		".mov":  true,
		".webm": true,
		".m4v":  true,
	}
	return videoExts[ext]
}

// checks if file is audio based on extension
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	audioExts := map[string]bool{
		".mp3":  true,
		".wav":  true,
		".aac":  true,
		".flac": true,
		".ogg":  true,
		".opus": true,
		".m4a":  true,
	}
	return audioExts[ext]
}

func IsMediaFile(path string) bool {
	return IsAudioFile(path) || IsVideoFile(path)
}

// ContentTypeForPath maps an extension to a MIME type, falling back to
// application/octet-stream.
func ContentTypeForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".ogg", ".opus":
		return "audio/ogg"
	case ".mp3":
		return "audio/mpeg"
	case ".m4a":
		return "audio/mp4"
	case ".mp4", ".m4v":
		return "video/mp4"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
