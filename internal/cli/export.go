package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/trexport/internal/archive"
	"github.com/mgpai22/trexport/internal/document"
	"github.com/mgpai22/trexport/internal/export"
	"github.com/mgpai22/trexport/internal/podlove"
	"github.com/mgpai22/trexport/internal/subtitle"
	"github.com/spf13/cobra"
)

// buildRequest assembles an export request from the loaded settings and the
// --offset flag.
func buildRequest(cmd *cobra.Command, format export.Format) export.Request {
	req := export.Request{
		Format:              format,
		Framerate:           settings.Export.Framerate,
		IncludeSpeakerNames: settings.Export.IncludeSpeakerNames,
		IncludeTimestamps:   settings.Export.IncludeTimestamps,
		IncludeWordTimings:  settings.Export.IncludeWordTimings,
		MaxLineLength:       settings.Export.MaxLineLength,
		StrictOffset:        settings.Export.StrictOffset,
	}

	if cmd.Flags().Changed("offset") {
		offset, _ := cmd.Flags().GetString("offset")
		req.Offset = &offset
	}
	return req
}

func newExporter() *export.Exporter {
	return export.NewExporter(
		logger.Zap(),
		podlove.NewClient(settings.Podlove.Timeout, logger.Zap()),
		archive.NewBuilder(settings.Archive.FetchTimeout, logger.Zap()),
	)
}

// runExport loads the document at docPath, renders it and writes the result
// to --output or next to the document.
func runExport(cmd *cobra.Command, docPath string, format export.Format) (*export.Result, error) {
	doc, err := document.Load(docPath)
	if err != nil {
		return nil, err
	}

	req := buildRequest(cmd, format)
	res, err := newExporter().Run(cmd.Context(), doc, req)
	if err != nil {
		return nil, fmt.Errorf("%s export failed: %w", format.Name(), err)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	outputPath = outputPathFor(docPath, outputPath, res.Suffix)

	if err := saveResult(cmd.OutOrStdout(), outputPath, res); err != nil {
		return nil, err
	}

	logger.Infow("Export complete",
		"format", format.Name(),
		"output", outputPath,
		"bytes", len(res.Data),
		"framerate", req.Framerate,
		"offset", res.Offset.Status.String(),
	)
	return res, nil
}

// outputPathFor returns explicit if set, otherwise docPath with its
// extension replaced by suffix.
func outputPathFor(docPath, explicit, suffix string) string {
	if explicit != "" {
		return explicit
	}
	baseName := strings.TrimSuffix(docPath, filepath.Ext(docPath))
	return baseName + suffix
}

// saveResult writes subtitle tracks through the subtitle writer when path
// names a .vtt or .srt file, and raw bytes otherwise.
func saveResult(stdout io.Writer, path string, res *export.Result) error {
	if res.Track != nil {
		if format, ok := subtitle.GetFormatFromExtension(path); ok {
			writer, err := subtitle.NewWriter(format)
			if err != nil {
				return err
			}
			if err := writer.Write(res.Track, path); err != nil {
				return fmt.Errorf("failed to write subtitles: %w", err)
			}
			return nil
		}
	}
	return writeResult(stdout, path, res.Data)
}

// "-" writes to stdout
func writeResult(stdout io.Writer, path string, data []byte) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
