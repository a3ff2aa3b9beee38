package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhee15/navarch-studio-sub003/internal/modules/hydro"
)

// Format selects the export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Result describes one persisted export.
type Result struct {
	Path  string `json:"path"`
	S3Key string `json:"s3_key,omitempty"`
}

// Service writes export files to the export directory and, when an
// uploader is configured, mirrors them to S3.
type Service struct {
	dir      string
	uploader *S3Uploader // nil disables S3
	log      zerolog.Logger
}

// NewService creates an export service. uploader may be nil.
func NewService(dir string, uploader *S3Uploader, log zerolog.Logger) *Service {
	return &Service{
		dir:      dir,
		uploader: uploader,
		log:      log.With().Str("service", "export").Logger(),
	}
}

// ExportHydroTable persists a hydrostatic table.
func (s *Service) ExportHydroTable(ctx context.Context, vesselID string, results []hydro.HydroResult, format Format) (*Result, error) {
	return s.write(ctx, vesselID, "hydro-table", format, func(f *os.File) error {
		if format == FormatJSON {
			return WriteJSON(f, results)
		}
		return WriteHydroTableCSV(f, results)
	})
}

// ExportCurves persists hydrostatic curves.
func (s *Service) ExportCurves(ctx context.Context, vesselID string, curves []hydro.Curve, format Format) (*Result, error) {
	return s.write(ctx, vesselID, "curves", format, func(f *os.File) error {
		if format == FormatJSON {
			return WriteJSON(f, curves)
		}
		return WriteCurvesCSV(f, curves)
	})
}

// ExportBonjean persists Bonjean curves as a draft-by-station matrix.
func (s *Service) ExportBonjean(ctx context.Context, vesselID string, curves []hydro.BonjeanCurve, format Format) (*Result, error) {
	return s.write(ctx, vesselID, "bonjean", format, func(f *os.File) error {
		if format == FormatJSON {
			return WriteJSON(f, curves)
		}
		return WriteBonjeanCSV(f, curves)
	})
}

// ExportStabilityReport persists a righting-arm curve with its criteria
// verdict. CSV exports carry only the curve samples.
func (s *Service) ExportStabilityReport(ctx context.Context, vesselID string, report *StabilityReport, format Format) (*Result, error) {
	return s.write(ctx, vesselID, "stability", format, func(f *os.File) error {
		if format == FormatJSON {
			return WriteJSON(f, report)
		}
		return WriteStabilityCSV(f, report.Curve)
	})
}

func (s *Service) write(ctx context.Context, vesselID, kind string, format Format, render func(*os.File) error) (*Result, error) {
	if format != FormatCSV && format != FormatJSON {
		return nil, fmt.Errorf("unknown export format %q", format)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory %s: %w", s.dir, err)
	}

	name := fmt.Sprintf("%s-%s-%s.%s", vesselID, kind, time.Now().UTC().Format("20060102-150405"), format)
	fullPath := filepath.Join(s.dir, name)

	f, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create export file %s: %w", fullPath, err)
	}
	if err := render(f); err != nil {
		f.Close()
		os.Remove(fullPath)
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close export file %s: %w", fullPath, err)
	}

	result := &Result{Path: fullPath}
	if s.uploader != nil {
		contentType := "text/csv"
		if format == FormatJSON {
			contentType = "application/json"
		}
		key, err := s.uploader.Upload(ctx, fullPath, contentType)
		if err != nil {
			// Local file is good; report the upload failure and move on.
			s.log.Error().Err(err).Str("path", fullPath).Msg("S3 upload failed")
		} else {
			result.S3Key = key
		}
	}

	s.log.Info().Str("vessel", vesselID).Str("kind", kind).Str("path", fullPath).Msg("Export written")
	return result, nil
}
