package vessels

import (
	"database/sql"
	"fmt"
	"os"

	// External archive files are plain SQLite databases produced by
	// third-party lines tools; cgo driver for full file-format coverage.
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
)

// OffsetsArchive reads hull offset tables out of standalone SQLite files
// exported by external lines-plan tools. The archive schema is a single
// "offsets" table in the same long format the CSV importer accepts.
type OffsetsArchive struct {
	path string
}

// OpenOffsetsArchive opens an archive file for reading. The file must exist;
// archives are never created or modified here.
func OpenOffsetsArchive(path string) (*OffsetsArchive, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("offsets archive %s: %w", path, domain.ErrNotFound)
	}
	return &OffsetsArchive{path: path}, nil
}

// ReadOffsets loads every offset row from the archive.
func (a *OffsetsArchive) ReadOffsets() ([]OffsetRow, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", a.path))
	if err != nil {
		return nil, fmt.Errorf("failed to open offsets archive %s: %w", a.path, err)
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT station_index, x, waterline_index, z, half_breadth
		FROM offsets
		ORDER BY station_index, waterline_index
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query offsets archive %s: %w", a.path, err)
	}
	defer rows.Close()

	var result []OffsetRow
	for rows.Next() {
		var (
			row     OffsetRow
			x, z, y string
		)
		if err := rows.Scan(&row.StationIndex, &x, &row.WaterlineIndex, &z, &y); err != nil {
			return nil, fmt.Errorf("failed to scan archive offset row: %w", err)
		}
		if row.X, err = decimal.NewFromString(x); err != nil {
			return nil, domain.NewArgumentError("x", fmt.Sprintf("archive value %q: %v", x, err))
		}
		if row.Z, err = decimal.NewFromString(z); err != nil {
			return nil, domain.NewArgumentError("z", fmt.Sprintf("archive value %q: %v", z, err))
		}
		if row.HalfBreadth, err = decimal.NewFromString(y); err != nil {
			return nil, domain.NewArgumentError("half_breadth", fmt.Sprintf("archive value %q: %v", y, err))
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offsets archive: %w", err)
	}
	if len(result) == 0 {
		return nil, domain.NewInvalidOperationError("offsets archive %s contains no offset rows", a.path)
	}
	return result, nil
}

// ImportFromArchive replaces a vessel's geometry with the contents of an
// external archive file.
func (s *Service) ImportFromArchive(vesselID, archivePath string) (*GeometrySummary, error) {
	archive, err := OpenOffsetsArchive(archivePath)
	if err != nil {
		return nil, err
	}
	rows, err := archive.ReadOffsets()
	if err != nil {
		return nil, err
	}
	summary, err := s.replaceFromRows(vesselID, rows)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("vessel", vesselID).Str("archive", archivePath).
		Int("offsets", summary.Offsets).Msg("Geometry imported from archive")
	return summary, nil
}
