package vessels

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/hydro"
)

// csvHeader is the long-format offset table layout: one row per
// (station, waterline) cell.
var csvHeader = []string{"station_index", "x", "waterline_index", "z", "half_breadth"}

// Service wires vessel CRUD together with offset table import/export.
type Service struct {
	vessels  *Repository
	geometry *GeometryRepository
	log      zerolog.Logger
}

// NewService creates a vessels service.
func NewService(vessels *Repository, geometry *GeometryRepository, log zerolog.Logger) *Service {
	return &Service{
		vessels:  vessels,
		geometry: geometry,
		log:      log.With().Str("service", "vessels").Logger(),
	}
}

// CreateVessel registers a new vessel and returns it with its generated ID.
func (s *Service) CreateVessel(name, description string, lengthPP, beam, depth *decimal.Decimal) (*Vessel, error) {
	if name == "" {
		return nil, domain.NewArgumentError("name", "must not be empty")
	}
	now := time.Now().UTC()
	v := &Vessel{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		LengthPP:    lengthPP,
		Beam:        beam,
		Depth:       depth,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.vessels.Create(v); err != nil {
		return nil, err
	}
	s.log.Info().Str("vessel", v.ID).Str("name", name).Msg("Vessel created")
	return v, nil
}

// GetVessel returns one vessel by ID.
func (s *Service) GetVessel(id string) (*Vessel, error) {
	return s.vessels.GetByID(id)
}

// ListVessels returns the fleet.
func (s *Service) ListVessels() ([]Vessel, error) {
	return s.vessels.List()
}

// UpdateVessel rewrites a vessel's metadata.
func (s *Service) UpdateVessel(v *Vessel) error {
	if v.Name == "" {
		return domain.NewArgumentError("name", "must not be empty")
	}
	return s.vessels.Update(v)
}

// DeleteVessel removes a vessel together with its geometry and loadcases.
func (s *Service) DeleteVessel(id string) error {
	return s.vessels.Delete(id)
}

// ImportOffsetsCSV parses a long-format offset table and replaces the
// vessel's geometry with it. The whole import is one transaction: a parse
// or validation failure leaves the existing geometry untouched.
func (s *Service) ImportOffsetsCSV(vesselID string, reader io.Reader) (*GeometrySummary, error) {
	rows, err := parseOffsetsCSV(reader)
	if err != nil {
		return nil, err
	}
	return s.replaceFromRows(vesselID, rows)
}

// ExportOffsetsCSV writes the vessel's offset table in the same
// long format the importer accepts, so exports round-trip.
func (s *Service) ExportOffsetsCSV(vesselID string, writer io.Writer) error {
	// Resolve the vessel first for a proper not-found error.
	if _, err := s.vessels.GetByID(vesselID); err != nil {
		return err
	}
	rows, err := s.geometry.OffsetTable(vesselID)
	if err != nil {
		return err
	}

	w := csv.NewWriter(writer)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.StationIndex),
			row.X.String(),
			strconv.Itoa(row.WaterlineIndex),
			row.Z.String(),
			row.HalfBreadth.String(),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// replaceFromRows assembles the station/waterline axes from the long-format
// rows and hands the table to the geometry repository.
func (s *Service) replaceFromRows(vesselID string, rows []OffsetRow) (*GeometrySummary, error) {
	stationX := make(map[int]decimal.Decimal)
	waterlineZ := make(map[int]decimal.Decimal)
	var offsets []hydro.Offset

	for _, row := range rows {
		if prev, ok := stationX[row.StationIndex]; ok && !prev.Equal(row.X) {
			return nil, domain.NewArgumentError("x",
				fmt.Sprintf("station %d has conflicting x values %s and %s", row.StationIndex, prev, row.X))
		}
		if prev, ok := waterlineZ[row.WaterlineIndex]; ok && !prev.Equal(row.Z) {
			return nil, domain.NewArgumentError("z",
				fmt.Sprintf("waterline %d has conflicting z values %s and %s", row.WaterlineIndex, prev, row.Z))
		}
		stationX[row.StationIndex] = row.X
		waterlineZ[row.WaterlineIndex] = row.Z
		offsets = append(offsets, hydro.Offset{
			StationIndex:   row.StationIndex,
			WaterlineIndex: row.WaterlineIndex,
			HalfBreadth:    row.HalfBreadth,
		})
	}

	stations := make([]hydro.Station, 0, len(stationX))
	for idx, x := range stationX {
		stations = append(stations, hydro.Station{Index: idx, X: x})
	}
	sort.Slice(stations, func(i, j int) bool { return stations[i].Index < stations[j].Index })

	waterlines := make([]hydro.Waterline, 0, len(waterlineZ))
	for idx, z := range waterlineZ {
		waterlines = append(waterlines, hydro.Waterline{Index: idx, Z: z})
	}
	sort.Slice(waterlines, func(i, j int) bool { return waterlines[i].Index < waterlines[j].Index })

	version, err := s.geometry.ReplaceGeometry(vesselID, stations, waterlines, offsets)
	if err != nil {
		return nil, err
	}
	return &GeometrySummary{
		VesselID:   vesselID,
		Stations:   len(stations),
		Waterlines: len(waterlines),
		Offsets:    len(offsets),
		Version:    version,
	}, nil
}

// parseOffsetsCSV reads the long-format offset table, tolerating column
// order as long as the header names match.
func parseOffsetsCSV(reader io.Reader) ([]OffsetRow, error) {
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, domain.NewArgumentError("csv", "missing header row")
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range csvHeader {
		if _, ok := col[required]; !ok {
			return nil, domain.NewArgumentError("csv", "missing column "+required)
		}
	}

	var rows []OffsetRow
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.NewArgumentError("csv", fmt.Sprintf("line %d: %v", line, err))
		}

		row := OffsetRow{}
		if row.StationIndex, err = strconv.Atoi(record[col["station_index"]]); err != nil {
			return nil, domain.NewArgumentError("station_index", fmt.Sprintf("line %d: %v", line, err))
		}
		if row.WaterlineIndex, err = strconv.Atoi(record[col["waterline_index"]]); err != nil {
			return nil, domain.NewArgumentError("waterline_index", fmt.Sprintf("line %d: %v", line, err))
		}
		if row.X, err = decimal.NewFromString(record[col["x"]]); err != nil {
			return nil, domain.NewArgumentError("x", fmt.Sprintf("line %d: %v", line, err))
		}
		if row.Z, err = decimal.NewFromString(record[col["z"]]); err != nil {
			return nil, domain.NewArgumentError("z", fmt.Sprintf("line %d: %v", line, err))
		}
		if row.HalfBreadth, err = decimal.NewFromString(record[col["half_breadth"]]); err != nil {
			return nil, domain.NewArgumentError("half_breadth", fmt.Sprintf("line %d: %v", line, err))
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, domain.NewArgumentError("csv", "offset table has no data rows")
	}
	return rows, nil
}
