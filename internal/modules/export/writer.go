// Package export renders computed hydrostatic output to CSV and JSON files
// and optionally ships them to S3. Files are written under the configured
// export directory with timestamped names; nothing here recomputes.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/abhee15/navarch-studio-sub003/internal/modules/hydro"
)

// hydroTableHeader lists the columns of a hydrostatic table export, one
// row per computed draft.
var hydroTableHeader = []string{
	"draft", "trim", "heel",
	"disp_volume", "disp_weight",
	"kb", "lcb", "tcb",
	"awp", "lcf", "iwp", "it",
	"bmt", "bml", "gmt", "gml",
	"cb", "cp", "cm", "cwp",
}

// WriteHydroTableCSV renders a hydrostatic table.
func WriteHydroTableCSV(w io.Writer, results []hydro.HydroResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(hydroTableHeader); err != nil {
		return fmt.Errorf("failed to write table header: %w", err)
	}
	for _, res := range results {
		record := []string{
			res.Draft.String(), res.Trim.String(), res.Heel.String(),
			res.DispVolume.String(), res.DispWeight.String(),
			res.KB.String(), res.LCB.String(), res.TCB.String(),
			res.Awp.String(), res.LCF.String(), res.Iwp.String(), res.It.String(),
			res.BMt.String(), res.BMl.String(), res.GMt.String(), res.GMl.String(),
			res.Cb.String(), res.Cp.String(), res.Cm.String(), res.Cwp.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write table row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCurvesCSV renders hydrostatic curves in long format: one row per
// sample with the curve type in the first column.
func WriteCurvesCSV(w io.Writer, curves []hydro.Curve) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"curve", "x", "y"}); err != nil {
		return fmt.Errorf("failed to write curves header: %w", err)
	}
	for _, curve := range curves {
		for _, pt := range curve.Points {
			if err := cw.Write([]string{string(curve.Type), pt.X.String(), pt.Y.String()}); err != nil {
				return fmt.Errorf("failed to write curve row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBonjeanCSV renders Bonjean curves as a matrix: one row per draft,
// one column per station. All curves share the same draft samples.
func WriteBonjeanCSV(w io.Writer, curves []hydro.BonjeanCurve) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(curves)+1)
	header = append(header, "draft")
	for _, c := range curves {
		header = append(header, fmt.Sprintf("station_%d_x_%s", c.StationIndex, c.X))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write bonjean header: %w", err)
	}

	if len(curves) > 0 {
		for i := range curves[0].Points {
			row := make([]string, 0, len(curves)+1)
			row = append(row, curves[0].Points[i].X.String())
			for _, c := range curves {
				if i >= len(c.Points) {
					return fmt.Errorf("bonjean curve for station %d has %d points, want %d",
						c.StationIndex, len(c.Points), len(curves[0].Points))
				}
				row = append(row, c.Points[i].Y.String())
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write bonjean row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// StabilityReport bundles a righting-arm curve with its criteria verdict
// for export.
type StabilityReport struct {
	Curve    *hydro.StabilityCurve `json:"curve"`
	Criteria *hydro.CriteriaResult `json:"criteria,omitempty"`
}

// WriteStabilityCSV renders the righting-arm curve samples.
func WriteStabilityCSV(w io.Writer, curve *hydro.StabilityCurve) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"heel", "gz", "kn"}); err != nil {
		return fmt.Errorf("failed to write stability header: %w", err)
	}
	for _, pt := range curve.Points {
		if err := cw.Write([]string{pt.Heel.String(), pt.GZ.String(), pt.KN.String()}); err != nil {
			return fmt.Errorf("failed to write stability row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON renders any export payload as indented JSON.
func WriteJSON(w io.Writer, payload interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode export JSON: %w", err)
	}
	return nil
}
