// Package loadcases stores loading conditions: the density, center of
// gravity, and optional displacement target a computation runs against.
// The repository doubles as the engine's loadcase provider.
package loadcases

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/hydro"
)

// Loadcase is the stored record; the embedded hydro.Loadcase is what the
// engine consumes.
type Loadcase struct {
	hydro.Loadcase
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository handles loadcase records in fleet.db.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new loadcase repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "loadcases").Logger(),
	}
}

// Create inserts a new loadcase record.
func (r *Repository) Create(lc *Loadcase) error {
	if lc.Rho.LessThanOrEqual(decimal.Zero) {
		return domain.NewArgumentError("rho", "must be positive")
	}
	if lc.KG.IsNegative() {
		return domain.NewArgumentError("kg", "must not be negative")
	}
	if lc.TargetDisplacement != nil && lc.TargetDisplacement.LessThanOrEqual(decimal.Zero) {
		return domain.NewArgumentError("target_displacement", "must be positive when set")
	}
	var one int
	if err := r.db.QueryRow("SELECT 1 FROM vessels WHERE id = ?", lc.VesselID).Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("vessel %s: %w", lc.VesselID, domain.ErrNotFound)
		}
		return fmt.Errorf("failed to check vessel %s: %w", lc.VesselID, err)
	}
	_, err := r.db.Exec(`
		INSERT INTO loadcases (id, vessel_id, name, rho, kg, target_displacement, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, lc.ID, lc.VesselID, lc.Name, lc.Rho.String(), lc.KG.String(),
		targetToString(lc.TargetDisplacement),
		lc.CreatedAt.Format(time.RFC3339), lc.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to create loadcase %s: %w", lc.ID, err)
	}
	return nil
}

// GetByID retrieves a loadcase by its identifier.
func (r *Repository) GetByID(id string) (*Loadcase, error) {
	row := r.db.QueryRow(`
		SELECT id, vessel_id, name, rho, kg, target_displacement, created_at, updated_at
		FROM loadcases WHERE id = ?
	`, id)
	lc, err := scanLoadcase(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("loadcase %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loadcase %s: %w", id, err)
	}
	return lc, nil
}

// LoadcaseByID serves the engine; it strips the storage envelope.
func (r *Repository) LoadcaseByID(id string) (*hydro.Loadcase, error) {
	lc, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	return &lc.Loadcase, nil
}

// ListByVessel returns a vessel's loadcases ordered by name.
func (r *Repository) ListByVessel(vesselID string) ([]Loadcase, error) {
	rows, err := r.db.Query(`
		SELECT id, vessel_id, name, rho, kg, target_displacement, created_at, updated_at
		FROM loadcases WHERE vessel_id = ? ORDER BY name
	`, vesselID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loadcases for vessel %s: %w", vesselID, err)
	}
	defer rows.Close()

	var result []Loadcase
	for rows.Next() {
		lc, err := scanLoadcase(rows)
		if err != nil {
			r.log.Warn().Err(err).Msg("Failed to scan loadcase row")
			continue
		}
		result = append(result, *lc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loadcases: %w", err)
	}
	return result, nil
}

// Update rewrites a loadcase's mutable fields.
func (r *Repository) Update(lc *Loadcase) error {
	if lc.Rho.LessThanOrEqual(decimal.Zero) {
		return domain.NewArgumentError("rho", "must be positive")
	}
	res, err := r.db.Exec(`
		UPDATE loadcases
		SET name = ?, rho = ?, kg = ?, target_displacement = ?, updated_at = ?
		WHERE id = ?
	`, lc.Name, lc.Rho.String(), lc.KG.String(), targetToString(lc.TargetDisplacement),
		time.Now().UTC().Format(time.RFC3339), lc.ID)
	if err != nil {
		return fmt.Errorf("failed to update loadcase %s: %w", lc.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update of loadcase %s: %w", lc.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("loadcase %s: %w", lc.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a loadcase.
func (r *Repository) Delete(id string) error {
	res, err := r.db.Exec("DELETE FROM loadcases WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete loadcase %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete of loadcase %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("loadcase %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanLoadcase(s scanner) (*Loadcase, error) {
	var (
		lc                   Loadcase
		rho, kg              string
		target               sql.NullString
		createdAt, updatedAt string
	)
	if err := s.Scan(&lc.ID, &lc.VesselID, &lc.Name, &rho, &kg, &target, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if lc.Rho, err = decimal.NewFromString(rho); err != nil {
		return nil, fmt.Errorf("invalid rho for loadcase %s: %w", lc.ID, err)
	}
	if lc.KG, err = decimal.NewFromString(kg); err != nil {
		return nil, fmt.Errorf("invalid kg for loadcase %s: %w", lc.ID, err)
	}
	if target.Valid && target.String != "" {
		d, err := decimal.NewFromString(target.String)
		if err != nil {
			return nil, fmt.Errorf("invalid target_displacement for loadcase %s: %w", lc.ID, err)
		}
		lc.TargetDisplacement = &d
	}
	if lc.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at for loadcase %s: %w", lc.ID, err)
	}
	if lc.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("invalid updated_at for loadcase %s: %w", lc.ID, err)
	}
	return &lc, nil
}

func targetToString(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}
