package vessels

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
)

// Repository handles vessel records in fleet.db.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new vessel repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "vessels").Logger(),
	}
}

// Create inserts a new vessel record.
func (r *Repository) Create(v *Vessel) error {
	_, err := r.db.Exec(`
		INSERT INTO vessels (id, name, description, length_pp, beam, depth, geometry_version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, v.ID, v.Name, v.Description,
		decimalPtrToString(v.LengthPP), decimalPtrToString(v.Beam), decimalPtrToString(v.Depth),
		v.GeometryVersion, v.CreatedAt.Format(time.RFC3339), v.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to create vessel %s: %w", v.ID, err)
	}
	return nil
}

// GetByID retrieves a vessel by its identifier.
func (r *Repository) GetByID(id string) (*Vessel, error) {
	row := r.db.QueryRow(`
		SELECT id, name, description, length_pp, beam, depth, geometry_version, created_at, updated_at
		FROM vessels WHERE id = ?
	`, id)
	v, err := scanVessel(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("vessel %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vessel %s: %w", id, err)
	}
	return v, nil
}

// List returns all vessels ordered by name.
func (r *Repository) List() ([]Vessel, error) {
	rows, err := r.db.Query(`
		SELECT id, name, description, length_pp, beam, depth, geometry_version, created_at, updated_at
		FROM vessels ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list vessels: %w", err)
	}
	defer rows.Close()

	var result []Vessel
	for rows.Next() {
		v, err := scanVessel(rows)
		if err != nil {
			r.log.Warn().Err(err).Msg("Failed to scan vessel row")
			continue
		}
		result = append(result, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vessels: %w", err)
	}
	return result, nil
}

// Update rewrites a vessel's mutable fields.
func (r *Repository) Update(v *Vessel) error {
	res, err := r.db.Exec(`
		UPDATE vessels
		SET name = ?, description = ?, length_pp = ?, beam = ?, depth = ?, updated_at = ?
		WHERE id = ?
	`, v.Name, v.Description,
		decimalPtrToString(v.LengthPP), decimalPtrToString(v.Beam), decimalPtrToString(v.Depth),
		time.Now().UTC().Format(time.RFC3339), v.ID)
	if err != nil {
		return fmt.Errorf("failed to update vessel %s: %w", v.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update of vessel %s: %w", v.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("vessel %s: %w", v.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a vessel; geometry and loadcases cascade.
func (r *Repository) Delete(id string) error {
	res, err := r.db.Exec("DELETE FROM vessels WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete vessel %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete of vessel %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("vessel %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for shared scan code.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanVessel(s scanner) (*Vessel, error) {
	var (
		v                    Vessel
		description          sql.NullString
		lengthPP, beam, dep  sql.NullString
		createdAt, updatedAt string
	)
	if err := s.Scan(&v.ID, &v.Name, &description, &lengthPP, &beam, &dep,
		&v.GeometryVersion, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	v.Description = description.String
	var err error
	if v.LengthPP, err = decimalPtrFromNull(lengthPP); err != nil {
		return nil, fmt.Errorf("invalid length_pp for vessel %s: %w", v.ID, err)
	}
	if v.Beam, err = decimalPtrFromNull(beam); err != nil {
		return nil, fmt.Errorf("invalid beam for vessel %s: %w", v.ID, err)
	}
	if v.Depth, err = decimalPtrFromNull(dep); err != nil {
		return nil, fmt.Errorf("invalid depth for vessel %s: %w", v.ID, err)
	}
	if v.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at for vessel %s: %w", v.ID, err)
	}
	if v.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("invalid updated_at for vessel %s: %w", v.ID, err)
	}
	return &v, nil
}

func decimalPtrToString(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

func decimalPtrFromNull(ns sql.NullString) (*decimal.Decimal, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
