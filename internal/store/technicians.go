// internal/store/technicians.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"mangotango-admin/internal/models"
)

// TechnicianStore reads technician registrations from PostgreSQL. The
// registration flow owns writes; this service never mutates these rows.
type TechnicianStore struct {
	db *sql.DB
}

func NewTechnicianStore(db *sql.DB) *TechnicianStore {
	return &TechnicianStore{db: db}
}

// FetchAll returns the full set of technician registrations ordered by
// submission time. The result is a snapshot, not a live stream.
func (s *TechnicianStore) FetchAll(ctx context.Context) ([]models.TechnicianRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, email, status,
		       COALESCE(expertise, ''), COALESCE(phone_number, ''), COALESCE(address, '')
		FROM technicians
		ORDER BY submitted_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query technicians: %w", err)
	}
	defer rows.Close()

	var records []models.TechnicianRecord
	for rows.Next() {
		var rec models.TechnicianRecord
		if err := rows.Scan(
			&rec.ID, &rec.FirstName, &rec.LastName, &rec.Email, &rec.Status,
			&rec.Expertise, &rec.PhoneNumber, &rec.Address,
		); err != nil {
			return nil, fmt.Errorf("scan technician row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate technician rows: %w", err)
	}

	return records, nil
}
