package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Profile is a named list of candidate hues saved after calibration.
type Profile struct {
	ID        string
	Name      string
	Hues      []uint8
	Policy    string
	CreatedAt time.Time
}

// ProfileRepository provides CRUD operations for profiles.
type ProfileRepository struct {
	db *sql.DB
}

// Profiles returns the profile repository for this store.
func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{db: s.db}
}

// Create inserts a new profile. An empty ID is filled with a random UUID.
func (r *ProfileRepository) Create(p *Profile) error {
	if len(p.Hues) == 0 {
		return errors.Errorf("profile %q has no hues", p.Name)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Policy == "" {
		p.Policy = "clamp"
	}
	p.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO profiles (id, name, hues, policy, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Hues, p.Policy, p.CreatedAt,
	)
	return errors.Wrapf(err, "create profile %q", p.Name)
}

// GetByName retrieves a profile by its name.
func (r *ProfileRepository) GetByName(name string) (*Profile, error) {
	return r.scanOne(
		`SELECT id, name, hues, policy, created_at FROM profiles WHERE name = ?`, name)
}

// GetByID retrieves a profile by its ID.
func (r *ProfileRepository) GetByID(id string) (*Profile, error) {
	return r.scanOne(
		`SELECT id, name, hues, policy, created_at FROM profiles WHERE id = ?`, id)
}

func (r *ProfileRepository) scanOne(query string, arg any) (*Profile, error) {
	p := &Profile{}
	err := r.db.QueryRow(query, arg).Scan(&p.ID, &p.Name, &p.Hues, &p.Policy, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List retrieves all profiles, newest first.
func (r *ProfileRepository) List() ([]*Profile, error) {
	rows, err := r.db.Query(
		`SELECT id, name, hues, policy, created_at FROM profiles ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p := &Profile{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Hues, &p.Policy, &p.CreatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// Delete removes a profile by its ID.
func (r *ProfileRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
