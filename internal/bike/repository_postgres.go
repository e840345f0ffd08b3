package bike

import (
	"context"
	"database/sql"
	"fmt"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	createBikesTableQuery = `
		CREATE TABLE IF NOT EXISTS bikes (
			id SERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			type VARCHAR(50) NOT NULL,
			price DECIMAL(10, 2) NOT NULL,
			description VARCHAR(500)
		)
	`
	countBikesQuery = `SELECT COUNT(*) FROM bikes`
	listBikesQuery  = `SELECT id, name, type, price, description FROM bikes ORDER BY id`
	insertBikeQuery = `INSERT INTO bikes (name, type, price, description) VALUES ($1, $2, $3, $4)`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List reads every row of the bikes table. Any failure, including a bad row,
// is reported as ErrStoreUnavailable and no rows are returned.
func (r *PostgresRepository) List(ctx context.Context) ([]Bike, error) {
	rows, err := r.db.QueryContext(ctx, listBikesQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	out := make([]Bike, 0)
	for rows.Next() {
		b, err := scanBike(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return out, nil
}

// EnsureSchema creates the bikes table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createBikesTableQuery); err != nil {
		return fmt.Errorf("create bikes table: %w", err)
	}
	return nil
}

// SeedIfEmpty inserts the given bikes in one transaction when the table has no rows.
// It reports how many rows were inserted.
func (r *PostgresRepository) SeedIfEmpty(ctx context.Context, bikes []Bike) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, countBikesQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bikes: %w", err)
	}
	if count > 0 || len(bikes) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, b := range bikes {
		if _, err := tx.ExecContext(ctx, insertBikeQuery, b.Name, b.Category, b.Price, b.Description); err != nil {
			return 0, fmt.Errorf("insert bike %q: %w", b.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return len(bikes), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBike(scanner rowScanner) (Bike, error) {
	b := Bike{}
	var description sql.NullString
	if err := scanner.Scan(&b.ID, &b.Name, &b.Category, &b.Price, &description); err != nil {
		return Bike{}, err
	}
	if description.Valid {
		b.Description = &description.String
	}
	return b, nil
}
