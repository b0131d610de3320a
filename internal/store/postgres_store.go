package store

import (
	"database/sql"
	"errors"
	"fmt"

	"canvas-grid/pkg/camera"
	"canvas-grid/pkg/grid"

	"github.com/lib/pq"
)

// PostgresStore persists grids and cameras in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS grids (
	name TEXT PRIMARY KEY,
	side INTEGER NOT NULL,
	cells BYTEA NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS cameras (
	name TEXT PRIMARY KEY,
	pose DOUBLE PRECISION[] NOT NULL,
	updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`

// NewPostgresStore connects, pings and ensures the schema exists.
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// SaveGrid upserts g under name.
func (p *PostgresStore) SaveGrid(name string, g *grid.Grid[uint8]) error {
	const query = `
	INSERT INTO grids (name, side, cells)
	VALUES ($1, $2, $3)
	ON CONFLICT (name)
	DO UPDATE SET side = $2, cells = $3, updated_at = NOW()
	`
	if _, err := p.db.Exec(query, name, g.SideLength(), g.Data()); err != nil {
		return fmt.Errorf("save grid %q: %w", name, err)
	}
	return nil
}

// LoadGrid reads the grid stored under name.
func (p *PostgresStore) LoadGrid(name string) (*grid.Grid[uint8], error) {
	var (
		side  int
		cells []byte
	)
	err := p.db.QueryRow(`SELECT side, cells FROM grids WHERE name = $1`, name).Scan(&side, &cells)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("grid %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load grid %q: %w", name, err)
	}
	g, err := grid.From(cells, false)
	if err != nil {
		return nil, fmt.Errorf("grid %q: %w", name, err)
	}
	if g.SideLength() != side {
		return nil, fmt.Errorf("grid %q: stored side %d, cells give %d: %w", name, side, g.SideLength(), grid.ErrNotSquare)
	}
	return g, nil
}

// SaveCamera upserts the pose of cam under name.
func (p *PostgresStore) SaveCamera(name string, cam *camera.Camera) error {
	const query = `
	INSERT INTO cameras (name, pose)
	VALUES ($1, $2)
	ON CONFLICT (name)
	DO UPDATE SET pose = $2, updated_at = NOW()
	`
	if _, err := p.db.Exec(query, name, pq.Array(cam.Encode())); err != nil {
		return fmt.Errorf("save camera %q: %w", name, err)
	}
	return nil
}

// LoadCamera reads the pose stored under name.
func (p *PostgresStore) LoadCamera(name string) (*camera.Camera, error) {
	var pose []float64
	err := p.db.QueryRow(`SELECT pose FROM cameras WHERE name = $1`, name).Scan(pq.Array(&pose))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("camera %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load camera %q: %w", name, err)
	}
	cam, err := camera.Decode(pose)
	if err != nil {
		return nil, fmt.Errorf("camera %q: %w", name, err)
	}
	return cam, nil
}

// Names lists stored grid names.
func (p *PostgresStore) Names() ([]string, error) {
	rows, err := p.db.Query(`SELECT name FROM grids ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list grids: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list grids: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the database connection.
func (p *PostgresStore) Close() error {
	return p.db.Close()
}
