package store

import "os"

const defaultPostgresURL = "host=localhost user=canvas password=canvas dbname=canvas_grid sslmode=disable"

// Open picks a backend from DB_TYPE: "postgres" uses DATABASE_URL, anything
// else uses the JSON file named by DB_FILE. It also returns the backend name.
func Open() (Storage, string, error) {
	if os.Getenv("DB_TYPE") == "postgres" {
		url := os.Getenv("DATABASE_URL")
		if url == "" {
			url = defaultPostgresURL
		}
		s, err := NewPostgresStore(url)
		if err != nil {
			return nil, "postgres", err
		}
		return s, "postgres", nil
	}
	file := os.Getenv("DB_FILE")
	if file == "" {
		file = "grids.json"
	}
	s, err := NewJSONStore(file)
	if err != nil {
		return nil, "json", err
	}
	return s, "json", nil
}
