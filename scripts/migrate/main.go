package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/config"
)

// ANSI color codes for terminal output
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
)

// Migration represents a database migration file
type Migration struct {
	Version  int
	Name     string
	FilePath string
}

func main() {
	// Load .env file (ignore error if not present)
	_ = godotenv.Load()

	printInfo("=== Migration Runner ===\n")

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	if command != "up" && command != "status" {
		fmt.Println("Usage: go run ./scripts/migrate [up|status]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		printError(fmt.Sprintf("Failed to load configuration: %v", err))
		os.Exit(1)
	}

	printInfo("Connecting to database...")
	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		printError(fmt.Sprintf("Failed to open database connection: %v", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		printError(fmt.Sprintf("Failed to ping database: %v", err))
		os.Exit(1)
	}
	printSuccess("✓ Connected to database\n")

	if err := createMigrationTable(db); err != nil {
		printError(fmt.Sprintf("Failed to create migration table: %v", err))
		os.Exit(1)
	}

	switch command {
	case "up":
		err = runUp(db)
	case "status":
		err = showStatus(db)
	}
	if err != nil {
		printError(fmt.Sprintf("Command failed: %v", err))
		os.Exit(1)
	}
}

func createMigrationTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	return nil
}

func appliedVersions(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query(`SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func migrationFiles(dir string) ([]Migration, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	pattern := regexp.MustCompile(`^(\d{3})_(.+)\.sql$`)

	var migrations []Migration
	for _, file := range files {
		matches := pattern.FindStringSubmatch(file.Name())
		if len(matches) != 3 {
			continue
		}
		version, err := strconv.Atoi(matches[1])
		if err != nil {
			continue
		}
		migrations = append(migrations, Migration{
			Version:  version,
			Name:     matches[2],
			FilePath: filepath.Join(dir, file.Name()),
		})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

func runUp(db *sql.DB) error {
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	migrations, err := migrationFiles("migrations")
	if err != nil {
		return err
	}

	ran := 0
	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		content, err := os.ReadFile(m.FilePath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", m.FilePath, err)
		}

		printInfo(fmt.Sprintf("Applying %03d_%s...", m.Version, m.Name))
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("migration %03d_%s failed: %w", m.Version, m.Name, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name); err != nil {
			return fmt.Errorf("failed to record migration %03d: %w", m.Version, err)
		}
		printSuccess(fmt.Sprintf("✓ Applied %03d_%s", m.Version, m.Name))
		ran++
	}

	if ran == 0 {
		printInfo("Database is up to date")
	} else {
		printSuccess(fmt.Sprintf("\n✨ Applied %d migration(s)", ran))
	}
	return nil
}

func showStatus(db *sql.DB) error {
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	migrations, err := migrationFiles("migrations")
	if err != nil {
		return err
	}

	for _, m := range migrations {
		status := colorRed + "pending" + colorReset
		if applied[m.Version] {
			status = colorGreen + "applied" + colorReset
		}
		fmt.Printf("%03d_%s: %s\n", m.Version, m.Name, status)
	}
	return nil
}

func printInfo(msg string)    { fmt.Println(colorCyan + msg + colorReset) }
func printSuccess(msg string) { fmt.Println(colorGreen + msg + colorReset) }
func printError(msg string)   { fmt.Println(colorRed + msg + colorReset) }
