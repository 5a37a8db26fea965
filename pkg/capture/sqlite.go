package capture

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/roomlens/roomlens/pkg/frame"
)

const schema = `
CREATE TABLE IF NOT EXISTS boots (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	device     TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);
CREATE TABLE IF NOT EXISTS frames (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	t          INTEGER NOT NULL,
	mic_rms    REAL NOT NULL,
	mic_peak   REAL NOT NULL,
	lux        REAL NOT NULL,
	pir        INTEGER NOT NULL,
	cam_motion REAL NOT NULL
);
`

// SQLiteRecorder persists frames into a SQLite database for longer study
// captures where CSV gets unwieldy.
type SQLiteRecorder struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and ensures the
// capture schema exists.
func NewSQLite(path string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open capture db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create capture schema: %w", err)
	}
	return &SQLiteRecorder{db: db}, nil
}

// Boot records the device announcement.
func (r *SQLiteRecorder) Boot(device string) error {
	if _, err := r.db.Exec(`INSERT INTO boots (device) VALUES (?)`, device); err != nil {
		return fmt.Errorf("insert boot: %w", err)
	}
	return nil
}

// Emit inserts one frame row.
func (r *SQLiteRecorder) Emit(f frame.Frame) error {
	_, err := r.db.Exec(
		`INSERT INTO frames (t, mic_rms, mic_peak, lux, pir, cam_motion) VALUES (?, ?, ?, ?, ?, ?)`,
		int64(f.T),
		float64(f.MicRMS),
		float64(f.MicPeak),
		float64(f.Lux),
		boolToInt(f.PIR),
		float64(f.CamMotion),
	)
	if err != nil {
		return fmt.Errorf("insert frame: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

var _ frame.Sink = (*SQLiteRecorder)(nil)
