package history

import "database/sql"

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS plays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			track_id TEXT NOT NULL,
			uri TEXT NOT NULL,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			album TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			played_at INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			UNIQUE (uri, played_at)
		);

		CREATE INDEX IF NOT EXISTS idx_plays_played_at ON plays(played_at);
		CREATE INDEX IF NOT EXISTS idx_plays_uri ON plays(uri);
	`)
	return err
}
