package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Example is one rated exchange pulled back out of the training table.
type Example struct {
	Input  string
	Output string
}

// SQLiteStore persists rated training examples and the raw message corpus.
// Session state itself never touches disk; only the side channel does.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (or creates) the database at path and ensures the schema.
func New(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err = s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS sessions (
        id TEXT PRIMARY KEY, -- UUID
        user_id TEXT NOT NULL,
        persona_key TEXT NOT NULL,
        gender TEXT,
        country TEXT,
        start_time DATETIME DEFAULT CURRENT_TIMESTAMP,
        end_time DATETIME
    );

    CREATE TABLE IF NOT EXISTS messages (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT NOT NULL,
        sender TEXT NOT NULL CHECK (sender IN ('user', 'agent')),
        text TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (session_id) REFERENCES sessions (id)
    );

    CREATE TABLE IF NOT EXISTS training_data (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        persona_key TEXT NOT NULL,
        user_input TEXT NOT NULL,
        ai_response TEXT NOT NULL,
        rating INTEGER NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// CreateSession records the start of a session for later mining.
func (s *SQLiteStore) CreateSession(ctx context.Context, sessionID, userID, personaKey, gender, country string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions (id, user_id, persona_key, gender, country, start_time) VALUES (?, ?, ?, ?, ?, ?)",
		sessionID, userID, personaKey, gender, country, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// EndSession stamps the session's end time. Unknown IDs are a no-op.
func (s *SQLiteStore) EndSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE sessions SET end_time = ? WHERE id = ? AND end_time IS NULL",
		time.Now().UTC(), sessionID)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

// LogMessage appends one utterance to the corpus log.
func (s *SQLiteStore) LogMessage(ctx context.Context, sessionID, sender, text string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO messages (session_id, sender, text) VALUES (?, ?, ?)",
		sessionID, sender, text)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// RecordExample appends a rated (input, output) pair for a persona.
func (s *SQLiteStore) RecordExample(ctx context.Context, personaKey, input, output string, rating int) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO training_data (persona_key, user_input, ai_response, rating) VALUES (?, ?, ?, ?)",
		personaKey, input, output, rating)
	if err != nil {
		return fmt.Errorf("failed to insert training example: %w", err)
	}
	return nil
}

// SampleExamples returns up to n examples for a persona with the given
// rating, in random order. Fewer rows than n is not an error.
func (s *SQLiteStore) SampleExamples(ctx context.Context, personaKey string, rating, n int) ([]Example, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_input, ai_response FROM training_data WHERE persona_key = ? AND rating = ? ORDER BY RANDOM() LIMIT ?",
		personaKey, rating, n)
	if err != nil {
		return nil, fmt.Errorf("failed to sample training examples: %w", err)
	}
	defer rows.Close()

	var examples []Example
	for rows.Next() {
		var ex Example
		if err := rows.Scan(&ex.Input, &ex.Output); err != nil {
			return nil, fmt.Errorf("failed to scan training example: %w", err)
		}
		examples = append(examples, ex)
	}
	return examples, rows.Err()
}

// UserTexts returns every stored user-side message, oldest first. This is
// the offline miner's input.
func (s *SQLiteStore) UserTexts(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT text FROM messages WHERE sender = 'user' ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query user messages: %w", err)
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if text != "" {
			texts = append(texts, text)
		}
	}
	return texts, rows.Err()
}
