package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DayLayout is how due days are stored, so a day lookup is a plain
// equality match.
const DayLayout = "2006-01-02"

var ErrTaskNotFound = errors.New("task not found")

type Task struct {
	ID        int
	Title     string
	Done      bool
	Due       time.Time
	CreatedAt time.Time
}

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	done INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureTaskColumns()
}

func (s *Store) ensureTaskColumns() error {
	required := map[string]string{
		"due_day": "ALTER TABLE tasks ADD COLUMN due_day TEXT DEFAULT NULL;",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(tasks);`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS tasks_due_day ON tasks (due_day);`)
	return err
}

// AddTask stores a task due on the calendar day of due.
func (s *Store) AddTask(title string, due time.Time) (int, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(`INSERT INTO tasks (title, done, due_day, created_at) VALUES (?, 0, ?, ?);`,
		title, due.Format(DayLayout), now)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}

func (s *Store) SetDone(id int, done bool) error {
	val := 0
	if done {
		val = 1
	}
	res, err := s.db.Exec(`UPDATE tasks SET done = ? WHERE id = ?;`, val, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("task #%d: %w", id, ErrTaskNotFound)
	}
	return nil
}

// TasksDueOn lists tasks due on the calendar day of day, pending first.
func (s *Store) TasksDueOn(day time.Time) ([]Task, error) {
	rows, err := s.db.Query(`SELECT id, title, done, due_day, created_at FROM tasks WHERE due_day = ? ORDER BY done, id;`,
		day.Format(DayLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		var doneInt int
		var dueStr, createdStr string
		if err := rows.Scan(&t.ID, &t.Title, &doneInt, &dueStr, &createdStr); err != nil {
			return nil, err
		}
		t.Done = doneInt == 1
		if parsed, err := time.Parse(DayLayout, dueStr); err == nil {
			t.Due = parsed
		}
		if created, err := time.Parse(time.RFC3339, createdStr); err == nil {
			t.CreatedAt = created
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// PendingCounts returns the number of open tasks per due day in [from, to],
// keyed by DayLayout.
func (s *Store) PendingCounts(from, to time.Time) (map[string]int, error) {
	rows, err := s.db.Query(`SELECT due_day, COUNT(*) FROM tasks WHERE done = 0 AND due_day BETWEEN ? AND ? GROUP BY due_day;`,
		from.Format(DayLayout), to.Format(DayLayout))
	if err != nil {
		return nil, fmt.Errorf("pending counts: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var day string
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, err
		}
		counts[day] = n
	}
	return counts, rows.Err()
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
