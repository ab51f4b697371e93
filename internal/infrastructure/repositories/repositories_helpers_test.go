package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

// createDirectorySchema builds the base tables and the three read views the
// directory resolver queries.
func createDirectorySchema(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE freelancers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		slug TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		bio TEXT,
		photo_asset_id TEXT,
		cv_asset_id TEXT,
		equipment_asset_id TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE freelancer_links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		freelancer_id INTEGER NOT NULL,
		link_type TEXT NOT NULL,
		url TEXT NOT NULL DEFAULT '',
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE departments (
		id INTEGER PRIMARY KEY,
		slug TEXT NOT NULL,
		name TEXT NOT NULL
	);`)
	mustExec(t, db, `CREATE TABLE skills (
		id INTEGER PRIMARY KEY,
		department_id INTEGER NOT NULL,
		slug TEXT NOT NULL,
		name TEXT NOT NULL
	);`)
	mustExec(t, db, `CREATE TABLE freelancer_skills (
		freelancer_id INTEGER NOT NULL,
		skill_id INTEGER NOT NULL
	);`)
	mustExec(t, db, `CREATE VIEW vw_freelancers AS
		SELECT id, slug, display_name, bio, photo_asset_id, cv_asset_id, equipment_asset_id
		FROM freelancers WHERE is_active = 1;`)
	mustExec(t, db, `CREATE VIEW vw_freelancer_skills AS
		SELECT fs.freelancer_id, d.id AS department_id, d.slug AS department_slug, d.name AS department_name,
		       s.id AS skill_id, s.slug AS skill_slug, s.name AS skill_name
		FROM freelancer_skills fs
		JOIN skills s ON s.id = fs.skill_id
		JOIN departments d ON d.id = s.department_id;`)
	mustExec(t, db, `CREATE VIEW vw_freelancer_links AS
		SELECT id, freelancer_id, link_type, url FROM freelancer_links WHERE TRIM(url) <> '';`)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE,
		name TEXT,
		password_hash TEXT,
		role TEXT,
		freelancer_id INTEGER,
		last_login_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createNewsTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE news (
		id TEXT PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		summary TEXT,
		body TEXT,
		pdf_asset_id TEXT,
		published BOOLEAN NOT NULL DEFAULT 0,
		published_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createSubmissionTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE submissions (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT,
		company TEXT,
		subject TEXT,
		message TEXT NOT NULL,
		production_dates TEXT,
		department_slug TEXT,
		handled BOOLEAN NOT NULL DEFAULT 0,
		handled_at DATETIME,
		created_at DATETIME
	);`)
}
