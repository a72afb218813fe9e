package database

import (
	"database/sql"
	"fmt"
	"os"

	"filelist-go/internal/database/migrations"
	"filelist-go/internal/flist"
)

// MergedStore is the SQLite implementation of flist.MergedStore. All
// writes happen between Begin and Commit in one transaction, so a
// failed merge leaves the file unchanged.
type MergedStore struct {
	db   *sql.DB
	tx   *sql.Tx
	path string
}

// CreateMergedStore opens a new merged store at path and applies the
// merged schema.
func CreateMergedStore(path string) (*MergedStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db, migrations.MergedSet); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying merged schema: %w", err)
	}
	return &MergedStore{db: db, path: path}, nil
}

// OpenMergedStore opens an existing merged store for appending and
// verifies its schema version.
func OpenMergedStore(path string) (*MergedStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat merged store file: %w", err)
	}
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.CheckStatus(db, migrations.MergedSet); err != nil {
		db.Close()
		return nil, fmt.Errorf("checking merged schema: %w", err)
	}
	return &MergedStore{db: db, path: path}, nil
}

// Path returns the database file path (or ":memory:").
func (m *MergedStore) Path() string {
	return m.path
}

func (m *MergedStore) Begin() error {
	if m.tx != nil {
		return fmt.Errorf("merge transaction already active")
	}
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	m.tx = tx
	return nil
}

func (m *MergedStore) Commit() error {
	if m.tx == nil {
		return fmt.Errorf("no merge transaction active")
	}
	err := m.tx.Commit()
	m.tx = nil
	if err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (m *MergedStore) Tags() ([]string, error) {
	rows, err := m.db.Query("SELECT tag FROM filelists ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("reading tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (m *MergedStore) MaxDirectoryID() (int64, error) {
	var max int64
	err := m.db.QueryRow("SELECT COALESCE(MAX(id), 0) FROM directories").Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("reading max directory id: %w", err)
	}
	return max, nil
}

func (m *MergedStore) InsertFilelist(tag, fileName string, info *flist.StoreInfo) (int64, error) {
	if m.tx == nil {
		return 0, fmt.Errorf("no merge transaction active")
	}
	res, err := m.tx.Exec(
		`INSERT INTO filelists (tag, file_name, created, host, scandir,
			title, finished, host_path_sep, do_all_paths, db_version,
			app_name, app_version)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tag, fileName, info.Created, info.Host, info.ScanDir,
		info.Title, info.Finished, info.PathSep, info.AllPaths,
		info.DBVersion, info.AppName, info.AppVersion)
	if err != nil {
		return 0, fmt.Errorf("inserting filelist: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading filelist id: %w", err)
	}
	return id, nil
}

func (m *MergedStore) InsertDirectory(id int64, path string, filelistID int64) error {
	if m.tx == nil {
		return fmt.Errorf("no merge transaction active")
	}
	_, err := m.tx.Exec(
		"INSERT INTO directories (id, dir_name, filelist_id) VALUES (?, ?, ?)",
		id, path, filelistID)
	if err != nil {
		return fmt.Errorf("inserting directory: %w", err)
	}
	return nil
}

func (m *MergedStore) InsertFile(filelistID, fileID int64, fi *flist.FileInfo, dirID int64) error {
	if m.tx == nil {
		return fmt.Errorf("no merge transaction active")
	}
	_, err := m.tx.Exec(
		`INSERT INTO files (filelist_id, file_id, sha1, md5, file_name,
			file_size, last_modified, dir_level, dir_id, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		filelistID, fileID, fi.SHA1, fi.MD5, fi.Name,
		fi.Size, fi.Modified, fi.DirLevel, dirID, fi.Err)
	if err != nil {
		return fmt.Errorf("inserting file: %w", err)
	}
	return nil
}

// CreateFilelistView creates the per-source view "filelist<N>". The id
// is embedded in the view name, so it cannot be a bind parameter.
func (m *MergedStore) CreateFilelistView(filelistID int64) error {
	if m.tx == nil {
		return fmt.Errorf("no merge transaction active")
	}
	stmt := fmt.Sprintf(
		`CREATE VIEW filelist%d AS
		    SELECT
		        b.tag,
		        a.id,
		        a.sha1,
		        a.md5,
		        a.file_name,
		        a.file_size,
		        a.last_modified,
		        c.dir_name,
		        a.dir_level,
		        a.error
		    FROM files a
		    JOIN filelists b
		    ON a.filelist_id = b.id
		    JOIN directories c
		    ON a.dir_id = c.id
		    WHERE b.id = %d
		    ORDER BY c.dir_name, a.file_name`,
		filelistID, filelistID)
	if _, err := m.tx.Exec(stmt); err != nil {
		return fmt.Errorf("creating view: %w", err)
	}
	return nil
}

// Close rolls back any open transaction and closes the connection.
func (m *MergedStore) Close() error {
	if m.tx != nil {
		m.tx.Rollback()
		m.tx = nil
	}
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// Compile-time check that MergedStore implements flist.MergedStore
var _ flist.MergedStore = (*MergedStore)(nil)
