package database

import (
	"database/sql"
	"fmt"
	"os"

	"filelist-go/internal/database/migrations"
	"filelist-go/internal/flist"
)

// Store is the SQLite implementation of flist.Store: one scan's
// inventory in a single database file.
//
// Writes between Flush calls share one transaction, so the scanner's
// batched commits leave an interrupted scan structurally valid.
type Store struct {
	db   *sql.DB
	tx   *sql.Tx
	path string
}

// CreateStore opens a new store database at path and applies the
// schema. The caller is responsible for refusing to clobber an
// existing file before calling this.
func CreateStore(path string) (*Store, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db, migrations.StoreSet); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying store schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// OpenStore opens an existing store database and verifies its schema
// version, so export and merge refuse files this release cannot read.
func OpenStore(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat store file: %w", err)
	}
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.CheckStatus(db, migrations.StoreSet); err != nil {
		db.Close()
		return nil, fmt.Errorf("checking store schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path (or ":memory:").
func (s *Store) Path() string {
	return s.path
}

func (s *Store) begin() error {
	if s.tx != nil {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	s.tx = tx
	return nil
}

func (s *Store) PutInfo(info *flist.StoreInfo) error {
	_, err := s.db.Exec(
		`INSERT INTO db_info (created, host, scandir, title, finished,
			host_path_sep, do_all_paths, db_version, app_name, app_version)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		info.Created, info.Host, info.ScanDir, info.Title, info.Finished,
		info.PathSep, info.AllPaths, info.DBVersion, info.AppName, info.AppVersion)
	if err != nil {
		return fmt.Errorf("inserting db_info: %w", err)
	}
	return nil
}

func (s *Store) SetFinished(finished string) error {
	_, err := s.db.Exec("UPDATE db_info SET finished = ?", finished)
	if err != nil {
		return fmt.Errorf("updating db_info: %w", err)
	}
	return nil
}

func (s *Store) InsertDirectory(id int64, path string) error {
	if err := s.begin(); err != nil {
		return err
	}
	_, err := s.tx.Exec("INSERT INTO directories (id, dir_name) VALUES (?, ?)", id, path)
	if err != nil {
		return fmt.Errorf("inserting directory: %w", err)
	}
	return nil
}

func (s *Store) InsertFile(id int64, fi *flist.FileInfo, dirID int64) error {
	if err := s.begin(); err != nil {
		return err
	}
	_, err := s.tx.Exec(
		`INSERT INTO files (id, sha1, md5, file_name, file_size,
			last_modified, dir_level, dir_id, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, fi.SHA1, fi.MD5, fi.Name, fi.Size,
		fi.Modified, fi.DirLevel, dirID, fi.Err)
	if err != nil {
		return fmt.Errorf("inserting file: %w", err)
	}
	return nil
}

func (s *Store) Flush() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit()
	s.tx = nil
	if err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *Store) Info() (*flist.StoreInfo, error) {
	info := &flist.StoreInfo{}
	err := s.db.QueryRow(
		`SELECT created, host, scandir, title, finished,
			host_path_sep, do_all_paths, db_version, app_name, app_version
		 FROM db_info`).Scan(
		&info.Created, &info.Host, &info.ScanDir, &info.Title, &info.Finished,
		&info.PathSep, &info.AllPaths, &info.DBVersion, &info.AppName, &info.AppVersion)
	if err != nil {
		return nil, fmt.Errorf("reading db_info: %w", err)
	}
	return info, nil
}

func (s *Store) Directories() ([]*flist.Directory, error) {
	rows, err := s.db.Query("SELECT id, dir_name FROM directories ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("reading directories: %w", err)
	}
	defer rows.Close()

	var dirs []*flist.Directory
	for rows.Next() {
		d := &flist.Directory{}
		if err := rows.Scan(&d.ID, &d.Path); err != nil {
			return nil, fmt.Errorf("scanning directory row: %w", err)
		}
		dirs = append(dirs, d)
	}
	return dirs, rows.Err()
}

func (s *Store) Files() ([]*flist.FileRow, error) {
	rows, err := s.db.Query(
		`SELECT id, sha1, md5, file_name, file_size, last_modified,
			dir_level, dir_id, dir_name, error
		 FROM view_filelist
		 ORDER BY dir_name, file_name`)
	if err != nil {
		return nil, fmt.Errorf("reading files: %w", err)
	}
	defer rows.Close()

	var out []*flist.FileRow
	for rows.Next() {
		r := &flist.FileRow{}
		err := rows.Scan(&r.ID, &r.SHA1, &r.MD5, &r.Name, &r.Size,
			&r.Modified, &r.DirLevel, &r.DirID, &r.DirName, &r.Err)
		if err != nil {
			return nil, fmt.Errorf("scanning file row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close rolls back any uncommitted batch and closes the connection.
func (s *Store) Close() error {
	if s.tx != nil {
		s.tx.Rollback()
		s.tx = nil
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that Store implements flist.Store
var _ flist.Store = (*Store)(nil)
