package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"reveil/pkg/models"
)

// FileStore persists the alarm set as a single JSON document with a sibling
// backup file. It is a durable mirror of the in-memory set, not a second
// source of truth: loading never fails, the worst outcome is an empty set.
type FileStore struct {
	path   string
	backup string
	log    zerolog.Logger
}

// document is the on-disk layout. Alarms stay raw on the way in so that one
// corrupt record can be skipped without discarding the rest.
type document struct {
	Alarms    []json.RawMessage `json:"alarms"`
	LastSaved string            `json:"last_saved"`
}

// NewFileStore creates a store writing to path, with backups at path+".bak".
func NewFileStore(path string, log zerolog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		backup: path + ".bak",
		log:    log.With().Str("component", "store").Logger(),
	}
}

// Path returns the primary file location.
func (s *FileStore) Path() string {
	return s.path
}

// Save writes the full alarm set. The existing primary file is copied to the
// backup location first (best effort), then the new document is written to a
// temporary file and renamed over the primary so a failed write cannot leave
// a half-written primary behind.
func (s *FileStore) Save(alarms []*models.Alarm) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	if _, err := os.Stat(s.path); err == nil {
		if err := copyFile(s.path, s.backup); err != nil {
			s.log.Warn().Err(err).Msg("could not refresh backup file")
		}
	}

	if err := s.writePrimary(alarms); err != nil {
		return fmt.Errorf("save alarms: %w", err)
	}
	return nil
}

// Load reads the persisted alarm set. A missing file yields an empty set. A
// zero-byte primary with a backup present, a parse failure, or a structural
// failure all fall back to the backup. Individual corrupt records are skipped
// with a warning.
func (s *FileStore) Load() []*models.Alarm {
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("cannot stat alarm file, trying backup")
		return s.RestoreFromBackup()
	}

	if info.Size() == 0 {
		if _, err := os.Stat(s.backup); err == nil {
			s.log.Warn().Str("path", s.path).Msg("alarm file is empty, restoring from backup")
			return s.RestoreFromBackup()
		}
		return nil
	}

	records, err := readRecords(s.path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("alarm file unreadable, trying backup")
		return s.RestoreFromBackup()
	}
	return s.decodeRecords(records)
}

// RestoreFromBackup loads the backup file and, on success, writes its content
// back over the primary. A missing or corrupt backup yields an empty set;
// this is the terminal fallback.
func (s *FileStore) RestoreFromBackup() []*models.Alarm {
	records, err := readRecords(s.backup)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Info().Msg("no backup file to restore from")
		} else {
			s.log.Warn().Err(err).Str("path", s.backup).Msg("backup unreadable, starting empty")
		}
		return nil
	}

	alarms := s.decodeRecords(records)
	s.log.Info().Int("alarms", len(alarms)).Msg("restored alarms from backup")

	if err := s.writePrimary(alarms); err != nil {
		s.log.Warn().Err(err).Msg("could not rewrite primary after restore")
	}
	return alarms
}

// writePrimary encodes the document and renames it over the primary file. It
// never touches the backup, so a restore cannot clobber the only good copy.
func (s *FileStore) writePrimary(alarms []*models.Alarm) error {
	if alarms == nil {
		alarms = []*models.Alarm{}
	}
	doc := struct {
		Alarms    []*models.Alarm `json:"alarms"`
		LastSaved string          `json:"last_saved"`
	}{
		Alarms:    alarms,
		LastSaved: time.Now().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func (s *FileStore) decodeRecords(records []json.RawMessage) []*models.Alarm {
	alarms := make([]*models.Alarm, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, raw := range records {
		var a models.Alarm
		if err := json.Unmarshal(raw, &a); err != nil {
			s.log.Warn().Err(err).Int("record", i).Msg("skipping corrupt alarm record")
			continue
		}
		if seen[a.ID] {
			s.log.Warn().Str("alarm_id", a.ID).Msg("skipping duplicate alarm record")
			continue
		}
		seen[a.ID] = true
		alarms = append(alarms, &a)
	}
	return alarms
}

func readRecords(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return doc.Alarms, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
