// Package backup copies the store to timestamped files, restores them and
// optionally ships each copy to off-site storage.
package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/goldbook/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	filePrefix   = "gold_jewelry_backup_"
	fileSuffix   = ".db"
	stampLayout  = "20060102_150405"
	attachedName = "restore_src"
)

var fileNamePattern = regexp.MustCompile(`^gold_jewelry_backup_\d{8}_\d{6}\.db$`)

// restoreTables lists every data table in parent-first order
var restoreTables = []string{
	"items",
	"suppliers",
	"freelancers",
	"gold_types",
	"settings",
	"ledger_entries",
	"karigar_orders",
	"karigar_order_items",
	"raini_orders",
}

// Uploader ships a finished backup file off-site
type Uploader interface {
	Upload(ctx context.Context, name string, body io.ReadSeeker, size int64) (string, error)
}

// Recorder counts backup attempts
type Recorder interface {
	RecordBackup(ctx context.Context, d time.Duration, err error)
}

// Info describes one backup file
type Info struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	// RemoteKey is set once the file has been uploaded
	RemoteKey   string `json:"remote_key,omitempty"`
	UploadError string `json:"upload_error,omitempty"`
}

// Service creates, lists and restores backups of one store
type Service struct {
	db       *gorm.DB
	dir      string
	uploader Uploader
	recorder Recorder
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithUploader ships every new backup through u
func WithUploader(u Uploader) Option {
	return func(s *Service) {
		s.uploader = u
	}
}

// WithRecorder reports every backup attempt to r
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithClock replaces the clock used for file names
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a backup service writing into dir
func NewService(db *gorm.DB, dir string, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{db: db, dir: dir, now: time.Now, logger: log.Named("backup")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FileName returns the backup file name for a moment
func FileName(at time.Time) string {
	return filePrefix + at.Format(stampLayout) + fileSuffix
}

// Create writes a consistent copy of the store into the backup directory.
// A failed upload is reported in the result; the local copy is kept.
func (s *Service) Create(ctx context.Context) (*Info, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "backup", "create")
	defer span.End()

	started := time.Now()
	info, err := s.create(ctx)
	if s.recorder != nil {
		s.recorder.RecordBackup(ctx, time.Since(started), err)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String(telemetry.SpanAttrBackupName, info.Name))
	return info, nil
}

func (s *Service) create(ctx context.Context) (*Info, error) {
	opID := uuid.NewString()
	log := s.logger.With(zap.String("backup_id", opID))

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := FileName(s.now())
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err == nil {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, fmt.Sprintf("Backup %s already exists", name))
	}

	if err := s.db.WithContext(ctx).Exec("VACUUM INTO ?", path).Error; err != nil {
		return nil, fmt.Errorf("failed to write backup: %w", err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup: %w", err)
	}
	info := &Info{Name: name, Path: path, Size: fi.Size(), CreatedAt: fi.ModTime()}
	log.Info("backup created", zap.String("path", path), zap.Int64("size", info.Size))

	if s.uploader != nil {
		key, err := s.upload(ctx, path, info.Size, name)
		if err != nil {
			info.UploadError = err.Error()
			log.Warn("backup upload failed", zap.String("name", name), zap.Error(err))
		} else {
			info.RemoteKey = key
		}
	}
	return info, nil
}

func (s *Service) upload(ctx context.Context, path string, size int64, name string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return s.uploader.Upload(ctx, name, f, size)
}

// List returns the backup files, newest first
func (s *Service) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	out := make([]Info, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !fileNamePattern.MatchString(e.Name()) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Info{
			Name:      e.Name(),
			Path:      filepath.Join(s.dir, e.Name()),
			Size:      fi.Size(),
			CreatedAt: fi.ModTime(),
		})
	}
	// names carry the timestamp, so they sort chronologically
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

// Restore replaces every table's rows with those of the named backup in one
// transaction. The backup must carry the same schema version as the store.
func (s *Service) Restore(ctx context.Context, name string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "backup", "restore",
		attribute.String(telemetry.SpanAttrBackupName, name))
	defer span.End()

	if err := s.restore(ctx, name); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	return nil
}

func (s *Service) restore(ctx context.Context, name string) error {
	if !fileNamePattern.MatchString(name) {
		return shared.InvalidInput("Not a backup file name: " + name)
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return shared.NotFound("Backup " + name + " not found")
		}
		return err
	}

	db := s.db.WithContext(ctx)
	if err := db.Exec("ATTACH DATABASE ? AS "+attachedName, path).Error; err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer func() {
		if err := s.db.Exec("DETACH DATABASE " + attachedName).Error; err != nil {
			s.logger.Warn("failed to detach backup", zap.Error(err))
		}
	}()

	if err := s.checkSchemaVersion(db); err != nil {
		return err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("PRAGMA defer_foreign_keys = ON").Error; err != nil {
			return err
		}
		for i := len(restoreTables) - 1; i >= 0; i-- {
			if err := tx.Exec("DELETE FROM main." + restoreTables[i]).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", restoreTables[i], err)
			}
		}
		for _, table := range restoreTables {
			stmt := fmt.Sprintf("INSERT INTO main.%s SELECT * FROM %s.%s", table, attachedName, table)
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to restore %s: %w", table, err)
			}
		}
		if err := tx.Exec("DELETE FROM main.sqlite_sequence").Error; err != nil {
			return err
		}
		return tx.Exec("INSERT INTO main.sqlite_sequence SELECT * FROM " + attachedName + ".sqlite_sequence").Error
	})
	if err != nil {
		return err
	}

	s.logger.Info("backup restored", zap.String("name", name))
	return nil
}

func (s *Service) checkSchemaVersion(db *gorm.DB) error {
	var live, saved int64
	if err := db.Raw("SELECT COALESCE(MAX(version), 0) FROM main.schema_migrations").Scan(&live).Error; err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if err := db.Raw("SELECT COALESCE(MAX(version), 0) FROM " + attachedName + ".schema_migrations").Scan(&saved).Error; err != nil {
		return shared.InvalidInput("Backup has no schema version")
	}
	if live != saved {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Backup schema version %d does not match store version %d", saved, live))
	}
	return nil
}
