package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// Config holds database configuration
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// New creates a new database connection
func New(cfg Config) (*DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)
	return open(dsn, cfg)
}

// NewFromURL creates a new database connection from a connection URL
func NewFromURL(url string) (*DB, error) {
	return open(url, Config{MaxConnections: 25, MaxIdleConns: 5, ConnMaxLifetime: 5 * time.Minute})
}

func open(dsn string, cfg Config) (*DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxConnections > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{sqlDB}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// isDuplicateKeyError checks if an error is a unique constraint violation
func isDuplicateKeyError(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// User represents a patient or admin account
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         *string
	GoogleID     *string
	Language     string
	Preferences  []byte // language_preferences JSONB
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Language represents a supported language row
type Language struct {
	Code       string
	Name       string
	NativeName string
	IsRTL      bool
	IsEnabled  bool
	CreatedAt  time.Time
}

// Doctor represents a bookable doctor profile
type Doctor struct {
	ID        string
	FullName  string
	Specialty string
	Bio       *string
	Languages []string
	IsActive  bool
	CreatedAt time.Time
}

// Appointment represents a booked slot with a doctor
type Appointment struct {
	ID              string
	UserID          string
	DoctorID        string
	ScheduledAt     time.Time
	DurationMinutes int
	Reason          *string
	Status          string // scheduled, cancelled, completed
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Report represents an uploaded medical report
type Report struct {
	ID                 string
	UserID             string
	Title              string
	OriginalFilename   string
	StoredName         string
	MimeType           string
	SizeBytes          int64
	Language           string
	ReportType         string // lab_result, imaging, prescription, discharge_summary, other
	Status             string // uploaded, simplified
	SimplifiedText     *string
	SimplifiedLanguage *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Conversation represents a chat thread
type Conversation struct {
	ID        string
	UserID    string
	Title     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message represents a chat message inside a conversation
type Message struct {
	ID             string
	ConversationID string
	UserID         string
	Role           string
	Content        string
	Language       string
	CreatedAt      time.Time
}
