// Package sqldoc stores documents as JSON rows in SQL tables through gorm.
// Each database/collection pair maps to one table named
// <database>_<collection>.
package sqldoc

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"time"

	"github.com/spf13/cast"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hejijunhao/sieve/internal/model"
	"github.com/hejijunhao/sieve/internal/store"
)

const insertBatchSize = 500

func init() {
	open := func(ctx context.Context, uri string) (store.Store, error) {
		return Open(ctx, uri)
	}
	store.Register("sqlite", open)
	store.Register("postgres", open)
	store.Register("postgresql", open)
}

var identifier = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

type row struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Body      string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

// Store is a gorm-backed document store.
type Store struct {
	db *gorm.DB
}

// Open connects to a sqlite:// or postgres:// URI. For sqlite the part
// after the scheme is the database file path.
func Open(ctx context.Context, uri string) (*Store, error) {
	scheme, err := store.Scheme(uri)
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch scheme {
	case "sqlite":
		dialector = sqlite.Open(uri[len("sqlite://"):])
	case "postgres", "postgresql":
		dialector = postgres.Open(uri)
	default:
		return nil, fmt.Errorf("sqldoc: unsupported scheme %q", scheme)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqldoc: open: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqldoc: open: %w", err)
	}
	if scheme == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("sqldoc: ping: %w", err)
	}
	return &Store{db: db}, nil
}

// TableName returns the table backing database/collection.
func TableName(database, collection string) (string, error) {
	if !identifier.MatchString(database) || !identifier.MatchString(collection) {
		return "", fmt.Errorf("sqldoc: invalid database or collection name %q/%q", database, collection)
	}
	return database + "_" + collection, nil
}

func (s *Store) table(ctx context.Context, database, collection string) (*gorm.DB, error) {
	name, err := TableName(database, collection)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Table(name).AutoMigrate(&row{}); err != nil {
		return nil, fmt.Errorf("sqldoc: migrate %s: %w", name, err)
	}
	return s.db.WithContext(ctx).Table(name), nil
}

// Load returns documents in insertion order. Query fields are matched by
// equality on top-level keys.
func (s *Store) Load(ctx context.Context, database, collection string, query model.Document, limit int) ([]model.Document, error) {
	tx, err := s.table(ctx, database, collection)
	if err != nil {
		return nil, err
	}
	tx = tx.Order("id")
	if limit > 0 && len(query) == 0 {
		tx = tx.Limit(limit)
	}

	var rows []row
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("sqldoc: find: %w", err)
	}

	docs := make([]model.Document, 0, len(rows))
	for _, r := range rows {
		var doc model.Document
		if err := json.Unmarshal([]byte(r.Body), &doc); err != nil {
			return nil, fmt.Errorf("sqldoc: decode row %d: %w", r.ID, err)
		}
		if !matches(doc, query) {
			continue
		}
		docs = append(docs, doc)
		if limit > 0 && len(docs) == limit {
			break
		}
	}
	return docs, nil
}

// Save inserts docs as new rows.
func (s *Store) Save(ctx context.Context, database, collection string, docs []model.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	rows := make([]row, len(docs))
	for i, d := range docs {
		body, err := json.Marshal(d)
		if err != nil {
			return 0, fmt.Errorf("sqldoc: encode document %d: %w", i, err)
		}
		rows[i] = row{Body: string(body)}
	}

	tx, err := s.table(ctx, database, collection)
	if err != nil {
		return 0, err
	}
	if err := tx.CreateInBatches(&rows, insertBatchSize).Error; err != nil {
		return 0, fmt.Errorf("sqldoc: insert: %w", err)
	}
	return len(rows), nil
}

// Close releases the connection pool.
func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func matches(doc, query model.Document) bool {
	for k, want := range query {
		got, ok := doc[k]
		if !ok || !equal(got, want) {
			return false
		}
	}
	return true
}

// equal compares a JSON-decoded value with a query value. JSON numbers
// decode as float64, so numeric query values are compared numerically.
func equal(got, want any) bool {
	if g, ok := got.(float64); ok {
		switch want.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			return g == cast.ToFloat64(want)
		}
		return false
	}
	return reflect.DeepEqual(got, want)
}
