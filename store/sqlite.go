package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// node is one path→JSON row in the backing table
type node struct {
	Path  string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

func (node) TableName() string { return "nodes" }

// SQLStore persists the tree in a sqlite database via gorm
type SQLStore struct {
	db *gorm.DB
}

// Open connects to the sqlite file (":memory:" works for tests) and
// migrates the node table.
func Open(dbPath string) (*SQLStore, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.AutoMigrate(&node{}); err != nil {
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Get(ctx context.Context, path string) (*Snapshot, error) {
	var nodes []node
	err := s.db.WithContext(ctx).
		Where("path = ? OR path LIKE ?", path, path+"/%").
		Order("path").
		Find(&nodes).Error
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", path, err)
	}
	rows := make([]row, len(nodes))
	for i, n := range nodes {
		rows[i] = row{path: n.Path, value: json.RawMessage(n.Value)}
	}
	return buildSnapshot(lastSegment(path), path, rows), nil
}

func (s *SQLStore) Set(ctx context.Context, path string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("set %q: %w", path, err)
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&node{Path: path, Value: string(data)}).Error
	if err != nil {
		return fmt.Errorf("set %q: %w", path, err)
	}
	return nil
}

func (s *SQLStore) Push(ctx context.Context, path string, value any) (string, error) {
	key := uuid.NewString()
	if err := s.Set(ctx, path+"/"+key, value); err != nil {
		return "", err
	}
	return key, nil
}

func (s *SQLStore) QueryByField(ctx context.Context, path, field string, equals any) (*Snapshot, error) {
	snap, err := s.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return filterByField(snap, field, equals), nil
}
