// Package store persists client-side state that must outlive a single
// taskdeck invocation: the credential token and the task selection set.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// credentialID is the primary key of the single credential row.
const credentialID = 1

// Credential holds the bearer token for the task backend.
type Credential struct {
	ID        uint   `gorm:"primaryKey"`
	Token     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// Selection is one selected task id. The set of rows is the selection set.
type Selection struct {
	TaskID    string `gorm:"primaryKey;size:64"`
	CreatedAt time.Time
}

// Store wraps the local SQLite database.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the store at path and runs migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("store: create dir %s: %w", dir, err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Credential{}, &Selection{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Token returns the stored credential token. The second return value is
// false when no token is stored; absence is a valid state.
func (s *Store) Token() (string, bool) {
	var cred Credential
	if err := s.db.First(&cred, credentialID).Error; err != nil {
		return "", false
	}
	if cred.Token == "" {
		return "", false
	}
	return cred.Token, true
}

// SetToken stores (or replaces) the credential token.
func (s *Store) SetToken(token string) error {
	if token == "" {
		return fmt.Errorf("store: token must not be empty")
	}
	cred := Credential{ID: credentialID, Token: token}
	if err := s.db.Save(&cred).Error; err != nil {
		return fmt.Errorf("store: set token: %w", err)
	}
	return nil
}

// ClearToken removes the stored credential token. Clearing an absent token
// is not an error.
func (s *Store) ClearToken() error {
	if err := s.db.Delete(&Credential{}, credentialID).Error; err != nil {
		return fmt.Errorf("store: clear token: %w", err)
	}
	return nil
}

// SaveSelection replaces the selection set with the given task ids.
func (s *Store) SaveSelection(ids []string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&Selection{}).Error; err != nil {
			return err
		}
		for _, id := range ids {
			if id == "" {
				continue
			}
			if err := tx.Save(&Selection{TaskID: id}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: save selection: %w", err)
	}
	return nil
}

// AddToSelection adds task ids to the selection set. Already-selected ids
// are kept.
func (s *Store) AddToSelection(ids ...string) error {
	for _, id := range ids {
		if id == "" {
			continue
		}
		if err := s.db.Save(&Selection{TaskID: id}).Error; err != nil {
			return fmt.Errorf("store: add to selection: %w", err)
		}
	}
	return nil
}

// SelectedIDs returns the selection set in insertion order.
func (s *Store) SelectedIDs() ([]string, error) {
	var rows []Selection
	if err := s.db.Order("created_at, task_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("store: selected ids: %w", err)
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.TaskID)
	}
	return ids, nil
}

// ClearSelection empties the selection set.
func (s *Store) ClearSelection() error {
	if err := s.db.Where("1 = 1").Delete(&Selection{}).Error; err != nil {
		return fmt.Errorf("store: clear selection: %w", err)
	}
	return nil
}
