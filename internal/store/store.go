package store

import (
	"gorm.io/gorm"
)

// Store exposes the named access functions the handlers depend on. Each
// method is one logical transaction scoped to its caller's request.
type Store struct {
	db *gorm.DB
}

// New creates a store backed by the given database handle
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying database handle
func (s *Store) DB() *gorm.DB {
	return s.db
}
