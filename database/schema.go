package database

import (
	"sync"

	"resto-backend/models"

	"gorm.io/gorm"
)

// SchemaBootstrap is a one-shot lazy table initializer. The categories table
// is created on first use rather than at startup, and concurrent first
// callers coalesce on a single in-flight attempt: whoever arrives first runs
// the create, everyone else blocks until it finishes and shares its result.
// A failed attempt clears the in-flight marker so a later call retries.
type SchemaBootstrap struct {
	create func(*gorm.DB) error

	mu       sync.Mutex
	ready    bool
	inflight *schemaAttempt
}

type schemaAttempt struct {
	done chan struct{}
	err  error
}

func NewSchemaBootstrap(create func(*gorm.DB) error) *SchemaBootstrap {
	return &SchemaBootstrap{create: create}
}

// Ensure guarantees the backing table exists. Safe for concurrent use.
func (s *SchemaBootstrap) Ensure(db *gorm.DB) error {
	s.mu.Lock()
	if s.ready {
		s.mu.Unlock()
		return nil
	}
	if s.inflight != nil {
		attempt := s.inflight
		s.mu.Unlock()
		<-attempt.done
		return attempt.err
	}
	attempt := &schemaAttempt{done: make(chan struct{})}
	s.inflight = attempt
	s.mu.Unlock()

	attempt.err = s.create(db)

	s.mu.Lock()
	if attempt.err == nil {
		s.ready = true
	}
	s.inflight = nil
	s.mu.Unlock()

	close(attempt.done)
	return attempt.err
}

// Reset forgets a completed initialization. Only used by tests.
func (s *SchemaBootstrap) Reset() {
	s.mu.Lock()
	s.ready = false
	s.mu.Unlock()
}

// CategorySchema guards the lazily created categories table. Handlers call
// CategorySchema.Ensure before any category read or write.
var CategorySchema = NewSchemaBootstrap(createCategoryTable)

func createCategoryTable(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{})
}
