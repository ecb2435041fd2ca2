package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"travelbook/internal/models"

	"github.com/google/uuid"
)

// MemoryUserRepository is an in-memory implementation of UserRepository.
// Email uniqueness is checked under the write lock, so concurrent creates
// behave like a unique index.
type MemoryUserRepository struct {
	users   map[string]models.User
	byEmail map[string]string
	mu      sync.RWMutex
}

// NewMemoryUserRepository creates a new instance of MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

// Create adds a new user.
func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return fmt.Errorf("email %s already registered: %w", user.Email, ErrDuplicateKey)
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	user.MarkSaved()

	r.users[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

// GetByID returns a user by its ID.
func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s not found: %w", id, ErrNotFound)
	}
	return &user, nil
}

// GetByEmail returns a user by email.
func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("user with email %s not found: %w", email, ErrNotFound)
	}
	user := r.users[id]
	return &user, nil
}

// GetByResetTokenHash returns the user holding the reset token hash.
func (r *MemoryUserRepository) GetByResetTokenHash(_ context.Context, hash string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.ResetTokenHash != nil && *user.ResetTokenHash == hash {
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with reset token not found: %w", ErrNotFound)
}

// Update replaces the stored user, keeping the stored hash unless the password changed.
func (r *MemoryUserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return fmt.Errorf("user with ID %s not found for update: %w", user.ID, ErrNotFound)
	}
	if ownerID, taken := r.byEmail[user.Email]; taken && ownerID != user.ID {
		return fmt.Errorf("email %s already registered: %w", user.Email, ErrDuplicateKey)
	}

	updated := *user
	if !user.PasswordChanged() {
		updated.PasswordHash = stored.PasswordHash
	}
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now()
	updated.MarkSaved()

	delete(r.byEmail, stored.Email)
	r.byEmail[updated.Email] = updated.ID
	r.users[updated.ID] = updated

	user.UpdatedAt = updated.UpdatedAt
	user.MarkSaved()
	return nil
}

// Count returns the number of stored users.
func (r *MemoryUserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
