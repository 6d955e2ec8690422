package panel

import (
	"context"
	"fmt"
	"sync"

	"github.com/hanzi-archive/curator/internal/models"
)

// UsersAPI is the slice of the backend client the users panel needs.
type UsersAPI interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, username, password string, isAdmin bool) (*models.User, error)
	UpdateUserPassword(ctx context.Context, id, password string) error
	DeleteUser(ctx context.Context, id string) error
}

// SelfSource yields the username of the current session, used for the
// self-deletion guard.
type SelfSource interface {
	Username() string
}

// Users is the account management panel.
type Users struct {
	api     UsersAPI
	confirm Confirmer
	self    SelfSource

	mu    sync.RWMutex
	users []models.User
	gate  busyGate
}

func NewUsers(api UsersAPI, confirm Confirmer, self SelfSource) *Users {
	return &Users{api: api, confirm: confirm, self: self}
}

// FetchAll replaces the local collection on success and leaves it untouched
// on any failure.
func (p *Users) FetchAll(ctx context.Context) error {
	users, err := p.api.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch users: %w", err)
	}

	p.mu.Lock()
	p.users = users
	p.mu.Unlock()
	return nil
}

// Create validates required fields client-side before issuing the request,
// then appends the server's canonical row.
func (p *Users) Create(ctx context.Context, username, password string, isAdmin bool) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	if !p.gate.acquire() {
		return nil, ErrBusy
	}
	defer p.gate.release()

	user, err := p.api.CreateUser(ctx, username, password, isAdmin)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.users = append(p.users, *user)
	p.mu.Unlock()
	return user, nil
}

// UpdatePassword resets one account's password.
func (p *Users) UpdatePassword(ctx context.Context, id, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}

	if !p.gate.acquire() {
		return ErrBusy
	}
	defer p.gate.release()

	return p.api.UpdateUserPassword(ctx, id, password)
}

// Delete removes one account after confirmation. Deleting the identity that
// matches the current session's username is blocked client-side regardless
// of what the server would allow.
func (p *Users) Delete(ctx context.Context, id string) error {
	p.mu.RLock()
	var target *models.User
	for i := range p.users {
		if p.users[i].ID == id {
			target = &p.users[i]
			break
		}
	}
	self := p.self.Username()
	p.mu.RUnlock()

	if target != nil && self != "" && target.Username == self {
		return ErrSelfDelete
	}

	if !p.gate.acquire() {
		return ErrBusy
	}
	defer p.gate.release()

	if !p.confirm.Confirm(fmt.Sprintf("Delete user %s?", id)) {
		return ErrNotConfirmed
	}

	if err := p.api.DeleteUser(ctx, id); err != nil {
		return err
	}

	p.mu.Lock()
	kept := p.users[:0]
	for _, u := range p.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	p.users = kept
	p.mu.Unlock()
	return nil
}

// CanDelete reports whether the delete action is enabled for the given user.
func (p *Users) CanDelete(user models.User) bool {
	self := p.self.Username()
	return self == "" || user.Username != self
}

// Items returns a copy of the current collection.
func (p *Users) Items() []models.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.User, len(p.users))
	copy(out, p.users)
	return out
}

// Busy reports whether a mutation is in flight.
func (p *Users) Busy() bool { return p.gate.Busy() }
