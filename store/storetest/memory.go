// Package storetest provides in-memory repositories for tests. They keep the
// uniqueness rules of the real tables and can be told to fail.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"internmatch/models"
	"internmatch/store"
)

type Users struct {
	mu     sync.Mutex
	rows   []models.User
	nextID int64

	FindErr   error
	InsertErr error
	// SkipFind makes FindBy report ErrNotFound unconditionally, the way a
	// concurrent registration slips past the pre-check.
	SkipFind bool
}

func NewUsers() *Users {
	return &Users{nextID: 1}
}

func (u *Users) FindBy(ctx context.Context, field store.UserField, value string) (*models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.FindErr != nil {
		return nil, u.FindErr
	}
	if u.SkipFind {
		return nil, store.ErrNotFound
	}
	for _, row := range u.rows {
		switch {
		case field == store.UserByEmail && row.Email == value,
			field == store.UserByUsername && row.Username == value:
			found := row
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (u *Users) Insert(ctx context.Context, user *models.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.InsertErr != nil {
		return u.InsertErr
	}
	for _, row := range u.rows {
		if row.Username == user.Username || row.Email == user.Email {
			return fmt.Errorf("insert user: %w", store.ErrAlreadyExists)
		}
	}
	user.ID = u.nextID
	u.nextID++
	u.rows = append(u.rows, *user)
	return nil
}

func (u *Users) Count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.rows)
}

func (u *Users) All() []models.User {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]models.User(nil), u.rows...)
}

type Opportunities struct {
	mu     sync.Mutex
	rows   []models.Opportunity
	nextID int64
	calls  int

	InsertErr error
	ListErr   error
}

func NewOpportunities() *Opportunities {
	return &Opportunities{nextID: 1}
}

func (o *Opportunities) Insert(ctx context.Context, opp *models.Opportunity) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++

	if o.InsertErr != nil {
		return o.InsertErr
	}
	opp.ID = o.nextID
	o.nextID++
	o.rows = append(o.rows, *opp)
	return nil
}

func (o *Opportunities) ListAll(ctx context.Context) ([]models.Opportunity, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++

	if o.ListErr != nil {
		return nil, o.ListErr
	}
	out := append([]models.Opportunity(nil), o.rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].PostedDate.After(out[j].PostedDate) })
	return out, nil
}

// Calls counts every Insert and ListAll, failed or not.
func (o *Opportunities) Calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

func (o *Opportunities) All() []models.Opportunity {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]models.Opportunity(nil), o.rows...)
}
