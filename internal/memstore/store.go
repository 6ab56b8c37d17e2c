// Package memstore is an in-memory implementation of the service store.
// It mirrors the PostgreSQL repository's semantics (ownership checks,
// reference checks, unique usernames and emails) and is safe for concurrent
// use. Data is lost when the process exits.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/shopspring/decimal"
)

// Store keeps users, reference data and transactions in maps
type Store struct {
	mu           sync.RWMutex
	users        map[int64]models.User
	categories   []models.Category
	types        []models.Type
	transactions map[int64]models.Transaction
	nextUserID   int64
	nextTxID     int64
}

// New creates an empty store. Call SeedReferenceData before recording transactions.
func New() *Store {
	return &Store{
		users:        make(map[int64]models.User),
		transactions: make(map[int64]models.Transaction),
	}
}

// CreateUser stores the user and assigns its id
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return fmt.Errorf("%w: username %q", models.ErrDuplicateUser, user.Username)
		}
		if u.Email == user.Email {
			return fmt.Errorf("%w: email already registered", models.ErrDuplicateUser)
		}
	}
	s.nextUserID++
	user.ID = s.nextUserID
	s.users[user.ID] = *user
	return nil
}

// FindUserByUsername implements the service store
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user %w", models.ErrNotFound)
}

// FindUserByID implements the service store
func (s *Store) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %w", models.ErrNotFound)
	}
	return &u, nil
}

// ListUsers implements the service store
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// UpdatePassword implements the service store
func (s *Store) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %w", models.ErrNotFound)
	}
	u.PasswordHash = passwordHash
	s.users[userID] = u
	return nil
}

// SeedReferenceData adds any missing default category or type
func (s *Store) SeedReferenceData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range models.DefaultCategories {
		if s.categoryByName(name) == nil {
			s.categories = append(s.categories, models.Category{ID: int64(len(s.categories) + 1), Name: name})
		}
	}
	for _, name := range models.DefaultTypes {
		if s.typeByName(name) == nil {
			s.types = append(s.types, models.Type{ID: int64(len(s.types) + 1), Name: name})
		}
	}
	return nil
}

// ListCategories implements the service store
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Category(nil), s.categories...), nil
}

// ListTypes implements the service store
func (s *Store) ListTypes(ctx context.Context) ([]models.Type, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Type(nil), s.types...), nil
}

// CreateTransaction implements the service store
func (s *Store) CreateTransaction(ctx context.Context, t models.NewTransaction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkReferences(&t.CategoryID, &t.TypeID); err != nil {
		return 0, err
	}
	if _, ok := s.users[t.UserID]; !ok {
		return 0, fmt.Errorf("%w: user %d does not exist", models.ErrInvalidReference, t.UserID)
	}

	s.nextTxID++
	s.transactions[s.nextTxID] = models.Transaction{
		ID:          s.nextTxID,
		UserID:      t.UserID,
		Amount:      t.Amount,
		CategoryID:  t.CategoryID,
		TypeID:      t.TypeID,
		Description: t.Description,
		Date:        t.Date,
	}
	return s.nextTxID, nil
}

// GetTransaction implements the service store
func (s *Store) GetTransaction(ctx context.Context, id, userID int64) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return nil, fmt.Errorf("transaction %w", models.ErrNotFound)
	}
	s.resolveNames(&t)
	return &t, nil
}

// ListTransactions implements the service store
func (s *Store) ListTransactions(ctx context.Context, userID int64, f models.TransactionFilter) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listTransactions(userID, f), nil
}

func (s *Store) listTransactions(userID int64, f models.TransactionFilter) []models.Transaction {
	var list []models.Transaction
	for _, t := range s.transactions {
		if t.UserID != userID {
			continue
		}
		if f.From != nil && t.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && !t.Date.Before(*f.To) {
			continue
		}
		if f.CategoryID != nil && t.CategoryID != *f.CategoryID {
			continue
		}
		if f.TypeID != nil && t.TypeID != *f.TypeID {
			continue
		}
		s.resolveNames(&t)
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.Before(list[j].Date)
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// UpdateTransaction implements the service store
func (s *Store) UpdateTransaction(ctx context.Context, id, userID int64, u models.TransactionUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkReferences(u.CategoryID, u.TypeID); err != nil {
		return err
	}
	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return fmt.Errorf("transaction %w", models.ErrNotFound)
	}
	if u.Amount != nil {
		t.Amount = *u.Amount
	}
	if u.CategoryID != nil {
		t.CategoryID = *u.CategoryID
	}
	if u.TypeID != nil {
		t.TypeID = *u.TypeID
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Date != nil {
		t.Date = *u.Date
	}
	s.transactions[id] = t
	return nil
}

// DeleteTransaction implements the service store
func (s *Store) DeleteTransaction(ctx context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return fmt.Errorf("transaction %w", models.ErrNotFound)
	}
	delete(s.transactions, id)
	return nil
}

// CategorySums implements the service store
func (s *Store) CategorySums(ctx context.Context, userID int64, p models.Period) ([]models.CategorySum, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categorySums(userID, p), nil
}

// StatementRows implements the service store; both reads happen under one lock
func (s *Store) StatementRows(ctx context.Context, userID int64, p models.Period) ([]models.CategorySum, []models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var f models.TransactionFilter
	if !p.Start.IsZero() {
		f.From = &p.Start
	}
	if !p.End.IsZero() {
		f.To = &p.End
	}
	return s.categorySums(userID, p), s.listTransactions(userID, f), nil
}

func (s *Store) categorySums(userID int64, p models.Period) []models.CategorySum {
	type key struct{ category, typ string }
	totals := make(map[key]decimal.Decimal)
	for _, t := range s.transactions {
		if t.UserID != userID || !p.Contains(t.Date) {
			continue
		}
		s.resolveNames(&t)
		k := key{t.CategoryName, t.TypeName}
		totals[k] = totals[k].Add(t.Amount)
	}

	sums := make([]models.CategorySum, 0, len(totals))
	for k, amount := range totals {
		sums = append(sums, models.CategorySum{Category: k.category, Type: k.typ, Amount: amount})
	}
	sort.Slice(sums, func(i, j int) bool {
		if sums[i].Category != sums[j].Category {
			return sums[i].Category < sums[j].Category
		}
		return sums[i].Type < sums[j].Type
	})
	return sums
}

func (s *Store) checkReferences(categoryID, typeID *int64) error {
	if categoryID != nil && s.categoryByID(*categoryID) == nil {
		return fmt.Errorf("%w: category %d does not exist", models.ErrInvalidReference, *categoryID)
	}
	if typeID != nil && s.typeByID(*typeID) == nil {
		return fmt.Errorf("%w: type %d does not exist", models.ErrInvalidReference, *typeID)
	}
	return nil
}

func (s *Store) resolveNames(t *models.Transaction) {
	if c := s.categoryByID(t.CategoryID); c != nil {
		t.CategoryName = c.Name
	}
	if ty := s.typeByID(t.TypeID); ty != nil {
		t.TypeName = ty.Name
	}
}

func (s *Store) categoryByID(id int64) *models.Category {
	for i := range s.categories {
		if s.categories[i].ID == id {
			return &s.categories[i]
		}
	}
	return nil
}

func (s *Store) categoryByName(name string) *models.Category {
	for i := range s.categories {
		if s.categories[i].Name == name {
			return &s.categories[i]
		}
	}
	return nil
}

func (s *Store) typeByID(id int64) *models.Type {
	for i := range s.types {
		if s.types[i].ID == id {
			return &s.types[i]
		}
	}
	return nil
}

func (s *Store) typeByName(name string) *models.Type {
	for i := range s.types {
		if s.types[i].Name == name {
			return &s.types[i]
		}
	}
	return nil
}
