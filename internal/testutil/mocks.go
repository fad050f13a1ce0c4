package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/websocket"
	"github.com/shopspring/decimal"
)

// MockRepositories wires the in-memory repositories together so that joins,
// foreign keys and the user delete cascade behave like the database.
type MockRepositories struct {
	Users           *MockUserRepository
	Categories      *MockCategoryRepository
	Movements       *MockMovementRepository
	PlannedExpenses *MockPlannedExpenseRepository
	ActivityLogs    *MockActivityLogRepository
}

// NewMockRepositories creates an empty set of linked repositories
func NewMockRepositories() *MockRepositories {
	r := &MockRepositories{
		Users:           NewMockUserRepository(),
		Categories:      NewMockCategoryRepository(),
		Movements:       NewMockMovementRepository(),
		PlannedExpenses: NewMockPlannedExpenseRepository(),
		ActivityLogs:    NewMockActivityLogRepository(),
	}
	r.Movements.categories = r.Categories
	r.Movements.activityLogs = r.ActivityLogs
	r.Categories.movements = r.Movements
	r.ActivityLogs.movements = r.Movements
	r.Users.cascade = r.deleteOwnedBy
	return r
}

func (r *MockRepositories) deleteOwnedBy(userID int32) {
	for id, m := range r.Movements.Movements {
		if m.UserID == userID {
			r.Movements.remove(id)
		}
	}
	for id, c := range r.Categories.Categories {
		if c.UserID == userID {
			delete(r.Categories.Categories, id)
		}
	}
	for id, p := range r.PlannedExpenses.PlannedExpenses {
		if p.UserID == userID {
			delete(r.PlannedExpenses.PlannedExpenses, id)
		}
	}
}

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users    map[int32]*domain.User
	NextID   int32
	CreateFn func(user *domain.User) (*domain.User, error)
	cascade  func(userID int32)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:  make(map[int32]*domain.User),
		NextID: 1,
	}
}

func (m *MockUserRepository) taken(excludeID int32, name, email string) bool {
	for _, u := range m.Users {
		if u.ID == excludeID {
			continue
		}
		if (name != "" && u.Name == name) || (email != "" && u.Email == email) {
			return true
		}
	}
	return false
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(user)
	}
	if m.taken(0, user.Name, user.Email) {
		return nil, domain.ErrUserAlreadyExists
	}
	created := *user
	created.ID = m.NextID
	created.CreatedAt = time.Now().UTC()
	created.UpdatedAt = created.CreatedAt
	m.NextID++
	m.Users[created.ID] = &created
	out := created
	return &out, nil
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	if u, ok := m.Users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.Users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// UpdateDetails changes the non-nil fields
func (m *MockUserRepository) UpdateDetails(ctx context.Context, id int32, name, email *string) (*domain.User, error) {
	u, ok := m.Users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	var n, e string
	if name != nil {
		n = *name
	}
	if email != nil {
		e = *email
	}
	if m.taken(id, n, e) {
		return nil, domain.ErrUserAlreadyExists
	}
	if name != nil {
		u.Name = *name
	}
	if email != nil {
		u.Email = *email
	}
	u.UpdatedAt = time.Now().UTC()
	out := *u
	return &out, nil
}

// UpdatePassword replaces the stored hash
func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int32, passwordHash string) error {
	u, ok := m.Users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

// Delete removes the user and everything they own
func (m *MockUserRepository) Delete(ctx context.Context, id int32) error {
	if _, ok := m.Users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.Users, id)
	if m.cascade != nil {
		m.cascade(id)
	}
	return nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	if user.ID >= m.NextID {
		m.NextID = user.ID + 1
	}
	m.Users[user.ID] = user
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[int32]*domain.Category
	NextID     int32
	movements  *MockMovementRepository
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int32]*domain.Category),
		NextID:     1,
	}
}

// Create creates a new category
func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	created := *category
	created.ID = m.NextID
	m.NextID++
	m.Categories[created.ID] = &created
	out := created
	return &out, nil
}

// GetByID retrieves a category owned by userID
func (m *MockCategoryRepository) GetByID(ctx context.Context, userID, id int32) (*domain.Category, error) {
	if c, ok := m.Categories[id]; ok && c.UserID == userID {
		out := *c
		return &out, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// List returns a page of the user's categories ordered by id
func (m *MockCategoryRepository) List(ctx context.Context, userID int32, filter domain.CategoryFilter) ([]*domain.Category, error) {
	var result []*domain.Category
	for _, c := range m.Categories {
		if c.UserID != userID {
			continue
		}
		if filter.Type != nil && c.Type != *filter.Type {
			continue
		}
		out := *c
		result = append(result, &out)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return paginate(result, filter.Page), nil
}

// Count returns the number of categories the user owns
func (m *MockCategoryRepository) Count(ctx context.Context, userID int32) (int64, error) {
	var n int64
	for _, c := range m.Categories {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

// Update updates an existing category
func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	existing, ok := m.Categories[category.ID]
	if !ok || existing.UserID != category.UserID {
		return nil, domain.ErrCategoryNotFound
	}
	updated := *category
	m.Categories[category.ID] = &updated
	out := updated
	return &out, nil
}

// Delete removes a category unless a movement references it
func (m *MockCategoryRepository) Delete(ctx context.Context, userID, id int32) error {
	c, ok := m.Categories[id]
	if !ok || c.UserID != userID {
		return domain.ErrCategoryNotFound
	}
	if m.movements != nil {
		for _, mv := range m.movements.Movements {
			if mv.CategoryID == id {
				return domain.ErrCategoryHasMovements
			}
		}
	}
	delete(m.Categories, id)
	return nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	if category.ID >= m.NextID {
		m.NextID = category.ID + 1
	}
	m.Categories[category.ID] = category
}

// MockMovementRepository is a mock implementation of domain.MovementRepository
type MockMovementRepository struct {
	Movements    map[int32]*domain.Movement
	NextID       int32
	ListFn       func(userID int32, filter domain.MovementFilter) ([]*domain.Movement, error)
	categories   *MockCategoryRepository
	activityLogs *MockActivityLogRepository
}

// NewMockMovementRepository creates a new MockMovementRepository
func NewMockMovementRepository() *MockMovementRepository {
	return &MockMovementRepository{
		Movements: make(map[int32]*domain.Movement),
		NextID:    1,
	}
}

func (m *MockMovementRepository) categoryExists(userID, categoryID int32) bool {
	if m.categories == nil {
		return true
	}
	c, ok := m.categories.Categories[categoryID]
	return ok && c.UserID == userID
}

func (m *MockMovementRepository) matches(mv *domain.Movement, userID int32, filter domain.MovementFilter) bool {
	if mv.UserID != userID {
		return false
	}
	if filter.From != nil && mv.MovementDate.Before(*filter.From) {
		return false
	}
	if filter.To != nil && !mv.MovementDate.Before(*filter.To) {
		return false
	}
	if filter.CategoryID != nil && mv.CategoryID != *filter.CategoryID {
		return false
	}
	if filter.CategoryType != nil {
		if m.categories == nil {
			return false
		}
		c, ok := m.categories.Categories[mv.CategoryID]
		if !ok || c.Type != *filter.CategoryType {
			return false
		}
	}
	return true
}

func (m *MockMovementRepository) remove(id int32) {
	delete(m.Movements, id)
	if m.activityLogs == nil {
		return
	}
	for logID, l := range m.activityLogs.ActivityLogs {
		if l.MovementID == id {
			delete(m.activityLogs.ActivityLogs, logID)
		}
	}
}

// Create creates a new movement
func (m *MockMovementRepository) Create(ctx context.Context, movement *domain.Movement) (*domain.Movement, error) {
	if !m.categoryExists(movement.UserID, movement.CategoryID) {
		return nil, domain.ErrCategoryNotFound
	}
	created := *movement
	created.ID = m.NextID
	m.NextID++
	m.Movements[created.ID] = &created
	out := created
	return &out, nil
}

// GetByID retrieves a movement owned by userID
func (m *MockMovementRepository) GetByID(ctx context.Context, userID, id int32) (*domain.Movement, error) {
	if mv, ok := m.Movements[id]; ok && mv.UserID == userID {
		out := *mv
		return &out, nil
	}
	return nil, domain.ErrMovementNotFound
}

// List returns the user's movements ordered by date then id
func (m *MockMovementRepository) List(ctx context.Context, userID int32, filter domain.MovementFilter) ([]*domain.Movement, error) {
	if m.ListFn != nil {
		return m.ListFn(userID, filter)
	}
	var result []*domain.Movement
	for _, mv := range m.Movements {
		if m.matches(mv, userID, filter) {
			out := *mv
			result = append(result, &out)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if filter.Sort == domain.SortAsc {
			a, b = b, a
		}
		if !a.MovementDate.Equal(b.MovementDate) {
			return a.MovementDate.After(b.MovementDate)
		}
		return a.ID > b.ID
	})
	if filter.Page != nil {
		result = paginate(result, *filter.Page)
	}
	return result, nil
}

// ListDetailed returns the user's movements since a date with their category and log, oldest first
func (m *MockMovementRepository) ListDetailed(ctx context.Context, userID int32, since time.Time) ([]*domain.MovementDetail, error) {
	movements, err := m.List(ctx, userID, domain.MovementFilter{From: &since, Sort: domain.SortAsc})
	if err != nil {
		return nil, err
	}
	result := make([]*domain.MovementDetail, 0, len(movements))
	for _, mv := range movements {
		detail := &domain.MovementDetail{Movement: *mv}
		if m.categories != nil {
			if c, ok := m.categories.Categories[mv.CategoryID]; ok {
				detail.CategoryType = c.Type
				detail.Counterparty = c.Counterparty
			}
		}
		if m.activityLogs != nil {
			for _, l := range m.activityLogs.ActivityLogs {
				if l.MovementID == mv.ID {
					description := l.Description
					detail.ActivityLog = &description
				}
			}
		}
		result = append(result, detail)
	}
	return result, nil
}

// Totals sums the values of matching movements
func (m *MockMovementRepository) Totals(ctx context.Context, userID int32, filter domain.MovementFilter) (*domain.MovementTotals, error) {
	totals := &domain.MovementTotals{Balance: decimal.Zero}
	for _, mv := range m.Movements {
		if m.matches(mv, userID, filter) {
			totals.Balance = totals.Balance.Add(mv.Value)
			totals.Count++
		}
	}
	return totals, nil
}

// CountByCategory counts the user's movements in a category
func (m *MockMovementRepository) CountByCategory(ctx context.Context, userID, categoryID int32) (int64, error) {
	var n int64
	for _, mv := range m.Movements {
		if mv.UserID == userID && mv.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

// Update updates an existing movement
func (m *MockMovementRepository) Update(ctx context.Context, movement *domain.Movement) (*domain.Movement, error) {
	existing, ok := m.Movements[movement.ID]
	if !ok || existing.UserID != movement.UserID {
		return nil, domain.ErrMovementNotFound
	}
	if !m.categoryExists(movement.UserID, movement.CategoryID) {
		return nil, domain.ErrCategoryNotFound
	}
	updated := *movement
	updated.ReceiptKey = existing.ReceiptKey
	m.Movements[movement.ID] = &updated
	out := updated
	return &out, nil
}

// SetReceiptKey sets or clears the receipt base key
func (m *MockMovementRepository) SetReceiptKey(ctx context.Context, userID, id int32, key *string) error {
	mv, ok := m.Movements[id]
	if !ok || mv.UserID != userID {
		return domain.ErrMovementNotFound
	}
	mv.ReceiptKey = key
	return nil
}

// Delete removes a movement and its activity log
func (m *MockMovementRepository) Delete(ctx context.Context, userID, id int32) error {
	mv, ok := m.Movements[id]
	if !ok || mv.UserID != userID {
		return domain.ErrMovementNotFound
	}
	m.remove(id)
	return nil
}

// AddMovement adds a movement to the mock repository (helper for tests)
func (m *MockMovementRepository) AddMovement(movement *domain.Movement) {
	if movement.ID >= m.NextID {
		m.NextID = movement.ID + 1
	}
	m.Movements[movement.ID] = movement
}

// MockPlannedExpenseRepository is a mock implementation of domain.PlannedExpenseRepository
type MockPlannedExpenseRepository struct {
	PlannedExpenses map[int32]*domain.PlannedExpense
	NextID          int32
}

// NewMockPlannedExpenseRepository creates a new MockPlannedExpenseRepository
func NewMockPlannedExpenseRepository() *MockPlannedExpenseRepository {
	return &MockPlannedExpenseRepository{
		PlannedExpenses: make(map[int32]*domain.PlannedExpense),
		NextID:          1,
	}
}

// Create creates a new planned expense
func (m *MockPlannedExpenseRepository) Create(ctx context.Context, expense *domain.PlannedExpense) (*domain.PlannedExpense, error) {
	created := *expense
	created.ID = m.NextID
	m.NextID++
	m.PlannedExpenses[created.ID] = &created
	out := created
	return &out, nil
}

// GetByID retrieves a planned expense owned by userID
func (m *MockPlannedExpenseRepository) GetByID(ctx context.Context, userID, id int32) (*domain.PlannedExpense, error) {
	if p, ok := m.PlannedExpenses[id]; ok && p.UserID == userID {
		out := *p
		return &out, nil
	}
	return nil, domain.ErrPlannedExpenseNotFound
}

// List returns a page of the user's planned expenses ordered by date then id
func (m *MockPlannedExpenseRepository) List(ctx context.Context, userID int32, page domain.Page) ([]*domain.PlannedExpense, error) {
	var result []*domain.PlannedExpense
	for _, p := range m.PlannedExpenses {
		if p.UserID == userID {
			out := *p
			result = append(result, &out)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].AproxDate.Equal(result[j].AproxDate) {
			return result[i].AproxDate.Before(result[j].AproxDate)
		}
		return result[i].ID < result[j].ID
	})
	return paginate(result, page), nil
}

// Update updates an existing planned expense
func (m *MockPlannedExpenseRepository) Update(ctx context.Context, expense *domain.PlannedExpense) (*domain.PlannedExpense, error) {
	existing, ok := m.PlannedExpenses[expense.ID]
	if !ok || existing.UserID != expense.UserID {
		return nil, domain.ErrPlannedExpenseNotFound
	}
	updated := *expense
	m.PlannedExpenses[expense.ID] = &updated
	out := updated
	return &out, nil
}

// Delete removes a planned expense
func (m *MockPlannedExpenseRepository) Delete(ctx context.Context, userID, id int32) error {
	p, ok := m.PlannedExpenses[id]
	if !ok || p.UserID != userID {
		return domain.ErrPlannedExpenseNotFound
	}
	delete(m.PlannedExpenses, id)
	return nil
}

// MockActivityLogRepository is a mock implementation of domain.ActivityLogRepository
type MockActivityLogRepository struct {
	ActivityLogs map[int32]*domain.ActivityLog
	NextID       int32
	movements    *MockMovementRepository
}

// NewMockActivityLogRepository creates a new MockActivityLogRepository
func NewMockActivityLogRepository() *MockActivityLogRepository {
	return &MockActivityLogRepository{
		ActivityLogs: make(map[int32]*domain.ActivityLog),
		NextID:       1,
	}
}

func (m *MockActivityLogRepository) ownedBy(l *domain.ActivityLog, userID int32) bool {
	if m.movements == nil {
		return true
	}
	mv, ok := m.movements.Movements[l.MovementID]
	return ok && mv.UserID == userID
}

// Create creates the activity log of a movement
func (m *MockActivityLogRepository) Create(ctx context.Context, log *domain.ActivityLog) (*domain.ActivityLog, error) {
	for _, l := range m.ActivityLogs {
		if l.MovementID == log.MovementID {
			return nil, domain.ErrActivityLogAlreadyExists
		}
	}
	created := *log
	created.ID = m.NextID
	m.NextID++
	m.ActivityLogs[created.ID] = &created
	out := created
	return &out, nil
}

// GetByID retrieves an activity log whose movement is owned by userID
func (m *MockActivityLogRepository) GetByID(ctx context.Context, userID, id int32) (*domain.ActivityLog, error) {
	if l, ok := m.ActivityLogs[id]; ok && m.ownedBy(l, userID) {
		out := *l
		return &out, nil
	}
	return nil, domain.ErrActivityLogNotFound
}

// List returns a page of the user's activity logs ordered by id
func (m *MockActivityLogRepository) List(ctx context.Context, userID int32, page domain.Page) ([]*domain.ActivityLog, error) {
	var result []*domain.ActivityLog
	for _, l := range m.ActivityLogs {
		if m.ownedBy(l, userID) {
			out := *l
			result = append(result, &out)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return paginate(result, page), nil
}

// Update replaces the description of an owned activity log
func (m *MockActivityLogRepository) Update(ctx context.Context, userID int32, log *domain.ActivityLog) (*domain.ActivityLog, error) {
	existing, ok := m.ActivityLogs[log.ID]
	if !ok || !m.ownedBy(existing, userID) {
		return nil, domain.ErrActivityLogNotFound
	}
	existing.Description = log.Description
	out := *existing
	return &out, nil
}

// Delete removes an owned activity log
func (m *MockActivityLogRepository) Delete(ctx context.Context, userID, id int32) error {
	l, ok := m.ActivityLogs[id]
	if !ok || !m.ownedBy(l, userID) {
		return domain.ErrActivityLogNotFound
	}
	delete(m.ActivityLogs, id)
	return nil
}

func paginate[T any](items []T, page domain.Page) []T {
	start := int(page.Skip)
	if start >= len(items) {
		return nil
	}
	end := len(items)
	if page.Limit > 0 && start+int(page.Limit) < end {
		end = start + int(page.Limit)
	}
	return items[start:end]
}

// MockTx records how a unit of work ended
type MockTx struct {
	Committed  bool
	RolledBack bool
	CommitErr  error
	hooks      *domain.AfterCommitHooks
}

// Commit marks the transaction committed and runs the after-commit hooks
func (t *MockTx) Commit(ctx context.Context) error {
	if t.CommitErr != nil {
		return t.CommitErr
	}
	t.Committed = true
	t.hooks.Run()
	return nil
}

// Rollback marks the transaction rolled back unless it already committed
func (t *MockTx) Rollback(ctx context.Context) error {
	if t.Committed {
		return nil
	}
	t.RolledBack = true
	return nil
}

// MockTxManager is a mock implementation of domain.TxManager
type MockTxManager struct {
	Txs     []*MockTx
	BeginFn func(ctx context.Context) error
}

// NewMockTxManager creates a new MockTxManager
func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

// Begin starts a recorded unit of work
func (m *MockTxManager) Begin(ctx context.Context) (context.Context, domain.Tx, error) {
	if m.BeginFn != nil {
		if err := m.BeginFn(ctx); err != nil {
			return nil, nil, err
		}
	}
	ctx, hooks := domain.WithAfterCommit(ctx)
	tx := &MockTx{hooks: hooks}
	m.Txs = append(m.Txs, tx)
	return ctx, tx, nil
}

// Last returns the most recent transaction
func (m *MockTxManager) Last() *MockTx {
	if len(m.Txs) == 0 {
		return nil
	}
	return m.Txs[len(m.Txs)-1]
}

// MockPasswordHasher hashes by prefixing, so tests stay fast
type MockPasswordHasher struct{}

// Hash returns a fake hash of plaintext
func (MockPasswordHasher) Hash(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}

// Verify reports whether hash is the fake hash of plaintext
func (MockPasswordHasher) Verify(plaintext, hash string) bool {
	return strings.HasPrefix(hash, "hashed:") && hash == "hashed:"+plaintext
}

// MockTokenIssuer issues "token-<subject>"
type MockTokenIssuer struct {
	TTL time.Duration
	Err error
}

// Issue returns a predictable token for subject
func (m *MockTokenIssuer) Issue(subject string) (string, time.Time, error) {
	if m.Err != nil {
		return "", time.Time{}, m.Err
	}
	ttl := m.TTL
	if ttl == 0 {
		ttl = 30 * time.Minute
	}
	return "token-" + subject, time.Now().Add(ttl), nil
}

// MockObjectStore is an in-memory domain.ObjectStore
type MockObjectStore struct {
	mu        sync.Mutex
	Objects   map[string][]byte
	UploadErr error
	Deleted   []string
}

// NewMockObjectStore creates a new MockObjectStore
func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{Objects: make(map[string][]byte)}
}

// Upload stores the object bytes
func (m *MockObjectStore) Upload(ctx context.Context, key string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = b
	return "mock://" + key, nil
}

// Delete removes the object
func (m *MockObjectStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	m.Deleted = append(m.Deleted, key)
	return nil
}

// PresignGet returns a fake signed URL
func (m *MockObjectStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Objects[key]; !ok {
		return "", errors.New("no such key")
	}
	return fmt.Sprintf("mock://%s?expires=%d", key, int(expiry.Seconds())), nil
}

// Keys returns the stored object keys
func (m *MockObjectStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.Objects))
	for k := range m.Objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MockGenerator is a canned text generator
type MockGenerator struct {
	Text    string
	Err     error
	Prompts []string
}

// Generate records the prompt and returns the canned text
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	return m.Text, m.Err
}

// PublishedEvent is one event seen by MockEventPublisher
type PublishedEvent struct {
	UserID int32
	Event  websocket.Event
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// Publish records the event
func (m *MockEventPublisher) Publish(userID int32, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{UserID: userID, Event: event})
}

// Types returns the type of every recorded event in order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.Events))
	for _, e := range m.Events {
		types = append(types, e.Event.Type)
	}
	return types
}
