package routes

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

type memoryMenu struct{ items []entity.MenuItem }

func testMenu() []entity.MenuItem {
	return []entity.MenuItem{
		{ID: "1", Name: "Gobi Manchurian", Price: decimal.NewFromInt(100), Category: "Starters", IsAvailable: true},
		{ID: "2", Name: "Egg Dosa", Price: decimal.NewFromInt(50), Category: "Dosa", IsAvailable: true},
		{ID: "3", Name: "Chicken Biryani", Price: decimal.NewFromInt(100), Category: "Biryani", IsAvailable: true},
	}
}

func (m *memoryMenu) List(ctx context.Context) ([]entity.MenuItem, error) {
	return append([]entity.MenuItem(nil), m.items...), nil
}

func (m *memoryMenu) GetByID(ctx context.Context, id string) (*entity.MenuItem, error) {
	for _, item := range m.items {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memoryMenu) ReplaceAll(ctx context.Context, items []entity.MenuItem) error {
	m.items = append([]entity.MenuItem(nil), items...)
	return nil
}

type memorySettings struct{ settings *entity.AppSettings }

func (m *memorySettings) Get(ctx context.Context) (*entity.AppSettings, error) {
	if m.settings == nil {
		return nil, nil
	}
	copied := *m.settings
	return &copied, nil
}

func (m *memorySettings) Save(ctx context.Context, settings *entity.AppSettings) error {
	copied := *settings
	m.settings = &copied
	return nil
}

type memoryUsers struct{ users map[uuid.UUID]*entity.User }

func (m *memoryUsers) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return m.users[id], nil
}

func (m *memoryUsers) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memoryUsers) Create(ctx context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.users[user.ID] = user
	return nil
}

type memoryBills struct {
	mu    sync.Mutex
	bills []entity.Bill
}

func (m *memoryBills) Create(ctx context.Context, bill *entity.Bill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bills = append(m.bills, *bill)
	return nil
}

func (m *memoryBills) GetByID(ctx context.Context, id string) (*entity.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bills {
		if b.ID == id {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memoryBills) List(ctx context.Context) ([]entity.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.Bill(nil), m.bills...), nil
}

func (m *memoryBills) ListUnsynced(ctx context.Context) ([]entity.Bill, error) {
	return nil, nil
}

func (m *memoryBills) MarkSynced(ctx context.Context, ids []string) error {
	return nil
}

func (m *memoryBills) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bills)
}

type memoryCounter struct {
	mu      sync.Mutex
	counter entity.BillCounter
}

func (m *memoryCounter) Load(ctx context.Context) (*entity.BillCounter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := m.counter
	return &copied, nil
}

func (m *memoryCounter) Update(ctx context.Context, fn func(*entity.BillCounter) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	working := m.counter
	if err := fn(&working); err != nil {
		return err
	}
	m.counter = working
	return nil
}

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memoryIdempotency struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func (m *memoryIdempotency) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[userID.String()+key], nil
}

func (m *memoryIdempotency) Reserve(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.keys[ikey.UserID.String()+ikey.Key]; ok && !existing.IsExpired() {
		return false, nil
	}
	m.keys[ikey.UserID.String()+ikey.Key] = ikey
	return true, nil
}

func (m *memoryIdempotency) Complete(ctx context.Context, ikey *entity.IdempotencyKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[ikey.UserID.String()+ikey.Key] = ikey
	return nil
}

func (m *memoryIdempotency) Release(ctx context.Context, key string, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, userID.String()+key)
	return nil
}

func (m *memoryIdempotency) DeleteExpired(ctx context.Context) error {
	return nil
}

type stubPDF struct{}

func (stubPDF) Render(ctx context.Context, html []byte, widthInches float64) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}
