package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/internal/domain/enum"
	"github.com/sangkips/restobill-api/pkg/billdate"
	"github.com/shopspring/decimal"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func fixedDates(now time.Time) *billdate.Parser {
	return &billdate.Parser{Location: ist, Now: func() time.Time { return now }}
}

// --- settings ---

type memorySettings struct {
	settings *entity.AppSettings
	saves    int
}

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
	m.saves++
	return nil
}

func shopSettings() *entity.AppSettings {
	gst := "33ABCDE1234F1Z5"
	return &entity.AppSettings{
		ID:            entity.AppSettingsID,
		ShopName:      "Annapoorna",
		ShopAddress:   "12 Market Road",
		ShopGST:       &gst,
		Currency:      "₹",
		CGSTRate:      decPtr("2.5"),
		SGSTRate:      decPtr("2.5"),
		PrinterFormat: enum.PrinterFormat58mm,
		Locale:        "en-GB",
	}
}

// --- menu ---

type memoryMenu struct {
	items []entity.MenuItem
}

func (m *memoryMenu) List(ctx context.Context) ([]entity.MenuItem, error) {
	out := make([]entity.MenuItem, len(m.items))
	copy(out, m.items)
	return out, nil
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

func testMenu() *memoryMenu {
	return &memoryMenu{items: []entity.MenuItem{
		{ID: "1", Name: "Gobi Manchurian", Price: dec("100"), Category: "Starters", IsAvailable: true},
		{ID: "2", Name: "Egg Dosa", Price: dec("50"), Category: "Dosa", IsAvailable: true},
		{ID: "3", Name: "Chicken Biryani", Price: dec("100"), Category: "Biryani", IsAvailable: true},
		{ID: "4", Name: "Panner Butter Masala", Price: dec("120"), Category: "Veg Gravy", IsAvailable: true},
		{ID: "5", Name: "Veg Biryani", Price: dec("70"), Category: "Biryani", IsAvailable: false},
	}}
}

// --- users ---

type memoryUsers struct {
	users map[uuid.UUID]*entity.User
}

func newMemoryUsers(users ...*entity.User) *memoryUsers {
	m := &memoryUsers{users: make(map[uuid.UUID]*entity.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

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

func cashier() *entity.User {
	return &entity.User{ID: uuid.New(), Name: "Ravi", Username: "ravi", Role: enum.UserRoleCashier, Active: true}
}

// --- bills ---

type memoryBills struct {
	mu        sync.Mutex
	bills     []entity.Bill
	createErr []error // returned by successive Create calls before succeeding
	creates   int
}

func (m *memoryBills) Create(ctx context.Context, bill *entity.Bill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if len(m.createErr) > 0 {
		err := m.createErr[0]
		m.createErr = m.createErr[1:]
		return err
	}
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
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Bill
	for _, b := range m.bills {
		if !b.SyncedToCloud {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryBills) MarkSynced(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for i := range m.bills {
		if want[m.bills[i].ID] {
			m.bills[i].SyncedToCloud = true
		}
	}
	return nil
}

func storedBill(id, number, createdAt string, total string, items ...entity.BillItem) entity.Bill {
	return entity.Bill{
		ID:            id,
		BillNumber:    number,
		Items:         items,
		Subtotal:      dec(total),
		CGST:          decimal.Zero,
		SGST:          decimal.Zero,
		Total:         dec(total),
		CGSTRate:      decimal.Zero,
		SGSTRate:      decimal.Zero,
		CreatedByName: "Ravi",
		CreatedAt:     createdAt,
		BillDate:      createdAt,
		PaymentMethod: enum.PaymentMethodCash,
		OrderType:     enum.OrderTypeDineIn,
	}
}

// --- counter ---

type memoryCounter struct {
	mu      sync.Mutex
	counter entity.BillCounter
}

func newMemoryCounter(last string) *memoryCounter {
	return &memoryCounter{counter: entity.BillCounter{ID: entity.BillCounterID, LastNumber: last}}
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

func (m *memoryCounter) last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counter.LastNumber
}

// --- transactions ---

type passthroughTx struct {
	calls int
}

func (p *passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

// gatedTx holds every caller until all of them have arrived, then runs the
// transactions one at a time.
type gatedTx struct {
	arrived sync.WaitGroup
	mu      sync.Mutex
}

func newGatedTx(callers int) *gatedTx {
	g := &gatedTx{}
	g.arrived.Add(callers)
	return g
}

func (g *gatedTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	g.arrived.Done()
	g.arrived.Wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(ctx)
}

// --- collaborators ---

type recordingNotifier struct {
	mu    sync.Mutex
	bills []string
}

func (r *recordingNotifier) BillCreated(bill *entity.Bill) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bills = append(r.bills, bill.ID)
}

type recordingPrinter struct {
	jobs [][]byte
	err  error
}

func (p *recordingPrinter) Print(ctx context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, data)
	return nil
}

func (p *recordingPrinter) Close() error      { return nil }
func (p *recordingPrinter) IsConnected() bool { return p.err == nil }

type stubPDF struct {
	html  []byte
	width float64
}

func (s *stubPDF) Render(ctx context.Context, html []byte, widthInches float64) ([]byte, error) {
	s.html = html
	s.width = widthInches
	return []byte("%PDF-1.4"), nil
}

type stubUploader struct {
	name  string
	data  []byte
	err   error
	calls int
}

func (s *stubUploader) Upload(ctx context.Context, name string, data []byte) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	s.name = name
	s.data = data
	return "file-1", nil
}

func billIDs(bills []entity.Bill) []string {
	ids := make([]string, len(bills))
	for i, b := range bills {
		ids[i] = b.ID
	}
	return ids
}

func sortedNames(items []entity.MenuItem) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	sort.Strings(names)
	return names
}
