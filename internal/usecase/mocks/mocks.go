package mocks

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fexhq/fex/internal/domain"
	"github.com/fexhq/fex/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc           func(ctx context.Context, account *domain.Account) error
	CreateTxFunc         func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Account, error)
	GetByUserIDFunc      func(ctx context.Context, userID string) (*domain.Account, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	UpdateBalanceFunc    func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdateStatusFunc     func(ctx context.Context, id string, status domain.AccountStatus, updatedAt time.Time) error
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, account)
	}
	return m.Create(ctx, account)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.UserID == userID {
			return acc, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.Balance = balance
		acc.Version++
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) UpdateStatus(ctx context.Context, id string, status domain.AccountStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.Status = status
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// MockHoldingRepository is a mock implementation of HoldingRepository.
type MockHoldingRepository struct {
	mu       sync.RWMutex
	holdings map[string]*domain.Holding

	GetFunc           func(ctx context.Context, accountID, symbol string) (*domain.Holding, error)
	GetForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, accountID, symbol string) (*domain.Holding, error)
	UpsertFunc        func(ctx context.Context, tx usecase.Transaction, accountID, symbol string, quantity decimal.Decimal, updatedAt time.Time) error
	ListByAccountFunc func(ctx context.Context, accountID string) ([]*domain.Holding, error)
}

func NewMockHoldingRepository() *MockHoldingRepository {
	return &MockHoldingRepository{
		holdings: make(map[string]*domain.Holding),
	}
}

func holdingKey(accountID, symbol string) string {
	return accountID + "/" + symbol
}

func (m *MockHoldingRepository) Seed(h *domain.Holding) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holdings[holdingKey(h.AccountID, h.Symbol)] = h
}

func (m *MockHoldingRepository) Get(ctx context.Context, accountID, symbol string) (*domain.Holding, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, accountID, symbol)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if h, ok := m.holdings[holdingKey(accountID, symbol)]; ok {
		return h, nil
	}
	return nil, domain.ErrHoldingNotFound
}

func (m *MockHoldingRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, accountID, symbol string) (*domain.Holding, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx, accountID, symbol)
	}
	return m.Get(ctx, accountID, symbol)
}

func (m *MockHoldingRepository) Upsert(ctx context.Context, tx usecase.Transaction, accountID, symbol string, quantity decimal.Decimal, updatedAt time.Time) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, accountID, symbol, quantity, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := holdingKey(accountID, symbol)
	if h, ok := m.holdings[key]; ok {
		h.Quantity = quantity
		h.UpdatedAt = updatedAt
		return nil
	}
	m.holdings[key] = &domain.Holding{
		AccountID: accountID,
		Symbol:    symbol,
		Quantity:  quantity,
		UpdatedAt: updatedAt,
	}
	return nil
}

func (m *MockHoldingRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Holding, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var holdings []*domain.Holding
	for _, h := range m.holdings {
		if h.AccountID == accountID {
			holdings = append(holdings, h)
		}
	}
	return holdings, nil
}

// MockRateRepository is a mock implementation of RateRepository.
type MockRateRepository struct {
	mu     sync.RWMutex
	rates  map[string]*domain.CryptoRate
	brands map[string]*domain.GiftCardBrand

	GetCryptoRateFunc    func(ctx context.Context, symbol string) (*domain.CryptoRate, error)
	ListCryptoRatesFunc  func(ctx context.Context, activeOnly bool) ([]*domain.CryptoRate, error)
	UpsertCryptoRateFunc func(ctx context.Context, tx usecase.Transaction, rate *domain.CryptoRate) error
	GetBrandFunc         func(ctx context.Context, code string) (*domain.GiftCardBrand, error)
	ListBrandsFunc       func(ctx context.Context, activeOnly bool) ([]*domain.GiftCardBrand, error)
	UpdateBrandRateFunc  func(ctx context.Context, tx usecase.Transaction, code string, percent decimal.Decimal, updatedAt time.Time) error
}

func NewMockRateRepository() *MockRateRepository {
	return &MockRateRepository{
		rates:  make(map[string]*domain.CryptoRate),
		brands: make(map[string]*domain.GiftCardBrand),
	}
}

func (m *MockRateRepository) SeedRate(r *domain.CryptoRate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates[r.Symbol] = r
}

func (m *MockRateRepository) SeedBrand(b *domain.GiftCardBrand) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.brands[b.Code] = b
}

func (m *MockRateRepository) GetCryptoRate(ctx context.Context, symbol string) (*domain.CryptoRate, error) {
	if m.GetCryptoRateFunc != nil {
		return m.GetCryptoRateFunc(ctx, symbol)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.rates[symbol]; ok {
		return r, nil
	}
	return nil, domain.ErrRateUnavailable
}

func (m *MockRateRepository) ListCryptoRates(ctx context.Context, activeOnly bool) ([]*domain.CryptoRate, error) {
	if m.ListCryptoRatesFunc != nil {
		return m.ListCryptoRatesFunc(ctx, activeOnly)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rates []*domain.CryptoRate
	for _, r := range m.rates {
		if activeOnly && !r.Active {
			continue
		}
		rates = append(rates, r)
	}
	return rates, nil
}

func (m *MockRateRepository) UpsertCryptoRate(ctx context.Context, tx usecase.Transaction, rate *domain.CryptoRate) error {
	if m.UpsertCryptoRateFunc != nil {
		return m.UpsertCryptoRateFunc(ctx, tx, rate)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates[rate.Symbol] = rate
	return nil
}

func (m *MockRateRepository) GetBrand(ctx context.Context, code string) (*domain.GiftCardBrand, error) {
	if m.GetBrandFunc != nil {
		return m.GetBrandFunc(ctx, code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.brands[code]; ok {
		return b, nil
	}
	return nil, domain.ErrBrandNotSupported
}

func (m *MockRateRepository) ListBrands(ctx context.Context, activeOnly bool) ([]*domain.GiftCardBrand, error) {
	if m.ListBrandsFunc != nil {
		return m.ListBrandsFunc(ctx, activeOnly)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var brands []*domain.GiftCardBrand
	for _, b := range m.brands {
		if activeOnly && !b.Active {
			continue
		}
		brands = append(brands, b)
	}
	return brands, nil
}

func (m *MockRateRepository) UpdateBrandRate(ctx context.Context, tx usecase.Transaction, code string, percent decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBrandRateFunc != nil {
		return m.UpdateBrandRateFunc(ctx, tx, code, percent, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.brands[code]; ok {
		b.ExchangeRate = percent
		b.UpdatedAt = updatedAt
	}
	return nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu   sync.RWMutex
	txns map[string]*domain.Transaction

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	MarkCompletedFunc  func(ctx context.Context, tx usecase.Transaction, id string, completedAt time.Time) error
	GetByIDFunc        func(ctx context.Context, id string) (*domain.Transaction, error)
	ListByAccountFunc  func(ctx context.Context, accountID string, kind domain.TransactionKind, limit, offset int) ([]*domain.Transaction, error)
	CountByAccountFunc func(ctx context.Context, accountID string, kind domain.TransactionKind) (int64, error)
	StatsFunc          func(ctx context.Context, since time.Time) (*usecase.TransactionStats, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		txns: make(map[string]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) MarkCompleted(ctx context.Context, tx usecase.Transaction, id string, completedAt time.Time) error {
	if m.MarkCompletedFunc != nil {
		return m.MarkCompletedFunc(ctx, tx, id, completedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if txn, ok := m.txns[id]; ok {
		txn.Status = domain.TransactionStatusCompleted
		txn.CompletedAt = &completedAt
	}
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.txns[id]; ok {
		return txn, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, accountID string, kind domain.TransactionKind, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, kind, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, txn := range m.txns {
		if txn.AccountID != accountID {
			continue
		}
		if kind != "" && txn.Kind != kind {
			continue
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func (m *MockTransactionRepository) CountByAccount(ctx context.Context, accountID string, kind domain.TransactionKind) (int64, error) {
	if m.CountByAccountFunc != nil {
		return m.CountByAccountFunc(ctx, accountID, kind)
	}
	txns, _ := m.ListByAccount(ctx, accountID, kind, 0, 0)
	return int64(len(txns)), nil
}

func (m *MockTransactionRepository) Stats(ctx context.Context, since time.Time) (*usecase.TransactionStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, since)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := &usecase.TransactionStats{Volume: decimal.Zero, FeeRevenue: decimal.Zero}
	for _, txn := range m.txns {
		if txn.Status != domain.TransactionStatusCompleted || txn.CreatedAt.Before(since) {
			continue
		}
		stats.Count++
		stats.Volume = stats.Volume.Add(txn.USDAmount)
		stats.FeeRevenue = stats.FeeRevenue.Add(txn.Fee)
	}
	return stats, nil
}

// MockSubmissionRepository is a mock implementation of SubmissionRepository.
type MockSubmissionRepository struct {
	mu          sync.RWMutex
	submissions map[string]*domain.GiftCardSubmission

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, submission *domain.GiftCardSubmission) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.GiftCardSubmission, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.GiftCardSubmission, error)
	UpdateReviewFunc     func(ctx context.Context, tx usecase.Transaction, submission *domain.GiftCardSubmission) error
	ListByAccountFunc    func(ctx context.Context, accountID string, limit, offset int) ([]*domain.GiftCardSubmission, error)
	ListPendingFunc      func(ctx context.Context, limit, offset int) ([]*domain.GiftCardSubmission, error)
	CountPendingFunc     func(ctx context.Context) (int64, error)
}

func NewMockSubmissionRepository() *MockSubmissionRepository {
	return &MockSubmissionRepository{
		submissions: make(map[string]*domain.GiftCardSubmission),
	}
}

func (m *MockSubmissionRepository) Seed(s *domain.GiftCardSubmission) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions[s.ID] = s
}

func (m *MockSubmissionRepository) Create(ctx context.Context, tx usecase.Transaction, submission *domain.GiftCardSubmission) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, submission)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions[submission.ID] = submission
	return nil
}

func (m *MockSubmissionRepository) GetByID(ctx context.Context, id string) (*domain.GiftCardSubmission, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.submissions[id]; ok {
		return s, nil
	}
	return nil, domain.ErrSubmissionNotFound
}

func (m *MockSubmissionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.GiftCardSubmission, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockSubmissionRepository) UpdateReview(ctx context.Context, tx usecase.Transaction, submission *domain.GiftCardSubmission) error {
	if m.UpdateReviewFunc != nil {
		return m.UpdateReviewFunc(ctx, tx, submission)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions[submission.ID] = submission
	return nil
}

func (m *MockSubmissionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.GiftCardSubmission, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var subs []*domain.GiftCardSubmission
	for _, s := range m.submissions {
		if s.AccountID == accountID {
			subs = append(subs, s)
		}
	}
	return subs, nil
}

func (m *MockSubmissionRepository) ListPending(ctx context.Context, limit, offset int) ([]*domain.GiftCardSubmission, error) {
	if m.ListPendingFunc != nil {
		return m.ListPendingFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var subs []*domain.GiftCardSubmission
	for _, s := range m.submissions {
		if s.Status == domain.SubmissionStatusPending {
			subs = append(subs, s)
		}
	}
	return subs, nil
}

func (m *MockSubmissionRepository) CountPending(ctx context.Context) (int64, error) {
	if m.CountPendingFunc != nil {
		return m.CountPendingFunc(ctx)
	}
	subs, _ := m.ListPending(ctx, 0, 0)
	return int64(len(subs)), nil
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateFunc     func(ctx context.Context, tx usecase.Transaction, user *domain.User) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	UpdateFunc     func(ctx context.Context, user *domain.User) error
	ListFunc       func(ctx context.Context, limit, offset int) ([]*domain.User, error)
	CountFunc      func(ctx context.Context) (int64, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, tx usecase.Transaction, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		found := *u
		return &found, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var users []*domain.User
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc   func(ctx context.Context, log *domain.AuditLog) error
	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
	ListFunc     func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AuditLog(nil), m.logs...), nil
}

// Logs returns a copy of all recorded audit logs.
func (m *MockAuditRepository) Logs() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AuditLog(nil), m.logs...)
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.events {
		if e.PublishedAt == nil {
			events = append(events, e)
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.OutboxEvent
	for _, e := range m.events {
		if e.PublishedAt == nil || e.PublishedAt.After(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// Events returns a copy of all recorded outbox events.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-id-" + strconv.Itoa(m.counter)
}

// MockRetrier is a mock implementation of Retrier that runs the
// operation once.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockCardCipher is a mock implementation of CardCipher.
type MockCardCipher struct {
	EncryptFunc func(plaintext string) (string, error)
	DecryptFunc func(ciphertext string) (string, error)
}

func NewMockCardCipher() *MockCardCipher {
	return &MockCardCipher{}
}

func (m *MockCardCipher) Encrypt(plaintext string) (string, error) {
	if m.EncryptFunc != nil {
		return m.EncryptFunc(plaintext)
	}
	return "enc:" + plaintext, nil
}

func (m *MockCardCipher) Decrypt(ciphertext string) (string, error) {
	if m.DecryptFunc != nil {
		return m.DecryptFunc(ciphertext)
	}
	return strings.TrimPrefix(ciphertext, "enc:"), nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu          sync.RWMutex
	data        map[string][]byte
	checkCalled bool

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// CheckCalled reports whether CheckAndSet has been invoked.
func (m *MockIdempotencyStore) CheckCalled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.checkCalled
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	m.mu.Lock()
	m.checkCalled = true
	m.mu.Unlock()
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
