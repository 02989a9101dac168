// Package memory provides an in-memory Store implementation for tests
// and development. All data is lost when the process exits.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/xraph/funds"
	"github.com/xraph/funds/balance"
	"github.com/xraph/funds/fund"
	"github.com/xraph/funds/id"
	"github.com/xraph/funds/notification"
	fundsstore "github.com/xraph/funds/store"
	"github.com/xraph/funds/subscription"
	"github.com/xraph/funds/transaction"
)

// Compile-time interface check.
var _ fundsstore.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	// Fund catalog
	funds map[string]*fund.Fund

	// Per-user balances, keyed by user ID
	balances map[string]*balance.Balance

	// Transaction ledger
	transactions map[string]*transaction.Transaction

	// Subscription registry, keyed by user_id + ":" + fund_id
	subscriptions map[string]*subscription.Subscription

	// Notification preferences, keyed by user ID
	preferences map[string]*notification.Preference
}

func New() *Store {
	return &Store{
		funds:         make(map[string]*fund.Fund),
		balances:      make(map[string]*balance.Balance),
		transactions:  make(map[string]*transaction.Transaction),
		subscriptions: make(map[string]*subscription.Subscription),
		preferences:   make(map[string]*notification.Preference),
	}
}

func subscriptionKey(userID string, fundID id.FundID) string {
	return userID + ":" + fundID.String()
}

// Fund Store implementation
func (s *Store) CreateFund(_ context.Context, f *fund.Fund) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.funds[f.ID.String()]; exists {
		return funds.ErrAlreadyExists
	}
	s.funds[f.ID.String()] = f
	return nil
}

func (s *Store) GetFund(_ context.Context, fundID id.FundID) (*fund.Fund, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if f, ok := s.funds[fundID.String()]; ok {
		return f, nil
	}
	return nil, funds.ErrFundNotFound
}

func (s *Store) ListFunds(_ context.Context, opts fund.ListOpts) ([]*fund.Fund, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*fund.Fund, 0)
	for _, f := range s.funds {
		if opts.ActiveOnly && !f.Active {
			continue
		}
		result = append(result, f)
	}

	// Stable order for callers
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (s *Store) SetFundActive(_ context.Context, fundID id.FundID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, exists := s.funds[fundID.String()]; exists {
		f.Active = active
		return nil
	}
	return funds.ErrFundNotFound
}

// Balance Store implementation
func (s *Store) GetBalance(_ context.Context, userID string) (*balance.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if b, ok := s.balances[userID]; ok {
		return b, nil
	}
	return nil, funds.ErrNotFound
}

func (s *Store) PutBalance(_ context.Context, b *balance.Balance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balances[b.UserID] = b
	return nil
}

// Transaction Store implementation
func (s *Store) CreateTransaction(_ context.Context, t *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions[t.ID.String()]; exists {
		return funds.ErrAlreadyExists
	}
	s.transactions[t.ID.String()] = t
	return nil
}

func (s *Store) GetTransaction(_ context.Context, txnID id.TransactionID) (*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if t, ok := s.transactions[txnID.String()]; ok {
		return t, nil
	}
	return nil, funds.ErrNotFound
}

func (s *Store) UpdateTransaction(_ context.Context, t *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions[t.ID.String()]; !exists {
		return funds.ErrNotFound
	}
	s.transactions[t.ID.String()] = t
	return nil
}

func (s *Store) TransactionHistory(_ context.Context, userID string, limit int) ([]*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*transaction.Transaction, 0)
	for _, t := range s.transactions {
		if t.UserID == userID {
			result = append(result, t)
		}
	}

	// Newest first, matching the (user_id, created_at) index contract.
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Subscription Store implementation
func (s *Store) GetSubscription(_ context.Context, userID string, fundID id.FundID) (*subscription.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sub, ok := s.subscriptions[subscriptionKey(userID, fundID)]; ok {
		return sub, nil
	}
	return nil, funds.ErrNotFound
}

func (s *Store) PutSubscription(_ context.Context, sub *subscription.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscriptions[subscriptionKey(sub.UserID, sub.FundID)] = sub
	return nil
}

func (s *Store) ListSubscriptions(_ context.Context, userID string, opts subscription.ListOpts) ([]*subscription.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*subscription.Subscription, 0)
	for _, sub := range s.subscriptions {
		if sub.UserID != userID {
			continue
		}
		if opts.ActiveOnly && !sub.Active {
			continue
		}
		result = append(result, sub)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].SubscribedAt.After(result[j].SubscribedAt)
	})
	return result, nil
}

// Notification preference Store implementation
func (s *Store) GetPreference(_ context.Context, userID string) (*notification.Preference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.preferences[userID]; ok {
		return p, nil
	}
	return nil, funds.ErrNotFound
}

func (s *Store) PutPreference(_ context.Context, p *notification.Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.preferences[p.UserID] = p
	return nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}
