// Package mongo provides a MongoDB-backed Store implementation.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/funds"
	"github.com/xraph/funds/balance"
	"github.com/xraph/funds/fund"
	"github.com/xraph/funds/id"
	"github.com/xraph/funds/notification"
	fundsstore "github.com/xraph/funds/store"
	"github.com/xraph/funds/subscription"
	"github.com/xraph/funds/transaction"
)

// Collection name constants.
const (
	colFunds         = "funds_catalog"
	colBalances      = "funds_balances"
	colTransactions  = "funds_transactions"
	colSubscriptions = "funds_subscriptions"
	colPreferences   = "funds_preferences"
)

// compile-time interface check
var _ fundsstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New creates a MongoDB store on an existing client.
func New(client *mongo.Client, dbName string) *Store {
	return &Store{
		client: client,
		db:     client.Database(dbName),
	}
}

// Connect dials MongoDB and returns a store bound to the named database.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("funds/mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx) //nolint:errcheck // already failing
		return nil, fmt.Errorf("funds/mongo: ping: %w", err)
	}
	return New(client, dbName), nil
}

// DB returns the underlying database for direct access.
func (s *Store) DB() *mongo.Database { return s.db }

// Migrate creates indexes for all collections.
func (s *Store) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if len(models) == 0 {
			continue
		}
		_, err := s.db.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("funds/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

// ==================== Fund Store ====================

func (s *Store) CreateFund(ctx context.Context, f *fund.Fund) error {
	m := toFundModel(f)
	_, err := s.db.Collection(colFunds).InsertOne(ctx, m)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return funds.ErrAlreadyExists
		}
		return fmt.Errorf("funds/mongo: create fund: %w", err)
	}
	return nil
}

func (s *Store) GetFund(ctx context.Context, fundID id.FundID) (*fund.Fund, error) {
	var m fundModel
	err := s.db.Collection(colFunds).
		FindOne(ctx, bson.M{"_id": fundID.String()}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, funds.ErrFundNotFound
		}
		return nil, fmt.Errorf("funds/mongo: get fund: %w", err)
	}
	return fromFundModel(&m)
}

func (s *Store) ListFunds(ctx context.Context, opts fund.ListOpts) ([]*fund.Fund, error) {
	filter := bson.M{}
	if opts.ActiveOnly {
		filter["active"] = true
	}

	cursor, err := s.db.Collection(colFunds).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("funds/mongo: list funds: %w", err)
	}
	defer cursor.Close(ctx)

	var models []fundModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("funds/mongo: list funds decode: %w", err)
	}

	result := make([]*fund.Fund, len(models))
	for i := range models {
		f, err := fromFundModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = f
	}
	return result, nil
}

func (s *Store) SetFundActive(ctx context.Context, fundID id.FundID, active bool) error {
	res, err := s.db.Collection(colFunds).UpdateOne(ctx,
		bson.M{"_id": fundID.String()},
		bson.M{"$set": bson.M{"active": active, "updated_at": nowUTC()}})
	if err != nil {
		return fmt.Errorf("funds/mongo: set fund active: %w", err)
	}
	if res.MatchedCount == 0 {
		return funds.ErrFundNotFound
	}
	return nil
}

// ==================== Balance Store ====================

func (s *Store) GetBalance(ctx context.Context, userID string) (*balance.Balance, error) {
	var m balanceModel
	err := s.db.Collection(colBalances).
		FindOne(ctx, bson.M{"_id": userID}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, funds.ErrNotFound
		}
		return nil, fmt.Errorf("funds/mongo: get balance: %w", err)
	}
	return fromBalanceModel(&m)
}

func (s *Store) PutBalance(ctx context.Context, b *balance.Balance) error {
	m := toBalanceModel(b)
	_, err := s.db.Collection(colBalances).ReplaceOne(ctx,
		bson.M{"_id": m.UserID}, m,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("funds/mongo: put balance: %w", err)
	}
	return nil
}

// ==================== Transaction Store ====================

func (s *Store) CreateTransaction(ctx context.Context, t *transaction.Transaction) error {
	m := toTransactionModel(t)
	_, err := s.db.Collection(colTransactions).InsertOne(ctx, m)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return funds.ErrAlreadyExists
		}
		return fmt.Errorf("funds/mongo: create transaction: %w", err)
	}
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, txnID id.TransactionID) (*transaction.Transaction, error) {
	var m transactionModel
	err := s.db.Collection(colTransactions).
		FindOne(ctx, bson.M{"_id": txnID.String()}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, funds.ErrNotFound
		}
		return nil, fmt.Errorf("funds/mongo: get transaction: %w", err)
	}
	return fromTransactionModel(&m)
}

func (s *Store) UpdateTransaction(ctx context.Context, t *transaction.Transaction) error {
	m := toTransactionModel(t)
	res, err := s.db.Collection(colTransactions).ReplaceOne(ctx,
		bson.M{"_id": m.ID}, m)
	if err != nil {
		return fmt.Errorf("funds/mongo: update transaction: %w", err)
	}
	if res.MatchedCount == 0 {
		return funds.ErrNotFound
	}
	return nil
}

func (s *Store) TransactionHistory(ctx context.Context, userID string, limit int) ([]*transaction.Transaction, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		findOpts = findOpts.SetLimit(int64(limit))
	}

	cursor, err := s.db.Collection(colTransactions).Find(ctx,
		bson.M{"user_id": userID}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("funds/mongo: transaction history: %w", err)
	}
	defer cursor.Close(ctx)

	var models []transactionModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("funds/mongo: transaction history decode: %w", err)
	}

	result := make([]*transaction.Transaction, len(models))
	for i := range models {
		t, err := fromTransactionModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = t
	}
	return result, nil
}

// ==================== Subscription Store ====================

func (s *Store) GetSubscription(ctx context.Context, userID string, fundID id.FundID) (*subscription.Subscription, error) {
	var m subscriptionModel
	err := s.db.Collection(colSubscriptions).
		FindOne(ctx, bson.M{"_id": userID + ":" + fundID.String()}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, funds.ErrNotFound
		}
		return nil, fmt.Errorf("funds/mongo: get subscription: %w", err)
	}
	return fromSubscriptionModel(&m)
}

func (s *Store) PutSubscription(ctx context.Context, sub *subscription.Subscription) error {
	m := toSubscriptionModel(sub)
	_, err := s.db.Collection(colSubscriptions).ReplaceOne(ctx,
		bson.M{"_id": m.ID}, m,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("funds/mongo: put subscription: %w", err)
	}
	return nil
}

func (s *Store) ListSubscriptions(ctx context.Context, userID string, opts subscription.ListOpts) ([]*subscription.Subscription, error) {
	filter := bson.M{"user_id": userID}
	if opts.ActiveOnly {
		filter["active"] = true
	}

	cursor, err := s.db.Collection(colSubscriptions).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "subscribed_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("funds/mongo: list subscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var models []subscriptionModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("funds/mongo: list subscriptions decode: %w", err)
	}

	result := make([]*subscription.Subscription, len(models))
	for i := range models {
		sub, err := fromSubscriptionModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = sub
	}
	return result, nil
}

// ==================== Preference Store ====================

func (s *Store) GetPreference(ctx context.Context, userID string) (*notification.Preference, error) {
	var m preferenceModel
	err := s.db.Collection(colPreferences).
		FindOne(ctx, bson.M{"_id": userID}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, funds.ErrNotFound
		}
		return nil, fmt.Errorf("funds/mongo: get preference: %w", err)
	}
	return fromPreferenceModel(&m), nil
}

func (s *Store) PutPreference(ctx context.Context, p *notification.Preference) error {
	m := toPreferenceModel(p)
	_, err := s.db.Collection(colPreferences).ReplaceOne(ctx,
		bson.M{"_id": m.UserID}, m,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("funds/mongo: put preference: %w", err)
	}
	return nil
}

// ==================== Helpers ====================

// nowUTC returns the current UTC time.
func nowUTC() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colFunds: {
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "active", Value: 1}, {Key: "name", Value: 1}}},
		},
		colTransactions: {
			// Backs newest-first history scans per user.
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "fund_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		colSubscriptions: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "active", Value: 1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "subscribed_at", Value: -1}}},
		},
	}
}
