package mongo

import (
	"time"

	"github.com/xraph/funds/balance"
	"github.com/xraph/funds/fund"
	"github.com/xraph/funds/id"
	"github.com/xraph/funds/notification"
	"github.com/xraph/funds/subscription"
	"github.com/xraph/funds/transaction"
	"github.com/xraph/funds/types"
)

// Money is persisted as a decimal string plus currency so no precision
// is lost crossing the storage boundary.

// ==================== Fund models ====================

type fundModel struct {
	ID            string    `bson:"_id"`
	Name          string    `bson:"name"`
	MinimumAmount string    `bson:"minimum_amount"`
	MinimumAmtCur string    `bson:"minimum_amount_currency"`
	Category      string    `bson:"category"`
	Active        bool      `bson:"active"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func toFundModel(f *fund.Fund) *fundModel {
	return &fundModel{
		ID:            f.ID.String(),
		Name:          f.Name,
		MinimumAmount: f.MinimumAmount.StringAmount(),
		MinimumAmtCur: f.MinimumAmount.Currency(),
		Category:      string(f.Category),
		Active:        f.Active,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

func fromFundModel(m *fundModel) (*fund.Fund, error) {
	fundID, err := id.ParseFundID(m.ID)
	if err != nil {
		return nil, err
	}
	minimum, err := types.Parse(m.MinimumAmount, m.MinimumAmtCur)
	if err != nil {
		return nil, err
	}

	return &fund.Fund{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:            fundID,
		Name:          m.Name,
		MinimumAmount: minimum,
		Category:      fund.Category(m.Category),
		Active:        m.Active,
	}, nil
}

// ==================== Balance models ====================

type balanceModel struct {
	UserID    string    `bson:"_id"`
	Available string    `bson:"available_balance"`
	Currency  string    `bson:"currency"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toBalanceModel(b *balance.Balance) *balanceModel {
	return &balanceModel{
		UserID:    b.UserID,
		Available: b.Available.StringAmount(),
		Currency:  b.Available.Currency(),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func fromBalanceModel(m *balanceModel) (*balance.Balance, error) {
	available, err := types.Parse(m.Available, m.Currency)
	if err != nil {
		return nil, err
	}

	return &balance.Balance{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		UserID:    m.UserID,
		Available: available,
	}, nil
}

// ==================== Transaction models ====================

type transactionModel struct {
	ID               string    `bson:"_id"`
	UserID           string    `bson:"user_id"`
	FundID           string    `bson:"fund_id"`
	Type             string    `bson:"type"`
	Amount           string    `bson:"amount"`
	Currency         string    `bson:"currency"`
	Status           string    `bson:"status"`
	NotificationSent bool      `bson:"notification_sent"`
	CreatedAt        time.Time `bson:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

func toTransactionModel(t *transaction.Transaction) *transactionModel {
	return &transactionModel{
		ID:               t.ID.String(),
		UserID:           t.UserID,
		FundID:           t.FundID.String(),
		Type:             string(t.Type),
		Amount:           t.Amount.StringAmount(),
		Currency:         t.Amount.Currency(),
		Status:           string(t.Status),
		NotificationSent: t.NotificationSent,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func fromTransactionModel(m *transactionModel) (*transaction.Transaction, error) {
	txnID, err := id.ParseTransactionID(m.ID)
	if err != nil {
		return nil, err
	}
	fundID, err := id.ParseFundID(m.FundID)
	if err != nil {
		return nil, err
	}
	amount, err := types.Parse(m.Amount, m.Currency)
	if err != nil {
		return nil, err
	}

	return &transaction.Transaction{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:               txnID,
		UserID:           m.UserID,
		FundID:           fundID,
		Type:             transaction.Type(m.Type),
		Amount:           amount,
		Status:           transaction.Status(m.Status),
		NotificationSent: m.NotificationSent,
	}, nil
}

// ==================== Subscription models ====================

type subscriptionModel struct {
	// Composite key, user_id + ":" + fund_id.
	ID                 string     `bson:"_id"`
	UserID             string     `bson:"user_id"`
	FundID             string     `bson:"fund_id"`
	Active             bool       `bson:"active"`
	SubscribedAt       time.Time  `bson:"subscribed_at"`
	CancelledAt        *time.Time `bson:"cancelled_at,omitempty"`
	SubscriptionAmount string     `bson:"subscription_amount"`
	InvestedAmount     string     `bson:"invested_amount"`
	Currency           string     `bson:"currency"`
	CreatedAt          time.Time  `bson:"created_at"`
	UpdatedAt          time.Time  `bson:"updated_at"`
}

func toSubscriptionModel(s *subscription.Subscription) *subscriptionModel {
	return &subscriptionModel{
		ID:                 s.UserID + ":" + s.FundID.String(),
		UserID:             s.UserID,
		FundID:             s.FundID.String(),
		Active:             s.Active,
		SubscribedAt:       s.SubscribedAt,
		CancelledAt:        s.CancelledAt,
		SubscriptionAmount: s.SubscriptionAmount.StringAmount(),
		InvestedAmount:     s.InvestedAmount.StringAmount(),
		Currency:           s.SubscriptionAmount.Currency(),
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func fromSubscriptionModel(m *subscriptionModel) (*subscription.Subscription, error) {
	fundID, err := id.ParseFundID(m.FundID)
	if err != nil {
		return nil, err
	}
	amount, err := types.Parse(m.SubscriptionAmount, m.Currency)
	if err != nil {
		return nil, err
	}
	invested, err := types.Parse(m.InvestedAmount, m.Currency)
	if err != nil {
		return nil, err
	}

	return &subscription.Subscription{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		UserID:             m.UserID,
		FundID:             fundID,
		Active:             m.Active,
		SubscribedAt:       m.SubscribedAt,
		CancelledAt:        m.CancelledAt,
		SubscriptionAmount: amount,
		InvestedAmount:     invested,
	}, nil
}

// ==================== Preference models ====================

type preferenceModel struct {
	UserID    string    `bson:"_id"`
	Channel   string    `bson:"channel"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toPreferenceModel(p *notification.Preference) *preferenceModel {
	return &preferenceModel{
		UserID:    p.UserID,
		Channel:   string(p.Channel),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func fromPreferenceModel(m *preferenceModel) *notification.Preference {
	return &notification.Preference{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		UserID:  m.UserID,
		Channel: notification.Channel(m.Channel),
	}
}
