package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/service"
	"finance_tracker/internal/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// PendingTTL is how long a transaction draft waits for confirmation
const PendingTTL = 10 * time.Minute

// ErrPendingNotFound is returned for unknown, expired or already confirmed drafts
var ErrPendingNotFound = errors.New("pending transaction not found or expired")

// PendingTransaction is a resolved transaction waiting for the user's confirmation
type PendingTransaction struct {
	ID           string              `json:"id"`
	Type         domain.CategoryType `json:"type"`
	Amount       decimal.Decimal     `json:"amount"`
	AccountID    uint                `json:"accountId"`
	AccountName  string              `json:"accountName"`
	CategoryID   uint                `json:"categoryId"`
	CategoryName string              `json:"categoryName"`
	Date         string              `json:"date"`
	Description  string              `json:"description"`
}

// Input converts the draft into a service input
func (p PendingTransaction) Input() (service.TransactionInput, error) {
	in := service.TransactionInput{
		Type:        p.Type,
		Amount:      p.Amount,
		CategoryID:  p.CategoryID,
		AccountID:   p.AccountID,
		Description: p.Description,
	}
	if p.Date != "" {
		d, err := utils.ParseDate(p.Date)
		if err != nil {
			return in, err
		}
		in.Date = d
	}
	return in, nil
}

// PendingStore keeps drafts between the message and its confirmation
type PendingStore interface {
	Save(ctx context.Context, userID uint, p *PendingTransaction) error
	Take(ctx context.Context, userID uint, id string) (*PendingTransaction, error)
	Restore(ctx context.Context, userID uint, p *PendingTransaction) error
}

// RedisPendingStore keeps drafts in Redis under a per-user key with a TTL
type RedisPendingStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisPendingStore creates a store with the default TTL
func NewRedisPendingStore(rdb *redis.Client) *RedisPendingStore {
	return &RedisPendingStore{rdb: rdb, ttl: PendingTTL}
}

func pendingKey(userID uint, id string) string {
	return fmt.Sprintf("assistant:pending:%d:%s", userID, id)
}

// Save assigns the draft a new id and stores it
func (s *RedisPendingStore) Save(ctx context.Context, userID uint, p *PendingTransaction) error {
	p.ID = uuid.NewString()
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, pendingKey(userID, p.ID), data, s.ttl).Err()
}

// Restore puts a taken draft back under its id with a fresh TTL
func (s *RedisPendingStore) Restore(ctx context.Context, userID uint, p *PendingTransaction) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, pendingKey(userID, p.ID), data, s.ttl).Err()
}

// Take returns the draft and removes it, so a draft is confirmed at most once
func (s *RedisPendingStore) Take(ctx context.Context, userID uint, id string) (*PendingTransaction, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrPendingNotFound
	}
	data, err := s.rdb.GetDel(ctx, pendingKey(userID, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrPendingNotFound
	} else if err != nil {
		return nil, fmt.Errorf("load pending transaction: %w", err)
	}
	var p PendingTransaction
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode pending transaction: %w", err)
	}
	return &p, nil
}
