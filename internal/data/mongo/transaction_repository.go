// Package mongo stores synchronized ledger transactions in MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pettycash-ledger/internal/domain/ledger"
	"github.com/pettycash-ledger/internal/domain/shared"
)

const (
	// TransactionCollectionName is the collection holding one document per ledger transaction
	TransactionCollectionName = "ledger_transactions"
)

// TransactionRepository implements the ledger.Repository interface for MongoDB
type TransactionRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewTransactionRepository creates a new MongoDB ledger transaction repository
func NewTransactionRepository(logger *slog.Logger, db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *TransactionRepository) collection() *mongo.Collection {
	return r.db.Collection(TransactionCollectionName)
}

// EnsureIndexes creates the uniqueness and replay indexes. It is safe to call on every start.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "wallet_id", Value: 1}, {Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("wallet_id_id_unique"),
		},
		{
			Keys:    bson.D{{Key: "wallet_id", Value: 1}, {Key: "created_at", Value: 1}, {Key: "id", Value: 1}},
			Options: options.Index().SetName("wallet_id_created_at_id"),
		},
	}

	if _, err := r.collection().Indexes().CreateMany(ctx, models); err != nil {
		r.logger.Error("Failed to create ledger transaction indexes", "error", err)
		return fmt.Errorf("failed to create ledger transaction indexes: %w", err)
	}
	return nil
}

// Create stores a transaction. A second insert of the same wallet and ID
// returns ErrDuplicateTransaction.
func (r *TransactionRepository) Create(ctx context.Context, txn *ledger.Transaction) error {
	_, err := r.collection().InsertOne(ctx, txn)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ledger.ErrDuplicateTransaction{WalletID: txn.WalletID, ID: txn.ID}
		}
		r.logger.Error("Failed to create ledger transaction",
			"wallet_id", txn.WalletID.String(),
			"transaction_id", txn.ID,
			"error", err)
		return fmt.Errorf("failed to create ledger transaction: %w", err)
	}

	return nil
}

// GetByID returns ErrTransactionNotFound when the wallet has no such transaction
func (r *TransactionRepository) GetByID(ctx context.Context, walletID uuid.UUID, id string) (*ledger.Transaction, error) {
	filter := bson.M{"wallet_id": walletID, "id": id}

	var txn ledger.Transaction
	err := r.collection().FindOne(ctx, filter).Decode(&txn)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ledger.ErrTransactionNotFound{WalletID: walletID, ID: id}
		}
		r.logger.Error("Failed to get ledger transaction",
			"wallet_id", walletID.String(),
			"transaction_id", id,
			"error", err)
		return nil, fmt.Errorf("failed to get ledger transaction: %w", err)
	}

	return &txn, nil
}

// UpdateStatus changes only the status and sync time. Amount, direction and
// timestamps keep the values of the first synchronization.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, walletID uuid.UUID, id string, status shared.TransactionStatus, syncedAt time.Time) (bool, error) {
	filter := bson.M{"wallet_id": walletID, "id": id, "status": bson.M{"$ne": status}}
	update := bson.M{"$set": bson.M{"status": status, "synced_at": syncedAt}}

	result, err := r.collection().UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to update ledger transaction status",
			"wallet_id", walletID.String(),
			"transaction_id", id,
			"status", string(status),
			"error", err)
		return false, fmt.Errorf("failed to update ledger transaction status: %w", err)
	}

	return result.MatchedCount > 0, nil
}

// GetByWalletID returns one page of transactions, newest first
func (r *TransactionRepository) GetByWalletID(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*ledger.Transaction, error) {
	filter := bson.M{"wallet_id": walletID}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get ledger transactions", "wallet_id", walletID.String(), "error", err)
		return nil, fmt.Errorf("failed to get ledger transactions: %w", err)
	}
	defer cursor.Close(ctx)

	txns := []*ledger.Transaction{}
	if err := cursor.All(ctx, &txns); err != nil {
		r.logger.Error("Failed to decode ledger transactions", "wallet_id", walletID.String(), "error", err)
		return nil, fmt.Errorf("failed to decode ledger transactions: %w", err)
	}

	return txns, nil
}

func (r *TransactionRepository) CountByWalletID(ctx context.Context, walletID uuid.UUID) (int64, error) {
	count, err := r.collection().CountDocuments(ctx, bson.M{"wallet_id": walletID})
	if err != nil {
		r.logger.Error("Failed to count ledger transactions", "wallet_id", walletID.String(), "error", err)
		return 0, fmt.Errorf("failed to count ledger transactions: %w", err)
	}

	return count, nil
}

// ListAllByWalletID loads the history used for balance reconstruction, oldest
// first. Transactions sharing a timestamp come back ordered by ID so that
// repeated reports replay them identically.
func (r *TransactionRepository) ListAllByWalletID(ctx context.Context, walletID uuid.UUID, limit int) ([]ledger.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection().Find(ctx, bson.M{"wallet_id": walletID}, opts)
	if err != nil {
		r.logger.Error("Failed to load ledger history", "wallet_id", walletID.String(), "error", err)
		return nil, fmt.Errorf("failed to load ledger history: %w", err)
	}
	defer cursor.Close(ctx)

	txns := []ledger.Transaction{}
	if err := cursor.All(ctx, &txns); err != nil {
		r.logger.Error("Failed to decode ledger history", "wallet_id", walletID.String(), "error", err)
		return nil, fmt.Errorf("failed to decode ledger history: %w", err)
	}

	return txns, nil
}
