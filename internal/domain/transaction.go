package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a ledger transaction.
type TransactionKind string

const (
	TransactionKindBuy                TransactionKind = "buy"
	TransactionKindSell               TransactionKind = "sell"
	TransactionKindGiftCardRedemption TransactionKind = "gift_card_redemption"
)

var validTransactionKinds = map[TransactionKind]bool{
	TransactionKindBuy:                true,
	TransactionKindSell:               true,
	TransactionKindGiftCardRedemption: true,
}

// IsValid checks if the kind is a known transaction kind.
func (k TransactionKind) IsValid() bool {
	return validTransactionKinds[k]
}

// TransactionStatus is the settlement state of a transaction.
// Status advances synchronously within the operation that created it;
// there is no asynchronous settlement.
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusProcessing TransactionStatus = "processing"
	TransactionStatusCompleted  TransactionStatus = "completed"
	TransactionStatusFailed     TransactionStatus = "failed"
)

// Transaction is an immutable record of a completed or failed trade or
// gift card redemption. Every balance or holding mutation is paired with
// exactly one transaction.
type Transaction struct {
	ID           string
	Reference    string
	AccountID    string
	Kind         TransactionKind
	Symbol       string
	Brand        string
	USDAmount    decimal.Decimal
	CryptoAmount decimal.Decimal
	Rate         decimal.Decimal
	Fee          decimal.Decimal
	Status       TransactionStatus
	ProcessedBy  *string
	CreatedAt    time.Time
	CompletedAt  *time.Time
}
