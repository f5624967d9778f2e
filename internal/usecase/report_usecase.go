package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ReportUseCase produces platform statistics and ledger consistency
// checks for the admin surface.
type ReportUseCase struct {
	userRepo       UserRepository
	txnRepo        TransactionRepository
	submissionRepo SubmissionRepository
	ledgerRepo     LedgerRepository
	logger         zerolog.Logger
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(
	userRepo UserRepository,
	txnRepo TransactionRepository,
	submissionRepo SubmissionRepository,
	ledgerRepo LedgerRepository,
	logger zerolog.Logger,
) *ReportUseCase {
	return &ReportUseCase{
		userRepo:       userRepo,
		txnRepo:        txnRepo,
		submissionRepo: submissionRepo,
		ledgerRepo:     ledgerRepo,
		logger:         logger,
	}
}

// PlatformStats is an aggregate snapshot of platform activity.
type PlatformStats struct {
	TotalUsers         int64
	TransactionCount   int64
	TransactionVolume  decimal.Decimal
	FeeRevenue         decimal.Decimal
	PendingSubmissions int64
	Since              time.Time
	GeneratedAt        time.Time
}

// GetPlatformStats aggregates activity since the given time.
func (uc *ReportUseCase) GetPlatformStats(ctx context.Context, since time.Time) (*PlatformStats, error) {
	users, err := uc.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := uc.txnRepo.Stats(ctx, since)
	if err != nil {
		return nil, err
	}

	pending, err := uc.submissionRepo.CountPending(ctx)
	if err != nil {
		return nil, err
	}

	return &PlatformStats{
		TotalUsers:         users,
		TransactionCount:   stats.Count,
		TransactionVolume:  stats.Volume,
		FeeRevenue:         stats.FeeRevenue,
		PendingSubmissions: pending,
		Since:              since,
		GeneratedAt:        time.Now().UTC(),
	}, nil
}

// ConsistencyReport is the result of a ledger-wide consistency check.
type ConsistencyReport struct {
	NegativeBalances   int64
	NegativeHoldings   int64
	UnmatchedApprovals int64
	Consistent         bool
	CheckedAt          time.Time
}

// CheckConsistency verifies the ledger invariants hold across the
// whole database: no negative balances or holdings, and every approved
// gift card submission has a matching completed redemption transaction.
func (uc *ReportUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	negBalances, err := uc.ledgerRepo.CountNegativeBalances(ctx)
	if err != nil {
		return nil, err
	}

	negHoldings, err := uc.ledgerRepo.CountNegativeHoldings(ctx)
	if err != nil {
		return nil, err
	}

	unmatched, err := uc.ledgerRepo.CountUnmatchedApprovals(ctx)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		NegativeBalances:   negBalances,
		NegativeHoldings:   negHoldings,
		UnmatchedApprovals: unmatched,
		Consistent:         negBalances == 0 && negHoldings == 0 && unmatched == 0,
		CheckedAt:          time.Now().UTC(),
	}

	if !report.Consistent {
		uc.logger.Error().
			Int64("negative_balances", negBalances).
			Int64("negative_holdings", negHoldings).
			Int64("unmatched_approvals", unmatched).
			Msg("ledger consistency check failed")
	}

	return report, nil
}
