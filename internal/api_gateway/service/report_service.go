package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pettycash-ledger/internal/config"
	"github.com/pettycash-ledger/internal/domain/ledger"
	"github.com/pettycash-ledger/internal/domain/reconciliation"
	"github.com/pettycash-ledger/internal/domain/shared"
	"github.com/pettycash-ledger/internal/domain/wallet"
	"github.com/pettycash-ledger/internal/export"
	"github.com/pettycash-ledger/internal/observability/metrics"
)

const dateLayout = "2006-01-02"

// ErrHistoryTooLarge is returned when a wallet has more transactions than a report may load
var ErrHistoryTooLarge = errors.New("wallet history exceeds the report limit")

// InvalidQueryError describes a report parameter that could not be used
type InvalidQueryError struct {
	Param  string
	Reason string
}

func (e InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

// ReportQuery holds the raw report parameters. Dates are calendar dates
// (YYYY-MM-DD) in the report time zone.
type ReportQuery struct {
	From        string
	To          string
	Status      string
	Category    string
	Search      string
	NewestFirst bool
}

// WalletReport pairs a report with the wallet it describes
type WalletReport struct {
	Wallet *wallet.Wallet
	Report *reconciliation.Report
}

// ExportedReport is a rendered statement ready to be downloaded
type ExportedReport struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportServiceImpl implements the ReportService interface
type ReportServiceImpl struct {
	walletRepo wallet.Repository
	ledgerRepo ledger.Repository
	settled    map[shared.TransactionStatus]struct{}
	location   *time.Location
	exponent   int32
	maxHistory int
	clock      func() time.Time
	logger     *slog.Logger
}

// NewReportService creates a report service using the report section of the configuration
func NewReportService(logger *slog.Logger, walletRepo wallet.Repository, ledgerRepo ledger.Repository, cfg config.ReportConfig) *ReportServiceImpl {
	settled := make(map[shared.TransactionStatus]struct{}, len(cfg.SettledStatuses))
	for _, s := range cfg.SettledStatuses {
		settled[shared.NormalizeStatus(s)] = struct{}{}
	}

	return &ReportServiceImpl{
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
		settled:    settled,
		location:   cfg.Location(),
		exponent:   cfg.CurrencyExponent,
		maxHistory: cfg.MaxHistory,
		clock:      time.Now,
		logger:     logger,
	}
}

// WithClock replaces the time source used as the report's "now"
func (s *ReportServiceImpl) WithClock(clock func() time.Time) *ReportServiceImpl {
	s.clock = clock
	return s
}

func (s *ReportServiceImpl) BuildReport(ctx context.Context, walletID uuid.UUID, query ReportQuery) (*WalletReport, error) {
	start := time.Now()
	result, err := s.build(ctx, walletID, query)

	rows := 0
	if result != nil {
		rows = len(result.Report.Rows)
	}
	metrics.ObserveReportBuild(metrics.ResultOf(err), rows, time.Since(start))
	return result, err
}

func (s *ReportServiceImpl) build(ctx context.Context, walletID uuid.UUID, query ReportQuery) (*WalletReport, error) {
	criteria, err := s.criteria(query)
	if err != nil {
		return nil, err
	}

	w, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	history, err := s.history(ctx, walletID)
	if err != nil {
		return nil, err
	}

	report, err := reconciliation.Build(reconciliation.Input{
		History:        history,
		CurrentBalance: w.Balance,
		Now:            s.clock(),
		Criteria:       criteria,
	})
	if err != nil {
		s.logger.Warn("Report could not be built",
			"wallet_id", walletID.String(),
			"history", len(history),
			"error", err,
		)
		return nil, err
	}

	return &WalletReport{Wallet: w, Report: report}, nil
}

// history loads the settled transactions of a wallet, oldest first
func (s *ReportServiceImpl) history(ctx context.Context, walletID uuid.UUID) ([]ledger.Transaction, error) {
	all, err := s.ledgerRepo.ListAllByWalletID(ctx, walletID, s.maxHistory+1)
	if err != nil {
		return nil, err
	}
	if len(all) > s.maxHistory {
		return nil, fmt.Errorf("%w: more than %d transactions", ErrHistoryTooLarge, s.maxHistory)
	}
	if len(s.settled) == 0 {
		return all, nil
	}

	settled := all[:0]
	for _, txn := range all {
		if _, ok := s.settled[txn.Status]; ok {
			settled = append(settled, txn)
		}
	}
	return settled, nil
}

func (s *ReportServiceImpl) criteria(query ReportQuery) (reconciliation.Criteria, error) {
	criteria := reconciliation.Criteria{
		Status:   shared.NormalizeStatus(query.Status),
		Search:   strings.TrimSpace(query.Search),
		Location: s.location,
	}

	var err error
	if criteria.From, err = s.parseDate("from", query.From); err != nil {
		return criteria, err
	}
	if criteria.To, err = s.parseDate("to", query.To); err != nil {
		return criteria, err
	}

	if query.Category != "" {
		category, err := shared.ParseCategory(query.Category)
		if err != nil {
			return criteria, InvalidQueryError{Param: "category", Reason: fmt.Sprintf("%q is not a known category", query.Category)}
		}
		criteria.Category = category
	}

	return criteria, nil
}

func (s *ReportServiceImpl) parseDate(param, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(value), s.location)
	if err != nil {
		return nil, InvalidQueryError{Param: param, Reason: "expected a date formatted YYYY-MM-DD"}
	}
	return &t, nil
}

func (s *ReportServiceImpl) ExportReport(ctx context.Context, walletID uuid.UUID, query ReportQuery, format export.Format) (*ExportedReport, error) {
	built, err := s.BuildReport(ctx, walletID, query)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	data, contentType, err := export.Render(format, built.Report, export.Meta{
		WalletName:  built.Wallet.Name,
		Currency:    built.Wallet.Currency,
		Exponent:    s.exponent,
		Location:    s.location,
		NewestFirst: query.NewestFirst,
	})
	metrics.ObserveReportExport(string(format), metrics.ResultOf(err), time.Since(start))
	if err != nil {
		s.logger.Error("Failed to render report", "wallet_id", walletID.String(), "format", format, "error", err)
		return nil, err
	}

	filename := fmt.Sprintf("statement-%s-%s%s",
		walletID.String()[:8],
		built.Report.GeneratedAt.In(s.location).Format("20060102"),
		format.Extension(),
	)
	return &ExportedReport{Filename: filename, ContentType: contentType, Data: data}, nil
}
