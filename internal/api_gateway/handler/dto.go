package handler

import (
	"encoding/json"
	"time"

	"github.com/pettycash-ledger/internal/domain/ledger"
	"github.com/pettycash-ledger/internal/domain/reconciliation"
	"github.com/pettycash-ledger/internal/domain/wallet"
)

// CreateWalletRequest registers a wallet with its current upstream balance
type CreateWalletRequest struct {
	OrganizationID string     `json:"organization_id" binding:"required,uuid"`
	Name           string     `json:"name" binding:"required"`
	Currency       string     `json:"currency" binding:"required,len=3"`
	Balance        int64      `json:"balance" binding:"min=0"`
	BalanceAsOf    *time.Time `json:"balance_as_of,omitempty"`
}

// WalletResponse represents a wallet in API responses
type WalletResponse struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	Currency       string `json:"currency"`
	Balance        int64  `json:"balance"`
	BalanceAsOf    string `json:"balance_as_of"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// ImportRequest carries raw upstream records. Each record is validated on its own.
type ImportRequest struct {
	Records      []json.RawMessage `json:"records" binding:"required,min=1,max=1000"`
	BalanceAfter *int64            `json:"balance_after,omitempty"`
	BalanceAsOf  *time.Time        `json:"balance_as_of,omitempty"`
}

// TransactionResponse represents a synchronized ledger transaction
type TransactionResponse struct {
	ID        string `json:"id"`
	WalletID  string `json:"wallet_id"`
	CreatedAt string `json:"created_at"`
	Direction string `json:"direction"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	Category  string `json:"category"`
	Title     string `json:"title,omitempty"`
	Payee     string `json:"payee,omitempty"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=20" binding:"min=1,max=100"`
}

// ReportParams are the query parameters of the report endpoint
type ReportParams struct {
	From     string `form:"from"`
	To       string `form:"to"`
	Status   string `form:"status"`
	Category string `form:"category"`
	Search   string `form:"q"`
	Order    string `form:"order,default=asc" binding:"oneof=asc desc"`
	Format   string `form:"format,default=json"`
}

// ReportRowResponse is one replayed transaction with its running balances
type ReportRowResponse struct {
	TransactionResponse
	SignedAmount   int64 `json:"signed_amount"`
	OpeningBalance int64 `json:"opening_balance"`
	ClosingBalance int64 `json:"closing_balance"`
}

// CategoryTotalResponse is the per-category breakdown of a report
type CategoryTotalResponse struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
	Inflows  int64  `json:"inflows"`
	Outflows int64  `json:"outflows"`
	Net      int64  `json:"net"`
}

// ReportResponse is the JSON rendering of a reconciliation report
type ReportResponse struct {
	WalletID       string                  `json:"wallet_id"`
	Currency       string                  `json:"currency"`
	WindowStart    string                  `json:"window_start"`
	WindowEnd      string                  `json:"window_end,omitempty"`
	GeneratedAt    string                  `json:"generated_at"`
	OpeningBalance int64                   `json:"opening_balance"`
	ClosingBalance int64                   `json:"closing_balance"`
	Inflows        int64                   `json:"inflows"`
	Outflows       int64                   `json:"outflows"`
	NetMovement    int64                   `json:"net_movement"`
	Reconciled     bool                    `json:"reconciled"`
	Rows           []ReportRowResponse     `json:"rows"`
	ByCategory     []CategoryTotalResponse `json:"by_category"`
}

func mapWalletToResponse(w *wallet.Wallet) WalletResponse {
	return WalletResponse{
		ID:             w.ID.String(),
		OrganizationID: w.OrganizationID.String(),
		Name:           w.Name,
		Currency:       w.Currency,
		Balance:        w.Balance,
		BalanceAsOf:    w.BalanceAsOf.Format(time.RFC3339),
		CreatedAt:      w.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      w.UpdatedAt.Format(time.RFC3339),
	}
}

func mapTransactionToResponse(txn *ledger.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        txn.ID,
		WalletID:  txn.WalletID.String(),
		CreatedAt: txn.CreatedAt.Format(time.RFC3339Nano),
		Direction: string(txn.Direction),
		Amount:    txn.Amount,
		Status:    string(txn.Status),
		Category:  string(txn.Category),
		Title:     txn.Title,
		Payee:     txn.Payee,
	}
}

func mapReportToResponse(w *wallet.Wallet, report *reconciliation.Report, newestFirst bool) ReportResponse {
	rows := report.Rows
	if newestFirst {
		rows = report.NewestFirst()
	}

	response := ReportResponse{
		WalletID:       w.ID.String(),
		Currency:       w.Currency,
		WindowStart:    report.WindowStart.Format(time.RFC3339),
		GeneratedAt:    report.GeneratedAt.Format(time.RFC3339),
		OpeningBalance: report.OpeningBalance,
		ClosingBalance: report.ClosingBalance,
		Inflows:        report.Inflows,
		Outflows:       report.Outflows,
		NetMovement:    report.NetMovement,
		Reconciled:     report.Reconciled,
		Rows:           make([]ReportRowResponse, 0, len(rows)),
		ByCategory:     make([]CategoryTotalResponse, 0, len(report.ByCategory)),
	}
	if report.WindowEnd != nil {
		response.WindowEnd = report.WindowEnd.Format(time.RFC3339)
	}

	for i := range rows {
		row := rows[i]
		response.Rows = append(response.Rows, ReportRowResponse{
			TransactionResponse: mapTransactionToResponse(&row.Transaction),
			SignedAmount:        row.SignedAmount(),
			OpeningBalance:      row.OpeningBalance,
			ClosingBalance:      row.ClosingBalance,
		})
	}
	for _, total := range report.ByCategory {
		response.ByCategory = append(response.ByCategory, CategoryTotalResponse{
			Category: string(total.Category),
			Label:    total.Category.Label(),
			Count:    total.Count,
			Inflows:  total.Inflows,
			Outflows: total.Outflows,
			Net:      total.Net,
		})
	}
	return response
}
