package transaction

import "context"

type TransactionService interface {
	CreateTransaction(ctx context.Context, req CreateTransactionRequest) (TransactionResponse, error)
	GetTransaction(ctx context.Context, id string) (TransactionResponse, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) (ListTransactionsResponse, error)

	// ApproveTransaction moves a pending transaction to approved.
	ApproveTransaction(ctx context.Context, id string) (TransactionResponse, error)

	// RejectTransaction cancels a pending transaction, recording the reason.
	RejectTransaction(ctx context.Context, id string, req RejectTransactionRequest) (TransactionResponse, error)

	// VoidTransaction cancels an unpaid transaction that is not claimed by a
	// payout.
	VoidTransaction(ctx context.Context, id string, req VoidTransactionRequest) (TransactionResponse, error)
}
