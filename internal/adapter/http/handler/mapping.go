package handler

import (
	"time"

	"multicurrency-wallet/internal/adapter/http/dto"
	"multicurrency-wallet/internal/core/domain"
	"multicurrency-wallet/pkg/money"
)

const timeFormat = time.RFC3339Nano

func toWalletResponse(w *domain.Wallet) dto.WalletResponse {
	return dto.WalletResponse{
		ID:        w.ID.String(),
		Currency:  w.Currency.String(),
		Balance:   w.Balance.String(),
		Status:    string(w.Status),
		CreatedAt: w.CreatedAt.Format(timeFormat),
		UpdatedAt: w.UpdatedAt.Format(timeFormat),
	}
}

func toWalletResponses(ws []domain.Wallet) []dto.WalletResponse {
	out := make([]dto.WalletResponse, 0, len(ws))
	for i := range ws {
		out = append(out, toWalletResponse(&ws[i]))
	}
	return out
}

func toTransactionResponse(tx *domain.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:                       tx.ID.String(),
		WalletID:                 tx.WalletID.String(),
		Type:                     string(tx.Type),
		Amount:                   tx.Amount.String(),
		Currency:                 tx.Currency.String(),
		CreditedAmount:           amountString(tx.CreditedAmount),
		BalanceAfter:             amountString(tx.BalanceAfter),
		CounterpartyBalanceAfter: amountString(tx.CounterpartyBalanceAfter),
		Status:                   string(tx.Status),
		CreatedAt:                tx.CreatedAt.Format(timeFormat),
	}
	if tx.CounterpartyWalletID != nil {
		s := tx.CounterpartyWalletID.String()
		resp.CounterpartyWalletID = &s
	}
	if tx.CreditedCurrency != nil {
		s := tx.CreditedCurrency.String()
		resp.CreditedCurrency = &s
	}
	if tx.Rate != nil {
		s := tx.Rate.String()
		resp.Rate = &s
	}
	if tx.ErrorCode != "" {
		s := string(tx.ErrorCode)
		resp.ErrorCode = &s
	}
	return resp
}

func toTransactionResponses(txs []domain.Transaction) []dto.TransactionResponse {
	out := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, toTransactionResponse(&txs[i]))
	}
	return out
}

func toCurrencyResponses(infos []money.CurrencyInfo) []dto.CurrencyResponse {
	out := make([]dto.CurrencyResponse, 0, len(infos))
	for _, info := range infos {
		out = append(out, dto.CurrencyResponse{Code: info.Code.String(), Name: info.Name, Scale: info.Scale})
	}
	return out
}

func amountString(a *money.Amount) *string {
	if a == nil {
		return nil
	}
	s := a.String()
	return &s
}
