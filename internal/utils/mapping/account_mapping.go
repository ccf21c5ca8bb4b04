package mapping

import (
	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
	"github.com/nestegg-app/nestegg_backend/internal/models"
)

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		UserID:         m.UserID,
		Name:           m.Name,
		AccountType:    domain.AccountType(m.AccountType),
		CurrencyCode:   m.CurrencyCode,
		Balance:        m.Balance,
		OpeningBalance: m.OpeningBalance,
		MarketValue:    m.MarketValue,
		OpenedAt:       m.OpenedAt,
		AcquiredAt:     m.AcquiredAt,
		IsClosed:       m.IsClosed,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts model accounts to domain accounts.
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		AccountID:       m.AccountID,
		Amount:          m.Amount,
		CurrencyCode:    m.CurrencyCode,
		TransactionDate: m.TransactionDate,
		Description:     m.Description,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts model transactions to domain transactions.
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
