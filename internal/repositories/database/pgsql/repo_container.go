package pgsql

import (
	portsrepo "github.com/abrkgrbz/stocker-finance/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryContainer wires all pgsql repositories against one pool.
func NewRepositoryContainer(dbPool *pgxpool.Pool) portsrepo.RepositoryContainer {
	return portsrepo.RepositoryContainer{
		Currency:       newPgxCurrencyRepository(dbPool),
		ExchangeRate:   newPgxExchangeRateRepository(dbPool),
		Account:        newPgxAccountRepository(dbPool),
		Period:         newPgxPeriodRepository(dbPool),
		Entry:          newPgxEntryRepository(dbPool),
		Reconciliation: newPgxReconciliationRepository(dbPool),
		Reporting:      newPgxReportingRepository(dbPool),
	}
}
