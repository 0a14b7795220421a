package repositories

// RepositoryContainer aggregates all the repository facades the service layer
// is wired from.
type RepositoryContainer struct {
	Currency       CurrencyRepositoryFacade
	ExchangeRate   ExchangeRateRepositoryFacade
	Account        AccountRepositoryFacade
	Period         PeriodRepositoryFacade
	Entry          EntryRepositoryFacade
	Reconciliation ReconciliationRepositoryFacade
	Reporting      ReportingReader
}
