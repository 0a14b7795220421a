package services

// ServiceContainer aggregates all the service facades used by the handler
// layer. Handlers depend on this struct rather than concrete services.
type ServiceContainer struct {
	Currency       CurrencySvcFacade
	ExchangeRate   ExchangeRateSvcFacade
	Account        AccountSvcFacade
	Period         PeriodSvcFacade
	Ledger         LedgerSvcFacade
	Reconciliation ReconciliationSvcFacade
	Reporting      ReportingSvcFacade
}
