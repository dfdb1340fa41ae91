package services

// ServiceContainer bundles all service facades for handler wiring.
type ServiceContainer struct {
	User    UserSvcFacade
	Expense ExpenseSvcFacade
	Token   TokenSvcFacade
}
