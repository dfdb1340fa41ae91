package repositories

// RepositoryProvider bundles all repository implementations for service wiring.
type RepositoryProvider struct {
	UserRepo    UserRepository
	ExpenseRepo ExpenseRepository
}
