package services

import (
	portsrepo "github.com/trackmint/expense_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/trackmint/expense_tracker_app/internal/core/ports/services"
	"github.com/trackmint/expense_tracker_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Expense = NewExpenseService(repos.ExpenseRepo)
	container.Token = NewTokenService(cfg, container.User)

	return container
}
