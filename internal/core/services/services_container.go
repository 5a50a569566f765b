package services

import (
	"github.com/SscSPs/student_savings_app/internal/core/ports/publishers"
	portsrepo "github.com/SscSPs/student_savings_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/student_savings_app/internal/core/ports/services"
	"github.com/SscSPs/student_savings_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher publishers.LedgerEventPublisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Ledger = NewLedgerService(
		repos.LedgerRepo,
		WithEventPublisher(publisher),
		WithReportLocation(cfg.ReportLocation),
	)
	container.Directory = NewDirectoryService(repos.DirectoryRepo)
	container.Auth = NewAuthService(cfg, container.Directory)

	return container
}
