package ports

import "go.trai.ch/flow/internal/core/domain"

// ConfigLoader loads the workflow configuration and returns fully rendered
// task records: all aliases dereferenced and all command templates resolved.
// The core never sees raw templates.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration at the given path and returns the task
	// records in declaration order.
	Load(path string) ([]domain.Task, error)
}
