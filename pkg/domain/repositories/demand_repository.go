package repositories

import "github.com/vsinha/bomsource/pkg/domain/entities"

// Demand provides the required quantity per part in first-encounter order
type Demand interface {
	Entries() []entities.DemandLine
}
