package selection

import (
	"fmt"

	"github.com/marcovc/services/internal/selectionconfig"
)

// Strategy type names, as written in the selection config
const (
	TypeExternalPrice     = selectionconfig.TypeExternalPrice
	TypeExternalSurplus   = selectionconfig.TypeExternalSurplus
	TypeCreationTimestamp = selectionconfig.TypeCreationTimestamp
	TypeOwnQuotes         = selectionconfig.TypeOwnQuotes
)

// New returns the strategy matching one config entry
func New(entry selectionconfig.Strategy) (Strategy, error) {
	switch selectionconfig.NormalizeType(entry.Type) {
	case TypeExternalPrice:
		return NewExternalPrice(entry.MinFraction), nil
	case TypeExternalSurplus:
		return NewExternalSurplus(entry.MinFraction), nil
	case TypeCreationTimestamp:
		return NewCreationTimestamp(entry.MinFraction, entry.MaxOrderAge), nil
	case TypeOwnQuotes:
		return NewOwnQuotes(entry.MinFraction, entry.MaxOrderAge), nil
	default:
		return nil, fmt.Errorf("unknown strategy type %q", entry.Type)
	}
}

// Build returns the strategies for a config's strategy list, in list order
func Build(entries []selectionconfig.Strategy) ([]Strategy, error) {
	strategies := make([]Strategy, 0, len(entries))
	for i, entry := range entries {
		s, err := New(entry)
		if err != nil {
			return nil, fmt.Errorf("strategy %d: %w", i, err)
		}
		strategies = append(strategies, s)
	}
	return strategies, nil
}
