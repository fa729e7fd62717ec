package selectionconfig

import (
	"strings"
	"time"
)

// Strategy type names accepted in the config
const (
	TypeExternalPrice     = "external-price"
	TypeExternalSurplus   = "external-surplus"
	TypeCreationTimestamp = "creation-timestamp"
	TypeOwnQuotes         = "own-quotes"
)

// KnownTypes lists every strategy type in the order they are documented
func KnownTypes() []string {
	return []string{TypeExternalPrice, TypeExternalSurplus, TypeCreationTimestamp, TypeOwnQuotes}
}

// NormalizeType folds a configured type name to its canonical spelling
// ("Own-Quotes " → "own-quotes"). Validation and strategy construction both
// go through it, so they accept the same names.
func NormalizeType(typ string) string {
	return strings.ToLower(strings.TrimSpace(typ))
}

// Config는 주문 선별(우선순위) 설정 전체
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Selection Selection `yaml:"selection" json:"selection"`
}

// Meta 메타 정보
type Meta struct {
	ConfigID string `yaml:"config_id" json:"config_id"`
	Version  string `yaml:"version" json:"version"`
}

// Selection bounds how many orders go to the solver and how they are ranked
type Selection struct {
	MaxOrders  int        `yaml:"max_orders" json:"max_orders"`
	Strategies []Strategy `yaml:"strategies" json:"strategies"`
}

// Strategy is one entry of the strategy list. List order is ranking priority.
type Strategy struct {
	Type        string        `yaml:"type" json:"type"`
	MinFraction float64       `yaml:"min_fraction" json:"min_fraction"`
	// MaxOrderAge limits the age windowed strategies look at. 0 (or omitted)
	// disables the window; a zero-length window cannot be configured.
	MaxOrderAge time.Duration `yaml:"max_order_age,omitempty" json:"max_order_age,omitempty"`
}

// FractionSum is the total share of the order budget reserved by quotas
func (s Selection) FractionSum() float64 {
	sum := 0.0
	for _, st := range s.Strategies {
		sum += st.MinFraction
	}
	return sum
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Meta: Meta{
			ConfigID: "default",
			Version:  "1",
		},
		Selection: Selection{
			MaxOrders: 500,
			Strategies: []Strategy{
				{Type: TypeOwnQuotes, MinFraction: 0.1, MaxOrderAge: 10 * time.Minute},
				{Type: TypeCreationTimestamp, MinFraction: 0.2, MaxOrderAge: 10 * time.Minute},
				{Type: TypeExternalPrice},
			},
		},
	}
}
