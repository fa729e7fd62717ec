package selectionconfig

import (
	"fmt"
	"math"
	"slices"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	if cfg.Selection.MaxOrders <= 0 {
		return ValidationError{"selection.max_orders", "must be > 0"}
	}

	for i, st := range cfg.Selection.Strategies {
		field := fmt.Sprintf("selection.strategies[%d]", i)

		typ := NormalizeType(st.Type)
		if !slices.Contains(KnownTypes(), typ) {
			return ValidationError{field + ".type", fmt.Sprintf("unknown strategy type %q", st.Type)}
		}
		if err := validateFraction(st.MinFraction, field+".min_fraction"); err != nil {
			return err
		}
		if st.MaxOrderAge < 0 {
			return ValidationError{field + ".max_order_age", "must be >= 0"}
		}
		if st.MaxOrderAge > 0 && !supportsMaxOrderAge(typ) {
			return ValidationError{field + ".max_order_age", fmt.Sprintf("not supported by %s", typ)}
		}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	// 쿼터 합 > 1: 결과가 max_orders를 넘을 수 있음
	if sum := cfg.Selection.FractionSum(); sum > 1.0 {
		warnings = append(warnings, Warning{
			Code:    "QUOTA_OVERALLOCATION",
			Message: fmt.Sprintf("min_fraction sum %.4f > 1.0: selections may exceed max_orders", sum),
		})
	}

	if len(cfg.Selection.Strategies) == 0 {
		warnings = append(warnings, Warning{
			Code:    "NO_STRATEGIES",
			Message: "no strategies: orders are truncated in auction order",
		})
	}

	seen := make(map[string]bool)
	for _, st := range cfg.Selection.Strategies {
		typ := NormalizeType(st.Type)
		if seen[typ] {
			warnings = append(warnings, Warning{
				Code:    "DUPLICATE_STRATEGY",
				Message: fmt.Sprintf("%s listed more than once", typ),
			})
		}
		seen[typ] = true
	}

	return warnings
}

// === Helper Functions ===

func supportsMaxOrderAge(typ string) bool {
	return typ == TypeCreationTimestamp || typ == TypeOwnQuotes
}

// validateFraction는 비율 값이 0~1 범위인지 검증
func validateFraction(f float64, field string) error {
	if math.IsNaN(f) || f < 0 || f > 1 {
		return ValidationError{field, "must be in range [0, 1]"}
	}
	return nil
}
