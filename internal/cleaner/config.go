package cleaner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Strategy selects how missing numeric cells are filled.
type Strategy string

const (
	StrategyMean   Strategy = "mean"
	StrategyMedian Strategy = "median"
	StrategyMode   Strategy = "mode"
)

// DefaultOutlierThreshold is the z-score cutoff used when none is given.
const DefaultOutlierThreshold = 3.0

// ErrInvalidConfig is returned by New when Config fails validation.
var ErrInvalidConfig = errors.New("invalid cleaner config")

// Config is fixed for the lifetime of a Cleaner.
type Config struct {
	Strategy         Strategy `validate:"oneof=mean median mode" yaml:"strategy" json:"strategy"`
	OutlierThreshold float64  `validate:"gt=0" yaml:"outlier_threshold" json:"outlier_threshold"`
}

// DefaultConfig returns mean imputation with a z-score cutoff of 3.
func DefaultConfig() Config {
	return Config{Strategy: StrategyMean, OutlierThreshold: DefaultOutlierThreshold}
}

// ParseStrategy accepts mean|median|mode in any case.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyMean, StrategyMedian, StrategyMode:
		return st, nil
	default:
		return "", fmt.Errorf("unsupported strategy %q (use mean|median|mode): %w", s, ErrInvalidConfig)
	}
}

var validate = validator.New()

// Validate checks the strategy and threshold.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (got %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), ErrInvalidConfig)
		}
		return fmt.Errorf("%v: %w", err, ErrInvalidConfig)
	}
	return nil
}
