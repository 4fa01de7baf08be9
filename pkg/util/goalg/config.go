package goalg

import "fmt"

// GoalgConfig contains all configurable parameters that influence prediction outcomes
// This centralizes all magic numbers and constants for easy adjustment
type GoalgConfig struct {
	// Database and cache parameters
	GoalgAssetsPath string // The base directory of assets relating to goalgorithm
	GoalgDbPath     string // The location of the sqlite database holding cached team stats

	// === CORE PREDICTION PARAMETERS ===

	MaxGoals      int     // Cap on modelled goals per side, grid is 0..MaxGoals inclusive (default: 5)
	HomeAdvantage float64 // Multiplicative boost to the home side's expected goals (default: 1.15)
	MinLambda     float64 // Floor on expected goals to avoid degenerate distributions (default: 0.05)
	TopScoreCount int     // Number of most likely scorelines reported (default: 3)

	// === LEAGUE BASELINE ===

	DefaultLeagueAverage float64 // Fallback per-match average when a league snapshot is empty (default: 1.3)

	// === DATA SOURCE ===

	UnderstatBaseURL string // Understat JSON endpoint base
	UnderstatSiteURL string // Understat site base, used by the HTML fallback
	CacheTTLHours    int    // Hours before cached league data is considered stale (default: 12)
}

// DefaultGoalgConfig returns the default configuration with all standard values
func DefaultGoalgConfig() *GoalgConfig {
	goalgAssetsPath := "/tmp/.goalgorithm/"
	config := &GoalgConfig{
		GoalgAssetsPath: goalgAssetsPath,
		GoalgDbPath:     goalgAssetsPath + "goalgorithm.db",

		// === CORE PREDICTION PARAMETERS ===
		MaxGoals:      5,
		HomeAdvantage: 1.15,
		MinLambda:     0.05,
		TopScoreCount: 3,

		// === LEAGUE BASELINE ===
		DefaultLeagueAverage: 1.3,

		// === DATA SOURCE ===
		UnderstatBaseURL: "https://understat.com/getLeagueData/",
		UnderstatSiteURL: "https://understat.com/league/",
		CacheTTLHours:    12,
	}

	return config
}

// Global configuration instance
var Config *GoalgConfig

// init initializes the global configuration with default values
func init() {
	Config = DefaultGoalgConfig()
}

// UpdateConfig allows updating the global configuration
func UpdateConfig(newConfig *GoalgConfig) {
	Config = newConfig
}

// ValidateConfig ensures all configuration values are within reasonable ranges
func ValidateConfig(config *GoalgConfig) error {
	if config.MaxGoals < 3 {
		return fmt.Errorf("MaxGoals should be at least 3 to capture realistic scores, got: %d", config.MaxGoals)
	}

	if config.HomeAdvantage < 1.0 || config.HomeAdvantage > 1.5 {
		return fmt.Errorf("HomeAdvantage should be between 1.0 and 1.5, got: %f", config.HomeAdvantage)
	}

	if config.MinLambda <= 0.0 || config.MinLambda > 0.5 {
		return fmt.Errorf("MinLambda should be a small positive value, got: %f", config.MinLambda)
	}

	if config.TopScoreCount < 1 {
		return fmt.Errorf("TopScoreCount should be at least 1, got: %d", config.TopScoreCount)
	}

	if config.CacheTTLHours < 1 {
		return fmt.Errorf("CacheTTLHours should be at least 1, got: %d", config.CacheTTLHours)
	}

	return nil
}

// === HELPER FUNCTIONS FOR EASY ACCESS ===

// GetMaxGoals returns the cap on modelled goals per side
func GetMaxGoals() int {
	return Config.MaxGoals
}

// GetHomeAdvantage returns the home advantage multiplier
func GetHomeAdvantage() float64 {
	return Config.HomeAdvantage
}

// GetTopScoreCount returns the number of scorelines reported
func GetTopScoreCount() int {
	return Config.TopScoreCount
}
