package goalg

import "math"

// FixtureExpectation holds the two Poisson rates for a specific fixture
type FixtureExpectation struct {
	LambdaHome float64 `json:"lambdaHome"`
	LambdaAway float64 `json:"lambdaAway"`
}

// ExpectedGoals combines home and away strengths into the two expected goal
// values for a fixture.
// lambdaHome = league avg goals x home attack x away defense x home advantage
// lambdaAway = league avg goals x away attack x home defense
// Both rates are clamped to MinLambda so extreme inputs can never produce a
// degenerate all-mass-at-zero distribution.
func ExpectedGoals(home, away StrengthRating, baseline LeagueBaseline, homeAdvantage float64) FixtureExpectation {
	lambdaHome := baseline.AvgGoals * home.Attack * away.Defense * homeAdvantage
	lambdaAway := baseline.AvgGoals * away.Attack * home.Defense

	if lambdaHome < Config.MinLambda {
		lambdaHome = Config.MinLambda
	}
	if lambdaAway < Config.MinLambda {
		lambdaAway = Config.MinLambda
	}

	return FixtureExpectation{
		LambdaHome: lambdaHome,
		LambdaAway: lambdaAway,
	}
}

// PoissonPMF returns P(X = k) for X ~ Poisson(lambda)
func PoissonPMF(k int, lambda float64) float64 {
	if lambda <= 0 {
		if k == 0 {
			return 1.0
		}
		return 0.0
	}
	// Incremental form of e^-l * l^k / k! avoids the factorial entirely
	term := math.Exp(-lambda)
	for i := 1; i <= k; i++ {
		term *= lambda / float64(i)
	}
	return term
}

// GoalProbabilities returns the Poisson probabilities for goal counts
// 0..maxGoals inclusive, computed with the stable incremental recurrence
// term_k = term_{k-1} * lambda / k starting from term_0 = e^-lambda
func GoalProbabilities(lambda float64, maxGoals int) []float64 {
	probs := make([]float64, maxGoals+1)
	term := math.Exp(-lambda)
	probs[0] = term
	for k := 1; k <= maxGoals; k++ {
		term *= lambda / float64(k)
		probs[k] = term
	}
	return probs
}

// ScoreMatrix is the joint probability grid over bounded goal counts,
// rows = home goals 0..MaxGoals, columns = away goals 0..MaxGoals.
// The two goal processes are modelled as independent Poissons so each cell is
// simply the product of the marginals. Probability mass for scorelines beyond
// the cap is dropped, not folded into the boundary, so the matrix total is
// slightly under 1.0 for high scoring fixtures. Outcome percentages are
// computed from this truncated mass and deliberately NOT renormalized.
type ScoreMatrix struct {
	MaxGoals int         `json:"maxGoals"`
	Cells    [][]float64 `json:"cells"` // [homeGoals][awayGoals] -> probability
}

// BuildScoreMatrix computes the full joint distribution for a fixture
func BuildScoreMatrix(exp FixtureExpectation, maxGoals int) *ScoreMatrix {
	homeProbs := GoalProbabilities(exp.LambdaHome, maxGoals)
	awayProbs := GoalProbabilities(exp.LambdaAway, maxGoals)

	cells := make([][]float64, maxGoals+1)
	for h := 0; h <= maxGoals; h++ {
		cells[h] = make([]float64, maxGoals+1)
		for a := 0; a <= maxGoals; a++ {
			cells[h][a] = homeProbs[h] * awayProbs[a]
		}
	}

	return &ScoreMatrix{
		MaxGoals: maxGoals,
		Cells:    cells,
	}
}

// TotalMass returns the summed probability of every cell in the grid.
// Less than 1.0 by however much mass the goal cap truncated.
func (m *ScoreMatrix) TotalMass() float64 {
	total := 0.0
	for h := range m.Cells {
		for a := range m.Cells[h] {
			total += m.Cells[h][a]
		}
	}
	return total
}
