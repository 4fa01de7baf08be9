package goalg

import "sort"

// Scoreline is one (home goals, away goals) cell with its probability
type Scoreline struct {
	Home        int     `json:"home"`
	Away        int     `json:"away"`
	Probability float64 `json:"probability"`
}

// PredictionResult is the final prediction payload. Pure output value,
// no identity, never mutated after construction.
type PredictionResult struct {
	HomeTeam string `json:"homeTeam"`
	AwayTeam string `json:"awayTeam"`

	HomeWin float64 `json:"homeWin"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"awayWin"`

	Over2p5  float64 `json:"over2p5"`
	Under2p5 float64 `json:"under2p5"`

	BttsYes float64 `json:"bttsYes"`
	BttsNo  float64 `json:"bttsNo"`

	// The model's lambda parameters passed straight through,
	// not recomputed from the truncated matrix
	ExpectedHomeGoals float64 `json:"expectedHomeGoals"`
	ExpectedAwayGoals float64 `json:"expectedAwayGoals"`

	TopScores []Scoreline `json:"topScores"`

	Matrix *ScoreMatrix `json:"matrix,omitempty"`
}

// ReduceMatrix aggregates the score grid into win/draw/loss, over/under,
// both-teams-to-score and the top-N most likely scorelines.
// Every figure is a straight sum over the grid: home win is the lower
// triangle, draw the diagonal, away win the upper triangle, so the three
// always sum to exactly the matrix's covered mass. Over 2.5 and under 2.5
// partition the same mass at three total goals.
func ReduceMatrix(matrix *ScoreMatrix, exp FixtureExpectation, topN int) *PredictionResult {
	var homeWin, draw, awayWin float64
	var over, under float64
	var bttsYes, bttsNo float64

	scores := make([]Scoreline, 0, (matrix.MaxGoals+1)*(matrix.MaxGoals+1))

	for h := 0; h <= matrix.MaxGoals; h++ {
		for a := 0; a <= matrix.MaxGoals; a++ {
			prob := matrix.Cells[h][a]

			if h > a {
				homeWin += prob
			} else if h == a {
				draw += prob
			} else {
				awayWin += prob
			}

			if h+a >= 3 {
				over += prob
			} else {
				under += prob
			}

			if h >= 1 && a >= 1 {
				bttsYes += prob
			} else {
				bttsNo += prob
			}

			scores = append(scores, Scoreline{Home: h, Away: a, Probability: prob})
		}
	}

	// Probability descending, ties broken by lower total goals then lower
	// home goals so the ordering is deterministic
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Probability != scores[j].Probability {
			return scores[i].Probability > scores[j].Probability
		}
		ti := scores[i].Home + scores[i].Away
		tj := scores[j].Home + scores[j].Away
		if ti != tj {
			return ti < tj
		}
		return scores[i].Home < scores[j].Home
	})

	if topN > len(scores) {
		topN = len(scores)
	}
	top := make([]Scoreline, topN)
	copy(top, scores[:topN])

	return &PredictionResult{
		HomeWin:           homeWin,
		Draw:              draw,
		AwayWin:           awayWin,
		Over2p5:           over,
		Under2p5:          under,
		BttsYes:           bttsYes,
		BttsNo:            bttsNo,
		ExpectedHomeGoals: exp.LambdaHome,
		ExpectedAwayGoals: exp.LambdaAway,
		TopScores:         top,
		Matrix:            matrix,
	}
}
