package entity

// Score fields: results of computer games are counted from the human's side,
// two player games by winning mark.
const (
	ScoreHumanWin    = "human"
	ScoreComputerWin = "computer"
	ScoreXWin        = "x"
	ScoreOWin        = "o"
	ScoreDraw        = "draw"
)

// Score - tally of finished games in one bucket, e.g. "pvc:hard".
type Score struct {
	Bucket string           `json:"bucket"`
	Counts map[string]int64 `json:"counts"`
}
