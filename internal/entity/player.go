package entity

import "github.com/rocketscienceinc/voice-tictactoe/internal/tictactoe"

const (
	KindHuman    = "human"
	KindComputer = "computer"
)

type Player struct {
	Kind string         `json:"kind"`
	Mark tictactoe.Mark `json:"mark"`
}

func (that *Player) IsBot() bool {
	return that.Kind == KindComputer
}

// NewPlayers - X first; in a two player game both sides are human.
func NewPlayers(settings Settings) []*Player {
	if !settings.IsWithBot() {
		return []*Player{
			{Kind: KindHuman, Mark: tictactoe.X},
			{Kind: KindHuman, Mark: tictactoe.O},
		}
	}

	human := &Player{Kind: KindHuman, Mark: settings.HumanMark}
	computer := &Player{Kind: KindComputer, Mark: settings.AIMark()}

	if computer.Mark == tictactoe.X {
		return []*Player{computer, human}
	}
	return []*Player{human, computer}
}
