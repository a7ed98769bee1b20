package apperror

import "errors"

var (
	ErrGameFinished      = errors.New("game is already finished")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrInvalidCell       = errors.New("invalid cell index")
	ErrMoveNotUnderstood = errors.New("move not understood")
	ErrAlreadyListening  = errors.New("already listening")
	ErrVoiceUnavailable  = errors.New("voice input is not available")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionClosed     = errors.New("session is closed")
	ErrInvalidSettings   = errors.New("invalid game settings")
)
