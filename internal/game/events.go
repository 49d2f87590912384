package game

// GameEventType names a server-to-client event.
type GameEventType string

const (
	EventGameState         GameEventType = "gameState"         // per-player view after every change and every tick
	EventGameOver          GameEventType = "gameOver"          // round ended
	EventGlobalLeaderboard GameEventType = "globalLeaderboard" // win counts changed
)

// GameEvent is the envelope every server-to-client message is sent in.
type GameEvent struct {
	Type    GameEventType `json:"type"`
	Payload interface{}   `json:"payload,omitempty"`
}

// GameOverPayload names the winner of a finished round.
type GameOverPayload struct {
	Winner string `json:"winner"`
}

// Action types recorded to the action log.
const (
	ActionGameStart     = "game_start"
	ActionPlayerJoin    = "player_join"
	ActionPlayCard      = "action_play_card"
	ActionDrawCard      = "action_draw_card"
	ActionChooseColor   = "action_choose_color"
	ActionPenaltyDraw   = "penalty_draw"
	ActionTimeoutDraw   = "player_timeout"
	ActionAutoColorPick = "auto_color_pick"
	ActionDisconnect    = "player_disconnect"
	ActionDeckRecycle   = "deck_recycle"
	ActionDeckExhausted = "deck_exhausted"
	ActionEndGame       = "action_end_game"
)
