package messages

import "encoding/json"

// Client action types
const (
	MessageTypeClientCreateRoom = "create_room"
	MessageTypeClientJoinRoom   = "join_room"
	MessageTypeClientStartGame  = "start_game"
	MessageTypeClientSubmitClue = "submit_clue"
	MessageTypeClientVote       = "vote_player"
	MessageTypeClientGuessWord  = "impostor_guess"
	MessageTypeClientStealLife  = "steal_life"
	MessageTypeClientDuelAction = "head_to_head_action"
)

// Server event types
const (
	MessageTypeServerRoomJoined      = "room_joined"
	MessageTypeServerRoomUpdate      = "room_update"
	MessageTypeServerPhaseChange     = "phase_change"
	MessageTypeServerTimerTick       = "timer_tick"
	MessageTypeServerYourRole        = "your_role"
	MessageTypeServerSpectatorUpdate = "spectator_update"
	MessageTypeServerClueSubmitted   = "clue_submitted"
	MessageTypeServerGuessResult     = "impostor_guess_result"
	MessageTypeServerBonusCardUsed   = "bonus_card_used"
	MessageTypeServerLifeStolen      = "life_stolen"
	MessageTypeServerRoundEnd        = "round_end"
	MessageTypeServerDuelStart       = "head_to_head_start"
	MessageTypeServerDuelTurn        = "head_to_head_turn"
	MessageTypeServerDuelResult      = "head_to_head_result"
	MessageTypeServerGameOver        = "game_over"
	MessageTypeServerError           = "error"
)

// Message is the generic wire envelope for both directions.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ClientCreateRoom is sent by a client to create a new room.
type ClientCreateRoom struct {
	PlayerName string `json:"playerName"`
}

// ClientJoinRoom is sent by a client to join an existing room.
type ClientJoinRoom struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

// ClientStartGame starts (or restarts) the match in a room.
type ClientStartGame struct {
	RoomID string `json:"roomId"`
}

// ClientSubmitClue carries the acting player's clue.
type ClientSubmitClue struct {
	RoomID string `json:"roomId"`
	Clue   string `json:"clue"`
}

// ClientVote carries a vote for a player id, or the SKIP sentinel.
type ClientVote struct {
	RoomID   string `json:"roomId"`
	TargetID string `json:"targetId"`
}

// ClientGuessWord carries the impostor's word guess.
type ClientGuessWord struct {
	RoomID    string `json:"roomId"`
	WordIndex int    `json:"wordIndex"`
}

// ClientStealLife carries the impostor's victim selection.
type ClientStealLife struct {
	RoomID   string `json:"roomId"`
	TargetID string `json:"targetId"`
}

// ClientDuelAction carries a head-to-head button press.
type ClientDuelAction struct {
	RoomID      string `json:"roomId"`
	ButtonIndex int    `json:"buttonIndex"`
}

// ServerRoomJoined acknowledges room entry with the joiner's client id and
// the broadcast-safe room view.
type ServerRoomJoined struct {
	RoomID    string `json:"roomId"`
	PlayerID  string `json:"playerId"`
	GameState any    `json:"gameState"`
}

// ServerPhaseChange announces a phase transition with a phase-specific payload.
type ServerPhaseChange struct {
	Phase     string   `json:"phase"`
	Reason    string   `json:"reason,omitempty"`
	VotedName string   `json:"votedName,omitempty"`
	Category  string   `json:"category,omitempty"`
	Words     []string `json:"words,omitempty"`
	Clues     any      `json:"clues,omitempty"`
}

// ServerYourRole is the per-player secret sent at round setup. A nil payload
// during the countdown explicitly clears the client's previous role.
type ServerYourRole struct {
	Role        string `json:"role"`
	TargetIndex *int   `json:"targetIndex"`
}

// ServerSpectatorUpdate is the full round secret sent to eliminated players.
type ServerSpectatorUpdate struct {
	TargetIndex int      `json:"targetIndex"`
	ImposterID  string   `json:"imposterId"`
	Words       []string `json:"words"`
}

// ServerClueSubmitted echoes a clue to the room.
type ServerClueSubmitted struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Text       string `json:"text"`
}

// ServerGuessResult reports the outcome of an impostor guess. The target word
// is revealed on success and on a plain failure, but not on a bonus-card retry.
type ServerGuessResult struct {
	Success bool   `json:"success"`
	Word    string `json:"word,omitempty"`
	IsBonus bool   `json:"isBonus,omitempty"`
}

// ServerBonusCardUsed announces that the impostor consumed the bonus card.
type ServerBonusCardUsed struct {
	ImposterID string `json:"imposterId"`
}

// ServerLifeStolen announces the steal-life victim.
type ServerLifeStolen struct {
	VictimID   string `json:"victimId"`
	VictimName string `json:"victimName"`
}

// ServerRoundEnd closes a round with its result and the revealed secrets.
type ServerRoundEnd struct {
	Result       string `json:"result"`
	Reason       string `json:"reason"`
	ImposterID   string `json:"imposterId"`
	TargetWord   string `json:"targetWord"`
	VictimID     string `json:"victimId,omitempty"`
	BonusAwarded bool   `json:"bonusAwarded,omitempty"`
	Players      any    `json:"players"`
}

// ServerDuelStart opens the head-to-head finale.
type ServerDuelStart struct {
	TurnPlayerID string `json:"turnPlayerId"`
	Players      any    `json:"players"`
}

// ServerDuelTurn passes the duel turn.
type ServerDuelTurn struct {
	TurnPlayerID string `json:"turnPlayerId"`
}

// ServerDuelResult reports a single button press.
type ServerDuelResult struct {
	PlayerID    string `json:"playerId"`
	ButtonIndex int    `json:"buttonIndex"`
	IsSafe      bool   `json:"isSafe"`
	Lives       int    `json:"lives"`
}

// ServerGameOver ends the match.
type ServerGameOver struct {
	Winner   string `json:"winner"`
	WinnerID string `json:"winnerId,omitempty"`
	Players  any    `json:"players"`
}

// ServerError carries a user-facing error message.
type ServerError struct {
	Message string `json:"message"`
}
