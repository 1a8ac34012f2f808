package constants

const (
	// MaxLives is the life cap for every player.
	MaxLives = 3
	// MinPlayers is the minimum number of living players to start a match.
	MinPlayers = 3

	// CountdownSeconds is the pre-round countdown during which all round
	// secrets are withheld from clients.
	CountdownSeconds = 3
	// SetupDelaySeconds is the pause between the setup reveal and the first clue turn.
	SetupDelaySeconds = 3
	// ClueSeconds is each player's clue budget.
	ClueSeconds = 20
	// ClueGraceSeconds tolerates late clue submissions past zero before the
	// placeholder is auto-submitted.
	ClueGraceSeconds = 2
	// VoteSeconds is the voting budget.
	VoteSeconds = 30
	// VoteAllInSeconds is the shortened window once every living player has voted.
	VoteAllInSeconds = 5
	// StealSeconds is the impostor's window to pick a victim.
	StealSeconds = 10
	// RevealDelaySeconds is the pause used to display a guess result.
	RevealDelaySeconds = 3
	// RoundEndDelaySeconds is the pause between a round ending and the next starting.
	RoundEndDelaySeconds = 5
	// DuelTurnDelaySeconds is the pause between duel turns.
	DuelTurnDelaySeconds = 2
	// DuelDeathDelaySeconds is the pause between a duel death and game over.
	DuelDeathDelaySeconds = 2
	// ResetDelaySeconds is the pause between game over and the automatic
	// reset back to the lobby.
	ResetDelaySeconds = 10

	// PlaceholderClue is auto-submitted when a clue turn times out.
	PlaceholderClue = "no clue"

	// VoteSkip is the vote sentinel for abstaining.
	VoteSkip = "SKIP"
)
