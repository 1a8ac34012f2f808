package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sospetto-game/server/pkg/codes"
	"github.com/sospetto-game/server/pkg/game/constants"
	"github.com/sospetto-game/server/pkg/log"
	"github.com/sospetto-game/server/pkg/messages"
	"github.com/sospetto-game/server/pkg/words"
)

// Messenger delivers already-built messages to clients. Implementations must
// be safe for concurrent use and must not call back into the Manager, since
// the Manager invokes them while holding room locks.
type Messenger interface {
	Unicast(clientID string, msg *messages.Message)
	Broadcast(roomID string, msg *messages.Message)
	AddToRoom(clientID string, roomID string)
	RemoveFromRoom(clientID string, roomID string)
}

// User-facing rejection reasons. These travel to clients verbatim in error
// events, so they are worded for players, not operators.
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrAlreadyInRoom    = errors.New("already in a room")
	ErrNameRequired     = errors.New("player name is required")
	ErrNameTaken        = errors.New("that name is already taken")
	ErrNotInRoom        = errors.New("player is not in this room")
	ErrNotHost          = errors.New("only the host can do that")
	ErrGameInProgress   = errors.New("game already in progress")
	ErrNotEnoughPlayers = errors.New("need at least 3 players to start")
	ErrWrongPhase       = errors.New("action not valid in the current phase")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrInvalidTarget    = errors.New("invalid target")
)

// Manager owns every room and drives the match state machine. All room
// mutation happens in its action handlers and timer callbacks, each of which
// runs to completion under the room's lock.
type Manager struct {
	messenger  Messenger
	categories []words.Category
	codes      *codes.Generator
	timing     Timing

	mu          sync.RWMutex
	rooms       map[string]*Room
	memberRooms map[string]string
}

// NewManagerOptions are the options for creating a new Manager.
type NewManagerOptions struct {
	Messenger  Messenger
	Categories []words.Category
	Codes      *codes.Generator
	Timing     Timing
}

// NewManager creates a new Manager with the given options.
func NewManager(opts NewManagerOptions) *Manager {
	return &Manager{
		messenger:   opts.Messenger,
		categories:  opts.Categories,
		codes:       opts.Codes,
		timing:      opts.Timing,
		rooms:       make(map[string]*Room),
		memberRooms: make(map[string]string),
	}
}

// HandleMessage decodes and dispatches one client message. Rejections are
// reported back to the sender as error events; malformed payloads are logged
// and dropped.
func (m *Manager) HandleMessage(clientID string, msg *messages.Message) {
	var err error
	switch msg.Type {
	case messages.MessageTypeClientCreateRoom:
		var p messages.ClientCreateRoom
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			_, err = m.CreateRoom(clientID, p.PlayerName)
		}
	case messages.MessageTypeClientJoinRoom:
		var p messages.ClientJoinRoom
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			err = m.JoinRoom(clientID, p.RoomID, p.PlayerName)
		}
	case messages.MessageTypeClientStartGame:
		var p messages.ClientStartGame
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			err = m.StartGame(clientID, p.RoomID)
		}
	case messages.MessageTypeClientSubmitClue:
		var p messages.ClientSubmitClue
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			err = m.SubmitClue(clientID, p.RoomID, p.Clue)
		}
	case messages.MessageTypeClientVote:
		var p messages.ClientVote
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			err = m.CastVote(clientID, p.RoomID, p.TargetID)
		}
	case messages.MessageTypeClientGuessWord:
		var p messages.ClientGuessWord
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			err = m.GuessWord(clientID, p.RoomID, p.WordIndex)
		}
	case messages.MessageTypeClientStealLife:
		var p messages.ClientStealLife
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			err = m.StealLife(clientID, p.RoomID, p.TargetID)
		}
	case messages.MessageTypeClientDuelAction:
		var p messages.ClientDuelAction
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			err = m.DuelAction(clientID, p.RoomID, p.ButtonIndex)
		}
	default:
		log.Warn("unknown message type %s from client %s", msg.Type, clientID)
		return
	}

	if err != nil {
		log.Debug("client %s action %s rejected: %v", clientID, msg.Type, err)
		m.sendError(clientID, err.Error())
	}
}

// CreateRoom creates a new room with the creator as its host and returns the
// room code.
func (m *Manager) CreateRoom(clientID string, playerName string) (string, error) {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return "", ErrNameRequired
	}

	m.mu.Lock()
	if _, ok := m.memberRooms[clientID]; ok {
		m.mu.Unlock()
		return "", ErrAlreadyInRoom
	}
	code, err := m.codes.Generate()
	if err != nil {
		m.mu.Unlock()
		return "", fmt.Errorf("failed to generate room code: %w", err)
	}
	r := newRoom(code)
	r.Players = append(r.Players, newPlayer(clientID, playerName, true))
	m.rooms[code] = r
	m.memberRooms[clientID] = code
	m.mu.Unlock()

	m.messenger.AddToRoom(clientID, code)

	r.mu.Lock()
	view := r.safeView()
	r.mu.Unlock()
	m.unicast(clientID, messages.MessageTypeServerRoomJoined, messages.ServerRoomJoined{
		RoomID:    code,
		PlayerID:  clientID,
		GameState: view,
	})

	log.Info("room %s created by %s", code, playerName)
	return code, nil
}

// JoinRoom adds a client to an existing lobby under a name unique within the
// room.
func (m *Manager) JoinRoom(clientID string, roomID string, playerName string) error {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return ErrNameRequired
	}
	code := strings.ToUpper(strings.TrimSpace(roomID))

	m.mu.Lock()
	if _, ok := m.memberRooms[clientID]; ok {
		m.mu.Unlock()
		return ErrAlreadyInRoom
	}
	r, ok := m.rooms[code]
	m.mu.Unlock()
	if !ok {
		return ErrRoomNotFound
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRoomNotFound
	}
	if r.Phase != PhaseLobby {
		r.mu.Unlock()
		return ErrGameInProgress
	}
	for _, p := range r.Players {
		if strings.EqualFold(p.Name, playerName) {
			r.mu.Unlock()
			return ErrNameTaken
		}
	}
	r.Players = append(r.Players, newPlayer(clientID, playerName, len(r.Players) == 0))
	view := r.safeView()
	r.mu.Unlock()

	m.mu.Lock()
	m.memberRooms[clientID] = code
	m.mu.Unlock()

	m.messenger.AddToRoom(clientID, code)
	m.unicast(clientID, messages.MessageTypeServerRoomJoined, messages.ServerRoomJoined{
		RoomID:    code,
		PlayerID:  clientID,
		GameState: view,
	})
	m.broadcast(code, messages.MessageTypeServerRoomUpdate, view)

	log.Info("player %s joined room %s", playerName, code)
	return nil
}

// StartGame begins a match from the lobby, or restarts one from the game-over
// screen before the automatic reset fires. Host only.
func (m *Manager) StartGame(clientID string, roomID string) error {
	return m.withRoom(roomID, func(r *Room) error {
		if r.Phase == PhaseGameOver {
			// Reclaim departed seats first so a host who left mid-match
			// cannot block the restart.
			r.pruneDisconnected()
		}
		p := r.findPlayer(clientID)
		if p == nil {
			return ErrNotInRoom
		}
		if !p.IsHost {
			return ErrNotHost
		}
		switch r.Phase {
		case PhaseLobby:
		case PhaseGameOver:
			r.resetForLobby()
		default:
			return ErrGameInProgress
		}
		if len(r.livingPlayers()) < constants.MinPlayers {
			return ErrNotEnoughPlayers
		}
		if len(m.categories) == 0 {
			return errors.New("no word categories are loaded")
		}
		log.Info("room %s starting a match with %d players", r.ID, len(r.Players))
		m.beginRound(r)
		return nil
	})
}

// SubmitClue records the acting player's clue and passes the turn. Only the
// player whose turn it is may submit.
func (m *Manager) SubmitClue(clientID string, roomID string, text string) error {
	return m.withRoom(roomID, func(r *Room) error {
		if r.Phase != PhaseClue {
			return ErrWrongPhase
		}
		p := r.findPlayer(clientID)
		if p == nil {
			return ErrNotInRoom
		}
		if r.CurrentTurnIndex < 0 || r.CurrentTurnIndex >= len(r.Players) ||
			r.Players[r.CurrentTurnIndex].ID != clientID {
			return ErrNotYourTurn
		}
		text = strings.TrimSpace(text)
		if text == "" {
			text = constants.PlaceholderClue
		}
		r.cancelTimer()
		m.applyClue(r, p, text)
		return nil
	})
}

// CastVote records or overwrites a living player's vote. Once every living
// player has voted the remaining vote time collapses to a short window.
func (m *Manager) CastVote(clientID string, roomID string, targetID string) error {
	return m.withRoom(roomID, func(r *Room) error {
		if r.Phase != PhaseVote {
			return ErrWrongPhase
		}
		voter := r.findPlayer(clientID)
		if voter == nil {
			return ErrNotInRoom
		}
		if !voter.IsAlive() {
			return ErrWrongPhase
		}
		if targetID != constants.VoteSkip {
			target := r.findPlayer(targetID)
			if target == nil || !target.IsAlive() {
				return ErrInvalidTarget
			}
		}

		r.Votes[clientID] = targetID
		r.tallyVotes()

		living := r.livingPlayers()
		if len(r.Votes) >= len(living) && r.TimerRemaining > m.timing.VoteAllInSeconds {
			r.TimerRemaining = m.timing.VoteAllInSeconds
			m.broadcastTick(r)
		}
		m.broadcastRoom(r)
		return nil
	})
}

// GuessWord resolves the impostor's word guess. A wrong guess with a bonus
// card in hand consumes the card and leaves the impostor guessing again; a
// wrong guess without one costs a life and hands the round to the innocents.
func (m *Manager) GuessWord(clientID string, roomID string, wordIndex int) error {
	return m.withRoom(roomID, func(r *Room) error {
		if r.Phase != PhaseResolution {
			return ErrWrongPhase
		}
		if clientID != r.ImposterID {
			return ErrNotYourTurn
		}
		if wordIndex < 0 || wordIndex >= len(r.Words) {
			return ErrInvalidTarget
		}

		if wordIndex == r.TargetIndex {
			m.broadcast(r.ID, messages.MessageTypeServerGuessResult, messages.ServerGuessResult{
				Success: true,
				Word:    r.Words[r.TargetIndex],
			})
			// The guess is decided; leave RESOLUTION at once so no further
			// guess can overturn it during the reveal pause.
			r.Phase = PhaseStealLife
			r.StealReason = ReasonWordGuessed
			m.broadcastRoom(r)
			r.scheduleAfter(m.timing.RevealDelay, PhaseStealLife, func() {
				m.enterStealLife(r, ReasonWordGuessed, "")
			})
			return nil
		}

		if imp := r.imposter(); imp != nil && imp.HasBonusCard {
			imp.HasBonusCard = false
			m.broadcast(r.ID, messages.MessageTypeServerGuessResult, messages.ServerGuessResult{
				Success: false,
				IsBonus: true,
			})
			m.broadcast(r.ID, messages.MessageTypeServerBonusCardUsed, messages.ServerBonusCardUsed{
				ImposterID: r.ImposterID,
			})
			m.broadcastRoom(r)
			return nil
		}

		m.broadcast(r.ID, messages.MessageTypeServerGuessResult, messages.ServerGuessResult{
			Success: false,
			Word:    r.Words[r.TargetIndex],
		})
		if imp := r.imposter(); imp != nil {
			m.deductLife(r, imp)
		}
		// Decided the other way; the round is over, only the report waits.
		r.Phase = PhaseRoundEnd
		m.broadcastRoom(r)
		r.scheduleAfter(m.timing.RevealDelay, PhaseRoundEnd, func() {
			m.endRound(r, RoundResultInnocentsWin, ReasonImpostorFailed, "", false)
		})
		return nil
	})
}

// StealLife resolves the impostor's victim choice. An invalid target leaves
// the steal timer running.
func (m *Manager) StealLife(clientID string, roomID string, targetID string) error {
	return m.withRoom(roomID, func(r *Room) error {
		if r.Phase != PhaseStealLife {
			return ErrWrongPhase
		}
		if clientID != r.ImposterID {
			return ErrNotYourTurn
		}
		victim := r.findPlayer(targetID)
		if victim == nil || !victim.IsAlive() || victim.ID == r.ImposterID {
			return ErrInvalidTarget
		}
		r.cancelTimer()
		m.resolveSteal(r, victim)
		return nil
	})
}

// HandleDisconnect removes a departed client from its room. Lobby departures
// shrink the roster (handing off host if needed); mid-match departures keep
// the seat so the round's timers can carry it.
func (m *Manager) HandleDisconnect(clientID string) {
	m.mu.Lock()
	roomID, ok := m.memberRooms[clientID]
	if ok {
		delete(m.memberRooms, clientID)
	}
	r := m.rooms[roomID]
	m.mu.Unlock()
	if r == nil {
		return
	}

	m.messenger.RemoveFromRoom(clientID, roomID)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	if r.Phase != PhaseLobby {
		// Mid-match the seat stays so the round's timers can carry it; the
		// flag gets it reclaimed at the next return to the lobby.
		if p := r.findPlayer(clientID); p != nil {
			p.Disconnected = true
			m.broadcastRoom(r)
		}
		log.Info("client %s disconnected mid-match from room %s", clientID, roomID)
		r.mu.Unlock()
		return
	}

	wasHost := false
	for i, p := range r.Players {
		if p.ID == clientID {
			wasHost = p.IsHost
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			break
		}
	}

	if len(r.Players) == 0 {
		m.destroyRoom(r)
		r.mu.Unlock()
		return
	}

	if wasHost {
		r.Players[0].IsHost = true
		log.Info("room %s host left, %s is the new host", roomID, r.Players[0].Name)
	}
	m.broadcastRoom(r)
	r.mu.Unlock()
}

// RoomViews returns the broadcast-safe view of every open room, ordered by
// room code.
func (m *Manager) RoomViews() []RoomView {
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	views := make([]RoomView, 0, len(rooms))
	for _, r := range rooms {
		r.mu.Lock()
		if !r.closed {
			views = append(views, r.safeView())
		}
		r.mu.Unlock()
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views
}

// withRoom runs fn under the room's lock, if the room exists.
func (m *Manager) withRoom(roomID string, fn func(r *Room) error) error {
	m.mu.RLock()
	r, ok := m.rooms[strings.ToUpper(strings.TrimSpace(roomID))]
	m.mu.RUnlock()
	if !ok {
		return ErrRoomNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRoomNotFound
	}
	return fn(r)
}

// beginRound draws a fresh round and runs the countdown. Round secrets exist
// from this moment but are withheld from every broadcast and unicast until
// the countdown ends.
func (m *Manager) beginRound(r *Room) {
	r.selectRound(m.categories)
	r.Phase = PhaseCountdown
	r.Clues = nil
	r.Votes = make(map[string]string)
	r.StealReason = ReasonNone

	m.broadcast(r.ID, messages.MessageTypeServerPhaseChange, messages.ServerPhaseChange{
		Phase: string(PhaseCountdown),
	})
	m.broadcastRoom(r)
	// Clear any role left over from the previous round on every client.
	for _, p := range r.Players {
		m.unicast(p.ID, messages.MessageTypeServerYourRole, nil)
	}

	r.TimerRemaining = m.timing.CountdownSeconds
	m.broadcastTick(r)
	r.startCountdown(m.timing.TickInterval, func() bool {
		r.TimerRemaining--
		if r.TimerRemaining <= 0 {
			m.proceedToSetup(r)
			return true
		}
		m.broadcastTick(r)
		return false
	})
}

// proceedToSetup publishes the category and word grid, hands each player
// their secret, and schedules the clue phase.
func (m *Manager) proceedToSetup(r *Room) {
	r.Phase = PhaseSetup
	r.CurrentTurnIndex = -1
	r.TimerRemaining = 0

	m.broadcast(r.ID, messages.MessageTypeServerPhaseChange, messages.ServerPhaseChange{
		Phase:    string(PhaseSetup),
		Category: r.Category,
		Words:    r.wordsCopy(),
	})
	m.broadcastRoom(r)

	for _, p := range r.Players {
		switch {
		case !p.IsAlive():
			m.unicast(p.ID, messages.MessageTypeServerYourRole, messages.ServerYourRole{
				Role: string(RoleSpectator),
			})
			m.sendSpectatorSecrets(r, p.ID)
		case p.Role == RoleImpostor:
			m.unicast(p.ID, messages.MessageTypeServerYourRole, messages.ServerYourRole{
				Role: string(RoleImpostor),
			})
		default:
			idx := r.TargetIndex
			m.unicast(p.ID, messages.MessageTypeServerYourRole, messages.ServerYourRole{
				Role:        string(RoleInnocent),
				TargetIndex: &idx,
			})
		}
	}

	r.scheduleAfter(m.timing.SetupDelay, PhaseSetup, func() {
		m.startCluePhase(r)
	})
}

func (m *Manager) startCluePhase(r *Room) {
	r.Phase = PhaseClue
	r.CurrentTurnIndex = -1
	m.broadcast(r.ID, messages.MessageTypeServerPhaseChange, messages.ServerPhaseChange{
		Phase: string(PhaseClue),
	})
	m.nextTurn(r)
}

// nextTurn advances to the next living player, or to voting once the order is
// exhausted. Each turn gets a fresh clue countdown with a short grace window
// past zero before a placeholder clue is auto-submitted.
func (m *Manager) nextTurn(r *Room) {
	var current *Player
	for {
		r.CurrentTurnIndex++
		if r.CurrentTurnIndex >= len(r.Players) {
			m.startVotingPhase(r)
			return
		}
		current = r.Players[r.CurrentTurnIndex]
		if current.IsAlive() {
			break
		}
	}

	r.TimerRemaining = m.timing.ClueSeconds
	m.broadcastRoom(r)
	m.broadcastTick(r)

	currentID := current.ID
	r.startCountdown(m.timing.TickInterval, func() bool {
		r.TimerRemaining--
		if r.TimerRemaining <= -m.timing.ClueGraceSeconds {
			if p := r.findPlayer(currentID); p != nil {
				m.applyClue(r, p, constants.PlaceholderClue)
			} else {
				m.nextTurn(r)
			}
			return true
		}
		m.broadcastTick(r)
		return false
	})
}

func (m *Manager) applyClue(r *Room, p *Player, text string) {
	r.Clues = append(r.Clues, Clue{PlayerID: p.ID, PlayerName: p.Name, Text: text})
	m.broadcast(r.ID, messages.MessageTypeServerClueSubmitted, messages.ServerClueSubmitted{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Text:       text,
	})
	m.nextTurn(r)
}

func (m *Manager) startVotingPhase(r *Room) {
	r.Phase = PhaseVote
	r.Votes = make(map[string]string)
	for _, p := range r.Players {
		p.VotesReceived = 0
	}

	m.broadcast(r.ID, messages.MessageTypeServerPhaseChange, messages.ServerPhaseChange{
		Phase: string(PhaseVote),
		Clues: append([]Clue(nil), r.Clues...),
	})
	r.TimerRemaining = m.timing.VoteSeconds
	m.broadcastRoom(r)
	m.broadcastTick(r)

	r.startCountdown(m.timing.TickInterval, func() bool {
		r.TimerRemaining--
		if r.TimerRemaining <= 0 {
			for _, p := range r.livingPlayers() {
				if _, voted := r.Votes[p.ID]; !voted {
					r.Votes[p.ID] = constants.VoteSkip
				}
			}
			m.resolveVotes(r)
			return true
		}
		m.broadcastTick(r)
		return false
	})
}

// resolveVotes applies the strict-majority rule: a player is voted out only
// when more than half the living players name them. Skips count toward
// turnout but never toward a candidate.
func (m *Manager) resolveVotes(r *Room) {
	r.tallyVotes()

	living := len(r.livingPlayers())
	elected := ""
	for _, p := range r.Players {
		if p.VotesReceived*2 > living {
			elected = p.ID
			break
		}
	}

	switch {
	case elected == "":
		m.enterStealLife(r, ReasonNoMajority, "")
	case elected == r.ImposterID:
		r.Phase = PhaseResolution
		r.TimerRemaining = 0
		m.broadcast(r.ID, messages.MessageTypeServerPhaseChange, messages.ServerPhaseChange{
			Phase: string(PhaseResolution),
		})
		m.broadcastRoom(r)
	default:
		votedName := ""
		if p := r.findPlayer(elected); p != nil {
			votedName = p.Name
		}
		m.enterStealLife(r, ReasonInnocentVoted, votedName)
	}
}

// enterStealLife opens the impostor's steal window with the reason the round
// swung their way. The reason is carried through to the round-end report.
func (m *Manager) enterStealLife(r *Room, reason Reason, votedName string) {
	r.Phase = PhaseStealLife
	r.StealReason = reason

	m.broadcast(r.ID, messages.MessageTypeServerPhaseChange, messages.ServerPhaseChange{
		Phase:     string(PhaseStealLife),
		Reason:    string(reason),
		VotedName: votedName,
	})
	r.TimerRemaining = m.timing.StealSeconds
	m.broadcastRoom(r)
	m.broadcastTick(r)

	r.startCountdown(m.timing.TickInterval, func() bool {
		r.TimerRemaining--
		if r.TimerRemaining <= 0 {
			m.stealLifeTimeout(r)
			return true
		}
		m.broadcastTick(r)
		return false
	})
}

// resolveSteal takes a life from the victim and pays the impostor: one life
// up to the cap, or the bonus card when already at it.
func (m *Manager) resolveSteal(r *Room, victim *Player) {
	m.broadcast(r.ID, messages.MessageTypeServerLifeStolen, messages.ServerLifeStolen{
		VictimID:   victim.ID,
		VictimName: victim.Name,
	})
	m.deductLife(r, victim)

	bonusAwarded := false
	if imp := r.imposter(); imp != nil {
		if imp.Lives >= constants.MaxLives {
			imp.HasBonusCard = true
			bonusAwarded = true
		} else {
			imp.Lives++
		}
	}

	reason := r.StealReason
	if reason == ReasonNone {
		reason = ReasonNoMajority
	}
	m.endRound(r, RoundResultImpostorWin, reason, victim.ID, bonusAwarded)
}

// stealLifeTimeout punishes an impostor who let the steal window lapse.
func (m *Manager) stealLifeTimeout(r *Room) {
	if imp := r.imposter(); imp != nil {
		m.deductLife(r, imp)
	}
	m.endRound(r, RoundResultInnocentsWin, ReasonStealTimeout, "", false)
}

// endRound publishes the round report with all secrets revealed and schedules
// the next round.
func (m *Manager) endRound(r *Room, result RoundResult, reason Reason, victimID string, bonusAwarded bool) {
	r.cancelTimer()
	r.Phase = PhaseRoundEnd
	r.StealReason = reason
	r.TimerRemaining = 0

	targetWord := ""
	if r.TargetIndex >= 0 && r.TargetIndex < len(r.Words) {
		targetWord = r.Words[r.TargetIndex]
	}
	m.broadcast(r.ID, messages.MessageTypeServerRoundEnd, messages.ServerRoundEnd{
		Result:       string(result),
		Reason:       string(reason),
		ImposterID:   r.ImposterID,
		TargetWord:   targetWord,
		VictimID:     victimID,
		BonusAwarded: bonusAwarded,
		Players:      r.playerViews(true),
	})
	m.broadcastRoom(r)

	r.scheduleAfter(m.timing.RoundEndDelay, PhaseRoundEnd, func() {
		m.startNextRound(r)
	})
}

// startNextRound routes on the surviving headcount: a normal round at three
// or more, the head-to-head finale at exactly two, game over below that.
func (m *Manager) startNextRound(r *Room) {
	living := r.livingPlayers()
	switch {
	case len(living) == 0:
		m.finishGame(r, nil)
	case len(living) == 1:
		m.finishGame(r, living[0])
	case len(living) == 2:
		m.startHeadToHead(r)
	default:
		m.beginRound(r)
	}
}

// finishGame announces the winner (or the lack of one) and schedules the
// automatic reset back to the lobby.
func (m *Manager) finishGame(r *Room, winner *Player) {
	r.cancelTimer()
	r.Phase = PhaseGameOver
	r.TimerRemaining = 0

	winnerName, winnerID := "", ""
	if winner != nil {
		winnerName, winnerID = winner.Name, winner.ID
	}
	m.broadcast(r.ID, messages.MessageTypeServerGameOver, messages.ServerGameOver{
		Winner:   winnerName,
		WinnerID: winnerID,
		Players:  r.playerViews(true),
	})
	m.broadcastRoom(r)
	log.Info("room %s match over, winner: %q", r.ID, winnerName)

	r.scheduleAfter(m.timing.ResetDelay, PhaseGameOver, func() {
		if !r.pruneDisconnected() {
			m.destroyRoom(r)
			return
		}
		r.resetForLobby()
		m.broadcastRoom(r)
	})
}

// destroyRoom closes a room and releases its code. Callers hold r.mu; any
// members still indexed were already removed from memberRooms when they
// disconnected.
func (m *Manager) destroyRoom(r *Room) {
	r.closed = true
	r.cancelTimer()
	m.mu.Lock()
	delete(m.rooms, r.ID)
	m.mu.Unlock()
	m.codes.Release(r.ID)
	log.Info("room %s destroyed, no players remain", r.ID)
}

// deductLife removes one life and, on elimination, promotes the player to a
// spectator with the round's secrets in hand.
func (m *Manager) deductLife(r *Room, p *Player) {
	if r.loseLife(p) {
		m.sendSpectatorSecrets(r, p.ID)
	}
}

func (m *Manager) sendSpectatorSecrets(r *Room, clientID string) {
	m.unicast(clientID, messages.MessageTypeServerSpectatorUpdate, messages.ServerSpectatorUpdate{
		TargetIndex: r.TargetIndex,
		ImposterID:  r.ImposterID,
		Words:       r.wordsCopy(),
	})
}

// tallyVotes recomputes per-player received counts from the vote map.
// Callers hold r.mu.
func (r *Room) tallyVotes() {
	counts := make(map[string]int, len(r.Votes))
	for _, target := range r.Votes {
		if target != constants.VoteSkip {
			counts[target]++
		}
	}
	for _, p := range r.Players {
		p.VotesReceived = counts[p.ID]
	}
}

func (r *Room) wordsCopy() []string {
	return append([]string(nil), r.Words...)
}

func (m *Manager) unicast(clientID string, msgType string, payload any) {
	msg, err := messages.NewMessage(msgType, payload)
	if err != nil {
		log.Error("failed to build %s message: %v", msgType, err)
		return
	}
	m.messenger.Unicast(clientID, msg)
}

func (m *Manager) broadcast(roomID string, msgType string, payload any) {
	msg, err := messages.NewMessage(msgType, payload)
	if err != nil {
		log.Error("failed to build %s message: %v", msgType, err)
		return
	}
	m.messenger.Broadcast(roomID, msg)
}

func (m *Manager) broadcastRoom(r *Room) {
	m.broadcast(r.ID, messages.MessageTypeServerRoomUpdate, r.safeView())
}

func (m *Manager) broadcastTick(r *Room) {
	m.broadcast(r.ID, messages.MessageTypeServerTimerTick, displaySeconds(r.TimerRemaining))
}

func (m *Manager) sendError(clientID string, text string) {
	m.unicast(clientID, messages.MessageTypeServerError, messages.ServerError{Message: text})
}
