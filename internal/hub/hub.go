package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"homestream/internal/domain"
	"homestream/internal/repository"
)

const (
	messageRegister = iota
	messageUnregister
	messageFrame
)

// selectionTimeout bounds the Redis round-trip made while handling a join
// announcement inside the event loop.
const selectionTimeout = 3 * time.Second

type hubMessage struct {
	kind   int
	client *Client
	raw    []byte
}

// Hub is the realtime half of the watch-together lifecycle. A single
// goroutine owns the rooms map and processes every announcement, frame and
// disconnect in arrival order, which is what keeps the leader's control
// events reaching followers in the order the leader emitted them.
//
// Malformed frames, events for rooms the sender is not in, and control
// attempts by non-leaders are all dropped without a reply.
type Hub struct {
	registry   repository.PartyRegistry
	selections repository.SelectionStore

	// rooms maps a room code to its connected participants. Touched only by
	// the Run goroutine.
	rooms map[string]map[*Client]bool

	messages chan hubMessage
	done     chan struct{}
}

func NewHub(registry repository.PartyRegistry, selections repository.SelectionStore) *Hub {
	if registry == nil || selections == nil {
		panic("dependencies cannot be nil for Hub")
	}
	return &Hub{
		registry:   registry,
		selections: selections,
		rooms:      make(map[string]map[*Client]bool),
		messages:   make(chan hubMessage, 256),
		done:       make(chan struct{}),
	}
}

// Register hands a freshly upgraded connection to the event loop and starts
// its pumps.
func (h *Hub) Register(c *Client) {
	h.enqueue(hubMessage{kind: messageRegister, client: c})
	c.Run()
}

func (h *Hub) enqueue(msg hubMessage) {
	select {
	case h.messages <- msg:
	case <-h.done:
	}
}

// Run processes hub messages until Stop is called.
func (h *Hub) Run() {
	logrus.Info("Party hub started")
	for {
		select {
		case msg := <-h.messages:
			switch msg.kind {
			case messageRegister:
				// Nothing to do until the client announces a join; the
				// connection just idles in its pumps.
			case messageUnregister:
				h.handleDisconnect(msg.client)
			case messageFrame:
				h.handleFrame(msg.client, msg.raw)
			}
		case <-h.done:
			logrus.Info("Party hub stopped")
			return
		}
	}
}

// Stop terminates the event loop. Connections are left to their own close
// handling; Stop is for process shutdown, not room teardown.
func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) handleFrame(c *Client, raw []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		logrus.WithField("conn_id", c.id).Debug("Dropping malformed frame")
		return
	}

	switch frame.Event {
	case EventJoin:
		h.handleJoin(c, frame.RoomCode)
	case EventPlayerEvent:
		h.handlePlayerEvent(c, frame.RoomCode, raw)
	case EventChat:
		h.handleChat(c, frame.RoomCode, frame.Message)
	default:
		logrus.WithFields(logrus.Fields{"conn_id": c.id, "event": frame.Event}).
			Debug("Dropping frame with unknown event")
	}
}

// handleJoin is the arrival announcement. The connection enters the room's
// broadcast group, and if the arriver holds a pending selection for this
// code and the room is not registered yet, this connection becomes the
// leader: first to create wins, everyone after is a follower.
func (h *Hub) handleJoin(c *Client, code string) {
	if code == "" {
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{"conn_id": c.id, "user_id": c.userID, "room_code": code})

	// A connection belongs to at most one room. Announcing a different code
	// moves it; re-announcing the same code is harmless.
	if c.roomCode != "" && c.roomCode != code {
		h.removeFromGroup(c)
	}

	group := h.rooms[code]
	if group == nil {
		group = make(map[*Client]bool)
		h.rooms[code] = group
	}
	group[c] = true
	c.roomCode = code

	if sel, ok := h.loadSelection(c, code); ok {
		candidate := &domain.Party{
			Code:         code,
			LeaderConnID: c.id,
			LeaderUserID: c.userID,
			LeaderName:   c.DisplayName(),
			VideoTitle:   sel.VideoTitle,
			VideoURL:     sel.VideoURL,
		}
		if _, created := h.registry.CreateIfAbsent(candidate); created {
			logCtx.Info("Watch party registered, leadership assigned")
			h.consumeSelection(c)
		}
	}

	party, ok := h.registry.FindByCode(code)
	var leaderID string
	if ok {
		leaderID = party.LeaderConnID
	}
	payload, err := marshalStatus(fmt.Sprintf("%s has joined the room.", c.DisplayName()), leaderID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to marshal join status")
		return
	}
	h.broadcast(code, payload)
}

// handlePlayerEvent relays a leader's transport control to every other
// participant. Anyone else's attempt is dropped without a reply.
func (h *Hub) handlePlayerEvent(c *Client, code string, raw []byte) {
	if !h.inRoom(c, code) {
		return
	}
	party, ok := h.registry.FindByCode(code)
	if !ok || party.LeaderConnID != c.id {
		logrus.WithFields(logrus.Fields{"conn_id": c.id, "room_code": code}).
			Debug("Dropping player event from non-leader")
		return
	}
	payload, err := rewriteAsControl(raw)
	if err != nil {
		logrus.WithField("conn_id", c.id).Debug("Dropping unrewritable player event")
		return
	}
	h.broadcastExcept(code, c, payload)
}

// handleChat relays a chat line to the whole room, sender included.
func (h *Hub) handleChat(c *Client, code, message string) {
	if !h.inRoom(c, code) || message == "" {
		return
	}
	payload, err := marshalChat(c.DisplayName(), message)
	if err != nil {
		logrus.WithField("conn_id", c.id).WithError(err).Error("Failed to marshal chat")
		return
	}
	h.broadcast(code, payload)
}

// handleDisconnect removes the connection from its room and, when the
// connection was a leader's, ends the party: followers are told and the
// registry entry is removed so the code is free again.
func (h *Hub) handleDisconnect(c *Client) {
	if group, ok := h.rooms[c.roomCode]; ok && group[c] {
		close(c.send)
	}
	h.removeFromGroup(c)

	party, ok := h.registry.FindByLeaderConn(c.id)
	if !ok {
		return
	}
	logrus.WithFields(logrus.Fields{"conn_id": c.id, "room_code": party.Code}).
		Info("Party leader disconnected, ending party")

	msg := fmt.Sprintf("The party leader (%s) has disconnected. The party has ended.", party.LeaderName)
	payload, err := marshalStatus(msg, "")
	if err == nil {
		h.broadcast(party.Code, payload)
	}
	h.registry.Delete(party.Code)
}

// removeFromGroup drops the client from its current room's broadcast group
// without touching its send channel, and discards the group if it is now
// empty.
func (h *Hub) removeFromGroup(c *Client) {
	group, ok := h.rooms[c.roomCode]
	if !ok {
		return
	}
	delete(group, c)
	if len(group) == 0 {
		delete(h.rooms, c.roomCode)
	}
}

func (h *Hub) inRoom(c *Client, code string) bool {
	group, ok := h.rooms[code]
	return ok && group[c]
}

func (h *Hub) loadSelection(c *Client, code string) (*domain.PendingSelection, bool) {
	if c.userID == 0 {
		// Guests never carry a pending selection and never lead.
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), selectionTimeout)
	defer cancel()
	sel, err := h.selections.Get(ctx, c.userID)
	if err != nil {
		if !errors.Is(err, repository.ErrSelectionNotFound) {
			logrus.WithError(err).WithField("user_id", c.userID).Error("Failed to load pending selection")
		}
		return nil, false
	}
	if sel.RoomCode != code {
		return nil, false
	}
	return sel, true
}

func (h *Hub) consumeSelection(c *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), selectionTimeout)
	defer cancel()
	if err := h.selections.Delete(ctx, c.userID); err != nil {
		logrus.WithError(err).WithField("user_id", c.userID).Warn("Failed to discard consumed selection")
	}
}

func (h *Hub) broadcast(code string, payload []byte) {
	for client := range h.rooms[code] {
		h.deliver(code, client, payload)
	}
}

func (h *Hub) broadcastExcept(code string, skip *Client, payload []byte) {
	for client := range h.rooms[code] {
		if client == skip {
			continue
		}
		h.deliver(code, client, payload)
	}
}

// deliver drops a participant whose send buffer is full rather than stall
// the whole room behind one slow reader.
func (h *Hub) deliver(code string, client *Client, payload []byte) {
	select {
	case client.send <- payload:
	default:
		logrus.WithFields(logrus.Fields{"conn_id": client.id, "room_code": code}).
			Warn("Participant too slow, dropping connection")
		delete(h.rooms[code], client)
		close(client.send)
	}
}
