package hub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"homestream/internal/domain"
	"homestream/internal/infra/state/memory"
	"homestream/internal/repository"
	"homestream/internal/repository/mocks"
)

// The tests drive the hub's handlers directly instead of going through the
// event loop and real sockets; the handlers are what the loop dispatches
// to, and the loop itself is a plain select.

func newTestClient(h *Hub, id string, userID uint, username string) *Client {
	return &Client{
		hub:      h,
		id:       id,
		userID:   userID,
		username: username,
		send:     make(chan []byte, 16),
	}
}

func recvJSON(t *testing.T, c *Client) map[string]interface{} {
	t.Helper()
	select {
	case raw := <-c.send:
		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &decoded))
		return decoded
	default:
		t.Fatal("expected a message but the send buffer is empty")
		return nil
	}
}

func assertNoMessage(t *testing.T, c *Client, msgAndArgs ...interface{}) {
	t.Helper()
	select {
	case raw := <-c.send:
		if len(msgAndArgs) > 0 {
			t.Fatalf("expected no message but got %s: %v", raw, msgAndArgs[0])
		}
		t.Fatalf("expected no message but got: %s", raw)
	default:
	}
}

func frame(t *testing.T, payload map[string]interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return raw
}

func TestHub_WatchPartySession(t *testing.T) {
	registry := memory.NewPartyRegistry()
	selections := new(mocks.SelectionStore)
	h := NewHub(registry, selections)

	leader := newTestClient(h, "conn-a", 1, "alice")
	follower := newTestClient(h, "conn-b", 2, "bob")

	// Leader arrives holding a pending selection for this code; it is
	// consumed on successful registration.
	selections.On("Get", mock.Anything, uint(1)).
		Return(&domain.PendingSelection{RoomCode: "ABC123", VideoTitle: "Heat", VideoURL: "https://media/heat.mp4"}, nil).
		Once()
	selections.On("Delete", mock.Anything, uint(1)).Return(nil).Once()

	h.handleFrame(leader, frame(t, map[string]interface{}{"event": "join", "room_code": "ABC123"}))

	party, ok := registry.FindByCode("ABC123")
	require.True(t, ok, "leader arrival must register the room")
	assert.Equal(t, "conn-a", party.LeaderConnID)
	assert.Equal(t, "alice", party.LeaderName)
	assert.Equal(t, "Heat", party.VideoTitle)

	status := recvJSON(t, leader)
	assert.Equal(t, "status", status["event"])
	assert.Equal(t, "alice has joined the room.", status["msg"])
	assert.Equal(t, "conn-a", status["leader_id"])

	// Follower arrives without a selection.
	selections.On("Get", mock.Anything, uint(2)).
		Return(nil, repository.ErrSelectionNotFound).
		Once()

	h.handleFrame(follower, frame(t, map[string]interface{}{"event": "join", "room_code": "ABC123"}))

	party, _ = registry.FindByCode("ABC123")
	assert.Equal(t, "conn-a", party.LeaderConnID, "follower arrival must not steal leadership")

	for _, c := range []*Client{leader, follower} {
		status := recvJSON(t, c)
		assert.Equal(t, "bob has joined the room.", status["msg"])
		assert.Equal(t, "conn-a", status["leader_id"])
	}

	// A follower's player event is silently dropped.
	h.handleFrame(follower, frame(t, map[string]interface{}{
		"event": "player_event", "room_code": "ABC123", "action": "pause",
	}))
	assertNoMessage(t, leader)
	assertNoMessage(t, follower)

	// The leader's player event reaches everyone else, relabeled, with the
	// transport fields intact.
	h.handleFrame(leader, frame(t, map[string]interface{}{
		"event": "player_event", "room_code": "ABC123", "action": "seek", "position": 42.5,
	}))
	assertNoMessage(t, leader)
	control := recvJSON(t, follower)
	assert.Equal(t, "player_control", control["event"])
	assert.Equal(t, "seek", control["action"])
	assert.Equal(t, 42.5, control["position"])

	// Chat goes to the whole room, sender included.
	h.handleFrame(follower, frame(t, map[string]interface{}{
		"event": "chat_message", "room_code": "ABC123", "message": "hi all",
	}))
	for _, c := range []*Client{leader, follower} {
		chat := recvJSON(t, c)
		assert.Equal(t, "new_chat_message", chat["event"])
		assert.Equal(t, "bob", chat["username"])
		assert.Equal(t, "hi all", chat["message"])
	}

	// Leader disconnect ends the party.
	h.handleDisconnect(leader)

	ended := recvJSON(t, follower)
	assert.Equal(t, "status", ended["event"])
	assert.Equal(t, "The party leader (alice) has disconnected. The party has ended.", ended["msg"])

	_, ok = registry.FindByCode("ABC123")
	assert.False(t, ok, "the room code must be free after teardown")

	selections.AssertExpectations(t)
}

func TestHub_GuestSpectator(t *testing.T) {
	registry := memory.NewPartyRegistry()
	selections := new(mocks.SelectionStore)
	h := NewHub(registry, selections)

	registry.CreateIfAbsent(&domain.Party{Code: "ABC123", LeaderConnID: "conn-x", LeaderName: "alice"})

	guest := newTestClient(h, "conn-g", 0, "")
	h.handleFrame(guest, frame(t, map[string]interface{}{"event": "join", "room_code": "ABC123"}))

	status := recvJSON(t, guest)
	assert.Equal(t, "A guest has joined the room.", status["msg"])
	assert.Equal(t, "conn-x", status["leader_id"])

	// The selection store must never be consulted for a guest.
	selections.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)

	// A guest's control attempt is a no-op.
	h.handleFrame(guest, frame(t, map[string]interface{}{
		"event": "player_event", "room_code": "ABC123", "action": "play",
	}))
	assertNoMessage(t, guest)
}

func TestHub_ReannouncingDifferentRoomLeavesOldGroup(t *testing.T) {
	registry := memory.NewPartyRegistry()
	selections := new(mocks.SelectionStore)
	h := NewHub(registry, selections)

	leader := newTestClient(h, "conn-a", 1, "alice")
	follower := newTestClient(h, "conn-b", 2, "bob")

	selections.On("Get", mock.Anything, uint(1)).
		Return(&domain.PendingSelection{RoomCode: "XROOM1", VideoTitle: "Heat", VideoURL: "https://media/heat.mp4"}, nil).
		Once()
	selections.On("Delete", mock.Anything, uint(1)).Return(nil).Once()
	selections.On("Get", mock.Anything, uint(2)).
		Return(nil, repository.ErrSelectionNotFound).
		Once()

	h.handleFrame(leader, frame(t, map[string]interface{}{"event": "join", "room_code": "XROOM1"}))
	recvJSON(t, leader)
	h.handleFrame(follower, frame(t, map[string]interface{}{"event": "join", "room_code": "XROOM1"}))
	recvJSON(t, leader)
	recvJSON(t, follower)

	// The leader's connection announces a different room. It must move, not
	// end up in both groups.
	selections.On("Get", mock.Anything, uint(1)).
		Return(nil, repository.ErrSelectionNotFound).
		Once()
	h.handleFrame(leader, frame(t, map[string]interface{}{"event": "join", "room_code": "YROOM1"}))
	recvJSON(t, leader)
	assertNoMessage(t, follower, "the old room must not see the new announcement")

	// Traffic in the old room no longer reaches the moved connection.
	h.handleFrame(follower, frame(t, map[string]interface{}{
		"event": "chat_message", "room_code": "XROOM1", "message": "still here",
	}))
	recvJSON(t, follower)
	assertNoMessage(t, leader, "a connection that moved rooms must not receive old-room traffic")

	// The moved connection is still XROOM1's registered leader, so its
	// disconnect tears the party down; the broadcast must reach the
	// remaining member without touching the departed connection's channel.
	h.handleDisconnect(leader)

	ended := recvJSON(t, follower)
	assert.Equal(t, "The party leader (alice) has disconnected. The party has ended.", ended["msg"])

	_, ok := registry.FindByCode("XROOM1")
	assert.False(t, ok)
	selections.AssertExpectations(t)
}

func TestHub_FollowerDisconnectKeepsParty(t *testing.T) {
	registry := memory.NewPartyRegistry()
	selections := new(mocks.SelectionStore)
	h := NewHub(registry, selections)

	registry.CreateIfAbsent(&domain.Party{Code: "ABC123", LeaderConnID: "conn-a", LeaderName: "alice"})

	leader := newTestClient(h, "conn-a", 1, "alice")
	follower := newTestClient(h, "conn-b", 2, "bob")
	h.rooms["ABC123"] = map[*Client]bool{leader: true, follower: true}
	leader.roomCode = "ABC123"
	follower.roomCode = "ABC123"

	h.handleDisconnect(follower)

	_, ok := registry.FindByCode("ABC123")
	assert.True(t, ok, "a follower leaving must not end the party")
	assertNoMessage(t, leader)
}

func TestHub_MalformedAndMisdirectedFramesAreDropped(t *testing.T) {
	registry := memory.NewPartyRegistry()
	selections := new(mocks.SelectionStore)
	h := NewHub(registry, selections)

	client := newTestClient(h, "conn-a", 1, "alice")

	h.handleFrame(client, []byte("{not json"))
	h.handleFrame(client, frame(t, map[string]interface{}{"event": "teleport", "room_code": "ABC123"}))
	// Events for a room the sender never joined are no-ops.
	h.handleFrame(client, frame(t, map[string]interface{}{
		"event": "chat_message", "room_code": "ABC123", "message": "hello?",
	}))

	assertNoMessage(t, client)
	assert.Empty(t, h.rooms)
}

func TestRewriteAsControl_PreservesFields(t *testing.T) {
	raw := []byte(`{"event":"player_event","room_code":"ABC123","action":"seek","position":17}`)

	rewritten, err := rewriteAsControl(raw)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rewritten, &decoded))
	assert.Equal(t, "player_control", decoded["event"])
	assert.Equal(t, "ABC123", decoded["room_code"])
	assert.Equal(t, "seek", decoded["action"])
	assert.Equal(t, float64(17), decoded["position"])
}
