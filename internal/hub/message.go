package hub

import "encoding/json"

// Client-to-server events.
const (
	EventJoin        = "join"
	EventPlayerEvent = "player_event"
	EventChat        = "chat_message"
)

// Server-to-client events.
const (
	EventStatus        = "status"
	EventPlayerControl = "player_control"
	EventNewChat       = "new_chat_message"
)

// inboundFrame is the envelope every client message carries. Player events
// hold arbitrary extra transport fields (action, position, ...) that the
// relay echoes without interpreting, so the raw bytes are kept alongside.
type inboundFrame struct {
	Event    string `json:"event"`
	RoomCode string `json:"room_code"`
	Message  string `json:"message,omitempty"`
}

// statusPayload is the informational broadcast sent to a whole room.
// LeaderID lets clients render a "you are a viewer" affordance; it is
// presentation data only and never grants control, which is always
// re-checked against the registry server-side.
type statusPayload struct {
	Event    string `json:"event"`
	Msg      string `json:"msg"`
	LeaderID string `json:"leader_id,omitempty"`
}

// chatPayload is a relayed chat line tagged with the sender's display name.
type chatPayload struct {
	Event    string `json:"event"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

func marshalStatus(msg, leaderID string) ([]byte, error) {
	return json.Marshal(statusPayload{Event: EventStatus, Msg: msg, LeaderID: leaderID})
}

func marshalChat(username, message string) ([]byte, error) {
	return json.Marshal(chatPayload{Event: EventNewChat, Username: username, Message: message})
}

// rewriteAsControl re-labels a raw player_event frame as player_control,
// preserving every other field the leader sent.
func rewriteAsControl(raw []byte) ([]byte, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["event"] = EventPlayerControl
	return json.Marshal(fields)
}
