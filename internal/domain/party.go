package domain

import "time"

// Party is an active watch-together room. It exists only while its leader's
// websocket connection is alive and is never written to the database.
//
// LeaderConnID is the sole control-authorization key: player events are
// relayed only when the sending connection id matches it, and the room is
// torn down when that connection drops. There is no leader handoff.
type Party struct {
	Code         string    // short uppercase room code, unique among active parties
	LeaderConnID string    // websocket connection id of the leader
	LeaderUserID uint      // identity of the leader, captured at creation
	LeaderName   string    // display name of the leader, captured at creation
	VideoTitle   string    // immutable media snapshot
	VideoURL     string
	CreatedAt    time.Time
}

// PendingSelection bridges the HTTP create/join request and the websocket
// arrival that follows it. It is stashed per user with a short TTL and
// consumed when the arrival announcement registers the room.
type PendingSelection struct {
	RoomCode   string `json:"room_code"`
	VideoTitle string `json:"video_title"`
	VideoURL   string `json:"video_url"`
}
