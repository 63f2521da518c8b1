// Package gamedto holds the read-only snapshots presentation collaborators
// pull from a session after a refresh signal.
package gamedto

// PieceView is one checker as seen from the local player's orientation.
type PieceView struct {
	Row  int  `json:"row"`
	Col  int  `json:"col"`
	King bool `json:"king"`
	Mine bool `json:"mine"`
}

// SquareView is a highlighted cell (legal destination or piece that must
// capture).
type SquareView struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// BoardView is the full renderable board state.
type BoardView struct {
	SessionID    string       `json:"session_id"`
	State        string       `json:"state"`
	Pieces       []PieceView  `json:"pieces"`
	Destinations []SquareView `json:"destinations,omitempty"`
	MustCapture  []SquareView `json:"must_capture,omitempty"`
}

// ScoreView pairs both display names with their cumulative scores.
type ScoreView struct {
	LocalName  string `json:"local_name"`
	PeerName   string `json:"peer_name"`
	LocalScore int    `json:"local_score"`
	PeerScore  int    `json:"peer_score"`
}
