package ws

// ClientMessage is every inbound frame. Which fields matter depends on Type.
type ClientMessage struct {
	Type        string `json:"type"`
	Identity    string `json:"identity,omitempty"`
	Token       string `json:"token,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Password    string `json:"password,omitempty"`
	RoomID      string `json:"room_id,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
	CellIndex   *int   `json:"cell_index,omitempty"`
}

const (
	TypeJoinQueue     = "joinQueue"
	TypeLeaveQueue    = "leaveQueue"
	TypeCreatePrivate = "createPrivate"
	TypeJoinPrivate   = "joinPrivate"
	TypeStartAIGame   = "startAIGame"
	TypeJoinGame      = "joinGame"
	TypeJoinAIGame    = "joinAIGame"
	TypeMakeMove      = "makeMove"
)
