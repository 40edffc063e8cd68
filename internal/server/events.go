package server

type EventPayload struct {
	SessionID string `json:"session_id,omitempty"`
	Code      string `json:"code,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	PlayerID  int    `json:"player_id,omitempty"`
	Team      string `json:"team,omitempty"`
	Status    string `json:"status,omitempty"`
	CardID    string `json:"card_id,omitempty"`
	OptionID  string `json:"option_id,omitempty"`
	Index     int    `json:"index,omitempty"`
	Score     int    `json:"score,omitempty"`
	Fallback  bool   `json:"fallback,omitempty"`
	Reason    string `json:"reason,omitempty"`
}
