package entities

// PlayerInfo describes one seated player captured at discovery time
type PlayerInfo struct {
	AccountID int64  `json:"account_id"`
	Nickname  string `json:"nickname"`
	Level     int64  `json:"level"`
}

// GameSummary represents match-level metadata; immutable once captured
type GameSummary struct {
	UUID      string       `json:"uuid"`
	ModeID    int64        `json:"mode_id,omitempty"`
	StartTime int64        `json:"start_time,omitempty"`
	Players   []PlayerInfo `json:"players,omitempty"`
}

// WinDetail describes a completed winning hand for one seat
type WinDetail struct {
	// Delta is the seat's net point change, riichi stick already deducted,
	// liability correction already applied
	Delta int `json:"delta"`
	// Yaku holds yaku ids with multiplicity (id repeated once per counted fan)
	Yaku []int `json:"yaku"`
	// Turn is the turn number the win landed on
	Turn int `json:"turn"`
}

// RoundResult is the per-seat outcome of one reconstructed round
type RoundResult struct {
	Dealer bool `json:"dealer,omitempty"`
	// WallOrder is the dead-wall tile order; only set on the dealer's entry
	WallOrder string   `json:"wall_order,omitempty"`
	Hand      []string `json:"hand"`
	// StartingShanten is the hand's distance to tenpai at the deal
	StartingShanten int `json:"starting_shanten"`

	Melds int `json:"melds,omitempty"`

	// RiichiTurn is the turn of the first riichi discard; 0 means no riichi
	RiichiTurn    int  `json:"riichi_turn,omitempty"`
	DoubleRiichi  bool `json:"double_riichi,omitempty"`
	FuritenRiichi bool `json:"furiten_riichi,omitempty"`

	Win             *WinDetail `json:"win,omitempty"`
	SelfDraw        bool       `json:"self_draw,omitempty"`
	FuritenSelfDraw bool       `json:"furiten_self_draw,omitempty"`

	// DealInPaid is the amount this seat paid for discarding into a win
	DealInPaid int `json:"deal_in_paid,omitempty"`
	// LiabilityPaid is the amount charged to this seat under the pao rule
	LiabilityPaid int `json:"liability_paid,omitempty"`

	NagashiMangan bool `json:"nagashi_mangan,omitempty"`
	// TenpaiAtDraw is only present when the round ended in an exhaustive draw
	TenpaiAtDraw *bool `json:"tenpai_at_draw,omitempty"`

	// AbortReason carries the abortive-draw reason code; 0 means the round
	// did not end abortively
	AbortReason int `json:"abort_reason,omitempty"`
}
