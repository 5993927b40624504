// Package engine rebuilds per-round statistics from a match's raw event log.
//
// Reconstruction is a single pass over the decoded event stream. Anything the
// engine does not understand (an unrecognized record name, a payload shape
// that breaks a domain invariant) is a fatal error carrying the match id and
// the offending payload. Silently-wrong statistics are worse than a loud
// failure.
package engine

import (
	"fmt"

	"github.com/soulstats/collector/internal/types"
	"github.com/soulstats/collector/pkg/codec"
	"github.com/soulstats/collector/pkg/entities"
	"github.com/soulstats/collector/pkg/shanten"
)

const seats = 4

// roundState is the mutable per-round accumulator; replaced wholesale at
// every round start
type roundState struct {
	furiten         [seats]bool
	discards        int
	lastDiscardSeat int // -1 until the first discard or kan
}

// turn converts the running discard count into a turn number
func (st *roundState) turn() int {
	return st.discards/4 + 1
}

// Reconstruct consumes one match's raw event payload and returns the ordered
// per-round statistics, four entries per round in seat order. It performs no
// I/O and fails on the first event it cannot interpret.
func Reconstruct(game *entities.GameSummary, data []byte) ([][]entities.RoundResult, error) {
	wrapper, err := codec.UnmarshalWrapper(data)
	if err != nil {
		return nil, types.WrapError(types.ErrDecode,
			fmt.Sprintf("match %s: malformed record envelope", game.UUID), err)
	}
	recordSet, err := codec.UnmarshalRecordSet(wrapper.Data)
	if err != nil {
		return nil, types.WrapError(types.ErrDecode,
			fmt.Sprintf("match %s: malformed record set %s", game.UUID, wrapper.Name), err)
	}

	var rounds [][]entities.RoundResult
	var round []entities.RoundResult
	var st *roundState

	for _, itemBuf := range recordSet.Records {
		ev, err := codec.DecodeEvent(itemBuf)
		if err != nil {
			return nil, types.WrapError(types.ErrDecode,
				fmt.Sprintf("match %s: undecodable event", game.UUID), err)
		}

		switch ev.Type {
		case codec.EventDealTile:
			// carries nothing downstream
			continue

		case codec.EventNewRound:
			newRound, newState, err := startRound(game, ev)
			if err != nil {
				return nil, err
			}
			round, st = newRound, newState
			rounds = append(rounds, round)
			continue

		case codec.EventUnknown:
			return nil, types.NewIngestError(types.ErrUnknownEvent,
				fmt.Sprintf("match %s: unrecognized event %s (payload %x)", game.UUID, ev.Name, ev.Raw))
		}

		if st == nil {
			return nil, invariantErr(game, ev, "event before any round start")
		}

		switch ev.Type {
		case codec.EventCall:
			if err := applyCall(game, ev, round); err != nil {
				return nil, err
			}
		case codec.EventDiscard:
			if err := applyDiscard(game, ev, round, st); err != nil {
				return nil, err
			}
		case codec.EventKan:
			if ev.Kan.Seat < 0 || ev.Kan.Seat >= seats {
				return nil, invariantErr(game, ev, "kan seat %d out of range", ev.Kan.Seat)
			}
			// a kan can be robbed, so it attributes deal-ins like a discard
			st.lastDiscardSeat = ev.Kan.Seat
		case codec.EventNoTile:
			if err := applyNoTile(game, ev, round); err != nil {
				return nil, err
			}
		case codec.EventAbort:
			if ev.Abort.Reason <= 0 {
				return nil, invariantErr(game, ev, "abortive draw with reason %d", ev.Abort.Reason)
			}
			for seat := range round {
				round[seat].AbortReason = ev.Abort.Reason
			}
		case codec.EventWin:
			if err := applyWin(game, ev, round, st); err != nil {
				return nil, err
			}
		}
	}

	return rounds, nil
}

// startRound reads the four starting hands, identifies the dealer by hand
// size, and seeds each seat's starting shanten
func startRound(game *entities.GameSummary, ev *codec.Event) ([]entities.RoundResult, *roundState, error) {
	round := make([]entities.RoundResult, seats)
	dealers := 0
	for seat := 0; seat < seats; seat++ {
		tiles := ev.NewRound.Tiles[seat]
		round[seat].Hand = tiles
		if len(tiles) == 14 {
			round[seat].Dealer = true
			round[seat].WallOrder = ev.NewRound.Wall
			dealers++
		}
		value, err := shanten.Calculate(tiles)
		if err != nil {
			return nil, nil, invariantErr(game, ev, "seat %d starting hand: %v", seat, err)
		}
		round[seat].StartingShanten = value
	}
	if dealers != 1 {
		return nil, nil, invariantErr(game, ev, "round has %d dealers, want exactly 1", dealers)
	}
	return round, &roundState{lastDiscardSeat: -1}, nil
}

func applyCall(game *entities.GameSummary, ev *codec.Event, round []entities.RoundResult) error {
	if ev.Call.Seat < 0 || ev.Call.Seat >= seats {
		return invariantErr(game, ev, "call seat %d out of range", ev.Call.Seat)
	}
	round[ev.Call.Seat].Melds++
	return nil
}

func applyDiscard(game *entities.GameSummary, ev *codec.Event, round []entities.RoundResult, st *roundState) error {
	d := ev.Discard
	if d.Seat < 0 || d.Seat >= seats {
		return invariantErr(game, ev, "discard seat %d out of range", d.Seat)
	}
	st.lastDiscardSeat = d.Seat
	// the stream's furiten vector is authoritative; never derived here
	st.furiten = d.Furiten

	cur := &round[d.Seat]
	if cur.RiichiTurn == 0 && (d.Riichi || d.DoubleRiichi) {
		cur.RiichiTurn = st.turn()
		if st.furiten[d.Seat] {
			cur.FuritenRiichi = true
		}
	}
	if d.DoubleRiichi {
		cur.DoubleRiichi = true
	}
	st.discards++
	return nil
}

func applyNoTile(game *entities.GameSummary, ev *codec.Event, round []entities.RoundResult) error {
	nt := ev.NoTile
	if len(nt.Tenpai) != seats {
		return invariantErr(game, ev, "tenpai vector has %d seats, want %d", len(nt.Tenpai), seats)
	}
	if nt.NagashiMangan {
		for _, seat := range nt.NagashiSeats {
			if seat < 0 || seat >= seats {
				return invariantErr(game, ev, "nagashi seat %d out of range", seat)
			}
			round[seat].NagashiMangan = true
		}
	}
	for seat, ready := range nt.Tenpai {
		ready := ready
		round[seat].TenpaiAtDraw = &ready
	}
	return nil
}

func applyWin(game *entities.GameSummary, ev *codec.Event, round []entities.RoundResult, st *roundState) error {
	w := ev.Win
	losers := 0
	for _, delta := range w.DeltaScores {
		if delta < 0 {
			losers++
		}
	}

	for i := range w.Winners {
		winner := &w.Winners[i]
		if winner.Seat < 0 || winner.Seat >= seats {
			return invariantErr(game, ev, "winning seat %d out of range", winner.Seat)
		}
		cur := &round[winner.Seat]

		amount := w.DeltaScores[winner.Seat]
		if winner.ConsumedRiichi {
			amount -= 1000
		}
		var yaku []int
		for _, yc := range winner.Yaku {
			for n := 0; n < yc.Count; n++ {
				yaku = append(yaku, yc.ID)
			}
		}

		// A payout below the declared floor means a second winner's yakuman
		// absorbed part of this seat's share through liability
		floor := winner.BasePoints - 1500
		if floor < 0 {
			floor = 0
		}
		if amount < floor {
			if len(w.Winners) != 2 {
				return invariantErr(game, ev, "short-paid win with %d winners, want 2", len(w.Winners))
			}
			var other *codec.Winner
			for j := range w.Winners {
				if w.Winners[j].Seat != winner.Seat && w.Winners[j].Yakuman {
					other = &w.Winners[j]
				}
			}
			if other == nil {
				return invariantErr(game, ev, "short-paid win without a yakuman co-winner")
			}
			amount += other.BasePoints / 2
			cur.LiabilityPaid = other.BasePoints / 2
		}

		cur.Win = &entities.WinDetail{Delta: amount, Yaku: yaku, Turn: st.turn()}

		if winner.SelfDraw {
			if len(w.Winners) != 1 {
				return invariantErr(game, ev, "self-draw win with %d winners", len(w.Winners))
			}
			if losers != 3 && !winner.Yakuman {
				return invariantErr(game, ev, "self-draw win with %d losing seats", losers)
			}
			cur.SelfDraw = true
			if st.furiten[winner.Seat] {
				cur.FuritenSelfDraw = true
			}
			// one seat covering the whole payment is the pao rule in action
			if losers == 1 {
				for seat, delta := range w.DeltaScores {
					if delta < 0 {
						round[seat].LiabilityPaid = -delta
					}
				}
			}
			continue
		}

		if losers != 1 && losers != 2 {
			return invariantErr(game, ev, "discard win with %d losing seats", losers)
		}
		for seat, delta := range w.DeltaScores {
			if delta >= 0 {
				continue
			}
			if losers == 1 && seat != st.lastDiscardSeat {
				return invariantErr(game, ev,
					"losing seat %d is not the last discarder %d", seat, st.lastDiscardSeat)
			}
			if losers == 2 && !w.Winners[0].Yakuman {
				return invariantErr(game, ev, "two losing seats without a yakuman hand")
			}
			if seat == st.lastDiscardSeat {
				round[seat].DealInPaid = -delta
			} else {
				round[seat].LiabilityPaid = -delta
			}
		}
	}
	return nil
}

// invariantErr builds the fatal error for a payload that violates a domain
// invariant, carrying enough context to diagnose the match offline
func invariantErr(game *entities.GameSummary, ev *codec.Event, format string, args ...interface{}) error {
	detail := fmt.Sprintf(format, args...)
	return types.NewIngestError(types.ErrInvariant,
		fmt.Sprintf("match %s, event %s: %s (payload %x)", game.UUID, ev.Name, detail, ev.Raw))
}
