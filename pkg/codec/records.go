package codec

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Wire names of the record types the engine understands. The set is closed:
// a name outside it decodes to EventUnknown and the engine fails loudly.
const (
	NameNewRound = ".lq.RecordNewRound"
	NameDealTile = ".lq.RecordDealTile"
	NameDiscard  = ".lq.RecordDiscardTile"
	NameCall     = ".lq.RecordChiPengGang"
	NameKan      = ".lq.RecordAnGangAddGang"
	NameNoTile   = ".lq.RecordNoTile"
	NameWin      = ".lq.RecordHule"
	NameAbort    = ".lq.RecordLiuJu"
)

// EventType tags a decoded record
type EventType int

const (
	EventUnknown EventType = iota
	EventNewRound
	EventDealTile
	EventDiscard
	EventCall
	EventKan
	EventNoTile
	EventWin
	EventAbort
)

// Event is one decoded record from a match's event log. Exactly one payload
// pointer is set, matching Type; Raw always carries the undecoded payload so
// failures can report it.
type Event struct {
	Name     string
	Type     EventType
	Raw      []byte
	NewRound *NewRound
	Discard  *Discard
	Call     *Call
	Kan      *Kan
	NoTile   *NoTile
	Win      *Win
	Abort    *Abort
}

// NewRound starts a round: four starting hands plus the wall order
type NewRound struct {
	Tiles [4][]string // starting hand per seat; the dealer holds 14
	Wall  string      // dead-wall tile order
}

// Discard is one discarded tile, carrying riichi declaration flags and the
// server's authoritative furiten vector for all four seats
type Discard struct {
	Seat         int
	Tile         string
	Riichi       bool
	DoubleRiichi bool
	Furiten      [4]bool
}

// Call is an open meld (chi, pon, or open kan)
type Call struct {
	Seat int
	Kind int
}

// Kan is a closed or added kan declaration
type Kan struct {
	Seat int
	Kind int
}

// NoTile ends a round in an exhaustive draw
type NoTile struct {
	NagashiMangan bool
	Tenpai        []bool // per seat, index order
	NagashiSeats  []int  // seats credited when NagashiMangan is set
}

// Winner is one winning hand inside a Win record
type Winner struct {
	Seat           int
	SelfDraw       bool
	ConsumedRiichi bool // the win consumed this seat's riichi stick
	Yakuman        bool
	BasePoints     int // declared point value of the hand
	Yaku           []YakuCount
}

// YakuCount is a (yaku id, fan count) pair
type YakuCount struct {
	ID    int
	Count int
}

// Win ends a round with one or two simultaneous winners
type Win struct {
	Winners     []Winner
	DeltaScores [4]int
}

// Abort ends a round in an abortive draw
type Abort struct {
	Reason int
}

// DecodeEvent unwraps one record envelope and decodes its payload. Unknown
// names return an Event with Type EventUnknown and no error; the caller
// decides how loudly that fails.
func DecodeEvent(itemBuf []byte) (*Event, error) {
	w, err := UnmarshalWrapper(itemBuf)
	if err != nil {
		return nil, err
	}
	ev := &Event{Name: w.Name, Raw: w.Data}
	switch w.Name {
	case NameNewRound:
		ev.Type = EventNewRound
		ev.NewRound, err = unmarshalNewRound(w.Data)
	case NameDealTile:
		ev.Type = EventDealTile
	case NameDiscard:
		ev.Type = EventDiscard
		ev.Discard, err = unmarshalDiscard(w.Data)
	case NameCall:
		ev.Type = EventCall
		ev.Call, err = unmarshalCall(w.Data)
	case NameKan:
		ev.Type = EventKan
		ev.Kan, err = unmarshalKan(w.Data)
	case NameNoTile:
		ev.Type = EventNoTile
		ev.NoTile, err = unmarshalNoTile(w.Data)
	case NameWin:
		ev.Type = EventWin
		ev.Win, err = unmarshalWin(w.Data)
	case NameAbort:
		ev.Type = EventAbort
		ev.Abort, err = unmarshalAbort(w.Data)
	default:
		ev.Type = EventUnknown
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", w.Name, err)
	}
	return ev, nil
}

func unmarshalNewRound(b []byte) (*NewRound, error) {
	m := &NewRound{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num >= 1 && num <= 4:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			m.Tiles[num-1] = append(m.Tiles[num-1], v)
			b = b[n:]
		case num == 5:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			m.Wall = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return m, nil
}

// MarshalNewRound encodes a NewRound payload
func MarshalNewRound(m *NewRound) []byte {
	var b []byte
	for seat, tiles := range m.Tiles {
		for _, t := range tiles {
			b = appendString(b, protowire.Number(seat+1), t)
		}
	}
	if m.Wall != "" {
		b = appendString(b, 5, m.Wall)
	}
	return b
}

func unmarshalDiscard(b []byte) (*Discard, error) {
	m := &Discard{}
	furiten := 0
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case 1, 3, 4:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			switch num {
			case 1:
				m.Seat = int(v)
			case 3:
				m.Riichi = v != 0
			case 4:
				m.DoubleRiichi = v != 0
			}
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			m.Tile = v
			b = b[n:]
		case 5:
			// repeated bool; tolerate both packed and unpacked encodings
			if typ == protowire.BytesType {
				packed, n := protowire.ConsumeBytes(b)
				if n < 0 {
					return nil, protowire.ParseError(n)
				}
				for len(packed) > 0 {
					v, vn := protowire.ConsumeVarint(packed)
					if vn < 0 {
						return nil, protowire.ParseError(vn)
					}
					if furiten > 3 {
						return nil, fmt.Errorf("furiten vector longer than 4 seats")
					}
					m.Furiten[furiten] = v != 0
					furiten++
					packed = packed[vn:]
				}
				b = b[n:]
				continue
			}
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			if furiten > 3 {
				return nil, fmt.Errorf("furiten vector longer than 4 seats")
			}
			m.Furiten[furiten] = v != 0
			furiten++
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	if furiten != 4 {
		return nil, fmt.Errorf("furiten vector has %d seats, want 4", furiten)
	}
	return m, nil
}

// MarshalDiscard encodes a Discard payload
func MarshalDiscard(m *Discard) []byte {
	var b []byte
	b = appendInt(b, 1, int64(m.Seat))
	b = appendString(b, 2, m.Tile)
	b = appendBool(b, 3, m.Riichi)
	b = appendBool(b, 4, m.DoubleRiichi)
	for _, f := range m.Furiten {
		b = appendBool(b, 5, f)
	}
	return b
}

func unmarshalCall(b []byte) (*Call, error) {
	seat, kind, err := unmarshalSeatKind(b)
	if err != nil {
		return nil, err
	}
	return &Call{Seat: seat, Kind: kind}, nil
}

// MarshalCall encodes a Call payload
func MarshalCall(m *Call) []byte {
	return marshalSeatKind(m.Seat, m.Kind)
}

func unmarshalKan(b []byte) (*Kan, error) {
	seat, kind, err := unmarshalSeatKind(b)
	if err != nil {
		return nil, err
	}
	return &Kan{Seat: seat, Kind: kind}, nil
}

// MarshalKan encodes a Kan payload
func MarshalKan(m *Kan) []byte {
	return marshalSeatKind(m.Seat, m.Kind)
}

// unmarshalSeatKind handles the shared {seat=1, type=2} record shape
func unmarshalSeatKind(b []byte) (int, int, error) {
	var seat, kind int
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return 0, 0, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case 1, 2:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return 0, 0, protowire.ParseError(n)
			}
			if num == 1 {
				seat = int(v)
			} else {
				kind = int(v)
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return 0, 0, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return seat, kind, nil
}

func marshalSeatKind(seat, kind int) []byte {
	var b []byte
	b = appendInt(b, 1, int64(seat))
	b = appendInt(b, 2, int64(kind))
	return b
}

func unmarshalNoTile(b []byte) (*NoTile, error) {
	m := &NoTile{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			m.NagashiMangan = v != 0
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			tenpai, err := unmarshalNoTilePlayer(v)
			if err != nil {
				return nil, err
			}
			m.Tenpai = append(m.Tenpai, tenpai)
			b = b[n:]
		case 3:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			seat, err := unmarshalNoTileScore(v)
			if err != nil {
				return nil, err
			}
			m.NagashiSeats = append(m.NagashiSeats, seat)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return m, nil
}

func unmarshalNoTilePlayer(b []byte) (bool, error) {
	tenpai := false
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return false, protowire.ParseError(n)
		}
		b = b[n:]
		if num == 1 {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return false, protowire.ParseError(n)
			}
			tenpai = v != 0
			b = b[n:]
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return false, protowire.ParseError(n)
		}
		b = b[n:]
	}
	return tenpai, nil
}

func unmarshalNoTileScore(b []byte) (int, error) {
	seat := 0
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		b = b[n:]
		if num == 1 {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			seat = int(v)
			b = b[n:]
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		b = b[n:]
	}
	return seat, nil
}

// MarshalNoTile encodes a NoTile payload
func MarshalNoTile(m *NoTile) []byte {
	var b []byte
	b = appendBool(b, 1, m.NagashiMangan)
	for _, tenpai := range m.Tenpai {
		b = appendMessage(b, 2, appendBool(nil, 1, tenpai))
	}
	for _, seat := range m.NagashiSeats {
		b = appendMessage(b, 3, appendInt(nil, 1, int64(seat)))
	}
	return b
}

func unmarshalWin(b []byte) (*Win, error) {
	m := &Win{}
	deltas := 0
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			winner, err := unmarshalWinner(v)
			if err != nil {
				return nil, err
			}
			m.Winners = append(m.Winners, *winner)
			b = b[n:]
		case 2:
			// repeated int32; tolerate both packed and unpacked encodings
			if typ == protowire.BytesType {
				packed, n := protowire.ConsumeBytes(b)
				if n < 0 {
					return nil, protowire.ParseError(n)
				}
				for len(packed) > 0 {
					v, vn := protowire.ConsumeVarint(packed)
					if vn < 0 {
						return nil, protowire.ParseError(vn)
					}
					if deltas > 3 {
						return nil, fmt.Errorf("delta vector longer than 4 seats")
					}
					m.DeltaScores[deltas] = int(int64(v))
					deltas++
					packed = packed[vn:]
				}
				b = b[n:]
				continue
			}
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			if deltas > 3 {
				return nil, fmt.Errorf("delta vector longer than 4 seats")
			}
			m.DeltaScores[deltas] = int(int64(v))
			deltas++
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	if deltas != 4 {
		return nil, fmt.Errorf("delta vector has %d seats, want 4", deltas)
	}
	return m, nil
}

func unmarshalWinner(b []byte) (*Winner, error) {
	m := &Winner{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case 1, 2, 3, 4, 5:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			switch num {
			case 1:
				m.Seat = int(v)
			case 2:
				m.SelfDraw = v != 0
			case 3:
				m.ConsumedRiichi = v != 0
			case 4:
				m.Yakuman = v != 0
			case 5:
				m.BasePoints = int(int64(v))
			}
			b = b[n:]
		case 6:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			yc, err := unmarshalYakuCount(v)
			if err != nil {
				return nil, err
			}
			m.Yaku = append(m.Yaku, *yc)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return m, nil
}

func unmarshalYakuCount(b []byte) (*YakuCount, error) {
	m := &YakuCount{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case 1, 2:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			if num == 1 {
				m.ID = int(v)
			} else {
				m.Count = int(v)
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return m, nil
}

// MarshalWin encodes a Win payload
func MarshalWin(m *Win) []byte {
	var b []byte
	for _, w := range m.Winners {
		var wb []byte
		wb = appendInt(wb, 1, int64(w.Seat))
		wb = appendBool(wb, 2, w.SelfDraw)
		wb = appendBool(wb, 3, w.ConsumedRiichi)
		wb = appendBool(wb, 4, w.Yakuman)
		wb = appendInt(wb, 5, int64(w.BasePoints))
		for _, yc := range w.Yaku {
			var yb []byte
			yb = appendInt(yb, 1, int64(yc.ID))
			yb = appendInt(yb, 2, int64(yc.Count))
			wb = appendMessage(wb, 6, yb)
		}
		b = appendMessage(b, 1, wb)
	}
	for _, d := range m.DeltaScores {
		b = appendInt(b, 2, int64(d))
	}
	return b
}

func unmarshalAbort(b []byte) (*Abort, error) {
	m := &Abort{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		if num == 1 {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			m.Reason = int(v)
			b = b[n:]
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
	}
	return m, nil
}

// MarshalAbort encodes an Abort payload
func MarshalAbort(m *Abort) []byte {
	return appendInt(nil, 1, int64(m.Reason))
}

// MarshalDealTile encodes a DealTile payload (the engine ignores these, but
// real logs contain them between every discard)
func MarshalDealTile(seat int, tile string) []byte {
	var b []byte
	b = appendInt(b, 1, int64(seat))
	b = appendString(b, 2, tile)
	return b
}
