package codec

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Fully-qualified RPC method names on the lobby service
const (
	MethodFetchGameLiveList      = ".lq.Lobby.fetchGameLiveList"
	MethodFetchGameRecord        = ".lq.Lobby.fetchGameRecord"
	MethodFetchGameRecordsDetail = ".lq.Lobby.fetchGameRecordsDetail"
	MethodFetchContestInfo       = ".lq.Lobby.fetchCustomizedContestByContestId"
	MethodFetchContestRecords    = ".lq.Lobby.fetchCustomizedContestGameRecords"
)

// LiveGame is one entry of a live-game list response
type LiveGame struct {
	UUID      string
	StartTime int64
	ModeID    int64
	Players   []LivePlayer
}

// LivePlayer is one seated player inside a LiveGame, already in seat order
type LivePlayer struct {
	AccountID int64
	Nickname  string
	Level     int64
}

// MarshalReqGameLiveList encodes a live-list request for one filter partition
func MarshalReqGameLiveList(filterID int64) []byte {
	return appendInt(nil, 1, filterID)
}

// UnmarshalResGameLiveList decodes a live-list response
func UnmarshalResGameLiveList(b []byte) ([]LiveGame, error) {
	var games []LiveGame
	err := eachField(b, func(num protowire.Number, v []byte) error {
		if num != 1 {
			return nil
		}
		g, err := unmarshalLiveGame(v)
		if err != nil {
			return err
		}
		games = append(games, *g)
		return nil
	})
	return games, err
}

func unmarshalLiveGame(b []byte) (*LiveGame, error) {
	g := &LiveGame{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			g.UUID = v
			b = b[n:]
		case 2, 3:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			if num == 2 {
				g.StartTime = int64(v)
			} else {
				g.ModeID = int64(v)
			}
			b = b[n:]
		case 4:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			p, err := unmarshalLivePlayer(v)
			if err != nil {
				return nil, err
			}
			g.Players = append(g.Players, *p)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return g, nil
}

func unmarshalLivePlayer(b []byte) (*LivePlayer, error) {
	p := &LivePlayer{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case 1, 3:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			if num == 1 {
				p.AccountID = int64(v)
			} else {
				p.Level = int64(v)
			}
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			p.Nickname = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return p, nil
}

// MarshalLiveGame encodes one live-list entry (test fixtures and the memory
// gateway use this)
func MarshalLiveGame(g *LiveGame) []byte {
	var b []byte
	b = appendString(b, 1, g.UUID)
	b = appendInt(b, 2, g.StartTime)
	b = appendInt(b, 3, g.ModeID)
	for _, p := range g.Players {
		var pb []byte
		pb = appendInt(pb, 1, p.AccountID)
		pb = appendString(pb, 2, p.Nickname)
		pb = appendInt(pb, 3, p.Level)
		b = appendMessage(b, 4, pb)
	}
	return b
}

// MarshalResGameLiveList encodes a live-list response
func MarshalResGameLiveList(games []LiveGame) []byte {
	var b []byte
	for i := range games {
		b = appendMessage(b, 1, MarshalLiveGame(&games[i]))
	}
	return b
}

// GameRecordHead is the match header attached to a record response
type GameRecordHead struct {
	UUID      string
	StartTime int64
	ModeID    int64
	Players   []LivePlayer
}

// ResGameRecord carries one match's raw event payload, either inline or by URL
type ResGameRecord struct {
	Head    *GameRecordHead
	Data    []byte
	DataURL string
}

// MarshalReqGameRecord encodes a single-record request
func MarshalReqGameRecord(gameUUID string) []byte {
	return appendString(nil, 1, gameUUID)
}

// UnmarshalResGameRecord decodes a single-record response
func UnmarshalResGameRecord(b []byte) (*ResGameRecord, error) {
	r := &ResGameRecord{}
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
			head, err := unmarshalGameRecordHead(v)
			if err != nil {
				return nil, err
			}
			r.Head = head
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			r.Data = v
			b = b[n:]
		case 3:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			r.DataURL = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return r, nil
}

func unmarshalGameRecordHead(b []byte) (*GameRecordHead, error) {
	h := &GameRecordHead{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			h.UUID = v
			b = b[n:]
		case 2, 3:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			if num == 2 {
				h.StartTime = int64(v)
			} else {
				h.ModeID = int64(v)
			}
			b = b[n:]
		case 4:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			p, err := unmarshalLivePlayer(v)
			if err != nil {
				return nil, err
			}
			h.Players = append(h.Players, *p)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return h, nil
}

func marshalGameRecordHead(h *GameRecordHead) []byte {
	var b []byte
	b = appendString(b, 1, h.UUID)
	b = appendInt(b, 2, h.StartTime)
	b = appendInt(b, 3, h.ModeID)
	for _, p := range h.Players {
		var pb []byte
		pb = appendInt(pb, 1, p.AccountID)
		pb = appendString(pb, 2, p.Nickname)
		pb = appendInt(pb, 3, p.Level)
		b = appendMessage(b, 4, pb)
	}
	return b
}

// MarshalResGameRecord encodes a single-record response
func MarshalResGameRecord(r *ResGameRecord) []byte {
	var b []byte
	if r.Head != nil {
		b = appendMessage(b, 1, marshalGameRecordHead(r.Head))
	}
	if len(r.Data) > 0 {
		b = appendMessage(b, 2, r.Data)
	}
	if r.DataURL != "" {
		b = appendString(b, 3, r.DataURL)
	}
	return b
}

// MarshalReqGameRecordsDetail encodes a batched metadata request
func MarshalReqGameRecordsDetail(uuids []string) []byte {
	var b []byte
	for _, u := range uuids {
		b = appendString(b, 1, u)
	}
	return b
}

// UnmarshalResGameRecordsDetail decodes a batched metadata response into the
// resolved match identifiers
func UnmarshalResGameRecordsDetail(b []byte) ([]GameRecordHead, error) {
	var heads []GameRecordHead
	err := eachField(b, func(num protowire.Number, v []byte) error {
		if num != 1 {
			return nil
		}
		h, err := unmarshalGameRecordHead(v)
		if err != nil {
			return err
		}
		heads = append(heads, *h)
		return nil
	})
	return heads, err
}

// MarshalResGameRecordsDetail encodes a batched metadata response
func MarshalResGameRecordsDetail(heads []GameRecordHead) []byte {
	var b []byte
	for i := range heads {
		b = appendMessage(b, 1, marshalGameRecordHead(&heads[i]))
	}
	return b
}

// MarshalReqContestInfo encodes a contest lookup by public contest id
func MarshalReqContestInfo(contestID int64) []byte {
	return appendInt(nil, 1, contestID)
}

// UnmarshalResContestInfo decodes a contest lookup response into the
// contest's internal unique id
func UnmarshalResContestInfo(b []byte) (int64, error) {
	var uniqueID int64
	// unique_id is a varint inside the contest_info submessage
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		b = b[n:]
		if num == 1 && typ == protowire.BytesType {
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			for len(v) > 0 {
				inum, ityp, in := protowire.ConsumeTag(v)
				if in < 0 {
					return 0, protowire.ParseError(in)
				}
				v = v[in:]
				if inum == 1 {
					id, in := protowire.ConsumeVarint(v)
					if in < 0 {
						return 0, protowire.ParseError(in)
					}
					uniqueID = int64(id)
					v = v[in:]
					continue
				}
				in = protowire.ConsumeFieldValue(inum, ityp, v)
				if in < 0 {
					return 0, protowire.ParseError(in)
				}
				v = v[in:]
			}
			b = b[n:]
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		b = b[n:]
	}
	return uniqueID, nil
}

// MarshalResContestInfo encodes a contest lookup response
func MarshalResContestInfo(uniqueID int64) []byte {
	return appendMessage(nil, 1, appendInt(nil, 1, uniqueID))
}

// ResContestRecords is one page of a contest's game list
type ResContestRecords struct {
	UUIDs     []string
	NextIndex int64
}

// MarshalReqContestRecords encodes a contest page request; lastIndex 0 asks
// for the first page
func MarshalReqContestRecords(uniqueID, lastIndex int64) []byte {
	var b []byte
	b = appendInt(b, 1, uniqueID)
	if lastIndex != 0 {
		b = appendInt(b, 2, lastIndex)
	}
	return b
}

// UnmarshalResContestRecords decodes a contest page response
func UnmarshalResContestRecords(b []byte) (*ResContestRecords, error) {
	r := &ResContestRecords{}
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
			h, err := unmarshalGameRecordHead(v)
			if err != nil {
				return nil, err
			}
			r.UUIDs = append(r.UUIDs, h.UUID)
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			r.NextIndex = int64(v)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return r, nil
}

// MarshalResContestRecords encodes a contest page response
func MarshalResContestRecords(r *ResContestRecords) []byte {
	var b []byte
	for _, u := range r.UUIDs {
		b = appendMessage(b, 1, appendString(nil, 1, u))
	}
	if r.NextIndex != 0 {
		b = appendInt(b, 2, r.NextIndex)
	}
	return b
}

// eachField walks length-delimited fields, handing each to fn and skipping
// everything else
func eachField(b []byte, fn func(num protowire.Number, v []byte) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		if typ == protowire.BytesType {
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			if err := fn(num, v); err != nil {
				return err
			}
			b = b[n:]
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}
