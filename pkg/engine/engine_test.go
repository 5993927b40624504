package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/soulstats/collector/internal/types"
	"github.com/soulstats/collector/pkg/codec"
	"github.com/soulstats/collector/pkg/entities"
)

type EngineSuite struct {
	suite.Suite
	game *entities.GameSummary
}

func (s *EngineSuite) SetupTest() {
	s.game = &entities.GameSummary{UUID: "220101-0f2c1a60-aaaa-bbbb-cccc-0123456789ab"}
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

// tenpaiHand is a 13-tile hand one tile from winning
func tenpaiHand() []string {
	return strings.Fields("1m 2m 3m 4m 5m 6m 7m 8m 9m 1p 2p 3p 5z")
}

// dealerHand is a 14-tile hand (the dealer starts with one extra tile)
func dealerHand() []string {
	return append(tenpaiHand(), "1z")
}

func record(name string, payload []byte) []byte {
	return codec.MarshalWrapper(&codec.Wrapper{Name: name, Data: payload})
}

func matchData(records ...[]byte) []byte {
	set := codec.MarshalRecordSet(&codec.RecordSet{Records: records})
	return codec.MarshalWrapper(&codec.Wrapper{Name: ".lq.GameDetailRecords", Data: set})
}

// newRoundRecord deals a round with the dealer at the given seat
func newRoundRecord(dealer int) []byte {
	nr := &codec.NewRound{Wall: "4z4z4z"}
	for seat := 0; seat < 4; seat++ {
		if seat == dealer {
			nr.Tiles[seat] = dealerHand()
		} else {
			nr.Tiles[seat] = tenpaiHand()
		}
	}
	return record(codec.NameNewRound, codec.MarshalNewRound(nr))
}

func discardRecord(seat int, riichi, double bool, furiten [4]bool) []byte {
	return record(codec.NameDiscard, codec.MarshalDiscard(&codec.Discard{
		Seat:         seat,
		Tile:         "1z",
		Riichi:       riichi,
		DoubleRiichi: double,
		Furiten:      furiten,
	}))
}

func (s *EngineSuite) TestRoundCountMatchesRoundStarts() {
	data := matchData(
		newRoundRecord(0),
		record(codec.NameAbort, codec.MarshalAbort(&codec.Abort{Reason: 1})),
		newRoundRecord(1),
		record(codec.NameAbort, codec.MarshalAbort(&codec.Abort{Reason: 2})),
	)

	rounds, err := Reconstruct(s.game, data)
	s.Require().NoError(err)
	s.Require().Len(rounds, 2)

	for i, round := range rounds {
		dealers := 0
		for _, seat := range round {
			if seat.Dealer {
				dealers++
			}
		}
		s.Equal(1, dealers, "round %d should have exactly one dealer", i)
	}
	s.True(rounds[0][0].Dealer)
	s.True(rounds[1][1].Dealer)
	s.Equal("4z4z4z", rounds[0][0].WallOrder)
	s.Empty(rounds[0][1].WallOrder, "wall order only recorded for the dealer")
	s.Equal(0, rounds[0][1].StartingShanten)
	s.Equal(1, rounds[0][0].AbortReason)
	s.Equal(2, rounds[1][3].AbortReason)
}

func (s *EngineSuite) TestNoDealerIsFatal() {
	nr := &codec.NewRound{}
	for seat := 0; seat < 4; seat++ {
		nr.Tiles[seat] = tenpaiHand()
	}
	data := matchData(record(codec.NameNewRound, codec.MarshalNewRound(nr)))

	_, err := Reconstruct(s.game, data)
	s.Require().Error(err)
	s.True(types.IsIngestError(err, types.ErrInvariant))
	s.Contains(err.Error(), s.game.UUID)
}

func (s *EngineSuite) TestTwoDealersIsFatal() {
	nr := &codec.NewRound{}
	for seat := 0; seat < 4; seat++ {
		if seat < 2 {
			nr.Tiles[seat] = dealerHand()
		} else {
			nr.Tiles[seat] = tenpaiHand()
		}
	}
	data := matchData(record(codec.NameNewRound, codec.MarshalNewRound(nr)))

	_, err := Reconstruct(s.game, data)
	s.True(types.IsIngestError(err, types.ErrInvariant))
}

func (s *EngineSuite) TestUnknownEventIsFatal() {
	data := matchData(
		newRoundRecord(0),
		record(".lq.RecordBaBei", []byte{0x08, 0x02}),
	)

	_, err := Reconstruct(s.game, data)
	s.Require().Error(err)
	s.True(types.IsIngestError(err, types.ErrUnknownEvent))
	s.Contains(err.Error(), s.game.UUID)
	s.Contains(err.Error(), ".lq.RecordBaBei")
}

func (s *EngineSuite) TestEventBeforeRoundStartIsFatal() {
	data := matchData(discardRecord(0, false, false, [4]bool{}))

	_, err := Reconstruct(s.game, data)
	s.True(types.IsIngestError(err, types.ErrInvariant))
}

func (s *EngineSuite) TestDealTileIsIgnored() {
	data := matchData(
		record(codec.NameDealTile, codec.MarshalDealTile(0, "3s")),
		newRoundRecord(0),
		record(codec.NameDealTile, codec.MarshalDealTile(1, "7p")),
	)

	rounds, err := Reconstruct(s.game, data)
	s.NoError(err)
	s.Len(rounds, 1)
}

func (s *EngineSuite) TestSelfDrawScenario() {
	// Dealer at seat 0 discards, seat 1 declares riichi, then wins by
	// self-draw with the other three seats paying
	data := matchData(
		newRoundRecord(0),
		discardRecord(0, false, false, [4]bool{}),
		discardRecord(1, true, false, [4]bool{}),
		record(codec.NameWin, codec.MarshalWin(&codec.Win{
			Winners: []codec.Winner{{
				Seat:           1,
				SelfDraw:       true,
				ConsumedRiichi: true,
				BasePoints:     6000,
				Yaku:           []codec.YakuCount{{ID: 1, Count: 1}, {ID: 30, Count: 2}},
			}},
			DeltaScores: [4]int{-2000, 7000, -2500, -2500},
		})),
	)

	rounds, err := Reconstruct(s.game, data)
	s.Require().NoError(err)
	s.Require().Len(rounds, 1)

	seat1 := rounds[0][1]
	s.Equal(1, seat1.RiichiTurn)
	s.False(seat1.DoubleRiichi)
	s.Require().NotNil(seat1.Win)
	s.Equal(6000, seat1.Win.Delta, "riichi stick deducted from the declared delta")
	s.Equal([]int{1, 30, 30}, seat1.Win.Yaku)
	s.Equal(1, seat1.Win.Turn)
	s.True(seat1.SelfDraw)
	s.Zero(seat1.LiabilityPaid)
	s.Zero(seat1.DealInPaid)
	s.Zero(rounds[0][0].LiabilityPaid)
}

func (s *EngineSuite) TestDoubleRiichiOnFirstDiscard() {
	data := matchData(
		newRoundRecord(0),
		discardRecord(0, false, true, [4]bool{}),
		record(codec.NameAbort, codec.MarshalAbort(&codec.Abort{Reason: 3})),
	)

	rounds, err := Reconstruct(s.game, data)
	s.Require().NoError(err)
	seat0 := rounds[0][0]
	s.Equal(1, seat0.RiichiTurn)
	s.True(seat0.DoubleRiichi)
}

func (s *EngineSuite) TestFuritenRiichi() {
	data := matchData(
		newRoundRecord(0),
		discardRecord(2, true, false, [4]bool{false, false, true, false}),
		record(codec.NameAbort, codec.MarshalAbort(&codec.Abort{Reason: 1})),
	)

	rounds, err := Reconstruct(s.game, data)
	s.Require().NoError(err)
	s.True(rounds[0][2].FuritenRiichi)
}

func (s *EngineSuite) TestMeldsCounted() {
	data := matchData(
		newRoundRecord(0),
		record(codec.NameCall, codec.MarshalCall(&codec.Call{Seat: 3, Kind: 1})),
		record(codec.NameCall, codec.MarshalCall(&codec.Call{Seat: 3, Kind: 2})),
		record(codec.NameCall, codec.MarshalCall(&codec.Call{Seat: 1, Kind: 0})),
		record(codec.NameAbort, codec.MarshalAbort(&codec.Abort{Reason: 1})),
	)

	rounds, err := Reconstruct(s.game, data)
	s.Require().NoError(err)
	s.Equal(2, rounds[0][3].Melds)
	s.Equal(1, rounds[0][1].Melds)
	s.Zero(rounds[0][0].Melds)
}

func (s *EngineSuite) TestDealInAttributedToLastDiscarder() {
	data := matchData(
		newRoundRecord(0),
		discardRecord(2, false, false, [4]bool{}),
		record(codec.NameWin, codec.MarshalWin(&codec.Win{
			Winners:     []codec.Winner{{Seat: 3, BasePoints: 3900}},
			DeltaScores: [4]int{0, 0, -3900, 3900},
		})),
	)

	rounds, err := Reconstruct(s.game, data)
	s.Require().NoError(err)
	s.Equal(3900, rounds[0][2].DealInPaid)
	s.Zero(rounds[0][2].LiabilityPaid)
}

func (s *EngineSuite) TestRobbedKanAttributesDealIn() {
	data := matchData(
		newRoundRecord(0),
		discardRecord(0, false, false, [4]bool{}),
		record(codec.NameKan, codec.MarshalKan(&codec.Kan{Seat: 2, Kind: 3})),
		record(codec.NameWin, codec.MarshalWin(&codec.Win{
			Winners:     []codec.Winner{{Seat: 1, BasePoints: 8000}},
			DeltaScores: [4]int{0, 8000, -8000, 0},
		})),
	)

	rounds, err := Reconstruct(s.game, data)
	s.Require().NoError(err)
	s.Equal(8000, rounds[0][2].DealInPaid)
}

func (s *EngineSuite) TestDealInFromWrongSeatIsFatal() {
	data := matchData(
		newRoundRecord(0),
		discardRecord(2, false, false, [4]bool{}),
		record(codec.NameWin, codec.MarshalWin(&codec.Win{
			Winners:     []codec.Winner{{Seat: 3, BasePoints: 3900}},
			DeltaScores: [4]int{-3900, 0, 0, 3900},
		})),
	)

	_, err := Reconstruct(s.game, data)
	s.True(types.IsIngestError(err, types.ErrInvariant))
}

func (s *EngineSuite) TestSelfDrawWithTwoLosersIsFatal() {
	data := matchData(
		newRoundRecord(0),
		discardRecord(0, false, false, [4]bool{}),
		record(codec.NameWin, codec.MarshalWin(&codec.Win{
			Winners:     []codec.Winner{{Seat: 1, SelfDraw: true, BasePoints: 2000}},
			DeltaScores: [4]int{-1000, 2000, -1000, 0},
		})),
	)

	_, err := Reconstruct(s.game, data)
	s.True(types.IsIngestError(err, types.ErrInvariant))
}

func (s *EngineSuite) TestYakumanSelfDrawSinglePayerLiability() {
	data := matchData(
		newRoundRecord(0),
		discardRecord(0, false, false, [4]bool{}),
		record(codec.NameWin, codec.MarshalWin(&codec.Win{
			Winners:     []codec.Winner{{Seat: 1, SelfDraw: true, Yakuman: true, BasePoints: 32000}},
			DeltaScores: [4]int{-32000, 32000, 0, 0},
		})),
	)

	rounds, err := Reconstruct(s.game, data)
	s.Require().NoError(err)
	s.Equal(32000, rounds[0][0].LiabilityPaid, "the liable seat bears the whole yakuman payment")
	s.Require().NotNil(rounds[0][1].Win)
	s.Equal(32000, rounds[0][1].Win.Delta)
}

func (s *EngineSuite) TestYakumanDoubleLiabilityOnDiscardWin() {
	data := matchData(
		newRoundRecord(0),
		discardRecord(2, false, false, [4]bool{}),
		record(codec.NameWin, codec.MarshalWin(&codec.Win{
			Winners:     []codec.Winner{{Seat: 1, Yakuman: true, BasePoints: 32000}},
			DeltaScores: [4]int{-16000, 32000, -16000, 0},
		})),
	)

	rounds, err := Reconstruct(s.game, data)
	s.Require().NoError(err)
	s.Equal(16000, rounds[0][2].DealInPaid, "the discarder pays as a normal deal-in")
	s.Equal(16000, rounds[0][0].LiabilityPaid, "the liable seat splits the payment")
}

func (s *EngineSuite) TestTwoLosersWithoutYakumanIsFatal() {
	data := matchData(
		newRoundRecord(0),
		discardRecord(2, false, false, [4]bool{}),
		record(codec.NameWin, codec.MarshalWin(&codec.Win{
			Winners:     []codec.Winner{{Seat: 1, BasePoints: 8000}},
			DeltaScores: [4]int{-4000, 8000, -4000, 0},
		})),
	)

	_, err := Reconstruct(s.game, data)
	s.True(types.IsIngestError(err, types.ErrInvariant))
}

func (s *EngineSuite) TestShortPaidWinCorrectedByYakumanCoWinner() {
	// Seat 2's yakuman absorbed most of the discarder's payment; seat 1's
	// share comes back through the liability correction
	data := matchData(
		newRoundRecord(0),
		discardRecord(0, false, false, [4]bool{}),
		record(codec.NameWin, codec.MarshalWin(&codec.Win{
			Winners: []codec.Winner{
				{Seat: 1, BasePoints: 7700},
				{Seat: 2, Yakuman: true, BasePoints: 48000},
			},
			DeltaScores: [4]int{-55000, 1000, 47500, 0},
		})),
	)

	rounds, err := Reconstruct(s.game, data)
	s.Require().NoError(err)

	seat1 := rounds[0][1]
	s.Require().NotNil(seat1.Win)
	s.Equal(25000, seat1.Win.Delta, "half the yakuman's value restored")
	s.Equal(24000, seat1.LiabilityPaid)
	s.Equal(55000, rounds[0][0].DealInPaid)

	seat2 := rounds[0][2]
	s.Require().NotNil(seat2.Win)
	s.Equal(47500, seat2.Win.Delta)
	s.Zero(seat2.LiabilityPaid)
}

func (s *EngineSuite) TestShortPaidWinWithSingleWinnerIsFatal() {
	data := matchData(
		newRoundRecord(0),
		discardRecord(0, false, false, [4]bool{}),
		record(codec.NameWin, codec.MarshalWin(&codec.Win{
			Winners:     []codec.Winner{{Seat: 1, BasePoints: 7700}},
			DeltaScores: [4]int{-1000, 1000, 0, 0},
		})),
	)

	_, err := Reconstruct(s.game, data)
	s.True(types.IsIngestError(err, types.ErrInvariant))
}

func (s *EngineSuite) TestExhaustiveDrawFlags() {
	ready := true
	data := matchData(
		newRoundRecord(0),
		record(codec.NameNoTile, codec.MarshalNoTile(&codec.NoTile{
			NagashiMangan: true,
			Tenpai:        []bool{true, false, true, false},
			NagashiSeats:  []int{2},
		})),
	)

	rounds, err := Reconstruct(s.game, data)
	s.Require().NoError(err)
	s.True(rounds[0][2].NagashiMangan)
	s.False(rounds[0][1].NagashiMangan)
	s.Require().NotNil(rounds[0][0].TenpaiAtDraw)
	s.Equal(ready, *rounds[0][0].TenpaiAtDraw)
	s.Require().NotNil(rounds[0][1].TenpaiAtDraw)
	s.False(*rounds[0][1].TenpaiAtDraw)
}

func (s *EngineSuite) TestShortTenpaiVectorIsFatal() {
	data := matchData(
		newRoundRecord(0),
		record(codec.NameNoTile, codec.MarshalNoTile(&codec.NoTile{
			Tenpai: []bool{true, false},
		})),
	)

	_, err := Reconstruct(s.game, data)
	s.True(types.IsIngestError(err, types.ErrInvariant))
}

func (s *EngineSuite) TestReconstructionIsDeterministic() {
	data := matchData(
		newRoundRecord(0),
		discardRecord(0, false, false, [4]bool{}),
		discardRecord(1, true, false, [4]bool{}),
		record(codec.NameWin, codec.MarshalWin(&codec.Win{
			Winners: []codec.Winner{{
				Seat:           1,
				SelfDraw:       true,
				ConsumedRiichi: true,
				BasePoints:     6000,
				Yaku:           []codec.YakuCount{{ID: 1, Count: 1}},
			}},
			DeltaScores: [4]int{-2000, 7000, -2500, -2500},
		})),
	)

	first, err := Reconstruct(s.game, data)
	s.Require().NoError(err)
	second, err := Reconstruct(s.game, data)
	s.Require().NoError(err)
	s.Equal(first, second)
}
