package protocol

import (
	"github.com/lox/pokerrooms/internal/deck"
	"github.com/lox/pokerrooms/internal/game"
	"github.com/tinylib/msgp/msgp"
)

// MarshalMsg implements msgp.Marshaler
func (z JoinGame) MarshalMsg(b []byte) ([]byte, error) {
	b = msgp.AppendMapHeader(b, 3)
	b = msgp.AppendString(b, "roomId")
	b = msgp.AppendString(b, z.RoomID)
	b = msgp.AppendString(b, "playerName")
	b = msgp.AppendString(b, z.PlayerName)
	b = msgp.AppendString(b, "buyIn")
	b = msgp.AppendInt(b, z.BuyIn)
	return b, nil
}

// UnmarshalMsg implements msgp.Unmarshaler
func (z *JoinGame) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var field []byte
	var sz uint32
	sz, bts, err = msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return nil, msgp.WrapError(err)
	}
	for ; sz > 0; sz-- {
		field, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return nil, msgp.WrapError(err)
		}
		switch msgp.UnsafeString(field) {
		case "roomId":
			z.RoomID, bts, err = msgp.ReadStringBytes(bts)
			if err != nil {
				return nil, msgp.WrapError(err, "RoomID")
			}
		case "playerName":
			z.PlayerName, bts, err = msgp.ReadStringBytes(bts)
			if err != nil {
				return nil, msgp.WrapError(err, "PlayerName")
			}
		case "buyIn":
			z.BuyIn, bts, err = msgp.ReadIntBytes(bts)
			if err != nil {
				return nil, msgp.WrapError(err, "BuyIn")
			}
		default:
			bts, err = msgp.Skip(bts)
			if err != nil {
				return nil, msgp.WrapError(err)
			}
		}
	}
	return bts, nil
}

// MarshalMsg implements msgp.Marshaler
func (z PlayerAction) MarshalMsg(b []byte) ([]byte, error) {
	b = msgp.AppendMapHeader(b, 2)
	b = msgp.AppendString(b, "action")
	b = msgp.AppendString(b, z.Action)
	b = msgp.AppendString(b, "amount")
	b = msgp.AppendInt(b, z.Amount)
	return b, nil
}

// UnmarshalMsg implements msgp.Unmarshaler
func (z *PlayerAction) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var field []byte
	var sz uint32
	sz, bts, err = msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return nil, msgp.WrapError(err)
	}
	for ; sz > 0; sz-- {
		field, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return nil, msgp.WrapError(err)
		}
		switch msgp.UnsafeString(field) {
		case "action":
			z.Action, bts, err = msgp.ReadStringBytes(bts)
			if err != nil {
				return nil, msgp.WrapError(err, "Action")
			}
		case "amount":
			z.Amount, bts, err = msgp.ReadIntBytes(bts)
			if err != nil {
				return nil, msgp.WrapError(err, "Amount")
			}
		default:
			bts, err = msgp.Skip(bts)
			if err != nil {
				return nil, msgp.WrapError(err)
			}
		}
	}
	return bts, nil
}

// MarshalMsg implements msgp.Marshaler
func (z LeaveGame) MarshalMsg(b []byte) ([]byte, error) {
	return msgp.AppendMapHeader(b, 0), nil
}

// UnmarshalMsg implements msgp.Unmarshaler
func (z *LeaveGame) UnmarshalMsg(bts []byte) ([]byte, error) {
	if msgp.IsNil(bts) {
		return msgp.ReadNilBytes(bts)
	}
	return msgp.Skip(bts)
}

// MarshalMsg implements msgp.Marshaler
func (z JoinedGame) MarshalMsg(b []byte) ([]byte, error) {
	b = msgp.AppendMapHeader(b, 4)
	b = msgp.AppendString(b, "success")
	b = msgp.AppendBool(b, z.Success)
	b = msgp.AppendString(b, "playerId")
	b = msgp.AppendString(b, z.PlayerID)
	b = msgp.AppendString(b, "gameState")
	if z.GameState == nil {
		b = msgp.AppendNil(b)
	} else {
		b = appendSnapshot(b, *z.GameState)
	}
	b = msgp.AppendString(b, "error")
	b = msgp.AppendString(b, z.Error)
	return b, nil
}

// MarshalMsg implements msgp.Marshaler
func (z PlayerJoined) MarshalMsg(b []byte) ([]byte, error) {
	b = msgp.AppendMapHeader(b, 1)
	b = msgp.AppendString(b, "player")
	return appendPlayerView(b, z.Player), nil
}

// MarshalMsg implements msgp.Marshaler
func (z GameUpdate) MarshalMsg(b []byte) ([]byte, error) {
	return appendSnapshot(b, z.Snapshot), nil
}

// MarshalMsg implements msgp.Marshaler
func (z NewHand) MarshalMsg(b []byte) ([]byte, error) {
	return appendSnapshot(b, z.Snapshot), nil
}

// MarshalMsg implements msgp.Marshaler
func (z HoleCards) MarshalMsg(b []byte) ([]byte, error) {
	b = msgp.AppendMapHeader(b, 2)
	b = msgp.AppendString(b, "handId")
	b = msgp.AppendString(b, z.HandID)
	b = msgp.AppendString(b, "cards")
	return appendCards(b, z.Cards), nil
}

// MarshalMsg implements msgp.Marshaler
func (z HandEnd) MarshalMsg(b []byte) ([]byte, error) {
	b = msgp.AppendMapHeader(b, 5)
	b = msgp.AppendString(b, "handId")
	b = msgp.AppendString(b, z.HandID)
	b = msgp.AppendString(b, "winner")
	b = msgp.AppendMapHeader(b, 2)
	b = msgp.AppendString(b, "id")
	b = msgp.AppendString(b, z.Winner.ID)
	b = msgp.AppendString(b, "name")
	b = msgp.AppendString(b, z.Winner.Name)
	b = msgp.AppendString(b, "amount")
	b = msgp.AppendInt(b, z.Amount)
	b = msgp.AppendString(b, "showdown")
	b = msgp.AppendBool(b, z.Showdown)
	b = msgp.AppendString(b, "players")
	b = msgp.AppendArrayHeader(b, uint32(len(z.Players)))
	for _, p := range z.Players {
		b = appendPlayerView(b, p)
	}
	return b, nil
}

// MarshalMsg implements msgp.Marshaler
func (z PlayerLeft) MarshalMsg(b []byte) ([]byte, error) {
	b = msgp.AppendMapHeader(b, 1)
	b = msgp.AppendString(b, "player")
	return appendPlayerView(b, z.Player), nil
}

// MarshalMsg implements msgp.Marshaler
func (z Error) MarshalMsg(b []byte) ([]byte, error) {
	b = msgp.AppendMapHeader(b, 2)
	b = msgp.AppendString(b, "code")
	b = msgp.AppendString(b, z.Code)
	b = msgp.AppendString(b, "message")
	b = msgp.AppendString(b, z.Message)
	return b, nil
}

func appendSnapshot(b []byte, s game.Snapshot) []byte {
	b = msgp.AppendMapHeader(b, 9)
	b = msgp.AppendString(b, "roomId")
	b = msgp.AppendString(b, s.RoomID)
	b = msgp.AppendString(b, "handId")
	b = msgp.AppendString(b, s.HandID)
	b = msgp.AppendString(b, "handNumber")
	b = msgp.AppendInt(b, s.HandNumber)
	b = msgp.AppendString(b, "players")
	b = msgp.AppendArrayHeader(b, uint32(len(s.Players)))
	for _, p := range s.Players {
		b = appendPlayerView(b, p)
	}
	b = msgp.AppendString(b, "communityCards")
	b = appendCards(b, s.CommunityCards)
	b = msgp.AppendString(b, "pot")
	b = msgp.AppendInt(b, s.Pot)
	b = msgp.AppendString(b, "currentBet")
	b = msgp.AppendInt(b, s.CurrentBet)
	b = msgp.AppendString(b, "round")
	b = msgp.AppendString(b, s.Round.String())
	b = msgp.AppendString(b, "gameState")
	b = msgp.AppendString(b, s.GameState.String())
	return b
}

func appendPlayerView(b []byte, p game.PlayerView) []byte {
	b = msgp.AppendMapHeader(b, 8)
	b = msgp.AppendString(b, "id")
	b = msgp.AppendString(b, p.ID)
	b = msgp.AppendString(b, "name")
	b = msgp.AppendString(b, p.Name)
	b = msgp.AppendString(b, "chips")
	b = msgp.AppendInt(b, p.Chips)
	b = msgp.AppendString(b, "currentBet")
	b = msgp.AppendInt(b, p.CurrentBet)
	b = msgp.AppendString(b, "folded")
	b = msgp.AppendBool(b, p.Folded)
	b = msgp.AppendString(b, "allIn")
	b = msgp.AppendBool(b, p.AllIn)
	b = msgp.AppendString(b, "isDealer")
	b = msgp.AppendBool(b, p.IsDealer)
	b = msgp.AppendString(b, "isCurrentPlayer")
	b = msgp.AppendBool(b, p.IsCurrentPlayer)
	return b
}

func appendCards(b []byte, cards []deck.Card) []byte {
	b = msgp.AppendArrayHeader(b, uint32(len(cards)))
	for _, c := range cards {
		b = msgp.AppendMapHeader(b, 2)
		b = msgp.AppendString(b, "suit")
		b = msgp.AppendString(b, c.Suit.Name())
		b = msgp.AppendString(b, "rank")
		b = msgp.AppendString(b, c.Rank.Label())
	}
	return b
}
