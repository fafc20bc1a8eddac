package protocol_test

import (
	"encoding/json"
	"testing"

	"airhockey/internal/protocol"
	apperrors "airhockey/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypedBodies(t *testing.T) {
	bodies := []protocol.Body{
		protocol.JoinGame{},
		protocol.PlayerMove{Rect: protocol.Pt(180, 450), Velocity: protocol.Pt(-2.5, 4)},
		protocol.PlayerPos{Rect: protocol.Pt(180, 450)},
		protocol.GameUpdate{Ball: protocol.Pt(180, 325), Opponent: protocol.Pt(180, 200)},
		protocol.Goal{Scores: [2]int{1, 0}},
		protocol.GameOver{Winner: false},
	}

	for _, b := range bodies {
		t.Run(string(b.Header()), func(t *testing.T) {
			frame, err := protocol.EncodeBody(b)
			require.NoError(t, err)

			msg, _, err := protocol.Decode(frame, 0)
			require.NoError(t, err)

			got, err := protocol.Parse(*msg)
			require.NoError(t, err)
			assert.Equal(t, b, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		header protocol.Header
		body   string
		want   error
	}{
		{name: "unknown header", header: "SHOOT", body: `{}`, want: apperrors.ErrUnknownHeader},
		{name: "missing velocity", header: protocol.HeaderPlayerMove, body: `{"rect":[1,2]}`, want: apperrors.ErrMissingField},
		{name: "null rect", header: protocol.HeaderPlayerMove, body: `{"rect":null,"velocity":[0,0]}`, want: apperrors.ErrMissingField},
		{name: "short point", header: protocol.HeaderPlayerMove, body: `{"rect":[1],"velocity":[0,0]}`, want: apperrors.ErrMalformedPayload},
		{name: "string coordinate", header: protocol.HeaderPlayerPos, body: `{"rect":["a","b"]}`, want: apperrors.ErrMalformedPayload},
		{name: "body not an object", header: protocol.HeaderGameOver, body: `true`, want: apperrors.ErrMalformedPayload},
		{name: "missing winner", header: protocol.HeaderGameOver, body: `{}`, want: apperrors.ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := protocol.Parse(protocol.Message{Header: tt.header, Body: json.RawMessage(tt.body)})
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, apperrors.IsProtocol(err))
		})
	}
}

func TestPointWireForm(t *testing.T) {
	b, err := json.Marshal(protocol.PlayerPos{Rect: protocol.Pt(180, 450.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"rect":[180,450.5]}`, string(b))
}
