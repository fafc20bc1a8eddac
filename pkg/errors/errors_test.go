package errors_test

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	apperrors "airhockey/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestClassifiers(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transport bool
		protocol  bool
		logic     bool
	}{
		{name: "peer closed", err: apperrors.ErrPeerClosed, transport: true},
		{name: "wrapped reset", err: apperrors.Wrap(apperrors.ErrConnReset, io.ErrUnexpectedEOF), transport: true},
		{name: "frame too large", err: apperrors.ErrFrameTooLarge.WithDetails("%d bytes", 1<<30), protocol: true},
		{name: "missing field behind fmt", err: fmt.Errorf("dispatch: %w", apperrors.ErrMissingField), protocol: true},
		{name: "not in match", err: apperrors.ErrNotInMatch, logic: true},
		{name: "plain error", err: io.EOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.transport, apperrors.IsTransport(tt.err))
			assert.Equal(t, tt.protocol, apperrors.IsProtocol(tt.err))
			assert.Equal(t, tt.logic, apperrors.IsLogic(tt.err))
		})
	}
}

func TestIsMatchesCodeAndMessage(t *testing.T) {
	err := apperrors.ErrMissingField.WithDetails("velocity")

	assert.True(t, stderrors.Is(err, apperrors.ErrMissingField))
	assert.False(t, stderrors.Is(err, apperrors.ErrMalformedPayload))
	assert.Contains(t, err.Error(), "velocity")
}

func TestWrapKeepsCause(t *testing.T) {
	err := apperrors.Wrap(apperrors.ErrMalformedPayload, io.ErrUnexpectedEOF)

	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.ErrorIs(t, err, apperrors.ErrMalformedPayload)
	assert.Equal(t, apperrors.CodeProtocol, apperrors.Code(err))
}
