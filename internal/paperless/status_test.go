package paperless

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Outcome
	}{
		{StatusPending, OutcomeRunning},
		{StatusStarted, OutcomeRunning},
		{StatusSuccess, OutcomeSucceeded},
		{StatusFailure, OutcomeFailed},
		{StatusFailed, OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := TranslateStatus(tt.raw)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateStatus_Unknown(t *testing.T) {
	for _, raw := range []string{"", "RETRY", "success", "Pending", "DONE"} {
		t.Run(raw, func(t *testing.T) {
			_, err := TranslateStatus(raw)
			assert.Error(t, err)
			assert.ErrorIs(t, err, ErrUnknownStatus)

			var ue *UnknownStatusError
			assert.True(t, errors.As(err, &ue))
			assert.Equal(t, raw, ue.Raw)
			// Never misread as a remote processing failure.
			assert.NotErrorIs(t, err, ErrRemoteRejected)
		})
	}
}
