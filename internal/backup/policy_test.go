package backup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbu-cli/sbu/internal/errors"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"default", ModeDefault, false},
		{"force", ModeForce, false},
		{"interactive", ModeInteractive, false},
		{"", ModeDefault, false},
		{"yolo", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, errors.ErrInvalidConfig, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestPolicy_Decide(t *testing.T) {
	yes := func(string) (bool, error) { return true, nil }
	no := func(string) (bool, error) { return false, nil }

	tests := []struct {
		name    string
		mode    Mode
		confirm Confirmer
		exists  bool
		want    Decision
	}{
		{"default fresh target", ModeDefault, nil, false, DecisionProceed},
		{"default existing target", ModeDefault, nil, true, DecisionSkip},
		{"force fresh target", ModeForce, nil, false, DecisionProceed},
		{"force existing target", ModeForce, nil, true, DecisionProceed},
		{"interactive fresh target", ModeInteractive, yes, false, DecisionProceed},
		{"interactive confirmed", ModeInteractive, yes, true, DecisionAskProceed},
		{"interactive declined", ModeInteractive, no, true, DecisionAskSkip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPolicy(tt.mode, tt.confirm)
			require.NoError(t, err)

			got, err := p.Decide("/b/target", tt.exists)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Proceed(), got.Proceed())
		})
	}
}

func TestPolicy_Decide_ConfirmerNotCalledWhenTargetFresh(t *testing.T) {
	called := false
	p, err := NewPolicy(ModeInteractive, func(string) (bool, error) {
		called = true
		return false, nil
	})
	require.NoError(t, err)

	got, err := p.Decide("/b/target", false)
	require.NoError(t, err)
	assert.Equal(t, DecisionProceed, got)
	assert.False(t, called)
}

func TestPolicy_Decide_ConfirmerError(t *testing.T) {
	p, err := NewPolicy(ModeInteractive, func(string) (bool, error) {
		return false, errors.New("stdin closed")
	})
	require.NoError(t, err)

	got, err := p.Decide("/b/target", true)
	assert.Error(t, err)
	assert.Equal(t, DecisionSkip, got)
}

func TestNewPolicy_InteractiveRequiresConfirmer(t *testing.T) {
	_, err := NewPolicy(ModeInteractive, nil)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}
