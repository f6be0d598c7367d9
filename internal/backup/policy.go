package backup

import (
	"github.com/sbu-cli/sbu/internal/errors"
)

// Mode selects how existing destination entries are handled.
type Mode string

// Overwrite modes. Exactly one is active per run; force and interactive
// together is a configuration error caught by the CLI layer.
const (
	// ModeDefault skips entries whose target already exists.
	ModeDefault Mode = "default"
	// ModeForce overwrites existing targets.
	ModeForce Mode = "force"
	// ModeInteractive asks the user per conflicting target.
	ModeInteractive Mode = "interactive"
)

// ParseMode converts a configuration string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDefault, ModeForce, ModeInteractive:
		return Mode(s), nil
	case "":
		return ModeDefault, nil
	default:
		return "", errors.Wrapf(errors.ErrInvalidConfig, "unknown overwrite mode %q", s)
	}
}

// Confirmer answers a single overwrite question for a target path.
// It is injected into the policy so interactive runs stay unit-testable
// without simulating terminal input; the blocking prompt lives in the
// CLI layer.
type Confirmer func(target string) (bool, error)

// Policy decides whether a copy proceeds when its target already exists.
// The policy itself is synchronous and side-effect-free given an
// externally supplied answer.
type Policy struct {
	Mode    Mode
	Confirm Confirmer
}

// NewPolicy creates a policy for the given mode. confirm may be nil for
// non-interactive modes.
func NewPolicy(mode Mode, confirm Confirmer) (*Policy, error) {
	if mode == ModeInteractive && confirm == nil {
		return nil, errors.Wrap(errors.ErrInvalidConfig, "interactive mode requires a confirmer")
	}
	return &Policy{Mode: mode, Confirm: confirm}, nil
}

// Decide returns the overwrite decision for target. exists reports
// whether the target is already present; when it is not, every mode
// proceeds. The interactive mode blocks in the injected Confirmer until
// an answer arrives.
func (p *Policy) Decide(target string, exists bool) (Decision, error) {
	if !exists {
		return DecisionProceed, nil
	}

	switch p.Mode {
	case ModeForce:
		return DecisionProceed, nil
	case ModeInteractive:
		ok, err := p.Confirm(target)
		if err != nil {
			return DecisionSkip, errors.Wrap(err, "confirming overwrite")
		}
		if ok {
			return DecisionAskProceed, nil
		}
		return DecisionAskSkip, nil
	default:
		return DecisionSkip, nil
	}
}
