package chain

import (
	"github.com/matzehuels/pedalboard/pkg/errors"
)

// Validate checks the structural rules of a chain. It returns the first
// violation as an [errors.ErrCodeInvalidChain] or [errors.ErrCodeInvalidPlugin]
// error.
func Validate(nodes []Node) error {
	seen := make(map[string]struct{})
	return validate(nodes, seen)
}

func validate(nodes []Node, seen map[string]struct{}) error {
	for _, n := range nodes {
		if err := errors.ValidateInstanceID(n.ID); err != nil {
			return err
		}
		if _, dup := seen[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidChain, "duplicate instance id %q", n.ID)
		}
		seen[n.ID] = struct{}{}

		switch n.Kind {
		case KindLeaf:
			if err := errors.ValidatePluginURI(n.Plugin); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPlugin, err, "node %q", n.ID)
			}
		case KindSplit:
			if n.Mode < ModeAB || n.Mode > ModeLR {
				return errors.New(errors.ErrCodeInvalidChain, "split %q has invalid mode %d", n.ID, int(n.Mode))
			}
			if n.Select != BranchTop && n.Select != BranchBottom {
				return errors.New(errors.ErrCodeInvalidChain, "split %q selects unknown branch %d", n.ID, int(n.Select))
			}
			if err := validate(n.Top, seen); err != nil {
				return err
			}
			if err := validate(n.Bottom, seen); err != nil {
				return err
			}
		case KindEmpty:
		case KindStart, KindEnd:
			return errors.New(errors.ErrCodeInvalidChain, "node %q: %s nodes are reserved for the host interface", n.ID, n.Kind)
		default:
			return errors.New(errors.ErrCodeInvalidChain, "node %q has unknown kind %d", n.ID, int(n.Kind))
		}
	}
	return nil
}
