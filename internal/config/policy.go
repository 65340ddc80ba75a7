package config

import (
	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/foundation/normalization"
)

// LinkPolicy decides how an unresolved link is reported.
type LinkPolicy string

const (
	PolicyIgnore LinkPolicy = "ignore"
	PolicyLog    LinkPolicy = "log"
	PolicyWarn   LinkPolicy = "warn"
	PolicyThrow  LinkPolicy = "throw"
)

var policies = normalization.NewNormalizer("link policy", map[string]LinkPolicy{
	"ignore": PolicyIgnore,
	"log":    PolicyLog,
	"warn":   PolicyWarn,
	"throw":  PolicyThrow,
}, PolicyThrow)

// Fails reports whether a violation under this policy fails the build.
func (p LinkPolicy) Fails() bool { return p == PolicyThrow }

// Reports reports whether a violation under this policy is surfaced at all.
func (p LinkPolicy) Reports() bool { return p != PolicyIgnore }

// Classify finishes a broken-link diagnostic with the severity the policy
// calls for. It returns nil when the policy ignores violations.
func (p LinkPolicy) Classify(b *derrors.ErrorBuilder) *derrors.ClassifiedError {
	switch p {
	case PolicyIgnore:
		return nil
	case PolicyLog:
		b = b.Info()
	case PolicyWarn:
		b = b.Warning()
	default:
		b = b.Fatal()
	}
	return b.Build()
}
