package resample

import (
	"fmt"
	"math"

	"github.com/rjhudspith/urfit/errs"
)

// DomainPolicy selects what a checked transform does with out-of-domain input.
type DomainPolicy uint8

const (
	// DomainAbort leaves the distribution untouched and returns
	// errs.ErrDomainViolation.
	DomainAbort DomainPolicy = iota
	// DomainZero replaces the distribution by a zero distribution of the
	// same length and scheme and reports success.
	DomainZero
)

func (p DomainPolicy) String() string {
	switch p {
	case DomainAbort:
		return "abort"
	case DomainZero:
		return "zero"
	default:
		return "unknown"
	}
}

// ParseDomainPolicy maps "abort" or "zero" to its policy. The empty name
// selects DomainAbort.
func ParseDomainPolicy(name string) (DomainPolicy, bool) {
	switch name {
	case "", "abort":
		return DomainAbort, true
	case "zero":
		return DomainZero, true
	default:
		return DomainAbort, false
	}
}

// LogChecked applies math.Log when every value is strictly positive.
func (d *Distribution) LogChecked(policy DomainPolicy) error {
	return d.applyChecked("log", func(v float64) bool { return v > 0 }, math.Log, policy)
}

// AcoshChecked applies math.Acosh when every value is at least one.
func (d *Distribution) AcoshChecked(policy DomainPolicy) error {
	return d.applyChecked("acosh", func(v float64) bool { return v >= 1 }, math.Acosh, policy)
}

// AtanhChecked applies math.Atanh when every value lies in (−1, 1).
func (d *Distribution) AtanhChecked(policy DomainPolicy) error {
	return d.applyChecked("atanh", func(v float64) bool { return v > -1 && v < 1 }, math.Atanh, policy)
}

func (d *Distribution) applyChecked(name string, inDomain func(float64) bool, fn func(float64) float64, policy DomainPolicy) error {
	bad, ok := d.firstOutOfDomain(inDomain)
	if ok {
		d.Apply(fn)
		return nil
	}

	if policy == DomainZero {
		d.Zero()
		return nil
	}

	return fmt.Errorf("%w: %s(%g)", errs.ErrDomainViolation, name, bad)
}

func (d *Distribution) firstOutOfDomain(inDomain func(float64) bool) (float64, bool) {
	if !inDomain(d.Average) {
		return d.Average, false
	}
	for _, v := range d.Samples {
		if !inDomain(v) {
			return v, false
		}
	}

	return 0, true
}
