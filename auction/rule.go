package auction

import (
	"errors"
	"fmt"
)

// Rule decides how bids of an auction compete.
// The set of rules is closed: HighestBidWins and ClosestBidWins.
type Rule interface {
	// Kind returns the persisted name of the rule.
	Kind() string

	isRule()
}

const (
	// KindHighestBidWins is the persisted name of HighestBidWins.
	KindHighestBidWins = "HIGHEST_BID_WINS"
	// KindClosestBidWins is the persisted name of ClosestBidWins.
	KindClosestBidWins = "CLOSEST_BID_WINS"
)

// HighestBidWins ranks bids by descending amount.
type HighestBidWins struct{}

// Kind implements Rule.
func (HighestBidWins) Kind() string { return KindHighestBidWins }

func (HighestBidWins) isRule() {}

// ClosestBidWins ranks bids by ascending distance to Target.
type ClosestBidWins struct {
	Target int64
}

// Kind implements Rule.
func (ClosestBidWins) Kind() string { return KindClosestBidWins }

func (ClosestBidWins) isRule() {}

// ParseRule builds a Rule from its persisted form.
// A closest-bid rule requires a target amount.
func ParseRule(kind string, target *int64) (Rule, error) {
	switch kind {
	case KindHighestBidWins:
		return HighestBidWins{}, nil
	case KindClosestBidWins:
		if target == nil {
			return nil, errors.New("closest bid auction requires a target amount")
		}
		return ClosestBidWins{Target: *target}, nil
	default:
		return nil, fmt.Errorf("unknown auction type: %q", kind)
	}
}

// RuleTarget returns the target amount of r, if any.
func RuleTarget(r Rule) *int64 {
	if c, ok := r.(ClosestBidWins); ok {
		t := c.Target
		return &t
	}
	return nil
}
