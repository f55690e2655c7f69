package settler

import (
	"fmt"
	"sort"

	"github.com/textileio/settlement-core/auction"
)

// Cmp is the interface for a bid comparator.
type Cmp interface {
	// Cmp returns a negative number if i ranks before j, a positive number
	// if j ranks before i, and zero if they rank the same.
	Cmp(i auction.Bid, j auction.Bid) int
}

// CmpFn is a helper which turns a function to a Cmp interface.
func CmpFn(f func(i auction.Bid, j auction.Bid) int) Cmp {
	return fnCmp{f: f}
}

type fnCmp struct {
	f func(auction.Bid, auction.Bid) int
}

func (c fnCmp) Cmp(i auction.Bid, j auction.Bid) int {
	return c.f(i, j)
}

// HighestAmount ranks bids with greater amounts first.
func HighestAmount() Cmp {
	return CmpFn(func(i auction.Bid, j auction.Bid) int {
		return compare(j.Amount, i.Amount)
	})
}

// ClosestTo ranks bids with amounts closer to target first.
func ClosestTo(target int64) Cmp {
	return CmpFn(func(i auction.Bid, j auction.Bid) int {
		return compare(distance(i.Amount, target), distance(j.Amount, target))
	})
}

// RuleCmp returns the comparator implementing an auction rule.
func RuleCmp(rule auction.Rule) (Cmp, error) {
	switch r := rule.(type) {
	case auction.HighestBidWins:
		return HighestAmount(), nil
	case auction.ClosestBidWins:
		return ClosestTo(r.Target), nil
	default:
		return nil, fmt.Errorf("unknown auction rule %T", rule)
	}
}

// Rank returns the bids ordered by the auction rule. Bids ranking the same
// keep their relative order, which is newest first as loaded from the store.
func Rank(a auction.Auction, bids []auction.Bid) ([]auction.Bid, error) {
	cmp, err := RuleCmp(a.Rule)
	if err != nil {
		return nil, err
	}
	ranked := make([]auction.Bid, len(bids))
	copy(ranked, bids)
	sort.SliceStable(ranked, func(i, j int) bool {
		return cmp.Cmp(ranked[i], ranked[j]) < 0
	})
	return ranked, nil
}

func distance(amount, target int64) uint64 {
	if amount > target {
		return uint64(amount) - uint64(target)
	}
	return uint64(target) - uint64(amount)
}

func compare[T int64 | uint64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
