package cf

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/cfcheck/pkg/dataset"
	"github.com/leapstack-labs/cfcheck/pkg/grammar"
	"github.com/leapstack-labs/cfcheck/pkg/report"
)

// checkFlags validates the flag_values, flag_masks and flag_meanings
// attribute family: list syntax, matching lengths, uniqueness of
// values, non-zero masks and the bitwise consistency of value/mask
// pairs.
func (c *Checker) checkFlags(vr *dataset.Variable, rep *report.Collector) {
	meanings, hasMeanings := vr.Attrs.Get("flag_meanings")
	if vr.Attrs.Has("flag_values") && !hasMeanings {
		rep.Error(vr.Name, "3.5", "flag_meanings attribute is missing")
	}
	if !hasMeanings {
		return
	}

	ms, isStr := meanings.Str()
	if !isStr || !grammar.IsExtendedList(ms) {
		rep.Error(vr.Name, "3.5", "Invalid syntax for 'flag_meanings' attribute")
	}
	words := strings.Fields(ms)

	values, hasValues := vr.Attrs.Get("flag_values")
	masks, hasMasks := vr.Attrs.Get("flag_masks")

	if hasValues {
		tokens := flagTokens(values)
		if len(tokens) != len(words) {
			rep.Error(vr.Name, "3.5", "Number of flag_values values must equal the number of words or phrases in flag_meanings")
		}
		seen := make(map[string]bool, len(tokens))
		for _, t := range tokens {
			if seen[t] {
				rep.Error(vr.Name, "3.5", "flag_values attribute must contain a list of unique values")
				break
			}
			seen[t] = true
		}
	}
	if hasMasks {
		if ns, ok := masks.Numbers(); ok {
			if len(ns) != len(words) {
				rep.Error(vr.Name, "3.5", "Number of flag_masks values must equal the number of words or phrases in flag_meanings")
			}
			for _, m := range ns {
				if m == 0 {
					rep.Error(vr.Name, "3.5", "flag_masks values must be non-zero")
					break
				}
			}
		}
	}

	// Bitwise comparison is meaningless for character data.
	if hasValues && hasMasks && vr.Type != dataset.TypeChar {
		vs, vok := values.Numbers()
		msk, mok := masks.Numbers()
		if vok && mok && len(vs) == len(msk) {
			for i, v := range vs {
				if int64(v)&int64(msk[i]) != int64(v) {
					rep.Warn(vr.Name, "3.5", "Bitwise AND of flag_value %v and corresponding flag_mask %v doesn't match flag_value", v, msk[i])
				}
			}
		}
	}

	if !hasValues && !hasMasks {
		rep.Error(vr.Name, "3.5", "flag_meanings present, but no flag_values or flag_masks specified")
	}
}

// flagTokens returns the elements of a flag list attribute as strings,
// so numeric and character-typed lists count and compare uniformly.
func flagTokens(a dataset.Attr) []string {
	if s, ok := a.Str(); ok {
		return strings.Fields(s)
	}
	ns, ok := a.Numbers()
	if !ok {
		return nil
	}
	tokens := make([]string, len(ns))
	for i, n := range ns {
		tokens[i] = strconv.FormatFloat(n, 'g', -1, 64)
	}
	return tokens
}
