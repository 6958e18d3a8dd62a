package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnrecognizedAxleRule marks a malformed axle rule in the category table.
// It indicates corrupt reference data and is never mapped to a user-facing
// outcome.
var ErrUnrecognizedAxleRule = errors.New("unrecognized_axle_rule")

// MatchAxleRule reports whether the axle count satisfies a stored rule of the
// form "= N" or ">= N".
func MatchAxleRule(rule string, axles int) (bool, error) {
	rule = strings.TrimSpace(rule)

	if rest, ok := strings.CutPrefix(rule, ">="); ok {
		n, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil {
			return false, fmt.Errorf("%w: %q", ErrUnrecognizedAxleRule, rule)
		}
		return axles >= n, nil
	}

	if rest, ok := strings.CutPrefix(rule, "="); ok {
		n, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil {
			return false, fmt.Errorf("%w: %q", ErrUnrecognizedAxleRule, rule)
		}
		return axles == n, nil
	}

	return false, fmt.Errorf("%w: %q", ErrUnrecognizedAxleRule, rule)
}
