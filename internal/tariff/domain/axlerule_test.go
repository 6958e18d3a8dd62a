package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchAxleRuleAtLeast(t *testing.T) {
	for axles, want := range map[int]bool{2: false, 3: true, 4: true, 10: true} {
		got, err := MatchAxleRule(">= 3", axles)
		assert.NoError(t, err)
		assert.Equal(t, want, got, "axles=%d", axles)
	}
}

func TestMatchAxleRuleExact(t *testing.T) {
	for axles, want := range map[int]bool{1: false, 2: true, 3: false} {
		got, err := MatchAxleRule("= 2", axles)
		assert.NoError(t, err)
		assert.Equal(t, want, got, "axles=%d", axles)
	}
}

func TestMatchAxleRuleWhitespace(t *testing.T) {
	got, err := MatchAxleRule("  >=4  ", 4)
	assert.NoError(t, err)
	assert.True(t, got)

	got, err = MatchAxleRule(" =5 ", 5)
	assert.NoError(t, err)
	assert.True(t, got)
}

func TestMatchAxleRuleMalformed(t *testing.T) {
	for _, rule := range []string{"", "<= 3", "> 4", "three", ">= x", "= "} {
		_, err := MatchAxleRule(rule, 4)
		assert.Error(t, err, "rule=%q", rule)
		assert.True(t, errors.Is(err, ErrUnrecognizedAxleRule), "rule=%q", rule)
	}
}
