package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	assert.Equal(t, []string{"approved", "rejected"}, DedupeAndTrim([]string{" approved", "rejected", "approved ", "", "  "}))
	assert.Empty(t, DedupeAndTrim(nil))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, SplitList("broker-1:9092, broker-2:9092,broker-1:9092,"))
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList(" , "))
}
