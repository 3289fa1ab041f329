package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_Contains(t *testing.T) {
	set := NewSet([]string{"SUB-TOTAL", "GST", "BILL TO"})

	t.Run("matches keyword", func(t *testing.T) {
		assert.True(t, set.Contains("SUB-TOTAL 123.45"))
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.True(t, set.Contains("bill to: Maple Ridge Chrysler"))
	})

	t.Run("substring match", func(t *testing.T) {
		assert.True(t, set.Contains("TOTAL GST/HST 7.00"))
	})

	t.Run("no match", func(t *testing.T) {
		assert.False(t, set.Contains("BAAUA200AB BATTERY 193.05"))
	})

	t.Run("nil set matches nothing", func(t *testing.T) {
		var nilSet *Set
		assert.False(t, nilSet.Contains("anything"))
	})
}
