package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZero(t *testing.T) {
	t.Run("zero key material", func(t *testing.T) {
		b := []byte{1, 2, 3, 4, 5}
		Zero(b)
		assert.Equal(t, make([]byte, 5), b)
	})

	t.Run("zero nil slice", func(t *testing.T) {
		assert.NotPanics(t, func() { Zero(nil) })
	})
}
