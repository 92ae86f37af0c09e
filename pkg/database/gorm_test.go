package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, 5, o.MaxIdleConns)
	assert.Equal(t, 20, o.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, o.ConnMaxLifetime)

	o = Options{MaxOpenConns: 3}.withDefaults()
	assert.Equal(t, 3, o.MaxOpenConns)
}
