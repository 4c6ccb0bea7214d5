package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_New_inmemDefaults(t *testing.T) {
	touistd, err := New(Config{})
	assert.NoError(t, err)
	assert.NotNil(t, touistd.Handler)
	assert.NotNil(t, touistd.Backend.DB)
}

func Test_New_rejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{TokenSecret: []byte("short")})
	assert.Error(t, err)
}
