package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect("http://localhost:6379")
	assert.Error(t, err)
}
