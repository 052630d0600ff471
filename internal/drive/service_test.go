package drive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeQuery(t *testing.T) {
	assert.Equal(t, "orders.csv", escapeQuery("orders.csv"))
	assert.Equal(t, `O\'Brien`, escapeQuery("O'Brien"))
	assert.Equal(t, `a\\b`, escapeQuery(`a\b`))
}

func TestNewService_RequiresCredentials(t *testing.T) {
	_, err := NewService(context.Background(), "  ")
	assert.Error(t, err)

	_, err = NewService(context.Background(), `{"type":"not-a-key"}`)
	assert.Error(t, err)
}
