package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRoomID(t *testing.T) {
	assert.NoError(t, ValidateRoomID(1))
	assert.NoError(t, ValidateRoomID(999999))
	assert.Error(t, ValidateRoomID(0))
	assert.Error(t, ValidateRoomID(-5))
}

func TestValidateChatID(t *testing.T) {
	assert.NoError(t, ValidateChatID(1))
	assert.Error(t, ValidateChatID(0))
	assert.Error(t, ValidateChatID(-1))
}

func TestValidateMessage(t *testing.T) {
	assert.NoError(t, ValidateMessage(`{"type":"rect"}`))
	assert.Error(t, ValidateMessage(""))
	assert.Error(t, ValidateMessage(strings.Repeat("x", MaxMessageLen+1)))
	assert.NoError(t, ValidateMessage(strings.Repeat("x", MaxMessageLen)))
}
