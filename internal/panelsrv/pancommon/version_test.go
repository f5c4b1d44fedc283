package pancommon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsVersionCompatible(t *testing.T) {
	assert.True(t, IsVersionCompatible(ServerVersion))
	assert.False(t, IsVersionCompatible("0.2.0"))
	assert.False(t, IsVersionCompatible("1.0.0"))
	assert.False(t, IsVersionCompatible("not-a-version"))
	assert.False(t, IsVersionCompatible(""))
}
