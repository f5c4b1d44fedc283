package apperrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorChaining(t *testing.T) {
	base := New("upstream call failed").SetStatusCode(http.StatusBadGateway)
	derived := base.New("tenant listing failed")

	assert.Equal(t, "tenant listing failed", derived.Error())
	assert.Equal(t, http.StatusBadGateway, derived.StatusCode())
	assert.True(t, errors.Is(derived, base))
}

func TestErrorMsgWrapsOriginal(t *testing.T) {
	base := New("quota fetch failed").SetStatusCode(http.StatusBadGateway)
	wrapped := base.Msg("unable to retrieve default quota values")

	assert.Equal(t, "unable to retrieve default quota values", wrapped.Error())
	assert.True(t, errors.Is(wrapped, base))
	assert.Equal(t, http.StatusBadGateway, wrapped.StatusCode())
}

func TestErrorAllExpansion(t *testing.T) {
	cause := errors.New("connection refused")
	base := New("identity service error").SetExpandError(true)
	err := base.Err(cause)

	assert.Contains(t, err.ErrorAll(), "identity service error")
	assert.Contains(t, err.ErrorAll(), "connection refused")
	assert.True(t, errors.Is(err, cause))
}

func TestErrorAllCollapsedByDefault(t *testing.T) {
	cause := errors.New("dial timeout")
	err := New("compute service error").Err(cause)

	assert.Equal(t, "compute service error", err.ErrorAll())
}

func TestSetStatusCodeDoesNotMutate(t *testing.T) {
	base := New("bad request").SetStatusCode(http.StatusBadRequest)
	other := base.SetStatusCode(http.StatusConflict)

	assert.Equal(t, http.StatusBadRequest, base.StatusCode())
	assert.Equal(t, http.StatusConflict, other.StatusCode())
}

func TestMsgErrAttachesAll(t *testing.T) {
	base := New("workflow failed")
	e1 := errors.New("step one")
	e2 := errors.New("step two")
	err := base.MsgErr("project update failed", e1, e2)

	all := err.UnwrapAll()
	assert.Len(t, all, 3)
	assert.True(t, errors.Is(err, e1))
	assert.True(t, errors.Is(err, e2))
}
