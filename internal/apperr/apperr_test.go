package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor_MapsEveryKnownKind(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(NotFound))
	assert.Equal(t, http.StatusConflict, StatusFor(Conflict))
	assert.Equal(t, http.StatusConflict, StatusFor(InvalidState))
	assert.Equal(t, http.StatusBadRequest, StatusFor(InvalidArgument))
	assert.Equal(t, http.StatusBadRequest, StatusFor(Unauthorized))
}

func TestStatusFor_UnrecognizedKindMapsToInternalServerError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusFor(Kind("madeUp")))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(""))
}

func TestKindOf_ExtractsKindFromWrappedError(t *testing.T) {
	err := fmt.Errorf("context: %w", NotFoundf("room %s missing", "ABCD"))
	assert.Equal(t, NotFound, KindOf(err))
}

func TestKindOf_ReturnsEmptyForPlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
}

func TestError_UnwrapExposesCause(t *testing.T) {
	cause := errors.New("underlying")
	wrapped := Wrap(InvalidState, "bad state", cause)
	assert.ErrorIs(t, wrapped, cause)
}

func TestConstructors_SetExpectedKinds(t *testing.T) {
	assert.Equal(t, NotFound, NotFoundf("x").Kind)
	assert.Equal(t, Conflict, Conflictf("x").Kind)
	assert.Equal(t, Unauthorized, Unauthorizedf("x").Kind)
	assert.Equal(t, InvalidState, InvalidStatef("x").Kind)
	assert.Equal(t, InvalidArgument, InvalidArgumentf("x").Kind)
}
