package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"gopenguins/domain/core"
)

func TestWrap_KeepsCodeAndCause(t *testing.T) {
	base := ConfigInvalid("PORT is required")
	err := Wrap(base, "configuration validation failed")

	assert.Equal(t, CodeConfigInvalid, GetCode(err))
	assert.True(t, stderrors.Is(err, base))
	assert.Equal(t, "configuration validation failed: PORT is required", err.Error())
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, Wrapf(nil, "ignored %d", 1))
}

func TestGetCode_DomainSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"invalid parameter", core.NewInvalidParameterError("tolerance", "must be > 0"), CodeInvalidParameter},
		{"unknown species", core.NewNotFoundError(core.ErrUnknownSpecies, "Emperor"), CodeNotFound},
		{"empty table", core.ErrEmptyTable, CodeUnavailable},
		{"wrapped sentinel", Wrapf(core.ErrEmptyTable, "loading %s", "penguins.csv"), CodeUnavailable},
		{"plain error", fmt.Errorf("boom"), "UNKNOWN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, GetCode(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(core.NewInvalidParameterError("samples", "must be > 0")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidInput("bad body")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(core.NewNotFoundError(core.ErrUnknownFeature, "wingspan")))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(core.ErrEmptyTable))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(DataLoadError("x.csv", fmt.Errorf("no such file"))))
}
