package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   Code
		status int
	}{
		{"validation", New(CodeValidation, "label must match pattern"), CodeValidation, http.StatusBadRequest},
		{"upstream", Errorf(CodeUpstream, "represent: %s", "no results"), CodeUpstream, http.StatusBadGateway},
		{"backend", Wrap(stderrors.New("conn refused"), CodeBackend, "qdrant search"), CodeBackend, http.StatusBadGateway},
		{"configuration", New(CodeConfiguration, "missing threshold"), CodeConfiguration, http.StatusInternalServerError},
		{"plain", stderrors.New("plain"), "", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, CodeOf(tt.err))
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeBackend, "noop"))
	assert.NoError(t, Wrapf(nil, CodeBackend, "noop %d", 1))
	assert.NoError(t, Join(CodeConfiguration, "noop"))
	assert.NoError(t, Join(CodeConfiguration, "noop", nil, nil))
}

func TestJoinKeepsEveryCause(t *testing.T) {
	first := stderrors.New("embedding.endpoint is required")
	second := stderrors.New("facesearch.concurrency must be at least 1")

	err := Join(CodeConfiguration, "validating config", first, nil, second)
	require.Error(t, err)
	assert.True(t, IsConfiguration(err))
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
	assert.Contains(t, err.Error(), "concurrency")
}

func TestWrapKeepsCauseAndFields(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	err := Wrap(cause, CodeBackend, "redis search", Field("index", "idx:faces"), Field("", "dropped"))

	require.Error(t, err)
	assert.True(t, IsBackend(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "idx:faces", FieldsOf(err)["index"])
	assert.NotContains(t, FieldsOf(err), "")
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsValidation(New(CodeValidation, "bad")))
	assert.True(t, IsUpstream(New(CodeUpstream, "bad")))
	assert.True(t, IsConfiguration(New(CodeConfiguration, "bad")))
	assert.False(t, IsBackend(nil))
	assert.Equal(t, "", Message(nil))
}
