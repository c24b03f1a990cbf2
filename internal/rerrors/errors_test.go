package rerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxonomyErrorIsByKind(t *testing.T) {
	err := Wrap(ConnectionLost, "socket closed", errors.New("EOF"))
	assert.True(t, errors.Is(err, ErrConnectionLost))
	assert.False(t, errors.Is(err, ErrProtocol))
}

func TestTaxonomyErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(Protocol, "bad frame", cause)
	assert.ErrorIs(t, err, cause)
}

func TestPipelineErrorCarriesOutcomes(t *testing.T) {
	outcomes := []Outcome{
		{Err: errors.New("ERR value is not an integer")},
		{Value: []byte("abc")},
	}
	err := NewPipelineError(outcomes)

	var taxErr *TaxonomyError
	assert.ErrorAs(t, err, &taxErr)
	assert.Equal(t, PipelinePartialKind, taxErr.Kind)

	var pipeErr *PipelineError
	assert.ErrorAs(t, err, &pipeErr)
	assert.Len(t, pipeErr.Outcomes, 2)
	assert.Nil(t, pipeErr.Outcomes[1].Err)
}

func TestServerErrorPrefix(t *testing.T) {
	se := &ServerError{Detail: "WRONGTYPE Operation against a key holding the wrong kind of value"}
	assert.Equal(t, "WRONGTYPE", se.Prefix())
}
