package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/flowcheck/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "collection",
			ID:       "modelInformation",
		}
		assert.Equal(t, "collection with ID modelInformation not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("bucket", "brands")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("languages", "xx-??", "invalid language tag")
		assert.Equal(t, "validation failed for field languages: invalid language tag", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "invalid configuration"}
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
	})
}

func TestMalformedNameError(t *testing.T) {
	err := pkgerrors.NewMalformedNameError("bad_name_extra", "_")
	assert.Equal(t, "Intent name 'bad_name_extra' is not of expected format", err.Error())
	assert.Equal(t, 3, err.Segments)
	assert.True(t, pkgerrors.IsMalformedName(err))
	assert.False(t, pkgerrors.IsNotFound(err))
}

func TestMissingReferenceError(t *testing.T) {
	tests := []struct {
		name string
		err  *pkgerrors.MissingReferenceError
		want string
	}{
		{
			name: "flow",
			err:  &pkgerrors.MissingReferenceError{Kind: pkgerrors.RefFlow, Flow: "booking"},
			want: "Cannot find flow 'booking'",
		},
		{
			name: "context",
			err:  &pkgerrors.MissingReferenceError{Kind: pkgerrors.RefContext, Flow: "booking", Context: "date"},
			want: "Cannot find context 'date' in flow 'booking'",
		},
		{
			name: "method",
			err:  &pkgerrors.MissingReferenceError{Kind: pkgerrors.RefMethod, Flow: "booking", Context: "date", Method: "cancel"},
			want: "Cannot find method 'cancel' for context 'date' in flow 'booking'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.True(t, pkgerrors.IsNotFound(tt.err))
		})
	}
}

func TestNonCallableLeafError(t *testing.T) {
	err := &pkgerrors.NonCallableLeafError{Flow: "booking", Context: "date", Method: "confirm"}
	assert.Equal(t, "Entry 'confirm' for context 'date' in flow 'booking' is not a function", err.Error())
	assert.ErrorIs(t, err, pkgerrors.ErrNotCallable)

	direct := &pkgerrors.NonCallableLeafError{Flow: "booking", Method: "start"}
	assert.Equal(t, "Entry 'start' in flow 'booking' is not a function", direct.Error())
}

func TestSourceUnavailableError(t *testing.T) {
	cause := pkgerrors.NewIOError("read", "entities/brand.json", errors.New("no such file"))

	t.Run("wraps cause", func(t *testing.T) {
		err := pkgerrors.WrapSource("local json", cause)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsSourceUnavailable(err))

		var ioErr *pkgerrors.IOError
		require.True(t, errors.As(err, &ioErr))
		assert.Equal(t, "entities/brand.json", ioErr.Path)
		assert.Contains(t, err.Error(), "source local json unavailable")
	})

	t.Run("does not double wrap", func(t *testing.T) {
		once := pkgerrors.WrapSource("database", cause)
		twice := pkgerrors.WrapSource("other", fmt.Errorf("context: %w", once))

		var su *pkgerrors.SourceUnavailableError
		require.True(t, errors.As(twice, &su))
		assert.Equal(t, "database", su.Source)
	})

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapSource("database", nil))
	})
}

func TestConfigError(t *testing.T) {
	base := errors.New("bad tag")
	err := pkgerrors.NewConfigError("languages", "invalid language", base)
	assert.Equal(t, "configuration error in languages: invalid language", err.Error())
	assert.Equal(t, base, errors.Unwrap(err))

	noComponent := &pkgerrors.ConfigError{Message: "missing project dir"}
	assert.Equal(t, "configuration error: missing project dir", noComponent.Error())
}

func TestParseError(t *testing.T) {
	t.Run("with position", func(t *testing.T) {
		err := &pkgerrors.ParseError{Format: "yaml", File: "flows.yaml", Line: 3, Column: 5, Message: "unexpected key"}
		assert.Equal(t, "parse error in yaml at flows.yaml:3:5: unexpected key", err.Error())
	})

	t.Run("file only", func(t *testing.T) {
		err := pkgerrors.WrapParse("json", "brand.json", errors.New("unexpected EOF"))
		assert.Equal(t, "parse error in json file brand.json: unexpected EOF", err.Error())
	})

	t.Run("no file", func(t *testing.T) {
		err := &pkgerrors.ParseError{Format: "json", Message: "bad input"}
		assert.Equal(t, "json parse error: bad input", err.Error())
	})
}

func TestIOAndResourceErrors(t *testing.T) {
	assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
	assert.NoError(t, pkgerrors.WrapResource("query", "datastore", "", nil))

	io := pkgerrors.WrapIO("list", "intents", errors.New("permission denied"))
	assert.Equal(t, "IO error during list of intents: permission denied", io.Error())

	res := pkgerrors.WrapResource("query", "collection", "modelInformation", errors.New("unavailable"))
	assert.Equal(t, "failed to query collection modelInformation: unavailable", res.Error())

	noID := pkgerrors.NewResourceError("connect", "nats", "", errors.New("refused"))
	assert.Equal(t, "failed to connect nats: refused", noID.Error())
}

func TestTimeoutError(t *testing.T) {
	err := pkgerrors.NewTimeoutError("store query", "5s", "deadline exceeded")
	assert.Equal(t, "operation store query timed out after 5s: deadline exceeded", err.Error())
	assert.True(t, pkgerrors.IsTimeout(err))
	assert.False(t, pkgerrors.IsCanceled(err))
}
