package core

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestFatalErrors(t *testing.T) {
	fatal := Fatal(errors.New("boom"))
	assert.True(t, IsFatal(fatal))
	assert.Equal(t, "boom", fatal.Error())

	// Wrapping must not strip the classification.
	assert.True(t, IsFatal(errors.Wrap(fatal, "context")))
	assert.True(t, IsFatal(Fatalf("no password decrypts %s", "x.zip")))
}

func TestRecoverableErrors(t *testing.T) {
	recoverable := Recoverable(errors.New("meh"))
	assert.False(t, IsFatal(recoverable))
	assert.False(t, IsFatal(Recoverablef("bad %s", "input")))
	assert.False(t, IsFatal(errors.New("plain")))
	assert.False(t, IsFatal(nil))
}
