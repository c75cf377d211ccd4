package takaichirag_test

import (
	"errors"
	"testing"

	"github.com/jiangzhuo/takaichirag"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := takaichirag.Errorf(takaichirag.ENOTFOUND, "snapshot %q not found", "test")

	assert.Equal(t, takaichirag.ENOTFOUND, takaichirag.ErrorCode(err))
	assert.Equal(t, "snapshot \"test\" not found", takaichirag.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, takaichirag.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, takaichirag.EINTERNAL, takaichirag.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, takaichirag.ErrorMessage(nil))
}
