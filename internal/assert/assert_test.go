package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type extractor interface {
	Extract() string
}

type fakeExtractor struct{}

func (*fakeExtractor) Extract() string { return "" }

func TestNotNil(t *testing.T) {
	require.PanicsWithValue(t, "expected db to be not nil", func() {
		NotNil(nil, "db")
	})

	var typed *fakeExtractor
	var iface extractor = typed
	require.PanicsWithValue(t, "expected source to be not nil", func() {
		NotNil(iface, "source")
	})

	require.NotPanics(t, func() {
		NotNil(&fakeExtractor{}, "source")
		NotNil(5, "number")
	})
}

func TestNotEmptyStr(t *testing.T) {
	require.PanicsWithValue(t, "expected spec to be non-empty", func() {
		NotEmptyStr("", "spec")
	})
	require.NotPanics(t, func() {
		NotEmptyStr("0 5 * * *", "spec")
	})
}
