package buffer

import (
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

// RequireSerializerCorrect asserts that obj's WriteTo/BinarySize/ReadFrom
// triad round-trips: it writes obj to a fresh Buffer, reads it back into a
// freshly allocated zero value of the same type, and asserts the two are
// Equal. obj must implement BinarySize() int and io.WriterTo; a pointer to
// its type must implement io.ReaderFrom and an Equal(*T) bool method, which
// every serializable type in this module provides.
func RequireSerializerCorrect(t *testing.T, obj any) {
	t.Helper()

	type sized interface {
		BinarySize() int
	}

	sz, ok := obj.(sized)
	require.True(t, ok, "%T does not implement BinarySize() int", obj)

	wt, ok := obj.(io.WriterTo)
	require.True(t, ok, "%T does not implement io.WriterTo", obj)

	buf := NewBufferSize(sz.BinarySize())
	n, err := wt.WriteTo(buf)
	require.NoError(t, err)
	require.Equal(t, int64(sz.BinarySize()), n)

	rv := reflect.New(reflect.TypeOf(obj))
	rf, ok := rv.Interface().(io.ReaderFrom)
	require.True(t, ok, "*%T does not implement io.ReaderFrom", obj)

	m, err := rf.ReadFrom(NewBuffer(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, n, m)

	eq := reflect.ValueOf(obj).MethodByName("Equal")
	require.True(t, eq.IsValid(), "%T does not implement Equal", obj)

	out := eq.Call([]reflect.Value{rv})
	require.True(t, out[0].Bool(), "round-tripped %T does not equal original", obj)
}
