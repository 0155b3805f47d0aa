package pkg_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitlake/pkg"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestCombinedWriter(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	cw := pkg.NewCombinedWriter(&buf1, &buf2)

	n, err := cw.Write([]byte("ohai"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, "ohai", buf1.String())
	assert.Equal(t, "ohai", buf2.String())
}

func TestCombinedWriter_KeepsWritingOnError(t *testing.T) {
	var buf bytes.Buffer
	cw := pkg.NewCombinedWriter(failingWriter{}, &buf)

	_, err := cw.Write([]byte("ohai"))
	require.Error(t, err)
	assert.Equal(t, "ohai", buf.String())
}
