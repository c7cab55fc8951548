package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocator(t *testing.T) {
	cases := []struct {
		in     string
		bucket string
		key    string
	}{
		{"s3://bucket-name.s3.amazonaws.com/a/b/c.txt", "bucket-name", "a/b/c.txt"},
		{"s3://nuufovus/a.txt", "nuufovus", "a.txt"},
		{"https://nuufovus.s3.us-east-1.amazonaws.com/uploads/x.txt", "nuufovus", "uploads/x.txt"},
		{"s3://bucket:9000//double/slash.txt", "bucket", "double/slash.txt"},
		{"s3://nuufovus/50%off.txt", "nuufovus", "50%off.txt"},
		{"s3://nuufovus/my%20file.txt", "nuufovus", "my%20file.txt"},
		{"s3://nuufovus/a.txt?versionId=3", "nuufovus", "a.txt"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			loc, err := ParseLocator(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.bucket, loc.Bucket)
			assert.Equal(t, tc.key, loc.Key)
		})
	}
}

func TestParseLocator_Malformed(t *testing.T) {
	for _, in := range []string{
		"",
		"a.txt",
		"s3:///a.txt",
		"s3://bucket",
		"s3://bucket/",
		"s3://.s3.amazonaws.com/a.txt",
		"://bad",
		"1s3://bucket/a.txt",
	} {
		_, err := ParseLocator(in)
		require.Error(t, err, in)
		assert.ErrorIs(t, err, ErrMalformedURI, in)

		var me *MalformedURIError
		assert.ErrorAs(t, err, &me)
	}
}

func TestLocator_StringAndBase(t *testing.T) {
	loc := Locator{Scheme: "s3", Bucket: "nuufovus", Key: "uploads/a.txt"}
	assert.Equal(t, "s3://nuufovus/uploads/a.txt", loc.String())
	assert.Equal(t, "a.txt", loc.Base())

	back, err := ParseLocator(loc.String())
	require.NoError(t, err)
	assert.Equal(t, loc, back)

	for _, key := range []string{"a%25b.txt", "50%off.txt", "dir/my file.txt"} {
		loc := Locator{Scheme: "s3", Bucket: "nuufovus", Key: key}
		back, err := ParseLocator(loc.String())
		require.NoError(t, err, key)
		assert.Equal(t, loc, back, key)
	}
}

func TestErrorKinds(t *testing.T) {
	nf := fmt.Errorf("fetch record: %w", NotFound("record", "X"))
	assert.ErrorIs(t, nf, ErrNotFound)
	assert.NotErrorIs(t, nf, ErrTransfer)
	assert.EqualError(t, nf, `fetch record: record "X" not found`)

	cause := errors.New("connection reset")
	te := &TransferError{Op: "download", Bucket: "b", Key: "k", Err: cause}
	assert.ErrorIs(t, te, ErrTransfer)
	assert.ErrorIs(t, te, cause)
	assert.NotErrorIs(t, te, ErrNotFound)
}
