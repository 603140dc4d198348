package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tool-advisor/internal/shared/storage/object"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Key)
	f.objects[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestSaveAppliesPrefixAndCountsBytes(t *testing.T) {
	fake := newFakeS3()
	store := NewWithClient(fake, "bucket", "/exports/")

	obj, err := store.Save(context.Background(), "session-9", "report.csv", "text/csv", strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(4), obj.SizeBytes)
	assert.Equal(t, "text/csv", fake.types["exports/"+obj.Key])

	rc, err := store.Open(context.Background(), obj.Key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))
}

func TestOpenRejectsTraversal(t *testing.T) {
	store := NewWithClient(newFakeS3(), "bucket", "")
	_, err := store.Open(context.Background(), "../x")
	assert.ErrorIs(t, err, object.ErrInvalidKey)
}

func TestApplyPrefix(t *testing.T) {
	assert.Equal(t, "k", applyPrefix("", "/k"))
	assert.Equal(t, "p", applyPrefix("p", ""))
	assert.Equal(t, "p/k", applyPrefix("p", "k"))
}
