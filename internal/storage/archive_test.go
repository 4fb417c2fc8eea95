package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestArchive_Store(t *testing.T) {
	putter := &fakePutter{}
	archive := NewArchiveWithClient(putter, Config{
		Bucket:        "plans",
		PublicBaseURL: "https://files.example.org/",
		Prefix:        "/weekly/",
	})
	archive.now = func() time.Time { return time.Date(2024, 11, 11, 9, 0, 0, 0, time.UTC) }

	obj, err := archive.Store(context.Background(), "weekly_menu_plan.pdf", "application/pdf", []byte("%PDF-1.3"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(obj.Key, "weekly/2024/11/11/"))
	assert.True(t, strings.HasSuffix(obj.Key, "-weekly_menu_plan.pdf"))
	assert.Equal(t, "https://files.example.org/"+obj.Key, obj.URL)

	assert.Equal(t, "plans", aws.ToString(putter.input.Bucket))
	assert.Equal(t, obj.Key, aws.ToString(putter.input.Key))
	assert.Equal(t, "application/pdf", aws.ToString(putter.input.ContentType))
	assert.Equal(t, []byte("%PDF-1.3"), putter.body)
}

func TestArchive_StoreError(t *testing.T) {
	archive := NewArchiveWithClient(&fakePutter{err: errors.New("access denied")}, Config{Bucket: "plans"})
	obj, err := archive.Store(context.Background(), "a.pdf", "application/pdf", nil)
	assert.Nil(t, obj)
	assert.Contains(t, err.Error(), "access denied")
}

func TestConfig_Enabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.True(t, Config{Bucket: "plans"}.Enabled())
}
