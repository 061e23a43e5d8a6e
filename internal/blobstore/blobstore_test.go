package blobstore

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mizutamauma/bloghub/internal/common"
)

func TestBlobStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping blob store integration test")
	}

	endpoint, accessKey, secretKey := common.TestMinio(t)

	ctx := context.Background()

	store, err := NewBlobStore(ctx, endpoint, accessKey, secretKey, "banners", false)
	assert.NoError(t, err)

	url, err := store.Upload(ctx, "blogs/1/banner.png", []byte("not really a png"), "image/png")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, store.PublicBaseURL()))
	assert.Contains(t, url, "banners/blogs/1/banner.png")

	err = store.Delete(ctx, "blogs/1/banner.png")
	assert.NoError(t, err)
}
