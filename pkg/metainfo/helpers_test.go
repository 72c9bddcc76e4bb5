package metainfo

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

// writeRandomFile 写入确定性的伪随机内容
func writeRandomFile(t *testing.T, path string, size int, seed int64) []byte {
	t.Helper()
	data := make([]byte, size)
	rand.New(rand.NewSource(seed)).Read(data)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
	return data
}

func mustBuild(t *testing.T, root string, opts Options) *Bundle {
	t.Helper()
	if opts.Now == nil {
		opts.Now = fixedNow
	}
	b, err := Build(context.Background(), root, opts)
	require.NoError(t, err)
	return b
}
