package screenshots

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"sync"

	"snapsolver/pkg/logx"
)

var loadLogger = logx.NewLogger("screenshots")

// Load reads and base64-encodes the given screenshot files concurrently.
// Files that fail to read are dropped with a warning rather than failing
// the whole batch; queue order is preserved among the survivors. Load
// returns early with ctx.Err() when the context is already cancelled.
func Load(ctx context.Context, paths []string) ([]Screenshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]*Screenshot, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			shot, err := loadOne(path)
			if err != nil {
				loadLogger.Warn("Dropping unreadable screenshot: %v", err)
				return
			}
			results[i] = shot
		}(i, path)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loaded := make([]Screenshot, 0, len(paths))
	for _, shot := range results {
		if shot != nil {
			loaded = append(loaded, *shot)
		}
	}
	return loaded, nil
}

func loadOne(path string) (*Screenshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	data := base64.StdEncoding.EncodeToString(raw)
	return &Screenshot{
		Path:    path,
		Preview: fmt.Sprintf("data:%s;base64,%s", MediaTypeFor(path), data),
		Data:    data,
	}, nil
}
