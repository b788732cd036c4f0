package tiger

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/siting-cli/internal/fetcher"
)

// download fetches a TIGER/Line ZIP into a fresh working directory, extracts
// it, and returns the .shp path plus a cleanup func that removes the
// directory. Nothing is reused between calls, so every fetch hits the network.
func (c *Client) download(ctx context.Context, url string) (string, func(), error) {
	log := zap.L().With(
		zap.String("component", "tiger.download"),
		zap.String("url", url),
	)

	workDir, err := os.MkdirTemp(c.tempDir, "tiger-*")
	if err != nil {
		return "", nil, eris.Wrap(err, "tiger: create work dir")
	}
	cleanup := func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			log.Debug("tiger: remove work dir", zap.Error(rmErr))
		}
	}

	zipName := path.Base(url)
	zipPath := filepath.Join(workDir, zipName)

	log.Info("downloading TIGER shapefile")
	n, err := c.fetcher.DownloadToFile(ctx, url, zipPath)
	if err != nil {
		cleanup()
		return "", nil, eris.Wrap(err, "tiger: download shapefile")
	}
	log.Debug("download complete", zap.Int64("bytes", n))

	extractDir := filepath.Join(workDir, strings.TrimSuffix(zipName, ".zip"))
	files, err := fetcher.ExtractZIP(zipPath, extractDir)
	if err != nil {
		cleanup()
		return "", nil, eris.Wrap(err, "tiger: extract ZIP")
	}

	shpPath, err := fetcher.FindByExt(files, ".shp")
	if err != nil {
		cleanup()
		return "", nil, eris.Wrap(err, "tiger: find .shp file")
	}

	return shpPath, cleanup, nil
}
