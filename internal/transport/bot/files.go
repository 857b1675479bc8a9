package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mymmrac/telego"

	"calibration_analyzer/internal/transport/bot/handler"
)

// FileDownloader скачивает документы, присланные боту. Запрос отменяется
// через ctx, тело читается не больше MaxDocumentSize.
type FileDownloader struct {
	bot    *telego.Bot
	client *http.Client
}

func NewFileDownloader(bot *telego.Bot, timeout time.Duration) *FileDownloader {
	return &FileDownloader{
		bot:    bot,
		client: &http.Client{Timeout: timeout}, //nolint:exhaustruct
	}
}

func (d *FileDownloader) Download(ctx context.Context, fileID string) ([]byte, error) {
	file, err := d.bot.GetFile(ctx, &telego.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.bot.FileDownloadURL(file.FilePath), nil)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %d", resp.StatusCode) //nolint:err113
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, handler.MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	if len(data) > handler.MaxDocumentSize {
		return nil, fmt.Errorf("download file: larger than %d bytes", handler.MaxDocumentSize) //nolint:err113
	}

	return data, nil
}
