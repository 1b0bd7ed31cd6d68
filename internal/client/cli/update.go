package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
)

const updateFileName = "carblock.apk"

// downloadUpdate fetches the published application package. The URL is a
// presigned one advertised via server-info, so no authentication headers are
// attached.
func (a *App) downloadUpdate(ctx context.Context) {
	info := a.gate.Info()
	if info == nil {
		var err error
		info, err = a.apiClient.ServerInfo(ctx)
		if err != nil {
			log.Println(err.Error())
			return
		}
	}
	if info.AppDownloadURL == "" {
		log.Println("The server does not advertise a download URL.")
		return
	}

	if err := downloadToFile(ctx, info.AppDownloadURL, updateFileName); err != nil {
		log.Printf("Download failed: %s", err.Error())
		return
	}
	log.Printf("Saved %s (version %s)", updateFileName, info.ReleaseClientVersion)
}

func downloadToFile(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %s", resp.Status)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
