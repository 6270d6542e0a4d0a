// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset fetches the ratings table and partitions it into
// train/validation/test splits for the external trial processes to read.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pdiddy/tunebench/pkg/types"
)

// SplitNames returns the three split file names for a dataset size tag, in
// train/validation/test order. The names are deterministic so the trial
// command and the preparer agree without coordination.
func SplitNames(sizeTag string) [3]string {
	return [3]string{
		sizeTag + "_train.csv",
		sizeTag + "_valid.csv",
		sizeTag + "_test.csv",
	}
}

// Prepare loads the ratings table, splits it per cfg.Proportions, and writes
// the three split files into cfg.ScratchDir. It validates the proportions
// before touching the network or the filesystem.
func Prepare(client *http.Client, cfg types.DatasetConfig, w io.Writer) error {
	if err := ValidateProportions(cfg.Proportions); err != nil {
		return err
	}

	ratings, err := load(client, cfg, w)
	if err != nil {
		return err
	}

	splits := Split(ratings, cfg.Proportions, cfg.Seed)

	if err := os.MkdirAll(cfg.ScratchDir, 0o755); err != nil {
		return fmt.Errorf("creating scratch directory %s: %w", cfg.ScratchDir, err)
	}

	names := SplitNames(cfg.SizeTag)
	for i, name := range names {
		path := filepath.Join(cfg.ScratchDir, name)
		if err := writeSplit(path, splits[i]); err != nil {
			return fmt.Errorf("writing split %s: %w", name, err)
		}
		fmt.Fprintf(w, "wrote %s (%d records)\n", path, len(splits[i]))
	}
	return nil
}

// load reads the ratings table from cfg.LocalPath when set, otherwise
// downloads it from cfg.SourceURL into the scratch directory first.
func load(client *http.Client, cfg types.DatasetConfig, w io.Writer) ([]types.Rating, error) {
	path := cfg.LocalPath
	if path == "" {
		if cfg.SourceURL == "" {
			return nil, fmt.Errorf("dataset config names neither source_url nor local_path")
		}
		path = filepath.Join(cfg.ScratchDir, cfg.SizeTag+"_ratings.csv")
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintf(w, "downloading: %s\n", cfg.SourceURL)
			if err := download(client, cfg.SourceURL, path); err != nil {
				return nil, fmt.Errorf("fetching dataset: %w", err)
			}
		} else {
			fmt.Fprintf(w, "skipped download: %s (already exists)\n", path)
		}
	}

	ratings, err := ReadRatings(path)
	if err != nil {
		return nil, fmt.Errorf("reading ratings from %s: %w", path, err)
	}
	fmt.Fprintf(w, "loaded %d ratings from %s\n", len(ratings), path)
	return ratings, nil
}

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

const maxDownloadRetries = 3

// download fetches url to destPath using a temporary file so a failed
// download never leaves a partial ratings file behind. HTTP 429 is retried
// with exponential backoff.
func download(client *http.Client, url, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	resp, err := fetchWithRetry(client, url)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".dataset-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// fetchWithRetry issues the GET and retries on HTTP 429 with exponential
// backoff: RetryBaseDelay, doubled each attempt. After exhausting retries the
// last 429 response is returned so the caller can report the status.
func fetchWithRetry(client *http.Client, url string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := client.Get(url)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxDownloadRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		time.Sleep(time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay)
	}
}

// ReadRatings parses a ratings CSV with columns user, item, rating and an
// optional timestamp. A header row is detected by a non-numeric rating column
// and skipped.
func ReadRatings(path string) ([]types.Rating, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var ratings []types.Rating
	for line := 1; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("line %d: expected at least 3 columns, got %d", line, len(rec))
		}

		value, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			if line == 1 {
				continue // header row
			}
			return nil, fmt.Errorf("line %d: bad rating %q: %w", line, rec[2], err)
		}

		rating := types.Rating{UserID: rec[0], ItemID: rec[1], Value: value}
		if len(rec) > 3 {
			rating.Timestamp = rec[3]
		}
		ratings = append(ratings, rating)
	}
	return ratings, nil
}

// writeSplit persists one split as a headered CSV.
func writeSplit(path string, ratings []types.Rating) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"userID", "itemID", "rating", "timestamp"}); err != nil {
		f.Close()
		return err
	}
	for _, r := range ratings {
		rec := []string{
			r.UserID,
			r.ItemID,
			strconv.FormatFloat(r.Value, 'g', -1, 64),
			r.Timestamp,
		}
		if err := cw.Write(rec); err != nil {
			f.Close()
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
