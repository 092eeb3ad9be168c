package upkeep

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
)

// handleUploadCommand bundles the archived transcripts into one zstd-compressed
// tarball and pushes it to the configured log store.
func handleUploadCommand(ctx context.Context, cfg *Config) error {
	logPath := transcriptPath(cfg)
	archived, err := listArchivedTranscripts(logPath)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(logPath); statErr == nil {
		archived = append([]string{logPath}, archived...)
	}
	if len(archived) == 0 {
		return fmt.Errorf("no transcripts to upload under %s", filepath.Dir(logPath))
	}

	stepf("bundling %d transcript(s)", len(archived))
	bundle, err := bundleTranscripts(archived)
	if err != nil {
		return fmt.Errorf("bundling transcripts: %w", err)
	}

	store, err := NewLogStore(ctx, cfg)
	if err != nil {
		return err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}
	key := fmt.Sprintf("upkeep/%s/transcripts-%s.tar.zst", hostname, time.Now().Format("20060102-150405"))

	stepf("uploading %s (%s)", key, humanSize(uint64(len(bundle))))
	if err := store.Upload(ctx, key, bundle); err != nil {
		return err
	}
	cPrintln(colSuccess, "Upload complete.")
	return nil
}

// bundleTranscripts packs the given files into a tar stream compressed with
// zstd. Archived transcripts stay in their .xz form inside the bundle.
func bundleTranscripts(paths []string) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, err
	}
	tw := tar.NewWriter(zw)

	for _, p := range paths {
		if err := addToBundle(tw, p); err != nil {
			return nil, err
		}
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addToBundle(tw *tar.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return err
	}
	hdr := &tar.Header{
		Name:    filepath.Base(path),
		Mode:    0o644,
		Size:    stat.Size(),
		ModTime: stat.ModTime(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(tw, f)
	return err
}
