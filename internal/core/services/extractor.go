package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/pemre/couchspinner/internal/core/domain"
	"github.com/pemre/couchspinner/internal/core/ports/driven"
	"github.com/pemre/couchspinner/internal/logger"
)

// byteOrderMark is the UTF-8 encoding of U+FEFF.
const byteOrderMark = "\xef\xbb\xbf"

// DecodeText decodes UTF-8 bytes into text.
// A leading byte-order mark is dropped and invalid sequences become U+FFFD.
func DecodeText(data []byte) string {
	text := strings.TrimPrefix(string(data), byteOrderMark)
	return strings.ToValidUTF8(text, "\uFFFD")
}

// PayloadExtractor pulls the document text and image assets out of an archive.
type PayloadExtractor struct {
	assets      driven.AssetStore
	concurrency int
}

// NewPayloadExtractor creates an extractor that registers decoded images in
// assets. concurrency caps parallel asset decodes; zero or less means no cap.
func NewPayloadExtractor(assets driven.AssetStore, concurrency int) *PayloadExtractor {
	return &PayloadExtractor{
		assets:      assets,
		concurrency: concurrency,
	}
}

// ExtractDocumentText returns the text of the first JSON entry in the archive.
// found is false when the archive holds no JSON entry.
func (e *PayloadExtractor) ExtractDocumentText(ctx context.Context, archive driven.Archive) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	entries := archive.Match(domain.DocumentExtensions...)
	if len(entries) == 0 {
		return "", false, nil
	}
	if len(entries) > 1 {
		logger.Debug("Archive holds %d JSON entries, using %s", len(entries), entries[0].Name)
	}

	data, err := entries[0].ReadAll()
	if err != nil {
		return "", true, fmt.Errorf("%w: reading %s: %w", domain.ErrCorruptArchive, entries[0].Name, err)
	}
	return DecodeText(data), true, nil
}

// ExtractAssets decodes every image entry and registers it in the asset store.
// Decodes run concurrently and the result keeps archive order. The first
// failure aborts the batch and releases every handle it registered.
func (e *PayloadExtractor) ExtractAssets(ctx context.Context, archive driven.Archive) ([]domain.Asset, error) {
	entries := archive.Match(domain.ImageExtensions...)
	assets := make([]domain.Asset, len(entries))
	if len(entries) == 0 {
		return assets, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if e.concurrency > 0 {
		g.SetLimit(e.concurrency)
	}

	for i, entry := range entries {
		g.Go(func() error {
			asset, err := e.decodeAsset(gctx, entry)
			if err != nil {
				return err
			}
			assets[i] = asset
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.release(ctx, assets)
		return nil, err
	}

	logger.Debug("Decoded %d assets", len(assets))
	return assets, nil
}

func (e *PayloadExtractor) decodeAsset(ctx context.Context, entry domain.ArchiveEntry) (domain.Asset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Asset{}, &domain.AssetDecodeError{Name: entry.Name, Err: err}
	}

	data, err := entry.ReadAll()
	if err != nil {
		return domain.Asset{}, &domain.AssetDecodeError{Name: entry.Name, Err: err}
	}

	mimeType := mimetype.Detect(data).String()
	handle, err := e.assets.Put(ctx, entry.Name, mimeType, data)
	if err != nil {
		return domain.Asset{}, &domain.AssetDecodeError{Name: entry.Name, Err: err}
	}

	return domain.Asset{
		Handle:     handle,
		SourceName: entry.Name,
		MIMEType:   mimeType,
		Size:       int64(len(data)),
	}, nil
}

// release drops the handles a failed batch managed to register.
func (e *PayloadExtractor) release(ctx context.Context, assets []domain.Asset) {
	var handles []string
	for _, a := range assets {
		if a.Handle != "" {
			handles = append(handles, a.Handle)
		}
	}
	if len(handles) > 0 {
		e.assets.Release(ctx, handles...)
	}
}
