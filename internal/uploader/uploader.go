package uploader

import (
	"context"
	"fmt"

	"github.com/philharmonia/harmony/internal/common"
	"github.com/philharmonia/harmony/internal/logging"
	"github.com/philharmonia/harmony/internal/r2"
)

// Uploader copies UploadRecords into one bucket, one file at a time.
type Uploader struct {
	store     ObjectStore
	bucket    string
	publicURL string
	report    *Report
	logger    logging.Logger
}

func NewUploader(store ObjectStore, bucket, publicURL string, report *Report, logger logging.Logger) *Uploader {
	return &Uploader{
		store:     store,
		bucket:    bucket,
		publicURL: publicURL,
		report:    report,
		logger:    logger.With("bucket", bucket),
	}
}

// EnsureBucket creates the bucket when it cannot be found.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	err := u.store.HeadBucket(ctx, u.bucket)
	if err == nil {
		u.report.BucketExists()
		return nil
	}

	u.logger.Debug(ctx, "head bucket failed", "error", err)
	u.report.BucketCreating()

	if err := u.store.CreateBucket(ctx, u.bucket); err != nil {
		return fmt.Errorf("%w: create %s: %v", common.ErrBucketUnavailable, u.bucket, err)
	}

	u.report.BucketCreated()
	return nil
}

// UploadAll uploads records in order. A failed file is counted and
// reported without stopping the run. Cancelling ctx stops the run before the
// next file and returns the context error with the tally so far.
func (u *Uploader) UploadAll(ctx context.Context, records []UploadRecord) (Summary, error) {
	var s Summary

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return s, fmt.Errorf("upload interrupted after %d of %d files: %w", i, len(records), err)
		}

		u.report.Start(i+1, len(records), rec.Key)

		if err := u.store.PutFile(ctx, u.bucket, rec.Key, rec.Path); err != nil {
			if ctx.Err() != nil {
				return s, fmt.Errorf("upload interrupted at %s: %w", rec.Key, ctx.Err())
			}
			u.logger.Error(ctx, "upload failed", "key", rec.Key, "error", err)
			u.report.Failure(err)
			s.Failed++
			continue
		}

		u.report.Success(r2.ObjectURL(u.publicURL, rec.Key))
		s.Succeeded++
	}

	return s, nil
}
