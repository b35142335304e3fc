package uploader

import (
	"fmt"
	"io"
	"strings"
)

var rule = strings.Repeat("=", 50)

// Summary is the tally of a run.
type Summary struct {
	Succeeded int
	Failed    int
}

func (s Summary) Total() int {
	return s.Succeeded + s.Failed
}

// Report prints human-readable progress to the console.
type Report struct {
	w io.Writer
}

func NewReport(w io.Writer) *Report {
	return &Report{w: w}
}

func (r *Report) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}

func (r *Report) Banner() {
	r.printf("%s\nCLOUDFLARE R2 FILE UPLOADER\n%s\n", rule, rule)
}

func (r *Report) Target(accountID, bucket string) {
	r.printf("\nAccount ID: %s\nBucket: %s\n", accountID, bucket)
}

func (r *Report) Connected() {
	r.printf("Connected to Cloudflare R2\n")
}

func (r *Report) BucketExists() {
	r.printf("Bucket exists\n")
}

func (r *Report) BucketCreating() {
	r.printf("Creating bucket...\n")
}

func (r *Report) BucketCreated() {
	r.printf("Bucket created\n")
}

func (r *Report) Found(n int) {
	r.printf("\nFound %d files\n", n)
}

func (r *Report) Start(i, n int, key string) {
	r.printf("\n[%d/%d] Uploading: %s\n", i, n, key)
}

func (r *Report) Success(url string) {
	r.printf("   Success!\n   %s\n", url)
}

func (r *Report) Failure(err error) {
	r.printf("   Failed: %v\n", err)
}

// Done prints the final tally, and the public base URL when anything was uploaded.
func (r *Report) Done(s Summary, publicURL string) {
	r.printf("\n%s\nUPLOAD COMPLETE\n%s\n", rule, rule)
	r.printf("Success: %d files\nFailed: %d files\n", s.Succeeded, s.Failed)
	if s.Succeeded > 0 {
		r.printf("\nPublic URL: %s\n", publicURL)
	}
}
