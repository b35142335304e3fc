package uploader

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philharmonia/harmony/internal/common"
	"github.com/philharmonia/harmony/internal/logging"
)

type fakeStore struct {
	headErr   error
	createErr error
	putErrs   map[string]error
	onPut     func(key string) error

	created bool
	puts    []string
}

func (f *fakeStore) HeadBucket(ctx context.Context, bucket string) error {
	return f.headErr
}

func (f *fakeStore) CreateBucket(ctx context.Context, bucket string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = true
	return nil
}

func (f *fakeStore) PutFile(ctx context.Context, bucket, key, path string) error {
	f.puts = append(f.puts, key)
	if f.onPut != nil {
		if err := f.onPut(key); err != nil {
			return err
		}
	}
	return f.putErrs[key]
}

type harness struct {
	app     *App
	out     *bytes.Buffer
	store   *fakeStore
	opened  int
	openErr error
}

func newHarness(t *testing.T, cfg *Config, stdin string) *harness {
	t.Helper()

	h := &harness{out: &bytes.Buffer{}, store: &fakeStore{}}
	p := &Prompter{reader: bufio.NewReader(strings.NewReader(stdin)), out: h.out, fd: -1}
	factory := func(ctx context.Context, c *Config) (ObjectStore, error) {
		h.opened++
		if h.openErr != nil {
			return nil, h.openErr
		}
		return h.store, nil
	}
	h.app = newApp(cfg, p, h.out, logging.Discard(), factory)
	return h
}

func validConfig(dir string) *Config {
	return &Config{
		AccountID:       "5e6c0aff02154d20",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Bucket:          DefaultBucket,
		ImagesDir:       dir,
	}
}

func TestRun_UploadsEveryFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a/b/c.png")
	writeFile(t, dir, "x.jpg")
	writeFile(t, dir, ".hidden")

	h := newHarness(t, validConfig(dir), "")

	s, err := h.app.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{Succeeded: 2}, s)
	assert.Equal(t, []string{"a/b/c.png", "x.jpg"}, h.store.puts)

	out := h.out.String()
	assert.Contains(t, out, "[1/2] Uploading: a/b/c.png")
	assert.Contains(t, out, "https://pub-5e6c0aff.r2.dev/a/b/c.png")
	assert.Contains(t, out, "Success: 2 files")
	assert.Contains(t, out, "Failed: 0 files")
	assert.Contains(t, out, "Public URL: https://pub-5e6c0aff.r2.dev/")
}

func TestRun_FailuresAreIsolated(t *testing.T) {
	dir := t.TempDir()
	for _, rel := range []string{"1.png", "2.png", "3.png", "4.png"} {
		writeFile(t, dir, rel)
	}

	h := newHarness(t, validConfig(dir), "")
	h.store.putErrs = map[string]error{
		"2.png": errors.New("access denied"),
		"4.png": errors.New("connection reset"),
	}

	s, err := h.app.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{Succeeded: 2, Failed: 2}, s)
	assert.Equal(t, 4, s.Total())
	assert.Len(t, h.store.puts, 4)
	assert.Contains(t, h.out.String(), "Failed: access denied")
}

func TestRun_AllFailedOmitsPublicURL(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "only.png")

	h := newHarness(t, validConfig(dir), "")
	h.store.putErrs = map[string]error{"only.png": errors.New("boom")}

	s, err := h.app.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{Failed: 1}, s)
	assert.NotContains(t, h.out.String(), "Public URL")
}

func TestRun_CustomPublicURL(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.png")

	cfg := validConfig(dir)
	cfg.PublicURL = "https://media.example.org"
	h := newHarness(t, cfg, "")

	_, err := h.app.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, h.out.String(), "https://media.example.org/a.png")
}

func TestRun_InterruptedIsFatal(t *testing.T) {
	dir := t.TempDir()
	for _, rel := range []string{"1.png", "2.png", "3.png"} {
		writeFile(t, dir, rel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newHarness(t, validConfig(dir), "")
	h.store.onPut = func(key string) error {
		if key == "1.png" {
			cancel()
			return context.Canceled
		}
		return nil
	}

	s, err := h.app.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Summary{}, s)
	assert.Equal(t, []string{"1.png"}, h.store.puts)
	assert.NotContains(t, h.out.String(), "UPLOAD COMPLETE")
}

func TestRun_CancelledBeforeUpload(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.png")
	writeFile(t, dir, "b.png")

	h := newHarness(t, validConfig(dir), "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := h.app.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.Total())
	assert.Empty(t, h.store.puts)
}

func TestRun_NothingToUpload(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".DS_Store")

	h := newHarness(t, validConfig(dir), "")

	_, err := h.app.Run(context.Background())
	require.ErrorIs(t, err, common.ErrNothingToUpload)
	assert.Empty(t, h.store.puts)
}

func TestRun_MissingCredentialsAbortEarly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.png")

	tests := []struct {
		name  string
		cfg   *Config
		stdin string
	}{
		{
			name:  "nothing configured, empty answers",
			cfg:   &Config{Bucket: DefaultBucket, ImagesDir: dir},
			stdin: "\n\n\n",
		},
		{
			name:  "secret missing",
			cfg:   &Config{AccountID: "acc", AccessKeyID: "key", Bucket: DefaultBucket, ImagesDir: dir},
			stdin: "",
		},
		{
			name: "bucket empty",
			cfg:  &Config{AccountID: "acc", AccessKeyID: "key", SecretAccessKey: "s", ImagesDir: dir},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.cfg, tt.stdin)

			_, err := h.app.Run(context.Background())
			require.ErrorIs(t, err, common.ErrMissingCredentials)
			assert.Zero(t, h.opened)
			assert.Empty(t, h.store.puts)
		})
	}
}

func TestRun_PromptsForCredentials(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.png")

	cfg := &Config{Bucket: DefaultBucket, ImagesDir: dir}
	h := newHarness(t, cfg, "acc12345678\nkey\nsecret\n")

	_, err := h.app.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "acc12345678", cfg.AccountID)
	assert.Equal(t, "key", cfg.AccessKeyID)
	assert.Equal(t, "secret", cfg.SecretAccessKey)
	assert.Contains(t, h.out.String(), "Enter R2 Account ID: ")
}

func TestRun_MissingInputDir(t *testing.T) {
	h := newHarness(t, validConfig(filepath.Join(t.TempDir(), "images")), "")

	_, err := h.app.Run(context.Background())
	require.ErrorIs(t, err, common.ErrMissingInputDir)
	assert.Zero(t, h.opened)
}

func TestRun_InputIsAFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "images")
	h := newHarness(t, validConfig(path), "")

	_, err := h.app.Run(context.Background())
	require.ErrorIs(t, err, common.ErrMissingInputDir)
}

func TestRun_ConnectionFailed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.png")

	h := newHarness(t, validConfig(dir), "")
	h.openErr = errors.New("no route to host")

	_, err := h.app.Run(context.Background())
	require.ErrorIs(t, err, common.ErrConnectionFailed)
	assert.Empty(t, h.store.puts)
}

func TestRun_CreatesMissingBucket(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.png")

	h := newHarness(t, validConfig(dir), "")
	h.store.headErr = errors.New("NotFound")

	_, err := h.app.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, h.store.created)
	assert.Contains(t, h.out.String(), "Bucket created")
}

func TestRun_BucketCreationFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.png")

	h := newHarness(t, validConfig(dir), "")
	h.store.headErr = errors.New("NotFound")
	h.store.createErr = errors.New("forbidden")

	_, err := h.app.Run(context.Background())
	require.ErrorIs(t, err, common.ErrBucketUnavailable)
	assert.Empty(t, h.store.puts)
}
