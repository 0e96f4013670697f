// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/ytlikes/internal/models"
)

// MockSource is a test double for [services.Source]
type MockSource struct {
	Tracks []models.Track
	Err    error
	Calls  int
}

func (m *MockSource) LikedSongs(ctx context.Context) ([]models.Track, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]models.Track(nil), m.Tracks...), nil
}

func (m *MockSource) Name() string { return "mock source" }

// MockDestination is an in-memory test double for [services.Destination].
//
// Created rows are appended to Rows, so a second query sees them.
type MockDestination struct {
	Rows        []models.Row
	QueryErr    error
	CreateErrs  map[string]error // keyed by video ID
	CreateCalls int
	QueryCalls  int
}

func (m *MockDestination) QueryRows(ctx context.Context) ([]models.Row, error) {
	m.QueryCalls++
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	return append([]models.Row{}, m.Rows...), nil
}

func (m *MockDestination) CreateRow(ctx context.Context, track models.Track) (*models.Row, error) {
	m.CreateCalls++
	if err := m.CreateErrs[track.VideoID]; err != nil {
		return nil, err
	}

	row := models.Row{
		PageID:          fmt.Sprintf("page-%d", len(m.Rows)+1),
		VideoID:         track.VideoID,
		Title:           track.Title,
		Artist:          track.ArtistNames(),
		Album:           track.AlbumName(),
		Duration:        track.Duration,
		DurationSeconds: track.DurationSeconds,
		Link:            track.WatchURL(),
		Cover:           track.CoverURL(),
	}
	m.Rows = append(m.Rows, row)
	return &row, nil
}

func (m *MockDestination) Name() string { return "mock destination" }

// NewTrack builds a track with a single artist for use in tests.
func NewTrack(videoID, title, artist string) models.Track {
	return models.Track{
		VideoID:         videoID,
		Title:           title,
		Artists:         []models.Artist{{Name: artist}},
		Duration:        "3:21",
		DurationSeconds: 201,
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
