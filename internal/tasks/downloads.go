package tasks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"tunedeck/internal/gateway"
	"tunedeck/internal/models"
	"tunedeck/internal/shared"
)

// Recorder persists the fact that a track was downloaded, so the downloads
// view reflects it. Satisfied by collections.Downloads.
type Recorder interface {
	Record(ctx context.Context, ownerKey string, track models.Track) error
}

// BulkDownloadOpts contains configuration for bulk audio downloads.
type BulkDownloadOpts struct {
	OutputDir  string  // Base output directory (default: tunedeck_downloads_{epoch})
	NumWorkers int     // Concurrent workers (default: 4)
	RateLimit  float64 // Requests per second (default: 4)
	Token      string  // Bearer token attached to every fetch
}

// TrackDownloadResult is the outcome for a single track.
type TrackDownloadResult struct {
	TrackID string `json:"track_id"`
	Title   string `json:"title"`
	Success bool   `json:"success"`
	Path    string `json:"path,omitempty"`
	Error   error  `json:"-"`
}

// BulkDownloadResult summarizes a bulk download run.
type BulkDownloadResult struct {
	TotalTracks     int                   `json:"total_tracks"`
	Succeeded       int                   `json:"succeeded"`
	Failed          int                   `json:"failed"`
	OutputDirectory string                `json:"output_directory"`
	Results         []TrackDownloadResult `json:"results"`
}

type downloadJob struct {
	step  int
	track models.Track
}

// Downloader fetches track audio concurrently and records each success.
type Downloader struct {
	client   *http.Client
	recorder Recorder
	logger   *log.Logger
}

// NewDownloader creates a Downloader. A nil client falls back to a plain
// http.Client; pass a token via opts to attach bearer auth instead.
func NewDownloader(client *http.Client, recorder Recorder, logger *log.Logger) *Downloader {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Downloader{client: client, recorder: recorder, logger: logger}
}

// Run downloads the audio of every playable track concurrently with rate
// limiting and progress tracking. Unplayable tracks fail individually rather
// than aborting the run, and each completed file is recorded against
// ownerKey when a recorder is configured.
func (d *Downloader) Run(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ownerKey string,
	tracks []models.Track,
	opts BulkDownloadOpts,
) (*BulkDownloadResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("tunedeck_downloads_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 4.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	client := d.client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	if opts.Token != "" {
		client = gateway.BearerClient(ctx, opts.Token)
	}

	result := &BulkDownloadResult{
		TotalTracks:     len(tracks),
		OutputDirectory: opts.OutputDir,
		Results:         make([]TrackDownloadResult, 0, len(tracks)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan downloadJob, len(tracks))
	results := make(chan TrackDownloadResult, len(tracks))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go d.downloadWorker(ctx, &wg, client, limiter, jobs, results, prog, opts)
	}

	d.sendProgress(prog, queueUpdate(len(tracks)))
	go func() {
		for i, track := range tracks {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}
			jobs <- downloadJob{step: i + 1, track: track}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.Succeeded++
			d.sendProgress(prog, downloadDoneUpdate(completed, len(tracks), res.Title, res.Path))
			if d.recorder != nil {
				track := trackByID(tracks, res.TrackID)
				if err := d.recorder.Record(ctx, ownerKey, track); err != nil {
					d.logger.Warn("failed to record download", "track", res.Title, "err", err)
				} else {
					d.sendProgress(prog, recordUpdate(completed, len(tracks), res.Title))
				}
			}
		} else {
			result.Failed++
			d.sendProgress(prog, downloadFailedUpdate(completed, len(tracks), res.Title, res.Error))
		}
	}
	return result, nil
}

// downloadWorker is a worker goroutine that pulls tracks from jobs and fetches
// their audio.
func (d *Downloader) downloadWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	client *http.Client,
	limiter *rate.Limiter,
	jobs <-chan downloadJob,
	results chan<- TrackDownloadResult,
	prog chan<- ProgressUpdate,
	opts BulkDownloadOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}

		d.sendProgress(prog, downloadStartUpdate(job.step, cap(jobs), job.track.Title))
		results <- d.downloadOne(ctx, client, job.track, opts.OutputDir)
	}
}

// downloadOne fetches one track's audio into outputDir.
func (d *Downloader) downloadOne(ctx context.Context, client *http.Client, track models.Track, outputDir string) TrackDownloadResult {
	result := TrackDownloadResult{TrackID: track.ID, Title: track.Title}

	if !track.Playable() {
		result.Error = fmt.Errorf("%w: no audio url", shared.ErrNotPlayable)
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.AudioURL, nil)
	if err != nil {
		result.Error = err
		return result
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Error = fmt.Errorf("%w: %v", shared.ErrNetwork, err)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result.Error = fmt.Errorf("unexpected status %d fetching audio", resp.StatusCode)
		return result
	}

	dest := filepath.Join(outputDir, downloadFilename(track))
	f, err := os.Create(dest)
	if err != nil {
		result.Error = err
		return result
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(dest)
		result.Error = err
		return result
	}

	result.Path = dest
	result.Success = true
	return result
}

// sendProgress sends a progress update through the channel without blocking.
func (d *Downloader) sendProgress(prog chan<- ProgressUpdate, update ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- update:
	default:
	}
}

// downloadFilename builds a filesystem-safe name from the track id and the
// extension of its audio url, defaulting to .mp3.
func downloadFilename(track models.Track) string {
	ext := path.Ext(track.AudioURL)
	if ext == "" || len(ext) > 5 || strings.ContainsAny(ext, "?&=") {
		ext = ".mp3"
	}
	name := track.ID
	if name == "" {
		name = strings.ToLower(strings.ReplaceAll(track.Title, " ", "_"))
	}
	return name + ext
}

func trackByID(tracks []models.Track, id string) models.Track {
	for _, t := range tracks {
		if t.ID == id {
			return t
		}
	}
	return models.Track{ID: id}
}
