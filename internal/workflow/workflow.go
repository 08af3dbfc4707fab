// Package workflow coordinates one disc-to-container run: geometry query,
// the concurrent extract/encode pipeline, interactive metadata collection,
// derived-artifact generation, and the final mux invocation.
//
// The chapter timeline and both tag documents are projections of the same
// ordered track list the geometry reader produced, so every artifact agrees
// exactly with the pipeline's track boundaries. The rip runs on its own
// goroutine while metadata collection proceeds; the flow joins the rip before
// muxing. Failures are never retried: each aborts the run with a one-line
// cause.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"discmux/internal/chapters"
	"discmux/internal/config"
	"discmux/internal/disc"
	"discmux/internal/history"
	"discmux/internal/logging"
	"discmux/internal/metadata"
	"discmux/internal/mux"
	"discmux/internal/pipeline"
	"discmux/internal/services"
	"discmux/internal/tags"
	"discmux/internal/textutil"
)

// GeometryReader queries disc track geometry.
type GeometryReader interface {
	Read(ctx context.Context, device string) (*disc.Disc, error)
}

// Ripper runs the extract/encode pipeline into a destination file.
type Ripper interface {
	Rip(ctx context.Context, device, destPath string) (*pipeline.Result, error)
}

// MediaWaiter blocks until the given drive reports inserted media.
type MediaWaiter interface {
	WaitForMedia(ctx context.Context, device string) error
}

// Recorder persists completed rips.
type Recorder interface {
	Add(ctx context.Context, record history.Record) (*history.Record, error)
}

// Request identifies one rip run: the source drive, the cover image to
// attach, and the output container path.
type Request struct {
	Device     string
	CoverPath  string
	OutputPath string
}

// Workflow owns a single run from disc to container.
type Workflow struct {
	cfg       *config.Config
	logger    *slog.Logger
	reader    GeometryReader
	ripper    Ripper
	muxer     mux.Muxer
	provider  metadata.Provider
	ejector   disc.Ejector
	recorder  Recorder
	waiter    MediaWaiter
	preflight func(device string) error
}

// New constructs the workflow using default collaborators. The recorder may
// be nil when the history ledger is disabled.
func New(cfg *config.Config, logger *slog.Logger, provider metadata.Provider, recorder Recorder) *Workflow {
	w := NewWithDependencies(
		cfg,
		logger,
		disc.NewGeometryReader(cfg.Tools.Cdparanoia, logger),
		pipeline.NewRipper(cfg, logger),
		mux.NewMKVMerge(cfg.Tools.Mkvmerge, logger),
		provider,
		disc.NewEjector(cfg.Tools.Eject),
		recorder,
	)
	w.preflight = disc.Preflight
	if cfg.Rip.WaitForDisc {
		w.waiter = disc.NewMonitor(logger)
	}
	return w
}

// NewWithDependencies allows injecting all collaborators (used in tests).
// Preflight and media waiting are disabled unless configured afterwards.
func NewWithDependencies(
	cfg *config.Config,
	logger *slog.Logger,
	reader GeometryReader,
	ripper Ripper,
	muxer mux.Muxer,
	provider metadata.Provider,
	ejector disc.Ejector,
	recorder Recorder,
) *Workflow {
	return &Workflow{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "workflow"),
		reader:   reader,
		ripper:   ripper,
		muxer:    muxer,
		provider: provider,
		ejector:  ejector,
		recorder: recorder,
	}
}

type ripOutcome struct {
	result *pipeline.Result
	err    error
}

// Run executes one complete disc-to-container flow.
func (w *Workflow) Run(ctx context.Context, req Request) error {
	if err := w.cfg.EnsureDirectories(); err != nil {
		return services.Wrap(services.ErrConfiguration, "workflow", "ensure directories", "", err)
	}

	// Waiting precedes preflight: with an empty tray the drive reports
	// no_disc until media arrives, which is exactly the state the waiter
	// exists to sit through.
	if w.waiter != nil {
		if err := w.waiter.WaitForMedia(ctx, req.Device); err != nil {
			return err
		}
	}
	if w.preflight != nil {
		if err := w.preflight(req.Device); err != nil {
			return err
		}
	}

	unlock, err := w.lockDrive(req.Device)
	if err != nil {
		return err
	}
	defer unlock()

	geometry, err := w.reader.Read(ctx, req.Device)
	if err != nil {
		return err
	}

	scratch, err := os.MkdirTemp(w.cfg.Paths.WorkDir, "rip-*")
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "workflow", "create scratch directory", "", err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			w.logger.Warn("failed to remove scratch directory",
				logging.String("path", scratch), logging.Error(err))
		}
	}()

	audioPath := filepath.Join(scratch, "audio.flac")

	// The whole-disc extract+encode runs on its own goroutine while the
	// interactive metadata flow proceeds to completion on this one.
	ripDone := make(chan ripOutcome, 1)
	go func() {
		result, ripErr := w.ripper.Rip(ctx, req.Device, audioPath)
		ripDone <- ripOutcome{result: result, err: ripErr}
	}()

	album, names, collectErr := w.collectMetadata(ctx, geometry)

	var artifacts *runArtifacts
	if collectErr == nil {
		artifacts, collectErr = w.writeArtifacts(scratch, geometry, album, names)
	}

	// Extraction and encoding run to completion or hard failure; there is
	// no mid-pipeline abort. Join the rip before deciding the run outcome.
	outcome := <-ripDone
	if outcome.err != nil {
		return outcome.err
	}
	if collectErr != nil {
		return collectErr
	}

	title := textutil.ContainerTitle(album.Artist, album.Title)
	job := mux.Job{
		AudioPath:      audioPath,
		CoverPath:      req.CoverPath,
		ChaptersPath:   artifacts.chaptersPath,
		GlobalTagsPath: artifacts.albumTagsPath,
		TrackTagsPath:  artifacts.trackTagsPath,
		Title:          title,
		OutputPath:     req.OutputPath,
	}
	if err := w.muxer.Mux(ctx, job); err != nil {
		return err
	}

	w.record(ctx, req, geometry, album)
	w.eject(ctx, req.Device)

	w.logger.Info("rip complete",
		logging.String("output", req.OutputPath),
		logging.String("title", title),
		logging.Int("tracks", len(geometry.Tracks)),
		logging.Int64("encoded_bytes", outcome.result.BytesWritten),
	)
	return nil
}

// lockDrive takes a per-device advisory lock so two runs cannot fight over
// one drive.
func (w *Workflow) lockDrive(device string) (func(), error) {
	lockPath := filepath.Join(w.cfg.Paths.WorkDir, "discmux-"+textutil.SanitizeToken(device)+".lock")
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "acquire drive lock", lockPath, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrPreflight, "workflow", "acquire drive lock",
			fmt.Sprintf("another discmux run is using %s", device), nil)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			w.logger.Warn("failed to release drive lock", logging.Error(err))
		}
	}, nil
}

func (w *Workflow) collectMetadata(ctx context.Context, geometry *disc.Disc) (metadata.Album, []string, error) {
	album, names, err := w.provider.Collect(ctx, len(geometry.Tracks))
	if err != nil {
		return metadata.Album{}, nil, services.Wrap(services.ErrConfiguration, "workflow", "collect metadata", "", err)
	}
	if len(names) != len(geometry.Tracks) {
		return metadata.Album{}, nil, services.Wrap(services.ErrTrackCountMismatch, "workflow", "collect metadata",
			fmt.Sprintf("provider returned %d names for %d tracks", len(names), len(geometry.Tracks)), nil)
	}
	for i := range geometry.Tracks {
		geometry.Tracks[i].Name = names[i]
	}
	return album, names, nil
}

type runArtifacts struct {
	chaptersPath  string
	albumTagsPath string
	trackTagsPath string
}

// writeArtifacts generates the chapter and tag files from the same ordered
// track list, unmodified, that the pipeline rips.
func (w *Workflow) writeArtifacts(scratch string, geometry *disc.Disc, album metadata.Album, names []string) (*runArtifacts, error) {
	entries, err := chapters.Timeline(geometry.TrackLengths(), names)
	if err != nil {
		return nil, err
	}

	artifacts := &runArtifacts{
		chaptersPath:  filepath.Join(scratch, "chapters.txt"),
		albumTagsPath: filepath.Join(scratch, "album-tags.xml"),
		trackTagsPath: filepath.Join(scratch, "track-tags.xml"),
	}

	chapterFile, err := os.Create(artifacts.chaptersPath)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "create chapter file", "", err)
	}
	renderErr := chapters.Render(chapterFile, entries)
	if closeErr := chapterFile.Close(); renderErr == nil {
		renderErr = closeErr
	}
	if renderErr != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "write chapter file", "", renderErr)
	}

	albumXML, err := tags.RenderAlbum(album)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "render album tags", "", err)
	}
	if err := os.WriteFile(artifacts.albumTagsPath, albumXML, 0o644); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "write album tags", "", err)
	}

	trackXML, err := tags.RenderTracks(geometry.Tracks)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "render track tags", "", err)
	}
	if err := os.WriteFile(artifacts.trackTagsPath, trackXML, 0o644); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "write track tags", "", err)
	}

	return artifacts, nil
}

func (w *Workflow) record(ctx context.Context, req Request, geometry *disc.Disc, album metadata.Album) {
	if w.recorder == nil {
		return
	}
	_, err := w.recorder.Add(ctx, history.Record{
		Device:       req.Device,
		Artist:       album.Artist,
		Album:        album.Title,
		Year:         album.Year,
		Genre:        album.Genre,
		TrackCount:   len(geometry.Tracks),
		TotalSamples: geometry.TotalSamples(),
		OutputPath:   req.OutputPath,
	})
	if err != nil {
		w.logger.Warn("failed to record rip in history", logging.Error(err))
	}
}

func (w *Workflow) eject(ctx context.Context, device string) {
	if !w.cfg.Rip.EjectAfterRip || w.ejector == nil {
		return
	}
	w.logger.Info("ejecting disc", logging.String("device", device))
	if err := w.ejector.Eject(ctx, device); err != nil {
		w.logger.Warn("failed to eject disc", logging.Error(err))
	}
}
