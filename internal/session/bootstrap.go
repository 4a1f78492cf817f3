package session

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/ligustah/lobby/internal/asset"
	"github.com/ligustah/lobby/internal/config"
	"github.com/ligustah/lobby/internal/logging"
)

// LoadResult records how one bootstrap load ended.
type LoadResult struct {
	Slot   string
	URL    string
	Status asset.Status
	Err    error
}

// Report summarises a bootstrap run.
type Report struct {
	SessionID  int
	PlayerName string
	Loads      []LoadResult // sorted by slot

	// Failures aggregates every transport and decode failure.
	Failures *multierror.Error
}

// Err returns the aggregated failures, or nil if every load succeeded.
func (r *Report) Err() error {
	return r.Failures.ErrorOrNil()
}

// Bootstrap applies cfg to mgr: it joins the session, sets the player name and
// loads the avatar model and image concurrently.
//
// Without a session id nothing is joined and config.ErrMissingSessionID is
// returned. Missing name or avatar URLs are logged and skipped. Under
// config.PolicyContinue failed loads keep the default asset and are only
// reported; under config.PolicyAbort the first failure cancels the remaining
// loads and is returned together with the report.
func Bootstrap(ctx context.Context, cfg *config.Config, mgr *Manager, logger *log.Logger) (*Report, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	if cfg.SessionID <= 0 {
		logger.Error("argument missing, unable to join session", "arg", config.KeySessionID)
		return nil, config.ErrMissingSessionID
	}
	if err := mgr.CreateOrJoinSession(ctx, cfg.SessionID); err != nil {
		return nil, fmt.Errorf("join session: %w", err)
	}

	if cfg.PlayerName == "" {
		logger.Warn("argument missing", "arg", config.KeyPlayerName)
	} else {
		mgr.SetPlayerName(cfg.PlayerName)
	}

	report := &Report{
		SessionID:  cfg.SessionID,
		PlayerName: mgr.Player().Name(),
	}
	abort := cfg.FailurePolicy == config.PolicyAbort

	var mu sync.Mutex
	record := func(slot, url string, status asset.Status, err error) error {
		mu.Lock()
		defer mu.Unlock()
		report.Loads = append(report.Loads, LoadResult{Slot: slot, URL: url, Status: status, Err: err})
		if status != asset.StatusTransportFailure && status != asset.StatusDecodeFailure {
			return nil
		}
		failure := fmt.Errorf("%s %s: %w", slot, url, err)
		report.Failures = multierror.Append(report.Failures, failure)
		if abort {
			return failure
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)

	if url := cfg.Avatar.ModelURL; url == "" {
		logger.Warn("argument missing", "arg", config.KeyAvatarModelURL)
	} else {
		task := mgr.SetAvatarModelFromURL(gctx, url)
		g.Go(func() error {
			out := await(task)
			return record(SlotAvatarMesh, url, out.Status, out.Err)
		})
	}

	if url := cfg.Avatar.ImageURL; url == "" {
		logger.Warn("argument missing", "arg", config.KeyAvatarImageURL)
	} else {
		task := mgr.SetAvatarImageFromURL(gctx, url)
		g.Go(func() error {
			out := await(task)
			return record(SlotAvatarImage, url, out.Status, out.Err)
		})
	}

	err := g.Wait()
	sort.Slice(report.Loads, func(i, j int) bool { return report.Loads[i].Slot < report.Loads[j].Slot })

	if err != nil {
		logger.Error("bootstrap aborted", "err", err)
		return report, report.Err()
	}
	if ctx.Err() != nil {
		return report, ctx.Err()
	}
	if report.Failures != nil {
		logger.Warn("bootstrap finished with failures", "failures", len(report.Failures.Errors))
	} else {
		logger.Info("bootstrap finished", "session_id", report.SessionID, "player", report.PlayerName)
	}
	return report, nil
}

// await blocks until task finishes. The task's context is derived from the
// caller's, so cancellation ends it promptly.
func await[T any](task *asset.Task[T]) asset.Outcome[T] {
	<-task.Done()
	out, _ := task.Outcome()
	return out
}
