package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"linkhive/internal/db"
	"linkhive/internal/metrics"
	"linkhive/internal/models"
	"linkhive/internal/queue"
)

// LinkStore is the slice of the database the worker needs.
type LinkStore interface {
	GetLink(ctx context.Context, id int64) (*models.Link, error)
	UpdateLink(ctx context.Context, link *models.Link, changes map[string]any) (int, error)
}

// Worker consumes enrichment jobs and fills in link titles and
// descriptions. Each job is attempted exactly once; failures are logged
// and counted, never retried.
type Worker struct {
	store   LinkStore
	queue   queue.Queue
	fetcher Fetcher
	social  *SocialClient
}

// NewWorker creates a worker over the given collaborators.
func NewWorker(store LinkStore, q queue.Queue, fetcher Fetcher, social *SocialClient) *Worker {
	return &Worker{
		store:   store,
		queue:   q,
		fetcher: fetcher,
		social:  social,
	}
}

// Start consumes jobs until the context is cancelled. Blocking.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("enrichment worker started")

	for {
		select {
		case <-ctx.Done():
			slog.Info("enrichment worker stopping")
			return
		default:
		}

		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				slog.Info("enrichment worker stopping")
				return
			}
			slog.Error("failed to dequeue enrichment job", "error", err)
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		outcome := w.process(ctx, job)
		metrics.EnrichmentJobs.WithLabelValues(outcome).Inc()
	}
}

// process handles one job and returns its outcome label.
func (w *Worker) process(ctx context.Context, job *queue.Job) string {
	log := slog.With("job_id", job.ID, "link_id", job.LinkID)

	link, err := w.store.GetLink(ctx, job.LinkID)
	if errors.Is(err, db.ErrLinkNotFound) {
		log.Info("link deleted before enrichment, skipping")
		return "skipped"
	}
	if err != nil {
		log.Error("failed to load link for enrichment", "error", err)
		return "failed"
	}

	if link.Title != nil {
		log.Info("link already titled, skipping enrichment")
		return "skipped"
	}

	changes, err := w.extract(ctx, link.URL)
	if err != nil {
		log.Warn("enrichment failed", "url", link.URL, "error", err)
		return "failed"
	}
	if len(changes) == 0 {
		log.Info("no metadata found", "url", link.URL)
		return "skipped"
	}

	if _, err := w.store.UpdateLink(ctx, link, changes); err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			log.Info("link deleted during enrichment, skipping")
			return "skipped"
		}
		log.Error("failed to store enrichment result", "error", err)
		return "failed"
	}

	log.Info("link enriched", "url", link.URL)
	return "enriched"
}

// extract produces the link changes for a URL, preferring the social-post
// path for recognized post URLs and falling back to a plain page fetch.
func (w *Worker) extract(ctx context.Context, url string) (map[string]any, error) {
	if postID := ParsePostID(url); postID != "" && w.social != nil && w.social.Enabled() {
		changes, err := w.extractPost(ctx, postID)
		if err == nil {
			return changes, nil
		}
		slog.Warn("post unfurling failed, falling back to page fetch", "url", url, "error", err)
	}

	body, err := w.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return ExtractMetadata(body).Changes(), nil
}

// extractPost unfurls a social post into a title and a description
// holding the full thread text.
func (w *Worker) extractPost(ctx context.Context, postID string) (map[string]any, error) {
	post, err := w.social.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("post %s not found", postID)
	}

	thread := w.social.ExpandThread(ctx, post)
	texts := make([]string, 0, len(thread))
	for _, p := range thread {
		texts = append(texts, p.Text)
	}

	title := "Post by @" + post.AuthorHandle
	if post.AuthorHandle == "" {
		title = "Social post " + post.ID
	}

	return map[string]any{
		"title":       title,
		"description": strings.Join(texts, "\n\n"),
	}, nil
}
