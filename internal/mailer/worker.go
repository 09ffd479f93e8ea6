package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/walletpass/passd/internal/passkit"
)

const mailSubject = "Your pass is ready"

// BundlePresigner issues a time-limited download URL for a serial's
// bundle. Satisfied by blob.BundleArchive.
type BundlePresigner interface {
	PresignBundle(ctx context.Context, serial string, ttl time.Duration) (string, error)
}

// Worker consumes mail jobs: presign the bundle, send the link, mark the
// pass queued. Failed jobs are left unsettled for redelivery.
type Worker struct {
	source  Source
	sender  Sender
	bundles BundlePresigner
	passes  passkit.PassStore
	linkTTL time.Duration
	logger  *slog.Logger
}

// NewWorker wires a mail worker.
func NewWorker(source Source, sender Sender, bundles BundlePresigner, passes passkit.PassStore, linkTTL time.Duration, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		source:  source,
		sender:  sender,
		bundles: bundles,
		passes:  passes,
		linkTTL: linkTTL,
		logger:  logger,
	}
}

// Run consumes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msgs, err := w.source.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Error("failed to receive mail jobs", slog.String("error", err.Error()))
			time.Sleep(5 * time.Second)
			continue
		}

		for _, msg := range msgs {
			if err := w.Process(ctx, msg.Job); err != nil {
				w.logger.Error("mail job failed, leaving for redelivery",
					slog.String("serial", msg.Job.Serial),
					slog.String("error", err.Error()))
				continue
			}
			if err := w.source.Delete(ctx, msg.Handle); err != nil {
				w.logger.Warn("failed to settle mail job",
					slog.String("serial", msg.Job.Serial),
					slog.String("error", err.Error()))
			}
		}
	}
}

// Process handles a single job.
func (w *Worker) Process(ctx context.Context, job Job) error {
	url, err := w.bundles.PresignBundle(ctx, job.Serial, w.linkTTL)
	if err != nil {
		return fmt.Errorf("failed to presign bundle link: %w", err)
	}

	body := fmt.Sprintf(
		"<p>Hi there,</p>"+
			"<p>Your pass is ready! <a href=%q>Click here to download and install it.</a></p>"+
			"<p>This link expires in %s.</p>",
		url, w.linkTTL)

	if err := w.sender.Send(ctx, job.Email, mailSubject, body); err != nil {
		return err
	}

	if err := w.passes.SetEmailStatus(ctx, job.Serial, passkit.EmailStatusQueued); err != nil {
		// Mail went out; the status tag is informational only.
		w.logger.Warn("failed to update email status",
			slog.String("serial", job.Serial),
			slog.String("error", err.Error()))
	}

	w.logger.Info("pass mail sent",
		slog.String("serial", job.Serial))
	return nil
}
