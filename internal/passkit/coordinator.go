package passkit

// coordinator.go orchestrates pass mutations: persist content under a fresh
// version stamp, rebuild and sign the bundle, then notify every registered
// device. The ordering invariant is that the bundle store is current before
// any push hint goes out, so a device acting on the hint always finds the
// bundle matching the stamp it will be told about.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// casRetryLimit bounds the optimistic-concurrency retry loop for version
// allocation under concurrent updates to the same serial.
const casRetryLimit = 5

// Coordinator applies pass mutations and fans out update notifications.
type Coordinator struct {
	passes     PassStore
	regs       RegistrationStore
	bundles    BundleStore
	templates  TemplateSource
	signer     Signer
	dispatcher Dispatcher

	passTypeID    string
	webServiceURL string
	concurrency   int
	logger        *slog.Logger

	// now is replaceable in tests to exercise clock-skew behavior.
	now func() time.Time
}

// CoordinatorConfig wires a Coordinator.
type CoordinatorConfig struct {
	Passes        PassStore
	Registrations RegistrationStore
	Bundles       BundleStore
	Templates     TemplateSource
	Signer        Signer
	Dispatcher    Dispatcher
	PassTypeID    string
	WebServiceURL string
	Concurrency   int
	Logger        *slog.Logger
}

// NewCoordinator creates an update coordinator.
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	l := cfg.Logger
	if l == nil {
		l = slog.Default()
	}
	return &Coordinator{
		passes:        cfg.Passes,
		regs:          cfg.Registrations,
		bundles:       cfg.Bundles,
		templates:     cfg.Templates,
		signer:        cfg.Signer,
		dispatcher:    cfg.Dispatcher,
		passTypeID:    cfg.PassTypeID,
		webServiceURL: cfg.WebServiceURL,
		concurrency:   concurrency,
		logger:        l,
		now:           time.Now,
	}
}

// Issue creates a new pass: fresh serial and credential, first bundle built
// and stored, durable record persisted, all stamped with the creation
// version.
func (c *Coordinator) Issue(ctx context.Context, email string, content json.RawMessage) (Pass, error) {
	token, err := newAuthToken()
	if err != nil {
		return Pass{}, WrapInternalError(err, "failed to generate auth token")
	}

	pass := Pass{
		Serial:      uuid.NewString(),
		PassTypeID:  c.passTypeID,
		AuthToken:   token,
		Email:       email,
		Content:     content,
		Version:     c.now().UnixMilli(),
		EmailStatus: EmailStatusPending,
	}

	fs, err := c.buildAndStoreBundle(ctx, pass)
	if err != nil {
		return Pass{}, err
	}
	// Persist the patched descriptor so reads of the logical content match
	// what the bundle actually carries.
	pass.Content = fs.Files[fs.DescriptorName]

	if err := c.passes.CreatePass(ctx, pass); err != nil {
		return Pass{}, WrapDependencyError(err, "failed to persist pass record")
	}

	c.logger.Info("pass issued",
		slog.String("serial", pass.Serial),
		slog.Int64("version", pass.Version))
	return pass, nil
}

// ApplyUpdate persists new content for serial under a strictly newer
// version stamp, rebuilds the signed bundle, and notifies every registered
// device. It returns the allocated version.
//
// Once the version write commits, a bundle rebuild failure is surfaced to
// the caller rather than rolled back: the store is then one version ahead
// of the bundle, which readers tolerate (they serve the previous bundle
// tagged with the previous version, so no poll is wrongly told
// not-modified). The reverse — a bundle newer than the stored version —
// never happens.
func (c *Coordinator) ApplyUpdate(ctx context.Context, serial string, content json.RawMessage) (int64, error) {
	var pass Pass
	var newVersion int64

	for attempt := 0; ; attempt++ {
		var err error
		pass, err = c.passes.GetPass(ctx, serial)
		if err != nil {
			return 0, err
		}

		// Strictly monotonic even under clock skew or several updates
		// inside the same millisecond.
		newVersion = c.now().UnixMilli()
		if newVersion <= pass.Version {
			newVersion = pass.Version + 1
		}

		ok, err := c.passes.UpdatePassContent(ctx, serial, content, newVersion, pass.Version)
		if err != nil {
			return 0, WrapDependencyError(err, "failed to persist pass update")
		}
		if ok {
			break
		}
		if attempt+1 >= casRetryLimit {
			return 0, NewDependencyError("pass update contention retry limit reached")
		}
	}

	pass.Content = content
	pass.Version = newVersion

	if _, err := c.buildAndStoreBundle(ctx, pass); err != nil {
		// Version advanced but the bundle did not. Recognized failure
		// window: the caller retries the update; readers keep serving the
		// prior bundle under the prior stamp.
		c.logger.Error("bundle rebuild failed after version advance",
			slog.String("serial", serial),
			slog.Int64("version", newVersion),
			slog.String("error", err.Error()))
		return 0, err
	}

	c.notifyRegistrations(ctx, serial, newVersion)

	c.logger.Info("pass updated",
		slog.String("serial", serial),
		slog.Int64("version", newVersion))
	return newVersion, nil
}

// RebuildBundle regenerates and stores the bundle from the currently
// persisted content without touching the version stamp. Used to recover
// from a failed rebuild window and by operator tooling.
func (c *Coordinator) RebuildBundle(ctx context.Context, serial string) error {
	pass, err := c.passes.GetPass(ctx, serial)
	if err != nil {
		return err
	}
	_, err = c.buildAndStoreBundle(ctx, pass)
	return err
}

// buildAndStoreBundle runs the build/sign/store pipeline for one pass. On
// any failure nothing is uploaded and the previous bundle stays
// authoritative.
func (c *Coordinator) buildAndStoreBundle(ctx context.Context, pass Pass) (*FileSet, error) {
	tpl, err := c.templates.TemplateSet(ctx)
	if err != nil {
		return nil, WrapDependencyError(err, "failed to load template assets")
	}

	fs, err := BuildFileSet(BuildInput{
		Template:      tpl,
		Content:       pass.Content,
		Serial:        pass.Serial,
		AuthToken:     pass.AuthToken,
		WebServiceURL: c.webServiceURL,
	})
	if err != nil {
		return nil, err
	}

	signature, err := c.signer.SignManifest(ctx, fs.Manifest)
	if err != nil {
		return nil, WrapDependencyError(err, "signing gateway failed")
	}

	bundle, err := AssembleBundle(fs, signature)
	if err != nil {
		return nil, err
	}

	if err := c.bundles.PutBundle(ctx, pass.Serial, bundle); err != nil {
		return nil, WrapDependencyError(err, "failed to store bundle")
	}
	return fs, nil
}

// notifyRegistrations fans out push hints to every device registered for
// serial and records the new ack version for each successful dispatch.
// Failures are isolated per registration and never fail the update.
func (c *Coordinator) notifyRegistrations(ctx context.Context, serial string, version int64) {
	regs, err := c.regs.ListForSerial(ctx, serial)
	if err != nil {
		c.logger.Error("failed to enumerate registrations for fan-out",
			slog.String("serial", serial),
			slog.String("error", err.Error()))
		return
	}
	if len(regs) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for _, reg := range regs {
		g.Go(func() error {
			if err := c.dispatcher.Dispatch(gctx, reg); err != nil {
				if errors.Is(err, ErrUnregisteredDevice) {
					// The device uninstalled the pass; drop the dead
					// registration so future updates skip it.
					if delErr := c.regs.Delete(gctx, reg.DeviceLibraryID, reg.Serial); delErr != nil {
						c.logger.Warn("failed to remove dead registration",
							slog.String("serial", reg.Serial),
							slog.String("device", reg.DeviceLibraryID),
							slog.String("error", delErr.Error()))
					}
					return nil
				}
				c.logger.Warn("push dispatch failed",
					slog.String("serial", reg.Serial),
					slog.String("device", reg.DeviceLibraryID),
					slog.String("error", WrapDispatchError(err, "push hint not delivered").Error()))
				return nil
			}

			if err := c.regs.SetAckVersion(gctx, reg.DeviceLibraryID, reg.Serial, version); err != nil {
				c.logger.Warn("failed to record ack version",
					slog.String("serial", reg.Serial),
					slog.String("device", reg.DeviceLibraryID),
					slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Group funcs never return errors; Wait only joins the fan-out.
	_ = g.Wait()
}

// newAuthToken returns a fresh 16-byte URL-safe credential.
func newAuthToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}
