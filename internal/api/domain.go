package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/certtrack/internal/certificates"
	"github.com/JaimeStill/certtrack/internal/contacts"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Certificates certificates.System
	Contacts     contacts.System

	certificateKey string
	logger         *slog.Logger
}

// NewDomain creates all domain systems from the API runtime. clock is shared
// by certificate classification and contact date defaulting; nil uses
// time.Now.
func NewDomain(runtime *Runtime, clock func() time.Time) *Domain {
	format := runtime.Tracker.Format()

	loader := certificates.NewLoader(
		runtime.Tracker.LoaderConfig(),
		nil,
		clock,
	)

	return &Domain{
		Certificates: certificates.New(
			loader,
			runtime.Storage,
			runtime.Logger,
			runtime.Pagination,
			format,
		),
		Contacts: contacts.New(
			runtime.Storage,
			runtime.Tracker.ContactLogKey,
			format,
			clock,
			runtime.Logger,
		),
		certificateKey: runtime.Tracker.CertificateKey,
		logger:         runtime.Logger.With("system", "bootstrap"),
	}
}

// Bootstrap loads the configured certificate source and opens the shared
// contact log concurrently. A missing or unreadable certificate source leaves
// the table empty until one is uploaded. The contact log must open: starting
// from an empty log would overwrite the shared one on the next persist.
func (d *Domain) Bootstrap(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if d.certificateKey == "" {
			d.logger.Info("no certificate source configured")
			return nil
		}

		_, err := d.Certificates.Open(ctx, d.certificateKey)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, certificates.ErrNoSource), errors.Is(err, certificates.ErrUnreadable):
			d.logger.Warn("certificate source not loaded", "key", d.certificateKey, "error", err)
			return nil
		default:
			return fmt.Errorf("load certificates: %w", err)
		}
	})

	g.Go(func() error {
		if _, err := d.Contacts.Open(ctx); err != nil {
			return fmt.Errorf("open contact log: %w", err)
		}
		return nil
	})

	return g.Wait()
}
