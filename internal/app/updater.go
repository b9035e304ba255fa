package app

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/five82/backdrop/internal/command"
	"github.com/five82/backdrop/internal/state"
	"github.com/five82/backdrop/internal/unsplash"
	"github.com/five82/backdrop/internal/wallpaper"
)

// Outcome is what one update attempt produced. Reported carries the
// service's remaining-quota header and may be set even when the update
// failed.
type Outcome struct {
	Reported  string
	Wallpaper state.Wallpaper
}

// Updater fetches, stores and applies one new wallpaper.
type Updater interface {
	Update(ctx context.Context, trigger command.Trigger) (Outcome, error)
}

// Saver copies the current wallpaper into the saved directory.
type Saver interface {
	SaveCurrent() (string, error)
}

// WallpaperUpdater is the production Updater.
type WallpaperUpdater struct {
	Fetcher  unsplash.PhotoFetcher
	Store    *wallpaper.Store
	Setter   wallpaper.Setter
	Queries  unsplash.QueryPicker
	SaveEach bool
	Logger   *zap.Logger
}

// Update runs fetch, download and set in order. The previous wallpaper stays
// in place when any step fails.
func (u *WallpaperUpdater) Update(ctx context.Context, trigger command.Trigger) (Outcome, error) {
	logger := u.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	query := u.Queries.Next()
	photo, limits, err := u.Fetcher.RandomPhoto(ctx, query)
	out := Outcome{Reported: limits.Remaining}
	if err != nil {
		return out, fmt.Errorf("fetch photo for %q: %w", query, err)
	}

	meta := wallpaper.Meta{
		PhotoID:      photo.ID,
		Title:        photo.Title(),
		SourceURL:    photo.ImageURL(),
		PageURL:      photo.Links.HTML,
		Photographer: photo.User.Name,
	}
	path, err := u.Store.Write(meta, func(w io.Writer) (int64, error) {
		return u.Fetcher.Download(ctx, photo.ImageURL(), w)
	})
	if err != nil {
		return out, fmt.Errorf("store wallpaper: %w", err)
	}
	if err := u.Setter.SetWallpaper(ctx, path); err != nil {
		return out, err
	}

	current, _ := u.Store.Current()
	logger.Info("wallpaper updated",
		zap.String("title", meta.Title),
		zap.String("photographer", meta.Photographer),
		zap.String("query", query),
		zap.String("size", humanize.Bytes(uint64(current.Bytes))),
		zap.String("trigger", string(trigger)),
	)

	if u.SaveEach {
		if saved, err := u.Store.SaveCurrent(); err != nil {
			logger.Warn("could not save downloaded wallpaper", zap.Error(err))
		} else {
			logger.Info("wallpaper saved", zap.String("path", saved))
		}
	}

	out.Wallpaper = state.Wallpaper{
		Title:        meta.Title,
		Photographer: meta.Photographer,
		PageURL:      meta.PageURL,
		Path:         path,
		Query:        query,
		Bytes:        current.Bytes,
		Trigger:      trigger,
		SetAt:        current.FetchedAt,
	}
	return out, nil
}
