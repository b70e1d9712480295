package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ponyseeo/internal/formatter"
	"github.com/urfave/cli/v3"
)

// Videos lists the stored account's videos in the requested format.
func (r *Runner) Videos(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	ts, err := r.tokenSource(ctx)
	if err != nil {
		return err
	}

	r.logger.Debug("fetching videos", "strategy", r.media.Name())

	videos, err := r.media.Videos(ctx, ts)
	if err != nil {
		return fmt.Errorf("failed to load videos: %w", err)
	}

	if limit := int(cmd.Int("limit")); limit > 0 && limit < len(videos) {
		videos = videos[:limit]
	}

	if output := cmd.String("output"); output != "" {
		if err := formatter.WriteExport(videos, format, output); err != nil {
			return err
		}
		r.logger.Info("videos exported", "file", output, "count", len(videos))
		return r.writePlain("✓ Exported %d videos to %s\n", len(videos), output)
	}

	data, err := formatter.Export(videos, format)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}
