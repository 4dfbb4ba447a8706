package main

import (
	"context"
	"time"

	"github.com/desertthunder/vowfolio/internal/formatter"
	"github.com/urfave/cli/v3"
)

// Export writes the whole gallery tree to a file in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	ws, err := r.open(ctx)
	if err != nil {
		return err
	}

	export := formatter.NewGalleryExport(ws.adapter.Store(), time.Now())
	path, err := formatter.WriteExport(export, format, cmd.String("output"))
	if err != nil {
		return err
	}

	albums, images := export.Counts()
	r.logger.Info("gallery exported", "path", path, "format", format)
	return r.writePlain("✓ Exported %d categories, %d albums, %d images and %d hero images to %s\n",
		len(export.Categories), albums, images, len(export.HeroImages), path)
}
