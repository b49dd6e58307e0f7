// Command probe lists the tracks waveform would build from its arguments,
// without opening an audio device.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/llehouerou/waveform/internal/playlist"
)

func main() {
	cmd := &cobra.Command{
		Use:          "probe [files|dirs|urls...]",
		Short:        "List the tracks found in files, directories and URLs",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args, cmd.OutOrStdout())
		},
	}
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	tracks, err := playlist.Collect(args...)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		_, err := fmt.Fprintln(out, "No playable tracks found.")
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Title", "Artist", "Album", "Format", "Size", "ID"})

	var total uint64
	for i, tr := range tracks {
		size := "-"
		if p := tr.LocalPath(); p != "" {
			if info, err := os.Stat(p); err == nil {
				total += uint64(info.Size()) //nolint:gosec // file sizes are non-negative
				size = humanize.Bytes(uint64(info.Size()))
			}
		}
		t.AppendRow(table.Row{
			i + 1,
			tr.Title,
			tr.Artist,
			tr.Album,
			strings.TrimPrefix(playlist.Ext(tr.URL), "."),
			size,
			shortID(tr.ID),
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d tracks", len(tracks)), "", "", "", humanize.Bytes(total), ""})
	t.Render()
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
