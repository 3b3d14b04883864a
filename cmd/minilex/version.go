package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"minilex/internal/version"
)

type versionOptions struct {
	format   string
	showHash bool
	showDate bool
	colored  bool
}

type versionPayload struct {
	Tool string `json:"tool"`
	version.Info
}

func newVersionCmd() *cobra.Command {
	var (
		versionFormat   string
		versionShowHash bool
		versionShowDate bool
		versionShowFull bool
	)
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show minilex build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
			if err != nil {
				return fmt.Errorf("failed to get color flag: %w", err)
			}
			colored, err := resolveColor(colorFlag, os.Stdout)
			if err != nil {
				return err
			}
			opts := versionOptions{
				format:   strings.ToLower(versionFormat),
				showHash: versionShowHash || versionShowFull,
				showDate: versionShowDate || versionShowFull,
				colored:  colored,
			}

			switch opts.format {
			case "pretty":
				renderVersionPretty(cmd.OutOrStdout(), version.Current(), opts)
				return nil
			case "json":
				return renderVersionJSON(cmd.OutOrStdout(), version.Current(), opts)
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
			}
		},
	}
	versionCmd.Flags().BoolVar(&versionShowHash, "hash", false, "include git commit hash")
	versionCmd.Flags().BoolVar(&versionShowDate, "date", false, "include build timestamp")
	versionCmd.Flags().BoolVar(&versionShowFull, "full", false, "show all recorded build metadata")
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
	return versionCmd
}

func renderVersionPretty(out io.Writer, info version.Info, opts versionOptions) {
	fmt.Fprintf(out, "minilex %s\n", version.Render(opts.colored))
	if opts.showHash {
		fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(info.GitCommit))
	}
	if opts.showDate {
		fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(info.BuildDate))
	}
}

func renderVersionJSON(out io.Writer, info version.Info, opts versionOptions) error {
	payload := versionPayload{Tool: "minilex", Info: version.Info{Version: info.Version}}
	if opts.showHash {
		payload.GitCommit = valueOrUnknown(info.GitCommit)
	}
	if opts.showDate {
		payload.BuildDate = valueOrUnknown(info.BuildDate)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(v string) string {
	if strings.TrimSpace(v) == "" {
		return "unknown"
	}
	return v
}
