package main

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show CLI version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, meta := resolveVersion(debug.ReadBuildInfo)
			if short, _ := cmd.Flags().GetBool("short"); short {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), v)
				return err
			}
			if meta != "" {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "pgexplain %s (%s)\n", v, meta)
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "pgexplain %s\n", v)
			return err
		},
	}
	cmd.Flags().Bool("short", false, "Print only the version number")
	return cmd
}

// resolveVersion prefers the linker-set version, then the module version, and
// describes the VCS state recorded at build time.
func resolveVersion(readBuildInfo func() (*debug.BuildInfo, bool)) (string, string) {
	v := strings.TrimSpace(version)
	if v == "" {
		v = "dev"
	}

	var commit, buildTime, goVersion string
	var dirty bool
	if info, ok := readBuildInfo(); ok && info != nil {
		if (v == "dev" || v == "(devel)") &&
			info.Main.Version != "" &&
			info.Main.Version != "(devel)" &&
			!strings.HasPrefix(info.Main.Version, "v0.0.0-") {
			v = info.Main.Version
		}
		goVersion = info.GoVersion
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				commit = setting.Value
			case "vcs.time":
				buildTime = setting.Value
			case "vcs.modified":
				dirty = setting.Value == "true"
			}
		}
	}

	var details []string
	if commit != "" {
		short := commit
		if len(short) > 12 {
			short = short[:12]
		}
		if dirty {
			short += "*"
		}
		details = append(details, "commit "+short)
	}
	if buildTime != "" {
		details = append(details, "built "+buildTime)
	}
	if goVersion != "" {
		details = append(details, goVersion)
	}

	return v, strings.Join(details, ", ")
}
