package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reelmatch/internal/artifact"
	"reelmatch/internal/config"
	"reelmatch/internal/fileutil"
	"reelmatch/internal/services"
)

func newArtifactsCommand(ctx *commandContext) *cobra.Command {
	artifactsCmd := &cobra.Command{
		Use:   "artifacts",
		Short: "Inspect and package the catalog and similarity artifacts",
	}
	artifactsCmd.AddCommand(newArtifactsVerifyCommand(ctx))
	artifactsCmd.AddCommand(newArtifactsPackCommand(ctx))
	return artifactsCmd
}

type artifactFile struct {
	Role   string `json:"role"`
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
}

type artifactReport struct {
	Items     int            `json:"items"`
	Dimension int            `json:"dimension"`
	NonFinite int            `json:"nonFinite"`
	Files     []artifactFile `json:"files"`
}

func newArtifactsVerifyCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var refresh bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Load the configured artifacts and report their shape and digests",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.openSession(cmd.Context(), sessionOptions{refresh: refresh})
			if err != nil {
				return err
			}

			report := artifactReport{
				Items:     sess.set.Catalog.Len(),
				Dimension: sess.set.Matrix.Dim(),
				NonFinite: sess.set.Matrix.NonFinite(),
			}
			for _, entry := range []struct{ role, path string }{
				{"bundle", sess.set.Sources.Bundle},
				{"catalog", sess.set.Sources.Catalog},
				{"similarity", sess.set.Sources.Similarity},
			} {
				if entry.path == "" {
					continue
				}
				digest, err := fileutil.SHA256File(entry.path)
				if err != nil {
					return services.Wrap(services.ErrArtifact, "artifact", "digest", entry.path, err)
				}
				report.Files = append(report.Files, artifactFile{Role: entry.role, Path: entry.path, SHA256: digest})
			}

			if jsonOutput {
				return writeJSON(cmd, report)
			}
			out := cmd.OutOrStdout()
			color := isTerminal(cmd)
			rows := [][]string{
				{"Items", strconv.Itoa(report.Items)},
				{"Dimension", strconv.Itoa(report.Dimension)},
				{"Non-finite scores", strconv.Itoa(report.NonFinite)},
			}
			for _, file := range report.Files {
				rows = append(rows, []string{file.Role, file.Path + "\n" + file.SHA256})
			}
			fmt.Fprintln(out, renderTable([]column{{header: "Check"}, {header: "Value"}}, rows, color))
			if report.NonFinite > 0 {
				fmt.Fprintln(out, warningLine(fmt.Sprintf("%d similarity scores are NaN or infinite and will rank last", report.NonFinite), color))
			}
			fmt.Fprintln(out, "Artifacts valid")
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Re-download remote artifacts even when cached")
	return cmd
}

func newArtifactsPackCommand(ctx *commandContext) *cobra.Command {
	var catalogPath string
	var similarityPath string
	var outPath string

	cmd := &cobra.Command{
		Use:         "pack",
		Short:       "Combine a JSON catalog and .npy matrix into one SQLite bundle",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := map[string]*string{"--catalog": &catalogPath, "--similarity": &similarityPath, "--out": &outPath}
			for _, name := range []string{"--catalog", "--similarity", "--out"} {
				value := strings.TrimSpace(*paths[name])
				if value == "" {
					return fmt.Errorf("%s is required", name)
				}
				expanded, err := config.ExpandPath(value)
				if err != nil {
					return fmt.Errorf("resolve %s: %w", name, err)
				}
				*paths[name] = expanded
			}

			c, err := artifact.ReadCatalogFile(catalogPath)
			if err != nil {
				return err
			}
			m, err := artifact.ReadNPYFile(similarityPath)
			if err != nil {
				return err
			}
			if err := artifact.WriteBundle(cmd.Context(), outPath, c, m); err != nil {
				return err
			}
			digest, err := fileutil.SHA256File(outPath)
			if err != nil {
				return fmt.Errorf("digest bundle: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote bundle with %d titles to %s\n", c.Len(), outPath)
			fmt.Fprintf(out, "sha256: %s\n", digest)
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog JSON file")
	cmd.Flags().StringVar(&similarityPath, "similarity", "", "Similarity matrix .npy file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination bundle path")
	return cmd
}
