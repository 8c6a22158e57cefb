/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package main provides the polycodec command-line tool.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spf13/cobra"

	"github.com/suparena/polycodec"
	"github.com/suparena/polycodec/config"
)

func main() {
	if err := newRootCommand(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "polycodec",
		Short:         "Polymorphic codec tools",
		SilenceUsage:  true,
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML configuration file")

	rootCmd.AddCommand(
		newVersionCommand(),
		newCheckCommand(&configPath),
		newDescribeCommand(&configPath),
	)
	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			info := polycodec.GetVersionInfo()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "polycodec version %s\n", info.Version)
			fmt.Fprintf(w, "Git commit: %s\n", info.GitCommit)
			fmt.Fprintf(w, "Build date: %s\n", info.BuildDate)
			fmt.Fprintf(w, "Go version: %s\n", info.GoVersion)
		},
	}
}

func newCheckCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and print it with credentials redacted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			rendered, err := cfg.Redacted().YAML()
			if err != nil {
				return fmt.Errorf("render config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(rendered)
			return err
		},
	}
}

func newDescribeCommand(configPath *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Decode a JSON document from stdin and write it back",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			return describe(cfg, logger, format, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or ddb")
	return cmd
}

// describe decodes one document into untyped values and writes it in the
// requested format.
func describe(cfg *config.Config, logger *slog.Logger, format string, in io.Reader, out io.Writer) error {
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	codec, err := polycodec.New(append(opts, polycodec.WithLogger(logger))...)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var doc any
	if err := codec.Unmarshal(data, &doc); err != nil {
		return err
	}

	var rendered []byte
	switch format {
	case "json":
		rendered, err = codec.Marshal(doc)
	case "ddb":
		var av types.AttributeValue
		av, err = codec.MarshalAttributeValue(doc)
		if err == nil {
			rendered, err = codec.Marshal(attributeJSON(av))
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n", rendered)
	return err
}

// attributeJSON renders an attribute value in the DynamoDB JSON layout.
func attributeJSON(av types.AttributeValue) map[string]any {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return map[string]any{"S": v.Value}
	case *types.AttributeValueMemberN:
		return map[string]any{"N": v.Value}
	case *types.AttributeValueMemberBOOL:
		return map[string]any{"BOOL": v.Value}
	case *types.AttributeValueMemberNULL:
		return map[string]any{"NULL": true}
	case *types.AttributeValueMemberL:
		items := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			items = append(items, attributeJSON(item))
		}
		return map[string]any{"L": items}
	case *types.AttributeValueMemberM:
		m := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			m[k] = attributeJSON(item)
		}
		return map[string]any{"M": m}
	case *types.AttributeValueMemberSS:
		return map[string]any{"SS": v.Value}
	case *types.AttributeValueMemberNS:
		return map[string]any{"NS": v.Value}
	default:
		return map[string]any{"?": fmt.Sprintf("%T", av)}
	}
}
