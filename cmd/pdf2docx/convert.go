package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"pdf2docx/internal/convert"
	"pdf2docx/internal/docx"
	"pdf2docx/internal/extract"
)

func newConvertCmd() *cobra.Command {
	var (
		output  string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "convert <file.pdf>",
		Short: "Convert a PDF file to .docx",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if output == "" {
				output = defaultOutput(input)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			n, err := convertFile(ctx, input, output, timeout)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d bytes)\n", input, output, n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: input name with .docx)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "extraction timeout (0 disables)")
	return cmd
}

func convertFile(ctx context.Context, input, output string, timeout time.Duration) (int, error) {
	data, err := afero.ReadFile(fs, input)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", input, err)
	}
	svc := convert.NewService(convert.Config{}, extract.NewPDFExtractor(timeout), docx.NewBuilder())
	res, err := svc.ConvertBytes(ctx, data, titleOf(input))
	if err != nil {
		return 0, err
	}
	if err := afero.WriteFile(fs, output, res.Document, 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", output, err)
	}
	return len(res.Document), nil
}

func defaultOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".docx"
}

func titleOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
