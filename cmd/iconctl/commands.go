package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ankek/terraform-provider-iconset/internal/manifest"
	"github.com/ankek/terraform-provider-iconset/internal/renderer"
)

func newAddCmd(flags *globalFlags) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add <file|url>",
		Short: "Upload an SVG icon",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			f, err := a.opener.Open(ctx, args[0])
			if err != nil {
				return err
			}
			rec, err := a.svc.AddIcon(ctx, f, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s %s\n", rec.ID, rec.Name)
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "icon name (default: derived from the file name)")
	return cmd
}

func newListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered icons in upload order",
		Args:  cobra.NoArgs,
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			recs, err := a.svc.Icons(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tUPLOADED")
			for _, rec := range recs {
				fmt.Fprintf(w, "%s\t%s\t%s\n", rec.ID, rec.Name, rec.UploadedAt.UTC().Format(time.RFC3339))
			}
			return w.Flush()
		}),
	}
}

func newRemoveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an icon by id",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			if err := a.svc.RemoveIcon(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		}),
	}
}

func newClearCmd(flags *globalFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every icon",
		Long:  "Remove every icon from the registry. Asks for confirmation unless --yes is given.",
		Args:  cobra.NoArgs,
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			recs, err := a.svc.Icons(ctx)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "registry is already empty")
				return nil
			}
			if !yes && !confirm(cmd, fmt.Sprintf("Remove all %d icons? [y/N] ", len(recs))) {
				fmt.Fprintln(cmd.OutOrStdout(), "aborted")
				return nil
			}
			if err := a.svc.ClearAll(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d icons\n", len(recs))
			return nil
		}),
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}

// confirm asks prompt on the command's output and reads a y/yes answer.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func newRenderCmd(flags *globalFlags) *cobra.Command {
	var (
		size       string
		sizePx     float64
		variant    string
		color      string
		noAdaptive bool
		asPNG      bool
		paint      string
		out        string
	)
	cmd := &cobra.Command{
		Use:   "render <name>",
		Short: "Render a custom or built-in icon",
		Long: `Render a registered icon, or the built-in icon of the same name, as inline
SVG (default) or PNG. Unknown or unrenderable icons produce the placeholder
glyph at the requested size.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			parsed, err := renderer.ParseSize(size)
			if err != nil {
				return err
			}
			opts := renderer.DefaultOptions()
			opts.Size = parsed
			opts.SizePx = sizePx
			if variant != "" {
				opts.Variant = variant
			}
			opts.CustomColor = color
			opts.AdaptiveColors = !noAdaptive

			d := a.renderer.RenderNamed(ctx, args[0], opts)
			if d.Fallback {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %q rendered as placeholder\n", args[0])
			}

			format := renderer.FormatSVG
			if asPNG {
				format = renderer.FormatPNG
			}
			if out != "" {
				if err := a.renderer.Export(ctx, d, out, format, paint); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
				return nil
			}

			data, err := a.renderer.Encode(d, format, paint)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				return err
			}
			if format == renderer.FormatSVG {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&size, "size", string(renderer.SizeMD), fmt.Sprintf("named size %v", renderer.SizeNames()))
	cmd.Flags().Float64Var(&sizePx, "size-px", 0, "explicit pixel size, overrides --size")
	cmd.Flags().StringVar(&variant, "variant", renderer.DefaultVariant, "color token variant")
	cmd.Flags().StringVar(&color, "color", "", "custom CSS color, overrides the variant")
	cmd.Flags().BoolVar(&noAdaptive, "no-adaptive", false, "inherit the color instead of following the variant token")
	cmd.Flags().BoolVar(&asPNG, "png", false, "render a PNG instead of SVG")
	cmd.Flags().StringVar(&paint, "paint", renderer.DefaultPaint, "concrete color for currentColor in PNG output")
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

func newImportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <manifest.hcl>",
		Short: "Import the icons listed in an HCL manifest",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			entries, err := manifest.ParseFile(args[0])
			if err != nil {
				return err
			}
			report := manifest.Import(ctx, a.svc, a.opener, entries)
			for _, rec := range report.Added {
				fmt.Fprintf(cmd.OutOrStdout(), "added %s %s\n", rec.ID, rec.Name)
			}
			for _, f := range report.Failed {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed %s: %v\n", f.Entry.Name, f.Err)
			}
			if len(report.Failed) > 0 {
				return fmt.Errorf("%d of %d icons failed to import", len(report.Failed), len(entries))
			}
			return nil
		}),
	}
}

func newBuiltinsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "builtins",
		Short: "List the built-in icons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range renderer.Builtins() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
