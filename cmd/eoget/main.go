// Command eoget requests composited satellite imagery over a bounded region
// from a remote earth-observation service: synchronous per-band downloads for
// local destinations, fire-and-forget export tasks for bucket and drive
// destinations, and remotely rendered JPEG previews.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/example/go-eoget/eo"
	"github.com/example/go-eoget/eo/bucket"
	"github.com/example/go-eoget/eo/composite"
	"github.com/example/go-eoget/eo/download"
	"github.com/example/go-eoget/eo/region"
)

func main() {
	// Credentials may live in a .env next to the binary; absence is fine.
	_ = godotenv.Load()

	root := &cli.Command{
		Name:    "eoget",
		Usage:   "Request, download, and render composited satellite imagery for a bounded region",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "token",
				Usage:   "Bearer token for authenticated requests",
				Sources: cli.EnvVars("EO_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "Override the imagery service base URL",
				Sources: cli.EnvVars("EO_BASE_URL"),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "HTTP timeout for service calls",
				Value: 30 * time.Second,
			},
		},
		Commands: []*cli.Command{
			newExportCommand(),
			newThumbCommand(),
			newTaskCommand(),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func regionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.FloatFlag{
			Name:     "lon",
			Usage:    "Center longitude in degrees",
			Required: true,
		},
		&cli.FloatFlag{
			Name:     "lat",
			Usage:    "Center latitude in degrees",
			Required: true,
		},
		&cli.FloatFlag{
			Name:  "gsd",
			Usage: "Ground sample distance in meters per pixel",
			Value: 30,
		},
		&cli.IntFlag{
			Name:  "pixels",
			Usage: "Output width and height in pixels",
			Value: 224,
		},
		&cli.IntFlag{
			Name:  "vertices",
			Usage: "Vertex count for the buffer circle approximation",
			Value: region.DefaultVertexCount,
		},
		&cli.StringFlag{
			Name:     "collection",
			Usage:    "Source image collection identifier",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "start",
			Usage: "Compositing window start (RFC3339)",
		},
		&cli.StringFlag{
			Name:  "end",
			Usage: "Compositing window end (RFC3339)",
		},
		&cli.StringFlag{
			Name:  "reducer",
			Usage: "Temporal reducer (mean, median, min, max)",
			Value: "mean",
		},
		&cli.BoolFlag{
			Name:  "cloud-mask",
			Usage: "Mask cloud and snow pixels before compositing",
		},
		&cli.FloatFlag{
			Name:  "max-cloud-cover",
			Usage: "Discard scenes above this cloud cover percentage",
			Value: -1,
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "Artifact base name",
			Value: "composite",
		},
	}
}

func newExportCommand() *cli.Command {
	flags := append(regionFlags(),
		&cli.StringFlag{
			Name:  "dest",
			Usage: "Destination: local, cloud, or drive",
			Value: "local",
		},
		&cli.StringFlag{
			Name:  "dir",
			Usage: "Output directory for the local destination",
			Value: ".",
		},
		&cli.StringFlag{
			Name:  "bucket",
			Usage: "Bucket name for the cloud destination",
		},
		&cli.StringFlag{
			Name:  "prefix",
			Usage: "Object key prefix for the cloud destination",
		},
		&cli.StringFlag{
			Name:  "folder",
			Usage: "Folder name for the drive destination",
		},
	)
	return &cli.Command{
		Name:   "export",
		Usage:  "Request a composite image over the region and deliver it to the chosen destination",
		Flags:  flags,
		Action: executeExport,
	}
}

func executeExport(ctx context.Context, cmd *cli.Command) error {
	req, rule, err := buildRequestAndRule(cmd)
	if err != nil {
		return err
	}

	client, err := buildClient(cmd)
	if err != nil {
		return err
	}

	progress := func(p download.Progress) {
		if p.Total > 0 {
			fmt.Fprintf(os.Stderr, "\rdownloading archive: %d/%d bytes", p.Downloaded, p.Total)
		}
	}

	result, err := client.FetchComposite(ctx, req, rule, eo.WithProgress(progress))
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if result.Task != nil {
		fmt.Fprintf(os.Stdout, "Export task submitted: %s\n", result.Task.ID())
		fmt.Fprintln(os.Stdout, "Query its progress with: eoget task status", result.Task.ID())
		return nil
	}

	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stdout, "Extracted %d band file(s):\n", len(result.BandFiles))
	for _, f := range result.BandFiles {
		fmt.Fprintln(os.Stdout, " ", f)
	}
	return nil
}

func newThumbCommand() *cli.Command {
	flags := append(regionFlags(),
		&cli.StringSliceFlag{
			Name:  "band",
			Usage: "Band mapped to an output channel (repeatable, up to three)",
		},
		&cli.FloatFlag{
			Name:  "min",
			Usage: "Lower bound of the visualization value range",
		},
		&cli.FloatFlag{
			Name:  "max",
			Usage: "Upper bound of the visualization value range",
			Value: 3000,
		},
		&cli.FloatFlag{
			Name:  "gamma",
			Usage: "Gamma correction applied by the renderer",
			Value: 1.4,
		},
		&cli.StringFlag{
			Name:  "dir",
			Usage: "Directory for the JPEG artifact",
			Value: ".",
		},
	)
	return &cli.Command{
		Name:   "thumb",
		Usage:  "Render a JPEG preview of the composite over the region",
		Flags:  flags,
		Action: executeThumb,
	}
}

func executeThumb(ctx context.Context, cmd *cli.Command) error {
	req, rule, err := buildRequestAndRule(cmd)
	if err != nil {
		return err
	}

	client, err := buildClient(cmd)
	if err != nil {
		return err
	}

	vis := eo.DefaultVisParams()
	if bands := trimStrings(cmd.StringSlice("band")); len(bands) > 0 {
		vis.Bands = bands
	}
	vis.Min = cmd.Float("min")
	vis.Max = cmd.Float("max")
	vis.Gamma = cmd.Float("gamma")

	dest, err := client.Thumbnail(ctx, req, rule, vis, cmd.String("dir"))
	if err != nil {
		return fmt.Errorf("thumb: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", dest)
	return nil
}

func newTaskCommand() *cli.Command {
	return &cli.Command{
		Name:  "task",
		Usage: "Inspect and retrieve asynchronous export tasks",
		Commands: []*cli.Command{
			{
				Name:      "status",
				Usage:     "Print the state of an export task",
				ArgsUsage: "<task-id>",
				Action:    executeTaskStatus,
			},
			{
				Name:  "fetch",
				Usage: "Download a completed bucket export to a local file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "bucket",
						Usage:    "Bucket the export task wrote to",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Object key prefix used by the export task",
					},
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Artifact base name used by the export task",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "Local destination path (defaults to <name>.tif)",
					},
					&cli.StringFlag{
						Name:    "region",
						Usage:   "Bucket region",
						Sources: cli.EnvVars("AWS_REGION"),
					},
					&cli.StringFlag{
						Name:    "access-key",
						Usage:   "Access key for the bucket",
						Sources: cli.EnvVars("AWS_ACCESS_KEY_ID"),
					},
					&cli.StringFlag{
						Name:    "secret-key",
						Usage:   "Secret key for the bucket",
						Sources: cli.EnvVars("AWS_SECRET_ACCESS_KEY"),
					},
				},
				Action: executeTaskFetch,
			},
		},
	}
}

func executeTaskStatus(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.Args().First())
	if id == "" {
		return fmt.Errorf("task status: task ID argument is required")
	}

	client, err := buildClient(cmd)
	if err != nil {
		return err
	}

	status, err := client.Task(id).Status(ctx)
	if err != nil {
		return fmt.Errorf("task status: %w", err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATE\tDESTINATION\tERROR")
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", status.ID, status.State, orDash(status.DestinationURI), orDash(status.Error))
	return tw.Flush()
}

func executeTaskFetch(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.String("name"))
	out := strings.TrimSpace(cmd.String("out"))
	if out == "" {
		out = name + ".tif"
	}

	var opts []bucket.Option
	if r := strings.TrimSpace(cmd.String("region")); r != "" {
		opts = append(opts, bucket.WithRegion(r))
	}
	if key := cmd.String("access-key"); key != "" {
		opts = append(opts, bucket.WithStaticCredentials(key, cmd.String("secret-key")))
	}

	fetcher := bucket.NewFetcher(opts...)
	objKey := bucket.ObjectKey(cmd.String("prefix"), name)
	if err := fetcher.Fetch(ctx, cmd.String("bucket"), objKey, out); err != nil {
		return fmt.Errorf("task fetch: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", out)
	return nil
}

func buildRequestAndRule(cmd *cli.Command) (eo.Request, composite.Rule, error) {
	center := region.NewPoint(cmd.Float("lon"), cmd.Float("lat"))
	pixels := int(cmd.Int("pixels"))

	rect, err := region.ComputeBoundingRect(center, cmd.Float("gsd"), pixels,
		region.WithVertexCount(int(cmd.Int("vertices"))))
	if err != nil {
		return eo.Request{}, composite.Rule{}, err
	}

	dest, err := parseDestination(cmd)
	if err != nil {
		return eo.Request{}, composite.Rule{}, err
	}

	req, err := eo.NewRequest(rect, pixels, dest, strings.TrimSpace(cmd.String("name")))
	if err != nil {
		return eo.Request{}, composite.Rule{}, err
	}

	builder := composite.RuleBuilder().
		Collection(composite.Collection(strings.TrimSpace(cmd.String("collection")))).
		Reducer(composite.Reducer(strings.TrimSpace(cmd.String("reducer"))))

	if start, err := parseTimeFlag(cmd, "start"); err != nil {
		return eo.Request{}, composite.Rule{}, err
	} else if !start.IsZero() {
		builder = builder.StartTime(start)
	}
	if end, err := parseTimeFlag(cmd, "end"); err != nil {
		return eo.Request{}, composite.Rule{}, err
	} else if !end.IsZero() {
		builder = builder.EndTime(end)
	}
	if cmd.Bool("cloud-mask") {
		builder = builder.CloudMask()
	}
	if pct := cmd.Float("max-cloud-cover"); pct >= 0 {
		builder = builder.MaxCloudCover(pct)
	}

	return req, builder.Build(), nil
}

// parseDestination maps the --dest selector onto a typed destination. Thumb
// requests carry no --dest flag and default to local.
func parseDestination(cmd *cli.Command) (eo.Destination, error) {
	switch selector := strings.ToLower(strings.TrimSpace(cmd.String("dest"))); selector {
	case "", "local":
		return eo.LocalDestination{Dir: cmd.String("dir")}, nil
	case "cloud":
		b := strings.TrimSpace(cmd.String("bucket"))
		if b == "" {
			return nil, fmt.Errorf("--bucket is required for the cloud destination")
		}
		return eo.BucketDestination{Bucket: b, Prefix: cmd.String("prefix")}, nil
	case "drive":
		folder := strings.TrimSpace(cmd.String("folder"))
		if folder == "" {
			return nil, fmt.Errorf("--folder is required for the drive destination")
		}
		return eo.DriveDestination{Folder: folder}, nil
	default:
		return nil, fmt.Errorf("unsupported destination %q", selector)
	}
}

func buildClient(cmd *cli.Command) (*eo.Client, error) {
	var opts []eo.Option
	root := cmd.Root()
	if baseURL := strings.TrimSpace(root.String("base-url")); baseURL != "" {
		opts = append(opts, eo.WithBaseURL(baseURL))
	}
	if token := strings.TrimSpace(root.String("token")); token != "" {
		opts = append(opts, eo.WithAuthToken(token))
	}
	timeout := root.Duration("timeout")
	if timeout < 0 {
		timeout = 0
	}
	opts = append(opts, eo.WithHTTPClient(&http.Client{Timeout: timeout}))
	return eo.NewClient(opts...)
}

func parseTimeFlag(cmd *cli.Command, name string) (time.Time, error) {
	value := strings.TrimSpace(cmd.String(name))
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", name, err)
	}
	return parsed, nil
}

func trimStrings(values []string) []string {
	var result []string
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
