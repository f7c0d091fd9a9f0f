package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
)

func cachesCommand() *cli.Command {
	return &cli.Command{
		Name:  "caches",
		Usage: "inspect or clear the caches of a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   "http://localhost:8080",
				Usage:   "base URL of the bedrock server",
				Sources: cli.EnvVars("BEDROCK_SERVER"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "list cache names and sizes",
				Action: listCaches,
			},
			{
				Name:      "stats",
				Usage:     "show statistics of one cache",
				ArgsUsage: "NAME",
				Action:    cacheStats,
			},
			{
				Name:      "clear",
				Usage:     "clear one cache, or all caches when no name is given",
				ArgsUsage: "[NAME]",
				Action:    clearCaches,
			},
		},
	}
}

type adminClient struct {
	base string
	http *http.Client
}

func newAdminClient(cmd *cli.Command) *adminClient {
	return &adminClient{
		base: strings.TrimRight(cmd.String("server"), "/") + "/system/caches",
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *adminClient) do(ctx context.Context, method, name string, out interface{}) error {
	target := c.base
	if name != "" {
		target += "/" + url.PathEscape(name)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode != http.StatusOK {
		if message := gjson.GetBytes(body, "message").String(); message != "" {
			return fmt.Errorf("%s %s: %s", method, target, message)
		}
		return fmt.Errorf("%s %s: %s", method, target, res.Status)
	}

	return json.Unmarshal(body, out)
}

func listCaches(ctx context.Context, cmd *cli.Command) error {
	var listing struct {
		Caches []struct {
			Name string `json:"name"`
			Size int64  `json:"size"`
		} `json:"caches"`
	}
	if err := newAdminClient(cmd).do(ctx, http.MethodGet, "", &listing); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE")
	for _, c := range listing.Caches {
		fmt.Fprintf(w, "%s\t%s\n", c.Name, humanize.Comma(c.Size))
	}
	return w.Flush()
}

func cacheStats(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().First()
	if name == "" {
		return fmt.Errorf("cache name is required")
	}

	var detail map[string]interface{}
	if err := newAdminClient(cmd).do(ctx, http.MethodGet, name, &detail); err != nil {
		return err
	}

	out, err := json.MarshalIndent(detail, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func clearCaches(ctx context.Context, cmd *cli.Command) error {
	var result struct {
		Caches []string `json:"caches"`
	}
	if err := newAdminClient(cmd).do(ctx, http.MethodDelete, cmd.Args().First(), &result); err != nil {
		return err
	}

	for _, name := range result.Caches {
		fmt.Printf("cleared %s\n", name)
	}
	return nil
}
