package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/pluct"
	"github.com/reoring/pluct/internal/logging"
)

const (
	envAuthType        = "PLUCT_AUTH_TYPE"
	envAuthCredentials = "PLUCT_AUTH_CREDENTIALS"
)

type getConfig struct {
	authType         string
	authCredentials  string
	timeout          time.Duration
	output           string
	strictDuplicates bool
}

func newGetCommand() *cobra.Command {
	var cfg getConfig

	cmd := &cobra.Command{
		Use:   "get <url>",
		Short: "Fetch a schema and print its title, required fields, properties and links.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("auth-type") {
				cfg.authType = os.Getenv(envAuthType)
			}
			if !cmd.Flags().Changed("auth-credentials") {
				cfg.authCredentials = os.Getenv(envAuthCredentials)
			}
			return runGet(cmd.Context(), cmd.OutOrStdout(), args[0], cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.authType, "auth-type", "", "authorization scheme, e.g. Bearer (env "+envAuthType+")")
	cmd.Flags().StringVar(&cfg.authCredentials, "auth-credentials", "", "authorization credentials (env "+envAuthCredentials+")")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", 30*time.Second, "overall request timeout; 0 disables it")
	cmd.Flags().StringVarP(&cfg.output, "output", "o", "text", `output format ("text" or "json")`)
	cmd.Flags().BoolVar(&cfg.strictDuplicates, "strict-duplicates", false, "fail when the JSON document repeats an object key")
	return cmd
}

func runGet(ctx context.Context, w io.Writer, url string, cfg getConfig) error {
	if cfg.output != "text" && cfg.output != "json" {
		return fmt.Errorf("unknown output format %q", cfg.output)
	}

	dup := pluct.Warn
	if cfg.strictDuplicates {
		dup = pluct.Error
	}
	client := pluct.NewClient(
		pluct.WithHTTPClient(&http.Client{Timeout: cfg.timeout}),
		pluct.WithLogger(logging.Logger),
		pluct.WithUserAgent("pluct-cli"),
		pluct.WithDuplicateKeys(dup),
	)

	var opts []pluct.RequestOption
	if cfg.authType != "" || cfg.authCredentials != "" {
		opts = append(opts, pluct.WithAuth(pluct.Auth{Type: cfg.authType, Credentials: cfg.authCredentials}))
	}

	s, err := client.Get(ctx, url, opts...)
	logging.Debug().Err(err).Str("url", url).Bool("schema", s != nil).Msg("get finished")
	if err != nil {
		if _, ok := pluct.AsIssues(err); !ok || s == nil {
			return err
		}
		logging.Warn().Err(err).Str("url", url).Msg("schema has malformed fields")
	}

	if cfg.output == "json" {
		return writeJSON(w, s)
	}
	return writeText(w, s)
}

func writeJSON(w io.Writer, s *pluct.Schema) error {
	raw := s.Raw()
	if raw == nil {
		raw = map[string]any{}
	}
	b, err := j.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

func writeText(w io.Writer, s *pluct.Schema) error {
	var b strings.Builder
	fmt.Fprintf(&b, "url: %s\n", s.URL())
	if title, ok := s.Title(); ok {
		fmt.Fprintf(&b, "title: %s\n", title)
	}
	if req, ok := s.Required(); ok {
		fmt.Fprintf(&b, "required: %s\n", strings.Join(req, ", "))
	}
	if props, ok := s.Properties(); ok {
		b.WriteString("properties:\n")
		names := make([]string, 0, len(props))
		for name := range props {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			desc, err := j.Marshal(props[name])
			if err != nil {
				return fmt.Errorf("property %q: %w", name, err)
			}
			fmt.Fprintf(&b, "  %s %s\n", name, desc)
		}
	}
	if links, ok := s.Links(); ok {
		b.WriteString("links:\n")
		for _, l := range links {
			fmt.Fprintf(&b, "  %s %s %s\n", l.Rel, l.Method, l.Href)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
