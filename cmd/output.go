package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/s0up4200/transistor/transistor"
)

// printOutcome writes a call's result to the command's output.
// A failed call returns its error after printing diagnostics when verbose.
func printOutcome(cmd *cobra.Command, out *transistor.Outcome) error {
	if verbose {
		printDiagnostics(cmd.ErrOrStderr(), out)
	}

	if !out.Success {
		return fmt.Errorf("%s: %w", out.Request, out.Err())
	}

	w := cmd.OutOrStdout()

	if raw {
		_, err := io.WriteString(w, out.Response.Body)
		return err
	}

	compiled, err := getFilterExpression()
	if err != nil {
		return err
	}
	if compiled != nil {
		doc, err := transistor.DecodeDocument(out)
		if err != nil {
			return fmt.Errorf("cannot filter %s: %w", out.Request.Path, err)
		}
		resources, err := doc.Resources()
		if err != nil {
			return err
		}
		matches, err := filters.Apply(cmd.Context(), compiled, resources)
		if err != nil {
			return err
		}
		logger.Debug().
			Str("filter", compiled.Expression()).
			Int("total", len(resources)).
			Int("matched", len(matches)).
			Msg("Filtered resources")
		return writeValue(w, matches)
	}

	if !out.Result.IsStructured() {
		status := out.Response.StatusCode
		fmt.Fprintf(w, "%d %s\n", status, http.StatusText(status))
		return nil
	}

	if outputYAML {
		body, _ := out.Result.Body()
		return writeValue(w, body)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(out.Response.Body), "", "  "); err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}

// writeValue encodes v as indented JSON, or YAML when requested.
func writeValue(w io.Writer, v any) error {
	if outputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printDiagnostics writes the request, response summary and timings of a call.
func printDiagnostics(w io.Writer, out *transistor.Outcome) {
	req := out.Request
	fmt.Fprintf(w, "* call %s\n", req.UID)
	fmt.Fprintf(w, "> %s\n", req)
	for _, name := range slices.Sorted(maps.Keys(req.Header)) {
		fmt.Fprintf(w, "> %s: %s\n", name, strings.Join(req.Header[name], ", "))
	}
	if req.Body != "" {
		fmt.Fprintf(w, "> %s\n", req.Body)
	}

	info := out.Response.Info
	if info.Error != "" {
		fmt.Fprintf(w, "! %s\n", info.Error)
	} else {
		fmt.Fprintf(w, "< %s %d\n", info.Proto, info.StatusCode)
		for _, name := range slices.Sorted(maps.Keys(out.Response.Headers)) {
			fmt.Fprintf(w, "< %s: %s\n", name, out.Response.Headers[name])
		}
	}

	fmt.Fprintf(w, "* total %s, dns %s, connect %s, tls %s, server %s, %d bytes\n",
		info.TotalTime, info.DNSLookup, info.ConnTime, info.TLSHandshake, info.ServerTime, info.SizeDownload)
	if out.Error != "" {
		fmt.Fprintf(w, "* error: %s\n", out.Error)
	}
}
