package cmd

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path"
	"strings"
)

// openInput resolves "-" (stdin), http(s) URLs and file paths. The returned
// name is used for titles and tables.
func openInput(ctx context.Context, uri string, insecure, verbose bool) (io.ReadCloser, string, error) {
	uri = strings.TrimPrefix(uri, "file://")
	switch {
	case uri == "":
		return nil, "", fmt.Errorf("input is required. Use --file flag or provide as argument")
	case uri == "-":
		return io.NopCloser(os.Stdin), "stdin", nil
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		cl := http.DefaultClient
		if insecure {
			cl = &http.Client{
				Transport: &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}},
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create request: %w", err)
		}
		resp, err := cl.Do(req)
		if err != nil {
			return nil, "", fmt.Errorf("failed to download: %w", err)
		}
		if verbose {
			reqDump, _ := httputil.DumpRequest(req, true)
			os.Stderr.Write(reqDump)
			resDump, _ := httputil.DumpResponse(resp, false)
			os.Stderr.Write(resDump)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, "", fmt.Errorf("failed to download: %s", resp.Status)
		}
		return resp.Body, path.Base(req.URL.Path), nil
	default:
		f, err := os.Open(uri)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open file: %w", err)
		}
		return f, uri, nil
	}
}

// inputArg prefers the --file flag and falls back to the first argument
func inputArg(file string, args []string) string {
	if file == "" && len(args) > 0 {
		return args[0]
	}
	return file
}
