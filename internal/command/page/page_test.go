package page

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bornholm/serpscraper/pkg/page"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func runPage(args ...string) (string, error) {
	var stdout bytes.Buffer

	app := &cli.App{
		Name:           "serpscraper",
		Writer:         &stdout,
		Commands:       []*cli.Command{Page()},
		ExitErrHandler: func(ctx *cli.Context, err error) {},
	}

	err := app.Run(append([]string{"serpscraper", "page"}, args...))

	return stdout.String(), err
}

func TestPageCommand(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		io.WriteString(w, `<html><head><title>About Node.js</title></head><body><h1>About</h1><p>As an asynchronous event-driven JavaScript runtime.</p></body></html>`)
	}))
	defer testServer.Close()

	t.Run("print markdown", func(t *testing.T) {
		stdout, err := runPage(testServer.URL + "/")
		if err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}

		if !strings.Contains(stdout, "# About") {
			t.Errorf("unexpected output:\n%s", stdout)
		}
	})

	t.Run("write to file", func(t *testing.T) {
		output := filepath.Join(t.TempDir(), "about.md")

		if _, err := runPage("--output", output, testServer.URL+"/"); err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}

		data, err := os.ReadFile(output)
		if err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}

		if !strings.Contains(string(data), "asynchronous event-driven") {
			t.Errorf("unexpected file content:\n%s", data)
		}
	})

	t.Run("check", func(t *testing.T) {
		stdout, err := runPage("--check", testServer.URL+"/")
		if err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}

		if !strings.HasSuffix(stdout, ": reachable\n") {
			t.Errorf("unexpected output: %s", stdout)
		}

		if _, err := runPage("--check", testServer.URL+"/missing"); err == nil {
			t.Errorf("expected an error for an unreachable page")
		}
	})

	t.Run("missing url", func(t *testing.T) {
		if _, err := runPage(); err == nil {
			t.Errorf("expected an error")
		}
	})
}

func TestFilename(t *testing.T) {
	if got, want := Filename(&page.Page{Title: "About Node.js", URL: "https://nodejs.org/about"}), "about-node-js.md"; got != want {
		t.Errorf("got '%s', want '%s'", got, want)
	}

	if got, want := Filename(&page.Page{URL: "https://nodejs.org/about"}), "https-nodejs-org-about.md"; got != want {
		t.Errorf("got '%s', want '%s'", got, want)
	}
}
