package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	ginMime "gin-mime"
	"gin-mime/internal/debug"
	"gin-mime/middleware/expvar"
	"gin-mime/middleware/gzip"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

// typeFormats are the representations offered by the /types endpoint.
var typeFormats = []string{"json", "yaml", "toml", "xml", "msgpack", "text", "html"}

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the registry over HTTP with content negotiation",
		Long: `Serve the registry over HTTP. GET /types answers in the format the
Accept header prefers (json, yaml, toml, xml, msgpack, text or html) and
GET /debug/vars exposes the registry through expvar. Responses are
gzip-compressed for clients that accept it.

Examples:
  mimectl serve --addr :8080
  curl -H 'Accept: application/yaml' localhost:8080/types`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), a.v.GetString("addr"))
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	_ = a.v.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func (a *app) handler() http.Handler {
	r := ginMime.NewResponder(a.reg, a.disp)
	mux := http.NewServeMux()
	mux.Handle("GET /types", r.Handle(func(c *ginMime.Context) {
		list := newTypeList(a.reg)
		if c.NegotiateFormat(typeFormats...) == "html" {
			c.Respond(http.StatusOK, "html", "<pre>"+list.String()+"</pre>")
			return
		}
		c.Negotiate(http.StatusOK, list, typeFormats...)
	}))
	mux.Handle("GET /debug/vars", r.Handle(expvar.Handler()))
	return gzip.Gzip(a.reg, gzip.DefaultCompression)(mux)
}

func (a *app) serve(ctx context.Context, addr string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	expvar.Publish("mimetypes", a.reg)

	srv := &http.Server{
		Addr:              addr,
		Handler:           a.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		debug.Print("Listening and serving HTTP on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
