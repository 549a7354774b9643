package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/meur/modcatalog/internal/api"
	"github.com/meur/modcatalog/internal/app"
	"github.com/meur/modcatalog/internal/catalog"
	"github.com/meur/modcatalog/internal/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	port       string
	category   string
	query      string
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Mod catalog API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
	SilenceUsage: true,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the catalog, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "modcatalog.yaml", "Config file path")
	rootCmd.Flags().StringVar(&port, "port", "", "Server port (overrides config)")
	listCmd.Flags().StringVar(&category, "category", models.CategoryAll, "Category filter")
	listCmd.Flags().StringVarP(&query, "query", "q", "", "Search in names and descriptions")
	rootCmd.AddCommand(listCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runServer(ctx context.Context) error {
	a, err := app.Open(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.Config
	if port != "" {
		cfg.Server.Port = port
	}

	opts := api.Options{AllowedOrigins: cfg.Server.AllowedOrigins}
	if cfg.Upload.MaxFileBytes > 0 {
		// room for the multipart envelope around the file
		opts.MaxUploadBytes = cfg.Upload.MaxFileBytes + 1<<20
	}
	srv := api.New(a.Store, a.Attacher(), opts, a.Logger.Named("api"))

	// Serve frontend static files (for production deployment)
	if cfg.Server.StaticDir != "" {
		FileServer(srv.Router(), "/", http.Dir(cfg.Server.StaticDir))
	}

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.Logger.Info("🚀 Mod catalog API starting",
		zap.String("addr", "http://localhost:"+cfg.Server.Port),
		zap.String("db", cfg.Storage.DatabasePath),
		zap.String("upload_endpoint", cfg.Upload.EndpointURL))

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func runList() error {
	a, err := app.Open(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	mods := catalog.Filter(a.Store.List(), category, query)
	if len(mods) == 0 {
		fmt.Println("🔍 No mods found")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\t\tNAME\tCATEGORY\tVERSION\tAUTHOR\tDOWNLOADS\tFILE")
	for _, m := range mods {
		file := "-"
		if m.HasFile() {
			file = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.ID, m.Icon, m.Name, m.Category, m.Version, m.Author, humanize.Comma(int64(m.Downloads)), file)
	}
	return tw.Flush()
}

// FileServer conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", 301).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, req *http.Request) {
		rctx := chi.RouteContext(req.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, req)
	})
}
