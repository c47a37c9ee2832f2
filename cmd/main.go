package main

//
//  @title           retvol API
//  @version         1.0
//  @description     Daily price ingestion, monthly return/volatility aggregation and OLS regression.
//  @termsOfService  https://github.com/guttosm/retvol
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/retvol
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        monthly
//  @tag.description Monthly return and volatility per ticker
//
//  @tag.name        regression
//  @tag.description OLS of monthly return on monthly volatility
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/guttosm/retvol/config"
	_ "github.com/guttosm/retvol/docs" // swagger docs
	"github.com/guttosm/retvol/internal/app"
	"github.com/guttosm/retvol/internal/export"
	"github.com/guttosm/retvol/internal/ingestion"
	"github.com/guttosm/retvol/internal/logger"
	"github.com/guttosm/retvol/internal/service"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// analyzeOptions are the analyze-mode flags.
type analyzeOptions struct {
	CSV         []string
	Legacy      []string
	PriceColumn string
	Lag         bool
	Persist     bool
	ExportPath  string
	Parallel    int
}

// runAnalysis executes one pipeline run, prints the regression summary to out
// and writes the monthly table when an export path is set.
func runAnalysis(ctx context.Context, svc service.AnalysisService, opts analyzeOptions, out io.Writer) error {
	rep, err := svc.Run(ctx, service.Request{
		Sources: ingestion.Sources{
			CSV:         opts.CSV,
			Legacy:      opts.Legacy,
			PriceColumn: opts.PriceColumn,
		},
		Lag:      opts.Lag,
		Persist:  opts.Persist,
		Parallel: opts.Parallel,
	})
	if err != nil {
		return err
	}

	st := rep.Stats
	fmt.Fprintf(out, "run %s: %d files, %d rows, %d skipped, %d duplicates, %d daily records, %d monthly records\n",
		rep.RunID, st.Files, st.Rows, st.Skipped(), st.Duplicates, st.Kept, len(rep.Monthly))

	if rep.Regression != nil {
		fmt.Fprint(out, rep.Regression.Summary())
	} else {
		fmt.Fprintf(out, "regression not fitted: %v\n", rep.RegressionErr)
	}

	if opts.ExportPath != "" {
		if err := export.WriteFile(opts.ExportPath, rep.Monthly); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		logger.L().Info().Str("path", opts.ExportPath).Int("rows", len(rep.Monthly)).Msg("monthly table exported")
	}
	return nil
}

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// main is the entry point of the retvol application.
//
// Modes (selected via --mode flag):
//   - analyze: merges the given files, aggregates monthly statistics and prints the OLS summary.
//   - api:     starts the REST API over persisted monthly statistics.
func main() {
	ctx := context.Background()

	config.LoadConfig()
	logger.Init()

	mode := flag.String("mode", "analyze", "Mode: analyze or api")
	csvList := flag.String("csv", "", "Comma-separated tickers read from <dir>/<ticker>_prc.csv")
	datList := flag.String("dat", "", "Comma-separated legacy files read from <dir>/<name>.dat")
	priceCol := flag.String("price-col", config.AppConfig.Data.PriceColumn, "Source column used as the price")
	dir := flag.String("dir", config.AppConfig.Data.Dir, "Directory with the source files")
	lag := flag.Bool("lag", false, "Regress on the previous month's volatility")
	persist := flag.Bool("persist", false, "Store daily prices, monthly statistics and the ingestion log in Postgres")
	exportPath := flag.String("export", "", "Write the monthly table to a .csv or .xlsx file")
	parallel := flag.Int("parallel", config.AppConfig.Data.Parallel, "Concurrent file reads and aggregation workers (0=auto)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "analyze":
		config.AppConfig.Data.Dir = *dir
		config.AppConfig.Data.Parallel = *parallel

		svc, cleanup, err := app.InitializeAnalysis(*persist)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("analysis init error")
		}
		err = runAnalysis(ctx, svc, analyzeOptions{
			CSV:         splitList(*csvList),
			Legacy:      splitList(*datList),
			PriceColumn: *priceCol,
			Lag:         *lag,
			Persist:     *persist,
			ExportPath:  *exportPath,
			Parallel:    *parallel,
		}, os.Stdout)
		cleanup()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("analysis failed")
		}

	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
