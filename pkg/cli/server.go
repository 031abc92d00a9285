package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CHS18-77/FineEase/pkg/ml"
	"github.com/gorilla/mux"
	"github.com/urfave/cli/v2"
)

const (
	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 300
	serverMaxHeaderBytes      = 20
	serverPortDefault         = 8080
)

var (
	portFlag = &cli.IntFlag{
		Name:  "port",
		Usage: "Port on which the server will listen",
		Value: serverPortDefault,
	}

	serverCmd = &cli.Command{
		Name:    "server",
		Aliases: []string{"serve"},
		Usage:   "Start the local prediction API server",
		Action:  cmdStartServer,
		Flags: []cli.Flag{
			portFlag,
			debugFlag,
		},
	}
)

func cmdStartServer(c *cli.Context) error {
	cfg := getConfig(c)
	port := c.Int(portFlag.Name)
	address := fmt.Sprintf("127.0.0.1:%d", port)

	// The model is loaded once and held read-only for the process lifetime.
	model, err := ml.Load(cfg.ModelPath)
	if err != nil {
		return err
	}

	router := makeRouter(cfg.DB, model)
	s := &http.Server{
		Addr:           address,
		Handler:        router,
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("error starting server", "error", err)
		}
	}()

	slog.Info("server started", "address", fmt.Sprintf("http://%s", address))

	<-done

	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("error shutting down server", "error", err)
	}
	return nil
}

func makeRouter(db *sql.DB, model *ml.Model) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", homeHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/predict-health", predictManualHandler(model)).Methods(http.MethodPost)
	r.HandleFunc("/api/ngos/predict-all", predictAllHandler(db, model)).Methods(http.MethodGet)
	r.HandleFunc("/api/ngos/{regNo}/predict", predictNGOHandler(db, model)).Methods(http.MethodGet)
	r.HandleFunc("/api/ngos/{regNo}/explain", explainNGOHandler(db, model)).Methods(http.MethodGet)

	return r
}
