package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/Alia5/PADLINK/internal/configpaths"
	"github.com/Alia5/PADLINK/internal/log"
	"github.com/Alia5/PADLINK/internal/server/api"
	"github.com/Alia5/PADLINK/internal/server/api/auth"
	"github.com/Alia5/PADLINK/internal/server/api/handler"
	"github.com/Alia5/PADLINK/internal/server/feed"
	"github.com/Alia5/PADLINK/pad"
	"github.com/Alia5/PADLINK/padio"
)

const keyFileName = "padlink.key.txt"

// Serve runs the full padlink server: a report provider feeding the
// controller and the TCP API on top of it.
type Serve struct {
	ApiServerConfig api.ServerConfig `embed:"" prefix:"api."`

	Rescan     time.Duration `help:"How often to rescan for the gamepad while none is attached" default:"1s" env:"PADLINK_RESCAN"`
	Input      string        `help:"Serve from a captured report log instead of a real device" env:"PADLINK_INPUT"`
	InputDelay time.Duration `help:"Pause between replayed reports when --input is set" default:"8ms"`
}

// Run is called by Kong when the serve command is executed.
func (s *Serve) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.StartServer(ctx, logger, rawLogger)
}

func (s *Serve) StartServer(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	logger.Info("starting padlink server", "addr", s.ApiServerConfig.Addr)

	if s.ApiServerConfig.Addr == "" {
		return fmt.Errorf("API server address must be set (default :3421)")
	}
	if s.ApiServerConfig.Password == "" {
		pwd, err := loadOrCreateKey(logger)
		if err != nil {
			return err
		}
		s.ApiServerConfig.Password = pwd
	}

	ctrl := pad.NewController(logger)
	hub := feed.New()
	ctrl.SetObserver(pad.FanIn(hub.Publish))

	apiSrv, err := api.New(s.ApiServerConfig, logger)
	if err != nil {
		return err
	}
	r := apiSrv.Router()
	r.Register("ping", handler.Ping())
	r.Register("state", handler.State(ctrl))
	r.RegisterStream("events", handler.Events(ctrl, hub, s.ApiServerConfig.StreamBuffer))

	if err := apiSrv.Start(); err != nil {
		logger.Error("failed to start API server", "error", err)
		return err
	}

	provider, closeInput, err := s.provider(logger)
	if err != nil {
		apiSrv.Close()
		return err
	}
	defer closeInput()

	provErr := make(chan error, 1)
	go func() {
		provErr <- provider.Run(ctx, tapSink{inner: ctrl, raw: rawLogger})
	}()

	select {
	case <-ctx.Done():
		apiSrv.Close()
		<-provErr
		return nil
	case err := <-provErr:
		apiSrv.Close()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
}

func (s *Serve) provider(logger *slog.Logger) (padio.Provider, func(), error) {
	if s.Input == "" {
		h := padio.NewHIDRaw(logger)
		h.Rescan = s.Rescan
		return h, func() {}, nil
	}
	f, err := os.Open(s.Input)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return &padio.Replay{R: f, Delay: s.InputDelay, Logger: logger}, func() { _ = f.Close() }, nil
}

// tapSink copies every raw report to the raw logger before decoding.
type tapSink struct {
	inner padio.Sink
	raw   log.RawLogger
}

func (t tapSink) DeviceMatched() { t.inner.DeviceMatched() }
func (t tapSink) DeviceRemoved() { t.inner.DeviceRemoved() }
func (t tapSink) HandleReport(data []byte) error {
	t.raw.Report(data)
	return t.inner.HandleReport(data)
}

// loadOrCreateKey reads the API password from the key file, generating and
// persisting a fresh one on first run.
func loadOrCreateKey(logger *slog.Logger) (string, error) {
	keyFileDir, err := configpaths.DefaultConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve key file path: %w", err)
	}
	keyFilePath := path.Join(keyFileDir, keyFileName)
	if pwd, err := os.ReadFile(keyFilePath); err == nil {
		return strings.TrimSpace(string(pwd)), nil
	}

	newPwd, err := auth.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate new API password: %w", err)
	}
	if err := os.MkdirAll(keyFileDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config dir for key file: %w", err)
	}
	if err := os.WriteFile(keyFilePath, []byte(newPwd), 0o600); err != nil {
		return "", fmt.Errorf("failed to write new API password to file: %w", err)
	}
	logger.Info("Generated API server password", "path", keyFilePath)
	logger.Info("-------------------------------------")
	logger.Info("Your padlink API password is:")
	logger.Info("-------------------------------------")
	logger.Info(newPwd)
	logger.Info("-------------------------------------")
	logger.Info("You can change this password at any time by editing the file")
	return newPwd, nil
}
