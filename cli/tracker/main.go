package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/openfleet/fleettrack/cli/tracker/api"
	"github.com/openfleet/fleettrack/cli/tracker/auth"
	"github.com/openfleet/fleettrack/cli/tracker/broadcast"
	"github.com/openfleet/fleettrack/cli/tracker/config"
	"github.com/openfleet/fleettrack/cli/tracker/domain"
	"github.com/openfleet/fleettrack/cli/tracker/relay"
	"github.com/openfleet/fleettrack/cli/tracker/storage"

	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configFilePath := ""
	flag.StringVar(&configFilePath, "c", "", "")
	flag.Parse()

	conf, err := getConfig(configFilePath)
	if err != nil {
		log.Fatalf("Не удалось получить конфиг: %v", err)
		return
	}

	configureLogging(conf)

	store, err := storage.Load(conf.Store)
	if err != nil {
		log.Fatalf("Не удалось инициализировать хранилище: %v", err)
		return
	}
	defer store.Close()

	relays, err := relay.Load(conf.Relays)
	if err != nil {
		log.Fatalf("Не удалось инициализировать брокеры: %v", err)
		return
	}

	var asyncRelay *relay.Async
	var relayDep domain.Relay
	if relays.Len() > 0 {
		asyncRelay = relay.NewAsync(relays, conf.RelayBuffer, conf.RelayWorkers)
		relayDep = asyncRelay
		log.Infof("Подключено брокеров: %d", relays.Len())
	}

	verifier, err := buildVerifier(conf)
	if err != nil {
		log.Fatalf("Не удалось инициализировать верификатор токенов: %v", err)
		return
	}

	hub := broadcast.NewHub(conf.BroadcastQueueSize)

	submit := domain.NewSubmitUpdate(verifier, store, hub, relayDep)
	query := &domain.GetVehicles{Store: store, StaleAfter: conf.GetStaleAfter()}

	controller := api.NewController(api.NewHandler(submit, query), hub)

	srv := &http.Server{
		Addr:              conf.GetListenAddress(),
		Handler:           controller.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infof("Запуск сервера на %s", conf.GetListenAddress())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Не удалось запустить сервер: %v", err)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Остановка сервера...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Ошибка остановки сервера: %v", err)
	}

	if asyncRelay != nil {
		asyncRelay.Shutdown()
	}
}

func getConfig(configFilePath string) (config.Settings, error) {
	var c config.Settings
	var err error

	if configFilePath == "" {
		return c, fmt.Errorf("не задан путь до конфига")
	}

	c, err = config.New(configFilePath)
	if err != nil {
		return c, fmt.Errorf("ошибка парсинга конфига: %v", err)
	}

	return c, nil
}

func buildVerifier(conf config.Settings) (auth.Verifier, error) {
	switch conf.Auth.Mode {
	case "static":
		if len(conf.Auth.Tokens) == 0 {
			return nil, fmt.Errorf("не задан список токенов")
		}
		return auth.NewStaticVerifier(conf.Auth.Tokens), nil
	case "remote":
		if conf.Auth.Endpoint == "" {
			return nil, fmt.Errorf("не задан адрес верификатора")
		}
		return auth.NewRemoteVerifier(conf.Auth.Endpoint, conf.GetAuthTimeout()), nil
	default:
		return nil, fmt.Errorf("неизвестный режим верификации: %s", conf.Auth.Mode)
	}
}

func configureLogging(conf config.Settings) {
	log.SetLevel(conf.GetLogLevel())

	consoleFmt := &log.TextFormatter{ForceColors: true, FullTimestamp: false}
	log.SetFormatter(consoleFmt)
	log.SetOutput(os.Stdout)

	if conf.LogFilePath != "" {
		logDir := filepath.Dir(conf.LogFilePath)
		if _, err := os.Stat(logDir); os.IsNotExist(err) {
			if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
				log.Fatalf("Не получилось создать директорию для логов: %v", err)
			}
		}

		lumberjackLogger := &lumberjack.Logger{
			Filename:   conf.LogFilePath,
			MaxSize:    100,
			MaxBackups: 366,
			MaxAge:     conf.LogMaxAgeDays,
			Compress:   true,
		}

		fileFmt := &log.TextFormatter{DisableColors: true, FullTimestamp: true}
		hook := lfshook.NewHook(lfshook.WriterMap{
			log.PanicLevel: lumberjackLogger,
			log.FatalLevel: lumberjackLogger,
			log.ErrorLevel: lumberjackLogger,
			log.WarnLevel:  lumberjackLogger,
			log.InfoLevel:  lumberjackLogger,
			log.DebugLevel: lumberjackLogger,
			log.TraceLevel: lumberjackLogger,
		}, fileFmt)

		log.AddHook(hook)
	}
}
