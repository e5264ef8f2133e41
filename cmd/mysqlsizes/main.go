package main

import (
	"flag"
	"io/ioutil"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	jsoniter "github.com/json-iterator/go"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/mysqlsizes/mysqlsizes/pkg/app"
	"github.com/mysqlsizes/mysqlsizes/pkg/config"
	"github.com/mysqlsizes/mysqlsizes/pkg/core"
	"github.com/mysqlsizes/mysqlsizes/pkg/logutil"
	"github.com/mysqlsizes/mysqlsizes/pkg/utils"
)

var myJson = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	cfg := config.NewConfig()
	err := cfg.ParseCmd(os.Args[1:])
	switch errors.Cause(err) {
	case nil:
	case flag.ErrHelp:
		os.Exit(0)
	default:
		log.Fatalf("parse cmd flags errors: %s\n", err)
	}

	if cfg.Version {
		utils.PrintVersion("mysqlsizes")
		os.Exit(0)
	}

	if cfg.ConfigFile == "" {
		log.Fatal("config must not be empty")
	}
	if err := cfg.ConfigFromFile(cfg.ConfigFile); err != nil {
		log.Fatalf("failed to load config from file: %v", errors.ErrorStack(err))
	}

	content, err := ioutil.ReadFile(cfg.ConfigFile)
	if err != nil {
		log.Fatalf("fail to read file %s. err: %s", cfg.ConfigFile, err)
	}
	hash := core.HashConfig(string(content))

	logutil.MustInitLogger(&cfg.Log)
	utils.LogVersion("mysqlsizes")

	server, err := app.NewServer(cfg)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	server.Start()

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		http.HandleFunc("/status", statusHandler(server))
		http.HandleFunc("/healthz", healthzHandler(server))
		log.Infof("starting http server on %s", cfg.HttpAddr)
		if err := http.ListenAndServe(cfg.HttpAddr, nil); err != nil {
			log.Fatalf("http error: %v", err)
		}
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatal(errors.Trace(err))
	}
	defer watcher.Close()

	if err := watcher.Add(cfg.ConfigFile); err != nil {
		log.Fatal(errors.Trace(err))
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	for {
		select {
		case sig := <-sc:
			log.Infof("[mysqlsizes] stop with signal %v", sig)
			server.Close()
			os.Exit(0)

		case event, ok := <-watcher.Events:
			if !ok {
				continue
			}
			if event.Name != cfg.ConfigFile {
				continue
			}

			log.Info("config file event: ", event.String())

			content, err := ioutil.ReadFile(cfg.ConfigFile)
			if err != nil {
				log.Infof("read config error: %s", err)
				continue
			}
			newHash := core.HashConfig(string(content))
			if newHash == hash {
				log.Infof("config not changed")
				continue
			}

			newCfg := config.NewConfig()
			newCfg.ConfigFile = cfg.ConfigFile
			if err := newCfg.ConfigFromFile(newCfg.ConfigFile); err != nil {
				log.Errorf("bad config after change, keeping current targets: %v", err)
				continue
			}
			if err := server.Reload(newCfg); err != nil {
				log.Errorf("config reload failed, keeping current targets: %v", errors.ErrorStack(err))
				continue
			}
			hash = newHash

		case err, ok := <-watcher.Errors:
			if !ok {
				continue
			}
			log.Errorf("config watch error: %v", err)
		}
	}
}

func healthzHandler(server *app.Server) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if server.Healthy() {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}

func statusHandler(server *app.Server) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := myJson.Marshal(server.Status())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			log.Errorf("[statusHandler] marshal status: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(resp)
	}
}
