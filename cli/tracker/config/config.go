package config

/*
Описание конфигурационного файла
*/

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"gopkg.in/yaml.v2"
)

const (
	defaultPort         = "5000"
	defaultQueueSize    = 32
	defaultAuthMode     = "static"
	defaultAuthTimeout  = 5
	defaultRelayBuffer  = 256
	defaultRelayWorkers = 0 // 0 — количество воркеров по числу CPU
)

type Auth struct {
	Mode     string            `yaml:"mode"`
	Tokens   map[string]string `yaml:"tokens"`
	Endpoint string            `yaml:"endpoint"`
	Timeout  int               `yaml:"timeout"`
}

type Settings struct {
	Host          string `yaml:"host"`
	Port          string `yaml:"port"`
	LogLevel      string `yaml:"log_level"`
	LogFilePath   string `yaml:"log_file_path"`
	LogMaxAgeDays int    `yaml:"log_max_age_days"`

	Auth Auth `yaml:"auth"`

	// Store — единственное основное хранилище состояний, Relays — набор
	// брокеров, в которые дублируются принятые обновления.
	Store  map[string]map[string]string `yaml:"storage"`
	Relays map[string]map[string]string `yaml:"relays"`

	BroadcastQueueSize int `yaml:"broadcast_queue_size"`
	RelayBuffer        int `yaml:"relay_buffer"`
	RelayWorkers       int `yaml:"relay_workers"`

	// StaleAfter — окно в секундах, после которого запись помечается
	// устаревшей при чтении. 0 отключает пометку.
	StaleAfter int `yaml:"stale_after"`
}

func (s *Settings) GetListenAddress() string {
	return s.Host + ":" + s.Port
}

func (s *Settings) GetAuthTimeout() time.Duration {
	return time.Duration(s.Auth.Timeout) * time.Second
}

func (s *Settings) GetStaleAfter() time.Duration {
	return time.Duration(s.StaleAfter) * time.Second
}

func (s *Settings) GetLogLevel() log.Level {
	var lvl log.Level

	switch s.LogLevel {
	case "DEBUG":
		lvl = log.DebugLevel
	case "INFO":
		lvl = log.InfoLevel
	case "WARN":
		lvl = log.WarnLevel
	case "ERROR":
		lvl = log.ErrorLevel
	default:
		lvl = log.InfoLevel
	}
	return lvl
}

func New(confPath string) (Settings, error) {
	c := Settings{}
	data, err := os.ReadFile(confPath)
	if err != nil {
		return c, err
	}
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		return c, err
	}

	if c.Port == "" {
		c.Port = defaultPort
	}

	if c.Auth.Mode == "" {
		c.Auth.Mode = defaultAuthMode
	}
	if c.Auth.Timeout <= 0 {
		c.Auth.Timeout = defaultAuthTimeout
	}

	if c.BroadcastQueueSize <= 0 {
		c.BroadcastQueueSize = defaultQueueSize
	}
	if c.RelayBuffer <= 0 {
		c.RelayBuffer = defaultRelayBuffer
	}
	if c.RelayWorkers < 0 {
		c.RelayWorkers = defaultRelayWorkers
	}

	if c.StaleAfter < 0 {
		log.Errorf("Некорректное значение stale_after (%d), пометка устаревших записей отключена", c.StaleAfter)
		c.StaleAfter = 0
	}

	return c, err
}
