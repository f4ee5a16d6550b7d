package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Server   Server   `koanf:"server"`
	Database Database `koanf:"db"`
	Tui      Tui      `koanf:"tui"`
}

type Server struct {
	Port int `koanf:"port"`
	// AllowedOrigin is sent back as Access-Control-Allow-Origin.
	AllowedOrigin string `koanf:"allowedorigin"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

// Tui configures the terminal client.
type Tui struct {
	ApiUrl     string        `koanf:"apiurl"`
	WidgetUrl  string        `koanf:"widgeturl"`
	WidgetId   int           `koanf:"widgetid"`
	MinLoading time.Duration `koanf:"minloading"`
	Debounce   time.Duration `koanf:"debounce"`
	LogFile    string        `koanf:"logfile"`
}

func Defaults() Application {
	return Application{
		Server: Server{
			Port:          3001,
			AllowedOrigin: "*",
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "postgres",
			Pass:   "",
			Name:   "manual_db",
			Schema: "public",
		},
		Tui: Tui{
			ApiUrl:     "http://localhost:3001",
			WidgetUrl:  "http://172.16.3.40:8083",
			WidgetId:   408,
			MinLoading: 2 * time.Second,
			Debounce:   time.Second,
			LogFile:    "flowdesk-tui.log",
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "FLOWDESK_",
		TransformFunc: func(k, v string) (string, any) {
			// FLOWDESK_DB_HOST -> db.host
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "FLOWDESK_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
