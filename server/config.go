package server

import (
	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

// Config for the streaming server, read from an ini file. A missing
// file or key falls back to the defaults baked into loadCfg.
type Config struct {
	Addr        string
	MetricsAddr string
	FrameLimit  int // max frames streamed per run, 0 streams every step
	LogLevel    string
}

func LoadConfig(path string) Config {
	file, err := ini.Load(path)
	if err != nil {
		log.WithFields(log.Fields{"path": path, "err": err}).
			Warn("config file not readable, using defaults")
		file = ini.Empty()
	}
	return loadCfg(file)
}

func loadCfg(file *ini.File) Config {
	return Config{
		Addr:        file.Section("server").Key("Addr").MustString(":9000"),
		MetricsAddr: file.Section("server").Key("MetricsAddr").MustString(":9090"),
		FrameLimit:  file.Section("server").Key("FrameLimit").MustInt(0),
		LogLevel:    file.Section("log").Key("Level").MustString("info"),
	}
}
