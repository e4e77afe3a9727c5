package config

import (
	"os"

	"github.com/go-yaml/yaml"
)

type Config struct {
	Site   Site   `yaml:"site"`
	Server Server `yaml:"server"`
}

type Site struct {
	Name     string `yaml:"name"`
	BaseURL  string `yaml:"baseURL"`
	MailFrom string `yaml:"mailFrom"`
}

type Server struct {
	Listen        string `yaml:"listen"`
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`

	TranslatorEndpoint string `yaml:"translatorEndpoint"`
	TranslatorAPIKey   string `yaml:"translatorApiKey"`
	TranslatorModel    string `yaml:"translatorModel"`

	MailEndpoint string `yaml:"mailEndpoint"`
	MailAPIKey   string `yaml:"mailApiKey"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Server.Listen == "" {
		config.Server.Listen = ":8000"
	}
	if config.Server.TranslatorModel == "" {
		config.Server.TranslatorModel = "gemini-3-flash-preview"
	}

	return config, nil
}
