package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

var ConfigGlobal = DefaultConfig()

type Config struct {
	// agent identity
	AgentId  string `yaml:"agentId"`
	AgentKey string `yaml:"agentKey"`

	// control plane
	ControlPlaneUrl string `yaml:"controlPlaneUrl"`

	// db
	DbSqlite string `yaml:"dbSqlite"`

	// ots
	OtsEndpoint     string `yaml:"otsEndpoint"`
	OtsInstanceName string `yaml:"otsInstanceName"`
	OtsTimeToAlive  int    `yaml:"otsTimeToAlive"`
	OtsMaxVersion   int    `yaml:"otsMaxVersion"`
	AccessKeyId     string `yaml:"accessKeyId"`
	AccessKeySecret string `yaml:"accessKeySecret"`
	AccessKeyToken  string `yaml:"accessKeyToken"`

	// oss
	OssEndpoint string `yaml:"ossEndpoint"`
	Bucket      string `yaml:"bucket"`

	// job platform
	PlatformApiUrl   string `yaml:"platformApiUrl"`   // base url format, region filled in
	PlatformTokenUrl string `yaml:"platformTokenUrl"` // token url format, tenant filled in

	// operation polling
	PollIntervalSecond int `yaml:"pollIntervalSecond"`
	WaitTimeoutSecond  int `yaml:"waitTimeoutSecond"`

	// local project bundle cache
	CodeCacheDir string `yaml:"codeCacheDir"`

	// observability
	LogRemoteService string `yaml:"logRemoteService"`
	ServerName       string `yaml:"serverName"`
}

func DefaultConfig() *Config {
	return &Config{
		DbSqlite:           "./sqlite3",
		OtsTimeToAlive:     -1,
		OtsMaxVersion:      1,
		PlatformApiUrl:     "https://%s.api.azureml.ms",
		PlatformTokenUrl:   "https://login.microsoftonline.com/%s/oauth2/v2.0/token",
		PollIntervalSecond: 10,
		WaitTimeoutSecond:  3600,
		CodeCacheDir:       "./agentCode",
		ServerName:         "agent",
		AgentId:            os.Getenv(AGENT_ID),
		AgentKey:           os.Getenv(AGENT_KEY),
		AccessKeyId:        os.Getenv(ACCESS_KEY_ID),
		AccessKeySecret:    os.Getenv(ACCESS_KEY_SECRET),
		AccessKeyToken:     os.Getenv(ACCESS_KEY_TOKEN),
	}
}

func InitConfig(fn string) error {
	ConfigGlobal = DefaultConfig()
	if fn != "" {
		data, err := os.ReadFile(fn)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(data, ConfigGlobal); err != nil {
			return err
		}
	}
	// env wins for credentials
	if v := os.Getenv(AGENT_ID); v != "" {
		ConfigGlobal.AgentId = v
	}
	if v := os.Getenv(AGENT_KEY); v != "" {
		ConfigGlobal.AgentKey = v
	}
	if ConfigGlobal.AgentId == "" || ConfigGlobal.AgentKey == "" {
		return errors.New("not set AGENT_ID || AGENT_KEY, please check")
	}
	return nil
}

// PlatformApiBase base url of the job platform for one region
func (c *Config) PlatformApiBase(region string) string {
	return fmt.Sprintf(c.PlatformApiUrl, region)
}

// PlatformTokenEndpoint token endpoint for one tenant
func (c *Config) PlatformTokenEndpoint(tenantId string) string {
	return fmt.Sprintf(c.PlatformTokenUrl, tenantId)
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSecond) * time.Second
}

func (c *Config) WaitTimeout() time.Duration {
	return time.Duration(c.WaitTimeoutSecond) * time.Second
}

func (c *Config) SendLogToRemote() bool {
	return c.LogRemoteService != ""
}
