package log

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/aace/pkg/config"
)

var monitor = NewMonitor()

const (
	timeout = 2 * time.Second
)

type Monitor struct {
	client *http.Client
}

func NewMonitor() *Monitor {
	return &Monitor{
		client: &http.Client{Timeout: timeout},
	}
}

func (m *Monitor) Post(body []byte, path string) error {
	url := fmt.Sprintf("%s/%s", config.ConfigGlobal.LogRemoteService, path)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-agent-id", config.ConfigGlobal.AgentId)
	req.Header.Set("x-agent-key", config.ConfigGlobal.AgentKey)

	_, err = m.client.Do(req)
	return err
}
