package log

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/Azure/aace/pkg/config"
	"github.com/Azure/aace/pkg/utils"
)

// batched telemetry upload
const (
	defaultCacheCount = 64
	defaultCacheSize  = 16 * 1024 // 16KB
	logPath           = "collect/log"
)

var AgentLogInstance = NewAgentLog()

// Record one message queued for dispatch. The operation id travels with the
// message so consumption order never detaches them.
type Record struct {
	OperationId string
	Msg         string
}

// Log one telemetry record shipped to the control plane
type Log struct {
	AgentId     string `json:"agentId"`
	Level       string `json:"level"`
	Ts          int64  `json:"ts"`
	Msg         string `json:"msg"`
	OperationId string `json:"operationId"`
	Source      string `json:"source"`
}

func (l *Log) Size() int {
	return len(l.Msg)
}

// AgentLog operation-scoped log dispatcher. Local logging always goes
// through logrus; records carrying an operation id are additionally batched
// and posted to the control plane when remote logging is enabled.
type AgentLog struct {
	cacheLog []*Log
	LogFlow  chan Record
	closeLog chan struct{}
}

func NewAgentLog() *AgentLog {
	agentLog := &AgentLog{
		LogFlow:  make(chan Record, 8192),
		cacheLog: make([]*Log, 0, defaultCacheCount),
		closeLog: make(chan struct{}),
	}
	go agentLog.consumeLog()
	return agentLog
}

func (a *AgentLog) consumeLog() {
	cacheSize := 0
	for {
		select {
		case record := <-a.LogFlow:
			if record.OperationId != "" {
				logrus.WithFields(logrus.Fields{
					"operationId": record.OperationId,
				}).Info(record.Msg)
				if config.ConfigGlobal.SendLogToRemote() {
					logObj := &Log{
						AgentId:     config.ConfigGlobal.AgentId,
						Ts:          utils.TimestampMS(),
						Msg:         record.Msg,
						OperationId: record.OperationId,
						Source:      config.ConfigGlobal.ServerName,
						Level:       "info",
					}
					if cacheSize >= defaultCacheSize || len(a.cacheLog) >= defaultCacheCount {
						if body, err := json.Marshal(a.cacheLog); err == nil {
							go monitor.Post(body, logPath)
						}
						a.cacheLog = a.cacheLog[:0]
						cacheSize = 0
					}
					a.cacheLog = append(a.cacheLog, logObj)
					cacheSize += logObj.Size()
				}
			} else {
				logrus.Info(record.Msg)
			}
		case <-a.closeLog:
			return
		}
	}
}

func (a *AgentLog) Close() {
	a.closeLog <- struct{}{}
	// flush
	if len(a.cacheLog) > 0 {
		if body, err := json.Marshal(a.cacheLog); err == nil {
			monitor.Post(body, logPath)
		}
	}
}
