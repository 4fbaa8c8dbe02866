package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Azure/aace/pkg/config"
	"github.com/Azure/aace/pkg/datastore"
	"github.com/Azure/aace/pkg/log"
	"github.com/Azure/aace/pkg/server"
)

const (
	defaultPort       = "8080"
	defaultDBType     = datastore.SQLite
	shutdownTimeout   = 5 * time.Second // 5s
	defaultConfigPath = "config.yaml"
)

func handleSignal() {
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")
}

func logInit(logLevel string) {
	switch logLevel {
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
		// include function and file
		logrus.SetReportCaller(true)
	case "dev":
		logrus.SetLevel(logrus.InfoLevel)
	default:
		logrus.SetLevel(logrus.WarnLevel)
	}
}

func main() {
	port := flag.String("port", defaultPort, "server listen port, default 8080")
	dbType := flag.String("dbType", string(defaultDBType), "db type default sqlite")
	configFile := flag.String("config", defaultConfigPath, "default config path")
	mode := flag.String("mode", "dev", "service work mode debug|dev|product")
	flag.Parse()
	// init log
	logInit(*mode)
	logrus.Info("agent start")

	// init config
	if err := config.InitConfig(*configFile); err != nil {
		logrus.Fatal(err.Error())
	}

	// init server and start
	agent, err := server.NewAgentServer(*port, datastore.DatastoreType(*dbType), *mode)
	if err != nil {
		logrus.Fatalf("agent server init fail: %s", err.Error())
	}
	go agent.Start()

	// wait shutdown signal
	handleSignal()

	log.AgentLogInstance.Close()
	if err := agent.Close(shutdownTimeout); err != nil {
		logrus.Fatal("Shutdown server fail")
	}

	logrus.Info("Server exited")
}
