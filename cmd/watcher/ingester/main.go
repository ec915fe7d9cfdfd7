// Package main contains placeholder entrypoint for the watcher block ingester.
package main

var config struct {
	PostgresDSN string `long:"postgres-dsn" env:"WATCHER_INGESTER_POSTGRES_DSN" description:"postgres dsn"`
	ChildChain  string `long:"child-chain-url" env:"WATCHER_INGESTER_CHILD_CHAIN_URL" description:"child chain block feed url"`
	MetricsAddr string `long:"metrics-addr" env:"WATCHER_INGESTER_METRICS_ADDR" description:"address for metrics server"`
}

func main() {
	_ = config
	// todo
}
