package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/shopseed/shopseed/pkg/database/mysql"
	_ "github.com/shopseed/shopseed/pkg/database/postgres"
	_ "github.com/shopseed/shopseed/pkg/database/sqlite"

	"github.com/shopseed/shopseed/internal/app"
	"github.com/shopseed/shopseed/internal/config"
	"github.com/shopseed/shopseed/pkg/support/logger"
)

// embeddedConfig embeds the application's YAML configuration file so the
// binary runs without any external files.
//
//go:embed resources/application.yaml
var embeddedConfig []byte

// migrationsFS bundles the SQL schema migrations into the binary.
//
//go:embed all:resources/migrations
var migrationsFS embed.FS

// properties collects repeated -D key=value flags. Dotted keys address
// nested configuration, e.g. -D generator.payments.batch_size=5000.
type properties map[string]interface{}

func (p properties) String() string { return fmt.Sprintf("%v", map[string]interface{}(p)) }

func (p properties) Set(kv string) error {
	key, value, ok := strings.Cut(kv, "=")
	if !ok || key == "" {
		return fmt.Errorf("property must be key=value, got '%s'", kv)
	}

	// "jobs" takes a comma list so the whole sequence can be overridden.
	var leaf interface{} = value
	if key == "jobs" {
		parts := strings.Split(value, ",")
		list := make([]interface{}, 0, len(parts))
		for _, part := range parts {
			if part = strings.TrimSpace(part); part != "" {
				list = append(list, part)
			}
		}
		leaf = list
	}

	// Build the nested map for dotted keys.
	segments := strings.Split(key, ".")
	node := map[string]interface{}(p)
	for _, seg := range segments[:len(segments)-1] {
		child, ok := node[seg].(map[string]interface{})
		if !ok {
			child = make(map[string]interface{})
			node[seg] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = leaf
	return nil
}

func main() {
	overrides := make(properties)
	envFilePath := flag.String("env-file", "", "path to a .env file (default: .env when present)")
	flag.Var(overrides, "D", "configuration override as key=value; repeatable")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Warnf("Received signal '%v'. Stopping the run...", sig)
		cancel()
	}()

	path := *envFilePath
	if path == "" {
		path = os.Getenv("ENV_FILE_PATH")
	}

	if err := app.RunApplication(ctx, path, config.EmbeddedConfig(embeddedConfig), migrationsFS, overrides); err != nil {
		logger.Fatalf("Application run failed: %v", err)
	}
}
