// Command gridctl runs the grid's import, export and view operations on CSV
// files from the command line, without a server.
package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"

	_ "github.com/JonMunkholm/datagrid/internal/grid/tables" // Register all tables
	"github.com/JonMunkholm/datagrid/internal/logging"
)

func main() {
	logging.Setup(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		slog.Error("gridctl error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
