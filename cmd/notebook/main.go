package main

import (
	"context"
	"flag"
	"fmt"
	"myNotebook/internal/cli"
	"myNotebook/internal/config"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "путь к config.yml")
	flag.Usage = func() { cli.PrintHelp(os.Stderr) }
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := cli.Run(ctx, flag.Args(), cli.Options{
		ConfigPath: *configPath,
	})
	stop()

	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
