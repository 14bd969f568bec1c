package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"shopping-agent/internal/application/port/input"
	"shopping-agent/internal/di"
	"shopping-agent/internal/infrastructure/config"
	"shopping-agent/internal/infrastructure/userinteraction"

	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML config file")
	timeout := pflag.Duration("timeout", 5*time.Minute, "overall request timeout")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	request := strings.TrimSpace(strings.Join(pflag.Args(), " "))
	if request == "" {
		request, err = readRequest()
		if err != nil {
			log.Fatal("Failed to read request: ", err)
		}
	}
	if request == "" {
		log.Fatal("Empty request")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	progress := userinteraction.NewConsoleProgress()
	container, err := di.NewContainer(ctx, cfg, di.Options{Progress: progress, LogName: "agent"})
	if err != nil {
		log.Fatalf("Initialization failed: %v", err)
	}

	container.Logger.Info("Request started", "request", request)

	result, err := container.Agent.Execute(ctx, request)
	if err != nil {
		container.Logger.Error("Request failed", "error", err)
		fmt.Println(input.RenderError(err))
		container.Close()
		os.Exit(1)
	}

	container.Logger.Info("Request completed",
		"conversationId", result.ConversationID,
		"roundTrips", result.RoundTrips,
		"droppedToolCalls", result.DroppedToolCalls)
	progress.ShowAnswer(os.Stdout, result.Answer)
	container.Close()
}

func readRequest() (string, error) {
	fmt.Fprintln(os.Stderr, "\nWhat are you looking for?")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
