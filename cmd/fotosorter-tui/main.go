package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"fotosorter/internal/bootstrap"
	"fotosorter/internal/tui"
)

func main() {
	rt, err := bootstrap.NewRuntime("fotosorter-tui")
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := tea.NewProgram(tui.NewModel(ctx, rt.Session), tea.WithAltScreen(), tea.WithContext(ctx))
	result, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if report, ok := result.(tui.Model).Report(); ok && report.Confirmed {
		fmt.Printf("Moved %d images, %d failed.\n", report.Moved, report.Failed)
		if report.ReportPath != "" {
			fmt.Printf("Report: %s\n", report.ReportPath)
		}
	}
}
