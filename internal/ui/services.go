package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/sleeper-tradebot/internal/adp"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/export"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/tradebot"
)

// Runner is the part of tradebot.Engine the UI depends on
type Runner interface {
	RunReport(ctx context.Context, matcher *adp.Matcher, req tradebot.Request) (tradebot.Output, *tradebot.Report, error)
}

// Services bundles everything screens need to do work
type Services struct {
	Ctx          context.Context
	Runner       Runner
	Matcher      *adp.Matcher
	Exporter     *export.TradeExporter
	OutputDir    string
	ExportFormat export.ExportFormat
	Defaults     tradebot.Request
	Logger       *zap.Logger
}

func (s *Services) context() context.Context {
	if s.Ctx == nil {
		return context.Background()
	}
	return s.Ctx
}

// RunCmd executes one run off the UI goroutine
func (s *Services) RunCmd(seq int, req tradebot.Request) tea.Cmd {
	return func() tea.Msg {
		out, rep, err := s.Runner.RunReport(s.context(), s.Matcher, req)
		return RunFinishedMsg{Seq: seq, Output: out, Report: rep, Err: err}
	}
}

// ExportCmd writes the text blocks and, when configured, the structured export
func (s *Services) ExportCmd(out tradebot.Output, rep *tradebot.Report) tea.Cmd {
	return func() tea.Msg {
		paths, err := s.Exporter.WriteText(out, s.OutputDir)
		if err != nil {
			return ExportFinishedMsg{Paths: paths, Err: err}
		}

		if s.ExportFormat != "" && rep != nil && len(rep.Proposals) > 0 {
			path, err := s.Exporter.ExportTrades(rep.Proposals, export.ExportOptions{
				Format:    s.ExportFormat,
				MinGain:   rep.Request.MinGain,
				OutputDir: s.OutputDir,
			})
			if err != nil {
				return ExportFinishedMsg{Paths: paths, Err: err}
			}
			paths = append(paths, path)
		}
		return ExportFinishedMsg{Paths: paths}
	}
}
