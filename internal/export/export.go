package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/sleeper-tradebot/internal/trade"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/tradebot"
)

const (
	// RostersFile and TradesFile receive the two rendered text blocks.
	RostersFile = "rosters_with_adp.txt"
	TradesFile  = "trade_suggestions.txt"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ParseFormat accepts "", "csv" or "json". The empty format disables the
// structured export.
func ParseFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// ExportOptions configures the export behavior
type ExportOptions struct {
	Format         ExportFormat
	KindFilter     trade.Kind // 1-for-1 or 2-for-1
	OpponentFilter string     // Filter by opponent owner id
	MinGain        float64    // Only proposals at or above this gain
	OutputDir      string
}

// TradeExporter writes run results to disk
type TradeExporter struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewTradeExporter creates a new trade exporter
func NewTradeExporter(logger *zap.Logger) *TradeExporter {
	return &TradeExporter{
		logger: logger,
		now:    time.Now,
	}
}

// WriteText writes the rosters and trades blocks into dir and returns the
// written paths.
func (te *TradeExporter) WriteText(out tradebot.Output, dir string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	files := []struct {
		name string
		body string
	}{
		{RostersFile, out.Rosters},
		{TradesFile, out.Trades},
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte(f.body), 0644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		paths = append(paths, path)
	}

	te.logger.Info("Files written", zap.String("dir", dir), zap.Strings("files", paths))
	return paths, nil
}

// ExportTrades exports proposals based on the provided options
func (te *TradeExporter) ExportTrades(proposals []trade.Proposal, options ExportOptions) (string, error) {
	filtered := te.filterProposals(proposals, options)

	if len(filtered) == 0 {
		return "", fmt.Errorf("no proposals match the export criteria")
	}

	// Highest gain first, generation order on ties
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].NetGain > filtered[j].NetGain
	})

	if options.OutputDir == "" {
		options.OutputDir = "."
	}
	filename := te.generateFilename(options)
	outputPath := filepath.Join(options.OutputDir, filename)

	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	switch options.Format {
	case FormatCSV:
		err = te.exportToCSV(filtered, outputPath)
	case FormatJSON:
		err = te.exportToJSON(filtered, outputPath)
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}
	if err != nil {
		return "", err
	}

	te.logger.Info("Proposals exported",
		zap.String("file", outputPath),
		zap.Int("count", len(filtered)),
		zap.String("format", string(options.Format)))

	return outputPath, nil
}

// filterProposals applies filters to the proposal list
func (te *TradeExporter) filterProposals(proposals []trade.Proposal, options ExportOptions) []trade.Proposal {
	var filtered []trade.Proposal

	for _, p := range proposals {
		if options.KindFilter != "" && p.Kind != options.KindFilter {
			continue
		}
		if options.OpponentFilter != "" && p.OpponentID != options.OpponentFilter {
			continue
		}
		if p.NetGain < options.MinGain {
			continue
		}
		filtered = append(filtered, p)
	}

	return filtered
}

// generateFilename creates a filename based on export options
func (te *TradeExporter) generateFilename(options ExportOptions) string {
	timestamp := te.now().Format("20060102_150405")

	prefix := "trades_all"
	if options.KindFilter != "" {
		prefix = fmt.Sprintf("trades_%s", options.KindFilter)
	}

	if options.OpponentFilter != "" {
		id := options.OpponentFilter
		if len(id) > 8 {
			id = id[:8]
		}
		prefix += "_" + id
	}

	return fmt.Sprintf("%s_%s.%s", prefix, timestamp, options.Format)
}

// ProposalRecord is the flat form of a proposal used by both formats.
type ProposalRecord struct {
	Rank         int      `json:"rank"`
	Kind         string   `json:"kind"`
	OpponentID   string   `json:"opponent_id"`
	OpponentName string   `json:"opponent_name"`
	Offered      []string `json:"offered"`
	OfferedADP   float64  `json:"offered_adp"`
	Received     string   `json:"received"`
	ReceivedADP  float64  `json:"received_adp"`
	NetGain      float64  `json:"net_gain"`
}

// CSVHeaders returns the CSV header row
func CSVHeaders() []string {
	return []string{"rank", "kind", "opponent_id", "opponent_name", "offered", "offered_adp", "received", "received_adp", "net_gain"}
}

// ToCSV converts a record to a CSV row
func (r ProposalRecord) ToCSV() []string {
	return []string{
		strconv.Itoa(r.Rank),
		r.Kind,
		r.OpponentID,
		r.OpponentName,
		strings.Join(r.Offered, " + "),
		strconv.FormatFloat(r.OfferedADP, 'f', 2, 64),
		r.Received,
		strconv.FormatFloat(r.ReceivedADP, 'f', 2, 64),
		strconv.FormatFloat(r.NetGain, 'f', 2, 64),
	}
}

// Records flattens proposals, ranking them from 1 in slice order.
func Records(proposals []trade.Proposal) []ProposalRecord {
	records := make([]ProposalRecord, 0, len(proposals))
	for i, p := range proposals {
		offered := make([]string, len(p.Offered))
		for j, o := range p.Offered {
			offered[j] = o.Name
		}
		records = append(records, ProposalRecord{
			Rank:         i + 1,
			Kind:         string(p.Kind),
			OpponentID:   p.OpponentID,
			OpponentName: p.OpponentName,
			Offered:      offered,
			OfferedADP:   p.OfferedADP(),
			Received:     p.Received.Name,
			ReceivedADP:  p.Received.ADP,
			NetGain:      p.NetGain,
		})
	}
	return records
}

// exportToCSV exports proposals to CSV format
func (te *TradeExporter) exportToCSV(proposals []trade.Proposal, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(CSVHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range Records(proposals) {
		if err := writer.Write(r.ToCSV()); err != nil {
			return fmt.Errorf("failed to write proposal: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// exportToJSON exports proposals to JSON format
func (te *TradeExporter) exportToJSON(proposals []trade.Proposal, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	exportData := struct {
		ExportTime    time.Time        `json:"export_time"`
		ProposalCount int              `json:"proposal_count"`
		Proposals     []ProposalRecord `json:"proposals"`
		Summary       ExportSummary    `json:"summary"`
	}{
		ExportTime:    te.now(),
		ProposalCount: len(proposals),
		Proposals:     Records(proposals),
		Summary:       CalculateSummary(proposals),
	}

	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// ExportSummary contains summary statistics for exported proposals
type ExportSummary struct {
	TotalProposals  int      `json:"total_proposals"`
	OneForOneCount  int      `json:"one_for_one_count"`
	TwoForOneCount  int      `json:"two_for_one_count"`
	UniqueOpponents int      `json:"unique_opponents"`
	Opponents       []string `json:"opponents"`
	BestGain        float64  `json:"best_gain"`
	AvgGain         float64  `json:"avg_gain"`
}

// CalculateSummary calculates summary statistics for proposals
func CalculateSummary(proposals []trade.Proposal) ExportSummary {
	summary := ExportSummary{
		TotalProposals: len(proposals),
		Opponents:      []string{},
	}

	if len(proposals) == 0 {
		return summary
	}

	seen := make(map[string]bool)
	var total float64
	for i, p := range proposals {
		switch p.Kind {
		case trade.OneForOne:
			summary.OneForOneCount++
		case trade.TwoForOne:
			summary.TwoForOneCount++
		}

		if i == 0 || p.NetGain > summary.BestGain {
			summary.BestGain = p.NetGain
		}
		total += p.NetGain

		if !seen[p.OpponentName] {
			seen[p.OpponentName] = true
			summary.Opponents = append(summary.Opponents, p.OpponentName)
		}
	}

	summary.UniqueOpponents = len(summary.Opponents)
	summary.AvgGain = total / float64(len(proposals))

	return summary
}
