package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/seralys/inciwise/internal/storage"
)

// ReviewAction identifies what the reviewer chose to do with a result.
type ReviewAction int

const (
	// ReviewAccept confirms the predicted category.
	ReviewAccept ReviewAction = iota
	// ReviewOverride replaces the prediction with another category.
	ReviewOverride
	// ReviewSkip leaves the result unreviewed.
	ReviewSkip
	// ReviewQuit ends the review session.
	ReviewQuit
)

// ReviewDecision is the outcome of prompting for one result.
type ReviewDecision struct {
	Category string
	Action   ReviewAction
}

// ReviewStats summarizes a review session.
type ReviewStats struct {
	Duration   time.Duration
	Total      int
	Accepted   int
	Overridden int
	Skipped    int
}

// Prompter runs the interactive review session for stored results.
type Prompter struct {
	startTime        time.Time
	writer           io.Writer
	input            *NonBlockingReader
	progressBar      *progressbar.ProgressBar
	recentCategories []string
	stats            ReviewStats
	totalResults     int
	statsMutex       sync.RWMutex
	historyMutex     sync.RWMutex
}

// NewPrompter creates a new review prompter with the given reader and writer.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &Prompter{
		input:     NewNonBlockingReader(reader),
		writer:    writer,
		startTime: time.Now(),
	}
}

// ReviewResult prompts the user to confirm or override one result's category.
func (p *Prompter) ReviewResult(ctx context.Context, res *storage.Result) (ReviewDecision, error) {
	select {
	case <-ctx.Done():
		return ReviewDecision{}, ctx.Err()
	default:
	}

	p.updateProgress()

	content := p.formatResult(res)
	if _, err := fmt.Fprintln(p.writer, RenderBox("Product Review", content)); err != nil {
		return ReviewDecision{}, fmt.Errorf("failed to write review box: %w", err)
	}

	if _, err := fmt.Fprintf(p.writer, "  [A] Accept prediction: %s\n", SuccessStyle.Render(res.Category)); err != nil {
		return ReviewDecision{}, fmt.Errorf("failed to write accept option: %w", err)
	}
	for i := range res.Alternatives {
		if _, err := fmt.Fprintf(p.writer, "  [%d] Use alternative: %s\n", i+1, res.Alternatives[i].Category); err != nil {
			return ReviewDecision{}, fmt.Errorf("failed to write alternative option: %w", err)
		}
	}
	if _, err := fmt.Fprintln(p.writer, "  [C] Enter custom category"); err != nil {
		return ReviewDecision{}, fmt.Errorf("failed to write custom option: %w", err)
	}
	if _, err := fmt.Fprintln(p.writer, "  [S] Skip this product"); err != nil {
		return ReviewDecision{}, fmt.Errorf("failed to write skip option: %w", err)
	}
	if _, err := fmt.Fprintln(p.writer, "  [Q] Quit review session"); err != nil {
		return ReviewDecision{}, fmt.Errorf("failed to write quit option: %w", err)
	}
	if _, err := fmt.Fprintln(p.writer); err != nil {
		return ReviewDecision{}, fmt.Errorf("failed to write newline: %w", err)
	}

	validChoices := []string{"a", "c", "s", "q"}
	for i := range res.Alternatives {
		validChoices = append(validChoices, strconv.Itoa(i+1))
	}

	choice, err := p.promptChoice(ctx, "Choice", validChoices)
	if err != nil {
		return ReviewDecision{}, err
	}

	switch choice {
	case "a":
		p.trackCategory(res.Category)
		p.incrementStats(ReviewAccept)
		return ReviewDecision{Action: ReviewAccept, Category: res.Category}, nil
	case "c":
		category, promptErr := p.promptCustomCategory(ctx)
		if promptErr != nil {
			return ReviewDecision{}, promptErr
		}
		p.trackCategory(category)
		p.incrementStats(ReviewOverride)
		return ReviewDecision{Action: ReviewOverride, Category: category}, nil
	case "s":
		p.incrementStats(ReviewSkip)
		return ReviewDecision{Action: ReviewSkip}, nil
	case "q":
		return ReviewDecision{Action: ReviewQuit}, nil
	default:
		idx, convErr := strconv.Atoi(choice)
		if convErr != nil || idx < 1 || idx > len(res.Alternatives) {
			return ReviewDecision{}, fmt.Errorf("unexpected choice: %s", choice)
		}
		category := res.Alternatives[idx-1].Category
		p.trackCategory(category)
		p.incrementStats(ReviewOverride)
		return ReviewDecision{Action: ReviewOverride, Category: category}, nil
	}
}

// GetStats returns statistics about the review session.
func (p *Prompter) GetStats() ReviewStats {
	p.statsMutex.RLock()
	defer p.statsMutex.RUnlock()

	stats := p.stats
	stats.Duration = time.Since(p.startTime)
	return stats
}

// SetTotalResults sets the number of results queued for review.
func (p *Prompter) SetTotalResults(total int) {
	p.totalResults = total
	p.initProgressBar()
}

// ShowCompletion displays the session summary to the user.
func (p *Prompter) ShowCompletion() {
	if p.progressBar != nil {
		if err := p.progressBar.Finish(); err != nil {
			slog.Warn("Failed to finish progress bar", "error", err)
		}
		if _, err := fmt.Fprintln(p.writer); err != nil {
			slog.Warn("Failed to write newline", "error", err)
		}
	}

	stats := p.GetStats()

	summary := fmt.Sprintf("%s Review Complete!\n\n", LotionIcon) +
		fmt.Sprintf("%s Session:\n", ChartIcon) +
		fmt.Sprintf("  • Products reviewed: %d\n", stats.Total) +
		fmt.Sprintf("  • Accepted: %d\n", stats.Accepted) +
		fmt.Sprintf("  • Overridden: %d\n", stats.Overridden) +
		fmt.Sprintf("  • Skipped: %d\n", stats.Skipped) +
		fmt.Sprintf("  • Time taken: %s\n", stats.Duration.Round(time.Second))

	if _, err := fmt.Fprintln(p.writer, RenderBox("Review Complete", summary)); err != nil {
		slog.Warn("Failed to write completion box", "error", err)
	}
}

func (p *Prompter) initProgressBar() {
	p.progressBar = progressbar.NewOptions(p.totalResults,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Reviewing products...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

func (p *Prompter) updateProgress() {
	if p.progressBar != nil {
		if err := p.progressBar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}
}

func (p *Prompter) formatResult(res *storage.Result) string {
	header := TitleStyle.Render(fmt.Sprintf("Product Review: %s", res.Title))

	details := fmt.Sprintf("%s Details:\n", InfoIcon)
	if res.Brand != "" {
		details += fmt.Sprintf("  Brand: %s\n", res.Brand)
	}
	details += fmt.Sprintf("  Dataset position: %d\n", res.Position+1)

	prediction := fmt.Sprintf("\n%s Predicted: %s %s",
		RobotIcon,
		SuccessStyle.Render(res.Category),
		SubtleStyle.Render(fmt.Sprintf("(%.0f%% confidence, %s)", res.Confidence*100, res.Reasoning)))

	if res.Flagged {
		prediction += fmt.Sprintf("\n  %s Flagged: classifier and ingredient rules disagree", WarningIcon)
	}
	if res.ManualCategory != "" {
		prediction += fmt.Sprintf("\n  %s Previously reviewed as: %s", CheckIcon, res.ManualCategory)
	}

	if len(res.Alternatives) > 0 {
		prediction += fmt.Sprintf("\n\n%s Alternatives:\n", InfoIcon)
		for i := range res.Alternatives {
			prediction += fmt.Sprintf("  [%d] %s (score %.2f)\n",
				i+1, res.Alternatives[i].Category, res.Alternatives[i].Score)
		}
	}

	return header + "\n\n" + details + prediction
}

func (p *Prompter) trackCategory(category string) {
	p.historyMutex.Lock()
	defer p.historyMutex.Unlock()

	p.recentCategories = append([]string{category}, p.recentCategories...)
	if len(p.recentCategories) > 10 {
		p.recentCategories = p.recentCategories[:10]
	}
}

func (p *Prompter) promptChoice(ctx context.Context, prompt string, validChoices []string) (string, error) {
	for {
		if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}

		input, err := p.input.ReadLine(ctx)
		if err != nil {
			if err == io.EOF {
				return "", fmt.Errorf("input terminated: %w", io.EOF)
			}
			return "", err
		}

		choice := strings.ToLower(input)

		for _, valid := range validChoices {
			if choice == valid {
				return choice, nil
			}
		}

		if _, err := fmt.Fprintln(p.writer, FormatError("Invalid choice. Please try again.")); err != nil {
			slog.Warn("Failed to write error message", "error", err)
		}
	}
}

func (p *Prompter) promptCustomCategory(ctx context.Context) (string, error) {
	if _, err := fmt.Fprintln(p.writer); err != nil {
		return "", fmt.Errorf("failed to write newline: %w", err)
	}

	p.historyMutex.RLock()
	recent := make([]string, len(p.recentCategories))
	copy(recent, p.recentCategories)
	p.historyMutex.RUnlock()

	if len(recent) > 0 {
		if _, err := fmt.Fprintln(p.writer, FormatInfo("Recent categories:")); err != nil {
			return "", fmt.Errorf("failed to write recent categories header: %w", err)
		}
		seen := make(map[string]bool)
		for _, cat := range recent {
			if !seen[cat] {
				if _, err := fmt.Fprintf(p.writer, "  • %s\n", cat); err != nil {
					slog.Warn("Failed to write recent category", "error", err)
				}
				seen[cat] = true
			}
		}
		if _, err := fmt.Fprintln(p.writer); err != nil {
			return "", fmt.Errorf("failed to write newline after categories: %w", err)
		}
	}

	for {
		if _, err := fmt.Fprint(p.writer, FormatPrompt("Enter category")); err != nil {
			return "", fmt.Errorf("failed to write category prompt: %w", err)
		}

		category, err := p.input.ReadLine(ctx)
		if err != nil {
			return "", err
		}

		if category == "" {
			if _, err := fmt.Fprintln(p.writer, FormatError("Category cannot be empty. Please try again.")); err != nil {
				slog.Warn("Failed to write empty category error", "error", err)
			}
			continue
		}

		return category, nil
	}
}

func (p *Prompter) incrementStats(action ReviewAction) {
	p.statsMutex.Lock()
	defer p.statsMutex.Unlock()

	p.stats.Total++

	switch action {
	case ReviewAccept:
		p.stats.Accepted++
	case ReviewOverride:
		p.stats.Overridden++
	case ReviewSkip:
		p.stats.Skipped++
	case ReviewQuit:
	}
}
