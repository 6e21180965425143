// Command folio is an interactive portfolio shell backed by the same
// application core as folio-server.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/foliotrack/folio/internal/app"
	"github.com/foliotrack/folio/internal/models"
	"github.com/foliotrack/folio/internal/services/portfolio"
	"github.com/foliotrack/folio/internal/services/pricing"
)

const dateLayout = "2006-01-02"

const helpText = `Commands:
  portfolios                       - list portfolios
  create <name>                    - create a portfolio
  use <name>                       - select the active portfolio
  add <ticker> <shares> <date>     - record a purchase (date YYYY-MM-DD)
  remove <ticker>                  - remove a holding
  summary                          - show the active portfolio
  value [date]                     - portfolio value, today or at a date
  yearly                           - year-end value series
  chart <file.png>                 - write a value chart to a PNG file
  view <ticker> [date]             - look up a closing price
  filings <ticker> [forms...]      - recent SEC filings (e.g. filings AAPL 10-K)
  help                             - show this help
  exit                             - quit`

type shell struct {
	app    *app.App
	active string
	prices *pricing.Resolver // ad-hoc lookups outside any portfolio
	out    *bufio.Writer
}

func main() {
	a, err := app.NewApp(os.Getenv("FOLIO_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
		fmt.Fprintln(os.Stderr)
		os.Exit(0)
	}()

	sh := &shell{
		app:    a,
		active: "main",
		prices: pricing.NewResolver(pricing.NewCache(), a.Logger, a.Config.Pricing.LookbackDays, a.PriceSources...),
		out:    bufio.NewWriter(os.Stdout),
	}
	sh.ensureActive(ctx)

	fmt.Printf("Folio - %s - type 'help' for commands.\n", time.Now().Format("2006-01-02 15:04:05"))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("\n%s> ", sh.active)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		sh.dispatch(ctx, line)
		sh.out.Flush()
	}
}

// ensureActive creates the default portfolio on first run.
func (sh *shell) ensureActive(ctx context.Context) {
	if _, err := sh.app.PortfolioService.GetPortfolio(ctx, sh.active); err != nil {
		if _, err := sh.app.PortfolioService.CreatePortfolio(ctx, sh.active); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create portfolio %q: %v\n", sh.active, err)
		}
	}
}

func (sh *shell) dispatch(ctx context.Context, line string) {
	fields := strings.Fields(line)
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "help":
		fmt.Fprintln(sh.out, helpText)
	case "portfolios":
		sh.cmdPortfolios(ctx)
	case "create":
		sh.cmdCreate(ctx, args)
	case "use":
		sh.cmdUse(ctx, args)
	case "add":
		sh.cmdAdd(ctx, args)
	case "remove":
		sh.cmdRemove(ctx, args)
	case "summary":
		sh.cmdSummary(ctx)
	case "value":
		sh.cmdValue(ctx, args)
	case "yearly":
		sh.cmdYearly(ctx)
	case "chart":
		sh.cmdChart(ctx, args)
	case "view":
		sh.cmdView(ctx, args)
	case "filings":
		sh.cmdFilings(ctx, args)
	default:
		fmt.Fprintf(sh.out, "Unknown command %q. Type 'help' for a list of commands.\n", cmd)
	}
}

func (sh *shell) cmdPortfolios(ctx context.Context) {
	names, err := sh.app.PortfolioService.ListPortfolios(ctx)
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	if len(names) == 0 {
		fmt.Fprintln(sh.out, "No portfolios.")
		return
	}
	for _, name := range names {
		marker := " "
		if name == sh.active {
			marker = "*"
		}
		fmt.Fprintf(sh.out, "%s %s\n", marker, name)
	}
}

func (sh *shell) cmdCreate(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(sh.out, "Usage: create <name>")
		return
	}
	if _, err := sh.app.PortfolioService.CreatePortfolio(ctx, args[0]); err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	sh.active = args[0]
	fmt.Fprintf(sh.out, "Created portfolio %q.\n", args[0])
}

func (sh *shell) cmdUse(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(sh.out, "Usage: use <name>")
		return
	}
	if _, err := sh.app.PortfolioService.GetPortfolio(ctx, args[0]); err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	sh.active = args[0]
}

func (sh *shell) cmdAdd(ctx context.Context, args []string) {
	if len(args) != 3 {
		fmt.Fprintln(sh.out, "Usage: add <ticker> <shares> <YYYY-MM-DD>")
		return
	}
	shares, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		fmt.Fprintf(sh.out, "Invalid share count %q.\n", args[1])
		return
	}
	date, err := time.Parse(dateLayout, args[2])
	if err != nil {
		fmt.Fprintf(sh.out, "Invalid date %q, expected YYYY-MM-DD.\n", args[2])
		return
	}

	p, err := sh.app.PortfolioService.Purchase(ctx, sh.active, args[0], shares, date)
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	ticker := models.NormalizeTicker(args[0])
	h := p.Holdings[ticker]
	fmt.Fprintf(sh.out, "Added %d shares of %s. Now %d shares at avg cost %.2f.\n",
		shares, ticker, h.Shares, h.CostBasis)
}

func (sh *shell) cmdRemove(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(sh.out, "Usage: remove <ticker>")
		return
	}
	if _, err := sh.app.PortfolioService.RemoveHolding(ctx, sh.active, args[0]); err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(sh.out, "Removed %s.\n", models.NormalizeTicker(args[0]))
}

func (sh *shell) cmdSummary(ctx context.Context) {
	report, err := sh.app.PortfolioService.Summary(ctx, sh.active)
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}

	if len(report.Holdings) == 0 && len(report.Warnings) == 0 {
		fmt.Fprintln(sh.out, "Portfolio is empty.")
		return
	}

	w := tabwriter.NewWriter(sh.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TICKER\tSHARES\tAVG COST\tPRICE\tVALUE\tCHANGE")
	for _, h := range report.Holdings {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%.2f\t%+.2f%%\n",
			h.Ticker, h.Shares, h.CostBasis, h.CurrentPrice, h.Value, h.ChangePct)
	}
	w.Flush()

	fmt.Fprintf(sh.out, "\nTotal Portfolio Value: %.2f\n", report.TotalValue)
	fmt.Fprintf(sh.out, "Total Portfolio Change: %+.2f%%\n", report.TotalReturnPct)
	printWarnings(sh.out, report.Warnings)
}

func (sh *shell) cmdValue(ctx context.Context, args []string) {
	date := time.Now()
	if len(args) == 1 {
		parsed, err := time.Parse(dateLayout, args[0])
		if err != nil {
			fmt.Fprintf(sh.out, "Invalid date %q, expected YYYY-MM-DD.\n", args[0])
			return
		}
		date = parsed
	}

	v, err := sh.app.PortfolioService.ValueAt(ctx, sh.active, date)
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(sh.out, "Value at %s: %.2f\n", v.Date.Format(dateLayout), v.Value)
	printWarnings(sh.out, v.Warnings)
}

func (sh *shell) cmdYearly(ctx context.Context) {
	series, err := sh.app.PortfolioService.YearlySeries(ctx, sh.active)
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	if len(series) == 0 {
		fmt.Fprintln(sh.out, "Portfolio is empty.")
		return
	}

	w := tabwriter.NewWriter(sh.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "YEAR\tVALUE\tCHANGE")
	for _, yv := range series {
		change := "-"
		if yv.ChangePct != nil {
			change = fmt.Sprintf("%+.2f%%", *yv.ChangePct)
		}
		fmt.Fprintf(w, "%d\t%.2f\t%s\n", yv.Year, yv.Value, change)
	}
	w.Flush()
}

func (sh *shell) cmdChart(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(sh.out, "Usage: chart <file.png>")
		return
	}

	points, err := sh.app.PortfolioService.DailySeries(ctx, sh.active)
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}

	png, err := portfolio.RenderValueChart(sh.active, points)
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}

	if err := os.WriteFile(args[0], png, 0o644); err != nil {
		fmt.Fprintf(sh.out, "Error writing %s: %v\n", args[0], err)
		return
	}
	fmt.Fprintf(sh.out, "Wrote chart to %s.\n", args[0])
}

func (sh *shell) cmdView(ctx context.Context, args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(sh.out, "Usage: view <ticker> [YYYY-MM-DD]")
		return
	}

	date := time.Now()
	if len(args) == 2 {
		parsed, err := time.Parse(dateLayout, args[1])
		if err != nil {
			fmt.Fprintf(sh.out, "Invalid date %q, expected YYYY-MM-DD.\n", args[1])
			return
		}
		date = parsed
	}

	price, err := sh.prices.Resolve(ctx, args[0], date)
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(sh.out, "%s close near %s: %.2f\n",
		models.NormalizeTicker(args[0]), pricing.NearestTradingDay(date).Format(dateLayout), price)
}

func (sh *shell) cmdFilings(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(sh.out, "Usage: filings <ticker> [forms...]")
		return
	}

	filings, err := sh.app.FilingsService.List(ctx, args[0], args[1:], 10)
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	if len(filings) == 0 {
		fmt.Fprintln(sh.out, "No filings found.")
		return
	}

	w := tabwriter.NewWriter(sh.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FORM\tFILED\tURL")
	for _, f := range filings {
		fmt.Fprintf(w, "%s\t%s\t%s\n", f.FormType, f.FiledDate.Format(dateLayout), f.URL)
	}
	w.Flush()
}

func printWarnings(out *bufio.Writer, warnings []models.ValuationWarning) {
	for _, warn := range warnings {
		fmt.Fprintf(out, "Warning: %s: %s\n", warn.Ticker, warn.Reason)
	}
}
