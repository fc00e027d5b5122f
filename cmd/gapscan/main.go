package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"gapscan/pkg/gapfill"
	"gapscan/pkg/marketclock"
	"gapscan/pkg/marketdata"
	"gapscan/pkg/notify"
	"gapscan/pkg/report"
	"gapscan/pkg/risk"
	"gapscan/pkg/tradelog"
)

const (
	tradeLogPath   = "gap_fill_trades.csv"
	runSummaryPath = "data/gapscan/run_summary.json"
)

var watchlist = []string{"RIVN", "LYFT", "WULF", "NET", "OKTA"}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	logger := zap.Must(zap.NewProduction())
	defer func() { _ = logger.Sync() }()

	apiKey := os.Getenv("ALPACA_API_KEY")
	apiSecret := os.Getenv("ALPACA_SECRET_KEY")
	if apiKey == "" || apiSecret == "" {
		logger.Fatal("ALPACA_API_KEY and ALPACA_SECRET_KEY must be set")
	}

	clock, err := marketclock.New()
	if err != nil {
		logger.Fatal("market clock unavailable", zap.Error(err))
	}

	run := report.NewRun(clock.Now())
	logger = logger.With(zap.String("run_id", run.ID()))

	notifier := notify.FromEnv(os.Getenv("TELEGRAM_TOKEN"), os.Getenv("TELEGRAM_CHAT_ID"), logger)
	provider := marketdata.NewAlpaca(apiKey, apiSecret, os.Getenv("ALPACA_BASE_URL"), logger)

	ctx := context.Background()
	announce := func(text string) {
		logger.Info(text)
		if err := notifier.Send(ctx, text); err != nil {
			logger.Error("notification failed", zap.Error(err))
		}
	}

	logger.Info("starting gap scanner", zap.Strings("watchlist", watchlist))
	clock.WaitForOpen(announce)

	scanner := &gapfill.Scanner{
		Evaluator: gapfill.NewEvaluator(provider, logger, clock.Location()),
		Notifier:  notifier,
		Log:       &tradelog.Recorder{Path: tradeLogPath},
		Sizer:     sizerFromEnv(logger),
		Report:    run,
		Logger:    logger,
	}
	scanner.Run(ctx, watchlist)

	if err := provider.Close(); err != nil {
		logger.Error("provider close failed", zap.Error(err))
	}
	if err := run.Write(runSummaryPath); err != nil {
		logger.Error("run summary write failed", zap.Error(err))
	}
	logger.Info("scan complete")
}

// sizerFromEnv enables position sizing in alerts only when ACCOUNT_SIZE is
// set. RISK_PER_TRADE defaults to 1% of the account.
func sizerFromEnv(logger *zap.Logger) gapfill.PlanSizer {
	accountStr := os.Getenv("ACCOUNT_SIZE")
	if accountStr == "" {
		return nil
	}
	account, err := strconv.ParseFloat(accountStr, 64)
	if err != nil || account <= 0 {
		logger.Warn("invalid ACCOUNT_SIZE, sizing disabled", zap.String("value", accountStr))
		return nil
	}

	riskPerTrade := 0.01
	if riskStr := os.Getenv("RISK_PER_TRADE"); riskStr != "" {
		r, err := strconv.ParseFloat(riskStr, 64)
		if err != nil || r <= 0 {
			logger.Warn("invalid RISK_PER_TRADE, using default 1%", zap.String("value", riskStr))
		} else {
			riskPerTrade = r
		}
	}

	logger.Info("position sizing enabled",
		zap.Float64("account_size", account), zap.Float64("risk_per_trade", riskPerTrade))
	return risk.Sizer{AccountSize: account, RiskPerTrade: riskPerTrade}
}
