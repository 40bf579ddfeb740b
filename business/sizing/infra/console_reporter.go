// Package infra contains infrastructure adapters for the sizing context.
package infra

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"time"

	"github.com/dloop-labs/flashsizer/business/sizing/domain"
	swapDomain "github.com/dloop-labs/flashsizer/business/swap/domain"
	"github.com/dloop-labs/flashsizer/internal/asset"
)

// ConsoleReporter implements Reporter for CLI output.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a new ConsoleReporter.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{
		out: os.Stdout,
	}
}

// NewConsoleReporterTo creates a ConsoleReporter writing to w.
func NewConsoleReporterTo(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: w}
}

// Start initializes the console reporter.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "Flash Sizer Started")
	fmt.Fprintln(r.out, "===================")
	return nil
}

// ReportDecision outputs one sizing decision to the console.
func (r *ConsoleReporter) ReportDecision(op domain.Operation, decision domain.Decision) {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "================================================================================")
	if decision.Proceed {
		fmt.Fprintln(r.out, "SIZING DECISION: PROCEED")
	} else {
		fmt.Fprintf(r.out, "SIZING DECISION: REJECT (%s)\n", decision.Reason)
	}
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "Timestamp:      %s\n", decision.EvaluatedAt.Format(time.RFC3339))
	fmt.Fprintf(r.out, "Operation:      %s %s\n", op.Kind, fmtAmount(op.Out.Asset, op.Amount))
	if decision.CurrentLeverageBps != nil {
		fmt.Fprintf(r.out, "Leverage:       %s bps\n", decision.CurrentLeverageBps)
	}
	if decision.RequiredOutput != nil {
		fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
		fmt.Fprintln(r.out, "SWAP")
		fmt.Fprintf(r.out, "  Required Out: %s\n", fmtAmount(op.Out.Asset, decision.RequiredOutput))
		if decision.MaxSwapInput != nil {
			fmt.Fprintf(r.out, "  Max Input:    %s\n", fmtAmount(op.In.Asset, decision.MaxSwapInput))
		}
	}
	if decision.Proceed {
		fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
		fmt.Fprintln(r.out, "FLASH LOAN")
		fmt.Fprintf(r.out, "  Principal:    %s\n", fmtAmount(op.In.Asset, decision.FlashPrincipal))
		fmt.Fprintf(r.out, "  Fee:          %s\n", fmtAmount(op.In.Asset, decision.FlashFee))
		fmt.Fprintf(r.out, "  Net Profit:   %s\n", fmtAmount(op.In.Asset, decision.ExpectedNetProfit))
	}
	fmt.Fprintln(r.out, "================================================================================")
}

// ReportSettlement outputs a validated swap settlement.
func (r *ConsoleReporter) ReportSettlement(settlement swapDomain.Settlement, surplus *big.Int) {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "SWAP SETTLED")
	fmt.Fprintf(r.out, "  Spent:        %s\n", settlement.AmountSpent)
	fmt.Fprintf(r.out, "  Received:     %s\n", settlement.AmountReceived)
	if surplus != nil && surplus.Sign() > 0 {
		fmt.Fprintf(r.out, "  Surplus:      %s\n", surplus)
	}
}

// Stop gracefully shuts down the console reporter.
func (r *ConsoleReporter) Stop() error {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Flash Sizer Stopped")
	return nil
}

// fmtAmount renders a base-unit value in the asset's display decimals,
// e.g. "295 dUSD". Values without an asset fall back to raw units.
func fmtAmount(a *asset.Asset, v *big.Int) string {
	if v == nil {
		return "-"
	}
	if a == nil || v.Sign() < 0 {
		return v.String()
	}
	return asset.NewAmount(a, v).String()
}
