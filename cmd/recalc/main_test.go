package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/warp/labour-ledger/ledger"
)

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	printResults(&buf, []ledger.RecalcResult{
		{
			LabourID:        "lab-1",
			Seed:            decimal.Zero,
			PreviousBalance: decimal.NewFromInt(1009),
			Balance:         decimal.NewFromInt(110),
			Changed:         1,
		},
		{LabourID: "lab-2", DryRun: true, Seed: decimal.NewFromInt(10), Balance: decimal.NewFromInt(10)},
		{LabourID: "lab-3", Err: errors.New("disk full")},
	})

	assert.Equal(t,
		"lab-1\tupdated\tseed=0.00\tbalance 1009.00 -> 110.00\tchanged=1\n"+
			"lab-2\tdry-run\tseed=10.00\tbalance 0.00 -> 10.00\tchanged=0\n"+
			"lab-3\tFAILED\tdisk full\n",
		buf.String())
}
