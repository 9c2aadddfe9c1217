// Package main provides the transaction processor CLI. It reads a
// transaction CSV, applies it concurrently per client account and prints the
// final account table to stdout.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/rs/zerolog/log"

	"github.com/go-petr/tx-processor/internal/engine"
	"github.com/go-petr/tx-processor/internal/input"
	"github.com/go-petr/tx-processor/internal/report"
	"github.com/go-petr/tx-processor/pkg/configpkg"
	"github.com/go-petr/tx-processor/pkg/logpkg"
)

const usage = `usage: txprocessor <transactions.csv>

The file must start with the header line "type,client,tx,amount", e.g.:

	type,client,tx,amount
	deposit,1,1,1.0
	withdrawal,1,2,0.5
	deposit,2,3,1.0
	dispute,2,3
	resolve,2,3,
	dispute,2,3
	chargeback,2,3`

func main() {
	config, err := configpkg.Load(".")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := logpkg.New(config)

	if config.Workers > 0 {
		runtime.GOMAXPROCS(config.Workers)
	}

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	file, err := os.Open(os.Args[1])
	if err != nil {
		logger.Error().Err(err).Str("path", os.Args[1]).Msg("cannot open transactions file")
		os.Exit(1)
	}
	defer file.Close()

	ctx := logger.WithContext(context.Background())

	src, err := input.NewReader(ctx, file)
	if err != nil {
		logger.Error().Err(err).Str("path", os.Args[1]).Msg("cannot read transactions file")
		os.Exit(1)
	}

	accounts := engine.Run(ctx, src, engine.Options{
		ActorBuffer: config.ActorBuffer,
		TxDelay:     config.TxDelay,
	})

	if err := report.Write(os.Stdout, accounts); err != nil {
		logger.Error().Err(err).Msg("cannot write account report")
		os.Exit(1)
	}
}
