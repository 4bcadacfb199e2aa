// X1-EVM: Single-frame EVM bytecode runner
//
// This is the main entry point for X1-EVM, a standalone interpreter that
// executes one contract frame against one input buffer, with optional
// persistent contract storage and an outcome record store.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/holiman/uint256"

	"github.com/fortiblox/X1-EVM/internal/types"
	"github.com/fortiblox/X1-EVM/pkg/evm"
	"github.com/fortiblox/X1-EVM/pkg/runstore"
	"github.com/fortiblox/X1-EVM/pkg/state"
)

// Version information
var (
	Version   = "0.1.0"
	GitCommit = "dev"
)

// Configuration flags
var (
	codeHex     = flag.String("code", "", "Bytecode to execute, hex encoded")
	codeFile    = flag.String("code-file", "", "File containing hex-encoded bytecode")
	inputHex    = flag.String("input", "", "Call data, hex encoded")
	dataDir     = flag.String("data-dir", "", "Data directory; enables persistent storage and SLOAD/SSTORE")
	record      = flag.Bool("record", false, "Record the outcome in the run store (requires -data-dir)")
	trace       = flag.Bool("trace", false, "Print a per-instruction trace to stderr")
	maxSteps    = flag.Uint64("max-steps", 0, "Abort after this many instructions (0 = unbounded)")
	maxMemory   = flag.Uint64("max-memory", 0, "Abort when memory would exceed this many bytes (0 = unbounded)")
	address     = flag.String("address", "", "Executing contract address, hex encoded")
	caller      = flag.String("caller", "", "Caller address, hex encoded")
	value       = flag.Uint64("value", 0, "Call value")
	blockNumber = flag.Uint64("block-number", 0, "Block number exposed to NUMBER")
	timestamp   = flag.Uint64("timestamp", 0, "Block timestamp exposed to TIMESTAMP")
	chainID     = flag.Uint64("chain-id", 0, "Chain ID exposed to CHAINID")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// Exit codes: 0 returned, 1 reverted, 2 fatal error.
const (
	exitReturned = 0
	exitReverted = 1
	exitFatal    = 2
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("X1-EVM %s (%s)\n", Version, GitCommit)
		os.Exit(0)
	}

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	// Deferred store closes must run before the process exits, so the
	// exit code travels out of run.
	os.Exit(run())
}

func run() int {
	code, err := loadCode()
	if err != nil {
		log.Printf("load code: %v", err)
		return exitFatal
	}
	input, err := decodeHexFlag(*inputHex)
	if err != nil {
		log.Printf("decode input: %v", err)
		return exitFatal
	}

	cfg := &evm.Config{
		MaxSteps:  *maxSteps,
		MaxMemory: *maxMemory,
		Block: evm.BlockContext{
			Number:    *blockNumber,
			Timestamp: *timestamp,
			ChainID:   *chainID,
		},
	}
	cfg.Call.Value = *uint256.NewInt(*value)
	if *address != "" {
		if cfg.Call.Address, err = types.AddressFromHex(*address); err != nil {
			log.Printf("parse address: %v", err)
			return exitFatal
		}
	}
	if *caller != "" {
		if cfg.Call.Caller, err = types.AddressFromHex(*caller); err != nil {
			log.Printf("parse caller: %v", err)
			return exitFatal
		}
		cfg.Call.Origin = cfg.Call.Caller
	}

	var logger *evm.StructLogger
	if *trace {
		logger = evm.NewStructLogger()
		cfg.Tracer = logger
	}

	var runs *runstore.Store
	if *dataDir != "" {
		store, err := state.Open(state.DefaultConfig(filepath.Join(*dataDir, "state")))
		if err != nil {
			log.Printf("open state store: %v", err)
			return exitFatal
		}
		defer store.Close()
		cfg.Storage = store.Storage(cfg.Call.Address)

		if *record {
			runs, err = runstore.Open(runstore.DefaultConfig(filepath.Join(*dataDir, "runs.db")))
			if err != nil {
				log.Printf("open run store: %v", err)
				return exitFatal
			}
			defer runs.Close()
		}
	} else if *record {
		log.Print("-record requires -data-dir")
		return exitFatal
	}

	result := evm.Run(code, input, cfg)

	if logger != nil {
		if err := logger.WriteTrace(os.Stderr); err != nil {
			log.Printf("write trace: %v", err)
		}
	}
	if runs != nil {
		key, err := runs.Put(code, input, result)
		if err != nil {
			log.Printf("record outcome: %v", err)
		} else {
			log.Printf("Recorded run %s", key)
		}
	}

	log.Printf("Execution %s", result)
	if len(result.Output) > 0 {
		fmt.Printf("%x\n", result.Output)
	}

	switch {
	case result.Err == nil:
		return exitReturned
	case result.Reverted():
		return exitReverted
	default:
		return exitFatal
	}
}

// loadCode reads the bytecode from -code or -code-file.
func loadCode() ([]byte, error) {
	if *codeHex != "" && *codeFile != "" {
		return nil, fmt.Errorf("-code and -code-file are mutually exclusive")
	}
	raw := *codeHex
	if *codeFile != "" {
		data, err := os.ReadFile(*codeFile)
		if err != nil {
			return nil, err
		}
		raw = strings.TrimSpace(string(data))
	}
	if raw == "" {
		return nil, fmt.Errorf("no bytecode given; use -code or -code-file")
	}
	return decodeHexFlag(raw)
}

func decodeHexFlag(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}
